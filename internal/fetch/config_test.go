package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOptions() Options {
	return Options{
		Root:           "/tmp/downloads",
		JarPath:        "/tmp/jar.txt",
		OutputTemplate: "%(title)s.%(ext)s",
	}
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(validOptions())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/downloads", cfg.Root())
	assert.Equal(t, "", cfg.Proxy())
	assert.Equal(t, 0, cfg.Quality())
	assert.False(t, cfg.AudioOnly())
}

func TestNewConfig_TrimsProxy(t *testing.T) {
	opts := validOptions()
	opts.Proxy = "   "
	cfg, err := NewConfig(opts)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Proxy())

	opts.Proxy = " socks5://127.0.0.1:1080 "
	cfg, err = NewConfig(opts)
	require.NoError(t, err)
	assert.Equal(t, "socks5://127.0.0.1:1080", cfg.Proxy())
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		want   string
	}{
		{"missing root", func(o *Options) { o.Root = "" }, "download root"},
		{"missing jar", func(o *Options) { o.JarPath = " " }, "cookie jar"},
		{"missing template", func(o *Options) { o.OutputTemplate = "" }, "output template"},
		{"quality too low", func(o *Options) { o.Quality = -1 }, "quality must be between 0 and 5"},
		{"quality too high", func(o *Options) { o.Quality = 6 }, "got 6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(&opts)
			_, err := NewConfig(opts)
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_FormatDependsOnMode(t *testing.T) {
	video, err := NewConfig(validOptions())
	require.NoError(t, err)

	opts := validOptions()
	opts.AudioOnly = true
	audio, err := NewConfig(opts)
	require.NoError(t, err)

	assert.Equal(t, VideoFormat, video.Format())
	assert.Equal(t, AudioFormat, audio.Format())
	assert.NotEqual(t, video.Format(), audio.Format())
}

func TestQualityBitrate_DistinctAndStable(t *testing.T) {
	seen := make(map[string]int)
	for q := 0; q <= MaxQuality; q++ {
		b := QualityBitrate(q)
		assert.Equal(t, b, QualityBitrate(q), "stable for %d", q)
		prev, dup := seen[b]
		assert.False(t, dup, "quality %d maps to the same bitrate as %d", q, prev)
		seen[b] = q
	}
	assert.Len(t, seen, 6)
	assert.Equal(t, "320K", QualityBitrate(0))
	assert.Equal(t, "96K", QualityBitrate(5))
	assert.Equal(t, "96K", QualityBitrate(9))
	assert.Equal(t, "320K", QualityBitrate(-3))
}
