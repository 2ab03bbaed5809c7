package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	store := filepath.Join(t.TempDir(), "Cookies")
	require.NoError(t, os.WriteFile(store, nil, 0600))

	cfg := &Config{Cookies: CookiesConfig{Store: store}}
	cfg.applyDefaults()
	return cfg
}

func hasError(errs []string, prefix string) bool {
	for _, e := range errs {
		if strings.HasPrefix(e, prefix) {
			return true
		}
	}
	return false
}

func TestValidate_MinimalValid(t *testing.T) {
	cfg := validConfig(t)
	assert.Empty(t, cfg.Validate())
}

func TestValidate_InvalidBrowser(t *testing.T) {
	cfg := validConfig(t)
	cfg.Cookies.Browser = "netscape"

	assert.True(t, hasError(cfg.Validate(), "cookies.browser:"))
}

func TestValidate_Proxy(t *testing.T) {
	tests := []struct {
		proxy string
		valid bool
	}{
		{"", true},
		{"http://127.0.0.1:8080", true},
		{"socks5h://localhost:1080", true},
		{"127.0.0.1:8080", false},
		{"ftp://host:21", false},
		{"http://", false},
	}
	for _, tt := range tests {
		t.Run(tt.proxy, func(t *testing.T) {
			cfg := validConfig(t)
			cfg.Download.Proxy = tt.proxy
			assert.Equal(t, !tt.valid, hasError(cfg.Validate(), "download.proxy:"))
		})
	}
}

func TestValidate_AudioQualityRange(t *testing.T) {
	for _, q := range []int{-1, 6, 10} {
		cfg := validConfig(t)
		cfg.Download.AudioQuality = q
		assert.True(t, hasError(cfg.Validate(), "download.audio_quality:"), "quality %d", q)
	}
	for q := 0; q <= MaxAudioQuality; q++ {
		cfg := validConfig(t)
		cfg.Download.AudioQuality = q
		assert.Empty(t, cfg.Validate(), "quality %d", q)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig(t)
	cfg.Log.Level = "verbose"

	assert.True(t, hasError(cfg.Validate(), "log.level:"))
}
