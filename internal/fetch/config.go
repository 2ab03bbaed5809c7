package fetch

import (
	"fmt"
	"strings"
)

// Format selectors passed to the engine.
const (
	VideoFormat = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"
	AudioFormat = "bestaudio[ext=m4a]/bestaudio"

	// AudioCodec is the container audio-only downloads are converted to.
	AudioCodec = "mp3"
	// MergeFormat is the container separate video and audio streams are
	// merged into.
	MergeFormat = "mp4"
)

// audioBitrates maps the 0-5 quality ordinal to a target bitrate,
// best first.
var audioBitrates = [...]string{"320K", "256K", "192K", "160K", "128K", "96K"}

// MaxQuality is the largest accepted quality ordinal.
const MaxQuality = len(audioBitrates) - 1

// Options is the user-facing input to NewConfig.
type Options struct {
	Root              string
	JarPath           string
	Proxy             string
	OutputTemplate    string
	AudioOnly         bool
	Quality           int
	GroupByUploader   bool
	CheckAvailability bool
}

// Config is a validated set of fetch options, immutable for the duration of
// a batch. Build it with NewConfig.
type Config struct {
	opts Options
}

// NewConfig validates opts. Proxy whitespace is trimmed and an empty proxy
// means none.
func NewConfig(opts Options) (Config, error) {
	opts.Proxy = strings.TrimSpace(opts.Proxy)

	var problems []string
	if strings.TrimSpace(opts.Root) == "" {
		problems = append(problems, "download root is required")
	}
	if strings.TrimSpace(opts.JarPath) == "" {
		problems = append(problems, "cookie jar path is required")
	}
	if strings.TrimSpace(opts.OutputTemplate) == "" {
		problems = append(problems, "output template is required")
	}
	if opts.Quality < 0 || opts.Quality > MaxQuality {
		problems = append(problems, fmt.Sprintf("quality must be between 0 and %d, got %d", MaxQuality, opts.Quality))
	}
	if len(problems) > 0 {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return Config{opts: opts}, nil
}

func (c Config) Root() string            { return c.opts.Root }
func (c Config) JarPath() string         { return c.opts.JarPath }
func (c Config) Proxy() string           { return c.opts.Proxy }
func (c Config) OutputTemplate() string  { return c.opts.OutputTemplate }
func (c Config) AudioOnly() bool         { return c.opts.AudioOnly }
func (c Config) Quality() int            { return c.opts.Quality }
func (c Config) GroupByUploader() bool   { return c.opts.GroupByUploader }
func (c Config) CheckAvailability() bool { return c.opts.CheckAvailability }

// Format returns the engine format selector for the configured mode.
func (c Config) Format() string {
	if c.opts.AudioOnly {
		return AudioFormat
	}
	return VideoFormat
}

// AudioQuality returns the bitrate for the configured quality ordinal.
func (c Config) AudioQuality() string {
	return QualityBitrate(c.opts.Quality)
}

// QualityBitrate maps a quality ordinal to its bitrate. Out-of-range values
// clamp to the nearest end.
func QualityBitrate(q int) string {
	if q < 0 {
		q = 0
	}
	if q > MaxQuality {
		q = MaxQuality
	}
	return audioBitrates[q]
}

// needsProbe reports whether a metadata probe must run before downloading.
func (c Config) needsProbe() bool {
	return c.opts.GroupByUploader || c.opts.CheckAvailability
}
