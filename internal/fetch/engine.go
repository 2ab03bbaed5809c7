package fetch

import "context"

//go:generate mockgen -source=engine.go -destination=mocks/engine_mock.go -package=mocks

// Engine is the media extraction backend.
type Engine interface {
	// Probe extracts metadata without downloading anything.
	Probe(ctx context.Context, req ProbeRequest) (*Metadata, error)
	// Download fetches and post-processes one URL.
	Download(ctx context.Context, req DownloadRequest) (*Download, error)
}

// ProbeRequest is the input to Engine.Probe.
type ProbeRequest struct {
	URL     string
	JarPath string
	Proxy   string
}

// DownloadRequest is the input to Engine.Download.
type DownloadRequest struct {
	URL     string
	JarPath string
	Proxy   string
	// Output is the full output template, destination directory included.
	Output string
	Format string
	// ExtractAudio converts the result to AudioCodec at AudioQuality.
	ExtractAudio bool
	AudioCodec   string
	AudioQuality string
	// MergeFormat is the container for merged video+audio downloads.
	MergeFormat string
}

// Download is what the engine reports after a successful fetch.
type Download struct {
	Title string
	File  string
}

// Metadata is the subset of extractor output ytjar uses.
type Metadata struct {
	ID           string
	Title        string
	Uploader     string
	Channel      string
	LiveStatus   string
	Availability string
	Duration     float64
	Formats      []Format
}

// Live status and availability values reported by the extractor.
const (
	LiveStatusUpcoming  = "is_upcoming"
	AvailabilityPrivate = "private"
)

// Format is one downloadable stream.
type Format struct {
	ID         string
	Ext        string
	Resolution string
	FPS        float64
	VCodec     string
	ACodec     string
	Bitrate    float64 // total, kbit/s
	Filesize   int64
	Note       string
}

// AudioOnly reports whether the format carries no video stream.
func (f Format) AudioOnly() bool {
	return f.VCodec == "none" && f.ACodec != "none" && f.ACodec != ""
}

// VideoOnly reports whether the format carries no audio stream.
func (f Format) VideoOnly() bool {
	return f.ACodec == "none" && f.VCodec != "none" && f.VCodec != ""
}

// Label returns the uploader label used for grouping, preferring the
// uploader over the channel name.
func (m *Metadata) Label() string {
	if m == nil {
		return ""
	}
	if m.Uploader != "" {
		return m.Uploader
	}
	return m.Channel
}
