// Package fetch downloads individual targets through an Engine.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vmunix/ytjar/internal/targets"
)

// Fetcher runs one target at a time against an Engine.
type Fetcher struct {
	engine Engine
	log    *slog.Logger
}

// NewFetcher creates a fetcher for engine.
func NewFetcher(engine Engine, log *slog.Logger) *Fetcher {
	if log == nil {
		log = slog.Default()
	}
	return &Fetcher{engine: engine, log: log}
}

// Fetch downloads t into the configured root. Errors never escape: they are
// reported in the returned Outcome. A cancelled ctx yields
// StatusInterrupted. StatusUnavailable is only reported when the
// availability check is enabled; otherwise every engine error is a failure.
func (f *Fetcher) Fetch(ctx context.Context, t targets.Target, cfg Config) Outcome {
	start := time.Now()
	out := f.fetch(ctx, t, cfg)
	out.Duration = time.Since(start)

	attrs := []any{
		"url", t.URL,
		"status", string(out.Status),
		"duration_ms", out.Duration.Milliseconds(),
	}
	if out.Dest != "" {
		attrs = append(attrs, "dest", out.Dest)
	}
	if out.Err != nil {
		attrs = append(attrs, "error", out.Err)
	}
	switch out.Status {
	case StatusSucceeded:
		f.log.Info("fetch complete", attrs...)
	case StatusUnavailable:
		f.log.Warn("content unavailable", attrs...)
	case StatusInterrupted:
		f.log.Warn("fetch interrupted", attrs...)
	default:
		f.log.Error("fetch failed", attrs...)
	}
	return out
}

func (f *Fetcher) fetch(ctx context.Context, t targets.Target, cfg Config) Outcome {
	out := Outcome{Target: t}
	if err := ctx.Err(); err != nil {
		return f.interrupted(out, OpDownload, err)
	}

	var meta *Metadata
	if cfg.needsProbe() {
		m, err := f.engine.Probe(ctx, f.probeRequest(t, cfg))
		switch {
		case err != nil && ctx.Err() != nil:
			return f.interrupted(out, OpProbe, ctx.Err())
		case err != nil && cfg.CheckAvailability():
			out.Status = StatusUnavailable
			out.Err = &Error{URL: t.URL, Op: OpProbe, Err: err}
			return out
		case err != nil:
			f.log.Warn("metadata probe failed", "url", t.URL, "error", err)
		default:
			meta = m
		}
	}

	if meta != nil {
		out.Title = meta.Title
		if cfg.CheckAvailability() {
			if reason := unavailableReason(meta); reason != "" {
				out.Status = StatusUnavailable
				out.Err = &Error{URL: t.URL, Op: OpProbe, Err: fmt.Errorf("%w: %s", ErrUnavailable, reason)}
				return out
			}
		}
	}

	out.Dest = filepath.Join(cfg.Root(), t.Subdir)
	if cfg.GroupByUploader() {
		out.Label = SanitizeLabel(meta.Label())
		out.Dest = filepath.Join(out.Dest, out.Label)
	}
	if err := os.MkdirAll(out.Dest, 0755); err != nil {
		out.Status = StatusFailed
		out.Err = &Error{URL: t.URL, Op: OpPrepare, Err: err}
		return out
	}

	dl, err := f.engine.Download(ctx, f.downloadRequest(t, cfg, out.Dest))
	switch {
	case err != nil && ctx.Err() != nil:
		return f.interrupted(out, OpDownload, ctx.Err())
	case err != nil && cfg.CheckAvailability() && errors.Is(err, ErrUnavailable):
		out.Status = StatusUnavailable
		out.Err = &Error{URL: t.URL, Op: OpDownload, Err: err}
		return out
	case err != nil:
		out.Status = StatusFailed
		out.Err = &Error{URL: t.URL, Op: OpDownload, Err: err}
		return out
	}

	out.Status = StatusSucceeded
	if dl != nil {
		if dl.Title != "" {
			out.Title = dl.Title
		}
		out.File = dl.File
	}
	return out
}

// Formats probes t and returns its available formats without downloading.
func (f *Fetcher) Formats(ctx context.Context, t targets.Target, cfg Config) (*Metadata, error) {
	meta, err := f.engine.Probe(ctx, f.probeRequest(t, cfg))
	if err != nil {
		return nil, &Error{URL: t.URL, Op: OpProbe, Err: err}
	}
	return meta, nil
}

func (f *Fetcher) interrupted(out Outcome, op string, err error) Outcome {
	out.Status = StatusInterrupted
	out.Err = &Error{URL: out.Target.URL, Op: op, Err: err}
	return out
}

func (f *Fetcher) probeRequest(t targets.Target, cfg Config) ProbeRequest {
	return ProbeRequest{URL: t.URL, JarPath: cfg.JarPath(), Proxy: cfg.Proxy()}
}

func (f *Fetcher) downloadRequest(t targets.Target, cfg Config, dest string) DownloadRequest {
	req := DownloadRequest{
		URL:     t.URL,
		JarPath: cfg.JarPath(),
		Proxy:   cfg.Proxy(),
		Output:  filepath.Join(dest, cfg.OutputTemplate()),
		Format:  cfg.Format(),
	}
	if cfg.AudioOnly() {
		req.ExtractAudio = true
		req.AudioCodec = AudioCodec
		req.AudioQuality = cfg.AudioQuality()
	} else {
		req.MergeFormat = MergeFormat
	}
	return req
}

func unavailableReason(m *Metadata) string {
	switch {
	case m.LiveStatus == LiveStatusUpcoming:
		return "scheduled, not yet live"
	case m.Availability == AvailabilityPrivate:
		return "private"
	}
	return ""
}
