// Package ytdlp implements fetch.Engine on top of the yt-dlp executable.
package ytdlp

import (
	"context"
	"io"
	"log/slog"
	"time"

	goytdlp "github.com/lrstanley/go-ytdlp"

	"github.com/vmunix/ytjar/internal/fetch"
)

const progressInterval = 250 * time.Millisecond

// Options configures the engine.
type Options struct {
	// Executable overrides the yt-dlp binary; empty resolves it from PATH.
	Executable string
	// Progress receives a progress bar per download; nil disables it.
	Progress io.Writer
}

// Engine runs yt-dlp once per probe or download.
type Engine struct {
	executable string
	progress   io.Writer
	log        *slog.Logger
}

var _ fetch.Engine = (*Engine)(nil)

// New creates an engine.
func New(opts Options, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{executable: opts.Executable, progress: opts.Progress, log: log}
}

func (e *Engine) command(jar, proxy string) *goytdlp.Command {
	dl := goytdlp.New().NoPlaylist()
	if e.executable != "" {
		dl = dl.SetExecutable(e.executable)
	}
	if jar != "" {
		dl = dl.Cookies(jar)
	}
	if proxy != "" {
		dl = dl.Proxy(proxy)
	}
	return dl
}

// Probe extracts metadata and the format list without downloading.
func (e *Engine) Probe(ctx context.Context, req fetch.ProbeRequest) (*fetch.Metadata, error) {
	dl := e.command(req.JarPath, req.Proxy).SkipDownload().DumpSingleJSON()

	start := time.Now()
	res, err := dl.Run(ctx, req.URL)
	if err != nil {
		return nil, classify(err, stderr(res))
	}
	e.log.Debug("probe complete", "url", req.URL, "duration_ms", time.Since(start).Milliseconds())

	return parseMetadata(res.Stdout)
}

// Download fetches req.URL into req.Output.
func (e *Engine) Download(ctx context.Context, req fetch.DownloadRequest) (*fetch.Download, error) {
	dl := e.command(req.JarPath, req.Proxy).
		Output(req.Output).
		Format(req.Format).
		PrintJSON()
	if req.ExtractAudio {
		dl = dl.ExtractAudio().AudioFormat(req.AudioCodec).AudioQuality(req.AudioQuality)
	}
	if req.MergeFormat != "" {
		dl = dl.MergeOutputFormat(req.MergeFormat)
	}

	if e.progress != nil {
		p := newProgress(e.progress)
		defer p.finish()
		dl = dl.ProgressFunc(progressInterval, p.update)
	}

	res, err := dl.Run(ctx, req.URL)
	if err != nil {
		return nil, classify(err, stderr(res))
	}
	return parseDownload(res.Stdout), nil
}

func stderr(res *goytdlp.Result) string {
	if res == nil {
		return ""
	}
	return res.Stderr
}
