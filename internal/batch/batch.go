// Package batch runs a list of targets through the fetcher after refreshing
// the cookie jar once.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmunix/ytjar/internal/cookies"
	"github.com/vmunix/ytjar/internal/fetch"
	"github.com/vmunix/ytjar/internal/history"
	"github.com/vmunix/ytjar/internal/targets"
)

// Preparer refreshes the cookie jar.
type Preparer interface {
	Prepare(ctx context.Context) (*cookies.Summary, error)
}

// Fetcher fetches single targets.
type Fetcher interface {
	Fetch(ctx context.Context, t targets.Target, cfg fetch.Config) fetch.Outcome
	Formats(ctx context.Context, t targets.Target, cfg fetch.Config) (*fetch.Metadata, error)
}

// Recorder persists run history. *history.Store implements it.
type Recorder interface {
	StartRun(mode string, total int) (*history.Run, error)
	AddItem(it *history.Item) error
	FinishRun(r *history.Run) error
}

// Result summarizes a batch.
type Result struct {
	Total       int
	Succeeded   int
	Failed      int
	Unavailable int
	Interrupted int
	// Partial lists URLs interrupted mid-fetch; their destination may hold
	// an incomplete file.
	Partial []string
	// Cancelled is set when the batch stopped before reaching every target.
	Cancelled bool
	Outcomes  []fetch.Outcome
	RunID     string
}

// Attempted is the number of targets the batch started.
func (r Result) Attempted() int {
	return r.Succeeded + r.Failed + r.Unavailable + r.Interrupted
}

// OK reports whether every target succeeded.
func (r Result) OK() bool {
	return !r.Cancelled && r.Succeeded == r.Total
}

func (r *Result) add(o fetch.Outcome) {
	switch o.Status {
	case fetch.StatusSucceeded:
		r.Succeeded++
	case fetch.StatusUnavailable:
		r.Unavailable++
	case fetch.StatusInterrupted:
		r.Interrupted++
		r.Partial = append(r.Partial, o.Target.URL)
	default:
		r.Failed++
	}
	r.Outcomes = append(r.Outcomes, o)
}

// Runner executes batches sequentially.
type Runner struct {
	cookies  Preparer
	fetcher  Fetcher
	recorder Recorder
	log      *slog.Logger
}

// NewRunner creates a runner.
func NewRunner(p Preparer, f Fetcher, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{cookies: p, fetcher: f, log: log}
}

// SetRecorder enables run history. A nil recorder disables it.
func (r *Runner) SetRecorder(rec Recorder) {
	r.recorder = rec
}

// Run refreshes the jar once, then fetches every target in order. Only a
// jar refresh failure is returned as an error, together with a Result that
// has Total set and nothing attempted. Per-item failures are counted.
// Cancelling ctx stops the batch before the next target.
func (r *Runner) Run(ctx context.Context, ts []targets.Target, cfg fetch.Config) (Result, error) {
	res := Result{Total: len(ts)}
	start := time.Now()

	rec := r.startRun(cfg, len(ts))
	if rec != nil {
		res.RunID = rec.ID
	}

	if err := ctx.Err(); err != nil {
		res.Cancelled = true
		r.finishRun(rec, res, nil)
		return res, nil
	}
	if _, err := r.cookies.Prepare(ctx); err != nil {
		r.finishRun(rec, res, err)
		return res, fmt.Errorf("refresh cookie jar: %w", err)
	}

	for i, t := range ts {
		if ctx.Err() != nil {
			res.Cancelled = true
			r.log.Warn("batch cancelled", "remaining", len(ts)-i)
			break
		}

		r.log.Info("fetching", "item", i+1, "of", len(ts), "url", t.URL)
		out := r.fetcher.Fetch(ctx, t, cfg)
		res.add(out)
		r.recordItem(rec, i+1, out)

		if out.Status == fetch.StatusInterrupted {
			res.Cancelled = true
			break
		}
	}

	r.finishRun(rec, res, nil)
	r.log.Info("batch complete",
		"total", res.Total,
		"succeeded", res.Succeeded,
		"failed", res.Failed,
		"unavailable", res.Unavailable,
		"interrupted", res.Interrupted,
		"duration_ms", time.Since(start).Milliseconds())
	return res, nil
}

func (r *Runner) startRun(cfg fetch.Config, total int) *history.Run {
	if r.recorder == nil {
		return nil
	}
	mode := history.ModeVideo
	if cfg.AudioOnly() {
		mode = history.ModeAudio
	}
	run, err := r.recorder.StartRun(mode, total)
	if err != nil {
		r.log.Warn("history disabled for this run", "error", err)
		return nil
	}
	return run
}

func (r *Runner) recordItem(run *history.Run, pos int, o fetch.Outcome) {
	if run == nil {
		return
	}
	it := &history.Item{
		RunID:      run.ID,
		Position:   pos,
		URL:        o.Target.URL,
		Status:     string(o.Status),
		Title:      o.Title,
		Dest:       o.Dest,
		File:       o.File,
		DurationMS: o.Duration.Milliseconds(),
	}
	if o.Err != nil {
		it.Error = o.Err.Error()
	}
	if err := r.recorder.AddItem(it); err != nil {
		r.log.Warn("record item failed", "url", o.Target.URL, "error", err)
	}
}

func (r *Runner) finishRun(run *history.Run, res Result, runErr error) {
	if run == nil {
		return
	}
	run.Total = res.Total
	run.Succeeded = res.Succeeded
	run.Failed = res.Failed
	run.Unavailable = res.Unavailable
	run.Interrupted = res.Interrupted
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := r.recorder.FinishRun(run); err != nil {
		r.log.Warn("record run failed", "run", run.ID, "error", err)
	}
}
