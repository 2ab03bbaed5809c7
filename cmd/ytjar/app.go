package main

import (
	"io"
	"log/slog"

	"github.com/vmunix/ytjar/internal/batch"
	"github.com/vmunix/ytjar/internal/config"
	"github.com/vmunix/ytjar/internal/cookies"
	"github.com/vmunix/ytjar/internal/engine/ytdlp"
	"github.com/vmunix/ytjar/internal/fetch"
	"github.com/vmunix/ytjar/internal/history"
	"github.com/vmunix/ytjar/internal/platform"
)

// app holds the components one command invocation needs.
type app struct {
	preparer *cookies.Preparer
	fetcher  *fetch.Fetcher
	runner   *batch.Runner
	history  *history.Store
}

// newApp wires the components from cfg. progress receives download progress
// bars; nil disables them. History problems are logged and never fatal.
func newApp(cfg *config.Config, log *slog.Logger, progress io.Writer) (*app, error) {
	src, err := cookies.NewBrowserSource(cfg.Cookies.Browser, cfg.Cookies.Store, log.With("component", "cookies"))
	if err != nil {
		return nil, configError(err)
	}

	a := &app{}
	a.preparer = cookies.NewPreparer(src, platform.YouTube(), cfg.Cookies.Jar, log.With("component", "cookies"))

	engine := ytdlp.New(ytdlp.Options{
		Executable: cfg.YtDlp.Executable,
		Progress:   progress,
	}, log.With("component", "ytdlp"))
	a.fetcher = fetch.NewFetcher(engine, log.With("component", "fetch"))
	a.runner = batch.NewRunner(a.preparer, a.fetcher, log.With("component", "batch"))

	if !cfg.History.Disabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			log.Warn("run history unavailable", "path", cfg.History.Path, "error", err)
		} else {
			a.history = store
			a.runner.SetRecorder(store)
		}
	}
	return a, nil
}

func (a *app) Close() {
	if a.history != nil {
		_ = a.history.Close()
	}
}
