package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/ytjar/internal/batch"
	"github.com/vmunix/ytjar/internal/fetch"
	"github.com/vmunix/ytjar/internal/targets"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the available formats without downloading",
	Long: `Refresh the cookie jar, then print the formats yt-dlp reports for each URL.

Examples:
  ytjar formats --url https://www.youtube.com/watch?v=abc
  ytjar formats --file urls.txt`,
	Args: cobra.NoArgs,
	RunE: runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
	addTargetFlags(formatsCmd)
}

func runFormats(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	log := newLogger(cfg.Log.Level, os.Stderr)

	fcfg, err := fetch.NewConfig(fetch.Options{
		Root:           cfg.Download.Root,
		JarPath:        cfg.Cookies.Jar,
		Proxy:          cfg.Download.Proxy,
		OutputTemplate: cfg.Download.OutputTemplate,
	})
	if err != nil {
		return configError(err)
	}

	ts, _, err := loadTargets(cmd, os.Stderr, log)
	if err != nil {
		return err
	}

	a, err := newApp(cfg, log, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	var res batch.Result
	interrupted, err := runInterruptible(cmd.Context(), os.Stderr, func(ctx context.Context) error {
		var runErr error
		if jsonOutput {
			res, runErr = listFormatsJSON(ctx, a, ts, fcfg)
			return runErr
		}
		res, runErr = a.runner.ListFormats(ctx, ts, fcfg, os.Stdout)
		return runErr
	})
	if err != nil {
		return err
	}
	if interrupted || res.Cancelled {
		return errInterrupted
	}
	if res.Failed > 0 {
		return &exitError{code: exitFailed, err: fmt.Errorf("%d of %d URLs could not be probed", res.Failed, res.Total)}
	}
	return nil
}

type formatJSON struct {
	ID         string  `json:"id"`
	Ext        string  `json:"ext"`
	Resolution string  `json:"resolution,omitempty"`
	FPS        float64 `json:"fps,omitempty"`
	VCodec     string  `json:"vcodec,omitempty"`
	ACodec     string  `json:"acodec,omitempty"`
	Bitrate    float64 `json:"bitrate_kbps,omitempty"`
	Filesize   int64   `json:"filesize,omitempty"`
	Note       string  `json:"note,omitempty"`
}

type listingJSON struct {
	URL     string       `json:"url"`
	Title   string       `json:"title,omitempty"`
	Error   string       `json:"error,omitempty"`
	Formats []formatJSON `json:"formats"`
}

func newListingJSON(l batch.Listing) listingJSON {
	out := listingJSON{URL: l.Target.URL, Formats: []formatJSON{}}
	if l.Err != nil {
		out.Error = l.Err.Error()
		return out
	}
	out.Title = l.Meta.Title
	for _, f := range l.Meta.Formats {
		out.Formats = append(out.Formats, formatJSON(f))
	}
	return out
}

func listFormatsJSON(ctx context.Context, a *app, ts []targets.Target, cfg fetch.Config) (batch.Result, error) {
	listings := make([]listingJSON, 0, len(ts))
	res, err := a.runner.EachFormats(ctx, ts, cfg, func(l batch.Listing) error {
		listings = append(listings, newListingJSON(l))
		return nil
	})
	if err != nil {
		return res, err
	}
	printJSON(os.Stdout, listings)
	return res, nil
}
