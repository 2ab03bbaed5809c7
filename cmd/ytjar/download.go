package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/ytjar/internal/batch"
	"github.com/vmunix/ytjar/internal/config"
	"github.com/vmunix/ytjar/internal/fetch"
	"github.com/vmunix/ytjar/internal/platform"
	"github.com/vmunix/ytjar/internal/targets"
)

const defaultInputFile = "urls.txt"

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download every URL in the input file",
	Long: `Refresh the cookie jar from the browser, then download each URL in order.

The input file holds one URL per line, optionally followed by a
subdirectory of the download root. Blank lines and lines starting with #
are ignored; anything that is not a YouTube URL is skipped with a warning.

Examples:
  ytjar download                          # read urls.txt
  ytjar download --file list.txt --audio  # MP3 at the best quality
  ytjar download --url https://youtu.be/x --audio --quality 3
  ytjar download --group                  # one directory per uploader`,
	Args: cobra.NoArgs,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	addTargetFlags(downloadCmd)
	addDownloadFlags(downloadCmd)
}

func addDownloadFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("audio", false, "Download audio only and convert to mp3")
	cmd.Flags().Int("quality", 0, "Audio quality 0 (best, 320K) to 5 (96K)")
	cmd.Flags().Bool("group", false, "Store files in a directory per uploader")
	cmd.Flags().Bool("check-availability", false, "Probe each URL first and skip private or upcoming videos")
	cmd.Flags().Bool("no-progress", false, "Disable progress bars")
}

func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", defaultInputFile, "Input file with one URL per line")
	cmd.Flags().StringP("url", "u", "", "Single URL instead of an input file")
	cmd.MarkFlagsMutuallyExclusive("file", "url")
}

func runDownload(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	log := newLogger(cfg.Log.Level, os.Stderr)

	opts, err := downloadOptions(cmd, cfg)
	if err != nil {
		return err
	}
	fcfg, err := fetch.NewConfig(opts)
	if err != nil {
		return configError(err)
	}

	ts, warnings, err := loadTargets(cmd, os.Stderr, log)
	if err != nil {
		return err
	}

	var progress io.Writer = os.Stderr
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); noProgress || jsonOutput {
		progress = nil
	}
	a, err := newApp(cfg, log, progress)
	if err != nil {
		return err
	}
	defer a.Close()

	start := time.Now()
	var res batch.Result
	interrupted, err := runInterruptible(cmd.Context(), os.Stderr, func(ctx context.Context) error {
		var runErr error
		res, runErr = a.runner.Run(ctx, ts, fcfg)
		return runErr
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(os.Stdout, newSummaryJSON(res, warnings))
	} else {
		printSummary(os.Stdout, res, time.Since(start))
	}

	switch {
	case interrupted || res.Cancelled:
		return errInterrupted
	case res.Failed > 0:
		return &exitError{code: exitFailed, err: fmt.Errorf("%d of %d items failed", res.Failed, res.Total)}
	}
	return nil
}

// downloadOptions merges the command flags over the config file.
func downloadOptions(cmd *cobra.Command, cfg *config.Config) (fetch.Options, error) {
	opts := fetch.Options{
		Root:              cfg.Download.Root,
		JarPath:           cfg.Cookies.Jar,
		Proxy:             cfg.Download.Proxy,
		OutputTemplate:    cfg.Download.OutputTemplate,
		Quality:           cfg.Download.AudioQuality,
		GroupByUploader:   cfg.Download.GroupByUploader,
		CheckAvailability: cfg.Download.CheckAvailability,
	}

	flags := cmd.Flags()
	opts.AudioOnly, _ = flags.GetBool("audio")
	if flags.Changed("quality") {
		opts.Quality, _ = flags.GetInt("quality")
		if opts.Quality < 0 || opts.Quality > fetch.MaxQuality {
			return opts, configError(fmt.Errorf("--quality: must be between 0 and %d, got %d", fetch.MaxQuality, opts.Quality))
		}
	}
	if flags.Changed("group") {
		opts.GroupByUploader, _ = flags.GetBool("group")
	}
	if flags.Changed("check-availability") {
		opts.CheckAvailability, _ = flags.GetBool("check-availability")
	}
	return opts, nil
}

// loadTargets reads --url or --file. Dropped lines are printed to w. An
// input with no usable URL is an error.
func loadTargets(cmd *cobra.Command, w io.Writer, log *slog.Logger) ([]targets.Target, []targets.Warning, error) {
	p := platform.YouTube()

	if raw, _ := cmd.Flags().GetString("url"); raw != "" {
		t, err := targets.Single(raw, p)
		if err != nil {
			return nil, nil, configError(err)
		}
		return []targets.Target{t}, nil, nil
	}

	path, _ := cmd.Flags().GetString("file")
	ts, warnings, err := targets.ReadFile(path, p)
	if err != nil {
		return nil, nil, configError(err)
	}
	for _, warn := range warnings {
		fmt.Fprintf(w, "warning: %s: %v\n", path, warn)
	}
	log.Info("input loaded", "path", path, "targets", len(ts), "skipped", len(warnings))

	if len(ts) == 0 {
		return nil, warnings, &exitError{code: exitFailed, err: fmt.Errorf("%s: no valid %s URLs", path, p.Name)}
	}
	return ts, warnings, nil
}
