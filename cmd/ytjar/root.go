package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/ytjar/internal/config"
	"github.com/vmunix/ytjar/internal/cookies"
)

var version = "dev"

var (
	configPath string
	logLevel   string
	jsonOutput bool
)

// Process exit codes.
const (
	exitOK          = 0
	exitFailed      = 1
	exitConfig      = 2
	exitCredentials = 3
	exitInterrupted = 130
)

// errInterrupted is returned by commands stopped by SIGINT or SIGTERM. The
// notice has already been printed.
var errInterrupted = errors.New("interrupted")

// exitError carries an explicit exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func configError(err error) error {
	return &exitError{code: exitConfig, err: err}
}

var rootCmd = &cobra.Command{
	Use:   "ytjar",
	Short: "Batch-download YouTube URLs with your browser session",
	Long: `ytjar - batch downloader for YouTube using your signed-in browser session

Cookies are read from a browser profile's cookie database, filtered down to
the YouTube session, and written to a Netscape cookie jar that yt-dlp uses
for every URL in the batch.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return exitOK
	}
	if !errors.Is(err, errInterrupted) {
		var cfgErr *config.Error
		if errors.As(err, &cfgErr) {
			printConfigErrors(os.Stderr, cfgErr)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	var exitErr *exitError
	var cfgErr *config.Error
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errInterrupted):
		return exitInterrupted
	case errors.As(err, &exitErr):
		return exitErr.code
	case errors.As(err, &cfgErr):
		return exitConfig
	case cookies.IsCredentialError(err):
		return exitCredentials
	default:
		return exitFailed
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: discovered)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return configError(fmt.Errorf("%w\nRun '%s --help' for usage", err, cmd.CommandPath()))
	})

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("ytjar {{.Version}}\n")
}

// loadConfig finds and loads the configuration. A missing file is fine:
// settings then come from the environment. All failures are configuration
// errors.
func loadConfig(validate bool) (*config.Config, error) {
	path := configPath
	if path == "" {
		p, err := config.Discover()
		switch {
		case err == nil:
			path = p
		case errors.Is(err, config.ErrNotFound):
		default:
			return nil, configError(err)
		}
	}

	load := config.LoadWithoutValidation
	if validate {
		load = config.Load
	}
	cfg, err := load(path)
	if err != nil {
		var cfgErr *config.Error
		if errors.As(err, &cfgErr) {
			return nil, cfgErr
		}
		return nil, configError(err)
	}

	if logLevel != "" {
		lvl := strings.ToLower(logLevel)
		if lvl != "debug" && lvl != "info" && lvl != "warn" && lvl != "error" {
			return nil, configError(fmt.Errorf("--log-level: must be one of debug, info, warn, error; got %q", logLevel))
		}
		cfg.Log.Level = lvl
	}
	return cfg, nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))
}
