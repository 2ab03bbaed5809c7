package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/ytjar/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates the config file syntax, required fields and environment variable substitution without touching the browser or the network.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		configPath = args[0]
	}
	shown := configPath
	if shown == "" {
		shown = "(discovered)"
	}
	fmt.Printf("Validating %s...\n\n", shown)

	cfg, err := loadConfig(true)
	if err != nil {
		var cfgErr *config.Error
		if errors.As(err, &cfgErr) {
			printConfigErrors(os.Stdout, cfgErr)
			return &exitError{code: exitConfig, err: errors.New("configuration invalid")}
		}
		return err
	}

	printConfigSummary(os.Stdout, cfg)
	fmt.Println("\nConfiguration valid!")
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")
	err := config.WriteDefault(path, force)
	if errors.Is(err, config.ErrExists) {
		return fmt.Errorf("%w (use --force to overwrite)", err)
	}
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func printConfigErrors(w io.Writer, e *config.Error) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}

	if len(e.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, err := range e.Errors {
			fmt.Fprintf(w, "  - %s\n", err)
		}
		fmt.Fprintln(w)
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration Summary:")
	fmt.Fprintf(w, "  Cookies:   %s store %s\n", cfg.Cookies.Browser, cfg.Cookies.Store)
	fmt.Fprintf(w, "  Jar:       %s\n", cfg.Cookies.Jar)
	fmt.Fprintf(w, "  Downloads: %s (%s)\n", cfg.Download.Root, cfg.Download.OutputTemplate)
	if cfg.Download.Proxy != "" {
		fmt.Fprintf(w, "  Proxy:     %s\n", cfg.Download.Proxy)
	}
	fmt.Fprintf(w, "  Quality:   %d\n", cfg.Download.AudioQuality)

	var opts []string
	if cfg.Download.GroupByUploader {
		opts = append(opts, "group by uploader")
	}
	if cfg.Download.CheckAvailability {
		opts = append(opts, "check availability")
	}
	if len(opts) > 0 {
		fmt.Fprintf(w, "  Options:   %s\n", strings.Join(opts, ", "))
	}

	exe := cfg.YtDlp.Executable
	if exe == "" {
		exe = "yt-dlp (from PATH)"
	}
	fmt.Fprintf(w, "  yt-dlp:    %s\n", exe)
	if cfg.History.Disabled {
		fmt.Fprintln(w, "  History:   disabled")
	} else {
		fmt.Fprintf(w, "  History:   %s\n", cfg.History.Path)
	}
	fmt.Fprintf(w, "  Log level: %s\n", cfg.Log.Level)
}
