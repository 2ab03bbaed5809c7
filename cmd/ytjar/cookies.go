package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/ytjar/internal/cookies"
)

var cookiesCmd = &cobra.Command{
	Use:   "cookies",
	Short: "Refresh the cookie jar without downloading",
	Long: `Read the browser cookie store, keep the YouTube session cookies and
rewrite the Netscape cookie jar. Cookie values are never printed.`,
	Args: cobra.NoArgs,
	RunE: runCookies,
}

func init() {
	rootCmd.AddCommand(cookiesCmd)
}

type cookiesJSON struct {
	Path     string   `json:"path"`
	Read     int      `json:"read"`
	Retained int      `json:"retained"`
	Written  int      `json:"written"`
	Names    []string `json:"names"`
}

func runCookies(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	log := newLogger(cfg.Log.Level, os.Stderr)

	a, err := newApp(cfg, log, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	var sum *cookies.Summary
	interrupted, err := runInterruptible(cmd.Context(), os.Stderr, func(ctx context.Context) error {
		var prepErr error
		sum, prepErr = a.preparer.Prepare(ctx)
		return prepErr
	})
	if interrupted {
		return errInterrupted
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(os.Stdout, cookiesJSON{
			Path:     sum.Path,
			Read:     sum.Read,
			Retained: sum.Retained,
			Written:  sum.Written,
			Names:    sum.Names,
		})
		return nil
	}
	printCookieSummary(os.Stdout, sum)
	return nil
}

func printCookieSummary(w io.Writer, sum *cookies.Summary) {
	fmt.Fprintf(w, "Wrote %d cookies to %s\n", sum.Written, sum.Path)
	fmt.Fprintf(w, "  Read:     %d\n", sum.Read)
	fmt.Fprintf(w, "  Session:  %d\n", sum.Retained)
	fmt.Fprintf(w, "  Names:    %s\n", strings.Join(sum.Names, ", "))
}
