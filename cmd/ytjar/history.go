package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vmunix/ytjar/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show recent runs",
	Long: `List recent download runs, or the items of one run.

Examples:
  ytjar history               # last 20 runs
  ytjar history --limit 5
  ytjar history 3f2c...       # items of one run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Number of runs to show (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	if cfg.History.Disabled {
		return fmt.Errorf("run history is disabled in the configuration")
	}
	if _, err := os.Stat(cfg.History.Path); errors.Is(err, os.ErrNotExist) {
		fmt.Println("No runs recorded")
		return nil
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if len(args) == 1 {
		return showRun(os.Stdout, store, args[0])
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		printJSON(os.Stdout, runs)
		return nil
	}
	printRuns(os.Stdout, runs, time.Now())
	return nil
}

func showRun(w io.Writer, store *history.Store, id string) error {
	run, err := store.GetRun(id)
	if errors.Is(err, history.ErrNotFound) {
		return fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return err
	}
	items, err := store.Items(id)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(w, map[string]any{"run": run, "items": items})
		return nil
	}
	printRunDetail(w, run, items)
	return nil
}

func printRuns(w io.Writer, runs []*history.Run, now time.Time) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return
	}

	fmt.Fprintf(w, "  %-36s %-5s %-16s %5s %5s %5s %5s  %s\n", "RUN", "MODE", "STARTED", "TOTAL", "OK", "FAIL", "UNAV", "STATE")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 96))
	for _, r := range runs {
		fmt.Fprintf(w, "  %-36s %-5s %-16s %5d %5d %5d %5d  %s\n",
			r.ID, r.Mode, humanize.RelTime(r.StartedAt, now, "ago", "from now"),
			r.Total, r.Succeeded, r.Failed, r.Unavailable, runState(r))
	}
}

func runState(r *history.Run) string {
	switch {
	case r.Error != "":
		return "aborted"
	case r.FinishedAt == nil:
		return "running"
	case r.Interrupted > 0 || r.Succeeded+r.Failed+r.Unavailable+r.Interrupted < r.Total:
		return "interrupted"
	case r.Failed > 0:
		return "failed"
	}
	return "ok"
}

func printRunDetail(w io.Writer, r *history.Run, items []*history.Item) {
	fmt.Fprintf(w, "Run:      %s\n", r.ID)
	fmt.Fprintf(w, "Mode:     %s\n", r.Mode)
	fmt.Fprintf(w, "Started:  %s\n", r.StartedAt.Local().Format(time.DateTime))
	if r.FinishedAt != nil {
		fmt.Fprintf(w, "Took:     %s\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Second))
	}
	fmt.Fprintf(w, "Result:   %d total, %d succeeded, %d failed, %d unavailable (%s)\n",
		r.Total, r.Succeeded, r.Failed, r.Unavailable, runState(r))
	if r.Error != "" {
		fmt.Fprintf(w, "Error:    %s\n", r.Error)
	}
	if len(items) == 0 {
		return
	}

	fmt.Fprintln(w)
	for _, it := range items {
		fmt.Fprintf(w, "  %3d  %-11s %s\n", it.Position, it.Status, it.URL)
		if it.Title != "" {
			fmt.Fprintf(w, "       %s\n", it.Title)
		}
		if it.Error != "" {
			fmt.Fprintf(w, "       %s\n", it.Error)
		}
	}
}
