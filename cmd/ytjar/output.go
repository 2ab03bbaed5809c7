package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/vmunix/ytjar/internal/batch"
	"github.com/vmunix/ytjar/internal/fetch"
	"github.com/vmunix/ytjar/internal/targets"
)

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

type itemJSON struct {
	URL        string `json:"url"`
	Status     string `json:"status"`
	Title      string `json:"title,omitempty"`
	Dest       string `json:"dest,omitempty"`
	File       string `json:"file,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

type summaryJSON struct {
	RunID       string     `json:"run_id,omitempty"`
	Total       int        `json:"total"`
	Succeeded   int        `json:"succeeded"`
	Failed      int        `json:"failed"`
	Unavailable int        `json:"unavailable"`
	Interrupted int        `json:"interrupted"`
	Cancelled   bool       `json:"cancelled"`
	Partial     []string   `json:"partial,omitempty"`
	Items       []itemJSON `json:"items"`
	Warnings    []string   `json:"warnings,omitempty"`
}

func newSummaryJSON(res batch.Result, warnings []targets.Warning) summaryJSON {
	s := summaryJSON{
		RunID:       res.RunID,
		Total:       res.Total,
		Succeeded:   res.Succeeded,
		Failed:      res.Failed,
		Unavailable: res.Unavailable,
		Interrupted: res.Interrupted,
		Cancelled:   res.Cancelled,
		Partial:     res.Partial,
		Items:       make([]itemJSON, 0, len(res.Outcomes)),
	}
	for _, o := range res.Outcomes {
		it := itemJSON{
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
		s.Items = append(s.Items, it)
	}
	for _, w := range warnings {
		s.Warnings = append(s.Warnings, w.Error())
	}
	return s
}

func printSummary(w io.Writer, res batch.Result, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Done in %s: %d total, %d succeeded, %d failed, %d unavailable\n",
		elapsed.Round(time.Second), res.Total, res.Succeeded, res.Failed, res.Unavailable)

	printOutcomes(w, "Failed", res.Outcomes, fetch.StatusFailed)
	printOutcomes(w, "Unavailable", res.Outcomes, fetch.StatusUnavailable)

	if len(res.Partial) > 0 {
		fmt.Fprintln(w, "\nInterrupted (partial files may remain):")
		for _, u := range res.Partial {
			fmt.Fprintf(w, "  %s\n", u)
		}
	}
	if skipped := res.Total - res.Attempted(); res.Cancelled && skipped > 0 {
		fmt.Fprintf(w, "\nNot started: %d\n", skipped)
	}
	if res.RunID != "" {
		fmt.Fprintf(w, "\nRun %s recorded; see 'ytjar history %s'\n", res.RunID, res.RunID)
	}
}

func printOutcomes(w io.Writer, heading string, outcomes []fetch.Outcome, status fetch.Status) {
	var printed bool
	for _, o := range outcomes {
		if o.Status != status {
			continue
		}
		if !printed {
			fmt.Fprintf(w, "\n%s:\n", heading)
			printed = true
		}
		fmt.Fprintf(w, "  %s\n", o.Target.URL)
		if o.Err != nil {
			fmt.Fprintf(w, "    %v\n", o.Err)
		}
	}
}
