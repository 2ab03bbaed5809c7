package batch

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/vmunix/ytjar/internal/fetch"
	"github.com/vmunix/ytjar/internal/targets"
)

// Listing is the probe result for one target.
type Listing struct {
	Target targets.Target
	Meta   *fetch.Metadata
	Err    error
}

// EachFormats refreshes the jar once, probes every target in order and
// hands each result to fn. Probe failures are counted in Failed and do not
// stop the walk; an error from fn does.
func (r *Runner) EachFormats(ctx context.Context, ts []targets.Target, cfg fetch.Config, fn func(Listing) error) (Result, error) {
	res := Result{Total: len(ts)}

	if _, err := r.cookies.Prepare(ctx); err != nil {
		return res, fmt.Errorf("refresh cookie jar: %w", err)
	}

	for _, t := range ts {
		if ctx.Err() != nil {
			res.Cancelled = true
			break
		}

		meta, err := r.fetcher.Formats(ctx, t, cfg)
		if err != nil {
			if ctx.Err() != nil {
				res.Cancelled = true
				break
			}
			res.Failed++
			r.log.Error("list formats failed", "url", t.URL, "error", err)
		} else {
			res.Succeeded++
		}
		if err := fn(Listing{Target: t, Meta: meta, Err: err}); err != nil {
			return res, err
		}
	}
	return res, nil
}

// ListFormats prints the format table of each target to w.
func (r *Runner) ListFormats(ctx context.Context, ts []targets.Target, cfg fetch.Config, w io.Writer) (Result, error) {
	first := true
	return r.EachFormats(ctx, ts, cfg, func(l Listing) error {
		if !first {
			fmt.Fprintln(w)
		}
		first = false

		if l.Err != nil {
			_, err := fmt.Fprintf(w, "%s\n  error: %v\n", l.Target.URL, l.Err)
			return err
		}
		return WriteFormats(w, l.Target.URL, l.Meta)
	})
}

// WriteFormats prints one target's formats as an aligned table.
func WriteFormats(w io.Writer, url string, meta *fetch.Metadata) error {
	title := meta.Title
	if title == "" {
		title = url
	}
	fmt.Fprintf(w, "%s\n", title)
	if title != url {
		fmt.Fprintf(w, "%s\n", url)
	}
	if len(meta.Formats) == 0 {
		_, err := fmt.Fprintln(w, "  no formats reported")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tEXT\tRESOLUTION\tCODECS\tBITRATE\tSIZE\tNOTE")
	for _, f := range meta.Formats {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			f.ID, f.Ext, dash(f.Resolution), codecs(f), bitrate(f.Bitrate), size(f.Filesize), f.Note)
	}
	return tw.Flush()
}

func codecs(f fetch.Format) string {
	switch {
	case f.AudioOnly():
		return f.ACodec
	case f.VideoOnly():
		return f.VCodec
	case f.VCodec == "" && f.ACodec == "":
		return "-"
	}
	parts := []string{}
	for _, c := range []string{f.VCodec, f.ACodec} {
		if c != "" && c != "none" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, "+")
}

func bitrate(kbps float64) string {
	if kbps <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.0fk", kbps)
}

func size(n int64) string {
	if n <= 0 {
		return "-"
	}
	return humanize.IBytes(uint64(n))
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
