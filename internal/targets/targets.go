// Package targets reads and validates the list of URLs to fetch.
package targets

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/vmunix/ytjar/internal/platform"
)

// suggestThreshold is the minimum Jaro-Winkler similarity between a rejected
// host and an allowed one before a correction is offered.
const suggestThreshold = 0.85

// Target is one URL to fetch.
type Target struct {
	URL    string
	Subdir string // optional, relative to the download root
	Line   int    // 1-based line in the input file, 0 for --url
}

// Warning describes an input line that was dropped. It is never fatal for a
// batch; as an error it is only returned for a single --url target.
type Warning struct {
	Line       int
	Text       string
	Reason     string
	Suggestion string
}

func (w Warning) Error() string {
	var b strings.Builder
	if w.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", w.Line)
	}
	fmt.Fprintf(&b, "%s: %q", w.Reason, w.Text)
	if w.Suggestion != "" {
		fmt.Fprintf(&b, " (did you mean %s?)", w.Suggestion)
	}
	return b.String()
}

// ReadFile parses the input file at path.
func ReadFile(path string, p platform.Platform) ([]Target, []Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f, p)
}

// Parse reads one target per line: a URL optionally followed by whitespace
// and a destination subdirectory. Blank lines and # comments are skipped.
// Every other line that fails validation yields exactly one Warning. Order
// is preserved and duplicates are kept.
func Parse(r io.Reader, p platform.Platform) ([]Target, []Warning, error) {
	var targets []Target
	var warnings []Warning

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if line == 1 {
			text = strings.TrimPrefix(text, "\uFEFF")
		}
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		t, w := parseLine(text, line, p)
		if w != nil {
			warnings = append(warnings, *w)
			continue
		}
		targets = append(targets, t)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read input: %w", err)
	}

	return targets, warnings, nil
}

// Single validates a URL given on the command line.
func Single(raw string, p platform.Platform) (Target, error) {
	t, w := parseLine(strings.TrimSpace(raw), 0, p)
	if w != nil {
		return Target{}, *w
	}
	return t, nil
}

func parseLine(text string, line int, p platform.Platform) (Target, *Warning) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Target{}, &Warning{Line: line, Text: text, Reason: "empty URL"}
	}
	if len(fields) > 2 {
		return Target{}, &Warning{Line: line, Text: text, Reason: "expected a URL and an optional subdirectory"}
	}

	raw := fields[0]
	if !p.AllowsURL(raw) {
		return Target{}, &Warning{
			Line:       line,
			Text:       raw,
			Reason:     "not a " + p.Name + " URL",
			Suggestion: suggest(raw, p),
		}
	}
	if _, err := url.Parse(raw); err != nil {
		return Target{}, &Warning{Line: line, Text: raw, Reason: "malformed URL"}
	}

	t := Target{URL: raw, Line: line}
	if len(fields) == 2 {
		subdir, ok := cleanSubdir(fields[1])
		if !ok {
			return Target{}, &Warning{Line: line, Text: fields[1], Reason: "subdirectory must be a relative path inside the download root"}
		}
		t.Subdir = subdir
	}
	return t, nil
}

// cleanSubdir rejects absolute paths and anything escaping the root.
func cleanSubdir(s string) (string, bool) {
	s = filepath.ToSlash(s)
	if path.IsAbs(s) || filepath.IsAbs(s) || filepath.VolumeName(s) != "" {
		return "", false
	}
	c := path.Clean(s)
	if c == "." || c == ".." || strings.HasPrefix(c, "../") {
		return "", false
	}
	return filepath.FromSlash(c), true
}

// suggest proposes a corrected URL for near misses: plain http, or a host
// that is a likely typo of an allowed one.
func suggest(raw string, p platform.Platform) string {
	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" {
		return ""
	}

	host := strings.ToLower(u.Host)
	best, bestScore := "", float32(0)
	for _, h := range p.Hosts() {
		score := edlib.JaroWinklerSimilarity(host, h)
		if score > bestScore {
			best, bestScore = h, score
		}
	}
	if bestScore < suggestThreshold {
		return ""
	}

	u.Scheme = "https"
	u.Host = best
	fixed := u.String()
	if fixed == raw || !p.AllowsURL(fixed) {
		return ""
	}
	return fixed
}
