package config

import (
	"fmt"
	"strings"
)

// Error collects every problem found while loading a configuration.
// Callers print Missing and Errors in full; Error() is a one-line summary.
type Error struct {
	Path    string   // empty for env-only config
	Missing []string // unresolved ${VAR} references
	Errors  []string // "field: problem"
}

func (e *Error) Error() string {
	var parts []string
	if n := len(e.Missing); n > 0 {
		parts = append(parts, plural(n, "unresolved variable")+" ("+strings.Join(e.Missing, ", ")+")")
	}
	if n := len(e.Errors); n == 1 {
		parts = append(parts, e.Errors[0])
	} else if n > 1 {
		parts = append(parts, plural(n, "invalid setting"))
	}
	if len(parts) == 0 {
		return ""
	}

	where := e.Path
	if where == "" {
		where = "environment"
	}
	return "config " + where + ": " + strings.Join(parts, "; ")
}

// HasErrors reports whether anything was recorded.
func (e *Error) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
