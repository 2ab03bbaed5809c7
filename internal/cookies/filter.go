package cookies

import (
	"sort"
	"strings"

	"github.com/vmunix/ytjar/internal/platform"
)

// Filter keeps the session cookies on the platform's cookie domains and
// checks that the session is complete.
//
// Returns ErrNoCredentials when nothing survives the filter and
// *InsufficientError when fewer than p.MinRequired of p.RequiredCookies are
// present.
func Filter(raw []Cookie, p platform.Platform) ([]Cookie, error) {
	var kept []Cookie
	for _, c := range raw {
		if !p.AllowsCookieDomain(c.Domain) || !p.IsSessionCookie(c.Name) {
			continue
		}
		// A tab or newline would corrupt the jar's line format.
		if strings.ContainsAny(c.Name+c.Value+c.Path, "\t\r\n") {
			continue
		}
		kept = append(kept, c)
	}

	if len(kept) == 0 {
		return nil, ErrNoCredentials
	}

	present := make(map[string]bool, len(kept))
	for _, c := range kept {
		present[c.Name] = true
	}
	var found []string
	for _, name := range p.RequiredCookies {
		if present[name] {
			found = append(found, name)
		}
	}
	if len(found) < p.MinRequired {
		return nil, &InsufficientError{Found: found, Required: p.RequiredCookies, Min: p.MinRequired}
	}

	return kept, nil
}

// Primary returns the cookies set exactly on the platform's primary domain,
// sorted by name then path so the jar is stable across runs.
func Primary(cookies []Cookie, p platform.Platform) []Cookie {
	var out []Cookie
	for _, c := range cookies {
		if p.IsPrimaryDomain(c.Domain) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// Names returns the cookie names, for logging without values.
func Names(cookies []Cookie) []string {
	names := make([]string, len(cookies))
	for i, c := range cookies {
		names[i] = c.Name
	}
	return names
}
