// Package platform describes the video site ytjar authenticates against:
// which URLs it accepts, which cookie domains carry its login state, and
// which cookie names identify a signed-in session.
package platform

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Platform holds per-site cookie and URL rules.
type Platform struct {
	ID   string
	Name string

	// URLPrefixes is the allow-list for input URLs. A target must start with
	// one of these exactly (scheme and host included).
	URLPrefixes []string

	// CookieDomains are registrable domains (eTLD+1) whose cookies may carry
	// login state. Auth cookies for YouTube live on google.com as well.
	CookieDomains []string

	// PrimaryDomain is the only domain written to the cookie jar.
	PrimaryDomain string

	// SessionMarkers are substrings of cookie names that carry session state.
	SessionMarkers []string

	// RequiredCookies are exact cookie names; at least MinRequired of them
	// must be present for the session to be considered signed in.
	RequiredCookies []string
	MinRequired     int
}

// YouTube returns the built-in YouTube platform.
func YouTube() Platform {
	return Platform{
		ID:   "youtube",
		Name: "YouTube",
		URLPrefixes: []string{
			"https://www.youtube.com/",
			"https://youtube.com/",
			"https://m.youtube.com/",
			"https://music.youtube.com/",
			"https://youtu.be/",
		},
		CookieDomains: []string{
			"youtube.com",
			"google.com",
		},
		PrimaryDomain: "youtube.com",
		SessionMarkers: []string{
			"SID",
			"APISID",
			"LOGIN_INFO",
			"__Secure-",
		},
		RequiredCookies: []string{"SID", "SAPISID"},
		MinRequired:     2,
	}
}

// AllowsURL reports whether raw starts with one of the allowed prefixes.
func (p Platform) AllowsURL(raw string) bool {
	for _, prefix := range p.URLPrefixes {
		if strings.HasPrefix(raw, prefix) {
			return true
		}
	}
	return false
}

// Hosts returns the hostnames of the allowed URL prefixes, in order.
func (p Platform) Hosts() []string {
	hosts := make([]string, 0, len(p.URLPrefixes))
	for _, prefix := range p.URLPrefixes {
		u, err := url.Parse(prefix)
		if err != nil || u.Host == "" {
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}

// AllowsCookieDomain reports whether a cookie set for domain belongs to one
// of the platform's cookie domains. The comparison is done on the
// registrable domain, so "accounts.google.com" and ".google.com" both match
// "google.com" while "google.com.evil.example" does not.
func (p Platform) AllowsCookieDomain(domain string) bool {
	registrable := RegistrableDomain(domain)
	if registrable == "" {
		return false
	}
	for _, d := range p.CookieDomains {
		if strings.EqualFold(registrable, d) {
			return true
		}
	}
	return false
}

// IsPrimaryDomain reports whether domain is exactly the primary domain,
// ignoring a leading dot. Subdomain cookies (www.youtube.com) are excluded.
func (p Platform) IsPrimaryDomain(domain string) bool {
	d := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), ".")
	return d == p.PrimaryDomain
}

// IsSessionCookie reports whether name contains any session marker.
func (p Platform) IsSessionCookie(name string) bool {
	for _, m := range p.SessionMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// RegistrableDomain returns the eTLD+1 for a cookie domain, or "" when the
// domain is empty or itself a public suffix.
func RegistrableDomain(domain string) string {
	d := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), ".")
	if d == "" {
		return ""
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(d)
	if err != nil {
		return ""
	}
	return etld1
}
