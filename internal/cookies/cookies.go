// Package cookies reads platform session cookies from a local browser
// profile, keeps the ones that carry login state, and writes them to a
// Netscape cookie jar for yt-dlp.
package cookies

import (
	"context"
	"time"
)

// Cookie is one browser cookie. A zero Expires marks a session cookie.
type Cookie struct {
	Name    string
	Value   string
	Domain  string
	Path    string
	Expires time.Time
	Secure  bool
}

//go:generate mockgen -source=cookies.go -destination=mocks/source_mock.go -package=mocks

// Source returns the cookies a browser holds for the given registrable
// domains. Implementations may return a superset.
type Source interface {
	Cookies(ctx context.Context, domains []string) ([]Cookie, error)
}
