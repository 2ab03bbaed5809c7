package cookies

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/browserutils/kooky"
	"github.com/browserutils/kooky/browser/chrome"
	"github.com/browserutils/kooky/browser/edge"
	"github.com/browserutils/kooky/browser/firefox"

	"github.com/vmunix/ytjar/internal/platform"
)

type readFunc func(ctx context.Context, filename string, filters ...kooky.Filter) ([]*kooky.Cookie, error)

// readers maps a browser name to the kooky reader for its cookie database.
// Decryption of Chromium stores (keychain, DPAPI, libsecret) happens inside
// kooky.
var readers = map[string]readFunc{
	"chrome":  chrome.ReadCookies,
	"edge":    edge.ReadCookies,
	"firefox": firefox.ReadCookies,
}

// Browsers returns the supported browser names, sorted.
func Browsers() []string {
	names := make([]string, 0, len(readers))
	for name := range readers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BrowserSource reads cookies from one browser profile's cookie database.
// It never writes to the store.
type BrowserSource struct {
	browser string
	path    string
	read    readFunc
	log     *slog.Logger
}

// NewBrowserSource creates a source for the cookie database at path.
func NewBrowserSource(browser, path string, log *slog.Logger) (*BrowserSource, error) {
	read, ok := readers[browser]
	if !ok {
		return nil, fmt.Errorf("unsupported browser %q (supported: %v)", browser, Browsers())
	}
	if log == nil {
		log = slog.Default()
	}
	return &BrowserSource{browser: browser, path: path, read: read, log: log}, nil
}

// Cookies reads the store and returns the cookies whose registrable domain
// is one of domains. All failures are reported as *SourceError.
func (s *BrowserSource) Cookies(ctx context.Context, domains []string) ([]Cookie, error) {
	if err := checkReadable(s.path); err != nil {
		return nil, &SourceError{Browser: s.browser, Path: s.path, Err: err}
	}

	raw, err := s.read(ctx, s.path)
	if err != nil {
		return nil, &SourceError{Browser: s.browser, Path: s.path, Err: err}
	}

	wanted := make(map[string]bool, len(domains))
	for _, d := range domains {
		wanted[d] = true
	}

	out := make([]Cookie, 0, len(raw))
	for _, c := range raw {
		if c == nil || !wanted[platform.RegistrableDomain(c.Domain)] {
			continue
		}
		out = append(out, Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Domain:  c.Domain,
			Path:    c.Path,
			Expires: c.Expires,
			Secure:  c.Secure,
		})
	}

	s.log.Debug("cookie store read", "browser", s.browser, "total", len(raw), "matched", len(out))
	return out, nil
}

func checkReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.New("is a directory")
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}
