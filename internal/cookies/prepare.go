package cookies

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmunix/ytjar/internal/platform"
)

// Summary describes one jar refresh. It never carries cookie values.
type Summary struct {
	Path     string
	Read     int
	Retained int
	Written  int
	Names    []string
}

// Preparer refreshes the cookie jar from a Source.
type Preparer struct {
	source   Source
	platform platform.Platform
	jarPath  string
	log      *slog.Logger
}

// NewPreparer creates a preparer that writes the jar to jarPath.
func NewPreparer(source Source, p platform.Platform, jarPath string, log *slog.Logger) *Preparer {
	if log == nil {
		log = slog.Default()
	}
	return &Preparer{source: source, platform: p, jarPath: jarPath, log: log}
}

// JarPath returns the path the jar is written to.
func (p *Preparer) JarPath() string {
	return p.jarPath
}

// Prepare reads the browser cookies, filters them and overwrites the jar.
// The jar is only touched once validation has passed; on any error the
// previous file (if any) is left as it was.
func (p *Preparer) Prepare(ctx context.Context) (*Summary, error) {
	start := time.Now()

	raw, err := p.source.Cookies(ctx, p.platform.CookieDomains)
	if err != nil {
		p.log.Error("cookie store unreadable", "error", err)
		return nil, err
	}

	kept, err := Filter(raw, p.platform)
	if err != nil {
		p.log.Error("session cookies rejected", "read", len(raw), "error", err)
		return nil, err
	}

	primary := Primary(kept, p.platform)
	if len(primary) == 0 {
		err := fmt.Errorf("%w on %s", ErrNoCredentials, p.platform.PrimaryDomain)
		p.log.Error("session cookies rejected", "read", len(raw), "error", err)
		return nil, err
	}
	if err := WriteJar(p.jarPath, primary); err != nil {
		return nil, err
	}

	sum := &Summary{
		Path:     p.jarPath,
		Read:     len(raw),
		Retained: len(kept),
		Written:  len(primary),
		Names:    Names(primary),
	}
	p.log.Info("cookie jar written",
		"path", p.jarPath,
		"read", sum.Read,
		"retained", sum.Retained,
		"written", sum.Written,
		"names", sum.Names,
		"duration_ms", time.Since(start).Milliseconds())
	return sum, nil
}
