package fetch

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// UnknownLabel is the directory used when the uploader cannot be resolved.
const UnknownLabel = "unknown"

const maxLabelRunes = 100

var (
	illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00]`)
	multiSpace   = regexp.MustCompile(`\s+`)
	multiDot     = regexp.MustCompile(`\.{2,}`)
)

// SanitizeLabel turns an uploader name into a single safe directory name.
// Compatibility forms are folded (full-width letters, ligatures) and control
// and format characters are dropped before path-unsafe characters are
// replaced. An empty result becomes UnknownLabel.
func SanitizeLabel(name string) string {
	t := transform.Chain(norm.NFKC, runes.Remove(runes.Predicate(isInvisible)))
	s, _, err := transform.String(t, name)
	if err != nil {
		s = name
	}

	s = illegalChars.ReplaceAllString(s, " ")
	s = multiDot.ReplaceAllString(s, ".")
	s = multiSpace.ReplaceAllString(s, " ")
	s = strings.Trim(s, " .")

	if r := []rune(s); len(r) > maxLabelRunes {
		s = strings.Trim(string(r[:maxLabelRunes]), " .")
	}
	if s == "" {
		return UnknownLabel
	}
	return s
}

func isInvisible(r rune) bool {
	return unicode.Is(unicode.Cc, r) || unicode.Is(unicode.Cf, r)
}
