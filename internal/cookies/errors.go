package cookies

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoCredentials is returned when the cookie store holds no session
// cookies for the platform at all (signed out, or the wrong profile).
var ErrNoCredentials = errors.New("no session cookies found")

// SourceError reports that the browser cookie store could not be read:
// missing path, permission denied, or decryption failure (for example the
// OS keychain refused access).
type SourceError struct {
	Browser string
	Path    string
	Err     error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("read %s cookie store %q: %v", e.Browser, e.Path, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// InsufficientError is returned when session cookies exist but fewer than
// Min of the Required identifiers are present.
type InsufficientError struct {
	Found    []string
	Required []string
	Min      int
}

func (e *InsufficientError) Error() string {
	found := "none"
	if len(e.Found) > 0 {
		found = strings.Join(e.Found, ", ")
	}
	return fmt.Sprintf("insufficient session cookies: need %d of [%s], found %s",
		e.Min, strings.Join(e.Required, ", "), found)
}

// IsCredentialError reports whether err means the batch cannot authenticate:
// the store was unreadable or held no usable session.
func IsCredentialError(err error) bool {
	var srcErr *SourceError
	var insErr *InsufficientError
	return errors.Is(err, ErrNoCredentials) || errors.As(err, &srcErr) || errors.As(err, &insErr)
}
