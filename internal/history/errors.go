package history

import "errors"

// ErrNotFound indicates the requested run doesn't exist.
var ErrNotFound = errors.New("not found")
