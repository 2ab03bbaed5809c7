package fetch

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks content that cannot be fetched at all: private,
// removed, region-locked or not yet live. Engines wrap it so the outcome is
// counted as unavailable rather than failed.
var ErrUnavailable = errors.New("content unavailable")

// ErrInvalidConfig is returned by NewConfig.
var ErrInvalidConfig = errors.New("invalid fetch config")

// Operations reported in Error.Op.
const (
	OpProbe    = "probe"
	OpPrepare  = "prepare"
	OpDownload = "download"
)

// Error describes a failed fetch of one URL. It never aborts a batch.
type Error struct {
	URL string
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
