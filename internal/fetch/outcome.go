package fetch

import (
	"time"

	"github.com/vmunix/ytjar/internal/targets"
)

// Status is the result of fetching one target.
type Status string

const (
	StatusSucceeded   Status = "succeeded"
	StatusFailed      Status = "failed"
	StatusUnavailable Status = "unavailable"
	// StatusInterrupted means the batch was cancelled while this item was
	// in flight. The destination may hold a partial file.
	StatusInterrupted Status = "interrupted"
)

// Outcome reports what happened to one target.
type Outcome struct {
	Target   targets.Target
	Status   Status
	Title    string
	Label    string // uploader directory, empty unless grouping
	Dest     string // destination directory
	File     string // written file, when the engine reports it
	Err      error  // *Error unless Status is StatusSucceeded
	Duration time.Duration
}
