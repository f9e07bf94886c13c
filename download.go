package docgrab

import (
	"context"
	"io"
)

// Status is the result of a single download attempt.
type Status string

// Download statuses.
const (
	StatusSkippedExisting Status = "skipped"
	StatusSucceeded       Status = "succeeded"
	StatusFailed          Status = "failed"
)

// Outcome records what happened to one candidate link.
type Outcome struct {
	Link         CandidateLink
	Path         string
	Status       Status
	BytesWritten int64

	// Err is set when Status is StatusFailed.
	Err error

	// Warning carries advisory notices, such as a response whose
	// content type does not look like the expected document type.
	Warning string
}

// Detail returns the error text for a failed outcome, or "".
func (o *Outcome) Detail() string {
	if o.Err == nil {
		return ""
	}
	if msg := ErrorMessage(o.Err); ErrorCode(o.Err) != EINTERNAL {
		return msg
	}
	return o.Err.Error()
}

// Downloader retrieves a single document to a destination path.
type Downloader interface {
	// Download fetches link into path. It never returns nil; failures are
	// reported through the outcome so that a batch can continue.
	// If path already exists no request is made and the outcome is
	// StatusSkippedExisting.
	Download(ctx context.Context, link CandidateLink, path string) *Outcome
}

// FileStore is the destination directory for downloaded documents.
type FileStore interface {
	// EnsureDir creates dir if needed and returns its absolute path.
	EnsureDir(dir string) (string, error)

	// Exists reports whether something is already present at path.
	Exists(path string) (bool, error)

	// Write streams r to path. Nothing is left at path unless the whole
	// stream was written.
	Write(ctx context.Context, path string, r io.Reader) (int64, error)
}

// Pacer enforces a pause between consecutive requests to the source server.
type Pacer interface {
	// Wait blocks until the pause since the last Done has elapsed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context) error

	// Done marks the end of a request. The pause is measured from here.
	Done()
}
