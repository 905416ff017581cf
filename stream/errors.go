package stream

import "errors"

// State errors. These are never returned by Stream operations; they are
// attached to the diagnostics emitted when an operation degrades to a
// no-op, so log handlers can classify failures without parsing text.
var (
	// ErrClosed indicates an operation on a stream whose open failed or
	// that has already been closed.
	ErrClosed = errors.New("stream is not open")

	// ErrReadOnly indicates a mutating operation on a read-only stream.
	ErrReadOnly = errors.New("stream is read-only")
)

// Argument errors.
var (
	// ErrInvalidWhence indicates a Seek with an unrecognized origin.
	ErrInvalidWhence = errors.New("invalid seek whence")

	// ErrNegativeRange indicates a splice request with a negative offset
	// or length.
	ErrNegativeRange = errors.New("negative offset or length")
)
