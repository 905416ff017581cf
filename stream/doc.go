// Package stream provides a random-access binary stream over a single file,
// including in-place splicing of byte ranges whose new length differs from
// the old one.
//
// A Stream owns one open file handle for its lifetime. It is constructed
// with Open, which attempts a read-write open and falls back to read-only;
// if both attempts fail the stream is left in a permanently invalid state
// and every operation on it degrades to a safe no-op that emits a
// diagnostic through the configured logger. The API never panics and never
// returns errors from read/write/seek operations; callers that need to
// distinguish failure check IsOpen and ReadOnly up front.
//
// Insert and RemoveBlock edit a byte range in place using a bounded working
// buffer, so arbitrarily large files can be grown or shrunk without being
// loaded into memory. The growing path keeps its read cursor a full buffer
// ahead of its write cursor, which is the invariant that prevents trailing
// data from being overwritten before it has been read.
//
// The stream operates on any backend satisfying the FS contract. The
// default backend is the host filesystem via go-billy; NewFS and
// NewInMemoryFS adapt other go-billy filesystems, and the aferofs
// subpackage adapts afero filesystems.
package stream
