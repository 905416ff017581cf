package stream

import (
	"io"
	"os"
)

// File is the handle contract a Stream operates on. Implementations must
// behave consistently with the standard library: Read returns io.EOF at end
// of file, Seek supports all three whence values, and offsets are 64-bit.
type File interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
	Name() string
	Truncate(size int64) error
}

// FS opens files for a Stream. Implementations wrap a filesystem backend;
// see NewFS for go-billy and the aferofs subpackage for afero.
type FS interface {
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
}

// Sizer is an optional File capability for backends with a direct size
// query. When absent, a Stream computes the length by seeking to the end
// and restoring the original position.
type Sizer interface {
	Size() (int64, error)
}

// ErrorLatcher is an optional File capability for backends that latch an
// error or end-of-file state after a short read, in the manner of C stdio
// streams. Stream.Clear resets the latch so subsequent reads and writes
// succeed again.
type ErrorLatcher interface {
	ClearErr()
}
