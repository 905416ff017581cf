package streamtest

import (
	"errors"
	"os"

	"github.com/TatwiraT/taglib/stream"
)

// errLatched is what a latched file reports until the latch is cleared.
var errLatched = errors.New("streamtest: file error state latched")

// NewLatchingFS wraps fsys so its files behave like buffered C-library
// streams: once a read comes up short of the requested length, the file
// latches an error state and refuses further reads and writes until the
// latch is cleared. Streams clear it through stream.ErrorLatcher, which the
// splice engine invokes after every short read.
func NewLatchingFS(fsys stream.FS) stream.FS {
	return &latchingFS{inner: fsys}
}

type latchingFS struct {
	inner stream.FS
}

func (l *latchingFS) OpenFile(name string, flag int, perm os.FileMode) (stream.File, error) {
	f, err := l.inner.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &latchingFile{file: f}, nil
}

// latchingFile passes everything through to the wrapped file except that
// Read and Write fail while the latch is set. Seeking does not clear the
// latch; only ClearErr does.
type latchingFile struct {
	file    stream.File
	latched bool
}

func (f *latchingFile) Name() string {
	return f.file.Name()
}

func (f *latchingFile) Read(p []byte) (int, error) {
	if f.latched {
		return 0, errLatched
	}
	n, err := f.file.Read(p)
	if err != nil || n < len(p) {
		f.latched = true
	}
	return n, err
}

func (f *latchingFile) Write(p []byte) (int, error) {
	if f.latched {
		return 0, errLatched
	}
	return f.file.Write(p)
}

func (f *latchingFile) Seek(offset int64, whence int) (int64, error) {
	return f.file.Seek(offset, whence)
}

func (f *latchingFile) Truncate(size int64) error {
	return f.file.Truncate(size)
}

// ClearErr implements stream.ErrorLatcher.
func (f *latchingFile) ClearErr() {
	f.latched = false
}

func (f *latchingFile) Close() error {
	return f.file.Close()
}
