package stream

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
)

// billyFS adapts a go-billy filesystem to the FS contract.
type billyFS struct {
	fs billy.Filesystem
}

// NewFS wraps the given go-billy filesystem as a stream backend.
func NewFS(fsys billy.Filesystem) FS {
	return &billyFS{fs: fsys}
}

// NewOSFS returns a backend over the host filesystem, rooted at the
// filesystem root. Paths given to Open are interpreted as absolute.
func NewOSFS() FS {
	return &billyFS{fs: osfs.New("/")}
}

// NewInMemoryFS returns a backend over a fresh in-memory filesystem.
func NewInMemoryFS() FS {
	return &billyFS{fs: memfs.New()}
}

func (b *billyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	f, err := b.fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, fmt.Errorf("stream: openfile %q: %w", name, err)
	}
	return &billyFile{file: f}, nil
}

// billyFile wraps a go-billy File and satisfies the File contract.
type billyFile struct {
	file billy.File
}

func (f *billyFile) Name() string {
	return f.file.Name()
}

func (f *billyFile) Read(p []byte) (int, error) {
	n, err := f.file.Read(p)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return n, io.EOF
		}
		return n, fmt.Errorf("stream: read %q: %w", f.file.Name(), err)
	}
	return n, nil
}

func (f *billyFile) Write(p []byte) (int, error) {
	n, err := f.file.Write(p)
	if err != nil {
		return n, fmt.Errorf("stream: write %q: %w", f.file.Name(), err)
	}
	return n, nil
}

func (f *billyFile) Seek(offset int64, whence int) (int64, error) {
	pos, err := f.file.Seek(offset, whence)
	if err != nil {
		return pos, fmt.Errorf("stream: seek %q off=%d whence=%d: %w", f.file.Name(), offset, whence, err)
	}
	return pos, nil
}

func (f *billyFile) Truncate(size int64) error {
	if err := f.file.Truncate(size); err != nil {
		return fmt.Errorf("stream: truncate %q to %d: %w", f.file.Name(), size, err)
	}
	return nil
}

func (f *billyFile) Close() error {
	if err := f.file.Close(); err != nil {
		return fmt.Errorf("stream: close %q: %w", f.file.Name(), err)
	}
	return nil
}
