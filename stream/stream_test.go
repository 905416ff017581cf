package stream

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func memFSWithFile(t *testing.T, name string, data []byte) FS {
	t.Helper()
	fsys := NewInMemoryFS()
	f, err := fsys.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return fsys
}

// readOnlyFS rejects any open that requests write access, forcing the
// read-only fallback path.
type readOnlyFS struct {
	inner FS
}

func (r readOnlyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	if flag&(os.O_RDWR|os.O_WRONLY) != 0 {
		return nil, errors.New("write access denied")
	}
	return r.inner.OpenFile(name, flag, perm)
}

func TestOpenMissingFile(t *testing.T) {
	s := Open("does-not-exist.bin", WithFS(NewInMemoryFS()), WithLogger(discard()))

	assert.False(t, s.IsOpen())
	assert.True(t, s.ReadOnly())

	// Every operation on an invalid stream is a safe no-op.
	assert.Nil(t, s.ReadBlock(16))
	s.WriteBlock([]byte("x"))
	s.Insert([]byte("x"), 0, 0)
	s.RemoveBlock(0, 1)
	s.Seek(5, Beginning)
	s.Truncate(0)
	s.Clear()
	assert.Equal(t, int64(0), s.Tell())
	assert.Equal(t, int64(0), s.Length())
	assert.NoError(t, s.Close())
}

func TestOpenFallsBackToReadOnly(t *testing.T) {
	fsys := memFSWithFile(t, "a.bin", []byte("hello"))

	s := Open("a.bin", WithFS(readOnlyFS{inner: fsys}), WithLogger(discard()))
	require.True(t, s.IsOpen())
	assert.True(t, s.ReadOnly(), "failed read-write open must fall back to read-only")

	assert.Equal(t, []byte("hello"), s.ReadBlock(5))
	s.WriteBlock([]byte("XXXXX"))
	assert.Equal(t, int64(5), s.Length())
	require.NoError(t, s.Close())
}

func TestOpenReadWrite(t *testing.T) {
	fsys := memFSWithFile(t, "a.bin", []byte("hello"))

	s := Open("a.bin", WithFS(fsys))
	require.True(t, s.IsOpen())
	assert.False(t, s.ReadOnly())
	assert.Equal(t, "a.bin", s.Name())
	require.NoError(t, s.Close())
}

func TestWriteBlockAdvancesPosition(t *testing.T) {
	fsys := memFSWithFile(t, "a.bin", []byte("0123456789"))

	s := Open("a.bin", WithFS(fsys))
	require.True(t, s.IsOpen())
	defer func() { require.NoError(t, s.Close()) }()

	s.Seek(2, Beginning)
	s.WriteBlock([]byte("ab"))
	assert.Equal(t, int64(4), s.Tell())

	s.Seek(0, Beginning)
	assert.Equal(t, []byte("01ab456789"), s.ReadBlock(10))
}

func TestReadBlockZeroAndNegative(t *testing.T) {
	fsys := memFSWithFile(t, "a.bin", []byte("0123456789"))

	s := Open("a.bin", WithFS(fsys))
	defer func() { require.NoError(t, s.Close()) }()

	assert.Nil(t, s.ReadBlock(0))
	assert.Nil(t, s.ReadBlock(-3))
	assert.Equal(t, int64(0), s.Tell(), "rejected reads must not move the position")
}

func TestSeekWhence(t *testing.T) {
	fsys := memFSWithFile(t, "a.bin", []byte("0123456789"))

	s := Open("a.bin", WithFS(fsys), WithLogger(discard()))
	defer func() { require.NoError(t, s.Close()) }()

	s.Seek(4, Beginning)
	assert.Equal(t, int64(4), s.Tell())

	s.Seek(3, Current)
	assert.Equal(t, int64(7), s.Tell())

	s.Seek(-2, End)
	assert.Equal(t, int64(8), s.Tell())

	// Unrecognized whence values leave the position alone.
	s.Seek(0, Position(42))
	assert.Equal(t, int64(8), s.Tell())
}

func TestLengthPreservesPosition(t *testing.T) {
	fsys := memFSWithFile(t, "a.bin", []byte("0123456789"))

	s := Open("a.bin", WithFS(fsys))
	defer func() { require.NoError(t, s.Close()) }()

	s.Seek(6, Beginning)
	assert.Equal(t, int64(10), s.Length())
	assert.Equal(t, int64(6), s.Tell())
}

func TestTruncatePreservesPosition(t *testing.T) {
	fsys := memFSWithFile(t, "a.bin", []byte("0123456789"))

	s := Open("a.bin", WithFS(fsys))
	defer func() { require.NoError(t, s.Close()) }()

	s.Seek(2, Beginning)
	s.Truncate(5)
	assert.Equal(t, int64(5), s.Length())
	assert.Equal(t, int64(2), s.Tell())
	assert.Equal(t, []byte("234"), s.ReadBlock(10))
}

func TestBufferSize(t *testing.T) {
	fsys := memFSWithFile(t, "a.bin", []byte("x"))

	s := Open("a.bin", WithFS(fsys))
	assert.Equal(t, defaultBufferSize, s.BufferSize())
	require.NoError(t, s.Close())

	s = Open("a.bin", WithFS(fsys), WithBufferSize(1024))
	assert.Equal(t, 1024, s.BufferSize())
	require.NoError(t, s.Close())

	// Nonsense sizes fall back to the default.
	s = Open("a.bin", WithFS(fsys), WithBufferSize(-1))
	assert.Equal(t, defaultBufferSize, s.BufferSize())
	require.NoError(t, s.Close())
}

func TestCloseIsIdempotent(t *testing.T) {
	fsys := memFSWithFile(t, "a.bin", []byte("hello"))

	s := Open("a.bin", WithFS(fsys), WithLogger(discard()))
	require.True(t, s.IsOpen())

	require.NoError(t, s.Close())
	assert.False(t, s.IsOpen())
	require.NoError(t, s.Close())

	// Operations after close degrade like on a never-opened stream.
	assert.Nil(t, s.ReadBlock(4))
	s.WriteBlock([]byte("x"))
	assert.Equal(t, int64(0), s.Length())
}
