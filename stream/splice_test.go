package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileContent(t *testing.T, fsys FS, name string) []byte {
	t.Helper()
	s := Open(name, WithFS(fsys), WithReadOnly())
	require.True(t, s.IsOpen())
	defer func() { require.NoError(t, s.Close()) }()
	return s.ReadBlock(int(s.Length()))
}

func TestInsertEqualSize(t *testing.T) {
	fsys := memFSWithFile(t, "a.bin", []byte("ABCDEFGHIJ"))

	s := Open("a.bin", WithFS(fsys))
	require.True(t, s.IsOpen())
	s.Insert([]byte("xy"), 4, 2)
	require.NoError(t, s.Close())

	assert.Equal(t, []byte("ABCDxyGHIJ"), fileContent(t, fsys, "a.bin"))
}

func TestInsertZeroBytes(t *testing.T) {
	fsys := memFSWithFile(t, "a.bin", []byte("ABCDEFGHIJ"))

	s := Open("a.bin", WithFS(fsys))
	require.True(t, s.IsOpen())
	s.Insert(nil, 4, 0)
	require.NoError(t, s.Close())

	assert.Equal(t, []byte("ABCDEFGHIJ"), fileContent(t, fsys, "a.bin"))
}

func TestInsertDeleteOnly(t *testing.T) {
	fsys := memFSWithFile(t, "a.bin", []byte("ABCDEFGHIJ"))

	s := Open("a.bin", WithFS(fsys))
	require.True(t, s.IsOpen())
	s.Insert(nil, 2, 5)
	require.NoError(t, s.Close())

	assert.Equal(t, []byte("ABHIJ"), fileContent(t, fsys, "a.bin"))
}

// Growth delta exactly equal to the chunk size: the working buffer stays at
// one chunk, the boundary of the no-overwrite condition.
func TestInsertGrowthDeltaEqualsChunk(t *testing.T) {
	original := make([]byte, 100)
	for i := range original {
		original[i] = byte('A' + i%26)
	}
	fsys := memFSWithFile(t, "a.bin", original)

	data := make([]byte, 20)
	for i := range data {
		data[i] = byte('0' + i%10)
	}

	s := Open("a.bin", WithFS(fsys), WithBufferSize(16))
	require.True(t, s.IsOpen())
	s.Insert(data, 10, 4) // delta 16 == chunk size
	require.NoError(t, s.Close())

	want := append(append(append([]byte{}, original[:10]...), data...), original[14:]...)
	assert.Equal(t, want, fileContent(t, fsys, "a.bin"))
}

func TestInsertAtEndOfFile(t *testing.T) {
	fsys := memFSWithFile(t, "a.bin", []byte("ABCDEFGHIJ"))

	s := Open("a.bin", WithFS(fsys))
	require.True(t, s.IsOpen())
	s.Insert([]byte("tail"), 10, 0)
	require.NoError(t, s.Close())

	assert.Equal(t, []byte("ABCDEFGHIJtail"), fileContent(t, fsys, "a.bin"))
}

func TestInsertNegativeRange(t *testing.T) {
	fsys := memFSWithFile(t, "a.bin", []byte("ABCDEFGHIJ"))

	s := Open("a.bin", WithFS(fsys), WithLogger(discard()))
	require.True(t, s.IsOpen())
	s.Insert([]byte("x"), -1, 0)
	s.Insert([]byte("x"), 0, -1)
	s.RemoveBlock(-1, 2)
	s.RemoveBlock(0, -2)
	require.NoError(t, s.Close())

	assert.Equal(t, []byte("ABCDEFGHIJ"), fileContent(t, fsys, "a.bin"))
}

func TestRemoveBlockZeroLength(t *testing.T) {
	fsys := memFSWithFile(t, "a.bin", []byte("ABCDEFGHIJ"))

	s := Open("a.bin", WithFS(fsys))
	require.True(t, s.IsOpen())
	s.RemoveBlock(3, 0)
	require.NoError(t, s.Close())

	assert.Equal(t, []byte("ABCDEFGHIJ"), fileContent(t, fsys, "a.bin"))
}

func TestRemoveBlockToEnd(t *testing.T) {
	fsys := memFSWithFile(t, "a.bin", []byte("ABCDEFGHIJ"))

	s := Open("a.bin", WithFS(fsys))
	require.True(t, s.IsOpen())
	s.RemoveBlock(6, 4)
	require.NoError(t, s.Close())

	assert.Equal(t, []byte("ABCDEF"), fileContent(t, fsys, "a.bin"))
}

func TestRemoveBlockWholeFile(t *testing.T) {
	fsys := memFSWithFile(t, "a.bin", []byte("ABCDEFGHIJ"))

	s := Open("a.bin", WithFS(fsys))
	require.True(t, s.IsOpen())
	s.RemoveBlock(0, 10)
	assert.Equal(t, int64(0), s.Length())
	require.NoError(t, s.Close())
}

func TestRemoveBlockPastEnd(t *testing.T) {
	fsys := memFSWithFile(t, "a.bin", []byte("ABCDEFGHIJ"))

	s := Open("a.bin", WithFS(fsys))
	require.True(t, s.IsOpen())
	// Removing more than remains simply truncates at the start offset.
	s.RemoveBlock(4, 100)
	require.NoError(t, s.Close())

	assert.Equal(t, []byte("ABCD"), fileContent(t, fsys, "a.bin"))
}
