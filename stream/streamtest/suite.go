// Package streamtest provides a conformance test suite for validating
// stream backends against the stream.FS contract.
//
// The suite exercises the splice engine's observable properties over a
// backend: size-preserving, shrinking, and growing replacements,
// insert/remove round trips at sizes below, at, and above the working
// buffer size, end-of-file reads, and the read-only no-mutation guarantee.
// Backend packages import it and run:
//
//	func TestMyBackend(t *testing.T) {
//	    streamtest.TestSuite(t, func() stream.FS {
//	        return mybackend.New()
//	    })
//	}
package streamtest

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/require"

	"github.com/TatwiraT/taglib/stream"
)

// TestSuite runs all conformance tests against the backend returned by
// newFS. newFS must return a fresh, empty filesystem for each call; tests
// create and mutate files, so every invocation must start clean.
func TestSuite(t *testing.T, newFS func() stream.FS) {
	t.Run("EqualSizeReplace", func(t *testing.T) { testEqualSizeReplace(t, newFS()) })
	t.Run("ShrinkingReplace", func(t *testing.T) { testShrinkingReplace(t, newFS()) })
	t.Run("GrowingReplace", func(t *testing.T) { testGrowingReplace(t, newFS()) })
	t.Run("GrowthLargerThanBuffer", func(t *testing.T) { testGrowthLargerThanBuffer(t, newFS()) })
	t.Run("InsertRemoveRoundTrip", func(t *testing.T) { testInsertRemoveRoundTrip(t, newFS) })
	t.Run("RemoveBlock", func(t *testing.T) { testRemoveBlock(t, newFS()) })
	t.Run("SpliceScenario", func(t *testing.T) { testSpliceScenario(t, newFS()) })
	t.Run("ReadBlockPastEOF", func(t *testing.T) { testReadBlockPastEOF(t, newFS()) })
	t.Run("SeekClampsToStart", func(t *testing.T) { testSeekClampsToStart(t, newFS()) })
	t.Run("ReadOnlyStream", func(t *testing.T) { testReadOnlyStream(t, newFS()) })
	t.Run("LargeGrowthChecksum", func(t *testing.T) { testLargeGrowthChecksum(t, newFS()) })
	t.Run("LatchingBackend", func(t *testing.T) { testLatchingBackend(t, newFS()) })
}

const testFile = "data.bin"

// quiet suppresses the fail-soft diagnostics that tests trigger on purpose.
func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// pattern returns n bytes of deterministic, non-repeating-in-small-windows
// content so shifted regions cannot accidentally match.
func pattern(n int, seed byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)*31 + seed
	}
	return b
}

func writeFile(t *testing.T, fsys stream.FS, name string, data []byte) {
	t.Helper()
	f, err := fsys.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func readFile(t *testing.T, fsys stream.FS, name string) []byte {
	t.Helper()
	f, err := fsys.OpenFile(name, os.O_RDONLY, 0)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return data
}

func testEqualSizeReplace(t *testing.T, fsys stream.FS) {
	original := []byte("ABCDEFGHIJ")
	writeFile(t, fsys, testFile, original)

	s := stream.Open(testFile, stream.WithFS(fsys))
	require.True(t, s.IsOpen())
	s.Insert([]byte("xyz"), 3, 3)
	require.NoError(t, s.Close())

	require.Equal(t, []byte("ABCxyzGHIJ"), readFile(t, fsys, testFile))
}

func testShrinkingReplace(t *testing.T, fsys stream.FS) {
	original := pattern(300, 1)
	writeFile(t, fsys, testFile, original)
	data := pattern(10, 99)

	s := stream.Open(testFile, stream.WithFS(fsys), stream.WithBufferSize(64))
	require.True(t, s.IsOpen())
	s.Insert(data, 20, 50)
	require.Equal(t, int64(260), s.Length())
	require.NoError(t, s.Close())

	want := append(append(append([]byte{}, original[:20]...), data...), original[70:]...)
	require.Equal(t, want, readFile(t, fsys, testFile))
}

func testGrowingReplace(t *testing.T, fsys stream.FS) {
	original := pattern(300, 2)
	writeFile(t, fsys, testFile, original)
	data := pattern(50, 77)

	s := stream.Open(testFile, stream.WithFS(fsys), stream.WithBufferSize(64))
	require.True(t, s.IsOpen())
	s.Insert(data, 20, 10)
	require.Equal(t, int64(340), s.Length())
	require.NoError(t, s.Close())

	want := append(append(append([]byte{}, original[:20]...), data...), original[30:]...)
	require.Equal(t, want, readFile(t, fsys, testFile))
}

// The growth delta exceeds the base chunk size, forcing the working buffer
// to be sized up to a multiple of it.
func testGrowthLargerThanBuffer(t *testing.T, fsys stream.FS) {
	original := pattern(1000, 3)
	writeFile(t, fsys, testFile, original)
	data := pattern(200, 55)

	s := stream.Open(testFile, stream.WithFS(fsys), stream.WithBufferSize(64))
	require.True(t, s.IsOpen())
	s.Insert(data, 100, 3)
	require.NoError(t, s.Close())

	want := append(append(append([]byte{}, original[:100]...), data...), original[103:]...)
	require.Equal(t, want, readFile(t, fsys, testFile))
}

func testInsertRemoveRoundTrip(t *testing.T, newFS func() stream.FS) {
	const bufferSize = 128
	cases := []struct {
		name  string
		size  int
		start int64
	}{
		{"SmallerThanChunk", 16, 40},
		{"ExactlyOneChunk", bufferSize, 40},
		{"LargerThanChunk", 200, 40},
		{"StraddlesManyChunks", 515, 40},
		{"AtStartOfFile", 300, 0},
		{"NearEndOfFile", 300, 990},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fsys := newFS()
			original := pattern(1000, 4)
			writeFile(t, fsys, testFile, original)
			data := pattern(tc.size, 123)

			s := stream.Open(testFile, stream.WithFS(fsys), stream.WithBufferSize(bufferSize))
			require.True(t, s.IsOpen())

			s.Insert(data, tc.start, 0)
			require.Equal(t, int64(1000+tc.size), s.Length())

			s.RemoveBlock(tc.start, int64(tc.size))
			require.Equal(t, int64(1000), s.Length())
			require.NoError(t, s.Close())

			require.Equal(t, original, readFile(t, fsys, testFile))
		})
	}
}

func testRemoveBlock(t *testing.T, fsys stream.FS) {
	original := pattern(1000, 5)
	writeFile(t, fsys, testFile, original)

	s := stream.Open(testFile, stream.WithFS(fsys), stream.WithBufferSize(64))
	require.True(t, s.IsOpen())
	s.RemoveBlock(100, 250)
	require.Equal(t, int64(750), s.Length())
	require.NoError(t, s.Close())

	got := readFile(t, fsys, testFile)
	require.Equal(t, original[:100], got[:100], "bytes before the removed range must be untouched")
	require.Equal(t, original[350:], got[100:], "bytes after the removed range must shift left intact")
}

// The worked example from the splice design: replace "CDE" in "ABCDEFGHIJ"
// with "12345", then remove the inserted range again.
func testSpliceScenario(t *testing.T, fsys stream.FS) {
	writeFile(t, fsys, testFile, []byte("ABCDEFGHIJ"))

	s := stream.Open(testFile, stream.WithFS(fsys))
	require.True(t, s.IsOpen())

	s.Insert([]byte("12345"), 2, 3)
	require.Equal(t, int64(12), s.Length())
	require.NoError(t, s.Close())
	require.Equal(t, []byte("AB12345FGHIJ"), readFile(t, fsys, testFile))

	s = stream.Open(testFile, stream.WithFS(fsys))
	s.RemoveBlock(2, 5)
	require.Equal(t, int64(7), s.Length())
	require.NoError(t, s.Close())
	require.Equal(t, []byte("ABFGHIJ"), readFile(t, fsys, testFile))
}

func testReadBlockPastEOF(t *testing.T, fsys stream.FS) {
	writeFile(t, fsys, testFile, []byte("ABCDEFGHIJ"))

	s := stream.Open(testFile, stream.WithFS(fsys))
	require.True(t, s.IsOpen())
	defer func() { require.NoError(t, s.Close()) }()

	s.Seek(8, stream.Beginning)
	got := s.ReadBlock(100)
	require.Equal(t, []byte("IJ"), got, "read past end of file returns the bytes available")
	require.Equal(t, int64(10), s.Tell(), "position must not advance past the file length")

	require.Empty(t, s.ReadBlock(100), "read at end of file returns nothing")
	require.Empty(t, s.ReadBlock(0))

	// An oversized request is clamped to the file length before
	// allocating; the read itself still succeeds.
	s.Seek(0, stream.Beginning)
	require.Equal(t, []byte("ABCDEFGHIJ"), s.ReadBlock(1<<20))
}

func testSeekClampsToStart(t *testing.T, fsys stream.FS) {
	writeFile(t, fsys, testFile, []byte("ABCDEFGHIJ"))

	s := stream.Open(testFile, stream.WithFS(fsys))
	require.True(t, s.IsOpen())
	defer func() { require.NoError(t, s.Close()) }()

	s.Seek(-5, stream.Beginning)
	require.Equal(t, int64(0), s.Tell())

	s.Seek(4, stream.Beginning)
	s.Seek(-100, stream.Current)
	require.Equal(t, int64(0), s.Tell())

	s.Seek(-100, stream.End)
	require.Equal(t, int64(0), s.Tell())

	s.Seek(-3, stream.End)
	require.Equal(t, int64(7), s.Tell())
}

func testReadOnlyStream(t *testing.T, fsys stream.FS) {
	original := pattern(500, 6)
	writeFile(t, fsys, testFile, original)

	s := stream.Open(testFile, stream.WithFS(fsys), stream.WithReadOnly(), stream.WithLogger(quiet()))
	require.True(t, s.IsOpen())
	require.True(t, s.ReadOnly())

	s.WriteBlock([]byte("clobber"))
	s.Insert([]byte("clobber"), 10, 3)
	s.RemoveBlock(10, 100)
	s.Truncate(5)

	require.Equal(t, int64(500), s.Length())
	s.Seek(0, stream.Beginning)
	require.Equal(t, original[:100], s.ReadBlock(100), "reads still work on a read-only stream")
	require.NoError(t, s.Close())

	require.Equal(t, original, readFile(t, fsys, testFile), "file must be byte-for-byte identical")
}

// Growth delta larger than the default chunk size on a file much larger
// than the working buffer; the shifted tail is compared by checksum.
func testLargeGrowthChecksum(t *testing.T, fsys stream.FS) {
	original := pattern(50000, 7)
	writeFile(t, fsys, testFile, original)
	data := pattern(20100, 201)

	s := stream.Open(testFile, stream.WithFS(fsys))
	require.True(t, s.IsOpen())
	s.Insert(data, 1000, 100)
	require.Equal(t, int64(70000), s.Length())
	require.NoError(t, s.Close())

	got := readFile(t, fsys, testFile)
	require.Equal(t, original[:1000], got[:1000])
	require.Equal(t, data, got[1000:21100])
	require.Equal(t, xxhash.Sum64(original[1100:]), xxhash.Sum64(got[21100:]),
		"shifted tail checksum must match the pre-edit tail")
}

// Splices over a backend that latches an error state after short reads, the
// way C stdio streams do. This only passes if the splice loops clear the
// latch after every short read, before the write that follows it.
func testLatchingBackend(t *testing.T, fsys stream.FS) {
	latching := NewLatchingFS(fsys)

	original := pattern(1000, 8)
	writeFile(t, fsys, testFile, original)
	data := pattern(300, 9)

	s := stream.Open(testFile, stream.WithFS(latching), stream.WithBufferSize(64), stream.WithLogger(quiet()))
	require.True(t, s.IsOpen())
	s.Insert(data, 50, 20)
	require.NoError(t, s.Close())

	want := append(append(append([]byte{}, original[:50]...), data...), original[70:]...)
	require.Equal(t, want, readFile(t, fsys, testFile))

	// Removing the replacement range restores the original content.
	s = stream.Open(testFile, stream.WithFS(latching), stream.WithBufferSize(64), stream.WithLogger(quiet()))
	require.True(t, s.IsOpen())
	s.Insert(original[50:70], 50, 300)
	require.NoError(t, s.Close())

	require.Equal(t, original, readFile(t, fsys, testFile))
}
