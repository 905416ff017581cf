package stream

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Position is the origin of a Seek.
type Position int

const (
	// Beginning positions relative to the start of the file.
	Beginning Position = iota
	// Current positions relative to the current offset.
	Current
	// End positions relative to the end of the file.
	End
)

// Stream is a random-access binary stream over a single file. It owns the
// underlying handle exclusively for its lifetime and must not be shared
// across goroutines without external locking.
//
// All operations on an invalid or closed stream are safe no-ops that emit a
// diagnostic; see the package documentation for the fail-soft contract.
type Stream struct {
	file       File // nil once closed, or when both open attempts failed
	path       string
	readOnly   bool
	bufferSize int
	logger     *slog.Logger
}

// Open opens the file at path for random access. It first attempts a
// read-write open unless WithReadOnly was given; if that fails it falls
// back to a read-only open. If both attempts fail the returned stream is
// invalid: IsOpen reports false and every operation is a no-op.
func Open(path string, opts ...Option) *Stream {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Stream{
		path:       path,
		readOnly:   true,
		bufferSize: cfg.bufferSize,
		logger:     cfg.logger,
	}

	if !cfg.readOnly {
		if f, err := cfg.fs.OpenFile(path, os.O_RDWR, 0); err == nil {
			s.file = f
			s.readOnly = false
			return s
		}
	}

	f, err := cfg.fs.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		s.logger.Error("stream: could not open file", "path", path, "err", err)
		return s
	}
	s.file = f
	return s
}

// Name returns the path the stream was opened from. It is retained for
// diagnostics only and is never used to reopen the file.
func (s *Stream) Name() string {
	return s.path
}

// IsOpen reports whether the underlying handle is valid.
func (s *Stream) IsOpen() bool {
	return s.file != nil
}

// ReadOnly reports whether the stream was opened read-only, either by
// request or because the read-write open attempt failed.
func (s *Stream) ReadOnly() bool {
	return s.readOnly
}

// BufferSize returns the base chunk size. Callers that align their own I/O
// to this size avoid extra passes in Insert and RemoveBlock.
func (s *Stream) BufferSize() int {
	return s.bufferSize
}

// ReadBlock returns up to length bytes starting at the current position,
// advancing the position by the number of bytes actually read. At end of
// file the result is simply shorter than requested; it is never padded and
// never an error. Returns nil if the stream is not open or length is not
// positive.
func (s *Stream) ReadBlock(length int) []byte {
	if !s.IsOpen() {
		s.logger.Error("stream: readBlock on invalid stream", "path", s.path, "err", ErrClosed)
		return nil
	}

	if length <= 0 {
		return nil
	}

	// An oversized request near the end of the file would allocate far
	// beyond what can ever be read; clamp it to the file length.
	if length > s.bufferSize {
		if total := s.Length(); int64(length) > total {
			length = int(total)
		}
	}
	if length == 0 {
		return nil
	}

	buffer := make([]byte, length)
	n := s.readFull(buffer)
	return buffer[:n]
}

// WriteBlock writes data at the current position, advancing the position.
// It is a diagnostic no-op if the stream is closed or read-only.
func (s *Stream) WriteBlock(data []byte) {
	if !s.IsOpen() {
		s.logger.Error("stream: writeBlock on invalid stream", "path", s.path, "err", ErrClosed)
		return
	}
	if s.readOnly {
		s.logger.Error("stream: writeBlock on read-only stream", "path", s.path, "err", ErrReadOnly)
		return
	}
	if len(data) == 0 {
		return
	}

	if _, err := s.file.Write(data); err != nil {
		s.logger.Error("stream: write failed", "path", s.path, "err", err)
	}
}

// Seek repositions the stream. A resulting offset before the first byte is
// clamped to the beginning of the file rather than reported as an error.
// Unrecognized whence values are diagnostic no-ops.
func (s *Stream) Seek(offset int64, whence Position) {
	if !s.IsOpen() {
		s.logger.Error("stream: seek on invalid stream", "path", s.path, "err", ErrClosed)
		return
	}

	var target int64
	switch whence {
	case Beginning:
		target = offset
	case Current:
		pos, err := s.file.Seek(0, io.SeekCurrent)
		if err != nil {
			s.logger.Error("stream: seek failed", "path", s.path, "err", err)
			return
		}
		target = pos + offset
	case End:
		end, err := s.file.Seek(0, io.SeekEnd)
		if err != nil {
			s.logger.Error("stream: seek failed", "path", s.path, "err", err)
			return
		}
		target = end + offset
	default:
		s.logger.Error("stream: seek with invalid whence", "path", s.path, "whence", int(whence), "err", ErrInvalidWhence)
		return
	}

	if target < 0 {
		target = 0
	}
	if _, err := s.file.Seek(target, io.SeekStart); err != nil {
		s.logger.Error("stream: seek failed", "path", s.path, "off", target, "err", err)
	}
}

// Tell returns the current position, or 0 on failure.
func (s *Stream) Tell() int64 {
	if !s.IsOpen() {
		s.logger.Error("stream: tell on invalid stream", "path", s.path, "err", ErrClosed)
		return 0
	}
	pos, err := s.file.Seek(0, io.SeekCurrent)
	if err != nil {
		s.logger.Error("stream: tell failed", "path", s.path, "err", err)
		return 0
	}
	return pos
}

// Length returns the total size of the file in bytes, or 0 if the stream is
// not open. The current position is preserved.
func (s *Stream) Length() int64 {
	if !s.IsOpen() {
		s.logger.Error("stream: length on invalid stream", "path", s.path, "err", ErrClosed)
		return 0
	}

	if sized, ok := s.file.(Sizer); ok {
		if n, err := sized.Size(); err == nil {
			return n
		}
	}

	pos, err := s.file.Seek(0, io.SeekCurrent)
	if err != nil {
		s.logger.Error("stream: length failed", "path", s.path, "err", err)
		return 0
	}
	end, err := s.file.Seek(0, io.SeekEnd)
	if err != nil {
		s.logger.Error("stream: length failed", "path", s.path, "err", err)
		return 0
	}
	if _, err := s.file.Seek(pos, io.SeekStart); err != nil {
		s.logger.Error("stream: length failed to restore position", "path", s.path, "err", err)
	}
	return end
}

// Truncate sets the total size of the file to length, discarding trailing
// bytes or zero-extending. The current position is preserved. It is a
// diagnostic no-op if the stream is closed or read-only.
func (s *Stream) Truncate(length int64) {
	if !s.IsOpen() {
		s.logger.Error("stream: truncate on invalid stream", "path", s.path, "err", ErrClosed)
		return
	}
	if s.readOnly {
		s.logger.Error("stream: truncate on read-only stream", "path", s.path, "err", ErrReadOnly)
		return
	}
	if err := s.file.Truncate(length); err != nil {
		s.logger.Error("stream: truncate failed", "path", s.path, "length", length, "err", err)
	}
}

// Clear resets the backend's error latch, if it has one, so reads and
// writes after a short read succeed again. Backends without a latch treat
// this as a no-op.
func (s *Stream) Clear() {
	if !s.IsOpen() {
		return
	}
	if latched, ok := s.file.(ErrorLatcher); ok {
		latched.ClearErr()
	}
}

// Close releases the underlying handle. It closes exactly once; further
// calls, and calls on a stream that never opened, return nil.
func (s *Stream) Close() error {
	if s.file == nil {
		return nil
	}
	f := s.file
	s.file = nil
	if err := f.Close(); err != nil {
		return fmt.Errorf("stream: close %q: %w", s.path, err)
	}
	return nil
}

// readFull fills buffer from the current position, stopping only at end of
// file or a backend error. A single backend Read may return fewer bytes
// than requested mid-file, so short reads are retried until the buffer is
// full or the file ends.
func (s *Stream) readFull(buffer []byte) int {
	total := 0
	for total < len(buffer) {
		n, err := s.file.Read(buffer[total:])
		total += n
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Error("stream: read failed", "path", s.path, "err", err)
			}
			break
		}
		if n == 0 {
			break
		}
	}
	return total
}
