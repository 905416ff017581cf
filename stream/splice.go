package stream

// Insert replaces the replace bytes beginning at start with data, growing
// or shrinking the file as needed. The edit happens in place with a bounded
// working buffer, so the file is never loaded into memory as a whole. It is
// a diagnostic no-op if the stream is closed or read-only.
func (s *Stream) Insert(data []byte, start int64, replace int64) {
	if !s.IsOpen() {
		s.logger.Error("stream: insert on invalid stream", "path", s.path, "err", ErrClosed)
		return
	}
	if s.readOnly {
		s.logger.Error("stream: insert on read-only stream", "path", s.path, "err", ErrReadOnly)
		return
	}
	if start < 0 || replace < 0 {
		s.logger.Error("stream: insert with negative range", "path", s.path, "start", start, "replace", replace, "err", ErrNegativeRange)
		return
	}

	if int64(len(data)) == replace {
		s.Seek(start, Beginning)
		s.WriteBlock(data)
		return
	}

	if int64(len(data)) < replace {
		s.Seek(start, Beginning)
		s.WriteBlock(data)
		s.RemoveBlock(start+int64(len(data)), replace-int64(len(data)))
		return
	}

	// Growing case. The working buffer must be at least as long as the
	// growth delta, otherwise the writes would overrun trailing bytes that
	// have not been read yet.
	bufferLength := int64(s.bufferSize)
	for int64(len(data))-replace > bufferLength {
		bufferLength += int64(s.bufferSize)
	}

	readPosition := start + replace
	writePosition := start

	pending := data
	aboutToOverwrite := make([]byte, bufferLength)

	for {
		// Read the trailing bytes the next write would destroy. The read
		// cursor advances by the full buffer length, not by the bytes
		// actually read: the fixed stride keeps it a buffer ahead of the
		// write cursor.
		s.Seek(readPosition, Beginning)
		n := s.readFull(aboutToOverwrite)
		readPosition += bufferLength

		// The last block leaves the backend at end of file; reset any
		// error latch so the following write succeeds.
		if int64(n) < bufferLength {
			s.Clear()
		}

		s.Seek(writePosition, Beginning)
		s.WriteBlock(pending)

		if n == 0 {
			break
		}
		writePosition += int64(len(pending))

		// What was just read becomes the next write. Copied, not aliased:
		// aboutToOverwrite is reused on the next pass.
		pending = append([]byte(nil), aboutToOverwrite[:n]...)
	}
}

// RemoveBlock shifts the bytes from start+length onward left by length and
// truncates the file, shrinking it. It is a diagnostic no-op if the stream
// is closed or read-only.
func (s *Stream) RemoveBlock(start, length int64) {
	if !s.IsOpen() {
		s.logger.Error("stream: removeBlock on invalid stream", "path", s.path, "err", ErrClosed)
		return
	}
	if s.readOnly {
		s.logger.Error("stream: removeBlock on read-only stream", "path", s.path, "err", ErrReadOnly)
		return
	}
	if start < 0 || length < 0 {
		s.logger.Error("stream: removeBlock with negative range", "path", s.path, "start", start, "length", length, "err", ErrNegativeRange)
		return
	}
	if length == 0 {
		return
	}

	readPosition := start + length
	writePosition := start

	buffer := make([]byte, s.bufferSize)

	for {
		s.Seek(readPosition, Beginning)
		n := s.readFull(buffer)

		// Data only moves left, so unlike the growing insert the cursor
		// can advance by the bytes actually read.
		readPosition += int64(n)

		if n < len(buffer) {
			s.Clear()
		}

		s.Seek(writePosition, Beginning)
		s.WriteBlock(buffer[:n])
		writePosition += int64(n)

		if n == 0 {
			break
		}
	}

	// Everything from writePosition on has already been copied forward.
	s.Truncate(writePosition)
}
