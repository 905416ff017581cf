package stream

import "log/slog"

// defaultBufferSize is the base chunk size for block reads and splice
// working buffers.
const defaultBufferSize = 8192

type config struct {
	readOnly   bool
	bufferSize int
	logger     *slog.Logger
	fs         FS
}

func defaultConfig() config {
	return config{
		bufferSize: defaultBufferSize,
		logger:     slog.Default(),
		fs:         NewOSFS(),
	}
}

// Option configures a Stream at open time.
type Option func(*config)

// WithReadOnly opens the stream read-only without attempting a read-write
// open first.
func WithReadOnly() Option {
	return func(c *config) {
		c.readOnly = true
	}
}

// WithBufferSize overrides the base chunk size used for block reads and
// splice working buffers. Sizes less than one are ignored.
func WithBufferSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.bufferSize = n
		}
	}
}

// WithLogger sets the logger that receives diagnostics when operations
// degrade to no-ops. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithFS sets the filesystem backend the stream opens its file through.
// Defaults to the host filesystem.
func WithFS(fsys FS) Option {
	return func(c *config) {
		if fsys != nil {
			c.fs = fsys
		}
	}
}
