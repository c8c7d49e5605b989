// Package codec defines the compression capability interfaces and the
// registry that maps a compression kind to its constructors.
package codec

import (
	"errors"
	"io"
)

const (
	// InputBufferSize is the size of the chunks returned by file decompressors.
	InputBufferSize = 1024 * 1024

	// BufferChunkSize is the size of the chunks returned by in-memory decompressors.
	BufferChunkSize = 10240

	// DefaultLevel is the compression level used when none is configured.
	DefaultLevel = 6
)

// ErrClosed is returned when a compressor is used after Close.
var ErrClosed = errors.New("codec: closed")

// Compressor compresses data written to it into a file.
// A Compressor exclusively owns its file and must not be copied.
type Compressor interface {
	io.Writer

	// Close flushes and finalizes the stream, optionally syncs the file to
	// disk and closes it. It is idempotent. The file is closed even if
	// finalizing fails; the failure is returned afterwards.
	Close() error

	// FileSize returns the number of compressed bytes written to the file.
	// It is valid after Close.
	FileSize() int64
}

// Decompressor produces decompressed chunks from a compressed input.
// A Decompressor exclusively owns its input and must not be copied.
type Decompressor interface {
	// Read returns the next chunk of decompressed data. An empty chunk
	// signals the end of the input; every later call returns an empty
	// chunk as well.
	Read() ([]byte, error)

	// Close releases the input and the codec state. It is idempotent.
	Close() error

	// Offset returns the number of compressed bytes consumed so far.
	Offset() int64
}

// Options configures compressors and decompressors. Options are fixed at
// construction time.
type Options struct {
	// Level is the compression level. Zero selects the codec default.
	Level int

	// Sync makes a compressor fsync its file before closing it.
	Sync bool

	// EvictPages makes a decompressor advise the OS to drop file pages it
	// has already consumed from the page cache.
	EvictPages bool
}

// Option configures Options.
type Option func(*Options)

// WithLevel sets the compression level.
func WithLevel(level int) Option {
	return func(o *Options) { o.Level = level }
}

// WithSync enables fsync on compressor close.
func WithSync(enabled bool) Option {
	return func(o *Options) { o.Sync = enabled }
}

// WithPageEviction enables dropping consumed pages from the page cache.
func WithPageEviction(enabled bool) Option {
	return func(o *Options) { o.EvictPages = enabled }
}

// NewOptions applies opts to the zero Options.
func NewOptions(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// LevelOr returns the configured level, or def if none was set.
func (o Options) LevelOr(def int) int {
	if o.Level == 0 {
		return def
	}
	return o.Level
}
