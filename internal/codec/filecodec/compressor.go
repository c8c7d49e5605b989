package filecodec

import (
	"io"
	"os"

	"github.com/geoharbor/ingest/internal/codec"
	"github.com/geoharbor/ingest/internal/fileutil"
)

var _ codec.Compressor = (*Compressor)(nil)

// Compressor writes one compressed stream to a file it owns.
type Compressor struct {
	kind   codec.Kind
	file   *os.File
	out    *countingWriter
	enc    io.WriteCloser
	sync   bool
	closed bool
}

// NewCompressor starts a compressed stream on f at the configured level.
// The compressor takes ownership of f and closes it if it cannot start.
func NewCompressor(e Engine, f *os.File, opts codec.Options) (*Compressor, error) {
	if err := e.validate(); err != nil {
		_ = fileutil.Close(f)
		return nil, err
	}

	out := &countingWriter{w: f}
	enc, err := e.NewWriter(out, opts.LevelOr(e.DefaultLevel))
	if err != nil {
		_ = fileutil.Close(f)
		return nil, configError(e.Kind, "open", err)
	}

	return &Compressor{
		kind: e.Kind,
		file: f,
		out:  out,
		enc:  enc,
		sync: opts.Sync,
	}, nil
}

// Write compresses p into the stream.
func (c *Compressor) Write(p []byte) (int, error) {
	if c.closed {
		return 0, codec.NewError(c.kind, "write", codec.ErrClosed)
	}
	n, err := c.enc.Write(p)
	if err != nil {
		return n, codec.NewError(c.kind, "write", err)
	}
	return n, nil
}

// Close finalizes the stream, syncs the file when configured and closes it.
// The file is closed even when finalizing fails.
func (c *Compressor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	err := c.enc.Close()
	if err == nil && c.sync {
		err = fileutil.Sync(c.file)
	}
	closeErr := fileutil.Close(c.file)
	c.file = nil

	if err != nil {
		return codec.NewError(c.kind, "close", err)
	}
	if closeErr != nil {
		return codec.NewError(c.kind, "close", closeErr)
	}
	return nil
}

// FileSize returns the compressed bytes written so far.
func (c *Compressor) FileSize() int64 {
	return c.out.n
}
