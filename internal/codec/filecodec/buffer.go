package filecodec

import (
	"bytes"
	"errors"
	"io"

	"github.com/geoharbor/ingest/internal/codec"
)

var _ codec.Decompressor = (*BufferDecompressor)(nil)

// BufferDecompressor decodes a single compressed stream held in memory.
type BufferDecompressor struct {
	kind     codec.Kind
	open     ReaderFunc
	data     []byte
	src      *bytes.Reader
	dec      io.ReadCloser
	consumed int64
	ended    bool
	closed   bool
	err      error
}

// NewBufferDecompressor creates a decompressor over data. The slice must
// not be modified until the decompressor reaches the end or is closed.
func NewBufferDecompressor(e Engine, data []byte) *BufferDecompressor {
	return &BufferDecompressor{
		kind: e.Kind,
		open: e.NewReader,
		data: data,
	}
}

// Read returns up to codec.BufferChunkSize decompressed bytes. Once the
// stream ends the buffer is released and every call returns an empty chunk.
func (d *BufferDecompressor) Read() ([]byte, error) {
	if d.closed {
		return nil, codec.NewError(d.kind, "read", codec.ErrClosed)
	}
	if d.err != nil {
		return nil, d.err
	}
	if d.ended {
		return nil, nil
	}

	if d.dec == nil {
		if len(d.data) == 0 {
			d.finish()
			return nil, nil
		}
		d.src = bytes.NewReader(d.data)
		dec, err := d.open(d.src)
		if err != nil {
			return nil, d.fail("open", err)
		}
		d.dec = dec
	}

	buf := make([]byte, codec.BufferChunkSize)
	n := 0
	for n < len(buf) {
		m, err := d.dec.Read(buf[n:])
		n += m
		if err == nil {
			continue
		}
		if !errors.Is(err, io.EOF) {
			return nil, d.fail("read", err)
		}
		d.finish()
		break
	}
	return buf[:n], nil
}

func (d *BufferDecompressor) finish() {
	d.consumed = d.Offset()
	if d.dec != nil {
		_ = d.dec.Close()
		d.dec = nil
	}
	d.src = nil
	d.data = nil
	d.ended = true
}

func (d *BufferDecompressor) fail(op string, err error) error {
	d.finish()
	d.err = codec.NewError(d.kind, op, err)
	return d.err
}

// Offset returns the compressed bytes consumed from the buffer so far.
func (d *BufferDecompressor) Offset() int64 {
	if d.src == nil {
		return d.consumed
	}
	return d.src.Size() - int64(d.src.Len())
}

// Streams returns 1 once decoding has started.
func (d *BufferDecompressor) Streams() int {
	if d.src != nil || d.consumed > 0 {
		return 1
	}
	return 0
}

// Close releases the decoder and the buffer.
func (d *BufferDecompressor) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if !d.ended {
		d.finish()
	}
	return nil
}
