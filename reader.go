package ingest

import (
	"context"
	"io"

	"github.com/geoharbor/ingest/internal/queue"
	"github.com/geoharbor/ingest/internal/readthread"
)

var (
	_ io.ReadCloser = (*Reader)(nil)
	_ io.WriterTo   = (*Reader)(nil)
)

// Reader delivers the decompressed content of one input in order.
// It is not safe for concurrent use.
type Reader struct {
	chunks *queue.Wrapper[[]byte]
	thread *readthread.Manager
	rest   []byte
	closed bool
}

// ReadChunk returns the next decompressed chunk. It returns io.EOF once
// the input is exhausted. A decoding failure is returned once; the call
// after it returns io.EOF.
func (r *Reader) ReadChunk(ctx context.Context) ([]byte, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if len(r.rest) > 0 {
		chunk := r.rest
		r.rest = nil
		return chunk, nil
	}

	chunk, err := r.chunks.Pop(ctx)
	if err != nil {
		return nil, err
	}
	if r.chunks.Done() {
		return nil, io.EOF
	}
	return chunk, nil
}

// Read implements io.Reader over the decompressed content.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(r.rest) == 0 {
		chunk, err := r.ReadChunk(context.Background())
		if err != nil {
			return 0, err
		}
		r.rest = chunk
	}
	n := copy(p, r.rest)
	r.rest = r.rest[n:]
	return n, nil
}

// WriteTo writes the remaining decompressed content to w.
func (r *Reader) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for {
		chunk, err := r.ReadChunk(context.Background())
		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, err
		}
		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
}

// Close stops the background decoder, discards undelivered chunks and
// waits for the decoder to exit. It is idempotent and always returns nil.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.rest = nil

	r.thread.RequestStop()
	r.chunks.Drain()
	return r.thread.Close()
}
