// Package filecodec turns a single-stream compression library into file
// and in-memory codecs with the framing, page eviction and multi-stream
// handling shared by every compression kind.
package filecodec

import (
	"fmt"
	"io"
	"os"

	"github.com/geoharbor/ingest/internal/codec"
)

// ReaderFunc opens a decoder for exactly one compressed stream read from r.
// The decoder returns io.EOF at the end of that stream and must not consume
// input beyond it when r is an io.ByteReader.
type ReaderFunc func(r io.Reader) (io.ReadCloser, error)

// WriterFunc opens an encoder writing one compressed stream to w.
// Closing the encoder finalizes the stream without closing w.
type WriterFunc func(w io.Writer, level int) (io.WriteCloser, error)

// Engine describes a compression kind in terms of its stream library.
type Engine struct {
	Kind         codec.Kind
	DefaultLevel int
	NewReader    ReaderFunc
	NewWriter    WriterFunc
}

func (e Engine) validate() error {
	if e.NewReader == nil || e.NewWriter == nil {
		return fmt.Errorf("%w: %s engine", codec.ErrIncomplete, e.Kind)
	}
	return nil
}

// Register binds the file, buffer and compressor constructors of e to
// e.Kind in r.
func Register(r *codec.Registry, e Engine) error {
	if err := e.validate(); err != nil {
		return err
	}
	return r.Register(e.Kind, codec.Constructors{
		NewCompressor: func(f *os.File, opts codec.Options) (codec.Compressor, error) {
			c, err := NewCompressor(e, f, opts)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		NewDecompressor: func(f *os.File, opts codec.Options) (codec.Decompressor, error) {
			return NewDecompressor(e, f, opts), nil
		},
		NewBufferDecompressor: func(data []byte) (codec.Decompressor, error) {
			return NewBufferDecompressor(e, data), nil
		},
	})
}

func configError(kind codec.Kind, op string, err error) *codec.Error {
	e := codec.NewError(kind, op, err)
	e.Code = codec.CodeConfig
	return e
}

// countingWriter tracks the bytes that reach the file.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// countingReader tracks the bytes pulled from the file.
type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
