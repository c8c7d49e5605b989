// Package noopcodec provides the uncompressed kind: data passes through in
// chunks without transformation.
package noopcodec

import (
	"io"

	"github.com/geoharbor/ingest/internal/codec"
	"github.com/geoharbor/ingest/internal/codec/filecodec"
)

// Engine returns the passthrough engine.
func Engine() filecodec.Engine {
	return filecodec.Engine{
		Kind: codec.None,
		NewReader: func(r io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(r), nil
		},
		NewWriter: func(w io.Writer, _ int) (io.WriteCloser, error) {
			return nopWriteCloser{w}, nil
		},
	}
}

// Register adds the uncompressed kind to r.
func Register(r *codec.Registry) error {
	return filecodec.Register(r, Engine())
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
