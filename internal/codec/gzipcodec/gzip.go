// Package gzipcodec provides the gzip compression kind.
//
// Files made of several gzip members concatenated back to back are read as
// one continuous input.
package gzipcodec

import (
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/geoharbor/ingest/internal/codec"
	"github.com/geoharbor/ingest/internal/codec/filecodec"
)

// Engine returns the gzip engine.
func Engine() filecodec.Engine {
	return filecodec.Engine{
		Kind:         codec.Gzip,
		DefaultLevel: codec.DefaultLevel,
		NewReader:    newReader,
		NewWriter:    newWriter,
	}
}

// Register adds the gzip kind to r.
func Register(r *codec.Registry) error {
	return filecodec.Register(r, Engine())
}

// newReader decodes a single gzip member. Member boundaries are handled by
// filecodec so that trailing data is detected the same way for every kind.
func newReader(r io.Reader) (io.ReadCloser, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	zr.Multistream(false)
	return zr, nil
}

func newWriter(w io.Writer, level int) (io.WriteCloser, error) {
	return gzip.NewWriterLevel(w, level)
}
