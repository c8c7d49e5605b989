// Package bzip2codec provides the bzip2 compression kind.
package bzip2codec

import (
	"io"

	"github.com/dsnet/compress/bzip2"

	"github.com/geoharbor/ingest/internal/codec"
	"github.com/geoharbor/ingest/internal/codec/filecodec"
)

// DefaultLevel is the bzip2 block size in units of 100k.
const DefaultLevel = bzip2.BestCompression

// Engine returns the bzip2 engine.
func Engine() filecodec.Engine {
	return filecodec.Engine{
		Kind:         codec.Bzip2,
		DefaultLevel: DefaultLevel,
		NewReader:    newReader,
		NewWriter:    newWriter,
	}
}

// Register adds the bzip2 kind to r.
func Register(r *codec.Registry) error {
	return filecodec.Register(r, Engine())
}

func newReader(r io.Reader) (io.ReadCloser, error) {
	return bzip2.NewReader(r, nil)
}

func newWriter(w io.Writer, level int) (io.WriteCloser, error) {
	return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: level})
}
