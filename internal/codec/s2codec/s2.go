// Package s2codec provides the s2 stream compression kind, a faster
// extension of the snappy framing format.
package s2codec

import (
	"io"

	"github.com/klauspost/compress/s2"

	"github.com/geoharbor/ingest/internal/codec"
	"github.com/geoharbor/ingest/internal/codec/filecodec"
)

// Engine returns the s2 engine. Level 1 is the default speed, 2 selects
// better compression and 3 or more the best.
func Engine() filecodec.Engine {
	return filecodec.Engine{
		Kind:         codec.S2,
		DefaultLevel: 1,
		NewReader:    newReader,
		NewWriter:    newWriter,
	}
}

// Register adds the s2 kind to r.
func Register(r *codec.Registry) error {
	return filecodec.Register(r, Engine())
}

func newReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(s2.NewReader(r)), nil
}

func newWriter(w io.Writer, level int) (io.WriteCloser, error) {
	opts := []s2.WriterOption{s2.WriterConcurrency(1)}
	switch {
	case level == 2:
		opts = append(opts, s2.WriterBetterCompression())
	case level >= 3:
		opts = append(opts, s2.WriterBestCompression())
	}
	return s2.NewWriter(w, opts...), nil
}
