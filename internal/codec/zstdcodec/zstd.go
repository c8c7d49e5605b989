// Package zstdcodec provides the zstd compression kind.
package zstdcodec

import (
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/geoharbor/ingest/internal/codec"
	"github.com/geoharbor/ingest/internal/codec/filecodec"
)

// Engine returns the zstd engine.
func Engine() filecodec.Engine {
	return filecodec.Engine{
		Kind:         codec.Zstd,
		DefaultLevel: 3,
		NewReader:    newReader,
		NewWriter:    newWriter,
	}
}

// Register adds the zstd kind to r.
func Register(r *codec.Registry) error {
	return filecodec.Register(r, Engine())
}

// newReader decodes zstd frames from r. Consecutive frames are decoded as one
// stream by the library itself.
func newReader(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return decoder.IOReadCloser(), nil
}

func newWriter(w io.Writer, level int) (io.WriteCloser, error) {
	return zstd.NewWriter(w,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithEncoderConcurrency(1),
	)
}
