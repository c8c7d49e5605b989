// Package lz4codec provides the lz4 frame compression kind.
package lz4codec

import (
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/geoharbor/ingest/internal/codec"
	"github.com/geoharbor/ingest/internal/codec/filecodec"
)

// levels maps 0..9 onto the library's compression levels. Zero is the fast
// (non-HC) mode.
var levels = [...]lz4.CompressionLevel{
	lz4.Fast,
	lz4.Level1, lz4.Level2, lz4.Level3,
	lz4.Level4, lz4.Level5, lz4.Level6,
	lz4.Level7, lz4.Level8, lz4.Level9,
}

// Engine returns the lz4 engine.
func Engine() filecodec.Engine {
	return filecodec.Engine{
		Kind:         codec.LZ4,
		DefaultLevel: 0,
		NewReader:    newReader,
		NewWriter:    newWriter,
	}
}

// Register adds the lz4 kind to r.
func Register(r *codec.Registry) error {
	return filecodec.Register(r, Engine())
}

func newReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

func newWriter(w io.Writer, level int) (io.WriteCloser, error) {
	if level < 0 || level >= len(levels) {
		return nil, fmt.Errorf("lz4: invalid compression level %d", level)
	}
	zw := lz4.NewWriter(w)
	if err := zw.Apply(lz4.CompressionLevelOption(levels[level]), lz4.ConcurrencyOption(1)); err != nil {
		return nil, err
	}
	return zw, nil
}
