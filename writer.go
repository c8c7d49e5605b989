package ingest

import (
	"io"

	"github.com/geoharbor/ingest/internal/codec"
	"github.com/geoharbor/ingest/internal/stats"
)

var _ io.WriteCloser = (*Writer)(nil)

// Writer compresses everything written to it into one output file.
// It is not safe for concurrent use.
type Writer struct {
	comp   codec.Compressor
	stats  stats.Collector
	closed bool
}

// Write compresses p.
func (w *Writer) Write(p []byte) (int, error) {
	return w.comp.Write(p)
}

// Close finalizes the compressed stream and closes the file. The file is
// closed even when finalizing fails. Close is idempotent.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	err := w.comp.Close()
	w.stats.IncCounter(stats.MetricBytesCompressed, w.comp.FileSize())
	return err
}

// Size returns the number of compressed bytes written to the file.
// It is final after Close.
func (w *Writer) Size() int64 {
	return w.comp.FileSize()
}
