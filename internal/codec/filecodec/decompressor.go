package filecodec

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/geoharbor/ingest/internal/codec"
	"github.com/geoharbor/ingest/internal/fileutil"
)

const readBufferSize = 64 * 1024

var _ codec.Decompressor = (*Decompressor)(nil)

// Decompressor reads a file made of one or more compressed streams
// concatenated back to back.
type Decompressor struct {
	kind    codec.Kind
	open    ReaderFunc
	file    *os.File
	in      *countingReader
	br      *bufio.Reader
	dec     io.ReadCloser
	evict   bool
	drop    func(f *os.File, length int64) error
	started bool
	ended   bool
	closed  bool
	streams int
	err     error
}

// NewDecompressor creates a decompressor over f. It takes ownership of f.
// No input is read until the first call to Read.
func NewDecompressor(e Engine, f *os.File, opts codec.Options) *Decompressor {
	in := &countingReader{r: f}
	return &Decompressor{
		kind:  e.Kind,
		open:  e.NewReader,
		file:  f,
		in:    in,
		br:    bufio.NewReaderSize(in, readBufferSize),
		evict: opts.EvictPages,
		drop:  fileutil.DropPages,
	}
}

// Read returns up to codec.InputBufferSize decompressed bytes. Stream
// boundaries inside the file are crossed transparently. An empty chunk
// marks the end of the input.
func (d *Decompressor) Read() ([]byte, error) {
	if d.closed {
		return nil, codec.NewError(d.kind, "read", codec.ErrClosed)
	}
	if d.err != nil {
		return nil, d.err
	}
	if d.ended {
		return nil, nil
	}
	if off := d.Offset(); d.evict && off > 0 {
		d.dropPages(off)
	}

	if !d.started {
		d.started = true
		if _, err := d.br.Peek(1); err != nil {
			if errors.Is(err, io.EOF) {
				d.ended = true
				return nil, nil
			}
			return nil, d.fail("read", err)
		}
		if err := d.openStream(); err != nil {
			return nil, d.fail("open", err)
		}
	}

	buf := make([]byte, codec.InputBufferSize)
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
		more, err := d.nextStream()
		if err != nil {
			return nil, d.fail("open", err)
		}
		if !more {
			d.ended = true
			break
		}
	}
	return buf[:n], nil
}

// nextStream is called at the end of a compressed stream. It reports
// whether another stream follows in the input.
func (d *Decompressor) nextStream() (bool, error) {
	d.closeStream()

	// Bytes already buffered after the stream end belong to the next stream.
	if d.br.Buffered() > 0 {
		if err := d.openStream(); err != nil {
			return false, err
		}
		return true, nil
	}

	if _, err := d.br.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	if err := d.openStream(); err != nil {
		return false, nil
	}
	return true, nil
}

func (d *Decompressor) openStream() error {
	dec, err := d.open(d.br)
	if err != nil {
		return err
	}
	d.dec = dec
	d.streams++
	return nil
}

func (d *Decompressor) closeStream() {
	if d.dec != nil {
		_ = d.dec.Close()
		d.dec = nil
	}
}

func (d *Decompressor) fail(op string, err error) error {
	d.closeStream()
	d.err = codec.NewError(d.kind, op, err)
	return d.err
}

func (d *Decompressor) dropPages(length int64) {
	// Advisory only; pipes and terminals reject it. A zero length covers
	// the whole file.
	_ = d.drop(d.file, length)
}

// Offset returns the compressed bytes consumed from the file so far.
func (d *Decompressor) Offset() int64 {
	return d.in.n - int64(d.br.Buffered())
}

// Streams returns the number of compressed streams opened so far.
func (d *Decompressor) Streams() int {
	return d.streams
}

// Close releases the decoder and closes the file.
func (d *Decompressor) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.closeStream()

	if d.evict {
		d.dropPages(0)
	}
	err := fileutil.Close(d.file)
	d.file = nil
	if err != nil {
		return codec.NewError(d.kind, "close", err)
	}
	return nil
}
