// Package codectest holds round-trip helpers shared by the codec kind tests.
package codectest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/geoharbor/ingest/internal/codec"
)

// Sizes are the plaintext sizes every kind is exercised with.
var Sizes = []struct {
	Name string
	Data []byte
}{
	{"empty", []byte{}},
	{"one byte", []byte("n")},
	{"small", []byte("<node id=\"17\" lat=\"52.5\" lon=\"13.4\"/>")},
	{"larger than buffer", bytes.Repeat([]byte("way 1 2 3 5 8 13\n"), codec.InputBufferSize/10)},
}

// CompressFile writes data compressed with kind to path and returns the
// compressed size reported by the compressor.
func CompressFile(t *testing.T, r *codec.Registry, kind codec.Kind, path string, data []byte, opts ...codec.Option) int64 {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	c, err := r.NewCompressor(kind, f, opts...)
	if err != nil {
		t.Fatalf("NewCompressor(%s) error = %v", kind, err)
	}
	if _, err := c.Write(data); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return c.FileSize()
}

// ReadAll drains d until the end-of-input chunk.
func ReadAll(d codec.Decompressor) ([]byte, error) {
	var out bytes.Buffer
	for {
		chunk, err := d.Read()
		if err != nil {
			return out.Bytes(), err
		}
		if len(chunk) == 0 {
			return out.Bytes(), nil
		}
		out.Write(chunk)
	}
}

// DecompressFile reads path back through the file decompressor of kind.
func DecompressFile(t *testing.T, r *codec.Registry, kind codec.Kind, path string, opts ...codec.Option) []byte {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	d, err := r.NewDecompressor(kind, f, opts...)
	if err != nil {
		t.Fatalf("NewDecompressor(%s) error = %v", kind, err)
	}
	defer d.Close()

	got, err := ReadAll(d)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	return got
}

// RoundTrip compresses every entry of Sizes with kind and checks that the
// file and buffer decompressors reproduce it.
func RoundTrip(t *testing.T, r *codec.Registry, kind codec.Kind) {
	t.Helper()
	for _, tt := range Sizes {
		t.Run(tt.Name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data")
			CompressFile(t, r, kind, path, tt.Data)

			if got := DecompressFile(t, r, kind, path, codec.WithPageEviction(true)); !bytes.Equal(got, tt.Data) {
				t.Errorf("file round-trip: got %d bytes, want %d", len(got), len(tt.Data))
			}

			compressed, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			d, err := r.NewBufferDecompressor(kind, compressed)
			if err != nil {
				t.Fatalf("NewBufferDecompressor(%s) error = %v", kind, err)
			}
			defer d.Close()
			got, err := ReadAll(d)
			if err != nil {
				t.Fatalf("buffer Read() error = %v", err)
			}
			if !bytes.Equal(got, tt.Data) {
				t.Errorf("buffer round-trip: got %d bytes, want %d", len(got), len(tt.Data))
			}
		})
	}
}

// Concatenated compresses first and second separately, joins the files and
// checks the decompressor yields both plaintexts in order.
func Concatenated(t *testing.T, r *codec.Registry, kind codec.Kind) {
	t.Helper()
	dir := t.TempDir()
	first := []byte("first block: nodes\n")
	second := bytes.Repeat([]byte("second block: ways\n"), 2000)

	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	CompressFile(t, r, kind, a, first)
	CompressFile(t, r, kind, b, second)

	partA, err := os.ReadFile(a)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	partB, err := os.ReadFile(b)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	joined := filepath.Join(dir, "joined")
	if err := os.WriteFile(joined, append(partA, partB...), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got := DecompressFile(t, r, kind, joined)
	want := append(append([]byte{}, first...), second...)
	if !bytes.Equal(got, want) {
		t.Errorf("concatenated read: got %d bytes, want %d", len(got), len(want))
	}
}
