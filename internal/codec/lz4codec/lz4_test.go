package lz4codec

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/geoharbor/ingest/internal/codec"
	"github.com/geoharbor/ingest/internal/codec/codectest"
)

func newRegistry(t *testing.T) *codec.Registry {
	t.Helper()
	r := codec.NewRegistry()
	if err := Register(r); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return r
}

func TestCodec_RoundTrip(t *testing.T) {
	codectest.RoundTrip(t, newRegistry(t), codec.LZ4)
}

func TestCodec_Concatenated(t *testing.T) {
	codectest.Concatenated(t, newRegistry(t), codec.LZ4)
}

func TestCodec_Levels(t *testing.T) {
	r := newRegistry(t)
	data := bytes.Repeat([]byte("highway=residential "), 4000)

	for _, level := range []int{1, 5, 9} {
		path := filepath.Join(t.TempDir(), "data.lz4")
		codectest.CompressFile(t, r, codec.LZ4, path, data, codec.WithLevel(level))
		if got := codectest.DecompressFile(t, r, codec.LZ4, path); !bytes.Equal(got, data) {
			t.Errorf("level %d: got %d bytes, want %d", level, len(got), len(data))
		}
	}
}
