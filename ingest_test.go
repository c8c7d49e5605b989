package ingest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/geoharbor/ingest/internal/codec"
	"github.com/geoharbor/ingest/internal/stats"
	promstats "github.com/geoharbor/ingest/internal/stats/prometheus"
	"github.com/geoharbor/ingest/internal/store"
	"github.com/geoharbor/ingest/internal/store/memstore"
)

func newClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	client, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func testData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i*7 + i/251)
	}
	return data
}

// writeFile compresses data into a file of the given kind and returns its path.
func writeFile(t *testing.T, client *Client, kind Kind, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.osm")
	if ext := kind.Extension(); ext != "" {
		path += "." + ext
	}

	w, err := client.Create(path, kind)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Writer.Close() error = %v", err)
	}
	return path
}

func TestNew_Defaults(t *testing.T) {
	client := newClient(t)

	want := []Kind{None, Gzip, Bzip2, Zstd, LZ4, S2}
	got := client.Kinds()
	if len(got) != len(want) {
		t.Fatalf("Kinds() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Kinds()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if client.Store() != nil {
		t.Error("Store() should be nil without WithStore")
	}
}

func TestClient_RoundTrip(t *testing.T) {
	data := testData(3*codec.InputBufferSize + 17)

	for _, kind := range []Kind{None, Gzip, Bzip2, Zstd, LZ4, S2} {
		t.Run(kind.String(), func(t *testing.T) {
			client := newClient(t, WithPageEviction(true), WithSync(true))
			path := writeFile(t, client, kind, data)

			r, err := client.Open(path)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer r.Close()

			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if !bytes.Equal(got, data) {
				t.Errorf("round trip mismatch: got %d bytes, want %d", len(got), len(data))
			}
		})
	}
}

func TestReader_ReadChunk(t *testing.T) {
	client := newClient(t)
	data := testData(2*codec.InputBufferSize + 1)
	path := writeFile(t, client, Gzip, data)

	r, err := client.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	ctx := context.Background()
	var sizes []int
	for {
		chunk, err := r.ReadChunk(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadChunk() error = %v", err)
		}
		sizes = append(sizes, len(chunk))
	}

	want := []int{codec.InputBufferSize, codec.InputBufferSize, 1}
	if len(sizes) != len(want) {
		t.Fatalf("chunk sizes = %v, want %v", sizes, want)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Errorf("chunk %d size = %d, want %d", i, sizes[i], want[i])
		}
	}

	if _, err := r.ReadChunk(ctx); err != io.EOF {
		t.Errorf("ReadChunk() after end error = %v, want io.EOF", err)
	}
}

func TestReader_WriteTo(t *testing.T) {
	client := newClient(t)
	data := testData(100_000)
	path := writeFile(t, client, Zstd, data)

	r, err := client.OpenKind(path, Zstd)
	if err != nil {
		t.Fatalf("OpenKind() error = %v", err)
	}
	defer r.Close()

	var buf bytes.Buffer
	n, err := r.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if n != int64(len(data)) || !bytes.Equal(buf.Bytes(), data) {
		t.Errorf("WriteTo() = %d bytes, want %d", n, len(data))
	}
}

func TestReader_CorruptInput(t *testing.T) {
	client := newClient(t)
	path := filepath.Join(t.TempDir(), "broken.osm.gz")
	if err := os.WriteFile(path, []byte("definitely not gzip"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := client.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	ctx := context.Background()
	_, err = r.ReadChunk(ctx)
	var cerr *codec.Error
	if !errors.As(err, &cerr) {
		t.Fatalf("ReadChunk() error = %v, want *codec.Error", err)
	}
	if cerr.Kind != Gzip {
		t.Errorf("Error.Kind = %s, want gzip", cerr.Kind)
	}

	if _, err := r.ReadChunk(ctx); err != io.EOF {
		t.Errorf("ReadChunk() after failure error = %v, want io.EOF", err)
	}
}

func TestReader_EarlyClose(t *testing.T) {
	client := newClient(t)
	path := writeFile(t, client, Bzip2, testData(4*codec.InputBufferSize))

	r, err := client.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := r.ReadChunk(context.Background()); err != nil {
		t.Fatalf("ReadChunk() error = %v", err)
	}

	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := r.ReadChunk(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("ReadChunk() after Close error = %v, want ErrClosed", err)
	}
}

func TestReader_EmptyFile(t *testing.T) {
	client := newClient(t)
	path := filepath.Join(t.TempDir(), "empty.osm.zst")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := client.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	if _, err := r.ReadChunk(context.Background()); err != io.EOF {
		t.Errorf("ReadChunk() error = %v, want io.EOF", err)
	}
}

func TestClient_OpenObject(t *testing.T) {
	mem := memstore.New()
	client := newClient(t, WithStore(mem))

	var buf bytes.Buffer
	path := writeFile(t, client, Gzip, []byte("<osm></osm>"))
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	mem.SetObject("extracts/tiny.osm.gz", data)

	r, err := client.OpenObject(context.Background(), "extracts/tiny.osm.gz")
	if err != nil {
		t.Fatalf("OpenObject() error = %v", err)
	}
	defer r.Close()

	if _, err := r.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if buf.String() != "<osm></osm>" {
		t.Errorf("content = %q, want %q", buf.String(), "<osm></osm>")
	}
}

func TestClient_OpenObject_NotFound(t *testing.T) {
	client := newClient(t, WithStore(memstore.New()))

	_, err := client.OpenObject(context.Background(), "missing.osm.gz")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("OpenObject() error = %v, want ErrNotFound", err)
	}
}

func TestClient_OpenObject_NoStore(t *testing.T) {
	client := newClient(t)

	_, err := client.OpenObject(context.Background(), "x.osm")
	if !errors.Is(err, ErrNoStore) {
		t.Errorf("OpenObject() error = %v, want ErrNoStore", err)
	}
}

func TestClient_OpenBuffer(t *testing.T) {
	client := newClient(t)

	r, err := client.OpenBuffer([]byte("plain"), None)
	if err != nil {
		t.Fatalf("OpenBuffer() error = %v", err)
	}
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(got) != "plain" {
		t.Errorf("content = %q, want %q", got, "plain")
	}
}

func TestClient_UnknownKind(t *testing.T) {
	client := newClient(t)
	path := filepath.Join(t.TempDir(), "out")

	_, err := client.Create(path, Kind(99))
	if !errors.Is(err, codec.ErrUnknownKind) {
		t.Errorf("Create() error = %v, want ErrUnknownKind", err)
	}
	_, err = client.OpenBuffer(nil, Kind(99))
	if !errors.Is(err, codec.ErrUnknownKind) {
		t.Errorf("OpenBuffer() error = %v, want ErrUnknownKind", err)
	}
}

func TestClient_Close(t *testing.T) {
	client, err := New(WithStore(memstore.New()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := client.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close() error = %v, want ErrClosed", err)
	}
	if _, err := client.Open("anything.gz"); !errors.Is(err, ErrClosed) {
		t.Errorf("Open() after Close error = %v, want ErrClosed", err)
	}
	if _, err := client.Create("anything.gz", Gzip); !errors.Is(err, ErrClosed) {
		t.Errorf("Create() after Close error = %v, want ErrClosed", err)
	}
}

func TestClient_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := promstats.New(reg)
	client := newClient(t, WithStats(collector))

	data := testData(codec.InputBufferSize + 10)
	path := writeFile(t, client, S2, data)

	r, err := client.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := map[string]bool{}
	for _, f := range families {
		found[f.GetName()] = true
	}
	for _, name := range []string{
		stats.MetricChunksRead,
		stats.MetricBytesDecompressed,
		stats.MetricBytesCompressed,
		stats.MetricStreamsOpened,
	} {
		if !found[name] {
			t.Errorf("metric %s not registered", name)
		}
	}

	n, err := testutil.GatherAndCount(reg, stats.MetricReadErrors)
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	if n != 0 {
		t.Errorf("%s samples = %d, want 0", stats.MetricReadErrors, n)
	}
}
