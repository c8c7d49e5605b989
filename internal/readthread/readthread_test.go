package readthread

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/geoharbor/ingest/internal/queue"
	"github.com/geoharbor/ingest/internal/stats"
	promstats "github.com/geoharbor/ingest/internal/stats/prometheus"
)

// fakeDecompressor returns the scripted chunks, then an empty chunk.
type fakeDecompressor struct {
	chunks   [][]byte
	readErr  error
	closeErr error
	panicMsg string
	block    chan struct{}
	entered  chan struct{}
	reads    int
	closed   bool
}

func (d *fakeDecompressor) Read() ([]byte, error) {
	if d.entered != nil {
		d.entered <- struct{}{}
	}
	if d.block != nil {
		<-d.block
	}
	if d.panicMsg != "" {
		panic(d.panicMsg)
	}
	if d.readErr != nil {
		return nil, d.readErr
	}
	if d.reads >= len(d.chunks) {
		return nil, nil
	}
	d.reads++
	return d.chunks[d.reads-1], nil
}

func (d *fakeDecompressor) Close() error {
	d.closed = true
	return d.closeErr
}

func (d *fakeDecompressor) Offset() int64 { return 0 }

func popAll(t *testing.T, q *queue.Queue[[]byte]) ([]string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	w := queue.NewWrapper(q, queue.IsEmptyChunk)
	var got []string
	var firstErr error
	for !w.Done() {
		chunk, err := w.Pop(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				t.Fatal("Pop() timed out")
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if len(chunk) > 0 {
			got = append(got, string(chunk))
		}
	}
	return got, firstErr
}

func TestManager_DeliversChunksInOrder(t *testing.T) {
	reg := prometheus.NewRegistry()
	d := &fakeDecompressor{chunks: [][]byte{[]byte("A"), []byte("B"), []byte("C")}}
	q := queue.New[[]byte]()
	m := Start(d, q, WithStats(promstats.New(reg)))

	got, err := popAll(t, q)
	if err != nil {
		t.Fatalf("Pop() error = %v", err)
	}
	if len(got) != 3 || got[0] != "A" || got[1] != "B" || got[2] != "C" {
		t.Errorf("chunks = %v, want [A B C]", got)
	}

	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if m.State() != Stopped {
		t.Errorf("State() = %s, want stopped", m.State())
	}
	if !d.closed {
		t.Error("decompressor should be closed when the loop ends")
	}
	if q.Len() != 0 {
		t.Errorf("queue has %d leftover slots, want 0", q.Len())
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == stats.MetricChunksRead {
			if v := mf.GetMetric()[0].GetCounter().GetValue(); v != 3 {
				t.Errorf("%s = %v, want 3", stats.MetricChunksRead, v)
			}
		}
	}
}

func TestManager_ImmediateFailure(t *testing.T) {
	readErr := errors.New("corrupt block")
	d := &fakeDecompressor{readErr: readErr, closeErr: errors.New("close failed")}
	q := queue.New[[]byte]()
	m := Start(d, q)
	defer m.Close()

	w := queue.NewWrapper(q, queue.IsEmptyChunk)
	ctx := context.Background()

	if _, err := w.Pop(ctx); !errors.Is(err, readErr) {
		t.Fatalf("first Pop() error = %v, want %v", err, readErr)
	}
	chunk, err := w.Pop(ctx)
	if err != nil {
		t.Fatalf("second Pop() error = %v", err)
	}
	if len(chunk) != 0 || !w.Done() {
		t.Errorf("second Pop() = %q, done = %v; want sentinel", chunk, w.Done())
	}
}

func TestManager_CloseFailureIsReported(t *testing.T) {
	closeErr := errors.New("close failed")
	d := &fakeDecompressor{chunks: [][]byte{[]byte("A")}, closeErr: closeErr}
	q := queue.New[[]byte]()
	m := Start(d, q)
	defer m.Close()

	got, err := popAll(t, q)
	if !errors.Is(err, closeErr) {
		t.Errorf("error = %v, want %v", err, closeErr)
	}
	if len(got) != 1 || got[0] != "A" {
		t.Errorf("chunks = %v, want [A]", got)
	}
}

func TestManager_StopWhileBlockedInRead(t *testing.T) {
	d := &fakeDecompressor{
		chunks:  [][]byte{[]byte("A"), []byte("B")},
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	q := queue.New[[]byte]()
	m := Start(d, q)

	<-d.entered
	m.RequestStop()
	if m.State() != Stopping {
		t.Errorf("State() = %s, want stopping", m.State())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := m.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Shutdown() during blocked read error = %v, want deadline", err)
	}

	close(d.block)
	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	got, err := popAll(t, q)
	if err != nil {
		t.Fatalf("Pop() error = %v", err)
	}
	if len(got) != 1 || got[0] != "A" {
		t.Errorf("chunks = %v, want the in-flight read [A] only", got)
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close() after Shutdown error = %v", err)
	}
}

func TestManager_PanicIsForwarded(t *testing.T) {
	d := &fakeDecompressor{panicMsg: "boom"}
	q := queue.New[[]byte]()
	m := Start(d, q)
	defer m.Close()

	_, err := popAll(t, q)
	if !errors.Is(err, ErrPanic) {
		t.Errorf("error = %v, want ErrPanic", err)
	}
}

func TestManager_Done(t *testing.T) {
	q := queue.New[[]byte]()
	m := Start(&fakeDecompressor{}, q)
	select {
	case <-m.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not finish")
	}
	if q.Len() != 1 {
		t.Errorf("queue length = %d, want only the sentinel", q.Len())
	}
}
