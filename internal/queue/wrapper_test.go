package queue

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWrapper_PopUntilSentinel(t *testing.T) {
	q := New[[]byte]()
	for _, s := range []string{"A", "B", "C", ""} {
		q.Push([]byte(s))
	}

	w := NewWrapper(q, IsEmptyChunk)
	ctx := context.Background()

	for i, want := range []string{"A", "B", "C", ""} {
		if w.Done() {
			t.Fatalf("Done() = true before pop #%d", i)
		}
		got, err := w.Pop(ctx)
		if err != nil {
			t.Fatalf("Pop() #%d error = %v", i, err)
		}
		if string(got) != want {
			t.Errorf("Pop() #%d = %q, want %q", i, got, want)
		}
	}

	if !w.Done() {
		t.Error("Done() = false after sentinel")
	}
}

func TestWrapper_PopAfterDoneIsSideEffectFree(t *testing.T) {
	q := New[[]byte]()
	q.Push(nil)

	w := NewWrapper(q, IsEmptyChunk)
	ctx := context.Background()
	if _, err := w.Pop(ctx); err != nil {
		t.Fatalf("Pop() error = %v", err)
	}

	// Anything pushed after the sentinel must stay untouched.
	q.Push([]byte("late"))
	for i := 0; i < 3; i++ {
		got, err := w.Pop(ctx)
		if err != nil {
			t.Fatalf("Pop() after done error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Pop() after done = %q, want empty", got)
		}
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}
}

func TestWrapper_ErrorThenSentinel(t *testing.T) {
	q := New[[]byte]()
	boom := errors.New("decompress failed")
	q.PushError(boom)
	q.Push(nil)

	w := NewWrapper(q, IsEmptyChunk)
	ctx := context.Background()

	if _, err := w.Pop(ctx); !errors.Is(err, boom) {
		t.Fatalf("first Pop() error = %v, want %v", err, boom)
	}
	if w.Done() {
		t.Fatal("Done() = true after error")
	}

	got, err := w.Pop(ctx)
	if err != nil {
		t.Fatalf("second Pop() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("second Pop() = %q, want sentinel", got)
	}
	if !w.Done() {
		t.Error("Done() = false after sentinel")
	}
}

func TestWrapper_DrainIgnoresErrors(t *testing.T) {
	q := New[[]byte]()
	q.Push([]byte("x"))
	q.PushError(errors.New("ignored"))
	q.Push([]byte("y"))
	q.Push(nil)

	w := NewWrapper(q, IsEmptyChunk)
	w.Drain()

	if !w.Done() {
		t.Error("Done() = false after Drain()")
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d after Drain(), want 0", q.Len())
	}
}

func TestWrapper_CloseWaitsForLateSentinel(t *testing.T) {
	q := New[[]byte]()
	slot := q.Reserve()
	w := NewWrapper(q, IsEmptyChunk)

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = slot.Fulfill([]byte("data"))
		q.Push(nil)
	}()

	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !w.Done() {
		t.Error("Done() = false after Close()")
	}
}

func TestWrapper_PopContextCancelledKeepsActive(t *testing.T) {
	q := New[[]byte]()
	w := NewWrapper(q, IsEmptyChunk)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := w.Pop(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Pop() error = %v, want Canceled", err)
	}
	if w.Done() {
		t.Error("Done() = true after cancelled Pop()")
	}
}
