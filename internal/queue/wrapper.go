package queue

import "context"

// Wrapper is the consuming end of a Queue whose last element is a sentinel.
//
// It pops values in order and switches to the done state when isEnd reports
// the sentinel. Once done, Pop keeps returning the zero value without
// touching the queue. A Wrapper is not safe for concurrent use.
type Wrapper[T any] struct {
	queue *Queue[T]
	isEnd func(T) bool
	done  bool
}

// NewWrapper returns a consumer for q. isEnd identifies the end-of-stream sentinel.
func NewWrapper[T any](q *Queue[T], isEnd func(T) bool) *Wrapper[T] {
	return &Wrapper[T]{
		queue: q,
		isEnd: isEnd,
	}
}

// IsEmptyChunk is the sentinel predicate for byte chunk queues.
func IsEmptyChunk(b []byte) bool {
	return len(b) == 0
}

// Pop returns the next value in push order. Errors stored in the queue are
// returned unchanged. After the sentinel has been popped, Pop returns the
// zero value and a nil error.
func (w *Wrapper[T]) Pop(ctx context.Context) (T, error) {
	var zero T
	if w.done {
		return zero, nil
	}

	v, err := w.queue.WaitAndPop(ctx)
	if err != nil {
		return zero, err
	}
	if w.isEnd(v) {
		w.done = true
	}
	return v, nil
}

// Done reports whether the sentinel has been popped.
func (w *Wrapper[T]) Done() bool {
	return w.done
}

// Drain pops and discards values until the sentinel, ignoring errors.
// It releases everything still referenced by unpopped slots.
func (w *Wrapper[T]) Drain() {
	ctx := context.Background()
	for !w.done {
		_, _ = w.Pop(ctx)
	}
}

// Close drains the wrapper. It always returns nil.
func (w *Wrapper[T]) Close() error {
	w.Drain()
	return nil
}
