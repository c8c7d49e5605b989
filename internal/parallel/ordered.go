// Package parallel runs a function over a stream of chunks on a bounded
// worker pool and delivers the results in input order.
package parallel

import (
	"context"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/geoharbor/ingest/internal/queue"
)

// ChunkSource yields chunks in order. An empty chunk ends the input.
type ChunkSource interface {
	Pop(ctx context.Context) ([]byte, error)
}

// Func transforms one chunk.
type Func[T any] func(ctx context.Context, chunk []byte) (T, error)

type result[T any] struct {
	val T
	end bool
}

// Results delivers the transformed chunks in the order they were read.
type Results[T any] struct {
	out    *queue.Wrapper[result[T]]
	cancel context.CancelFunc
	done   chan struct{}
}

// Ordered starts reading src and applying fn to each chunk on up to workers
// goroutines. A slot is reserved for each chunk before its work starts, so
// results come out in input order regardless of completion order.
//
// The first failure, in input order, is returned by Next; work still in
// flight is cancelled.
func Ordered[T any](ctx context.Context, src ChunkSource, workers int, fn Func[T]) *Results[T] {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	q := queue.New[result[T]]()
	r := &Results[T]{
		out:    queue.NewWrapper(q, func(v result[T]) bool { return v.end }),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go r.dispatch(ctx, q, src, workers, fn)
	return r
}

func (r *Results[T]) dispatch(ctx context.Context, q *queue.Queue[result[T]], src ChunkSource, workers int, fn Func[T]) {
	defer close(r.done)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for {
		chunk, err := src.Pop(ctx)
		if err != nil {
			q.PushError(err)
			break
		}
		if queue.IsEmptyChunk(chunk) {
			break
		}

		slot := q.Reserve()
		g.Go(func() error {
			v, err := fn(ctx, chunk)
			if err != nil {
				_ = slot.Fail(err)
				return err
			}
			_ = slot.Fulfill(result[T]{val: v})
			return nil
		})
	}

	// Failures already sit in their slots.
	_ = g.Wait()
	q.Push(result[T]{end: true})
}

// Next returns the next result. It returns io.EOF after the last one.
func (r *Results[T]) Next(ctx context.Context) (T, error) {
	v, err := r.out.Pop(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if r.out.Done() {
		var zero T
		return zero, io.EOF
	}
	return v.val, nil
}

// Close cancels outstanding work and waits for the workers to exit.
func (r *Results[T]) Close() error {
	r.cancel()
	<-r.done
	r.out.Drain()
	return nil
}
