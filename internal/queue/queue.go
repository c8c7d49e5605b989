package queue

import (
	"context"
	"sync"
)

// Queue is an unbounded, strictly FIFO, thread-safe sequence of slots.
//
// Pop order always equals push order. A slot pushed first but fulfilled
// later blocks the consumer until it is ready, which lets parallel
// producers fill slots out of order without reordering the output.
type Queue[T any] struct {
	mu    sync.Mutex
	slots []*Slot[T]

	// wake holds at most one pending notification for waiting consumers.
	wake chan struct{}
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{
		wake: make(chan struct{}, 1),
	}
}

// Push appends a slot already fulfilled with v. It never blocks beyond
// the internal lock.
func (q *Queue[T]) Push(v T) {
	s := newSlot[T]()
	_ = s.Fulfill(v)
	q.append(s)
}

// PushError appends a slot already fulfilled with err.
func (q *Queue[T]) PushError(err error) {
	s := newSlot[T]()
	_ = s.Fail(err)
	q.append(s)
}

// Reserve appends an empty slot and returns it. The caller, or any other
// goroutine, must fulfill it exactly once; until then consumers block on it.
func (q *Queue[T]) Reserve() *Slot[T] {
	s := newSlot[T]()
	q.append(s)
	return s
}

// Len returns the number of slots not yet popped.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.slots)
}

// WaitAndPop blocks until the oldest slot is fulfilled, removes it and
// returns its content. If the slot was failed, its error is returned.
// If ctx is done first, ctx.Err() is returned and the queue is unchanged.
func (q *Queue[T]) WaitAndPop(ctx context.Context) (T, error) {
	var zero T
	for {
		head := q.head()
		if head == nil {
			select {
			case <-q.wake:
				continue
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		select {
		case <-head.ready:
		case <-ctx.Done():
			q.notify()
			return zero, ctx.Err()
		}

		if !q.popIf(head) {
			// Another consumer took the head while we waited on it.
			continue
		}
		return head.result()
	}
}

// TryPop pops the oldest slot if it is already fulfilled.
// It returns ErrEmpty when the queue has no slots and ErrPending when the
// oldest slot is still waiting for its value.
func (q *Queue[T]) TryPop() (T, error) {
	var zero T
	q.mu.Lock()
	if len(q.slots) == 0 {
		q.mu.Unlock()
		return zero, ErrEmpty
	}
	head := q.slots[0]
	if !head.Fulfilled() {
		q.mu.Unlock()
		return zero, ErrPending
	}
	q.removeHead()
	q.mu.Unlock()
	return head.result()
}

func (q *Queue[T]) append(s *Slot[T]) {
	q.mu.Lock()
	q.slots = append(q.slots, s)
	q.mu.Unlock()
	q.notify()
}

func (q *Queue[T]) head() *Slot[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.slots) == 0 {
		return nil
	}
	return q.slots[0]
}

// popIf removes s if it is still the head.
func (q *Queue[T]) popIf(s *Slot[T]) bool {
	q.mu.Lock()
	if len(q.slots) == 0 || q.slots[0] != s {
		q.mu.Unlock()
		return false
	}
	q.removeHead()
	more := len(q.slots) > 0
	q.mu.Unlock()

	// Pass the wake-up on so a second consumer does not sleep on a
	// non-empty queue.
	if more {
		q.notify()
	}
	return true
}

// removeHead drops the first slot. q.mu must be held.
func (q *Queue[T]) removeHead() {
	q.slots[0] = nil
	q.slots = q.slots[1:]
	if len(q.slots) == 0 {
		q.slots = nil
	}
}

func (q *Queue[T]) notify() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}
