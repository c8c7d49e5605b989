// Package queue provides an order-preserving queue of deferred values.
//
// A slot is reserved in the queue when it is pushed and may be fulfilled
// later, possibly by a different goroutine. Consumers always receive slots in
// push order, regardless of the order in which they were fulfilled.
package queue

import (
	"errors"
	"sync/atomic"
)

// Sentinel errors for channel protocol violations.
var (
	// ErrFulfilled indicates a second attempt to fulfill a slot.
	ErrFulfilled = errors.New("queue: slot already fulfilled")

	// ErrEmpty indicates a non-blocking pop on a queue without slots.
	ErrEmpty = errors.New("queue: empty")

	// ErrPending indicates a non-blocking pop whose head slot is not fulfilled yet.
	ErrPending = errors.New("queue: head slot not fulfilled")
)

// Slot is a single-assignment cell holding either a value or an error.
// It is fulfilled at most once and read by exactly one consumer.
type Slot[T any] struct {
	set   atomic.Bool
	ready chan struct{}
	value T
	err   error
}

func newSlot[T any]() *Slot[T] {
	return &Slot[T]{ready: make(chan struct{})}
}

// Fulfill stores v in the slot and wakes up a waiting consumer.
func (s *Slot[T]) Fulfill(v T) error {
	return s.resolve(v, nil)
}

// Fail stores err in the slot. The consumer receives err instead of a value.
func (s *Slot[T]) Fail(err error) error {
	var zero T
	return s.resolve(zero, err)
}

// Fulfilled reports whether the slot holds a value or an error.
func (s *Slot[T]) Fulfilled() bool {
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

func (s *Slot[T]) resolve(v T, err error) error {
	if !s.set.CompareAndSwap(false, true) {
		return ErrFulfilled
	}
	s.value = v
	s.err = err
	close(s.ready)
	return nil
}

// result returns the slot content. It must only be called after ready is closed.
func (s *Slot[T]) result() (T, error) {
	return s.value, s.err
}
