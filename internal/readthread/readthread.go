// Package readthread runs a decompressor on a background goroutine and
// feeds its chunks into a queue.
//
// The goroutine owns the decompressor for its whole lifetime. Every chunk
// it produces is pushed in order; a failure is pushed as a failed slot; an
// empty chunk is always pushed last. Stopping is cooperative: the stop flag
// is checked between reads, so a read already in progress completes first.
package readthread

import (
	"context"
	"errors"
	"fmt"
	"runtime/pprof"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/geoharbor/ingest/internal/codec"
	"github.com/geoharbor/ingest/internal/queue"
	"github.com/geoharbor/ingest/internal/stats"
)

// ErrPanic wraps a panic recovered from the decompressor.
var ErrPanic = errors.New("readthread: decompressor panicked")

// State is the lifecycle state of a Manager.
type State int32

const (
	Running State = iota
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithStats sets the metrics collector.
func WithStats(collector stats.Collector) Option {
	return func(m *Manager) { m.stats = collector }
}

// Manager owns the background read loop of one input.
type Manager struct {
	d      codec.Decompressor
	queue  *queue.Queue[[]byte]
	logger *zap.Logger
	stats  stats.Collector

	stop  atomic.Bool
	state atomic.Int32
	done  chan struct{}
}

// Start spawns the read loop over d, pushing into q. The manager takes
// ownership of d and closes it when the loop ends.
func Start(d codec.Decompressor, q *queue.Queue[[]byte], opts ...Option) *Manager {
	m := &Manager{
		d:      d,
		queue:  q,
		logger: zap.NewNop(),
		stats:  stats.NewNoop(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	go pprof.Do(context.Background(), pprof.Labels("ingest", "read"), func(context.Context) {
		m.run()
	})
	return m
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	return State(m.state.Load())
}

// RequestStop asks the loop to stop before its next read. It does not wait.
func (m *Manager) RequestStop() {
	m.stop.Store(true)
	m.state.CompareAndSwap(int32(Running), int32(Stopping))
}

// Shutdown requests a stop and waits for the loop to finish. Calling it
// again after the loop finished returns immediately.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.RequestStop()
	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close shuts the loop down and waits for it. It always returns nil.
func (m *Manager) Close() error {
	_ = m.Shutdown(context.Background())
	return nil
}

// Done is closed when the loop has finished and pushed its final chunk.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

func (m *Manager) run() {
	defer close(m.done)
	defer m.state.Store(int32(Stopped))

	start := time.Now()
	chunks, n, err := m.readAll()

	if closeErr := m.closeDecompressor(); closeErr != nil {
		if err == nil {
			err = closeErr
		} else {
			m.logger.Warn("closing decompressor after read failure", zap.Error(closeErr))
		}
	}
	if err != nil {
		m.stats.IncCounter(stats.MetricReadErrors, 1)
		m.queue.PushError(err)
	}
	m.queue.Push([]byte{})

	if sc, ok := m.d.(interface{ Streams() int }); ok {
		m.stats.IncCounter(stats.MetricStreamsOpened, int64(sc.Streams()))
	}
	m.stats.IncCounter(stats.MetricChunksRead, chunks)
	m.stats.IncCounter(stats.MetricBytesDecompressed, n)
	m.stats.ObserveHistogram(stats.MetricReadSeconds, time.Since(start).Seconds())

	m.logger.Debug("read loop finished",
		zap.Int64("chunks", chunks),
		zap.Int64("bytes", n),
		zap.Bool("stopped", m.stop.Load()),
		zap.Error(err),
	)
}

func (m *Manager) readAll() (chunks, n int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	for !m.stop.Load() {
		data, err := m.d.Read()
		if err != nil {
			return chunks, n, err
		}
		if queue.IsEmptyChunk(data) {
			break
		}
		chunks++
		n += int64(len(data))
		m.queue.Push(data)
	}
	return chunks, n, nil
}

func (m *Manager) closeDecompressor() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return m.d.Close()
}
