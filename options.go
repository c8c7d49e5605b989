package ingest

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/geoharbor/ingest/internal/codec"
	"github.com/geoharbor/ingest/internal/stats"
	"github.com/geoharbor/ingest/internal/store"
	"github.com/geoharbor/ingest/internal/store/diskstore"
)

// Option configures a Client.
type Option interface {
	apply(*options)
}

// options holds the client configuration.
type options struct {
	store      store.Store
	registry   *codec.Registry
	stats      stats.Collector
	logger     *zap.Logger
	evictPages bool
	sync       bool
	level      int
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		stats:  stats.NewNoop(),
		logger: zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithStore sets the object store used by OpenObject.
func WithStore(s store.Store) Option {
	return optionFunc(func(o *options) {
		o.store = s
	})
}

// WithRegistry sets the codec registry.
// If not set, a registry with every built-in kind is used.
func WithRegistry(r *codec.Registry) Option {
	return optionFunc(func(o *options) {
		o.registry = r
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// WithPageEviction makes readers drop consumed file pages from the OS page
// cache. It only has an effect on Linux.
func WithPageEviction(enabled bool) Option {
	return optionFunc(func(o *options) {
		o.evictPages = enabled
	})
}

// WithSync makes writers fsync their file before closing it.
func WithSync(enabled bool) Option {
	return optionFunc(func(o *options) {
		o.sync = enabled
	})
}

// WithLevel sets the compression level for writers.
// Zero selects each kind's default.
func WithLevel(level int) Option {
	return optionFunc(func(o *options) {
		o.level = level
	})
}

// WithDataDir serves objects from files under dir.
func WithDataDir(dir string) (Option, error) {
	st, err := diskstore.New(dir)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}
	return WithStore(st), nil
}
