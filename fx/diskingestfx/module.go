// Package diskingestfx provides an fx module for an ingest client that
// serves objects from a data directory.
package diskingestfx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/geoharbor/ingest"
	"github.com/geoharbor/ingest/internal/stats"
	"github.com/geoharbor/ingest/internal/stats/logger"
	"github.com/geoharbor/ingest/internal/store/cachedstore"
	"github.com/geoharbor/ingest/internal/store/cachedstore/cachestrategy"
	"github.com/geoharbor/ingest/internal/store/cachedstore/cachestrategy/lru"
	"github.com/geoharbor/ingest/internal/store/cachedstore/memory"
	"github.com/geoharbor/ingest/internal/store/diskstore"
)

// Config holds configuration for the disk-backed client.
type Config struct {
	// DataDir is the directory objects are read from.
	DataDir string

	// CacheSize is the number of compressed objects to cache in memory.
	// Default is 16.
	CacheSize int

	// CacheTTL expires cached objects after the given duration.
	// Zero keeps them until evicted by size.
	CacheTTL time.Duration

	// EvictPages drops consumed file pages from the OS page cache.
	EvictPages bool
}

// Module provides a disk-backed ingest client.
// Requires a *zap.Logger and a Config to be provided.
var Module = fx.Module("diskingest",
	fx.Provide(
		newStatsCollector,
		newClient,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("ingest"))
}

// Params holds dependencies for creating the client.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided client.
type Result struct {
	fx.Out

	Client *ingest.Client
}

func newClient(p Params) (Result, error) {
	cacheSize := p.Config.CacheSize
	if cacheSize <= 0 {
		cacheSize = 16
	}

	baseStore, err := diskstore.New(p.Config.DataDir)
	if err != nil {
		return Result{}, err
	}

	var strategy cachestrategy.Strategy
	if p.Config.CacheTTL > 0 {
		strategy = lru.NewExpiring(cacheSize, p.Config.CacheTTL)
	} else {
		strategy, err = lru.New(cacheSize)
		if err != nil {
			return Result{}, err
		}
	}

	st := cachedstore.New(baseStore, memory.New(strategy, p.Collector))

	client, err := ingest.New(
		ingest.WithStore(st),
		ingest.WithStats(p.Collector),
		ingest.WithLogger(p.Logger.Named("ingest")),
		ingest.WithPageEviction(p.Config.EvictPages),
	)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return Result{Client: client}, nil
}
