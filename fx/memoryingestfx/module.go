// Package memoryingestfx provides an fx module for an ingest client backed
// by an in-memory object store. Useful for testing.
package memoryingestfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/geoharbor/ingest"
	"github.com/geoharbor/ingest/internal/stats"
	"github.com/geoharbor/ingest/internal/stats/logger"
	"github.com/geoharbor/ingest/internal/store/memstore"
)

// Module provides an in-memory ingest client and its store.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("memoryingest",
	fx.Provide(
		newStatsCollector,
		memstore.New,
		newClient,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("ingest"))
}

// Params holds dependencies for creating the client.
type Params struct {
	fx.In

	Logger    *zap.Logger
	Collector stats.Collector
	Store     *memstore.Store // Populate it in tests with SetObject.
	Lifecycle fx.Lifecycle
}

func newClient(p Params) (*ingest.Client, error) {
	client, err := ingest.New(
		ingest.WithStore(p.Store),
		ingest.WithStats(p.Collector),
		ingest.WithLogger(p.Logger.Named("ingest")),
	)
	if err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}
