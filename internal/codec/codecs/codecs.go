// Package codecs registers every built-in compression kind.
package codecs

import (
	"github.com/geoharbor/ingest/internal/codec"
	"github.com/geoharbor/ingest/internal/codec/bzip2codec"
	"github.com/geoharbor/ingest/internal/codec/gzipcodec"
	"github.com/geoharbor/ingest/internal/codec/lz4codec"
	"github.com/geoharbor/ingest/internal/codec/noopcodec"
	"github.com/geoharbor/ingest/internal/codec/s2codec"
	"github.com/geoharbor/ingest/internal/codec/zstdcodec"
)

// RegisterAll registers the built-in kinds with r. It must be called once
// per registry, before the first lookup.
func RegisterAll(r *codec.Registry) error {
	for _, register := range []func(*codec.Registry) error{
		noopcodec.Register,
		gzipcodec.Register,
		bzip2codec.Register,
		zstdcodec.Register,
		lz4codec.Register,
		s2codec.Register,
	} {
		if err := register(r); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry populated with the built-in kinds.
func NewRegistry() (*codec.Registry, error) {
	r := codec.NewRegistry()
	if err := RegisterAll(r); err != nil {
		return nil, err
	}
	return r, nil
}
