package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geoharbor/ingest"
	"github.com/geoharbor/ingest/internal/fetch"
	"github.com/geoharbor/ingest/internal/store"
	"github.com/geoharbor/ingest/internal/store/gcsstore"
	"github.com/geoharbor/ingest/internal/store/s3store"
)

var (
	// Global flags.
	verbose    bool
	evictPages bool
	kindName   string
	s3Region   string
	s3Endpoint string
)

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Read and write compressed OSM input files",
	Long: `Ingest decompresses input files on a background reader and delivers
their content in order. Files made of several concatenated compressed
streams are read as one.

Supported kinds: none, gzip, bzip2, zstd, lz4, s2.

Examples:
  # Decompress a planet extract to stdout
  ingest cat planet.osm.bz2 > planet.osm

  # Recompress with zstd and fsync the result
  ingest compress --out-kind zstd --sync planet.osm.bz2 planet.osm.zst

  # Check an object stored in S3
  ingest verify s3://osm-extracts/europe/monaco.osm.gz`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&evictPages, "evict-pages", false, "drop consumed input pages from the OS page cache")
	rootCmd.PersistentFlags().StringVar(&kindName, "kind", "", "compression kind of the input (default: from the file extension)")
	rootCmd.PersistentFlags().StringVar(&s3Region, "s3-region", "", "AWS region for s3:// sources")
	rootCmd.PersistentFlags().StringVar(&s3Endpoint, "s3-endpoint", "", "custom endpoint for S3-compatible services")
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// input is an opened source together with everything that must be
// released once it has been read.
type input struct {
	*ingest.Reader
	client  *ingest.Client
	cleanup func()
}

func (in *input) Close() error {
	err := in.Reader.Close()
	if cerr := in.client.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if in.cleanup != nil {
		in.cleanup()
	}
	return err
}

// openInput opens src, which may be a local path, "-", a gs:// or s3://
// object or an http(s) URL.
func openInput(ctx context.Context, src string, logger *zap.Logger) (*input, error) {
	opts := []ingest.Option{
		ingest.WithLogger(logger),
		ingest.WithPageEviction(evictPages),
	}

	var key string
	switch {
	case strings.HasPrefix(src, "gs://"), strings.HasPrefix(src, "s3://"):
		st, k, err := openStore(ctx, src)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ingest.WithStore(st))
		key = k
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return openURL(ctx, src, logger, opts)
	}

	client, err := ingest.New(opts...)
	if err != nil {
		return nil, err
	}

	var r *ingest.Reader
	if key != "" {
		r, err = openObject(ctx, client, key)
	} else {
		r, err = openPath(client, src)
	}
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return &input{Reader: r, client: client}, nil
}

func openPath(client *ingest.Client, path string) (*ingest.Reader, error) {
	if kindName == "" {
		return client.Open(path)
	}
	kind, err := ingest.ParseKind(kindName)
	if err != nil {
		return nil, err
	}
	return client.OpenKind(path, kind)
}

func openObject(ctx context.Context, client *ingest.Client, key string) (*ingest.Reader, error) {
	if kindName == "" {
		return client.OpenObject(ctx, key)
	}
	kind, err := ingest.ParseKind(kindName)
	if err != nil {
		return nil, err
	}
	data, err := client.Store().ReadObject(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("reading object %s: %w", key, err)
	}
	return client.OpenBuffer(data, kind)
}

// openStore connects to the bucket named by a gs:// or s3:// URL and
// returns the key within it.
func openStore(ctx context.Context, url string) (store.Store, string, error) {
	if strings.HasPrefix(url, "gs://") {
		bucket, key, err := gcsstore.ParseURL(url)
		if err != nil {
			return nil, "", err
		}
		st, err := gcsstore.New(ctx, bucket)
		if err != nil {
			return nil, "", err
		}
		return st, key, nil
	}

	bucket, key, err := s3store.ParseURL(url)
	if err != nil {
		return nil, "", err
	}
	var opts []s3store.Option
	if s3Region != "" {
		opts = append(opts, s3store.WithRegion(s3Region))
	}
	if s3Endpoint != "" {
		opts = append(opts, s3store.WithEndpoint(s3Endpoint))
	}
	st, err := s3store.New(ctx, bucket, opts...)
	if err != nil {
		return nil, "", err
	}
	return st, key, nil
}

// openURL downloads url to a temporary file and opens it. The file is
// removed when the input is closed.
func openURL(ctx context.Context, url string, logger *zap.Logger, opts []ingest.Option) (*input, error) {
	tmp, err := os.MkdirTemp("", "ingest-fetch-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(tmp) }

	dest := filepath.Join(tmp, fetchName(url))
	var progress fetch.ProgressFunc
	if verbose {
		progress = fetch.WriterProgress(os.Stderr)
	}

	d := fetch.New(fetch.WithLogger(logger))
	if _, err := d.Fetch(ctx, url, dest, progress); err != nil {
		cleanup()
		return nil, err
	}

	client, err := ingest.New(opts...)
	if err != nil {
		cleanup()
		return nil, err
	}
	r, err := openPath(client, dest)
	if err != nil {
		_ = client.Close()
		cleanup()
		return nil, err
	}
	return &input{Reader: r, client: client, cleanup: cleanup}, nil
}

// fetchName keeps the last path element of url so the kind can still be
// derived from its extension.
func fetchName(url string) string {
	name := url
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "download"
	}
	return name
}
