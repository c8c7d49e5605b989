// Package ingest reads compressed input files as an ordered stream of
// decompressed chunks. Decompression runs on a background goroutine per
// input, so parsing and decoding overlap.
//
// Example usage:
//
//	client, err := ingest.New(ingest.WithPageEviction(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	r, err := client.Open("planet.osm.bz2")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	for {
//	    chunk, err := r.ReadChunk(ctx)
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    parse(chunk)
//	}
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/geoharbor/ingest/internal/codec"
	"github.com/geoharbor/ingest/internal/codec/codecs"
	"github.com/geoharbor/ingest/internal/fileutil"
	"github.com/geoharbor/ingest/internal/queue"
	"github.com/geoharbor/ingest/internal/readthread"
	"github.com/geoharbor/ingest/internal/stats"
	"github.com/geoharbor/ingest/internal/store"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrClosed indicates the client or reader has been closed.
	ErrClosed = errors.New("ingest: closed")

	// ErrNoStore indicates an object was requested without a configured store.
	ErrNoStore = errors.New("ingest: no store configured")
)

// StdStream is the path that selects stdin for Open and stdout for Create.
const StdStream = "-"

// defaultRegistry holds the built-in kinds. It is populated on first use.
var defaultRegistry = sync.OnceValues(codecs.NewRegistry)

// Client opens compressed inputs and creates compressed outputs.
// A Client is safe for concurrent use by multiple goroutines; the Readers
// and Writers it returns are not.
type Client struct {
	registry  *codec.Registry
	store     store.Store
	stats     stats.Collector
	logger    *zap.Logger
	readOpts  []codec.Option
	writeOpts []codec.Option
	closed    atomic.Bool
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.registry == nil {
		r, err := defaultRegistry()
		if err != nil {
			return nil, fmt.Errorf("registering codecs: %w", err)
		}
		cfg.registry = r
	}

	c := &Client{
		registry: cfg.registry,
		store:    cfg.store,
		stats:    cfg.stats,
		logger:   cfg.logger,
		readOpts: []codec.Option{codec.WithPageEviction(cfg.evictPages)},
		writeOpts: []codec.Option{
			codec.WithLevel(cfg.level),
			codec.WithSync(cfg.sync),
		},
	}

	c.logger.Debug("client initialized",
		zap.Stringers("kinds", c.registry.Kinds()),
		zap.Bool("evictPages", cfg.evictPages),
		zap.Bool("sync", cfg.sync),
		zap.Bool("store", c.store != nil),
	)
	return c, nil
}

// Open opens path for reading, choosing the kind from its extension.
// The path "-" reads standard input uncompressed.
func (c *Client) Open(path string) (*Reader, error) {
	return c.OpenKind(path, KindFromPath(path))
}

// OpenKind opens path for reading as the given kind.
func (c *Client) OpenKind(path string, kind Kind) (*Reader, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if path == StdStream {
		return c.OpenFile(os.Stdin, kind)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	return c.OpenFile(f, kind)
}

// OpenFile starts reading f as the given kind. The reader takes ownership
// of f, which is closed even if OpenFile fails.
func (c *Client) OpenFile(f *os.File, kind Kind) (*Reader, error) {
	if c.closed.Load() {
		_ = fileutil.Close(f)
		return nil, ErrClosed
	}

	d, err := c.registry.NewDecompressor(kind, f, c.readOpts...)
	if err != nil {
		_ = fileutil.Close(f)
		return nil, err
	}
	c.logger.Debug("input opened", zap.String("file", f.Name()), zap.Stringer("kind", kind))
	return c.start(d), nil
}

// OpenBuffer starts decoding data, a single compressed stream held in memory.
func (c *Client) OpenBuffer(data []byte, kind Kind) (*Reader, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}

	d, err := c.registry.NewBufferDecompressor(kind, data)
	if err != nil {
		return nil, err
	}
	return c.start(d), nil
}

// OpenObject reads the object at key from the configured store and decodes
// it in memory. The kind comes from the key's extension.
func (c *Client) OpenObject(ctx context.Context, key string) (*Reader, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if c.store == nil {
		return nil, ErrNoStore
	}

	data, err := c.store.ReadObject(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("reading object %s: %w", key, err)
	}
	return c.OpenBuffer(data, KindFromPath(key))
}

// Create creates path for writing as the given kind. The path "-" writes
// to standard output, which stays open after the writer is closed.
func (c *Client) Create(path string, kind Kind) (*Writer, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if path == StdStream {
		return c.CreateFile(os.Stdout, kind)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	return c.CreateFile(f, kind)
}

// CreateFile starts writing a compressed stream of the given kind to f.
// The writer takes ownership of f, which is closed even if CreateFile fails.
func (c *Client) CreateFile(f *os.File, kind Kind) (*Writer, error) {
	if c.closed.Load() {
		_ = fileutil.Close(f)
		return nil, ErrClosed
	}
	if _, err := c.registry.Lookup(kind); err != nil {
		_ = fileutil.Close(f)
		return nil, err
	}

	comp, err := c.registry.NewCompressor(kind, f, c.writeOpts...)
	if err != nil {
		return nil, err
	}
	return &Writer{comp: comp, stats: c.stats}, nil
}

// Kinds returns the compression kinds the client can read and write.
func (c *Client) Kinds() []Kind {
	return c.registry.Kinds()
}

// Store returns the configured object store, or nil.
func (c *Client) Store() store.Store {
	return c.store
}

// Close releases all resources associated with the client.
// Readers and Writers already returned remain usable.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	if c.store != nil {
		if err := c.store.Close(); err != nil {
			return fmt.Errorf("closing store: %w", err)
		}
	}
	return nil
}

func (c *Client) start(d codec.Decompressor) *Reader {
	q := queue.New[[]byte]()
	m := readthread.Start(d, q,
		readthread.WithLogger(c.logger),
		readthread.WithStats(c.stats),
	)
	return &Reader{
		chunks: queue.NewWrapper(q, queue.IsEmptyChunk),
		thread: m,
	}
}
