package codec

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
)

// Registry errors.
var (
	// ErrUnknownKind indicates a lookup for a kind nobody registered.
	ErrUnknownKind = errors.New("codec: unknown kind")

	// ErrAlreadyRegistered indicates a second registration of the same kind.
	ErrAlreadyRegistered = errors.New("codec: kind already registered")

	// ErrIncomplete indicates a registration with missing constructors.
	ErrIncomplete = errors.New("codec: incomplete constructors")
)

// CompressorFunc creates a compressor writing to f. The compressor owns f.
type CompressorFunc func(f *os.File, opts Options) (Compressor, error)

// DecompressorFunc creates a decompressor reading from f. The decompressor owns f.
type DecompressorFunc func(f *os.File, opts Options) (Decompressor, error)

// BufferDecompressorFunc creates a decompressor over an in-memory block.
type BufferDecompressorFunc func(data []byte) (Decompressor, error)

// Constructors holds the constructors registered for one kind.
type Constructors struct {
	NewCompressor         CompressorFunc
	NewDecompressor       DecompressorFunc
	NewBufferDecompressor BufferDecompressorFunc
}

// Registry maps compression kinds to their constructors.
// Each kind is registered once during initialization; lookups are safe for
// concurrent use afterwards.
type Registry struct {
	mu      sync.RWMutex
	entries map[Kind]Constructors
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[Kind]Constructors),
	}
}

// Register binds c to kind.
func (r *Registry) Register(kind Kind, c Constructors) error {
	if c.NewCompressor == nil || c.NewDecompressor == nil || c.NewBufferDecompressor == nil {
		return fmt.Errorf("%w: %s", ErrIncomplete, kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[kind]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, kind)
	}
	r.entries[kind] = c
	return nil
}

// Lookup returns the constructors registered for kind.
func (r *Registry) Lookup(kind Kind) (Constructors, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.entries[kind]
	if !ok {
		return Constructors{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return c, nil
}

// Kinds returns the registered kinds in ascending order.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(r.entries))
	for k := range r.entries {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// NewCompressor creates a compressor of the given kind writing to f.
// On lookup failure f is left open.
func (r *Registry) NewCompressor(kind Kind, f *os.File, opts ...Option) (Compressor, error) {
	c, err := r.Lookup(kind)
	if err != nil {
		return nil, err
	}
	return c.NewCompressor(f, NewOptions(opts...))
}

// NewDecompressor creates a decompressor of the given kind reading from f.
// On lookup failure f is left open.
func (r *Registry) NewDecompressor(kind Kind, f *os.File, opts ...Option) (Decompressor, error) {
	c, err := r.Lookup(kind)
	if err != nil {
		return nil, err
	}
	return c.NewDecompressor(f, NewOptions(opts...))
}

// NewBufferDecompressor creates a decompressor of the given kind over data.
func (r *Registry) NewBufferDecompressor(kind Kind, data []byte) (Decompressor, error) {
	c, err := r.Lookup(kind)
	if err != nil {
		return nil, err
	}
	return c.NewBufferDecompressor(data)
}
