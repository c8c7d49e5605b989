// Package store defines the storage backend interface for reading
// compressed input objects.
package store

import (
	"context"
	"errors"
	"path"
	"strings"
)

// Store errors.
var (
	// ErrNotFound is returned when an object does not exist in the store.
	ErrNotFound = errors.New("store: object not found")

	// ErrInvalidKey is returned for keys that are empty or escape the store root.
	ErrInvalidKey = errors.New("store: invalid key")
)

// Store defines the interface for storage backends.
// Objects are returned exactly as stored, still compressed; decoding is the
// caller's concern.
type Store interface {
	// ReadObject reads the raw content of the object at key.
	ReadObject(ctx context.Context, key string) ([]byte, error)

	// Close releases any resources held by the store.
	Close() error
}

// Lister is implemented by stores that can enumerate their objects.
type Lister interface {
	// List returns the keys starting with prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// CleanKey normalizes a slash-separated object key. It rejects empty keys
// and keys that climb above the root.
func CleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + strings.TrimSpace(key))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", ErrInvalidKey
		}
	}
	return cleaned, nil
}

// NormalizePrefix returns prefix with exactly one trailing slash, or the
// empty string.
func NormalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}
