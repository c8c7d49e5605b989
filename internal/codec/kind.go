package codec

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Kind identifies a compression format.
type Kind int

// Known compression kinds. Other values may be registered by extensions.
const (
	None Kind = iota
	Gzip
	Bzip2
	Zstd
	LZ4
	S2
)

var kindInfo = map[Kind]struct {
	name string
	ext  string
}{
	None:  {"none", ""},
	Gzip:  {"gzip", "gz"},
	Bzip2: {"bzip2", "bz2"},
	Zstd:  {"zstd", "zst"},
	LZ4:   {"lz4", "lz4"},
	S2:    {"s2", "sz"},
}

// String returns the kind name, e.g. "gzip".
func (k Kind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Extension returns the file extension without dot (e.g., "gz", "zst").
// Returns empty string for no compression and unknown kinds.
func (k Kind) Extension() string {
	return kindInfo[k].ext
}

// ParseKind parses a kind name or file extension.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimPrefix(s, "."))
	for k, info := range kindInfo {
		if s == info.name || (info.ext != "" && s == info.ext) {
			return k, nil
		}
	}
	switch s {
	case "", "raw", "plain":
		return None, nil
	case "bz", "bzip":
		return Bzip2, nil
	case "zstandard":
		return Zstd, nil
	case "snappy":
		return S2, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// KindFromPath derives the kind from a file name's extension.
// Files without a known compression extension are treated as None.
func KindFromPath(path string) Kind {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return None
	}
	for k, info := range kindInfo {
		if info.ext == ext {
			return k
		}
	}
	return None
}
