package ingest

import "github.com/geoharbor/ingest/internal/codec"

// Kind identifies a compression format.
type Kind = codec.Kind

// Built-in compression kinds.
const (
	None  = codec.None
	Gzip  = codec.Gzip
	Bzip2 = codec.Bzip2
	Zstd  = codec.Zstd
	LZ4   = codec.LZ4
	S2    = codec.S2
)

// ParseKind parses a kind name such as "gzip" or an extension such as "gz".
func ParseKind(s string) (Kind, error) {
	return codec.ParseKind(s)
}

// KindFromPath derives the kind from a file name's extension. Names
// without a known compression extension are read uncompressed.
func KindFromPath(path string) Kind {
	return codec.KindFromPath(path)
}
