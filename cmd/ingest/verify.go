package main

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/cobra"

	"github.com/geoharbor/ingest"
	"github.com/geoharbor/ingest/internal/parallel"
)

var verifyCmd = &cobra.Command{
	Use:   "verify SRC",
	Short: "Check that a source decompresses cleanly",
	Long: `Decompress SRC completely and report its size and a digest of its
content. Chunks are hashed on a worker pool; the digest combines the
chunk hashes in input order, so it is stable across runs.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

var (
	verifyWorkers int
)

func init() {
	verifyCmd.Flags().IntVar(&verifyWorkers, "workers", runtime.NumCPU(), "number of hashing workers")
	rootCmd.AddCommand(verifyCmd)
}

type chunkDigest struct {
	size int
	sum  uint64
}

// chunkSource ends the input with an empty chunk where the reader
// reports io.EOF.
type chunkSource struct {
	r *ingest.Reader
}

func (s chunkSource) Pop(ctx context.Context) ([]byte, error) {
	chunk, err := s.r.ReadChunk(ctx)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	return chunk, err
}

func runVerify(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()
	in, err := openInput(ctx, args[0], logger)
	if err != nil {
		return err
	}
	defer in.Close()

	results := parallel.Ordered(ctx, chunkSource{in.Reader}, verifyWorkers,
		func(_ context.Context, chunk []byte) (chunkDigest, error) {
			return chunkDigest{size: len(chunk), sum: xxhash.Sum64(chunk)}, nil
		})
	defer results.Close()

	total := xxhash.New()
	var chunks, size int64
	for {
		d, err := results.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: chunk %d: %w", args[0], chunks, err)
		}
		_, _ = total.Write(binary.LittleEndian.AppendUint64(nil, d.sum))
		chunks++
		size += int64(d.size)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: OK %d chunks, %d bytes, xxh64 %016x\n", args[0], chunks, size, total.Sum64())
	return nil
}
