package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geoharbor/ingest"
	"github.com/geoharbor/ingest/internal/fetch"
)

var compressCmd = &cobra.Command{
	Use:   "compress SRC DST",
	Short: "Recompress a source into a file",
	Long: `Decompress SRC and write it to DST compressed as --out-kind.
DST may be "-" for stdout.

Examples:
  ingest compress extract.osm.gz extract.osm.zst
  ingest compress --out-kind bzip2 --level 9 --sync extract.osm extract.osm.bz2`,
	Args: cobra.ExactArgs(2),
	RunE: runCompress,
}

var (
	outKindName   string
	compressLevel int
	compressSync  bool
)

func init() {
	compressCmd.Flags().StringVar(&outKindName, "out-kind", "", "compression kind of DST (default: from the DST extension)")
	compressCmd.Flags().IntVar(&compressLevel, "level", 0, "compression level (default: the kind's default)")
	compressCmd.Flags().BoolVar(&compressSync, "sync", false, "fsync DST before closing it")
	rootCmd.AddCommand(compressCmd)
}

func runCompress(cmd *cobra.Command, args []string) error {
	src, dst := args[0], args[1]

	outKind := ingest.KindFromPath(dst)
	if outKindName != "" {
		k, err := ingest.ParseKind(outKindName)
		if err != nil {
			return err
		}
		outKind = k
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	in, err := openInput(cmd.Context(), src, logger)
	if err != nil {
		return err
	}
	defer in.Close()

	client, err := ingest.New(
		ingest.WithLogger(logger),
		ingest.WithLevel(compressLevel),
		ingest.WithSync(compressSync),
	)
	if err != nil {
		return err
	}
	defer client.Close()

	w, err := client.Create(dst, outKind)
	if err != nil {
		return err
	}

	n, err := in.WriteTo(w)
	if err != nil {
		_ = w.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dst, err)
	}

	if verbose {
		cmd.PrintErrf("%s -> %s (%s): %s in, %s out\n",
			src, dst, outKind, fetch.FormatBytes(n), fetch.FormatBytes(w.Size()))
	}
	return nil
}
