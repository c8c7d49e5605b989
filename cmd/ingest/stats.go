package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/geoharbor/ingest/internal/fetch"
)

var statsCmd = &cobra.Command{
	Use:   "stats SRC",
	Short: "Show compressed and decompressed size of a local file",
	RunE:  runStats,
	Args:  cobra.ExactArgs(1),
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	src := args[0]
	if src == "-" || strings.Contains(src, "://") {
		return fmt.Errorf("stats needs a local file, got %q", src)
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
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

	start := time.Now()
	n, err := in.WriteTo(io.Discard)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	elapsed := time.Since(start)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File:         %s\n", src)
	fmt.Fprintf(out, "Compressed:   %s\n", fetch.FormatBytes(info.Size()))
	fmt.Fprintf(out, "Decompressed: %s\n", fetch.FormatBytes(n))
	if n > 0 {
		fmt.Fprintf(out, "Ratio:        %.2f%%\n", float64(info.Size())*100/float64(n))
	}
	fmt.Fprintf(out, "Read time:    %s\n", fetch.FormatDuration(elapsed))
	return nil
}
