package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat SRC",
	Short: "Decompress a source to stdout",
	Long: `Decompress SRC and write its content to stdout.

SRC may be a local file, "-" for stdin, gs://bucket/key, s3://bucket/key
or an http(s) URL. The kind is taken from the extension unless --kind is
given.`,
	Args: cobra.ExactArgs(1),
	RunE: runCat,
}

func init() {
	rootCmd.AddCommand(catCmd)
}

func runCat(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	in, err := openInput(cmd.Context(), args[0], logger)
	if err != nil {
		return err
	}
	defer in.Close()

	out := bufio.NewWriterSize(os.Stdout, 1<<20)
	if _, err := in.WriteTo(out); err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	return out.Flush()
}
