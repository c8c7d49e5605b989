package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geoharbor/ingest/internal/store"
)

var lsCmd = &cobra.Command{
	Use:   "ls URL",
	Short: "List objects under a gs:// or s3:// prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runLs,
}

func init() {
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {
	st, prefix, err := openStore(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer st.Close()

	lister, ok := st.(store.Lister)
	if !ok {
		return fmt.Errorf("store for %s cannot list objects", args[0])
	}
	keys, err := lister.List(cmd.Context(), prefix)
	if err != nil {
		return err
	}
	for _, k := range keys {
		fmt.Fprintln(cmd.OutOrStdout(), k)
	}
	return nil
}
