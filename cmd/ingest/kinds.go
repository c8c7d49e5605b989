package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geoharbor/ingest"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the supported compression kinds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := ingest.New()
		if err != nil {
			return err
		}
		defer client.Close()

		for _, k := range client.Kinds() {
			ext := k.Extension()
			if ext == "" {
				ext = "-"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-6s .%s\n", k, ext)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(kindsCmd)
}
