package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vmunix/libex/internal/catalog"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "tags",
		Short: "List the tags books can carry",
		Args:  cobra.NoArgs,
		RunE:  runTags,
	})
}

func runTags(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	tags := catalog.Tags()

	if jsonOutput {
		return printJSON(w, tags)
	}
	for _, t := range tags {
		fmt.Fprintln(w, t)
	}
	return nil
}
