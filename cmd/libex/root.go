package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	sourceFlag string
	jsonOutput bool
	ephemeral  bool
)

var rootCmd = &cobra.Command{
	Use:   "libex",
	Short: "Browse a book catalog and keep favorites",
	Long: `libex - browse a book catalog and keep favorites

Loads a list of books from a URL or file, filters and sorts it,
and remembers the books you mark as favorites.

Run 'libex browse' for the interactive view.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: discovered)")
	rootCmd.PersistentFlags().StringVar(&sourceFlag, "source", "", "Catalog URL or file, overrides the config")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep favorites in memory only")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("libex {{.Version}}\n")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "libex %s\n", version)
		},
	})
}
