package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/etnz/apt-sources/sources"
)

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print a sample one-line source list",
	Long: `Example prints a few one-line entries to try the converter with:

  apt-sources example | apt-sources convert`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), sources.Example)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of apt-sources",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "apt-sources %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(exampleCmd)
	rootCmd.AddCommand(versionCmd)
}
