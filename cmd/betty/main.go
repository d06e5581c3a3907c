package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bartfeenstra/betty-sub005/cmd/betty/commands"
	"github.com/bartfeenstra/betty-sub005/logger"
)

var rootCmd = &cobra.Command{
	Use:   "betty",
	Short: "Betty - Genealogical archive loader",
	Long: `Betty loads Gramps genealogical archives into one merged ancestry graph.

Archives may be plain Gramps XML, gzip-compressed (.gramps) or gzip+tar
bundles (.gpkg). Multiple archives merge into a single graph keyed by each
entity's public id, with later loads replacing earlier entities on id
collisions.

Examples:
  betty load ancestry.gramps           # Load one archive
  betty load a.gramps b.gpkg           # Merge two archives
  betty load --watch ancestry.gramps   # Re-load whenever the file changes
  betty load                           # Load the archives from betty.toml`,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: betty.toml in the working directory)")
	rootCmd.AddCommand(commands.LoadCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
