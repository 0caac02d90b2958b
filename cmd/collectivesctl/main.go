package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	version = "dev" // set by build flags
)

var rootCmd = &cobra.Command{
	Use:   "collectivesctl",
	Short: "Run a single collective operation across a fixed-size rank group",
	Long: `collectivesctl runs one collective operation (broadcast, reduce,
barrier, gather, scatter, or scan) as a single rank in a larger group,
reading its topology from PYZMQCOLLECTIVES_* environment variables. It
is meant to be launched once per rank by an external process manager.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug-level logging")

	rootCmd.AddCommand(broadcastCmd)
	rootCmd.AddCommand(reduceCmd)
	rootCmd.AddCommand(barrierCmd)
	rootCmd.AddCommand(gatherCmd)
	rootCmd.AddCommand(scatterCmd)
	rootCmd.AddCommand(scanCmd)
}

// Subcommands are defined in separate files:
// - broadcastCmd in broadcast.go
// - reduceCmd    in reduce.go
// - barrierCmd   in barrier.go
// - gatherCmd    in gather.go
// - scatterCmd   in scatter.go
// - scanCmd      in scan.go

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
