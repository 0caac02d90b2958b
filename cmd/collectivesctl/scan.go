package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/collectivesmq/collectives/pkg/collectives"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Args:  cobra.NoArgs,
	Short: "Sum values to root, then fold the sums passed down the tree into each rank's values",
	RunE:  runScan,
}

var scanFlags struct {
	root      int
	data      string
	transport string
}

func init() {
	scanCmd.Flags().IntVar(&scanFlags.root, "root", 0, "root rank")
	scanCmd.Flags().StringVar(&scanFlags.data, "data", "", "comma-separated local integers, e.g. 1,2,3")
	scanCmd.Flags().StringVar(&scanFlags.transport, "transport", string(transportRetrying), "transport: retrying, basic, router")
}

func runScan(cmd *cobra.Command, args []string) error {
	log := newLogger()
	ctx := context.Background()

	values, err := parseInts(scanFlags.data)
	if err != nil {
		return err
	}

	c, closeFn, err := openFromEnv(ctx, transportKind(scanFlags.transport), log)
	if err != nil {
		return err
	}
	defer closeFn()

	sum := func(a, b int) int { return a + b }
	result, err := collectives.Scan(ctx, c, values, 0, sum, scanFlags.root)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	fmt.Println(result)
	return nil
}
