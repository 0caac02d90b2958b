package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/collectivesmq/collectives/pkg/collectives"
)

var reduceCmd = &cobra.Command{
	Use:   "reduce",
	Args:  cobra.NoArgs,
	Short: "Sum this rank's values into a single total at root",
	RunE:  runReduce,
}

var reduceFlags struct {
	root      int
	data      string
	transport string
}

func init() {
	reduceCmd.Flags().IntVar(&reduceFlags.root, "root", 0, "root rank")
	reduceCmd.Flags().StringVar(&reduceFlags.data, "data", "", "comma-separated local integers, e.g. 1,2,3")
	reduceCmd.Flags().StringVar(&reduceFlags.transport, "transport", string(transportRetrying), "transport: retrying, basic, router")
}

func runReduce(cmd *cobra.Command, args []string) error {
	log := newLogger()
	ctx := context.Background()

	values, err := parseInts(reduceFlags.data)
	if err != nil {
		return err
	}

	c, closeFn, err := openFromEnv(ctx, transportKind(reduceFlags.transport), log)
	if err != nil {
		return err
	}
	defer closeFn()

	sum := func(a, b int) int { return a + b }
	result, err := collectives.Reduce(ctx, c, values, 0, sum, reduceFlags.root)
	if err != nil {
		return fmt.Errorf("reduce: %w", err)
	}

	fmt.Println(result)
	return nil
}
