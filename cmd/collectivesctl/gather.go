package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/collectivesmq/collectives/pkg/collectives"
)

var gatherCmd = &cobra.Command{
	Use:   "gather",
	Args:  cobra.NoArgs,
	Short: "Collect every rank's data at root",
	RunE:  runGather,
}

var gatherFlags struct {
	root      int
	data      string
	transport string
}

func init() {
	gatherCmd.Flags().IntVar(&gatherFlags.root, "root", 0, "root rank")
	gatherCmd.Flags().StringVar(&gatherFlags.data, "data", "", "comma-separated local integers, e.g. 1,2,3")
	gatherCmd.Flags().StringVar(&gatherFlags.transport, "transport", string(transportRetrying), "transport: retrying, basic, router")
}

func runGather(cmd *cobra.Command, args []string) error {
	log := newLogger()
	ctx := context.Background()

	values, err := parseInts(gatherFlags.data)
	if err != nil {
		return err
	}

	c, closeFn, err := openFromEnv(ctx, transportKind(gatherFlags.transport), log)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := collectives.Gather(ctx, c, values, gatherFlags.root)
	if err != nil {
		return fmt.Errorf("gather: %w", err)
	}

	fmt.Println(result)
	return nil
}
