package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/collectivesmq/collectives/pkg/collectives"
)

var scatterCmd = &cobra.Command{
	Use:   "scatter",
	Args:  cobra.NoArgs,
	Short: "Distribute root's data across all ranks in contiguous blocks",
	RunE:  runScatter,
}

var scatterFlags struct {
	root      int
	data      string
	transport string
}

func init() {
	scatterCmd.Flags().IntVar(&scatterFlags.root, "root", 0, "root rank")
	scatterCmd.Flags().StringVar(&scatterFlags.data, "data", "", "comma-separated integers, full sequence (meaningful only at --root)")
	scatterCmd.Flags().StringVar(&scatterFlags.transport, "transport", string(transportRetrying), "transport: retrying, basic, router")
}

func runScatter(cmd *cobra.Command, args []string) error {
	log := newLogger()
	ctx := context.Background()

	values, err := parseInts(scatterFlags.data)
	if err != nil {
		return err
	}

	c, closeFn, err := openFromEnv(ctx, transportKind(scatterFlags.transport), log)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := collectives.Scatter(ctx, c, values, scatterFlags.root)
	if err != nil {
		return fmt.Errorf("scatter: %w", err)
	}

	fmt.Println(result)
	return nil
}
