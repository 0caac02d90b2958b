package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/collectivesmq/collectives/pkg/collectives"
)

var barrierCmd = &cobra.Command{
	Use:   "barrier",
	Args:  cobra.NoArgs,
	Short: "Block until every rank has reached this point",
	RunE:  runBarrier,
}

var barrierFlags struct {
	transport string
}

func init() {
	barrierCmd.Flags().StringVar(&barrierFlags.transport, "transport", string(transportRetrying), "transport: retrying, basic, router")
}

func runBarrier(cmd *cobra.Command, args []string) error {
	log := newLogger()
	ctx := context.Background()

	c, closeFn, err := openFromEnv(ctx, transportKind(barrierFlags.transport), log)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := collectives.Barrier(ctx, c); err != nil {
		return fmt.Errorf("barrier: %w", err)
	}

	fmt.Println("ok")
	return nil
}
