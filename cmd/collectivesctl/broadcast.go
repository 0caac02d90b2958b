package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/collectivesmq/collectives/pkg/collectives"
)

var broadcastCmd = &cobra.Command{
	Use:   "broadcast",
	Args:  cobra.NoArgs,
	Short: "Send one rank's value to every rank",
	RunE:  runBroadcast,
}

var broadcastFlags struct {
	root      int
	value     int
	transport string
}

func init() {
	broadcastCmd.Flags().IntVar(&broadcastFlags.root, "root", 0, "root rank")
	broadcastCmd.Flags().IntVar(&broadcastFlags.value, "value", 0, "value to send (meaningful only at --root)")
	broadcastCmd.Flags().StringVar(&broadcastFlags.transport, "transport", string(transportRetrying), "transport: retrying, basic, router")
}

func runBroadcast(cmd *cobra.Command, args []string) error {
	log := newLogger()
	ctx := context.Background()

	c, closeFn, err := openFromEnv(ctx, transportKind(broadcastFlags.transport), log)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := collectives.Broadcast(ctx, c, broadcastFlags.value, broadcastFlags.root)
	if err != nil {
		return fmt.Errorf("broadcast: %w", err)
	}

	fmt.Println(result)
	return nil
}
