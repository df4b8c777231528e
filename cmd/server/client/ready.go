package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var readyCmd = &cobra.Command{
	Use:   "ready [session-id] [entity-id]",
	Short: "Mark a soldier ready, the player by default",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  markReady,
}

func markReady(_ *cobra.Command, args []string) error {
	fields := map[string]any{"session_id": args[0]}
	if len(args) > 1 {
		fields["entity_id"] = args[1]
	}

	client, cleanup, err := createTurnClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := request(fields)
	if err != nil {
		return err
	}

	resp, err := client.MarkReady(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to mark ready: %w", err)
	}

	if printEvents(resp, "events") == 0 {
		fmt.Println("Waiting on other soldiers")
	}
	printSession(resp)
	return nil
}
