package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var eventsLimit int

var eventsCmd = &cobra.Command{
	Use:   "events [session-id]",
	Short: "List recent feed entries, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  listEvents,
}

func init() {
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 20, "Maximum entries to show")
}

func listEvents(_ *cobra.Command, args []string) error {
	client, cleanup, err := createTurnClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := request(map[string]any{"session_id": args[0], "limit": eventsLimit})
	if err != nil {
		return err
	}

	resp, err := client.ListEvents(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}

	if printEvents(resp, "entries") == 0 {
		fmt.Println("No events")
	}
	return nil
}
