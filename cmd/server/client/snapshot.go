package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [session-id]",
	Short: "Print the full state of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  getSnapshot,
}

func getSnapshot(_ *cobra.Command, args []string) error {
	client, cleanup, err := createTurnClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := request(map[string]any{"session_id": args[0]})
	if err != nil {
		return err
	}

	resp, err := client.GetSnapshot(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to get snapshot: %w", err)
	}

	return printResponse(resp)
}
