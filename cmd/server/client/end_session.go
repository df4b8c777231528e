package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var endSessionCmd = &cobra.Command{
	Use:   "end [session-id]",
	Short: "End a session and clear its feed",
	Args:  cobra.ExactArgs(1),
	RunE:  endSession,
}

func endSession(_ *cobra.Command, args []string) error {
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

	resp, err := client.EndSession(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	f := resp.GetFields()
	fmt.Printf("%s (%d events cleared)\n", f["message"].GetStringValue(), int(f["events_cleared"].GetNumberValue()))
	return nil
}
