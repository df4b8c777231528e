package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	startPolicy string
	startBudget string
	startJSON   bool
)

var startSessionCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a battle with the default skirmish",
	Long: `Start a new session. Examples:

  start
  start --policy simultaneous --budget 15s`,
	Args: cobra.NoArgs,
	RunE: startSession,
}

func init() {
	startSessionCmd.Flags().StringVar(&startPolicy, "policy", "", "Order policy (player_first, simultaneous, initiative)")
	startSessionCmd.Flags().StringVar(&startBudget, "budget", "", "Per-turn time budget, e.g. 12s")
	startSessionCmd.Flags().BoolVar(&startJSON, "json", false, "Print the full response")
}

func startSession(_ *cobra.Command, _ []string) error {
	client, cleanup, err := createTurnClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	fields := map[string]any{}
	if startPolicy != "" {
		fields["order_policy"] = startPolicy
	}
	if startBudget != "" {
		fields["turn_budget"] = startBudget
	}
	req, err := request(fields)
	if err != nil {
		return err
	}

	resp, err := client.StartSession(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	if startJSON {
		return printResponse(resp)
	}
	printSession(resp)
	printEvents(resp, "events")
	return nil
}
