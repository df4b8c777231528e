package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	commitDX        int
	commitDY        int
	commitTerrain   string
	commitClockwise bool
	commitTarget    string
	commitX         int
	commitY         int
	commitMultiTurn bool
)

var commitCmd = &cobra.Command{
	Use:   "commit [session-id] [entity-id] [kind]",
	Short: "Commit an action for a soldier",
	Long: `Commit one action for this turn. Kinds: move, rotate, shoot, reload,
throw_grenade, wait. Examples:

  commit session_1 player move --dx 1 --dy 0
  commit session_1 player shoot --target enemy_1
  commit session_1 player reload --multi-turn
  commit session_1 player throw_grenade --x 34 --y 10`,
	Args: cobra.ExactArgs(3),
	RunE: commit,
}

func init() {
	commitCmd.Flags().IntVar(&commitDX, "dx", 0, "Move step on x (-1, 0, 1)")
	commitCmd.Flags().IntVar(&commitDY, "dy", 0, "Move step on y (-1, 0, 1)")
	commitCmd.Flags().StringVar(&commitTerrain, "terrain", "", "Extra terrain cost for a move, e.g. 500ms")
	commitCmd.Flags().BoolVar(&commitClockwise, "clockwise", false, "Rotate clockwise")
	commitCmd.Flags().StringVar(&commitTarget, "target", "", "Target soldier for shoot")
	commitCmd.Flags().IntVar(&commitX, "x", 0, "Grenade target x")
	commitCmd.Flags().IntVar(&commitY, "y", 0, "Grenade target y")
	commitCmd.Flags().BoolVar(&commitMultiTurn, "multi-turn", false, "Lock the action until its full cost has elapsed")
}

func commit(_ *cobra.Command, args []string) error {
	sessionID, entityID, kind := args[0], args[1], args[2]

	client, cleanup, err := createTurnClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	action := map[string]any{
		"kind":      kind,
		"dx":        commitDX,
		"dy":        commitDY,
		"clockwise": commitClockwise,
		"target_id": commitTarget,
		"x":         commitX,
		"y":         commitY,
	}
	if commitTerrain != "" {
		action["terrain_cost"] = commitTerrain
	}

	req, err := request(map[string]any{
		"session_id": sessionID,
		"entity_id":  entityID,
		"action":     action,
		"multi_turn": commitMultiTurn,
	})
	if err != nil {
		return err
	}

	resp, err := client.Commit(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	record := resp.GetFields()["record"].GetStructValue().GetFields()
	fmt.Printf("Committed %s for %s (%s)\n",
		record["description"].GetStringValue(), entityID, record["time_cost"].GetStringValue())
	printEvents(resp, "events")
	printSession(resp)
	return nil
}
