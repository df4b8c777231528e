package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/trenchturn/internal/battle"
	"github.com/KirkDiggler/trenchturn/internal/config"
	"github.com/KirkDiggler/trenchturn/internal/engine"
	"github.com/KirkDiggler/trenchturn/internal/orchestrators/session"
	"github.com/KirkDiggler/trenchturn/internal/pkg/idgen"
	"github.com/KirkDiggler/trenchturn/internal/repositories/eventlog"
)

var (
	simulateTurns  int
	simulatePolicy string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play the default skirmish locally",
	Long: `Run the default skirmish in-process with the player on standing orders
and print the event feed turn by turn. Examples:

  simulate
  simulate --turns 5 --policy simultaneous`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simulateTurns, "turns", 20, "Maximum turns to play")
	simulateCmd.Flags().StringVar(&simulatePolicy, "policy", "", "Order policy (player_first, simultaneous)")
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	svc, err := session.NewOrchestrator(&session.Config{
		EventLog:    eventlog.NewInMemory(&eventlog.InMemoryConfig{Capacity: cfg.EventLogSize}),
		IDGenerator: idgen.NewSequential("sim"),
		Defaults:    defaultsFrom(cfg),
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	started, err := svc.StartSession(ctx, &session.StartSessionInput{OrderPolicy: simulatePolicy})
	if err != nil {
		return err
	}
	view := started.Session
	printEvents(started.Events)

	for view.Turn.Turn <= simulateTurns && view.Status == session.StatusActive {
		action := playerOrders(view)

		commit, err := svc.Commit(ctx, &session.CommitInput{
			SessionID: view.ID,
			EntityID:  view.PlayerID,
			Action:    action,
		})
		if err != nil {
			return fmt.Errorf("turn %d: %w", view.Turn.Turn, err)
		}
		printEvents(commit.Events)
		view = commit.Session

		if view.Status != session.StatusActive || view.Turn.Phase != engine.PhasePlanning {
			continue
		}
		ready, err := svc.MarkReady(ctx, &session.MarkReadyInput{SessionID: view.ID, EntityID: view.PlayerID})
		if err != nil {
			return fmt.Errorf("turn %d: %w", view.Turn.Turn, err)
		}
		printEvents(ready.Events)
		view = ready.Session
	}

	fmt.Printf("\nFinal state after turn %d: %s", view.Turn.Turn-1, view.Status)
	if view.Winner != "" {
		fmt.Printf(" (%s)", view.Winner)
	}
	fmt.Println()
	for _, s := range view.Soldiers {
		fmt.Printf("  %-10s %-8s %-14s (%d, %d) HP %3d/%d  %s %d\n",
			s.ID, s.Rank, s.Faction, s.Position.X, s.Position.Y, s.Health, s.MaxHealth, s.Weapon, s.Ammo)
	}
	for _, o := range view.Objectives {
		fmt.Printf("  flag %-14s (%d, %d) held by %s\n", o.ID, o.Position.X, o.Position.Y, o.Owner.DisplayName())
	}

	return nil
}

// playerOrders mirrors the NPC standing orders for the player soldier
func playerOrders(view *session.SessionView) engine.Action {
	var me *session.SoldierView
	for i := range view.Soldiers {
		if view.Soldiers[i].ID == view.PlayerID {
			me = &view.Soldiers[i]
		}
	}
	if me == nil || !me.Alive {
		return engine.Wait{}
	}

	weapon := battle.NewWeapon(me.Weapon)
	if me.Ammo == 0 {
		return engine.Reload{}
	}

	var target *session.SoldierView
	best := 0
	for i := range view.Soldiers {
		other := &view.Soldiers[i]
		if !other.Alive || !me.Faction.Opposes(other.Faction) {
			continue
		}
		d := battle.Distance(me.Position, other.Position)
		if target == nil || d < best {
			target, best = other, d
		}
	}
	if target == nil {
		return engine.Wait{}
	}

	if weapon.InRange(best) {
		return engine.Shoot{TargetID: target.ID}
	}
	return engine.Move{DX: sign(target.Position.X - me.Position.X), DY: sign(target.Position.Y - me.Position.Y)}
}

func printEvents(entries []eventlog.Entry) {
	for _, e := range entries {
		fmt.Println(e.Message)
	}
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
