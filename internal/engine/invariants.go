package engine

import "github.com/KirkDiggler/trenchturn/internal/errors"

// CheckInvariants verifies the structural rules of a world at rest
func CheckInvariants(w *World) error {
	if len(w.index) != len(w.entities) {
		return errors.Internalf("entity index has %d entries for %d entities", len(w.index), len(w.entities))
	}

	players := 0
	for _, e := range w.entities {
		if w.index[e.ID] != e {
			return errors.Internalf("entity %s missing from index", e.ID)
		}
		if e.Player {
			players++
		}
		if e.Budget == nil {
			return errors.Internalf("entity %s has no budget", e.ID)
		}
		if e.Budget.SpentThisTurn < 0 {
			return errors.Internalf("entity %s spent %s this turn", e.ID, e.Budget.SpentThisTurn)
		}
		if e.Budget.Debt < 0 {
			return errors.Internalf("entity %s has debt %s", e.ID, e.Budget.Debt)
		}
		if e.record != nil && e.record.locked && e.record.timeCompleted > e.record.totalTime {
			return errors.Internalf("entity %s overran its locked action", e.ID)
		}
	}
	if players > 1 {
		return errors.Internalf("world has %d players", players)
	}

	for id := range w.state.ready {
		if _, ok := w.index[id]; !ok {
			return errors.Internalf("ready set holds unknown entity %s", id)
		}
	}

	return nil
}

// checkPass adds the per-pass ordering rules to CheckInvariants
func checkPass(w *World, t Transition, observed Phase) error {
	if err := CheckInvariants(w); err != nil {
		return err
	}

	if t.To == PhaseExecution && observed != PhaseExecution {
		return errors.Internal("executor did not observe the Execution transition")
	}

	if t.From == PhaseResolution && t.To == PhasePlanning {
		if len(w.casualties) > 0 {
			return errors.Internal("casualties survived resolution")
		}
		for _, e := range w.entities {
			if e.record != nil && !e.record.retained() {
				return errors.Internalf("entity %s kept a finished record into turn %d", e.ID, t.Turn)
			}
			if e.Budget.SpentThisTurn != 0 {
				return errors.Internalf("entity %s started turn %d with spent time", e.ID, t.Turn)
			}
		}
		if len(w.state.ready) > 0 {
			return errors.Internal("ready set survived resolution")
		}
	}

	return nil
}
