package engine

import "fmt"

// Phase banners written to the event feed
const (
	BannerExecuting = "=== Executing Turn ==="
	bannerTurnFmt   = "=== Turn %d ==="
)

// TurnBanner is the banner announcing turn n
func TurnBanner(n int) string {
	return fmt.Sprintf(bannerTurnFmt, n)
}

// Transition describes what a single Advance did
type Transition struct {
	From Phase
	To   Phase
	// Turn is the turn index after the transition
	Turn   int
	Banner string
}

// Changed reports whether the phase moved
func (t Transition) Changed() bool {
	return t.From != t.To
}

// Controller owns the phase state machine. It is the only writer of the
// phase and the turn index.
type Controller struct{}

// NewController creates a controller
func NewController() *Controller {
	return &Controller{}
}

// Advance applies at most one transition.
//
//	Planning   -> Execution   when the policy reports every entity ready
//	Execution  -> Resolution  always
//	Resolution -> Planning    always, after clearing the turn
func (c *Controller) Advance(w *World) Transition {
	from := w.state.phase
	t := Transition{From: from, To: from, Turn: w.state.turnIndex}

	switch from {
	case PhasePlanning:
		if !w.policy.AllReady(w) {
			return t
		}
		w.state.phase = PhaseExecution
		t.Banner = BannerExecuting

	case PhaseExecution:
		w.state.phase = PhaseResolution

	case PhaseResolution:
		c.resolve(w)
		w.state.phase = PhasePlanning
		t.Banner = TurnBanner(w.state.turnIndex)
	}

	t.To = w.state.phase
	t.Turn = w.state.turnIndex
	return t
}

// resolve finishes the turn. Everything here completes before the next
// Planning phase accepts a commit.
func (c *Controller) resolve(w *World) {
	for id := range w.casualties {
		w.remove(id)
	}

	for _, e := range w.entities {
		if e.record != nil && !e.record.retained() {
			e.record = nil
		}
		e.Budget.ResetForNewTurn()
	}

	w.state.turnIndex++
	w.state.ready = make(map[string]struct{})
}
