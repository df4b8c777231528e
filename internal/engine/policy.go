package engine

import "github.com/KirkDiggler/trenchturn/internal/errors"

// Policy decides when Planning may end and when non-player planning may run.
// Both are evaluated only while the phase is Planning.
type Policy interface {
	Order() OrderPolicy
	AllReady(w *World) bool
	PlanningOpen(w *World) bool
}

// ReadinessFunc is the injected predicate for initiative-based ordering
type ReadinessFunc func(w *World) bool

// NewPolicy builds the policy for order. Initiative ordering has no built-in
// rule and requires readiness.
func NewPolicy(order OrderPolicy, readiness ReadinessFunc) (Policy, error) {
	switch order {
	case OrderPlayerFirst:
		return playerFirst{}, nil
	case OrderSimultaneous:
		return simultaneous{}, nil
	case OrderInitiativeBased:
		if readiness == nil {
			return nil, errors.InvalidArgument("initiative ordering requires a readiness function")
		}
		return initiativeBased{ready: readiness}, nil
	default:
		return nil, errors.InvalidArgumentf("unknown order policy %q", order)
	}
}

// playerFirst waits for the player's explicit ready signal, then for every
// NPC to hold a record or run out of time.
type playerFirst struct{}

func (playerFirst) Order() OrderPolicy { return OrderPlayerFirst }

func (playerFirst) AllReady(w *World) bool {
	if !playerReady(w) {
		return false
	}

	for _, e := range w.entities {
		if e.Player {
			continue
		}
		if e.record == nil && e.Budget.AvailableTime() > 0 {
			return false
		}
	}
	return true
}

func (playerFirst) PlanningOpen(w *World) bool {
	return playerReady(w)
}

func playerReady(w *World) bool {
	player := w.player()
	return player != nil && w.state.IsReady(player.ID)
}

type simultaneous struct{}

func (simultaneous) Order() OrderPolicy { return OrderSimultaneous }

func (simultaneous) AllReady(w *World) bool {
	for _, e := range w.entities {
		if !w.state.IsReady(e.ID) && e.Budget.AvailableTime() > 0 {
			return false
		}
	}
	return true
}

func (simultaneous) PlanningOpen(*World) bool { return true }

type initiativeBased struct {
	ready ReadinessFunc
}

func (initiativeBased) Order() OrderPolicy { return OrderInitiativeBased }

func (p initiativeBased) AllReady(w *World) bool { return p.ready(w) }

func (initiativeBased) PlanningOpen(*World) bool { return true }
