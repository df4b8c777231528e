package engine

import (
	"sort"
	"strings"

	"github.com/KirkDiggler/trenchturn/internal/errors"
)

// Phase is a step of the turn cycle
type Phase int

// Phases, in cycle order
const (
	PhasePlanning Phase = iota
	PhaseExecution
	PhaseResolution
)

func (p Phase) String() string {
	switch p {
	case PhasePlanning:
		return "planning"
	case PhaseExecution:
		return "execution"
	case PhaseResolution:
		return "resolution"
	default:
		return "unknown"
	}
}

// next is the only transition each phase allows
func (p Phase) next() Phase {
	switch p {
	case PhasePlanning:
		return PhaseExecution
	case PhaseExecution:
		return PhaseResolution
	default:
		return PhasePlanning
	}
}

// OrderPolicy selects the readiness rule
type OrderPolicy string

// Order policies
const (
	OrderPlayerFirst     OrderPolicy = "player_first"
	OrderSimultaneous    OrderPolicy = "simultaneous"
	OrderInitiativeBased OrderPolicy = "initiative"
)

// OrderPolicyNames lists accepted policy strings
func OrderPolicyNames() []string {
	return []string{string(OrderPlayerFirst), string(OrderSimultaneous), string(OrderInitiativeBased)}
}

// ParseOrderPolicy accepts the policy names case-insensitively, with dashes or underscores
func ParseOrderPolicy(s string) (OrderPolicy, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch normalized {
	case "", string(OrderPlayerFirst):
		return OrderPlayerFirst, nil
	case string(OrderSimultaneous):
		return OrderSimultaneous, nil
	case string(OrderInitiativeBased), "initiative_based":
		return OrderInitiativeBased, nil
	default:
		return "", errors.InvalidArgumentf("unknown order policy %q", s)
	}
}

// TurnState is the process-wide turn record for one battle.
// Only the Controller moves the phase and turn index.
type TurnState struct {
	turnIndex int
	phase     Phase
	policy    OrderPolicy
	ready     map[string]struct{}
}

func newTurnState(policy OrderPolicy) TurnState {
	return TurnState{
		turnIndex: 1,
		phase:     PhasePlanning,
		policy:    policy,
		ready:     make(map[string]struct{}),
	}
}

// TurnIndex starts at 1 and increases by one per completed cycle
func (s *TurnState) TurnIndex() int { return s.turnIndex }

// Phase returns the current phase
func (s *TurnState) Phase() Phase { return s.phase }

// Policy returns the configured order policy
func (s *TurnState) Policy() OrderPolicy { return s.policy }

// IsReady reports ready-set membership
func (s *TurnState) IsReady(id string) bool {
	_, ok := s.ready[id]
	return ok
}

// ReadyIDs returns the ready set sorted
func (s *TurnState) ReadyIDs() []string {
	ids := make([]string, 0, len(s.ready))
	for id := range s.ready {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
