package battle

import (
	"fmt"

	"github.com/KirkDiggler/trenchturn/internal/errors"
)

// Capture defaults
const (
	DefaultCaptureTurns  = 5
	DefaultCaptureRadius = 2
)

// ObjectiveSpec describes a flag to plant
type ObjectiveSpec struct {
	ID       string
	Position Position
	Owner    Faction
	// CaptureTurns defaults to DefaultCaptureTurns
	CaptureTurns int
	// Radius defaults to DefaultCaptureRadius
	Radius int
}

// Build turns a spec into an uncontested flag
func (s ObjectiveSpec) Build() *Objective {
	o := &Objective{
		ID:           s.ID,
		Position:     s.Position,
		Owner:        s.Owner,
		CaptureTurns: s.CaptureTurns,
		Radius:       s.Radius,
	}
	if o.CaptureTurns <= 0 {
		o.CaptureTurns = DefaultCaptureTurns
	}
	if o.Radius <= 0 {
		o.Radius = DefaultCaptureRadius
	}
	return o
}

// Objective is a flag held by a faction. Each turn that living enemies stand
// within Radius tiles (manhattan) and no living owner does, Progress rises by
// one; at CaptureTurns the flag changes hands.
type Objective struct {
	ID           string
	Position     Position
	Owner        Faction
	Progress     int
	CaptureTurns int
	Radius       int
}

// InRadius reports whether p is close enough to contest the flag
func (o *Objective) InRadius(p Position) bool {
	return abs(o.Position.X-p.X)+abs(o.Position.Y-p.Y) <= o.Radius
}

// AddObjective plants a flag on the battlefield
func (b *Battle) AddObjective(o *Objective) error {
	if o == nil {
		return errors.InvalidArgument("objective is required")
	}
	if o.ID == "" {
		return errors.InvalidArgument("objective ID is required")
	}
	for _, existing := range b.objectives {
		if existing.ID == o.ID {
			return errors.AlreadyExistsf("objective %s already exists", o.ID)
		}
	}
	if o.Owner != FactionAllies && o.Owner != FactionCentralPowers {
		return errors.InvalidArgumentf("objective %s has unknown owner %q", o.ID, o.Owner)
	}
	if !b.InBounds(o.Position) {
		return errors.InvalidArgumentf("objective %s placed off the battlefield at (%d,%d)", o.ID, o.Position.X, o.Position.Y)
	}

	b.objectives = append(b.objectives, o)
	return nil
}

// Objectives returns copies of every flag in placement order
func (b *Battle) Objectives() []Objective {
	out := make([]Objective, 0, len(b.objectives))
	for _, o := range b.objectives {
		out = append(out, *o)
	}
	return out
}

// UpdateObjectives runs one turn of capture checks. It returns the feed
// messages it produced and whether any flag changed hands.
func (b *Battle) UpdateObjectives() ([]string, bool) {
	var (
		messages []string
		captured bool
	)

	for _, o := range b.objectives {
		var attacker *Soldier
		defended := false
		for _, id := range b.order {
			s := b.soldiers[id]
			if !s.Alive() || !o.InRadius(s.Position) {
				continue
			}
			if s.Faction == o.Owner {
				defended = true
			} else if attacker == nil {
				attacker = s
			}
		}

		if attacker == nil || defended {
			if o.Progress > 0 {
				messages = append(messages, fmt.Sprintf("Flag %s defended!", o.ID))
			}
			o.Progress = 0
			continue
		}

		o.Progress++
		if o.Progress == 1 {
			messages = append(messages, fmt.Sprintf("Flag %s is being contested! (%d/%d)",
				o.ID, o.Progress, o.CaptureTurns))
		}
		if o.Progress >= o.CaptureTurns {
			o.Owner = attacker.Faction
			o.Progress = 0
			captured = true
			messages = append(messages, fmt.Sprintf("%s captured %s!", attacker.Faction.DisplayName(), o.ID))
		}
	}

	return messages, captured
}

// ObjectiveVictor reports the faction holding every flag, if there are any
func (b *Battle) ObjectiveVictor() (Faction, bool) {
	if len(b.objectives) == 0 {
		return "", false
	}

	owner := b.objectives[0].Owner
	for _, o := range b.objectives[1:] {
		if o.Owner != owner {
			return "", false
		}
	}
	return owner, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
