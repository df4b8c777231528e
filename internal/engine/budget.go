package engine

import "time"

// Turn allotment bounds
const (
	MinBaseDuration     = 5 * time.Second
	MaxBaseDuration     = 30 * time.Second
	DefaultBaseDuration = 12 * time.Second
)

// TimeBudget is the per-entity time ledger.
//
// Debt is overspend owed to later turns. Reset carries it into the next turn
// unchanged, where it is deducted from that turn's allowance. Only Consume
// recomputes it, so a turn that commits nothing leaves the debt where it was.
type TimeBudget struct {
	BaseDuration  time.Duration
	Debt          time.Duration
	SpentThisTurn time.Duration

	// MaxDebt caps Debt when non-zero
	MaxDebt time.Duration

	carried time.Duration
}

// NewTimeBudget creates a ledger with base clamped to [MinBaseDuration, MaxBaseDuration]
func NewTimeBudget(base time.Duration) *TimeBudget {
	return &TimeBudget{BaseDuration: ClampBaseDuration(base)}
}

// ClampBaseDuration bounds a per-turn allotment. Zero means the default.
func ClampBaseDuration(d time.Duration) time.Duration {
	switch {
	case d == 0:
		return DefaultBaseDuration
	case d < MinBaseDuration:
		return MinBaseDuration
	case d > MaxBaseDuration:
		return MaxBaseDuration
	default:
		return d
	}
}

// Consume charges cost against this turn and returns the resulting debt.
// It never rejects; overspend becomes debt.
func (b *TimeBudget) Consume(cost time.Duration) time.Duration {
	if cost < 0 {
		cost = 0
	}
	b.SpentThisTurn += cost
	b.settle()

	return b.Debt
}

// settle recomputes Debt from this turn's spending and the carried debt.
// Consume is its only caller.
func (b *TimeBudget) settle() {
	debt := b.SpentThisTurn + b.carried - b.BaseDuration
	if debt < 0 {
		debt = 0
	}
	if b.MaxDebt > 0 && debt > b.MaxDebt {
		debt = b.MaxDebt
	}
	b.Debt = debt
}

// AvailableTime is what is left of this turn's allowance after spending and
// carried debt. At the start of a turn it equals BaseDuration - Debt.
func (b *TimeBudget) AvailableTime() time.Duration {
	return b.BaseDuration - b.SpentThisTurn - b.carried
}

// CanAfford is advisory only; commits are never refused for cost
func (b *TimeBudget) CanAfford(cost time.Duration) bool {
	return b.AvailableTime() >= cost
}

// Carried is the debt that was carried into the current turn
func (b *TimeBudget) Carried() time.Duration {
	return b.carried
}

// ResetForNewTurn zeroes SpentThisTurn and carries Debt forward untouched
func (b *TimeBudget) ResetForNewTurn() {
	b.SpentThisTurn = 0
	b.carried = b.Debt
}
