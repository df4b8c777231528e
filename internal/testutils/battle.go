package testutils

import "github.com/KirkDiggler/trenchturn/internal/battle"

// FixedRoller is a dice.Roller that always rolls Value.
// 1 always hits a shot with any chance; 100 misses anything below certainty.
type FixedRoller struct {
	Value int
}

// Roll returns Value
func (r FixedRoller) Roll(_ int) (int, error) {
	return r.Value, nil
}

// RollN returns count copies of Value
func (r FixedRoller) RollN(count, _ int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i] = r.Value
	}
	return out, nil
}

// Duel is a player rifleman facing one enemy rifleman gap tiles to the east
func Duel(gap int) []battle.SoldierSpec {
	return []battle.SoldierSpec{
		{ID: battle.PlayerID, Name: "Atkins", Faction: battle.FactionAllies, Player: true,
			Position: battle.Position{X: 10, Y: 10}, Facing: battle.FacingE, Weapon: battle.WeaponRifle},
		{ID: "enemy_1", Name: "Vogel", Faction: battle.FactionCentralPowers,
			Position: battle.Position{X: 10 + gap, Y: 10}, Facing: battle.FacingW, Weapon: battle.WeaponRifle},
	}
}
