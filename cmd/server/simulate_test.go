package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/trenchturn/internal/battle"
	"github.com/KirkDiggler/trenchturn/internal/engine"
	"github.com/KirkDiggler/trenchturn/internal/orchestrators/session"
)

func duelView(gap, ammo int) *session.SessionView {
	return &session.SessionView{
		PlayerID: battle.PlayerID,
		Soldiers: []session.SoldierView{
			{ID: battle.PlayerID, Faction: battle.FactionAllies, Player: true, Alive: true,
				Position: battle.Position{X: 10, Y: 10}, Weapon: battle.WeaponRifle, Ammo: ammo},
			{ID: "enemy_1", Faction: battle.FactionCentralPowers, Alive: true,
				Position: battle.Position{X: 10 + gap, Y: 10 - gap}, Weapon: battle.WeaponRifle, Ammo: 10},
		},
	}
}

func TestPlayerOrders(t *testing.T) {
	assert.Equal(t, engine.Shoot{TargetID: "enemy_1"}, playerOrders(duelView(5, 10)))
	assert.Equal(t, engine.Move{DX: 1, DY: -1}, playerOrders(duelView(40, 10)))
	assert.Equal(t, engine.Reload{}, playerOrders(duelView(5, 0)))

	view := duelView(5, 10)
	view.Soldiers[1].Alive = false
	assert.Equal(t, engine.Wait{}, playerOrders(view))

	view = duelView(5, 10)
	view.Soldiers[0].Alive = false
	assert.Equal(t, engine.Wait{}, playerOrders(view))
}
