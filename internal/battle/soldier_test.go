package battle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/trenchturn/internal/battle"
)

func TestDistanceRoundsUp(t *testing.T) {
	assert.Equal(t, 0, battle.Distance(battle.Position{X: 3, Y: 3}, battle.Position{X: 3, Y: 3}))
	assert.Equal(t, 2, battle.Distance(battle.Position{}, battle.Position{X: 1, Y: 1}))
	assert.Equal(t, 5, battle.Distance(battle.Position{X: 10, Y: 10}, battle.Position{X: 13, Y: 14}))
}

func TestHitChance(t *testing.T) {
	rifle := battle.NewWeapon(battle.WeaponRifle)

	assert.InDelta(t, 0.7, rifle.HitChance(1), 0.0001)
	assert.InDelta(t, 0.7, rifle.HitChance(15), 0.0001)
	assert.InDelta(t, 0.7-0.49/3, rifle.HitChance(20), 0.0001)
	assert.InDelta(t, 0.21, rifle.HitChance(30), 0.0001)
	assert.Zero(t, rifle.HitChance(31))
}

func TestWeaponStats(t *testing.T) {
	testCases := []struct {
		weapon   battle.WeaponType
		capacity int
		damage   int
	}{
		{weapon: battle.WeaponRifle, capacity: 10, damage: 25},
		{weapon: battle.WeaponSubmachineGun, capacity: 32, damage: 18},
		{weapon: battle.WeaponMachineGun, capacity: 100, damage: 30},
		{weapon: battle.WeaponPistol, capacity: 8, damage: 15},
	}

	for _, tc := range testCases {
		t.Run(string(tc.weapon), func(t *testing.T) {
			w := battle.NewWeapon(tc.weapon)
			assert.Equal(t, tc.capacity, w.Ammo)
			assert.Equal(t, tc.damage, w.Stats.Damage)
			assert.True(t, w.Full())
		})
	}

	assert.Equal(t, battle.WeaponRifle, battle.NewWeapon("bayonet").Type)
}

func TestWeaponFireAndReload(t *testing.T) {
	pistol := battle.NewWeapon(battle.WeaponPistol)
	pistol.Ammo = 1

	assert.True(t, pistol.Fire())
	assert.False(t, pistol.CanFire())
	assert.False(t, pistol.Fire())

	pistol.Reload()
	assert.Equal(t, 8, pistol.Ammo)
}

func TestHealthFloorsAtZero(t *testing.T) {
	h := battle.NewHealth(battle.DefaultHealth)

	assert.True(t, h.TakeDamage(30))
	assert.Equal(t, 70, h.Current)
	assert.False(t, h.TakeDamage(500))
	assert.Zero(t, h.Current)
	assert.False(t, h.Alive())
}

func TestFacing(t *testing.T) {
	assert.Equal(t, battle.FacingN, battle.FacingNW.RotateCW())
	assert.Equal(t, battle.FacingNW, battle.FacingN.RotateCCW())
	assert.Equal(t, "SE", battle.FacingSE.String())

	f, ok := battle.FacingFromMovement(-3, 2)
	assert.True(t, ok)
	assert.Equal(t, battle.FacingSW, f)

	_, ok = battle.FacingFromMovement(0, 0)
	assert.False(t, ok)
}

func TestRanks(t *testing.T) {
	assert.Equal(t, "Pvt", battle.RankPrivate.String())
	assert.Equal(t, "Cpt", battle.RankCaptain.String())
	assert.True(t, battle.FactionAllies.Opposes(battle.FactionCentralPowers))
	assert.False(t, battle.FactionAllies.Opposes(battle.FactionAllies))
}
