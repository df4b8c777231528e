package battle

import "time"

// WeaponType names a weapon class
type WeaponType string

// Weapon types
const (
	WeaponRifle         WeaponType = "rifle"
	WeaponSubmachineGun WeaponType = "smg"
	WeaponMachineGun    WeaponType = "machine_gun"
	WeaponPistol        WeaponType = "pistol"
)

// minAccuracyFactor is the share of base accuracy left at maximum range
const minAccuracyFactor = 0.3

// WeaponStats are fixed per weapon type
type WeaponStats struct {
	Name           string
	MaxRange       int
	EffectiveRange int
	BaseAccuracy   float64
	Damage         int
	FireTime       time.Duration
	ReloadTime     time.Duration
	Capacity       int
}

var weaponStats = map[WeaponType]WeaponStats{
	WeaponRifle: {
		Name: "Rifle", MaxRange: 30, EffectiveRange: 15, BaseAccuracy: 0.7, Damage: 25,
		FireTime: 3 * time.Second, ReloadTime: 5 * time.Second, Capacity: 10,
	},
	WeaponSubmachineGun: {
		Name: "SMG", MaxRange: 15, EffectiveRange: 8, BaseAccuracy: 0.6, Damage: 18,
		FireTime: 2 * time.Second, ReloadTime: 4 * time.Second, Capacity: 32,
	},
	WeaponMachineGun: {
		Name: "Machine Gun", MaxRange: 40, EffectiveRange: 20, BaseAccuracy: 0.8, Damage: 30,
		FireTime: 2500 * time.Millisecond, ReloadTime: 8 * time.Second, Capacity: 100,
	},
	WeaponPistol: {
		Name: "Pistol", MaxRange: 10, EffectiveRange: 5, BaseAccuracy: 0.5, Damage: 15,
		FireTime: 2 * time.Second, ReloadTime: 3 * time.Second, Capacity: 8,
	},
}

// WeaponTypeNames lists accepted weapon types
func WeaponTypeNames() []string {
	return []string{string(WeaponRifle), string(WeaponSubmachineGun), string(WeaponMachineGun), string(WeaponPistol)}
}

// Weapon is a soldier's firearm with its magazine
type Weapon struct {
	Type  WeaponType
	Stats WeaponStats
	Ammo  int
}

// NewWeapon returns a fully loaded weapon, falling back to a rifle for
// unknown types
func NewWeapon(t WeaponType) *Weapon {
	stats, ok := weaponStats[t]
	if !ok {
		t = WeaponRifle
		stats = weaponStats[t]
	}
	return &Weapon{Type: t, Stats: stats, Ammo: stats.Capacity}
}

// CanFire reports whether a round is chambered
func (w *Weapon) CanFire() bool {
	return w.Ammo > 0
}

// Fire spends one round
func (w *Weapon) Fire() bool {
	if !w.CanFire() {
		return false
	}
	w.Ammo--
	return true
}

// Reload refills the magazine
func (w *Weapon) Reload() {
	w.Ammo = w.Stats.Capacity
}

// Full reports whether the magazine is full
func (w *Weapon) Full() bool {
	return w.Ammo >= w.Stats.Capacity
}

// InRange reports whether distance is within maximum range
func (w *Weapon) InRange(distance int) bool {
	return distance <= w.Stats.MaxRange
}

// HitChance is base accuracy up to effective range, falling linearly to
// 30% of it at maximum range, and zero beyond
func (w *Weapon) HitChance(distance int) float64 {
	s := w.Stats
	switch {
	case distance <= s.EffectiveRange:
		return s.BaseAccuracy
	case distance <= s.MaxRange:
		beyond := float64(distance - s.EffectiveRange)
		span := float64(s.MaxRange - s.EffectiveRange)
		minAccuracy := s.BaseAccuracy * minAccuracyFactor
		return s.BaseAccuracy - (s.BaseAccuracy-minAccuracy)*(beyond/span)
	default:
		return 0
	}
}
