package engine

import (
	"fmt"
	"time"
)

// ActionKind names an action variant
type ActionKind string

// Action kinds
const (
	KindMove         ActionKind = "move"
	KindRotate       ActionKind = "rotate"
	KindShoot        ActionKind = "shoot"
	KindReload       ActionKind = "reload"
	KindThrowGrenade ActionKind = "throw_grenade"
	KindWait         ActionKind = "wait"
)

// Default costs in seconds of game time
const (
	MoveCostPerTile  = 1500 * time.Millisecond
	RotateCost       = 300 * time.Millisecond
	ShootCost        = 3 * time.Second
	ReloadCost       = 5 * time.Second
	ThrowGrenadeCost = 4 * time.Second
	WaitCost         = 1 * time.Second
)

// Action is the closed set of things an entity can commit to.
// Only the variants in this file implement it.
type Action interface {
	Kind() ActionKind
	isAction()
}

// Move steps by (DX, DY). TerrainCost multiplies the per-tile cost; zero means 1.
type Move struct {
	DX          int
	DY          int
	TerrainCost float64
}

// Rotate turns one step of eight
type Rotate struct {
	Clockwise bool
}

// Shoot fires at another entity
type Shoot struct {
	TargetID string
}

// Reload refills the weapon
type Reload struct{}

// ThrowGrenade lobs a grenade at a tile
type ThrowGrenade struct {
	X int
	Y int
}

// Wait does nothing
type Wait struct{}

func (Move) Kind() ActionKind         { return KindMove }
func (Rotate) Kind() ActionKind       { return KindRotate }
func (Shoot) Kind() ActionKind        { return KindShoot }
func (Reload) Kind() ActionKind       { return KindReload }
func (ThrowGrenade) Kind() ActionKind { return KindThrowGrenade }
func (Wait) Kind() ActionKind         { return KindWait }

func (Move) isAction()         {}
func (Rotate) isAction()       {}
func (Shoot) isAction()        {}
func (Reload) isAction()       {}
func (ThrowGrenade) isAction() {}
func (Wait) isAction()         {}

// BaseCost returns the default time cost of an action
func BaseCost(a Action) time.Duration {
	switch act := a.(type) {
	case Move:
		terrain := act.TerrainCost
		if terrain <= 0 {
			terrain = 1
		}
		return time.Duration(float64(MoveCostPerTile) * terrain)
	case Rotate:
		return RotateCost
	case Shoot:
		return ShootCost
	case Reload:
		return ReloadCost
	case ThrowGrenade:
		return ThrowGrenadeCost
	case Wait:
		return WaitCost
	default:
		return 0
	}
}

// Describe renders an action for logs and the event feed
func Describe(a Action) string {
	switch act := a.(type) {
	case Move:
		return fmt.Sprintf("move (%+d,%+d)", act.DX, act.DY)
	case Rotate:
		if act.Clockwise {
			return "rotate clockwise"
		}
		return "rotate counter-clockwise"
	case Shoot:
		return fmt.Sprintf("shoot %s", act.TargetID)
	case Reload:
		return "reload"
	case ThrowGrenade:
		return fmt.Sprintf("throw grenade at (%d,%d)", act.X, act.Y)
	case Wait:
		return "wait"
	default:
		return "unknown"
	}
}
