package v1alpha1

import (
	"math"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/trenchturn/internal/battle"
	"github.com/KirkDiggler/trenchturn/internal/engine"
	"github.com/KirkDiggler/trenchturn/internal/errors"
	"github.com/KirkDiggler/trenchturn/internal/orchestrators/session"
	"github.com/KirkDiggler/trenchturn/internal/repositories/eventlog"
)

// fields reads typed values out of a request document
type fields map[string]*structpb.Value

func fieldsOf(s *structpb.Struct) fields {
	return fields(s.GetFields())
}

func (f fields) has(key string) bool {
	v, ok := f[key]
	if !ok {
		return false
	}
	_, null := v.GetKind().(*structpb.Value_NullValue)
	return !null
}

func (f fields) str(key string) string {
	return f[key].GetStringValue()
}

func (f fields) boolean(key string) bool {
	return f[key].GetBoolValue()
}

func (f fields) integer(key string) (int, error) {
	if !f.has(key) {
		return 0, nil
	}
	n, ok := f[key].GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, errors.InvalidArgumentf("%s must be an integer", key)
	}
	return int(n.NumberValue), nil
}

// duration accepts Go duration strings ("1.5s") or a number of seconds
func (f fields) duration(key string) (time.Duration, error) {
	if !f.has(key) {
		return 0, nil
	}
	switch v := f[key].GetKind().(type) {
	case *structpb.Value_StringValue:
		d, err := time.ParseDuration(v.StringValue)
		if err != nil {
			return 0, errors.InvalidArgumentf("%s is not a duration: %q", key, v.StringValue)
		}
		return d, nil
	case *structpb.Value_NumberValue:
		return time.Duration(v.NumberValue * float64(time.Second)), nil
	default:
		return 0, errors.InvalidArgumentf("%s must be a duration", key)
	}
}

func (f fields) object(key string) fields {
	return fieldsOf(f[key].GetStructValue())
}

func (f fields) list(key string) []*structpb.Value {
	return f[key].GetListValue().GetValues()
}

func parseActionKind(s string) (engine.ActionKind, error) {
	kind := engine.ActionKind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch kind {
	case engine.KindMove, engine.KindRotate, engine.KindShoot, engine.KindReload, engine.KindThrowGrenade, engine.KindWait:
		return kind, nil
	case "":
		return "", errors.InvalidArgument("action.kind is required")
	default:
		return "", errors.InvalidArgumentf("unknown action kind %q", s)
	}
}

// actionFromFields decodes {kind, dx, dy, terrain_cost, clockwise, target_id, x, y}
func actionFromFields(f fields) (engine.Action, error) {
	kind, err := parseActionKind(f.str("kind"))
	if err != nil {
		return nil, err
	}

	switch kind {
	case engine.KindMove:
		dx, err := f.integer("dx")
		if err != nil {
			return nil, err
		}
		dy, err := f.integer("dy")
		if err != nil {
			return nil, err
		}
		terrain, err := f.duration("terrain_cost")
		if err != nil {
			return nil, err
		}
		return engine.Move{DX: dx, DY: dy, TerrainCost: terrain}, nil

	case engine.KindRotate:
		return engine.Rotate{Clockwise: f.boolean("clockwise")}, nil

	case engine.KindShoot:
		target := f.str("target_id")
		if target == "" {
			return nil, errors.InvalidArgument("action.target_id is required")
		}
		return engine.Shoot{TargetID: target}, nil

	case engine.KindReload:
		return engine.Reload{}, nil

	case engine.KindThrowGrenade:
		x, err := f.integer("x")
		if err != nil {
			return nil, err
		}
		y, err := f.integer("y")
		if err != nil {
			return nil, err
		}
		return engine.ThrowGrenade{X: x, Y: y}, nil

	default:
		return engine.Wait{}, nil
	}
}

func soldierSpecFromFields(f fields) (battle.SoldierSpec, error) {
	vb := errors.NewValidationBuilder()

	spec := battle.SoldierSpec{
		ID:     f.str("id"),
		Name:   f.str("name"),
		Player: f.boolean("player"),
	}
	if spec.Name == "" {
		spec.Name = spec.ID
	}

	var err error
	if spec.Faction, err = battle.ParseFaction(f.str("faction")); err != nil {
		vb.Field("faction", errors.GetMessage(err))
	}
	if spec.Rank, err = battle.ParseRank(f.str("rank")); err != nil {
		vb.Field("rank", errors.GetMessage(err))
	}
	if spec.Facing, err = battle.ParseFacing(f.str("facing")); err != nil {
		vb.Field("facing", errors.GetMessage(err))
	}
	if spec.Weapon, err = battle.ParseWeaponType(f.str("weapon")); err != nil {
		vb.Field("weapon", errors.GetMessage(err))
	}
	if spec.Position.X, err = f.integer("x"); err != nil {
		vb.Field("x", errors.GetMessage(err))
	}
	if spec.Position.Y, err = f.integer("y"); err != nil {
		vb.Field("y", errors.GetMessage(err))
	}

	return spec, vb.Build()
}

func objectiveSpecFromFields(f fields) (battle.ObjectiveSpec, error) {
	vb := errors.NewValidationBuilder()

	spec := battle.ObjectiveSpec{ID: f.str("id")}

	var err error
	if spec.Owner, err = battle.ParseFaction(f.str("owner")); err != nil {
		vb.Field("owner", errors.GetMessage(err))
	}
	if spec.Position.X, err = f.integer("x"); err != nil {
		vb.Field("x", errors.GetMessage(err))
	}
	if spec.Position.Y, err = f.integer("y"); err != nil {
		vb.Field("y", errors.GetMessage(err))
	}
	if spec.CaptureTurns, err = f.integer("capture_turns"); err != nil {
		vb.Field("capture_turns", errors.GetMessage(err))
	}
	if spec.Radius, err = f.integer("radius"); err != nil {
		vb.Field("radius", errors.GetMessage(err))
	}

	return spec, vb.Build()
}

func recordToMap(r *engine.RecordSnapshot) map[string]any {
	return map[string]any{
		"kind":           string(r.Kind),
		"description":    r.Description,
		"time_cost":      r.TimeCost.String(),
		"locked":         r.Locked,
		"total_time":     r.TotalTime.String(),
		"time_completed": r.TimeCompleted.String(),
		"progress":       r.Progress,
		"turn_committed": r.TurnCommitted,
	}
}

func sessionToMap(v *session.SessionView) map[string]any {
	entities := make([]any, 0, len(v.Turn.Entities))
	for _, e := range v.Turn.Entities {
		m := map[string]any{
			"id":              e.ID,
			"player":          e.Player,
			"ready":           e.Ready,
			"base_duration":   e.BaseDuration.String(),
			"available_time":  e.AvailableTime.String(),
			"spent_this_turn": e.SpentThisTurn.String(),
			"debt":            e.Debt.String(),
		}
		if e.Type != "" {
			m["type"] = e.Type
		}
		if e.Record != nil {
			m["record"] = recordToMap(e.Record)
		}
		entities = append(entities, m)
	}

	soldiers := make([]any, 0, len(v.Soldiers))
	for _, s := range v.Soldiers {
		soldiers = append(soldiers, map[string]any{
			"id":         s.ID,
			"name":       s.Name,
			"faction":    string(s.Faction),
			"rank":       s.Rank.String(),
			"player":     s.Player,
			"x":          s.Position.X,
			"y":          s.Position.Y,
			"facing":     s.Facing.String(),
			"health":     s.Health,
			"max_health": s.MaxHealth,
			"weapon":     string(s.Weapon),
			"ammo":       s.Ammo,
			"alive":      s.Alive,
		})
	}

	objectives := make([]any, 0, len(v.Objectives))
	for _, o := range v.Objectives {
		objectives = append(objectives, map[string]any{
			"id":            o.ID,
			"x":             o.Position.X,
			"y":             o.Position.Y,
			"owner":         string(o.Owner),
			"progress":      o.Progress,
			"capture_turns": o.CaptureTurns,
			"radius":        o.Radius,
		})
	}

	return map[string]any{
		"id":           v.ID,
		"player_id":    v.PlayerID,
		"status":       string(v.Status),
		"winner":       string(v.Winner),
		"turn":         v.Turn.Turn,
		"phase":        v.Turn.Phase.String(),
		"order_policy": string(v.Turn.Policy),
		"entities":     entities,
		"soldiers":     soldiers,
		"objectives":   objectives,
	}
}

func entriesToList(entries []eventlog.Entry) []any {
	out := make([]any, 0, len(entries))
	for _, e := range entries {
		m := map[string]any{
			"turn":    e.Turn,
			"message": e.Message,
		}
		if e.EntityID != "" {
			m["entity_id"] = e.EntityID
			m["kind"] = e.Kind
			m["completed"] = e.Completed
		}
		if !e.CreatedAt.IsZero() {
			m["created_at"] = e.CreatedAt.UTC().Format(time.RFC3339Nano)
		}
		out = append(out, m)
	}
	return out
}

func toStruct(m map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to encode response")
	}
	return s, nil
}
