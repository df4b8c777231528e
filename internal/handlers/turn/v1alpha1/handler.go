// Package v1alpha1 handles the turn gRPC service interface
package v1alpha1

import (
	"context"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/trenchturn/internal/battle"
	"github.com/KirkDiggler/trenchturn/internal/errors"
	"github.com/KirkDiggler/trenchturn/internal/orchestrators/session"
)

// HandlerConfig holds dependencies for the turn handler
type HandlerConfig struct {
	SessionService session.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c.SessionService == nil {
		return errors.InvalidArgument("session service is required")
	}
	return nil
}

// Handler implements TurnServiceServer
type Handler struct {
	sessionService session.Service
}

var _ TurnServiceServer = (*Handler)(nil)

// NewHandler creates a new turn handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{sessionService: cfg.SessionService}, nil
}

// StartSession opens a battle.
//
// Request: {order_policy, turn_budget, soldiers: [{id, name, faction, rank,
// player, x, y, facing, weapon}], objectives: [{id, owner, x, y,
// capture_turns, radius}]}. Every field is optional.
// Response: {session, events}
func (h *Handler) StartSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := fieldsOf(req)

	budget, err := f.duration("turn_budget")
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	input := &session.StartSessionInput{
		OrderPolicy: f.str("order_policy"),
		TurnBudget:  budget,
	}
	for i, v := range f.list("soldiers") {
		spec, err := soldierSpecFromFields(fieldsOf(v.GetStructValue()))
		if err != nil {
			return nil, errors.ToGRPCError(errors.Wrapf(err, "invalid soldiers[%d]", i))
		}
		input.Soldiers = append(input.Soldiers, spec)
	}
	for i, v := range f.list("objectives") {
		spec, err := objectiveSpecFromFields(fieldsOf(v.GetStructValue()))
		if err != nil {
			return nil, errors.ToGRPCError(errors.Wrapf(err, "invalid objectives[%d]", i))
		}
		input.Objectives = append(input.Objectives, spec)
	}

	out, err := h.sessionService.StartSession(ctx, input)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(map[string]any{
		"session": sessionToMap(out.Session),
		"events":  entriesToList(out.Events),
	})
}

// Commit queues an action.
//
// Request: {session_id, entity_id, action: {kind, dx, dy, terrain_cost,
// clockwise, target_id, x, y}, multi_turn}
// Response: {record, session, events}
func (h *Handler) Commit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := fieldsOf(req)

	if f.str("session_id") == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}
	if f.str("entity_id") == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("entity_id is required"))
	}
	if !f.has("action") {
		return nil, errors.ToGRPCError(errors.InvalidArgument("action is required"))
	}

	action, err := actionFromFields(f.object("action"))
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.sessionService.Commit(ctx, &session.CommitInput{
		SessionID: f.str("session_id"),
		EntityID:  f.str("entity_id"),
		Action:    action,
		MultiTurn: f.boolean("multi_turn"),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(map[string]any{
		"record":  recordToMap(out.Record),
		"session": sessionToMap(out.Session),
		"events":  entriesToList(out.Events),
	})
}

// MarkReady ends an entity's planning.
//
// Request: {session_id, entity_id}
// Response: {session, events}
func (h *Handler) MarkReady(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := fieldsOf(req)

	if f.str("session_id") == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}
	entityID := f.str("entity_id")
	if entityID == "" {
		entityID = battle.PlayerID
	}

	out, err := h.sessionService.MarkReady(ctx, &session.MarkReadyInput{
		SessionID: f.str("session_id"),
		EntityID:  entityID,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(map[string]any{
		"session": sessionToMap(out.Session),
		"events":  entriesToList(out.Events),
	})
}

// GetSnapshot returns a session.
//
// Request: {session_id}
// Response: {session}
func (h *Handler) GetSnapshot(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := fieldsOf(req)

	if f.str("session_id") == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}

	out, err := h.sessionService.GetSnapshot(ctx, &session.GetSnapshotInput{SessionID: f.str("session_id")})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(map[string]any{"session": sessionToMap(out.Session)})
}

// ListEvents returns the newest feed entries.
//
// Request: {session_id, limit}
// Response: {entries}
func (h *Handler) ListEvents(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := fieldsOf(req)

	if f.str("session_id") == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}
	limit, err := f.integer("limit")
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.sessionService.ListEvents(ctx, &session.ListEventsInput{
		SessionID: f.str("session_id"),
		Limit:     limit,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(map[string]any{"entries": entriesToList(out.Entries)})
}

// EndSession drops a session.
//
// Request: {session_id}
// Response: {message, events_cleared}
func (h *Handler) EndSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := fieldsOf(req)

	if f.str("session_id") == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}

	out, err := h.sessionService.EndSession(ctx, &session.EndSessionInput{SessionID: f.str("session_id")})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(map[string]any{
		"message":        fmt.Sprintf("Session %s ended", f.str("session_id")),
		"events_cleared": out.EventsCleared,
	})
}

func respond(m map[string]any) (*structpb.Struct, error) {
	s, err := toStruct(m)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return s, nil
}
