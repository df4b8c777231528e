package v1alpha1_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/trenchturn/internal/battle"
	"github.com/KirkDiggler/trenchturn/internal/engine"
	"github.com/KirkDiggler/trenchturn/internal/errors"
	"github.com/KirkDiggler/trenchturn/internal/handlers/turn/v1alpha1"
	"github.com/KirkDiggler/trenchturn/internal/orchestrators/session"
	sessionmock "github.com/KirkDiggler/trenchturn/internal/orchestrators/session/mock"
	"github.com/KirkDiggler/trenchturn/internal/repositories/eventlog"
)

type HandlerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockSession *sessionmock.MockService
	handler     *v1alpha1.Handler
	ctx         context.Context
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockSession = sessionmock.NewMockService(s.ctrl)
	s.ctx = context.Background()

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{SessionService: s.mockSession})
	s.Require().NoError(err)
	s.handler = handler
}

func (s *HandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerTestSuite) request(m map[string]any) *structpb.Struct {
	req, err := structpb.NewStruct(m)
	s.Require().NoError(err)
	return req
}

func (s *HandlerTestSuite) view() *session.SessionView {
	return &session.SessionView{
		ID:       "session_1",
		PlayerID: battle.PlayerID,
		Status:   session.StatusActive,
		Turn: &engine.Snapshot{
			Turn:   1,
			Phase:  engine.PhasePlanning,
			Policy: engine.OrderPlayerFirst,
			Entities: []engine.EntitySnapshot{{
				ID:            battle.PlayerID,
				Type:          battle.EntityType,
				Player:        true,
				BaseDuration:  12 * time.Second,
				AvailableTime: 9 * time.Second,
				SpentThisTurn: 3 * time.Second,
				Record: &engine.RecordSnapshot{
					Kind:          engine.KindShoot,
					Description:   "shoot enemy_1",
					TimeCost:      3 * time.Second,
					TurnCommitted: 1,
				},
			}},
		},
		Soldiers: []session.SoldierView{{
			ID:        battle.PlayerID,
			Name:      "Tommy Atkins",
			Faction:   battle.FactionAllies,
			Rank:      battle.RankPrivate,
			Player:    true,
			Position:  battle.Position{X: 10, Y: 10},
			Facing:    battle.FacingE,
			Health:    100,
			MaxHealth: 100,
			Weapon:    battle.WeaponRifle,
			Ammo:      10,
			Alive:     true,
		}},
		Objectives: []battle.Objective{{
			ID:           "german_trench",
			Position:     battle.Position{X: 38, Y: 10},
			Owner:        battle.FactionCentralPowers,
			Progress:     1,
			CaptureTurns: 5,
			Radius:       2,
		}},
	}
}

func (s *HandlerTestSuite) TestNewHandlerRequiresService() {
	_, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *HandlerTestSuite) TestStartSession_Success() {
	s.mockSession.EXPECT().
		StartSession(s.ctx, &session.StartSessionInput{
			OrderPolicy: "simultaneous",
			TurnBudget:  15 * time.Second,
			Soldiers: []battle.SoldierSpec{{
				ID:       "a",
				Name:     "Atkins",
				Faction:  battle.FactionAllies,
				Rank:     battle.RankSergeant,
				Player:   true,
				Position: battle.Position{X: 3, Y: 4},
				Facing:   battle.FacingNE,
				Weapon:   battle.WeaponSubmachineGun,
			}},
			Objectives: []battle.ObjectiveSpec{{
				ID:           "hill_60",
				Owner:        battle.FactionCentralPowers,
				Position:     battle.Position{X: 20, Y: 5},
				CaptureTurns: 3,
			}},
		}).
		Return(&session.StartSessionOutput{
			Session: s.view(),
			Events:  []eventlog.Entry{{Turn: 1, Message: "=== Turn 1 ==="}},
		}, nil)

	resp, err := s.handler.StartSession(s.ctx, s.request(map[string]any{
		"order_policy": "simultaneous",
		"turn_budget":  "15s",
		"soldiers": []any{map[string]any{
			"id": "a", "name": "Atkins", "faction": "allies", "rank": "Sgt",
			"player": true, "x": 3, "y": 4, "facing": "NE", "weapon": "smg",
		}},
		"objectives": []any{map[string]any{
			"id": "hill_60", "owner": "central_powers", "x": 20, "y": 5, "capture_turns": 3,
		}},
	}))
	s.Require().NoError(err)

	out := resp.AsMap()
	sess := out["session"].(map[string]any)
	s.Assert().Equal("session_1", sess["id"])
	s.Assert().Equal("planning", sess["phase"])
	s.Assert().Equal("player_first", sess["order_policy"])
	s.Assert().Equal(float64(1), sess["turn"])

	entity := sess["entities"].([]any)[0].(map[string]any)
	s.Assert().Equal("9s", entity["available_time"])
	s.Assert().Equal("0s", entity["debt"])
	s.Assert().Equal(battle.EntityType, entity["type"])
	record := entity["record"].(map[string]any)
	s.Assert().Equal("shoot enemy_1", record["description"])
	s.Assert().Equal("3s", record["time_cost"])

	soldier := sess["soldiers"].([]any)[0].(map[string]any)
	s.Assert().Equal("Pvt", soldier["rank"])
	s.Assert().Equal("E", soldier["facing"])
	s.Assert().Equal(float64(10), soldier["x"])

	flag := sess["objectives"].([]any)[0].(map[string]any)
	s.Assert().Equal("german_trench", flag["id"])
	s.Assert().Equal("central_powers", flag["owner"])
	s.Assert().Equal(float64(1), flag["progress"])

	events := out["events"].([]any)
	s.Require().Len(events, 1)
	s.Assert().Equal("=== Turn 1 ===", events[0].(map[string]any)["message"])
}

func (s *HandlerTestSuite) TestStartSession_BadObjective() {
	_, err := s.handler.StartSession(s.ctx, s.request(map[string]any{
		"objectives": []any{map[string]any{"id": "hill_60", "owner": "neutral"}},
	}))
	s.Require().Error(err)
	s.Assert().Equal(codes.InvalidArgument, status.Code(err))
}

func (s *HandlerTestSuite) TestStartSession_BadSoldier() {
	_, err := s.handler.StartSession(s.ctx, s.request(map[string]any{
		"soldiers": []any{map[string]any{"id": "a", "faction": "french"}},
	}))
	s.Require().Error(err)
	s.Assert().Equal(codes.InvalidArgument, status.Code(err))
}

func (s *HandlerTestSuite) TestStartSession_BadBudget() {
	_, err := s.handler.StartSession(s.ctx, s.request(map[string]any{"turn_budget": "soon"}))
	s.Assert().Equal(codes.InvalidArgument, status.Code(err))
}

func (s *HandlerTestSuite) TestCommit_DecodesActions() {
	testCases := []struct {
		name     string
		action   map[string]any
		expected engine.Action
	}{
		{
			name:     "move",
			action:   map[string]any{"kind": "move", "dx": 1, "dy": -1, "terrain_cost": 0.5},
			expected: engine.Move{DX: 1, DY: -1, TerrainCost: 500 * time.Millisecond},
		},
		{
			name:     "rotate",
			action:   map[string]any{"kind": "Rotate", "clockwise": true},
			expected: engine.Rotate{Clockwise: true},
		},
		{
			name:     "shoot",
			action:   map[string]any{"kind": "shoot", "target_id": "enemy_1"},
			expected: engine.Shoot{TargetID: "enemy_1"},
		},
		{
			name:     "reload",
			action:   map[string]any{"kind": "reload"},
			expected: engine.Reload{},
		},
		{
			name:     "grenade",
			action:   map[string]any{"kind": "throw-grenade", "x": 30, "y": 12},
			expected: engine.ThrowGrenade{X: 30, Y: 12},
		},
		{
			name:     "wait",
			action:   map[string]any{"kind": "wait"},
			expected: engine.Wait{},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.mockSession.EXPECT().
				Commit(s.ctx, &session.CommitInput{
					SessionID: "session_1",
					EntityID:  battle.PlayerID,
					Action:    tc.expected,
					MultiTurn: true,
				}).
				Return(&session.CommitOutput{
					Record:  &engine.RecordSnapshot{Kind: tc.expected.Kind(), Description: engine.Describe(tc.expected)},
					Session: s.view(),
				}, nil)

			resp, err := s.handler.Commit(s.ctx, s.request(map[string]any{
				"session_id": "session_1",
				"entity_id":  battle.PlayerID,
				"action":     tc.action,
				"multi_turn": true,
			}))
			s.Require().NoError(err)

			record := resp.AsMap()["record"].(map[string]any)
			s.Assert().Equal(engine.Describe(tc.expected), record["description"])
		})
	}
}

func (s *HandlerTestSuite) TestCommit_RejectsBadRequests() {
	testCases := []struct {
		name string
		req  map[string]any
	}{
		{name: "missing session", req: map[string]any{"entity_id": "player", "action": map[string]any{"kind": "wait"}}},
		{name: "missing entity", req: map[string]any{"session_id": "s", "action": map[string]any{"kind": "wait"}}},
		{name: "missing action", req: map[string]any{"session_id": "s", "entity_id": "player"}},
		{name: "missing kind", req: map[string]any{"session_id": "s", "entity_id": "player", "action": map[string]any{}}},
		{name: "unknown kind", req: map[string]any{"session_id": "s", "entity_id": "player", "action": map[string]any{"kind": "dig"}}},
		{name: "fractional dx", req: map[string]any{"session_id": "s", "entity_id": "player", "action": map[string]any{"kind": "move", "dx": 0.5}}},
		{name: "shoot without target", req: map[string]any{"session_id": "s", "entity_id": "player", "action": map[string]any{"kind": "shoot"}}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.handler.Commit(s.ctx, s.request(tc.req))
			s.Require().Error(err)
			s.Assert().Equal(codes.InvalidArgument, status.Code(err))
		})
	}
}

func (s *HandlerTestSuite) TestCommit_ServiceError() {
	s.mockSession.EXPECT().
		Commit(s.ctx, gomock.Any()).
		Return(nil, errors.FailedPrecondition("cannot commit during execution"))

	_, err := s.handler.Commit(s.ctx, s.request(map[string]any{
		"session_id": "session_1",
		"entity_id":  battle.PlayerID,
		"action":     map[string]any{"kind": "wait"},
	}))
	s.Assert().Equal(codes.FailedPrecondition, status.Code(err))
}

func (s *HandlerTestSuite) TestMarkReady_DefaultsToPlayer() {
	s.mockSession.EXPECT().
		MarkReady(s.ctx, &session.MarkReadyInput{SessionID: "session_1", EntityID: battle.PlayerID}).
		Return(&session.MarkReadyOutput{Session: s.view()}, nil)

	resp, err := s.handler.MarkReady(s.ctx, s.request(map[string]any{"session_id": "session_1"}))
	s.Require().NoError(err)
	s.Assert().Empty(resp.AsMap()["events"])
}

func (s *HandlerTestSuite) TestListEvents() {
	created := time.Date(1916, time.July, 1, 7, 30, 0, 0, time.UTC)
	s.mockSession.EXPECT().
		ListEvents(s.ctx, &session.ListEventsInput{SessionID: "session_1", Limit: 5}).
		Return(&session.ListEventsOutput{Entries: []eventlog.Entry{
			{Turn: 2, Message: "=== Turn 2 ===", CreatedAt: created},
			{Turn: 1, Message: "reload in progress", EntityID: "enemy_2", Kind: "reload", CreatedAt: created},
			{Turn: 1, Message: "Pvt Tommy Atkins moved to (11, 10)", EntityID: "player", Kind: "move", Completed: true},
		}}, nil)

	resp, err := s.handler.ListEvents(s.ctx, s.request(map[string]any{"session_id": "session_1", "limit": 5}))
	s.Require().NoError(err)

	entries := resp.AsMap()["entries"].([]any)
	s.Require().Len(entries, 3)
	banner := entries[0].(map[string]any)
	s.Assert().Equal(float64(2), banner["turn"])
	s.Assert().Equal("1916-07-01T07:30:00Z", banner["created_at"])
	s.Assert().NotContains(banner, "entity_id")
	s.Assert().NotContains(banner, "kind")

	progress := entries[1].(map[string]any)
	s.Assert().Equal("enemy_2", progress["entity_id"])
	s.Assert().Equal("reload", progress["kind"])
	s.Assert().Equal(false, progress["completed"])

	moved := entries[2].(map[string]any)
	s.Assert().Equal("player", moved["entity_id"])
	s.Assert().Equal("move", moved["kind"])
	s.Assert().Equal(true, moved["completed"])
}

func (s *HandlerTestSuite) TestGetSnapshot_NotFound() {
	s.mockSession.EXPECT().
		GetSnapshot(s.ctx, &session.GetSnapshotInput{SessionID: "missing"}).
		Return(nil, errors.NotFound("session missing not found"))

	_, err := s.handler.GetSnapshot(s.ctx, s.request(map[string]any{"session_id": "missing"}))
	s.Assert().Equal(codes.NotFound, status.Code(err))
}

func (s *HandlerTestSuite) TestEndSession() {
	s.mockSession.EXPECT().
		EndSession(s.ctx, &session.EndSessionInput{SessionID: "session_1"}).
		Return(&session.EndSessionOutput{EventsCleared: 7}, nil)

	resp, err := s.handler.EndSession(s.ctx, s.request(map[string]any{"session_id": "session_1"}))
	s.Require().NoError(err)
	s.Assert().Equal(float64(7), resp.AsMap()["events_cleared"])
}
