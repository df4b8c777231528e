package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/trenchturn/internal/engine"
	"github.com/KirkDiggler/trenchturn/internal/errors"
)

type WorldTestSuite struct {
	suite.Suite
	world *engine.World
}

func TestWorldTestSuite(t *testing.T) {
	suite.Run(t, new(WorldTestSuite))
}

func (s *WorldTestSuite) SetupTest() {
	w, err := engine.NewWorld(&engine.WorldConfig{
		OrderPolicy:  engine.OrderPlayerFirst,
		BaseDuration: 10 * time.Second,
	})
	s.Require().NoError(err)
	s.world = w

	_, err = s.world.Spawn(&engine.SpawnInput{ID: "player", Player: true})
	s.Require().NoError(err)
	_, err = s.world.Spawn(&engine.SpawnInput{ID: "npc_1"})
	s.Require().NoError(err)
}

func (s *WorldTestSuite) TestNewWorldStartsAtTurnOnePlanning() {
	s.Assert().Equal(1, s.world.TurnIndex())
	s.Assert().Equal(engine.PhasePlanning, s.world.Phase())
	s.Assert().Equal(engine.OrderPlayerFirst, s.world.Policy().Order())
}

func (s *WorldTestSuite) TestNewWorldValidation() {
	testCases := []struct {
		name string
		cfg  *engine.WorldConfig
	}{
		{name: "nil config", cfg: nil},
		{name: "unknown policy", cfg: &engine.WorldConfig{OrderPolicy: "round_robin"}},
		{name: "initiative without readiness", cfg: &engine.WorldConfig{OrderPolicy: engine.OrderInitiativeBased}},
		{name: "negative max debt", cfg: &engine.WorldConfig{OrderPolicy: engine.OrderSimultaneous, MaxDebt: -time.Second}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			w, err := engine.NewWorld(tc.cfg)
			s.Assert().Nil(w)
			s.Assert().True(errors.IsInvalidArgument(err))
		})
	}
}

func (s *WorldTestSuite) TestSpawnRejectsDuplicatesAndSecondPlayer() {
	_, err := s.world.Spawn(&engine.SpawnInput{ID: "npc_1"})
	s.Assert().True(errors.IsAlreadyExists(err))

	_, err = s.world.Spawn(&engine.SpawnInput{ID: "player_2", Player: true})
	s.Assert().True(errors.IsFailedPrecondition(err))

	_, err = s.world.Spawn(&engine.SpawnInput{})
	s.Assert().True(errors.IsInvalidArgument(err))
}

type crate struct{ id string }

func (c crate) GetID() string   { return c.id }
func (c crate) GetType() string { return "crate" }

func (s *WorldTestSuite) TestSpawnFromSourceEntity() {
	e, err := s.world.Spawn(&engine.SpawnInput{Entity: crate{id: "crate_1"}})
	s.Require().NoError(err)
	s.Assert().Equal("crate_1", e.ID)
	s.Assert().Equal(crate{id: "crate_1"}, e.Source)

	_, err = s.world.Spawn(&engine.SpawnInput{ID: "crate_9", Entity: crate{id: "crate_2"}})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = s.world.Spawn(&engine.SpawnInput{Entity: crate{}})
	s.Assert().True(errors.IsInvalidArgument(err))

	snap := s.world.Snapshot()
	s.Require().Len(snap.Entities, 3)
	s.Assert().Empty(snap.Entities[0].Type)
	s.Assert().Equal("crate", snap.Entities[2].Type)
}

func (s *WorldTestSuite) TestSpawnUsesWorldDefaultBudget() {
	e, ok := s.world.Entity("npc_1")
	s.Require().True(ok)
	s.Assert().Equal(10*time.Second, e.Budget.BaseDuration)

	veteran, err := s.world.Spawn(&engine.SpawnInput{ID: "npc_2", BaseDuration: 15 * time.Second})
	s.Require().NoError(err)
	s.Assert().Equal(15*time.Second, veteran.Budget.BaseDuration)
}

func (s *WorldTestSuite) TestCommitChargesLedger() {
	rec, err := s.world.Commit("player", engine.Move{DX: 1}, engine.CommitOptions{})
	s.Require().NoError(err)

	s.Assert().True(rec.Committed)
	s.Assert().False(rec.Locked)
	s.Assert().Equal(1500*time.Millisecond, rec.TimeCost)
	s.Assert().Equal(1, rec.TurnCommitted)

	e, _ := s.world.Entity("player")
	s.Assert().Equal(rec, e.Record())
	s.Assert().NotSame(rec, e.Record())
	s.Assert().Equal(8500*time.Millisecond, e.Budget.AvailableTime())
}

func (s *WorldTestSuite) TestCommitOverspendRecordsDebt() {
	_, err := s.world.Commit("player", engine.Move{DX: 1}, engine.CommitOptions{Cost: 12 * time.Second})
	s.Require().NoError(err)

	e, _ := s.world.Entity("player")
	s.Assert().Equal(-2*time.Second, e.Budget.AvailableTime())
	s.Assert().Equal(2*time.Second, e.Budget.Debt)
}

func (s *WorldTestSuite) TestSecondCommitIsAlreadyCommitted() {
	_, err := s.world.Commit("npc_1", engine.Wait{}, engine.CommitOptions{})
	s.Require().NoError(err)

	_, err = s.world.Commit("npc_1", engine.Reload{}, engine.CommitOptions{})
	s.Require().Error(err)
	s.Assert().True(engine.IsAlreadyCommitted(err))
	s.Assert().Equal("npc_1", errors.GetMeta(err)["entity_id"])

	e, _ := s.world.Entity("npc_1")
	s.Assert().Equal(engine.KindWait, e.Record().Action.Kind())
	s.Assert().Equal(time.Second, e.Budget.SpentThisTurn)
}

func (s *WorldTestSuite) TestCommitErrors() {
	_, err := s.world.Commit("ghost", engine.Wait{}, engine.CommitOptions{})
	s.Assert().True(errors.IsNotFound(err))

	_, err = s.world.Commit("player", nil, engine.CommitOptions{})
	s.Assert().True(errors.IsInvalidArgument(err))

	s.Assert().False(engine.IsAlreadyCommitted(errors.AlreadyExists("session exists")))
}

func (s *WorldTestSuite) TestMultiTurnCommitIsLocked() {
	rec, err := s.world.Commit("npc_1", engine.Reload{}, engine.CommitOptions{MultiTurn: true})
	s.Require().NoError(err)

	s.Assert().True(rec.Locked)
	s.Assert().Equal(5*time.Second, rec.TotalTime)
	s.Assert().Zero(rec.TimeCompleted)
	s.Assert().False(rec.Complete())
}

func (s *WorldTestSuite) TestReturnedRecordIsACopy() {
	rec, err := s.world.Commit("npc_1", engine.Wait{}, engine.CommitOptions{})
	s.Require().NoError(err)

	rec.Action = engine.Shoot{TargetID: "player"}
	rec.Locked = true
	rec.TimeCompleted = 3 * time.Second

	e, _ := s.world.Entity("npc_1")
	view := e.Record()
	view.Action = engine.Reload{}

	current := e.Record()
	s.Assert().Equal(engine.Wait{}, current.Action)
	s.Assert().Equal(engine.KindWait, current.Kind)
	s.Assert().False(current.Locked)
	s.Assert().Zero(current.TimeCompleted)
}

func (s *WorldTestSuite) TestMarkReady() {
	s.Require().NoError(s.world.MarkReady("player"))
	s.Assert().True(s.world.IsReady("player"))
	s.Assert().Equal([]string{"player"}, s.world.State().ReadyIDs())

	s.Assert().True(errors.IsNotFound(s.world.MarkReady("ghost")))
}

func (s *WorldTestSuite) TestRetireDropsRecordAndReadiness() {
	_, err := s.world.Commit("npc_1", engine.Wait{}, engine.CommitOptions{})
	s.Require().NoError(err)
	s.Require().NoError(s.world.MarkReady("npc_1"))

	s.Require().NoError(s.world.Retire("npc_1"))

	_, ok := s.world.Entity("npc_1")
	s.Assert().False(ok)
	s.Assert().False(s.world.IsReady("npc_1"))
	s.Assert().Len(s.world.Entities(), 1)
	s.Assert().NoError(engine.CheckInvariants(s.world))
	s.Assert().True(errors.IsNotFound(s.world.Retire("npc_1")))
}

func (s *WorldTestSuite) TestSnapshot() {
	_, err := s.world.Commit("player", engine.Shoot{TargetID: "npc_1"}, engine.CommitOptions{})
	s.Require().NoError(err)
	s.Require().NoError(s.world.MarkReady("player"))

	snap := s.world.Snapshot()

	s.Assert().Equal(1, snap.Turn)
	s.Assert().Equal(engine.PhasePlanning, snap.Phase)
	s.Require().Len(snap.Entities, 2)

	player := snap.Entities[0]
	s.Assert().Equal("player", player.ID)
	s.Assert().True(player.Player)
	s.Assert().True(player.Ready)
	s.Assert().Equal(7*time.Second, player.AvailableTime)
	s.Require().NotNil(player.Record)
	s.Assert().Equal(engine.KindShoot, player.Record.Kind)
	s.Assert().Equal("shoot npc_1", player.Record.Description)

	s.Assert().Nil(snap.Entities[1].Record)
}
