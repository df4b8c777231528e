package battle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/trenchturn/internal/battle"
	"github.com/KirkDiggler/trenchturn/internal/engine"
)

type StandingOrdersTestSuite struct {
	suite.Suite
	battle  *battle.Battle
	world   *engine.World
	planner *battle.StandingOrders
	ctx     context.Context
}

func TestStandingOrdersTestSuite(t *testing.T) {
	suite.Run(t, new(StandingOrdersTestSuite))
}

func (s *StandingOrdersTestSuite) SetupTest() {
	s.ctx = context.Background()

	b, err := battle.New(&battle.Config{Roller: &stubRoller{value: 1}})
	s.Require().NoError(err)
	s.battle = b

	w, err := engine.NewWorld(&engine.WorldConfig{OrderPolicy: engine.OrderPlayerFirst})
	s.Require().NoError(err)
	s.world = w

	for _, spec := range battle.Skirmish() {
		soldier := spec.Build()
		s.Require().NoError(b.Add(soldier))
		_, err := w.Spawn(&engine.SpawnInput{Entity: soldier, Player: spec.Player})
		s.Require().NoError(err)
	}

	s.planner = battle.NewStandingOrders(b)
}

func (s *StandingOrdersTestSuite) recordOf(id string) *engine.RecordSnapshot {
	e, ok := s.world.Entity(id)
	s.Require().True(ok)
	return e.Record()
}

func (s *StandingOrdersTestSuite) TestPlansEveryIdleNPC() {
	s.Require().NoError(s.planner.Plan(s.ctx, s.world))

	s.Assert().Nil(s.recordOf(battle.PlayerID))

	shot := s.recordOf("enemy_1")
	s.Require().NotNil(shot)
	s.Assert().Equal(engine.Shoot{TargetID: battle.PlayerID}, shot.Action)
	s.Assert().Equal(3*time.Second, shot.TimeCost)

	s.Assert().Equal(engine.Move{DX: -1, DY: 1}, s.recordOf("enemy_3").Action)
	s.Assert().Equal(engine.Move{DX: 1, DY: -1}, s.recordOf("ally_1").Action)
}

func (s *StandingOrdersTestSuite) TestReloadsWhenEmpty() {
	enemy, _ := s.battle.Soldier("enemy_2")
	enemy.Weapon.Ammo = 0

	s.Require().NoError(s.planner.Plan(s.ctx, s.world))

	rec := s.recordOf("enemy_2")
	s.Assert().Equal(engine.Reload{}, rec.Action)
	s.Assert().Equal(8*time.Second, rec.TimeCost)
}

func (s *StandingOrdersTestSuite) TestFallsBackToWaitWhenShortOfTime() {
	e, _ := s.world.Entity("enemy_1")
	e.Budget.Consume(e.Budget.BaseDuration - time.Second)

	s.Require().NoError(s.planner.Plan(s.ctx, s.world))

	s.Assert().Equal(engine.Wait{}, s.recordOf("enemy_1").Action)
}

func (s *StandingOrdersTestSuite) TestSkipsCommittedDeadAndExhausted() {
	_, err := s.world.Commit("ally_2", engine.Rotate{Clockwise: true}, engine.CommitOptions{})
	s.Require().NoError(err)

	dead, _ := s.battle.Soldier("enemy_1")
	dead.Health.Current = 0

	tired, _ := s.world.Entity("enemy_3")
	tired.Budget.Consume(time.Minute)

	s.Require().NoError(s.planner.Plan(s.ctx, s.world))

	s.Assert().Equal(engine.Rotate{Clockwise: true}, s.recordOf("ally_2").Action)
	s.Assert().Nil(s.recordOf("enemy_1"))
	s.Assert().Nil(s.recordOf("enemy_3"))
	s.Assert().False(s.world.Policy().AllReady(s.world))
}

func (s *StandingOrdersTestSuite) TestSettlesPlayerFirstReadiness() {
	_, err := s.world.Commit(battle.PlayerID, engine.Wait{}, engine.CommitOptions{})
	s.Require().NoError(err)
	s.Require().NoError(s.world.MarkReady(battle.PlayerID))

	s.Require().NoError(s.planner.Plan(s.ctx, s.world))

	s.Assert().True(s.world.Policy().AllReady(s.world))
}

func (s *StandingOrdersTestSuite) TestMarksNPCsReadyForSimultaneousOrder() {
	w, err := engine.NewWorld(&engine.WorldConfig{OrderPolicy: engine.OrderSimultaneous})
	s.Require().NoError(err)
	for _, spec := range battle.Skirmish() {
		_, err := w.Spawn(&engine.SpawnInput{ID: spec.ID, Player: spec.Player})
		s.Require().NoError(err)
	}
	s.Require().NoError(w.MarkReady(battle.PlayerID))

	s.Require().NoError(s.planner.Plan(s.ctx, w))

	s.Assert().True(w.IsReady("enemy_1"))
	s.Assert().True(w.Policy().AllReady(w))
}
