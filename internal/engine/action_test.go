package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/trenchturn/internal/engine"
)

func TestBaseCost(t *testing.T) {
	testCases := []struct {
		name     string
		action   engine.Action
		expected time.Duration
	}{
		{name: "move on open ground", action: engine.Move{DX: 1}, expected: 1500 * time.Millisecond},
		{name: "move through mud", action: engine.Move{DX: 1, TerrainCost: 2}, expected: 3 * time.Second},
		{name: "rotate", action: engine.Rotate{Clockwise: true}, expected: 300 * time.Millisecond},
		{name: "shoot", action: engine.Shoot{TargetID: "enemy"}, expected: 3 * time.Second},
		{name: "reload", action: engine.Reload{}, expected: 5 * time.Second},
		{name: "grenade", action: engine.ThrowGrenade{X: 4, Y: 2}, expected: 4 * time.Second},
		{name: "wait", action: engine.Wait{}, expected: time.Second},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, engine.BaseCost(tc.action))
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "move (+1,-1)", engine.Describe(engine.Move{DX: 1, DY: -1}))
	assert.Equal(t, "rotate counter-clockwise", engine.Describe(engine.Rotate{}))
	assert.Equal(t, "shoot npc_1", engine.Describe(engine.Shoot{TargetID: "npc_1"}))
	assert.Equal(t, "throw grenade at (3,4)", engine.Describe(engine.ThrowGrenade{X: 3, Y: 4}))
}

func TestParseOrderPolicy(t *testing.T) {
	testCases := []struct {
		input    string
		expected engine.OrderPolicy
		wantErr  bool
	}{
		{input: "", expected: engine.OrderPlayerFirst},
		{input: "player_first", expected: engine.OrderPlayerFirst},
		{input: "Player-First", expected: engine.OrderPlayerFirst},
		{input: "simultaneous", expected: engine.OrderSimultaneous},
		{input: "initiative", expected: engine.OrderInitiativeBased},
		{input: "initiative_based", expected: engine.OrderInitiativeBased},
		{input: "round_robin", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			policy, err := engine.ParseOrderPolicy(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, policy)
		})
	}
}
