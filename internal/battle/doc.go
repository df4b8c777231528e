// Package battle holds the simulation state the turn engine acts on:
// soldiers with positions, facing, health and weapons.
//
// A Battle implements engine.Effects, so committed actions land here during
// Execution. StandingOrders implements engine.Planner for NPC soldiers.
package battle
