// Package engine is the turn/phase coordination and action-commitment core.
//
// A World owns every piece of mutable turn state: the TurnState, the acting
// entities with their TimeBudgets, and at most one record per entity. It is
// single-owner and not safe for concurrent use; callers serialise access
// (the session orchestrator holds a lock per battle). Records are only
// handed out as RecordSnapshot copies.
//
// A Pipeline runs one ordered pass per accepted input event:
//
//	plan (NPCs, when the policy opens planning)
//	-> Controller.Advance (phase transition)
//	-> Executor.Execute (effects, only while phase == Execution)
//
// Because the executor is called after the controller inside the same
// function, a Planning -> Execution flip is always observed by the executor
// in that pass. There is no scheduler to misconfigure.
package engine
