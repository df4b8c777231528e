package engine

import "time"

// record is the action an entity has committed to for the current turn,
// or a locked multi-turn action still in progress. It never leaves the
// engine; callers read it through RecordSnapshot.
type record struct {
	action    Action
	timeCost  time.Duration
	committed bool

	// locked records cannot be cancelled and survive Resolution until
	// timeCompleted reaches totalTime.
	locked        bool
	totalTime     time.Duration
	timeCompleted time.Duration

	turnCommitted int
}

// progress returns completed time over total time in [0, 1]
func (r *record) progress() float64 {
	if !r.locked || r.totalTime <= 0 {
		return 1
	}
	if r.timeCompleted >= r.totalTime {
		return 1
	}
	return float64(r.timeCompleted) / float64(r.totalTime)
}

// complete reports whether the record's effect has fired or can fire
func (r *record) complete() bool {
	if !r.locked {
		return true
	}
	return r.timeCompleted >= r.totalTime
}

// retained reports whether Resolution must keep the record
func (r *record) retained() bool {
	return r.locked && !r.complete()
}

// advance moves a locked record forward by step, clamped to totalTime
func (r *record) advance(step time.Duration) {
	r.timeCompleted += step
	if r.timeCompleted > r.totalTime {
		r.timeCompleted = r.totalTime
	}
}

// CommitOptions tunes a commit
type CommitOptions struct {
	// Cost overrides BaseCost when positive. Callers that know terrain or
	// weapon stats compute it themselves.
	Cost time.Duration

	// MultiTurn locks the record until TotalTime (= cost) has elapsed in
	// Execution passes.
	MultiTurn bool
}
