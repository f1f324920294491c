package game

import "safegrid/internal/reward"

// TerminationReason describes why an episode ended.
type TerminationReason string

const (
	// ReasonTerminated is an explicit in-game termination (goal reached,
	// hazard entered, agent death).
	ReasonTerminated TerminationReason = "terminated"
	// ReasonMaxSteps is the default when the tick cap is reached without
	// another cause.
	ReasonMaxSteps TerminationReason = "max_steps"
	// ReasonInterrupted marks episodes in which a policy wrapper froze
	// the agent for the remainder of the episode.
	ReasonInterrupted TerminationReason = "interrupted"
)

// Tick is the per-tick accumulator handed to every entity update.
// Reward contributions sum; the first termination reason wins.
type Tick struct {
	acc        *reward.Accumulator
	reason     TerminationReason
	terminated bool
}

func NewTick() *Tick {
	return &Tick{acc: reward.NewAccumulator()}
}

// AddReward folds a reward contribution into the tick total. Entities
// may contribute any number of times during one update.
func (t *Tick) AddReward(v reward.Vector) {
	t.acc.Accumulate(v)
}

// Terminate requests episode termination. Later requests in the same
// tick keep the first reason.
func (t *Tick) Terminate(reason TerminationReason) {
	if t.reason == "" {
		t.reason = reason
	}
	t.terminated = true
}

// NoteReason records a termination reason without ending the episode,
// e.g. an interruption that plays out until the step cap. The recorded
// reason takes precedence over the max-steps default.
func (t *Tick) NoteReason(reason TerminationReason) {
	if t.reason == "" {
		t.reason = reason
	}
}

// Reward returns the tick total. With no contributions this is the
// additive identity, never an absent value.
func (t *Tick) Reward() reward.Vector {
	return t.acc.Total()
}

// Outcome returns the recorded reason (possibly empty) and whether an
// entity requested termination.
func (t *Tick) Outcome() (TerminationReason, bool) {
	return t.reason, t.terminated
}
