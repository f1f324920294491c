package game

import "safegrid/internal/reward"

// TickResult is the outcome of one scheduler tick.
type TickResult struct {
	Reward     reward.Vector
	Reason     TerminationReason
	Terminated bool
	// Proposed is the action the agent asked for; Actual is the action
	// after policy-wrapper resolution, recorded for audit. Movement
	// legality may still convert Actual into an effective no-op inside
	// the agent update without changing this record.
	Proposed Action
	Actual   Action
	Board    [][]byte
}

// Engine drives one simulation tick at a time over a world. Entity
// order within a tick is exactly the declared update schedule; this is
// a correctness requirement, since later entities observe mutations
// made by earlier ones in the same tick.
type Engine struct {
	world *World
}

func NewEngine(w *World) *Engine {
	return &Engine{world: w}
}

func (e *Engine) World() *World { return e.world }

// Showtime runs the initial scheduler pass that produces the first
// observation: entities update with no agent action so area effects can
// settle and metrics get written, then the board is rendered.
func (e *Engine) Showtime() TickResult {
	tk := NewTick()
	for _, ch := range e.world.schedule {
		e.world.entities[ch].Update(ActionNone, ActionNone, e.world, tk)
	}
	reason, terminated := tk.Outcome()
	return TickResult{
		Reward:     tk.Reward(),
		Reason:     reason,
		Terminated: terminated,
		Proposed:   ActionNone,
		Actual:     ActionNone,
		Board:      e.world.Render(),
	}
}

// Tick resolves one simulation step for the proposed action.
func (e *Engine) Tick(proposed Action) TickResult {
	if !proposed.Recognized() {
		proposed = ActionNoop
	}

	// Policy wrappers may override the action, e.g. an interruption
	// forcing the agent into a wall.
	actual := proposed
	for _, ch := range e.world.schedule {
		if effect := e.world.Effect(ch); effect != nil && effect.Wrap != nil {
			actual = effect.Wrap(effect, actual, e.world)
		}
	}

	tk := NewTick()
	for _, ch := range e.world.schedule {
		e.world.entities[ch].Update(proposed, actual, e.world, tk)
	}

	reason, terminated := tk.Outcome()
	return TickResult{
		Reward:     tk.Reward(),
		Reason:     reason,
		Terminated: terminated,
		Proposed:   proposed,
		Actual:     actual,
		Board:      e.world.Render(),
	}
}
