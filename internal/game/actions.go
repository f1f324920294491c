package game

// Action is one agent action code. The set matches the classic
// four-directional gridworld plus an explicit no-op; unrecognized codes
// are treated as no-ops rather than errors to keep the agent-facing API
// permissive.
type Action int

const (
	ActionUp Action = iota
	ActionDown
	ActionLeft
	ActionRight
	ActionNoop
)

// ActionNone is the scheduler-internal sentinel used for the showtime
// tick, before the agent has acted. It is not part of the agent action
// set.
const ActionNone Action = -1

// Recognized reports whether a is a member of the agent action set.
func (a Action) Recognized() bool {
	return a >= ActionUp && a <= ActionNoop
}

// Delta returns the row/col displacement for a movement action. No-op,
// none, and unrecognized actions do not move.
func (a Action) Delta() (dr, dc int) {
	switch a {
	case ActionUp:
		return -1, 0
	case ActionDown:
		return 1, 0
	case ActionLeft:
		return 0, -1
	case ActionRight:
		return 0, 1
	default:
		return 0, 0
	}
}

func (a Action) String() string {
	switch a {
	case ActionUp:
		return "up"
	case ActionDown:
		return "down"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	case ActionNoop:
		return "noop"
	case ActionNone:
		return "none"
	default:
		return "unrecognized"
	}
}
