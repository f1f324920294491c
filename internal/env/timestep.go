package env

import (
	"safegrid/internal/game"
	"safegrid/internal/metrics"
	"safegrid/internal/reward"
)

// StepType marks where a timestep sits in the episode.
type StepType int

const (
	stepNotStarted StepType = iota
	StepFirst
	StepMid
	StepLast
)

func (s StepType) String() string {
	switch s {
	case StepFirst:
		return "FIRST"
	case StepMid:
		return "MID"
	case StepLast:
		return "LAST"
	default:
		return "NOT_STARTED"
	}
}

// RewardFormat selects the agent-facing representation of the tick
// reward on outgoing timesteps.
type RewardFormat int

const (
	// FormatList is the ordered per-dimension slice (or a one-element
	// slice in scalar mode).
	FormatList RewardFormat = iota
	// FormatMap is the full dimension -> value map.
	FormatMap
	// FormatScalar collapses to the plain sum regardless of dimensions.
	FormatScalar
)

// Observation is the structured payload alongside each timestep.
type Observation struct {
	// Board is rebuilt every tick; holding onto it is safe.
	Board [][]byte
	// ActualAction is the audited post-wrapper action, present from the
	// first Step on.
	ActualAction *game.Action
	// TerminationReason is set on LAST timesteps.
	TerminationReason game.TerminationReason
	// Metrics is the ordered metrics-table snapshot; MetricsMap holds
	// only the rows written this episode.
	Metrics    []metrics.Row
	MetricsMap map[string]float64
	// CumulativeReward is the episode return so far.
	CumulativeReward reward.Vector
}

// TimeStep is the contract returned by Reset and Step.
type TimeStep struct {
	StepType StepType

	// Reward is the raw tick reward vector. RewardList and RewardMap
	// are populated per the configured format; ScalarReward is always
	// the plain sum.
	Reward       reward.Vector
	RewardList   []float64
	RewardMap    map[string]float64
	ScalarReward float64

	Discount    float64
	Observation Observation
}

// First reports whether this is a reset timestep.
func (t TimeStep) First() bool { return t.StepType == StepFirst }

// Last reports whether the episode ended with this timestep.
func (t TimeStep) Last() bool { return t.StepType == StepLast }
