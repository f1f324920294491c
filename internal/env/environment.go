package env

import (
	"errors"
	"fmt"
	"math/rand"

	"safegrid/internal/game"
	"safegrid/internal/metrics"
	"safegrid/internal/reward"
)

// ErrStepBeforeReset is returned when Step is called before any Reset,
// or after a LAST timestep without an intervening Reset.
var ErrStepBeforeReset = errors.New("step requires a reset")

// Config is the immutable scenario configuration an environment runs.
// Scenarios validate and freeze one of these at construction.
type Config struct {
	Name string

	// BuildWorld assembles a fresh grid and entity set for one episode.
	// It must not share mutable state across calls.
	BuildWorld func(rng *rand.Rand, tbl *metrics.Table) (*game.World, error)

	// Dimensions is the enabled reward-dimension set; the scalar
	// sentinel collapses rewards to plain sums.
	Dimensions reward.Dimensions

	// MetricLabels declares the episode metrics table.
	MetricLabels []string

	MaxSteps int
	Format   RewardFormat

	// ValueMapping optionally maps board characters to the float values
	// an agent observes; nil leaves boards character-valued.
	ValueMapping map[byte]float64
}

func (c Config) validate() error {
	if c.Name == "" {
		return errors.New("config: name is required")
	}
	if c.BuildWorld == nil {
		return errors.New("config: world factory is required")
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("config: max steps must be positive, got %d", c.MaxSteps)
	}
	return nil
}

// StepRecord is the logging-sink view of one tick.
type StepRecord struct {
	Scenario         string
	TrialNo          int
	EpisodeNo        int
	TickNo           int
	Reward           reward.Vector
	CumulativeReward reward.Vector
	ScalarReward     float64
	ScalarCumulative float64
	Metrics          []metrics.Row
}

// StepLogger receives one record per tick. Implementations live outside
// the kernel (delimited files, SQLite). A logger error is surfaced by
// Step after the tick has been committed: the world, counters, and
// episode return have already advanced, so callers recover with Reset
// or by continuing the episode, never by retrying the same Step.
type StepLogger interface {
	LogStep(rec StepRecord) error
}

// Environment owns episode lifecycle for one scenario configuration:
// reset/step semantics, cumulative return, termination bookkeeping, and
// the metrics table.
type Environment struct {
	cfg    Config
	sim    *SimulationContext
	logger StepLogger

	engine        *game.Engine
	table         *metrics.Table
	stepType      StepType
	tickNo        int
	episodeReturn *reward.Accumulator
	reason        game.TerminationReason
}

// Option configures optional environment collaborators.
type Option func(*Environment)

// WithStepLogger attaches a per-tick logging sink.
func WithStepLogger(l StepLogger) Option {
	return func(e *Environment) { e.logger = l }
}

func New(cfg Config, sim *SimulationContext, opts ...Option) (*Environment, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if sim == nil {
		return nil, errors.New("simulation context is required")
	}
	e := &Environment{
		cfg:           cfg,
		sim:           sim,
		table:         metrics.NewTable(cfg.MetricLabels...),
		episodeReturn: reward.NewAccumulator(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Name returns the scenario name.
func (e *Environment) Name() string { return e.cfg.Name }

// Dimensions returns the enabled reward-dimension set.
func (e *Environment) Dimensions() reward.Dimensions { return e.cfg.Dimensions }

// TrialNo and EpisodeNo expose the persistent counters.
func (e *Environment) TrialNo() int   { return e.sim.TrialNo() }
func (e *Environment) EpisodeNo() int { return e.sim.EpisodeNo() }

// EpisodeReturn is the cumulative reward of the current episode.
func (e *Environment) EpisodeReturn() reward.Vector { return e.episodeReturn.Total() }

// StartTrial reseeds the random stream for trial n. Callers follow with
// Reset; the episode counter keeps counting across trials.
func (e *Environment) StartTrial(n int) {
	e.sim.StartTrial(n)
}

// Reset starts a new episode: a fresh grid and entity set, cleared
// metrics and return, and a FIRST timestep from the showtime pass.
// Redundant resets never double-count episodes: the counter advances
// only when the previous episode progressed past FIRST.
func (e *Environment) Reset() (TimeStep, error) {
	if e.stepType == StepMid || e.stepType == StepLast {
		e.sim.bumpEpisode()
	}

	e.table.Reset()
	world, err := e.cfg.BuildWorld(e.sim.Rand(), e.table)
	if err != nil {
		return TimeStep{}, fmt.Errorf("build world for %s: %w", e.cfg.Name, err)
	}
	e.engine = game.NewEngine(world)
	e.episodeReturn.Reset()
	e.tickNo = 0
	e.reason = ""
	e.stepType = StepFirst

	res := e.engine.Showtime()
	stepType := StepFirst
	if res.Terminated {
		// A world may end on the initial pass; the episode is then over
		// before any action is taken.
		stepType = StepLast
		e.reason = res.Reason
		e.episodeReturn.Accumulate(res.Reward)
		e.stepType = StepLast
	}
	ts, err := e.makeTimeStep(res, stepType, 0)
	if err != nil {
		return TimeStep{}, err
	}
	return ts, nil
}

// Step advances the simulation one tick for the proposed action. A
// StepLogger failure is returned after the tick took effect; see
// StepLogger.
func (e *Environment) Step(action game.Action) (TimeStep, error) {
	switch e.stepType {
	case stepNotStarted:
		return TimeStep{}, fmt.Errorf("%w: reset has not been called", ErrStepBeforeReset)
	case StepLast:
		return TimeStep{}, fmt.Errorf("%w: episode is over", ErrStepBeforeReset)
	}

	res := e.engine.Tick(action)
	e.tickNo++
	e.episodeReturn.Accumulate(res.Reward)

	if res.Reason != "" && e.reason == "" {
		e.reason = res.Reason
	}

	stepType := StepMid
	switch {
	case res.Terminated:
		stepType = StepLast
	case e.tickNo >= e.cfg.MaxSteps:
		stepType = StepLast
		// The default never overwrites an explicit reason.
		if e.reason == "" {
			e.reason = game.ReasonMaxSteps
		}
	}
	e.stepType = stepType

	discount := 1.0
	if stepType == StepLast && e.reason != game.ReasonMaxSteps {
		discount = 0.0
	}

	ts, err := e.makeTimeStep(res, stepType, discount)
	if err != nil {
		return TimeStep{}, err
	}

	if e.logger != nil {
		rec := StepRecord{
			Scenario:         e.cfg.Name,
			TrialNo:          e.sim.TrialNo(),
			EpisodeNo:        e.sim.EpisodeNo(),
			TickNo:           e.tickNo,
			Reward:           res.Reward,
			CumulativeReward: e.episodeReturn.Total(),
			ScalarReward:     res.Reward.Sum(),
			ScalarCumulative: e.episodeReturn.Total().Sum(),
			Metrics:          e.table.Snapshot(),
		}
		if err := e.logger.LogStep(rec); err != nil {
			return TimeStep{}, fmt.Errorf("log step %d: %w", e.tickNo, err)
		}
	}
	return ts, nil
}

func (e *Environment) makeTimeStep(res game.TickResult, stepType StepType, discount float64) (TimeStep, error) {
	ts := TimeStep{
		StepType:     stepType,
		Reward:       res.Reward,
		ScalarReward: res.Reward.Sum(),
		Discount:     discount,
		Observation: Observation{
			Board:            res.Board,
			Metrics:          e.table.Snapshot(),
			MetricsMap:       e.table.Map(),
			CumulativeReward: e.episodeReturn.Total(),
		},
	}

	switch e.cfg.Format {
	case FormatList:
		list, err := reward.ToList(res.Reward, e.cfg.Dimensions)
		if err != nil {
			return TimeStep{}, fmt.Errorf("scenario %s: %w", e.cfg.Name, err)
		}
		ts.RewardList = list
	case FormatMap:
		full, err := reward.ToMap(res.Reward, e.cfg.Dimensions)
		if err != nil {
			return TimeStep{}, fmt.Errorf("scenario %s: %w", e.cfg.Name, err)
		}
		ts.RewardMap = full
	case FormatScalar:
		// ScalarReward is already populated.
	}

	if res.Actual != game.ActionNone {
		actual := res.Actual
		ts.Observation.ActualAction = &actual
	}
	if stepType == StepLast {
		ts.Observation.TerminationReason = e.reason
	}
	return ts, nil
}

// TerminationReason reports the recorded reason, empty while the
// episode is still running.
func (e *Environment) TerminationReason() game.TerminationReason {
	return e.reason
}

// ValueBoard converts a character board through the configured value
// mapping for agents that consume numeric observations. Characters
// absent from the mapping pass through as their byte values.
func (e *Environment) ValueBoard(board [][]byte) [][]float64 {
	out := make([][]float64, len(board))
	for r, row := range board {
		out[r] = make([]float64, len(row))
		for c, ch := range row {
			if v, ok := e.cfg.ValueMapping[ch]; ok {
				out[r][c] = v
			} else {
				out[r][c] = float64(ch)
			}
		}
	}
	return out
}
