// Package safegrid is the public facade over the simulation kernel:
// it wires scenarios, the episode lifecycle, step logging, and the
// episode store into a single client.
package safegrid

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"safegrid/internal/env"
	"safegrid/internal/epilog"
	"safegrid/internal/game"
	"safegrid/internal/model"
	"safegrid/internal/scenario"
)

const (
	defaultLogDir = "episodes"
	defaultDBPath = "safegrid.db"
)

type Options struct {
	StoreKind string
	DBPath    string
	LogDir    string
}

type Client struct {
	store  epilog.Store
	logDir string

	initialized bool
}

// RunRequest configures one evaluation run: a scenario evaluated for
// Trials x Episodes under a fixed base seed.
type RunRequest struct {
	Scenario string
	Level    int
	Trials   int
	Episodes int
	MaxSteps int
	Seed     int64
	// Policy selects the action source: "random" or "noop".
	Policy string
	// LogSteps streams a per-tick CSV into the log directory.
	LogSteps bool

	// Island navigation knobs.
	SustainabilityChallenge bool
	ThirstHungerDeath       bool
	PenaliseOversatiation   bool

	// Boat race knobs.
	IterationsPenalty bool
	RepetitionPenalty bool

	// Safe interruptibility knob; nil means the scenario default.
	InterruptionProbability *float64
}

type EpisodeSummary struct {
	TrialNo           int
	EpisodeNo         int
	Steps             int
	TerminationReason string
	Return            map[string]float64
	ScalarReturn      float64
}

type RunSummary struct {
	RunID    string
	Scenario string
	LogPath  string
	Episodes []EpisodeSummary
}

type RunItem struct {
	RunID    string
	Scenario string
	Level    int
	Seed     int64
	Trials   int
	Episodes int
	Started  string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = epilog.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	logDir := opts.LogDir
	if logDir == "" {
		logDir = defaultLogDir
	}

	store, err := epilog.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{store: store, logDir: logDir}, nil
}

func (c *Client) Close() error {
	return epilog.CloseIfSupported(c.store)
}

func (c *Client) ensureStore(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

// Scenarios lists the registered scenario names.
func (c *Client) Scenarios() []string {
	return scenario.Names()
}

// Run executes one evaluation run and persists per-episode summaries.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.Scenario == "" {
		req.Scenario = "island_navigation"
	}
	if req.Trials <= 0 {
		req.Trials = 1
	}
	if req.Episodes <= 0 {
		req.Episodes = 1
	}
	if req.Policy == "" {
		req.Policy = "random"
	}
	policy, err := policyFromName(req.Policy, req.Seed)
	if err != nil {
		return RunSummary{}, err
	}

	cfg, err := scenario.New(req.Scenario, scenario.Options{
		Level:                   req.Level,
		MaxSteps:                req.MaxSteps,
		SustainabilityChallenge: req.SustainabilityChallenge,
		ThirstHungerDeath:       req.ThirstHungerDeath,
		PenaliseOversatiation:   req.PenaliseOversatiation,
		IterationsPenalty:       req.IterationsPenalty,
		RepetitionPenalty:       req.RepetitionPenalty,
		InterruptionProbability: req.InterruptionProbability,
	})
	if err != nil {
		return RunSummary{}, err
	}

	if err := c.ensureStore(ctx); err != nil {
		return RunSummary{}, err
	}

	runID := uuid.NewString()
	started := time.Now().UTC()

	var envOpts []env.Option
	var logPath string
	var logWriter *epilog.Writer
	if req.LogSteps {
		if err := os.MkdirAll(c.logDir, 0o755); err != nil {
			return RunSummary{}, err
		}
		logPath = filepath.Join(c.logDir, fmt.Sprintf("%s-%s.csv", req.Scenario, runID))
		file, err := os.Create(logPath)
		if err != nil {
			return RunSummary{}, err
		}
		defer file.Close()

		logWriter, err = epilog.NewWriter(file, epilog.WriterConfig{
			RunID:        runID,
			Dimensions:   cfg.Dimensions,
			MetricLabels: cfg.MetricLabels,
		})
		if err != nil {
			return RunSummary{}, err
		}
		envOpts = append(envOpts, env.WithStepLogger(logWriter))
	}

	e, err := env.New(cfg, env.NewSimulationContext(req.Seed), envOpts...)
	if err != nil {
		return RunSummary{}, err
	}

	summary := RunSummary{RunID: runID, Scenario: req.Scenario, LogPath: logPath}
	for trial := 0; trial < req.Trials; trial++ {
		e.StartTrial(trial)
		for episode := 0; episode < req.Episodes; episode++ {
			ep, err := c.runEpisode(ctx, e, runID, req.Scenario, policy)
			if err != nil {
				return RunSummary{}, err
			}
			summary.Episodes = append(summary.Episodes, ep)
		}
	}

	if logWriter != nil {
		if err := logWriter.Flush(); err != nil {
			return RunSummary{}, err
		}
	}

	run := model.RunSummary{
		VersionedRecord: epilog.Stamp(),
		RunID:           runID,
		Scenario:        req.Scenario,
		Level:           req.Level,
		Seed:            req.Seed,
		Trials:          req.Trials,
		Episodes:        req.Episodes,
		StartedAt:       started,
		FinishedAt:      time.Now().UTC(),
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return RunSummary{}, err
	}
	return summary, nil
}

func (c *Client) runEpisode(ctx context.Context, e *env.Environment, runID, scenarioName string, policy func() game.Action) (EpisodeSummary, error) {
	ts, err := e.Reset()
	if err != nil {
		return EpisodeSummary{}, err
	}

	steps := 0
	for !ts.Last() {
		ts, err = e.Step(policy())
		if err != nil {
			return EpisodeSummary{}, err
		}
		steps++
	}

	episodeReturn := e.EpisodeReturn()
	returns := make(map[string]float64, len(episodeReturn.Keys()))
	for _, key := range episodeReturn.Keys() {
		returns[key] = episodeReturn.Value(key)
	}

	record := model.EpisodeRecord{
		VersionedRecord:   epilog.Stamp(),
		RunID:             runID,
		Scenario:          scenarioName,
		TrialNo:           e.TrialNo(),
		EpisodeNo:         e.EpisodeNo(),
		Steps:             steps,
		TerminationReason: string(e.TerminationReason()),
		Return:            returns,
		ScalarReturn:      episodeReturn.Sum(),
	}
	if err := c.store.SaveEpisode(ctx, record); err != nil {
		return EpisodeSummary{}, err
	}

	return EpisodeSummary{
		TrialNo:           record.TrialNo,
		EpisodeNo:         record.EpisodeNo,
		Steps:             record.Steps,
		TerminationReason: record.TerminationReason,
		Return:            returns,
		ScalarReturn:      record.ScalarReturn,
	}, nil
}

// Episodes lists the stored episode records of one run.
func (c *Client) Episodes(ctx context.Context, runID string) ([]EpisodeSummary, error) {
	if runID == "" {
		return nil, errors.New("episodes requires a run id")
	}
	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}

	records, err := c.store.ListEpisodes(ctx, runID)
	if err != nil {
		return nil, err
	}
	out := make([]EpisodeSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, EpisodeSummary{
			TrialNo:           rec.TrialNo,
			EpisodeNo:         rec.EpisodeNo,
			Steps:             rec.Steps,
			TerminationReason: rec.TerminationReason,
			Return:            rec.Return,
			ScalarReturn:      rec.ScalarReturn,
		})
	}
	return out, nil
}

// Runs lists the stored run summaries, oldest first.
func (c *Client) Runs(ctx context.Context) ([]RunItem, error) {
	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}

	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RunItem, 0, len(runs))
	for _, run := range runs {
		out = append(out, RunItem{
			RunID:    run.RunID,
			Scenario: run.Scenario,
			Level:    run.Level,
			Seed:     run.Seed,
			Trials:   run.Trials,
			Episodes: run.Episodes,
			Started:  run.StartedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// Render formats a board snapshot as plain text for external display.
func Render(board [][]byte) string {
	out := make([]byte, 0, len(board)*(len(board)+1))
	for _, row := range board {
		out = append(out, row...)
		out = append(out, '\n')
	}
	return string(out)
}

func policyFromName(name string, seed int64) (func() game.Action, error) {
	switch name {
	case "random":
		rng := rand.New(rand.NewSource(seed + 1000))
		return func() game.Action {
			return game.Action(rng.Intn(int(game.ActionNoop) + 1))
		}, nil
	case "noop":
		return func() game.Action { return game.ActionNoop }, nil
	default:
		return nil, fmt.Errorf("unsupported policy: %s", name)
	}
}
