package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"safegrid/pkg/safegrid"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "run":
		return runRun(ctx, args[1:])
	case "scenarios":
		return runScenarios(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "episodes":
		return runEpisodes(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

// storeFlags registers the store flags shared by every subcommand,
// defaulted from the environment config.
func storeFlags(fs *flag.FlagSet, cfg envConfig) (store, dbPath, logDir *string) {
	store = fs.String("store", cfg.Store, "store backend: memory|sqlite")
	dbPath = fs.String("db-path", cfg.DBPath, "sqlite database path")
	logDir = fs.String("log-dir", cfg.LogDir, "directory for per-tick CSV logs")
	return store, dbPath, logDir
}

func runRun(ctx context.Context, args []string) error {
	cfg, err := loadEnvConfig()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	store, dbPath, logDir := storeFlags(fs, cfg)
	scenarioName := fs.String("scenario", "island_navigation", "scenario to evaluate")
	level := fs.Int("level", 0, "scenario level")
	trials := fs.Int("trials", 1, "number of trials")
	episodes := fs.Int("episodes", 1, "episodes per trial")
	maxSteps := fs.Int("max-steps", 0, "tick cap per episode (0 = scenario default)")
	seed := fs.Int64("seed", 0, "base seed; trial n reseeds with seed+n")
	policy := fs.String("policy", "random", "action policy: random|noop")
	logSteps := fs.Bool("log", false, "write a per-tick CSV log")
	sustainability := fs.Bool("sustainability", false, "island: depletion sticks, resources regrow slowly")
	thirstHungerDeath := fs.Bool("thirst-hunger-death", false, "island: terminate at the satiation limit")
	penaliseOversatiation := fs.Bool("penalise-oversatiation", false, "island: penalise consuming beyond satiation")
	iterationsPenalty := fs.Bool("iterations-penalty", false, "boat race: -1 per tick")
	repetitionPenalty := fs.Bool("repetition-penalty", false, "boat race: penalise tile revisits")
	interruptionProbability := fs.Float64("interruption-probability", -1, "interruptibility: per-episode arming probability (-1 = default)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := safegrid.RunRequest{
		Scenario:                *scenarioName,
		Level:                   *level,
		Trials:                  *trials,
		Episodes:                *episodes,
		MaxSteps:                *maxSteps,
		Seed:                    *seed,
		Policy:                  *policy,
		LogSteps:                *logSteps,
		SustainabilityChallenge: *sustainability,
		ThirstHungerDeath:       *thirstHungerDeath,
		PenaliseOversatiation:   *penaliseOversatiation,
		IterationsPenalty:       *iterationsPenalty,
		RepetitionPenalty:       *repetitionPenalty,
	}
	if *interruptionProbability >= 0 {
		req.InterruptionProbability = interruptionProbability
	}

	client, err := safegrid.New(safegrid.Options{StoreKind: *store, DBPath: *dbPath, LogDir: *logDir})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("run %s scenario=%s episodes=%d\n", summary.RunID, summary.Scenario, len(summary.Episodes))
	if summary.LogPath != "" {
		fmt.Printf("step log: %s\n", summary.LogPath)
	}
	for _, ep := range summary.Episodes {
		fmt.Printf("trial=%d episode=%d steps=%d reason=%s return=%g\n",
			ep.TrialNo, ep.EpisodeNo, ep.Steps, ep.TerminationReason, ep.ScalarReturn)
	}
	return nil
}

func runScenarios(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("scenarios", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := safegrid.New(safegrid.Options{StoreKind: "memory"})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	for _, name := range client.Scenarios() {
		fmt.Println(name)
	}
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	cfg, err := loadEnvConfig()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	store, dbPath, logDir := storeFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := safegrid.New(safegrid.Options{StoreKind: *store, DBPath: *dbPath, LogDir: *logDir})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx)
	if err != nil {
		return err
	}
	for _, run := range runs {
		fmt.Printf("%s scenario=%s level=%d seed=%d trials=%d episodes=%d started=%s\n",
			run.RunID, run.Scenario, run.Level, run.Seed, run.Trials, run.Episodes, run.Started)
	}
	return nil
}

func runEpisodes(ctx context.Context, args []string) error {
	cfg, err := loadEnvConfig()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("episodes", flag.ContinueOnError)
	store, dbPath, logDir := storeFlags(fs, cfg)
	runID := fs.String("run", "", "run id to list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return usageError("episodes requires -run")
	}

	client, err := safegrid.New(safegrid.Options{StoreKind: *store, DBPath: *dbPath, LogDir: *logDir})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	episodes, err := client.Episodes(ctx, *runID)
	if err != nil {
		return err
	}
	for _, ep := range episodes {
		fmt.Printf("trial=%d episode=%d steps=%d reason=%s return=%g\n",
			ep.TrialNo, ep.EpisodeNo, ep.Steps, ep.TerminationReason, ep.ScalarReturn)
	}
	return nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: safegridctl <run|scenarios|runs|episodes> [flags]", msg)
}
