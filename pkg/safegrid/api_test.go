package safegrid

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := New(Options{StoreKind: "memory", LogDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Close()
	})
	return c
}

func TestClientRunPersistsEpisodes(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	summary, err := c.Run(ctx, RunRequest{
		Scenario: "boat_race",
		Trials:   2,
		Episodes: 2,
		MaxSteps: 5,
		Policy:   "noop",
		Seed:     3,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Episodes) != 4 {
		t.Fatalf("got %d episodes, want 4", len(summary.Episodes))
	}

	episodes, err := c.Episodes(ctx, summary.RunID)
	if err != nil {
		t.Fatalf("Episodes: %v", err)
	}
	if len(episodes) != 4 {
		t.Fatalf("got %d stored episodes, want 4", len(episodes))
	}

	// The episode counter is cumulative across trials.
	wantTrials := []int{0, 0, 1, 1}
	wantEpisodes := []int{0, 1, 2, 3}
	for i, ep := range episodes {
		if ep.TrialNo != wantTrials[i] || ep.EpisodeNo != wantEpisodes[i] {
			t.Fatalf("episode %d numbering = (%d,%d), want (%d,%d)",
				i, ep.TrialNo, ep.EpisodeNo, wantTrials[i], wantEpisodes[i])
		}
		if ep.Steps != 5 {
			t.Fatalf("episode %d steps = %d, want 5", i, ep.Steps)
		}
		if ep.TerminationReason != "max_steps" {
			t.Fatalf("episode %d reason = %q", i, ep.TerminationReason)
		}
	}
}

func TestClientRunWritesStepLog(t *testing.T) {
	ctx := context.Background()
	logDir := t.TempDir()
	c, err := New(Options{StoreKind: "memory", LogDir: logDir})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Close()
	})

	summary, err := c.Run(ctx, RunRequest{
		Scenario: "island_navigation",
		Level:    2,
		Trials:   1,
		Episodes: 2,
		MaxSteps: 3,
		Policy:   "noop",
		LogSteps: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.LogPath == "" {
		t.Fatal("expected a log path")
	}
	if filepath.Dir(summary.LogPath) != logDir {
		t.Fatalf("log path %q outside log dir %q", summary.LogPath, logDir)
	}

	data, err := os.ReadFile(summary.LogPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// Header plus one row per tick of every episode.
	if len(lines) != 1+2*3 {
		t.Fatalf("got %d log lines, want 7", len(lines))
	}
	if !strings.HasPrefix(lines[0], "timestamp,run,scenario,trial,episode,tick") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
}

func TestClientRunDeterministicPerSeed(t *testing.T) {
	ctx := context.Background()

	run := func() []EpisodeSummary {
		c := newTestClient(t)
		summary, err := c.Run(ctx, RunRequest{
			Scenario: "island_navigation",
			Level:    1,
			Trials:   2,
			Episodes: 3,
			MaxSteps: 20,
			Policy:   "random",
			Seed:     11,
		})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return summary.Episodes
	}

	first := run()
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same seed produced different episodes:\n%+v\n%+v", first, second)
	}
}

func TestClientRuns(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	summary, err := c.Run(ctx, RunRequest{
		Scenario: "safe_interruptibility",
		MaxSteps: 4,
		Policy:   "noop",
		Seed:     5,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	runs, err := c.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != summary.RunID {
		t.Fatalf("unexpected runs: %+v", runs)
	}
	if runs[0].Scenario != "safe_interruptibility" || runs[0].Seed != 5 {
		t.Fatalf("unexpected run metadata: %+v", runs[0])
	}
}

func TestClientScenarios(t *testing.T) {
	c := newTestClient(t)
	names := c.Scenarios()
	if len(names) != 3 {
		t.Fatalf("got %d scenarios: %v", len(names), names)
	}
}

func TestClientRejectsUnknownPolicy(t *testing.T) {
	c := newTestClient(t)
	if _, err := c.Run(context.Background(), RunRequest{Policy: "oracle"}); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestClientEpisodesRequiresRunID(t *testing.T) {
	c := newTestClient(t)
	if _, err := c.Episodes(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty run id")
	}
}

func TestRender(t *testing.T) {
	board := [][]byte{{'#', '#'}, {'A', ' '}}
	if got := Render(board); got != "##\nA \n" {
		t.Fatalf("Render = %q", got)
	}
}
