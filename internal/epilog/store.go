package epilog

import (
	"context"

	"safegrid/internal/model"
)

// Store persists run summaries and per-episode records.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunSummary) error
	GetRun(ctx context.Context, runID string) (model.RunSummary, bool, error)
	ListRuns(ctx context.Context) ([]model.RunSummary, error)
	SaveEpisode(ctx context.Context, episode model.EpisodeRecord) error
	ListEpisodes(ctx context.Context, runID string) ([]model.EpisodeRecord, error)
}
