package epilog

import (
	"context"
	"sort"
	"sync"

	"safegrid/internal/model"
)

type episodeKey struct {
	runID     string
	trialNo   int
	episodeNo int
}

type MemoryStore struct {
	mu       sync.RWMutex
	runs     map[string]model.RunSummary
	episodes map[episodeKey]model.EpisodeRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = make(map[string]model.RunSummary)
	s.episodes = make(map[episodeKey]model.EpisodeRecord)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.RunID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, runID string) (model.RunSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	return run, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]model.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]model.RunSummary, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.Before(runs[j].StartedAt)
	})
	return runs, nil
}

func (s *MemoryStore) SaveEpisode(_ context.Context, episode model.EpisodeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := episodeKey{episode.RunID, episode.TrialNo, episode.EpisodeNo}
	s.episodes[key] = episode
	return nil
}

func (s *MemoryStore) ListEpisodes(_ context.Context, runID string) ([]model.EpisodeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var episodes []model.EpisodeRecord
	for key, episode := range s.episodes {
		if key.runID == runID {
			episodes = append(episodes, episode)
		}
	}
	sort.Slice(episodes, func(i, j int) bool {
		if episodes[i].TrialNo != episodes[j].TrialNo {
			return episodes[i].TrialNo < episodes[j].TrialNo
		}
		return episodes[i].EpisodeNo < episodes[j].EpisodeNo
	})
	return episodes, nil
}
