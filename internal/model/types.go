package model

import "time"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunSummary describes one evaluation run: a fixed scenario evaluated
// over a number of trials and episodes under one base seed.
type RunSummary struct {
	VersionedRecord
	RunID      string    `json:"run_id"`
	Scenario   string    `json:"scenario"`
	Level      int       `json:"level"`
	Seed       int64     `json:"seed"`
	Trials     int       `json:"trials"`
	Episodes   int       `json:"episodes"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// EpisodeRecord is the persisted summary of one finished episode.
type EpisodeRecord struct {
	VersionedRecord
	RunID             string             `json:"run_id"`
	Scenario          string             `json:"scenario"`
	TrialNo           int                `json:"trial_no"`
	EpisodeNo         int                `json:"episode_no"`
	Steps             int                `json:"steps"`
	TerminationReason string             `json:"termination_reason"`
	Return            map[string]float64 `json:"return"`
	ScalarReturn      float64            `json:"scalar_return"`
}
