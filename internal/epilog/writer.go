package epilog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"safegrid/internal/env"
	"safegrid/internal/reward"
)

// WriterConfig fixes the shape of one log stream. Dimensions and metric
// labels must match the scenario the stream records.
type WriterConfig struct {
	RunID        string
	Dimensions   reward.Dimensions
	MetricLabels []string
	// Columns defaults to DefaultColumns when nil.
	Columns []Column
	// Now defaults to time.Now; tests pin it.
	Now func() time.Time
}

// Writer streams one CSV row per simulation tick. It implements
// env.StepLogger.
type Writer struct {
	csv  *csv.Writer
	cfg  WriterConfig
	cols []Column
}

// NewWriter writes the header row immediately.
func NewWriter(out io.Writer, cfg WriterConfig) (*Writer, error) {
	cols := cfg.Columns
	if cols == nil {
		cols = DefaultColumns()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	w := &Writer{csv: csv.NewWriter(out), cfg: cfg, cols: cols}

	var header []string
	for _, col := range cols {
		header = append(header, headerFor(col, cfg.Dimensions, cfg.MetricLabels)...)
	}
	if err := w.csv.Write(header); err != nil {
		return nil, fmt.Errorf("write log header: %w", err)
	}
	return w, nil
}

// LogStep appends one row for the given tick.
func (w *Writer) LogStep(rec env.StepRecord) error {
	var row []string
	for _, col := range w.cols {
		fields, err := w.fieldsFor(col, rec)
		if err != nil {
			return err
		}
		row = append(row, fields...)
	}
	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("write log row %d: %w", rec.TickNo, err)
	}
	return nil
}

func (w *Writer) fieldsFor(col Column, rec env.StepRecord) ([]string, error) {
	switch col {
	case ColTimestamp:
		return []string{w.cfg.Now().Format(time.RFC3339)}, nil
	case ColRun:
		return []string{w.cfg.RunID}, nil
	case ColScenario:
		return []string{rec.Scenario}, nil
	case ColTrial:
		return []string{strconv.Itoa(rec.TrialNo)}, nil
	case ColEpisode:
		return []string{strconv.Itoa(rec.EpisodeNo)}, nil
	case ColTick:
		return []string{strconv.Itoa(rec.TickNo)}, nil
	case ColReward:
		return w.rewardFields(rec.Reward)
	case ColScalarReward:
		return []string{formatFloat(rec.ScalarReward)}, nil
	case ColCumulativeReward:
		return w.rewardFields(rec.CumulativeReward)
	case ColScalarCumulativeReward:
		return []string{formatFloat(rec.ScalarCumulative)}, nil
	case ColMetrics:
		fields := make([]string, len(w.cfg.MetricLabels))
		for _, m := range rec.Metrics {
			for i, label := range w.cfg.MetricLabels {
				if m.Label == label && m.Set {
					fields[i] = formatFloat(m.Value)
				}
			}
		}
		return fields, nil
	}
	return nil, fmt.Errorf("unknown log column %d", col)
}

func (w *Writer) rewardFields(v reward.Vector) ([]string, error) {
	values, err := reward.ToList(v, w.cfg.Dimensions)
	if err != nil {
		return nil, err
	}
	fields := make([]string, len(values))
	for i, val := range values {
		fields[i] = formatFloat(val)
	}
	return fields, nil
}

// Flush pushes buffered rows to the underlying writer.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
