// Package epilog records what happened during a run: a delimited
// per-tick log stream and a persistent store of episode summaries.
package epilog

import "safegrid/internal/reward"

// Column identifies one logical column group of the per-tick log. The
// reward, cumulative-reward, and metrics groups expand into one CSV
// column per declared dimension or metric label.
type Column int

const (
	ColTimestamp Column = iota
	ColRun
	ColScenario
	ColTrial
	ColEpisode
	ColTick
	ColReward
	ColScalarReward
	ColCumulativeReward
	ColScalarCumulativeReward
	ColMetrics
)

// DefaultColumns is the standard column order.
func DefaultColumns() []Column {
	return []Column{
		ColTimestamp, ColRun, ColScenario, ColTrial, ColEpisode, ColTick,
		ColReward, ColScalarReward,
		ColCumulativeReward, ColScalarCumulativeReward,
		ColMetrics,
	}
}

// headerFor expands one column group into its CSV header fields.
func headerFor(col Column, dims reward.Dimensions, metricLabels []string) []string {
	switch col {
	case ColTimestamp:
		return []string{"timestamp"}
	case ColRun:
		return []string{"run"}
	case ColScenario:
		return []string{"scenario"}
	case ColTrial:
		return []string{"trial"}
	case ColEpisode:
		return []string{"episode"}
	case ColTick:
		return []string{"tick"}
	case ColReward:
		return rewardHeader("reward", dims)
	case ColScalarReward:
		return []string{"scalar_reward"}
	case ColCumulativeReward:
		return rewardHeader("cumulative_reward", dims)
	case ColScalarCumulativeReward:
		return []string{"scalar_cumulative_reward"}
	case ColMetrics:
		return append([]string(nil), metricLabels...)
	}
	return nil
}

func rewardHeader(prefix string, dims reward.Dimensions) []string {
	if dims.IsScalar() {
		return []string{prefix}
	}
	keys := dims.Keys()
	out := make([]string, len(keys))
	for i, key := range keys {
		out[i] = prefix + "_" + key
	}
	return out
}
