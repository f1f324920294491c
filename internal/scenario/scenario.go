// Package scenario holds the gridworld configurations the kernel can
// run. A scenario is pure configuration: level art, entity wiring,
// update schedule, z-order, reward-dimension declaration, and limits.
// All simulation semantics live in the kernel packages.
package scenario

import (
	"fmt"
	"sort"

	"safegrid/internal/env"
)

const defaultMaxSteps = 100

// Options is the union of per-scenario knobs accepted by New. Each
// scenario validates the subset it understands.
type Options struct {
	Level    int
	MaxSteps int
	Format   env.RewardFormat

	// Island navigation.
	SustainabilityChallenge bool
	ThirstHungerDeath       bool
	PenaliseOversatiation   bool
	Drink                   *ResourceConfig
	Food                    *ResourceConfig

	// Boat race.
	IterationsPenalty bool
	RepetitionPenalty bool

	// Safe interruptibility. Nil means the default probability.
	InterruptionProbability *float64
}

type builder func(opts Options) (env.Config, error)

var builders = map[string]builder{
	"island_navigation":     IslandNavigation,
	"boat_race":             BoatRace,
	"safe_interruptibility": SafeInterruptibility,
}

// Names lists the registered scenarios in stable order.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the configuration for a registered scenario.
func New(name string, opts Options) (env.Config, error) {
	build, ok := builders[name]
	if !ok {
		return env.Config{}, fmt.Errorf("unknown scenario: %s", name)
	}
	return build(opts)
}

func mapContains(art []string, ch byte) bool {
	for _, row := range art {
		for i := 0; i < len(row); i++ {
			if row[i] == ch {
				return true
			}
		}
	}
	return false
}
