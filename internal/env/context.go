package env

import "math/rand"

// SimulationContext carries the process-wide bookkeeping that survives
// episode resets: trial and episode counters plus the seeded random
// stream. It is threaded explicitly into every environment rather than
// held as global state, and reseeding is deterministic so the same
// trial number replays the same random sequence.
type SimulationContext struct {
	baseSeed  int64
	trialNo   int
	episodeNo int
	rng       *rand.Rand
}

// NewSimulationContext seeds trial 0.
func NewSimulationContext(baseSeed int64) *SimulationContext {
	ctx := &SimulationContext{baseSeed: baseSeed}
	ctx.StartTrial(0)
	return ctx
}

// StartTrial switches to trial n and reseeds the random stream from the
// base seed and the trial number. The episode counter is cumulative
// across trials within a process.
func (c *SimulationContext) StartTrial(n int) {
	c.trialNo = n
	c.rng = rand.New(rand.NewSource(c.baseSeed + int64(n)))
}

func (c *SimulationContext) TrialNo() int     { return c.trialNo }
func (c *SimulationContext) EpisodeNo() int   { return c.episodeNo }
func (c *SimulationContext) Rand() *rand.Rand { return c.rng }

func (c *SimulationContext) bumpEpisode() {
	c.episodeNo++
}
