package game

import "safegrid/internal/grid"

// Entity is a simulation participant. The variant set is closed: Agent,
// AreaEffect, and Backdrop. Scenario behavior plugs in through the
// strongly-typed hook fields on each variant, not through subclassing.
//
// Update receives the agent's proposed action and the actual action
// after policy-wrapper resolution. During the showtime tick both are
// ActionNone.
type Entity interface {
	Character() byte
	Update(proposed, actual Action, w *World, tk *Tick)
}

// RewardUpdater is an agent hook invoked after action-legality
// resolution; actual reflects both policy overrides and the silent
// no-op conversion of illegal moves.
type RewardUpdater func(a *Agent, proposed, actual Action, w *World, tk *Tick)

// MetricsUpdater runs at the end of every agent update, including
// showtime, so metrics are populated even on ticks where no reward
// logic fires.
type MetricsUpdater func(a *Agent, w *World, tk *Tick)

// Agent is the player entity: a position plus the characters it cannot
// walk into.
type Agent struct {
	char       byte
	pos        grid.Position
	prev       grid.Position
	impassable string

	RewardUpdater  RewardUpdater
	MetricsUpdater MetricsUpdater
}

func NewAgent(char byte, start grid.Position, impassable string) *Agent {
	return &Agent{char: char, pos: start, prev: start, impassable: impassable}
}

func (a *Agent) Character() byte { return a.char }

// Position is the agent's cell after its most recent update.
func (a *Agent) Position() grid.Position { return a.pos }

// PreviousPosition is the agent's cell before its most recent update.
func (a *Agent) PreviousPosition() grid.Position { return a.prev }

func (a *Agent) impassableAt(w *World, p grid.Position) bool {
	if !w.Grid.Contains(p) {
		return true
	}
	ch := w.CharAt(p)
	for i := 0; i < len(a.impassable); i++ {
		if ch == a.impassable[i] {
			return true
		}
	}
	return false
}

func (a *Agent) Update(proposed, actual Action, w *World, tk *Tick) {
	if proposed == ActionNone {
		// Showtime: no movement, no reward logic, but metrics still run.
		if a.MetricsUpdater != nil {
			a.MetricsUpdater(a, w, tk)
		}
		return
	}

	a.prev = a.pos
	resolved := actual
	if dr, dc := resolved.Delta(); dr != 0 || dc != 0 {
		dest := grid.Position{Row: a.pos.Row + dr, Col: a.pos.Col + dc}
		if a.impassableAt(w, dest) {
			resolved = ActionNoop
		} else {
			a.pos = dest
		}
	} else if !resolved.Recognized() {
		resolved = ActionNoop
	}

	if a.RewardUpdater != nil {
		a.RewardUpdater(a, proposed, resolved, w, tk)
	}
	if a.MetricsUpdater != nil {
		a.MetricsUpdater(a, w, tk)
	}
}

// EffectUpdater is the per-tick hook of an area effect.
type EffectUpdater func(e *AreaEffect, actual Action, w *World, tk *Tick)

// PolicyWrapper may rewrite the agent's action before it is applied.
// Wrappers run in update-schedule order during action resolution.
type PolicyWrapper func(e *AreaEffect, proposed Action, w *World) Action

// AreaEffect covers a set of grid cells (its mask) and carries
// scenario-owned state that persists tick to tick within an episode,
// such as resource availability.
type AreaEffect struct {
	char byte
	mask *grid.Mask

	OnUpdate EffectUpdater
	Wrap     PolicyWrapper
}

func NewAreaEffect(char byte, mask *grid.Mask) *AreaEffect {
	return &AreaEffect{char: char, mask: mask}
}

func (e *AreaEffect) Character() byte  { return e.char }
func (e *AreaEffect) Mask() *grid.Mask { return e.mask }

func (e *AreaEffect) Update(_, actual Action, w *World, tk *Tick) {
	if e.OnUpdate != nil {
		e.OnUpdate(e, actual, w, tk)
	}
}

// Backdrop is inert scenery that participates in scheduling and
// rendering order but has no behavior; its cells live on the grid's art
// layer.
type Backdrop struct {
	char byte
}

func NewBackdrop(char byte) *Backdrop { return &Backdrop{char: char} }

func (b *Backdrop) Character() byte { return b.char }

func (b *Backdrop) Update(_, _ Action, _ *World, _ *Tick) {}
