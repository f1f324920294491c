package game

import (
	"fmt"
	"math/rand"

	"safegrid/internal/grid"
	"safegrid/internal/metrics"
)

// World is the per-episode simulation state: the grid, the entity set,
// the declared update schedule and z-order, the episode metrics table,
// and the seeded random stream. It is built fresh on every reset and
// exclusively owned by one environment.
type World struct {
	Grid    *grid.Grid
	Metrics *metrics.Table
	Rand    *rand.Rand

	entities map[byte]Entity
	schedule []byte
	zOrder   []byte
}

// NewWorld assembles a world. The update schedule is the authoritative
// per-tick entity order; zOrder governs rendering precedence only.
// Every scheduled or z-ordered character must have a registered entity.
func NewWorld(g *grid.Grid, tbl *metrics.Table, rng *rand.Rand, entities []Entity, schedule, zOrder []byte) (*World, error) {
	w := &World{
		Grid:     g,
		Metrics:  tbl,
		Rand:     rng,
		entities: make(map[byte]Entity, len(entities)),
		schedule: schedule,
		zOrder:   zOrder,
	}
	for _, e := range entities {
		ch := e.Character()
		if _, dup := w.entities[ch]; dup {
			return nil, fmt.Errorf("duplicate entity character %q", ch)
		}
		w.entities[ch] = e
	}
	for _, ch := range schedule {
		if _, ok := w.entities[ch]; !ok {
			return nil, fmt.Errorf("update schedule references unknown entity %q", ch)
		}
	}
	for _, ch := range zOrder {
		if _, ok := w.entities[ch]; !ok {
			return nil, fmt.Errorf("z-order references unknown entity %q", ch)
		}
	}
	return w, nil
}

// Entity returns the registered entity for ch, or nil.
func (w *World) Entity(ch byte) Entity {
	return w.entities[ch]
}

// Agent returns the registered agent for ch, or nil when ch is absent
// or not an agent.
func (w *World) Agent(ch byte) *Agent {
	a, _ := w.entities[ch].(*Agent)
	return a
}

// Effect returns the registered area effect for ch, or nil.
func (w *World) Effect(ch byte) *AreaEffect {
	e, _ := w.entities[ch].(*AreaEffect)
	return e
}

// CharAt returns the character visible at p: the topmost entity in
// z-order covering the cell, falling back to the backdrop layer.
func (w *World) CharAt(p grid.Position) byte {
	for i := len(w.zOrder) - 1; i >= 0; i-- {
		ch := w.zOrder[i]
		switch e := w.entities[ch].(type) {
		case *Agent:
			if e.Position() == p {
				return ch
			}
		case *AreaEffect:
			if e.Mask().Get(p) {
				return ch
			}
		case *Backdrop:
			if w.Grid.Art(p) == ch {
				return ch
			}
		}
	}
	return w.Grid.Backdrop(p)
}

// Render rebuilds the display board from scratch: backdrop first, then
// entities in z-order, later entries painting over earlier ones.
func (w *World) Render() [][]byte {
	board := w.Grid.NewBoard()
	for _, ch := range w.zOrder {
		switch e := w.entities[ch].(type) {
		case *Agent:
			p := e.Position()
			board[p.Row][p.Col] = ch
		case *AreaEffect:
			for _, p := range e.Mask().Positions() {
				board[p.Row][p.Col] = ch
			}
		case *Backdrop:
			// Already present on the backdrop layer.
		}
	}
	return board
}
