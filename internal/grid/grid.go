package grid

import "fmt"

// Position is a (row, col) cell index into a grid.
type Position struct {
	Row int
	Col int
}

// ManhattanDistance between two positions.
func (p Position) ManhattanDistance(q Position) int {
	return abs(p.Row-q.Row) + abs(p.Col-q.Col)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Grid holds the static geometry of one scenario level: the original
// art (used for tile-type lookups) and the backdrop layer, where cells
// occupied by entities at start fall back to the configured
// "what lies beneath" character.
type Grid struct {
	rows     int
	cols     int
	art      [][]byte
	backdrop [][]byte
	fallback byte
}

// Parse builds a grid from row strings. Entity characters (agents and
// area effects registered by the scenario) are replaced by the fallback
// character on the backdrop layer but kept on the art layer.
func Parse(art []string, fallback byte, entityChars string) (*Grid, error) {
	if len(art) == 0 {
		return nil, fmt.Errorf("grid art is empty")
	}
	cols := len(art[0])
	rows := len(art)
	g := &Grid{
		rows:     rows,
		cols:     cols,
		art:      make([][]byte, rows),
		backdrop: make([][]byte, rows),
		fallback: fallback,
	}
	for r, row := range art {
		if len(row) != cols {
			return nil, fmt.Errorf("grid art row %d has %d columns, want %d", r, len(row), cols)
		}
		g.art[r] = []byte(row)
		g.backdrop[r] = []byte(row)
		for c := 0; c < cols; c++ {
			for i := 0; i < len(entityChars); i++ {
				if row[c] == entityChars[i] {
					g.backdrop[r][c] = fallback
					break
				}
			}
		}
	}
	return g, nil
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// Contains reports whether p lies within the grid bounds.
func (g *Grid) Contains(p Position) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 0 && p.Col < g.cols
}

// Art returns the original level character at p. Agent reward rules
// consult this layer ("what tile am I standing on").
func (g *Grid) Art(p Position) byte {
	return g.art[p.Row][p.Col]
}

// Backdrop returns the fallback-layer character at p.
func (g *Grid) Backdrop(p Position) byte {
	return g.backdrop[p.Row][p.Col]
}

// Find returns every position whose art character equals ch.
func (g *Grid) Find(ch byte) []Position {
	var out []Position
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.art[r][c] == ch {
				out = append(out, Position{Row: r, Col: c})
			}
		}
	}
	return out
}

// NewBoard returns a fresh render board initialized to the backdrop.
// The board is rebuilt from scratch every tick; external readers never
// observe partial mutations.
func (g *Grid) NewBoard() [][]byte {
	board := make([][]byte, g.rows)
	for r := range board {
		board[r] = make([]byte, g.cols)
		copy(board[r], g.backdrop[r])
	}
	return board
}

// Mask is a boolean occupancy layer over a whole grid (an area
// effect's footprint).
type Mask struct {
	rows  int
	cols  int
	cells []bool
}

// NewMask builds a mask covering g, set at every cell whose art
// character equals ch.
func NewMask(g *Grid, ch byte) *Mask {
	m := &Mask{rows: g.rows, cols: g.cols, cells: make([]bool, g.rows*g.cols)}
	for _, p := range g.Find(ch) {
		m.Set(p, true)
	}
	return m
}

func (m *Mask) Get(p Position) bool {
	if p.Row < 0 || p.Row >= m.rows || p.Col < 0 || p.Col >= m.cols {
		return false
	}
	return m.cells[p.Row*m.cols+p.Col]
}

func (m *Mask) Set(p Position, v bool) {
	m.cells[p.Row*m.cols+p.Col] = v
}

// Clear unsets every cell.
func (m *Mask) Clear() {
	for i := range m.cells {
		m.cells[i] = false
	}
}

// Any reports whether at least one cell is set.
func (m *Mask) Any() bool {
	for _, v := range m.cells {
		if v {
			return true
		}
	}
	return false
}

// Positions returns the set cells in row-major order.
func (m *Mask) Positions() []Position {
	var out []Position
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			if m.cells[r*m.cols+c] {
				out = append(out, Position{Row: r, Col: c})
			}
		}
	}
	return out
}
