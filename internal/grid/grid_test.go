package grid

import "testing"

var testArt = []string{
	"#####",
	"#A> #",
	"#^#v#",
	"# < #",
	"#####",
}

func TestParseLayers(t *testing.T) {
	g, err := Parse(testArt, ' ', "A")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if g.Rows() != 5 || g.Cols() != 5 {
		t.Fatalf("size = %dx%d, want 5x5", g.Rows(), g.Cols())
	}

	agent := Position{Row: 1, Col: 1}
	if got := g.Art(agent); got != 'A' {
		t.Fatalf("art at agent start = %c, want A", got)
	}
	if got := g.Backdrop(agent); got != ' ' {
		t.Fatalf("backdrop at agent start = %c, want fallback", got)
	}
	if got := g.Backdrop(Position{Row: 0, Col: 0}); got != '#' {
		t.Fatalf("backdrop wall = %c, want #", got)
	}
}

func TestParseRejectsRaggedArt(t *testing.T) {
	if _, err := Parse([]string{"###", "##"}, ' ', ""); err == nil {
		t.Fatal("expected error for ragged art")
	}
	if _, err := Parse(nil, ' ', ""); err == nil {
		t.Fatal("expected error for empty art")
	}
}

func TestNewBoardIsIndependentCopy(t *testing.T) {
	g, err := Parse(testArt, ' ', "A")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	a := g.NewBoard()
	a[1][1] = 'X'
	b := g.NewBoard()
	if b[1][1] != ' ' {
		t.Fatalf("board mutation leaked into grid: %c", b[1][1])
	}
}

func TestMask(t *testing.T) {
	g, err := Parse(testArt, ' ', "A")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m := NewMask(g, '^')
	if !m.Get(Position{Row: 2, Col: 1}) {
		t.Fatal("mask missing ^ cell")
	}
	if m.Get(Position{Row: -1, Col: 0}) {
		t.Fatal("out-of-bounds mask read must be false")
	}
	if got := len(m.Positions()); got != 1 {
		t.Fatalf("positions = %d, want 1", got)
	}
	m.Clear()
	if m.Any() {
		t.Fatal("mask not cleared")
	}
}

func TestManhattanDistance(t *testing.T) {
	p := Position{Row: 1, Col: 2}
	q := Position{Row: 4, Col: 0}
	if got := p.ManhattanDistance(q); got != 5 {
		t.Fatalf("distance = %d, want 5", got)
	}
}
