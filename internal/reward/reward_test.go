package reward

import (
	"errors"
	"testing"
)

func TestAddIsKeywise(t *testing.T) {
	a := New(map[string]float64{"MOVEMENT": -1, "GOLD": 40})
	b := New(map[string]float64{"MOVEMENT": -1, "FOOD": 20})

	sum := Add(a, b)
	if got := sum.Value("MOVEMENT"); got != -2 {
		t.Fatalf("MOVEMENT = %v, want -2", got)
	}
	if got := sum.Value("GOLD"); got != 40 {
		t.Fatalf("GOLD = %v, want 40", got)
	}
	if got := sum.Value("FOOD"); got != 20 {
		t.Fatalf("FOOD = %v, want 20", got)
	}
}

func TestToListAdditivity(t *testing.T) {
	a := New(map[string]float64{"MOVEMENT": -1, "GOLD": 40})
	b := New(map[string]float64{"MOVEMENT": -3, "FOOD": 20})
	dims := Declare(Of("MOVEMENT", -1), Of("GOLD", 40), Of("FOOD", 20))

	sumList, err := ToList(Add(a, b), dims)
	if err != nil {
		t.Fatalf("ToList(a+b): %v", err)
	}
	aList, err := ToList(a, dims)
	if err != nil {
		t.Fatalf("ToList(a): %v", err)
	}
	bList, err := ToList(b, dims)
	if err != nil {
		t.Fatalf("ToList(b): %v", err)
	}
	for i := range sumList {
		if sumList[i] != aList[i]+bList[i] {
			t.Fatalf("dimension %d: %v != %v + %v", i, sumList[i], aList[i], bList[i])
		}
	}
}

func TestDeclareFirstSeenOrder(t *testing.T) {
	dims := Declare(
		Of("MOVEMENT", -1),
		New(map[string]float64{"FINAL": 50, "DISABLED": 0}),
		Of("MOVEMENT", -1), // duplicate declaration is ignored
		Of("DRINK", 20),
	)
	want := []string{"MOVEMENT", "FINAL", "DRINK"}
	got := dims.Keys()
	if len(got) != len(want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keys = %v, want %v", got, want)
		}
	}
	if dims.Contains("DISABLED") {
		t.Fatal("zero-valued declaration must not enable a dimension")
	}
}

func TestUndeclaredDimensionFailsFast(t *testing.T) {
	dims := Declare(Of("MOVEMENT", -1))

	if _, err := ToList(Of("GOLD", 40), dims); !errors.Is(err, ErrUndeclaredDimension) {
		t.Fatalf("nonzero undeclared key: err = %v, want ErrUndeclaredDimension", err)
	}
	if _, err := ToMap(Of("GOLD", 40), dims); !errors.Is(err, ErrUndeclaredDimension) {
		t.Fatalf("nonzero undeclared key (map): err = %v, want ErrUndeclaredDimension", err)
	}

	// Zero-valued undeclared keys are tolerated and dropped.
	list, err := ToList(New(map[string]float64{"MOVEMENT": -1, "GOLD": 0}), dims)
	if err != nil {
		t.Fatalf("zero undeclared key: %v", err)
	}
	if len(list) != 1 || list[0] != -1 {
		t.Fatalf("list = %v, want [-1]", list)
	}
}

func TestScalarModeCollapsesToSum(t *testing.T) {
	v := New(map[string]float64{"MOVEMENT": -1, "FINAL": 50})

	list, err := ToList(v, Scalar())
	if err != nil {
		t.Fatalf("ToList scalar: %v", err)
	}
	if len(list) != 1 || list[0] != 49 {
		t.Fatalf("scalar list = %v, want [49]", list)
	}

	full, err := ToMap(v, Scalar())
	if err != nil {
		t.Fatalf("ToMap scalar: %v", err)
	}
	if full[""] != 49 {
		t.Fatalf("scalar map = %v, want 49 under empty key", full)
	}
}

func TestAccumulatorDoesNotMutateConstants(t *testing.T) {
	movement := Of("MOVEMENT", -1) // shared scenario constant

	episodeReturn := NewAccumulator()
	episodeReturn.Accumulate(movement)
	episodeReturn.Accumulate(movement)

	if got := movement.Value("MOVEMENT"); got != -1 {
		t.Fatalf("constant mutated: MOVEMENT = %v, want -1", got)
	}
	if got := episodeReturn.Total().Value("MOVEMENT"); got != -2 {
		t.Fatalf("accumulated MOVEMENT = %v, want -2", got)
	}

	// Totals are defensive copies; accumulating after reading one must
	// not alias it.
	snapshot := episodeReturn.Total()
	episodeReturn.Accumulate(movement)
	if got := snapshot.Value("MOVEMENT"); got != -2 {
		t.Fatalf("snapshot aliased: MOVEMENT = %v, want -2", got)
	}
}

func TestScaleNegateBroadcast(t *testing.T) {
	penalty := Of("REPETITION", -1)

	scaled := Scale(penalty, 3)
	if got := scaled.Value("REPETITION"); got != -3 {
		t.Fatalf("Scale = %v, want -3", got)
	}
	if got := penalty.Value("REPETITION"); got != -1 {
		t.Fatalf("Scale mutated input: %v", got)
	}

	neg := Negate(Of("CLOCKWISE", 3))
	if got := neg.Value("CLOCKWISE"); got != -3 {
		t.Fatalf("Negate = %v, want -3", got)
	}

	broad := AddScalar(New(map[string]float64{"A": 1, "B": 2}), 10)
	if broad.Value("A") != 11 || broad.Value("B") != 12 {
		t.Fatalf("AddScalar = %v", broad)
	}
}

func TestZeroVectorIsAdditiveIdentity(t *testing.T) {
	v := Of("FINAL", 50)
	if got := Add(v, Zero()); got.Value("FINAL") != 50 {
		t.Fatalf("v + zero = %v", got)
	}
	if !Zero().IsZero() {
		t.Fatal("Zero().IsZero() = false")
	}
	list, err := ToList(Zero(), Declare(Of("FINAL", 50)))
	if err != nil {
		t.Fatalf("ToList(zero): %v", err)
	}
	if list[0] != 0 {
		t.Fatalf("zero vector list = %v", list)
	}
}
