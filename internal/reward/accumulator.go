package reward

// Accumulator owns the mutable state for summing rewards across ticks
// or across an episode. Keeping accumulation out of Vector guarantees
// that shared scenario constants cannot be corrupted in place.
type Accumulator struct {
	dims map[string]float64
}

func NewAccumulator() *Accumulator {
	return &Accumulator{dims: make(map[string]float64)}
}

// Accumulate folds delta into the running total.
func (a *Accumulator) Accumulate(delta Vector) {
	for key, value := range delta.dims {
		a.dims[key] += value
	}
}

// Total returns the running total as an immutable vector.
func (a *Accumulator) Total() Vector {
	return New(a.dims)
}

// Reset clears the running total.
func (a *Accumulator) Reset() {
	a.dims = make(map[string]float64)
}
