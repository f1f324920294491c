package reward

import (
	"errors"
	"fmt"
)

// ErrUndeclaredDimension is returned when a vector carries a nonzero
// value for a dimension outside the enabled set. Zero-valued undeclared
// keys are dropped silently so scenarios can record disabled dimensions
// as zero.
var ErrUndeclaredDimension = errors.New("reward dimension is not enabled")

// Dimensions is the fixed, ordered, duplicate-free set of reward
// dimension names one environment instance is allowed to emit. The zero
// value is scalar mode: vectors collapse to their plain sum and
// per-dimension information is intentionally lost.
type Dimensions struct {
	keys  []string
	index map[string]int
}

// Scalar is the scalar-mode sentinel.
func Scalar() Dimensions {
	return Dimensions{}
}

// Declare derives the enabled set from the vectors a scenario declares
// in use. Order is first-seen order of nonzero keys across the
// declaration list, matching the on-screen and log column order.
func Declare(declared ...Vector) Dimensions {
	index := make(map[string]int)
	keys := make([]string, 0, len(declared))
	for _, vec := range declared {
		for _, key := range vec.Keys() {
			if vec.dims[key] == 0 {
				continue
			}
			if _, seen := index[key]; seen {
				continue
			}
			index[key] = len(keys)
			keys = append(keys, key)
		}
	}
	return Dimensions{keys: keys, index: index}
}

// IsScalar reports whether this is the scalar-mode sentinel.
func (d Dimensions) IsScalar() bool {
	return d.index == nil
}

// Keys returns the enabled dimension names in declaration order. The
// returned slice is a copy.
func (d Dimensions) Keys() []string {
	keys := make([]string, len(d.keys))
	copy(keys, d.keys)
	return keys
}

// Len returns the number of enabled dimensions (zero in scalar mode).
func (d Dimensions) Len() int {
	return len(d.keys)
}

// Contains reports whether key is enabled.
func (d Dimensions) Contains(key string) bool {
	_, ok := d.index[key]
	return ok
}

func (d Dimensions) check(v Vector) error {
	for key, value := range v.dims {
		if value == 0 {
			continue
		}
		if _, ok := d.index[key]; !ok {
			return fmt.Errorf("%w: %q", ErrUndeclaredDimension, key)
		}
	}
	return nil
}

// ToList converts v to a slice ordered by the enabled set. In scalar
// mode the result is a single-element slice holding the plain sum.
func ToList(v Vector, d Dimensions) ([]float64, error) {
	if d.IsScalar() {
		return []float64{v.Sum()}, nil
	}
	if err := d.check(v); err != nil {
		return nil, err
	}
	result := make([]float64, len(d.keys))
	for i, key := range d.keys {
		result[i] = v.dims[key]
	}
	return result, nil
}

// ToMap converts v to a full map over the enabled set, with absent
// dimensions filled in as zero. In scalar mode the map holds the plain
// sum under the empty key.
func ToMap(v Vector, d Dimensions) (map[string]float64, error) {
	if d.IsScalar() {
		return map[string]float64{"": v.Sum()}, nil
	}
	if err := d.check(v); err != nil {
		return nil, err
	}
	result := make(map[string]float64, len(d.keys))
	for _, key := range d.keys {
		result[key] = v.dims[key]
	}
	return result, nil
}
