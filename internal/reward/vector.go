package reward

import (
	"fmt"
	"sort"
	"strings"
)

// Vector is an immutable multi-objective reward value: a mapping from
// dimension name to magnitude. All operations return new vectors; the
// only mutable reward state in the kernel is the Accumulator.
type Vector struct {
	dims map[string]float64
}

// New builds a vector from the given dimension values. The map is
// copied, so callers may reuse or mutate their argument freely.
func New(dims map[string]float64) Vector {
	clone := make(map[string]float64, len(dims))
	for key, value := range dims {
		clone[key] = value
	}
	return Vector{dims: clone}
}

// Of builds a single-dimension vector. Scenario reward constants are
// declared this way.
func Of(key string, value float64) Vector {
	return Vector{dims: map[string]float64{key: value}}
}

// Zero is the additive identity: a vector with no dimensions.
func Zero() Vector {
	return Vector{}
}

// Value returns the magnitude of one dimension, zero when absent.
func (v Vector) Value(key string) float64 {
	return v.dims[key]
}

// Sum collapses the vector to a plain scalar reward.
func (v Vector) Sum() float64 {
	total := 0.0
	for _, value := range v.dims {
		total += value
	}
	return total
}

// IsZero reports whether every dimension is exactly zero.
func (v Vector) IsZero() bool {
	for _, value := range v.dims {
		if value != 0 {
			return false
		}
	}
	return true
}

// Keys returns the dimension names in lexical order.
func (v Vector) Keys() []string {
	keys := make([]string, 0, len(v.dims))
	for key := range v.dims {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Add returns the key-wise sum of a and b.
func Add(a, b Vector) Vector {
	result := make(map[string]float64, len(a.dims)+len(b.dims))
	for key, value := range a.dims {
		result[key] = value
	}
	for key, value := range b.dims {
		result[key] += value
	}
	return Vector{dims: result}
}

// Sub returns the key-wise difference a - b.
func Sub(a, b Vector) Vector {
	result := make(map[string]float64, len(a.dims)+len(b.dims))
	for key, value := range a.dims {
		result[key] = value
	}
	for key, value := range b.dims {
		result[key] -= value
	}
	return Vector{dims: result}
}

// Scale multiplies every dimension by k.
func Scale(v Vector, k float64) Vector {
	result := make(map[string]float64, len(v.dims))
	for key, value := range v.dims {
		result[key] = value * k
	}
	return Vector{dims: result}
}

// Negate flips the sign of every dimension.
func Negate(v Vector) Vector {
	return Scale(v, -1)
}

// AddScalar broadcasts a scalar addition onto every present dimension.
func AddScalar(v Vector, k float64) Vector {
	result := make(map[string]float64, len(v.dims))
	for key, value := range v.dims {
		result[key] = value + k
	}
	return Vector{dims: result}
}

func (v Vector) String() string {
	keys := v.Keys()
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s:%g", key, v.dims[key]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}
