package field

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Stats summarizes the finite values of a slice or array.
type Stats struct {
	Min, Max, Mean float64
	Count          int
}

// Summarize ignores NaN and Inf. An input without finite values returns a
// zero Stats with Count 0.
func Summarize(vals []float64) Stats {
	finite := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return Stats{}
	}
	return Stats{
		Min:   floats.Min(finite),
		Max:   floats.Max(finite),
		Mean:  floats.Sum(finite) / float64(len(finite)),
		Count: len(finite),
	}
}
