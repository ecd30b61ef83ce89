// Package mask derives the fuel-presence mask: the partition of horizontal
// cells into vegetated and bare cells, taken from the vertically integrated
// fuel density of the first output step.
package mask

import (
	"math"

	"github.com/ctessum/sparse"
	"github.com/san-kum/drawfire/internal/field"
)

type Mask struct {
	Nx, Ny int
	fuel   []bool
}

// FromDensity builds the mask from a [nz, ny, nx] fuel density array.
func FromDensity(density *sparse.DenseArray) *Mask {
	return FromIntegrated(field.Integrate(density))
}

// FromIntegrated builds the mask from a vertically integrated density.
// Cells with a positive sum hold fuel; cells summing to zero do not.
func FromIntegrated(s *field.Slice) *Mask {
	m := &Mask{Nx: s.W, Ny: s.H, fuel: make([]bool, len(s.Vals))}
	for i, v := range s.Vals {
		m.fuel[i] = v > 0
	}
	return m
}

// FuelCount and NoFuelCount always add up to Nx*Ny.
func (m *Mask) FuelCount() int {
	n := 0
	for _, f := range m.fuel {
		if f {
			n++
		}
	}
	return n
}

func (m *Mask) NoFuelCount() int { return len(m.fuel) - m.FuelCount() }

// Apply blanks the bare cells of a horizontal slice with NaN. Slices whose
// size does not match the mask are left untouched.
func (m *Mask) Apply(s *field.Slice) {
	if m == nil || s.W != m.Nx || s.H != m.Ny {
		return
	}
	for n, f := range m.fuel {
		if !f {
			s.Vals[n] = math.NaN()
		}
	}
}
