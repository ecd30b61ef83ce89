// Package grid holds the immutable descriptors produced by the input
// importer: the wind and fire grids, the output flags, the ignition pattern
// and the firebrand settings.
package grid

import (
	"fmt"
	"math"
)

// Grid describes one computational domain and the times at which its fields
// were written. Z holds cell-centre heights; the wind grid carries a ghost
// level below and above the domain so len(Z) == Nz+2 there.
type Grid struct {
	Nx, Ny, Nz int
	Dx, Dy     float64
	Z          []float64
	Times      []int
	AveTimes   []int
}

func (g *Grid) NTimes() int { return len(g.Times) }

func (g *Grid) Lx() float64 { return float64(g.Nx) * g.Dx }
func (g *Grid) Ly() float64 { return float64(g.Ny) * g.Dy }

// HorizontalExtent is [xmin, xmax, ymin, ymax] in metres.
func (g *Grid) HorizontalExtent() [4]float64 {
	return [4]float64{0, g.Lx(), 0, g.Ly()}
}

// PlaneSize is the number of cells in one horizontal layer.
func (g *Grid) PlaneSize() int { return g.Nx * g.Ny }

// Size is the number of cells in the full 3D grid.
func (g *Grid) Size() int { return g.Nx * g.Ny * g.Nz }

// Interior returns Z without the ghost levels when the grid carries them.
func (g *Grid) Interior() []float64 {
	if len(g.Z) == g.Nz+2 {
		return g.Z[1 : len(g.Z)-1]
	}
	return g.Z
}

// MidY is the row index of the vertical xz cut through the middle of the
// domain.
func (g *Grid) MidY() int {
	j := int(math.Floor(g.Ly() * 0.5 / g.Dy))
	if j >= g.Ny {
		j = g.Ny - 1
	}
	return j
}

func (g *Grid) Validate() error {
	if g.Nx <= 0 || g.Ny <= 0 || g.Nz <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%dx%d", g.Nx, g.Ny, g.Nz)
	}
	if g.Dx <= 0 || g.Dy <= 0 {
		return fmt.Errorf("cell size must be positive, got dx=%g dy=%g", g.Dx, g.Dy)
	}
	if len(g.Z) != g.Nz && len(g.Z) != g.Nz+2 {
		return fmt.Errorf("vertical coordinate has %d levels, expected %d or %d", len(g.Z), g.Nz, g.Nz+2)
	}
	return nil
}

// OutputTimes lists 0, step, 2*step, ... up to and including total.
func OutputTimes(total, step int) []int {
	if step <= 0 || total < 0 {
		return nil
	}
	times := make([]int, 0, total/step+1)
	for t := 0; t <= total; t += step {
		times = append(times, t)
	}
	return times
}

// AveragedTimes lists step, 2*step, ... up to and including total. Averaged
// outputs are written at the end of each averaging window, never at t=0.
func AveragedTimes(total, step int) []int {
	if step <= 0 || total < step {
		return nil
	}
	times := make([]int, 0, total/step)
	for t := step; t <= total; t += step {
		times = append(times, t)
	}
	return times
}

// Centers converts layer thicknesses to cell-centre heights.
func Centers(dz []float64) []float64 {
	z := make([]float64, len(dz))
	top := 0.0
	for k, d := range dz {
		z[k] = top + d/2
		top += d
	}
	return z
}

// WithGhosts pads cell centres with one ghost level below and above.
func WithGhosts(dz []float64) []float64 {
	if len(dz) == 0 {
		return nil
	}
	centers := Centers(dz)
	z := make([]float64, 0, len(dz)+2)
	z = append(z, -dz[0]/2)
	z = append(z, centers...)
	last := len(dz) - 1
	z = append(z, centers[last]+dz[last])
	return z
}

// Surface returns a single-layer copy of g for vertically integrated and
// ground-level fields.
func (g *Grid) Surface() *Grid {
	s := *g
	s.Nz = 1
	s.Z = []float64{0}
	if len(g.Z) > 0 {
		s.Z = []float64{g.Interior()[0]}
	}
	return &s
}
