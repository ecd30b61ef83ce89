// Package volume assembles the 3D datasets handed to the volumetric
// exporters: the fire-grid scalars and the QU wind field.
package volume

import (
	"fmt"

	"github.com/ctessum/sparse"

	"github.com/san-kum/drawfire/internal/field"
	"github.com/san-kum/drawfire/internal/grid"
	"github.com/san-kum/drawfire/internal/inputs"
)

type Source struct {
	Name   string
	Prefix string
	Layout field.Layout
}

// Set is one exported dataset. Winds marks the QU wind set, which also
// carries a wind vector and the wind speed.
type Set struct {
	Name    string
	Grid    *grid.Grid
	Z       []float64
	Times   []int
	Sources []Source
	Winds   bool
}

type Array struct {
	Name string
	Data *sparse.DenseArray
}

// Step is the data of one output time, scalars in export order.
type Step struct {
	Time    int
	Scalars []Array
	// Vector is (u, v, w) for wind sets.
	Vector     [3]*sparse.DenseArray
	VectorName string
}

func (s *Step) HasVector() bool { return s.Vector[0] != nil }

// FireSet returns the enabled fire-grid scalars, or nil when none is on.
func FireSet(p *inputs.Project) *Set {
	var src []Source
	if p.Flags.FuelDensity == 1 {
		src = append(src, Source{"fuel_density", "fuels-dens-", field.Compressed})
	}
	if p.Flags.ReactRate == 1 {
		src = append(src, Source{"reaction_rate", "fire-reaction_rate-", field.Compressed})
	}
	if p.Flags.EnergyToAtmos == 1 {
		src = append(src, Source{"energy_to_atmos", "fire-energy_to_atmos-", field.Full})
	}
	if len(src) == 0 {
		return nil
	}
	return &Set{Name: "fuels", Grid: p.QF, Z: p.QF.Z, Times: p.QF.Times, Sources: src}
}

// WindSet returns the QU instantaneous winds, or nil when they are off.
func WindSet(p *inputs.Project) *Set {
	if p.Flags.QUWindsInst != 1 {
		return nil
	}
	return &Set{
		Name:  "quwinds",
		Grid:  p.QU,
		Z:     p.QU.Interior(),
		Times: p.QU.Times,
		Sources: []Source{
			{"u", "qu_windu", field.Full},
			{"v", "qu_windv", field.Full},
			{"w", "qu_windw", field.Full},
		},
		Winds: true,
	}
}

// Sets lists the non-empty datasets of p.
func Sets(p *inputs.Project) []*Set {
	var sets []*Set
	for _, s := range []*Set{FireSet(p), WindSet(p)} {
		if s != nil {
			sets = append(sets, s)
		}
	}
	return sets
}

// Load reads every source of s at time t.
func (s *Set) Load(l *field.Loader, t int) (*Step, error) {
	step := &Step{Time: t}
	for _, src := range s.Sources {
		a, err := l.LoadStep(src.Prefix, t, s.Grid, src.Layout)
		if err != nil {
			return nil, err
		}
		step.Scalars = append(step.Scalars, Array{Name: src.Name, Data: a})
	}
	if !s.Winds {
		return step, nil
	}

	if len(step.Scalars) != 3 {
		return nil, fmt.Errorf("%s: expected u, v, w, got %d fields", s.Name, len(step.Scalars))
	}
	u, v, w := step.Scalars[0].Data, step.Scalars[1].Data, step.Scalars[2].Data
	speed, err := field.Speed(u, v, w)
	if err != nil {
		return nil, fmt.Errorf("%s at %d s: %w", s.Name, t, err)
	}
	step.Scalars = append(step.Scalars, Array{Name: "wind_speed", Data: speed})
	step.Vector = [3]*sparse.DenseArray{u, v, w}
	step.VectorName = "winds"
	return step, nil
}

// Coords returns the point coordinates of s: x = i*dx, y = j*dy and the
// set's vertical levels.
func (s *Set) Coords() (x, y, z []float64) {
	x = make([]float64, s.Grid.Nx)
	for i := range x {
		x[i] = float64(i) * s.Grid.Dx
	}
	y = make([]float64, s.Grid.Ny)
	for j := range y {
		y[j] = float64(j) * s.Grid.Dy
	}
	return x, y, s.Z
}
