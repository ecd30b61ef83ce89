// Package plot turns the fields of an imported project into PNG images,
// animations and time-series charts.
package plot

import (
	"github.com/san-kum/drawfire/internal/field"
	"github.com/san-kum/drawfire/internal/grid"
)

type Kind int

const (
	// Series plots one image per output time.
	Series Kind = iota
	Terrain
	Ignitions
	FuelHeight
)

type Domain int

const (
	Fire Domain = iota
	Wind
)

func (d Domain) String() string {
	if d == Wind {
		return "wind"
	}
	return "fire"
}

// Job is one entry of the plot list. Planes are 1-based; a nil Planes marks
// a surface field stored with a single level.
type Job struct {
	Kind     Kind
	Name     string
	Label    string
	Prefix   string
	Layout   field.Layout
	Domain   Domain
	Averaged bool
	Planes   []int
	// Vertical adds an xz cut through the middle of the domain.
	Vertical bool
	Masked   bool
	Log      bool
	// FixedRange pins the colour scale of each plane to [0, max] of the
	// first output step.
	FixedRange bool
}

var multiPlanes = []int{1, 2, 5, 8, 10, 12}

// FuelDensityPlanes selects the fuel density planes: the multi-plane set on
// 2 m grids, only the ground plane otherwise.
func FuelDensityPlanes(dx float64, nz int) []int {
	if dx == 2 {
		return ClipPlanes(multiPlanes, nz)
	}
	return ClipPlanes([]int{1}, nz)
}

func MoisturePlanes(nz int) []int {
	return ClipPlanes(multiPlanes, nz)
}

// ClipPlanes drops planes outside 1..nz.
func ClipPlanes(planes []int, nz int) []int {
	out := make([]int, 0, len(planes))
	for _, p := range planes {
		if p >= 1 && p <= nz {
			out = append(out, p)
		}
	}
	return out
}

// Plan lists the plots flags asks for, in drawing order. It reads no files.
func Plan(flags grid.Flags, qu, qf *grid.Grid) []Job {
	var jobs []Job
	add := func(j Job) { jobs = append(jobs, j) }

	if flags.Topo > 0 {
		add(Job{Kind: Terrain, Name: "terrain", Label: "Terrain elevation [m]", Prefix: "h.bin", Domain: Wind})
	}
	if !flags.Fire() {
		return jobs
	}

	add(Job{Kind: Ignitions, Name: "ignitions", Label: "Initial ignitions", Domain: Fire, Masked: true})
	add(Job{Kind: FuelHeight, Name: "fuel_height", Label: "Ground fuel height [m]", Prefix: "groundfuelheight.bin", Domain: Fire})

	if flags.PercMassBurnt == 1 {
		add(Job{Name: "perc_mass_burnt", Label: "Mass burnt (vertically-integ.) [%]",
			Prefix: "mburnt_integ-", Layout: field.Full, Masked: true})
	}
	if flags.FuelDensity == 1 {
		add(Job{Name: "fuel_dens", Label: "Fuel density [kg/m^3]", Prefix: "fuels-dens-",
			Layout: field.Compressed, Planes: FuelDensityPlanes(qf.Dx, qf.Nz), Masked: true, FixedRange: true})
	}
	if flags.PM() {
		add(Job{Name: "pm_emissions", Label: "Soot (log10) [g]", Prefix: "pm_emissions-",
			Layout: field.Compressed, Averaged: true, Planes: []int{1}, Masked: true, Log: true})
	}
	if flags.CO() {
		add(Job{Name: "co_emissions", Label: "CO (log10) [g]", Prefix: "co_emissions-",
			Layout: field.Compressed, Averaged: true, Planes: []int{1}, Masked: true, Log: true})
	}
	if flags.ThermalRad == 1 {
		add(Job{Name: "conv_heat", Label: "Convective heat to human [kW/m^2 skin]", Prefix: "thermalradiation-",
			Layout: field.Compressed, Averaged: true, Planes: []int{1}, Masked: true})
	}
	if flags.EnergyToAtmos == 1 {
		add(Job{Name: "en_to_atm", Label: "Energy to atmosphere [kW/m^3]", Prefix: "fire-energy_to_atmos-",
			Layout: field.Full, Planes: []int{1}})
	}
	if flags.QFWinds == 1 {
		for _, c := range []string{"u", "v", "w"} {
			add(Job{Name: c, Label: upper(c) + " [m/s]", Prefix: "wind" + c, Layout: field.Full, Planes: []int{1}})
		}
	}
	if flags.QUWindsInst == 1 {
		for _, c := range []string{"u", "v", "w"} {
			add(Job{Name: c + "_qu", Label: upper(c) + "_inst [m/s]", Prefix: "qu_wind" + c,
				Layout: field.Full, Domain: Wind, Planes: ClipPlanes([]int{2}, qu.Nz), Vertical: true})
		}
	}
	if flags.QUWindsAve == 1 {
		for _, c := range []string{"u", "v", "w"} {
			add(Job{Name: c + "_qu_ave", Label: upper(c) + "_ave [m/s]", Prefix: "qu_wind" + c + "_ave",
				Layout: field.Full, Domain: Wind, Averaged: true, Planes: ClipPlanes([]int{2}, qu.Nz)})
		}
	}
	if flags.ReactRate == 1 {
		add(Job{Name: "react_rate", Label: "Reaction rate [kg/m3/s]", Prefix: "fire-reaction_rate-",
			Layout: field.Compressed, Planes: []int{1}, Masked: true})
	}
	if flags.Moisture == 1 {
		add(Job{Name: "fuels_moist", Label: "Fuel moisture [-]", Prefix: "fuels-moist-",
			Layout: field.Compressed, Planes: MoisturePlanes(qf.Nz), Masked: true})
	}
	return jobs
}

func upper(c string) string {
	return string(c[0] - 'a' + 'A')
}
