// Package inputstest writes small synthetic projects for tests.
package inputstest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/sparse"

	"github.com/san-kum/drawfire/internal/field"
	"github.com/san-kum/drawfire/internal/grid"
)

// Fixture describes the project Write produces. Times follow the decks:
// fire output every Dt*PrintInt seconds, winds every Dt*Steps*WindPrint.
type Fixture struct {
	Nx, Ny, Nz int
	Dx, Dy, Dz float64
	FireNz     int
	FireDz     float64

	SimTime, Dt, Steps, PrintInt, WindPrint, AveInt, AveWind int

	IgnitionType int
	IgnitionLine string

	// ZQU and ZQF, when set, are written as z_qu.bin and z_qf.bin.
	ZQU, ZQF []float64

	Flags grid.Flags
}

// Default is a 4x3 domain with dx=2, two fire layers, three wind layers and
// every output switched on. Column i=0 carries no fuel.
func Default() Fixture {
	return Fixture{
		Nx: 4, Ny: 3, Nz: 3,
		Dx: 2, Dy: 2, Dz: 1,
		FireNz: 2, FireDz: 1,
		SimTime: 4, Dt: 1, Steps: 2, PrintInt: 2, WindPrint: 1, AveInt: 2, AveWind: 1,
		IgnitionType: 1,
		IgnitionLine: "2 0 2 6",
		Flags: grid.Flags{
			IsFire: 1, Topo: 1,
			EnergyToAtmos: 1, ReactRate: 1, FuelDensity: 1, QFWinds: 1,
			QUWindsInst: 1, QUWindsAve: 1, Moisture: 1, PercMassBurnt: 1,
			Emissions: 3, ThermalRad: 1,
		},
	}
}

func (fx Fixture) FireGrid() *grid.Grid {
	dz := make([]float64, fx.FireNz)
	for k := range dz {
		dz[k] = fx.FireDz
	}
	return &grid.Grid{
		Nx: fx.Nx, Ny: fx.Ny, Nz: fx.FireNz, Dx: fx.Dx, Dy: fx.Dy,
		Z:        grid.Centers(dz),
		Times:    grid.OutputTimes(fx.SimTime, fx.Dt*fx.PrintInt),
		AveTimes: grid.AveragedTimes(fx.SimTime, fx.Dt*fx.AveInt),
	}
}

func (fx Fixture) WindGrid() *grid.Grid {
	dz := make([]float64, fx.Nz)
	for k := range dz {
		dz[k] = fx.Dz
	}
	return &grid.Grid{
		Nx: fx.Nx, Ny: fx.Ny, Nz: fx.Nz, Dx: fx.Dx, Dy: fx.Dy,
		Z:        grid.WithGhosts(dz),
		Times:    grid.OutputTimes(fx.SimTime, fx.Dt*fx.Steps*fx.WindPrint),
		AveTimes: grid.AveragedTimes(fx.SimTime, fx.Dt*fx.Steps*fx.AveWind),
	}
}

// Write creates the decks and Output files of fx under dir.
func Write(dir string, fx Fixture) error {
	if err := os.MkdirAll(filepath.Join(dir, "Output"), 0755); err != nil {
		return err
	}
	decks := map[string]string{
		"QU_simparams.inp":  fx.simParams(),
		"QUIC_fire.inp":     fx.fireDeck(),
		"QU_TopoInputs.inp": fmt.Sprintf("Topo inputs\n%d ! topography flag\n", fx.Flags.Topo),
	}
	for name, body := range decks {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			return err
		}
	}
	return fx.writeOutputs(filepath.Join(dir, "Output"))
}

func (fx Fixture) simParams() string {
	var b strings.Builder
	b.WriteString("!QUIC 6.26\n")
	fmt.Fprintf(&b, "%d ! nx - Domain Length(X) Grid Cells\n", fx.Nx)
	fmt.Fprintf(&b, "%d ! ny - Domain Width(Y) Grid Cells\n", fx.Ny)
	fmt.Fprintf(&b, "%d ! nz - Domain Height(Z) Grid Cells\n", fx.Nz)
	fmt.Fprintf(&b, "%g ! dx (meters)\n", fx.Dx)
	fmt.Fprintf(&b, "%g ! dy (meters)\n", fx.Dy)
	b.WriteString("0 ! Vertical stretching flag\n")
	fmt.Fprintf(&b, "%g ! Surface dz (meters)\n", fx.Dz)
	return b.String()
}

func (fx Fixture) fireDeck() string {
	f := fx.Flags
	lines := []string{
		fmt.Sprintf("%d ! Fire flag", f.IsFire),
		"222 ! Random number generator",
		"=== TIME",
		fmt.Sprintf("%d ! Total simulation time", fx.SimTime),
		fmt.Sprintf("%d ! time step for fire", fx.Dt),
		fmt.Sprintf("%d ! fire steps per wind update", fx.Steps),
		fmt.Sprintf("%d ! fire print interval", fx.PrintInt),
		fmt.Sprintf("%d ! wind print interval", fx.WindPrint),
		fmt.Sprintf("%d ! averaging interval", fx.AveInt),
		fmt.Sprintf("%d ! averaged wind print interval", fx.AveWind),
		"=== FIRE GRID",
		fmt.Sprintf("%d ! fire nz", fx.FireNz),
		fmt.Sprintf("%g ! fire dz", fx.FireDz),
		"=== IGNITION",
		fmt.Sprintf("%d ! ignition type", fx.IgnitionType),
		fx.IgnitionLine,
		"=== FIREBRANDS",
		fmt.Sprintf("%d ! firebrand flag", f.Firebrands),
		"=== OUTPUT",
		fmt.Sprintf("%d ! energy to atmosphere", f.EnergyToAtmos),
		fmt.Sprintf("%d ! reaction rate", f.ReactRate),
		fmt.Sprintf("%d ! fuel density", f.FuelDensity),
		fmt.Sprintf("%d ! fire winds", f.QFWinds),
		fmt.Sprintf("%d ! QU winds instantaneous", f.QUWindsInst),
		fmt.Sprintf("%d ! QU winds averaged", f.QUWindsAve),
		fmt.Sprintf("%d ! fuel moisture", f.Moisture),
		fmt.Sprintf("%d ! percent mass burnt", f.PercMassBurnt),
		fmt.Sprintf("%d ! emissions", f.Emissions),
		fmt.Sprintf("%d ! thermal radiation", f.ThermalRad),
	}
	return "QUIC-Fire inputs\n" + strings.Join(lines, "\n") + "\n"
}

// Density is the fuel density of fx at time index n: zero in column 0,
// decreasing with time elsewhere.
func (fx Fixture) Density(n int) *sparse.DenseArray {
	a := sparse.ZerosDense(fx.FireNz, fx.Ny, fx.Nx)
	for k := 0; k < fx.FireNz; k++ {
		for j := 0; j < fx.Ny; j++ {
			for i := 1; i < fx.Nx; i++ {
				a.Set(float64(fx.FireNz-k)/float64(n+1)+0.1*float64(i), k, j, i)
			}
		}
	}
	return a
}

func filled(nz, ny, nx int, fn func(k, j, i int) float64) *sparse.DenseArray {
	a := sparse.ZerosDense(nz, ny, nx)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				a.Set(fn(k, j, i), k, j, i)
			}
		}
	}
	return a
}

func (fx Fixture) writeOutputs(out string) error {
	qf, qu := fx.FireGrid(), fx.WindGrid()
	f := fx.Flags
	path := func(prefix string, t int) string {
		return filepath.Join(out, fmt.Sprintf("%s%05d.bin", prefix, t))
	}
	var jobs []func() error
	add := func(fn func() error) { jobs = append(jobs, fn) }

	if fx.ZQU != nil {
		add(func() error { return field.WriteVector(filepath.Join(out, "z_qu.bin"), fx.ZQU) })
	}
	if fx.ZQF != nil {
		add(func() error { return field.WriteVector(filepath.Join(out, "z_qf.bin"), fx.ZQF) })
	}

	if f.Topo > 0 {
		add(func() error {
			return field.WriteFull(filepath.Join(out, "h.bin"), filled(1, fx.Ny, fx.Nx, func(_, j, i int) float64 {
				return float64(i + j)
			}))
		})
	}

	if f.IsFire == 1 {
		cells := field.CellsOf(fx.Density(0))
		add(func() error { return field.WriteFuelCells(filepath.Join(out, field.IndexFile), cells) })
		add(func() error {
			return field.WriteFull(filepath.Join(out, "groundfuelheight.bin"), filled(1, fx.Ny, fx.Nx, func(_, _, i int) float64 {
				return 0.5 * float64(i)
			}))
		})

		for n, t := range qf.Times {
			n, t := n, t
			add(func() error { return field.WriteCompressed(path("fuels-dens-", t), fx.Density(n), cells) })
			if f.ReactRate == 1 {
				add(func() error {
					return field.WriteCompressed(path("fire-reaction_rate-", t), filled(fx.FireNz, fx.Ny, fx.Nx, func(k, j, i int) float64 {
						return float64(t+i) * 0.01
					}), cells)
				})
			}
			if f.Moisture == 1 {
				add(func() error {
					return field.WriteCompressed(path("fuels-moist-", t), filled(fx.FireNz, fx.Ny, fx.Nx, func(k, j, i int) float64 {
						return 0.2 - 0.01*float64(t)
					}), cells)
				})
			}
			if f.PercMassBurnt == 1 {
				add(func() error {
					return field.WriteFull(path("mburnt_integ-", t), filled(1, fx.Ny, fx.Nx, func(_, j, i int) float64 {
						return float64(t * i)
					}))
				})
			}
			if f.EnergyToAtmos == 1 {
				add(func() error {
					return field.WriteFull(path("fire-energy_to_atmos-", t), filled(fx.FireNz, fx.Ny, fx.Nx, func(k, j, i int) float64 {
						return float64(t + k + j)
					}))
				})
			}
			if f.QFWinds == 1 {
				for c, prefix := range []string{"windu", "windv", "windw"} {
					c, prefix := c, prefix
					add(func() error {
						return field.WriteFull(path(prefix, t), filled(fx.FireNz, fx.Ny, fx.Nx, func(k, j, i int) float64 {
							return float64(c+1) + float64(k)
						}))
					})
				}
			}
		}

		for _, t := range qf.AveTimes {
			t := t
			var aves []string
			if f.PM() {
				aves = append(aves, "pm_emissions-")
			}
			if f.CO() {
				aves = append(aves, "co_emissions-")
			}
			if f.ThermalRad == 1 {
				aves = append(aves, "thermalradiation-")
			}
			for _, prefix := range aves {
				prefix := prefix
				add(func() error {
					return field.WriteCompressed(path(prefix, t), filled(fx.FireNz, fx.Ny, fx.Nx, func(k, j, i int) float64 {
						return float64(t) * float64(i) * 10
					}), cells)
				})
			}
		}
	}

	wind := func(prefixes []string, times []int) {
		for _, t := range times {
			for c, prefix := range prefixes {
				t, c, prefix := t, c, prefix
				add(func() error {
					return field.WriteFull(path(prefix, t), filled(fx.Nz, fx.Ny, fx.Nx, func(k, j, i int) float64 {
						return float64(c+1) * float64(k+1)
					}))
				})
			}
		}
	}
	if f.QUWindsInst == 1 {
		wind([]string{"qu_windu", "qu_windv", "qu_windw"}, qu.Times)
	}
	if f.QUWindsAve == 1 {
		wind([]string{"qu_windu_ave", "qu_windv_ave", "qu_windw_ave"}, qu.AveTimes)
	}

	for _, job := range jobs {
		if err := job(); err != nil {
			return err
		}
	}
	return nil
}
