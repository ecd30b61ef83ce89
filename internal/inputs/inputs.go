// Package inputs imports a simulation project: the wind and fire grids,
// output flags, ignition and terrain described by the project's input decks.
package inputs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ctessum/sparse"

	"github.com/san-kum/drawfire/internal/field"
	"github.com/san-kum/drawfire/internal/grid"
	"github.com/san-kum/drawfire/internal/logging"
)

const (
	SimParamsFile = "QU_simparams.inp"
	FireFile      = "QUIC_fire.inp"
	TopoFile      = "QU_TopoInputs.inp"
	OutputDir     = "Output"
)

// Project is everything the plotting and export stages need from a run.
type Project struct {
	Dir       string
	OutputDir string
	QU        *grid.Grid
	QF        *grid.Grid
	Flags     grid.Flags
	Ignition  *grid.Ignition
	Firebrand grid.Firebrand
	// Terrain is the ground elevation on the wind grid, nil for flat runs.
	Terrain *sparse.DenseArray
}

// Import reads the decks of the project in dir.
func Import(ctx context.Context, dir string) (*Project, error) {
	logger := logging.FromContext(ctx)
	logger.Info("Importing input data", "project", dir)

	p := &Project{
		Dir:       dir,
		OutputDir: filepath.Join(dir, OutputDir),
	}

	logger.Debug("importing QU grid inputs")
	qu, err := readQUGrid(filepath.Join(dir, SimParamsFile))
	if err != nil {
		return nil, err
	}
	p.QU = qu

	logger.Debug("importing fire inputs")
	if err := p.readFire(filepath.Join(dir, FireFile)); err != nil {
		return nil, err
	}

	logger.Debug("importing terrain elevation")
	if err := p.readTopo(filepath.Join(dir, TopoFile)); err != nil {
		return nil, err
	}

	logger.Debug("importing vertical grid details")
	if err := p.readVerticalGrid(); err != nil {
		return nil, err
	}

	for name, g := range map[string]*grid.Grid{"wind": p.QU, "fire": p.QF} {
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("%s grid: %w", name, err)
		}
	}

	logger.Info("Imported project",
		"wind", fmt.Sprintf("%dx%dx%d", p.QU.Nx, p.QU.Ny, p.QU.Nz),
		"fire", fmt.Sprintf("%dx%dx%d", p.QF.Nx, p.QF.Ny, p.QF.Nz),
		"fire_steps", p.QF.NTimes(),
		"outputs", strings.Join(p.Flags.Enabled(), ","))
	return p, nil
}

func readQUGrid(path string) (*grid.Grid, error) {
	d, err := readDeck(path)
	if err != nil {
		return nil, err
	}

	g := &grid.Grid{}
	if g.Nx, err = d.positive("nx"); err != nil {
		return nil, err
	}
	if g.Ny, err = d.positive("ny"); err != nil {
		return nil, err
	}
	if g.Nz, err = d.positive("nz"); err != nil {
		return nil, err
	}
	if g.Dx, err = d.float("dx"); err != nil {
		return nil, err
	}
	if g.Dy, err = d.float("dy"); err != nil {
		return nil, err
	}

	stretch, err := d.int("vertical stretching flag")
	if err != nil {
		return nil, err
	}
	dz := make([]float64, g.Nz)
	switch stretch {
	case 0:
		surf, err := d.float("surface dz")
		if err != nil {
			return nil, err
		}
		for k := range dz {
			dz[k] = surf
		}
	case 1:
		for k := range dz {
			if dz[k], err = d.float(fmt.Sprintf("dz level %d", k+1)); err != nil {
				return nil, err
			}
		}
	default:
		return nil, d.errorf(d.lines[d.pos-1], "unsupported vertical stretching flag %d", stretch)
	}
	g.Z = grid.WithGhosts(dz)
	return g, nil
}

func (p *Project) readFire(path string) error {
	d, err := readDeck(path)
	if err != nil {
		return err
	}

	if p.Flags.IsFire, err = d.int("fire flag"); err != nil {
		return err
	}
	if _, err = d.int("random seed"); err != nil {
		return err
	}
	simTime, err := d.int("simulation time")
	if err != nil {
		return err
	}
	dt, err := d.positive("fire time step")
	if err != nil {
		return err
	}
	steps, err := d.positive("fire steps per wind update")
	if err != nil {
		return err
	}
	printInt, err := d.positive("fire print interval")
	if err != nil {
		return err
	}
	windPrint, err := d.positive("wind print interval")
	if err != nil {
		return err
	}
	aveInt, err := d.positive("averaging interval")
	if err != nil {
		return err
	}
	aveWind, err := d.positive("averaged wind print interval")
	if err != nil {
		return err
	}

	qf := &grid.Grid{Nx: p.QU.Nx, Ny: p.QU.Ny, Dx: p.QU.Dx, Dy: p.QU.Dy}
	if qf.Nz, err = d.positive("fire grid nz"); err != nil {
		return err
	}
	fdz, err := d.float("fire grid dz")
	if err != nil {
		return err
	}
	dz := make([]float64, qf.Nz)
	for k := range dz {
		dz[k] = fdz
	}
	qf.Z = grid.Centers(dz)

	qf.Times = grid.OutputTimes(simTime, dt*printInt)
	qf.AveTimes = grid.AveragedTimes(simTime, dt*aveInt)
	p.QU.Times = grid.OutputTimes(simTime, dt*steps*windPrint)
	p.QU.AveTimes = grid.AveragedTimes(simTime, dt*steps*aveWind)
	p.QF = qf

	if p.Ignition, err = p.readIgnition(d); err != nil {
		return err
	}
	p.Ignition.Rasterize(qf)

	if p.Firebrand.Flag, err = d.int("firebrand flag"); err != nil {
		return err
	}
	p.Flags.Firebrands = p.Firebrand.Flag

	outputs := []struct {
		name string
		dst  *int
	}{
		{"energy-to-atmosphere flag", &p.Flags.EnergyToAtmos},
		{"reaction rate flag", &p.Flags.ReactRate},
		{"fuel density flag", &p.Flags.FuelDensity},
		{"fire-grid winds flag", &p.Flags.QFWinds},
		{"QU instantaneous winds flag", &p.Flags.QUWindsInst},
		{"QU averaged winds flag", &p.Flags.QUWindsAve},
		{"fuel moisture flag", &p.Flags.Moisture},
		{"percent mass burnt flag", &p.Flags.PercMassBurnt},
		{"emissions flag", &p.Flags.Emissions},
		{"thermal radiation flag", &p.Flags.ThermalRad},
	}
	for _, o := range outputs {
		if *o.dst, err = d.int(o.name); err != nil {
			return err
		}
	}
	if p.Flags.Emissions < 0 || p.Flags.Emissions > 3 {
		return d.errorf(d.lines[d.pos-2], "emissions flag must be 0-3, got %d", p.Flags.Emissions)
	}
	return nil
}

func (p *Project) readIgnition(d *deck) (*grid.Ignition, error) {
	kind, err := d.int("ignition type")
	if err != nil {
		return nil, err
	}
	ig := &grid.Ignition{Kind: grid.IgnitionKind(kind)}

	switch ig.Kind {
	case grid.IgnitionRectangle:
		ig.Params, err = d.floats("rectangle ignition", 4)
	case grid.IgnitionSquareRing:
		ig.Params, err = d.floats("square ring ignition", 5)
	case grid.IgnitionCircleRing:
		ig.Params, err = d.floats("circle ring ignition", 4)
	case grid.IgnitionFile:
		var name string
		if name, err = d.word("ignition file"); err != nil {
			return nil, err
		}
		if !filepath.IsAbs(name) {
			name = filepath.Join(p.Dir, name)
		}
		ig.Cells, err = readIgnitionCells(name)
	default:
		return nil, d.errorf(d.lines[d.pos-1], "unknown ignition type %d", kind)
	}
	if err != nil {
		return nil, err
	}
	return ig, nil
}

// readIgnitionCells reads "i j k" lines of 1-based fire-grid cells.
func readIgnitionCells(path string) ([][3]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cells [][3]int
	sc := bufio.NewScanner(f)
	no := 0
	for sc.Scan() {
		no++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 3 {
			return nil, fmt.Errorf("%s:%d: %w: expected i j k, got %q", path, no, ErrMalformed, sc.Text())
		}
		var c [3]int
		for n := 0; n < 3; n++ {
			if c[n], err = strconv.Atoi(fields[n]); err != nil {
				return nil, fmt.Errorf("%s:%d: %w: expected integer, got %q", path, no, ErrMalformed, fields[n])
			}
		}
		cells = append(cells, c)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cells, nil
}

func (p *Project) readTopo(path string) error {
	d, err := readDeck(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if p.Flags.Topo, err = d.int("topography flag"); err != nil {
		return err
	}
	if p.Flags.Topo <= 0 {
		return nil
	}
	p.Terrain, err = field.NewLoader(p.OutputDir).LoadPlane("h.bin", p.QU)
	return err
}

// readVerticalGrid applies the z_qu.bin and z_qf.bin overrides written by
// the simulator when present.
func (p *Project) readVerticalGrid() error {
	l := field.NewLoader(p.OutputDir)
	overrides := []struct {
		name string
		g    *grid.Grid
		n    int
	}{
		{"z_qu.bin", p.QU, p.QU.Nz + 2},
		{"z_qf.bin", p.QF, p.QF.Nz},
	}
	for _, o := range overrides {
		z, err := l.LoadVector(o.name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		if len(z) != o.n {
			return fmt.Errorf("%s: %w: got %d levels, expected %d",
				filepath.Join(p.OutputDir, o.name), field.ErrShape, len(z), o.n)
		}
		o.g.Z = z
	}
	return nil
}
