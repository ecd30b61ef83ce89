// Package field loads simulator output fields keyed by time step and
// derives the quantities the plots and exports need.
//
// Arrays are *sparse.DenseArray with shape [nz, ny, nx] so the element order
// matches the x-fastest order the simulator writes.
package field

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ctessum/sparse"
	"github.com/san-kum/drawfire/internal/grid"
)

// Layout selects how a field file stores its values.
type Layout int

const (
	// Compressed files hold one value per fuel cell listed in fire_indexes.bin.
	Compressed Layout = iota
	// Full files hold nx*ny*nz values.
	Full
)

func (l Layout) String() string {
	if l == Compressed {
		return "compressed"
	}
	return "full"
}

// IndexFile is the fuel-cell index written next to the fields.
const IndexFile = "fire_indexes.bin"

// Loader reads fields from a simulation Output folder.
type Loader struct {
	dir   string
	cells *FuelCells
}

func NewLoader(outputDir string) *Loader {
	return &Loader{dir: outputDir}
}

// Path is the file holding field prefix at time t, e.g. fuels-dens-00100.bin.
func (l *Loader) Path(prefix string, t int) string {
	return filepath.Join(l.dir, fmt.Sprintf("%s%05d.bin", prefix, t))
}

// LoadStep reads a single time step of prefix.
func (l *Loader) LoadStep(prefix string, t int, g *grid.Grid, layout Layout) (*sparse.DenseArray, error) {
	path := l.Path(prefix, t)
	vals, err := readValues(path)
	if err != nil {
		return nil, err
	}

	switch layout {
	case Full:
		return fullArray(path, vals, g)
	case Compressed:
		cells, err := l.fuelCells()
		if err != nil {
			return nil, err
		}
		return cells.Expand(path, vals, g)
	}
	return nil, fmt.Errorf("%s: unknown layout %d", path, layout)
}

// LoadPlane reads a single-record horizontal field such as h.bin.
func (l *Loader) LoadPlane(name string, g *grid.Grid) (*sparse.DenseArray, error) {
	path := filepath.Join(l.dir, name)
	vals, err := readValues(path)
	if err != nil {
		return nil, err
	}
	return fullArray(path, vals, g.Surface())
}

// LoadVector reads a single-record 1D array such as z_qu.bin.
func (l *Loader) LoadVector(name string) ([]float64, error) {
	vals, err := readValues(filepath.Join(l.dir, name))
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = float64(v)
	}
	return out, nil
}

func (l *Loader) fuelCells() (*FuelCells, error) {
	if l.cells != nil {
		return l.cells, nil
	}
	cells, err := ReadFuelCells(filepath.Join(l.dir, IndexFile))
	if err != nil {
		return nil, err
	}
	l.cells = cells
	return cells, nil
}

func readValues(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vals, err := ReadFloat32Record(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vals, nil
}

func fullArray(path string, vals []float32, g *grid.Grid) (*sparse.DenseArray, error) {
	if len(vals) != g.Size() {
		return nil, fmt.Errorf("%s: %w: got %d, expected %d (%dx%dx%d)",
			path, ErrShape, len(vals), g.Size(), g.Nx, g.Ny, g.Nz)
	}
	a := sparse.ZerosDense(g.Nz, g.Ny, g.Nx)
	for i, v := range vals {
		a.Elements[i] = float64(v)
	}
	return a, nil
}
