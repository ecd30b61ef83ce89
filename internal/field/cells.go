package field

import (
	"fmt"
	"os"

	"github.com/ctessum/sparse"
	"github.com/san-kum/drawfire/internal/grid"
)

// FuelCells lists the 1-based (i, j, k) cells holding fuel, in the order
// compressed fields store their values.
type FuelCells struct {
	Cells [][3]int
}

func (c *FuelCells) Len() int { return len(c.Cells) }

// ReadFuelCells reads the index file: a record with the cell count followed
// by a record of 3*count int32 indices.
func ReadFuelCells(path string) (*FuelCells, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head, err := ReadInt32Record(f)
	if err != nil {
		return nil, fmt.Errorf("%s: cell count: %w", path, err)
	}
	if len(head) < 1 || head[0] < 0 {
		return nil, fmt.Errorf("%s: %w: missing cell count", path, ErrShape)
	}
	n := int(head[0])

	idx, err := ReadInt32Record(f)
	if err != nil {
		return nil, fmt.Errorf("%s: cell indices: %w", path, err)
	}
	if len(idx) != 3*n {
		return nil, fmt.Errorf("%s: %w: got %d indices, expected %d", path, ErrShape, len(idx), 3*n)
	}

	cells := make([][3]int, n)
	for c := 0; c < n; c++ {
		cells[c] = [3]int{int(idx[3*c]), int(idx[3*c+1]), int(idx[3*c+2])}
	}
	return &FuelCells{Cells: cells}, nil
}

// Expand scatters compressed values onto a zeroed grid array.
func (c *FuelCells) Expand(path string, vals []float32, g *grid.Grid) (*sparse.DenseArray, error) {
	if len(vals) != len(c.Cells) {
		return nil, fmt.Errorf("%s: %w: got %d, expected %d fuel cells", path, ErrShape, len(vals), len(c.Cells))
	}
	a := sparse.ZerosDense(g.Nz, g.Ny, g.Nx)
	for n, cell := range c.Cells {
		i, j, k := cell[0]-1, cell[1]-1, cell[2]-1
		if i < 0 || i >= g.Nx || j < 0 || j >= g.Ny || k < 0 || k >= g.Nz {
			return nil, fmt.Errorf("%s: %w: fuel cell (%d,%d,%d) outside %dx%dx%d grid",
				path, ErrShape, cell[0], cell[1], cell[2], g.Nx, g.Ny, g.Nz)
		}
		a.Set(float64(vals[n]), k, j, i)
	}
	return a, nil
}
