package field

import (
	"fmt"
	"os"

	"github.com/ctessum/sparse"
)

// WriteFull writes a in the full layout the simulator uses.
func WriteFull(path string, a *sparse.DenseArray) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteFloat32Record(f, toFloat32(a.Elements))
}

// WriteCompressed writes the values of a at the listed fuel cells.
func WriteCompressed(path string, a *sparse.DenseArray, cells *FuelCells) error {
	vals := make([]float32, len(cells.Cells))
	for n, c := range cells.Cells {
		vals[n] = float32(a.Get(c[2]-1, c[1]-1, c[0]-1))
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteFloat32Record(f, vals)
}

// WriteFuelCells writes the fuel-cell index file.
func WriteFuelCells(path string, cells *FuelCells) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteInt32Record(f, []int32{int32(len(cells.Cells))}); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	idx := make([]int32, 0, 3*len(cells.Cells))
	for _, c := range cells.Cells {
		idx = append(idx, int32(c[0]), int32(c[1]), int32(c[2]))
	}
	return WriteInt32Record(f, idx)
}

// WriteVector writes a 1D array as a single record.
func WriteVector(path string, vals []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteFloat32Record(f, toFloat32(vals))
}

// CellsOf lists every cell of a holding a positive value, k slowest, which
// is the order the simulator writes its index.
func CellsOf(a *sparse.DenseArray) *FuelCells {
	nz, ny, nx := a.Shape[0], a.Shape[1], a.Shape[2]
	cells := &FuelCells{}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				if a.Get(k, j, i) > 0 {
					cells.Cells = append(cells.Cells, [3]int{i + 1, j + 1, k + 1})
				}
			}
		}
	}
	return cells
}

func toFloat32(vals []float64) []float32 {
	out := make([]float32, len(vals))
	for i, v := range vals {
		out[i] = float32(v)
	}
	return out
}
