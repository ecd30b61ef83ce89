package field

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/san-kum/drawfire/internal/grid"
)

func testGrid() *grid.Grid {
	return &grid.Grid{Nx: 4, Ny: 3, Nz: 2, Dx: 2, Dy: 2, Z: []float64{0.5, 1.5}}
}

func ramp(g *grid.Grid) *sparse.DenseArray {
	a := sparse.ZerosDense(g.Nz, g.Ny, g.Nx)
	for i := range a.Elements {
		a.Elements[i] = float64(i + 1)
	}
	return a
}

func TestLoaderFull(t *testing.T) {
	dir := t.TempDir()
	g := testGrid()
	a := ramp(g)

	l := NewLoader(dir)
	for _, ts := range []int{0, 100} {
		if err := WriteFull(l.Path("windu", ts), a); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	if filepath.Base(l.Path("windu", 100)) != "windu00100.bin" {
		t.Errorf("unexpected file name %s", l.Path("windu", 100))
	}

	got, err := l.LoadStep("windu", 100, g, Full)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Get(1, 2, 3) != a.Get(1, 2, 3) {
		t.Errorf("expected %v, got %v", a.Get(1, 2, 3), got.Get(1, 2, 3))
	}
	// x fastest
	if got.Get(0, 0, 1) != 2 || got.Get(0, 1, 0) != 5 || got.Get(1, 0, 0) != 13 {
		t.Error("unexpected element order")
	}
}

func TestLoaderShapeMismatch(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(dir)
	small := sparse.ZerosDense(1, 2, 2)
	if err := WriteFull(l.Path("windu", 0), small); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	_, err := l.LoadStep("windu", 0, testGrid(), Full)
	if !errors.Is(err, ErrShape) {
		t.Errorf("expected ErrShape, got %v", err)
	}
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader(t.TempDir()).LoadStep("fuels-dens-", 0, testGrid(), Full)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoaderCompressed(t *testing.T) {
	dir := t.TempDir()
	g := testGrid()

	a := sparse.ZerosDense(g.Nz, g.Ny, g.Nx)
	a.Set(0.7, 0, 0, 0)
	a.Set(0.5, 0, 2, 3)
	a.Set(0.2, 1, 1, 1)

	cells := CellsOf(a)
	if cells.Len() != 3 {
		t.Fatalf("expected 3 fuel cells, got %d", cells.Len())
	}

	l := NewLoader(dir)
	if err := WriteFuelCells(filepath.Join(dir, IndexFile), cells); err != nil {
		t.Fatalf("write index failed: %v", err)
	}
	if err := WriteCompressed(l.Path("fuels-dens-", 0), a, cells); err != nil {
		t.Fatalf("write field failed: %v", err)
	}

	got, err := l.LoadStep("fuels-dens-", 0, g, Compressed)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	for i := range a.Elements {
		if math.Abs(got.Elements[i]-a.Elements[i]) > 1e-6 {
			t.Errorf("element %d: expected %v, got %v", i, a.Elements[i], got.Elements[i])
		}
	}
}

func TestFuelCellsOutOfGrid(t *testing.T) {
	cells := &FuelCells{Cells: [][3]int{{5, 1, 1}}}
	_, err := cells.Expand("x.bin", []float32{1}, testGrid())
	if !errors.Is(err, ErrShape) {
		t.Errorf("expected ErrShape, got %v", err)
	}

	_, err = cells.Expand("x.bin", []float32{1, 2}, testGrid())
	if !errors.Is(err, ErrShape) {
		t.Errorf("expected ErrShape for count mismatch, got %v", err)
	}
}

func TestLoadPlaneAndVector(t *testing.T) {
	dir := t.TempDir()
	g := testGrid()
	h := sparse.ZerosDense(1, g.Ny, g.Nx)
	h.Elements[5] = 12

	if err := WriteFull(filepath.Join(dir, "h.bin"), h); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := WriteVector(filepath.Join(dir, "z_qf.bin"), []float64{0.5, 1.5}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	l := NewLoader(dir)
	plane, err := l.LoadPlane("h.bin", g)
	if err != nil {
		t.Fatalf("load plane failed: %v", err)
	}
	if plane.Shape[0] != 1 || plane.Elements[5] != 12 {
		t.Errorf("unexpected plane %v", plane.Shape)
	}

	z, err := l.LoadVector("z_qf.bin")
	if err != nil {
		t.Fatalf("load vector failed: %v", err)
	}
	if len(z) != 2 || z[1] != 1.5 {
		t.Errorf("unexpected vector %v", z)
	}
}
