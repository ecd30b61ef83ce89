package inputs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/san-kum/drawfire/internal/field"
	"github.com/san-kum/drawfire/internal/grid"
	"github.com/san-kum/drawfire/internal/inputs/inputstest"
)

func writeProject(t *testing.T, fx inputstest.Fixture) string {
	t.Helper()
	dir := t.TempDir()
	if err := inputstest.Write(dir, fx); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return dir
}

func TestImport(t *testing.T) {
	dir := writeProject(t, inputstest.Default())

	p, err := Import(context.Background(), dir)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if p.OutputDir != filepath.Join(dir, "Output") {
		t.Errorf("unexpected output dir %s", p.OutputDir)
	}
	if p.QU.Nx != 4 || p.QU.Ny != 3 || p.QU.Nz != 3 || p.QU.Dx != 2 {
		t.Errorf("unexpected wind grid %+v", p.QU)
	}
	if p.QF.Nx != 4 || p.QF.Ny != 3 || p.QF.Nz != 2 {
		t.Errorf("unexpected fire grid %+v", p.QF)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"fire times", p.QF.Times, []int{0, 2, 4}},
		{"fire averaged times", p.QF.AveTimes, []int{2, 4}},
		{"wind times", p.QU.Times, []int{0, 2, 4}},
		{"wind averaged times", p.QU.AveTimes, []int{2, 4}},
		{"wind z", p.QU.Z, []float64{-0.5, 0.5, 1.5, 2.5, 3.5}},
		{"fire z", p.QF.Z, []float64{0.5, 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, tt.got)
			}
		})
	}

	if p.Flags.Emissions != 3 || p.Flags.Topo != 1 || !p.Flags.Fire() {
		t.Errorf("unexpected flags %+v", p.Flags)
	}
	if p.Ignition.Kind != grid.IgnitionRectangle || p.Ignition.Count() != 3 {
		t.Errorf("expected 3 ignited rectangle cells, got %s with %d", p.Ignition.Kind, p.Ignition.Count())
	}
	if p.Terrain == nil || p.Terrain.Get(0, 1, 2) != 3 {
		t.Errorf("terrain not loaded")
	}
}

func TestImportWithoutTopoFile(t *testing.T) {
	dir := writeProject(t, inputstest.Default())
	if err := os.Remove(filepath.Join(dir, TopoFile)); err != nil {
		t.Fatal(err)
	}

	p, err := Import(context.Background(), dir)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if p.Flags.Topo != 0 || p.Terrain != nil {
		t.Error("missing topography deck should mean flat terrain")
	}
}

func TestImportVerticalOverride(t *testing.T) {
	zqu := []float64{-1, 1, 3, 6, 10}
	fx := inputstest.Default()
	fx.ZQU, fx.ZQF = zqu, []float64{0.25, 0.75}
	dir := writeProject(t, fx)

	p, err := Import(context.Background(), dir)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !reflect.DeepEqual(p.QU.Z, zqu) {
		t.Errorf("expected wind z %v, got %v", zqu, p.QU.Z)
	}
	if !reflect.DeepEqual(p.QF.Z, []float64{0.25, 0.75}) {
		t.Errorf("unexpected fire z %v", p.QF.Z)
	}
}

func TestImportVerticalOverrideWrongLength(t *testing.T) {
	fx := inputstest.Default()
	fx.ZQU = []float64{1, 2}
	dir := writeProject(t, fx)
	if _, err := Import(context.Background(), dir); !errors.Is(err, field.ErrShape) {
		t.Errorf("expected ErrShape, got %v", err)
	}
}

func TestImportStretchedGrid(t *testing.T) {
	dir := writeProject(t, inputstest.Default())
	deck := "header\n4 ! nx\n3 ! ny\n3 ! nz\n2 ! dx\n2 ! dy\n1 ! stretching\n1\n2\n4\n"
	if err := os.WriteFile(filepath.Join(dir, SimParamsFile), []byte(deck), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := Import(context.Background(), dir)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	want := []float64{-0.5, 0.5, 2, 5, 9}
	if !reflect.DeepEqual(p.QU.Z, want) {
		t.Errorf("expected %v, got %v", want, p.QU.Z)
	}
}

func TestImportIgnitionFile(t *testing.T) {
	fx := inputstest.Default()
	fx.IgnitionType = 4
	fx.IgnitionLine = "ignite.dat"
	dir := writeProject(t, fx)
	if err := os.WriteFile(filepath.Join(dir, "ignite.dat"), []byte("1 1 1\n\n4 3 1\n9 9 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := Import(context.Background(), dir)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(p.Ignition.Cells) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(p.Ignition.Cells))
	}
	// out-of-grid cells are ignored when rasterizing
	if p.Ignition.Count() != 2 {
		t.Errorf("expected 2 ignited cells, got %d", p.Ignition.Count())
	}
	if p.Ignition.HorPlane[0] != 1 || p.Ignition.HorPlane[2*4+3] != 1 {
		t.Errorf("unexpected ignition plane %v", p.Ignition.HorPlane)
	}
}

func TestImportMalformed(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		line string
	}{
		{"bad nx", SimParamsFile, "header\nabc ! nx\n", ":2:"},
		{"zero ny", SimParamsFile, "header\n4\n0\n", ":3:"},
		{"truncated", SimParamsFile, "header\n4\n3\n3\n2\n", "end of file"},
		{"bad stretching", SimParamsFile, "header\n4\n3\n3\n2\n2\n7\n1\n", ":7:"},
		{"bad ignition type", FireFile, "h\n1\n1\n4\n1\n2\n2\n1\n2\n1\n2\n1\n9\n", ":13:"},
		{"short ignition", FireFile, "h\n1\n1\n4\n1\n2\n2\n1\n2\n1\n2\n1\n1\n2 2\n", ":14:"},
		{"fractional flag", FireFile, "h\n1.5\n", ":2:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeProject(t, inputstest.Default())
			if err := os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Import(context.Background(), dir)
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.file) || !strings.Contains(err.Error(), tt.line) {
				t.Errorf("error should name %s and %q: %v", tt.file, tt.line, err)
			}
		})
	}
}

func TestImportMissingDeck(t *testing.T) {
	dir := writeProject(t, inputstest.Default())
	if err := os.Remove(filepath.Join(dir, FireFile)); err != nil {
		t.Fatal(err)
	}
	if _, err := Import(context.Background(), dir); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestDeckSkipsSeparatorsAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.inp")
	body := "header 1 2 3\n\n=== SECTION\n  7   ! seven\n! comment only\n2.5 extra words\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	d, err := readDeck(path)
	if err != nil {
		t.Fatal(err)
	}
	n, err := d.int("n")
	if err != nil || n != 7 {
		t.Errorf("expected 7, got %d (%v)", n, err)
	}
	f, err := d.float("f")
	if err != nil || f != 2.5 {
		t.Errorf("expected 2.5, got %g (%v)", f, err)
	}
	if _, err := d.int("past end"); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed past end, got %v", err)
	}
}
