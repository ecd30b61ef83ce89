package netcdf

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/san-kum/drawfire/internal/field"
	"github.com/san-kum/drawfire/internal/inputs"
	"github.com/san-kum/drawfire/internal/inputs/inputstest"
)

func TestExportReadBack(t *testing.T) {
	fx := inputstest.Default()
	dir := t.TempDir()
	if err := inputstest.Write(dir, fx); err != nil {
		t.Fatal(err)
	}
	p, err := inputs.Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "Plots", "netcdf")
	files, err := NewExporter(out, field.NewLoader(p.OutputDir)).Export(context.Background(), p)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	want := []string{filepath.Join(out, "fuels.nc"), filepath.Join(out, "quwinds.nc")}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("expected %v, got %v", want, files)
	}

	times, err := ReadTimes(files[0])
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(times, []int{0, 2, 4}) {
		t.Errorf("unexpected times %v", times)
	}

	vals, dims, err := ReadVariable(files[0], "fuel_density")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(dims, []int{3, 2, 3, 4}) {
		t.Fatalf("unexpected dims %v", dims)
	}
	step := 2 * 3 * 4
	for n := range times {
		want := fx.Density(n)
		for i, v := range want.Elements {
			if got := float64(vals[n*step+i]); got-v > 1e-5 || v-got > 1e-5 {
				t.Fatalf("step %d cell %d: expected %g, got %g", n, i, v, got)
			}
		}
	}

	x, dims, err := ReadVariable(files[0], "x")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(x, []float32{0, 2, 4, 6}) || !reflect.DeepEqual(dims, []int{4}) {
		t.Errorf("unexpected x coordinate %v %v", x, dims)
	}

	z, _, err := ReadVariable(files[1], "z")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(z, []float32{0.5, 1.5, 2.5}) {
		t.Errorf("unexpected wind z %v", z)
	}
	if _, _, err := ReadVariable(files[1], "wind_speed"); err != nil {
		t.Errorf("wind speed missing: %v", err)
	}
	if _, _, err := ReadVariable(files[1], "missing"); err == nil {
		t.Error("expected error for unknown variable")
	}
}
