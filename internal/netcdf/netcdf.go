// Package netcdf exports the volumetric datasets of a project as NetCDF
// classic files with an unlimited time dimension.
package netcdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ctessum/cdf"

	"github.com/san-kum/drawfire/internal/field"
	"github.com/san-kum/drawfire/internal/inputs"
	"github.com/san-kum/drawfire/internal/logging"
	"github.com/san-kum/drawfire/internal/volume"
)

var (
	dims4     = []string{"time", "z", "y", "x"}
	zeroFloat = []float32{0}
)

type Exporter struct {
	dir    string
	loader *field.Loader
}

func NewExporter(dir string, loader *field.Loader) *Exporter {
	return &Exporter{dir: dir, loader: loader}
}

// Export writes <dataset>.nc for every enabled dataset and returns the
// paths written.
func (e *Exporter) Export(ctx context.Context, p *inputs.Project) ([]string, error) {
	var files []string
	for _, s := range volume.Sets(p) {
		path := filepath.Join(e.dir, s.Name+".nc")
		if err := e.write(ctx, path, s); err != nil {
			return nil, err
		}
		files = append(files, path)
	}
	return files, nil
}

func header(s *volume.Set) *cdf.Header {
	x, y, z := s.Coords()
	h := cdf.NewHeader(
		[]string{"time", "z", "y", "x"},
		[]int{0, len(z), len(y), len(x)})
	h.AddAttribute("", "title", "drawfire "+s.Name+" export")
	h.AddAttribute("", "Conventions", "CF-1.6")

	h.AddVariable("time", []string{"time"}, []int32{0})
	h.AddAttribute("time", "units", "s")
	for _, c := range []string{"x", "y", "z"} {
		h.AddVariable(c, []string{c}, zeroFloat)
		h.AddAttribute(c, "units", "m")
	}
	names := make([]string, 0, len(s.Sources)+1)
	for _, src := range s.Sources {
		names = append(names, src.Name)
	}
	if s.Winds {
		names = append(names, "wind_speed")
	}
	for _, name := range names {
		h.AddVariable(name, dims4, zeroFloat)
	}
	h.Define()
	return h
}

func (e *Exporter) write(ctx context.Context, path string, s *volume.Set) error {
	logger := logging.FromContext(ctx)
	logger.Info("Exporting NetCDF", "dataset", s.Name, "file", path)

	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return fmt.Errorf("failed to create netcdf folder: %w", err)
	}

	h := header(s)
	for _, err := range h.Check() {
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	f, err := cdf.Create(out, h)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	x, y, z := s.Coords()
	for name, vals := range map[string][]float64{"x": x, "y": y, "z": z} {
		end := f.Header.Lengths(name)
		w := f.Writer(name, make([]int, len(end)), end)
		if _, err := w.Write(toFloat32(vals)); err != nil {
			return fmt.Errorf("%s: %s: %w", path, name, err)
		}
	}

	for n, t := range s.Times {
		if err := ctx.Err(); err != nil {
			return err
		}
		step, err := s.Load(e.loader, t)
		if err != nil {
			return err
		}
		if _, err := f.Writer("time", []int{n}, []int{n + 1}).Write([]int32{int32(t)}); err != nil {
			return fmt.Errorf("%s: time: %w", path, err)
		}
		for _, a := range step.Scalars {
			w := f.Writer(a.Name, []int{n, 0, 0, 0}, []int{n + 1, 0, 0, 0})
			if _, err := w.Write(toFloat32(a.Data.Elements)); err != nil {
				return fmt.Errorf("%s: %s at %d s: %w", path, a.Name, t, err)
			}
		}
	}

	if err := cdf.UpdateNumRecs(out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return out.Close()
}

// ReadVariable reads a whole float variable back, with its dimension
// lengths.
func ReadVariable(path, name string) ([]float32, []int, error) {
	data, dims, err := read(path, name)
	if err != nil {
		return nil, nil, err
	}
	vals, ok := data.([]float32)
	if !ok {
		return nil, nil, fmt.Errorf("%s: %s is not a float variable", path, name)
	}
	return vals, dims, nil
}

// ReadTimes reads the output times of a dataset file.
func ReadTimes(path string) ([]int, error) {
	data, _, err := read(path, "time")
	if err != nil {
		return nil, err
	}
	raw, ok := data.([]int32)
	if !ok {
		return nil, fmt.Errorf("%s: time is not an int variable", path)
	}
	times := make([]int, len(raw))
	for i, t := range raw {
		times[i] = int(t)
	}
	return times, nil
}

func read(path, name string) (interface{}, []int, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer in.Close()

	f, err := cdf.Open(in)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	found := false
	for _, v := range f.Header.Variables() {
		if v == name {
			found = true
			break
		}
	}
	if !found {
		return nil, nil, fmt.Errorf("%s: no variable %q", path, name)
	}

	dims := append([]int(nil), f.Header.Lengths(name)...)
	if len(dims) > 0 && dims[0] == 0 {
		fi, err := in.Stat()
		if err != nil {
			return nil, nil, err
		}
		dims[0] = int(f.Header.NumRecs(fi.Size()))
	}
	n := 1
	end := make([]int, len(dims))
	for i, d := range dims {
		n *= d
		end[i] = d - 1
	}
	buf := f.Header.ZeroValue(name, n)
	if n == 0 {
		return buf, dims, nil
	}
	if _, err := f.Reader(name, make([]int, len(dims)), end).Read(buf); err != nil {
		return nil, nil, fmt.Errorf("%s: %s: %w", path, name, err)
	}
	return buf, dims, nil
}

func toFloat32(vals []float64) []float32 {
	out := make([]float32, len(vals))
	for i, v := range vals {
		out[i] = float32(v)
	}
	return out
}
