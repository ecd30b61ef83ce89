package vtk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/drawfire/internal/field"
	"github.com/san-kum/drawfire/internal/inputs"
	"github.com/san-kum/drawfire/internal/logging"
	"github.com/san-kum/drawfire/internal/volume"
)

// Exporter writes one .vtr per output time of each enabled dataset, plus a
// .pvd collection per dataset.
type Exporter struct {
	dir    string
	loader *field.Loader
}

func NewExporter(dir string, loader *field.Loader) *Exporter {
	return &Exporter{dir: dir, loader: loader}
}

// Export returns the paths of the files written. A project with no
// volumetric output enabled writes nothing.
func (e *Exporter) Export(ctx context.Context, p *inputs.Project) ([]string, error) {
	var files []string
	for _, s := range volume.Sets(p) {
		written, err := e.exportSet(ctx, s)
		if err != nil {
			return nil, err
		}
		files = append(files, written...)
	}
	return files, nil
}

// FileName is the .vtr name of set at time t, e.g. fuels-00100.vtr.
func FileName(set string, t int) string {
	return fmt.Sprintf("%s-%05d.vtr", set, t)
}

func (e *Exporter) exportSet(ctx context.Context, s *volume.Set) ([]string, error) {
	logger := logging.FromContext(ctx)
	logger.Info("Exporting VTK files", "dataset", s.Name, "steps", len(s.Times))

	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create vtk folder: %w", err)
	}

	x, y, z := s.Coords()
	var (
		files   []string
		entries []Entry
	)
	for _, t := range s.Times {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		step, err := s.Load(e.loader, t)
		if err != nil {
			return nil, err
		}

		g := &Grid{X: x, Y: y, Z: z}
		for _, a := range step.Scalars {
			g.Scalars = append(g.Scalars, Scalar{Name: a.Name, Data: a.Data})
		}
		if step.HasVector() {
			g.Vectors = append(g.Vectors, Vector{
				Name: step.VectorName,
				X:    step.Vector[0],
				Y:    step.Vector[1],
				Z:    step.Vector[2],
			})
		}

		name := FileName(s.Name, t)
		path := filepath.Join(e.dir, name)
		if err := WriteRectilinear(path, g); err != nil {
			return nil, err
		}
		logger.Debug("wrote vtk", "time", t, "file", name)
		files = append(files, path)
		entries = append(entries, Entry{Time: t, File: name})
	}

	pvd := filepath.Join(e.dir, s.Name+".pvd")
	if err := WriteCollection(pvd, entries); err != nil {
		return nil, err
	}
	return append(files, pvd), nil
}
