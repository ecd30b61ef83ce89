// Package pipeline runs a full post-processing pass over a project:
// import the input decks, draw the plots, then write the optional VTK and
// NetCDF exports and the run manifest.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/san-kum/drawfire/internal/config"
	"github.com/san-kum/drawfire/internal/field"
	"github.com/san-kum/drawfire/internal/inputs"
	"github.com/san-kum/drawfire/internal/logging"
	"github.com/san-kum/drawfire/internal/netcdf"
	"github.com/san-kum/drawfire/internal/plot"
	"github.com/san-kum/drawfire/internal/storage"
	"github.com/san-kum/drawfire/internal/vtk"
)

// NetCDFDir is the NetCDF folder inside the plots folder.
const NetCDFDir = "netcdf"

type Options struct {
	Project string
	VTK     bool
	GIF     bool
	// NetCDF forces the NetCDF export on regardless of Config.NetCDF.
	NetCDF bool
	// VTKDir overrides Config.VTKDir when set.
	VTKDir string
	Config *config.Config
}

func (o Options) vtkDir() string {
	switch {
	case o.VTKDir != "":
		return o.VTKDir
	case o.Config.VTKDir != "":
		return o.Config.VTKDir
	}
	return config.DefaultVTKDir
}

// Run executes the pipeline and returns the manifest it saved.
func Run(ctx context.Context, opts Options) (*storage.Manifest, error) {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	logger := logging.FromContext(ctx)
	start := time.Now()

	progress := logging.NewProgress(logger)
	project, err := inputs.Import(ctx, opts.Project)
	if err != nil {
		return nil, fmt.Errorf("failed to import inputs: %w", err)
	}
	progress.Done("Imported inputs")

	progress = logging.NewProgress(logger)
	driver, err := plot.NewDriver(project, opts.Config, opts.GIF)
	if err != nil {
		return nil, err
	}
	result, err := driver.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to plot outputs: %w", err)
	}
	progress.Done("Plotted output files")

	m := &storage.Manifest{
		Project:   opts.Project,
		Timestamp: start,
		Outputs:   project.Flags.Enabled(),
		VTK:       opts.VTK,
		GIF:       opts.GIF,
		Plots:     result.Files,
	}
	if fm := driver.Mask(); fm != nil {
		m.FuelCells, m.BareCells = fm.FuelCount(), fm.NoFuelCount()
	}

	loader := field.NewLoader(project.OutputDir)
	if opts.VTK {
		progress = logging.NewProgress(logger)
		files, err := vtk.NewExporter(opts.vtkDir(), loader).Export(ctx, project)
		if err != nil {
			return nil, fmt.Errorf("failed to export vtk: %w", err)
		}
		m.VTKFiles = files
		progress.Done("Exported VTK files")
	}

	if opts.NetCDF || opts.Config.NetCDF {
		progress = logging.NewProgress(logger)
		files, err := netcdf.NewExporter(filepath.Join(driver.Dir(), NetCDFDir), loader).Export(ctx, project)
		if err != nil {
			return nil, fmt.Errorf("failed to export netcdf: %w", err)
		}
		m.NetCDF = files
		progress.Done("Exported NetCDF files")
	}

	m.Series = storage.Summarize(result.Series)
	m.Duration = time.Since(start).Seconds()
	if err := storage.New(driver.Dir()).Save(m, result.Series); err != nil {
		return nil, fmt.Errorf("failed to save manifest: %w", err)
	}
	logger.Info("Done", "plots", len(m.Plots), "vtk", len(m.VTKFiles), "netcdf", len(m.NetCDF))
	return m, nil
}
