package plot

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/sparse"

	"github.com/san-kum/drawfire/internal/config"
	"github.com/san-kum/drawfire/internal/field"
	"github.com/san-kum/drawfire/internal/grid"
	"github.com/san-kum/drawfire/internal/inputs"
	"github.com/san-kum/drawfire/internal/logging"
	"github.com/san-kum/drawfire/internal/mask"
	"github.com/san-kum/drawfire/internal/render"
)

// SeriesStats holds the per-step statistics of one plotted series, taken
// over the drawn (masked) values.
type SeriesStats struct {
	Name  string
	Times []int
	Min   []float64
	Max   []float64
	Mean  []float64
}

// Result lists what a Driver wrote. Files are relative to the plots folder.
type Result struct {
	Files  []string
	Series []SeriesStats
}

const (
	minChartWidth  = 480
	minChartHeight = 320
)

type Driver struct {
	project  *inputs.Project
	cfg      *config.Config
	animate  bool
	dir      string
	loader   *field.Loader
	renderer *render.Renderer
	mask     *mask.Mask
	result   *Result
}

// NewDriver prepares a driver writing into <project>/<cfg.PlotsDir>.
// animate turns on GIF (and, if configured, AVI) output per series.
func NewDriver(p *inputs.Project, cfg *config.Config, animate bool) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dir, err := plotsDir(p.Dir, cfg.PlotsDir)
	if err != nil {
		return nil, err
	}
	cm, err := render.GetColormap(cfg.Image.Colormap)
	if err != nil {
		return nil, err
	}
	bg, err := render.ParseColor(cfg.Image.Background)
	if err != nil {
		return nil, err
	}
	return &Driver{
		project:  p,
		cfg:      cfg,
		animate:  animate,
		dir:      dir,
		loader:   field.NewLoader(p.OutputDir),
		renderer: render.NewRenderer(cfg.Image.Width, cfg.Image.Height, cm, bg),
	}, nil
}

// plotsDir resolves the plots folder and refuses anything that is not
// strictly below the project folder, since Run removes it.
func plotsDir(project, name string) (string, error) {
	dir := filepath.Join(project, name)
	absProject, err := filepath.Abs(project)
	if err != nil {
		return "", err
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absProject, absDir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("plots folder %s is not inside project %s", dir, project)
	}
	return dir, nil
}

func (d *Driver) Dir() string { return d.dir }

// Mask is the fuel-presence mask, available after Run on fire projects.
func (d *Driver) Mask() *mask.Mask { return d.mask }

// Jobs is the plan for the project with the configured plane overrides.
func (d *Driver) Jobs() []Job {
	jobs := Plan(d.project.Flags, d.project.QU, d.project.QF)
	for i := range jobs {
		var override []int
		switch jobs[i].Name {
		case "fuel_dens":
			override = d.cfg.Planes.FuelDensity
		case "fuels_moist":
			override = d.cfg.Planes.Moisture
		}
		if len(override) > 0 {
			jobs[i].Planes = ClipPlanes(override, d.project.QF.Nz)
		}
	}
	return jobs
}

// Run recreates the plots folder and draws every planned job.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	logger := logging.FromContext(ctx)
	logger.Info("Plotting output files", "dir", d.dir)

	if err := os.RemoveAll(d.dir); err != nil {
		return nil, fmt.Errorf("failed to clear plots folder: %w", err)
	}
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create plots folder: %w", err)
	}

	d.result = &Result{}
	if d.project.Flags.Fire() {
		logger.Info("fuel density field")
		if err := d.loadMask(); err != nil {
			return nil, err
		}
		logger.Debug("fuel mask", "fuel", d.mask.FuelCount(), "bare", d.mask.NoFuelCount())
	}

	for _, job := range d.Jobs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Info(job.Label, "name", job.Name, "planes", job.Planes)

		var err error
		switch job.Kind {
		case Series:
			err = d.series(job)
		case Terrain, FuelHeight:
			err = d.surface(job)
		case Ignitions:
			err = d.ignitions(job)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", job.Name, err)
		}
	}
	return d.result, nil
}

func (d *Driver) loadMask() error {
	qf := d.project.QF
	if qf.NTimes() == 0 {
		return fmt.Errorf("fire grid has no output times")
	}
	dens, err := d.loader.LoadStep("fuels-dens-", qf.Times[0], qf, field.Compressed)
	if err != nil {
		return fmt.Errorf("failed to load fuel mask: %w", err)
	}
	d.mask = mask.FromDensity(dens)
	return nil
}

func (d *Driver) grid(job Job) *grid.Grid {
	if job.Domain == Wind {
		return d.project.QU
	}
	return d.project.QF
}

func (d *Driver) surface(job Job) error {
	g := d.grid(job)
	var (
		a   *sparse.DenseArray
		err error
	)
	if job.Kind == Terrain && d.project.Terrain != nil {
		a = d.project.Terrain
	} else if a, err = d.loader.LoadPlane(job.Prefix, g); err != nil {
		return err
	}
	s, err := field.Horizontal(a, 1)
	if err != nil {
		return err
	}
	return d.draw(job.Name+".png", &render.Plot{
		Data:   s,
		Extent: g.HorizontalExtent(),
		Title:  job.Label,
		XLabel: "x [m]",
		YLabel: "y [m]",
	})
}

// ignitions draws the ignition plane over the fuel: 1 ignited, 0 fuel, and
// bare ground as background.
func (d *Driver) ignitions(job Job) error {
	g := d.project.QF
	s := field.NewSlice(g.Nx, g.Ny)
	copy(s.Vals, d.project.Ignition.HorPlane)
	d.mask.Apply(s)
	return d.draw(job.Name+".png", &render.Plot{
		Data:   s,
		Extent: g.HorizontalExtent(),
		Title:  job.Label,
		XLabel: "x [m]",
		YLabel: "y [m]",
		Range:  &[2]float64{0, 1},
	})
}

// track is the output of one plane (or cut) of a series job.
type track struct {
	name   string
	fixed  *[2]float64
	anim   *render.Animation
	stats  SeriesStats
	extent [4]float64
	ylabel string
}

func (d *Driver) newTrack(name string, extent [4]float64, ylabel string) *track {
	t := &track{name: name, extent: extent, ylabel: ylabel, stats: SeriesStats{Name: name}}
	if d.animate {
		t.anim = render.NewAnimation(d.cfg.Animation.Delay)
	}
	return t
}

func (d *Driver) series(job Job) error {
	g := d.grid(job)
	times := g.Times
	if job.Averaged {
		times = g.AveTimes
	}
	if len(times) == 0 {
		return nil
	}
	lg := g
	if job.Planes == nil {
		lg = g.Surface()
	}

	var tracks []*track
	planes := job.Planes
	if planes == nil {
		planes = []int{1}
	}
	for _, p := range planes {
		name := job.Name
		if job.Planes != nil {
			name = fmt.Sprintf("%s_plane_%d", job.Name, p)
		}
		tracks = append(tracks, d.newTrack(name, g.HorizontalExtent(), "y [m]"))
	}
	var vert *track
	midY := g.MidY()
	if job.Vertical {
		z := g.Interior()
		vert = d.newTrack(fmt.Sprintf("%s_vert_yplane_%d", job.Name, midY),
			[4]float64{0, g.Lx(), z[0], z[len(z)-1]}, "z [m]")
	}

	for n, t := range times {
		a, err := d.loader.LoadStep(job.Prefix, t, lg, job.Layout)
		if err != nil {
			return err
		}

		for i, p := range planes {
			s, err := field.Horizontal(a, p)
			if err != nil {
				return err
			}
			tr := tracks[i]
			if job.FixedRange && n == 0 {
				_, hi, _ := render.DataRange(s.Vals)
				tr.fixed = &[2]float64{0, hi}
			}
			if job.Log {
				s.Log10()
			}
			if job.Masked {
				d.mask.Apply(s)
			}
			file := fmt.Sprintf("%s_Time_%d_s", job.Name, t)
			if job.Planes != nil {
				file += fmt.Sprintf("_plane_%d", p)
			}
			if err := d.frame(tr, file, job, t, s); err != nil {
				return err
			}
		}

		if vert != nil {
			s, err := field.VerticalXZ(a, midY)
			if err != nil {
				return err
			}
			file := fmt.Sprintf("%s_vert_Time_%d_s_yplane_%d", job.Name, t, midY)
			if err := d.frame(vert, file, job, t, s); err != nil {
				return err
			}
		}
	}

	if vert != nil {
		tracks = append(tracks, vert)
	}
	for _, tr := range tracks {
		if err := d.finish(tr); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) frame(tr *track, file string, job Job, t int, s *field.Slice) error {
	img, err := d.renderer.Render(&render.Plot{
		Data:   s,
		Extent: tr.extent,
		Title:  fmt.Sprintf("Time = %d s", t),
		Label:  job.Label,
		XLabel: "x [m]",
		YLabel: tr.ylabel,
		Range:  tr.fixed,
	})
	if err != nil {
		return err
	}
	if err := d.write(file+".png", img); err != nil {
		return err
	}
	if tr.anim != nil {
		tr.anim.Add(img)
	}

	st := field.Summarize(s.Vals)
	tr.stats.Times = append(tr.stats.Times, t)
	tr.stats.Min = append(tr.stats.Min, st.Min)
	tr.stats.Max = append(tr.stats.Max, st.Max)
	tr.stats.Mean = append(tr.stats.Mean, st.Mean)
	return nil
}

func (d *Driver) finish(tr *track) error {
	d.result.Series = append(d.result.Series, tr.stats)

	if tr.anim != nil && tr.anim.Len() > 0 {
		name := tr.name + ".gif"
		if err := tr.anim.WriteGIF(filepath.Join(d.dir, name)); err != nil {
			return err
		}
		d.result.Files = append(d.result.Files, name)
		if d.cfg.WantsFormat("avi") {
			name = tr.name + ".avi"
			if err := tr.anim.WriteAVI(filepath.Join(d.dir, name), d.cfg.Animation.FPS); err != nil {
				return err
			}
			d.result.Files = append(d.result.Files, name)
		}
	}

	if d.cfg.Charts && len(tr.stats.Times) > 1 {
		name := tr.name + "_timeseries.png"
		lines := []render.Line{
			{Name: "max", Values: tr.stats.Max},
			{Name: "mean", Values: tr.stats.Mean},
		}
		w, h := max(d.cfg.Image.Width, minChartWidth), max(d.cfg.Image.Height, minChartHeight)
		if err := render.TimeSeries(filepath.Join(d.dir, name), tr.name, tr.stats.Times, lines, w, h); err != nil {
			return err
		}
		d.result.Files = append(d.result.Files, name)
	}
	return nil
}

func (d *Driver) draw(file string, p *render.Plot) error {
	img, err := d.renderer.Render(p)
	if err != nil {
		return err
	}
	return d.write(file, img)
}

func (d *Driver) write(file string, img image.Image) error {
	if err := render.WritePNG(filepath.Join(d.dir, file), img); err != nil {
		return err
	}
	d.result.Files = append(d.result.Files, file)
	return nil
}
