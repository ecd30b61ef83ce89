package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/drawfire/internal/config"
	"github.com/san-kum/drawfire/internal/field"
	"github.com/san-kum/drawfire/internal/inputs"
	"github.com/san-kum/drawfire/internal/plot"
	"github.com/san-kum/drawfire/internal/storage"
	"github.com/san-kum/drawfire/internal/viz"
)

// openSeries imports the project and finds the series job for name, with
// the plane to cut.
func openSeries(ctx context.Context, cfg *config.Config, project, name string) (*plot.Driver, plot.Job, int, error) {
	p, err := inputs.Import(ctx, project)
	if err != nil {
		return nil, plot.Job{}, 0, err
	}
	d, err := plot.NewDriver(p, cfg, false)
	if err != nil {
		return nil, plot.Job{}, 0, err
	}
	job, err := d.Find(name)
	if err != nil {
		return nil, plot.Job{}, 0, err
	}
	k := plane
	if k == 0 && len(job.Planes) > 0 {
		k = job.Planes[0]
	}
	return d, job, max(k, 1), nil
}

func seriesTitle(job plot.Job, k int) string {
	if job.Planes == nil {
		return job.Label
	}
	return fmt.Sprintf("%s, plane %d", job.Label, k)
}

func summarize(cmd *cobra.Command, args []string) error {
	ctx, cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	d, job, k, err := openSeries(ctx, cfg, args[0], args[1])
	if err != nil {
		return err
	}
	times := d.Times(job)
	if len(times) == 0 {
		return fmt.Errorf("%s has no output times", job.Name)
	}

	stats := make([]field.Stats, len(times))
	maxes := make([]float64, len(times))
	for n, t := range times {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, err := d.Slice(job, k, t)
		if err != nil {
			return err
		}
		stats[n] = field.Summarize(s.Vals)
		maxes[n] = stats[n].Max
		if stats[n].Count == 0 {
			maxes[n] = math.NaN()
		}
	}

	fmt.Println(viz.HeaderStyle.Render(seriesTitle(job, k)))
	fmt.Println()
	if len(times) > 1 {
		graph := asciigraph.Plot(maxes,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("max per step, t = %d..%d s", times[0], times[len(times)-1])),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tMIN\tMAX\tMEAN\tCELLS")
	for n, t := range times {
		st := stats[n]
		fmt.Fprintf(w, "%d\t%.4g\t%.4g\t%.4g\t%d\n", t, st.Min, st.Max, st.Mean, st.Count)
	}
	return w.Flush()
}

func inspect(cmd *cobra.Command, args []string) error {
	ctx, cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	d, job, k, err := openSeries(ctx, cfg, args[0], args[1])
	if err != nil {
		return err
	}
	times := d.Times(job)
	in := viz.NewInspector(seriesTitle(job, k), times, func(n int) (*field.Slice, error) {
		return d.Slice(job, k, times[n])
	})
	in.SetTheme(viz.GetTheme(theme))
	return viz.RunInspector(in)
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "drawfire.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	cfg := config.GetPreset(preset)
	if cfg == nil {
		return fmt.Errorf("unknown preset %q, available: %v", preset, config.ListPresets())
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s preset to %s\n", preset, path)
	return nil
}

func showManifest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := storage.New(filepath.Join(args[0], cfg.PlotsDir))
	m, err := st.Load()
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	label := lipgloss.NewStyle().Width(10).Inherit(viz.MetricLabel)
	row := func(name, value string) {
		fmt.Println(label.Render(name) + viz.MetricValue.Render(value))
	}
	fmt.Println(viz.HeaderStyle.Render("drawfire run"))
	row("project", m.Project)
	row("time", m.Timestamp.Format("2006-01-02 15:04:05"))
	row("duration", fmt.Sprintf("%.2fs", m.Duration))
	row("outputs", fmt.Sprint(m.Outputs))
	row("plots", fmt.Sprint(len(m.Plots)))
	row("vtk", fmt.Sprint(len(m.VTKFiles)))
	row("netcdf", fmt.Sprint(len(m.NetCDF)))
	if m.FuelCells+m.BareCells > 0 {
		row("fuel", fmt.Sprintf("%d cells, %d bare", m.FuelCells, m.BareCells))
	}
	fmt.Println(viz.Separator(60))

	if len(m.Series) == 0 {
		fmt.Println("no series recorded")
		return nil
	}

	stats, err := st.LoadStats()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	maxes := map[string][]float64{}
	for _, s := range stats {
		maxes[s.Name] = s.Max
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tSTEPS\tMIN\tMAX\tTREND")
	for _, s := range m.Series {
		fmt.Fprintf(w, "%s\t%d\t%.4g\t%.4g\t%s\n", s.Name, s.Steps, s.Min, s.Max, viz.SparklineChart(maxes[s.Name], 20))
	}
	return w.Flush()
}
