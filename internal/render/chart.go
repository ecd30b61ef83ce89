package render

import (
	"fmt"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Line is one curve of a time-series chart.
type Line struct {
	Name   string
	Values []float64
}

var lineColors = []drawing.Color{
	chart.ColorRed,
	chart.ColorBlue,
	chart.ColorGreen,
	{R: 255, G: 165, B: 0, A: 255},
}

// TimeSeries writes a PNG line chart of lines against times. At least two
// times are needed.
func TimeSeries(path, title string, times []int, lines []Line, width, height int) error {
	if len(times) < 2 {
		return fmt.Errorf("%s: need at least two time steps, got %d", path, len(times))
	}
	xs := make([]float64, len(times))
	for i, t := range times {
		xs[i] = float64(t)
	}

	lo, hi := 0.0, 0.0
	first := true
	series := make([]chart.Series, 0, len(lines))
	for n, l := range lines {
		if len(l.Values) != len(times) {
			return fmt.Errorf("%s: %s has %d values for %d times", path, l.Name, len(l.Values), len(times))
		}
		if vlo, vhi, ok := DataRange(l.Values); ok {
			if first || vlo < lo {
				lo = vlo
			}
			if first || vhi > hi {
				hi = vhi
			}
			first = false
		}
		series = append(series, chart.ContinuousSeries{
			Name:    l.Name,
			XValues: xs,
			YValues: l.Values,
			Style:   chart.Style{StrokeColor: lineColors[n%len(lineColors)], StrokeWidth: 3.0},
		})
	}
	if hi <= lo {
		hi = lo + 1
	}

	graph := chart.Chart{
		Title:  title,
		Width:  width,
		Height: height,
		XAxis: chart.XAxis{
			Name:  "Time [s]",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := graph.Render(chart.PNG, f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
