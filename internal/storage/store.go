package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/drawfire/internal/plot"
)

const (
	ManifestFile = "manifest.json"
	StatsFile    = "stats.csv"
)

// Store keeps the record of a post-processing run next to its plots.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

type Manifest struct {
	Project   string    `json:"project"`
	Timestamp time.Time `json:"timestamp"`
	Duration  float64   `json:"duration_s"`
	Outputs   []string  `json:"outputs"`
	VTK       bool      `json:"vtk"`
	GIF       bool      `json:"gif"`
	Plots     []string  `json:"plots"`
	VTKFiles  []string  `json:"vtk_files,omitempty"`
	NetCDF    []string  `json:"netcdf_files,omitempty"`
	FuelCells int       `json:"fuel_cells"`
	BareCells int       `json:"bare_cells"`
	Series    []Summary `json:"series"`
}

// Summary is the range of one plotted series over all its steps.
type Summary struct {
	Name  string  `json:"name"`
	Steps int     `json:"steps"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Summarize collapses per-step statistics into one range per series.
func Summarize(series []plot.SeriesStats) []Summary {
	out := make([]Summary, 0, len(series))
	for _, st := range series {
		sum := Summary{Name: st.Name, Steps: len(st.Times)}
		for i := range st.Times {
			if i == 0 || st.Min[i] < sum.Min {
				sum.Min = st.Min[i]
			}
			if i == 0 || st.Max[i] > sum.Max {
				sum.Max = st.Max[i]
			}
		}
		out = append(out, sum)
	}
	return out
}

// Save writes the manifest and the per-step statistics of every series.
func (s *Store) Save(m *Manifest, series []plot.SeriesStats) error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return err
	}

	metaFile, err := os.Create(filepath.Join(s.baseDir, ManifestFile))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(s.baseDir, StatsFile))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"series", "time", "min", "max", "mean"}); err != nil {
		return err
	}
	format := func(v float64) string { return strconv.FormatFloat(v, 'g', 8, 64) }
	for _, st := range series {
		for i, t := range st.Times {
			row := []string{st.Name, strconv.Itoa(t), format(st.Min[i]), format(st.Max[i]), format(st.Mean[i])}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func (s *Store) Load() (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, ManifestFile))
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", ManifestFile, err)
	}
	return &m, nil
}

// LoadStats reads the statistics back, series in file order.
func (s *Store) LoadStats() ([]plot.SeriesStats, error) {
	path := filepath.Join(s.baseDir, StatsFile)
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(records) < 2 {
		return []plot.SeriesStats{}, nil
	}

	var out []plot.SeriesStats
	index := map[string]int{}
	for n, rec := range records[1:] {
		if len(rec) != 5 {
			return nil, fmt.Errorf("%s:%d: expected 5 columns, got %d", path, n+2, len(rec))
		}
		t, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, n+2, err)
		}
		var vals [3]float64
		for c := range vals {
			if vals[c], err = strconv.ParseFloat(rec[2+c], 64); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, n+2, err)
			}
		}

		i, ok := index[rec[0]]
		if !ok {
			i = len(out)
			index[rec[0]] = i
			out = append(out, plot.SeriesStats{Name: rec[0]})
		}
		st := &out[i]
		st.Times = append(st.Times, t)
		st.Min = append(st.Min, vals[0])
		st.Max = append(st.Max, vals[1])
		st.Mean = append(st.Mean, vals[2])
	}
	return out, nil
}
