package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/san-kum/drawfire/internal/plot"
)

func TestSaveLoad(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "Plots"))
	series := []plot.SeriesStats{
		{Name: "fuel_dens_plane_1", Times: []int{0, 10}, Min: []float64{0.5, 0.25}, Max: []float64{2, 1.5}, Mean: []float64{1, 0.75}},
		{Name: "u_qu_plane_2", Times: []int{0}, Min: []float64{-1}, Max: []float64{3}, Mean: []float64{1}},
	}
	m := &Manifest{
		Project:   "/runs/demo",
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Duration:  1.5,
		Outputs:   []string{"fuel_density"},
		GIF:       true,
		Plots:     []string{"fuel_dens_Time_0_s_plane_1.png"},
		FuelCells: 9,
		BareCells: 3,
		Series:    Summarize(series),
	}

	if err := s.Save(m, series); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Errorf("manifest round trip\n got %+v\nwant %+v", got, m)
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatalf("load stats failed: %v", err)
	}
	if !reflect.DeepEqual(stats, series) {
		t.Errorf("stats round trip\n got %+v\nwant %+v", stats, series)
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize([]plot.SeriesStats{
		{Name: "a", Times: []int{0, 1, 2}, Min: []float64{1, -2, 0}, Max: []float64{3, 5, 4}, Mean: []float64{2, 1, 2}},
	})
	want := []Summary{{Name: "a", Steps: 3, Min: -2, Max: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestLoadMissing(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Load(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadStatsMalformed(t *testing.T) {
	dir := t.TempDir()
	body := "series,time,min,max,mean\nx,abc,1,2,3\n"
	if err := os.WriteFile(filepath.Join(dir, StatsFile), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(dir).LoadStats(); err == nil {
		t.Error("expected error for bad time column")
	}
}
