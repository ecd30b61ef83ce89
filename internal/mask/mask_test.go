package mask

import (
	"math"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/san-kum/drawfire/internal/field"
)

func TestFromDensity(t *testing.T) {
	// 3x2 horizontal, 2 layers. Fuel only aloft in (1,0), on the ground in
	// (0,1) and (2,1).
	d := sparse.ZerosDense(2, 2, 3)
	d.Set(0.4, 1, 0, 1)
	d.Set(0.7, 0, 1, 0)
	d.Set(0.1, 0, 1, 2)

	m := FromDensity(d)
	s := field.NewSlice(3, 2)
	for n := range s.Vals {
		s.Vals[n] = 1
	}
	m.Apply(s)

	tests := []struct {
		i, j int
		fuel bool
	}{
		{0, 0, false},
		{1, 0, true},
		{2, 0, false},
		{0, 1, true},
		{1, 1, false},
		{2, 1, true},
	}
	for _, tt := range tests {
		if got := !math.IsNaN(s.At(tt.i, tt.j)); got != tt.fuel {
			t.Errorf("cell (%d,%d): expected fuel=%v, got %v", tt.i, tt.j, tt.fuel, got)
		}
	}

	if m.FuelCount() != 3 || m.NoFuelCount() != 3 {
		t.Errorf("expected 3/3 partition, got %d/%d", m.FuelCount(), m.NoFuelCount())
	}
	if m.FuelCount()+m.NoFuelCount() != 6 {
		t.Error("partition must cover every cell")
	}

}

func TestAllBare(t *testing.T) {
	m := FromDensity(sparse.ZerosDense(1, 2, 2))
	if m.FuelCount() != 0 || m.NoFuelCount() != 4 {
		t.Errorf("expected all bare, got %d fuel", m.FuelCount())
	}
}

func TestApply(t *testing.T) {
	m := FromIntegrated(&field.Slice{W: 2, H: 1, Vals: []float64{1, 0}})

	s := &field.Slice{W: 2, H: 1, Vals: []float64{5, 6}}
	m.Apply(s)
	if s.Vals[0] != 5 || !math.IsNaN(s.Vals[1]) {
		t.Errorf("unexpected masked values %v", s.Vals)
	}

	other := &field.Slice{W: 3, H: 1, Vals: []float64{1, 2, 3}}
	m.Apply(other)
	for _, v := range other.Vals {
		if math.IsNaN(v) {
			t.Error("mismatched slice should be left untouched")
		}
	}

	var none *Mask
	none.Apply(s)
}
