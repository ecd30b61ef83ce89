package field

import (
	"errors"
	"math"
	"testing"

	"github.com/ctessum/sparse"
)

func TestHorizontal(t *testing.T) {
	a := ramp(testGrid())

	s, err := Horizontal(a, 2)
	if err != nil {
		t.Fatalf("slice failed: %v", err)
	}
	if s.W != 4 || s.H != 3 {
		t.Errorf("unexpected size %dx%d", s.W, s.H)
	}
	if s.At(0, 0) != 13 || s.At(3, 2) != 24 {
		t.Errorf("unexpected values %v", s.Vals)
	}

	for _, plane := range []int{0, 3} {
		if _, err := Horizontal(a, plane); err == nil {
			t.Errorf("plane %d: expected error", plane)
		}
	}
}

func TestVerticalXZ(t *testing.T) {
	a := ramp(testGrid())

	s, err := VerticalXZ(a, 1)
	if err != nil {
		t.Fatalf("slice failed: %v", err)
	}
	if s.W != 4 || s.H != 2 {
		t.Errorf("unexpected size %dx%d", s.W, s.H)
	}
	if s.At(0, 0) != 5 || s.At(2, 1) != 19 {
		t.Errorf("unexpected values %v", s.Vals)
	}

	if _, err := VerticalXZ(a, 3); err == nil {
		t.Error("expected error for row outside grid")
	}
}

func TestIntegrate(t *testing.T) {
	a := ramp(testGrid())
	s := Integrate(a)
	if s.At(0, 0) != 1+13 {
		t.Errorf("expected 14, got %v", s.At(0, 0))
	}
}

func TestLog10(t *testing.T) {
	s := &Slice{W: 3, H: 1, Vals: []float64{100, 0, -1}}
	s.Log10()
	if s.Vals[0] != 2 {
		t.Errorf("expected 2, got %v", s.Vals[0])
	}
	if !math.IsNaN(s.Vals[1]) || !math.IsNaN(s.Vals[2]) {
		t.Error("non-positive values should become NaN")
	}
}

func TestSpeed(t *testing.T) {
	u := sparse.ZerosDense(1, 1, 2)
	v := sparse.ZerosDense(1, 1, 2)
	w := sparse.ZerosDense(1, 1, 2)
	u.Elements[0], v.Elements[0] = 3, 4
	u.Elements[1], v.Elements[1], w.Elements[1] = 1, 2, 2

	speed, err := Speed(u, v, w)
	if err != nil {
		t.Fatalf("speed failed: %v", err)
	}
	if speed.Elements[0] != 5 || speed.Elements[1] != 3 {
		t.Errorf("unexpected speed %v", speed.Elements)
	}

	if _, err := Speed(u, v, sparse.ZerosDense(2, 1, 2)); !errors.Is(err, ErrShape) {
		t.Errorf("expected ErrShape, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	st := Summarize([]float64{1, math.NaN(), 3, math.Inf(1), 5})
	if st.Min != 1 || st.Max != 5 || st.Mean != 3 || st.Count != 3 {
		t.Errorf("unexpected stats %+v", st)
	}

	if st := Summarize([]float64{math.NaN()}); st.Count != 0 {
		t.Errorf("expected empty stats, got %+v", st)
	}
}
