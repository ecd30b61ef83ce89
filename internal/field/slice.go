package field

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
)

// Slice is a 2D cut through a field, row-major with row 0 at the lowest y
// (horizontal cuts) or lowest z (vertical cuts).
type Slice struct {
	W, H int
	Vals []float64
}

func NewSlice(w, h int) *Slice {
	return &Slice{W: w, H: h, Vals: make([]float64, w*h)}
}

func (s *Slice) At(x, y int) float64 { return s.Vals[y*s.W+x] }

func (s *Slice) Set(x, y int, v float64) { s.Vals[y*s.W+x] = v }

// Log10 replaces every value with its base-10 logarithm; non-positive
// values become NaN and are drawn as background.
func (s *Slice) Log10() {
	for i, v := range s.Vals {
		if v > 0 {
			s.Vals[i] = math.Log10(v)
		} else {
			s.Vals[i] = math.NaN()
		}
	}
}

// Horizontal cuts the xy plane at the 1-based vertical index plane.
func Horizontal(a *sparse.DenseArray, plane int) (*Slice, error) {
	nz, ny, nx := a.Shape[0], a.Shape[1], a.Shape[2]
	if plane < 1 || plane > nz {
		return nil, fmt.Errorf("plane %d outside 1..%d", plane, nz)
	}
	s := NewSlice(nx, ny)
	off := (plane - 1) * nx * ny
	copy(s.Vals, a.Elements[off:off+nx*ny])
	return s, nil
}

// VerticalXZ cuts the xz plane at the 0-based row j.
func VerticalXZ(a *sparse.DenseArray, j int) (*Slice, error) {
	nz, ny, nx := a.Shape[0], a.Shape[1], a.Shape[2]
	if j < 0 || j >= ny {
		return nil, fmt.Errorf("row %d outside 0..%d", j, ny-1)
	}
	s := NewSlice(nx, nz)
	for k := 0; k < nz; k++ {
		for i := 0; i < nx; i++ {
			s.Set(i, k, a.Get(k, j, i))
		}
	}
	return s, nil
}

// Integrate sums a over the vertical.
func Integrate(a *sparse.DenseArray) *Slice {
	nz, ny, nx := a.Shape[0], a.Shape[1], a.Shape[2]
	s := NewSlice(nx, ny)
	for k := 0; k < nz; k++ {
		off := k * nx * ny
		for n := 0; n < nx*ny; n++ {
			s.Vals[n] += a.Elements[off+n]
		}
	}
	return s
}
