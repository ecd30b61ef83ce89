package grid

import "math"

type IgnitionKind int

const (
	IgnitionRectangle IgnitionKind = iota + 1
	IgnitionSquareRing
	IgnitionCircleRing
	IgnitionFile
)

func (k IgnitionKind) String() string {
	switch k {
	case IgnitionRectangle:
		return "rectangle"
	case IgnitionSquareRing:
		return "square ring"
	case IgnitionCircleRing:
		return "circle ring"
	case IgnitionFile:
		return "file"
	}
	return "unknown"
}

// Ignition describes where the fire starts. Params are in metres:
// rectangle and square ring use x0, y0, lenx, leny (and ring width for the
// ring), the circle ring uses xc, yc, radius, ring width. Cells holds the
// 1-based (i, j, k) cells of a file ignition.
type Ignition struct {
	Kind     IgnitionKind
	Params   []float64
	Cells    [][3]int
	HorPlane []float64
}

// Rasterize fills HorPlane (ny*nx, x fastest) with 1 where the ignition
// pattern covers the centre of a cell.
func (ig *Ignition) Rasterize(g *Grid) {
	plane := make([]float64, g.PlaneSize())
	if ig.Kind == IgnitionFile {
		for _, c := range ig.Cells {
			i, j := c[0]-1, c[1]-1
			if i >= 0 && i < g.Nx && j >= 0 && j < g.Ny {
				plane[j*g.Nx+i] = 1
			}
		}
		ig.HorPlane = plane
		return
	}

	p := func(n int) float64 {
		if n < len(ig.Params) {
			return ig.Params[n]
		}
		return 0
	}

	for j := 0; j < g.Ny; j++ {
		y := (float64(j) + 0.5) * g.Dy
		for i := 0; i < g.Nx; i++ {
			x := (float64(i) + 0.5) * g.Dx
			if ig.covers(x, y, p) {
				plane[j*g.Nx+i] = 1
			}
		}
	}
	ig.HorPlane = plane
}

func (ig *Ignition) covers(x, y float64, p func(int) float64) bool {
	switch ig.Kind {
	case IgnitionRectangle:
		return inside(x, y, p(0), p(1), p(2), p(3))
	case IgnitionSquareRing:
		w := p(4)
		if !inside(x, y, p(0), p(1), p(2), p(3)) {
			return false
		}
		return !inside(x, y, p(0)+w, p(1)+w, p(2)-2*w, p(3)-2*w)
	case IgnitionCircleRing:
		r := math.Hypot(x-p(0), y-p(1))
		return r <= p(2) && r >= p(2)-p(3)
	}
	return false
}

func inside(x, y, x0, y0, lx, ly float64) bool {
	if lx <= 0 || ly <= 0 {
		return false
	}
	return x >= x0 && x <= x0+lx && y >= y0 && y <= y0+ly
}

// Count returns the number of ignited horizontal cells.
func (ig *Ignition) Count() int {
	n := 0
	for _, v := range ig.HorPlane {
		if v > 0 {
			n++
		}
	}
	return n
}
