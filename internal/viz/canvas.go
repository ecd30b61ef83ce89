package viz

import (
	"math"
	"strings"

	"github.com/san-kum/drawfire/internal/field"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// ordered dither thresholds, one per braille dot
var bayer = [4][2]float64{
	{0.5 / 8, 4.5 / 8},
	{6.5 / 8, 2.5 / 8},
	{1.5 / 8, 5.5 / 8},
	{7.5 / 8, 3.5 / 8},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set sets a dot at (x, y) in sub-pixel coordinates; the canvas is
// (Width*2) x (Height*4) dots.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Heatmap dithers s onto the canvas: denser dots for larger values, no
// dots for undefined cells. Row 0 of s is drawn at the bottom.
func (c *Canvas) Heatmap(s *field.Slice, lo, hi float64) {
	c.Clear()
	if s == nil || s.W == 0 || s.H == 0 {
		return
	}
	if hi <= lo {
		hi = lo + 1
	}
	w, h := c.Width*2, c.Height*4
	for y := 0; y < h; y++ {
		j := s.H - 1 - y*s.H/h
		for x := 0; x < w; x++ {
			v := s.At(x*s.W/w, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if (v-lo)/(hi-lo) > bayer[y%4][x%2] {
				c.Set(x, y)
			}
		}
	}
}

// Frame outlines the canvas.
func (c *Canvas) Frame() {
	w, h := c.Width*2-1, c.Height*4-1
	c.DrawLine(0, 0, w, 0)
	c.DrawLine(w, 0, w, h)
	c.DrawLine(w, h, 0, h)
	c.DrawLine(0, h, 0, 0)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
