// Package render draws 2D field slices as colour-mapped PNG images and
// assembles them into animations and time-series charts.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/drawfire/internal/field"
)

const (
	marginLeft   = 64
	marginRight  = 96
	marginTop    = 32
	marginBottom = 44
	barWidth     = 16
	barGap       = 16
	barTicks     = 5
	glyphW       = 7
	glyphH       = 13
)

// MinWidth and MinHeight are the smallest images that still leave a
// 32x32 plot area inside the margins.
const (
	MinWidth  = marginLeft + marginRight + 32
	MinHeight = marginTop + marginBottom + 32
)

var (
	ink   = color.RGBA{0, 0, 0, 255}
	frame = color.RGBA{64, 64, 64, 255}
)

// Plot is one image: a slice, its physical extent and its annotations.
// Range fixes the colour scale; nil auto-ranges over the finite values.
type Plot struct {
	Data   *field.Slice
	Extent [4]float64
	Title  string
	Label  string
	XLabel string
	YLabel string
	Range  *[2]float64
}

type Renderer struct {
	Width, Height int
	Colormap      *Colormap
	Background    color.RGBA
}

func NewRenderer(width, height int, cm *Colormap, bg color.RGBA) *Renderer {
	return &Renderer{Width: width, Height: height, Colormap: cm, Background: bg}
}

// DataRange returns the min and max of the finite values; ok is false when
// there are none.
func DataRange(vals []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	return lo, hi, ok
}

func (r *Renderer) scale(p *Plot) (lo, hi float64) {
	if p.Range != nil {
		lo, hi = p.Range[0], p.Range[1]
	} else {
		var ok bool
		if lo, hi, ok = DataRange(p.Data.Vals); !ok {
			lo, hi = 0, 1
		}
	}
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

func (r *Renderer) Render(p *Plot) (*image.RGBA, error) {
	if p.Data == nil || p.Data.W == 0 || p.Data.H == 0 {
		return nil, errors.New("render: empty slice")
	}
	if r.Width < MinWidth || r.Height < MinHeight {
		return nil, fmt.Errorf("render: %dx%d image is below the %dx%d minimum", r.Width, r.Height, MinWidth, MinHeight)
	}
	area := image.Rect(marginLeft, marginTop, r.Width-marginRight, r.Height-marginBottom)

	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	lo, hi := r.scale(p)
	w, h := area.Dx(), area.Dy()
	for py := 0; py < h; py++ {
		// row 0 of the slice is drawn at the bottom
		j := p.Data.H - 1 - py*p.Data.H/h
		for px := 0; px < w; px++ {
			i := px * p.Data.W / w
			v := p.Data.At(i, j)
			c := r.Background
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				c = r.Colormap.At((v - lo) / (hi - lo))
			}
			img.SetRGBA(area.Min.X+px, area.Min.Y+py, c)
		}
	}
	outline(img, area, frame)

	r.colorbar(img, area, lo, hi)

	drawText(img, marginLeft, marginTop-12, p.Title)
	if p.Label != "" {
		drawText(img, r.Width-8-len(p.Label)*glyphW, marginTop-12, p.Label)
	}

	xlo, xhi := tick(p.Extent[0]), tick(p.Extent[1])
	drawText(img, area.Min.X, area.Max.Y+glyphH+2, xlo)
	drawText(img, area.Max.X-len(xhi)*glyphW, area.Max.Y+glyphH+2, xhi)
	drawText(img, area.Min.X+(w-len(p.XLabel)*glyphW)/2, area.Max.Y+2*glyphH+6, p.XLabel)

	ylo, yhi := tick(p.Extent[2]), tick(p.Extent[3])
	drawText(img, area.Min.X-4-len(ylo)*glyphW, area.Max.Y, ylo)
	drawText(img, area.Min.X-4-len(yhi)*glyphW, area.Min.Y+glyphH, yhi)
	drawText(img, 4, area.Min.Y+h/2, p.YLabel)

	return img, nil
}

func (r *Renderer) colorbar(img *image.RGBA, area image.Rectangle, lo, hi float64) {
	bar := image.Rect(area.Max.X+barGap, area.Min.Y, area.Max.X+barGap+barWidth, area.Max.Y)
	h := bar.Dy()
	for py := 0; py < h; py++ {
		c := r.Colormap.At(1 - float64(py)/float64(max(h-1, 1)))
		for px := bar.Min.X; px < bar.Max.X; px++ {
			img.SetRGBA(px, bar.Min.Y+py, c)
		}
	}
	outline(img, bar, frame)

	for n := 0; n < barTicks; n++ {
		f := float64(n) / float64(barTicks-1)
		y := bar.Max.Y - int(f*float64(h-1))
		drawText(img, bar.Max.X+4, y+glyphH/2-2, tick(lo+f*(hi-lo)))
	}
}

func outline(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for x := r.Min.X - 1; x <= r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y-1, c)
		img.SetRGBA(x, r.Max.Y, c)
	}
	for y := r.Min.Y - 1; y <= r.Max.Y; y++ {
		img.SetRGBA(r.Min.X-1, y, c)
		img.SetRGBA(r.Max.X, y, c)
	}
}

func drawText(img *image.RGBA, x, y int, s string) {
	if s == "" {
		return
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(s)
}

func tick(v float64) string {
	return fmt.Sprintf("%.3g", v)
}

func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
