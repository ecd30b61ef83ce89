package render

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Colormap maps [0, 1] onto evenly spaced colour stops.
type Colormap struct {
	Name  string
	stops []color.RGBA
}

func hexStops(hexes ...string) []color.RGBA {
	stops := make([]color.RGBA, len(hexes))
	for i, h := range hexes {
		c, err := ParseColor(h)
		if err != nil {
			panic(err)
		}
		stops[i] = c
	}
	return stops
}

var colormaps = map[string]*Colormap{
	"viridis": {Name: "viridis", stops: hexStops(
		"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
		"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725")},
	"inferno": {Name: "inferno", stops: hexStops(
		"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60",
		"#cf4446", "#ed6925", "#fb9b06", "#f7d13d", "#fcffa4")},
	"jet": {Name: "jet", stops: hexStops(
		"#00007f", "#0000ff", "#007fff", "#00ffff", "#7fff7f",
		"#ffff00", "#ff7f00", "#ff0000", "#7f0000")},
	"gray": {Name: "gray", stops: hexStops("#000000", "#ffffff")},
}

func GetColormap(name string) (*Colormap, error) {
	cm, ok := colormaps[name]
	if !ok {
		return nil, fmt.Errorf("unknown colormap %q (available: %s)", name, strings.Join(ListColormaps(), ", "))
	}
	return cm, nil
}

func ListColormaps() []string {
	names := make([]string, 0, len(colormaps))
	for name := range colormaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// At interpolates the colour at t, clamped to [0, 1].
func (c *Colormap) At(t float64) color.RGBA {
	if math.IsNaN(t) || t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	pos := t * float64(len(c.stops)-1)
	i := int(pos)
	if i >= len(c.stops)-1 {
		return c.stops[len(c.stops)-1]
	}
	f := pos - float64(i)
	a, b := c.stops[i], c.stops[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + f*(float64(y)-float64(x))))
	}
	return color.RGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 255}
}

// ParseColor parses "#rrggbb".
func ParseColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: expected #rrggbb", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, nil
}
