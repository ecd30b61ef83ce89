package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"os"

	"github.com/icza/mjpeg"
)

// Animation collects the frames of one plotted series. Frames are
// quantized to the Plan9 palette as they are added.
type Animation struct {
	Delay  int
	frames []*image.Paletted
}

// NewAnimation returns an animation showing each frame for delay
// hundredths of a second.
func NewAnimation(delay int) *Animation {
	return &Animation{Delay: delay}
}

func (a *Animation) Len() int { return len(a.frames) }

func (a *Animation) Add(img image.Image) {
	b := img.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(p, b, img, b.Min)
	a.frames = append(a.frames, p)
}

func (a *Animation) WriteGIF(path string) error {
	if len(a.frames) == 0 {
		return fmt.Errorf("%s: no frames", path)
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range a.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, a.Delay)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &anim); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// WriteAVI writes the frames as a Motion-JPEG AVI at fps frames per second.
func (a *Animation) WriteAVI(path string, fps int) error {
	if len(a.frames) == 0 {
		return fmt.Errorf("%s: no frames", path)
	}
	b := a.frames[0].Bounds()
	aw, err := mjpeg.New(path, int32(b.Dx()), int32(b.Dy()), int32(fps))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	var buf bytes.Buffer
	opts := &jpeg.Options{Quality: 90}
	for n, frame := range a.frames {
		buf.Reset()
		if err := jpeg.Encode(&buf, frame, opts); err != nil {
			aw.Close()
			return fmt.Errorf("%s: frame %d: %w", path, n, err)
		}
		if err := aw.AddFrame(buf.Bytes()); err != nil {
			aw.Close()
			return fmt.Errorf("%s: frame %d: %w", path, n, err)
		}
	}
	return aw.Close()
}
