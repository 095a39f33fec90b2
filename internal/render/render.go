// Package render rasterizes flat cells into RGBA previews: filled
// layer rectangles alpha-composited in stack order, pin labels as
// text, and optional violation markers on top.
package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"analog-macros/internal/cell"
	"analog-macros/internal/tech"
	"analog-macros/pkg/colorutil"
	"analog-macros/pkg/geometry"
)

// Options configures rasterization.
type Options struct {
	// Scale is pixels per µm.
	Scale float64
	// Background fills the canvas before any layer is drawn.
	Background color.RGBA
	// Markers are drawn as outlines on top of everything, typically
	// DRC violations.
	Markers []geometry.Rect
}

// DefaultOptions renders at 10 px/µm on a dark background.
func DefaultOptions() Options {
	return Options{
		Scale:      10,
		Background: color.RGBA{40, 40, 40, 255},
	}
}

// layerStyle is one entry of the drawing stack. Order matters: wells
// and implants at the bottom, the metal stack on top.
type layerStyle struct {
	layer tech.Layer
	fill  color.RGBA
}

var stack = []layerStyle{
	{tech.NWell, color.RGBA{90, 90, 40, 80}},
	{tech.PWell, color.RGBA{60, 80, 60, 80}},
	{tech.Activ, color.RGBA{60, 180, 60, 140}},
	{tech.NSD, color.RGBA{120, 120, 40, 60}},
	{tech.PSD, color.RGBA{150, 90, 40, 60}},
	{tech.GatPoly, color.RGBA{220, 60, 60, 160}},
	{tech.SalBlock, color.RGBA{180, 180, 180, 70}},
	{tech.Cont, color.RGBA{30, 30, 30, 220}},
	{tech.Metal1, color.RGBA{70, 110, 240, 150}},
	{tech.Via1, color.RGBA{230, 230, 230, 200}},
	{tech.Metal2, color.RGBA{220, 80, 220, 140}},
	{tech.Via2, color.RGBA{230, 230, 230, 200}},
	{tech.Metal3, color.RGBA{80, 210, 210, 130}},
	{tech.Metal5, color.RGBA{240, 160, 60, 120}},
	{tech.Cmim, color.RGBA{160, 60, 240, 150}},
	{tech.TopMetal1, color.RGBA{240, 220, 80, 110}},
	{tech.Metal1Pin, color.RGBA{70, 110, 240, 60}},
	{tech.Metal2Pin, color.RGBA{220, 80, 220, 60}},
	{tech.Metal3Pin, color.RGBA{80, 210, 210, 60}},
}

// Image rasterizes the cell. The image covers the cell bounds plus a
// small margin; GDS Y points up, so the image is flipped vertically.
func Image(c *cell.Cell, opt Options) (*image.RGBA, error) {
	if opt.Scale <= 0 {
		return nil, errors.Errorf("render: scale must be positive, got %g", opt.Scale)
	}
	b := c.Bounds()
	if b.IsEmpty() {
		return nil, errors.Errorf("render: cell %s has no shapes", c.Name)
	}

	const margin = 8
	pxPerDBU := opt.Scale * geometry.GridUM
	w := int(math.Ceil(float64(b.Width())*pxPerDBU)) + 2*margin
	h := int(math.Ceil(float64(b.Height())*pxPerDBU)) + 2*margin

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		switch i % 4 {
		case 0:
			img.Pix[i] = opt.Background.R
		case 1:
			img.Pix[i] = opt.Background.G
		case 2:
			img.Pix[i] = opt.Background.B
		case 3:
			img.Pix[i] = opt.Background.A
		}
	}

	px := func(x int64) int {
		return margin + int(math.Round(float64(x-b.X1)*pxPerDBU))
	}
	py := func(y int64) int {
		return h - margin - int(math.Round(float64(y-b.Y1)*pxPerDBU))
	}

	for _, s := range stack {
		for _, r := range c.Shapes(s.layer) {
			fillRect(img, px(r.X1), py(r.Y2), px(r.X2), py(r.Y1), s.fill)
		}
	}

	// PR boundary as a thin outline.
	for _, r := range c.Shapes(tech.Boundary) {
		drawRect(img, px(r.X1), py(r.Y2), px(r.X2), py(r.Y1), colorutil.White)
	}

	// Bright inner outline with a darker halo so markers read against
	// both light and dark fills.
	halo := colorutil.Darken(colorutil.Yellow, 0.35)
	for _, m := range opt.Markers {
		drawRect(img, px(m.X1), py(m.Y2), px(m.X2), py(m.Y1), colorutil.Yellow)
		drawRect(img, px(m.X1)-1, py(m.Y2)-1, px(m.X2)+1, py(m.Y1)+1, halo)
	}

	face := basicfont.Face7x13
	for _, l := range c.Labels() {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(colorutil.White),
			Face: face,
			Dot:  fixed.P(px(l.At.X), py(l.At.Y)),
		}
		// Center the string on the label anchor.
		d.Dot.X -= d.MeasureString(l.Text) / 2
		d.DrawString(l.Text)
	}

	return img, nil
}

// PNG rasterizes the cell and encodes it.
func PNG(w io.Writer, c *cell.Cell, opt Options) error {
	img, err := Image(c, opt)
	if err != nil {
		return err
	}
	return errors.Wrap(png.Encode(w, img), "render: encode png")
}

// fillRect alpha-blends a filled rectangle, clipped to the image.
func fillRect(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	bounds := img.Bounds()
	x1 = max(x1, bounds.Min.X)
	y1 = max(y1, bounds.Min.Y)
	x2 = min(x2, bounds.Max.X)
	y2 = min(y2, bounds.Max.Y)
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			img.SetRGBA(x, y, colorutil.Over(img.RGBAAt(x, y), c))
		}
	}
}

// drawRect draws a one pixel rectangle outline, clipped to the image.
func drawRect(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	bounds := img.Bounds()
	set := func(x, y int) {
		if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			img.SetRGBA(x, y, c)
		}
	}
	for x := x1; x <= x2; x++ {
		set(x, y1)
		set(x, y2)
	}
	for y := y1; y <= y2; y++ {
		set(x1, y)
		set(x2, y)
	}
}
