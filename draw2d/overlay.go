// Package draw2d provides an immediate-mode 2D overlay for HUD and debug
// drawing. Drawing happens CPU-side into an RGBA pixel buffer which is
// uploaded to a texture and composited over the rendered frame inside the
// engine's UI pass.
package draw2d

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/xandwr/hoplite"
)

// Overlay is a CPU pixel buffer for 2D drawing, RGBA with 4 bytes per
// pixel. Coordinates are in pixels with the origin at the top left; draws
// outside the buffer are clipped.
//
// Overlay implements draw.Image so text rendering and image composition
// from the standard library work against it directly.
type Overlay struct {
	width  int
	height int
	data   []uint8
}

// NewOverlay creates a transparent overlay with the given dimensions.
func NewOverlay(width, height int) *Overlay {
	return &Overlay{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the overlay width in pixels.
func (o *Overlay) Width() int { return o.width }

// Height returns the overlay height in pixels.
func (o *Overlay) Height() int { return o.height }

// Data returns the raw RGBA pixel data.
func (o *Overlay) Data() []uint8 { return o.data }

// Resize reallocates the buffer for new dimensions, discarding contents.
// A no-op when the size already matches.
func (o *Overlay) Resize(width, height int) {
	if o.width == width && o.height == height {
		return
	}
	o.width = width
	o.height = height
	o.data = make([]uint8, width*height*4)
}

// Clear fills the whole overlay with a color. Clear with
// hoplite.Transparent at the start of each frame.
func (o *Overlay) Clear(c hoplite.Color) {
	r, g, b, a := colorBytes(c)
	for i := 0; i < len(o.data); i += 4 {
		o.data[i+0] = r
		o.data[i+1] = g
		o.data[i+2] = b
		o.data[i+3] = a
	}
}

// SetPixel sets one pixel. Out-of-bounds coordinates are ignored.
func (o *Overlay) SetPixel(x, y int, c hoplite.Color) {
	if x < 0 || x >= o.width || y < 0 || y >= o.height {
		return
	}
	i := (y*o.width + x) * 4
	o.data[i+0], o.data[i+1], o.data[i+2], o.data[i+3] = colorBytes(c)
}

// PixelAt returns the color of one pixel. Out-of-bounds coordinates return
// transparent black.
func (o *Overlay) PixelAt(x, y int) hoplite.Color {
	if x < 0 || x >= o.width || y < 0 || y >= o.height {
		return hoplite.Color{}
	}
	i := (y*o.width + x) * 4
	return hoplite.Color{
		R: float32(o.data[i+0]) / 255,
		G: float32(o.data[i+1]) / 255,
		B: float32(o.data[i+2]) / 255,
		A: float32(o.data[i+3]) / 255,
	}
}

// FillRect fills a rectangle. The rectangle is clipped to the overlay.
func (o *Overlay) FillRect(x, y, w, h int, c hoplite.Color) {
	x0, y0, x1, y1 := clipRect(x, y, w, h, o.width, o.height)
	r, g, b, a := colorBytes(c)
	for py := y0; py < y1; py++ {
		i := (py*o.width + x0) * 4
		for px := x0; px < x1; px++ {
			o.data[i+0] = r
			o.data[i+1] = g
			o.data[i+2] = b
			o.data[i+3] = a
			i += 4
		}
	}
}

// StrokeRect draws a one-pixel rectangle outline.
func (o *Overlay) StrokeRect(x, y, w, h int, c hoplite.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	o.FillRect(x, y, w, 1, c)
	o.FillRect(x, y+h-1, w, 1, c)
	o.FillRect(x, y, 1, h, c)
	o.FillRect(x+w-1, y, 1, h, c)
}

// Line draws a one-pixel line between two points with Bresenham's
// algorithm.
func (o *Overlay) Line(x0, y0, x1, y1 int, c hoplite.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		o.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Text draws a string with the built-in 7x13 bitmap font. (x, y) is the
// top-left corner of the first glyph.
func (o *Overlay) Text(x, y int, s string, c hoplite.Color) {
	d := font.Drawer{
		Dst:  o,
		Src:  image.NewUniform(c.NRGBA()),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y+basicfont.Face7x13.Ascent),
	}
	d.DrawString(s)
}

// TextWidth returns the pixel width of a string in the built-in font.
func TextWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

// ColorModel implements image.Image.
func (o *Overlay) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (o *Overlay) Bounds() image.Rectangle {
	return image.Rect(0, 0, o.width, o.height)
}

// At implements image.Image.
func (o *Overlay) At(x, y int) color.Color {
	if x < 0 || x >= o.width || y < 0 || y >= o.height {
		return color.NRGBA{}
	}
	i := (y*o.width + x) * 4
	return color.NRGBA{R: o.data[i+0], G: o.data[i+1], B: o.data[i+2], A: o.data[i+3]}
}

// Set implements draw.Image.
func (o *Overlay) Set(x, y int, c color.Color) {
	if x < 0 || x >= o.width || y < 0 || y >= o.height {
		return
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	i := (y*o.width + x) * 4
	o.data[i+0] = n.R
	o.data[i+1] = n.G
	o.data[i+2] = n.B
	o.data[i+3] = n.A
}

var _ draw.Image = (*Overlay)(nil)

func colorBytes(c hoplite.Color) (r, g, b, a uint8) {
	return clamp255(c.R), clamp255(c.G), clamp255(c.B), clamp255(c.A)
}

func clamp255(v float32) uint8 {
	s := v * 255
	if s < 0 {
		return 0
	}
	if s > 255 {
		return 255
	}
	return uint8(s)
}

func clipRect(x, y, w, h, maxW, maxH int) (x0, y0, x1, y1 int) {
	x0, y0 = max(x, 0), max(y, 0)
	x1, y1 = min(x+w, maxW), min(y+h, maxH)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
