package draw2d

import (
	"testing"

	"github.com/xandwr/hoplite"
)

func colorEq(a, b hoplite.Color) bool {
	const eps = 1.0 / 255
	diff := func(x, y float32) bool {
		d := x - y
		return d > -eps-1e-6 && d < eps+1e-6
	}
	return diff(a.R, b.R) && diff(a.G, b.G) && diff(a.B, b.B) && diff(a.A, b.A)
}

func TestOverlayClear(t *testing.T) {
	o := NewOverlay(4, 4)
	o.Clear(hoplite.Red)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if !colorEq(o.PixelAt(x, y), hoplite.Red) {
				t.Fatalf("pixel (%d,%d) = %+v, want red", x, y, o.PixelAt(x, y))
			}
		}
	}
}

func TestOverlaySetPixel(t *testing.T) {
	o := NewOverlay(8, 8)
	o.SetPixel(3, 5, hoplite.Green)

	if !colorEq(o.PixelAt(3, 5), hoplite.Green) {
		t.Errorf("pixel = %+v, want green", o.PixelAt(3, 5))
	}
	if got := o.PixelAt(4, 5); got.A != 0 {
		t.Errorf("neighbor touched: %+v", got)
	}
}

func TestOverlaySetPixelOutOfBounds(t *testing.T) {
	o := NewOverlay(4, 4)
	o.SetPixel(-1, 0, hoplite.White)
	o.SetPixel(0, -1, hoplite.White)
	o.SetPixel(4, 0, hoplite.White)
	o.SetPixel(0, 4, hoplite.White)

	for i, b := range o.Data() {
		if b != 0 {
			t.Fatalf("byte %d written by out-of-bounds SetPixel", i)
		}
	}
}

func TestOverlayFillRect(t *testing.T) {
	o := NewOverlay(8, 8)
	o.FillRect(2, 2, 3, 3, hoplite.Blue)

	if !colorEq(o.PixelAt(2, 2), hoplite.Blue) {
		t.Error("top-left corner not filled")
	}
	if !colorEq(o.PixelAt(4, 4), hoplite.Blue) {
		t.Error("bottom-right corner not filled")
	}
	if o.PixelAt(5, 5).A != 0 {
		t.Error("filled past the rectangle")
	}
	if o.PixelAt(1, 2).A != 0 {
		t.Error("filled left of the rectangle")
	}
}

func TestOverlayFillRectClips(t *testing.T) {
	o := NewOverlay(4, 4)
	o.FillRect(-2, -2, 100, 100, hoplite.White)

	if !colorEq(o.PixelAt(0, 0), hoplite.White) || !colorEq(o.PixelAt(3, 3), hoplite.White) {
		t.Error("oversized rect did not cover the overlay")
	}

	o2 := NewOverlay(4, 4)
	o2.FillRect(10, 10, 5, 5, hoplite.White)
	for i, b := range o2.Data() {
		if b != 0 {
			t.Fatalf("byte %d written by fully off-screen rect", i)
		}
	}
}

func TestOverlayStrokeRect(t *testing.T) {
	o := NewOverlay(8, 8)
	o.StrokeRect(1, 1, 5, 5, hoplite.White)

	for _, p := range [][2]int{{1, 1}, {5, 1}, {1, 5}, {5, 5}, {3, 1}, {1, 3}, {5, 3}, {3, 5}} {
		if !colorEq(o.PixelAt(p[0], p[1]), hoplite.White) {
			t.Errorf("edge pixel (%d,%d) not stroked", p[0], p[1])
		}
	}
	if o.PixelAt(3, 3).A != 0 {
		t.Error("interior filled by stroke")
	}
}

func TestOverlayLine(t *testing.T) {
	o := NewOverlay(8, 8)
	o.Line(0, 0, 7, 7, hoplite.White)

	for i := 0; i < 8; i++ {
		if !colorEq(o.PixelAt(i, i), hoplite.White) {
			t.Errorf("diagonal pixel (%d,%d) missing", i, i)
		}
	}

	o2 := NewOverlay(8, 8)
	o2.Line(7, 3, 0, 3, hoplite.White)
	for x := 0; x < 8; x++ {
		if !colorEq(o2.PixelAt(x, 3), hoplite.White) {
			t.Errorf("horizontal pixel (%d,3) missing", x)
		}
	}
}

func TestOverlayText(t *testing.T) {
	o := NewOverlay(64, 16)
	o.Text(0, 0, "Hi", hoplite.White)

	lit := 0
	for y := 0; y < 16; y++ {
		for x := 0; x < 64; x++ {
			if o.PixelAt(x, y).A > 0 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatal("text drew no pixels")
	}
	if w := TextWidth("Hi"); lit > w*16 {
		t.Errorf("text lit %d pixels, more than the %d-wide string box allows", lit, w)
	}
}

func TestTextWidth(t *testing.T) {
	if TextWidth("") != 0 {
		t.Error("empty string should measure zero")
	}
	// Face7x13 is monospaced at 7 pixels per glyph.
	if got := TextWidth("abcd"); got != 28 {
		t.Errorf("TextWidth(abcd) = %d, want 28", got)
	}
}

func TestOverlayResize(t *testing.T) {
	o := NewOverlay(4, 4)
	o.Clear(hoplite.White)

	o.Resize(8, 2)
	if o.Width() != 8 || o.Height() != 2 {
		t.Fatalf("size = %dx%d, want 8x2", o.Width(), o.Height())
	}
	if len(o.Data()) != 8*2*4 {
		t.Fatalf("data length = %d", len(o.Data()))
	}
	if o.PixelAt(0, 0).A != 0 {
		t.Error("resize kept old contents")
	}

	data := o.Data()
	o.Resize(8, 2)
	if &data[0] != &o.Data()[0] {
		t.Error("same-size resize reallocated")
	}
}
