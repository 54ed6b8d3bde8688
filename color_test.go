package hoplite

import "testing"

func TestHex(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want Color
	}{
		{"short rgb", "f00", Color{1, 0, 0, 1}},
		{"short rgba", "0f08", Color{0, 1, 0, 136.0 / 255}},
		{"long rgb", "0000ff", Color{0, 0, 1, 1}},
		{"long rgba", "ffffff80", Color{1, 1, 1, 128.0 / 255}},
		{"leading hash", "#00ff00", Color{0, 1, 0, 1}},
		{"invalid length", "abcde", Color{0, 0, 0, 1}},
		{"empty", "", Color{0, 0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hex(tt.hex)
			if !approxEq(got.R, tt.want.R) || !approxEq(got.G, tt.want.G) ||
				!approxEq(got.B, tt.want.B) || !approxEq(got.A, tt.want.A) {
				t.Errorf("Hex(%q) = %v, want %v", tt.hex, got, tt.want)
			}
		})
	}
}

func TestColorLerp(t *testing.T) {
	got := Black.Lerp(White, 0.5)
	want := Color{0.5, 0.5, 0.5, 1}
	if !approxEq(got.R, want.R) || !approxEq(got.G, want.G) || !approxEq(got.B, want.B) {
		t.Errorf("Black.Lerp(White, 0.5) = %v, want %v", got, want)
	}

	if got := Red.Lerp(Blue, 0); got != Red {
		t.Errorf("Lerp at t=0 = %v, want %v", got, Red)
	}
	if got := Red.Lerp(Blue, 1); got != Blue {
		t.Errorf("Lerp at t=1 = %v, want %v", got, Blue)
	}
}

func TestColorWGPU(t *testing.T) {
	c := Color{0.25, 0.5, 0.75, 1}.WGPU()
	if c.R != 0.25 || c.G != 0.5 || c.B != 0.75 || c.A != 1 {
		t.Errorf("WGPU() = %v", c)
	}
}

func TestColorNRGBAClamps(t *testing.T) {
	c := Color{2, -1, 0.5, 1}.NRGBA()
	if c.R != 255 {
		t.Errorf("R = %d, want clamped 255", c.R)
	}
	if c.G != 0 {
		t.Errorf("G = %d, want clamped 0", c.G)
	}
	if c.B != 127 {
		t.Errorf("B = %d, want 127", c.B)
	}
}
