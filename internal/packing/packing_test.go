package packing

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestBlockFloat32LittleEndian(t *testing.T) {
	b := NewBlock(4).Float32(1.5)
	got := b.Bytes()
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	bits := binary.LittleEndian.Uint32(got)
	if bits != math.Float32bits(1.5) {
		t.Errorf("bits = %#x, want %#x", bits, math.Float32bits(1.5))
	}
}

func TestBlockLayout(t *testing.T) {
	// resolution + progress + pad + color, the transition uniform shape.
	b := NewBlock(32).
		Vec2(mgl32.Vec2{1280, 720}).
		Float32(0.5).
		Pad(1).
		Vec4(mgl32.Vec4{0, 0, 0, 1})

	if b.Len() != 32 {
		t.Fatalf("Len = %d, want 32", b.Len())
	}

	buf := b.Bytes()
	at := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	}
	if at(0) != 1280 || at(4) != 720 {
		t.Errorf("resolution = (%v, %v)", at(0), at(4))
	}
	if at(8) != 0.5 {
		t.Errorf("progress = %v, want 0.5", at(8))
	}
	if at(12) != 0 {
		t.Errorf("padding = %v, want 0", at(12))
	}
	if at(28) != 1 {
		t.Errorf("color alpha = %v, want 1", at(28))
	}
}

func TestBlockMat4ColumnMajor(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3)
	buf := NewBlock(64).Mat4(m).Bytes()
	if len(buf) != 64 {
		t.Fatalf("len = %d, want 64", len(buf))
	}
	// Translation lives in the last column for column-major storage.
	at := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	}
	if at(48) != 1 || at(52) != 2 || at(56) != 3 {
		t.Errorf("translation column = (%v, %v, %v), want (1, 2, 3)", at(48), at(52), at(56))
	}
}

func TestFloats(t *testing.T) {
	buf := Floats([]float32{1, 2, 3})
	if len(buf) != 12 {
		t.Fatalf("len = %d, want 12", len(buf))
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[8:])); got != 3 {
		t.Errorf("third value = %v, want 3", got)
	}
}

func TestUint32s(t *testing.T) {
	buf := Uint32s([]uint32{7, 8})
	if len(buf) != 8 {
		t.Fatalf("len = %d, want 8", len(buf))
	}
	if got := binary.LittleEndian.Uint32(buf[4:]); got != 8 {
		t.Errorf("second value = %d, want 8", got)
	}
}
