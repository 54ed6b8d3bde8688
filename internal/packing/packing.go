// Package packing builds little-endian byte blocks for GPU uniform and
// vertex buffer uploads. WGSL uniform structs are 16-byte aligned, so callers
// pad explicitly where the shader layout demands it.
package packing

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Block accumulates packed values. The zero value is ready to use.
type Block struct {
	buf []byte
}

// NewBlock returns a block with capacity for size bytes.
func NewBlock(size int) *Block {
	return &Block{buf: make([]byte, 0, size)}
}

// Float32 appends a single float.
func (b *Block) Float32(v float32) *Block {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, math.Float32bits(v))
	return b
}

// Uint32 appends a single unsigned integer.
func (b *Block) Uint32(v uint32) *Block {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, v)
	return b
}

// Vec2 appends two floats.
func (b *Block) Vec2(v mgl32.Vec2) *Block {
	return b.Float32(v.X()).Float32(v.Y())
}

// Vec3 appends three floats. WGSL vec3 fields inside a uniform struct occupy
// 16 bytes; follow with Pad(1) when the shader layout has implicit padding.
func (b *Block) Vec3(v mgl32.Vec3) *Block {
	return b.Float32(v.X()).Float32(v.Y()).Float32(v.Z())
}

// Vec4 appends four floats.
func (b *Block) Vec4(v mgl32.Vec4) *Block {
	return b.Float32(v.X()).Float32(v.Y()).Float32(v.Z()).Float32(v.W())
}

// Mat4 appends a 4x4 matrix in column-major order, matching both mgl32's
// storage and WGSL's mat4x4<f32> layout.
func (b *Block) Mat4(m mgl32.Mat4) *Block {
	for _, v := range m {
		b.Float32(v)
	}
	return b
}

// Pad appends n zero floats.
func (b *Block) Pad(n int) *Block {
	for i := 0; i < n; i++ {
		b.Float32(0)
	}
	return b
}

// Bytes returns the packed bytes.
func (b *Block) Bytes() []byte {
	return b.buf
}

// Len returns the current byte length.
func (b *Block) Len() int {
	return len(b.buf)
}

// Floats packs a flat float slice, for vertex buffer uploads.
func Floats(vals []float32) []byte {
	buf := make([]byte, 0, len(vals)*4)
	for _, v := range vals {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}

// Uint32s packs an index slice.
func Uint32s(vals []uint32) []byte {
	buf := make([]byte, 0, len(vals)*4)
	for _, v := range vals {
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}
	return buf
}
