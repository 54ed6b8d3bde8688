package graph

import (
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/fogleman/fauxgl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/xandwr/hoplite"
	"github.com/xandwr/hoplite/internal/packing"
)

// vertexStride is the byte size of one Vertex3D on the GPU.
const vertexStride = 32

// Vertex3D is the vertex format shared by all meshes: position, normal,
// and texture coordinates. 32 bytes per vertex on the GPU (position at
// offset 0, normal at 12, uv at 24).
type Vertex3D struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// vertexLayout describes Vertex3D to the render pipeline.
var vertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: vertexStride,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
	},
}

func packVertices(vertices []Vertex3D) []byte {
	block := packing.NewBlock(len(vertices) * vertexStride)
	for _, v := range vertices {
		block.Vec3(v.Position).Vec3(v.Normal).Vec2(v.UV)
	}
	return block.Bytes()
}

// Mesh is GPU-resident indexed geometry. Immutable after creation; build a
// new mesh to render different geometry.
//
// All built-in primitives use counter-clockwise winding for front faces.
// Custom geometry should follow the same convention for correct back-face
// culling.
type Mesh struct {
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   uint32
}

// NewMesh uploads vertex and index data to GPU buffers. Indices are triples
// forming triangles.
func NewMesh(gpu *hoplite.Context, vertices []Vertex3D, indices []uint32) (*Mesh, error) {
	vertexData := packVertices(vertices)
	vertexBuffer, err := gpu.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Mesh Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("graph: create vertex buffer: %w", err)
	}
	gpu.Queue.WriteBuffer(vertexBuffer, 0, vertexData)

	indexData := packing.Uint32s(indices)
	indexBuffer, err := gpu.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Mesh Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vertexBuffer.Release()
		return nil, fmt.Errorf("graph: create index buffer: %w", err)
	}
	gpu.Queue.WriteBuffer(indexBuffer, 0, indexData)

	return &Mesh{
		vertexBuffer: vertexBuffer,
		indexBuffer:  indexBuffer,
		indexCount:   uint32(len(indices)),
	}, nil
}

// IndexCount returns the number of indices drawn per instance.
func (m *Mesh) IndexCount() uint32 { return m.indexCount }

// Release frees the GPU buffers.
func (m *Mesh) Release() {
	m.indexBuffer.Release()
	m.vertexBuffer.Release()
}

// cubeVertices builds a unit cube centered at the origin, four vertices per
// face so each face gets flat normals and a full UV range.
func cubeVertices() ([]Vertex3D, []uint32) {
	v := func(px, py, pz, nx, ny, nz, u, uv float32) Vertex3D {
		return Vertex3D{
			Position: mgl32.Vec3{px, py, pz},
			Normal:   mgl32.Vec3{nx, ny, nz},
			UV:       mgl32.Vec2{u, uv},
		}
	}
	vertices := []Vertex3D{
		// front (Z+)
		v(-0.5, -0.5, 0.5, 0, 0, 1, 0, 0),
		v(0.5, -0.5, 0.5, 0, 0, 1, 1, 0),
		v(0.5, 0.5, 0.5, 0, 0, 1, 1, 1),
		v(-0.5, 0.5, 0.5, 0, 0, 1, 0, 1),
		// back (Z-)
		v(0.5, -0.5, -0.5, 0, 0, -1, 0, 0),
		v(-0.5, -0.5, -0.5, 0, 0, -1, 1, 0),
		v(-0.5, 0.5, -0.5, 0, 0, -1, 1, 1),
		v(0.5, 0.5, -0.5, 0, 0, -1, 0, 1),
		// top (Y+)
		v(-0.5, 0.5, 0.5, 0, 1, 0, 0, 0),
		v(0.5, 0.5, 0.5, 0, 1, 0, 1, 0),
		v(0.5, 0.5, -0.5, 0, 1, 0, 1, 1),
		v(-0.5, 0.5, -0.5, 0, 1, 0, 0, 1),
		// bottom (Y-)
		v(-0.5, -0.5, -0.5, 0, -1, 0, 0, 0),
		v(0.5, -0.5, -0.5, 0, -1, 0, 1, 0),
		v(0.5, -0.5, 0.5, 0, -1, 0, 1, 1),
		v(-0.5, -0.5, 0.5, 0, -1, 0, 0, 1),
		// right (X+)
		v(0.5, -0.5, 0.5, 1, 0, 0, 0, 0),
		v(0.5, -0.5, -0.5, 1, 0, 0, 1, 0),
		v(0.5, 0.5, -0.5, 1, 0, 0, 1, 1),
		v(0.5, 0.5, 0.5, 1, 0, 0, 0, 1),
		// left (X-)
		v(-0.5, -0.5, -0.5, -1, 0, 0, 0, 0),
		v(-0.5, -0.5, 0.5, -1, 0, 0, 1, 0),
		v(-0.5, 0.5, 0.5, -1, 0, 0, 1, 1),
		v(-0.5, 0.5, -0.5, -1, 0, 0, 0, 1),
	}

	indices := make([]uint32, 0, 36)
	for face := uint32(0); face < 6; face++ {
		base := face * 4
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}
	return vertices, indices
}

// Cube creates a unit cube centered at the origin (side length 1).
func Cube(gpu *hoplite.Context) (*Mesh, error) {
	vertices, indices := cubeVertices()
	return NewMesh(gpu, vertices, indices)
}

// sphereVertices builds a UV sphere of radius 0.5 with latitude and
// longitude subdivision and equirectangular UVs.
func sphereVertices(segments, rings uint32) ([]Vertex3D, []uint32) {
	var vertices []Vertex3D
	var indices []uint32

	for ring := uint32(0); ring <= rings; ring++ {
		phi := math.Pi * float64(ring) / float64(rings)
		y := float32(math.Cos(phi))
		ringRadius := float32(math.Sin(phi))

		for seg := uint32(0); seg <= segments; seg++ {
			theta := 2 * math.Pi * float64(seg) / float64(segments)
			x := ringRadius * float32(math.Cos(theta))
			z := ringRadius * float32(math.Sin(theta))

			vertices = append(vertices, Vertex3D{
				Position: mgl32.Vec3{x * 0.5, y * 0.5, z * 0.5},
				Normal:   mgl32.Vec3{x, y, z},
				UV:       mgl32.Vec2{float32(seg) / float32(segments), float32(ring) / float32(rings)},
			})
		}
	}

	for ring := uint32(0); ring < rings; ring++ {
		for seg := uint32(0); seg < segments; seg++ {
			current := ring*(segments+1) + seg
			next := current + segments + 1

			indices = append(indices,
				current, next, current+1,
				current+1, next, next+1)
		}
	}
	return vertices, indices
}

// Sphere creates a UV sphere of radius 0.5 centered at the origin. segments
// is the longitudinal division count, rings the latitudinal one; 32 and 16
// give a reasonable default quality.
func Sphere(gpu *hoplite.Context, segments, rings uint32) (*Mesh, error) {
	vertices, indices := sphereVertices(segments, rings)
	return NewMesh(gpu, vertices, indices)
}

// planeVertices builds a size-by-size quad on the XZ plane with the normal
// pointing up.
func planeVertices(size float32) ([]Vertex3D, []uint32) {
	half := size * 0.5
	up := mgl32.Vec3{0, 1, 0}
	vertices := []Vertex3D{
		{Position: mgl32.Vec3{-half, 0, -half}, Normal: up, UV: mgl32.Vec2{0, 0}},
		{Position: mgl32.Vec3{half, 0, -half}, Normal: up, UV: mgl32.Vec2{1, 0}},
		{Position: mgl32.Vec3{half, 0, half}, Normal: up, UV: mgl32.Vec2{1, 1}},
		{Position: mgl32.Vec3{-half, 0, half}, Normal: up, UV: mgl32.Vec2{0, 1}},
	}
	return vertices, []uint32{0, 1, 2, 2, 3, 0}
}

// Plane creates a horizontal square plane of the given size on the XZ plane,
// centered at the origin.
func Plane(gpu *hoplite.Context, size float32) (*Mesh, error) {
	vertices, indices := planeVertices(size)
	return NewMesh(gpu, vertices, indices)
}

// stlVertices converts fauxgl triangles to the engine vertex format, with
// sequential indices and a computed face normal when the file carries none.
func stlVertices(triangles []*fauxgl.Triangle) ([]Vertex3D, []uint32) {
	vertices := make([]Vertex3D, 0, len(triangles)*3)
	indices := make([]uint32, 0, len(triangles)*3)

	toVec3 := func(v fauxgl.Vector) mgl32.Vec3 {
		return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
	}

	for _, tri := range triangles {
		face := toVec3(tri.Normal())
		for _, v := range []fauxgl.Vertex{tri.V1, tri.V2, tri.V3} {
			normal := toVec3(v.Normal)
			if normal.Dot(normal) == 0 {
				normal = face
			}
			indices = append(indices, uint32(len(vertices)))
			vertices = append(vertices, Vertex3D{
				Position: toVec3(v.Position),
				Normal:   normal,
				UV:       mgl32.Vec2{float32(v.Texture.X), float32(v.Texture.Y)},
			})
		}
	}
	return vertices, indices
}

// LoadSTL loads a mesh from an STL file (binary or ASCII).
func LoadSTL(gpu *hoplite.Context, path string) (*Mesh, error) {
	loaded, err := fauxgl.LoadSTL(path)
	if err != nil {
		return nil, fmt.Errorf("graph: load STL %s: %w", path, err)
	}
	vertices, indices := stlVertices(loaded.Triangles)
	return NewMesh(gpu, vertices, indices)
}

// Transform places a mesh in world space: scale, then rotate, then
// translate.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// TransformAt returns an identity transform translated to the given
// position.
func TransformAt(x, y, z float32) Transform {
	t := NewTransform()
	t.Position = mgl32.Vec3{x, y, z}
	return t
}

// At sets the position.
func (t Transform) At(x, y, z float32) Transform {
	t.Position = mgl32.Vec3{x, y, z}
	return t
}

// Rotated sets the rotation.
func (t Transform) Rotated(q mgl32.Quat) Transform {
	t.Rotation = q
	return t
}

// Scaled sets a non-uniform scale.
func (t Transform) Scaled(x, y, z float32) Transform {
	t.Scale = mgl32.Vec3{x, y, z}
	return t
}

// UniformScale sets the same scale on all axes.
func (t Transform) UniformScale(s float32) Transform {
	t.Scale = mgl32.Vec3{s, s, s}
	return t
}

// Matrix returns the model matrix, applying scale, rotation, and
// translation in that order.
func (t Transform) Matrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(t.Rotation.Mat4()).Mul4(scale)
}
