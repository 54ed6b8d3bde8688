package graph

import "github.com/xandwr/hoplite"

// DrawCall is one queued mesh draw: geometry, placement, color tint, and an
// optional texture (nil means the default white texture).
type DrawCall struct {
	Mesh      *Mesh
	Transform Transform
	Color     hoplite.Color
	Texture   *Texture
}

// MeshQueue is the shared registry of meshes, textures, and per-frame draw
// calls. The application owns one queue and hands the same pointer to every
// scene that renders meshes; registered resources persist across frames
// while the draw list is rebuilt each frame and cleared after rendering.
//
// Not safe for concurrent use. Queue draws from the frame callback only.
type MeshQueue struct {
	meshes   []*Mesh
	textures []*Texture
	calls    []DrawCall
}

// NewMeshQueue creates an empty queue.
func NewMeshQueue() *MeshQueue {
	return &MeshQueue{}
}

// AddMesh registers a mesh and returns its handle index.
func (q *MeshQueue) AddMesh(m *Mesh) int {
	q.meshes = append(q.meshes, m)
	return len(q.meshes) - 1
}

// AddTexture registers a texture and returns its handle index.
func (q *MeshQueue) AddTexture(t *Texture) int {
	q.textures = append(q.textures, t)
	return len(q.textures) - 1
}

// Mesh returns the registered mesh for a handle, or nil if out of range.
func (q *MeshQueue) Mesh(handle int) *Mesh {
	if handle < 0 || handle >= len(q.meshes) {
		return nil
	}
	return q.meshes[handle]
}

// Texture returns the registered texture for a handle, or nil if out of
// range.
func (q *MeshQueue) Texture(handle int) *Texture {
	if handle < 0 || handle >= len(q.textures) {
		return nil
	}
	return q.textures[handle]
}

// Draw queues an untextured draw of a registered mesh. Unknown handles are
// ignored.
func (q *MeshQueue) Draw(mesh int, transform Transform, color hoplite.Color) {
	m := q.Mesh(mesh)
	if m == nil {
		return
	}
	q.calls = append(q.calls, DrawCall{Mesh: m, Transform: transform, Color: color})
}

// DrawTextured queues a textured draw of a registered mesh. An unknown
// texture handle falls back to the default white texture.
func (q *MeshQueue) DrawTextured(mesh, texture int, transform Transform, color hoplite.Color) {
	m := q.Mesh(mesh)
	if m == nil {
		return
	}
	q.calls = append(q.calls, DrawCall{
		Mesh:      m,
		Transform: transform,
		Color:     color,
		Texture:   q.Texture(texture),
	})
}

// Calls returns the draw calls queued this frame.
func (q *MeshQueue) Calls() []DrawCall {
	return q.calls
}

// ClearQueue drops the frame's draw calls, keeping registered meshes and
// textures. Call once per frame after rendering.
func (q *MeshQueue) ClearQueue() {
	q.calls = q.calls[:0]
}

// Release frees every registered mesh and texture.
func (q *MeshQueue) Release() {
	for _, m := range q.meshes {
		m.Release()
	}
	for _, t := range q.textures {
		t.Release()
	}
	q.meshes = nil
	q.textures = nil
	q.calls = nil
}
