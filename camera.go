package hoplite

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a 3D camera with position, orientation, and projection
// parameters. It is consumed by world-space effect passes and mesh rendering
// to derive view and projection matrices.
//
// Construction uses chained value receivers:
//
//	cam := hoplite.NewCamera().
//		At(mgl32.Vec3{0, 2, 5}).
//		LookingAt(mgl32.Vec3{0, 0, 0}).
//		WithFOV(60)
//
// Coordinate System:
// Right-handed. +X points right, +Y points up, -Z points into the screen.
type Camera struct {
	// Position is the camera position in world space.
	Position mgl32.Vec3

	// Forward is the normalized direction the camera faces.
	Forward mgl32.Vec3

	// Up is the world up vector, used to derive Right and OrthogonalUp.
	Up mgl32.Vec3

	// FOV is the vertical field of view in radians.
	FOV float32

	// Near is the near clipping plane distance.
	Near float32

	// Far is the far clipping plane distance.
	Far float32
}

// NewCamera returns a camera at (0, 0, 5) looking toward -Z with a 90 degree
// field of view.
func NewCamera() Camera {
	return Camera{
		Position: mgl32.Vec3{0, 0, 5},
		Forward:  mgl32.Vec3{0, 0, -1},
		Up:       mgl32.Vec3{0, 1, 0},
		FOV:      math.Pi / 2,
		Near:     0.1,
		Far:      1000,
	}
}

// At sets the camera position.
func (c Camera) At(position mgl32.Vec3) Camera {
	c.Position = position
	return c
}

// LookingAt points the camera at a target position. The forward direction is
// computed from the current position, so call At first.
func (c Camera) LookingAt(target mgl32.Vec3) Camera {
	c.Forward = normalizeOrZero(target.Sub(c.Position))
	return c
}

// WithFOV sets the vertical field of view in degrees. Common values: 45
// (telephoto), 60 (standard), 90 (wide angle).
func (c Camera) WithFOV(fovDegrees float32) Camera {
	c.FOV = mgl32.DegToRad(fovDegrees)
	return c
}

// Right returns the normalized vector pointing to the camera's right.
func (c Camera) Right() mgl32.Vec3 {
	return normalizeOrZero(c.Forward.Cross(c.Up))
}

// OrthogonalUp returns an up vector guaranteed to be perpendicular to
// Forward, unlike the raw Up field. World-space shaders need the orthogonal
// basis.
func (c Camera) OrthogonalUp() mgl32.Vec3 {
	return normalizeOrZero(c.Right().Cross(c.Forward))
}

// ViewMatrix returns the world-to-view transform for this camera.
func (c Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Forward), c.Up)
}

// ProjectionMatrix returns a right-handed perspective projection with depth
// mapped to [0, 1] as WebGPU expects. mgl32.Perspective targets OpenGL's
// [-1, 1] depth range, so the matrix is built directly.
func (c Camera) ProjectionMatrix(aspect, near, far float32) mgl32.Mat4 {
	f := float32(1.0 / math.Tan(float64(c.FOV)/2))
	return mgl32.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, far / (near - far), -1,
		0, 0, near * far / (near - far), 0,
	}
}

// normalizeOrZero returns the normalized vector, or the zero vector when the
// input has no length. mgl32's Normalize divides by zero in that case.
func normalizeOrZero(v mgl32.Vec3) mgl32.Vec3 {
	if v.Dot(v) == 0 {
		return mgl32.Vec3{}
	}
	return v.Normalize()
}
