package hoplite

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const testEpsilon = 1e-5

func approxEq(a, b float32) bool {
	return math.Abs(float64(a-b)) < testEpsilon
}

func vecApproxEq(a, b mgl32.Vec3) bool {
	return approxEq(a.X(), b.X()) && approxEq(a.Y(), b.Y()) && approxEq(a.Z(), b.Z())
}

func TestNewCameraDefaults(t *testing.T) {
	cam := NewCamera()

	if !vecApproxEq(cam.Position, mgl32.Vec3{0, 0, 5}) {
		t.Errorf("Position = %v, want (0, 0, 5)", cam.Position)
	}
	if !vecApproxEq(cam.Forward, mgl32.Vec3{0, 0, -1}) {
		t.Errorf("Forward = %v, want (0, 0, -1)", cam.Forward)
	}
	if !approxEq(cam.FOV, math.Pi/2) {
		t.Errorf("FOV = %v, want pi/2", cam.FOV)
	}
	if cam.Near != 0.1 || cam.Far != 1000 {
		t.Errorf("clip planes = (%v, %v), want (0.1, 1000)", cam.Near, cam.Far)
	}
}

func TestCameraLookingAt(t *testing.T) {
	tests := []struct {
		name     string
		position mgl32.Vec3
		target   mgl32.Vec3
		want     mgl32.Vec3
	}{
		{"along -Z", mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{"along +X", mgl32.Vec3{-3, 0, 0}, mgl32.Vec3{7, 0, 0}, mgl32.Vec3{1, 0, 0}},
		{"diagonal", mgl32.Vec3{1, 1, 1}, mgl32.Vec3{2, 2, 2}, mgl32.Vec3{1, 1, 1}.Normalize()},
		{"target equals position", mgl32.Vec3{2, 2, 2}, mgl32.Vec3{2, 2, 2}, mgl32.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera().At(tt.position).LookingAt(tt.target)
			if !vecApproxEq(cam.Forward, tt.want) {
				t.Errorf("Forward = %v, want %v", cam.Forward, tt.want)
			}
		})
	}
}

func TestCameraWithFOV(t *testing.T) {
	cam := NewCamera().WithFOV(60)
	if !approxEq(cam.FOV, mgl32.DegToRad(60)) {
		t.Errorf("FOV = %v, want %v radians", cam.FOV, mgl32.DegToRad(60))
	}
}

func TestCameraBasisOrthogonality(t *testing.T) {
	cam := NewCamera().
		At(mgl32.Vec3{3, 4, 5}).
		LookingAt(mgl32.Vec3{0, 1, 0})

	right := cam.Right()
	up := cam.OrthogonalUp()

	if !approxEq(right.Dot(cam.Forward), 0) {
		t.Errorf("Right not orthogonal to Forward: dot = %v", right.Dot(cam.Forward))
	}
	if !approxEq(up.Dot(cam.Forward), 0) {
		t.Errorf("OrthogonalUp not orthogonal to Forward: dot = %v", up.Dot(cam.Forward))
	}
	if !approxEq(up.Dot(right), 0) {
		t.Errorf("OrthogonalUp not orthogonal to Right: dot = %v", up.Dot(right))
	}
	if !approxEq(right.Len(), 1) || !approxEq(up.Len(), 1) {
		t.Errorf("basis not normalized: |right| = %v, |up| = %v", right.Len(), up.Len())
	}
}

func TestCameraViewMatrixMapsPositionToOrigin(t *testing.T) {
	cam := NewCamera().
		At(mgl32.Vec3{2, 3, 7}).
		LookingAt(mgl32.Vec3{0, 0, 0})

	view := cam.ViewMatrix()
	origin := view.Mul4x1(mgl32.Vec4{2, 3, 7, 1})

	if !approxEq(origin.X(), 0) || !approxEq(origin.Y(), 0) || !approxEq(origin.Z(), 0) {
		t.Errorf("view * position = %v, want origin", origin)
	}
}

func TestCameraProjectionDepthRange(t *testing.T) {
	// WebGPU expects clip depth in [0, 1]: near plane at 0, far plane at 1.
	cam := NewCamera()
	near, far := float32(0.1), float32(100.0)
	proj := cam.ProjectionMatrix(16.0/9.0, near, far)

	atNear := proj.Mul4x1(mgl32.Vec4{0, 0, -near, 1})
	if !approxEq(atNear.Z()/atNear.W(), 0) {
		t.Errorf("depth at near plane = %v, want 0", atNear.Z()/atNear.W())
	}

	atFar := proj.Mul4x1(mgl32.Vec4{0, 0, -far, 1})
	if !approxEq(atFar.Z()/atFar.W(), 1) {
		t.Errorf("depth at far plane = %v, want 1", atFar.Z()/atFar.W())
	}
}
