package hoplite

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFreelookMovement(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want mgl32.Vec3
	}{
		{"forward", KeyW, mgl32.Vec3{0, 0, -1}},
		{"back", KeyS, mgl32.Vec3{0, 0, 1}},
		{"strafe left", KeyA, mgl32.Vec3{-1, 0, 0}},
		{"strafe right", KeyD, mgl32.Vec3{1, 0, 0}},
		{"up", KeySpace, mgl32.Vec3{0, 1, 0}},
		{"down", KeyShiftLeft, mgl32.Vec3{0, -1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewFreelookCamera().WithSpeed(2)
			in := NewInput()
			in.BeginFrame()
			in.KeyEvent(tt.key, true)

			cam.Update(in, 0.5)

			want := tt.want.Mul(1.0) // speed 2 * dt 0.5
			if !vecApproxEq(cam.Position, want) {
				t.Errorf("Position = %v, want %v", cam.Position, want)
			}
		})
	}
}

func TestFreelookDiagonalMovementNormalized(t *testing.T) {
	cam := NewFreelookCamera().WithSpeed(1)
	in := NewInput()
	in.BeginFrame()
	in.KeyEvent(KeyW, true)
	in.KeyEvent(KeyD, true)

	cam.Update(in, 1)

	if !approxEq(cam.Position.Len(), 1) {
		t.Errorf("diagonal movement distance = %v, want 1", cam.Position.Len())
	}
}

func TestFreelookMouseLook(t *testing.T) {
	cam := NewFreelookCamera().WithSensitivity(0.01)
	in := NewInput()
	in.BeginFrame()
	in.RawMouseMotion(10, -5)

	cam.Update(in, 0.016)

	if !approxEq(cam.Yaw, 0.1) {
		t.Errorf("Yaw = %v, want 0.1", cam.Yaw)
	}
	if !approxEq(cam.Pitch, 0.05) {
		t.Errorf("Pitch = %v, want 0.05", cam.Pitch)
	}
}

func TestFreelookPitchClamped(t *testing.T) {
	cam := NewFreelookCamera()
	in := NewInput()
	in.BeginFrame()
	in.RawMouseMotion(0, -100000)

	cam.Update(in, 0.016)

	if cam.Pitch >= float32(math.Pi/2) {
		t.Errorf("Pitch = %v, want clamped below pi/2", cam.Pitch)
	}
}

func TestFreelookLookingToward(t *testing.T) {
	cam := NewFreelookCamera().LookingToward(mgl32.Vec3{1, 0, 0})
	if !approxEq(cam.Yaw, float32(math.Pi/2)) {
		t.Errorf("Yaw = %v, want pi/2 for +X", cam.Yaw)
	}

	forward := cam.Camera().Forward
	if !vecApproxEq(forward, mgl32.Vec3{1, 0, 0}) {
		t.Errorf("Forward = %v, want (1, 0, 0)", forward)
	}
}

func TestFreelookSeated(t *testing.T) {
	seat := Seated(mgl32.Vec3{5, 1, 3}).
		YawRange(mgl32.DegToRad(-45), mgl32.DegToRad(45)).
		PitchRange(mgl32.DegToRad(-30), mgl32.DegToRad(30)).
		Facing(mgl32.Vec3{0, 0, -1})

	cam := NewFreelookCamera().At(mgl32.Vec3{0, 1.8, 0})
	cam.SitDown(seat)

	if !cam.IsSeated() {
		t.Fatal("IsSeated() = false after SitDown")
	}
	if cam.Yaw != 0 || cam.Pitch != 0 {
		t.Errorf("view should snap to seat base orientation, got yaw=%v pitch=%v", cam.Yaw, cam.Pitch)
	}
	if !vecApproxEq(cam.EffectivePosition(), mgl32.Vec3{5, 1, 3}) {
		t.Errorf("EffectivePosition = %v, want seat position", cam.EffectivePosition())
	}

	// A huge drag stays within the seat's yaw and pitch ranges.
	in := NewInput()
	in.BeginFrame()
	in.RawMouseMotion(100000, 100000)
	cam.Update(in, 0.016)

	if cam.Yaw > mgl32.DegToRad(45)+testEpsilon {
		t.Errorf("Yaw = %v, want clamped to 45 degrees", cam.Yaw)
	}
	if cam.Pitch < mgl32.DegToRad(-30)-testEpsilon {
		t.Errorf("Pitch = %v, want clamped to -30 degrees", cam.Pitch)
	}

	// Movement keys are ignored while seated.
	in.BeginFrame()
	in.KeyEvent(KeyW, true)
	cam.Update(in, 1)
	if !vecApproxEq(cam.EffectivePosition(), mgl32.Vec3{5, 1, 3}) {
		t.Errorf("seated camera moved to %v", cam.EffectivePosition())
	}
}

func TestFreelookStandUpKeepsSeatPosition(t *testing.T) {
	cam := NewFreelookCamera().At(mgl32.Vec3{0, 0, 0})
	cam.SitDown(Seated(mgl32.Vec3{5, 1, 3}))
	cam.StandUp()

	if cam.IsSeated() {
		t.Fatal("IsSeated() = true after StandUp")
	}
	if !vecApproxEq(cam.Position, mgl32.Vec3{5, 1, 3}) {
		t.Errorf("Position = %v, want seat position after standing", cam.Position)
	}
}

func TestFreelookSeatedFacingAngles(t *testing.T) {
	seat := Seated(mgl32.Vec3{}).FacingAngles(1.2, -0.3)
	if seat.BaseYaw != 1.2 || seat.BasePitch != -0.3 {
		t.Errorf("base = (%v, %v), want (1.2, -0.3)", seat.BaseYaw, seat.BasePitch)
	}
}
