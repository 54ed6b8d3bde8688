package hoplite

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SeatedConfig fixes the camera to a world position with optional view angle
// constraints, for chairs, vehicle seats, or cutscenes.
type SeatedConfig struct {
	// Position is the fixed world position while seated.
	Position mgl32.Vec3
	// BaseYaw and BasePitch are the direction the seat faces, in radians.
	BaseYaw   float32
	BasePitch float32
	// MinYawOffset and MaxYawOffset bound horizontal looking relative to the
	// base direction (negative = left).
	MinYawOffset float32
	MaxYawOffset float32
	// MinPitchOffset and MaxPitchOffset bound vertical looking relative to
	// the base direction (negative = down).
	MinPitchOffset float32
	MaxPitchOffset float32
}

// Seated creates a seated configuration at the given world position. The
// default looks toward -Z with full 360 degree yaw and near-vertical pitch
// freedom; narrow it with YawRange and PitchRange.
func Seated(position mgl32.Vec3) SeatedConfig {
	return SeatedConfig{
		Position:       position,
		MinYawOffset:   -math.Pi,
		MaxYawOffset:   math.Pi,
		MinPitchOffset: -elevationLimit,
		MaxPitchOffset: elevationLimit,
	}
}

// YawRange sets the horizontal look bounds as offsets from the base
// direction, in radians. min is the furthest turn left (negative), max the
// furthest turn right.
func (s SeatedConfig) YawRange(min, max float32) SeatedConfig {
	s.MinYawOffset = min
	s.MaxYawOffset = max
	return s
}

// PitchRange sets the vertical look bounds as offsets from the base
// direction, in radians. min is the furthest look down (negative), max the
// furthest look up.
func (s SeatedConfig) PitchRange(min, max float32) SeatedConfig {
	s.MinPitchOffset = min
	s.MaxPitchOffset = max
	return s
}

// Facing sets the base direction the seat faces from a direction vector.
// Yaw zero means looking toward -Z.
func (s SeatedConfig) Facing(direction mgl32.Vec3) SeatedConfig {
	dir := normalizeOrZero(direction)
	s.BaseYaw = float32(math.Atan2(float64(dir.X()), float64(-dir.Z())))
	s.BasePitch = float32(math.Asin(float64(dir.Y())))
	return s
}

// FacingAngles sets the base direction from yaw and pitch angles in radians.
func (s SeatedConfig) FacingAngles(yaw, pitch float32) SeatedConfig {
	s.BaseYaw = yaw
	s.BasePitch = pitch
	return s
}

// FreelookCamera is a first-person camera controller.
//
// Modes:
//   - Unseated: WASD movement plus mouse look, standard FPS controls.
//     W/S forward/back, A/D strafe, Space up, left Shift down.
//   - Seated: position locked to a SeatedConfig, looking constrained to its
//     yaw and pitch ranges.
//
// All angle constraints are clamped silently.
type FreelookCamera struct {
	// Position is the camera position, used in unseated mode only.
	Position mgl32.Vec3
	// Yaw is the horizontal angle in radians. Zero looks toward -Z.
	Yaw float32
	// Pitch is the vertical angle in radians. Zero is horizontal, positive
	// looks up.
	Pitch float32
	// FOV is the field of view in radians.
	FOV float32
	// Seat is non-nil while seated.
	Seat *SeatedConfig
	// Sensitivity scales mouse look.
	Sensitivity float32
	// Speed is movement speed in units per second, unseated mode only.
	Speed float32
	// Near and Far are the clipping planes.
	Near float32
	Far  float32
}

// NewFreelookCamera returns an unseated camera at the origin looking toward
// -Z with a 90 degree field of view.
func NewFreelookCamera() FreelookCamera {
	return FreelookCamera{
		FOV:         math.Pi / 2,
		Sensitivity: 0.003,
		Speed:       5,
		Near:        0.1,
		Far:         1000,
	}
}

// At sets the starting position. Ignored while seated.
func (f FreelookCamera) At(position mgl32.Vec3) FreelookCamera {
	f.Position = position
	return f
}

// WithFOV sets the field of view in degrees.
func (f FreelookCamera) WithFOV(fovDegrees float32) FreelookCamera {
	f.FOV = mgl32.DegToRad(fovDegrees)
	return f
}

// WithYaw sets the initial horizontal angle in radians.
func (f FreelookCamera) WithYaw(yaw float32) FreelookCamera {
	f.Yaw = yaw
	return f
}

// WithPitch sets the initial vertical angle in radians, clamped short of the
// poles.
func (f FreelookCamera) WithPitch(pitch float32) FreelookCamera {
	f.Pitch = clampf(pitch, -elevationLimit, elevationLimit)
	return f
}

// LookingToward sets the initial look direction from a direction vector.
func (f FreelookCamera) LookingToward(direction mgl32.Vec3) FreelookCamera {
	dir := normalizeOrZero(direction)
	f.Yaw = float32(math.Atan2(float64(dir.X()), float64(-dir.Z())))
	f.Pitch = clampf(float32(math.Asin(float64(dir.Y()))), -elevationLimit, elevationLimit)
	return f
}

// WithSensitivity sets mouse sensitivity.
func (f FreelookCamera) WithSensitivity(s float32) FreelookCamera {
	f.Sensitivity = s
	return f
}

// WithSpeed sets movement speed for unseated mode.
func (f FreelookCamera) WithSpeed(speed float32) FreelookCamera {
	f.Speed = speed
	return f
}

// ClipPlanes sets the near and far clipping planes.
func (f FreelookCamera) ClipPlanes(near, far float32) FreelookCamera {
	f.Near = near
	f.Far = far
	return f
}

// SitDown locks the camera to the seat position with its view constraints.
// The view snaps to the seat's base orientation.
func (f *FreelookCamera) SitDown(config SeatedConfig) {
	f.Yaw = config.BaseYaw
	f.Pitch = config.BasePitch
	f.Seat = &config
}

// StandUp returns to unseated mode. The camera position is set to the seat
// position so the viewer does not teleport.
func (f *FreelookCamera) StandUp() {
	if f.Seat != nil {
		f.Position = f.Seat.Position
	}
	f.Seat = nil
}

// IsSeated reports whether the camera is in seated mode.
func (f *FreelookCamera) IsSeated() bool { return f.Seat != nil }

// EffectivePosition returns the camera position, accounting for seated mode.
func (f *FreelookCamera) EffectivePosition() mgl32.Vec3 {
	if f.Seat != nil {
		return f.Seat.Position
	}
	return f.Position
}

// forwardDirection derives the look direction from yaw and pitch.
func (f *FreelookCamera) forwardDirection() mgl32.Vec3 {
	sinYaw, cosYaw := math.Sincos(float64(f.Yaw))
	sinPitch, cosPitch := math.Sincos(float64(f.Pitch))
	return normalizeOrZero(mgl32.Vec3{
		float32(sinYaw * cosPitch),
		float32(sinPitch),
		float32(-cosYaw * cosPitch),
	})
}

// rightDirection derives the horizontal strafe direction from yaw.
func (f *FreelookCamera) rightDirection() mgl32.Vec3 {
	sinYaw, cosYaw := math.Sincos(float64(f.Yaw))
	return mgl32.Vec3{float32(cosYaw), 0, float32(sinYaw)}
}

// Update advances the controller from input and delta time. Mouse look works
// in both modes; movement only when unseated.
func (f *FreelookCamera) Update(input *Input, dt float32) {
	delta := input.MouseDelta()
	f.Yaw += delta.X() * f.Sensitivity
	f.Pitch -= delta.Y() * f.Sensitivity

	if f.Seat != nil {
		yawOffset := clampf(f.Yaw-f.Seat.BaseYaw, f.Seat.MinYawOffset, f.Seat.MaxYawOffset)
		f.Yaw = f.Seat.BaseYaw + yawOffset

		pitchOffset := clampf(f.Pitch-f.Seat.BasePitch, f.Seat.MinPitchOffset, f.Seat.MaxPitchOffset)
		f.Pitch = f.Seat.BasePitch + pitchOffset
		return
	}

	f.Pitch = clampf(f.Pitch, -elevationLimit, elevationLimit)

	forward := f.forwardDirection()
	right := f.rightDirection()
	up := mgl32.Vec3{0, 1, 0}

	var velocity mgl32.Vec3
	if input.KeyDown(KeyW) {
		velocity = velocity.Add(forward)
	}
	if input.KeyDown(KeyS) {
		velocity = velocity.Sub(forward)
	}
	if input.KeyDown(KeyA) {
		velocity = velocity.Sub(right)
	}
	if input.KeyDown(KeyD) {
		velocity = velocity.Add(right)
	}
	if input.KeyDown(KeySpace) {
		velocity = velocity.Add(up)
	}
	if input.KeyDown(KeyShiftLeft) {
		velocity = velocity.Sub(up)
	}

	if velocity.Dot(velocity) > 0 {
		f.Position = f.Position.Add(velocity.Normalize().Mul(f.Speed * dt))
	}
}

// Camera returns the current camera state.
func (f *FreelookCamera) Camera() Camera {
	cam := NewCamera()
	cam.Position = f.EffectivePosition()
	cam.Forward = f.forwardDirection()
	cam.FOV = f.FOV
	cam.Near = f.Near
	cam.Far = f.Far
	return cam
}
