package hoplite

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitMode controls how an OrbitCamera moves.
type OrbitMode int

const (
	// OrbitInteractive lets the user control the camera with mouse drag and
	// the scroll wheel.
	OrbitInteractive OrbitMode = iota
	// OrbitAutoRotate spins the camera around the target, ignoring input.
	OrbitAutoRotate
)

// elevationLimit keeps orbit and freelook pitch just short of straight up or
// down to avoid gimbal lock.
const elevationLimit = math.Pi/2 - 0.01

// OrbitCamera is a controller that orbits around a target point.
//
//	orbit := hoplite.NewOrbitCamera().
//		Target(0, 0, 0).
//		Distance(5)
//
//	// per frame:
//	orbit.Update(frame.Input, frame.DT)
//	*frame.Camera = orbit.Camera()
//
// All angular and zoom constraints are clamped silently.
type OrbitCamera struct {
	// TargetPoint is the point the camera orbits around.
	TargetPoint mgl32.Vec3
	// Dist is the distance from the target.
	Dist float32
	// Azimuth is the horizontal angle in radians.
	Azimuth float32
	// Elevation is the vertical angle in radians, clamped short of the poles.
	Elevation float32
	// FOV is the field of view in radians.
	FOV float32
	// Mode selects interactive or auto-rotate control.
	Mode OrbitMode
	// AutoSpeed is the auto-rotate speed in radians per second.
	AutoSpeed float32
	// Sensitivity scales mouse drag in interactive mode.
	Sensitivity float32
	// ZoomSensitivity scales scroll wheel zoom.
	ZoomSensitivity float32
	// MinDistance and MaxDistance bound the zoom range.
	MinDistance float32
	MaxDistance float32
}

// NewOrbitCamera returns an interactive orbit camera at distance 5 with a
// slight downward elevation.
func NewOrbitCamera() OrbitCamera {
	return OrbitCamera{
		Dist:            5,
		Elevation:       0.3,
		FOV:             math.Pi / 2,
		Mode:            OrbitInteractive,
		Sensitivity:     0.005,
		ZoomSensitivity: 0.5,
		MinDistance:     0.5,
		MaxDistance:     100,
	}
}

// Target sets the point to orbit around.
func (o OrbitCamera) Target(x, y, z float32) OrbitCamera {
	o.TargetPoint = mgl32.Vec3{x, y, z}
	return o
}

// Distance sets the distance from the target, clamped to the distance limits.
func (o OrbitCamera) Distance(d float32) OrbitCamera {
	o.Dist = clampf(d, o.MinDistance, o.MaxDistance)
	return o
}

// WithMode selects the control mode.
func (o OrbitCamera) WithMode(mode OrbitMode) OrbitCamera {
	o.Mode = mode
	return o
}

// AutoRotate switches to auto-rotate mode at the given speed in radians per
// second. Positive speeds rotate counterclockwise seen from above.
func (o OrbitCamera) AutoRotate(speed float32) OrbitCamera {
	o.Mode = OrbitAutoRotate
	o.AutoSpeed = speed
	return o
}

// WithFOV sets the field of view in degrees.
func (o OrbitCamera) WithFOV(fovDegrees float32) OrbitCamera {
	o.FOV = mgl32.DegToRad(fovDegrees)
	return o
}

// WithAzimuth sets the initial horizontal angle in radians.
func (o OrbitCamera) WithAzimuth(azimuth float32) OrbitCamera {
	o.Azimuth = azimuth
	return o
}

// WithElevation sets the initial vertical angle in radians, clamped short of
// the poles.
func (o OrbitCamera) WithElevation(elevation float32) OrbitCamera {
	o.Elevation = clampf(elevation, -elevationLimit, elevationLimit)
	return o
}

// WithSensitivity sets mouse sensitivity for interactive mode.
func (o OrbitCamera) WithSensitivity(s float32) OrbitCamera {
	o.Sensitivity = s
	return o
}

// WithZoomSensitivity sets scroll zoom sensitivity.
func (o OrbitCamera) WithZoomSensitivity(s float32) OrbitCamera {
	o.ZoomSensitivity = s
	return o
}

// DistanceLimits sets the zoom bounds and re-clamps the current distance.
func (o OrbitCamera) DistanceLimits(min, max float32) OrbitCamera {
	o.MinDistance = min
	o.MaxDistance = max
	o.Dist = clampf(o.Dist, min, max)
	return o
}

// Update advances the controller from input and delta time.
func (o *OrbitCamera) Update(input *Input, dt float32) {
	switch o.Mode {
	case OrbitInteractive:
		if input.MouseDown(MouseLeft) {
			delta := input.MouseDelta()
			o.Azimuth -= delta.X() * o.Sensitivity
			o.Elevation += delta.Y() * o.Sensitivity
			o.Elevation = clampf(o.Elevation, -elevationLimit, elevationLimit)
		}

		scroll := input.ScrollDelta()
		if scroll.Y() != 0 {
			o.Dist -= scroll.Y() * o.ZoomSensitivity
			o.Dist = clampf(o.Dist, o.MinDistance, o.MaxDistance)
		}
	case OrbitAutoRotate:
		o.Azimuth += o.AutoSpeed * dt
	}
}

// Camera returns the current camera state.
func (o *OrbitCamera) Camera() Camera {
	sinAz, cosAz := math.Sincos(float64(o.Azimuth))
	sinEl, cosEl := math.Sincos(float64(o.Elevation))

	offset := mgl32.Vec3{
		o.Dist * float32(cosEl*sinAz),
		o.Dist * float32(sinEl),
		o.Dist * float32(cosEl*cosAz),
	}
	position := o.TargetPoint.Add(offset)

	forward := normalizeOrZero(o.TargetPoint.Sub(position))
	if forward == (mgl32.Vec3{}) {
		forward = mgl32.Vec3{0, 0, -1}
	}

	cam := NewCamera()
	cam.Position = position
	cam.Forward = forward
	cam.FOV = o.FOV
	return cam
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
