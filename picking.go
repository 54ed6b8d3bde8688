package hoplite

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a 3D ray with an origin and a normalized direction, used for
// raycasting and mouse picking.
type Ray struct {
	// Origin is the starting point of the ray.
	Origin mgl32.Vec3
	// Direction is the normalized direction of the ray.
	Direction mgl32.Vec3
}

// NewRay creates a ray from an origin and a direction. The direction is
// normalized.
func NewRay(origin, direction mgl32.Vec3) Ray {
	return Ray{Origin: origin, Direction: normalizeOrZero(direction)}
}

// RayFromScreen creates a picking ray from screen coordinates and camera
// matrices. Screen coordinates are in pixels from the top-left corner.
func RayFromScreen(screenX, screenY, screenWidth, screenHeight float32, view, projection mgl32.Mat4) Ray {
	// NDC with Y flipped: screen Y grows downward.
	ndcX := 2*screenX/screenWidth - 1
	ndcY := 1 - 2*screenY/screenHeight

	nearClip := mgl32.Vec4{ndcX, ndcY, 0, 1}
	farClip := mgl32.Vec4{ndcX, ndcY, 1, 1}

	invViewProj := projection.Mul4(view).Inv()

	nearWorld := invViewProj.Mul4x1(nearClip)
	farWorld := invViewProj.Mul4x1(farClip)

	nearPoint := nearWorld.Vec3().Mul(1 / nearWorld.W())
	farPoint := farWorld.Vec3().Mul(1 / farWorld.W())

	return Ray{
		Origin:    nearPoint,
		Direction: normalizeOrZero(farPoint.Sub(nearPoint)),
	}
}

// PointAt returns the point along the ray at distance t from the origin.
func (r Ray) PointAt(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectAABB tests the ray against an axis-aligned bounding box. It
// returns the distance to the nearest hit in front of the origin, or false
// when the ray misses.
func (r Ray) IntersectAABB(min, max mgl32.Vec3) (float32, bool) {
	tMin := float32(math.Inf(-1))
	tMax := float32(math.Inf(1))

	for i := 0; i < 3; i++ {
		origin := r.Origin[i]
		dir := r.Direction[i]

		if float32(math.Abs(float64(dir))) < 1e-7 {
			// Parallel to this slab pair.
			if origin < min[i] || origin > max[i] {
				return 0, false
			}
			continue
		}

		invDir := 1 / dir
		t1 := (min[i] - origin) * invDir
		t2 := (max[i] - origin) * invDir
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false
		}
	}

	if tMin > 0 {
		return tMin, true
	}
	if tMax > 0 {
		return tMax, true
	}
	return 0, false
}

// IntersectSphere tests the ray against a sphere. It returns the distance to
// the nearest hit in front of the origin, or false when the ray misses.
func (r Ray) IntersectSphere(center mgl32.Vec3, radius float32) (float32, bool) {
	oc := r.Origin.Sub(center)
	a := r.Direction.Dot(r.Direction)
	b := 2 * oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	discriminant := b*b - 4*a*c

	if discriminant < 0 {
		return 0, false
	}

	sqrtDisc := float32(math.Sqrt(float64(discriminant)))
	t1 := (-b - sqrtDisc) / (2 * a)
	t2 := (-b + sqrtDisc) / (2 * a)

	if t1 > 0 {
		return t1, true
	}
	if t2 > 0 {
		return t2, true
	}
	return 0, false
}

// ColliderKind selects a collision shape.
type ColliderKind int

const (
	// ColliderBox is an axis-aligned bounding box defined by half-extents.
	ColliderBox ColliderKind = iota
	// ColliderSphere is a sphere defined by radius.
	ColliderSphere
)

// Collider is a collision shape for picking and hit detection. Shapes are
// simple geometry, far cheaper to test than a mesh and sufficient for most
// picking needs.
type Collider struct {
	Kind ColliderKind
	// HalfExtents is half the box size on each axis. Box shape only.
	HalfExtents mgl32.Vec3
	// Radius of the sphere. Sphere shape only.
	Radius float32
}

// BoxCollider creates a box collider from full dimensions, centered on the
// owner's position.
func BoxCollider(size mgl32.Vec3) Collider {
	return Collider{Kind: ColliderBox, HalfExtents: size.Mul(0.5)}
}

// BoxColliderHalfExtents creates a box collider from half-extents directly.
func BoxColliderHalfExtents(halfExtents mgl32.Vec3) Collider {
	return Collider{Kind: ColliderBox, HalfExtents: halfExtents}
}

// SphereCollider creates a sphere collider.
func SphereCollider(radius float32) Collider {
	return Collider{Kind: ColliderSphere, Radius: radius}
}

// UnitBox returns a 1x1x1 box collider, matching the unit cube mesh.
func UnitBox() Collider {
	return BoxCollider(mgl32.Vec3{1, 1, 1})
}

// UnitSphere returns a radius 0.5 sphere collider, matching the unit sphere
// mesh.
func UnitSphere() Collider {
	return SphereCollider(0.5)
}

// Intersect tests a ray against this collider placed at the given position
// and scale. It returns the distance to the hit point, or false on a miss.
func (c Collider) Intersect(ray Ray, position, scale mgl32.Vec3) (float32, bool) {
	switch c.Kind {
	case ColliderBox:
		scaledHalf := mgl32.Vec3{
			c.HalfExtents.X() * scale.X(),
			c.HalfExtents.Y() * scale.Y(),
			c.HalfExtents.Z() * scale.Z(),
		}
		return ray.IntersectAABB(position.Sub(scaledHalf), position.Add(scaledHalf))
	case ColliderSphere:
		// Spheres take the average scale.
		avg := (scale.X() + scale.Y() + scale.Z()) / 3
		return ray.IntersectSphere(position, c.Radius*avg)
	}
	return 0, false
}

// RayHit describes a ray-collider intersection.
type RayHit struct {
	// Distance from the ray origin to the hit point.
	Distance float32
	// Point is the world-space hit position.
	Point mgl32.Vec3
}

// Hit tests a ray against a collider and returns hit information.
func (c Collider) Hit(ray Ray, position, scale mgl32.Vec3) (RayHit, bool) {
	dist, ok := c.Intersect(ray, position, scale)
	if !ok {
		return RayHit{}, false
	}
	return RayHit{Distance: dist, Point: ray.PointAt(dist)}, true
}
