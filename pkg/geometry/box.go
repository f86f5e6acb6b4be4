package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Cuboid is an axis-aligned box in local space, centered on the origin
type Cuboid struct {
	HalfExtents core.Vec3
}

// NewCuboid creates a cuboid from its half extents
func NewCuboid(halfExtents core.Vec3) Cuboid {
	return Cuboid{HalfExtents: halfExtents.Abs()}
}

func (Cuboid) isShape() {}

// BoundingBox returns the world box around the transformed cuboid
func (b Cuboid) BoundingBox(tf core.Transform) core.AABB {
	return core.NewAABB(b.HalfExtents.Negate(), b.HalfExtents).Transform(tf)
}

// Intersect uses the slab method in local space, tracking which face
// produced the entry and exit distances.
func (b Cuboid) Intersect(tf core.Transform, ray core.Ray, _ core.Sampler) (Intersection, bool) {
	local := tf.InverseRay(ray)
	if local.Direction.IsZero() {
		return Intersection{}, false
	}

	tNear, tFar, nearAxis, farAxis, ok := b.slabs(local)
	if !ok {
		return Intersection{}, false
	}

	// Entering face, or the exit face when the origin is inside the box
	t, axis, sign := tNear, nearAxis, -1.0
	if t <= minHitDistance {
		t, axis, sign = tFar, farAxis, 1.0
		if t <= minHitDistance {
			return Intersection{}, false
		}
	}

	localNormal := core.Vec3{}
	switch axis {
	case 0:
		localNormal.X = sign * math.Copysign(1, local.Direction.X)
	case 1:
		localNormal.Y = sign * math.Copysign(1, local.Direction.Y)
	case 2:
		localNormal.Z = sign * math.Copysign(1, local.Direction.Z)
	}

	return Intersection{
		T:      t,
		Normal: tf.ApplyVector(localNormal).Normalize(),
		UV:     b.faceUV(local.At(t), axis),
		HasUV:  true,
	}, true
}

// slabs clips a local ray against the three slab pairs and returns the entry
// and exit distances with the axis of the face crossed at each
func (b Cuboid) slabs(local core.Ray) (tNear, tFar float64, nearAxis, farAxis int, ok bool) {
	tNear, tFar = math.Inf(-1), math.Inf(1)
	nearAxis, farAxis = -1, -1

	for axis := 0; axis < 3; axis++ {
		half := b.HalfExtents.Axis(axis)
		origin := local.Origin.Axis(axis)
		direction := local.Direction.Axis(axis)

		if direction == 0 {
			if origin < -half || origin > half {
				return 0, 0, -1, -1, false
			}
			continue
		}

		t1 := (-half - origin) / direction
		t2 := (half - origin) / direction
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tNear {
			tNear, nearAxis = t1, axis
		}
		if t2 < tFar {
			tFar, farAxis = t2, axis
		}
		if tNear > tFar {
			return 0, 0, -1, -1, false
		}
	}
	return tNear, tFar, nearAxis, farAxis, true
}

// faceArea returns the area of one of the two faces perpendicular to axis
func (b Cuboid) faceArea(axis int) float64 {
	return 4 * b.HalfExtents.Axis((axis+1)%3) * b.HalfExtents.Axis((axis+2)%3)
}

// Area returns the surface area of the cuboid
func (b Cuboid) Area() float64 {
	return 2 * (b.faceArea(0) + b.faceArea(1) + b.faceArea(2))
}

// SampleDirection picks a uniform point on the cuboid's surface, choosing a
// face in proportion to its area, and returns the direction toward it
func (b Cuboid) SampleDirection(tf core.Transform, from core.Vec3, sample core.Vec2) core.Vec3 {
	total := b.Area()
	if total == 0 {
		return tf.ApplyPoint(core.Vec3{}).Subtract(from)
	}

	// sample.X selects the face and is then rescaled to [0, 1) across it
	target := sample.X * total
	face := 0
	for ; face < 5; face++ {
		area := b.faceArea(face / 2)
		if target < area {
			break
		}
		target -= area
	}
	axis := face / 2
	u := min(target/max(b.faceArea(axis), 1e-300), 1)

	sign := 1.0
	if face%2 == 1 {
		sign = -1
	}
	uAxis, vAxis := (axis+1)%3, (axis+2)%3
	var local core.Vec3
	local = local.WithAxis(axis, sign*b.HalfExtents.Axis(axis))
	local = local.WithAxis(uAxis, (2*u-1)*b.HalfExtents.Axis(uAxis))
	local = local.WithAxis(vAxis, (2*sample.Y-1)*b.HalfExtents.Axis(vAxis))
	return tf.ApplyPoint(local).Subtract(from)
}

// PDF converts the uniform area density into solid angle as seen from `from`.
// A direction through the box reaches two surface points and both count.
func (b Cuboid) PDF(tf core.Transform, from, dir core.Vec3) float64 {
	total := b.Area()
	if total == 0 {
		return 0
	}
	ray := tf.InverseRay(core.NewRay(from, dir))
	if ray.Direction.IsZero() {
		return 0
	}
	tNear, tFar, nearAxis, farAxis, ok := b.slabs(ray)
	if !ok {
		return 0
	}

	unit := ray.Direction.Normalize()
	pdf := 0.0
	for _, crossing := range [2]struct {
		t    float64
		axis int
	}{{tNear, nearAxis}, {tFar, farAxis}} {
		if crossing.t <= minHitDistance || crossing.axis < 0 {
			continue
		}
		cosine := math.Abs(unit.Axis(crossing.axis))
		if cosine < 1e-12 {
			continue
		}
		dist2 := ray.Direction.Multiply(crossing.t).LengthSquared()
		pdf += dist2 / (cosine * total)
	}
	return pdf
}

// faceUV maps the hit point onto the two axes spanning the face
func (b Cuboid) faceUV(p core.Vec3, axis int) core.Vec2 {
	u, v := (axis+1)%3, (axis+2)%3
	return core.NewVec2(
		unitRange(p.Axis(u), b.HalfExtents.Axis(u)),
		unitRange(p.Axis(v), b.HalfExtents.Axis(v)),
	)
}

func unitRange(x, half float64) float64 {
	if half == 0 {
		return 0.5
	}
	return max(0, min(1, (x+half)/(2*half)))
}
