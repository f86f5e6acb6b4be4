package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Sphere is a ball of the given radius centered on the local origin.
// A negative radius flips the normals inward, which makes hollow glass shells.
type Sphere struct {
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(radius float64) Sphere {
	return Sphere{Radius: radius}
}

func (Sphere) isShape() {}

// Intersect tests if a ray intersects with the sphere
func (s Sphere) Intersect(tf core.Transform, ray core.Ray, _ core.Sampler) (Intersection, bool) {
	local := tf.InverseRay(ray)

	// Quadratic equation coefficients: at² + 2bt + c = 0
	a := local.Direction.LengthSquared()
	if a == 0 {
		return Intersection{}, false
	}
	halfB := local.Origin.Dot(local.Direction)
	c := local.Origin.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return Intersection{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer root first, then the far one for origins inside the ball
	root := (-halfB - sqrtD) / a
	if root <= minHitDistance {
		root = (-halfB + sqrtD) / a
		if root <= minHitDistance {
			return Intersection{}, false
		}
	}

	localNormal := local.At(root).Multiply(1.0 / s.Radius)
	return Intersection{
		T:      root,
		Normal: tf.ApplyVector(localNormal).Normalize(),
		UV:     sphereUV(localNormal),
		HasUV:  true,
	}, true
}

// sphereUV maps a unit local normal to longitude/latitude coordinates in [0, 1]
func sphereUV(n core.Vec3) core.Vec2 {
	theta := math.Acos(max(-1, min(1, -n.Y)))
	phi := math.Atan2(-n.Z, n.X) + math.Pi
	return core.NewVec2(phi/(2*math.Pi), theta/math.Pi)
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s Sphere) BoundingBox(tf core.Transform) core.AABB {
	radius := math.Abs(s.Radius)
	r := core.NewVec3(radius, radius, radius)
	return core.NewAABB(tf.Translation.Subtract(r), tf.Translation.Add(r))
}

// SampleDirection samples the cone of directions subtended by the sphere
func (s Sphere) SampleDirection(tf core.Transform, from core.Vec3, sample core.Vec2) core.Vec3 {
	toCenter := tf.Translation.Subtract(from)
	dist2 := toCenter.LengthSquared()
	if dist2 <= s.Radius*s.Radius {
		return core.SampleOnUnitSphere(sample)
	}
	cosMax := math.Sqrt(max(0, 1-s.Radius*s.Radius/dist2))
	return core.SampleCone(toCenter.Normalize(), cosMax, sample)
}

// PDF returns the solid-angle density used by SampleDirection
func (s Sphere) PDF(tf core.Transform, from, dir core.Vec3) float64 {
	toCenter := tf.Translation.Subtract(from)
	dist2 := toCenter.LengthSquared()
	if dist2 <= s.Radius*s.Radius {
		return 1 / (4 * math.Pi)
	}
	cosMax := math.Sqrt(max(0, 1-s.Radius*s.Radius/dist2))
	if dir.Normalize().Dot(toCenter.Normalize()) < cosMax-1e-12 {
		return 0
	}
	solidAngle := 2 * math.Pi * (1 - cosMax)
	if solidAngle <= 0 {
		return 0
	}
	return 1 / solidAngle
}
