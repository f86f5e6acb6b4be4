package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// minHitDistance is the smallest ray parameter accepted as a hit
const minHitDistance = 1e-9

// Shape is a closed set of geometric primitives defined in local space.
// The object transform places the shape in the world.
type Shape interface {
	// BoundingBox returns a conservative world-space box for the shape under tf
	BoundingBox(tf core.Transform) core.AABB
	// Intersect returns the nearest hit with t > 0. The sampler is only
	// consumed by shapes with stochastic boundaries such as participating media.
	Intersect(tf core.Transform, ray core.Ray, sampler core.Sampler) (Intersection, bool)

	isShape()
}

// DirectionSampler is implemented by shapes that can be importance sampled
// as seen from a point, e.g. to send diffuse bounces toward lights.
type DirectionSampler interface {
	// SampleDirection returns a world-space direction from `from` toward the shape
	SampleDirection(tf core.Transform, from core.Vec3, sample core.Vec2) core.Vec3
	// PDF returns the solid-angle density of SampleDirection producing dir
	PDF(tf core.Transform, from, dir core.Vec3) float64
}

// Intersection is the result of a successful ray-shape query
type Intersection struct {
	T      float64   // Ray parameter of the hit
	Normal core.Vec3 // Unit outward geometric normal, world space
	UV     core.Vec2 // Surface coordinates, valid when HasUV
	HasUV  bool
}

// Point returns the world-space hit position along ray
func (h Intersection) Point(ray core.Ray) core.Vec3 {
	return ray.At(h.T)
}

// FrontFace reports whether the ray arrived from the outward side
func (h Intersection) FrontFace(ray core.Ray) bool {
	return ray.Direction.Dot(h.Normal) < 0
}

// FacingNormal returns the normal flipped onto the incident side
func (h Intersection) FacingNormal(ray core.Ray) core.Vec3 {
	if h.FrontFace(ray) {
		return h.Normal
	}
	return h.Normal.Negate()
}
