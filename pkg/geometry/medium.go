package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// recastOffset moves the exit query just past the entry surface, in units of the ray direction
const recastOffset = 1e-4

// ConstantMedium turns a closed boundary shape into a homogeneous participating
// volume. A ray scatters inside it after an exponentially distributed free path.
type ConstantMedium struct {
	Boundary Shape
	Density  float64
}

// NewConstantMedium wraps boundary as a volume of the given density
func NewConstantMedium(boundary Shape, density float64) ConstantMedium {
	return ConstantMedium{Boundary: boundary, Density: density}
}

func (ConstantMedium) isShape() {}

// BoundingBox returns the bounding box of the boundary
func (m ConstantMedium) BoundingBox(tf core.Transform) core.AABB {
	return m.Boundary.BoundingBox(tf)
}

// Intersect samples a scattering event along the chord the ray travels through the boundary.
// The returned normal is a fixed +Y and no UV is reported.
func (m ConstantMedium) Intersect(tf core.Transform, ray core.Ray, sampler core.Sampler) (Intersection, bool) {
	if m.Density <= 0 {
		return Intersection{}, false
	}
	dirLength := ray.Direction.Length()
	if dirLength == 0 {
		return Intersection{}, false
	}

	boundary := m.solidBoundary()
	first, ok := boundary.Intersect(tf, ray, sampler)
	if !ok {
		return Intersection{}, false
	}

	var entry, chord float64
	if first.Normal.Dot(ray.Direction) > 0 {
		// Origin is already inside: the first boundary hit is the exit
		entry = 0
		chord = first.T * dirLength
	} else {
		recast := core.NewRay(ray.At(first.T).Add(ray.Direction.Multiply(recastOffset)), ray.Direction)
		exit, ok := boundary.Intersect(tf, recast, sampler)
		if !ok {
			return Intersection{}, false
		}
		entry = first.T
		chord = exit.T * dirLength
	}

	freePath := -math.Log(1-sampler.Get1D()) / m.Density
	if freePath >= chord {
		return Intersection{}, false
	}

	t := entry + freePath/dirLength
	if t <= minHitDistance {
		return Intersection{}, false
	}
	return Intersection{T: t, Normal: core.NewVec3(0, 1, 0)}, true
}

// solidBoundary returns the boundary with outward normals. A negative-radius
// sphere bounds the same ball as its positive twin.
func (m ConstantMedium) solidBoundary() Shape {
	if sphere, ok := m.Boundary.(Sphere); ok && sphere.Radius < 0 {
		return Sphere{Radius: -sphere.Radius}
	}
	return m.Boundary
}
