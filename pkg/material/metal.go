package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo Texture
	Fuzz   float64 // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material. Fuzz is clamped to [0, 1].
func NewMetal(albedo Texture, fuzz float64) Metal {
	return Metal{Albedo: albedo, Fuzz: max(0, min(1, fuzz))}
}

func (Metal) isMaterial() {}

// Scatter reflects about the facing normal and perturbs by the fuzz radius.
// Perturbations that point into the surface absorb the ray.
func (m Metal) Scatter(ray core.Ray, hit geometry.Intersection, sampler core.Sampler) (ScatterResult, bool) {
	normal := hit.FacingNormal(ray)
	direction := Reflect(ray.Direction.Normalize(), normal)
	if m.Fuzz > 0 {
		direction = direction.Add(core.SamplePointInUnitSphere(sampler.Get3D()).Multiply(m.Fuzz))
	}

	if direction.Dot(normal) <= 0 {
		return ScatterResult{}, false
	}

	return ScatterResult{
		Scattered:   core.NewRay(offsetOrigin(hit.Point(ray), normal, 1), direction),
		Attenuation: m.Albedo.Sample(ray, hit),
		Normal:      normal,
	}, true
}

// Emitted returns black
func (Metal) Emitted(core.Ray, geometry.Intersection) core.Color {
	return core.Black
}

// Reflect mirrors v about the unit normal n
func Reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}
