package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo Texture
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo Texture) Lambertian {
	return Lambertian{Albedo: albedo}
}

func (Lambertian) isMaterial() {}

// Scatter samples a cosine-weighted direction about the facing normal
func (l Lambertian) Scatter(ray core.Ray, hit geometry.Intersection, sampler core.Sampler) (ScatterResult, bool) {
	normal := hit.FacingNormal(ray)
	direction := core.SampleCosineHemisphere(normal, sampler.Get2D())

	return ScatterResult{
		Scattered:   core.NewRay(offsetOrigin(hit.Point(ray), normal, 1), direction),
		Attenuation: l.Albedo.Sample(ray, hit),
		PDF:         math.Max(direction.Dot(normal), 0) / math.Pi,
		Normal:      normal,
	}, true
}

// Emitted returns black; diffuse surfaces do not glow
func (Lambertian) Emitted(core.Ray, geometry.Intersection) core.Color {
	return core.Black
}
