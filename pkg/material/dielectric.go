package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
	Attenuation     Texture // Tint applied to both reflected and transmitted light
}

// NewDielectric creates a new clear dielectric material
func NewDielectric(refractiveIndex float64) Dielectric {
	return Dielectric{RefractiveIndex: refractiveIndex, Attenuation: Solid{Color: core.White}}
}

func (Dielectric) isMaterial() {}

// Scatter chooses reflection or refraction with Schlick's Fresnel estimate.
// Total internal reflection always reflects.
func (d Dielectric) Scatter(ray core.Ray, hit geometry.Intersection, sampler core.Sampler) (ScatterResult, bool) {
	normal := hit.FacingNormal(ray)

	// Entering from outside goes from air into the material
	ratio := d.RefractiveIndex
	if hit.FrontFace(ray) {
		ratio = 1.0 / d.RefractiveIndex
	}

	unitDirection := ray.Direction.Normalize()
	cosTheta := math.Min(-unitDirection.Dot(normal), 1.0)

	attenuation := core.White
	if d.Attenuation != nil {
		attenuation = d.Attenuation.Sample(ray, hit)
	}

	point := hit.Point(ray)
	if refracted, ok := Refract(unitDirection, normal, ratio); ok && Reflectance(schlickCosine(cosTheta, ratio), ratio) <= sampler.Get1D() {
		return ScatterResult{
			Scattered:   core.NewRay(offsetOrigin(point, normal, -1), refracted),
			Attenuation: attenuation,
			Normal:      normal,
		}, true
	}

	return ScatterResult{
		Scattered:   core.NewRay(offsetOrigin(point, normal, 1), Reflect(unitDirection, normal)),
		Attenuation: attenuation,
		Normal:      normal,
	}, true
}

// Emitted returns black
func (Dielectric) Emitted(core.Ray, geometry.Intersection) core.Color {
	return core.Black
}

// Refract bends the unit vector uv through a surface with unit normal n facing
// against it, for the ratio of refractive indices etaiOverEtat. It reports false
// when the discriminant is not positive (total internal reflection).
func Refract(uv, n core.Vec3, etaiOverEtat float64) (core.Vec3, bool) {
	dt := uv.Dot(n)
	discriminant := 1.0 - etaiOverEtat*etaiOverEtat*(1.0-dt*dt)
	if discriminant <= 0 {
		return core.Vec3{}, false
	}
	return uv.Subtract(n.Multiply(dt)).Multiply(etaiOverEtat).Subtract(n.Multiply(math.Sqrt(discriminant))), true
}

// schlickCosine returns the cosine Schlick's approximation is evaluated at:
// the incident angle when entering a denser medium, the transmitted angle
// when leaving one. It returns 0 past the critical angle.
func schlickCosine(cosIncident, ratio float64) float64 {
	if ratio <= 1 {
		return cosIncident
	}
	sin2t := ratio * ratio * (1 - cosIncident*cosIncident)
	if sin2t >= 1 {
		return 0
	}
	return math.Sqrt(1 - sin2t)
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation.
// Matched indices form no interface and never reflect.
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	if r0 == 0 {
		return 0
	}
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
