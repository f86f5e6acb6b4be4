package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// DiffuseLight is a surface that emits its texture and absorbs everything
type DiffuseLight struct {
	Emit Texture
}

// NewDiffuseLight creates a new emitter
func NewDiffuseLight(emit Texture) DiffuseLight {
	return DiffuseLight{Emit: emit}
}

func (DiffuseLight) isMaterial() {}

// Scatter never scatters
func (DiffuseLight) Scatter(core.Ray, geometry.Intersection, core.Sampler) (ScatterResult, bool) {
	return ScatterResult{}, false
}

// Emitted returns the emission texture at the hit
func (l DiffuseLight) Emitted(ray core.Ray, hit geometry.Intersection) core.Color {
	return l.Emit.Sample(ray, hit)
}

// Isotropic scatters uniformly in all directions, for participating media
type Isotropic struct {
	Albedo Texture
}

// NewIsotropic creates a new volume phase material
func NewIsotropic(albedo Texture) Isotropic {
	return Isotropic{Albedo: albedo}
}

func (Isotropic) isMaterial() {}

// Scatter picks a uniform direction on the unit sphere from the scattering
// point, nudged off it like every other scatter origin
func (i Isotropic) Scatter(ray core.Ray, hit geometry.Intersection, sampler core.Sampler) (ScatterResult, bool) {
	origin := offsetOrigin(hit.Point(ray), hit.FacingNormal(ray), 1)
	return ScatterResult{
		Scattered:   core.NewRay(origin, core.SampleOnUnitSphere(sampler.Get2D())),
		Attenuation: i.Albedo.Sample(ray, hit),
	}, true
}

// Emitted returns black
func (Isotropic) Emitted(core.Ray, geometry.Intersection) core.Color {
	return core.Black
}
