package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// AntiAcne is the distance scattered rays are pushed off the surface
const AntiAcne = 0.001

// Material is the closed set of surface and volume responses.
// Variants: Lambertian, Metal, Dielectric, DiffuseLight, Isotropic.
type Material interface {
	// Scatter returns the next ray of the path, or false when the path ends here
	Scatter(ray core.Ray, hit geometry.Intersection, sampler core.Sampler) (ScatterResult, bool)
	// Emitted returns radiance emitted toward the incoming ray
	Emitted(ray core.Ray, hit geometry.Intersection) core.Color

	isMaterial()
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray   // The scattered ray
	Attenuation core.Color // Color attenuation
	PDF         float64    // Cosine lobe density for diffuse scattering, 0 for specular and volume events
	Normal      core.Vec3  // Facing normal used for the diffuse lobe
}

// IsDiffuse reports whether the scatter came from a cosine-weighted lobe
// that may be re-sampled toward important objects
func (s ScatterResult) IsDiffuse() bool {
	return s.PDF > 0
}

// ImportantByDefault reports whether objects with m are sampled directly
// by the importance-sampling integrator unless the scene says otherwise
func ImportantByDefault(m Material) bool {
	switch m.(type) {
	case DiffuseLight, *DiffuseLight, Dielectric, *Dielectric:
		return true
	default:
		return false
	}
}

// offsetOrigin nudges p along n to keep the next ray off the surface it left
func offsetOrigin(p, n core.Vec3, sign float64) core.Vec3 {
	return p.Add(n.Multiply(sign * AntiAcne))
}
