package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Trace estimates the radiance arriving along ray. Implementations must be
	// safe for concurrent use; all randomness comes from sampler.
	Trace(ray core.Ray, scene *scene.Scene, sampler core.Sampler) core.Color
}
