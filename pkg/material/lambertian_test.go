package material

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// hitAt builds an intersection for a ray that reaches the origin at t=1
func hitAt(normal core.Vec3) (core.Ray, geometry.Intersection) {
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	return ray, geometry.Intersection{T: 1, Normal: normal, UV: core.NewVec2(0.25, 0.5), HasUV: true}
}

func TestLambertian_PDFCalculation(t *testing.T) {
	lambertian := NewLambertian(NewSolid(0.8, 0.8, 0.8))
	sampler := core.NewSeededSampler(42)
	ray, hit := hitAt(core.NewVec3(0, 1, 0))

	for i := 0; i < 100; i++ {
		scatter, ok := lambertian.Scatter(ray, hit, sampler)
		require.True(t, ok, "Lambertian should always scatter")

		cosTheta := scatter.Scattered.Direction.Normalize().Dot(core.NewVec3(0, 1, 0))
		assert.InDelta(t, cosTheta/math.Pi, scatter.PDF, 1e-10)
		assert.GreaterOrEqual(t, cosTheta, 0.0)
		assert.True(t, scatter.IsDiffuse())
	}
}

func TestLambertian_AttenuationNeverExceedsAlbedo(t *testing.T) {
	albedos := []Texture{
		NewSolid(0.5, 0.7, 0.9),
		NewSolid(1, 1, 1),
		NewCheckerboard(NewSolid(0.1, 0.2, 0.3), NewSolid(0.9, 0.8, 0.7), 10),
		NewNoise(1, core.NewVec3(4, 4, 4), core.NewColor(0, 0, 0), core.NewColor(1, 0.5, 0.2)),
	}
	sampler := core.NewSeededSampler(7)

	for _, albedo := range albedos {
		lambertian := NewLambertian(albedo)
		for i := 0; i < 200; i++ {
			p := sampler.Get3D().Multiply(10)
			ray := core.NewRay(p.Add(core.NewVec3(0, 1, 0)), core.NewVec3(0, -1, 0))
			hit := geometry.Intersection{T: 1, Normal: core.NewVec3(0, 1, 0)}

			expected := albedo.Sample(ray, hit)
			scatter, ok := lambertian.Scatter(ray, hit, sampler)
			require.True(t, ok)
			assert.LessOrEqual(t, scatter.Attenuation.R, expected.R)
			assert.LessOrEqual(t, scatter.Attenuation.G, expected.G)
			assert.LessOrEqual(t, scatter.Attenuation.B, expected.B)
		}
	}
}

func TestLambertian_BackFaceScattersOnIncidentSide(t *testing.T) {
	lambertian := NewLambertian(NewSolid(0.5, 0.5, 0.5))
	sampler := core.NewSeededSampler(3)
	// Outward normal points away from the incoming ray's side
	ray, hit := hitAt(core.NewVec3(0, -1, 0))

	for i := 0; i < 100; i++ {
		scatter, ok := lambertian.Scatter(ray, hit, sampler)
		require.True(t, ok)
		assert.Greater(t, scatter.Scattered.Direction.Y, -1e-12)
		assert.InDelta(t, AntiAcne, scatter.Scattered.Origin.Y, 1e-12)
	}
}

func TestImportantByDefault(t *testing.T) {
	assert.True(t, ImportantByDefault(NewDiffuseLight(NewSolid(1, 1, 1))))
	assert.True(t, ImportantByDefault(NewDielectric(1.5)))
	assert.False(t, ImportantByDefault(NewLambertian(NewSolid(1, 1, 1))))
	assert.False(t, ImportantByDefault(NewMetal(NewSolid(1, 1, 1), 0)))
	assert.False(t, ImportantByDefault(NewIsotropic(NewSolid(1, 1, 1))))
}
