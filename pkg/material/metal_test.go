package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

func TestMetal_NormalIncidenceMirror(t *testing.T) {
	metal := NewMetal(NewSolid(0.9, 0.9, 0.9), 0)
	ray, hit := hitAt(core.NewVec3(0, 1, 0))

	scatter, ok := metal.Scatter(ray, hit, core.NewSeededSampler(1))
	require.True(t, ok)
	assert.Equal(t, core.NewVec3(0, 1, 0), scatter.Scattered.Direction)
	assert.Equal(t, core.NewColor(0.9, 0.9, 0.9), scatter.Attenuation)
	assert.False(t, scatter.IsDiffuse())
}

func TestMetal_ObliqueReflection(t *testing.T) {
	metal := NewMetal(NewSolid(1, 1, 1), 0)
	ray := core.NewRay(core.NewVec3(-1, 1, 0), core.NewVec3(1, -1, 0))
	hit := geometry.Intersection{T: 1, Normal: core.NewVec3(0, 1, 0)}

	scatter, ok := metal.Scatter(ray, hit, core.NewSeededSampler(1))
	require.True(t, ok)
	assert.True(t, scatter.Scattered.Direction.Equals(core.NewVec3(1, 1, 0).Normalize(), 1e-12))
}

func TestMetal_FuzzClampedAndRejectsIntoSurface(t *testing.T) {
	assert.Equal(t, 1.0, NewMetal(NewSolid(1, 1, 1), 5).Fuzz)
	assert.Equal(t, 0.0, NewMetal(NewSolid(1, 1, 1), -1).Fuzz)

	// Grazing incidence with full fuzz must sometimes push the reflection below the surface
	metal := NewMetal(NewSolid(1, 1, 1), 1)
	ray := core.NewRay(core.NewVec3(-1, 0.01, 0), core.NewVec3(1, -0.01, 0))
	hit := geometry.Intersection{T: 1, Normal: core.NewVec3(0, 1, 0)}
	sampler := core.NewSeededSampler(2)

	rejected := 0
	for i := 0; i < 1000; i++ {
		scatter, ok := metal.Scatter(ray, hit, sampler)
		if !ok {
			rejected++
			continue
		}
		assert.Greater(t, scatter.Scattered.Direction.Dot(hit.Normal), 0.0)
	}
	assert.Greater(t, rejected, 0)
}
