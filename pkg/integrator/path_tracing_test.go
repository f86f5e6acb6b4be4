package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// createLitScene creates a diffuse unit sphere at the origin lit by an emissive
// unit sphere three units above its top, against a black background
func createLitScene() *scene.Scene {
	objects := []scene.Object{
		scene.NewObject(geometry.NewSphere(1), material.NewLambertian(material.NewSolid(0.5, 0.5, 0.5))),
		scene.NewObject(geometry.NewSphere(1), material.NewDiffuseLight(material.NewSolid(15, 15, 15))).At(core.NewVec3(0, 4, 0)),
	}
	return scene.New(objects, core.NewGradient())
}

func TestPathTracer_EmptySceneIsBackground(t *testing.T) {
	s := scene.New(nil, scene.DefaultBackground())
	tracer := NewPathTracer(DefaultMaxDepth, true)
	sampler := core.NewSeededSampler(3)
	random := rand.New(rand.NewSource(9))

	for i := 0; i < 200; i++ {
		direction := core.NewVec3(random.Float64()*2-1, random.Float64()*2-1, random.Float64()*2-1).Multiply(random.Float64() * 10)
		ray := core.NewRay(core.NewVec3(random.Float64(), random.Float64(), random.Float64()), direction)

		expected := s.Background.At((direction.Normalize().Y + 1) / 2)
		color, stats := tracer.TraceWithStats(ray, s, sampler)
		assert.Equal(t, expected, color, "ray %d", i)
		assert.Equal(t, 1, stats.Bounces)
		assert.True(t, stats.Escaped)
	}
}

func TestPathTracer_DepthBound(t *testing.T) {
	// A perfect mirror seen from the inside reflects forever
	mirror := scene.New([]scene.Object{
		scene.NewObject(geometry.NewSphere(5), material.NewMetal(material.NewSolid(1, 1, 1), 0)),
	}, scene.DefaultBackground())
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0.3, 0.2, 1))

	tests := []struct {
		name     string
		maxDepth int
	}{
		{"zero depth", 0},
		{"single bounce", 1},
		{"default depth", DefaultMaxDepth},
		{"deep", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer := NewPathTracer(tt.maxDepth, false)
			color, stats := tracer.TraceWithStats(ray, mirror, core.NewSeededSampler(1))

			assert.Equal(t, tt.maxDepth, stats.Bounces)
			assert.False(t, stats.Escaped)
			assert.Equal(t, core.Black, color)
		})
	}
}

func TestPathTracer_ThresholdTerminates(t *testing.T) {
	black := scene.New([]scene.Object{
		scene.NewObject(geometry.NewSphere(1), material.NewLambertian(material.NewSolid(0, 0, 0))),
	}, scene.DefaultBackground())
	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))

	color, stats := NewPathTracer(DefaultMaxDepth, false).TraceWithStats(ray, black, core.NewSeededSampler(1))
	assert.Equal(t, 1, stats.Bounces)
	assert.Equal(t, core.Black, color)
}

func TestPathTracer_EmitterStopsPath(t *testing.T) {
	s := createLitScene()
	ray := core.NewRay(core.NewVec3(0, 10, 0), core.NewVec3(0, -1, 0))

	color, stats := NewPathTracer(DefaultMaxDepth, false).TraceWithStats(ray, s, core.NewSeededSampler(1))
	assert.Equal(t, 1, stats.Bounces)
	assert.Equal(t, core.NewColor(15, 15, 15), color)
}

func TestPathTracer_DirectIlluminationConverges(t *testing.T) {
	// The ray grazes into the top of the diffuse sphere at (0, 1, 0). The light
	// subtends sin^2 = 1/9 of the cosine-weighted hemisphere there, so the
	// reflected radiance is albedo * emission / 9.
	s := createLitScene()
	ray := core.NewRay(core.NewVec3(3, 1.5, 0), core.NewVec3(-3, -0.5, 0))
	expected := 0.5 * 15.0 / 9.0

	tests := []struct {
		name       string
		importance bool
	}{
		{"cosine sampling", false},
		{"importance sampling", true},
	}

	const samples = 40000
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer := NewPathTracer(DefaultMaxDepth, tt.importance)
			sampler := core.NewSeededSampler(2024)

			sum := core.Black
			for i := 0; i < samples; i++ {
				sum = sum.Add(tracer.Trace(ray, s, sampler))
			}
			mean := sum.Scale(1.0 / samples)

			assert.InDelta(t, expected, mean.R, expected*0.05)
			assert.InDelta(t, mean.R, mean.G, 1e-9)
			assert.InDelta(t, mean.R, mean.B, 1e-9)
		})
	}
}

func TestPathTracer_SeededDeterminism(t *testing.T) {
	preset, err := scene.Load("cornell")
	require.NoError(t, err)
	camera, err := geometry.NewCamera(preset.Camera)
	require.NoError(t, err)

	tracer := NewPathTracer(DefaultMaxDepth, true)
	render := func() []core.Color {
		sampler := core.NewSeededSampler(77)
		var colors []core.Color
		for y := 0; y < camera.Height(); y += 40 {
			for x := 0; x < camera.Width(); x += 40 {
				colors = append(colors, tracer.Trace(camera.PixelRay(x, y, sampler), preset.Scene, sampler))
			}
		}
		return colors
	}

	assert.Equal(t, render(), render())
}

func TestPathTracer_NeverNaN(t *testing.T) {
	preset, err := scene.Load("default")
	require.NoError(t, err)
	camera, err := geometry.NewCamera(preset.Camera)
	require.NoError(t, err)

	tracer := NewPathTracer(DefaultMaxDepth, true)
	sampler := core.NewSeededSampler(5)
	for i := 0; i < 2000; i++ {
		x, y := i%camera.Width(), (i*7)%camera.Height()
		color := tracer.Trace(camera.PixelRay(x, y, sampler), preset.Scene, sampler)
		assert.Equal(t, color, color.Sanitize(), "pixel (%d,%d)", x, y)
	}
}

func TestPathTracer_NonFiniteChannelIsDropped(t *testing.T) {
	// The red albedo channel is NaN; green and blue still see the white sky
	floor := material.NewLambertian(material.NewSolid(math.NaN(), 0.5, 0.5))
	s := scene.New([]scene.Object{
		scene.NewObject(geometry.NewSphere(1), floor),
	}, core.NewGradient(core.White))

	tracer := NewPathTracer(DefaultMaxDepth, false)
	sampler := core.NewSeededSampler(11)
	ray := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))

	for i := 0; i < 50; i++ {
		color, stats := tracer.TraceWithStats(ray, s, sampler)
		require.True(t, stats.Escaped)
		assert.Equal(t, 0.0, color.R)
		assert.InDelta(t, 0.5, color.G, 1e-12)
		assert.InDelta(t, 0.5, color.B, 1e-12)
	}
}

func TestPathTracer_InfiniteEmissionIsDropped(t *testing.T) {
	light := material.NewDiffuseLight(material.NewSolid(math.Inf(1), 2, 3))
	s := scene.New([]scene.Object{
		scene.NewObject(geometry.NewSphere(1), light),
	}, core.NewGradient())

	tracer := NewPathTracer(DefaultMaxDepth, false)
	color := tracer.Trace(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), s, core.NewSeededSampler(1))
	assert.Equal(t, core.NewColor(0, 2, 3), color)
}
