package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func TestSamplePixel_AveragesSamples(t *testing.T) {
	camera := newTestCamera(t, 4, 4, 16)
	mock := &MockIntegrator{returnColor: core.NewColor(0.5, 0.25, 1)}

	got := SamplePixel(camera, 1, 2, mock, scene.New(nil, scene.DefaultBackground()), core.NewSeededSampler(1))
	assert.Equal(t, 16, mock.callCount)
	assert.InDelta(t, 0.5, got.R, 1e-12)
	assert.InDelta(t, 0.25, got.G, 1e-12)
	assert.InDelta(t, 1.0, got.B, 1e-12)
}

func TestCapturePixel_ClampsToDisplay(t *testing.T) {
	camera := newTestCamera(t, 4, 4, 2)
	mock := &MockIntegrator{returnColor: core.NewColor(7, -1, 0)}

	got := CapturePixel(camera, 0, 0, mock, scene.New(nil, scene.DefaultBackground()), core.NewSeededSampler(1))
	assert.Equal(t, uint8(255), got.R)
	assert.Equal(t, uint8(0), got.G)
	assert.Equal(t, uint8(0), got.B)
	assert.Equal(t, uint8(255), got.A)
}

func TestCapture_ConstantBackground(t *testing.T) {
	background := core.NewColor(0.3, 0.45, 0.6)
	s := scene.New(nil, core.NewGradient(background))
	camera := newTestCamera(t, 6, 5, 3)

	img := Capture(camera, integrator.NewPathTracer(integrator.DefaultMaxDepth, false), s, core.NewSeededSampler(1))

	assert.Equal(t, 6, img.Bounds().Dx())
	assert.Equal(t, 5, img.Bounds().Dy())
	for y := 0; y < 5; y++ {
		for x := 0; x < 6; x++ {
			assert.Equal(t, background.RGBA(), img.RGBAAt(x, y), "pixel (%d,%d)", x, y)
		}
	}
}
