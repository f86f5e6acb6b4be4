package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// SamplePixel averages camera.Samples() jittered traces through pixel (x, y)
// and returns the linear color
func SamplePixel(camera *geometry.Camera, x, y int, tracer integrator.Integrator, s *scene.Scene, sampler core.Sampler) core.Color {
	var ps PixelStats
	for i := 0; i < camera.Samples(); i++ {
		ps.AddSample(tracer.Trace(camera.PixelRay(x, y, sampler), s, sampler))
	}
	return ps.GetColor()
}

// CapturePixel renders pixel (x, y) to display color
func CapturePixel(camera *geometry.Camera, x, y int, tracer integrator.Integrator, s *scene.Scene, sampler core.Sampler) color.RGBA {
	return SamplePixel(camera, x, y, tracer, s, sampler).RGBA()
}

// Capture renders the whole image on the calling goroutine, row by row from the top
func Capture(camera *geometry.Camera, tracer integrator.Integrator, s *scene.Scene, sampler core.Sampler) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, camera.Width(), camera.Height()))
	for y := 0; y < camera.Height(); y++ {
		for x := 0; x < camera.Width(); x++ {
			img.SetRGBA(x, y, CapturePixel(camera, x, y, tracer, s, sampler))
		}
	}
	return img
}
