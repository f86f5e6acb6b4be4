package renderer

import (
	"fmt"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// BenchResult reports the cost of rendering a random subset of pixels
type BenchResult struct {
	Pixels          int
	Elapsed         time.Duration
	PixelsPerSecond float64
	Estimate        time.Duration // Projected single-threaded time for the full image
}

// Bench renders pixels randomly chosen pixels on the calling goroutine and
// projects the time a full single-threaded render would take
func Bench(camera *geometry.Camera, tracer integrator.Integrator, s *scene.Scene, pixels int, seed int64) BenchResult {
	sampler := core.NewSeededSampler(seed)
	start := time.Now()
	for i := 0; i < pixels; i++ {
		x := min(int(sampler.Get1D()*float64(camera.Width())), camera.Width()-1)
		y := min(int(sampler.Get1D()*float64(camera.Height())), camera.Height()-1)
		CapturePixel(camera, x, y, tracer, s, sampler)
	}
	elapsed := time.Since(start)

	result := BenchResult{Pixels: pixels, Elapsed: elapsed}
	if pixels > 0 {
		perPixel := elapsed / time.Duration(pixels)
		result.Estimate = perPixel * time.Duration(camera.Width()*camera.Height())
	}
	if elapsed > 0 {
		result.PixelsPerSecond = float64(pixels) / elapsed.Seconds()
	}
	return result
}

var siPrefixes = []struct {
	scale float64
	name  string
}{
	{1e24, "yotta"},
	{1e21, "zetta"},
	{1e18, "exa"},
	{1e15, "peta"},
	{1e12, "tera"},
	{1e9, "giga"},
	{1e6, "mega"},
	{1e3, "kilo"},
}

var siFractions = []struct {
	scale float64
	name  string
}{
	{1e-24, "yocto"},
	{1e-21, "zepto"},
	{1e-18, "atto"},
	{1e-15, "femto"},
	{1e-12, "pico"},
	{1e-9, "nano"},
	{1e-6, "micro"},
	{1e-3, "milli"},
}

// FormatRate formats a rate with two decimals and an SI prefix, e.g.
// "1.50 mega". Rates in [1, 1000) and zero carry no prefix.
func FormatRate(rate float64) string {
	for _, p := range siPrefixes {
		if rate >= p.scale {
			return fmt.Sprintf("%.2f %s", rate/p.scale, p.name)
		}
	}
	if rate >= 1 || rate <= 0 {
		return fmt.Sprintf("%.2f ", rate)
	}
	for _, p := range siFractions {
		if rate < p.scale*1000 {
			return fmt.Sprintf("%.2f %s", rate/p.scale, p.name)
		}
	}
	return fmt.Sprintf("%.2f ", rate)
}
