package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

const (
	// DefaultMaxDepth bounds the number of path segments traced per sample
	DefaultMaxDepth = 10
	// DefaultThreshold stops a path once its attenuation channels sum below it
	DefaultThreshold = 0.0003
)

// PathTracer implements unidirectional path tracing as an iterative loop
type PathTracer struct {
	MaxDepth           int     // Maximum path segments per sample
	Threshold          float64 // Early termination bound on the summed attenuation
	ImportanceSampling bool    // Steer half of the diffuse bounces toward important objects
}

// NewPathTracer creates a path tracer with the default termination threshold
func NewPathTracer(maxDepth int, importanceSampling bool) *PathTracer {
	return &PathTracer{
		MaxDepth:           maxDepth,
		Threshold:          DefaultThreshold,
		ImportanceSampling: importanceSampling,
	}
}

// TraceStats describes how a single path ended
type TraceStats struct {
	Bounces int  // Nearest-hit queries made, never more than MaxDepth
	Escaped bool // The path left the scene and picked up the background
}

// Trace estimates the radiance arriving along ray
func (pt *PathTracer) Trace(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Color {
	color, _ := pt.TraceWithStats(ray, s, sampler)
	return color
}

// TraceWithStats is Trace that also reports how the path ended
func (pt *PathTracer) TraceWithStats(ray core.Ray, s *scene.Scene, sampler core.Sampler) (core.Color, TraceStats) {
	var stats TraceStats
	accumulated := core.Black
	attenuation := core.White

	for stats.Bounces < pt.MaxDepth {
		stats.Bounces++

		hit, ok := s.NearestHit(ray, sampler)
		if !ok {
			accumulated = accumulated.Add(attenuation.Mul(s.BackgroundColor(ray.Direction)).Sanitize())
			stats.Escaped = true
			break
		}

		object := hit.Object
		accumulated = accumulated.Add(attenuation.Mul(object.Material.Emitted(ray, hit.Intersection)).Sanitize())

		scatter, scattered := object.Material.Scatter(ray, hit.Intersection, sampler)
		if !scattered {
			break
		}

		if pt.ImportanceSampling && scatter.IsDiffuse() {
			if scatter, ok = pt.steerTowardImportant(scatter, s, hit.Index, sampler); !ok {
				break
			}
		}

		// A non-finite channel carries nothing further down the path
		attenuation = attenuation.Mul(scatter.Attenuation).Sanitize()
		ray = scatter.Scattered

		// Remaining contribution is negligible
		if attenuation.Sum() < pt.Threshold {
			break
		}
	}

	return accumulated, stats
}

// steerTowardImportant mixes the cosine lobe with directions toward the scene's
// important objects, choosing each half the time, and reweights the attenuation
// by the ratio of the lobe density to the mixture density. It reports false when
// the chosen direction carries no energy.
func (pt *PathTracer) steerTowardImportant(scatter material.ScatterResult, s *scene.Scene, exclude int, sampler core.Sampler) (material.ScatterResult, bool) {
	if s.ImportantCount(exclude) == 0 {
		return scatter, true
	}

	origin := scatter.Scattered.Origin
	direction := scatter.Scattered.Direction
	if sampler.Get1D() < 0.5 {
		if toward, ok := s.SampleImportant(origin, exclude, sampler); ok {
			direction = toward
		}
	}

	cosine := direction.Normalize().Dot(scatter.Normal)
	if cosine <= 0 {
		return scatter, false
	}

	lobePDF := cosine / math.Pi
	pdf := 0.5*lobePDF + 0.5*s.ImportantPDF(origin, direction, exclude)
	if pdf <= 0 {
		return scatter, false
	}

	scatter.Scattered = core.NewRay(origin, direction)
	scatter.Attenuation = scatter.Attenuation.Scale(lobePDF / pdf)
	scatter.PDF = pdf
	return scatter, true
}
