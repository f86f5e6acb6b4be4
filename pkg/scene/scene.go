package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// DefaultBackground is the sky gradient used when a scene does not choose one:
// blue below the horizon, white at it, blue overhead
func DefaultBackground() core.Gradient {
	blue := core.NewColor(0.4, 0.5, 1)
	return core.NewGradient(blue, core.White, blue)
}

// Scene contains all the elements needed for rendering.
// It is built once and read concurrently by every render worker.
type Scene struct {
	Objects    []Object
	Background core.Gradient

	bvh       *BVH
	important []int
}

// New builds the acceleration structure and the important object list
func New(objects []Object, background core.Gradient) *Scene {
	s := &Scene{
		Objects:    objects,
		Background: background,
		bvh:        NewBVH(objects),
	}

	for i, object := range objects {
		if !object.Important {
			continue
		}
		// Only shapes that can be sampled by direction take part in importance sampling
		if _, ok := object.Shape.(geometry.DirectionSampler); ok {
			s.important = append(s.important, i)
		}
	}
	return s
}

// NearestHit returns the nearest object hit by ray
func (s *Scene) NearestHit(ray core.Ray, sampler core.Sampler) (Hit, bool) {
	return s.bvh.NearestHit(ray, sampler)
}

// BackgroundColor returns the background seen along direction
func (s *Scene) BackgroundColor(direction core.Vec3) core.Color {
	return s.Background.At((direction.Normalize().Y + 1) / 2)
}

// Important returns the indices of objects eligible for importance sampling
func (s *Scene) Important() []int {
	return s.important
}

// BVH returns the scene's acceleration structure
func (s *Scene) BVH() *BVH {
	return s.bvh
}

// SampleImportant picks one important object other than exclude and returns
// a direction from `from` toward it. It reports false when no object qualifies.
func (s *Scene) SampleImportant(from core.Vec3, exclude int, sampler core.Sampler) (core.Vec3, bool) {
	count := s.ImportantCount(exclude)
	if count == 0 {
		return core.Vec3{}, false
	}

	pick := min(int(sampler.Get1D()*float64(count)), count-1)
	for _, idx := range s.important {
		if idx == exclude {
			continue
		}
		if pick == 0 {
			object := s.Objects[idx]
			sampleable := object.Shape.(geometry.DirectionSampler)
			return sampleable.SampleDirection(object.Transform, from, sampler.Get2D()), true
		}
		pick--
	}
	return core.Vec3{}, false
}

// ImportantPDF returns the solid-angle density of SampleImportant producing dir
func (s *Scene) ImportantPDF(from, dir core.Vec3, exclude int) float64 {
	count := s.ImportantCount(exclude)
	if count == 0 {
		return 0
	}

	var sum float64
	for _, idx := range s.important {
		if idx == exclude {
			continue
		}
		object := s.Objects[idx]
		sum += object.Shape.(geometry.DirectionSampler).PDF(object.Transform, from, dir)
	}
	return sum / float64(count)
}

// ImportantCount returns how many important objects remain once exclude is left out
func (s *Scene) ImportantCount(exclude int) int {
	count := len(s.important)
	for _, idx := range s.important {
		if idx == exclude {
			count--
			break
		}
	}
	return count
}

// GetPrimitiveCount returns the number of objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Objects)
}
