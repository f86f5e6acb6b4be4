package scene

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

func grey() material.Material {
	return material.NewLambertian(material.NewSolid(0.5, 0.5, 0.5))
}

// randomObjects scatters spheres, cuboids and quads through a 20-unit cube
func randomObjects(random *rand.Rand, count int) []Object {
	objects := make([]Object, 0, count)
	for i := 0; i < count; i++ {
		position := core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		var shape geometry.Shape
		switch i % 3 {
		case 0:
			shape = geometry.NewSphere(0.2 + random.Float64())
		case 1:
			shape = geometry.NewCuboid(core.NewVec3(0.1+random.Float64(), 0.1+random.Float64(), 0.1+random.Float64()))
		default:
			shape = geometry.NewQuad(core.NewVec3(1+random.Float64(), 0, 0), core.NewVec3(0, 0.5, 1+random.Float64()))
		}
		object := NewObject(shape, grey()).At(position)
		if i%4 == 0 {
			object = object.Rotated(core.NewVec3(random.Float64(), 1, random.Float64()), random.Float64()*3)
		}
		objects = append(objects, object)
	}
	return objects
}

func TestBVH_MatchesLinearScan(t *testing.T) {
	for _, count := range []int{1, 3, 4, 5, 17, 200} {
		random := rand.New(rand.NewSource(int64(count)))
		objects := randomObjects(random, count)
		bvh := NewBVH(objects)
		sampler := core.NewSeededSampler(7)

		for i := 0; i < 500; i++ {
			origin := core.NewVec3(random.Float64()*30-15, random.Float64()*30-15, random.Float64()*30-15)
			direction := core.SampleOnUnitSphere(core.NewVec2(random.Float64(), random.Float64()))
			ray := core.NewRay(origin, direction)

			got, gotOK := bvh.NearestHit(ray, sampler)
			want, wantOK := LinearNearestHit(objects, ray, sampler)

			require.Equal(t, wantOK, gotOK, "count=%d ray=%d", count, i)
			if wantOK {
				assert.InDelta(t, want.Intersection.T, got.Intersection.T, 1e-9, "count=%d ray=%d", count, i)
				assert.Equal(t, want.Index, got.Index, "count=%d ray=%d", count, i)
			}
		}
	}
}

func TestBVH_Empty(t *testing.T) {
	bvh := NewBVH(nil)

	_, ok := bvh.NearestHit(core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0)), core.NewSeededSampler(1))
	assert.False(t, ok)

	_, ok = bvh.Bounds()
	assert.False(t, ok)
	assert.Equal(t, BVHStats{}, bvh.Stats())
}

func TestBVH_LeafThresholdBoundary(t *testing.T) {
	row := func(n int) []Object {
		objects := make([]Object, n)
		for i := range objects {
			objects[i] = NewObject(geometry.NewSphere(0.4), grey()).At(core.NewVec3(float64(i), 0, 0))
		}
		return objects
	}

	stats := NewBVH(row(leafThreshold)).Stats()
	assert.Equal(t, 1, stats.TotalNodes, "threshold objects fit in one leaf")
	assert.Equal(t, 1, stats.LeafNodes)

	stats = NewBVH(row(leafThreshold + 1)).Stats()
	assert.Greater(t, stats.TotalNodes, 1, "one more object forces a split")
	assert.GreaterOrEqual(t, stats.LeafNodes, 2)
	assert.Equal(t, leafThreshold+1, stats.TotalObjects)
}

func TestBVH_BalancedDepth(t *testing.T) {
	objects := randomObjects(rand.New(rand.NewSource(3)), 1024)
	stats := NewBVH(objects).Stats()

	// Median splits halve the count at every level: 1024 -> 4 takes 8 levels
	assert.Equal(t, 8, stats.MaxDepth)
	assert.Equal(t, 256, stats.LeafNodes)
	assert.Equal(t, 1024, stats.TotalObjects)
}

func TestBVH_BoundsContainObjects(t *testing.T) {
	objects := randomObjects(rand.New(rand.NewSource(11)), 50)
	bounds, ok := NewBVH(objects).Bounds()
	require.True(t, ok)

	for _, object := range objects {
		box := object.BoundingBox()
		assert.True(t, bounds.Contains(box.Min), "min %v outside %v", box.Min, bounds)
		assert.True(t, bounds.Contains(box.Max), "max %v outside %v", box.Max, bounds)
	}
}

func TestBVH_NearestAmongOverlapping(t *testing.T) {
	// Nested spheres share a center; the ray from outside must report the outer shell
	objects := []Object{
		NewObject(geometry.NewSphere(0.5), grey()),
		NewObject(geometry.NewSphere(2), grey()),
		NewObject(geometry.NewSphere(1), grey()),
	}
	hit, ok := NewBVH(objects).NearestHit(core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1)), core.NewSeededSampler(1))
	require.True(t, ok)
	assert.Equal(t, 1, hit.Index)
	assert.InDelta(t, 8.0, hit.Intersection.T, 1e-9)
}
