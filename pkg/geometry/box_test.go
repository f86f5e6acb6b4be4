package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestCuboid_Intersect(t *testing.T) {
	box := NewCuboid(core.NewVec3(1, 2, 3))

	tests := []struct {
		name       string
		tf         core.Transform
		ray        core.Ray
		wantHit    bool
		wantT      float64
		wantNormal core.Vec3
	}{
		{
			name:       "front face",
			tf:         core.Identity(),
			ray:        core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1)),
			wantHit:    true,
			wantT:      7,
			wantNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:       "side face",
			tf:         core.Identity(),
			ray:        core.NewRay(core.NewVec3(-5, 0.5, 0), core.NewVec3(1, 0, 0)),
			wantHit:    true,
			wantT:      4,
			wantNormal: core.NewVec3(-1, 0, 0),
		},
		{
			name:       "inside exits through top",
			tf:         core.Identity(),
			ray:        core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)),
			wantHit:    true,
			wantT:      2,
			wantNormal: core.NewVec3(0, 1, 0),
		},
		{
			name:    "parallel outside slab",
			tf:      core.Identity(),
			ray:     core.NewRay(core.NewVec3(5, 0, 10), core.NewVec3(0, 0, -1)),
			wantHit: false,
		},
		{
			name:       "rotated 90 degrees about y",
			tf:         core.NewTransform(core.NewVec3(0, 0, -10), core.NewVec3(0, 1, 0), math.Pi/2),
			ray:        core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)),
			wantHit:    true,
			wantT:      9, // local x half extent now lies along world z
			wantNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := box.Intersect(tt.tf, tt.ray, nil)
			require.Equal(t, tt.wantHit, ok)
			if !tt.wantHit {
				return
			}
			assert.InDelta(t, tt.wantT, hit.T, 1e-9)
			assert.True(t, hit.Normal.Equals(tt.wantNormal, 1e-9), "normal %v", hit.Normal)
		})
	}
}

func TestCuboid_BoundingBoxContainsRotatedCorners(t *testing.T) {
	box := NewCuboid(core.NewVec3(1, 1, 1))
	tf := core.NewTransform(core.NewVec3(0, 3, 0), core.NewVec3(1, 1, 0), 0.6)
	bounds := box.BoundingBox(tf)

	for _, corner := range core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1)).Corners() {
		assert.True(t, bounds.Expand(1e-9).Contains(tf.ApplyPoint(corner)))
	}
}

func TestCuboid_SampleDirectionLandsOnSurface(t *testing.T) {
	box := NewCuboid(core.NewVec3(1, 0.5, 2))
	tf := core.NewTransform(core.NewVec3(0, 6, 0), core.NewVec3(0, 1, 0), 0.7)
	from := core.NewVec3(0.5, 0, 0.5)
	sampler := core.NewSeededSampler(12)

	for i := 0; i < 500; i++ {
		dir := box.SampleDirection(tf, from, sampler.Get2D())
		local := tf.InversePoint(from.Add(dir))

		// The point sits on a face: one coordinate at its half extent, the others within
		onFace := false
		for axis := 0; axis < 3; axis++ {
			half := box.HalfExtents.Axis(axis)
			assert.LessOrEqual(t, math.Abs(local.Axis(axis)), half+1e-9)
			if math.Abs(math.Abs(local.Axis(axis))-half) < 1e-9 {
				onFace = true
			}
		}
		assert.True(t, onFace, "sample %v is inside the box", local)
		assert.Greater(t, box.PDF(tf, from, dir), 0.0)
	}
}

func TestCuboid_DirectionPDF(t *testing.T) {
	box := NewCuboid(core.NewVec3(1, 1, 1))
	tf := core.Translate(core.NewVec3(0, 4, 0))
	from := core.Vec3{}

	// Straight up crosses the bottom face at distance 3 and the top at 5; area 24
	assert.InDelta(t, (9.0+25.0)/24, box.PDF(tf, from, core.NewVec3(0, 1, 0)), 1e-9)
	assert.InDelta(t, (9.0+25.0)/24, box.PDF(tf, from, core.NewVec3(0, 7, 0)), 1e-9, "length of dir does not matter")
	assert.Equal(t, 0.0, box.PDF(tf, from, core.NewVec3(0, -1, 0)))
	assert.Equal(t, 0.0, NewCuboid(core.Vec3{}).PDF(tf, from, core.NewVec3(0, 1, 0)))
}

func TestCuboid_DirectionPDFIntegratesToOne(t *testing.T) {
	box := NewCuboid(core.NewVec3(1, 0.5, 1.5))
	tf := core.NewTransform(core.NewVec3(0, 2.2, 0), core.NewVec3(1, 0, 1), 0.4)
	sampler := core.NewSeededSampler(21)

	// Averaging PDF·4π over uniform directions estimates its integral over the sphere
	const n = 400000
	sum := 0.0
	for i := 0; i < n; i++ {
		dir := core.SampleOnUnitSphere(sampler.Get2D())
		sum += box.PDF(tf, core.Vec3{}, dir)
	}
	assert.InDelta(t, 1.0, sum*4*math.Pi/n, 0.04)
}
