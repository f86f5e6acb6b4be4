package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		expected Vec3
	}{
		{"unit x", NewVec3(3, 0, 0), NewVec3(1, 0, 0)},
		{"diagonal", NewVec3(1, 1, 0), NewVec3(math.Sqrt2/2, math.Sqrt2/2, 0)},
		{"zero stays zero", Vec3{}, Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.vector.Normalize()
			assert.True(t, result.Equals(tt.expected, 1e-12), "expected %v, got %v", tt.expected, result)
		})
	}
}

func TestVec3_CrossIsOrthogonal(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(-2, 0.5, 4)
	c := a.Cross(b)

	assert.InDelta(t, 0, c.Dot(a), 1e-12)
	assert.InDelta(t, 0, c.Dot(b), 1e-12)
	assert.Equal(t, NewVec3(0, 0, 1), NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)))
}

func TestVec3_WithAxis(t *testing.T) {
	v := NewVec3(1, 2, 3)
	assert.Equal(t, NewVec3(9, 2, 3), v.WithAxis(0, 9))
	assert.Equal(t, NewVec3(1, 9, 3), v.WithAxis(1, 9))
	assert.Equal(t, NewVec3(1, 2, 9), v.WithAxis(2, 9))
	assert.Equal(t, NewVec3(1, 2, 3), v, "receiver is unchanged")
}

func TestVec3_Axis(t *testing.T) {
	v := NewVec3(1, 2, 3)
	assert.Equal(t, 1.0, v.Axis(0))
	assert.Equal(t, 2.0, v.Axis(1))
	assert.Equal(t, 3.0, v.Axis(2))
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 0, 0), NewVec3(0, 2, 0))
	assert.Equal(t, NewVec3(1, 3, 0), ray.At(1.5))
	assert.Equal(t, ray.Origin, ray.At(0))
}
