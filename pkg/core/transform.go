package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a rigid isometry: a rotation followed by a translation.
// The zero value is the identity.
type Transform struct {
	Translation Vec3
	Rotation    mgl64.Quat
}

// Identity returns the identity transform
func Identity() Transform {
	return Transform{Rotation: mgl64.QuatIdent()}
}

// Translate returns a pure translation
func Translate(offset Vec3) Transform {
	return Transform{Translation: offset, Rotation: mgl64.QuatIdent()}
}

// NewTransform creates a transform rotating angle radians about axis, then translating
func NewTransform(translation, axis Vec3, angle float64) Transform {
	tf := Translate(translation)
	if axis.IsZero() || angle == 0 {
		return tf
	}
	tf.Rotation = mgl64.QuatRotate(angle, toMgl(axis.Normalize()))
	return tf
}

// FromScaledAxis builds a transform from a rotation vector whose direction is
// the axis and whose length is the angle in radians
func FromScaledAxis(translation, rotation Vec3) Transform {
	return NewTransform(translation, rotation, rotation.Length())
}

// Then returns the transform that applies tf first and next second
func (tf Transform) Then(next Transform) Transform {
	r := next.rotation()
	return Transform{
		Translation: next.ApplyPoint(tf.Translation),
		Rotation:    r.Mul(tf.rotation()).Normalize(),
	}
}

func (tf Transform) rotation() mgl64.Quat {
	q := tf.Rotation
	if q.W == 0 && q.V[0] == 0 && q.V[1] == 0 && q.V[2] == 0 {
		return mgl64.QuatIdent()
	}
	return q
}

// ApplyPoint maps a local point to world space
func (tf Transform) ApplyPoint(p Vec3) Vec3 {
	return tf.ApplyVector(p).Add(tf.Translation)
}

// ApplyVector rotates a local direction into world space
func (tf Transform) ApplyVector(v Vec3) Vec3 {
	return fromMgl(tf.rotation().Rotate(toMgl(v)))
}

// InversePoint maps a world point to local space
func (tf Transform) InversePoint(p Vec3) Vec3 {
	return tf.InverseVector(p.Subtract(tf.Translation))
}

// InverseVector rotates a world direction into local space
func (tf Transform) InverseVector(v Vec3) Vec3 {
	return fromMgl(tf.rotation().Conjugate().Rotate(toMgl(v)))
}

// InverseRay maps a world ray into local space. Direction length is preserved.
func (tf Transform) InverseRay(r Ray) Ray {
	return Ray{Origin: tf.InversePoint(r.Origin), Direction: tf.InverseVector(r.Direction)}
}

// IsIdentity reports whether tf leaves every point unchanged
func (tf Transform) IsIdentity() bool {
	q := tf.rotation()
	return tf.Translation.IsZero() && math.Abs(q.W) == 1
}

func toMgl(v Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) Vec3 {
	return Vec3{v[0], v[1], v[2]}
}
