package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Object places a shape with a material in the world
type Object struct {
	Shape     geometry.Shape
	Material  material.Material
	Transform core.Transform
	Important bool // Sampled directly by the importance-sampling integrator
}

// NewObject creates an object at the origin. Lights and dielectrics are
// marked important by default.
func NewObject(shape geometry.Shape, mat material.Material) Object {
	return Object{
		Shape:     shape,
		Material:  mat,
		Transform: core.Identity(),
		Important: material.ImportantByDefault(mat),
	}
}

// At returns a copy of the object translated to position
func (o Object) At(position core.Vec3) Object {
	o.Transform.Translation = position
	return o
}

// Rotated returns a copy of the object rotated about axis by angle radians,
// keeping its current position
func (o Object) Rotated(axis core.Vec3, angle float64) Object {
	rotation := core.NewTransform(core.Vec3{}, axis, angle)
	position := o.Transform.Translation
	o.Transform.Translation = core.Vec3{}
	o.Transform = o.Transform.Then(rotation)
	o.Transform.Translation = position
	return o
}

// WithTransform returns a copy of the object using tf
func (o Object) WithTransform(tf core.Transform) Object {
	o.Transform = tf
	return o
}

// WithImportance returns a copy of the object with the importance flag set
func (o Object) WithImportance(important bool) Object {
	o.Important = important
	return o
}

// BoundingBox returns the world-space bounds of the object
func (o Object) BoundingBox() core.AABB {
	return o.Shape.BoundingBox(o.Transform)
}

// Intersect tests the ray against the object's shape
func (o Object) Intersect(ray core.Ray, sampler core.Sampler) (geometry.Intersection, bool) {
	return o.Shape.Intersect(o.Transform, ray, sampler)
}
