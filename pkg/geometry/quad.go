package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Quad is a parallelogram spanned by U and V from the local origin
type Quad struct {
	U, V core.Vec3
}

// NewQuad creates a new quad from its edge vectors
func NewQuad(u, v core.Vec3) Quad {
	return Quad{U: u, V: v}
}

func (Quad) isShape() {}

// Area returns the surface area of the quad
func (q Quad) Area() float64 {
	return q.U.Cross(q.V).Length()
}

// BoundingBox returns the box around the four corners, padded so planar quads have volume
func (q Quad) BoundingBox(tf core.Transform) core.AABB {
	corners := []core.Vec3{
		tf.ApplyPoint(core.Vec3{}),
		tf.ApplyPoint(q.U),
		tf.ApplyPoint(q.V),
		tf.ApplyPoint(q.U.Add(q.V)),
	}
	return core.NewAABBFromPoints(corners...).Expand(1e-4)
}

// Intersect tests the ray against the quad's plane and then its edges
func (q Quad) Intersect(tf core.Transform, ray core.Ray, _ core.Sampler) (Intersection, bool) {
	local := tf.InverseRay(ray)
	t, alpha, beta, ok := q.intersectLocal(local)
	if !ok {
		return Intersection{}, false
	}

	return Intersection{
		T:      t,
		Normal: tf.ApplyVector(q.U.Cross(q.V).Normalize()).Normalize(),
		UV:     core.NewVec2(alpha, beta),
		HasUV:  true,
	}, true
}

func (q Quad) intersectLocal(ray core.Ray) (t, alpha, beta float64, ok bool) {
	n := q.U.Cross(q.V)
	nn := n.LengthSquared()
	if nn == 0 {
		return 0, 0, 0, false
	}

	denom := n.Dot(ray.Direction)
	if math.Abs(denom) < 1e-12 {
		return 0, 0, 0, false
	}

	t = -n.Dot(ray.Origin) / denom
	if t <= minHitDistance {
		return 0, 0, 0, false
	}

	// Planar coordinates of the hit point in the (U, V) frame
	p := ray.At(t)
	w := n.Multiply(1 / nn)
	alpha = w.Dot(p.Cross(q.V))
	beta = w.Dot(q.U.Cross(p))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return 0, 0, 0, false
	}
	return t, alpha, beta, true
}

// SampleDirection picks a uniform point on the quad and returns the direction toward it
func (q Quad) SampleDirection(tf core.Transform, from core.Vec3, sample core.Vec2) core.Vec3 {
	local := q.U.Multiply(sample.X).Add(q.V.Multiply(sample.Y))
	return tf.ApplyPoint(local).Subtract(from)
}

// PDF converts the uniform area density of the quad into solid angle as seen from `from`
func (q Quad) PDF(tf core.Transform, from, dir core.Vec3) float64 {
	ray := tf.InverseRay(core.NewRay(from, dir))
	t, _, _, ok := q.intersectLocal(ray)
	if !ok {
		return 0
	}

	dist2 := ray.Direction.Multiply(t).LengthSquared()
	cosine := math.Abs(ray.Direction.Normalize().Dot(q.U.Cross(q.V).Normalize()))
	if cosine < 1e-12 {
		return 0
	}
	return dist2 / (cosine * q.Area())
}
