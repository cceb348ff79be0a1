package shapes

import (
	"math"

	"github.com/ashwoolford/pathforge/pkg/core"
)

// Quad is a finite rectangular surface defined by a corner and two edge
// vectors (spec §4.1: "rectangles").
type Quad struct {
	Corner core.Vec3
	U      core.Vec3
	V      core.Vec3
	normal core.Vec3
	d      float64
	w      core.Vec3
	area   float64
}

// NewQuad creates a new quad from a corner point and two edge vectors.
func NewQuad(corner, u, v core.Vec3) *Quad {
	normal := u.Cross(v).Normalize()
	d := normal.Dot(corner)
	cross := u.Cross(v)
	w := normal.Multiply(1.0 / normal.Dot(cross))

	return &Quad{
		Corner: corner,
		U:      u,
		V:      v,
		normal: normal,
		d:      d,
		w:      w,
		area:   cross.Length(),
	}
}

// Intersect tests if a ray intersects with the quad.
func (q *Quad) Intersect(ray core.Ray) (core.ShapeHit, bool) {
	denominator := ray.Direction.Dot(q.normal)
	if math.Abs(denominator) < 1e-8 {
		return core.ShapeHit{}, false
	}

	t := (q.d - ray.Origin.Dot(q.normal)) / denominator
	if t < ray.TMin || t > ray.TMax {
		return core.ShapeHit{}, false
	}

	point := ray.At(t)
	hitVector := point.Subtract(q.Corner)
	alpha := q.w.Dot(hitVector.Cross(q.V))
	beta := q.w.Dot(q.U.Cross(hitVector))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return core.ShapeHit{}, false
	}

	return core.ShapeHit{
		T:               t,
		Point:           point,
		GeometricNormal: q.normal,
		ShadingNormal:   q.normal,
		UV:              core.NewVec2(alpha, beta),
	}, true
}

// IntersectP is the boolean-only form of Intersect.
func (q *Quad) IntersectP(ray core.Ray) bool {
	denominator := ray.Direction.Dot(q.normal)
	if math.Abs(denominator) < 1e-8 {
		return false
	}
	t := (q.d - ray.Origin.Dot(q.normal)) / denominator
	if t < ray.TMin || t > ray.TMax {
		return false
	}
	point := ray.At(t)
	hitVector := point.Subtract(q.Corner)
	alpha := q.w.Dot(hitVector.Cross(q.V))
	beta := q.w.Dot(q.U.Cross(hitVector))
	return alpha >= 0 && alpha <= 1 && beta >= 0 && beta <= 1
}

// BoundingBox returns the axis-aligned bounding box for this quad.
func (q *Quad) BoundingBox() core.AABB {
	corners := []core.Vec3{
		q.Corner,
		q.Corner.Add(q.U),
		q.Corner.Add(q.V),
		q.Corner.Add(q.U).Add(q.V),
	}

	bbox := core.NewAABBFromPoints(corners...)
	// Guard against a degenerate zero-thickness box along the quad's normal
	// axis, which would make slab tests numerically unstable.
	const epsilon = 1e-4
	size := bbox.Size()
	if size.X < epsilon {
		bbox.Min.X -= epsilon
		bbox.Max.X += epsilon
	}
	if size.Y < epsilon {
		bbox.Min.Y -= epsilon
		bbox.Max.Y += epsilon
	}
	if size.Z < epsilon {
		bbox.Min.Z -= epsilon
		bbox.Max.Z += epsilon
	}
	return bbox
}

// Area returns the quad's surface area, |U x V|.
func (q *Quad) Area() float64 { return q.area }

// SampleArea draws a point uniformly over the quad.
func (q *Quad) SampleArea(u core.Vec2) core.ShapeSample {
	point := q.Corner.Add(q.U.Multiply(u.X)).Add(q.V.Multiply(u.Y))
	pdf := 0.0
	if q.area > 0 {
		pdf = 1.0 / q.area
	}
	return core.ShapeSample{Point: point, Normal: q.normal, PDFArea: pdf}
}
