// Package shapes implements the core.Shape geometries the Scene's BVH
// operates over (spec §4.1 Shapes & BVH): spheres, triangle meshes, and
// rectangles. Shapes know nothing about BSDFs or emitters; a shape becomes
// visible and shaded only once bound into a core.Primitive by the Scene.
package shapes

import (
	"math"

	"github.com/ashwoolford/pathforge/pkg/core"
)

// Sphere is a ray-traceable sphere of constant radius.
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere.
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

// Intersect tests if a ray intersects with the sphere within [ray.TMin, ray.TMax].
func (s *Sphere) Intersect(ray core.Ray) (core.ShapeHit, bool) {
	oc := ray.Origin.Subtract(s.Center)

	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return core.ShapeHit{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if root < ray.TMin || root > ray.TMax {
		root = (-halfB + sqrtD) / a
		if root < ray.TMin || root > ray.TMax {
			return core.ShapeHit{}, false
		}
	}

	point := ray.At(root)
	normal := point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	uv := sphereUV(normal)

	return core.ShapeHit{
		T:               root,
		Point:           point,
		GeometricNormal: normal,
		ShadingNormal:   normal,
		UV:              uv,
	}, true
}

// IntersectP is a boolean-only occlusion test, algorithmically identical to
// Intersect but skipping surface-detail computation.
func (s *Sphere) IntersectP(ray core.Ray) bool {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if root >= ray.TMin && root <= ray.TMax {
		return true
	}
	root = (-halfB + sqrtD) / a
	return root >= ray.TMin && root <= ray.TMax
}

func sphereUV(outwardNormal core.Vec3) core.Vec2 {
	theta := math.Acos(-outwardNormal.Y)
	phi := math.Atan2(-outwardNormal.Z, outwardNormal.X) + math.Pi
	return core.NewVec2(phi/(2.0*math.Pi), theta/math.Pi)
}

// BoundingBox returns the axis-aligned bounding box for this sphere.
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Subtract(radius), s.Center.Add(radius))
}

// Area returns the sphere's surface area, 4*pi*r^2.
func (s *Sphere) Area() float64 {
	return 4.0 * math.Pi * s.Radius * s.Radius
}

// SampleArea draws a point uniformly over the sphere's surface (spec §4.4
// Area emitter sampling builds on this for shapes bound to an emitter).
func (s *Sphere) SampleArea(u core.Vec2) core.ShapeSample {
	d := core.UniformSampleSphere(u)
	return core.ShapeSample{
		Point:   s.Center.Add(d.Multiply(s.Radius)),
		Normal:  d,
		PDFArea: 1.0 / s.Area(),
	}
}
