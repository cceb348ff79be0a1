package shapes

import (
	"github.com/ashwoolford/pathforge/pkg/core"
)

// Triangle is a single triangle, optionally carrying per-vertex normals (for
// shading-normal interpolation) and per-vertex UVs.
type Triangle struct {
	V0, V1, V2    core.Vec3
	N0, N1, N2    core.Vec3 // per-vertex shading normals; zero Vec3 if absent
	UV0, UV1, UV2 core.Vec2
	hasNormals    bool
	hasUVs        bool

	geometricNormal core.Vec3
	area            float64
	bbox            core.AABB
}

// NewTriangle creates a triangle from three vertices with a flat (geometric)
// shading normal.
func NewTriangle(v0, v1, v2 core.Vec3) *Triangle {
	t := &Triangle{V0: v0, V1: v1, V2: v2}
	t.precompute()
	return t
}

// NewTriangleWithNormals creates a triangle with per-vertex shading normals,
// used for smooth-shaded mesh surfaces.
func NewTriangleWithNormals(v0, v1, v2, n0, n1, n2 core.Vec3) *Triangle {
	t := &Triangle{V0: v0, V1: v1, V2: v2, N0: n0, N1: n1, N2: n2, hasNormals: true}
	t.precompute()
	return t
}

// WithUVs attaches per-vertex UV coordinates and returns the triangle for
// chaining.
func (t *Triangle) WithUVs(uv0, uv1, uv2 core.Vec2) *Triangle {
	t.UV0, t.UV1, t.UV2 = uv0, uv1, uv2
	t.hasUVs = true
	return t
}

func (t *Triangle) precompute() {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)
	cross := edge1.Cross(edge2)
	t.geometricNormal = cross.Normalize()
	t.area = 0.5 * cross.Length()
	t.bbox = core.NewAABBFromPoints(t.V0, t.V1, t.V2)
}

// Intersect implements the Möller–Trumbore ray-triangle test with an
// epsilon cutoff on the determinant. It is not watertight: a ray through an
// edge shared by two triangles can miss both of them.
func (t *Triangle) Intersect(ray core.Ray) (core.ShapeHit, bool) {
	const epsilon = 1e-8

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return core.ShapeHit{}, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return core.ShapeHit{}, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return core.ShapeHit{}, false
	}

	tHit := f * edge2.Dot(q)
	if tHit < ray.TMin || tHit > ray.TMax {
		return core.ShapeHit{}, false
	}

	point := ray.At(tHit)
	w := 1.0 - u - v

	uv := core.NewVec2(u, v)
	if t.hasUVs {
		uv = t.UV0.Multiply(w).Add(t.UV1.Multiply(u)).Add(t.UV2.Multiply(v))
	}

	shadingNormal := t.geometricNormal
	if t.hasNormals {
		shadingNormal = t.N0.Multiply(w).Add(t.N1.Multiply(u)).Add(t.N2.Multiply(v)).Normalize()
	}

	return core.ShapeHit{
		T:               tHit,
		Point:           point,
		GeometricNormal: t.geometricNormal,
		ShadingNormal:   shadingNormal,
		UV:              uv,
	}, true
}

// IntersectP is the boolean-only form of Intersect.
func (t *Triangle) IntersectP(ray core.Ray) bool {
	const epsilon = 1e-8

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return false
	}

	tHit := f * edge2.Dot(q)
	return tHit >= ray.TMin && tHit <= ray.TMax
}

// BoundingBox returns the triangle's axis-aligned bounding box.
func (t *Triangle) BoundingBox() core.AABB { return t.bbox }

// Area returns the triangle's surface area.
func (t *Triangle) Area() float64 { return t.area }

// SampleArea draws a point uniformly over the triangle by area, via the
// standard sqrt barycentric mapping.
func (t *Triangle) SampleArea(u core.Vec2) core.ShapeSample {
	b0, b1 := core.UniformSampleTriangle(u)
	b2 := 1 - b0 - b1
	point := t.V0.Multiply(b0).Add(t.V1.Multiply(b1)).Add(t.V2.Multiply(b2))

	normal := t.geometricNormal
	if t.hasNormals {
		normal = t.N0.Multiply(b0).Add(t.N1.Multiply(b1)).Add(t.N2.Multiply(b2)).Normalize()
	}

	pdf := 0.0
	if t.area > 0 {
		pdf = 1.0 / t.area
	}
	return core.ShapeSample{Point: point, Normal: normal, PDFArea: pdf}
}
