// Package emitters implements the core.Emitter surfaces the spec describes
// (spec §4.4): Area, Directional, and Environment. It is grounded on the
// teacher's pkg/lights — which binds a Light to an embedded geometry.Shape
// and a material.Emitter — regeneralized against a shape-agnostic
// core.Primitive and the uniform SampleDirect/PDFDirect/Le contract.
package emitters

import (
	"math"

	"github.com/ashwoolford/pathforge/pkg/core"
)

// Area is an emitter bound to a shape: it samples a point on the shape
// uniformly by area and converts to a solid-angle pdf, returning zero when
// the surface faces away from the reference point (spec §4.4).
type Area struct {
	Shape    core.Shape
	Radiance core.Spectrum // emitted radiance, constant over the shape
	TwoSided bool          // if false, only the shape's outward normal side emits
}

// NewArea creates an area emitter bound to shape, emitting Radiance
// uniformly from its outward-facing side.
func NewArea(shape core.Shape, radiance core.Vec3) *Area {
	return &Area{Shape: shape, Radiance: radiance}
}

func (a *Area) SampleDirect(ref core.Vec3, u2 core.Vec2) (core.EmitterSample, bool) {
	s := a.Shape.SampleArea(u2)

	toLight := s.Point.Subtract(ref)
	distance := toLight.Length()
	if distance < 1e-8 {
		return core.EmitterSample{}, false
	}
	wi := toLight.Multiply(1 / distance)

	cosLight := s.Normal.Dot(wi.Negate())
	if !a.TwoSided && cosLight <= 0 {
		return core.EmitterSample{}, false
	}
	cosLight = math.Abs(cosLight)
	if cosLight < 1e-8 {
		return core.EmitterSample{}, false
	}

	area := a.Shape.Area()
	if area <= 0 {
		return core.EmitterSample{}, false
	}
	pdfArea := 1.0 / area
	pdfSolid := pdfArea * distance * distance / cosLight

	return core.EmitterSample{
		Point:         s.Point,
		Normal:        s.Normal,
		Wi:            wi,
		Distance:      distance,
		Radiance:      a.Radiance,
		PDFArea:       pdfArea,
		PDFSolidAngle: pdfSolid,
		Delta:         false,
	}, true
}

func (a *Area) PDFDirect(ref core.Vec3, wi core.Vec3) float64 {
	ray := core.NewRay(ref, wi)
	hit, ok := a.Shape.Intersect(ray)
	if !ok {
		return 0
	}

	cosLight := hit.GeometricNormal.Dot(wi.Negate())
	if !a.TwoSided && cosLight <= 0 {
		return 0
	}
	cosLight = math.Abs(cosLight)
	if cosLight < 1e-8 {
		return 0
	}

	area := a.Shape.Area()
	if area <= 0 {
		return 0
	}
	pdfArea := 1.0 / area
	return pdfArea * hit.T * hit.T / cosLight
}

func (a *Area) Le(ray core.Ray, hit *core.SurfaceInteraction) core.Spectrum {
	if hit == nil {
		return core.Spectrum{}
	}
	cosOut := hit.GeometricNormal.Dot(ray.Direction.Negate())
	if !a.TwoSided && cosOut <= 0 {
		return core.Spectrum{}
	}
	return a.Radiance
}

func (a *Area) Power() float64 {
	return a.Radiance.Luminance() * a.Shape.Area() * math.Pi
}

func (a *Area) IsDelta() bool { return false }
