// Package bsdf implements the core.BSDF surfaces the spec's material model
// describes (spec §4.3): Lambertian, rough conductor, rough dielectric, and
// the Blend/Null combinators, all operating in the local shading frame
// (+Z is the shading normal) that core.Frame establishes at each
// SurfaceInteraction.
package bsdf

import (
	"github.com/ashwoolford/pathforge/pkg/core"
)

const invPi = 1.0 / 3.14159265358979323846

// Lambertian is a perfectly diffuse reflector: eval = albedo/pi * cos(theta_o).
type Lambertian struct {
	Albedo core.Spectrum
}

// NewLambertian creates a Lambertian BSDF with a constant albedo.
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// BSDFAt resolves to itself since a plain Lambertian carries no spatially
// varying parameters.
func (l *Lambertian) BSDFAt(uv core.Vec2, point core.Vec3) core.BSDF { return l }

// Eval returns the diffuse BRDF value times cos(theta_o), zero when wi/wo
// fall on opposite hemispheres (spec §4.3 edge cases).
func (l *Lambertian) Eval(wi, wo core.Vec3) core.Spectrum {
	if !core.SameHemisphere(wi, wo) {
		return core.Spectrum{}
	}
	return l.Albedo.Multiply(invPi * core.AbsCosTheta(wo))
}

// Sample draws wo with density proportional to cos(theta_o) and returns the
// importance weight f*cos/pdf, which for Lambertian is exactly Albedo.
func (l *Lambertian) Sample(wi core.Vec3, u2 core.Vec2) (core.BSDFSample, bool) {
	wo, pdf := core.CosineSampleHemisphere(u2)
	if wi.Z < 0 {
		wo.Z = -wo.Z
	}
	if pdf <= 0 {
		return core.BSDFSample{}, false
	}
	return core.BSDFSample{
		Wo:     wo,
		Weight: l.Albedo,
		PDF:    pdf,
		Lobe:   core.LobeReflection | core.LobeDiffuse,
	}, true
}

// PDF returns the cosine-hemisphere density for the given outgoing direction.
func (l *Lambertian) PDF(wi, wo core.Vec3) float64 {
	if !core.SameHemisphere(wi, wo) {
		return 0
	}
	return core.CosineHemispherePDF(core.AbsCosTheta(wo))
}

// TexturedLambertian resolves its albedo per-point from a ColorSource (image
// texture or procedural pattern) before handing the integrator a plain
// Lambertian for that point, per core.Material's per-point resolution
// contract.
type TexturedLambertian struct {
	Albedo ColorSource
}

// NewLambertianTextured creates a Lambertian material driven by a spatially
// varying color source.
func NewLambertianTextured(albedo ColorSource) *TexturedLambertian {
	return &TexturedLambertian{Albedo: albedo}
}

// BSDFAt evaluates the texture at uv/point and returns the resolved BSDF.
func (t *TexturedLambertian) BSDFAt(uv core.Vec2, point core.Vec3) core.BSDF {
	return &Lambertian{Albedo: t.Albedo.Evaluate(uv, point)}
}
