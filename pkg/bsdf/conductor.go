package bsdf

import (
	"math"

	"github.com/ashwoolford/pathforge/pkg/core"
)

// RoughConductor is a microfacet reflector for metals: a GGX distribution of
// mirror facets, each reflecting with the conductor Fresnel term (spec
// §4.3's "rough conductor" surface, grounded on the mirstar PBR reference's
// Cook-Torrance specular term but rebuilt around VNDF importance sampling
// rather than a fixed N/H/V/L loop).
type RoughConductor struct {
	Eta       core.Spectrum // index of refraction, per channel
	K         core.Spectrum // extinction coefficient, per channel
	Roughness float64       // perceptual roughness in [0,1]
}

// NewRoughConductor builds a rough conductor BSDF from IOR/extinction and a
// perceptual roughness.
func NewRoughConductor(eta, k core.Vec3, roughness float64) *RoughConductor {
	return &RoughConductor{Eta: eta, K: k, Roughness: roughness}
}

func (c *RoughConductor) BSDFAt(uv core.Vec2, point core.Vec3) core.BSDF { return c }

func (c *RoughConductor) alpha() float64 { return roughnessToAlpha(c.Roughness) }

func (c *RoughConductor) fresnel(cosTheta float64) core.Spectrum {
	return core.Spectrum{
		X: fresnelConductor(cosTheta, c.Eta.X, c.K.X),
		Y: fresnelConductor(cosTheta, c.Eta.Y, c.K.Y),
		Z: fresnelConductor(cosTheta, c.Eta.Z, c.K.Z),
	}
}

func (c *RoughConductor) Eval(wi, wo core.Vec3) core.Spectrum {
	if isEffectivelySmooth(c.Roughness) {
		return core.Spectrum{}
	}
	if !core.SameHemisphere(wi, wo) {
		return core.Spectrum{}
	}
	cosI, cosO := core.AbsCosTheta(wi), core.AbsCosTheta(wo)
	if cosI <= 0 || cosO <= 0 {
		return core.Spectrum{}
	}
	wm := wi.Add(wo)
	if wm.LengthSquared() == 0 {
		return core.Spectrum{}
	}
	wm = wm.Normalize()
	if wm.Z < 0 {
		wm = wm.Negate()
	}

	alpha := c.alpha()
	d := ggxDistribution(wm, alpha)
	g := smithG(wi, wo, wm, alpha)
	f := c.fresnel(wi.AbsDot(wm))

	value := d * g / (4 * cosI * cosO)
	return f.Multiply(value * cosO)
}

func (c *RoughConductor) Sample(wi core.Vec3, u2 core.Vec2) (core.BSDFSample, bool) {
	if wi.Z == 0 {
		return core.BSDFSample{}, false
	}

	if isEffectivelySmooth(c.Roughness) {
		wo := core.Vec3{X: -wi.X, Y: -wi.Y, Z: wi.Z}
		f := c.fresnel(core.AbsCosTheta(wi))
		return core.BSDFSample{
			Wo:     wo,
			Weight: f,
			PDF:    1,
			Lobe:   core.LobeReflection | core.LobeSpecular,
		}, true
	}

	flip := wi.Z < 0
	wiLocal := wi
	if flip {
		wiLocal = wiLocal.Negate()
	}

	alpha := c.alpha()
	wm := sampleGGXVNDF(wiLocal, alpha, u2)
	wo := reflectLocal(wiLocal, wm)
	if flip {
		wo = wo.Negate()
		wm = wm.Negate()
	}

	if !core.SameHemisphere(wi, wo) {
		return core.BSDFSample{}, false
	}

	pdf := c.PDF(wi, wo)
	if pdf <= 0 {
		return core.BSDFSample{}, false
	}
	eval := c.Eval(wi, wo)
	return core.BSDFSample{
		Wo:     wo,
		Weight: eval.Multiply(1 / pdf),
		PDF:    pdf,
		Lobe:   core.LobeReflection | core.LobeGlossy,
	}, true
}

func (c *RoughConductor) PDF(wi, wo core.Vec3) float64 {
	if isEffectivelySmooth(c.Roughness) {
		return 0
	}
	if !core.SameHemisphere(wi, wo) {
		return 0
	}
	wm := wi.Add(wo)
	if wm.LengthSquared() == 0 {
		return 0
	}
	wm = wm.Normalize()
	if wm.Z < 0 {
		wm = wm.Negate()
	}

	alpha := c.alpha()
	cosI := core.AbsCosTheta(wi)
	if cosI <= 0 {
		return 0
	}
	g1 := smithG1(wi, wm, alpha)
	d := ggxDistribution(wm, alpha)
	// pdf(wm) for VNDF sampling is D*G1*|wi.wm| / |wi.z|; the Jacobian from
	// wm to wo for reflection is 1/(4|wo.wm|).
	pdfM := d * g1 * math.Abs(wi.Dot(wm)) / cosI
	return pdfM / (4 * math.Abs(wi.Dot(wm)))
}
