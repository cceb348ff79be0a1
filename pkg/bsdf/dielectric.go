package bsdf

import (
	"math"

	"github.com/ashwoolford/pathforge/pkg/core"
)

// RoughDielectric models a rough refractive interface (glass, water): a GGX
// distribution of facets that each reflect or refract per the dielectric
// Fresnel term, chosen stochastically per spec §4.3's rough-dielectric
// surface. The smooth case (Roughness below threshold) collapses to a
// delta reflect/refract lobe chosen by Fresnel weight, matching the
// "roughness below a threshold collapses to a delta lobe" edge case.
type RoughDielectric struct {
	Eta       float64 // relative IOR, interior/exterior
	Roughness float64
}

// NewRoughDielectric builds a rough dielectric BSDF with relative IOR eta
// (e.g. 1.5 for glass in air) and perceptual roughness.
func NewRoughDielectric(eta, roughness float64) *RoughDielectric {
	return &RoughDielectric{Eta: eta, Roughness: roughness}
}

func (d *RoughDielectric) BSDFAt(uv core.Vec2, point core.Vec3) core.BSDF { return d }

func (d *RoughDielectric) alpha() float64 { return roughnessToAlpha(d.Roughness) }

func (d *RoughDielectric) Eval(wi, wo core.Vec3) core.Spectrum {
	if isEffectivelySmooth(d.Roughness) {
		return core.Spectrum{}
	}

	cosI, cosO := core.CosTheta(wi), core.CosTheta(wo)
	reflect := cosI*cosO > 0
	etaP := 1.0
	if !reflect {
		if cosI > 0 {
			etaP = d.Eta
		} else {
			etaP = 1 / d.Eta
		}
	}

	var wm core.Vec3
	if reflect {
		wm = wi.Add(wo)
	} else {
		wm = wi.Multiply(etaP).Add(wo)
	}
	if wm.LengthSquared() == 0 {
		return core.Spectrum{}
	}
	wm = wm.Normalize()
	if wm.Z < 0 {
		wm = wm.Negate()
	}
	// Facets pointing away from both directions can't produce this sample.
	if wm.Dot(wi)*cosI < 0 || wm.Dot(wo)*cosO < 0 {
		return core.Spectrum{}
	}

	alpha := d.alpha()
	dD := ggxDistribution(wm, alpha)
	g := smithG(wi, wo, wm, alpha)
	fr := fresnelDielectric(wi.Dot(wm), d.Eta)

	if reflect {
		value := dD * g * fr / math.Abs(4*cosI*cosO)
		return core.Spectrum{X: value, Y: value, Z: value}.Multiply(math.Abs(cosO))
	}

	denom := wi.Dot(wm) + wo.Dot(wm)/etaP
	denom *= denom
	value := dD * (1 - fr) * g * math.Abs(wo.Dot(wm)*wi.Dot(wm)/(cosI*cosO*denom)) / (etaP * etaP)
	return core.Spectrum{X: value, Y: value, Z: value}.Multiply(math.Abs(cosO))
}

func (d *RoughDielectric) Sample(wi core.Vec3, u2 core.Vec2) (core.BSDFSample, bool) {
	if wi.Z == 0 {
		return core.BSDFSample{}, false
	}

	if isEffectivelySmooth(d.Roughness) {
		return d.sampleSmooth(wi, u2)
	}

	flip := wi.Z < 0
	wiLocal := wi
	eta := d.Eta
	if flip {
		wiLocal = wiLocal.Negate()
		eta = 1 / d.Eta
	}

	alpha := d.alpha()
	wm := sampleGGXVNDF(wiLocal, alpha, u2)
	fr := fresnelDielectric(wiLocal.Dot(wm), eta)

	if u2.X < fr {
		// reflect about wm
		woLocal := reflectLocal(wiLocal, wm)
		if woLocal.Z <= 0 {
			return core.BSDFSample{}, false
		}
		wo := woLocal
		if flip {
			wo = wo.Negate()
		}
		pdf := d.PDF(wi, wo)
		if pdf <= 0 {
			return core.BSDFSample{}, false
		}
		eval := d.Eval(wi, wo)
		return core.BSDFSample{Wo: wo, Weight: eval.Multiply(1 / pdf), PDF: pdf, Lobe: core.LobeReflection | core.LobeGlossy}, true
	}

	woLocal, ok := refractLocal(wiLocal, wm, eta)
	if !ok {
		return core.BSDFSample{}, false
	}
	wo := woLocal
	if flip {
		wo = wo.Negate()
	}
	pdf := d.PDF(wi, wo)
	if pdf <= 0 {
		return core.BSDFSample{}, false
	}
	eval := d.Eval(wi, wo)
	return core.BSDFSample{Wo: wo, Weight: eval.Multiply(1 / pdf), PDF: pdf, Lobe: core.LobeTransmission | core.LobeGlossy}, true
}

func (d *RoughDielectric) sampleSmooth(wi core.Vec3, u2 core.Vec2) (core.BSDFSample, bool) {
	cosI := core.CosTheta(wi)
	eta := d.Eta
	if cosI < 0 {
		eta = 1 / d.Eta
	}
	fr := fresnelDielectric(cosI, eta)

	if u2.X < fr {
		wo := core.Vec3{X: -wi.X, Y: -wi.Y, Z: wi.Z}
		return core.BSDFSample{Wo: wo, Weight: core.Spectrum{X: 1, Y: 1, Z: 1}, PDF: fr, Lobe: core.LobeReflection | core.LobeSpecular}, true
	}

	n := core.Vec3{X: 0, Y: 0, Z: 1}
	if cosI < 0 {
		n = n.Negate()
	}
	wo, ok := refractLocal(wi, n, eta)
	if !ok {
		return core.BSDFSample{}, false
	}
	// radiance transport scales by 1/eta^2 when crossing into a denser medium
	weight := 1.0 / (eta * eta)
	return core.BSDFSample{
		Wo:     wo,
		Weight: core.Spectrum{X: weight, Y: weight, Z: weight},
		PDF:    1 - fr,
		Lobe:   core.LobeTransmission | core.LobeSpecular,
	}, true
}

// refractLocal refracts wi about the facet normal m (both pointing away from
// the surface on wi's side), with eta = eta_transmitted/eta_incident.
// Returns false on total internal reflection.
func refractLocal(wi, m core.Vec3, eta float64) (core.Vec3, bool) {
	cosThetaI := wi.Dot(m)
	if cosThetaI < 0 {
		eta = 1 / eta
		cosThetaI = -cosThetaI
		m = m.Negate()
	}

	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := sin2ThetaI / (eta * eta)
	if sin2ThetaT >= 1 {
		return core.Vec3{}, false
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)

	wt := wi.Negate().Multiply(1 / eta).Add(m.Multiply(cosThetaI/eta - cosThetaT))
	return wt, true
}

func (d *RoughDielectric) PDF(wi, wo core.Vec3) float64 {
	if isEffectivelySmooth(d.Roughness) {
		return 0
	}

	cosI, cosO := core.CosTheta(wi), core.CosTheta(wo)
	reflect := cosI*cosO > 0
	etaP := 1.0
	if !reflect {
		if cosI > 0 {
			etaP = d.Eta
		} else {
			etaP = 1 / d.Eta
		}
	}

	var wm core.Vec3
	if reflect {
		wm = wi.Add(wo)
	} else {
		wm = wi.Multiply(etaP).Add(wo)
	}
	if wm.LengthSquared() == 0 {
		return 0
	}
	wm = wm.Normalize()
	if wm.Z < 0 {
		wm = wm.Negate()
	}
	if wm.Dot(wi)*cosI < 0 || wm.Dot(wo)*cosO < 0 {
		return 0
	}

	alpha := d.alpha()
	fr := fresnelDielectric(wi.Dot(wm), d.Eta)
	g1 := smithG1(wi, wm, alpha)
	dD := ggxDistribution(wm, alpha)
	pdfM := dD * g1 * math.Abs(wi.Dot(wm)) / math.Abs(cosI)

	if reflect {
		return pdfM / (4 * math.Abs(wi.Dot(wm))) * fr
	}

	denom := wi.Dot(wm) + wo.Dot(wm)/etaP
	denom *= denom
	dwmDwo := math.Abs(wo.Dot(wm)) / denom
	return pdfM * dwmDwo * (1 - fr)
}
