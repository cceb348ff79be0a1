package bsdf

import (
	"math"

	"github.com/ashwoolford/pathforge/pkg/core"
)

// ggxDistribution evaluates the GGX (Trowbridge-Reitz) normal distribution
// D(m) for a microfacet normal m in local space, grounded on the
// Cook-Torrance DistributionGGX term used for PBR specular lighting.
func ggxDistribution(m core.Vec3, alpha float64) float64 {
	cosTheta := core.AbsCosTheta(m)
	if cosTheta <= 0 {
		return 0
	}
	a2 := alpha * alpha
	cos2 := cosTheta * cosTheta
	denom := cos2*(a2-1) + 1
	return a2 / (math.Pi * denom * denom)
}

// smithG1 is the Smith masking/shadowing term for a single direction under
// the GGX distribution.
func smithG1(w, m core.Vec3, alpha float64) float64 {
	cosTheta := core.AbsCosTheta(w)
	if cosTheta <= 0 {
		return 0
	}
	if w.Dot(m)*core.CosTheta(w) <= 0 {
		return 0
	}
	tan2Theta := (1 - cosTheta*cosTheta) / (cosTheta * cosTheta)
	return 2.0 / (1.0 + math.Sqrt(1.0+alpha*alpha*tan2Theta))
}

// smithG is the separable (uncorrelated) Smith masking-shadowing function
// G(wi,wo) = G1(wi)*G1(wo).
func smithG(wi, wo, m core.Vec3, alpha float64) float64 {
	return smithG1(wi, m, alpha) * smithG1(wo, m, alpha)
}

// sampleGGXVNDF draws a microfacet normal from the distribution of visible
// normals (Heitz 2018), given the local outgoing direction wo and isotropic
// roughness alpha. This is the sampling strategy spec §4.3 calls for ("draws
// a microfacet normal from the visible-normals distribution").
func sampleGGXVNDF(wo core.Vec3, alpha float64, u core.Vec2) core.Vec3 {
	// Transform the view direction into the hemisphere configuration.
	vh := core.Vec3{X: alpha * wo.X, Y: alpha * wo.Y, Z: wo.Z}.Normalize()

	lensq := vh.X*vh.X + vh.Y*vh.Y
	var t1 core.Vec3
	if lensq > 0 {
		t1 = core.Vec3{X: -vh.Y, Y: vh.X, Z: 0}.Multiply(1.0 / math.Sqrt(lensq))
	} else {
		t1 = core.Vec3{X: 1, Y: 0, Z: 0}
	}
	t2 := vh.Cross(t1)

	r := math.Sqrt(u.X)
	phi := 2 * math.Pi * u.Y
	p1 := r * math.Cos(phi)
	p2 := r * math.Sin(phi)
	s := 0.5 * (1.0 + vh.Z)
	p2 = (1-s)*math.Sqrt(math.Max(0, 1-p1*p1)) + s*p2

	nh := t1.Multiply(p1).Add(t2.Multiply(p2)).Add(vh.Multiply(math.Sqrt(math.Max(0, 1-p1*p1-p2*p2))))

	m := core.Vec3{X: alpha * nh.X, Y: alpha * nh.Y, Z: math.Max(1e-6, nh.Z)}
	return m.Normalize()
}

// roughnessToAlpha converts a perceptual [0,1] roughness to the GGX width
// parameter alpha = roughness^2, the standard remapping that keeps the
// roughness slider perceptually linear.
func roughnessToAlpha(roughness float64) float64 {
	r := math.Max(1e-4, roughness)
	return r * r
}

// isEffectivelySmooth reports whether a roughness is below the threshold at
// which the microfacet model collapses to a delta lobe (spec §4.3 edge
// case: "roughness below a threshold collapses to a delta lobe").
func isEffectivelySmooth(roughness float64) bool {
	return roughness < 1e-3
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// fresnelDielectric evaluates the exact (unpolarized) Fresnel reflectance at
// a dielectric interface with relative index of refraction eta = eta_t/eta_i.
func fresnelDielectric(cosThetaI, eta float64) float64 {
	cosThetaI = clampm1to1(cosThetaI)
	if cosThetaI < 0 {
		eta = 1 / eta
		cosThetaI = -cosThetaI
	}

	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := sin2ThetaI / (eta * eta)
	if sin2ThetaT >= 1 {
		return 1 // total internal reflection
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)

	rParl := (eta*cosThetaI - cosThetaT) / (eta*cosThetaI + cosThetaT)
	rPerp := (cosThetaI - eta*cosThetaT) / (cosThetaI + eta*cosThetaT)
	return (rParl*rParl + rPerp*rPerp) / 2
}

func clampm1to1(x float64) float64 {
	if x < -1 {
		return -1
	}
	if x > 1 {
		return 1
	}
	return x
}

// fresnelConductor evaluates the Fresnel reflectance at a conductor
// interface given the relative index of refraction eta and extinction
// coefficient k (per spectral channel), following the standard complex-IOR
// formulation used for metals.
func fresnelConductor(cosThetaI, eta, k float64) float64 {
	cosThetaI = clamp01(cosThetaI)
	cos2 := cosThetaI * cosThetaI
	sin2 := 1 - cos2

	eta2 := eta * eta
	k2 := k * k

	t0 := eta2 - k2 - sin2
	a2plusb2 := math.Sqrt(math.Max(0, t0*t0+4*eta2*k2))
	t1 := a2plusb2 + cos2
	a := math.Sqrt(math.Max(0, 0.5*(a2plusb2+t0)))
	t2 := 2 * a * cosThetaI
	rs := (t1 - t2) / (t1 + t2)

	t3 := cos2*a2plusb2 + sin2*sin2
	t4 := t2 * sin2
	rp := rs * (t3 - t4) / (t3 + t4)

	return 0.5 * (rp + rs)
}

// reflectLocal reflects wo about the microfacet normal m, in local space.
func reflectLocal(wo, m core.Vec3) core.Vec3 {
	return m.Multiply(2 * wo.Dot(m)).Subtract(wo)
}
