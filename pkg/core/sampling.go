package core

import "math"

// PowerHeuristic implements the power heuristic (beta=2) for multiple
// importance sampling, balancing two sampling strategies (e.g. light
// sampling vs. BSDF sampling).
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	if fPdf == 0 {
		return 0
	}
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	return (f * f) / (f*f + g*g)
}

// BalanceHeuristic implements the balance heuristic for multiple importance
// sampling.
func BalanceHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	if fPdf == 0 {
		return 0
	}
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	return f / (f + g)
}

// CombinePDFs returns the MIS weight for the light-sampling side, combining
// a light pdf and a BSDF/phase pdf under either heuristic. The precise
// choice (balance vs. power-2) is left open by spec §9; this renderer uses
// the power heuristic by default.
func CombinePDFs(lightPdf, materialPdf float64, usePowerHeuristic bool) float64 {
	if lightPdf == 0 {
		return 0
	}
	if usePowerHeuristic {
		return PowerHeuristic(1, lightPdf, 1, materialPdf)
	}
	return BalanceHeuristic(1, lightPdf, 1, materialPdf)
}

// SphereUniformPDF returns the PDF for uniform sampling on a sphere surface.
func SphereUniformPDF(radius float64) float64 {
	return 1.0 / (4.0 * math.Pi * radius * radius)
}

// SphereConePDF returns the PDF for sampling a sphere from an external point
// using cone sampling toward its visible cap.
func SphereConePDF(distance, radius float64) float64 {
	if distance <= radius {
		return SphereUniformPDF(radius)
	}
	sinThetaMax := radius / distance
	cosThetaMax := math.Sqrt(math.Max(0, 1.0-sinThetaMax*sinThetaMax))
	return 1.0 / (2.0 * math.Pi * (1.0 - cosThetaMax))
}

// CosineSampleHemisphere draws a direction in local space (+Z hemisphere)
// with density proportional to cos(theta), via the Malley/Shirley concentric
// disk mapping. Returns (direction, pdf).
func CosineSampleHemisphere(u Vec2) (Vec3, float64) {
	d := ConcentricSampleDisk(u)
	z := math.Sqrt(math.Max(0, 1-d.X*d.X-d.Y*d.Y))
	return Vec3{d.X, d.Y, z}, CosineHemispherePDF(z)
}

// CosineHemispherePDF returns the cosine-weighted-hemisphere pdf for a local
// direction whose z-component (cos theta) is cosTheta.
func CosineHemispherePDF(cosTheta float64) float64 {
	return math.Max(0, cosTheta) / math.Pi
}

// ConcentricSampleDisk maps a uniform 2D sample to a unit disk with no
// distortion near the center (Shirley & Chiu), used by cosine-hemisphere
// sampling and by thin-lens aperture sampling.
func ConcentricSampleDisk(u Vec2) Vec2 {
	ox := 2*u.X - 1
	oy := 2*u.Y - 1
	if ox == 0 && oy == 0 {
		return Vec2{}
	}

	var theta, r float64
	if math.Abs(ox) > math.Abs(oy) {
		r = ox
		theta = (math.Pi / 4) * (oy / ox)
	} else {
		r = oy
		theta = (math.Pi / 2) - (math.Pi/4)*(ox/oy)
	}
	return Vec2{r * math.Cos(theta), r * math.Sin(theta)}
}

// UniformSampleSphere draws a direction uniformly over the full sphere.
func UniformSampleSphere(u Vec2) Vec3 {
	z := 1 - 2*u.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * u.Y
	return Vec3{r * math.Cos(phi), r * math.Sin(phi), z}
}

// UniformSpherePDF is the constant density of UniformSampleSphere.
func UniformSpherePDF() float64 { return 1.0 / (4.0 * math.Pi) }

// UniformSampleTriangle returns barycentric coordinates (b0,b1) uniformly
// distributed over a triangle, via the standard sqrt-mapping.
func UniformSampleTriangle(u Vec2) (float64, float64) {
	su0 := math.Sqrt(u.X)
	b0 := 1 - su0
	b1 := u.Y * su0
	return b0, b1
}

// RandomInUnitSphere maps a uniform 3D sample to a point in the unit ball:
// the sample is scaled to the [-1,1]^3 cube, and a point outside the ball is
// projected onto its surface rather than rejected, so the result is not
// uniform over the ball.
func RandomInUnitSphere(u Vec3) Vec3 {
	p := Vec3{2*u.X - 1, 2*u.Y - 1, 2*u.Z - 1}
	if p.LengthSquared() >= 1 {
		return p.Normalize()
	}
	return p
}
