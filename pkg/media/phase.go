// Package media implements the participating-media model spec §4.5
// describes: Homogeneous and Heterogeneous (grid) volumes with a
// Henyey-Greenstein phase function. No example repo in the corpus does
// volumetric rendering, so this package is built directly from the
// standard closed-form volumetric path tracing formulas (delta tracking,
// ratio tracking, HG phase sampling) rather than adapted from an existing
// file; see DESIGN.md for the per-part justification.
package media

import (
	"math"

	"github.com/ashwoolford/pathforge/pkg/core"
)

// HenyeyGreenstein is the standard single-parameter anisotropic phase
// function used by path tracers for participating media (spec §4.5).
// g in (-1,1): negative values favor back-scattering, positive favor
// forward-scattering, 0 is isotropic.
type HenyeyGreenstein struct {
	G float64
}

// NewHenyeyGreenstein builds a phase function with anisotropy g.
func NewHenyeyGreenstein(g float64) *HenyeyGreenstein {
	return &HenyeyGreenstein{G: g}
}

// hgPhase evaluates the HG phase function for the angle between wo and wi
// (cosTheta is the cosine between them, following the convention that wo
// and wi are both measured pointing away from the scattering point).
func hgPhase(cosTheta, g float64) float64 {
	denom := 1 + g*g + 2*g*cosTheta
	if denom <= 0 {
		return 0
	}
	return (1 - g*g) / (4 * math.Pi * denom * math.Sqrt(denom))
}

func (h *HenyeyGreenstein) Eval(wo, wi core.Vec3) float64 {
	return hgPhase(wo.Dot(wi), h.G)
}

// Sample draws an incoming direction wi given the outgoing direction wo,
// using the standard closed-form HG inverse-CDF.
func (h *HenyeyGreenstein) Sample(wo core.Vec3, u2 core.Vec2) (wi core.Vec3, pdf float64) {
	var cosTheta float64
	if math.Abs(h.G) < 1e-3 {
		cosTheta = 1 - 2*u2.X
	} else {
		sqr := (1 - h.G*h.G) / (1 + h.G - 2*h.G*u2.X)
		cosTheta = -(1 + h.G*h.G - sqr*sqr) / (2 * h.G)
	}

	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u2.Y

	frame := core.NewFrameFromZ(wo)
	localDir := core.Vec3{X: sinTheta * math.Cos(phi), Y: sinTheta * math.Sin(phi), Z: cosTheta}
	wi = frame.FromLocal(localDir)

	pdf = hgPhase(cosTheta, h.G)
	return wi, pdf
}

func (h *HenyeyGreenstein) PDF(wo, wi core.Vec3) float64 {
	return hgPhase(wo.Dot(wi), h.G)
}
