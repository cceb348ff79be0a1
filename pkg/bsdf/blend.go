package bsdf

import "github.com/ashwoolford/pathforge/pkg/core"

// Blend mixes two BSDFs by a constant weight, e.g. a diffuse base coat under
// a specular clear coat. Eval/PDF are linear combinations; Sample picks one
// sub-lobe stochastically by weight and returns a balance-heuristic weight,
// replacing the teacher's layered/mix materials with the simpler per-spec
// "Blend combinator" (spec §4.3).
type Blend struct {
	A, B   core.BSDF
	Weight float64 // probability of sampling B; Eval/PDF mix as (1-Weight)*A + Weight*B
}

// NewBlend builds a Blend BSDF; weight is B's mixture weight in [0,1].
func NewBlend(a, b core.BSDF, weight float64) *Blend {
	return &Blend{A: a, B: b, Weight: weight}
}

func (m *Blend) BSDFAt(uv core.Vec2, point core.Vec3) core.BSDF { return m }

func (m *Blend) Eval(wi, wo core.Vec3) core.Spectrum {
	a := m.A.Eval(wi, wo)
	b := m.B.Eval(wi, wo)
	return a.Multiply(1 - m.Weight).Add(b.Multiply(m.Weight))
}

func (m *Blend) PDF(wi, wo core.Vec3) float64 {
	return (1-m.Weight)*m.A.PDF(wi, wo) + m.Weight*m.B.PDF(wi, wo)
}

func (m *Blend) Sample(wi core.Vec3, u2 core.Vec2) (core.BSDFSample, bool) {
	pickB := u2.X < m.Weight
	// Reuse u2.X as a fresh uniform after the branch decision, rescaled into
	// [0,1), so the sub-BSDF still gets a well-distributed 2D sample.
	var u core.Vec2
	if pickB {
		u = core.Vec2{X: u2.X / m.Weight, Y: u2.Y}
	} else {
		u = core.Vec2{X: (u2.X - m.Weight) / (1 - m.Weight), Y: u2.Y}
	}

	var sample core.BSDFSample
	var ok bool
	if pickB {
		sample, ok = m.B.Sample(wi, u)
	} else {
		sample, ok = m.A.Sample(wi, u)
	}
	if !ok {
		return core.BSDFSample{}, false
	}

	if sample.Lobe.IsDelta() {
		// A delta lobe's pdf is not comparable to the other branch's
		// continuous pdf; keep the sub-BSDF's own weight/pdf as-is.
		return sample, true
	}

	pdf := m.PDF(wi, sample.Wo)
	if pdf <= 0 {
		return core.BSDFSample{}, false
	}
	eval := m.Eval(wi, sample.Wo)
	return core.BSDFSample{Wo: sample.Wo, Weight: eval.Multiply(1 / pdf), PDF: pdf, Lobe: sample.Lobe}, true
}
