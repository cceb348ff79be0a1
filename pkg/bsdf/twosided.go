package bsdf

import "github.com/ashwoolford/pathforge/pkg/core"

// TwoSided wraps a BSDF so it behaves identically when viewed from either
// side of the surface, flipping directions into the upper hemisphere of the
// local frame before delegating. Without this, a one-sided BSDF evaluated
// from the back face returns zero even though the underlying shading frame
// is still well-defined there (spec §4.3 edge case: evaluation must respect
// which hemisphere the shading/geometric normals agree on, not assume wi is
// always on top).
type TwoSided struct {
	Inner core.BSDF
}

// NewTwoSided wraps inner so it reflects/transmits symmetrically about the
// local frame's xy-plane.
func NewTwoSided(inner core.BSDF) *TwoSided {
	return &TwoSided{Inner: inner}
}

func (t *TwoSided) BSDFAt(uv core.Vec2, point core.Vec3) core.BSDF {
	if m, ok := t.Inner.(core.Material); ok {
		return &TwoSided{Inner: m.BSDFAt(uv, point)}
	}
	return t
}

func flipIfBelow(wi, wo core.Vec3) (core.Vec3, core.Vec3) {
	if wi.Z < 0 {
		return core.Vec3{X: wi.X, Y: wi.Y, Z: -wi.Z}, core.Vec3{X: wo.X, Y: wo.Y, Z: -wo.Z}
	}
	return wi, wo
}

func (t *TwoSided) Eval(wi, wo core.Vec3) core.Spectrum {
	wi, wo = flipIfBelow(wi, wo)
	return t.Inner.Eval(wi, wo)
}

func (t *TwoSided) PDF(wi, wo core.Vec3) float64 {
	wi, wo = flipIfBelow(wi, wo)
	return t.Inner.PDF(wi, wo)
}

func (t *TwoSided) Sample(wi core.Vec3, u2 core.Vec2) (core.BSDFSample, bool) {
	flipped := wi.Z < 0
	wiLocal := wi
	if flipped {
		wiLocal = core.Vec3{X: wi.X, Y: wi.Y, Z: -wi.Z}
	}
	sample, ok := t.Inner.Sample(wiLocal, u2)
	if !ok {
		return core.BSDFSample{}, false
	}
	if flipped {
		sample.Wo.Z = -sample.Wo.Z
	}
	return sample, true
}
