package bsdf

import "github.com/ashwoolford/pathforge/pkg/core"

// Null is a delta pass-through BSDF: it always transmits straight through
// the surface with weight 1, used to mark a geometric boundary between two
// media without introducing any reflectance of its own (spec's medium
// design calls for interior/exterior boundaries that bound a participating
// medium but don't themselves scatter light).
type Null struct{}

func (Null) BSDFAt(uv core.Vec2, point core.Vec3) core.BSDF { return Null{} }

func (Null) Eval(wi, wo core.Vec3) core.Spectrum { return core.Spectrum{} }

func (Null) PDF(wi, wo core.Vec3) float64 { return 0 }

func (Null) Sample(wi core.Vec3, u2 core.Vec2) (core.BSDFSample, bool) {
	return core.BSDFSample{
		Wo:     wi.Negate(),
		Weight: core.Spectrum{X: 1, Y: 1, Z: 1},
		PDF:    1,
		Lobe:   core.LobeTransmission | core.LobeSpecular,
	}, true
}
