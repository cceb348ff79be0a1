package emitters

import (
	"github.com/ashwoolford/pathforge/pkg/core"
)

// infiniteDistance is the sentinel distance SampleDirect reports for delta
// (point-at-infinity) emitters, per spec §4.4's "returns infinite distance
// sentinel" requirement.
const infiniteDistance = core.Infinity

// Directional is a delta-distribution emitter (parallel rays from a fixed
// direction, like sunlight): every SampleDirect call returns the same
// direction with a delta pdf, and it can never be hit by a BSDF-sampled ray
// (spec §4.4).
type Directional struct {
	Direction  core.Vec3 // direction light travels (from source toward the scene)
	Irradiance core.Spectrum
}

// NewDirectional creates a directional emitter shining along direction with
// the given irradiance (power per unit area perpendicular to Direction).
func NewDirectional(direction core.Vec3, irradiance core.Vec3) *Directional {
	return &Directional{Direction: direction.Normalize(), Irradiance: irradiance}
}

func (d *Directional) SampleDirect(ref core.Vec3, u2 core.Vec2) (core.EmitterSample, bool) {
	wi := d.Direction.Negate() // from ref toward the light, i.e. against travel direction
	return core.EmitterSample{
		Point:         ref.Add(wi.Multiply(infiniteDistance)),
		Normal:        d.Direction,
		Wi:            wi,
		Distance:      infiniteDistance,
		Radiance:      d.Irradiance,
		PDFArea:       0,
		PDFSolidAngle: 1,
		Delta:         true,
	}, true
}

func (d *Directional) PDFDirect(ref core.Vec3, wi core.Vec3) float64 { return 0 }

func (d *Directional) Le(ray core.Ray, hit *core.SurfaceInteraction) core.Spectrum {
	return core.Spectrum{}
}

func (d *Directional) Power() float64 { return d.Irradiance.Luminance() }

func (d *Directional) IsDelta() bool { return true }
