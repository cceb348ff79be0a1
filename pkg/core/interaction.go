package core

// SurfaceInteraction describes a ray/shape intersection, fully resolved
// against the Scene's Primitive tables (spec §3).
//
// GeometricNormal is the shape's outward normal exactly as the shape reports
// it; it is not flipped toward the incident ray's origin, neither for
// shading nor for medium side-selection (MediumSide relies on it pointing
// outward). ShadingNormal is the (possibly interpolated/bump mapped) normal
// BSDFs build their local frame from.
type SurfaceInteraction struct {
	Point           Vec3
	GeometricNormal Vec3
	ShadingNormal   Vec3
	Frame           Frame
	UV              Vec2
	T               float64
	Wo              Vec3 // -ray.Direction, the direction back toward the viewer

	Primitive *Primitive
	BSDF      BSDF
	Emitter   Emitter

	// MediumInside/MediumOutside are copied from the Primitive so the
	// integrator can select the correct medium for a continuing ray without
	// chasing the Primitive pointer.
	MediumInside  Medium
	MediumOutside Medium
}

// MediumSide returns the medium the ray continues into, given the direction
// it continues traveling. Used when a Null-BSDF hit only switches media.
func (si *SurfaceInteraction) MediumSide(direction Vec3) Medium {
	if si.GeometricNormal.Dot(direction) > 0 {
		return si.MediumOutside
	}
	return si.MediumInside
}

// MediumInteraction is a scattering vertex sampled inside a participating
// medium (spec §3).
type MediumInteraction struct {
	Point  Vec3
	Wo     Vec3 // direction back toward the previous vertex
	Medium Medium
	Phase  PhaseFunction
}
