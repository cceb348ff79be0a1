package core

// Logger is the minimal logging seam the core depends on; production code
// backs it with zap (see internal/telemetry), tests back it with a no-op or
// buffering stub.
type Logger interface {
	Printf(format string, args ...interface{})
}

// Sampler produces 1D samples in [0,1) and 2D samples in [0,1)^2. A sampler
// is deterministic given (pixel, sample index, seed) and is total: it never
// fails.
type Sampler interface {
	StartPixel(x, y int)
	StartSample(i int)
	Get1D() float64
	Get2D() Vec2
	// Clone returns an independent sampler seeded for a different thread/tile,
	// used by the render driver to hand each worker a private stream.
	Clone(seed uint64) Sampler
}

// Shape is a bounded, intersectable piece of geometry. It knows nothing
// about materials or emission — those are bound per-Primitive by the Scene,
// per spec §9 ("ownership lives solely in the Scene; everything else is an
// index or borrowed reference").
type Shape interface {
	// Intersect returns the nearest hit within [ray.TMin, ray.TMax], if any.
	Intersect(ray Ray) (ShapeHit, bool)
	// IntersectP is an any-hit test used by occlusion queries; it may
	// short-circuit at the first intersection found.
	IntersectP(ray Ray) bool
	BoundingBox() AABB
	Area() float64
	// SampleArea draws a point uniformly by area, for area-emitter sampling.
	SampleArea(u Vec2) ShapeSample
}

// ShapeHit is the geometric result of a Shape.Intersect call, before the
// Scene attaches material/emitter/medium bindings to form a
// SurfaceInteraction.
type ShapeHit struct {
	T               float64
	Point           Vec3
	GeometricNormal Vec3
	ShadingNormal   Vec3
	UV              Vec2
}

// ShapeSample is a point sampled uniformly over a shape's area.
type ShapeSample struct {
	Point   Vec3
	Normal  Vec3
	PDFArea float64
}

// LobeType tags the kind of scattering a BSDF/phase-function sample
// represents. Delta lobes (mirror reflection, smooth refraction) are tagged
// explicitly rather than inferred from a zero pdf, because a zero pdf must
// still distinguish "impossible sample" from "delta lobe" (spec §9).
type LobeType int

const (
	LobeReflection LobeType = 1 << iota
	LobeTransmission
	LobeDiffuse
	LobeGlossy
	LobeSpecular
)

// IsDelta reports whether this lobe is a delta distribution (mirror
// reflection, smooth refraction, a point/directional light). MIS treats
// delta lobes as weight=1 on the sampling side and never adds a
// next-event-estimation contribution for them.
func (l LobeType) IsDelta() bool { return l&LobeSpecular != 0 }

// Has reports whether the lobe carries all bits in other.
func (l LobeType) Has(other LobeType) bool { return l&other == other }

// BSDF is the uniform contract every surface reflectance model implements
// (spec §4.3). All directions are expressed in the local shading frame,
// where the shading normal is +Z.
type BSDF interface {
	// Eval returns the BSDF value times |cos(theta_o)|; zero when wo is on
	// the wrong hemisphere for this lobe.
	Eval(wi, wo Vec3) Spectrum
	// Sample draws an outgoing direction. Weight already includes the
	// eval/pdf ratio and the cosine factor, so the caller multiplies
	// throughput by Weight directly rather than by Eval/PDF separately.
	Sample(wi Vec3, u2 Vec2) (BSDFSample, bool)
	// PDF returns the solid-angle density of Sample producing wo given wi,
	// under the same strategy Sample uses.
	PDF(wi, wo Vec3) float64
}

// BSDFSample is the result of BSDF.Sample.
type BSDFSample struct {
	Wo     Vec3
	Weight Spectrum
	PDF    float64
	Lobe   LobeType
}

// Material produces the local-frame BSDF to use at a given surface point.
// Most BSDFs are their own Material (constant parameters everywhere); a
// textured material resolves its spatially-varying parameters (albedo,
// roughness) against uv/point before returning the BSDF the integrator
// evaluates, matching spec §4.3's separation of "shape instance" (where)
// from "reflectance model" (how).
type Material interface {
	BSDFAt(uv Vec2, point Vec3) BSDF
}

// PhaseFunction is the BSDF-like trio media use to redirect light at a
// scattering event. wo is the direction the path arrived from (pointing back
// toward the previous vertex), matching the BSDF convention for wi.
type PhaseFunction interface {
	Eval(wo, wi Vec3) float64
	Sample(wo Vec3, u2 Vec2) (wi Vec3, pdf float64)
	PDF(wo, wi Vec3) float64
}

// Medium models a participating volume (spec §4.5).
type Medium interface {
	// Transmittance estimates exp(-integral of sigma_t) along the ray's
	// segment [ray.TMin, ray.TMax].
	Transmittance(ray Ray, sampler Sampler) Spectrum
	// Sample attempts to find a scattering vertex along the ray's segment.
	// It always returns a weight; when no interaction occurs (ray reaches
	// TMax first) the returned MediumInteraction is nil and Weight carries
	// the corresponding transmittance-side throughput correction.
	Sample(ray Ray, sampler Sampler) (*MediumInteraction, Spectrum)
	Phase() PhaseFunction
}

// Emitter is the uniform contract every light source implements (spec
// §4.4).
type Emitter interface {
	// SampleDirect samples a point/direction on the emitter visible from
	// ref, for next-event estimation.
	SampleDirect(ref Vec3, u2 Vec2) (EmitterSample, bool)
	// PDFDirect returns the solid-angle pdf SampleDirect would have produced
	// for the given direction from ref; used for MIS against BSDF sampling.
	PDFDirect(ref Vec3, wi Vec3) float64
	// Le evaluates emitted radiance along a ray that escaped the scene
	// (environment/directional) or that directly hit the emitter's bound
	// shape (area), in the direction -ray.Direction.
	Le(ray Ray, hit *SurfaceInteraction) Spectrum
	// Power is the (unnormalized) total emitted power, used to build the
	// scene's power-weighted discrete emitter distribution.
	Power() float64
	// IsDelta reports whether this emitter is a delta distribution
	// (directional/point), which cannot be hit by a BSDF-sampled ray.
	IsDelta() bool
}

// EmitterSample is the result of Emitter.SampleDirect.
type EmitterSample struct {
	Point         Vec3
	Normal        Vec3
	Wi            Vec3 // direction from ref to the light
	Distance      float64
	Radiance      Spectrum
	PDFArea       float64
	PDFSolidAngle float64
	Delta         bool
}

// Primitive binds a Shape to the BSDF, optional Emitter, and optional
// interior/exterior media it carries, as interface references to objects the
// Scene owns (spec §9: ownership is the Scene's alone).
type Primitive struct {
	Shape         Shape
	Material      Material
	Emitter       Emitter // nil unless this primitive is an area light
	MediumInside  Medium  // medium on the side the geometric normal points away from
	MediumOutside Medium  // medium on the side the geometric normal points toward
}
