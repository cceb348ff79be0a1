// Package scene owns the renderer's read-only world: the set of primitives,
// the emitters that can be sampled for next-event estimation, the optional
// environment emitter and global medium, and the BVH built over it all
// (spec §9: "ownership lives solely in the Scene; everything else is an
// index or borrowed reference"). It is grounded on the teacher's
// pkg/scene/scene.go, stripped of the teacher's hardcoded demo-scene
// constructors (those built a specific web-app's scene library, not a
// renderer-core concern) and rebuilt around core.Primitive/core.Emitter.
package scene

import (
	"github.com/ashwoolford/pathforge/pkg/accel"
	"github.com/ashwoolford/pathforge/pkg/core"
	"github.com/ashwoolford/pathforge/pkg/emitters"
)

// Scene is constructed once (via Builder) before rendering begins and is
// shared read-only across worker goroutines for the remainder of the run.
type Scene struct {
	Primitives  []*core.Primitive
	Emitters    []core.Emitter // every sampleable emitter, including Environment if set
	Environment core.Emitter   // nil unless the scene declares an environment emitter

	// GlobalMedium is the medium the camera ray originates in; nil means
	// vacuum. Interior media are carried per-primitive via
	// core.Primitive.MediumInside/MediumOutside instead.
	GlobalMedium core.Medium

	BVH  *accel.BVH
	dist *emitterDistribution
}

// Intersect finds the nearest primitive hit along the ray.
func (s *Scene) Intersect(ray core.Ray) (*core.SurfaceInteraction, bool) {
	return s.BVH.Intersect(ray)
}

// Occluded is an any-hit shadow-ray test.
func (s *Scene) Occluded(ray core.Ray) bool {
	return s.BVH.Occluded(ray)
}

// SampleEmitter draws an emitter proportional to its share of total emitted
// power and returns its discrete selection pdf (spec §4.4).
func (s *Scene) SampleEmitter(u float64) (core.Emitter, float64) {
	return s.dist.sample(u)
}

// PDFEmitter returns the discrete selection pdf SampleEmitter would have
// produced for this emitter, for MIS against the emitter side of NEE.
func (s *Scene) PDFEmitter(emitter core.Emitter) float64 {
	return s.dist.pdf(emitter)
}

// WorldCenter and WorldRadius describe the scene's finite bounding sphere,
// as computed by the BVH build (excluding unbounded primitives like ground
// planes), used by infinite emitters to convert between area and
// solid-angle measures.
func (s *Scene) WorldCenter() core.Vec3 { return s.BVH.WorldCenter }
func (s *Scene) WorldRadius() float64   { return s.BVH.WorldRadius }

// Builder assembles a Scene incrementally, mirroring the teacher's
// mutate-then-Preprocess construction pattern but generalized to the
// core.Primitive/core.Emitter contracts: callers (the pbrt/ply loaders, or
// tests) add primitives and emitters, then call Build once to compile the
// BVH and the power-weighted emitter distribution.
type Builder struct {
	primitives   []*core.Primitive
	emitters     []core.Emitter
	environment  core.Emitter
	globalMedium core.Medium
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddPrimitive registers a primitive. If the primitive carries an emitter
// (an area light), that emitter is also registered for sampling.
func (b *Builder) AddPrimitive(p *core.Primitive) *Builder {
	b.primitives = append(b.primitives, p)
	if p.Emitter != nil {
		b.emitters = append(b.emitters, p.Emitter)
	}
	return b
}

// AddEmitter registers an emitter with no bound shape (directional, point).
func (b *Builder) AddEmitter(e core.Emitter) *Builder {
	b.emitters = append(b.emitters, e)
	return b
}

// SetEnvironment registers the scene's environment emitter. It is also
// added to the sampleable emitter set.
func (b *Builder) SetEnvironment(e core.Emitter) *Builder {
	b.environment = e
	b.emitters = append(b.emitters, e)
	return b
}

// SetGlobalMedium sets the medium the camera ray starts in.
func (b *Builder) SetGlobalMedium(m core.Medium) *Builder {
	b.globalMedium = m
	return b
}

// Build compiles the accumulated primitives/emitters into a Scene: builds
// the BVH, back-fills the environment emitter's world-radius dependency
// (mirroring the teacher's Preprocess step, which couldn't size infinite
// lights until the BVH existed), and builds the power-weighted discrete
// emitter distribution.
func (b *Builder) Build() *Scene {
	bvh := accel.Build(b.primitives)
	if env, ok := b.environment.(*emitters.Environment); ok {
		env.WorldCenter = bvh.WorldCenter
		env.WorldRadius = bvh.WorldRadius
	}
	return &Scene{
		Primitives:   b.primitives,
		Emitters:     b.emitters,
		Environment:  b.environment,
		GlobalMedium: b.globalMedium,
		BVH:          bvh,
		dist:         newEmitterDistribution(b.emitters),
	}
}
