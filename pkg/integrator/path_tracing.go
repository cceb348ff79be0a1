package integrator

import (
	"math"

	"github.com/ashwoolford/pathforge/pkg/bsdf"
	"github.com/ashwoolford/pathforge/pkg/core"
	"github.com/ashwoolford/pathforge/pkg/scene"
)

// maxNullBoundaries bounds how many Null-BSDF boundaries a shadow ray may
// cross while composing transmittance, so a degenerate scene (e.g. two
// coincident Null shells) cannot spin the walk forever.
const maxNullBoundaries = 32

// Config holds the path tracer's per-render tunables (spec §6 CLI surface:
// --max-depth, plus the Russian-roulette policy spec §4.6 names).
type Config struct {
	MaxDepth                  int
	RussianRouletteMinBounces int
}

// PathTracer is the unidirectional path-tracing integrator (spec §4.6).
// Grounded on the teacher's PathTracingIntegrator: same recursive-throughput
// shape (generalized here to an explicit loop, since Null-BSDF boundaries
// need to extend a path without consuming depth — awkward to express as
// tail recursion), same PowerHeuristic-based MIS and Russian-roulette
// compensation, now operating over core.BSDF/core.Emitter/core.Medium.
type PathTracer struct {
	config Config
}

// New creates a path tracer with the given configuration.
func New(config Config) *PathTracer {
	return &PathTracer{config: config}
}

// Li estimates radiance arriving along ray, per-vertex state tracked as:
// beta (throughput), L (accumulated radiance), specular (whether the last
// sampled lobe was a delta distribution, so Le additions skip MIS), and the
// ray's carried medium.
func (pt *PathTracer) Li(ray core.Ray, sc *scene.Scene, sampler core.Sampler) core.Spectrum {
	beta := core.Spectrum{X: 1, Y: 1, Z: 1}
	L := core.Spectrum{}
	specular := true
	prevPDF := 0.0
	currentRay := ray
	if currentRay.Medium == nil {
		currentRay = currentRay.WithMedium(sc.GlobalMedium)
	}
	depth := 0

	for depth <= pt.config.MaxDepth {
		hit, isHit := sc.Intersect(currentRay)

		segmentEnd := currentRay.TMax
		if isHit {
			segmentEnd = hit.T
		}

		// Step 2: sample a scattering vertex in the medium along this segment.
		if currentRay.Medium != nil {
			segRay := currentRay
			segRay.TMax = segmentEnd
			mi, weight := currentRay.Medium.Sample(segRay, sampler)
			beta = beta.MultiplyVec(weight)
			if mi != nil {
				L = L.Add(beta.MultiplyVec(pt.sampleDirectMedium(sc, mi, sampler)))

				wi, pdf := mi.Phase.Sample(mi.Wo, sampler.Get2D())
				if pdf <= 0 {
					break
				}
				specular = false
				prevPDF = pdf
				depth++
				if !pt.survivesRussianRoulette(depth, &beta, sampler) {
					break
				}
				currentRay = core.NewRay(mi.Point, wi).WithMedium(mi.Medium)
				if !beta.IsFinite() || beta.IsZero() {
					break
				}
				continue
			}
		}

		// Step 1: ray escaped the scene.
		if !isHit {
			if sc.Environment != nil {
				le := sc.Environment.Le(currentRay, nil)
				if !le.IsZero() {
					if specular {
						L = L.Add(beta.MultiplyVec(le))
					} else {
						lightPDF := sc.Environment.PDFDirect(currentRay.Origin, currentRay.Direction) * sc.PDFEmitter(sc.Environment)
						misWeight := core.PowerHeuristic(1, prevPDF, 1, lightPDF)
						L = L.Add(beta.MultiplyVec(le).Multiply(misWeight))
					}
				}
			}
			break
		}

		// Step 3: emitted light at the surface hit.
		if hit.Emitter != nil {
			le := hit.Emitter.Le(currentRay, hit)
			if !le.IsZero() {
				if specular {
					L = L.Add(beta.MultiplyVec(le))
				} else {
					lightPDF := hit.Emitter.PDFDirect(currentRay.Origin, currentRay.Direction) * sc.PDFEmitter(hit.Emitter)
					misWeight := core.PowerHeuristic(1, prevPDF, 1, lightPDF)
					L = L.Add(beta.MultiplyVec(le).Multiply(misWeight))
				}
			}
		}

		// Step 4: Null BSDF just switches the carried medium and continues.
		if _, isNull := hit.BSDF.(bsdf.Null); isNull {
			nextMedium := hit.MediumSide(currentRay.Direction)
			origin := core.OffsetOrigin(hit.Point, hit.GeometricNormal, currentRay.Direction)
			currentRay = core.NewRay(origin, currentRay.Direction).WithMedium(nextMedium)
			continue
		}

		depth++
		if depth > pt.config.MaxDepth {
			break
		}

		// Step 5: next-event estimation.
		L = L.Add(beta.MultiplyVec(pt.sampleDirectSurface(sc, hit, sampler)))

		// Step 6: sample the BSDF for the next direction.
		wiLocal := hit.Frame.ToLocal(hit.Wo)
		bsdfSample, ok := hit.BSDF.Sample(wiLocal, sampler.Get2D())
		if !ok || bsdfSample.PDF <= 0 || bsdfSample.Weight.IsZero() {
			break
		}
		beta = beta.MultiplyVec(bsdfSample.Weight)
		specular = bsdfSample.Lobe.IsDelta()
		prevPDF = bsdfSample.PDF

		woWorld := hit.Frame.FromLocal(bsdfSample.Wo)
		nextMedium := hit.MediumSide(woWorld)
		origin := core.OffsetOrigin(hit.Point, hit.GeometricNormal, woWorld)
		currentRay = core.NewRay(origin, woWorld).WithMedium(nextMedium)

		// Step 7/8: Russian roulette, then finite/zero termination.
		if !pt.survivesRussianRoulette(depth, &beta, sampler) {
			break
		}
		if !beta.IsFinite() || beta.IsZero() {
			break
		}
	}

	if !L.IsFinite() {
		return core.Spectrum{}
	}
	return L
}

// survivesRussianRoulette applies Russian-roulette termination beyond the
// configured minimum bounce count, scaling beta by 1/q on survival (spec
// §4.6 step 7).
func (pt *PathTracer) survivesRussianRoulette(depth int, beta *core.Spectrum, sampler core.Sampler) bool {
	if depth < pt.config.RussianRouletteMinBounces {
		return true
	}
	q := math.Min(0.95, math.Max(beta.X, math.Max(beta.Y, beta.Z)))
	if q <= 0 {
		return false
	}
	if sampler.Get1D() > q {
		return false
	}
	*beta = beta.Multiply(1 / q)
	return true
}

// sampleDirectSurface performs NEE from a surface vertex: sample an
// emitter and a point on it, test visibility (composing transmittance
// through any Null-BSDF boundaries the shadow ray crosses), and combine
// the emitter and BSDF pdfs via the power heuristic.
func (pt *PathTracer) sampleDirectSurface(sc *scene.Scene, hit *core.SurfaceInteraction, sampler core.Sampler) core.Spectrum {
	emitter, selectPDF := sc.SampleEmitter(sampler.Get1D())
	if emitter == nil || selectPDF <= 0 {
		return core.Spectrum{}
	}

	sample, ok := emitter.SampleDirect(hit.Point, sampler.Get2D())
	if !ok || sample.Radiance.IsZero() || sample.PDFSolidAngle <= 0 {
		return core.Spectrum{}
	}

	wiLocal := hit.Frame.ToLocal(sample.Wi)
	woLocal := hit.Frame.ToLocal(hit.Wo)
	bsdfVal := hit.BSDF.Eval(woLocal, wiLocal)
	if bsdfVal.IsZero() {
		return core.Spectrum{}
	}

	origin := core.OffsetOrigin(hit.Point, hit.GeometricNormal, sample.Wi)
	startMedium := hit.MediumSide(sample.Wi)
	tr, visible := traceTransmittance(sc, origin, sample.Point, startMedium, sampler)
	if !visible || tr.IsZero() {
		return core.Spectrum{}
	}

	lightPDF := sample.PDFSolidAngle * selectPDF
	misWeight := 1.0
	if !sample.Delta {
		bsdfPDF := hit.BSDF.PDF(woLocal, wiLocal)
		misWeight = core.PowerHeuristic(1, lightPDF, 1, bsdfPDF)
	}

	return bsdfVal.MultiplyVec(sample.Radiance).MultiplyVec(tr).Multiply(misWeight / lightPDF)
}

// sampleDirectMedium performs NEE from a medium scattering vertex using the
// phase function in place of a BSDF.
func (pt *PathTracer) sampleDirectMedium(sc *scene.Scene, mi *core.MediumInteraction, sampler core.Sampler) core.Spectrum {
	emitter, selectPDF := sc.SampleEmitter(sampler.Get1D())
	if emitter == nil || selectPDF <= 0 {
		return core.Spectrum{}
	}

	sample, ok := emitter.SampleDirect(mi.Point, sampler.Get2D())
	if !ok || sample.Radiance.IsZero() || sample.PDFSolidAngle <= 0 {
		return core.Spectrum{}
	}

	phaseVal := mi.Phase.Eval(mi.Wo, sample.Wi)
	if phaseVal <= 0 {
		return core.Spectrum{}
	}

	tr, visible := traceTransmittance(sc, mi.Point, sample.Point, mi.Medium, sampler)
	if !visible || tr.IsZero() {
		return core.Spectrum{}
	}

	lightPDF := sample.PDFSolidAngle * selectPDF
	misWeight := 1.0
	if !sample.Delta {
		phasePDF := mi.Phase.PDF(mi.Wo, sample.Wi)
		misWeight = core.PowerHeuristic(1, lightPDF, 1, phasePDF)
	}

	return sample.Radiance.MultiplyVec(tr).Multiply(phaseVal * misWeight / lightPDF)
}

// traceTransmittance walks from origin toward target, composing the
// transmittance of each medium segment a shadow ray crosses and switching
// media at each Null-BSDF boundary (spec §4.6 step 5, §4.5's medium
// tracking). Returns (transmittance, false) if a non-null surface blocks
// the path.
func traceTransmittance(sc *scene.Scene, origin, target core.Vec3, medium core.Medium, sampler core.Sampler) (core.Spectrum, bool) {
	tr := core.Spectrum{X: 1, Y: 1, Z: 1}
	for i := 0; i < maxNullBoundaries; i++ {
		shadowRay := core.NewRayTo(origin, target)
		hit, isHit := sc.Intersect(shadowRay)
		if !isHit {
			if medium != nil {
				tr = tr.MultiplyVec(medium.Transmittance(shadowRay, sampler))
			}
			return tr, true
		}
		if _, isNull := hit.BSDF.(bsdf.Null); !isNull {
			return core.Spectrum{}, false
		}
		segRay := shadowRay
		segRay.TMax = hit.T
		if medium != nil {
			tr = tr.MultiplyVec(medium.Transmittance(segRay, sampler))
		}
		medium = hit.MediumSide(shadowRay.Direction)
		origin = core.OffsetOrigin(hit.Point, hit.GeometricNormal, shadowRay.Direction)
	}
	return core.Spectrum{}, false
}
