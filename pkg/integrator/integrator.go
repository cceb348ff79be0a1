// Package integrator implements the path-tracing light-transport estimator
// (spec §4.6): multiple importance sampling between BSDF sampling and
// next-event estimation, medium tracking across Null-BSDF boundaries, and
// Russian-roulette termination. Grounded on the teacher's
// pkg/integrator/path_tracing.go (recursive-throughput structure,
// PowerHeuristic MIS, Russian-roulette compensation), rewritten iteratively
// against the core.BSDF/core.Emitter/core.Medium contracts instead of the
// teacher's core.Material/core.ScatterResult pair.
package integrator

import (
	"github.com/ashwoolford/pathforge/pkg/core"
	"github.com/ashwoolford/pathforge/pkg/scene"
)

// Integrator estimates radiance along a single camera ray.
type Integrator interface {
	Li(ray core.Ray, scene *scene.Scene, sampler core.Sampler) core.Spectrum
}
