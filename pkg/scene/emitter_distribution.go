package scene

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/ashwoolford/pathforge/pkg/core"
)

// emitterDistribution is a power-weighted discrete distribution over the
// scene's emitters (spec §4.4: "sample_emitter(u) -> (emitter, discrete_pdf)
// using a power-weighted discrete distribution"). Grounded on the teacher's
// core.WeightedLightSampler, generalized from a hand-rolled cumulative loop
// to a gonum-built prefix sum plus binary search.
type emitterDistribution struct {
	emitters []core.Emitter
	pmf      []float64
	cdf      []float64
}

// newEmitterDistribution builds the distribution. An emitter reporting zero
// (or negative) power gets zero probability and is not selected by sample
// while any other emitter has positive power; when every emitter reports
// zero power the distribution falls back to uniform, matching the teacher's
// NewUniformLightSampler fallback.
func newEmitterDistribution(emitters []core.Emitter) *emitterDistribution {
	if len(emitters) == 0 {
		return &emitterDistribution{}
	}

	weights := make([]float64, len(emitters))
	total := 0.0
	for i, e := range emitters {
		w := e.Power()
		if w < 0 {
			w = 0
		}
		weights[i] = w
		total += w
	}

	pmf := make([]float64, len(emitters))
	if total <= 0 {
		uniform := 1.0 / float64(len(emitters))
		for i := range pmf {
			pmf[i] = uniform
		}
	} else {
		for i, w := range weights {
			pmf[i] = w / total
		}
	}

	cdf := make([]float64, len(pmf))
	floats.CumSum(cdf, pmf)
	// Guard against floating-point drift so the final bucket reaches 1.
	cdf[len(cdf)-1] = 1.0

	return &emitterDistribution{emitters: emitters, pmf: pmf, cdf: cdf}
}

// sample selects an emitter proportional to its share of total power and
// returns its discrete selection probability.
func (d *emitterDistribution) sample(u float64) (core.Emitter, float64) {
	if len(d.emitters) == 0 {
		return nil, 0
	}
	idx := sort.SearchFloat64s(d.cdf, u)
	if idx >= len(d.emitters) {
		idx = len(d.emitters) - 1
	}
	return d.emitters[idx], d.pmf[idx]
}

// pdf returns the discrete selection probability sample(u) would have
// produced for this emitter, for MIS against emitter sampling elsewhere.
func (d *emitterDistribution) pdf(emitter core.Emitter) float64 {
	for i, e := range d.emitters {
		if e == emitter {
			return d.pmf[i]
		}
	}
	return 0
}
