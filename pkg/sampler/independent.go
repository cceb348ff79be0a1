// Package sampler implements the core.Sampler streams the spec's §4.1
// describes: Independent (plain PRNG) and Stratified (jittered grid per
// pixel). The teacher's own tests reference a `core.NewRandomSampler`
// wrapping `*rand.Rand` that never shipped in this snapshot of the repo;
// Independent follows that exact naming and construction pattern, and
// Stratified generalizes it with the jittered-strata scheme common to
// path tracers in this corpus's domain.
package sampler

import (
	"math/rand"

	"github.com/ashwoolford/pathforge/pkg/core"
)

// Independent draws every sample from a single PRNG stream with no
// correlation between pixels or sample indices beyond the seed.
type Independent struct {
	rng *rand.Rand
}

// NewIndependent wraps rng as a core.Sampler.
func NewIndependent(rng *rand.Rand) *Independent {
	return &Independent{rng: rng}
}

// NewIndependentSeeded creates an Independent sampler seeded deterministically.
func NewIndependentSeeded(seed uint64) *Independent {
	return &Independent{rng: rand.New(rand.NewSource(int64(seed)))}
}

func (s *Independent) StartPixel(x, y int) {}
func (s *Independent) StartSample(i int)   {}

func (s *Independent) Get1D() float64 { return s.rng.Float64() }

func (s *Independent) Get2D() core.Vec2 {
	return core.Vec2{X: s.rng.Float64(), Y: s.rng.Float64()}
}

func (s *Independent) Clone(seed uint64) core.Sampler {
	return NewIndependentSeeded(seed)
}
