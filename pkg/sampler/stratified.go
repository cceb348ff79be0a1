package sampler

import (
	"math"
	"math/rand"

	"github.com/ashwoolford/pathforge/pkg/core"
)

// Stratified divides each pixel's sample budget into a jittered
// xStrata*yStrata grid per dimension pair, which reduces variance relative
// to Independent sampling at the same sample count by avoiding the clumping
// that pure random samples produce (spec §4.1).
type Stratified struct {
	xStrata, yStrata int
	samplesPerPixel  int
	seed             uint64
	rng              *rand.Rand

	samples1D []float64
	samples2D []core.Vec2
	sampleIdx int
}

// NewStratifiedForSamples creates a stratified sampler sized from a flat
// samples-per-pixel budget, using the square grid from idealStrataFor
// rather than requiring the caller to supply the strata counts directly.
func NewStratifiedForSamples(samplesPerPixel int, seed uint64) *Stratified {
	x, y := idealStrataFor(samplesPerPixel)
	return NewStratified(x, y, seed)
}

// NewStratified creates a stratified sampler with xStrata*yStrata samples
// per pixel (samplesPerPixel must equal xStrata*yStrata).
func NewStratified(xStrata, yStrata int, seed uint64) *Stratified {
	return &Stratified{
		xStrata:         xStrata,
		yStrata:         yStrata,
		samplesPerPixel: xStrata * yStrata,
		seed:            seed,
		rng:             rand.New(rand.NewSource(int64(seed))),
	}
}

func (s *Stratified) StartPixel(x, y int) {
	// Reseed deterministically per pixel so renders are reproducible given
	// the same (pixel, seed) regardless of tile scheduling order.
	pixelSeed := s.seed ^ uint64(x)*2654435761 ^ uint64(y)*40503
	s.rng = rand.New(rand.NewSource(int64(pixelSeed)))

	s.samples1D = s.stratify1D()
	s.samples2D = s.stratify2D()
}

func (s *Stratified) stratify1D() []float64 {
	n := s.samplesPerPixel
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = (float64(i) + s.rng.Float64()) / float64(n)
	}
	s.shuffle1D(out)
	return out
}

func (s *Stratified) stratify2D() []core.Vec2 {
	out := make([]core.Vec2, 0, s.samplesPerPixel)
	for y := 0; y < s.yStrata; y++ {
		for x := 0; x < s.xStrata; x++ {
			out = append(out, core.Vec2{
				X: (float64(x) + s.rng.Float64()) / float64(s.xStrata),
				Y: (float64(y) + s.rng.Float64()) / float64(s.yStrata),
			})
		}
	}
	s.shuffle2D(out)
	return out
}

func (s *Stratified) shuffle1D(v []float64) {
	for i := len(v) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		v[i], v[j] = v[j], v[i]
	}
}

func (s *Stratified) shuffle2D(v []core.Vec2) {
	for i := len(v) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		v[i], v[j] = v[j], v[i]
	}
}

func (s *Stratified) StartSample(i int) {
	s.sampleIdx = i
}

// Get1D returns this pixel-sample's stratified value on its first call and
// falls back to the underlying PRNG for any further 1D requests in the same
// path (e.g. Russian-roulette decisions, BSDF component selection) — only
// the primary sample dimension is strictly stratified.
func (s *Stratified) Get1D() float64 {
	if len(s.samples1D) == 0 || s.sampleIdx >= len(s.samples1D) {
		return s.rng.Float64()
	}
	v := s.samples1D[s.sampleIdx]
	s.samples1D[s.sampleIdx] = -1 // consumed; subsequent calls this sample fall back to the PRNG
	if v < 0 {
		return s.rng.Float64()
	}
	return v
}

// Get2D returns this pixel-sample's stratified (u,v) pair on its first call
// (typically lens or pixel-offset sampling) and falls back to the PRNG
// thereafter, for the same reason as Get1D.
func (s *Stratified) Get2D() core.Vec2 {
	if len(s.samples2D) == 0 || s.sampleIdx >= len(s.samples2D) {
		return core.Vec2{X: s.rng.Float64(), Y: s.rng.Float64()}
	}
	v := s.samples2D[s.sampleIdx]
	if v.X < 0 {
		return core.Vec2{X: s.rng.Float64(), Y: s.rng.Float64()}
	}
	s.samples2D[s.sampleIdx] = core.Vec2{X: -1, Y: -1}
	return v
}

func (s *Stratified) Clone(seed uint64) core.Sampler {
	return NewStratified(s.xStrata, s.yStrata, seed)
}

// idealStrataFor returns a square side*side grid with side = round(sqrt(n))
// (at least 1). When n is not a perfect square, side*side differs from n
// (n = 8 gives 3x3 = 9 strata).
func idealStrataFor(n int) (x, y int) {
	side := int(math.Round(math.Sqrt(float64(n))))
	if side < 1 {
		side = 1
	}
	return side, side
}
