package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStratifiedCoversEachStratumOnce(t *testing.T) {
	s := NewStratified(4, 4, 99)
	s.StartPixel(3, 5)

	seen := make(map[int]bool)
	for i := 0; i < 16; i++ {
		s.StartSample(i)
		v := s.Get1D()
		bucket := int(v * 16)
		assert.False(t, seen[bucket], "stratum %d sampled more than once", bucket)
		seen[bucket] = true
	}
	assert.Len(t, seen, 16)
}

func TestStratifiedDeterministicPerPixel(t *testing.T) {
	a := NewStratified(2, 2, 5)
	a.StartPixel(10, 10)
	a.StartSample(0)
	va := a.Get2D()

	b := NewStratified(2, 2, 5)
	b.StartPixel(10, 10)
	b.StartSample(0)
	vb := b.Get2D()

	assert.Equal(t, va, vb)
}

func TestStratifiedFallsBackPastSampleCount(t *testing.T) {
	s := NewStratified(2, 2, 1)
	s.StartPixel(0, 0)
	s.StartSample(4) // only 4 strata exist (indices 0-3)
	v := s.Get1D()
	assert.GreaterOrEqual(t, v, 0.0)
	assert.Less(t, v, 1.0)
}
