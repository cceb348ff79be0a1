package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndependentInRange(t *testing.T) {
	s := NewIndependentSeeded(42)
	for i := 0; i < 1000; i++ {
		v := s.Get1D()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)

		u := s.Get2D()
		assert.GreaterOrEqual(t, u.X, 0.0)
		assert.Less(t, u.X, 1.0)
		assert.GreaterOrEqual(t, u.Y, 0.0)
		assert.Less(t, u.Y, 1.0)
	}
}

func TestIndependentSameSeedReproducible(t *testing.T) {
	a := NewIndependentSeeded(7)
	b := NewIndependentSeeded(7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Get1D(), b.Get1D())
	}
}

func TestIndependentCloneIsIndependentStream(t *testing.T) {
	s := NewIndependentSeeded(1)
	clone := s.Clone(2)
	assert.NotNil(t, clone)
}
