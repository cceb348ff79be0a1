package media

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashwoolford/pathforge/pkg/core"
	"github.com/ashwoolford/pathforge/pkg/sampler"
)

func TestHomogeneousTransmittanceDecaysWithDistance(t *testing.T) {
	m := NewHomogeneous(core.NewVec3(0.1, 0.1, 0.1), core.NewVec3(0.2, 0.2, 0.2), 0)
	short := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	short.TMax = 1
	long := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	long.TMax = 10

	trShort := m.Transmittance(short, nil)
	trLong := m.Transmittance(long, nil)
	assert.Greater(t, trShort.X, trLong.X)
	assert.InDelta(t, math.Exp(-0.3*(short.TMax-short.TMin)), trShort.X, 1e-9)
}

func TestHomogeneousSampleEitherScattersOrPassesThrough(t *testing.T) {
	m := NewHomogeneous(core.NewVec3(0.05, 0.05, 0.05), core.NewVec3(0.5, 0.5, 0.5), 0)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	ray.TMax = 20
	s := sampler.NewIndependentSeeded(1)

	scattered, missed := 0, 0
	for i := 0; i < 200; i++ {
		mi, weight := m.Sample(ray, s)
		assert.True(t, weight.X >= 0 || weight.IsZero())
		if mi != nil {
			scattered++
			assert.InDelta(t, 1.0, mi.Wo.Length(), 1e-6)
		} else {
			missed++
		}
	}
	assert.Greater(t, scattered, 0)
}

func TestHomogeneousZeroDensityIsVacuum(t *testing.T) {
	m := NewHomogeneous(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0), 0)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	ray.TMax = 5
	tr := m.Transmittance(ray, nil)
	assert.InDelta(t, 1.0, tr.X, 1e-9)
}
