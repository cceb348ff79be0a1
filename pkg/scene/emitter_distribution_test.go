package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashwoolford/pathforge/pkg/core"
	"github.com/ashwoolford/pathforge/pkg/emitters"
)

func TestEmitterDistributionWeightsByPower(t *testing.T) {
	bright := emitters.NewDirectional(core.NewVec3(0, -1, 0), core.NewVec3(100, 100, 100))
	dim := emitters.NewDirectional(core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1))
	dist := newEmitterDistribution([]core.Emitter{bright, dim})

	assert.Greater(t, dist.pdf(bright), dist.pdf(dim))
	assert.InDelta(t, 1.0, dist.pdf(bright)+dist.pdf(dim), 1e-9)
}

func TestEmitterDistributionSampleStaysInRange(t *testing.T) {
	a := emitters.NewDirectional(core.NewVec3(0, -1, 0), core.NewVec3(5, 5, 5))
	b := emitters.NewDirectional(core.NewVec3(0, 1, 0), core.NewVec3(5, 5, 5))
	dist := newEmitterDistribution([]core.Emitter{a, b})

	counts := map[core.Emitter]int{}
	for i := 0; i < 1000; i++ {
		u := float64(i) / 1000
		e, pdf := dist.sample(u)
		assert.Greater(t, pdf, 0.0)
		counts[e]++
	}
	assert.Greater(t, counts[core.Emitter(a)], 0)
	assert.Greater(t, counts[core.Emitter(b)], 0)
}

func TestEmitterDistributionEmptyIsSafe(t *testing.T) {
	dist := newEmitterDistribution(nil)
	e, pdf := dist.sample(0.5)
	assert.Nil(t, e)
	assert.Equal(t, 0.0, pdf)
}

func TestEmitterDistributionUnknownEmitterHasZeroPDF(t *testing.T) {
	a := emitters.NewDirectional(core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1))
	other := emitters.NewDirectional(core.NewVec3(1, 0, 0), core.NewVec3(1, 1, 1))
	dist := newEmitterDistribution([]core.Emitter{a})
	assert.Equal(t, 0.0, dist.pdf(other))
}
