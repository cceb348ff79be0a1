package media

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashwoolford/pathforge/pkg/core"
	"github.com/ashwoolford/pathforge/pkg/sampler"
)

func uniformGrid(n int, value float64) *DensityGrid {
	values := make([]float64, n*n*n)
	for i := range values {
		values[i] = value
	}
	return &DensityGrid{NX: n, NY: n, NZ: n, Values: values}
}

func identityMap(p core.Vec3) core.Vec3 { return p }

func TestDensityGridTrilinearInterpolation(t *testing.T) {
	grid := uniformGrid(4, 1.0)
	d := grid.density(core.NewVec3(0.5, 0.5, 0.5))
	assert.InDelta(t, 1.0, d, 1e-9)
}

func TestHeterogeneousEmptyGridIsVacuum(t *testing.T) {
	grid := uniformGrid(2, 0.0)
	m := NewHeterogeneous(grid, core.NewVec3(0.1, 0.1, 0.1), core.NewVec3(0.1, 0.1, 0.1), 1.0, 0, identityMap)
	ray := core.NewRay(core.NewVec3(0.1, 0.1, 0.1), core.NewVec3(0, 0, 1))
	ray.TMax = 1
	s := sampler.NewIndependentSeeded(3)
	mi, weight := m.Sample(ray, s)
	assert.Nil(t, mi)
	assert.InDelta(t, 1.0, weight.X, 1e-9)
}

func TestHeterogeneousDenseGridEventuallyScatters(t *testing.T) {
	grid := uniformGrid(4, 1.0)
	m := NewHeterogeneous(grid, core.NewVec3(0.1, 0.1, 0.1), core.NewVec3(2, 2, 2), 2.1, 0, identityMap)
	s := sampler.NewIndependentSeeded(11)

	scattered := 0
	for i := 0; i < 50; i++ {
		ray := core.NewRay(core.NewVec3(0.5, 0.5, 0), core.NewVec3(0, 0, 1))
		ray.TMax = 1
		mi, _ := m.Sample(ray, s)
		if mi != nil {
			scattered++
		}
	}
	assert.Greater(t, scattered, 0)
}

func TestHeterogeneousTransmittanceBoundedByOne(t *testing.T) {
	grid := uniformGrid(4, 0.5)
	m := NewHeterogeneous(grid, core.NewVec3(0.1, 0.1, 0.1), core.NewVec3(0.3, 0.3, 0.3), 0.5, 0, identityMap)
	ray := core.NewRay(core.NewVec3(0.5, 0.5, 0), core.NewVec3(0, 0, 1))
	ray.TMax = 1
	s := sampler.NewIndependentSeeded(4)
	tr := m.Transmittance(ray, s)
	assert.LessOrEqual(t, tr.X, 1.0+1e-9)
	assert.GreaterOrEqual(t, tr.X, 0.0)
}
