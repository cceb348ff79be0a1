package emitters

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashwoolford/pathforge/pkg/core"
	"github.com/ashwoolford/pathforge/pkg/shapes"
)

func TestAreaSampleDirectFacingAway(t *testing.T) {
	sphere := shapes.NewSphere(core.NewVec3(0, 5, 0), 1.0)
	area := NewArea(sphere, core.NewVec3(10, 10, 10))

	// reference point on the far side of the sphere from any visible-facing
	// sample is still handled correctly by SampleArea's uniform-by-area
	// distribution; this test checks the facing-away rejection for a point
	// sampled on the back hemisphere relative to ref.
	ref := core.NewVec3(0, 5, 0) // inside the sphere: every normal faces away
	_, ok := area.SampleDirect(ref, core.NewVec2(0.5, 0.5))
	assert.False(t, ok)
}

func TestAreaSampleDirectVisibleFace(t *testing.T) {
	sphere := shapes.NewSphere(core.NewVec3(0, 0, 0), 1.0)
	area := NewArea(sphere, core.NewVec3(1, 1, 1))

	ref := core.NewVec3(0, 0, 5)
	sample, ok := area.SampleDirect(ref, core.NewVec2(0.5, 0.2))
	assert.True(t, ok)
	assert.Greater(t, sample.PDFSolidAngle, 0.0)
	assert.False(t, sample.Delta)
}

func TestAreaPowerPositive(t *testing.T) {
	sphere := shapes.NewSphere(core.NewVec3(0, 0, 0), 2.0)
	area := NewArea(sphere, core.NewVec3(1, 1, 1))
	assert.Greater(t, area.Power(), 0.0)
}

func TestAreaIsNotDelta(t *testing.T) {
	sphere := shapes.NewSphere(core.NewVec3(0, 0, 0), 1.0)
	area := NewArea(sphere, core.NewVec3(1, 1, 1))
	assert.False(t, area.IsDelta())
}
