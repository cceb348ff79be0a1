package emitters

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashwoolford/pathforge/pkg/core"
)

func TestDirectionalSampleIsDelta(t *testing.T) {
	d := NewDirectional(core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1))
	sample, ok := d.SampleDirect(core.NewVec3(0, 0, 0), core.NewVec2(0, 0))
	assert.True(t, ok)
	assert.True(t, sample.Delta)
	assert.Equal(t, infiniteDistance, sample.Distance)
	assert.InDelta(t, 0, sample.Wi.Y-1, 1e-9)
}

func TestDirectionalPDFDirectIsZero(t *testing.T) {
	d := NewDirectional(core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1))
	assert.Equal(t, 0.0, d.PDFDirect(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)))
}

func TestDirectionalIsDelta(t *testing.T) {
	d := NewDirectional(core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1))
	assert.True(t, d.IsDelta())
}
