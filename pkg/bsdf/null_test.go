package bsdf

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashwoolford/pathforge/pkg/core"
)

func TestNullPassesStraightThrough(t *testing.T) {
	n := Null{}
	wi := core.NewVec3(0.2, 0.3, 0.9).Normalize()
	sample, ok := n.Sample(wi, core.NewVec2(0.1, 0.1))
	assert.True(t, ok)
	assert.True(t, sample.Lobe.IsDelta())
	assert.InDelta(t, 1.0, sample.Weight.X, 1e-9)
	assert.InDelta(t, -wi.X, sample.Wo.X, 1e-9)
	assert.InDelta(t, -wi.Y, sample.Wo.Y, 1e-9)
	assert.InDelta(t, -wi.Z, sample.Wo.Z, 1e-9)
}

func TestNullEvalAndPDFAreZero(t *testing.T) {
	n := Null{}
	wi := core.NewVec3(0, 0, 1)
	wo := core.NewVec3(0, 0, -1)
	assert.True(t, n.Eval(wi, wo).IsZero())
	assert.Equal(t, 0.0, n.PDF(wi, wo))
}
