package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3, 4, 0)
	n := v.Normalize()
	assert.InDelta(t, 1.0, n.Length(), 1e-9)
	assert.InDelta(t, 0.6, n.X, 1e-9)
	assert.InDelta(t, 0.8, n.Y, 1e-9)
}

func TestVec3NormalizeZero(t *testing.T) {
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())
}

func TestVec3DotCross(t *testing.T) {
	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)
	assert.Equal(t, 0.0, x.Dot(y))
	assert.Equal(t, NewVec3(0, 0, 1), x.Cross(y))
}

func TestVec3IsFinite(t *testing.T) {
	assert.True(t, NewVec3(1, 2, 3).IsFinite())
	assert.False(t, NewVec3(math.NaN(), 0, 0).IsFinite())
	assert.False(t, NewVec3(math.Inf(1), 0, 0).IsFinite())
}

func TestVec3MaxComponent(t *testing.T) {
	assert.Equal(t, 5.0, NewVec3(1, 5, 3).MaxComponent())
}

func TestVec3Luminance(t *testing.T) {
	white := NewVec3(1, 1, 1)
	assert.InDelta(t, 1.0, white.Luminance(), 1e-9)
}

func TestVec3Clamp(t *testing.T) {
	v := NewVec3(-1, 0.5, 2)
	c := v.Clamp(0, 1)
	assert.Equal(t, NewVec3(0, 0.5, 1), c)
}
