package shapes

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashwoolford/pathforge/pkg/core"
)

func newUnitQuad() *Quad {
	return NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1))
}

func TestQuadIntersectCenter(t *testing.T) {
	quad := newUnitQuad()
	ray := core.NewRay(core.NewVec3(0.5, 1, 0.5), core.NewVec3(0, -1, 0))

	hit, ok := quad.Intersect(ray)
	assert.True(t, ok)
	assert.InDelta(t, 1.0, hit.T, 1e-9)
	assert.InDelta(t, 0, hit.Point.Subtract(core.NewVec3(0.5, 0, 0.5)).Length(), 1e-9)
}

func TestQuadIntersectOutsideBounds(t *testing.T) {
	quad := newUnitQuad()

	origins := []core.Vec3{
		core.NewVec3(-0.5, 1, 0.5),
		core.NewVec3(1.5, 1, 0.5),
		core.NewVec3(0.5, 1, -0.5),
		core.NewVec3(0.5, 1, 1.5),
	}
	for _, origin := range origins {
		t.Run(fmt.Sprintf("%v", origin), func(t *testing.T) {
			ray := core.NewRay(origin, core.NewVec3(0, -1, 0))
			_, ok := quad.Intersect(ray)
			assert.False(t, ok)
		})
	}
}

func TestQuadIntersectCorners(t *testing.T) {
	quad := newUnitQuad()
	corners := []core.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}, {1, 0, 1}}
	for i, c := range corners {
		t.Run(fmt.Sprintf("corner_%d", i), func(t *testing.T) {
			ray := core.NewRay(c.Add(core.NewVec3(0, 1, 0)), core.NewVec3(0, -1, 0))
			_, ok := quad.Intersect(ray)
			assert.True(t, ok)
		})
	}
}

func TestQuadIntersectParallelRayMisses(t *testing.T) {
	quad := newUnitQuad()
	ray := core.NewRay(core.NewVec3(0.5, 1, 0.5), core.NewVec3(1, 0, 0))
	_, ok := quad.Intersect(ray)
	assert.False(t, ok)
}

func TestQuadAreaAndSample(t *testing.T) {
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 3))
	assert.InDelta(t, 6.0, quad.Area(), 1e-9)

	sample := quad.SampleArea(core.NewVec2(0.5, 0.5))
	assert.InDelta(t, 0, sample.Point.Subtract(core.NewVec3(1, 0, 1.5)).Length(), 1e-9)
	assert.InDelta(t, 1.0/6.0, sample.PDFArea, 1e-9)
}

func TestQuadBoundingBoxAxisAligned(t *testing.T) {
	quad := NewQuad(core.NewVec3(5, 0, 0), core.NewVec3(0, 2, 0), core.NewVec3(0, 0, 3))
	bbox := quad.BoundingBox()
	assert.InDelta(t, 5, (bbox.Min.X+bbox.Max.X)/2, 1e-3)
	assert.InDelta(t, 2, bbox.Max.Y, 1e-9)
	assert.InDelta(t, 3, bbox.Max.Z, 1e-9)
}
