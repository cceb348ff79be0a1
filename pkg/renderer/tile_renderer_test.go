package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashwoolford/pathforge/pkg/bsdf"
	"github.com/ashwoolford/pathforge/pkg/core"
	"github.com/ashwoolford/pathforge/pkg/emitters"
	"github.com/ashwoolford/pathforge/pkg/integrator"
	"github.com/ashwoolford/pathforge/pkg/sampler"
	"github.com/ashwoolford/pathforge/pkg/scene"
	"github.com/ashwoolford/pathforge/pkg/shapes"
)

func litScene(t *testing.T) *scene.Scene {
	t.Helper()
	lightShape := shapes.NewQuad(core.NewVec3(-50, -50, -5), core.NewVec3(100, 0, 0), core.NewVec3(0, 100, 0))
	emitter := emitters.NewArea(lightShape, core.NewVec3(3, 3, 3))
	absorber := bsdf.NewLambertian(core.NewVec3(0, 0, 0))

	return scene.NewBuilder().
		AddPrimitive(&core.Primitive{Shape: lightShape, Material: absorber, Emitter: emitter}).
		Build()
}

func testCamera() *Camera {
	return NewCamera(CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 1.0,
		VFov:        60.0,
	})
}

func TestTileRendererRendersEveryPixel(t *testing.T) {
	sc := litScene(t)
	pt := integrator.New(integrator.Config{MaxDepth: 2, RussianRouletteMinBounces: 2})
	tr := NewTileRenderer(testCamera(), sc, pt, AdaptiveConfig{MinSamples: 4, MaxSamplesPerPixel: 8, Threshold: 0})

	film := NewFilm(8, 8)
	fullTile := NewTileGrid(8, 8, 8)[0]

	s := sampler.NewIndependentSeeded(5)
	stats := tr.RenderTile(fullTile, film, s)

	assert.Equal(t, 64, stats.TotalPixels)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			assert.Greater(t, film.Pixels[y][x].SampleCount, 0)
		}
	}
}

func TestTileRendererAdaptiveStopsEarlyWhenConverged(t *testing.T) {
	sc := scene.NewBuilder().Build() // empty scene, every ray misses -> black, zero variance immediately
	pt := integrator.New(integrator.Config{MaxDepth: 2, RussianRouletteMinBounces: 2})
	tr := NewTileRenderer(testCamera(), sc, pt, AdaptiveConfig{MinSamples: 2, MaxSamplesPerPixel: 64, Threshold: 0.01})

	film := NewFilm(4, 4)
	tile := NewTileGrid(4, 4, 4)[0]
	s := sampler.NewIndependentSeeded(9)
	tr.RenderTile(tile, film, s)

	// Black pixels converge immediately (variance zero), so no pixel should
	// have consumed anywhere near the 64-sample ceiling.
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Less(t, film.Pixels[y][x].SampleCount, 64)
		}
	}
}
