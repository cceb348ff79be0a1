package renderer

import (
	"github.com/ashwoolford/pathforge/pkg/core"
	"github.com/ashwoolford/pathforge/pkg/integrator"
	"github.com/ashwoolford/pathforge/pkg/scene"
)

// AdaptiveConfig controls the adaptive per-pixel sample count (SPEC_FULL
// §3's supplemented feature): each pixel keeps sampling until either
// MaxSamplesPerPixel is reached or its relative error drops below
// Threshold, with MinSamples as a floor so convergence is never judged from
// too few samples.
type AdaptiveConfig struct {
	MinSamples         int
	MaxSamplesPerPixel int
	Threshold          float64
}

// TileRenderer renders one tile's pixels by repeatedly asking the camera
// for a ray, invoking the integrator, and folding the result into the
// film — generalizing the teacher's TileRenderer (core.Camera/core.Scene/
// core.Integrator) to this repository's Camera/pkg/scene.Scene/
// pkg/integrator.Integrator contracts.
type TileRenderer struct {
	camera     *Camera
	sc         *scene.Scene
	integrator integrator.Integrator
	adaptive   AdaptiveConfig
}

// NewTileRenderer builds a tile renderer over the given camera, scene, and
// integrator.
func NewTileRenderer(camera *Camera, sc *scene.Scene, integ integrator.Integrator, adaptive AdaptiveConfig) *TileRenderer {
	return &TileRenderer{camera: camera, sc: sc, integrator: integ, adaptive: adaptive}
}

// RenderTile samples every pixel in bounds into film, using sampler as the
// tile's private random stream (spec §4.8: "each worker holds a private
// sampler... no cross-tile state"). Returns the tile's contribution to the
// aggregate RenderStats.
func (tr *TileRenderer) RenderTile(tile *Tile, film *Film, sampler core.Sampler) RenderStats {
	bounds := tile.Bounds
	stats := RenderStats{
		TotalPixels:    bounds.Dx() * bounds.Dy(),
		MinSamplesUsed: tr.adaptive.MaxSamplesPerPixel,
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := &film.Pixels[y][x]
			sampler.StartPixel(x, y)
			used := tr.samplePixel(x, y, film.Width, film.Height, ps, sampler)

			stats.TotalSamples += used
			stats.DiscardedSamples += ps.Discarded
			if used > stats.MaxSamplesUsed {
				stats.MaxSamplesUsed = used
			}
			if used < stats.MinSamplesUsed {
				stats.MinSamplesUsed = used
			}
		}
	}

	return stats
}

// samplePixel adaptively samples a single pixel and returns the number of
// samples it consumed this call.
func (tr *TileRenderer) samplePixel(x, y, width, height int, ps *PixelStats, sampler core.Sampler) int {
	start := ps.SampleCount + ps.Discarded
	for i := ps.SampleCount + ps.Discarded; i < tr.adaptive.MaxSamplesPerPixel; i++ {
		if ps.SampleCount >= tr.adaptive.MinSamples && ps.RelativeError() < tr.adaptive.Threshold {
			break
		}
		sampler.StartSample(i)
		ray := tr.camera.GetRayForPixel(x, y, width, height, sampler)
		L := tr.integrator.Li(ray, tr.sc, sampler)
		ps.AddSample(L)
	}
	return ps.SampleCount + ps.Discarded - start
}
