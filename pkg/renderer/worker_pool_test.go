package renderer

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashwoolford/pathforge/pkg/integrator"
)

func TestWorkerPoolRunCoversAllTilesAndPixels(t *testing.T) {
	sc := litScene(t)
	pt := integrator.New(integrator.Config{MaxDepth: 2, RussianRouletteMinBounces: 2})
	tr := NewTileRenderer(testCamera(), sc, pt, AdaptiveConfig{MinSamples: 2, MaxSamplesPerPixel: 4, Threshold: 0})

	film := NewFilm(16, 16)
	tiles := NewTileGrid(16, 16, 4)
	pool := NewWorkerPool(2, tr, film, 7)

	stats := pool.Run(context.Background(), tiles)

	assert.Equal(t, len(tiles), stats.TilesCompleted)
	assert.False(t, stats.Cancelled)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			assert.Greater(t, film.Pixels[y][x].SampleCount, 0)
		}
	}
}

func TestWorkerPoolRunReportsProgress(t *testing.T) {
	sc := litScene(t)
	pt := integrator.New(integrator.Config{MaxDepth: 1, RussianRouletteMinBounces: 1})
	tr := NewTileRenderer(testCamera(), sc, pt, AdaptiveConfig{MinSamples: 1, MaxSamplesPerPixel: 1, Threshold: 0})

	film := NewFilm(8, 8)
	tiles := NewTileGrid(8, 8, 4)
	pool := NewWorkerPool(2, tr, film, 1)

	var calls int32
	pool.OnTileDone(func(tileID, completed, total int) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, len(tiles), total)
	})

	pool.Run(context.Background(), tiles)
	assert.Equal(t, int32(len(tiles)), calls)
}

func TestWorkerPoolRunRespectsCancellation(t *testing.T) {
	sc := litScene(t)
	pt := integrator.New(integrator.Config{MaxDepth: 1, RussianRouletteMinBounces: 1})
	tr := NewTileRenderer(testCamera(), sc, pt, AdaptiveConfig{MinSamples: 1, MaxSamplesPerPixel: 1, Threshold: 0})

	film := NewFilm(8, 8)
	tiles := NewTileGrid(8, 8, 4)
	pool := NewWorkerPool(1, tr, film, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats := pool.Run(ctx, tiles)
	assert.True(t, stats.Cancelled)
}
