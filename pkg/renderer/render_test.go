package renderer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderProducesFilmWithSamples(t *testing.T) {
	sc := litScene(t)
	config := DefaultConfig(8, 8)
	config.SamplesPerPixel = 4
	config.TileSize = 4
	config.NumWorkers = 2

	r := New(config, testCamera(), sc, nil)
	film, stats, err := r.Render(context.Background())

	assert.NoError(t, err)
	assert.Greater(t, stats.TotalSamples, 0)
	assert.Equal(t, 8, film.Width)
	assert.Equal(t, 8, film.Height)
}

func TestRenderReportsErrorWhenNoSamplesSucceed(t *testing.T) {
	sc := litScene(t)
	config := DefaultConfig(2, 2)
	config.SamplesPerPixel = 0 // every pixel's sample loop never runs
	config.TileSize = 2

	r := New(config, testCamera(), sc, nil)
	_, stats, err := r.Render(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 0, stats.TotalSamples)
}
