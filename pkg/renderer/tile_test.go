package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTileGridCoversWholeImage(t *testing.T) {
	tiles := NewTileGrid(100, 50, 32)

	covered := make([][]bool, 50)
	for y := range covered {
		covered[y] = make([]bool, 100)
	}

	for _, tile := range tiles {
		b := tile.Bounds
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				assert.False(t, covered[y][x], "pixel (%d,%d) covered by more than one tile", x, y)
				covered[y][x] = true
			}
		}
	}

	for y := range covered {
		for x := range covered[y] {
			assert.True(t, covered[y][x], "pixel (%d,%d) left uncovered", x, y)
		}
	}
}

func TestNewTileGridHandlesNonDivisibleDimensions(t *testing.T) {
	tiles := NewTileGrid(10, 10, 3)
	// ceil(10/3) = 4 tiles per axis
	assert.Len(t, tiles, 16)

	last := tiles[len(tiles)-1]
	assert.Equal(t, 10, last.Bounds.Max.X)
	assert.Equal(t, 10, last.Bounds.Max.Y)
}

func TestNewTileGridAssignsUniqueIDs(t *testing.T) {
	tiles := NewTileGrid(64, 64, 16)
	seen := map[int]bool{}
	for _, tile := range tiles {
		assert.False(t, seen[tile.ID])
		seen[tile.ID] = true
	}
}
