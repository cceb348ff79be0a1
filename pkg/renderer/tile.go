package renderer

import "image"

// Tile is a rectangular region of the image assigned to one worker (spec
// §4.8: "image split into tiles... each worker holds a private sampler").
// Grounded on the teacher's progressive.go Tile/NewTileGrid.
type Tile struct {
	ID     int
	Bounds image.Rectangle
}

// NewTileGrid partitions a width x height image into tileSize x tileSize
// tiles (the last row/column may be smaller), in row-major order.
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	id := 0

	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0 := tx * tileSize
			y0 := ty * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, &Tile{ID: id, Bounds: image.Rect(x0, y0, x1, y1)})
			id++
		}
	}

	return tiles
}
