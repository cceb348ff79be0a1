package renderer

// RenderStats summarizes a completed (or in-progress) render, aggregated
// across every tile (spec §4.8's per-pass reporting, §7's discarded-sample
// counters surfaced "at completion").
type RenderStats struct {
	TotalPixels int // pixels covered by the render
	TotalTiles  int // tiles covered by the render

	TotalSamples   int     // samples actually accumulated across all pixels
	AverageSamples float64 // TotalSamples / TotalPixels
	MaxSamplesUsed int     // most samples any single pixel consumed
	MinSamplesUsed int     // fewest samples any single pixel consumed

	// DiscardedSamples counts samples dropped by the spec §7
	// NumericalAnomaly policy: any sample whose radiance has a non-finite
	// channel is discarded rather than accumulated, and counted here instead.
	DiscardedSamples int

	TilesCompleted int
	Cancelled      bool
}

// merge folds another tile's stats into the aggregate.
func (s *RenderStats) merge(tile RenderStats) {
	s.TotalSamples += tile.TotalSamples
	s.DiscardedSamples += tile.DiscardedSamples
	if tile.MaxSamplesUsed > s.MaxSamplesUsed {
		s.MaxSamplesUsed = tile.MaxSamplesUsed
	}
	if s.TilesCompleted == 0 || tile.MinSamplesUsed < s.MinSamplesUsed {
		s.MinSamplesUsed = tile.MinSamplesUsed
	}
	s.TilesCompleted++
}

// finalize computes the derived averages once every tile has merged in.
func (s *RenderStats) finalize() {
	if s.TotalPixels > 0 {
		s.AverageSamples = float64(s.TotalSamples) / float64(s.TotalPixels)
	}
}
