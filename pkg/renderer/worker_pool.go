package renderer

import (
	"context"
	"runtime"
	"sync"

	"github.com/alitto/pond/v2"

	"github.com/ashwoolford/pathforge/pkg/sampler"
)

// TileDoneFunc is called after each tile finishes, from whichever worker
// goroutine completed it; implementations must be safe for concurrent use.
type TileDoneFunc func(tileID, completed, total int)

// WorkerPool schedules tile-rendering tasks across a fixed-size pool of OS
// threads (spec §4.8, §5: "parallel OS threads over a fixed-size worker
// pool, one tile at a time per worker"). Backed by alitto/pond/v2 in place
// of the teacher's hand-rolled channel/WaitGroup WorkerPool
// (pkg/renderer/worker_pool.go), while preserving its per-worker-private-
// sampler and tile-completion-counter semantics.
type WorkerPool struct {
	pool pond.Pool
	tr   *TileRenderer
	film *Film
	seed uint64

	mu        sync.Mutex
	stats     RenderStats
	completed int
	onDone    TileDoneFunc
}

// NewWorkerPool builds a pool of numWorkers goroutines (0 or less uses
// runtime.NumCPU()) that render tiles into film using tr, each tile seeded from
// seed combined with its tile id.
func NewWorkerPool(numWorkers int, tr *TileRenderer, film *Film, seed uint64) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		pool: pond.NewPool(numWorkers),
		tr:   tr,
		film: film,
		seed: seed,
	}
}

// OnTileDone registers a callback invoked after each tile completes, for
// progress reporting (spec §4.8: "logged at configurable intervals").
func (wp *WorkerPool) OnTileDone(fn TileDoneFunc) {
	wp.onDone = fn
}

// tileSeed derives a private per-tile seed from the pool's base seed, so
// each tile's sampler stream is independent of scheduling order.
func tileSeed(base uint64, tileID int) uint64 {
	return base ^ uint64(tileID)*0x9E3779B97F4A7C15
}

// Run submits every tile as a task and blocks until all have completed or
// ctx is cancelled. Cancellation is checked once per tile, not once per
// sample (spec §5's cooperative-cancellation granularity); tiles already
// in flight finish normally. Returns the aggregate RenderStats.
func (wp *WorkerPool) Run(ctx context.Context, tiles []*Tile) RenderStats {
	total := len(tiles)
	wp.stats = RenderStats{TotalTiles: total, TotalPixels: wp.film.Width * wp.film.Height}

	for _, tile := range tiles {
		tile := tile
		wp.pool.Submit(func() {
			select {
			case <-ctx.Done():
				wp.mu.Lock()
				wp.stats.Cancelled = true
				wp.mu.Unlock()
				return
			default:
			}

			tileSampler := sampler.NewIndependentSeeded(tileSeed(wp.seed, tile.ID))
			tileStats := wp.tr.RenderTile(tile, wp.film, tileSampler)

			wp.mu.Lock()
			wp.stats.merge(tileStats)
			wp.completed++
			completed := wp.completed
			wp.mu.Unlock()

			if wp.onDone != nil {
				wp.onDone(tile.ID, completed, total)
			}
		})
	}

	wp.pool.StopAndWait()
	wp.stats.finalize()
	return wp.stats
}
