package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// ErrInvalidOptions is returned by Render for unusable options
var ErrInvalidOptions = errors.New("invalid render options")

// Options contains configuration for a parallel render
type Options struct {
	TileSize   int   // Size of each square tile in pixels
	NumWorkers int   // Number of parallel workers (0 = use CPU count)
	Seed       int64 // Base seed; equal seeds give bit-identical images

	// Progress receives an event per finished tile. Sends never block:
	// events are dropped while the channel is full. Render does not close it.
	Progress chan<- TileCompletionResult

	Logger *slog.Logger // nil uses slog.Default()
}

// DefaultOptions returns sensible default values
func DefaultOptions() Options {
	return Options{
		TileSize:   32,
		NumWorkers: 0, // Auto-detect CPU count
		Seed:       1,
	}
}

// TileCompletionResult contains information about a completed tile
type TileCompletionResult struct {
	TileX     int // Tile coordinates (not pixel coordinates)
	TileY     int
	Bounds    image.Rectangle // Pixel bounds of the tile in the full image
	TileImage *image.RGBA     // Image data for just this tile

	// Progress information
	TileNumber int // Completion order of this tile (1-based)
	TotalTiles int // Total number of tiles in the image
}

// Render renders every pixel of camera's image in parallel tiles. Each tile
// draws from its own sampler seeded from opts.Seed and the tile ID, so the
// output does not depend on scheduling or worker count. Cancelling ctx stops
// the render between tiles and returns the context error.
func Render(ctx context.Context, s *scene.Scene, camera *geometry.Camera, tracer integrator.Integrator, opts Options) (*image.RGBA, RenderStats, error) {
	if opts.TileSize <= 0 {
		return nil, RenderStats{}, fmt.Errorf("%w: tile size %d", ErrInvalidOptions, opts.TileSize)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	width, height := camera.Width(), camera.Height()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	tiles := NewTileGrid(width, height, opts.TileSize)
	pool := NewWorkerPool(opts.NumWorkers)
	tileRenderer := NewTileRenderer(s, camera, tracer)

	logger.Info("render started",
		"width", width, "height", height, "samples", camera.Samples(),
		"objects", s.GetPrimitiveCount(), "tiles", len(tiles), "workers", pool.GetNumWorkers())

	var (
		mu    sync.Mutex
		stats = RenderStats{Workers: pool.GetNumWorkers()}
	)
	start := time.Now()

	err := pool.Run(ctx, tiles, func(tile *Tile) error {
		tileStats := tileRenderer.RenderTile(tile, img, opts.Seed)

		mu.Lock()
		stats.add(tileStats)
		tileNumber := stats.Tiles
		mu.Unlock()

		if opts.Progress != nil {
			event := TileCompletionResult{
				TileX:      tile.X,
				TileY:      tile.Y,
				Bounds:     tile.Bounds,
				TileImage:  extractTileImage(img, tile),
				TileNumber: tileNumber,
				TotalTiles: len(tiles),
			}
			select {
			case opts.Progress <- event:
			default:
				logger.Debug("progress channel full, dropping tile event", "tile", tile.ID)
			}
		}
		return nil
	})

	stats.Elapsed = time.Since(start)
	if err != nil {
		logger.Warn("render stopped", "error", err, "tiles_done", stats.Tiles, "elapsed", stats.Elapsed)
		return nil, stats, err
	}

	logger.Info("render finished",
		"elapsed", stats.Elapsed,
		"rate", FormatRate(stats.SamplesPerSecond())+"samples/s")
	return img, stats, nil
}
