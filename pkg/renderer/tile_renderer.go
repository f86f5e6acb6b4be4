package renderer

import (
	"image"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Unique tile identifier, row-major
	X, Y   int             // Tile coordinates (not pixel coordinates)
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tileID := 0

	// Calculate number of tiles in each dimension
	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, &Tile{
				ID:     tileID,
				X:      tileX,
				Y:      tileY,
				Bounds: image.Rect(x0, y0, x1, y1),
			})
			tileID++
		}
	}

	return tiles
}

// tileSeed derives the sampler seed of a tile from the render seed
func tileSeed(seed int64, tileID int) int64 {
	return seed*1_000_003 + int64(tileID) + 42 // +42 to avoid seed 0
}

// TileRenderer renders individual tiles into a shared image
type TileRenderer struct {
	scene  *scene.Scene
	camera *geometry.Camera
	tracer integrator.Integrator
}

// NewTileRenderer creates a new tile renderer with the given scene, camera and integrator
func NewTileRenderer(s *scene.Scene, camera *geometry.Camera, tracer integrator.Integrator) *TileRenderer {
	return &TileRenderer{
		scene:  s,
		camera: camera,
		tracer: tracer,
	}
}

// RenderTile renders the pixels of tile into img with a sampler of its own.
// Tiles never overlap, so concurrent calls on distinct tiles are safe.
func (tr *TileRenderer) RenderTile(tile *Tile, img *image.RGBA, seed int64) RenderStats {
	sampler := core.NewSeededSampler(tileSeed(seed, tile.ID))
	bounds := tile.Bounds

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetRGBA(x, y, CapturePixel(tr.camera, x, y, tr.tracer, tr.scene, sampler))
		}
	}

	pixels := bounds.Dx() * bounds.Dy()
	return RenderStats{
		TotalPixels:    pixels,
		TotalSamples:   pixels * tr.camera.Samples(),
		AverageSamples: float64(tr.camera.Samples()),
		Tiles:          1,
	}
}

// extractTileImage copies the tile's pixels out of the shared image
func extractTileImage(img *image.RGBA, tile *Tile) *image.RGBA {
	bounds := tile.Bounds
	tileImg := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			tileImg.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, img.RGBAAt(x, y))
		}
	}
	return tileImg
}
