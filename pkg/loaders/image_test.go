package loaders

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// createTestImage creates a 2x2 image: white, red on top; green, blue below
func createTestImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})
	return img
}

func TestSaveAndLoadImage_Lossless(t *testing.T) {
	for _, ext := range []string{".png", ".bmp", ".tiff", ".TIF"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out"+ext)
			src := createTestImage()
			require.NoError(t, SaveImage(path, src))

			loaded, err := LoadImage(path)
			require.NoError(t, err)
			require.Equal(t, 2, loaded.Bounds().Dx())
			require.Equal(t, 2, loaded.Bounds().Dy())

			for y := 0; y < 2; y++ {
				for x := 0; x < 2; x++ {
					r, g, b, _ := loaded.At(loaded.Bounds().Min.X+x, loaded.Bounds().Min.Y+y).RGBA()
					want := src.RGBAAt(x, y)
					assert.Equal(t, want.R, uint8(r>>8), "(%d,%d)", x, y)
					assert.Equal(t, want.G, uint8(g>>8), "(%d,%d)", x, y)
					assert.Equal(t, want.B, uint8(b>>8), "(%d,%d)", x, y)
				}
			}
		})
	}
}

func TestSaveImage_JPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	require.NoError(t, SaveImage(path, createTestImage()))

	loaded, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), loaded.Bounds())
}

func TestSaveImage_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	err := SaveImage(path, createTestImage())
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no file should be created")
}

func TestLoadImage_Errors(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	garbage := filepath.Join(t.TempDir(), "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))
	_, err = LoadImage(garbage)
	assert.Error(t, err)
}

func TestLoadImageTexture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tex.png")
	require.NoError(t, SaveImage(path, createTestImage()))

	tex, err := LoadImageTexture(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tex.Width)
	assert.Equal(t, 2, tex.Height)

	// V=0 is the bottom row: bottom-right texel is blue
	hit := geometry.Intersection{UV: core.NewVec2(0.75, 0.25), HasUV: true}
	got := tex.Sample(core.Ray{}, hit)
	assert.InDelta(t, 0.0, got.R, 1e-9)
	assert.InDelta(t, 0.0, got.G, 1e-9)
	assert.InDelta(t, 1.0, got.B, 1e-9)

	// Top-left is white
	hit.UV = core.NewVec2(0.1, 0.9)
	assert.InDelta(t, 1.0, tex.Sample(core.Ray{}, hit).G, 1e-9)
}
