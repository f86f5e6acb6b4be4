package material

import (
	"image"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// ImageTexture provides color from a 2D image addressed by surface UV
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Color // Linear colors, row-major: Pixels[y*Width + x]
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Color) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// NewImageTextureFromImage converts a decoded sRGB image to a linear texture
func NewImageTextureFromImage(img image.Image) *ImageTexture {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			pixels[y*width+x] = core.FromSRGB(float64(r)/65535, float64(g)/65535, float64(b)/65535)
		}
	}

	return NewImageTexture(width, height, pixels)
}

func (*ImageTexture) isTexture() {}

// Sample looks up the texel under the hit's UV using nearest-neighbor filtering.
// V=0 is the bottom row of the image. Hits without UV are black.
func (t *ImageTexture) Sample(_ core.Ray, hit geometry.Intersection) core.Color {
	if !hit.HasUV || t.Width == 0 || t.Height == 0 {
		return core.Black
	}

	u := wrap01(hit.UV.X)
	v := wrap01(hit.UV.Y)

	x := min(int(u*float64(t.Width)), t.Width-1)
	y := min(int((1.0-v)*float64(t.Height)), t.Height-1)

	return t.Pixels[y*t.Width+x]
}
