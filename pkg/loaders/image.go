package loaders

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/df07/go-pathtracer/pkg/material"
)

// ErrUnsupportedFormat is returned when no encoder matches a file extension
var ErrUnsupportedFormat = errors.New("unsupported image format")

// jpegQuality is used for .jpg and .jpeg output
const jpegQuality = 95

// LoadImage decodes a PNG, JPEG, BMP or TIFF file (detected from its header)
func LoadImage(filename string) (image.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// The bmp and tiff imports register their decoders with image.Decode
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}
	return img, nil
}

// LoadImageTexture loads an image file as a linear-color texture
func LoadImageTexture(filename string) (*material.ImageTexture, error) {
	img, err := LoadImage(filename)
	if err != nil {
		return nil, err
	}
	return material.NewImageTextureFromImage(img), nil
}

// SaveImage encodes img to filename, choosing the format from the extension:
// .png, .jpg/.jpeg, .bmp or .tif/.tiff
func SaveImage(filename string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(filename))
	encode, ok := encoders[ext]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}

	if err := encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}
	return file.Close()
}

var encoders = map[string]func(*os.File, image.Image) error{
	".png": func(f *os.File, img image.Image) error { return png.Encode(f, img) },
	".jpg": func(f *os.File, img image.Image) error {
		return jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	},
	".jpeg": func(f *os.File, img image.Image) error {
		return jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	},
	".bmp":  func(f *os.File, img image.Image) error { return bmp.Encode(f, img) },
	".tif":  func(f *os.File, img image.Image) error { return tiff.Encode(f, img, nil) },
	".tiff": func(f *os.File, img image.Image) error { return tiff.Encode(f, img, nil) },
}
