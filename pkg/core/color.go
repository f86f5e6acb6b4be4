package core

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a linear RGB radiance value. Components are unbounded above.
type Color struct {
	R, G, B float64
}

// NewColor creates a new linear color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// White and Black are the multiplicative and additive identities
var (
	White = Color{1, 1, 1}
	Black = Color{}
)

// Add returns the channel-wise sum
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Mul returns the channel-wise product
func (c Color) Mul(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Scale multiplies every channel by s
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// Sum returns R+G+B
func (c Color) Sum() float64 {
	return c.R + c.G + c.B
}

// MaxComponent returns the largest channel
func (c Color) MaxComponent() float64 {
	return max(c.R, c.G, c.B)
}

// Luminance returns the perceptual luminance of the color
func (c Color) Luminance() float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// IsBlack reports whether every channel is zero
func (c Color) IsBlack() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// Sanitize replaces NaN and infinite channels with zero
func (c Color) Sanitize() Color {
	return Color{finiteOrZero(c.R), finiteOrZero(c.G), finiteOrZero(c.B)}
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Lerp blends linearly toward other by t
func (c Color) Lerp(other Color, t float64) Color {
	blended := colorful.Color{R: c.R, G: c.G, B: c.B}.BlendRgb(colorful.Color{R: other.R, G: other.G, B: other.B}, t)
	return Color{blended.R, blended.G, blended.B}
}

// RGBA converts the linear color to an opaque 8-bit sRGB pixel.
// Channels are sanitized and clamped to [0, 1] before encoding.
func (c Color) RGBA() color.RGBA {
	c = c.Sanitize()
	srgb := colorful.LinearRgb(max(c.R, 0), max(c.G, 0), max(c.B, 0)).Clamped()
	r, g, b := srgb.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// FromSRGB converts gamma-encoded sRGB components in [0, 1] to linear
func FromSRGB(r, g, b float64) Color {
	lr, lg, lb := colorful.Color{R: r, G: g, B: b}.LinearRgb()
	return Color{lr, lg, lb}
}

// ParseHexColor parses "#rrggbb" as sRGB and returns the linear color
func ParseHexColor(hex string) (Color, error) {
	parsed, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := parsed.LinearRgb()
	return Color{r, g, b}, nil
}

// String formats the color for logs and test failures
func (c Color) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", c.R, c.G, c.B)
}

// Gradient is an ordered list of color stops spread evenly over [0, 1]
type Gradient struct {
	Stops []Color
}

// NewGradient creates a gradient from the given stops
func NewGradient(stops ...Color) Gradient {
	return Gradient{Stops: stops}
}

// At returns the interpolated color at t. t is clamped to [0, 1].
// A single stop is constant, an empty gradient is black.
func (g Gradient) At(t float64) Color {
	n := len(g.Stops)
	switch n {
	case 0:
		return Black
	case 1:
		return g.Stops[0]
	}

	if math.IsNaN(t) {
		t = 0
	}
	t = max(0, min(1, t))

	pos := t * float64(n-1)
	i := int(pos)
	if i >= n-1 {
		return g.Stops[n-1]
	}
	return g.Stops[i].Lerp(g.Stops[i+1], pos-float64(i))
}
