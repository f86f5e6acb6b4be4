package material

import (
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// Texture is the closed set of color sources sampled at a hit
type Texture interface {
	Sample(ray core.Ray, hit geometry.Intersection) core.Color

	isTexture()
}

// Solid is a constant color
type Solid struct {
	Color core.Color
}

// NewSolid creates a constant color texture
func NewSolid(r, g, b float64) Solid {
	return Solid{Color: core.NewColor(r, g, b)}
}

func (Solid) isTexture() {}

// Sample returns the constant color
func (s Solid) Sample(core.Ray, geometry.Intersection) core.Color {
	return s.Color
}

// Checkerboard alternates between two textures in a 3D sine pattern
type Checkerboard struct {
	Even Texture
	Odd  Texture
	Size float64 // Frequency multiplier applied to the hit point
}

// NewCheckerboard creates a checkerboard of two textures
func NewCheckerboard(even, odd Texture, size float64) Checkerboard {
	return Checkerboard{Even: even, Odd: odd, Size: size}
}

func (Checkerboard) isTexture() {}

// Sample selects Odd where the product of sines of the scaled point is negative
func (c Checkerboard) Sample(ray core.Ray, hit geometry.Intersection) core.Color {
	p := hit.Point(ray).Multiply(c.Size)
	if math.Sin(p.X)*math.Sin(p.Y)*math.Sin(p.Z) < 0 {
		return c.Odd.Sample(ray, hit)
	}
	return c.Even.Sample(ray, hit)
}

// GradientTexture maps the surface V coordinate through a gradient.
// Hits without UV fall back to the height of the normal.
type GradientTexture struct {
	Gradient core.Gradient
}

// NewGradientTexture creates a gradient texture from color stops
func NewGradientTexture(stops ...core.Color) GradientTexture {
	return GradientTexture{Gradient: core.NewGradient(stops...)}
}

func (GradientTexture) isTexture() {}

// Sample returns the gradient color at the hit
func (g GradientTexture) Sample(_ core.Ray, hit geometry.Intersection) core.Color {
	if hit.HasUV {
		return g.Gradient.At(hit.UV.Y)
	}
	return g.Gradient.At((hit.Normal.Y + 1) / 2)
}

// Noise maps coherent Perlin noise through a color gradient
type Noise struct {
	Perlin   *perlin.Perlin
	Scale    core.Vec3
	Gradient core.Gradient
	UseUV    bool // Evaluate at the surface UV instead of the hit point
}

// Perlin parameters: persistence, frequency multiplier, octaves
const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = 3
)

// NewNoise creates a point-evaluated noise texture
func NewNoise(seed int64, scale core.Vec3, stops ...core.Color) Noise {
	return Noise{
		Perlin:   perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
		Scale:    scale,
		Gradient: core.NewGradient(stops...),
	}
}

func (Noise) isTexture() {}

// Sample evaluates the noise and maps [-1, 1] onto the gradient
func (n Noise) Sample(ray core.Ray, hit geometry.Intersection) core.Color {
	var value float64
	if n.UseUV {
		if !hit.HasUV {
			return n.Gradient.At(0.5)
		}
		value = n.Perlin.Noise2D(hit.UV.X*n.Scale.X, hit.UV.Y*n.Scale.Y)
	} else {
		p := hit.Point(ray).MultiplyVec(n.Scale)
		value = n.Perlin.Noise3D(p.X, p.Y, p.Z)
	}
	return n.Gradient.At((value + 1) / 2)
}

// DebugUV shows surface coordinates as red and green
type DebugUV struct{}

func (DebugUV) isTexture() {}

// Sample returns the wrapped UV as an sRGB color; hits without UV are black
func (DebugUV) Sample(_ core.Ray, hit geometry.Intersection) core.Color {
	if !hit.HasUV {
		return core.Black
	}
	return core.FromSRGB(wrap01(hit.UV.X), wrap01(hit.UV.Y), 0)
}

// DebugPoint shows the wrapped world position
type DebugPoint struct{}

func (DebugPoint) isTexture() {}

// Sample returns the fractional part of the hit point as an sRGB color
func (DebugPoint) Sample(ray core.Ray, hit geometry.Intersection) core.Color {
	p := hit.Point(ray)
	return core.FromSRGB(wrap01(p.X), wrap01(p.Y), wrap01(p.Z))
}

// DebugNormal shows the outward normal remapped from [-1, 1]
type DebugNormal struct{}

func (DebugNormal) isTexture() {}

// Sample returns (n+1)/2 as an sRGB color
func (DebugNormal) Sample(_ core.Ray, hit geometry.Intersection) core.Color {
	n := hit.Normal.Add(core.NewVec3(1, 1, 1)).Multiply(0.5)
	return core.FromSRGB(n.X, n.Y, n.Z)
}

// DebugDistance shows the distance from the ray origin, white at Max and beyond
type DebugDistance struct {
	Max float64
}

func (DebugDistance) isTexture() {}

// Sample returns a grey level proportional to the hit distance
func (d DebugDistance) Sample(ray core.Ray, hit geometry.Intersection) core.Color {
	if d.Max <= 0 {
		return core.Black
	}
	dist := hit.T * ray.Direction.Length()
	level := min(1, dist/d.Max)
	return core.FromSRGB(level, level, level)
}

// wrap01 maps x into [0, 1) by taking its fractional part
func wrap01(x float64) float64 {
	return x - math.Floor(x)
}
