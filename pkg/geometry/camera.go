package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Camera configuration errors, reported by NewCamera before any rendering starts
var (
	ErrDegenerateCamera  = errors.New("degenerate camera")
	ErrInvalidResolution = errors.New("invalid resolution")
	ErrInvalidSamples    = errors.New("invalid sample count")
)

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	From          core.Vec3 // Look-from point
	At            core.Vec3 // Look-at point
	Up            core.Vec3 // Up direction; must not be parallel to the view direction
	VFov          float64   // Vertical field of view in degrees
	Aperture      float64   // Lens diameter, 0 for a pinhole
	FocusDistance float64   // Distance to the focal plane, 0 means |At - From|
	ShutterSpeed  float64   // Reserved for motion blur, unused by the integrator
	Width         int       // Image width in pixels
	Height        int       // Image height in pixels
	Samples       int       // Samples per pixel
}

// Camera generates primary rays for a thin-lens model
type Camera struct {
	config     CameraConfig
	origin     core.Vec3
	topLeft    core.Vec3
	horizontal core.Vec3
	vertical   core.Vec3
	u, v, w    core.Vec3 // Camera basis vectors
	lensRadius float64
}

// NewCamera validates the configuration and precomputes the viewport
func NewCamera(config CameraConfig) (*Camera, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidResolution, config.Width, config.Height)
	}
	if config.Samples <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSamples, config.Samples)
	}
	if config.VFov <= 0 || config.VFov >= 180 || math.IsNaN(config.VFov) {
		return nil, fmt.Errorf("%w: vertical fov %g must be in (0, 180)", ErrDegenerateCamera, config.VFov)
	}
	if config.Aperture < 0 {
		return nil, fmt.Errorf("%w: negative aperture %g", ErrDegenerateCamera, config.Aperture)
	}

	view := config.From.Subtract(config.At)
	if view.LengthSquared() == 0 {
		return nil, fmt.Errorf("%w: look-from equals look-at", ErrDegenerateCamera)
	}
	w := view.Normalize()

	side := config.Up.Cross(w)
	if side.Length() < 1e-9*config.Up.Length() || config.Up.LengthSquared() == 0 {
		return nil, fmt.Errorf("%w: up %v is parallel to the view direction", ErrDegenerateCamera, config.Up)
	}
	u := side.Normalize()
	v := w.Cross(u)

	focus := config.FocusDistance
	if focus == 0 {
		focus = view.Length()
	}
	if focus < 0 {
		return nil, fmt.Errorf("%w: negative focus distance %g", ErrDegenerateCamera, focus)
	}

	aspect := float64(config.Width) / float64(config.Height)
	halfHeight := math.Tan(config.VFov * math.Pi / 360)
	halfWidth := aspect * halfHeight

	topLeft := config.From.
		Subtract(u.Multiply(halfWidth * focus)).
		Add(v.Multiply(halfHeight * focus)).
		Subtract(w.Multiply(focus))

	return &Camera{
		config:     config,
		origin:     config.From,
		topLeft:    topLeft,
		horizontal: u.Multiply(2 * halfWidth * focus),
		vertical:   v.Multiply(2 * halfHeight * focus),
		u:          u,
		v:          v,
		w:          w,
		lensRadius: config.Aperture / 2,
	}, nil
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.config.Width }

// Height returns the image height in pixels
func (c *Camera) Height() int { return c.config.Height }

// Samples returns the samples per pixel
func (c *Camera) Samples() int { return c.config.Samples }

// Ray generates a ray through viewport coordinates (s, t) in [0,1]², with
// (0, 0) the top-left corner. The lens is sampled only when the aperture is open.
func (c *Camera) Ray(s, t float64, sampler core.Sampler) core.Ray {
	var offset core.Vec3
	if c.lensRadius > 0 {
		rd := core.SamplePointInUnitDisk(sampler.Get2D()).Multiply(c.lensRadius)
		offset = c.u.Multiply(rd.X).Add(c.v.Multiply(rd.Y))
	}

	origin := c.origin.Add(offset)
	target := c.topLeft.Add(c.horizontal.Multiply(s)).Subtract(c.vertical.Multiply(t))
	return core.NewRay(origin, target.Subtract(origin))
}

// PixelRay generates a jittered ray through pixel (x, y); y=0 is the top row
func (c *Camera) PixelRay(x, y int, sampler core.Sampler) core.Ray {
	jitter := sampler.Get2D()
	s := (float64(x) + jitter.X) / float64(c.config.Width)
	t := (float64(y) + jitter.Y) / float64(c.config.Height)
	return c.Ray(s, t, sampler)
}
