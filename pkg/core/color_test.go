package core

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColor_RGBA(t *testing.T) {
	tests := []struct {
		name     string
		input    Color
		expected color.RGBA
	}{
		{"black", Black, color.RGBA{0, 0, 0, 255}},
		{"white", White, color.RGBA{255, 255, 255, 255}},
		{"overexposed clamps", NewColor(4, 2, 1.5), color.RGBA{255, 255, 255, 255}},
		{"negative clamps", NewColor(-1, 0, 0), color.RGBA{0, 0, 0, 255}},
		{"nan becomes black", NewColor(math.NaN(), math.Inf(1), 0), color.RGBA{0, 0, 0, 255}},
		// sRGB encodes linear 0.5 as ~0.735
		{"mid grey", NewColor(0.5, 0.5, 0.5), color.RGBA{188, 188, 188, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.RGBA())
		})
	}
}

func TestFromSRGB_RoundTripsThroughRGBA(t *testing.T) {
	c := FromSRGB(0.2, 0.6, 1.0)
	px := c.RGBA()
	assert.InDelta(t, 51, int(px.R), 1)
	assert.InDelta(t, 153, int(px.G), 1)
	assert.Equal(t, uint8(255), px.B)
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#ffffff")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c.R, 1e-9)

	_, err = ParseHexColor("not-a-color")
	assert.Error(t, err)
}

func TestGradient_At(t *testing.T) {
	blue := NewColor(0.4, 0.5, 1)
	g := NewGradient(blue, White, blue)

	assert.Equal(t, blue, g.At(0))
	assert.Equal(t, blue, g.At(1))
	assert.InDelta(t, 1.0, g.At(0.5).R, 1e-12)
	assert.InDelta(t, 0.7, g.At(0.25).R, 1e-12)

	// out of range clamps
	assert.Equal(t, blue, g.At(-3))
	assert.Equal(t, blue, g.At(7))

	assert.Equal(t, White, NewGradient(White).At(0.3))
	assert.Equal(t, Black, NewGradient().At(0.3))
}

func TestColor_Sanitize(t *testing.T) {
	c := NewColor(math.NaN(), 2, math.Inf(-1)).Sanitize()
	assert.Equal(t, NewColor(0, 2, 0), c)
}
