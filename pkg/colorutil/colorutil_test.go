package colorutil

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDarken(t *testing.T) {
	got := Darken(Yellow, 0.35)
	assert.Equal(t, color.RGBA{R: 165, G: 165, B: 0, A: 255}, got)

	// Factor 0 is the identity, factor 1 is black; alpha never changes.
	faint := color.RGBA{R: 200, G: 100, B: 50, A: 80}
	assert.Equal(t, faint, Darken(faint, 0))
	assert.Equal(t, color.RGBA{A: 80}, Darken(faint, 1))
}

func TestOver(t *testing.T) {
	// Opaque source replaces the destination.
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 0, A: 255}, Over(White, Yellow))

	// Half-transparent source mixes evenly and yields an opaque pixel.
	src := color.RGBA{R: 255, G: 0, B: 0, A: 128}
	dst := color.RGBA{R: 0, G: 0, B: 0, A: 255}
	got := Over(dst, src)
	assert.InDelta(t, 128, int(got.R), 1)
	assert.Equal(t, uint8(0), got.G)
	assert.Equal(t, uint8(255), got.A)
}
