package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDBURounding(t *testing.T) {
	assert.Equal(t, int64(160), DBU(0.16))
	assert.Equal(t, int64(5), DBU(0.005))
	assert.Equal(t, int64(-5), DBU(-0.005))
	// 2000/1300*2 = 3.0769... µm rounds to 3077 nm.
	assert.Equal(t, int64(3077), DBU(2000.0/1300.0*2.0))
	assert.InDelta(t, 3.077, UM(3077), 1e-12)
}

func TestNewRectNormalizes(t *testing.T) {
	r := NewRect(10, 20, 4, 6)
	assert.Equal(t, Rect{X1: 4, Y1: 6, X2: 10, Y2: 20}, r)
	assert.Equal(t, int64(6), r.Width())
	assert.Equal(t, int64(14), r.Height())
	assert.False(t, r.IsEmpty())
}

func TestRectEmptyAndArea(t *testing.T) {
	assert.True(t, NewRect(0, 0, 0, 5).IsEmpty())
	assert.Equal(t, int64(0), NewRect(0, 0, 0, 5).Area())
	assert.Equal(t, int64(50), NewRect(0, 0, 10, 5).Area())
}

func TestRectOverlapsAndTouches(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(10, 0, 20, 10) // shares an edge
	c := NewRect(11, 0, 20, 10) // 1 dbu gap

	assert.False(t, a.Overlaps(b))
	assert.True(t, a.Touches(b))
	assert.False(t, a.Touches(c))

	d := NewRect(5, 5, 15, 15)
	assert.True(t, a.Overlaps(d))
	assert.Equal(t, NewRect(5, 5, 10, 10), a.Intersection(d))
}

func TestRectGapTo(t *testing.T) {
	a := NewRect(0, 0, 10, 10)

	dx, dy := a.GapTo(NewRect(13, 2, 20, 8))
	assert.Equal(t, int64(3), dx)
	assert.Equal(t, int64(0), dy)

	dx, dy = a.GapTo(NewRect(14, 13, 20, 20)) // diagonal
	assert.Equal(t, int64(4), dx)
	assert.Equal(t, int64(3), dy)
}

func TestRectGrownAndTransposed(t *testing.T) {
	r := NewRect(5, 5, 10, 20)
	assert.Equal(t, NewRect(3, 3, 12, 22), r.Grown(2))
	assert.Equal(t, NewRect(5, 5, 20, 10), r.Transposed())
	assert.Equal(t, r, r.Transposed().Transposed())
}

func TestRectUM(t *testing.T) {
	r := RectUM(0.0, 0.0, 45.0, 60.0)
	assert.Equal(t, NewRect(0, 0, 45000, 60000), r)
}
