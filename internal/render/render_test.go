package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analog-macros/internal/cell"
	"analog-macros/internal/macro"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

func TestImageSizeAndFill(t *testing.T) {
	c := cell.New("one")
	c.InsertUM(tech.Metal1, 0, 0, 1.0, 1.0)

	img, err := Image(c, DefaultOptions())
	require.NoError(t, err)

	// 1 µm at 10 px/µm plus the 8 px margin on each side.
	assert.Equal(t, 26, img.Bounds().Dx())
	assert.Equal(t, 26, img.Bounds().Dy())

	bg := DefaultOptions().Background
	corner := img.RGBAAt(0, 0)
	assert.Equal(t, bg.R, corner.R)
	center := img.RGBAAt(13, 13)
	assert.NotEqual(t, bg, center, "metal fill must show")
}

func TestImageRejectsBadInput(t *testing.T) {
	c := cell.New("one")
	c.InsertUM(tech.Metal1, 0, 0, 1.0, 1.0)

	_, err := Image(c, Options{Scale: 0})
	assert.Error(t, err)
	_, err = Image(cell.New("empty"), DefaultOptions())
	assert.Error(t, err)
}

func TestMarkersDrawOnTop(t *testing.T) {
	c := cell.New("one")
	c.InsertUM(tech.Metal1, 0, 0, 1.0, 1.0)

	opt := DefaultOptions()
	opt.Markers = []geometry.Rect{geometry.RectUM(0, 0, 1.0, 1.0)}
	img, err := Image(c, opt)
	require.NoError(t, err)

	// Marker outline corner at the rect's top-left pixel.
	px := img.RGBAAt(8, 8)
	assert.Equal(t, uint8(255), px.R)
	assert.Equal(t, uint8(255), px.G)
	assert.Equal(t, uint8(0), px.B)

	// The halo one pixel out is the darkened outline color.
	halo := img.RGBAAt(7, 7)
	assert.Equal(t, uint8(165), halo.R)
	assert.Equal(t, uint8(165), halo.G)
	assert.Equal(t, uint8(0), halo.B)
}

func TestPNGIsDeterministic(t *testing.T) {
	rs := tech.SG13G2()
	m, err := macro.ByName("r2r_dac_8bit")
	require.NoError(t, err)
	c, err := m.Build(rs)
	require.NoError(t, err)

	opt := DefaultOptions()
	opt.Scale = 2

	var a, b bytes.Buffer
	require.NoError(t, PNG(&a, c, opt))
	require.NoError(t, PNG(&b, c, opt))
	assert.Equal(t, a.Bytes(), b.Bytes())
	assert.NotEmpty(t, a.Bytes())
}

func TestRenderEveryMacro(t *testing.T) {
	rs := tech.SG13G2()
	opt := DefaultOptions()
	opt.Scale = 1
	for _, m := range macro.Catalog() {
		c, err := m.Build(rs)
		require.NoError(t, err)
		img, err := Image(c, opt)
		require.NoError(t, err, m.Name)
		assert.Greater(t, img.Bounds().Dx(), int(m.Width)-2, m.Name)
	}
}
