package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

func TestCellInsertAndShapes(t *testing.T) {
	c := New("test")
	c.Insert(tech.Metal1, rect(0, 0, 100, 200))
	c.InsertUM(tech.Metal1, 0.5, 0.5, 1.0, 1.0)
	c.Insert(tech.GatPoly, rect(10, 10, 20, 20))

	require.Len(t, c.Shapes(tech.Metal1), 2)
	assert.Equal(t, rect(500, 500, 1000, 1000), c.Shapes(tech.Metal1)[1])
	assert.Len(t, c.Shapes(tech.Metal2), 0)
	assert.Equal(t, 3, c.NumShapes())
}

func TestCellInsertEmptyPanics(t *testing.T) {
	c := New("test")
	assert.Panics(t, func() {
		c.Insert(tech.Metal1, geometry.Rect{X1: 5, Y1: 0, X2: 5, Y2: 10})
	})
}

func TestCellLayersSorted(t *testing.T) {
	c := New("test")
	c.Insert(tech.Metal2, rect(0, 0, 1, 1))
	c.Insert(tech.Activ, rect(0, 0, 1, 1))
	c.Insert(tech.Metal2Pin, rect(0, 0, 1, 1))
	c.Insert(tech.Metal1, rect(0, 0, 1, 1))

	assert.Equal(t, []tech.Layer{tech.Activ, tech.Metal1, tech.Metal2, tech.Metal2Pin}, c.Layers())
}

func TestCellBounds(t *testing.T) {
	c := New("test")
	assert.True(t, c.Bounds().IsEmpty())

	c.Insert(tech.Metal1, rect(5, 5, 10, 10))
	c.Insert(tech.Metal3, rect(-2, 0, 3, 20))
	assert.Equal(t, rect(-2, 0, 10, 20), c.Bounds())
}

func TestCellAddPin(t *testing.T) {
	c := New("test")
	c.AddPin(tech.Metal2Pin, tech.Metal2Label, geometry.RectUM(0, 3.5, 0.5, 4.5), "d[0]")

	require.Len(t, c.Shapes(tech.Metal2Pin), 1)
	require.Len(t, c.Labels(), 1)
	lbl := c.Labels()[0]
	assert.Equal(t, "d[0]", lbl.Text)
	assert.Equal(t, tech.Metal2Label, lbl.Layer)
	assert.Equal(t, geometry.Point{X: 250, Y: 4000}, lbl.At)
}

func TestCellRegionOf(t *testing.T) {
	c := New("test")
	c.Insert(tech.Metal1, rect(0, 0, 10, 10))
	c.Insert(tech.Metal1, rect(10, 0, 20, 10))

	g := c.RegionOf(tech.Metal1)
	assert.Equal(t, 1, g.Count())
	assert.True(t, c.RegionOf(tech.NWell).IsEmpty())
}
