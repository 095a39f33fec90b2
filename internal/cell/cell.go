// Package cell holds flat layout cells: per-layer rectangle sets,
// text labels, and the region algebra the rule checker runs on.
package cell

import (
	"fmt"
	"sort"

	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// Label is a text record anchored at a point, usually a pin name.
type Label struct {
	Layer tech.Layer     `json:"layer"`
	Text  string         `json:"text"`
	At    geometry.Point `json:"at"`
}

// Cell is a flat layout cell. Shapes are axis-aligned rectangles in
// database units, grouped by layer. Insertion order per layer is
// preserved; cross-layer iteration is sorted so output is
// deterministic.
type Cell struct {
	Name string
	// DBU is the database unit in µm, recorded in the GDS UNITS record.
	DBU float64

	shapes map[tech.Layer][]geometry.Rect
	labels []Label
}

// New creates an empty cell on the standard 1 nm grid.
func New(name string) *Cell {
	return &Cell{
		Name:   name,
		DBU:    geometry.GridUM,
		shapes: make(map[tech.Layer][]geometry.Rect),
	}
}

// Insert adds a rectangle on the given layer. Empty rectangles are a
// construction bug in the caller and panic; builders validate their
// parameters before drawing.
func (c *Cell) Insert(layer tech.Layer, r geometry.Rect) {
	if r.IsEmpty() {
		panic(fmt.Sprintf("cell %s: empty rect %+v on layer %s", c.Name, r, layer))
	}
	c.shapes[layer] = append(c.shapes[layer], r)
}

// InsertUM adds a rectangle given by µm corner coordinates.
func (c *Cell) InsertUM(layer tech.Layer, x1, y1, x2, y2 float64) {
	c.Insert(layer, geometry.RectUM(x1, y1, x2, y2))
}

// AddLabel attaches a text label at a point.
func (c *Cell) AddLabel(layer tech.Layer, text string, at geometry.Point) {
	c.labels = append(c.labels, Label{Layer: layer, Text: text, At: at})
}

// AddPin inserts a pin rectangle and a matching label centered on it.
func (c *Cell) AddPin(pin, label tech.Layer, r geometry.Rect, name string) {
	c.Insert(pin, r)
	c.AddLabel(label, name, r.Center())
}

// SetBoundary draws the PR boundary rectangle.
func (c *Cell) SetBoundary(r geometry.Rect) {
	c.Insert(tech.Boundary, r)
}

// Shapes returns the rectangles on a layer in insertion order. The
// returned slice is shared; callers must not modify it.
func (c *Cell) Shapes(layer tech.Layer) []geometry.Rect {
	return c.shapes[layer]
}

// Labels returns all labels in insertion order.
func (c *Cell) Labels() []Label {
	return c.labels
}

// Layers returns every layer with at least one shape, sorted by
// (number, datatype).
func (c *Cell) Layers() []tech.Layer {
	layers := make([]tech.Layer, 0, len(c.shapes))
	for l := range c.shapes {
		layers = append(layers, l)
	}
	sort.Slice(layers, func(i, j int) bool {
		if layers[i].Number != layers[j].Number {
			return layers[i].Number < layers[j].Number
		}
		return layers[i].Datatype < layers[j].Datatype
	})
	return layers
}

// NumShapes returns the total rectangle count across all layers.
func (c *Cell) NumShapes() int {
	n := 0
	for _, rs := range c.shapes {
		n += len(rs)
	}
	return n
}

// Bounds returns the bounding box of all shapes, or an empty rect for
// an empty cell.
func (c *Cell) Bounds() geometry.Rect {
	first := true
	var b geometry.Rect
	for _, l := range c.Layers() {
		for _, r := range c.shapes[l] {
			if first {
				b = r
				first = false
			} else {
				b = b.Union(r)
			}
		}
	}
	return b
}

// RegionOf builds the merged region of a layer's shapes.
func (c *Cell) RegionOf(layer tech.Layer) Region {
	return NewRegion(c.shapes[layer])
}
