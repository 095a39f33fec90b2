// Package geometry provides the geometric types shared by the layout
// generators and the rule checker: floating-point µm coordinates for
// placement math and integer database-unit rectangles for everything
// that ends up on disk.
package geometry

import (
	"math"
)

// GridUM is the database grid in µm. All shapes snap to a 1 nm grid.
const GridUM = 0.001

// DBU converts a µm value to database units, rounding to the nearest
// grid step (half away from zero).
func DBU(um float64) int64 {
	return int64(math.Round(um / GridUM))
}

// UM converts a database-unit value back to µm.
func UM(dbu int64) float64 {
	return float64(dbu) * GridUM
}

// Point2D represents a 2D point in µm. Connection points (contact and
// gate centers) are carried in µm so assemblers can do placement
// arithmetic without round-tripping through the grid.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return Point2D{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// ToDBU snaps the point to the database grid.
func (p Point2D) ToDBU() Point {
	return Point{X: DBU(p.X), Y: DBU(p.Y)}
}

// Point is a 2D point in database units.
type Point struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

// ToUM converts back to µm.
func (p Point) ToUM() Point2D {
	return Point2D{X: UM(p.X), Y: UM(p.Y)}
}

// Rect is an axis-aligned rectangle in database units, stored as the
// two corners with X1 <= X2 and Y1 <= Y2.
type Rect struct {
	X1 int64 `json:"x1"`
	Y1 int64 `json:"y1"`
	X2 int64 `json:"x2"`
	Y2 int64 `json:"y2"`
}

// NewRect creates a normalized Rect from two corner coordinates in
// database units.
func NewRect(x1, y1, x2, y2 int64) Rect {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Rect{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// RectUM creates a normalized Rect from µm corner coordinates, each
// snapped to the database grid independently.
func RectUM(x1, y1, x2, y2 float64) Rect {
	return NewRect(DBU(x1), DBU(y1), DBU(x2), DBU(y2))
}

// Width returns the extent in X.
func (r Rect) Width() int64 {
	return r.X2 - r.X1
}

// Height returns the extent in Y.
func (r Rect) Height() int64 {
	return r.Y2 - r.Y1
}

// IsEmpty reports whether the rectangle has zero area.
func (r Rect) IsEmpty() bool {
	return r.X1 >= r.X2 || r.Y1 >= r.Y2
}

// Area returns the area in square database units.
func (r Rect) Area() int64 {
	if r.IsEmpty() {
		return 0
	}
	return r.Width() * r.Height()
}

// Center returns the center point, truncated to the grid.
func (r Rect) Center() Point {
	return Point{X: (r.X1 + r.X2) / 2, Y: (r.Y1 + r.Y2) / 2}
}

// Contains reports whether the point lies inside or on the border.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X1 && p.X <= r.X2 && p.Y >= r.Y1 && p.Y <= r.Y2
}

// Overlaps reports whether the two rectangles share interior area.
func (r Rect) Overlaps(other Rect) bool {
	return r.X1 < other.X2 && other.X1 < r.X2 &&
		r.Y1 < other.Y2 && other.Y1 < r.Y2
}

// Touches reports whether the two rectangles share area or at least a
// border point.
func (r Rect) Touches(other Rect) bool {
	return r.X1 <= other.X2 && other.X1 <= r.X2 &&
		r.Y1 <= other.Y2 && other.Y1 <= r.Y2
}

// Intersection returns the shared area of two rectangles. The result
// is empty if they do not overlap.
func (r Rect) Intersection(other Rect) Rect {
	return Rect{
		X1: max64(r.X1, other.X1),
		Y1: max64(r.Y1, other.Y1),
		X2: min64(r.X2, other.X2),
		Y2: min64(r.Y2, other.Y2),
	}
}

// Union returns the smallest rectangle containing both rectangles.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		X1: min64(r.X1, other.X1),
		Y1: min64(r.Y1, other.Y1),
		X2: max64(r.X2, other.X2),
		Y2: max64(r.Y2, other.Y2),
	}
}

// Grown returns the rectangle expanded by d on every side. A negative
// d shrinks; the result may be empty.
func (r Rect) Grown(d int64) Rect {
	return Rect{X1: r.X1 - d, Y1: r.Y1 - d, X2: r.X2 + d, Y2: r.Y2 + d}
}

// Translated returns the rectangle moved by (dx, dy).
func (r Rect) Translated(dx, dy int64) Rect {
	return Rect{X1: r.X1 + dx, Y1: r.Y1 + dy, X2: r.X2 + dx, Y2: r.Y2 + dy}
}

// Transposed returns the rectangle with X and Y axes swapped.
func (r Rect) Transposed() Rect {
	return Rect{X1: r.Y1, Y1: r.X1, X2: r.Y2, Y2: r.X2}
}

// GapTo returns the axis gaps between two rectangles: zero along an
// axis where their projections overlap, otherwise the positive
// distance between the facing edges.
func (r Rect) GapTo(other Rect) (dx, dy int64) {
	if other.X1 > r.X2 {
		dx = other.X1 - r.X2
	} else if r.X1 > other.X2 {
		dx = r.X1 - other.X2
	}
	if other.Y1 > r.Y2 {
		dy = other.Y1 - r.Y2
	} else if r.Y1 > other.Y2 {
		dy = r.Y1 - other.Y2
	}
	return dx, dy
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
