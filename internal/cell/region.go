package cell

import (
	"sort"

	"analog-macros/pkg/geometry"
)

// Region is a canonical set of disjoint rectangles covering the merged
// area of its input shapes. The canonical form is a horizontal slab
// decomposition: rectangles never overlap, horizontally adjacent or
// overlapping input shapes are merged, and vertically adjacent slabs
// with identical horizontal extent are coalesced. All operations
// return regions in canonical form, so equal areas always compare as
// equal rectangle sets and checker output is deterministic.
type Region struct {
	rects []geometry.Rect
}

// NewRegion builds a canonical region from arbitrary rectangles.
// Empty input rectangles are dropped.
func NewRegion(rects []geometry.Rect) Region {
	return Region{rects: decompose(rects)}
}

// IsEmpty reports whether the region covers no area.
func (g Region) IsEmpty() bool {
	return len(g.rects) == 0
}

// Count returns the number of canonical rectangles.
func (g Region) Count() int {
	return len(g.rects)
}

// Rects returns a copy of the canonical rectangles, sorted by
// (Y1, X1).
func (g Region) Rects() []geometry.Rect {
	out := make([]geometry.Rect, len(g.rects))
	copy(out, g.rects)
	return out
}

// Area returns the covered area in square database units.
func (g Region) Area() int64 {
	var a int64
	for _, r := range g.rects {
		a += r.Area()
	}
	return a
}

// Bounds returns the bounding box of the region.
func (g Region) Bounds() geometry.Rect {
	if len(g.rects) == 0 {
		return geometry.Rect{}
	}
	b := g.rects[0]
	for _, r := range g.rects[1:] {
		b = b.Union(r)
	}
	return b
}

// Union returns the merged area of both regions.
func (g Region) Union(other Region) Region {
	all := make([]geometry.Rect, 0, len(g.rects)+len(other.rects))
	all = append(all, g.rects...)
	all = append(all, other.rects...)
	return Region{rects: decompose(all)}
}

// Intersect returns the area covered by both regions.
func (g Region) Intersect(other Region) Region {
	var parts []geometry.Rect
	for _, a := range g.rects {
		for _, b := range other.rects {
			if p := a.Intersection(b); !p.IsEmpty() {
				parts = append(parts, p)
			}
		}
	}
	return Region{rects: decompose(parts)}
}

// Subtract returns the area of g not covered by other.
func (g Region) Subtract(other Region) Region {
	var parts []geometry.Rect
	for _, a := range g.rects {
		parts = append(parts, subtractRect(a, other.rects)...)
	}
	return Region{rects: decompose(parts)}
}

// Grown returns the region dilated (d > 0) or eroded (d < 0) by d on
// every side.
func (g Region) Grown(d int64) Region {
	if d == 0 || g.IsEmpty() {
		return g
	}
	if d < 0 {
		return g.shrunk(-d)
	}
	grown := make([]geometry.Rect, len(g.rects))
	for i, r := range g.rects {
		grown[i] = r.Grown(d)
	}
	return Region{rects: decompose(grown)}
}

// shrunk erodes by d: the complement within an enlarged bounding box
// is dilated and subtracted.
func (g Region) shrunk(d int64) Region {
	box := g.Bounds().Grown(d + 1)
	complement := Region{rects: subtractRect(box, g.rects)}
	return g.Subtract(Region{rects: decompose(complementGrown(complement.rects, d))})
}

func complementGrown(rects []geometry.Rect, d int64) []geometry.Rect {
	out := make([]geometry.Rect, len(rects))
	for i, r := range rects {
		out[i] = r.Grown(d)
	}
	return out
}

// WidthViolations returns a marker for every canonical rectangle whose
// local extent is below min in either sweep orientation. Extents equal
// to min pass.
func (g Region) WidthViolations(min int64) []geometry.Rect {
	var out []geometry.Rect
	for _, r := range g.rects {
		if r.Width() < min {
			out = append(out, r)
		}
	}
	// Sweep the transposed region to measure vertical extents.
	transposed := make([]geometry.Rect, len(g.rects))
	for i, r := range g.rects {
		transposed[i] = r.Transposed()
	}
	for _, r := range decompose(transposed) {
		if r.Width() < min {
			out = append(out, r.Transposed())
		}
	}
	return dedupeSorted(out)
}

// SpaceViolations returns a marker for every pair of canonical
// rectangles separated by empty space closer than min (Euclidean, so
// diagonal gaps count). Pairs bridged by material, such as the arms of
// a crossing, are not violations. Gaps equal to min pass.
func (g Region) SpaceViolations(min int64) []geometry.Rect {
	var out []geometry.Rect
	for i := 0; i < len(g.rects); i++ {
		for j := i + 1; j < len(g.rects); j++ {
			a, b := g.rects[i], g.rects[j]
			if a.Touches(b) {
				continue
			}
			dx, dy := a.GapTo(b)
			if dx*dx+dy*dy >= min*min {
				continue
			}
			m := gapBox(a, b)
			if m.Area() > 0 && g.coveredArea(m) == m.Area() {
				// The gap box is filled; the two pieces are parts of
				// one connected shape.
				continue
			}
			out = append(out, m)
		}
	}
	return dedupeSorted(out)
}

// gapBox returns the box spanning the space between two disjoint
// rectangles: the overlap of their projections where they overlap, the
// span between facing edges where they do not.
func gapBox(a, b geometry.Rect) geometry.Rect {
	var x1, x2 int64
	switch {
	case a.X2 < b.X1:
		x1, x2 = a.X2, b.X1
	case b.X2 < a.X1:
		x1, x2 = b.X2, a.X1
	default:
		x1, x2 = max64(a.X1, b.X1), min64(a.X2, b.X2)
	}
	var y1, y2 int64
	switch {
	case a.Y2 < b.Y1:
		y1, y2 = a.Y2, b.Y1
	case b.Y2 < a.Y1:
		y1, y2 = b.Y2, a.Y1
	default:
		y1, y2 = max64(a.Y1, b.Y1), min64(a.Y2, b.Y2)
	}
	return geometry.Rect{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// coveredArea returns the area of r covered by the region. Canonical
// rectangles are disjoint, so summing pairwise intersections is exact.
func (g Region) coveredArea(r geometry.Rect) int64 {
	var a int64
	for _, c := range g.rects {
		a += c.Intersection(r).Area()
	}
	return a
}

// decompose merges arbitrary rectangles into the canonical disjoint
// form: horizontal slabs between consecutive Y breakpoints, with
// overlapping or touching X intervals merged per slab, and vertically
// adjacent slabs of identical X extent coalesced.
func decompose(rects []geometry.Rect) []geometry.Rect {
	in := make([]geometry.Rect, 0, len(rects))
	for _, r := range rects {
		if !r.IsEmpty() {
			in = append(in, r)
		}
	}
	if len(in) == 0 {
		return nil
	}

	ys := make([]int64, 0, 2*len(in))
	for _, r := range in {
		ys = append(ys, r.Y1, r.Y2)
	}
	ys = sortedUnique(ys)

	type span struct{ x1, x2 int64 }
	// open tracks rects from the previous slab eligible for vertical
	// coalescing, keyed by X extent.
	open := make(map[span]int)
	var out []geometry.Rect

	for i := 0; i+1 < len(ys); i++ {
		yl, yh := ys[i], ys[i+1]

		var xs []span
		for _, r := range in {
			if r.Y1 <= yl && r.Y2 >= yh {
				xs = append(xs, span{r.X1, r.X2})
			}
		}
		sort.Slice(xs, func(a, b int) bool {
			if xs[a].x1 != xs[b].x1 {
				return xs[a].x1 < xs[b].x1
			}
			return xs[a].x2 < xs[b].x2
		})

		var merged []span
		for _, s := range xs {
			if n := len(merged); n > 0 && s.x1 <= merged[n-1].x2 {
				if s.x2 > merged[n-1].x2 {
					merged[n-1].x2 = s.x2
				}
			} else {
				merged = append(merged, s)
			}
		}

		next := make(map[span]int, len(merged))
		for _, s := range merged {
			if idx, ok := open[s]; ok && out[idx].Y2 == yl {
				out[idx].Y2 = yh
				next[s] = idx
				continue
			}
			out = append(out, geometry.Rect{X1: s.x1, Y1: yl, X2: s.x2, Y2: yh})
			next[s] = len(out) - 1
		}
		open = next
	}

	sortRects(out)
	return out
}

// sortedUnique sorts the breakpoints and drops duplicates in place.
func sortedUnique(vs []int64) []int64 {
	sort.Slice(vs, func(i, j int) bool { return vs[i] < vs[j] })
	out := vs[:1]
	for _, v := range vs[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

func sortRects(rs []geometry.Rect) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Y1 != rs[j].Y1 {
			return rs[i].Y1 < rs[j].Y1
		}
		if rs[i].X1 != rs[j].X1 {
			return rs[i].X1 < rs[j].X1
		}
		if rs[i].Y2 != rs[j].Y2 {
			return rs[i].Y2 < rs[j].Y2
		}
		return rs[i].X2 < rs[j].X2
	})
}

func dedupeSorted(rs []geometry.Rect) []geometry.Rect {
	if len(rs) == 0 {
		return nil
	}
	sortRects(rs)
	out := rs[:1]
	for _, r := range rs[1:] {
		if r != out[len(out)-1] {
			out = append(out, r)
		}
	}
	return out
}

// subtractRect removes every rectangle in subs from a, returning the
// remaining pieces.
func subtractRect(a geometry.Rect, subs []geometry.Rect) []geometry.Rect {
	pieces := []geometry.Rect{a}
	for _, s := range subs {
		var next []geometry.Rect
		for _, p := range pieces {
			if !p.Overlaps(s) {
				next = append(next, p)
				continue
			}
			// Up to four fragments around the overlap.
			if s.Y1 > p.Y1 {
				next = append(next, geometry.Rect{X1: p.X1, Y1: p.Y1, X2: p.X2, Y2: s.Y1})
			}
			if s.Y2 < p.Y2 {
				next = append(next, geometry.Rect{X1: p.X1, Y1: s.Y2, X2: p.X2, Y2: p.Y2})
			}
			midY1, midY2 := max64(p.Y1, s.Y1), min64(p.Y2, s.Y2)
			if s.X1 > p.X1 {
				next = append(next, geometry.Rect{X1: p.X1, Y1: midY1, X2: s.X1, Y2: midY2})
			}
			if s.X2 < p.X2 {
				next = append(next, geometry.Rect{X1: s.X2, Y1: midY1, X2: p.X2, Y2: midY2})
			}
		}
		pieces = next
		if len(pieces) == 0 {
			break
		}
	}
	return pieces
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
