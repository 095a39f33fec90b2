package primitive

import (
	"github.com/pkg/errors"

	"analog-macros/internal/cell"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// CapPlates are the plate connection points of a MIM capacitor:
// Bottom on the Metal5 plate edge below the dielectric, Top on the
// top plate above it.
type CapPlates struct {
	Bottom geometry.Point2D
	Top    geometry.Point2D
}

// MIMCapValue returns the capacitance in fF of a w×h µm MIM plate.
func MIMCapValue(rs tech.RuleSet, w, h float64) float64 {
	return rs.MimCapDensity * w * h
}

// MIMCap draws a MIM capacitor with the Cmim lower-left corner at
// (x, y). The Metal5 bottom plate encloses the dielectric by the
// process margin; with topMetal set, a TopMetal1 top plate is drawn
// as well. Small plates widen the top metal to hold its minimum
// width (1.64 µm).
func MIMCap(c *cell.Cell, rs tech.RuleSet, x, y, w, h float64, topMetal bool) (CapPlates, error) {
	if w < rs.MimMinSize || h < rs.MimMinSize {
		return CapPlates{}, errors.Wrapf(ErrBelowMinimum,
			"mim cap %g×%g µm < Cmim minimum %g µm", w, h, rs.MimMinSize)
	}

	c.InsertUM(tech.Cmim, x, y, x+w, y+h)
	enc := rs.MimEncM5
	c.InsertUM(tech.Metal5, x-enc, y-enc, x+w+enc, y+h+enc)

	if topMetal {
		ew := topMetalEnc(w)
		eh := topMetalEnc(h)
		c.InsertUM(tech.TopMetal1, x-ew, y-eh, x+w+ew, y+h+eh)
	}

	return CapPlates{
		Bottom: geometry.Point2D{X: x + w/2, Y: y - enc},
		Top:    geometry.Point2D{X: x + w/2, Y: y + h + 0.1},
	}, nil
}

// topMetalEnc grows the TopMetal1 overhang so the plate reaches the
// 1.64 µm minimum width even over small dielectrics.
func topMetalEnc(side float64) float64 {
	if side < 1.44 {
		e := (1.64-side)/2 + 0.01
		if e > 0.1 {
			return e
		}
	}
	return 0.1
}
