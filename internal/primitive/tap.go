package primitive

import (
	"analog-macros/internal/cell"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// SubstrateTie draws a p+ substrate contact centered at (x, y): a
// square active area with p+ implant, a single contact, and a Metal1
// landing pad. Returns the contact center.
func SubstrateTie(c *cell.Cell, rs tech.RuleSet, x, y float64) geometry.Point2D {
	const side = 0.5
	h := side / 2
	c.InsertUM(tech.Activ, x-h, y-h, x+h, y+h)
	enc := rs.ImplantEnc
	c.InsertUM(tech.PSD, x-h-enc, y-h-enc, x+h+enc, y+h+enc)
	contactWithPad(c, rs, x, y)
	return geometry.Point2D{X: x, Y: y}
}
