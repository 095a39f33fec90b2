package macro

import (
	"analog-macros/internal/cell"
	"analog-macros/internal/primitive"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// tieToVDD runs a device source up to the top Metal3 rail: Metal1
// vertical into a via1/via2 stack just under the rail.
func tieToVDD(c *cell.Cell, rs tech.RuleSet, p geometry.Point2D, macroH float64) {
	w := rs.M1Width
	c.InsertUM(tech.Metal1, p.X-w/2, p.Y-w/2, p.X+w/2, macroH-2.5)
	primitive.Via1(c, rs, p.X, macroH-2.5)
	primitive.Via2(c, rs, p.X, macroH-1.0)
}

// tieToVSS drops a device source to the bottom Metal3 rail: via1 at
// the pin, Metal2 down, via2 into the rail.
func tieToVSS(c *cell.Cell, rs tech.RuleSet, p geometry.Point2D) {
	primitive.Via1(c, rs, p.X, p.Y)
	w2 := rs.M2Width
	c.InsertUM(tech.Metal2, p.X-w2/2, 2.5, p.X+w2/2, p.Y)
	primitive.Via2(c, rs, p.X, 1.0)
}
