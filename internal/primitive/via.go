package primitive

import (
	"analog-macros/internal/cell"
	"analog-macros/internal/tech"
)

// Via1 draws a Metal1→Metal2 via cut centered at (x, y) with landing
// pads on both metals.
func Via1(c *cell.Cell, rs tech.RuleSet, x, y float64) {
	hs := rs.Via1Size / 2
	c.InsertUM(tech.Via1, x-hs, y-hs, x+hs, y+hs)
	e1 := rs.Via1EncM1 + hs
	c.InsertUM(tech.Metal1, x-e1, y-e1, x+e1, y+e1)
	e2 := rs.Via1EncM2 + hs
	c.InsertUM(tech.Metal2, x-e2, y-e2, x+e2, y+e2)
}

// Via2 draws a Metal2→Metal3 via cut centered at (x, y) with landing
// pads on both metals.
func Via2(c *cell.Cell, rs tech.RuleSet, x, y float64) {
	hs := rs.Via2Size / 2
	c.InsertUM(tech.Via2, x-hs, y-hs, x+hs, y+hs)
	e2 := rs.Via2EncM2 + hs
	c.InsertUM(tech.Metal2, x-e2, y-e2, x+e2, y+e2)
	e3 := rs.Via2EncM3 + hs
	c.InsertUM(tech.Metal3, x-e3, y-e3, x+e3, y+e3)
}
