package assembly

import (
	"github.com/pkg/errors"

	"analog-macros/internal/cell"
	"analog-macros/internal/primitive"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// LogicBlock draws a standard-cell-style register area: alternating
// NMOS and PMOS rows of minimum devices with per-row Metal1 rails,
// shared per-row NWells, and Metal2 power straps on both edges. The
// block stands in for the synthesized SAR control logic in the hard
// macro.
func LogicBlock(c *cell.Cell, rs tech.RuleSet, x, y, w, h float64) (geometry.Rect, error) {
	const (
		rowH    = 2.5
		colStep = 1.5
		devW    = 0.8
		devL    = 0.13
	)
	sdExt := rs.ContactSize + 2*rs.ContEncActiv
	actLen := sdExt + devL + sdExt
	nw := rs.NWellEncActiv

	nrows := int(h / rowH)
	ncols := int(w / colStep)
	for r := 0; r < nrows; r++ {
		ry := y + float64(r)*rowH
		for col := 0; col < ncols; col++ {
			tx := x + float64(col)*colStep
			p := primitive.MOSParams{W: devW, L: devL, GateAbove: true}
			if r%2 == 1 {
				p.Polarity = primitive.PMOS
				p.SkipWell = true
				p.GateAbove = false
			}
			if _, _, err := primitive.MOS(c, rs, tx, ry+0.2, p); err != nil {
				return geometry.Rect{}, errors.Wrapf(err, "logic row %d col %d", r, col)
			}
		}
		if r%2 == 1 {
			c.InsertUM(tech.NWell, x-nw, ry+0.2-nw,
				x+float64(ncols-1)*colStep+actLen+nw, ry+0.2+devW+nw)
		}

		c.InsertUM(tech.Metal1, x, ry, x+w, ry+rs.M1Width)
		c.InsertUM(tech.Metal1, x, ry+rowH-rs.M1Width, x+w, ry+rowH)
	}

	c.InsertUM(tech.Metal2, x, y, x+rs.M2Width*2, y+h)
	c.InsertUM(tech.Metal2, x+w-rs.M2Width*2, y, x+w, y+h)

	return geometry.RectUM(x, y, x+w, y+h), nil
}
