// Package primitive draws single devices into a cell: poly resistors,
// MOS transistors, via stacks, MIM capacitors, and substrate ties.
// All positions and sizes are in µm; every builder returns its
// connection points as typed records so assemblers cannot wire a pin
// that was never drawn.
package primitive

import (
	"github.com/pkg/errors"

	"analog-macros/internal/cell"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// Orientation selects the direction a resistor body runs in.
type Orientation int

const (
	// Horizontal runs the body in X; end A is left, end B is right.
	Horizontal Orientation = iota
	// Vertical runs the body in Y; end A is bottom, end B is top.
	Vertical
)

// ResistorParams sizes a salicide-blocked poly resistor.
type ResistorParams struct {
	Sheet  float64 // sheet resistance, Ω/sq
	Target float64 // target resistance, Ω
	Width  float64 // body width, µm
	Orient Orientation
}

// BodyLength returns the body length in µm that realizes the target:
// squares × width.
func (p ResistorParams) BodyLength() float64 {
	return p.Target / p.Sheet * p.Width
}

// TotalLength returns the drawn extent along the body including contact
// pads and salicide clearance. Assemblers use it for placement before
// the resistor is drawn.
func (p ResistorParams) TotalLength(rs tech.RuleSet) float64 {
	pad := rs.ContactSize + 2*rs.ContEncGatPoly
	return pad + rs.SalSpaceCont + p.BodyLength() + rs.SalSpaceCont + pad
}

// ResistorEnds are the two contact centers of a resistor. A is the
// left (horizontal) or bottom (vertical) end.
type ResistorEnds struct {
	A geometry.Point2D
	B geometry.Point2D
}

// Resistor draws a poly resistor with contact pads at both ends and
// returns the contact centers and the total length including pads.
// The origin (x, y) is the lower-left corner of the poly.
//
// Along the body: pad, salicide clearance, blocked body, clearance,
// pad. The salicide block overlaps the body by the poly enclosure on
// all sides; contacts sit on silicided pad poly outside the block.
func Resistor(c *cell.Cell, rs tech.RuleSet, x, y float64, p ResistorParams) (ResistorEnds, float64, error) {
	if p.Sheet <= 0 || p.Target <= 0 || p.Width <= 0 {
		return ResistorEnds{}, 0, errors.Wrapf(ErrNonPositive,
			"resistor sheet=%g Ω/sq target=%g Ω width=%g µm", p.Sheet, p.Target, p.Width)
	}
	if p.Width < rs.GatPolyWidth {
		return ResistorEnds{}, 0, errors.Wrapf(ErrBelowMinimum,
			"resistor width %g µm < GatPoly minimum %g µm", p.Width, rs.GatPolyWidth)
	}
	length := p.BodyLength()
	if length < geometry.GridUM {
		return ResistorEnds{}, 0, errors.Wrapf(ErrBelowMinimum,
			"resistor body %g µm below the %g µm grid (target %g Ω at %g Ω/sq)",
			length, geometry.GridUM, p.Target, p.Sheet)
	}

	pad := rs.ContactSize + 2*rs.ContEncGatPoly
	total := p.TotalLength(rs)

	if p.Orient == Vertical {
		ends := drawResistorV(c, rs, x, y, length, p.Width, pad, total)
		return ends, total, nil
	}
	ends := drawResistorH(c, rs, x, y, length, p.Width, pad, total)
	return ends, total, nil
}

func drawResistorH(c *cell.Cell, rs tech.RuleSet, x, y, length, width, pad, total float64) ResistorEnds {
	c.InsertUM(tech.GatPoly, x, y, x+total, y+width)

	enc := rs.ImplantEnc
	c.InsertUM(tech.PSD, x-enc, y-enc, x+total+enc, y+width+enc)

	salX1 := x + pad + rs.SalSpaceCont - rs.SalEncGatPoly
	salX2 := x + pad + rs.SalSpaceCont + length + rs.SalEncGatPoly
	c.InsertUM(tech.SalBlock, salX1, y-rs.SalEncGatPoly, salX2, y+width+rs.SalEncGatPoly)

	cy := y + width/2
	contactWithPad(c, rs, x+pad/2, cy)
	contactWithPad(c, rs, x+total-pad/2, cy)

	return ResistorEnds{
		A: geometry.Point2D{X: x + pad/2, Y: cy},
		B: geometry.Point2D{X: x + total - pad/2, Y: cy},
	}
}

func drawResistorV(c *cell.Cell, rs tech.RuleSet, x, y, length, width, pad, total float64) ResistorEnds {
	c.InsertUM(tech.GatPoly, x, y, x+width, y+total)

	enc := rs.ImplantEnc
	c.InsertUM(tech.PSD, x-enc, y-enc, x+width+enc, y+total+enc)

	salY1 := y + pad + rs.SalSpaceCont - rs.SalEncGatPoly
	salY2 := y + pad + rs.SalSpaceCont + length + rs.SalEncGatPoly
	c.InsertUM(tech.SalBlock, x-rs.SalEncGatPoly, salY1, x+width+rs.SalEncGatPoly, salY2)

	cx := x + width/2
	contactWithPad(c, rs, cx, y+pad/2)
	contactWithPad(c, rs, cx, y+total-pad/2)

	return ResistorEnds{
		A: geometry.Point2D{X: cx, Y: y + pad/2},
		B: geometry.Point2D{X: cx, Y: y + total - pad/2},
	}
}

// contactWithPad draws a contact cut centered at (x, y) with its
// Metal1 landing pad.
func contactWithPad(c *cell.Cell, rs tech.RuleSet, x, y float64) {
	hc := rs.ContactSize / 2
	c.InsertUM(tech.Cont, x-hc, y-hc, x+hc, y+hc)
	hp := hc + rs.ContEncM1
	c.InsertUM(tech.Metal1, x-hp, y-hp, x+hp, y+hp)
}
