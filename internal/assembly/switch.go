package assembly

import (
	"github.com/pkg/errors"

	"analog-macros/internal/cell"
	"analog-macros/internal/primitive"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// SwitchPins are the terminals of a CMOS transmission gate.
type SwitchPins struct {
	In    geometry.Point2D // shared source column
	Out   geometry.Point2D // shared drain column
	CtrlN geometry.Point2D // NMOS gate (phi)
	CtrlP geometry.Point2D // PMOS gate (phi_bar)

	Width, Height float64
}

// CMOSSwitch draws a transmission gate: an NMOS with a double-width
// PMOS above it, source and drain columns tied on Metal1. The PMOS is
// wider to balance on-resistance.
func CMOSSwitch(c *cell.Cell, rs tech.RuleSet, x, y float64) (SwitchPins, error) {
	const (
		nW = 2.0
		nL = 0.13
		pW = 4.0
		pL = 0.13
	)
	sdExt := rs.ContactSize + 2*rs.ContEncActiv
	wireW := rs.M1Width

	mn, _, err := primitive.MOS(c, rs, x, y, primitive.MOSParams{
		W: nW, L: nL, GateAbove: true,
	})
	if err != nil {
		return SwitchPins{}, errors.Wrap(err, "switch nmos")
	}

	pmosY := y + nW + 1.5
	mp, _, err := primitive.MOS(c, rs, x, pmosY, primitive.MOSParams{
		W: pW, L: pL, Polarity: primitive.PMOS,
	})
	if err != nil {
		return SwitchPins{}, errors.Wrap(err, "switch pmos")
	}

	c.InsertUM(tech.Metal1, mn.Source.X-wireW/2, mn.Source.Y-wireW/2,
		mn.Source.X+wireW/2, mp.Source.Y+wireW/2)
	c.InsertUM(tech.Metal1, mn.Drain.X-wireW/2, mn.Drain.Y-wireW/2,
		mn.Drain.X+wireW/2, mp.Drain.Y+wireW/2)

	return SwitchPins{
		In:     mn.Source,
		Out:    mn.Drain,
		CtrlN:  mn.Gate,
		CtrlP:  mp.Gate,
		Width:  sdExt + nL + sdExt,
		Height: pmosY + pW - y,
	}, nil
}
