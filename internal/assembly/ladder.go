// Package assembly composes primitives into reusable circuit blocks:
// R-2R ladder channels, OTAs, current mirrors, pass-gate muxes,
// switched-capacitor stages, comparators, and logic-row filler. Blocks
// draw into a shared cell and return typed pin records; the macro
// drivers place and route them.
package assembly

import (
	"fmt"

	"github.com/pkg/errors"

	"analog-macros/internal/cell"
	"analog-macros/internal/primitive"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// LadderOptions place one R-2R ladder channel.
type LadderOptions struct {
	Bits    int
	XStart  float64 // left edge of the series chain
	SeriesY float64 // bottom of the horizontal series resistors
	PinBase float64 // Y of the bit-0 input pin track
	PinStep float64 // pitch between input pin tracks
	Prefix  string  // pin name prefix, e.g. "d" → d[0], d[1], ...

	Sheet  float64 // Ω/sq of the resistor poly
	Target float64 // Ω of the series unit; shunts are 2× this
	Width  float64 // resistor body width, µm

	SwitchW float64 // NMOS switch width
	SwitchL float64 // NMOS switch gate length
}

// BitPin is a digital input pin produced by a channel: the name and
// the left-edge pin rectangle the macro labels.
type BitPin struct {
	Name string
	Rect geometry.Rect
}

// LadderEnds are the analog terminals and pins of a drawn channel.
type LadderEnds struct {
	Vref geometry.Point2D // leftmost series contact
	Out  geometry.Point2D // rightmost junction (analog output)
	Pins []BitPin         // MSB first, matching draw order
}

// LadderChannel draws an N-bit R-2R ladder: a horizontal series chain,
// a vertical 2R shunt dropped below each junction, and an NMOS switch
// under each shunt with its drain aligned to the junction. Gate vias
// and Metal2 tracks run each bit to the left edge at
// PinBase + bit·PinStep.
func LadderChannel(c *cell.Cell, rs tech.RuleSet, opt LadderOptions) (LadderEnds, error) {
	if opt.Bits <= 0 {
		return LadderEnds{}, errors.Wrapf(primitive.ErrNonPositive, "ladder bits=%d", opt.Bits)
	}

	series := primitive.ResistorParams{
		Sheet: opt.Sheet, Target: opt.Target, Width: opt.Width,
		Orient: primitive.Horizontal,
	}
	shunt := primitive.ResistorParams{
		Sheet: opt.Sheet, Target: 2 * opt.Target, Width: opt.Width,
		Orient: primitive.Vertical,
	}
	rTotal := series.TotalLength(rs)
	r2Total := shunt.TotalLength(rs)
	sdExt := rs.ContactSize + 2*rs.ContEncActiv
	wireW := rs.M1Width
	const gap = 0.3

	var out LadderEnds
	xCursor := opt.XStart
	for i, bit := 0, opt.Bits-1; bit >= 0; i, bit = i+1, bit-1 {
		ends, _, err := primitive.Resistor(c, rs, xCursor, opt.SeriesY, series)
		if err != nil {
			return LadderEnds{}, errors.Wrapf(err, "series R bit %d", bit)
		}
		if i == 0 {
			out.Vref = ends.A
		}
		out.Out = ends.B
		jx, jy := ends.B.X, ends.B.Y

		// 2R shunt hangs 0.5 below the junction.
		r2y := jy - r2Total - 0.5
		shuntEnds, _, err := primitive.Resistor(c, rs, jx-opt.Width/2, r2y, shunt)
		if err != nil {
			return LadderEnds{}, errors.Wrapf(err, "shunt 2R bit %d", bit)
		}
		c.InsertUM(tech.Metal1, jx-wireW/2, shuntEnds.B.Y, jx+wireW/2, jy)

		// Switch drain lines up with the junction x.
		swX := jx - (sdExt + opt.SwitchL + sdExt/2)
		sw, _, err := primitive.MOS(c, rs, swX, r2y-4.5, primitive.MOSParams{
			W: opt.SwitchW, L: opt.SwitchL,
		})
		if err != nil {
			return LadderEnds{}, errors.Wrapf(err, "switch bit %d", bit)
		}
		c.InsertUM(tech.Metal1,
			shuntEnds.A.X-wireW/2, sw.Drain.Y,
			shuntEnds.A.X+wireW/2, shuntEnds.A.Y)

		// Gate via and Metal2 track out to the left edge.
		gvX, gvY := sw.Gate.X, sw.Gate.Y-0.5
		primitive.Via1(c, rs, gvX, gvY)

		pinY := opt.PinBase + float64(bit)*opt.PinStep
		c.InsertUM(tech.Metal2, 0.0, pinY-rs.M2Width, gvX+0.2, pinY+rs.M2Width)
		c.InsertUM(tech.Metal2,
			gvX-rs.M2Width, min(pinY, gvY)-0.1,
			gvX+rs.M2Width, max(pinY, gvY)+0.1)

		out.Pins = append(out.Pins, BitPin{
			Name: fmt.Sprintf("%s[%d]", opt.Prefix, bit),
			Rect: geometry.RectUM(0.0, pinY-0.5, 0.5, pinY+0.5),
		})

		xCursor += rTotal + gap
	}
	return out, nil
}

// ChainWidth returns the drawn extent of an N-bit series chain, for
// centering a channel inside its macro.
func ChainWidth(rs tech.RuleSet, bits int, p primitive.ResistorParams) float64 {
	return float64(bits)*p.TotalLength(rs) + float64(bits-1)*0.3
}
