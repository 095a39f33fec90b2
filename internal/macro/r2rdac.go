package macro

import (
	"github.com/pkg/errors"

	"analog-macros/internal/assembly"
	"analog-macros/internal/cell"
	"analog-macros/internal/netcheck"
	"analog-macros/internal/primitive"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// Ladder sizing, shared with the electrical self-check.
const (
	r2rBits  = 8
	r2rUnitR = 2000.0
	coreVDD  = 1.2
)

// verifyR2RTransfer solves the drawn ladder's nodal network for every
// input code and checks the binary transfer function.
func verifyR2RTransfer() error {
	return netcheck.VerifyR2R(r2rBits, r2rUnitR, coreVDD, 1e-9)
}

// R2RDAC builds the 8-bit R-2R DAC: a centered horizontal series chain
// at the top, vertical 2R shunts and NMOS switches below, d[7:0] input
// tracks on the left edge and the analog output on the right.
//
// The rhigh poly (1300 Ω/sq) keeps the 2 kΩ unit at ~3.1 µm of body,
// so the whole 8-bit chain fits the 45 µm width with margin.
func R2RDAC(rs tech.RuleSet) (*cell.Cell, error) {
	const (
		macroW = 45.0
		macroH = 60.0
	)
	c := cell.New("r2r_dac_8bit")

	series := primitive.ResistorParams{Sheet: rs.RhighSheetR, Target: r2rUnitR, Width: 2.0}
	chainW := assembly.ChainWidth(rs, r2rBits, series)

	ends, err := assembly.LadderChannel(c, rs, assembly.LadderOptions{
		Bits:    r2rBits,
		XStart:  (macroW - chainW) / 2,
		SeriesY: 50.0,
		PinBase: 4.0,
		PinStep: 6.0,
		Prefix:  "d",
		Sheet:   series.Sheet,
		Target:  series.Target,
		Width:   series.Width,
		SwitchW: 2.0,
		SwitchL: 0.13,
	})
	if err != nil {
		return nil, errors.Wrap(err, "r2r ladder")
	}

	// Substrate ties along the switch row.
	for _, xt := range []float64{3.0, 10.0, 17.0, 24.0, 31.0, 38.0} {
		primitive.SubstrateTie(c, rs, xt, 36.0)
	}

	// Analog output to the right edge on Metal2.
	primitive.Via1(c, rs, ends.Out.X, ends.Out.Y)
	const voutY = 30.0
	c.InsertUM(tech.Metal2, ends.Out.X-0.1, voutY-0.5, macroW, voutY+0.5)
	c.InsertUM(tech.Metal2, ends.Out.X-rs.M2Width, min(ends.Out.Y, voutY),
		ends.Out.X+rs.M2Width, max(ends.Out.Y, voutY))

	for _, p := range ends.Pins {
		c.AddPin(tech.Metal2Pin, tech.Metal2Label, p.Rect, p.Name)
	}
	c.AddPin(tech.Metal2Pin, tech.Metal2Label,
		geometry.RectUM(macroW-0.5, voutY-0.5, macroW, voutY+0.5), "vout")

	powerRails(c, macroW, macroH)
	c.SetBoundary(geometry.RectUM(0, 0, macroW, macroH))
	return c, nil
}
