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

const (
	biasBits  = 4
	biasUnitR = 2000.0
)

// verifyBiasTransfer checks one channel's ladder; both channels draw
// the same network.
func verifyBiasTransfer() error {
	return netcheck.VerifyR2R(biasBits, biasUnitR, coreVDD, 1e-9)
}

// BiasDAC builds the dual-channel 4-bit bias DAC: two independent R-2R
// ladders stacked vertically sharing the rails. The fc channel biases
// the filter integrator OTAs, the q channel the damping OTA.
func BiasDAC(rs tech.RuleSet) (*cell.Cell, error) {
	const (
		macroW = 35.0
		macroH = 40.0
	)
	c := cell.New("bias_dac_2ch")
	powerRails(c, macroW, macroH)

	channel := func(seriesY, pinBase float64, prefix string) (assembly.LadderEnds, error) {
		return assembly.LadderChannel(c, rs, assembly.LadderOptions{
			Bits:    biasBits,
			XStart:  3.0,
			SeriesY: seriesY,
			PinBase: pinBase,
			PinStep: 3.5,
			Prefix:  prefix,
			Sheet:   rs.RhighSheetR,
			Target:  biasUnitR,
			Width:   2.0,
			SwitchW: 2.0,
			SwitchL: 0.13,
		})
	}

	fc, err := channel(30.0, 24.0, "d_fc")
	if err != nil {
		return nil, errors.Wrap(err, "fc channel")
	}
	q, err := channel(12.0, 4.0, "d_q")
	if err != nil {
		return nil, errors.Wrap(err, "q channel")
	}

	// Substrate ties near each channel's switch row.
	for _, xt := range []float64{5.0, 12.0, 19.0, 26.0} {
		primitive.SubstrateTie(c, rs, xt, 16.0)
		primitive.SubstrateTie(c, rs, xt, 2.5)
	}

	vout := func(ends assembly.LadderEnds, pinY float64, name string) {
		primitive.Via1(c, rs, ends.Out.X, ends.Out.Y)
		c.InsertUM(tech.Metal2, ends.Out.X-0.1, pinY-0.5, macroW, pinY+0.5)
		c.InsertUM(tech.Metal2, ends.Out.X-rs.M2Width, min(ends.Out.Y, pinY),
			ends.Out.X+rs.M2Width, max(ends.Out.Y, pinY))
		c.AddPin(tech.Metal2Pin, tech.Metal2Label,
			geometry.RectUM(macroW-0.5, pinY-0.5, macroW, pinY+0.5), name)
	}
	vout(fc, 30.0, "vout_fc")
	vout(q, 12.0, "vout_q")

	for _, p := range append(fc.Pins, q.Pins...) {
		c.AddPin(tech.Metal2Pin, tech.Metal2Label, p.Rect, p.Name)
	}

	c.SetBoundary(geometry.RectUM(0, 0, macroW, macroH))
	return c, nil
}
