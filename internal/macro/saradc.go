package macro

import (
	"fmt"

	"github.com/pkg/errors"

	"analog-macros/internal/assembly"
	"analog-macros/internal/cell"
	"analog-macros/internal/primitive"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// SARADC builds the 8-bit SAR ADC: a binary-weighted capacitive DAC
// column on the left, the sampling switch near the vin pin, and the
// StrongARM comparator over the SAR logic block on the right. Per-bit
// Metal2 buses carry the logic decisions back to the cap switches.
func SARADC(rs tech.RuleSet) (*cell.Cell, error) {
	const (
		macroW = 42.0
		macroH = 45.0
		nbits  = 8
		unitFF = 2.0
	)
	c := cell.New("sar_adc_8bit")

	// Merged per-bit caps, wrapped into columns so the DAC stays under
	// the routing channel.
	_, err := assembly.CapDAC(c, rs, 2.0, 4.0, nbits, unitFF, macroH-6)
	if err != nil {
		return nil, errors.Wrap(err, "cap dac")
	}

	// Sampling switch beside the vin pin.
	_, _, err = primitive.MOS(c, rs, 2.0, 22.0, primitive.MOSParams{
		W: 3.0, L: 0.13, GateAbove: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "sample switch")
	}

	_, err = assembly.Comparator(c, rs, 27.0, 25.0)
	if err != nil {
		return nil, errors.Wrap(err, "comparator")
	}
	_, err = assembly.LogicBlock(c, rs, 27.0, 4.0, 15.0, 18.0)
	if err != nil {
		return nil, errors.Wrap(err, "sar logic")
	}

	// Substrate ties: by the sample switch, along the comparator NMOS
	// region, around the logic block perimeter, and near the caps.
	primitive.SubstrateTie(c, rs, 2.0, 19.0)
	primitive.SubstrateTie(c, rs, 6.0, 19.0)
	for _, xt := range []float64{26.0, 34.0, 38.0} {
		primitive.SubstrateTie(c, rs, xt, 23.0)
		primitive.SubstrateTie(c, rs, xt, 33.0)
	}
	// The comparator tail diffusion reaches x 29.9; its tie steps aside.
	primitive.SubstrateTie(c, rs, 30.5, 23.5)
	primitive.SubstrateTie(c, rs, 30.0, 33.0)
	for _, xt := range []float64{24.5, 31.0, 36.5, 41.5} {
		primitive.SubstrateTie(c, rs, xt, 2.5)
		primitive.SubstrateTie(c, rs, xt, 22.5)
	}
	// 8.5 keeps the right-edge tie off the first PMOS row well.
	for _, yt := range []float64{8.5, 14.0, 20.0} {
		primitive.SubstrateTie(c, rs, 24.5, yt)
		primitive.SubstrateTie(c, rs, 41.5, yt)
	}
	for _, xt := range []float64{2.0, 10.0, 18.0} {
		primitive.SubstrateTie(c, rs, xt, 2.5)
	}

	// Per-bit decision buses from the logic block to the cap switches.
	for bit := 0; bit < nbits; bit++ {
		busY := 24.0 + float64(bit)*1.5
		c.InsertUM(tech.Metal2, 2.0, busY-rs.M2Width/2, 27.0, busY+rs.M2Width/2)
	}

	powerRails(c, macroW, macroH)

	for _, p := range []struct {
		y    float64
		name string
	}{
		{5.0, "clk"}, {9.0, "rst_n"}, {13.0, "start"}, {22.0, "vin"},
	} {
		c.AddPin(tech.Metal2Pin, tech.Metal2Label,
			geometry.RectUM(0.0, p.y-0.5, 0.5, p.y+0.5), p.name)
	}
	c.AddPin(tech.Metal2Pin, tech.Metal2Label,
		geometry.RectUM(macroW-0.5, 4.5, macroW, 5.5), "eoc")
	for bit := 0; bit < nbits; bit++ {
		pinY := 9.0 + float64(bit)*4.5
		c.AddPin(tech.Metal2Pin, tech.Metal2Label,
			geometry.RectUM(macroW-0.5, pinY-0.5, macroW, pinY+0.5),
			fmt.Sprintf("dout[%d]", bit))
	}

	c.SetBoundary(geometry.RectUM(0, 0, macroW, macroH))
	return c, nil
}
