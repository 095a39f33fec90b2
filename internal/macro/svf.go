package macro

import (
	"github.com/pkg/errors"

	"analog-macros/internal/assembly"
	"analog-macros/internal/cell"
	"analog-macros/internal/primitive"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// SVF builds the 2nd-order gm-C state variable filter:
//
//	vin -> [sum OTA] -> HP -> [int1 OTA] -> BP -> [int2 OTA] -> LP
//	          ^                                                  |
//	          +------------------- feedback ---------------------+
//	          |
//	     [damp OTA] <- BP      (Q = gm_int / gm_damp)
//
// Two 1 pF MIM caps integrate HP and BP, the fc mirror biases the
// three forward OTAs, the q mirror the damping OTA, and a 4:1 NMOS
// mux picks LP/BP/HP/bypass onto vout.
func SVF(rs tech.RuleSet) (*cell.Cell, error) {
	const (
		macroW = 70.0
		macroH = 85.0

		otaY    = 63.0
		otaGap  = 2.5
		biasY   = 57.0
		capY    = 30.0
		capSide = 25.8 // 25.8^2 um^2 at 1.5 fF/um^2 is ~1 pF
	)
	c := cell.New("svf_2nd")
	powerRails(c, macroW, macroH)

	w1 := rs.M1Width
	w2 := rs.M2Width

	// OTA row: summing, two integrators, damping.
	otaSum, err := assembly.OTA(c, rs, 2.0, otaY, assembly.GMOTAOptions())
	if err != nil {
		return nil, errors.Wrap(err, "sum ota")
	}
	otaInt1, err := assembly.OTA(c, rs, 2.0+otaSum.Width+otaGap, otaY, assembly.GMOTAOptions())
	if err != nil {
		return nil, errors.Wrap(err, "int1 ota")
	}
	otaInt2, err := assembly.OTA(c, rs, 2.0+otaSum.Width+otaGap+otaInt1.Width+otaGap,
		otaY, assembly.GMOTAOptions())
	if err != nil {
		return nil, errors.Wrap(err, "int2 ota")
	}
	dampX := 2.0 + otaSum.Width + otaGap + otaInt1.Width + otaGap + otaInt2.Width + otaGap
	otaDamp, err := assembly.OTA(c, rs, dampX, otaY, assembly.GMOTAOptions())
	if err != nil {
		return nil, errors.Wrap(err, "damp ota")
	}

	for _, ota := range []assembly.OTAPins{otaSum, otaInt1, otaInt2, otaDamp} {
		tieToVDD(c, rs, ota.VDDL, macroH)
		tieToVDD(c, rs, ota.VDDR, macroH)
		tieToVSS(c, rs, ota.VSS)
	}

	// Dual bias mirrors: fc drives the forward tails, q the damping tail.
	biasFc, err := assembly.BiasMirror(c, rs, 2.0, biasY, 2.0, 1.0)
	if err != nil {
		return nil, errors.Wrap(err, "fc mirror")
	}
	biasQ, err := assembly.BiasMirror(c, rs, 2.0+biasFc.Width+2.0, biasY, 2.0, 1.0)
	if err != nil {
		return nil, errors.Wrap(err, "q mirror")
	}

	fcBusY := biasFc.MirDrain.Y
	c.InsertUM(tech.Metal1, biasFc.MirDrain.X-w1/2, fcBusY-w1/2,
		otaInt2.Tail.X+w1/2, fcBusY+w1/2)
	for _, ota := range []assembly.OTAPins{otaSum, otaInt1, otaInt2} {
		c.InsertUM(tech.Metal1, ota.Tail.X-w1/2, fcBusY-w1/2,
			ota.Tail.X+w1/2, ota.Tail.Y+w1/2)
	}

	qBusY := biasQ.MirDrain.Y
	c.InsertUM(tech.Metal1, biasQ.MirDrain.X-w1/2, qBusY-w1/2,
		otaDamp.Tail.X+w1/2, qBusY+w1/2)
	c.InsertUM(tech.Metal1, otaDamp.Tail.X-w1/2, qBusY-w1/2,
		otaDamp.Tail.X+w1/2, otaDamp.Tail.Y+w1/2)

	for _, src := range []geometry.Point2D{
		biasFc.RefSource, biasFc.MirSource, biasQ.RefSource, biasQ.MirSource,
	} {
		tieToVSS(c, rs, src)
	}

	// Integration caps side by side under the bias row.
	c1X := 3.0
	c1, err := primitive.MIMCap(c, rs, c1X, capY, capSide, capSide, true)
	if err != nil {
		return nil, errors.Wrap(err, "c1")
	}
	c2X := c1X + capSide + rs.MimSpace + 2*rs.MimEncM5 + 1.0
	c2, err := primitive.MIMCap(c, rs, c2X, capY, capSide, capSide, true)
	if err != nil {
		return nil, errors.Wrap(err, "c2")
	}

	// HP node: sum output over to int1 input on Metal2.
	hpX1, hpY1 := otaSum.Out.X, otaSum.Out.Y
	hpX2, hpY2 := otaInt1.InP.X, otaInt1.InP.Y
	primitive.Via1(c, rs, hpX1, hpY1)
	primitive.Via1(c, rs, hpX2, hpY2)
	hpRouteY := otaY - 1.0
	// The drop jogs right of the output so it clears the InN landing pad.
	hpDropX := hpX1 + 0.6
	c.InsertUM(tech.Metal2, hpX1-w2/2, hpY1-w2/2, hpDropX+w2/2, hpY1+w2/2)
	c.InsertUM(tech.Metal2, hpDropX-w2/2, hpRouteY-w2/2, hpDropX+w2/2, hpY1+w2/2)
	c.InsertUM(tech.Metal2, hpX1-w2/2, hpRouteY-w2/2, hpX2+w2/2, hpRouteY+w2/2)
	c.InsertUM(tech.Metal2, hpX2-w2/2, hpRouteY-w2/2, hpX2+w2/2, hpY2+w2/2)

	// BP node: int1 output to int2 input plus the C1 top plate.
	bpX1, bpY1 := otaInt1.Out.X, otaInt1.Out.Y
	bpX2, bpY2 := otaInt2.InP.X, otaInt2.InP.Y
	primitive.Via1(c, rs, bpX1, bpY1)
	primitive.Via1(c, rs, bpX2, bpY2)
	bpRouteY := otaY - 2.5
	c.InsertUM(tech.Metal2, bpX1-w2/2, bpRouteY-w2/2, bpX1+w2/2, bpY1+w2/2)
	c.InsertUM(tech.Metal2, bpX1-w2/2, bpRouteY-w2/2, bpX2+w2/2, bpRouteY+w2/2)
	c.InsertUM(tech.Metal2, bpX2-w2/2, bpRouteY-w2/2, bpX2+w2/2, bpY2+w2/2)
	c.InsertUM(tech.Metal2, bpX1-w2/2, c1.Top.Y-w2/2, bpX1+w2/2, bpRouteY+w2/2)

	// LP node: int2 output to the C2 top plate and back to the summing
	// input as feedback.
	lpX1, lpY1 := otaInt2.Out.X, otaInt2.Out.Y
	fbX, fbY := otaSum.InN.X, otaSum.InN.Y
	primitive.Via1(c, rs, lpX1, lpY1)
	primitive.Via1(c, rs, fbX, fbY)
	lpRouteY := otaY - 4.0
	c.InsertUM(tech.Metal2, lpX1-w2/2, lpRouteY-w2/2, lpX1+w2/2, lpY1+w2/2)
	c.InsertUM(tech.Metal2, min(fbX, lpX1)-w2/2, lpRouteY-w2/2,
		max(fbX, lpX1)+w2/2, lpRouteY+w2/2)
	c.InsertUM(tech.Metal2, fbX-w2/2, lpRouteY-w2/2, fbX+w2/2, fbY+w2/2)
	c.InsertUM(tech.Metal2, lpX1-w2/2, c2.Top.Y-w2/2, lpX1+w2/2, lpRouteY+w2/2)

	// Damping OTA taps BP and HP and feeds its output into the summing
	// node.
	primitive.Via1(c, rs, otaDamp.InP.X, otaDamp.InP.Y)
	c.InsertUM(tech.Metal2, otaDamp.InP.X-w2/2, bpRouteY-w2/2,
		otaDamp.InP.X+w2/2, otaDamp.InP.Y+w2/2)
	c.InsertUM(tech.Metal2, bpX2-w2/2, bpRouteY-w2/2,
		otaDamp.InP.X+w2/2, bpRouteY+w2/2)

	primitive.Via1(c, rs, otaDamp.InN.X, otaDamp.InN.Y)
	c.InsertUM(tech.Metal2, otaDamp.InN.X-w2/2, hpRouteY-w2/2,
		otaDamp.InN.X+w2/2, otaDamp.InN.Y+w2/2)
	c.InsertUM(tech.Metal2, hpX2-w2/2, hpRouteY-w2/2,
		otaDamp.InN.X+w2/2, hpRouteY+w2/2)

	primitive.Via1(c, rs, otaDamp.Out.X, otaDamp.Out.Y)
	dampOutY := otaY - 5.5
	dampDropX := otaDamp.Out.X + 0.6
	c.InsertUM(tech.Metal2, otaDamp.Out.X-w2/2, otaDamp.Out.Y-w2/2,
		dampDropX+w2/2, otaDamp.Out.Y+w2/2)
	c.InsertUM(tech.Metal2, dampDropX-w2/2, dampOutY-w2/2,
		dampDropX+w2/2, otaDamp.Out.Y+w2/2)
	c.InsertUM(tech.Metal2, hpX1-w2/2, dampOutY-w2/2, dampDropX+w2/2, dampOutY+w2/2)
	c.InsertUM(tech.Metal2, hpX1-w2/2, dampOutY-w2/2, hpX1+w2/2, hpRouteY+w2/2)

	// Output mux in the bottom region.
	mux, err := assembly.AnalogMux(c, rs, 42.0, 6.0, [4]string{"lp", "bp", "hp", "bypass"})
	if err != nil {
		return nil, errors.Wrap(err, "output mux")
	}
	lpIn, err := mux.Input("lp")
	if err != nil {
		return nil, err
	}
	primitive.Via1(c, rs, lpIn.X, lpIn.Y)
	c.InsertUM(tech.Metal2, c2X+capSide/2-w2/2, lpIn.Y-w2/2, lpIn.X+w2/2, lpIn.Y+w2/2)

	bpIn, err := mux.Input("bp")
	if err != nil {
		return nil, err
	}
	primitive.Via1(c, rs, bpIn.X, bpIn.Y)
	c.InsertUM(tech.Metal2, c1X+capSide/2-w2/2, bpIn.Y-w2/2, bpIn.X+w2/2, bpIn.Y+w2/2)

	hpIn, err := mux.Input("hp")
	if err != nil {
		return nil, err
	}
	primitive.Via1(c, rs, hpIn.X, hpIn.Y)
	c.InsertUM(tech.Metal2, min(hpX1, hpIn.X)-w2/2, hpIn.Y-w2/2,
		max(hpX1, hpIn.X)+w2/2, hpIn.Y+w2/2)

	// vin: left edge track into the summing input and down to the
	// bypass switch.
	const vinPinY = 42.0
	primitive.Via1(c, rs, otaSum.InP.X, otaSum.InP.Y)
	c.InsertUM(tech.Metal2, 0.0, vinPinY-w2/2, otaSum.InP.X+w2/2, vinPinY+w2/2)
	c.InsertUM(tech.Metal2, otaSum.InP.X-w2/2, vinPinY-w2/2,
		otaSum.InP.X+w2/2, otaSum.InP.Y+w2/2)

	bypassIn, err := mux.Input("bypass")
	if err != nil {
		return nil, err
	}
	primitive.Via1(c, rs, bypassIn.X, bypassIn.Y)
	c.InsertUM(tech.Metal2, otaSum.InP.X-w2/2, bypassIn.Y-w2/2,
		bypassIn.X+w2/2, bypassIn.Y+w2/2)
	c.InsertUM(tech.Metal2, otaSum.InP.X-w2/2, bypassIn.Y-w2/2,
		otaSum.InP.X+w2/2, vinPinY+w2/2)

	// vout: mux output jogs right then out to the edge.
	const voutPinY = 42.0
	primitive.Via1(c, rs, mux.Out.X, mux.Out.Y)
	jogX := mux.Out.X + 1.5
	c.InsertUM(tech.Metal2, mux.Out.X-w2/2, mux.Out.Y-w2/2, jogX+w2/2, mux.Out.Y+w2/2)
	c.InsertUM(tech.Metal2, jogX-w2/2, min(mux.Out.Y, voutPinY)-w2/2,
		jogX+w2/2, max(mux.Out.Y, voutPinY)+w2/2)
	c.InsertUM(tech.Metal2, jogX-w2/2, voutPinY-w2/2, macroW, voutPinY+w2/2)

	// Select tracks straight onto the mux gates.
	const (
		sel0PinY = 10.0
		sel1PinY = 16.0
	)
	lpGate, err := mux.Gate("lp")
	if err != nil {
		return nil, err
	}
	c.InsertUM(tech.Metal2, 0.0, sel0PinY-w2/2, lpGate.X+w2/2, sel0PinY+w2/2)
	bpGate, err := mux.Gate("bp")
	if err != nil {
		return nil, err
	}
	c.InsertUM(tech.Metal2, 0.0, sel1PinY-w2/2, bpGate.X+w2/2, sel1PinY+w2/2)

	// Bias inputs to the mirror reference drains.
	ibias := func(pinY float64, ref geometry.Point2D) {
		primitive.Via1(c, rs, ref.X, ref.Y)
		c.InsertUM(tech.Metal2, 0.0, pinY-w2/2, ref.X+w2/2, pinY+w2/2)
		c.InsertUM(tech.Metal2, ref.X-w2/2, min(pinY, ref.Y)-w2/2,
			ref.X+w2/2, max(pinY, ref.Y)+w2/2)
	}
	const (
		ibiasFcPinY = 60.0
		ibiasQPinY  = 66.0
	)
	ibias(ibiasFcPinY, biasFc.RefDrain)
	ibias(ibiasQPinY, biasQ.RefDrain)

	c.AddPin(tech.Metal2Pin, tech.Metal2Label,
		geometry.RectUM(0.0, vinPinY-2.0, 0.5, vinPinY+2.0), "vin")
	c.AddPin(tech.Metal2Pin, tech.Metal2Label,
		geometry.RectUM(macroW-0.5, voutPinY-2.0, macroW, voutPinY+2.0), "vout")
	c.AddPin(tech.Metal2Pin, tech.Metal2Label,
		geometry.RectUM(0.0, sel0PinY-1.0, 0.5, sel0PinY+1.0), "sel[0]")
	c.AddPin(tech.Metal2Pin, tech.Metal2Label,
		geometry.RectUM(0.0, sel1PinY-1.0, 0.5, sel1PinY+1.0), "sel[1]")
	c.AddPin(tech.Metal2Pin, tech.Metal2Label,
		geometry.RectUM(0.0, ibiasFcPinY-1.0, 0.5, ibiasFcPinY+1.0), "ibias_fc")
	c.AddPin(tech.Metal2Pin, tech.Metal2Label,
		geometry.RectUM(0.0, ibiasQPinY-1.0, 0.5, ibiasQPinY+1.0), "ibias_q")

	c.SetBoundary(geometry.RectUM(0, 0, macroW, macroH))
	return c, nil
}
