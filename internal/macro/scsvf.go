package macro

import (
	"github.com/pkg/errors"

	"analog-macros/internal/assembly"
	"analog-macros/internal/cell"
	"analog-macros/internal/primitive"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// SCSVF builds the switched-capacitor 2nd-order SVF:
//
//	vin -> [SC_R1] -> sum -> [OTA1] -> BP -> [OTA2] -> LP
//	                   ^ [SC_R2] <- LP feedback
//	                   ^ [C_Q array] <- BP damping
//
// SC resistors replace the gm-C tail bias as the frequency control:
// sc_clk drives the non-overlap generator for phi1/phi2, and q0..q3
// trim the damping with a binary-weighted cap array. Compacted to
// 66x72 from the 70x85 gm-C floorplan.
func SCSVF(rs tech.RuleSet) (*cell.Cell, error) {
	const (
		macroW = 66.0
		macroH = 72.0

		otaY    = 56.0
		otaGap  = 3.0
		capY    = 23.0
		capSide = 27.1 // 27.1^2 um^2 is ~1.1 pF
		swSide  = 7.0  // 73.5 fF switching unit
	)
	c := cell.New("sc_svf")
	powerRails(c, macroW, macroH)

	w1 := rs.M1Width
	w2 := rs.M2Width

	ota1, err := assembly.OTA(c, rs, 2.0, otaY, assembly.CompactOTAOptions())
	if err != nil {
		return nil, errors.Wrap(err, "ota1")
	}
	ota2, err := assembly.OTA(c, rs, 2.0+ota1.Width+otaGap, otaY, assembly.CompactOTAOptions())
	if err != nil {
		return nil, errors.Wrap(err, "ota2")
	}

	for _, ota := range []assembly.OTAPins{ota1, ota2} {
		tieToVDD(c, rs, ota.VDDL, macroH)
		tieToVDD(c, rs, ota.VDDR, macroH)
		tieToVSS(c, rs, ota.VSS)
	}

	// The SC integrators are voltage mode, so both tails just share a
	// self-biased bus instead of a mirror.
	const biasBusY = 54.0
	for _, ota := range []assembly.OTAPins{ota1, ota2} {
		c.InsertUM(tech.Metal1, ota.Tail.X-w1/2, biasBusY-w1/2,
			ota.Tail.X+w1/2, ota.Tail.Y+w1/2)
	}
	c.InsertUM(tech.Metal1, ota1.Tail.X-w1/2, biasBusY-w1/2,
		ota2.Tail.X+w1/2, biasBusY+w1/2)

	// Non-overlap clock generator and its supply hookups.
	nol, err := assembly.NonOverlapClock(c, rs, 42.0, 50.0)
	if err != nil {
		return nil, errors.Wrap(err, "nol clock")
	}
	for i := 0; i < 4; i++ {
		tieToVSS(c, rs, nol.NMOSSources[i])
		tieToVDD(c, rs, nol.PMOSSources[i], macroH)
	}

	// Integration caps. The SC caps live under Metal5 only, the top
	// metal stays free for the macro above.
	c1X := 2.0
	c1, err := primitive.MIMCap(c, rs, c1X, capY, capSide, capSide, false)
	if err != nil {
		return nil, errors.Wrap(err, "c_int1")
	}
	c2X := c1X + capSide + rs.MimSpace + 2*rs.MimEncM5 + 1.0
	c2, err := primitive.MIMCap(c, rs, c2X, capY, capSide, capSide, false)
	if err != nil {
		return nil, errors.Wrap(err, "c_int2")
	}

	// Q-tuning array bottom left.
	cq, err := assembly.QCapArray(c, rs, 2.0, 3.0)
	if err != nil {
		return nil, errors.Wrap(err, "c_q array")
	}

	// Two SC resistors: switching cap next to the array, switch pair in
	// the row above the mux. The 2.5 gap keeps PWell between the switch
	// NWells.
	cswX := 2.0 + cq.TotalWidth + rs.MimSpace + 2*rs.MimEncM5 + 0.5
	const (
		swY   = 18.0
		swGap = 2.5
	)
	scr1, err := assembly.SCResistor(c, rs, cswX, 3.0, swSide, 46.0, swY, swGap)
	if err != nil {
		return nil, errors.Wrap(err, "sc_r1")
	}
	csw2Y := 3.0 + swSide + rs.MimSpace + 2*rs.MimEncM5 + 0.3
	_, err = assembly.SCResistor(c, rs, cswX, csw2Y, swSide,
		46.0+2*(scr1.SwA.Width+swGap), swY, swGap)
	if err != nil {
		return nil, errors.Wrap(err, "sc_r2")
	}

	mux, err := assembly.AnalogMux(c, rs, 46.0, 3.0, [4]string{"hp", "bp", "lp", "bypass"})
	if err != nil {
		return nil, errors.Wrap(err, "output mux")
	}

	// Substrate ties within reach of every NMOS group.
	for _, xt := range []float64{2.0, 10.0, 18.0, 26.0} {
		primitive.SubstrateTie(c, rs, xt, 55.0)
	}
	for _, xt := range []float64{42.0, 46.0, 50.0} {
		primitive.SubstrateTie(c, rs, xt, 49.0)
	}
	for _, xt := range []float64{46.0, 50.0, 54.0} {
		primitive.SubstrateTie(c, rs, xt, 16.5)
	}
	primitive.SubstrateTie(c, rs, 45.0, 2.5)
	primitive.SubstrateTie(c, rs, 45.0, 8.0)

	// BP node: ota1 output to ota2 input and the C_int1 top plate.
	bpX1, bpY1 := ota1.Out.X, ota1.Out.Y
	bpX2, bpY2 := ota2.InP.X, ota2.InP.Y
	primitive.Via1(c, rs, bpX1, bpY1)
	primitive.Via1(c, rs, bpX2, bpY2)
	bpRouteY := otaY - 1.0
	// The drop jogs right of the output so it clears the InN landing pad.
	bpDropX := bpX1 + 0.6
	c.InsertUM(tech.Metal2, bpX1-w2/2, bpY1-w2/2, bpDropX+w2/2, bpY1+w2/2)
	c.InsertUM(tech.Metal2, bpDropX-w2/2, bpRouteY-w2/2, bpDropX+w2/2, bpY1+w2/2)
	c.InsertUM(tech.Metal2, bpX1-w2/2, bpRouteY-w2/2, bpX2+w2/2, bpRouteY+w2/2)
	c.InsertUM(tech.Metal2, bpX2-w2/2, bpRouteY-w2/2, bpX2+w2/2, bpY2+w2/2)
	c.InsertUM(tech.Metal2, bpX1-w2/2, c1.Top.Y-w2/2, bpX1+w2/2, bpRouteY+w2/2)

	// LP node: ota2 output to the C_int2 top plate.
	lpX1, lpY1 := ota2.Out.X, ota2.Out.Y
	primitive.Via1(c, rs, lpX1, lpY1)
	lpRouteY := otaY - 2.5
	c.InsertUM(tech.Metal2, lpX1-w2/2, lpRouteY-w2/2, lpX1+w2/2, lpY1+w2/2)
	c.InsertUM(tech.Metal2, lpX1-w2/2, c2.Top.Y-w2/2, lpX1+w2/2, lpRouteY+w2/2)

	// LP feedback onto the inverting input.
	fbX, fbY := ota1.InN.X, ota1.InN.Y
	primitive.Via1(c, rs, fbX, fbY)
	fbRouteY := otaY - 4.0
	c.InsertUM(tech.Metal2, min(fbX, lpX1)-w2/2, fbRouteY-w2/2,
		max(fbX, lpX1)+w2/2, fbRouteY+w2/2)
	c.InsertUM(tech.Metal2, fbX-w2/2, fbRouteY-w2/2, fbX+w2/2, fbY+w2/2)
	c.InsertUM(tech.Metal2, lpX1-w2/2, fbRouteY-w2/2, lpX1+w2/2, lpRouteY+w2/2)

	// Mux taps from the cap centers; HP only gets its landing via, the
	// node is derived upstream.
	bpIn, err := mux.Input("bp")
	if err != nil {
		return nil, err
	}
	primitive.Via1(c, rs, bpIn.X, bpIn.Y)
	c.InsertUM(tech.Metal2, c1X+capSide/2-w2/2, bpIn.Y-w2/2, bpIn.X+w2/2, bpIn.Y+w2/2)

	lpIn, err := mux.Input("lp")
	if err != nil {
		return nil, err
	}
	primitive.Via1(c, rs, lpIn.X, lpIn.Y)
	c.InsertUM(tech.Metal2, c2X+capSide/2-w2/2, lpIn.Y-w2/2, lpIn.X+w2/2, lpIn.Y+w2/2)

	hpIn, err := mux.Input("hp")
	if err != nil {
		return nil, err
	}
	primitive.Via1(c, rs, hpIn.X, hpIn.Y)

	// vin into the summing input and down to the bypass switch.
	const vinPinY = 36.0
	primitive.Via1(c, rs, ota1.InP.X, ota1.InP.Y)
	c.InsertUM(tech.Metal2, 0.0, vinPinY-w2/2, ota1.InP.X+w2/2, vinPinY+w2/2)
	c.InsertUM(tech.Metal2, ota1.InP.X-w2/2, vinPinY-w2/2,
		ota1.InP.X+w2/2, ota1.InP.Y+w2/2)

	bypassIn, err := mux.Input("bypass")
	if err != nil {
		return nil, err
	}
	primitive.Via1(c, rs, bypassIn.X, bypassIn.Y)
	c.InsertUM(tech.Metal2, ota1.InP.X-w2/2, bypassIn.Y-w2/2,
		bypassIn.X+w2/2, bypassIn.Y+w2/2)
	c.InsertUM(tech.Metal2, ota1.InP.X-w2/2, bypassIn.Y-w2/2,
		ota1.InP.X+w2/2, vinPinY+w2/2)

	// vout jog from the mux output to the right edge.
	const voutPinY = 36.0
	primitive.Via1(c, rs, mux.Out.X, mux.Out.Y)
	jogX := mux.Out.X + 1.5
	c.InsertUM(tech.Metal2, mux.Out.X-w2/2, mux.Out.Y-w2/2, jogX+w2/2, mux.Out.Y+w2/2)
	c.InsertUM(tech.Metal2, jogX-w2/2, min(mux.Out.Y, voutPinY)-w2/2,
		jogX+w2/2, max(mux.Out.Y, voutPinY)+w2/2)
	c.InsertUM(tech.Metal2, jogX-w2/2, voutPinY-w2/2, macroW, voutPinY+w2/2)

	const (
		sel0PinY = 10.0
		sel1PinY = 16.0
	)
	hpGate, err := mux.Gate("hp")
	if err != nil {
		return nil, err
	}
	c.InsertUM(tech.Metal2, 0.0, sel0PinY-w2/2, hpGate.X+w2/2, sel0PinY+w2/2)
	bpGate, err := mux.Gate("bp")
	if err != nil {
		return nil, err
	}
	c.InsertUM(tech.Metal2, 0.0, sel1PinY-w2/2, bpGate.X+w2/2, sel1PinY+w2/2)

	// sc_clk lands left of the generator, clear of its drain wires.
	const scClkPinY = 52.0
	viaClkX := 42.0 - 1.5
	primitive.Via1(c, rs, viaClkX, nol.ClkIn.Y)
	c.InsertUM(tech.Metal2, 0.0, scClkPinY-w2/2, viaClkX+w2/2, scClkPinY+w2/2)
	c.InsertUM(tech.Metal2, viaClkX-w2/2, min(scClkPinY, nol.ClkIn.Y)-w2/2,
		viaClkX+w2/2, max(scClkPinY, nol.ClkIn.Y)+w2/2)

	// q0..q3 trim inputs as edge stubs.
	qPinYs := [4]float64{56.0, 58.0, 60.0, 62.0}
	for _, qy := range qPinYs {
		c.InsertUM(tech.Metal2, 0.0, qy-w2/2, 6.0, qy+w2/2)
	}

	c.AddPin(tech.Metal2Pin, tech.Metal2Label,
		geometry.RectUM(0.0, vinPinY-2.0, 0.5, vinPinY+2.0), "vin")
	c.AddPin(tech.Metal2Pin, tech.Metal2Label,
		geometry.RectUM(macroW-0.5, voutPinY-2.0, macroW, voutPinY+2.0), "vout")
	c.AddPin(tech.Metal2Pin, tech.Metal2Label,
		geometry.RectUM(0.0, sel0PinY-1.0, 0.5, sel0PinY+1.0), "sel0")
	c.AddPin(tech.Metal2Pin, tech.Metal2Label,
		geometry.RectUM(0.0, sel1PinY-1.0, 0.5, sel1PinY+1.0), "sel1")
	c.AddPin(tech.Metal2Pin, tech.Metal2Label,
		geometry.RectUM(0.0, scClkPinY-1.0, 0.5, scClkPinY+1.0), "sc_clk")
	for i, qy := range qPinYs {
		c.AddPin(tech.Metal2Pin, tech.Metal2Label,
			geometry.RectUM(0.0, qy-1.0, 0.5, qy+1.0),
			[]string{"q0", "q1", "q2", "q3"}[i])
	}

	c.SetBoundary(geometry.RectUM(0, 0, macroW, macroH))
	return c, nil
}
