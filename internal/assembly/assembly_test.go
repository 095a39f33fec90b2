package assembly

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analog-macros/internal/cell"
	"analog-macros/internal/primitive"
	"analog-macros/internal/tech"
)

func ladderOptions(bits int) LadderOptions {
	return LadderOptions{
		Bits: bits, XStart: 3.0, SeriesY: 50.0,
		PinBase: 4.0, PinStep: 6.0, Prefix: "d",
		Sheet: 1300, Target: 2000, Width: 2.0,
		SwitchW: 2.0, SwitchL: 0.13,
	}
}

func TestLadderChannelPins(t *testing.T) {
	rs := tech.SG13G2()
	c := cell.New("ladder")

	ends, err := LadderChannel(c, rs, ladderOptions(8))
	require.NoError(t, err)

	require.Len(t, ends.Pins, 8)
	seen := make(map[string]bool)
	for i, p := range ends.Pins {
		assert.Equal(t, fmt.Sprintf("d[%d]", 7-i), p.Name, "MSB drawn first")
		assert.False(t, seen[p.Name], "duplicate pin %s", p.Name)
		seen[p.Name] = true
	}

	// Pin tracks sit at PinBase + bit*PinStep on the left edge.
	assert.Equal(t, int64(0), ends.Pins[0].Rect.X1)
	assert.Equal(t, int64(46000), ends.Pins[0].Rect.Center().Y) // d[7] at 4+7*6
	assert.Equal(t, int64(4000), ends.Pins[7].Rect.Center().Y)  // d[0]

	// 8 series bodies + 8 shunts on poly, 8 switches on active.
	assert.Len(t, c.Shapes(tech.GatPoly), 24)
	assert.Len(t, c.Shapes(tech.Activ), 8)
	assert.Len(t, c.Shapes(tech.Via1), 8)
}

func TestLadderChannelTerminals(t *testing.T) {
	rs := tech.SG13G2()
	c := cell.New("ladder")
	opt := ladderOptions(8)

	ends, err := LadderChannel(c, rs, opt)
	require.NoError(t, err)

	p := primitive.ResistorParams{Sheet: opt.Sheet, Target: opt.Target, Width: opt.Width}
	rTotal := p.TotalLength(rs)

	assert.InDelta(t, opt.XStart+0.16, ends.Vref.X, 1e-9)
	assert.InDelta(t, opt.SeriesY+1.0, ends.Vref.Y, 1e-9)
	assert.InDelta(t, opt.XStart+7*(rTotal+0.3)+rTotal-0.16, ends.Out.X, 1e-9)
}

func TestLadderChannelRejectsZeroBits(t *testing.T) {
	_, err := LadderChannel(cell.New("l"), tech.SG13G2(), ladderOptions(0))
	assert.ErrorIs(t, err, primitive.ErrNonPositive)
}

func TestChainWidth(t *testing.T) {
	rs := tech.SG13G2()
	p := primitive.ResistorParams{Sheet: 1300, Target: 2000, Width: 2.0}
	got := ChainWidth(rs, 8, p)
	assert.InDelta(t, 8*p.TotalLength(rs)+7*0.3, got, 1e-9)
}

func TestOTAPinGeometry(t *testing.T) {
	rs := tech.SG13G2()
	c := cell.New("ota")

	ota, err := OTA(c, rs, 2.0, 63.0, GMOTAOptions())
	require.NoError(t, err)

	// dpLen = 1.14, so the block spans 2*1.14 + 1.5.
	assert.InDelta(t, 3.78, ota.Width, 1e-9)
	assert.InDelta(t, 12.5, ota.Height, 1e-9)

	// Input gates at the top poly ends of the pair.
	assert.InDelta(t, 2.0+0.32+0.25, ota.InP.X, 1e-9)
	assert.InDelta(t, 63.0+4.0+4.0+0.18, ota.InP.Y, 1e-9)
	assert.Greater(t, ota.InN.X, ota.InP.X)

	// Output above the right pair device, supplies on the load row.
	assert.InDelta(t, ota.VDDR.Y, ota.Out.Y, 1e-9)
	assert.Less(t, ota.VSS.Y, ota.InP.Y)

	// Shared load NWell, not one per device.
	assert.Len(t, c.Shapes(tech.NWell), 1)
}

func TestCompactOTAIsShorter(t *testing.T) {
	rs := tech.SG13G2()
	gm, err := OTA(cell.New("a"), rs, 0, 0, GMOTAOptions())
	require.NoError(t, err)
	sc, err := OTA(cell.New("b"), rs, 0, 0, CompactOTAOptions())
	require.NoError(t, err)
	assert.Less(t, sc.Height, gm.Height)
	assert.Less(t, sc.Width, gm.Width)
}

func TestBiasMirror(t *testing.T) {
	rs := tech.SG13G2()
	c := cell.New("bias")

	m, err := BiasMirror(c, rs, 2.0, 57.0, 2.0, 1.0)
	require.NoError(t, err)

	// actLen = 1.64, two devices plus the 1.0 gap.
	assert.InDelta(t, 4.28, m.Width, 1e-9)
	assert.Greater(t, m.MirDrain.X, m.RefDrain.X)
	assert.InDelta(t, m.RefDrain.Y, m.MirDrain.Y, 1e-9)
	assert.Len(t, c.Shapes(tech.Activ), 2)
}

func TestAnalogMuxLookup(t *testing.T) {
	rs := tech.SG13G2()
	c := cell.New("mux")

	m, err := AnalogMux(c, rs, 42.0, 6.0, [4]string{"lp", "bp", "hp", "bypass"})
	require.NoError(t, err)

	lp, err := m.Input("lp")
	require.NoError(t, err)
	hp, err := m.Input("hp")
	require.NoError(t, err)
	assert.InDelta(t, lp.X, hp.X, 1e-9)
	assert.InDelta(t, 7.0, hp.Y-lp.Y, 1e-9) // two pitches apart

	g, err := m.Gate("bypass")
	require.NoError(t, err)
	assert.Greater(t, g.Y, lp.Y)

	assert.InDelta(t, 14.0, m.Height, 1e-9)
	assert.Len(t, c.Shapes(tech.Activ), 4)
}

func TestAnalogMuxUnknownInput(t *testing.T) {
	m, err := AnalogMux(cell.New("mux"), tech.SG13G2(), 0, 0,
		[4]string{"lp", "bp", "hp", "bypass"})
	require.NoError(t, err)

	_, err = m.Input("vin")
	assert.ErrorIs(t, err, ErrMissingConnection)
	_, err = m.Gate("nope")
	assert.ErrorIs(t, err, ErrMissingConnection)
}

func TestCMOSSwitch(t *testing.T) {
	rs := tech.SG13G2()
	c := cell.New("sw")

	sw, err := CMOSSwitch(c, rs, 46.0, 18.0)
	require.NoError(t, err)

	assert.InDelta(t, 0.77, sw.Width, 1e-9)
	assert.InDelta(t, 7.5, sw.Height, 1e-9)
	assert.InDelta(t, 46.16, sw.In.X, 1e-9)
	assert.Greater(t, sw.CtrlP.Y, sw.CtrlN.Y)
	assert.Len(t, c.Shapes(tech.NWell), 1)
	assert.Len(t, c.Shapes(tech.NSD), 1)
	assert.Len(t, c.Shapes(tech.PSD), 1)
}

func TestNonOverlapClock(t *testing.T) {
	rs := tech.SG13G2()
	c := cell.New("nol")

	nol, err := NonOverlapClock(c, rs, 42.0, 50.0)
	require.NoError(t, err)

	assert.InDelta(t, 4*1.77, nol.Width, 1e-9)
	assert.NotEqual(t, nol.Phi1, nol.Phi2)
	assert.Len(t, c.Shapes(tech.NWell), 1, "shared well for the PMOS row")
	assert.Len(t, c.Shapes(tech.Activ), 8)
	for i := 0; i < 4; i++ {
		assert.Greater(t, nol.PMOSSources[i].Y, nol.NMOSSources[i].Y)
	}
}

func TestQCapArrayWeights(t *testing.T) {
	rs := tech.SG13G2()
	c := cell.New("cq")

	bank, err := QCapArray(c, rs, 2.0, 3.0)
	require.NoError(t, err)

	unit := bank.Caps[0].W * bank.Caps[0].H
	assert.InDelta(t, 2.0, bank.Caps[1].W*bank.Caps[1].H/unit, 1e-9)
	assert.InDelta(t, 4.0, bank.Caps[2].W*bank.Caps[2].H/unit, 1e-9)
	// MSB is a 20x20 plate, so its ratio is ~8.2x rather than an exact 8x.
	assert.InDelta(t, 400.0/49.0, bank.Caps[3].W*bank.Caps[3].H/unit, 1e-9)

	assert.InDelta(t, 53.4, bank.TotalWidth, 1e-9)
	assert.Len(t, c.Shapes(tech.Cmim), 4)
	assert.Empty(t, c.Shapes(tech.TopMetal1))
}

func TestCapDACWeightsAndWrap(t *testing.T) {
	rs := tech.SG13G2()
	c := cell.New("dac")

	caps, err := CapDAC(c, rs, 2.0, 4.0, 8, 2.0, 39.0)
	require.NoError(t, err)
	require.Len(t, caps, 9)

	assert.Equal(t, 1, caps[0].Units) // dummy LSB
	for bit := 1; bit <= 8; bit++ {
		assert.Equal(t, 1<<(bit-1), caps[bit].Units)
	}

	// Large weights keep their exact area; tiny ones are clamped to the
	// process minimum.
	for _, wc := range caps[3:] {
		area := float64(wc.Units) * 2.0 / rs.MimCapDensity
		assert.InDelta(t, area, wc.W*wc.H, 1e-6, "bit %d", wc.Bit)
	}

	// The column wraps right before it would pass maxY.
	assert.Greater(t, caps[8].Center.X, 14.0)
	assert.Less(t, caps[0].Center.X, 4.0)
	assert.Len(t, c.Shapes(tech.Cmim), 9)
	assert.Len(t, c.Shapes(tech.TopMetal1), 9)
}

func TestComparatorPins(t *testing.T) {
	rs := tech.SG13G2()
	c := cell.New("cmp")

	cmp, err := Comparator(c, rs, 27.0, 25.0)
	require.NoError(t, err)

	assert.NotEqual(t, cmp.OutP, cmp.OutN)
	assert.InDelta(t, 5.0, cmp.InN.X-cmp.InP.X, 1e-9)
	assert.InDelta(t, 25.0+0.18, cmp.Clk.Y, 1e-9) // clocked tail gate
	assert.Equal(t, int64(26500), cmp.BBox.X1)
	assert.Equal(t, int64(45000), cmp.BBox.Y2)

	assert.Len(t, c.Shapes(tech.Activ), 9)
	assert.Len(t, c.Shapes(tech.NWell), 4)
}

func TestLogicBlock(t *testing.T) {
	rs := tech.SG13G2()
	c := cell.New("sar")

	bbox, err := LogicBlock(c, rs, 27.0, 4.0, 15.0, 18.0)
	require.NoError(t, err)

	assert.Equal(t, int64(27000), bbox.X1)
	assert.Equal(t, int64(22000), bbox.Y2)

	// 7 rows of 10 devices, PMOS rows share one well each.
	assert.Len(t, c.Shapes(tech.Activ), 70)
	assert.Len(t, c.Shapes(tech.NWell), 3)
	assert.Len(t, c.Shapes(tech.Metal2), 2)
}

func TestSCResistor(t *testing.T) {
	rs := tech.SG13G2()
	c := cell.New("sc")

	st, err := SCResistor(c, rs, 55.0, 3.0, 7.0, 46.0, 18.0, 2.5)
	require.NoError(t, err)

	assert.InDelta(t, st.SwA.In.X+st.SwA.Width+2.5, st.SwB.In.X, 1e-9)
	assert.InDelta(t, 58.5, st.Cap.Bottom.X, 1e-9)
	assert.Len(t, c.Shapes(tech.Cmim), 1)
	assert.Len(t, c.Shapes(tech.NWell), 2)
}
