package assembly

import (
	"github.com/pkg/errors"

	"analog-macros/internal/cell"
	"analog-macros/internal/primitive"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// OTAOptions size a 5-transistor OTA and its internal spacing.
type OTAOptions struct {
	DiffPairW, DiffPairL float64 // NMOS input pair
	LoadW, LoadL         float64 // PMOS mirror load
	TailW, TailL         float64 // NMOS tail source

	DiffPairGap float64 // gap between the two input devices
	TailGap     float64 // tail top to diff pair bottom
	LoadGap     float64 // diff pair top to load bottom
}

// GMOTAOptions sizes the transconductor used by the gm-C filter.
func GMOTAOptions() OTAOptions {
	return OTAOptions{
		DiffPairW: 4.0, DiffPairL: 0.50,
		LoadW: 2.0, LoadL: 0.50,
		TailW: 2.0, TailL: 0.50,
		DiffPairGap: 1.5, TailGap: 2.0, LoadGap: 2.5,
	}
}

// CompactOTAOptions is the tighter variant used by the switched-cap
// filter.
func CompactOTAOptions() OTAOptions {
	o := GMOTAOptions()
	o.DiffPairGap = 1.3
	o.TailGap = 1.5
	o.LoadGap = 2.0
	return o
}

// OTAPins are the terminals of a drawn OTA plus its extent.
type OTAPins struct {
	InP, InN geometry.Point2D // diff pair gates (poly top ends)
	Out      geometry.Point2D // right load drain
	Tail     geometry.Point2D // tail gate (bias input)
	VDDL     geometry.Point2D // left load source
	VDDR     geometry.Point2D // right load source
	VSS      geometry.Point2D // tail source

	Width, Height float64
}

// OTA draws a 5-transistor transconductor: NMOS tail at the bottom,
// NMOS differential pair above it, and a diode-connected PMOS mirror
// load in one shared NWell on top. Internal nodes are wired on Metal1;
// supplies and bias stay open for the macro.
func OTA(c *cell.Cell, rs tech.RuleSet, x, y float64, opt OTAOptions) (OTAPins, error) {
	sdExt := rs.ContactSize + 2*rs.ContEncActiv
	dpLen := sdExt + opt.DiffPairL + sdExt
	ldLen := sdExt + opt.LoadL + sdExt
	tailLen := sdExt + opt.TailL + sdExt
	wireW := rs.M1Width

	tailX := x + (dpLen*2+opt.DiffPairGap-tailLen)/2
	tail, _, err := primitive.MOS(c, rs, tailX, y, primitive.MOSParams{
		W: opt.TailW, L: opt.TailL, GateAbove: true,
	})
	if err != nil {
		return OTAPins{}, errors.Wrap(err, "ota tail")
	}

	dpY := y + opt.TailW + opt.TailGap
	dp := primitive.MOSParams{W: opt.DiffPairW, L: opt.DiffPairL, GateAbove: true}
	m1, _, err := primitive.MOS(c, rs, x, dpY, dp)
	if err != nil {
		return OTAPins{}, errors.Wrap(err, "ota pair")
	}
	m2, _, err := primitive.MOS(c, rs, x+dpLen+opt.DiffPairGap, dpY, dp)
	if err != nil {
		return OTAPins{}, errors.Wrap(err, "ota pair")
	}

	// One NWell spans both load devices.
	ldY := dpY + opt.DiffPairW + opt.LoadGap
	nw := rs.NWellEncActiv
	c.InsertUM(tech.NWell, x-nw, ldY-nw,
		x+dpLen+opt.DiffPairGap+ldLen+nw, ldY+opt.LoadW+nw)

	ld := primitive.MOSParams{W: opt.LoadW, L: opt.LoadL, Polarity: primitive.PMOS, SkipWell: true}
	m3, _, err := primitive.MOS(c, rs, x, ldY, ld)
	if err != nil {
		return OTAPins{}, errors.Wrap(err, "ota load")
	}
	m4, _, err := primitive.MOS(c, rs, x+dpLen+opt.DiffPairGap, ldY, ld)
	if err != nil {
		return OTAPins{}, errors.Wrap(err, "ota load")
	}

	// Sources of the pair down to the tail drain, then the common rung.
	c.InsertUM(tech.Metal1, m1.Source.X-wireW/2, tail.Drain.Y-wireW/2,
		m1.Source.X+wireW/2, m1.Source.Y+wireW/2)
	c.InsertUM(tech.Metal1, m2.Source.X-wireW/2, tail.Drain.Y-wireW/2,
		m2.Source.X+wireW/2, m2.Source.Y+wireW/2)
	c.InsertUM(tech.Metal1, m1.Source.X-wireW/2, tail.Drain.Y-wireW/2,
		m2.Source.X+wireW/2, tail.Drain.Y+wireW/2)

	// Drains up to the loads.
	c.InsertUM(tech.Metal1, m1.Drain.X-wireW/2, m1.Drain.Y-wireW/2,
		m1.Drain.X+wireW/2, m3.Drain.Y+wireW/2)
	c.InsertUM(tech.Metal1, m2.Drain.X-wireW/2, m2.Drain.Y-wireW/2,
		m2.Drain.X+wireW/2, m4.Drain.Y+wireW/2)

	// Mirror gates tied, reference side diode-connected.
	c.InsertUM(tech.Metal1, m3.Gate.X-wireW/2, m3.Gate.Y-wireW/2,
		m4.Gate.X+wireW/2, m3.Gate.Y+wireW/2)
	c.InsertUM(tech.Metal1, m3.Drain.X-wireW/2, m3.Gate.Y-wireW/2,
		m3.Drain.X+wireW/2, m3.Drain.Y+wireW/2)

	return OTAPins{
		InP:    m1.Gate,
		InN:    m2.Gate,
		Out:    m4.Drain,
		Tail:   tail.Gate,
		VDDL:   m3.Source,
		VDDR:   m4.Source,
		VSS:    tail.Source,
		Width:  dpLen*2 + opt.DiffPairGap,
		Height: ldY + opt.LoadW - y,
	}, nil
}
