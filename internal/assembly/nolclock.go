package assembly

import (
	"github.com/pkg/errors"

	"analog-macros/internal/cell"
	"analog-macros/internal/primitive"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// ClockPins are the terminals of a non-overlap clock generator, plus
// the per-device supply points the macro ties to the rails.
type ClockPins struct {
	ClkIn geometry.Point2D
	Phi1  geometry.Point2D
	Phi2  geometry.Point2D

	NMOSSources [4]geometry.Point2D
	PMOSSources [4]geometry.Point2D

	Width, Height float64
}

// NonOverlapClock draws the two-phase clock generator as a row of four
// CMOS pairs (cross-coupled NANDs plus inverters) with one shared
// NWell. Each pair is wired drain-to-drain on Metal1.
func NonOverlapClock(c *cell.Cell, rs tech.RuleSet, x, y float64) (ClockPins, error) {
	const (
		nW = 1.0
		nL = 0.13
		pW = 2.0
		pL = 0.13
	)
	sdExt := rs.ContactSize + 2*rs.ContEncActiv
	wireW := rs.M1Width
	// The extra 1.0 keeps Metal1 clearance between gate via pads and
	// the neighbour's drain wires.
	pitch := (sdExt + nL + sdExt) + 1.0

	var nmos [4]primitive.TransistorPins
	for i := range nmos {
		mn, _, err := primitive.MOS(c, rs, x+float64(i)*pitch, y, primitive.MOSParams{
			W: nW, L: nL, GateAbove: true,
		})
		if err != nil {
			return ClockPins{}, errors.Wrapf(err, "clock nmos %d", i)
		}
		nmos[i] = mn
	}

	pmosY := y + nW + 2.0
	nw := rs.NWellEncActiv
	c.InsertUM(tech.NWell, x-nw, pmosY-nw, x+4*pitch+nw, pmosY+pW+nw)

	var pmos [4]primitive.TransistorPins
	for i := range pmos {
		mp, _, err := primitive.MOS(c, rs, x+float64(i)*pitch, pmosY, primitive.MOSParams{
			W: pW, L: pL, Polarity: primitive.PMOS, SkipWell: true,
		})
		if err != nil {
			return ClockPins{}, errors.Wrapf(err, "clock pmos %d", i)
		}
		pmos[i] = mp
	}

	for i := range nmos {
		c.InsertUM(tech.Metal1,
			nmos[i].Drain.X-wireW/2, nmos[i].Drain.Y-wireW/2,
			nmos[i].Drain.X+wireW/2, pmos[i].Drain.Y+wireW/2)
	}

	pins := ClockPins{
		ClkIn:  nmos[0].Gate,
		Phi1:   nmos[1].Drain,
		Phi2:   nmos[3].Drain,
		Width:  4 * pitch,
		Height: pmosY + pW - y,
	}
	for i := range nmos {
		pins.NMOSSources[i] = nmos[i].Source
		pins.PMOSSources[i] = pmos[i].Source
	}
	return pins, nil
}
