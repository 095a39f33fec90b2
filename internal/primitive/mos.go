package primitive

import (
	"github.com/pkg/errors"

	"analog-macros/internal/cell"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// Polarity selects the MOS device type.
type Polarity int

const (
	NMOS Polarity = iota
	PMOS
)

func (p Polarity) String() string {
	if p == PMOS {
		return "pmos"
	}
	return "nmos"
}

// MOSParams sizes a single-finger MOS transistor.
type MOSParams struct {
	W        float64 // channel width, µm
	L        float64 // channel length, µm
	Polarity Polarity
	// SkipWell suppresses the per-device NWell for PMOS placed in a
	// shared well drawn by the caller.
	SkipWell bool
	// GateAbove moves the gate connection point to the top poly end
	// instead of the bottom one. The drawn geometry is identical.
	GateAbove bool
}

// TransistorPins are the connection points of a drawn transistor:
// gate poly end center, and source/drain contact centers.
type TransistorPins struct {
	Gate   geometry.Point2D
	Source geometry.Point2D
	Drain  geometry.Point2D
}

// MOS draws a transistor with the active-area origin at (x, y) and
// returns its pins and the active-area length. Source is the left
// diffusion, drain the right.
func MOS(c *cell.Cell, rs tech.RuleSet, x, y float64, p MOSParams) (TransistorPins, float64, error) {
	if p.W <= 0 || p.L <= 0 {
		return TransistorPins{}, 0, errors.Wrapf(ErrNonPositive,
			"%s W=%g L=%g", p.Polarity, p.W, p.L)
	}
	if p.L < rs.GatPolyWidth {
		return TransistorPins{}, 0, errors.Wrapf(ErrBelowMinimum,
			"%s gate length %g µm < %g µm", p.Polarity, p.L, rs.GatPolyWidth)
	}
	if p.W < rs.ActivWidth {
		return TransistorPins{}, 0, errors.Wrapf(ErrBelowMinimum,
			"%s width %g µm < Activ minimum %g µm", p.Polarity, p.W, rs.ActivWidth)
	}

	sdExt := rs.ContactSize + 2*rs.ContEncActiv
	actLen := sdExt + p.L + sdExt

	if p.Polarity == PMOS && !p.SkipWell {
		nw := rs.NWellEncActiv
		c.InsertUM(tech.NWell, x-nw, y-nw, x+actLen+nw, y+p.W+nw)
	}

	c.InsertUM(tech.Activ, x, y, x+actLen, y+p.W)

	implant := tech.NSD
	if p.Polarity == PMOS {
		implant = tech.PSD
	}
	enc := rs.ImplantEnc
	c.InsertUM(implant, x-enc, y-enc, x+actLen+enc, y+p.W+enc)

	gpX1 := x + sdExt
	c.InsertUM(tech.GatPoly, gpX1, y-rs.GatPolyExt, gpX1+p.L, y+p.W+rs.GatPolyExt)

	cy := y + p.W/2
	contactWithPad(c, rs, x+sdExt/2, cy)
	contactWithPad(c, rs, gpX1+p.L+sdExt/2, cy)

	gateY := y - rs.GatPolyExt
	if p.GateAbove {
		gateY = y + p.W + rs.GatPolyExt
	}
	return TransistorPins{
		Gate:   geometry.Point2D{X: gpX1 + p.L/2, Y: gateY},
		Source: geometry.Point2D{X: x + sdExt/2, Y: cy},
		Drain:  geometry.Point2D{X: gpX1 + p.L + sdExt/2, Y: cy},
	}, actLen, nil
}

// ActiveLength returns the active-area length of a transistor with
// gate length l: contacted diffusion on both sides of the channel.
func ActiveLength(rs tech.RuleSet, l float64) float64 {
	sdExt := rs.ContactSize + 2*rs.ContEncActiv
	return sdExt + l + sdExt
}
