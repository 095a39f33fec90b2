package assembly

import (
	"github.com/pkg/errors"

	"analog-macros/internal/cell"
	"analog-macros/internal/primitive"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// MirrorPins are the terminals of a two-device current mirror.
type MirrorPins struct {
	RefDrain  geometry.Point2D // diode-connected input (bias current in)
	MirDrain  geometry.Point2D // mirrored output
	RefGate   geometry.Point2D
	RefSource geometry.Point2D
	MirSource geometry.Point2D

	Width float64
}

// BiasMirror draws an NMOS current mirror: a diode-connected reference
// device and a mirror device with tied gates. Long gates keep the copy
// accurate.
func BiasMirror(c *cell.Cell, rs tech.RuleSet, x, y, w, l float64) (MirrorPins, error) {
	sdExt := rs.ContactSize + 2*rs.ContEncActiv
	actLen := sdExt + l + sdExt
	wireW := rs.M1Width
	const gap = 1.0

	p := primitive.MOSParams{W: w, L: l, GateAbove: true}
	ref, _, err := primitive.MOS(c, rs, x, y, p)
	if err != nil {
		return MirrorPins{}, errors.Wrap(err, "mirror reference")
	}
	mir, _, err := primitive.MOS(c, rs, x+actLen+gap, y, p)
	if err != nil {
		return MirrorPins{}, errors.Wrap(err, "mirror output")
	}

	// Diode connection: gate down to drain, then across to the gate bus.
	c.InsertUM(tech.Metal1,
		ref.Gate.X-wireW/2, min(ref.Gate.Y, ref.Drain.Y)-wireW/2,
		ref.Gate.X+wireW/2, max(ref.Gate.Y, ref.Drain.Y)+wireW/2)
	c.InsertUM(tech.Metal1,
		ref.Drain.X-wireW/2, ref.Gate.Y-wireW/2,
		ref.Gate.X+wireW/2, ref.Gate.Y+wireW/2)
	c.InsertUM(tech.Metal1,
		ref.Gate.X-wireW/2, ref.Gate.Y-wireW/2,
		mir.Gate.X+wireW/2, ref.Gate.Y+wireW/2)

	return MirrorPins{
		RefDrain:  ref.Drain,
		MirDrain:  mir.Drain,
		RefGate:   ref.Gate,
		RefSource: ref.Source,
		MirSource: mir.Source,
		Width:     2*actLen + gap,
	}, nil
}
