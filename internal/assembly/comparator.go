package assembly

import (
	"github.com/pkg/errors"

	"analog-macros/internal/cell"
	"analog-macros/internal/primitive"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// ComparatorPins are the terminals of a StrongARM latch.
type ComparatorPins struct {
	InP, InN   geometry.Point2D // input pair gates
	OutP, OutN geometry.Point2D // latch drains
	Clk        geometry.Point2D // tail gate
	BBox       geometry.Rect
}

// Comparator draws a StrongARM dynamic latch: clocked tail under a
// long-L input pair, cross-coupled PMOS and NMOS latch devices above,
// and a precharge PMOS pair on top. The input pair runs L=0.5 µm to
// keep offset down.
func Comparator(c *cell.Cell, rs tech.RuleSet, x, y float64) (ComparatorPins, error) {
	type placement struct {
		dx, dy float64
		w, l   float64
		p      primitive.Polarity
	}
	place := func(pl placement) (primitive.TransistorPins, error) {
		pins, _, err := primitive.MOS(c, rs, x+pl.dx, y+pl.dy, primitive.MOSParams{
			W: pl.w, L: pl.l, Polarity: pl.p, GateAbove: pl.p == primitive.NMOS,
		})
		return pins, err
	}

	inp, err := place(placement{0, 0, 2.0, 0.50, primitive.NMOS})
	if err != nil {
		return ComparatorPins{}, errors.Wrap(err, "comparator input")
	}
	inn, err := place(placement{5.0, 0, 2.0, 0.50, primitive.NMOS})
	if err != nil {
		return ComparatorPins{}, errors.Wrap(err, "comparator input")
	}
	tail, err := place(placement{2.0, -4.0, 4.0, 0.13, primitive.NMOS})
	if err != nil {
		return ComparatorPins{}, errors.Wrap(err, "comparator tail")
	}

	if _, err := place(placement{0, 5.0, 2.0, 0.13, primitive.PMOS}); err != nil {
		return ComparatorPins{}, errors.Wrap(err, "comparator latch pmos")
	}
	if _, err := place(placement{5.0, 5.0, 2.0, 0.13, primitive.PMOS}); err != nil {
		return ComparatorPins{}, errors.Wrap(err, "comparator latch pmos")
	}

	n1, err := place(placement{0, 10.0, 1.0, 0.13, primitive.NMOS})
	if err != nil {
		return ComparatorPins{}, errors.Wrap(err, "comparator latch nmos")
	}
	n2, err := place(placement{5.0, 10.0, 1.0, 0.13, primitive.NMOS})
	if err != nil {
		return ComparatorPins{}, errors.Wrap(err, "comparator latch nmos")
	}

	if _, err := place(placement{1.0, 13.0, 1.0, 0.13, primitive.PMOS}); err != nil {
		return ComparatorPins{}, errors.Wrap(err, "comparator reset")
	}
	if _, err := place(placement{6.0, 13.0, 1.0, 0.13, primitive.PMOS}); err != nil {
		return ComparatorPins{}, errors.Wrap(err, "comparator reset")
	}

	return ComparatorPins{
		InP:  inp.Gate,
		InN:  inn.Gate,
		OutP: n1.Drain,
		OutN: n2.Drain,
		Clk:  tail.Gate,
		BBox: geometry.RectUM(x-0.5, y-5.0, x+15.0, y+20.0),
	}, nil
}
