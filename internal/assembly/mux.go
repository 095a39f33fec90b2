package assembly

import (
	"github.com/pkg/errors"

	"analog-macros/internal/cell"
	"analog-macros/internal/primitive"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// Mux is a drawn 4:1 pass-gate mux. Inputs and gates are looked up by
// the names the caller assigned, bottom switch first.
type Mux struct {
	Out    geometry.Point2D // common drain bus
	Height float64

	inputs map[string]geometry.Point2D
	gates  map[string]geometry.Point2D
}

// Input returns the source pin of the named switch.
func (m *Mux) Input(name string) (geometry.Point2D, error) {
	p, ok := m.inputs[name]
	if !ok {
		return geometry.Point2D{}, errors.Wrapf(ErrMissingConnection, "mux input %q", name)
	}
	return p, nil
}

// Gate returns the select gate of the named switch.
func (m *Mux) Gate(name string) (geometry.Point2D, error) {
	p, ok := m.gates[name]
	if !ok {
		return geometry.Point2D{}, errors.Wrapf(ErrMissingConnection, "mux gate %q", name)
	}
	return p, nil
}

// AnalogMux draws four stacked NMOS pass gates with their drains bused
// on Metal1. names assigns the inputs bottom to top; the select decode
// is up to the caller.
func AnalogMux(c *cell.Cell, rs tech.RuleSet, x, y float64, names [4]string) (*Mux, error) {
	const (
		w = 2.0
		l = 0.13
	)
	pitch := w + 1.5
	wireW := rs.M1Width

	m := &Mux{
		Height: 4 * pitch,
		inputs: make(map[string]geometry.Point2D, 4),
		gates:  make(map[string]geometry.Point2D, 4),
	}
	var first, last primitive.TransistorPins
	for i, name := range names {
		sw, _, err := primitive.MOS(c, rs, x, y+float64(i)*pitch, primitive.MOSParams{
			W: w, L: l, GateAbove: true,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "mux switch %q", name)
		}
		if i == 0 {
			first = sw
		}
		last = sw
		m.inputs[name] = sw.Source
		m.gates[name] = sw.Gate
	}

	c.InsertUM(tech.Metal1,
		first.Drain.X-wireW/2, first.Drain.Y-wireW/2,
		first.Drain.X+wireW/2, last.Drain.Y+wireW/2)
	m.Out = first.Drain
	return m, nil
}
