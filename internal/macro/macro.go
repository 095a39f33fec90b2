// Package macro builds the finished hard macros: each driver places
// and routes assembly blocks into a flat cell with power rails, pin
// rectangles and labels, and the PR boundary.
package macro

import (
	"github.com/pkg/errors"

	"analog-macros/internal/cell"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// Macro describes one generatable hard macro.
type Macro struct {
	Name   string
	Width  float64 // µm
	Height float64 // µm
	Build  func(tech.RuleSet) (*cell.Cell, error)
	// Verify, when set, runs an electrical self-check of the network
	// the macro draws.
	Verify func() error
}

// Catalog returns the available macros in generation order.
func Catalog() []Macro {
	return []Macro{
		{Name: "r2r_dac_8bit", Width: 45, Height: 60, Build: R2RDAC, Verify: verifyR2RTransfer},
		{Name: "bias_dac_2ch", Width: 35, Height: 40, Build: BiasDAC, Verify: verifyBiasTransfer},
		{Name: "svf_2nd", Width: 70, Height: 85, Build: SVF},
		{Name: "sc_svf", Width: 66, Height: 72, Build: SCSVF},
		{Name: "sar_adc_8bit", Width: 42, Height: 45, Build: SARADC},
	}
}

// ByName looks a macro up in the catalog.
func ByName(name string) (Macro, error) {
	for _, m := range Catalog() {
		if m.Name == name {
			return m, nil
		}
	}
	return Macro{}, errors.Errorf("unknown macro %q", name)
}

// All builds every macro in catalog order.
func All(rs tech.RuleSet) ([]*cell.Cell, error) {
	var cells []*cell.Cell
	for _, m := range Catalog() {
		c, err := m.Build(rs)
		if err != nil {
			return nil, errors.Wrapf(err, "build %s", m.Name)
		}
		cells = append(cells, c)
	}
	return cells, nil
}

// powerRails draws the Metal3 VDD (top) and VSS (bottom) rails across
// the full macro width and labels them.
func powerRails(c *cell.Cell, w, h float64) {
	c.InsertUM(tech.Metal3, 0.0, h-2.0, w, h)
	c.InsertUM(tech.Metal3, 0.0, 0.0, w, 2.0)
	c.AddPin(tech.Metal3Pin, tech.Metal3Label, geometry.RectUM(0.0, h-2.0, w, h), "vdd")
	c.AddPin(tech.Metal3Pin, tech.Metal3Label, geometry.RectUM(0.0, 0.0, w, 2.0), "vss")
}
