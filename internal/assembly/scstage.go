package assembly

import (
	"github.com/pkg/errors"

	"analog-macros/internal/cell"
	"analog-macros/internal/primitive"
	"analog-macros/internal/tech"
)

// SCStage is one switched-capacitor resistor: a switching cap and the
// two transmission gates that charge and dump it on opposite clock
// phases.
type SCStage struct {
	Cap primitive.CapPlates
	SwA SwitchPins // phi1 side
	SwB SwitchPins // phi2 side
}

// SCResistor draws a switched-cap stage. The cap and the switch pair
// are placed independently; the floorplan keeps caps in the Metal5
// region and switches in the transistor row.
func SCResistor(c *cell.Cell, rs tech.RuleSet, capX, capY, capSide, swX, swY, swGap float64) (SCStage, error) {
	plates, err := primitive.MIMCap(c, rs, capX, capY, capSide, capSide, false)
	if err != nil {
		return SCStage{}, errors.Wrap(err, "sc cap")
	}
	swA, err := CMOSSwitch(c, rs, swX, swY)
	if err != nil {
		return SCStage{}, errors.Wrap(err, "sc switch")
	}
	swB, err := CMOSSwitch(c, rs, swX+swA.Width+swGap, swY)
	if err != nil {
		return SCStage{}, errors.Wrap(err, "sc switch")
	}
	return SCStage{Cap: plates, SwA: swA, SwB: swB}, nil
}
