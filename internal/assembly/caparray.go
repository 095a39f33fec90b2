package assembly

import (
	"math"

	"github.com/pkg/errors"

	"analog-macros/internal/cell"
	"analog-macros/internal/primitive"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// QCap is one element of the binary-weighted Q tuning bank.
type QCap struct {
	Plates primitive.CapPlates
	X      float64
	W, H   float64
}

// QCapBank is the drawn 4-bit damping cap array.
type QCapBank struct {
	Caps       [4]QCap
	TotalWidth float64
}

// QCapArray draws the 4-bit binary-weighted damping bank as four MIM
// caps side by side: 1×, 2×, 4× and ~8× the 73.5 fF unit. The bottom
// plates stay on Metal5 only; the switched-cap filter never needs the
// top-metal plate.
func QCapArray(c *cell.Cell, rs tech.RuleSet, x, y float64) (QCapBank, error) {
	dims := [4][2]float64{
		{7.0, 7.0},
		{7.0, 14.0},
		{14.0, 14.0},
		{20.0, 20.0},
	}
	gap := rs.MimSpace + 2*rs.MimEncM5

	var bank QCapBank
	cx := x
	for i, d := range dims {
		plates, err := primitive.MIMCap(c, rs, cx, y, d[0], d[1], false)
		if err != nil {
			return QCapBank{}, errors.Wrapf(err, "q cap bit %d", i)
		}
		bank.Caps[i] = QCap{Plates: plates, X: cx, W: d[0], H: d[1]}
		cx += d[0] + gap
	}
	bank.TotalWidth = bank.Caps[3].X + dims[3][0] - x
	return bank, nil
}

// WeightCap is one merged plate of a capacitive DAC.
type WeightCap struct {
	Bit    int
	Units  int
	W, H   float64
	Center geometry.Point2D
}

// CapDAC draws the merged binary-weighted DAC plates of a SAR
// converter: bits+1 caps (a dummy LSB plus 2^(bit-1) weights), each
// a single near-square plate, stacked in a column that wraps 12 µm to
// the right when the next plate would pass maxY. Merging the unit caps
// per bit keeps the array inside the macro at the cost of edge
// matching.
func CapDAC(c *cell.Cell, rs tech.RuleSet, x, y float64, bits int, unitFF, maxY float64) ([]WeightCap, error) {
	if bits <= 0 || unitFF <= 0 {
		return nil, errors.Wrapf(primitive.ErrNonPositive, "cap dac bits=%d unit=%g fF", bits, unitFF)
	}
	unitArea := unitFF / rs.MimCapDensity
	margin := rs.MimSpace + 2*rs.MimEncM5

	caps := make([]WeightCap, 0, bits+1)
	cx, cy := x, y
	for bit := 0; bit <= bits; bit++ {
		units := 1
		if bit > 0 {
			units = 1 << (bit - 1)
		}
		area := float64(units) * unitArea
		w := math.Max(rs.MimMinSize, math.Sqrt(area))
		h := math.Max(rs.MimMinSize, area/w)

		if cy+h+margin > maxY {
			cx += 12.0
			cy = y
		}

		if _, err := primitive.MIMCap(c, rs, cx, cy, w, h, true); err != nil {
			return nil, errors.Wrapf(err, "dac cap bit %d", bit)
		}
		caps = append(caps, WeightCap{
			Bit: bit, Units: units, W: w, H: h,
			Center: geometry.Point2D{X: cx + w/2, Y: cy + h/2},
		})
		cy += h + margin + 1.0
	}
	return caps, nil
}
