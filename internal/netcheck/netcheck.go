// Package netcheck verifies R-2R ladder behavior electrically: it
// builds the nodal conductance matrix of an n-bit ladder and solves
// for the output voltage per digital code. The generators size the
// drawn resistors from the same unit value, so a ladder that checks
// out here matches the layout's intent.
package netcheck

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LadderTransfer solves the unloaded n-bit R-2R ladder for one input
// code. Junction 0 carries the 2R terminator, junction bits-1 is the
// output. Each junction sees a 2R shunt switched to vref or ground by
// its bit and unit resistors to its neighbors.
func LadderTransfer(bits int, r, vref float64, code int) (float64, error) {
	if bits <= 0 {
		return 0, errors.Errorf("netcheck: bits must be positive, got %d", bits)
	}
	if r <= 0 {
		return 0, errors.Errorf("netcheck: resistance must be positive, got %g", r)
	}
	if code < 0 || code >= 1<<bits {
		return 0, errors.Errorf("netcheck: code %d out of range for %d bits", code, bits)
	}

	gUnit := 1.0 / r
	gShunt := 1.0 / (2 * r)

	g := mat.NewDense(bits, bits, nil)
	cur := mat.NewVecDense(bits, nil)

	// Terminator at the LSB end.
	g.Set(0, 0, gShunt)

	for j := 0; j < bits; j++ {
		g.Set(j, j, g.At(j, j)+gShunt)
		if code>>j&1 == 1 {
			cur.SetVec(j, vref*gShunt)
		}
		if j+1 < bits {
			g.Set(j, j, g.At(j, j)+gUnit)
			g.Set(j+1, j+1, g.At(j+1, j+1)+gUnit)
			g.Set(j, j+1, g.At(j, j+1)-gUnit)
			g.Set(j+1, j, g.At(j+1, j)-gUnit)
		}
	}

	var v mat.VecDense
	if err := v.SolveVec(g, cur); err != nil {
		return 0, errors.Wrap(err, "netcheck: solve ladder")
	}
	return v.AtVec(bits - 1), nil
}

// Ideal returns the exact transfer of a perfect ladder.
func Ideal(bits int, vref float64, code int) float64 {
	return vref * float64(code) / float64(int(1)<<bits)
}

// VerifyR2R sweeps every code and checks the solved output against the
// ideal transfer within tol, including monotonicity.
func VerifyR2R(bits int, r, vref, tol float64) error {
	prev := math.Inf(-1)
	for code := 0; code < 1<<bits; code++ {
		got, err := LadderTransfer(bits, r, vref, code)
		if err != nil {
			return err
		}
		want := Ideal(bits, vref, code)
		if math.Abs(got-want) > tol {
			return errors.Errorf("netcheck: code %d: vout %.9f, want %.9f", code, got, want)
		}
		if got <= prev {
			return errors.Errorf("netcheck: non-monotonic at code %d", code)
		}
		prev = got
	}
	return nil
}
