package primitive

import "errors"

// Builder parameter errors. Builders validate before drawing anything,
// so a failed call leaves the cell untouched.
var (
	// ErrNonPositive reports a parameter that must be strictly
	// positive, such as a zero target resistance.
	ErrNonPositive = errors.New("primitive: parameter must be positive")

	// ErrBelowMinimum reports a dimension below the process minimum
	// for its layer.
	ErrBelowMinimum = errors.New("primitive: dimension below process minimum")
)
