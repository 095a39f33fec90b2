// Package gds reads and writes a subset of the GDSII stream format:
// flat single-structure libraries of BOUNDARY rectangles and TEXT
// labels, which is everything the macro generators produce. Writing is
// deterministic; timestamps are zeroed so identical cells produce
// identical files.
package gds

import "math"

// Record types, (type << 8) | datatype-code.
const (
	recHeader       = 0x0002
	recBgnLib       = 0x0102
	recLibName      = 0x0206
	recUnits        = 0x0305
	recEndLib       = 0x0400
	recBgnStr       = 0x0502
	recStrName      = 0x0606
	recEndStr       = 0x0700
	recBoundary     = 0x0800
	recText         = 0x0C00
	recLayer        = 0x0D02
	recDatatype     = 0x0E02
	recXY           = 0x1003
	recEndEl        = 0x1100
	recTextType     = 0x1602
	recPresentation = 0x1701
	recString       = 0x1906
)

const gdsVersion = 600

// encodeReal8 converts a float64 to the 8-byte GDSII excess-64
// base-16 real: sign bit, 7-bit exponent, 56-bit mantissa in [1/16, 1).
func encodeReal8(f float64) uint64 {
	if f == 0 {
		return 0
	}
	var sign uint64
	if f < 0 {
		sign = 1
		f = -f
	}
	exp := int64(64)
	for f >= 1 {
		f /= 16
		exp++
	}
	for f < 1.0/16.0 {
		f *= 16
		exp--
	}
	mant := uint64(f * (1 << 56))
	if mant >= 1<<56 {
		mant = 1<<56 - 1
	}
	return sign<<63 | uint64(exp)<<56 | mant
}

// decodeReal8 is the inverse of encodeReal8.
func decodeReal8(bits uint64) float64 {
	if bits == 0 {
		return 0
	}
	sign := 1.0
	if bits>>63 != 0 {
		sign = -1
	}
	exp := int64(bits>>56) & 0x7F
	mant := float64(bits&(1<<56-1)) / (1 << 56)
	return sign * mant * math.Pow(16, float64(exp-64))
}
