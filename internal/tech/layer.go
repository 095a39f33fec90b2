// Package tech describes the target process: GDS layer numbers, design
// rule values, and derived electrical constants for the IHP SG13G2
// 130nm open PDK.
package tech

import "fmt"

// Layer identifies a GDS layer as a (number, datatype) pair.
type Layer struct {
	Number   uint16 `json:"number"`
	Datatype uint16 `json:"datatype"`
}

func (l Layer) String() string {
	return fmt.Sprintf("%d/%d", l.Number, l.Datatype)
}

// Drawing layers.
var (
	Activ     = Layer{1, 0}
	GatPoly   = Layer{5, 0}
	Cont      = Layer{6, 0}
	NSD       = Layer{7, 0}
	Metal1    = Layer{8, 0}
	Metal2    = Layer{10, 0}
	PSD       = Layer{14, 0}
	Via1      = Layer{19, 0}
	SalBlock  = Layer{28, 0}
	Via2      = Layer{29, 0}
	Metal3    = Layer{30, 0}
	NWell     = Layer{31, 0}
	Cmim      = Layer{36, 0}
	PWell     = Layer{46, 0}
	Metal5    = Layer{67, 0}
	TopMetal1 = Layer{126, 0}
)

// Pin and label layers. Pins carry the physical pin rectangle, labels
// carry the text record.
var (
	Metal1Pin   = Layer{8, 2}
	Metal1Label = Layer{8, 25}
	Metal2Pin   = Layer{10, 2}
	Metal2Label = Layer{10, 25}
	Metal3Pin   = Layer{30, 2}
	Metal3Label = Layer{30, 25}
)

// Boundary is the PR boundary layer of the PDK.
var Boundary = Layer{189, 0}
