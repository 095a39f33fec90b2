package tech

// RuleKind selects the geometric check a Rule describes.
type RuleKind int

const (
	// Width checks the minimum interior extent of every shape on a layer.
	Width RuleKind = iota
	// Space checks the minimum distance between disjoint shapes on a layer.
	Space
	// Enclosure checks that an inner layer is covered by an outer layer
	// with a minimum margin on every side.
	Enclosure
)

func (k RuleKind) String() string {
	switch k {
	case Width:
		return "width"
	case Space:
		return "space"
	case Enclosure:
		return "enclosure"
	default:
		return "unknown"
	}
}

// Rule is a single design rule. Width and Space rules use Layer; an
// Enclosure rule relates Inner to Outer. Value is in µm.
type Rule struct {
	Name  string
	Desc  string
	Kind  RuleKind
	Layer Layer // width/space
	Inner Layer // enclosure
	Outer Layer // enclosure
	Value float64
}

// RuleSet bundles the checkable rules of a process together with the
// drawing constants the generators need. Callers pass a RuleSet value
// explicitly; there is no package-level active process.
type RuleSet struct {
	Name  string
	Rules []Rule

	// Contact. Enclosure values carry a +0.01 µm margin over the DRC
	// minimum so generated shapes never sit exactly on the limit.
	ContactSize    float64
	ContactSpace   float64
	ContEncActiv   float64
	ContEncGatPoly float64
	ContEncM1      float64

	// Metal stack.
	M1Width float64
	M1Space float64
	M2Width float64
	M2Space float64

	Via1Size  float64
	Via1Space float64
	Via1EncM1 float64
	Via1EncM2 float64

	Via2Size  float64
	Via2Space float64
	Via2EncM2 float64
	Via2EncM3 float64

	// Poly and diffusion.
	GatPolyWidth float64
	GatPolySpace float64
	GatPolyExt   float64
	ActivWidth   float64
	ActivSpace   float64
	ImplantEnc   float64

	// Wells.
	NWellWidth    float64
	NWellSpace    float64
	NWellEncActiv float64

	// Silicide block (poly resistors).
	SalEncGatPoly float64
	SalSpaceCont  float64
	SalMinLen     float64

	// MIM capacitor.
	MimMinSize float64
	MimSpace   float64
	MimEncM5   float64

	// Electrical constants.
	RppdSheetR    float64 // Ω/sq, salicide-blocked p+ poly
	RhighSheetR   float64 // Ω/sq, high-ohmic poly
	MimCapDensity float64 // fF/µm²
}

// SG13G2 returns the rule set for the IHP SG13G2 130nm process. Rule
// names and values follow the PDK DRC rule decks.
func SG13G2() RuleSet {
	return RuleSet{
		Name: "sg13g2",
		Rules: []Rule{
			{Name: "Act.a", Desc: "Min Activ width", Kind: Width, Layer: Activ, Value: 0.15},
			{Name: "Act.b", Desc: "Min Activ spacing", Kind: Space, Layer: Activ, Value: 0.21},
			{Name: "Gat.a", Desc: "Min GatPoly width", Kind: Width, Layer: GatPoly, Value: 0.13},
			{Name: "Gat.b", Desc: "Min GatPoly spacing", Kind: Space, Layer: GatPoly, Value: 0.18},
			{Name: "Cnt.a", Desc: "Min Cont size (width)", Kind: Width, Layer: Cont, Value: 0.16},
			{Name: "Cnt.b", Desc: "Min Cont spacing", Kind: Space, Layer: Cont, Value: 0.18},
			{Name: "M1.a", Desc: "Min Metal1 width", Kind: Width, Layer: Metal1, Value: 0.16},
			{Name: "M1.b", Desc: "Min Metal1 spacing", Kind: Space, Layer: Metal1, Value: 0.18},
			{Name: "M2.a", Desc: "Min Metal2 width", Kind: Width, Layer: Metal2, Value: 0.20},
			{Name: "M2.b", Desc: "Min Metal2 spacing", Kind: Space, Layer: Metal2, Value: 0.21},
			{Name: "M3.a", Desc: "Min Metal3 width", Kind: Width, Layer: Metal3, Value: 0.20},
			{Name: "M3.b", Desc: "Min Metal3 spacing", Kind: Space, Layer: Metal3, Value: 0.21},
			{Name: "V1.a", Desc: "Min Via1 size (width)", Kind: Width, Layer: Via1, Value: 0.19},
			{Name: "V1.b", Desc: "Min Via1 spacing", Kind: Space, Layer: Via1, Value: 0.22},
			{Name: "Sal.a", Desc: "Min SalBlock width", Kind: Width, Layer: SalBlock, Value: 0.50},
			{Name: "NW.a", Desc: "Min NWell width", Kind: Width, Layer: NWell, Value: 0.62},
			{Name: "NW.b", Desc: "Min NWell spacing", Kind: Space, Layer: NWell, Value: 0.62},
			{Name: "M5.a", Desc: "Min Metal5 width", Kind: Width, Layer: Metal5, Value: 0.20},
			{Name: "M5.b", Desc: "Min Metal5 spacing", Kind: Space, Layer: Metal5, Value: 0.21},
			{Name: "MIM.a", Desc: "Min Cmim size", Kind: Width, Layer: Cmim, Value: 1.14},
			{Name: "MIM.b", Desc: "Min Cmim spacing", Kind: Space, Layer: Cmim, Value: 0.60},
			{Name: "TM1.a", Desc: "Min TopMetal1 width", Kind: Width, Layer: TopMetal1, Value: 0.20},
			{Name: "TM1.b", Desc: "Min TopMetal1 spacing", Kind: Space, Layer: TopMetal1, Value: 0.21},

			{Name: "Cnt.c", Desc: "Min Activ enclosure of Cont", Kind: Enclosure, Inner: Cont, Outer: Activ, Value: 0.07},
			{Name: "Cnt.d", Desc: "Min GatPoly enclosure of Cont", Kind: Enclosure, Inner: Cont, Outer: GatPoly, Value: 0.07},
			{Name: "V1.c", Desc: "Min Metal1 enclosure of Via1", Kind: Enclosure, Inner: Via1, Outer: Metal1, Value: 0.01},
			{Name: "M2.c", Desc: "Min Metal2 enclosure of Via1", Kind: Enclosure, Inner: Via1, Outer: Metal2, Value: 0.005},
			{Name: "NW.c", Desc: "Min NWell enclosure of Activ(pSD)", Kind: Enclosure, Inner: Activ, Outer: NWell, Value: 0.31},
			{Name: "MIM.c", Desc: "Min Metal5 enclosure of Cmim", Kind: Enclosure, Inner: Cmim, Outer: Metal5, Value: 0.60},
		},

		ContactSize:    0.16,
		ContactSpace:   0.18,
		ContEncActiv:   0.08,
		ContEncGatPoly: 0.08,
		ContEncM1:      0.04,

		M1Width: 0.16,
		M1Space: 0.18,
		M2Width: 0.20,
		M2Space: 0.21,

		Via1Size:  0.19,
		Via1Space: 0.22,
		Via1EncM1: 0.01,
		Via1EncM2: 0.005,

		Via2Size:  0.19,
		Via2Space: 0.22,
		Via2EncM2: 0.005,
		Via2EncM3: 0.005,

		GatPolyWidth: 0.13,
		GatPolySpace: 0.18,
		GatPolyExt:   0.18,
		ActivWidth:   0.15,
		ActivSpace:   0.21,
		ImplantEnc:   0.1,

		NWellWidth:    0.62,
		NWellSpace:    0.62,
		NWellEncActiv: 0.31,

		SalEncGatPoly: 0.20,
		SalSpaceCont:  0.20,
		SalMinLen:     0.50,

		MimMinSize: 1.14,
		MimSpace:   0.60,
		MimEncM5:   0.60,

		RppdSheetR:    315.0,
		RhighSheetR:   1300.0,
		MimCapDensity: 1.5,
	}
}
