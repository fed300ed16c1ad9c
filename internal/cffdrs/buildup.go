package cffdrs

import "math"

// NoBUI is the wire-level sentinel for "skip the buildup effect". It only
// appears at the edges (JSON, CSV); inside the engine use SkipBuildup.
const NoBUI = -1

// Buildup selects whether the buildup effect is applied to a spread rate.
// The zero value skips it.
type Buildup struct {
	bui   float64
	apply bool
}

// SkipBuildup leaves the spread rate unscaled. Mixedwood sub-calls use it so
// the buildup effect is applied once, to the blended rate.
var SkipBuildup = Buildup{}

// ApplyBUI applies the buildup effect for the given Buildup Index.
func ApplyBUI(bui float64) Buildup {
	return Buildup{bui: bui, apply: true}
}

// BuildupFromBUI converts a raw BUI value to a Buildup, mapping NoBUI to
// SkipBuildup.
func BuildupFromBUI(bui float64) Buildup {
	if bui == NoBUI {
		return SkipBuildup
	}
	return ApplyBUI(bui)
}

// BUI returns the Buildup Index and whether the buildup effect is applied.
func (b Buildup) BUI() (float64, bool) {
	return b.bui, b.apply
}

// BE returns the buildup effect multiplier for the fuel type (Eq. 54).
// SkipBuildup always yields 1.
func BE(ft FuelType, b Buildup) (float64, error) {
	p, err := paramsFor(ft)
	if err != nil {
		return 0, err
	}
	if !b.apply || b.bui <= 0 || p.buiO <= 0 {
		return 1, nil
	}
	return math.Exp(50 * math.Log(p.q) * (1/b.bui - 1/p.buiO)), nil
}
