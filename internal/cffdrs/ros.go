package cffdrs

import "math"

// MinRateOfSpread is the floor applied to every computed rate of spread.
// Downstream consumers must never see a zero or negative spread rate.
const MinRateOfSpread = 0.000001

// SpreadInputs are the inputs to ROS. Optional fuel parameters are pointers;
// a nil value means "not supplied" and is an error for fuels that need it.
type SpreadInputs struct {
	ISI     float64
	Buildup Buildup
	FMC     *float64 // foliar moisture content (%), required for C6
	SFC     *float64 // surface fuel consumption (kg/m²), required for C6
	PC      *float64 // percent conifer, required for M1/M2
	PDF     *float64 // percent dead fir, required for M3/M4
	CC      *float64 // percent curing, required for O1A/O1B
	CBH     *float64 // crown base height (m), C6 only; nil or <= 0 takes the fuel default
}

func (in SpreadInputs) withoutBuildup() SpreadInputs {
	in.Buildup = SkipBuildup
	return in
}

// ROS returns the head fire rate of spread (m/min) for the fuel type.
func ROS(ft FuelType, in SpreadInputs) (float64, error) {
	if ft == C6 {
		c6, err := c6Inputs(ft, in)
		if err != nil {
			return 0, err
		}
		r, err := C6Calc(ft, c6, C6RateOfSpread)
		if err != nil {
			return 0, err
		}
		return floorROS(r.Value), nil
	}

	rsi, err := initialSpread(ft, in)
	if err != nil {
		return 0, err
	}
	be, err := BE(ft, in.Buildup)
	if err != nil {
		return 0, err
	}
	return floorROS(be * rsi), nil
}

// c6Inputs checks the stand parameters the plantation model cannot run
// without.
func c6Inputs(ft FuelType, in SpreadInputs) (C6Inputs, error) {
	if in.FMC == nil {
		return C6Inputs{}, missing(ft, "FMC")
	}
	if in.SFC == nil {
		return C6Inputs{}, missing(ft, "SFC")
	}
	cbh, err := DefaultCBH(ft)
	if err != nil {
		return C6Inputs{}, err
	}
	if in.CBH != nil && *in.CBH > 0 {
		cbh = *in.CBH
	}
	return C6Inputs{ISI: in.ISI, Buildup: in.Buildup, FMC: *in.FMC, SFC: *in.SFC, CBH: cbh}, nil
}

// initialSpread returns the fuel's RSI before the buildup effect.
func initialSpread(ft FuelType, in SpreadInputs) (float64, error) {
	switch ft {
	case C1, C2, C3, C4, C5, C7, D1, S1, S2, S3:
		return rsiFor(ft, in.ISI), nil

	case M1, M2:
		if in.PC == nil {
			return 0, missing(ft, "PC")
		}
		c2, d1, err := mixedwoodComponents(in)
		if err != nil {
			return 0, err
		}
		pc := *in.PC
		deciduous := (100 - pc) / 100 * d1
		if ft == M2 {
			// Eq. 27/28: green mixedwood D1 component spreads at 20%.
			deciduous *= 0.2
		}
		return pc/100*c2 + deciduous, nil

	case M3, M4:
		if in.PDF == nil {
			return 0, missing(ft, "PDF")
		}
		d1, err := ROS(D1, in.withoutBuildup())
		if err != nil {
			return 0, err
		}
		pdf := *in.PDF / 100
		deciduous := (1 - pdf) * d1
		if ft == M4 {
			deciduous *= 0.2
		}
		return pdf*rsiFor(ft, in.ISI) + deciduous, nil

	case O1A, O1B:
		if in.CC == nil {
			return 0, missing(ft, "CC")
		}
		return rsiFor(ft, in.ISI) * curingFactor(*in.CC), nil

	default:
		return 0, &UnsupportedFuelTypeError{Value: ft.String()}
	}
}

// mixedwoodComponents returns the unscaled C2 and D1 spread rates.
func mixedwoodComponents(in SpreadInputs) (c2, d1 float64, err error) {
	sub := in.withoutBuildup()
	if c2, err = ROS(C2, sub); err != nil {
		return 0, 0, err
	}
	if d1, err = ROS(D1, sub); err != nil {
		return 0, 0, err
	}
	return c2, d1, nil
}

// rsiFor evaluates Eq. 26 with the fuel's table row. ft must be valid.
func rsiFor(ft FuelType, isi float64) float64 {
	p := fuelTable[ft]
	return p.a * math.Pow(1-math.Exp(-p.b*isi), p.c0)
}

// curingFactor is the grass curing function (Eq. 35b, Wotton et al. 2009).
// Both branches meet at 58.8% cured.
func curingFactor(cc float64) float64 {
	if cc < 58.8 {
		return 0.005 * (math.Exp(0.061*cc) - 1)
	}
	return 0.176 + 0.02*(cc-58.8)
}

func floorROS(ros float64) float64 {
	if ros <= 0 || math.IsNaN(ros) {
		return MinRateOfSpread
	}
	return ros
}
