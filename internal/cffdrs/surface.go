package cffdrs

import "math"

const minConsumption = 0.000001

// SurfaceInputs are the inputs to SFC.
type SurfaceInputs struct {
	FFMC float64
	BUI  float64
	PC   *float64 // percent conifer, required for M1/M2
	GFL  *float64 // grass fuel load (kg/m²), required for O1A/O1B
}

// SFC returns the surface fuel consumption (kg/m²) for the fuel type
// (Eq. 9–25). Non-positive results are floored at 0.000001 so callers can
// divide by it.
func SFC(ft FuelType, in SurfaceInputs) (float64, error) {
	var sfc float64
	switch ft {
	case C1:
		// Eq. 9a/9b (revised, Wotton et al. 2009)
		if in.FFMC > 84 {
			sfc = 0.75 + 0.75*math.Sqrt(1-math.Exp(-0.23*(in.FFMC-84)))
		} else {
			sfc = 0.75 - 0.75*math.Sqrt(1-math.Exp(-0.23*(84-in.FFMC)))
		}
	case C2, M3, M4:
		sfc = 5 * (1 - math.Exp(-0.0115*in.BUI))
	case C3, C4:
		sfc = 5 * math.Pow(1-math.Exp(-0.0164*in.BUI), 2.24)
	case C5, C6:
		sfc = 5 * math.Pow(1-math.Exp(-0.0149*in.BUI), 2.48)
	case C7:
		var ffc float64
		if in.FFMC > 70 {
			ffc = 2 * (1 - math.Exp(-0.104*(in.FFMC-70)))
		}
		sfc = ffc + 1.5*(1-math.Exp(-0.0201*in.BUI))
	case D1:
		sfc = 1.5 * (1 - math.Exp(-0.0183*in.BUI))
	case M1, M2:
		if in.PC == nil {
			return 0, missing(ft, "PC")
		}
		pc := *in.PC
		sfc = pc/100*5*(1-math.Exp(-0.0115*in.BUI)) + (100-pc)/100*1.5*(1-math.Exp(-0.0183*in.BUI))
	case O1A, O1B:
		if in.GFL == nil {
			return 0, missing(ft, "GFL")
		}
		sfc = *in.GFL
	case S1:
		sfc = 4*(1-math.Exp(-0.025*in.BUI)) + 4*(1-math.Exp(-0.034*in.BUI))
	case S2:
		sfc = 10*(1-math.Exp(-0.013*in.BUI)) + 6*(1-math.Exp(-0.06*in.BUI))
	case S3:
		sfc = 12*(1-math.Exp(-0.0166*in.BUI)) + 20*(1-math.Exp(-0.021*in.BUI))
	default:
		return 0, &UnsupportedFuelTypeError{Value: ft.String()}
	}

	if sfc <= 0 || math.IsNaN(sfc) {
		return minConsumption, nil
	}
	return sfc, nil
}
