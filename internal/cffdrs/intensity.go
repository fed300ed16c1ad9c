package cffdrs

import "math"

// FireType classifies a fire by how much of the crown is involved.
type FireType string

const (
	Surface           FireType = "surface"
	IntermittentCrown FireType = "intermittent_crown"
	ContinuousCrown   FireType = "continuous_crown"
)

// ClassifyFireType maps crown fraction burned to a fire type. Fuels without a
// crown layer always burn as surface fires.
func ClassifyFireType(ft FuelType, cfb float64) FireType {
	switch {
	case !ft.Crowning() || cfb < 0.1:
		return Surface
	case cfb < 0.9:
		return IntermittentCrown
	default:
		return ContinuousCrown
	}
}

// TFC returns the total fuel consumption (kg/m²): surface plus crown fuel
// consumption (Eq. 66). Mixedwood crown consumption is weighted by the conifer
// share of the stand.
func TFC(ft FuelType, sfc, cfb float64, pc, pdf *float64) (float64, error) {
	cfl, err := DefaultCFL(ft)
	if err != nil {
		return 0, err
	}
	cfc := cfl * cfb
	switch ft {
	case M1, M2:
		if pc == nil {
			return 0, missing(ft, "PC")
		}
		cfc *= *pc / 100
	case M3, M4:
		if pdf == nil {
			return 0, missing(ft, "PDF")
		}
		cfc *= *pdf / 100
	}
	return sfc + cfc, nil
}

// HFI returns the head fire intensity (kW/m) (Eq. 69).
func HFI(ros, tfc float64) float64 {
	return 300 * tfc * ros
}

// intensityGroupBounds are the exclusive upper HFI bounds (kW/m) of groups 1–5.
var intensityGroupBounds = [...]float64{10, 500, 2000, 4000, 10000}

// IntensityGroup buckets head fire intensity into the six operational
// intensity groups used for resource planning.
func IntensityGroup(hfi float64) int {
	for i, bound := range intensityGroupBounds {
		if hfi < bound {
			return i + 1
		}
	}
	return len(intensityGroupBounds) + 1
}

// LB returns the length-to-breadth ratio of an elliptical fire driven by the
// given net effective wind speed (km/h) (Eq. 79–81).
func LB(ft FuelType, windSpeed float64) float64 {
	if ft.isGrass() {
		if windSpeed < 1 {
			return 1
		}
		return 1.1 * math.Pow(windSpeed, 0.464)
	}
	return 1 + 8.729*math.Pow(1-math.Exp(-0.030*windSpeed), 2.155)
}
