package cffdrs

import "math"

// CSI returns the critical surface fire intensity (kW/m) needed to start
// crowning (Eq. 56).
func CSI(fmc, cbh float64) float64 {
	return 0.001 * math.Pow(cbh, 1.5) * math.Pow(460+25.9*fmc, 1.5)
}

// RSO returns the critical surface fire rate of spread (m/min) (Eq. 57).
func RSO(csi, sfc float64) float64 {
	return csi / (300 * sfc)
}

// CFB returns the crown fraction burned (0–1) for a surface spread rate and
// the critical spread rate (Eq. 58).
func CFB(ros, rso float64) float64 {
	if ros > rso {
		return 1 - math.Exp(-0.23*(ros-rso))
	}
	return 0
}

// CrownFractionBurned returns CFB for the fuel type, or 0 for fuels without a
// crown layer.
func CrownFractionBurned(ft FuelType, ros, fmc, sfc, cbh float64) float64 {
	if !ft.Crowning() {
		return 0
	}
	return CFB(ros, RSO(CSI(fmc, cbh), sfc))
}
