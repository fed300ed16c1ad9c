package cffdrs

import "math"

// ISI computes the Initial Spread Index from the Fine Fuel Moisture Code and
// the 10 m open wind speed (km/h) (Van Wagner 1987, Eq. 24–26).
//
// With fbpMod set, winds of 40 km/h and above use the FBP System wind
// function (ST-X-3 Eq. 53a), which levels off at high wind speeds.
func ISI(ffmc, windSpeed float64, fbpMod bool) float64 {
	fm := 147.2 * (101 - ffmc) / (59.5 + ffmc)

	fw := math.Exp(0.05039 * windSpeed)
	if fbpMod && windSpeed >= 40 {
		fw = 12 * (1 - math.Exp(-0.0818*(windSpeed-28)))
	}

	ff := 91.9 * math.Exp(-0.1386*fm) * (1 + math.Pow(fm, 5.31)/49300000)
	return 0.208 * fw * ff
}
