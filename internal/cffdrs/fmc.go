package cffdrs

import "math"

// FMC returns the foliar moisture content (%) for a location and day of year
// (Eq. 1–8). Latitude and longitude are in decimal degrees; hemisphere signs
// are ignored and longitude is treated as degrees west. Elevation is metres
// above sea level; zero or less selects the elevation-free equations.
//
// minFMCDay is the day of year of minimum FMC. Pass 0 to derive it from the
// location.
func FMC(lat, lon, elevation float64, dayOfYear, minFMCDay int) float64 {
	d0 := float64(minFMCDay)
	if minFMCDay <= 0 {
		lat, lon = math.Abs(lat), math.Abs(lon)
		var latn float64
		if elevation <= 0 {
			latn = 46 + 23.4*math.Exp(-0.0360*(150-lon)) // Eq. 1
			d0 = 151 * (lat / latn)                      // Eq. 2
		} else {
			latn = 43 + 33.7*math.Exp(-0.0351*(150-lon)) // Eq. 3
			d0 = 142.1*(lat/latn) + 0.0172*elevation     // Eq. 4
		}
		d0 = math.RoundToEven(d0)
	}

	nd := math.Abs(float64(dayOfYear) - d0) // Eq. 5
	switch {
	case nd < 30:
		return 85 + 0.0189*nd*nd // Eq. 6
	case nd < 50:
		return 32.9 + 3.17*nd - 0.0288*nd*nd // Eq. 7
	default:
		return 120 // Eq. 8
	}
}
