package cffdrs

// fuelParams holds every per-fuel coefficient used by the engine.
type fuelParams struct {
	// Initial spread, Eq. 26: RSI = a·(1−e^(−b·ISI))^c0.
	a, b, c0 float64
	// Buildup effect, Eq. 54.
	buiO, q float64
	// Default crown base height (m) and crown fuel load (kg/m²).
	cbh, cfl float64
}

var fuelTable = [...]fuelParams{
	C1:  {a: 90, b: 0.0649, c0: 4.5, buiO: 72, q: 0.9, cbh: 2, cfl: 0.75},
	C2:  {a: 110, b: 0.0282, c0: 1.5, buiO: 64, q: 0.7, cbh: 3, cfl: 0.8},
	C3:  {a: 110, b: 0.0444, c0: 3.0, buiO: 62, q: 0.75, cbh: 8, cfl: 1.15},
	C4:  {a: 110, b: 0.0293, c0: 1.5, buiO: 66, q: 0.8, cbh: 4, cfl: 1.2},
	C5:  {a: 30, b: 0.0697, c0: 4.0, buiO: 56, q: 0.8, cbh: 18, cfl: 1.2},
	C6:  {a: 30, b: 0.0800, c0: 3.0, buiO: 62, q: 0.8, cbh: 7, cfl: 1.8},
	C7:  {a: 45, b: 0.0305, c0: 2.0, buiO: 106, q: 0.85, cbh: 10, cfl: 0.5},
	D1:  {a: 30, b: 0.0232, c0: 1.6, buiO: 32, q: 0.9},
	M1:  {buiO: 50, q: 0.8, cbh: 6, cfl: 0.8},
	M2:  {buiO: 50, q: 0.8, cbh: 6, cfl: 0.8},
	M3:  {a: 120, b: 0.0572, c0: 1.4, buiO: 50, q: 0.8, cbh: 6, cfl: 0.8},
	M4:  {a: 100, b: 0.0404, c0: 1.48, buiO: 50, q: 0.8, cbh: 6, cfl: 0.8},
	S1:  {a: 75, b: 0.0297, c0: 1.3, buiO: 38, q: 0.75},
	S2:  {a: 40, b: 0.0438, c0: 1.7, buiO: 63, q: 0.75},
	S3:  {a: 55, b: 0.0829, c0: 3.2, buiO: 31, q: 0.75},
	O1A: {a: 190, b: 0.0310, c0: 1.4, buiO: 1, q: 1.0},
	O1B: {a: 250, b: 0.0350, c0: 1.7, buiO: 1, q: 1.0},
}

func paramsFor(ft FuelType) (fuelParams, error) {
	if !ft.Valid() {
		return fuelParams{}, &UnsupportedFuelTypeError{Value: ft.String()}
	}
	return fuelTable[ft], nil
}

// DefaultCBH returns the benchmark crown base height (m) for the fuel type.
func DefaultCBH(ft FuelType) (float64, error) {
	p, err := paramsFor(ft)
	if err != nil {
		return 0, err
	}
	return p.cbh, nil
}

// DefaultCFL returns the benchmark crown fuel load (kg/m²) for the fuel type.
func DefaultCFL(ft FuelType) (float64, error) {
	p, err := paramsFor(ft)
	if err != nil {
		return 0, err
	}
	return p.cfl, nil
}
