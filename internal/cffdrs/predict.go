package cffdrs

// DefaultGrassFuelLoad is the standard O1 grass fuel load (kg/m²) used when a
// station does not measure one.
const DefaultGrassFuelLoad = 0.35

// PredictionInputs describe one fuel type at one station on one day.
type PredictionInputs struct {
	Fuel      FuelType
	FFMC      float64
	BUI       float64
	WindSpeed float64 // 10 m open wind speed (km/h)

	// ISI overrides the index derived from FFMC and WindSpeed.
	ISI *float64
	// FMC overrides the foliar moisture content derived from location and date.
	FMC *float64

	Latitude  float64
	Longitude float64
	Elevation float64
	DayOfYear int

	PC  *float64
	PDF *float64
	CC  *float64
	GFL *float64
	CBH *float64 // crown base height (m); nil or ≤ 0 uses the fuel default
}

// Prediction is the primary FBP System output for one fuel type.
type Prediction struct {
	Fuel           FuelType
	ISI            float64
	FMC            float64
	CBH            float64
	SFC            float64
	ROS            float64
	CFB            float64
	TFC            float64
	HFI            float64
	LB             float64
	IntensityGroup int
	FireType       FireType
}

// Predict runs the head fire calculation chain: ISI, FMC, SFC, ROS, CFB, TFC
// and HFI.
func Predict(in PredictionInputs) (Prediction, error) {
	ft := in.Fuel
	if !ft.Valid() {
		return Prediction{}, &UnsupportedFuelTypeError{Value: ft.String()}
	}

	isi := ISI(in.FFMC, in.WindSpeed, true)
	if in.ISI != nil {
		isi = *in.ISI
	}

	fmc := FMC(in.Latitude, in.Longitude, in.Elevation, in.DayOfYear, 0)
	if in.FMC != nil {
		fmc = *in.FMC
	}

	cbh := fuelTable[ft].cbh
	if in.CBH != nil && *in.CBH > 0 {
		cbh = *in.CBH
	}

	gfl := in.GFL
	if gfl == nil && ft.isGrass() {
		d := DefaultGrassFuelLoad
		gfl = &d
	}

	sfc, err := SFC(ft, SurfaceInputs{FFMC: in.FFMC, BUI: in.BUI, PC: in.PC, GFL: gfl})
	if err != nil {
		return Prediction{}, err
	}

	spread := SpreadInputs{
		ISI:     isi,
		Buildup: ApplyBUI(in.BUI),
		FMC:     &fmc,
		SFC:     &sfc,
		PC:      in.PC,
		PDF:     in.PDF,
		CC:      in.CC,
		CBH:     &cbh,
	}
	ros, err := ROS(ft, spread)
	if err != nil {
		return Prediction{}, err
	}

	var cfb float64
	if ft == C6 {
		r, err := C6Calc(ft, C6Inputs{ISI: isi, Buildup: spread.Buildup, FMC: fmc, SFC: sfc, CBH: cbh}, C6CrownFractionBurned)
		if err != nil {
			return Prediction{}, err
		}
		cfb = r.Value
	} else {
		cfb = CrownFractionBurned(ft, ros, fmc, sfc, cbh)
	}

	tfc, err := TFC(ft, sfc, cfb, in.PC, in.PDF)
	if err != nil {
		return Prediction{}, err
	}
	hfi := HFI(ros, tfc)

	return Prediction{
		Fuel:           ft,
		ISI:            isi,
		FMC:            fmc,
		CBH:            cbh,
		SFC:            sfc,
		ROS:            ros,
		CFB:            cfb,
		TFC:            tfc,
		HFI:            hfi,
		LB:             LB(ft, in.WindSpeed),
		IntensityGroup: IntensityGroup(hfi),
		FireType:       ClassifyFireType(ft, cfb),
	}, nil
}
