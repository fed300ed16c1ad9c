package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/couchcryptid/fbp-etl/internal/cffdrs"
)

var (
	// ErrInvalidObservation marks observations that fail decoding or validation.
	ErrInvalidObservation = errors.New("invalid observation")

	// ErrNoLocation is returned when foliar moisture content has to be derived
	// but the station could not be located.
	ErrNoLocation = errors.New("station location unknown")
)

var validate = validator.New()

// ValidateStruct runs the package validator over any tagged struct.
func ValidateStruct(v any) error {
	return validate.Struct(v)
}

// ParseRawEvent deserializes and validates a RawEvent's value into an Observation.
func ParseRawEvent(raw RawEvent) (Observation, error) {
	var rec RawObservation
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return Observation{}, fmt.Errorf("parse raw event: %w: %w", ErrInvalidObservation, err)
	}

	obs, err := ParseObservation(rec)
	if err != nil {
		return Observation{}, err
	}
	obs.RawPayload = raw.Value
	return obs, nil
}

// ParseObservation validates a decoded RawObservation.
func ParseObservation(rec RawObservation) (Observation, error) {
	if err := validate.Struct(rec); err != nil {
		return Observation{}, fmt.Errorf("validate observation: %w: %w", ErrInvalidObservation, err)
	}
	if (rec.Latitude == nil) != (rec.Longitude == nil) {
		return Observation{}, fmt.Errorf("validate observation %s: %w: latitude and longitude must be given together",
			rec.StationCode, ErrInvalidObservation)
	}

	date, err := time.Parse(DateLayout, rec.Date)
	if err != nil {
		return Observation{}, fmt.Errorf("parse observation date: %w: %w", ErrInvalidObservation, err)
	}

	obs := Observation{
		StationCode: rec.StationCode,
		StationName: rec.StationName,
		Province:    rec.Province,
		Date:        date,
		FFMC:        *rec.FFMC,
		BUI:         *rec.BUI,
		WindSpeed:   *rec.WindSpeed,
		ISI:         rec.ISI,
		GrassCure:   rec.GrassCure,
	}
	if rec.Latitude != nil {
		obs.Geo = &Geo{Lat: *rec.Latitude, Lon: *rec.Longitude}
	}
	if rec.Elevation != nil {
		obs.Elevation = *rec.Elevation
	}
	return obs, nil
}

// PredictFireBehaviour runs the FBP System for one configured fuel at the
// observation's station.
func PredictFireBehaviour(obs Observation, fuel StationFuel) (Prediction, error) {
	in := cffdrs.PredictionInputs{
		Fuel:      fuel.Type,
		FFMC:      obs.FFMC,
		BUI:       obs.BUI,
		WindSpeed: obs.WindSpeed,
		ISI:       obs.ISI,
		FMC:       fuel.FMC,
		Elevation: obs.Elevation,
		DayOfYear: obs.Date.YearDay(),
		PC:        fuel.PC,
		PDF:       fuel.PDF,
		CC:        fuel.CC,
		GFL:       fuel.GrassFuelLoad,
		CBH:       fuel.CBH,
	}
	if in.CC == nil {
		in.CC = obs.GrassCure
	}
	if in.FMC == nil {
		if obs.Geo == nil {
			return Prediction{}, fmt.Errorf("predict %s at %s: %w", fuel.Type, obs.StationCode, ErrNoLocation)
		}
		in.Latitude = obs.Geo.Lat
		in.Longitude = obs.Geo.Lon
	}

	p, err := cffdrs.Predict(in)
	if err != nil {
		return Prediction{}, fmt.Errorf("predict %s at %s: %w", fuel.Type, obs.StationCode, err)
	}

	date := obs.Date.Format(DateLayout)
	return Prediction{
		ID:             generateID(obs.StationCode, date, fuel.Type),
		StationCode:    obs.StationCode,
		StationName:    obs.StationName,
		Province:       obs.Province,
		Geo:            obs.Geo,
		GeoSource:      obs.GeoSource,
		Date:           date,
		FuelType:       fuel.Type,
		FFMC:           obs.FFMC,
		BUI:            obs.BUI,
		WindSpeed:      obs.WindSpeed,
		ISI:            p.ISI,
		FMC:            p.FMC,
		CBH:            p.CBH,
		SFC:            p.SFC,
		ROS:            p.ROS,
		CFB:            p.CFB,
		TFC:            p.TFC,
		HFI:            p.HFI,
		LB:             p.LB,
		IntensityGroup: p.IntensityGroup,
		FireType:       p.FireType,
		ProcessedAt:    clock.Now().UTC(),
	}, nil
}

// generateID derives a stable prediction key from station, date and fuel type.
func generateID(stationCode, date string, ft cffdrs.FuelType) string {
	input := fmt.Sprintf("%s|%s|%s", stationCode, date, ft)
	hash := sha256.Sum256([]byte(input))
	return "fbp-" + hex.EncodeToString(hash[:8])
}

// SerializePrediction marshals a prediction for the sink topic.
func SerializePrediction(p Prediction) (OutputEvent, error) {
	value, err := json.Marshal(p)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize prediction: %w", err)
	}

	return OutputEvent{
		Key:   []byte(p.ID),
		Value: value,
		Headers: map[string]string{
			"fuel_type":    p.FuelType.String(),
			"station_code": p.StationCode,
			"processed_at": p.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
