package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-playground/validator/v10"

	"github.com/couchcryptid/fbp-etl/internal/cffdrs"
	"github.com/couchcryptid/fbp-etl/internal/domain"
)

const maxRequestBytes = 1 << 20

var errBadRequest = errors.New("bad request")

// rateOfSpreadRequest is the body of POST /v1/rate-of-spread. A bui of -1
// skips the buildup effect.
type rateOfSpreadRequest struct {
	FuelType string   `json:"fuel_type" validate:"required"`
	ISI      *float64 `json:"isi" validate:"required,gte=0"`
	BUI      *float64 `json:"bui" validate:"required"`
	FMC      *float64 `json:"fmc,omitempty" validate:"omitempty,gt=0"`
	SFC      *float64 `json:"sfc,omitempty" validate:"omitempty,gte=0"`
	PC       *float64 `json:"pc,omitempty" validate:"omitempty,gte=0,lte=100"`
	PDF      *float64 `json:"pdf,omitempty" validate:"omitempty,gte=0,lte=100"`
	CC       *float64 `json:"cc,omitempty" validate:"omitempty,gte=0,lte=100"`
	CBH      *float64 `json:"cbh,omitempty" validate:"omitempty,gt=0"`
}

type rateOfSpreadResponse struct {
	FuelType       cffdrs.FuelType `json:"fuel_type"`
	ROS            float64         `json:"ros"`
	BE             float64         `json:"be"`
	BuildupApplied bool            `json:"buildup_applied"`
}

// fireBehaviourRequest is the body of POST /v1/fire-behaviour: one station
// observation and the fuel to predict for.
type fireBehaviourRequest struct {
	domain.RawObservation
	Fuel *fuelRequest `json:"fuel"`
}

type fuelRequest struct {
	Type          string   `json:"type" validate:"required"`
	PC            *float64 `json:"pc,omitempty" validate:"omitempty,gte=0,lte=100"`
	PDF           *float64 `json:"pdf,omitempty" validate:"omitempty,gte=0,lte=100"`
	CC            *float64 `json:"cc,omitempty" validate:"omitempty,gte=0,lte=100"`
	CBH           *float64 `json:"cbh,omitempty" validate:"omitempty,gt=0"`
	GrassFuelLoad *float64 `json:"grass_fuel_load,omitempty" validate:"omitempty,gt=0"`
	FMC           *float64 `json:"fmc,omitempty" validate:"omitempty,gt=0"`
}

func (s *Server) handleRateOfSpread(w http.ResponseWriter, r *http.Request) {
	const endpoint = "rate_of_spread"

	var req rateOfSpreadRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.fail(w, endpoint, err)
		return
	}

	resp, err := rateOfSpread(req)
	if err != nil {
		s.fail(w, endpoint, err)
		return
	}
	s.respond(w, endpoint, http.StatusOK, resp)
}

func rateOfSpread(req rateOfSpreadRequest) (rateOfSpreadResponse, error) {
	if *req.BUI < 0 && *req.BUI != cffdrs.NoBUI {
		return rateOfSpreadResponse{}, fmt.Errorf("%w: bui must be non-negative or %d", errBadRequest, cffdrs.NoBUI)
	}
	ft, err := cffdrs.ParseFuelType(req.FuelType)
	if err != nil {
		return rateOfSpreadResponse{}, err
	}

	in := cffdrs.SpreadInputs{
		ISI:     *req.ISI,
		Buildup: cffdrs.BuildupFromBUI(*req.BUI),
		FMC:     req.FMC,
		SFC:     req.SFC,
		PC:      req.PC,
		PDF:     req.PDF,
		CC:      req.CC,
		CBH:     req.CBH,
	}
	ros, err := cffdrs.ROS(ft, in)
	if err != nil {
		return rateOfSpreadResponse{}, err
	}
	be, err := cffdrs.BE(ft, in.Buildup)
	if err != nil {
		return rateOfSpreadResponse{}, err
	}
	_, applied := in.Buildup.BUI()

	return rateOfSpreadResponse{FuelType: ft, ROS: ros, BE: be, BuildupApplied: applied}, nil
}

func (s *Server) handleFireBehaviour(w http.ResponseWriter, r *http.Request) {
	const endpoint = "fire_behaviour"

	var req fireBehaviourRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.fail(w, endpoint, err)
		return
	}
	if req.Fuel == nil {
		s.fail(w, endpoint, fmt.Errorf("%w: fuel is required", errBadRequest))
		return
	}
	if err := domain.ValidateStruct(req.Fuel); err != nil {
		s.fail(w, endpoint, err)
		return
	}
	ft, err := cffdrs.ParseFuelType(req.Fuel.Type)
	if err != nil {
		s.fail(w, endpoint, err)
		return
	}

	obs, err := domain.ParseObservation(req.RawObservation)
	if err != nil {
		s.fail(w, endpoint, err)
		return
	}
	obs = domain.EnrichWithLocation(r.Context(), obs, domain.Station{Code: obs.StationCode}, s.locator, s.logger)

	p, err := domain.PredictFireBehaviour(obs, domain.StationFuel{
		Type:          ft,
		PC:            req.Fuel.PC,
		PDF:           req.Fuel.PDF,
		CC:            req.Fuel.CC,
		CBH:           req.Fuel.CBH,
		GrassFuelLoad: req.Fuel.GrassFuelLoad,
		FMC:           req.Fuel.FMC,
	})
	if err != nil {
		s.fail(w, endpoint, err)
		return
	}
	s.respond(w, endpoint, http.StatusOK, p)
}

// decodeRequest reads a size-limited JSON body and validates it.
func decodeRequest(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decode body: %w", errBadRequest, err)
	}
	if _, ok := v.(*fireBehaviourRequest); ok {
		// The embedded observation is validated by domain.ParseObservation.
		return nil
	}
	return domain.ValidateStruct(v)
}

func (s *Server) respond(w http.ResponseWriter, endpoint string, status int, v any) {
	s.metrics.CalculatorRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	sharedobs.WriteJSON(w, status, v)
}

func (s *Server) fail(w http.ResponseWriter, endpoint string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("calculator request failed", "endpoint", endpoint, "error", err)
	} else {
		s.logger.Debug("calculator request rejected", "endpoint", endpoint, "status", status, "error", err)
	}
	s.respond(w, endpoint, status, map[string]string{"error": err.Error()})
}

// statusFor maps request and engine errors to HTTP status codes.
func statusFor(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, domain.ErrInvalidObservation), errors.As(err, &verrs):
		return http.StatusBadRequest
	case errors.Is(err, cffdrs.ErrMissingParameter), errors.Is(err, cffdrs.ErrUnsupportedFuelType), errors.Is(err, domain.ErrNoLocation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
