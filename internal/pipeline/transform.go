package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/fbp-etl/internal/cffdrs"
	"github.com/couchcryptid/fbp-etl/internal/domain"
	"github.com/couchcryptid/fbp-etl/internal/observability"
)

// ErrUnknownStation is returned for observations from stations missing in the catalogue.
var ErrUnknownStation = errors.New("station not in catalogue")

// StationCatalogue looks up the fuels configured for a station.
type StationCatalogue interface {
	Lookup(code string) (domain.Station, bool)
}

// FireBehaviourTransformer implements Transformer. Each observation yields one
// prediction per fuel type configured for its station.
type FireBehaviourTransformer struct {
	catalogue StationCatalogue
	locator   domain.Locator
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewTransformer creates a FireBehaviourTransformer. Pass a nil locator to
// disable geocoding of stations without coordinates.
func NewTransformer(catalogue StationCatalogue, locator domain.Locator, logger *slog.Logger, metrics *observability.Metrics) *FireBehaviourTransformer {
	return &FireBehaviourTransformer{
		catalogue: catalogue,
		locator:   locator,
		logger:    logger,
		metrics:   metrics,
	}
}

// Transform predicts fire behaviour for every fuel at the observation's
// station. A failing fuel is logged and counted but does not fail the
// message; an error is returned only when no fuel produced a prediction.
func (t *FireBehaviourTransformer) Transform(ctx context.Context, raw domain.RawEvent) ([]domain.OutputEvent, error) {
	obs, err := domain.ParseRawEvent(raw)
	if err != nil {
		return nil, err
	}

	station, ok := t.catalogue.Lookup(obs.StationCode)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStation, obs.StationCode)
	}
	if len(station.Fuels) == 0 {
		return nil, fmt.Errorf("station %s: no fuel types configured", obs.StationCode)
	}

	obs = domain.EnrichWithLocation(ctx, obs, station, t.locator, t.logger)

	outs := make([]domain.OutputEvent, 0, len(station.Fuels))
	var errs []error
	for _, fuel := range station.Fuels {
		p, err := domain.PredictFireBehaviour(obs, fuel)
		if err != nil {
			t.logger.Warn("prediction failed",
				"station_code", obs.StationCode,
				"fuel_type", fuel.Type.String(),
				"geo_source", obs.GeoSource,
				"error", err,
			)
			t.metrics.PredictionErrors.WithLabelValues(fuel.Type.String(), errorReason(err)).Inc()
			errs = append(errs, err)
			continue
		}

		out, err := domain.SerializePrediction(p)
		if err != nil {
			return nil, err
		}
		t.metrics.Predictions.WithLabelValues(p.FuelType.String(), string(p.FireType)).Inc()
		t.metrics.HeadFireIntensity.WithLabelValues(p.FuelType.String()).Observe(p.HFI)
		outs = append(outs, out)
	}

	if len(outs) == 0 {
		return nil, fmt.Errorf("station %s: no predictions: %w", obs.StationCode, errors.Join(errs...))
	}
	return outs, nil
}

// errorReason maps a prediction error to a low-cardinality metric label.
func errorReason(err error) string {
	switch {
	case errors.Is(err, cffdrs.ErrMissingParameter):
		return "missing_parameter"
	case errors.Is(err, cffdrs.ErrUnsupportedFuelType):
		return "unsupported_fuel_type"
	case errors.Is(err, domain.ErrNoLocation):
		return "no_location"
	default:
		return "other"
	}
}
