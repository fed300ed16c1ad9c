package pipeline_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/fbp-etl/internal/catalogue"
	"github.com/couchcryptid/fbp-etl/internal/cffdrs"
	"github.com/couchcryptid/fbp-etl/internal/domain"
	"github.com/couchcryptid/fbp-etl/internal/observability"
	"github.com/couchcryptid/fbp-etl/internal/pipeline"
)

func fptr(v float64) *float64 { return &v }

func testCatalogue(t *testing.T) *catalogue.Catalogue {
	t.Helper()
	c, err := catalogue.New([]domain.Station{
		{
			Code:      "KAM",
			Name:      "Kamloops",
			Province:  "BC",
			Latitude:  fptr(50.67),
			Longitude: fptr(-120.48),
			Elevation: fptr(345),
			Fuels: []domain.StationFuel{
				{Type: cffdrs.C3},
				{Type: cffdrs.M1, PC: fptr(60)},
				{Type: cffdrs.O1A},
			},
		},
		{
			Code:  "NOWHERE",
			Fuels: []domain.StationFuel{{Type: cffdrs.C2}},
		},
		{
			Code: "BROKEN",
			Fuels: []domain.StationFuel{
				{Type: cffdrs.M3, FMC: fptr(100)},
				{Type: cffdrs.D1, FMC: fptr(100)},
			},
		},
	})
	require.NoError(t, err)
	return c
}

func observation(code string, extra string) domain.RawEvent {
	return domain.RawEvent{
		Value: []byte(`{"station_code":"` + code + `","date":"2024-07-15","ffmc":91,"bui":80,"wind_speed":25` + extra + `}`),
		Topic: "station-fire-weather",
	}
}

func TestFireBehaviourTransformer_OnePredictionPerFuel(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, 7, 15, 20, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	metrics := observability.NewMetricsForTesting()
	tfm := pipeline.NewTransformer(testCatalogue(t), nil, discardLogger(), metrics)

	outs, err := tfm.Transform(context.Background(), observation("KAM", `,"grass_cure":85`))
	require.NoError(t, err)
	require.Len(t, outs, 3)

	type summary struct {
		FuelType  string
		Station   string
		GeoSource string
		Processed string
	}
	got := make([]summary, 0, len(outs))
	for _, out := range outs {
		var p domain.Prediction
		require.NoError(t, json.Unmarshal(out.Value, &p))
		assert.Equal(t, p.ID, string(out.Key))
		assert.InDelta(t, 300*p.TFC*p.ROS, p.HFI, 1e-6)
		got = append(got, summary{
			FuelType:  out.Headers["fuel_type"],
			Station:   out.Headers["station_code"],
			GeoSource: p.GeoSource,
			Processed: out.Headers["processed_at"],
		})
	}

	want := []summary{
		{"C3", "KAM", domain.GeoSourceCatalogue, "2024-07-15T20:00:00Z"},
		{"M1", "KAM", domain.GeoSourceCatalogue, "2024-07-15T20:00:00Z"},
		{"O1A", "KAM", domain.GeoSourceCatalogue, "2024-07-15T20:00:00Z"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("predictions mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Predictions.WithLabelValues("M1", "continuous_crown"))+
		testutil.ToFloat64(metrics.Predictions.WithLabelValues("M1", "intermittent_crown"))+
		testutil.ToFloat64(metrics.Predictions.WithLabelValues("M1", "surface")))
}

func TestFireBehaviourTransformer_PartialFailure(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	tfm := pipeline.NewTransformer(testCatalogue(t), nil, discardLogger(), metrics)

	outs, err := tfm.Transform(context.Background(), observation("BROKEN", ""))
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, "D1", outs[0].Headers["fuel_type"])
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PredictionErrors.WithLabelValues("M3", "missing_parameter")))
}

func TestFireBehaviourTransformer_AllFuelsFail(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	tfm := pipeline.NewTransformer(testCatalogue(t), nil, discardLogger(), metrics)

	_, err := tfm.Transform(context.Background(), observation("NOWHERE", ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoLocation)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PredictionErrors.WithLabelValues("C2", "no_location")))
}

func TestFireBehaviourTransformer_ObservationCoordinatesLocateStation(t *testing.T) {
	tfm := pipeline.NewTransformer(testCatalogue(t), nil, discardLogger(), observability.NewMetricsForTesting())

	outs, err := tfm.Transform(context.Background(), observation("NOWHERE", `,"latitude":49.9,"longitude":-119.4`))
	require.NoError(t, err)
	require.Len(t, outs, 1)

	var p domain.Prediction
	require.NoError(t, json.Unmarshal(outs[0].Value, &p))
	assert.Equal(t, domain.GeoSourceObservation, p.GeoSource)
}

func TestFireBehaviourTransformer_Rejects(t *testing.T) {
	tfm := pipeline.NewTransformer(testCatalogue(t), nil, discardLogger(), observability.NewMetricsForTesting())

	t.Run("unknown station", func(t *testing.T) {
		_, err := tfm.Transform(context.Background(), observation("XYZ", ""))
		assert.ErrorIs(t, err, pipeline.ErrUnknownStation)
	})

	t.Run("invalid observation", func(t *testing.T) {
		_, err := tfm.Transform(context.Background(), domain.RawEvent{Value: []byte(`{"station_code":"KAM"}`)})
		assert.ErrorIs(t, err, domain.ErrInvalidObservation)
	})
}
