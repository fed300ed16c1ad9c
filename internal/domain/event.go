package domain

import (
	"context"
	"time"

	"github.com/couchcryptid/fbp-etl/internal/cffdrs"
)

// DateLayout is the wire format of observation dates.
const DateLayout = "2006-01-02"

// RawObservation represents the flat JSON structure produced by the collector.
type RawObservation struct {
	StationCode string   `json:"station_code" validate:"required"`
	StationName string   `json:"station_name"`
	Province    string   `json:"province,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Elevation   *float64 `json:"elevation,omitempty" validate:"omitempty,gte=-500,lte=9000"`
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
	FFMC        *float64 `json:"ffmc" validate:"required,gte=0,lte=101"`
	BUI         *float64 `json:"bui" validate:"required,gte=0"`
	WindSpeed   *float64 `json:"wind_speed" validate:"required,gte=0"`
	ISI         *float64 `json:"isi,omitempty" validate:"omitempty,gte=0"`
	GrassCure   *float64 `json:"grass_cure,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location sources recorded on observations and predictions.
const (
	GeoSourceObservation = "observation"
	GeoSourceCatalogue   = "catalogue"
	GeoSourceForward     = "forward"
	GeoSourceFailed      = "failed"
	GeoSourceMissing     = "missing"
)

// Observation is a parsed and validated daily station record.
type Observation struct {
	StationCode string
	StationName string
	Province    string
	Geo         *Geo // nil until the station is located
	Elevation   float64
	Date        time.Time
	FFMC        float64
	BUI         float64
	WindSpeed   float64
	ISI         *float64
	GrassCure   *float64

	// Geocoding enrichment fields.
	PlaceName     string
	GeoConfidence float64
	GeoSource     string

	RawPayload []byte
}

// Station is one entry of the station catalogue.
type Station struct {
	Code      string
	Name      string
	Province  string
	Latitude  *float64
	Longitude *float64
	Elevation *float64
	Fuels     []StationFuel
}

// StationFuel is a fuel type monitored at a station together with its stand
// parameters. Nil fields fall back to observation values or engine defaults.
type StationFuel struct {
	Type          cffdrs.FuelType
	PC            *float64 // percent conifer (M1/M2)
	PDF           *float64 // percent dead balsam fir (M3/M4)
	CC            *float64 // degree of curing (O1A/O1B)
	CBH           *float64 // crown base height (m)
	GrassFuelLoad *float64 // kg/m² (O1A/O1B)
	FMC           *float64 // foliar moisture content override (%)
}

// Prediction is the fire behaviour forecast for one fuel type at one station
// on one day.
type Prediction struct {
	ID          string          `json:"id"`
	StationCode string          `json:"station_code"`
	StationName string          `json:"station_name,omitempty"`
	Province    string          `json:"province,omitempty"`
	Geo         *Geo            `json:"geo,omitempty"`
	GeoSource   string          `json:"geo_source,omitempty"`
	Date        string          `json:"date"`
	FuelType    cffdrs.FuelType `json:"fuel_type"`

	// Inputs.
	FFMC      float64 `json:"ffmc"`
	BUI       float64 `json:"bui"`
	WindSpeed float64 `json:"wind_speed"`

	// Primary outputs.
	ISI            float64         `json:"isi"`
	FMC            float64         `json:"fmc"`
	CBH            float64         `json:"cbh"`
	SFC            float64         `json:"sfc"`
	ROS            float64         `json:"ros"`
	CFB            float64         `json:"cfb"`
	TFC            float64         `json:"tfc"`
	HFI            float64         `json:"hfi"`
	LB             float64         `json:"lb"`
	IntensityGroup int             `json:"intensity_group"`
	FireType       cffdrs.FireType `json:"fire_type"`

	ProcessedAt time.Time `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
