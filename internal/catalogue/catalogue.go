// Package catalogue loads the station fuel catalogue: which fuel types are
// monitored at each fire-weather station, and the stand parameters the FBP
// System needs for them.
//
// The catalogue is a TOML or YAML file, picked by extension:
//
//	[[station]]
//	code = "KAM"
//	name = "Kamloops"
//	province = "BC"
//	latitude = 50.67
//	longitude = -120.48
//	elevation = 780
//
//	  [[station.fuel]]
//	  type = "C3"
//
//	  [[station.fuel]]
//	  type = "M1"
//	  pc = 60
package catalogue

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/fbp-etl/internal/cffdrs"
	"github.com/couchcryptid/fbp-etl/internal/domain"
)

// Format is a catalogue file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ErrDuplicateStation is returned when two entries share a station code.
var ErrDuplicateStation = errors.New("duplicate station code")

type file struct {
	Stations []stationEntry `toml:"station" yaml:"station" validate:"required,min=1,dive"`
}

type stationEntry struct {
	Code      string      `toml:"code" yaml:"code" validate:"required"`
	Name      string      `toml:"name" yaml:"name"`
	Province  string      `toml:"province" yaml:"province"`
	Latitude  *float64    `toml:"latitude" yaml:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64    `toml:"longitude" yaml:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Elevation *float64    `toml:"elevation" yaml:"elevation" validate:"omitempty,gte=-500,lte=9000"`
	Fuels     []fuelEntry `toml:"fuel" yaml:"fuel" validate:"required,min=1,dive"`
}

type fuelEntry struct {
	Type          string   `toml:"type" yaml:"type" validate:"required"`
	PC            *float64 `toml:"pc" yaml:"pc" validate:"omitempty,gte=0,lte=100"`
	PDF           *float64 `toml:"pdf" yaml:"pdf" validate:"omitempty,gte=0,lte=100"`
	CC            *float64 `toml:"cc" yaml:"cc" validate:"omitempty,gte=0,lte=100"`
	CBH           *float64 `toml:"cbh" yaml:"cbh" validate:"omitempty,gt=0"`
	GrassFuelLoad *float64 `toml:"grass_fuel_load" yaml:"grass_fuel_load" validate:"omitempty,gt=0"`
	FMC           *float64 `toml:"fmc" yaml:"fmc" validate:"omitempty,gt=0"`
}

// Catalogue is an immutable set of stations indexed by code.
type Catalogue struct {
	stations map[string]domain.Station
}

// Load reads and validates the catalogue file at path.
func Load(path string) (*Catalogue, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}
	c, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("load catalogue %s: %w", path, err)
	}
	return c, nil
}

// FormatFromPath picks the catalogue format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("catalogue %s: unsupported extension %q", path, filepath.Ext(path))
	}
}

// Parse decodes and validates catalogue data in the given format.
func Parse(data []byte, format Format) (*Catalogue, error) {
	var f file
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalogue format %q", format)
	}

	if err := domain.ValidateStruct(f); err != nil {
		return nil, fmt.Errorf("validate catalogue: %w", err)
	}

	stations := make([]domain.Station, 0, len(f.Stations))
	for _, s := range f.Stations {
		station, err := s.toDomain()
		if err != nil {
			return nil, err
		}
		stations = append(stations, station)
	}
	return New(stations)
}

// New builds a catalogue from already-parsed stations.
func New(stations []domain.Station) (*Catalogue, error) {
	c := &Catalogue{stations: make(map[string]domain.Station, len(stations))}
	for _, s := range stations {
		if _, ok := c.stations[s.Code]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStation, s.Code)
		}
		c.stations[s.Code] = s
	}
	return c, nil
}

// Lookup returns the station with the given code.
func (c *Catalogue) Lookup(code string) (domain.Station, bool) {
	s, ok := c.stations[code]
	return s, ok
}

// Stations returns every station sorted by code.
func (c *Catalogue) Stations() []domain.Station {
	out := make([]domain.Station, 0, len(c.stations))
	for _, s := range c.stations {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Len returns the number of stations.
func (c *Catalogue) Len() int { return len(c.stations) }

func (s stationEntry) toDomain() (domain.Station, error) {
	if (s.Latitude == nil) != (s.Longitude == nil) {
		return domain.Station{}, fmt.Errorf("station %s: latitude and longitude must be given together", s.Code)
	}

	fuels := make([]domain.StationFuel, 0, len(s.Fuels))
	seen := make(map[cffdrs.FuelType]bool, len(s.Fuels))
	for _, f := range s.Fuels {
		ft, err := cffdrs.ParseFuelType(f.Type)
		if err != nil {
			return domain.Station{}, fmt.Errorf("station %s: %w", s.Code, err)
		}
		if seen[ft] {
			return domain.Station{}, fmt.Errorf("station %s: fuel type %s listed twice", s.Code, ft)
		}
		seen[ft] = true
		if err := checkStand(ft, f); err != nil {
			return domain.Station{}, fmt.Errorf("station %s: %w", s.Code, err)
		}

		fuels = append(fuels, domain.StationFuel{
			Type:          ft,
			PC:            f.PC,
			PDF:           f.PDF,
			CC:            f.CC,
			CBH:           f.CBH,
			GrassFuelLoad: f.GrassFuelLoad,
			FMC:           f.FMC,
		})
	}

	return domain.Station{
		Code:      s.Code,
		Name:      s.Name,
		Province:  s.Province,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		Elevation: s.Elevation,
		Fuels:     fuels,
	}, nil
}

// checkStand rejects mixedwood entries without their stand composition.
func checkStand(ft cffdrs.FuelType, f fuelEntry) error {
	switch {
	case (ft == cffdrs.M1 || ft == cffdrs.M2) && f.PC == nil:
		return &cffdrs.MissingParameterError{Fuel: ft, Parameter: "PC"}
	case (ft == cffdrs.M3 || ft == cffdrs.M4) && f.PDF == nil:
		return &cffdrs.MissingParameterError{Fuel: ft, Parameter: "PDF"}
	}
	return nil
}
