package domain

import (
	"context"
	"log/slog"
)

// EnrichWithLocation makes sure the observation carries coordinates, filling
// them from the station catalogue entry or, failing that, by forward geocoding
// the station name. Geocoding errors are logged and recorded in GeoSource
// rather than returned (graceful degradation); predictions that need
// coordinates fail later with ErrNoLocation.
func EnrichWithLocation(ctx context.Context, obs Observation, station Station, locator Locator, logger *slog.Logger) Observation {
	if obs.Geo != nil {
		obs.GeoSource = GeoSourceObservation
		return obs
	}

	if obs.Elevation == 0 && station.Elevation != nil {
		obs.Elevation = *station.Elevation
	}

	if station.Latitude != nil && station.Longitude != nil {
		obs.Geo = &Geo{Lat: *station.Latitude, Lon: *station.Longitude}
		obs.GeoSource = GeoSourceCatalogue
		return obs
	}

	name := obs.StationName
	if name == "" {
		name = station.Name
	}
	province := obs.Province
	if province == "" {
		province = station.Province
	}

	if locator == nil || name == "" {
		obs.GeoSource = GeoSourceMissing
		return obs
	}

	result, err := locator.ForwardGeocode(ctx, name, province)
	if err != nil {
		logger.Warn("forward geocoding failed",
			"station_code", obs.StationCode,
			"station_name", name,
			"province", province,
			"error", err,
		)
		obs.GeoSource = GeoSourceFailed
		return obs
	}
	if result.Lat == 0 && result.Lon == 0 {
		obs.GeoSource = GeoSourceMissing
		return obs
	}

	obs.Geo = &Geo{Lat: result.Lat, Lon: result.Lon}
	obs.PlaceName = result.PlaceName
	obs.GeoConfidence = result.Confidence
	obs.GeoSource = GeoSourceForward
	return obs
}
