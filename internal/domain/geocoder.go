package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat        float64
	Lon        float64
	PlaceName  string
	Confidence float64 // 0.0–1.0 provider confidence score
}

// Locator resolves station names to coordinates.
type Locator interface {
	// ForwardGeocode converts a place name and province to coordinates.
	ForwardGeocode(ctx context.Context, name, province string) (GeocodingResult, error)
}
