package providers

import (
	"github.com/kelvins/geocoder"
)

// GeocoderLocator resolves city names to coordinates through the Google
// geocoding API. It backs the optional city-existence check applied before
// persisting forecast overrides.
type GeocoderLocator struct{}

func NewGeocoderLocator(apiKey string) *GeocoderLocator {
	geocoder.ApiKey = apiKey
	return &GeocoderLocator{}
}

func (g *GeocoderLocator) Locate(city string) (float64, float64, error) {
	location, err := geocoder.Geocoding(geocoder.Address{City: city})
	if err != nil {
		return 0, 0, err
	}
	return location.Latitude, location.Longitude, nil
}
