package weather

import (
	"context"
	"errors"
	"time"
)

// ErrNoOverride is returned by an OverrideStore when no custom forecast
// exists for the requested (city, date) pair.
var ErrNoOverride = errors.New("no custom forecast for city and date")

// Provider abstracts the external weather service (OpenWeatherMap).
type Provider interface {
	// CurrentWeather returns the shaped current conditions for a city.
	CurrentWeather(ctx context.Context, city string) (CurrentWeather, error)

	// Forecast returns the min/max temperature envelope for a city on the
	// given calendar date (UTC).
	Forecast(ctx context.Context, city string, date time.Time) (ForecastRange, error)
}

// OverrideStore is the persistence contract for custom forecasts, keyed by
// normalized (city, date). City matching is case-insensitive.
type OverrideStore interface {
	Get(ctx context.Context, city string, date time.Time) (CustomForecast, error)

	// Upsert atomically creates or replaces the override for (city, date).
	// Concurrent writers for the same key serialize to a single row.
	Upsert(ctx context.Context, city string, date time.Time, minTemp, maxTemp float64) (CustomForecast, error)
}

// CityLocator resolves a city name to coordinates. Used as an optional
// existence check before persisting an override.
type CityLocator interface {
	Locate(city string) (lat, lon float64, err error)
}
