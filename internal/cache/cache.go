package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// TTLs for the two cached endpoint kinds.
const (
	TTLCurrentWeather = 5 * time.Minute
	TTLForecast       = time.Hour
)

// Store is a best-effort TTL key/value cache. Losing entries is always safe;
// a miss simply triggers a refetch from the provider.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// KeyCurrent builds the cache key for a city's current weather.
func KeyCurrent(city string) string {
	return fmt.Sprintf("weather_current_%s", strings.ToLower(city))
}

// KeyForecast builds the cache key for a city's forecast on an ISO date.
// The endpoint kind in the prefix keeps current/forecast entries from
// colliding for the same city.
func KeyForecast(city, date string) string {
	return fmt.Sprintf("weather_forecast_%s_%s", strings.ToLower(city), date)
}
