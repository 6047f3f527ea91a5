package weather

import (
	"math"
	"time"
)

// CurrentWeather is the shaped current-conditions result for a city.
type CurrentWeather struct {
	Temperature float64 `json:"temperature"`
	LocalTime   string  `json:"local_time"` // HH:MM in the city's local time
}

// ForecastRange holds the daily temperature envelope for a (city, date) pair.
type ForecastRange struct {
	MinTemperature float64 `json:"min_temperature"`
	MaxTemperature float64 `json:"max_temperature"`
}

// CustomForecast is a caller-provided forecast override for a city and date.
// It takes precedence over provider data when resolving forecasts.
type CustomForecast struct {
	City           string    `json:"city"`
	Date           time.Time `json:"date"`
	MinTemperature float64   `json:"min_temperature"`
	MaxTemperature float64   `json:"max_temperature"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Round1 rounds a temperature to one decimal place. All temperatures leave
// the service with this precision.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
