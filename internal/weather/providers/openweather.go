package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/melixz/WeatherAPI/internal/logger"
	"github.com/melixz/WeatherAPI/internal/weather"
)

const isoDateLayout = "2006-01-02"

// OpenWeatherClient implements weather.Provider against the OpenWeatherMap
// data API (/weather and /forecast endpoints).
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	log     *zap.Logger

	// now is swappable in tests to pin the local-time computation.
	now func() time.Time
}

func NewOpenWeatherClient(client *http.Client, apiKey, baseURL string, retry RetryConfig) *OpenWeatherClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Retry:  retry,
		},
		circuit: cb,
		log:     logger.WithModule("openweather"),
		now:     time.Now,
	}
}

// CurrentWeather fetches current conditions for a city. The local time is
// UTC now shifted by the provider-reported UTC offset for that city.
func (c *OpenWeatherClient) CurrentWeather(ctx context.Context, city string) (weather.CurrentWeather, error) {
	resp, err := doRequestWithRetry(ctx, c.httpCfg, c.circuit, c.buildRequest("/weather", city))
	if err != nil {
		return weather.CurrentWeather{}, wrapProviderErr(err)
	}
	defer resp.Body.Close()

	var payload struct {
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Timezone int `json:"timezone"` // UTC offset in seconds
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CurrentWeather{}, wrapProviderErr(err)
	}

	localTime := c.now().UTC().
		Add(time.Duration(payload.Timezone) * time.Second).
		Format("15:04")

	result := weather.CurrentWeather{
		Temperature: weather.Round1(payload.Main.Temp),
		LocalTime:   localTime,
	}

	c.log.Debug("fetched current weather",
		zap.String("city", city),
		zap.Float64("temperature", result.Temperature))
	return result, nil
}

// Forecast fetches the provider's multi-point series (3-hour steps over
// roughly 5 days), filters to points on the requested UTC calendar date,
// and reduces to the min/max temperature.
func (c *OpenWeatherClient) Forecast(ctx context.Context, city string, date time.Time) (weather.ForecastRange, error) {
	resp, err := doRequestWithRetry(ctx, c.httpCfg, c.circuit, c.buildRequest("/forecast", city))
	if err != nil {
		return weather.ForecastRange{}, wrapProviderErr(err)
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp float64 `json:"temp"`
			} `json:"main"`
		} `json:"list"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.ForecastRange{}, wrapProviderErr(err)
	}

	target := date.UTC().Format(isoDateLayout)

	var temps []float64
	for _, point := range payload.List {
		if time.Unix(point.Dt, 0).UTC().Format(isoDateLayout) == target {
			temps = append(temps, point.Main.Temp)
		}
	}

	if len(temps) == 0 {
		return weather.ForecastRange{}, weather.ErrForecastUnavailable.WithMessage(fmt.Sprintf(
			"no forecast available for %s; the provider covers roughly the next 5 days", target))
	}

	minTemp, maxTemp := temps[0], temps[0]
	for _, t := range temps[1:] {
		if t < minTemp {
			minTemp = t
		}
		if t > maxTemp {
			maxTemp = t
		}
	}

	result := weather.ForecastRange{
		MinTemperature: weather.Round1(minTemp),
		MaxTemperature: weather.Round1(maxTemp),
	}

	c.log.Debug("fetched forecast",
		zap.String("city", city),
		zap.String("date", target),
		zap.Int("points", len(temps)))
	return result, nil
}

func (c *OpenWeatherClient) buildRequest(endpoint, city string) func() (*http.Request, error) {
	return func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", city)
		values.Set("units", "metric")
		values.Set("lang", "en")
		values.Set("appid", c.apiKey)

		u := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}
}
