package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melixz/WeatherAPI/internal/cache"
	"github.com/melixz/WeatherAPI/internal/store"
	"github.com/melixz/WeatherAPI/internal/weather"
)

// stubProvider stands in for OpenWeatherMap; err forces the provider path
// to fail so tests can prove overrides bypass it.
type stubProvider struct {
	current  weather.CurrentWeather
	forecast weather.ForecastRange
	err      error
}

func (p *stubProvider) CurrentWeather(context.Context, string) (weather.CurrentWeather, error) {
	if p.err != nil {
		return weather.CurrentWeather{}, p.err
	}
	return p.current, nil
}

func (p *stubProvider) Forecast(context.Context, string, time.Time) (weather.ForecastRange, error) {
	if p.err != nil {
		return weather.ForecastRange{}, p.err
	}
	return p.forecast, nil
}

func newTestApp(t *testing.T, provider weather.Provider) *testApp {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	forecastStore := store.NewForecastStore(db)
	require.NoError(t, forecastStore.AutoMigrate())

	mem := cache.NewMemory()
	t.Cleanup(mem.Close)

	svc := weather.NewService(provider, forecastStore, mem, nil)
	return &testApp{app: NewServer(svc)}
}

type testApp struct {
	app *fiber.App
}

func (a *testApp) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := a.app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format(weather.DateLayout)
}

func TestCurrentWeatherRequiresCity(t *testing.T) {
	app := newTestApp(t, &stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/weather/current", nil)
	resp := app.do(t, req)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCurrentWeatherHappyPath(t *testing.T) {
	app := newTestApp(t, &stubProvider{
		current: weather.CurrentWeather{Temperature: 15.5, LocalTime: "15:00"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/weather/current?city=Moscow", nil)
	resp := app.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got weather.CurrentWeather
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 15.5, got.Temperature)
	assert.Equal(t, "15:00", got.LocalTime)
}

func TestForecastRejectsDateOutsideWindow(t *testing.T) {
	app := newTestApp(t, &stubProvider{})

	farOut := time.Now().AddDate(0, 0, 15).Format(weather.DateLayout)
	req := httptest.NewRequest(http.MethodGet, "/api/weather/forecast?city=Moscow&date="+farOut, nil)
	resp := app.do(t, req)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestForecastUnknownCityIs404(t *testing.T) {
	app := newTestApp(t, &stubProvider{err: weather.ErrCityNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/weather/forecast?city=Nowhereville&date="+tomorrow(), nil)
	resp := app.do(t, req)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProviderOutageIs503(t *testing.T) {
	app := newTestApp(t, &stubProvider{err: weather.ErrProviderUnavailable})

	req := httptest.NewRequest(http.MethodGet, "/api/weather/current?city=Moscow", nil)
	resp := app.do(t, req)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestOverrideRoundTrip(t *testing.T) {
	// Provider always fails; the stored override must be served regardless.
	app := newTestApp(t, &stubProvider{err: weather.ErrProviderUnavailable})
	date := tomorrow()

	body := `{"city":"moscow ","date":"` + date + `","min_temperature":-5.0,"max_temperature":10.0}`
	post := httptest.NewRequest(http.MethodPost, "/api/weather/forecast", strings.NewReader(body))
	post.Header.Set("Content-Type", "application/json")

	resp := app.do(t, post)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	get := httptest.NewRequest(http.MethodGet, "/api/weather/forecast?city=Moscow&date="+date, nil)
	resp = app.do(t, get)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got weather.ForecastRange
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, -5.0, got.MinTemperature)
	assert.Equal(t, 10.0, got.MaxTemperature)
}

func TestOverrideRejectsInvertedRange(t *testing.T) {
	app := newTestApp(t, &stubProvider{})

	body := `{"city":"Moscow","date":"` + tomorrow() + `","min_temperature":10.0,"max_temperature":-5.0}`
	post := httptest.NewRequest(http.MethodPost, "/api/weather/forecast", strings.NewReader(body))
	post.Header.Set("Content-Type", "application/json")

	resp := app.do(t, post)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOverrideRequiresAllFields(t *testing.T) {
	app := newTestApp(t, &stubProvider{})

	post := httptest.NewRequest(http.MethodPost, "/api/weather/forecast",
		strings.NewReader(`{"city":"Moscow"}`))
	post.Header.Set("Content-Type", "application/json")

	resp := app.do(t, post)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthAndInfo(t *testing.T) {
	app := newTestApp(t, &stubProvider{})

	resp := app.do(t, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = app.do(t, httptest.NewRequest(http.MethodGet, "/api/info", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
