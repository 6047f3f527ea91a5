package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/melixz/WeatherAPI/internal/cache"
	"github.com/melixz/WeatherAPI/internal/logger"
)

const isoDate = "2006-01-02"

// Service resolves weather lookups: stored overrides win for forecasts,
// otherwise the provider is consulted through a read-through TTL cache.
type Service struct {
	provider  Provider
	overrides OverrideStore
	cache     cache.Store
	locator   CityLocator // optional; nil disables the existence check
	log       *zap.Logger
}

// NewService constructs a Service with its collaborators injected.
// locator may be nil.
func NewService(provider Provider, overrides OverrideStore, cacheStore cache.Store, locator CityLocator) *Service {
	return &Service{
		provider:  provider,
		overrides: overrides,
		cache:     cacheStore,
		locator:   locator,
		log:       logger.WithModule("weather"),
	}
}

// CurrentWeather returns the current conditions for a city. Overrides never
// apply here; the flow is cache then provider.
func (s *Service) CurrentWeather(ctx context.Context, city string) (CurrentWeather, error) {
	city, err := ValidateCityName(city)
	if err != nil {
		return CurrentWeather{}, err
	}

	key := cache.KeyCurrent(city)

	var cached CurrentWeather
	if s.cacheGet(ctx, key, &cached) {
		s.log.Debug("current weather cache hit", zap.String("city", city))
		return cached, nil
	}

	result, err := s.provider.CurrentWeather(ctx, city)
	if err != nil {
		return CurrentWeather{}, err
	}

	s.cacheSet(ctx, key, result, cache.TTLCurrentWeather)
	return result, nil
}

// Forecast returns the min/max temperatures for (city, date). A stored
// override wins outright and bypasses both cache and provider; otherwise the
// provider result is served through the cache.
func (s *Service) Forecast(ctx context.Context, city, dateStr string) (ForecastRange, error) {
	city, err := ValidateCityName(city)
	if err != nil {
		return ForecastRange{}, err
	}
	date, err := ParseForecastDate(dateStr)
	if err != nil {
		return ForecastRange{}, err
	}

	override, err := s.overrides.Get(ctx, city, date)
	switch {
	case err == nil:
		s.log.Debug("serving forecast override",
			zap.String("city", city),
			zap.String("date", date.Format(isoDate)))
		return ForecastRange{
			MinTemperature: Round1(override.MinTemperature),
			MaxTemperature: Round1(override.MaxTemperature),
		}, nil
	case !errors.Is(err, ErrNoOverride):
		return ForecastRange{}, fmt.Errorf("override lookup failed: %w", err)
	}

	key := cache.KeyForecast(city, date.Format(isoDate))

	var cached ForecastRange
	if s.cacheGet(ctx, key, &cached) {
		s.log.Debug("forecast cache hit", zap.String("key", key))
		return cached, nil
	}

	result, err := s.provider.Forecast(ctx, city, date)
	if err != nil {
		return ForecastRange{}, err
	}

	s.cacheSet(ctx, key, result, cache.TTLForecast)
	return result, nil
}

// UpsertOverride validates and persists a custom forecast for (city, date).
// The cache is deliberately left alone: subsequent forecast reads prefer the
// override before ever consulting the cache.
func (s *Service) UpsertOverride(ctx context.Context, city, dateStr string, minTemp, maxTemp float64) (ForecastRange, error) {
	city, err := ValidateCityName(city)
	if err != nil {
		return ForecastRange{}, err
	}
	date, err := ParseForecastDate(dateStr)
	if err != nil {
		return ForecastRange{}, err
	}
	if err := ValidateTemperatureRange(minTemp, maxTemp); err != nil {
		return ForecastRange{}, err
	}

	if s.locator != nil {
		if _, _, err := s.locator.Locate(city); err != nil {
			s.log.Warn("city lookup failed", zap.String("city", city), zap.Error(err))
			return ForecastRange{}, ErrCityNotFound.WithMessage(
				"city could not be located; check the spelling")
		}
	}

	stored, err := s.overrides.Upsert(ctx, city, date, minTemp, maxTemp)
	if errors.Is(err, ErrConflict) {
		// A lost upsert race; one retry resolves it to last-writer-wins.
		stored, err = s.overrides.Upsert(ctx, city, date, minTemp, maxTemp)
	}
	if err != nil {
		return ForecastRange{}, err
	}

	s.log.Info("custom forecast stored",
		zap.String("city", city),
		zap.String("date", date.Format(isoDate)))

	return ForecastRange{
		MinTemperature: Round1(stored.MinTemperature),
		MaxTemperature: Round1(stored.MaxTemperature),
	}, nil
}

// cacheGet is best-effort: cache failures are logged and treated as misses.
func (s *Service) cacheGet(ctx context.Context, key string, out any) bool {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.log.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Service) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.log.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, raw, ttl); err != nil {
		s.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}
