package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httpapi "github.com/melixz/WeatherAPI/internal/api/http"
	"github.com/melixz/WeatherAPI/internal/cache"
	"github.com/melixz/WeatherAPI/internal/config"
	"github.com/melixz/WeatherAPI/internal/logger"
	"github.com/melixz/WeatherAPI/internal/scheduler"
	"github.com/melixz/WeatherAPI/internal/store"
	"github.com/melixz/WeatherAPI/internal/weather"
	"github.com/melixz/WeatherAPI/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.WithModule("main")

	// Durable store for forecast overrides.
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	forecastStore := store.NewForecastStore(db)
	if err := forecastStore.AutoMigrate(); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	// TTL cache in front of the provider.
	var cacheStore cache.Store
	switch cfg.CacheBackend {
	case "redis":
		redisCache, err := cache.NewRedis(cfg.RedisAddr)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisCache.Close()
		cacheStore = redisCache
	default:
		memCache := cache.NewMemory()
		defer memCache.Close()
		cacheStore = memCache
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewOpenWeatherClient(
		httpClient,
		cfg.OpenWeatherAPIKey,
		cfg.OpenWeatherBaseURL,
		providers.RetryConfig{
			MaxAttempts: cfg.ProviderMaxRetries,
			Delay:       cfg.ProviderRetryDelay,
		},
	)

	var locator weather.CityLocator
	if cfg.GeocoderAPIKey != "" {
		locator = providers.NewGeocoderLocator(cfg.GeocoderAPIKey)
	}

	// Core resolver orchestrating overrides, cache and provider.
	service := weather.NewService(provider, forecastStore, cacheStore, locator)

	// Background cache warmer for configured cities.
	warmer := scheduler.New(cfg.WarmCities, cfg.WarmInterval, service)
	if err := warmer.Start(); err != nil {
		log.Fatal("failed to start cache warmer", zap.Error(err))
	}
	defer warmer.Stop()

	app := httpapi.NewServer(service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("port", cfg.Port))

	// Wait for termination signal.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
}
