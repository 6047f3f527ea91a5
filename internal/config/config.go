package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig carries all runtime settings, loaded from the environment.
type AppConfig struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	// Outbound provider call policy.
	HTTPTimeout        time.Duration
	ProviderMaxRetries int
	ProviderRetryDelay time.Duration

	// SQLite database path for forecast overrides.
	DBPath string

	// Cache backend: "memory" (default) or "redis".
	CacheBackend string
	RedisAddr    string

	// Optional Google geocoding key; enables the city-existence check on
	// override writes.
	GeocoderAPIKey string

	// Cities whose current weather is refreshed in the background.
	WarmCities   []string
	WarmInterval time.Duration

	Port     string
	LogLevel string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	// Missing .env is fine; the environment may be set by the runtime.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5")

	timeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	cfg.ProviderMaxRetries = getenvInt("PROVIDER_MAX_RETRIES", 3)

	delay, err := getenvDuration("PROVIDER_RETRY_DELAY", "1s")
	if err != nil {
		return nil, err
	}
	cfg.ProviderRetryDelay = delay

	cfg.DBPath = getenvDefault("DB_PATH", "weatherapi.db")

	cfg.CacheBackend = strings.ToLower(getenvDefault("CACHE_BACKEND", "memory"))
	cfg.RedisAddr = getenvDefault("REDIS_ADDR", "localhost:6379")
	if cfg.CacheBackend != "memory" && cfg.CacheBackend != "redis" {
		return nil, fmt.Errorf("invalid CACHE_BACKEND %q: must be memory or redis", cfg.CacheBackend)
	}

	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	cfg.WarmCities = splitList(os.Getenv("WARM_CITIES"))
	warmInterval, err := getenvDuration("WARM_INTERVAL", "15m")
	if err != nil {
		return nil, err
	}
	cfg.WarmInterval = warmInterval

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")

	return cfg, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
