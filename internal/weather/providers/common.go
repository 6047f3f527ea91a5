package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/melixz/WeatherAPI/internal/weather"
)

// RetryConfig controls the retry loop around a single logical provider call.
// Backoff is linear: Delay * attempt number between attempts.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// HTTPClientConfig bundles the HTTP client and retry settings.
type HTTPClientConfig struct {
	Client *http.Client
	Retry  RetryConfig
}

var (
	errServerError   = errors.New("server error")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid retry configuration")
)

// doRequestWithRetry executes the HTTP request with bounded retries, linear
// backoff, and a circuit breaker per attempt.
//
// Timeouts, connection failures and 5xx responses are retried. 4xx responses
// are classified and surfaced immediately: 404 means the city does not exist,
// 401 a bad API key, 429 a provider rate limit. Exhausted retries and an open
// breaker both surface as weather.ErrProviderUnavailable.
func doRequestWithRetry(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Retry.MaxAttempts < 1 || cfg.Retry.Delay <= 0 {
		return nil, errInvalidConfig
	}

	var lastErr error

	for attempt := 1; attempt <= cfg.Retry.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := cfg.Client.Do(req)
			if execErr != nil {
				return nil, execErr
			}

			// Only transport failures and 5xx count against the breaker;
			// client errors are classified by the caller below.
			if resp.StatusCode >= 500 {
				resp.Body.Close()
				return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
			}
			return resp, nil
		})

		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}

			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return resp, nil
			}

			resp.Body.Close()
			switch resp.StatusCode {
			case http.StatusNotFound:
				return nil, weather.ErrCityNotFound
			case http.StatusUnauthorized:
				return nil, weather.ErrProviderAuth
			case http.StatusTooManyRequests:
				return nil, weather.ErrRateLimited
			default:
				return nil, weather.ErrProviderUnavailable.WithCause(
					fmt.Errorf("unexpected status code: %d", resp.StatusCode))
			}
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, weather.ErrProviderUnavailable.WithCause(err)
		}

		lastErr = err
		if attempt == cfg.Retry.MaxAttempts {
			break
		}

		// No wait after the final attempt.
		timer := time.NewTimer(cfg.Retry.Delay * time.Duration(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, weather.ErrProviderUnavailable.WithCause(lastErr)
}

// wrapProviderErr classifies unexpected failures as provider unavailability
// while letting already-classified errors (city not found in particular)
// propagate unchanged.
func wrapProviderErr(err error) error {
	var werr *weather.Error
	if errors.As(err, &werr) {
		return err
	}
	return weather.ErrProviderUnavailable.WithCause(err)
}
