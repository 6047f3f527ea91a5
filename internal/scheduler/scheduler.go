// Package scheduler keeps the current-weather cache warm for a configured
// set of cities so their lookups are served without waiting on the provider.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/melixz/WeatherAPI/internal/logger"
	"github.com/melixz/WeatherAPI/internal/weather"
)

// Warmer periodically refreshes current weather for the configured cities
// through the resolver, which repopulates the cache as a side effect.
type Warmer struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	cities    []string
	interval  time.Duration
	log       *zap.Logger
}

// New creates a Warmer.
func New(cities []string, interval time.Duration, service *weather.Service) *Warmer {
	return &Warmer{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		cities:    cities,
		interval:  interval,
		log:       logger.WithModule("warmer"),
	}
}

// Start schedules the periodic warm job and starts the underlying scheduler.
func (w *Warmer) Start() error {
	if len(w.cities) == 0 {
		w.log.Info("no cities configured; cache warming disabled")
		return nil
	}

	minutes := int(w.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := w.scheduler.Every(minutes).Minutes().Do(func() {
		var wg sync.WaitGroup
		for _, city := range w.cities {
			city := city
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if _, err := w.service.CurrentWeather(ctx, city); err != nil {
					w.log.Warn("cache warm failed", zap.String("city", city), zap.Error(err))
				}
			}()
		}
		wg.Wait()
		w.log.Debug("cache warm cycle completed", zap.Int("cities", len(w.cities)))
	})
	if err != nil {
		return err
	}

	w.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (w *Warmer) Stop() {
	if w.scheduler != nil {
		w.scheduler.Stop()
	}
}
