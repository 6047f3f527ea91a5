package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/melixz/WeatherAPI/internal/weather"
)

const dateLayout = "2006-01-02"

// CustomForecast is the persisted override row. City is stored in its
// normalized (title-cased) form; the unique index on (city, date) backs the
// atomic upsert.
type CustomForecast struct {
	ID             uint    `gorm:"primaryKey"`
	City           string  `gorm:"size:100;not null;uniqueIndex:idx_custom_forecasts_city_date,priority:1"`
	Date           string  `gorm:"size:10;not null;uniqueIndex:idx_custom_forecasts_city_date,priority:2;index"`
	MinTemperature float64 `gorm:"not null"`
	MaxTemperature float64 `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ForecastStore is the gorm-backed implementation of weather.OverrideStore.
type ForecastStore struct {
	db *gorm.DB
}

// NewForecastStore wraps an open database handle. Call AutoMigrate before
// first use.
func NewForecastStore(db *gorm.DB) *ForecastStore {
	return &ForecastStore{db: db}
}

// AutoMigrate creates or updates the custom_forecasts schema.
func (s *ForecastStore) AutoMigrate() error {
	return s.db.AutoMigrate(&CustomForecast{})
}

// Get returns the override for (city, date). City matching is
// case-insensitive. Returns weather.ErrNoOverride when absent.
func (s *ForecastStore) Get(ctx context.Context, city string, date time.Time) (weather.CustomForecast, error) {
	var rec CustomForecast
	err := s.db.WithContext(ctx).
		Where("LOWER(city) = LOWER(?) AND date = ?", city, date.Format(dateLayout)).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return weather.CustomForecast{}, weather.ErrNoOverride
	}
	if err != nil {
		return weather.CustomForecast{}, err
	}
	return rec.toDomain()
}

// Upsert atomically creates or replaces the override for (city, date).
// The unique index resolves concurrent writers to a single row with the
// last writer's temperatures. An upsert the database cannot resolve
// surfaces as weather.ErrConflict so the caller may retry.
func (s *ForecastStore) Upsert(ctx context.Context, city string, date time.Time, minTemp, maxTemp float64) (weather.CustomForecast, error) {
	rec := CustomForecast{
		City:           city,
		Date:           date.Format(dateLayout),
		MinTemperature: minTemp,
		MaxTemperature: maxTemp,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "city"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"min_temperature", "max_temperature", "updated_at"}),
		}).
		Create(&rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return weather.CustomForecast{}, weather.ErrConflict.WithCause(err)
	}
	if err != nil {
		return weather.CustomForecast{}, err
	}

	return s.Get(ctx, city, date)
}

func (r CustomForecast) toDomain() (weather.CustomForecast, error) {
	parsed, err := time.ParseInLocation(dateLayout, r.Date, time.UTC)
	if err != nil {
		return weather.CustomForecast{}, err
	}
	return weather.CustomForecast{
		City:           r.City,
		Date:           parsed,
		MinTemperature: r.MinTemperature,
		MaxTemperature: r.MaxTemperature,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}, nil
}
