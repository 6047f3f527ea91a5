package weather

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCityName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "simple city", input: "Moscow", want: "Moscow"},
		{name: "lowercase is title-cased", input: "moscow", want: "Moscow"},
		{name: "uppercase is title-cased", input: "LONDON", want: "London"},
		{name: "surrounding whitespace trimmed", input: "  Amsterdam  ", want: "Amsterdam"},
		{name: "inner whitespace collapsed", input: "new   york", want: "New York"},
		{name: "hyphens allowed", input: "Rostov-on-Don", want: "Rostov-On-Don"},
		{name: "apostrophes and dots allowed", input: "St. John's", want: "St. John's"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "digits rejected", input: "City17", wantErr: true},
		{name: "cyrillic rejected", input: "Москва", wantErr: true},
		{name: "too short", input: "A", wantErr: true},
		{name: "too long", input: strings.Repeat("a", 101), wantErr: true},
		{name: "max length accepted", input: strings.Repeat("a", 100), want: "A" + strings.Repeat("a", 99)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateCityName(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseForecastDate(t *testing.T) {
	today := time.Now()
	format := func(t time.Time) string { return t.Format(DateLayout) }

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "today", input: format(today)},
		{name: "tomorrow", input: format(today.AddDate(0, 0, 1))},
		{name: "window boundary", input: format(today.AddDate(0, 0, 10))},
		{name: "yesterday rejected", input: format(today.AddDate(0, 0, -1)), wantErr: true},
		{name: "eleven days out rejected", input: format(today.AddDate(0, 0, 11)), wantErr: true},
		{name: "fifteen days out rejected", input: format(today.AddDate(0, 0, 15)), wantErr: true},
		{name: "iso format rejected", input: today.Format("2006-01-02"), wantErr: true},
		{name: "garbage rejected", input: "not-a-date", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseForecastDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, got.Format(DateLayout))
		})
	}
}

func TestValidateTemperatureRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		wantErr  bool
	}{
		{name: "ordered range", min: -5.0, max: 10.0},
		{name: "equal bounds", min: 3.5, max: 3.5},
		{name: "full range", min: -100.0, max: 100.0},
		{name: "min above max", min: 10.0, max: -5.0, wantErr: true},
		{name: "min below floor", min: -100.1, max: 0, wantErr: true},
		{name: "max above ceiling", min: 0, max: 100.1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTemperatureRange(tt.min, tt.max)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestErrorClassification(t *testing.T) {
	wrapped := ErrProviderUnavailable.WithCause(errors.New("dial tcp: timeout"))
	assert.ErrorIs(t, wrapped, ErrProviderUnavailable)
	assert.NotErrorIs(t, wrapped, ErrCityNotFound)

	custom := ErrCityNotFound.WithMessage("no such place")
	assert.ErrorIs(t, custom, ErrCityNotFound)
	assert.Equal(t, "no such place", custom.Message)
}
