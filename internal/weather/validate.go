package weather

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DateLayout is the only accepted inbound date format (day.month.year).
	DateLayout = "02.01.2006"

	cityNameMinLength = 2
	cityNameMaxLength = 100
	maxForecastDays   = 10

	minTemperature = -100.0
	maxTemperature = 100.0
)

var (
	cityNamePattern = regexp.MustCompile(`^[A-Za-z\s\-'.]+$`)
	titleCaser      = cases.Title(language.English)
)

// ValidateCityName checks and normalizes a city name. The result is trimmed,
// has inner whitespace collapsed, and is title-cased so that lookups and
// stored rows share one canonical spelling.
func ValidateCityName(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", NewValidation("city name must not be empty")
	}
	if !cityNamePattern.MatchString(trimmed) {
		return "", NewValidation("city name may only contain latin letters, spaces, hyphens, apostrophes and dots")
	}
	if len(trimmed) < cityNameMinLength {
		return "", NewValidation("city name is too short")
	}
	if len(trimmed) > cityNameMaxLength {
		return "", NewValidation("city name is too long")
	}

	normalized := titleCaser.String(strings.Join(strings.Fields(trimmed), " "))
	return normalized, nil
}

// ParseForecastDate parses an inbound date string and checks it falls within
// the serviceable window: today through today+10 days. The provider itself
// only covers ~5 days ahead; dates past that fail later with a provider
// data error rather than here.
func ParseForecastDate(input string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateLayout, strings.TrimSpace(input), time.UTC)
	if err != nil {
		return time.Time{}, NewValidation("invalid date format, expected dd.MM.yyyy (e.g. 30.06.2025)")
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if parsed.Before(today) {
		return time.Time{}, NewValidation("date must not be in the past")
	}
	if parsed.After(today.AddDate(0, 0, maxForecastDays)) {
		return time.Time{}, NewValidation(fmt.Sprintf("date must be within the next %d days", maxForecastDays))
	}

	return parsed, nil
}

// ValidateTemperatureRange checks both bounds and their ordering.
func ValidateTemperatureRange(minTemp, maxTemp float64) error {
	if minTemp < minTemperature || minTemp > maxTemperature {
		return NewValidation(fmt.Sprintf("min_temperature must be between %.1f and %.1f", minTemperature, maxTemperature))
	}
	if maxTemp < minTemperature || maxTemp > maxTemperature {
		return NewValidation(fmt.Sprintf("max_temperature must be between %.1f and %.1f", minTemperature, maxTemperature))
	}
	if minTemp > maxTemp {
		return NewValidation("min_temperature must not exceed max_temperature")
	}
	return nil
}
