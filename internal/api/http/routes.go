package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/melixz/WeatherAPI/internal/weather"
)

const (
	apiName    = "Weather API"
	apiVersion = "1.0.0"
)

var validate = validator.New()

// NewServer builds the Fiber app with middleware, error mapping and routes.
func NewServer(service *weather.Service) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               apiName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          errorHandler,
	})

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(helmet.New())

	RegisterRoutes(app, service)
	return app
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	api := app.Group("/api")

	api.Get("/weather/current", func(c *fiber.Ctx) error {
		var q currentWeatherQuery
		q.City = c.Query("city")
		if err := validate.Struct(q); err != nil {
			return weather.NewValidation("city query parameter is required")
		}

		result, err := service.CurrentWeather(c.UserContext(), q.City)
		if err != nil {
			return err
		}
		return c.JSON(result)
	})

	api.Get("/weather/forecast", func(c *fiber.Ctx) error {
		var q forecastQuery
		q.City = c.Query("city")
		q.Date = c.Query("date")
		if err := validate.Struct(q); err != nil {
			return weather.NewValidation("city and date query parameters are required")
		}

		result, err := service.Forecast(c.UserContext(), q.City, q.Date)
		if err != nil {
			return err
		}
		return c.JSON(result)
	})

	api.Post("/weather/forecast", func(c *fiber.Ctx) error {
		var req upsertForecastRequest
		if err := c.BodyParser(&req); err != nil {
			return weather.NewValidation("request body must be valid JSON")
		}
		if err := validate.Struct(req); err != nil {
			return weather.NewValidation("city, date, min_temperature and max_temperature are required")
		}

		result, err := service.UpsertOverride(
			c.UserContext(), req.City, req.Date, *req.MinTemperature, *req.MaxTemperature)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(result)
	})

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   apiVersion,
			"services": fiber.Map{
				"database":     "connected",
				"cache":        "available",
				"external_api": "configured",
			},
		})
	})

	api.Get("/info", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"api_name": apiName,
			"version":  apiVersion,
			"endpoints": fiber.Map{
				"current_weather": fiber.Map{
					"url":        "/api/weather/current",
					"method":     "GET",
					"parameters": []string{"city"},
				},
				"forecast": fiber.Map{
					"url":        "/api/weather/forecast",
					"method":     "GET",
					"parameters": []string{"city", "date"},
				},
				"custom_forecast": fiber.Map{
					"url":    "/api/weather/forecast",
					"method": "POST",
					"body":   []string{"city", "date", "min_temperature", "max_temperature"},
				},
			},
		})
	})
}

// errorHandler maps classified weather errors to their HTTP status and a
// uniform error body; everything else becomes an opaque 500.
func errorHandler(c *fiber.Ctx, err error) error {
	var werr *weather.Error
	if errors.As(err, &werr) {
		return c.Status(werr.Status).JSON(fiber.Map{"error": werr.Message})
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return c.Status(ferr.Code).JSON(fiber.Map{"error": ferr.Message})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}

type currentWeatherQuery struct {
	City string `validate:"required"`
}

type forecastQuery struct {
	City string `validate:"required"`
	Date string `validate:"required"`
}

type upsertForecastRequest struct {
	City           string   `json:"city" validate:"required"`
	Date           string   `json:"date" validate:"required"`
	MinTemperature *float64 `json:"min_temperature" validate:"required"`
	MaxTemperature *float64 `json:"max_temperature" validate:"required"`
}
