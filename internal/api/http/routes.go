package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/parkmon/swiss-parking-monitor/internal/parking"
	"github.com/parkmon/swiss-parking-monitor/internal/store"
)

var validate = validator.New()

// LatestReader serves the most recent snapshot per city.
type LatestReader interface {
	GetLatest(city string) (parking.Snapshot, error)
}

// CityLister exposes the configured city registry.
type CityLister interface {
	Cities() []parking.City
}

type latestQuery struct {
	City string `query:"city" validate:"required"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, cities CityLister, latest LatestReader) {
	v1 := app.Group("/api/v1")

	v1.Get("/cities", func(c *fiber.Ctx) error {
		type cityInfo struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Enabled bool   `json:"enabled"`
			Adapter string `json:"adapter"`
		}

		out := make([]cityInfo, 0)
		for _, city := range cities.Cities() {
			out = append(out, cityInfo{
				ID:      city.ID,
				Name:    city.Name,
				Enabled: city.Enabled,
				Adapter: city.Adapter,
			})
		}
		return c.JSON(fiber.Map{"cities": out})
	})

	v1.Get("/parking/latest", func(c *fiber.Ctx) error {
		var req latestQuery
		if err := c.QueryParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshot, err := latest.GetLatest(req.City)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no parking data for requested city")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch parking data")
		}

		return c.JSON(snapshot)
	})
}
