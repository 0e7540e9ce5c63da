package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/temperature-capture/internal/scheduler"
	"github.com/i474232898/temperature-capture/internal/weather"
)

// StatusSource reports the outcome of the latest capture run.
type StatusSource interface {
	LastRun() (scheduler.RunStatus, bool)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, status StatusSource) {
	app.Get("/health", func(c *fiber.Ctx) error {
		resp := fiber.Map{
			"status":  "ok",
			"service": "temperature-capture",
		}
		if last, ok := status.LastRun(); ok {
			resp["last_state"] = last.State
			if last.State == weather.StateFailed {
				resp["status"] = "degraded"
			}
		}
		return c.JSON(resp)
	})

	v1 := app.Group("/api/v1")

	v1.Get("/runs/last", func(c *fiber.Ctx) error {
		last, ok := status.LastRun()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no capture run has finished yet")
		}
		return c.JSON(last)
	})
}
