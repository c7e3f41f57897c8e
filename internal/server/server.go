// Package server assembles the Fiber application serving both beer API surfaces.
package server

import (
	"time"

	"brewery/internal/handlers"
	"brewery/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

const AppName = "brewery"

// New returns an app with the v1 controller under /api/v1, the v2 route table
// under /api/v2 and a health check. requestTimeout <= 0 disables the per-request deadline.
func New(handler *handlers.BeerHandler, log zerolog.Logger, requestTimeout time.Duration) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               AppName,
		ErrorHandler:          handlers.ErrorHandler(log),
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.AccessLog(log))
	app.Use(recover.New())
	app.Use(middleware.Deadline(requestTimeout))

	app.Get("/health", Health)

	apiV1 := app.Group("/api/v1")
	handlers.NewBeerControllerV1(handler).RegisterRoutes(apiV1)

	handlers.NewBeerRouterV2(handler).Mount(app)

	return app
}

// Health reports liveness.
func Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
