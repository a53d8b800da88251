// Package main provides the Daybook admin API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/daybookhq/daybook/pkg/persistence"
	"github.com/daybookhq/daybook/pkg/scheduler"
	"github.com/daybookhq/daybook/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	processor   *scheduler.Processor
}

func NewAPI(logger *slog.Logger, p persistence.Persistence, processor *scheduler.Processor) *API {
	return &API{
		logger:      logger,
		persistence: p,
		processor:   processor,
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAdminHandlers(a.persistence, a.processor, a.logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Daybook Admin API")
	})

	s := app.Group("/subscriptions")
	s.Get("/stale", handlers.ListStale)
	s.Post("/:id/replay", handlers.ReplaySubscription)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
