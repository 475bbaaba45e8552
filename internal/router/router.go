package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/BVStecnologia/youtube-monitor/internal/handler"
	"github.com/BVStecnologia/youtube-monitor/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Health  *handler.HealthHandler
	Status  *handler.StatusHandler
	Channel *handler.ChannelHandler
}

// Setup configures the middleware stack and all routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers) {
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())

	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)

	app.Get("/api/status", h.Status.Get)
	app.Get("/api/channels/:id", h.Channel.Get)

	app.Get("/metrics", handler.MetricsHandler())
}
