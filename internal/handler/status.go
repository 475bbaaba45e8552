package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/BVStecnologia/youtube-monitor/internal/service"
)

// StatusHandler exposes the last run of each pipeline stage.
type StatusHandler struct {
	tracker *service.StatusTracker
}

func NewStatusHandler(tracker *service.StatusTracker) *StatusHandler {
	return &StatusHandler{tracker: tracker}
}

// Get handles GET /api/status.
func (h *StatusHandler) Get(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"stages": h.tracker.Snapshot()})
}
