package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/BVStecnologia/youtube-monitor/internal/middleware"
	"github.com/BVStecnologia/youtube-monitor/internal/model"
	"github.com/BVStecnologia/youtube-monitor/internal/service"
)

type ChannelHandler struct {
	svc *service.ChannelStatusService
}

func NewChannelHandler(svc *service.ChannelStatusService) *ChannelHandler {
	return &ChannelHandler{svc: svc}
}

// Get handles GET /api/channels/:id
func (h *ChannelHandler) Get(c fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "id must be a positive integer")
	}

	status, err := h.svc.Lookup(c.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Channel not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to lookup channel")
	}

	return c.JSON(status)
}
