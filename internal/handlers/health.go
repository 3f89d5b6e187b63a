package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	startTime time.Time
	recorder  string
}

func NewHealthHandler(recorder string) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		recorder:  recorder,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "varcvar-api",
		"version": Version,
		"uptime":  time.Since(h.startTime).String(),
		"time":    time.Now(),
	})
}

// Ready handles GET /health/ready
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ready",
		"checks": fiber.Map{
			"api":      "ok",
			"recorder": h.recorder,
		},
	})
}
