package handler

import (
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves liveness endpoints that never touch the database or
// any external adapter, so they stay accurate during an outage of either.
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a new HealthHandler. startedAt should be captured
// once at process startup so uptime reflects the running process, not the
// request.
func NewHealthHandler(startedAt time.Time) *HealthHandler {
	return &HealthHandler{startedAt: startedAt}
}

// healthResponse is the /health payload.
type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}

// Health handles GET /health
//
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} healthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(200, healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
	})
}

// Ping handles GET /ping
//
// @Summary Minimal liveness check
// @Tags health
// @Produce plain
// @Success 200 {string} string "pong"
// @Router /ping [get]
func (h *HealthHandler) Ping(c echo.Context) error {
	return c.String(200, "pong")
}
