package ai

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kunospw/b-log/internal/middleware"
)

// RegisterRoutes sets up all AI routes. Both endpoints are admin-only and
// rate limited; each call costs upstream API quota.
func RegisterRoutes(e *echo.Echo, h *Handler, requireAuth echo.MiddlewareFunc) {
	api := e.Group("/api/v1/ai", requireAuth, middleware.RateLimit(20, time.Minute))

	api.POST("/generate", h.Generate)
	api.POST("/summarize", h.Summarize)
}
