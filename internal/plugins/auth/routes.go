package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kunospw/b-log/internal/middleware"
)

// RegisterRoutes sets up all auth routes. Login is rate limited to slow down
// credential stuffing against the single admin account.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	api := e.Group("/api/v1")

	api.POST("/login", h.Login, middleware.RateLimit(10, time.Minute))
	api.POST("/logout", h.Logout)
	api.GET("/me", h.Me, RequireAuth(h.service))
}
