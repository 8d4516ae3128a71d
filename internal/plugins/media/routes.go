package media

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all media routes. Uploads are admin-only.
func RegisterRoutes(e *echo.Echo, h *Handler, requireAuth echo.MiddlewareFunc) {
	api := e.Group("/api/v1", requireAuth)

	api.POST("/media/upload", h.Upload)
}
