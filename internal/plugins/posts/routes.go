package posts

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all post routes. Reads are public; every
// state-changing route requires an authenticated admin session via the
// provided middleware.
func RegisterRoutes(e *echo.Echo, h *Handler, requireAuth echo.MiddlewareFunc) {
	api := e.Group("/api/v1")

	// Public reads.
	api.GET("/posts", h.List)
	api.GET("/posts/:id", h.Get)
	api.GET("/tags", h.Tags)

	// Admin writes.
	admin := api.Group("", requireAuth)
	admin.POST("/posts", h.Create)
	admin.PUT("/posts/:id", h.Update)
	admin.DELETE("/posts/:id", h.Delete)
}
