package presets

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all preset API routes under /api/v1/presets.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/v1/presets")

	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/instantiate", h.Instantiate)
}
