package calendar

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all calendar API routes under /api/v1/calendars.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/v1/calendars")

	// Calendar CRUD.
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)

	// Schema sub-resources (replace all).
	g.PUT("/:id/months", h.SetMonths)
	g.PUT("/:id/weekdays", h.SetWeekdays)
	g.PUT("/:id/intercalary", h.SetIntercalary)
	g.PUT("/:id/seasons", h.SetSeasons)
	g.PUT("/:id/solar-anchors", h.SetSolarAnchors)

	// Conversions and lookups.
	g.GET("/:id/date", h.GetCurrentDate)
	g.GET("/:id/convert", h.ConvertWorldTime)
	g.POST("/:id/convert-date", h.ConvertDate)
	g.GET("/:id/season", h.GetSeason)
	g.GET("/:id/solar", h.GetSolar)
	g.GET("/:id/weekday", h.GetWeekday)

	// World clock.
	g.POST("/:id/advance", h.Advance)
	g.PUT("/:id/worldtime", h.SetWorldTime)
	g.POST("/:id/clock/start", h.StartClock)
	g.POST("/:id/clock/stop", h.StopClock)
}
