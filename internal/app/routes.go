package app

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/almanac/internal/plugins/calendar"
	"github.com/keyxmakerx/almanac/internal/plugins/presets"
)

// registerPlugins constructs each plugin's repository/service/handler
// chain and registers its routes. Dependencies flow one way: handlers
// depend on services, services on repositories, repositories on the DB.
func (a *App) registerPlugins() error {
	// Calendar plugin: schema storage, conversions, world clock.
	calRepo := calendar.NewCalendarRepository(a.DB)
	calCache := calendar.NewSchemaCache(a.Redis, a.Config.Cache.SchemaTTL)
	calSvc := calendar.NewCalendarService(calRepo, calCache)
	calendar.RegisterRoutes(a.Echo, calendar.NewHandler(calSvc))
	a.CalendarService = calSvc

	// Presets plugin: embedded ready-made calendars.
	presetSvc, err := presets.NewPresetService(calSvc)
	if err != nil {
		return fmt.Errorf("initializing presets: %w", err)
	}
	presets.RegisterRoutes(a.Echo, presets.NewHandler(presetSvc))

	// Health check for container orchestration.
	a.Echo.GET("/healthz", func(c echo.Context) error {
		if err := a.DB.PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return nil
}
