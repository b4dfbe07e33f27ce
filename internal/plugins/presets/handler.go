package presets

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/almanac/internal/apperror"
)

// Handler serves the preset REST API.
type Handler struct {
	svc PresetService
}

// NewHandler creates a new preset handler.
func NewHandler(svc PresetService) *Handler {
	return &Handler{svc: svc}
}

// List returns summaries of all embedded presets.
// GET /api/v1/presets
func (h *Handler) List(c echo.Context) error {
	presets := h.svc.List()
	return c.JSON(http.StatusOK, map[string]any{
		"data":  presets,
		"total": len(presets),
	})
}

// Get returns the full preset definition.
// GET /api/v1/presets/:id
func (h *Handler) Get(c echo.Context) error {
	p, err := h.svc.Get(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(apperror.SafeCode(err), apperror.SafeMessage(err))
	}
	return c.JSON(http.StatusOK, p)
}

// Instantiate creates a calendar from a preset.
// POST /api/v1/presets/:id/instantiate
func (h *Handler) Instantiate(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	cal, err := h.svc.Instantiate(c.Request().Context(), c.Param("id"), req.Name)
	if err != nil {
		code := apperror.SafeCode(err)
		if code >= 500 {
			slog.Error("api: instantiate preset", slog.Any("error", err))
		}
		return echo.NewHTTPError(code, apperror.SafeMessage(err))
	}
	return c.JSON(http.StatusCreated, cal)
}
