package calendar

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/almanac/internal/apperror"
)

// Handler serves the calendar REST API. All responses are JSON; errors
// go through apperror so internal details never leak to the client.
type Handler struct {
	svc CalendarService
}

// NewHandler creates a new calendar handler.
func NewHandler(svc CalendarService) *Handler {
	return &Handler{svc: svc}
}

// httpError converts a service error into an echo HTTP error, logging
// internals for anything that maps to a 500.
func httpError(err error, op string) error {
	code := apperror.SafeCode(err)
	if code >= 500 {
		slog.Error("api: "+op, slog.Any("error", err))
	}
	return echo.NewHTTPError(code, apperror.SafeMessage(err))
}

// calendarRequest is the JSON body for creating or updating a calendar.
type calendarRequest struct {
	Name            string   `json:"name"`
	Description     *string  `json:"description"`
	FirstWeekday    int      `json:"first_weekday"`
	LeapMode        string   `json:"leap_mode"`
	LeapInterval    int      `json:"leap_interval"`
	LeapMonth       int      `json:"leap_month"`
	LeapExtraDays   int      `json:"leap_extra_days"`
	WorldTimeMode   string   `json:"world_time_mode"`
	EpochYear       int      `json:"epoch_year"`
	CurrentYear     int      `json:"current_year"`
	WorldCreation   *float64 `json:"world_creation"`
	HoursInDay      int      `json:"hours_in_day"`
	MinutesInHour   int      `json:"minutes_in_hour"`
	SecondsInMinute int      `json:"seconds_in_minute"`
}

// --- Calendar CRUD ---

// Create creates a new calendar.
// POST /api/v1/calendars
func (h *Handler) Create(c echo.Context) error {
	var req calendarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	cal, err := h.svc.CreateCalendar(c.Request().Context(), CreateCalendarInput{
		Name:            req.Name,
		Description:     req.Description,
		FirstWeekday:    req.FirstWeekday,
		LeapMode:        req.LeapMode,
		LeapInterval:    req.LeapInterval,
		LeapMonth:       req.LeapMonth,
		LeapExtraDays:   req.LeapExtraDays,
		WorldTimeMode:   req.WorldTimeMode,
		EpochYear:       req.EpochYear,
		CurrentYear:     req.CurrentYear,
		WorldCreation:   req.WorldCreation,
		HoursInDay:      req.HoursInDay,
		MinutesInHour:   req.MinutesInHour,
		SecondsInMinute: req.SecondsInMinute,
	})
	if err != nil {
		return httpError(err, "create calendar")
	}
	return c.JSON(http.StatusCreated, cal)
}

// List returns all calendars (without sub-resources).
// GET /api/v1/calendars
func (h *Handler) List(c echo.Context) error {
	cals, err := h.svc.ListCalendars(c.Request().Context())
	if err != nil {
		return httpError(err, "list calendars")
	}
	if cals == nil {
		cals = []Calendar{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":  cals,
		"total": len(cals),
	})
}

// Get returns the full calendar definition with all sub-resources.
// GET /api/v1/calendars/:id
func (h *Handler) Get(c echo.Context) error {
	cal, err := h.svc.GetCalendar(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err, "get calendar")
	}
	return c.JSON(http.StatusOK, cal)
}

// Update replaces the calendar's flat settings.
// PUT /api/v1/calendars/:id
func (h *Handler) Update(c echo.Context) error {
	var req calendarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	err := h.svc.UpdateCalendar(c.Request().Context(), c.Param("id"), UpdateCalendarInput{
		Name:            req.Name,
		Description:     req.Description,
		FirstWeekday:    req.FirstWeekday,
		LeapMode:        req.LeapMode,
		LeapInterval:    req.LeapInterval,
		LeapMonth:       req.LeapMonth,
		LeapExtraDays:   req.LeapExtraDays,
		WorldTimeMode:   req.WorldTimeMode,
		EpochYear:       req.EpochYear,
		CurrentYear:     req.CurrentYear,
		WorldCreation:   req.WorldCreation,
		HoursInDay:      req.HoursInDay,
		MinutesInHour:   req.MinutesInHour,
		SecondsInMinute: req.SecondsInMinute,
	})
	if err != nil {
		return httpError(err, "update calendar")
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a calendar and all its data.
// DELETE /api/v1/calendars/:id
func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.DeleteCalendar(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err, "delete calendar")
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Sub-resource replace-alls ---

// SetMonths replaces the calendar's months.
// PUT /api/v1/calendars/:id/months
func (h *Handler) SetMonths(c echo.Context) error {
	var months []MonthInput
	if err := c.Bind(&months); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.SetMonths(c.Request().Context(), c.Param("id"), months); err != nil {
		return httpError(err, "set months")
	}
	return c.NoContent(http.StatusNoContent)
}

// SetWeekdays replaces the calendar's weekdays.
// PUT /api/v1/calendars/:id/weekdays
func (h *Handler) SetWeekdays(c echo.Context) error {
	var weekdays []WeekdayInput
	if err := c.Bind(&weekdays); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.SetWeekdays(c.Request().Context(), c.Param("id"), weekdays); err != nil {
		return httpError(err, "set weekdays")
	}
	return c.NoContent(http.StatusNoContent)
}

// SetIntercalary replaces the calendar's intercalary days.
// PUT /api/v1/calendars/:id/intercalary
func (h *Handler) SetIntercalary(c echo.Context) error {
	var days []IntercalaryInput
	if err := c.Bind(&days); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.SetIntercalary(c.Request().Context(), c.Param("id"), days); err != nil {
		return httpError(err, "set intercalary")
	}
	return c.NoContent(http.StatusNoContent)
}

// SetSeasons replaces the calendar's seasons.
// PUT /api/v1/calendars/:id/seasons
func (h *Handler) SetSeasons(c echo.Context) error {
	var seasons []SeasonInput
	if err := c.Bind(&seasons); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.SetSeasons(c.Request().Context(), c.Param("id"), seasons); err != nil {
		return httpError(err, "set seasons")
	}
	return c.NoContent(http.StatusNoContent)
}

// SetSolarAnchors replaces the calendar's solar anchors.
// PUT /api/v1/calendars/:id/solar-anchors
func (h *Handler) SetSolarAnchors(c echo.Context) error {
	var anchors []SolarAnchorInput
	if err := c.Bind(&anchors); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.SetSolarAnchors(c.Request().Context(), c.Param("id"), anchors); err != nil {
		return httpError(err, "set solar anchors")
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Conversions ---

// GetCurrentDate renders the calendar's current world time as a date.
// GET /api/v1/calendars/:id/date
func (h *Handler) GetCurrentDate(c echo.Context) error {
	info, err := h.svc.CurrentDate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err, "current date")
	}
	return c.JSON(http.StatusOK, info)
}

// ConvertWorldTime converts an arbitrary world time to a date.
// GET /api/v1/calendars/:id/convert?worldtime=N[&creation=TS]
func (h *Handler) ConvertWorldTime(c echo.Context) error {
	worldTime, err := strconv.ParseInt(c.QueryParam("worldtime"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "worldtime must be an integer")
	}

	var creation *float64
	if raw := c.QueryParam("creation"); raw != "" {
		ts, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "creation must be a number")
		}
		creation = &ts
	}

	info, err := h.svc.WorldTimeToDate(c.Request().Context(), c.Param("id"), worldTime, creation)
	if err != nil {
		return httpError(err, "convert world time")
	}
	return c.JSON(http.StatusOK, info)
}

// ConvertDate converts a structured date back to world time.
// POST /api/v1/calendars/:id/convert-date
func (h *Handler) ConvertDate(c echo.Context) error {
	var input ConvertDateInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	wt, err := h.svc.DateToWorldTime(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return httpError(err, "convert date")
	}
	return c.JSON(http.StatusOK, map[string]any{"world_time": wt})
}

// dateQuery reads the year/month/day query params common to lookups.
func dateQuery(c echo.Context) (year, month, day int, err error) {
	year, err = strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return 0, 0, 0, echo.NewHTTPError(http.StatusBadRequest, "year must be an integer")
	}
	month, err = strconv.Atoi(c.QueryParam("month"))
	if err != nil {
		return 0, 0, 0, echo.NewHTTPError(http.StatusBadRequest, "month must be an integer")
	}
	day, err = strconv.Atoi(c.QueryParam("day"))
	if err != nil {
		return 0, 0, 0, echo.NewHTTPError(http.StatusBadRequest, "day must be an integer")
	}
	return year, month, day, nil
}

// GetSeason resolves the season for a date.
// GET /api/v1/calendars/:id/season?year=Y&month=M&day=D
func (h *Handler) GetSeason(c echo.Context) error {
	year, month, day, err := dateQuery(c)
	if err != nil {
		return err
	}
	season, err := h.svc.SeasonAt(c.Request().Context(), c.Param("id"), year, month, day)
	if err != nil {
		return httpError(err, "resolve season")
	}
	return c.JSON(http.StatusOK, season)
}

// GetSolar computes sunrise and sunset for a date.
// GET /api/v1/calendars/:id/solar?year=Y&month=M&day=D
func (h *Handler) GetSolar(c echo.Context) error {
	year, month, day, err := dateQuery(c)
	if err != nil {
		return err
	}
	solar, err := h.svc.SolarAt(c.Request().Context(), c.Param("id"), year, month, day)
	if err != nil {
		return httpError(err, "compute solar times")
	}
	return c.JSON(http.StatusOK, solar)
}

// GetWeekday returns the weekday for a date.
// GET /api/v1/calendars/:id/weekday?year=Y&month=M&day=D
func (h *Handler) GetWeekday(c echo.Context) error {
	year, month, day, err := dateQuery(c)
	if err != nil {
		return err
	}
	wd, err := h.svc.WeekdayAt(c.Request().Context(), c.Param("id"), year, month, day)
	if err != nil {
		return httpError(err, "resolve weekday")
	}
	return c.JSON(http.StatusOK, wd)
}

// --- World clock ---

// Advance moves the calendar's world time by a relative amount.
// POST /api/v1/calendars/:id/advance
func (h *Handler) Advance(c echo.Context) error {
	var input AdvanceInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	info, err := h.svc.AdvanceTime(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return httpError(err, "advance time")
	}
	return c.JSON(http.StatusOK, info)
}

// SetWorldTime sets the calendar's world time to an absolute value.
// PUT /api/v1/calendars/:id/worldtime
func (h *Handler) SetWorldTime(c echo.Context) error {
	var req struct {
		WorldTime int64 `json:"world_time"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	info, err := h.svc.SetWorldTime(c.Request().Context(), c.Param("id"), req.WorldTime)
	if err != nil {
		return httpError(err, "set world time")
	}
	return c.JSON(http.StatusOK, info)
}

// StartClock starts the calendar's background world clock.
// POST /api/v1/calendars/:id/clock/start
func (h *Handler) StartClock(c echo.Context) error {
	var req struct {
		Ratio float64 `json:"ratio"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.StartClock(c.Request().Context(), c.Param("id"), req.Ratio); err != nil {
		return httpError(err, "start clock")
	}
	return c.NoContent(http.StatusNoContent)
}

// StopClock stops the calendar's background world clock.
// POST /api/v1/calendars/:id/clock/stop
func (h *Handler) StopClock(c echo.Context) error {
	if err := h.svc.StopClock(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err, "stop clock")
	}
	return c.NoContent(http.StatusNoContent)
}
