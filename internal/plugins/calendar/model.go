// Package calendar provides the calendar plugin: persistence and business
// logic for fully custom calendar schemas (arbitrary months, weekdays,
// leap rules, intercalary days, seasons, solar anchors) plus the world
// clock that maps an absolute second count onto structured dates. The
// conversion math itself lives in internal/engine; this package owns
// storage, caching, and the HTTP surface.
package calendar

import (
	"time"

	"github.com/keyxmakerx/almanac/internal/engine"
)

// Calendar is the top-level persisted calendar definition. The flat
// config columns plus the sub-resource slices together describe one
// engine schema; Schema() performs that assembly.
type Calendar struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`

	// Weekday index of year 0, month 1, day 1.
	FirstWeekday int `json:"first_weekday"`

	// Leap rule configuration. Mode is "none", "gregorian" or "custom".
	LeapMode      string `json:"leap_mode"`
	LeapInterval  int    `json:"leap_interval"`
	LeapMonth     int    `json:"leap_month"`
	LeapExtraDays int    `json:"leap_extra_days"`

	// World time interpretation: "epoch-based" or "real-time-based".
	// Empty means the calendar has no world time configuration and
	// conversions treat world time zero as year 0.
	WorldTimeMode string `json:"world_time_mode,omitempty"`
	EpochYear     int    `json:"epoch_year"`
	CurrentYear   int    `json:"current_year"`

	// WorldCreation is the real-world Unix timestamp the world was
	// created at. Only meaningful for real-time-based calendars; stored
	// as a nullable double so imported worlds can carry non-integral or
	// missing values.
	WorldCreation *float64 `json:"world_creation,omitempty"`

	// Day subdivision. Never assumed to be 24/60/60.
	HoursInDay      int `json:"hours_in_day"`
	MinutesInHour   int `json:"minutes_in_hour"`
	SecondsInMinute int `json:"seconds_in_minute"`

	// WorldTime is the calendar's current absolute time in calendar
	// seconds. ClockRatio is game seconds advanced per real second while
	// the clock runs.
	WorldTime    int64   `json:"world_time"`
	ClockRunning bool    `json:"clock_running"`
	ClockRatio   float64 `json:"clock_ratio"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Eager-loaded sub-resources (populated by service, not by every query).
	Months       []Month          `json:"months,omitempty"`
	Weekdays     []Weekday        `json:"weekdays,omitempty"`
	Intercalary  []IntercalaryDay `json:"intercalary,omitempty"`
	Seasons      []Season         `json:"seasons,omitempty"`
	SolarAnchors []SolarAnchor    `json:"solar_anchors,omitempty"`
}

// Schema assembles the engine schema from the persisted definition.
// Sub-resources must already be loaded. The result is not validated;
// callers run engine Validate before computing with it.
func (c *Calendar) Schema() *engine.Calendar {
	sc := &engine.Calendar{
		Name:         c.Name,
		FirstWeekday: c.FirstWeekday,
		LeapRule: engine.LeapRule{
			Mode:      c.LeapMode,
			Interval:  c.LeapInterval,
			Month:     c.LeapMonth,
			ExtraDays: c.LeapExtraDays,
		},
		Units: engine.TimeUnits{
			HoursInDay:      c.HoursInDay,
			MinutesInHour:   c.MinutesInHour,
			SecondsInMinute: c.SecondsInMinute,
		},
	}

	if c.WorldTimeMode != "" {
		sc.WorldTime = &engine.WorldTimeConfig{
			Interpretation: c.WorldTimeMode,
			EpochYear:      c.EpochYear,
			CurrentYear:    c.CurrentYear,
		}
	}

	for _, m := range c.Months {
		sc.Months = append(sc.Months, engine.Month{Name: m.Name, Days: m.Days})
	}
	for _, w := range c.Weekdays {
		sc.Weekdays = append(sc.Weekdays, engine.Weekday{Name: w.Name})
	}
	for _, ic := range c.Intercalary {
		sc.Intercalary = append(sc.Intercalary, engine.Intercalary{
			Name:              ic.Name,
			Month:             ic.Month,
			Position:          ic.Position,
			Days:              ic.Days,
			LeapYearOnly:      ic.LeapYearOnly,
			CountsForWeekdays: ic.CountsForWeekdays,
		})
	}
	for _, s := range c.Seasons {
		sc.Seasons = append(sc.Seasons, engine.Season{
			Name:        s.Name,
			StartMonth:  s.StartMonth,
			StartDay:    s.StartDay,
			EndMonth:    s.EndMonth,
			EndDay:      s.EndDay,
			Sunrise:     s.Sunrise,
			Sunset:      s.Sunset,
			Icon:        s.Icon,
			Description: s.Description,
		})
	}
	for _, a := range c.SolarAnchors {
		sc.SolarAnchors = append(sc.SolarAnchors, engine.SolarAnchor{
			ID:      a.AnchorID,
			Month:   a.Month,
			Day:     a.Day,
			Sunrise: a.Sunrise,
			Sunset:  a.Sunset,
		})
	}

	return sc
}

// Month is a named period in the calendar with a configurable number of days.
type Month struct {
	ID         int    `json:"id"`
	CalendarID string `json:"calendar_id"`
	Name       string `json:"name"`
	Days       int    `json:"days"`
	SortOrder  int    `json:"sort_order"`
}

// Weekday is a named day in the repeating weekly cycle.
type Weekday struct {
	ID         int    `json:"id"`
	CalendarID string `json:"calendar_id"`
	Name       string `json:"name"`
	SortOrder  int    `json:"sort_order"`
}

// IntercalaryDay is a named day (or span) inserted before or after a
// month, outside the regular month numbering.
type IntercalaryDay struct {
	ID                int    `json:"id"`
	CalendarID        string `json:"calendar_id"`
	Name              string `json:"name"`
	Month             int    `json:"month"`    // 1-based anchor month
	Position          string `json:"position"` // "before" or "after"
	Days              int    `json:"days"`
	LeapYearOnly      bool   `json:"leap_year_only"`
	CountsForWeekdays bool   `json:"counts_for_weekdays"`
	SortOrder         int    `json:"sort_order"`
}

// Season is a named period spanning a month/day range, with optional
// sunrise/sunset keyframe times ("HH:MM").
type Season struct {
	ID          int    `json:"id"`
	CalendarID  string `json:"calendar_id"`
	Name        string `json:"name"`
	StartMonth  int    `json:"start_month"`
	StartDay    int    `json:"start_day"`
	EndMonth    int    `json:"end_month"`
	EndDay      int    `json:"end_day"`
	Sunrise     string `json:"sunrise,omitempty"`
	Sunset      string `json:"sunset,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sort_order"`
}

// SolarAnchor is a fixed point on the solar curve, independent of seasons.
type SolarAnchor struct {
	ID         int    `json:"id"`
	CalendarID string `json:"calendar_id"`
	AnchorID   string `json:"anchor_id"`
	Month      int    `json:"month"`
	Day        int    `json:"day"`
	Sunrise    string `json:"sunrise"`
	Sunset     string `json:"sunset"`
	SortOrder  int    `json:"sort_order"`
}

// --- Request DTOs ---

// CreateCalendarInput is the validated input for creating a calendar.
// Zero unit values fall back to a 24/60/60 day.
type CreateCalendarInput struct {
	Name            string
	Description     *string
	FirstWeekday    int
	LeapMode        string
	LeapInterval    int
	LeapMonth       int
	LeapExtraDays   int
	WorldTimeMode   string
	EpochYear       int
	CurrentYear     int
	WorldCreation   *float64
	HoursInDay      int
	MinutesInHour   int
	SecondsInMinute int
}

// UpdateCalendarInput is the validated input for updating calendar settings.
type UpdateCalendarInput struct {
	Name            string
	Description     *string
	FirstWeekday    int
	LeapMode        string
	LeapInterval    int
	LeapMonth       int
	LeapExtraDays   int
	WorldTimeMode   string
	EpochYear       int
	CurrentYear     int
	WorldCreation   *float64
	HoursInDay      int
	MinutesInHour   int
	SecondsInMinute int
}

// MonthInput is the input for replacing a calendar's months.
type MonthInput struct {
	Name string `json:"name"`
	Days int    `json:"days"`
}

// WeekdayInput is the input for replacing a calendar's weekdays.
type WeekdayInput struct {
	Name string `json:"name"`
}

// IntercalaryInput is the input for replacing a calendar's intercalary days.
type IntercalaryInput struct {
	Name              string `json:"name"`
	Month             int    `json:"month"`
	Position          string `json:"position"`
	Days              int    `json:"days"`
	LeapYearOnly      bool   `json:"leap_year_only"`
	CountsForWeekdays bool   `json:"counts_for_weekdays"`
}

// SeasonInput is the input for replacing a calendar's seasons.
type SeasonInput struct {
	Name        string `json:"name"`
	StartMonth  int    `json:"start_month"`
	StartDay    int    `json:"start_day"`
	EndMonth    int    `json:"end_month"`
	EndDay      int    `json:"end_day"`
	Sunrise     string `json:"sunrise"`
	Sunset      string `json:"sunset"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// SolarAnchorInput is the input for replacing a calendar's solar anchors.
type SolarAnchorInput struct {
	AnchorID string `json:"anchor_id"`
	Month    int    `json:"month"`
	Day      int    `json:"day"`
	Sunrise  string `json:"sunrise"`
	Sunset   string `json:"sunset"`
}

// AdvanceInput describes a relative time advancement. Calendar-aware
// fields (years, months) are applied first via date arithmetic, then the
// fixed-size fields are added as seconds using the calendar's own units.
type AdvanceInput struct {
	Years   int `json:"years"`
	Months  int `json:"months"`
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// IsZero reports whether the advancement is empty.
func (a AdvanceInput) IsZero() bool {
	return a == AdvanceInput{}
}

// DateInfo is the full rendered view of a calendar moment: the structured
// date plus display names, the resolved season, and solar times.
type DateInfo struct {
	WorldTime   int64       `json:"world_time"`
	Date        engine.Date `json:"date"`
	MonthName   string      `json:"month_name"`
	WeekdayName string      `json:"weekday_name,omitempty"`
	TimeOfDay   string      `json:"time_of_day,omitempty"`
	Season      *SeasonInfo `json:"season,omitempty"`
	Sunrise     string      `json:"sunrise,omitempty"`
	Sunset      string      `json:"sunset,omitempty"`
}

// SeasonInfo is the client-facing view of a resolved season.
type SeasonInfo struct {
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}

// SolarInfo is the client-facing view of computed solar times.
type SolarInfo struct {
	Sunrise        string `json:"sunrise"`
	Sunset         string `json:"sunset"`
	SunriseSeconds int    `json:"sunrise_seconds"`
	SunsetSeconds  int    `json:"sunset_seconds"`
}

// WeekdayInfo is the client-facing view of a weekday lookup.
type WeekdayInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}
