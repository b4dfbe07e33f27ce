// Package engine implements the calendar time engine: pure, deterministic
// conversions between a linear world-time counter (signed seconds) and
// structured dates on a fully configurable calendar, plus the two
// algorithmic dependents that share its arithmetic: season resolution
// and sunrise/sunset calculation.
//
// A Calendar value is immutable once validated. Every operation is a pure
// function of (schema, inputs): no hidden state, no I/O, safe for
// concurrent use from any number of goroutines.
package engine

import "fmt"

// Leap year rule modes.
const (
	// LeapNone disables leap years entirely.
	LeapNone = "none"
	// LeapGregorian uses the real-world rule: divisible by 4, except
	// centuries not divisible by 400.
	LeapGregorian = "gregorian"
	// LeapCustom applies every rule.Interval years.
	LeapCustom = "custom"
)

// World time interpretation modes.
const (
	// WorldTimeEpoch maps world time zero to day 0 of the epoch year.
	WorldTimeEpoch = "epoch-based"
	// WorldTimeRealTime maps world time zero to day 0 of the configured
	// current year, optionally anchored to a real-world creation timestamp.
	WorldTimeRealTime = "real-time-based"
)

// Intercalary day anchor positions relative to the anchor month.
const (
	AnchorBefore = "before"
	AnchorAfter  = "after"
)

// Month is a named period with a base length in days. The base length is
// before any leap-rule adjustment.
type Month struct {
	Name string `json:"name"`
	Days int    `json:"days"`
}

// Weekday is a named day in the repeating weekly cycle. The number of
// weekdays defines the week length.
type Weekday struct {
	Name string `json:"name"`
}

// LeapRule describes how leap years are determined and which month
// absorbs the adjustment. ExtraDays may be negative to remove days in
// leap years; a month is never reduced below one day.
type LeapRule struct {
	Mode      string `json:"mode"`
	Interval  int    `json:"interval,omitempty"`
	Month     int    `json:"month,omitempty"` // 1-based month receiving the adjustment
	ExtraDays int    `json:"extra_days,omitempty"`
}

// Intercalary is a named day (or span of days) inserted before or after a
// month, outside the normal month/day numbering. Intercalary days may be
// restricted to leap years and may be excluded from the weekday cycle.
type Intercalary struct {
	Name              string `json:"name"`
	Month             int    `json:"month"`    // 1-based anchor month
	Position          string `json:"position"` // "before" or "after"
	Days              int    `json:"days"`
	LeapYearOnly      bool   `json:"leap_year_only"`
	CountsForWeekdays bool   `json:"counts_for_weekdays"`
}

// appliesTo reports whether this intercalary is inserted in the given year.
func (ic Intercalary) appliesTo(isLeap bool) bool {
	return !ic.LeapYearOnly || isLeap
}

// WorldTimeConfig governs how world time zero maps to a calendar year.
type WorldTimeConfig struct {
	Interpretation string `json:"interpretation"`
	EpochYear      int    `json:"epoch_year"`
	CurrentYear    int    `json:"current_year"`
}

// Season is a named period spanning a month/day range. StartDay defaults
// to 1, EndMonth defaults to StartMonth, and EndDay defaults to the last
// day of EndMonth (zero values mean "default"). Sunrise/Sunset, when set,
// are "HH:MM" strings used as solar keyframes.
type Season struct {
	Name        string `json:"name"`
	StartMonth  int    `json:"start_month"`
	StartDay    int    `json:"start_day,omitempty"`
	EndMonth    int    `json:"end_month,omitempty"`
	EndDay      int    `json:"end_day,omitempty"`
	Sunrise     string `json:"sunrise,omitempty"`
	Sunset      string `json:"sunset,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}

// SolarAnchor is an extra fixed point on the solar curve, independent of
// seasons. Sunrise and Sunset are required "HH:MM" strings.
type SolarAnchor struct {
	ID      string `json:"id"`
	Month   int    `json:"month"`
	Day     int    `json:"day"`
	Sunrise string `json:"sunrise"`
	Sunset  string `json:"sunset"`
}

// TimeUnits defines the day subdivision. No code path assumes 24/60/60;
// all second/hour conversions go through these values.
type TimeUnits struct {
	HoursInDay      int `json:"hours_in_day"`
	MinutesInHour   int `json:"minutes_in_hour"`
	SecondsInMinute int `json:"seconds_in_minute"`
}

// DefaultTimeUnits is the conventional 24/60/60 day subdivision.
var DefaultTimeUnits = TimeUnits{HoursInDay: 24, MinutesInHour: 60, SecondsInMinute: 60}

// SecondsPerHour returns the number of seconds in one hour.
func (u TimeUnits) SecondsPerHour() int {
	return u.MinutesInHour * u.SecondsInMinute
}

// SecondsPerDay returns the number of seconds in one day.
func (u TimeUnits) SecondsPerDay() int64 {
	return int64(u.HoursInDay) * int64(u.SecondsPerHour())
}

// Calendar is the immutable, validated description of a calendar. Build
// one, call Validate once, then share it freely; the engine never
// mutates it.
type Calendar struct {
	Name         string           `json:"name"`
	Months       []Month          `json:"months"`
	Weekdays     []Weekday        `json:"weekdays"`
	FirstWeekday int              `json:"first_weekday"` // weekday index of year 0, month 1, day 1
	LeapRule     LeapRule         `json:"leap_rule"`
	Intercalary  []Intercalary    `json:"intercalary,omitempty"`
	WorldTime    *WorldTimeConfig `json:"world_time,omitempty"`
	Seasons      []Season         `json:"seasons,omitempty"`
	SolarAnchors []SolarAnchor    `json:"solar_anchors,omitempty"`
	Units        TimeUnits        `json:"units"`
}

// Validate checks structural invariants: at least one month and weekday,
// positive unit sizes, and every month reference (leap rule, intercalary
// anchors, seasons, solar anchors) within bounds. Time strings are NOT
// checked here; they fail at the point of use with InvalidTimeFormatError.
func (c *Calendar) Validate() error {
	if len(c.Months) == 0 {
		return fmt.Errorf("calendar %q: at least one month is required", c.Name)
	}
	for i, m := range c.Months {
		if m.Name == "" {
			return fmt.Errorf("calendar %q: month %d has no name", c.Name, i+1)
		}
		if m.Days < 1 {
			return fmt.Errorf("calendar %q: month %q must have at least one day", c.Name, m.Name)
		}
	}
	if len(c.Weekdays) == 0 {
		return fmt.Errorf("calendar %q: at least one weekday is required", c.Name)
	}
	if c.FirstWeekday < 0 || c.FirstWeekday >= len(c.Weekdays) {
		return fmt.Errorf("calendar %q: first_weekday %d out of range [0, %d)", c.Name, c.FirstWeekday, len(c.Weekdays))
	}
	if c.Units.HoursInDay < 1 || c.Units.MinutesInHour < 1 || c.Units.SecondsInMinute < 1 {
		return fmt.Errorf("calendar %q: time units must all be positive", c.Name)
	}

	switch c.LeapRule.Mode {
	case "", LeapNone:
	case LeapGregorian, LeapCustom:
		if c.LeapRule.Mode == LeapCustom && c.LeapRule.Interval < 1 {
			return fmt.Errorf("calendar %q: custom leap rule needs a positive interval", c.Name)
		}
		// A target month is optional when the rule adjusts no days: leap
		// years may be marked purely by leap-only intercalary insertions.
		if c.leapExtraDays() != 0 || c.LeapRule.Month != 0 {
			if c.LeapRule.Month < 1 || c.LeapRule.Month > len(c.Months) {
				return fmt.Errorf("calendar %q: leap rule month %d out of range", c.Name, c.LeapRule.Month)
			}
		}
	default:
		return fmt.Errorf("calendar %q: unknown leap rule mode %q", c.Name, c.LeapRule.Mode)
	}

	for _, ic := range c.Intercalary {
		if ic.Name == "" {
			return fmt.Errorf("calendar %q: intercalary day has no name", c.Name)
		}
		if ic.Position != AnchorBefore && ic.Position != AnchorAfter {
			return fmt.Errorf("calendar %q: intercalary %q: position must be %q or %q", c.Name, ic.Name, AnchorBefore, AnchorAfter)
		}
		if ic.Month < 1 || ic.Month > len(c.Months) {
			return fmt.Errorf("calendar %q: intercalary %q anchored to month %d, calendar has %d months", c.Name, ic.Name, ic.Month, len(c.Months))
		}
		if ic.Days < 1 {
			return fmt.Errorf("calendar %q: intercalary %q must span at least one day", c.Name, ic.Name)
		}
	}

	for _, s := range c.Seasons {
		if s.StartMonth < 1 || s.StartMonth > len(c.Months) {
			return fmt.Errorf("calendar %q: season %q starts in month %d, calendar has %d months", c.Name, s.Name, s.StartMonth, len(c.Months))
		}
		if s.EndMonth != 0 && (s.EndMonth < 1 || s.EndMonth > len(c.Months)) {
			return fmt.Errorf("calendar %q: season %q ends in month %d, calendar has %d months", c.Name, s.Name, s.EndMonth, len(c.Months))
		}
	}

	for _, a := range c.SolarAnchors {
		if a.Month < 1 || a.Month > len(c.Months) {
			return fmt.Errorf("calendar %q: solar anchor %q in month %d, calendar has %d months", c.Name, a.ID, a.Month, len(c.Months))
		}
		if a.Day < 1 || a.Day > c.Months[a.Month-1].Days {
			return fmt.Errorf("calendar %q: solar anchor %q on day %d of %q (%d days)", c.Name, a.ID, a.Day, c.Months[a.Month-1].Name, c.Months[a.Month-1].Days)
		}
		if a.Sunrise == "" || a.Sunset == "" {
			return fmt.Errorf("calendar %q: solar anchor %q needs both sunrise and sunset", c.Name, a.ID)
		}
	}

	return nil
}

// IsLeapYear reports whether the given year is a leap year under the
// calendar's leap rule. Modulo arithmetic is exact for negative years.
func (c *Calendar) IsLeapYear(year int) bool {
	switch c.LeapRule.Mode {
	case LeapGregorian:
		return year%4 == 0 && (year%100 != 0 || year%400 == 0)
	case LeapCustom:
		if c.LeapRule.Interval < 1 {
			return false
		}
		return mod(year, c.LeapRule.Interval) == 0
	default:
		return false
	}
}

// MonthLengths returns the length of every month for the given year.
// In leap years the leap rule's target month becomes
// max(1, baseDays+extraDays); the adjustment never shrinks a month
// below one day.
func (c *Calendar) MonthLengths(year int) []int {
	lengths := make([]int, len(c.Months))
	for i, m := range c.Months {
		lengths[i] = m.Days
	}
	if c.IsLeapYear(year) && c.LeapRule.Month >= 1 && c.LeapRule.Month <= len(lengths) {
		idx := c.LeapRule.Month - 1
		lengths[idx] = max(1, lengths[idx]+c.leapExtraDays())
	}
	return lengths
}

// leapExtraDays returns the day adjustment applied to the leap rule's
// target month in leap years. Gregorian defaults to +1 when unset.
func (c *Calendar) leapExtraDays() int {
	if c.LeapRule.Mode == LeapGregorian && c.LeapRule.ExtraDays == 0 {
		return 1
	}
	return c.LeapRule.ExtraDays
}

// MonthLength returns the length of the given 1-based month in a year.
func (c *Calendar) MonthLength(month, year int) int {
	if month < 1 || month > len(c.Months) {
		return 0
	}
	return c.MonthLengths(year)[month-1]
}

// IntercalaryDays returns the total inserted intercalary days for a year,
// respecting each intercalary's leap-year-only flag.
func (c *Calendar) IntercalaryDays(year int) int {
	isLeap := c.IsLeapYear(year)
	total := 0
	for _, ic := range c.Intercalary {
		if ic.appliesTo(isLeap) {
			total += ic.Days
		}
	}
	return total
}

// YearLength returns the total days in a year: the sum of its month
// lengths plus all applicable intercalary insertions. The equality
// YearLength(y) == sum(MonthLengths(y)) + IntercalaryDays(y) holds
// exactly by construction.
func (c *Calendar) YearLength(year int) int {
	total := c.IntercalaryDays(year)
	for _, days := range c.MonthLengths(year) {
		total += days
	}
	return total
}

// WeekLength returns the number of days in a week.
func (c *Calendar) WeekLength() int {
	return len(c.Weekdays)
}

// --- year segments ---

// segment is one contiguous span within a year: either a month or an
// intercalary insertion. Segments appear in chronological order:
// before-intercalaries, the month itself, after-intercalaries, repeated
// for every month. Non-applicable (leap-only) intercalaries are omitted.
type segment struct {
	month       int // 1-based month (anchor month for intercalaries)
	ic          int // index into c.Intercalary, -1 for month segments
	days        int
	countsWeeks bool // whether these days advance the weekday cycle
}

// yearSegments returns the ordered spans making up a year. This single
// walk backs day-of-year computation, date resolution, and weekday
// accounting so intercalary insertions shift everything consistently.
func (c *Calendar) yearSegments(year int) []segment {
	isLeap := c.IsLeapYear(year)
	lengths := c.MonthLengths(year)

	segs := make([]segment, 0, len(c.Months)+len(c.Intercalary))
	for m := 1; m <= len(c.Months); m++ {
		for i, ic := range c.Intercalary {
			if ic.Position == AnchorBefore && ic.Month == m && ic.appliesTo(isLeap) {
				segs = append(segs, segment{month: m, ic: i, days: ic.Days, countsWeeks: ic.CountsForWeekdays})
			}
		}
		segs = append(segs, segment{month: m, ic: -1, days: lengths[m-1], countsWeeks: true})
		for i, ic := range c.Intercalary {
			if ic.Position == AnchorAfter && ic.Month == m && ic.appliesTo(isLeap) {
				segs = append(segs, segment{month: m, ic: i, days: ic.Days, countsWeeks: ic.CountsForWeekdays})
			}
		}
	}
	return segs
}

// mod returns a mod n normalized to [0, n).
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

// mod64 returns a mod n normalized to [0, n) for int64 operands.
func mod64(a, n int64) int64 {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
