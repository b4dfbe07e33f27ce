package engine

import (
	"math"
	"time"
)

// TimeOfDay is a time within a day, expressed in the calendar's own units.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// Date is an immutable structured calendar date. Weekday is -1 when
// undefined (intercalary days never occupy a weekday slot). Intercalary
// is the inserted day's name when the date is not a normal month day; in
// that case Month is the anchor month and Day indexes into the inserted
// span (1-based).
//
// YearUnresolved marks the degenerate result of converting world time
// with a non-finite creation timestamp. No error is returned in that
// case; callers that need a real year must check the flag.
type Date struct {
	Year           int        `json:"year"`
	Month          int        `json:"month"`
	Day            int        `json:"day"`
	Weekday        int        `json:"weekday"`
	Time           *TimeOfDay `json:"time,omitempty"`
	Intercalary    string     `json:"intercalary,omitempty"`
	YearUnresolved bool       `json:"year_unresolved,omitempty"`
}

// NewDate constructs a validated normal (non-intercalary) date. The month
// and day must be inside the schema's bounds for that year.
func (c *Calendar) NewDate(year, month, day int) (Date, error) {
	if month < 1 || month > len(c.Months) {
		return Date{}, &InvalidDateError{Year: year, Month: month, Day: day,
			Reason: "month out of range"}
	}
	if day < 1 || day > c.MonthLength(month, year) {
		return Date{}, &InvalidDateError{Year: year, Month: month, Day: day,
			Reason: "day out of range for month"}
	}
	return Date{Year: year, Month: month, Day: day, Weekday: c.WeekdayOf(year, month, day)}, nil
}

// NewIntercalaryDate constructs a validated date on a named intercalary
// span. Day indexes into the span, 1-based.
func (c *Calendar) NewIntercalaryDate(year int, name string, day int) (Date, error) {
	for _, ic := range c.Intercalary {
		if ic.Name != name {
			continue
		}
		if !ic.appliesTo(c.IsLeapYear(year)) {
			return Date{}, &InvalidDateError{Year: year, Day: day,
				Reason: "intercalary " + name + " does not occur in this year"}
		}
		if day < 1 || day > ic.Days {
			return Date{}, &InvalidDateError{Year: year, Day: day,
				Reason: "day out of range for intercalary " + name}
		}
		return Date{Year: year, Month: ic.Month, Day: day, Weekday: -1, Intercalary: name}, nil
	}
	return Date{}, &InvalidDateError{Year: year, Day: day,
		Reason: "no intercalary named " + name}
}

// --- days <-> date ---

// DateToDays returns the total days elapsed from the schema's reference
// point (year 0, day 0) to the given date. Dates before year 0 yield
// negative counts.
func (c *Calendar) DateToDays(d Date) int64 {
	return c.daysBetweenYears(0, d.Year) + int64(c.DayOfYear(d))
}

// daysBetweenYears returns the signed day count from day 0 of `from` to
// day 0 of `to`, accumulating whole year lengths in either direction.
func (c *Calendar) daysBetweenYears(from, to int) int64 {
	var days int64
	for y := from; y < to; y++ {
		days += int64(c.YearLength(y))
	}
	for y := to; y < from; y++ {
		days -= int64(c.YearLength(y))
	}
	return days
}

// DayOfYear returns the zero-based offset of a date within its year,
// counting month days and every intercalary insertion before it.
func (c *Calendar) DayOfYear(d Date) int {
	off := 0
	for _, s := range c.yearSegments(d.Year) {
		if s.ic >= 0 {
			if d.Intercalary != "" && c.Intercalary[s.ic].Name == d.Intercalary {
				return off + d.Day - 1
			}
		} else if d.Intercalary == "" && s.month == d.Month {
			return off + d.Day - 1
		}
		off += s.days
	}
	return off
}

// DaysToDate is the inverse of DateToDays: it resolves a day count from
// the reference point back to a date (no time of day). Day counts landing
// inside an inserted span resolve to intercalary dates.
func (c *Calendar) DaysToDate(total int64) Date {
	return c.daysToDateFrom(total, 0)
}

// daysToDateFrom resolves a day count relative to day 0 of a base year.
// Year lengths are at least one day (months are never empty), so both
// loops terminate in time proportional to the span traversed.
func (c *Calendar) daysToDateFrom(total int64, year int) Date {
	for total >= int64(c.YearLength(year)) {
		total -= int64(c.YearLength(year))
		year++
	}
	for total < 0 {
		year--
		total += int64(c.YearLength(year))
	}

	rem := int(total)
	segs := c.yearSegments(year)
	for _, s := range segs {
		if rem < s.days {
			if s.ic >= 0 {
				return Date{Year: year, Month: s.month, Day: rem + 1, Weekday: -1,
					Intercalary: c.Intercalary[s.ic].Name}
			}
			return Date{Year: year, Month: s.month, Day: rem + 1,
				Weekday: c.WeekdayOf(year, s.month, rem+1)}
		}
		rem -= s.days
	}

	// Unreachable for a validated schema: rem < YearLength by the loops above.
	last := len(c.Months)
	return Date{Year: year, Month: last, Day: c.MonthLength(last, year), Weekday: -1}
}

// --- world time <-> date ---

// worldTimeBaseYear resolves which calendar year world time zero maps to.
// The second return value is true when a non-finite creation timestamp
// makes the year unresolvable (the documented degenerate case).
func (c *Calendar) worldTimeBaseYear(worldCreation *float64) (int, bool) {
	cfg := c.WorldTime
	if cfg == nil {
		return 0, false
	}
	if cfg.Interpretation != WorldTimeRealTime {
		return cfg.EpochYear, false
	}
	if worldCreation == nil {
		return cfg.CurrentYear, false
	}
	ts := *worldCreation
	if math.IsNaN(ts) || math.IsInf(ts, 0) {
		return 0, true
	}
	// The calendar's present tracks the real-world creation date: the
	// epoch year acts as a fixed offset from the creation's UTC year
	// (e.g. epoch 2700 + created 2025 = current year 4725).
	utcYear := time.Unix(int64(ts), 0).UTC().Year()
	return cfg.EpochYear + utcYear, false
}

// WorldTimeToDate converts elapsed world seconds to a structured date
// with time of day. worldCreation is an optional real-world Unix
// timestamp used by real-time-based calendars; pass nil otherwise. A
// non-finite timestamp yields a YearUnresolved date instead of an error,
// so time-advancement loops that transiently pass bad timestamps keep
// running.
func (c *Calendar) WorldTimeToDate(worldTime int64, worldCreation *float64) Date {
	spd := c.Units.SecondsPerDay()
	days := floorDiv(worldTime, spd)
	rem := worldTime - days*spd

	baseYear, unresolved := c.worldTimeBaseYear(worldCreation)
	if unresolved {
		return Date{Weekday: -1, YearUnresolved: true, Time: c.secondsToTimeOfDay(rem)}
	}

	d := c.daysToDateFrom(days, baseYear)
	d.Time = c.secondsToTimeOfDay(rem)
	return d
}

// DateToWorldTime is the exact inverse of WorldTimeToDate under the same
// interpretation mode and optional creation timestamp. Round-tripping
// through both is lossless for any in-range date.
func (c *Calendar) DateToWorldTime(d Date, worldCreation *float64) int64 {
	baseYear, unresolved := c.worldTimeBaseYear(worldCreation)
	if unresolved || d.YearUnresolved {
		return 0
	}
	days := c.daysBetweenYears(baseYear, d.Year) + int64(c.DayOfYear(d))
	var secs int64
	if d.Time != nil {
		secs = int64(d.Time.Hour)*int64(c.Units.SecondsPerHour()) +
			int64(d.Time.Minute)*int64(c.Units.SecondsInMinute) +
			int64(d.Time.Second)
	}
	return days*c.Units.SecondsPerDay() + secs
}

// secondsToTimeOfDay decomposes a second-of-day remainder using the
// schema's units.
func (c *Calendar) secondsToTimeOfDay(rem int64) *TimeOfDay {
	sph := int64(c.Units.SecondsPerHour())
	spm := int64(c.Units.SecondsInMinute)
	return &TimeOfDay{
		Hour:   int(rem / sph),
		Minute: int((rem % sph) / spm),
		Second: int(rem % spm),
	}
}

// --- weekdays ---

// WeekdayOf returns the 0-based weekday index of a normal month day.
// Intercalary days flagged countsForWeekdays=false contribute nothing to
// the cycle, so this uses a separate day count from DateToDays: inserted
// days that don't advance the cycle are skipped.
func (c *Calendar) WeekdayOf(year, month, day int) int {
	week := int64(len(c.Weekdays))
	if week == 0 {
		return -1
	}
	days := c.weekdayDaysBetweenYears(0, year) + int64(c.weekdayDayOfYear(year, month, day))
	return int(mod64(days+int64(c.FirstWeekday), week))
}

// weekdayYearLength is YearLength with non-counting intercalaries excluded.
func (c *Calendar) weekdayYearLength(year int) int {
	total := 0
	for _, s := range c.yearSegments(year) {
		if s.countsWeeks {
			total += s.days
		}
	}
	return total
}

// weekdayDaysBetweenYears mirrors daysBetweenYears on the weekday cycle.
func (c *Calendar) weekdayDaysBetweenYears(from, to int) int64 {
	var days int64
	for y := from; y < to; y++ {
		days += int64(c.weekdayYearLength(y))
	}
	for y := to; y < from; y++ {
		days -= int64(c.weekdayYearLength(y))
	}
	return days
}

// weekdayDayOfYear counts cycle-advancing days before a month day.
func (c *Calendar) weekdayDayOfYear(year, month, day int) int {
	off := 0
	for _, s := range c.yearSegments(year) {
		if s.ic < 0 && s.month == month {
			return off + day - 1
		}
		if s.countsWeeks {
			off += s.days
		}
	}
	return off
}

// --- date arithmetic ---

// AddDays returns the date n days after (or before, for negative n) the
// given date, rolling through months, years, and intercalary spans. Time
// of day is unchanged.
func (c *Calendar) AddDays(d Date, n int) Date {
	out := c.DaysToDate(c.DateToDays(d) + int64(n))
	out.Time = d.Time
	return out
}

// AddMonths advances the month field by n, wrapping years, then clamps
// the day to the target month's length. The day of month is preserved
// when possible and never rolls into a different month than the target.
func (c *Calendar) AddMonths(d Date, n int) Date {
	count := len(c.Months)
	total := (d.Month - 1) + n
	year := d.Year + int(floorDiv(int64(total), int64(count)))
	month := mod(total, count) + 1
	day := min(d.Day, c.MonthLength(month, year))
	return Date{Year: year, Month: month, Day: day,
		Weekday: c.WeekdayOf(year, month, day), Time: d.Time}
}

// AddYears advances the year field by n and clamps the day to the month's
// length in the target year (relevant when leaving a leap year).
func (c *Calendar) AddYears(d Date, n int) Date {
	year := d.Year + n
	day := min(d.Day, c.MonthLength(d.Month, year))
	return Date{Year: year, Month: d.Month, Day: day,
		Weekday: c.WeekdayOf(year, d.Month, day), Time: d.Time}
}

// floorDiv divides rounding toward negative infinity, so negative world
// times land strictly before the zero point.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
