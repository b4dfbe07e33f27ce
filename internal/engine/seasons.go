package engine

import "log/slog"

// defaultSeasons is the built-in banding used when a calendar defines no
// seasons (or none match): Spring months 3-5, Summer 6-8, Fall 9-11,
// Winter everything else.
var defaultSeasons = []Season{
	{Name: "Spring", StartMonth: 3, EndMonth: 5},
	{Name: "Summer", StartMonth: 6, EndMonth: 8},
	{Name: "Fall", StartMonth: 9, EndMonth: 11},
	{Name: "Winter", StartMonth: 12, EndMonth: 2},
}

// seasonBounds are a season's effective boundaries for a specific year,
// after defaults are applied and end-day overflow is rolled forward.
type seasonBounds struct {
	startMonth, startDay int
	endMonth, endDay     int
}

// ResolveSeason returns the season containing the given date, or nil when
// the calendar has seasons but the built-in default banding doesn't match
// either. Seasons are checked in definition order; the first match wins
// when ranges overlap. Intercalary dates resolve through their anchor
// month.
func (c *Calendar) ResolveSeason(d Date) *Season {
	if s := matchSeason(c, c.Seasons, d); s != nil {
		return s
	}
	return matchSeason(c, defaultSeasons, d)
}

// matchSeason finds the first season in the list containing the date.
func matchSeason(c *Calendar, seasons []Season, d Date) *Season {
	for i := range seasons {
		b := c.effectiveBounds(&seasons[i], d.Year)
		if inSeason(d.Month, d.Day, b) {
			return &seasons[i]
		}
	}
	return nil
}

// effectiveBounds applies the season's defaults (startDay 1, endMonth =
// startMonth, endDay = last day of endMonth) and resolves end-day
// overflow: an endDay past the literal length of endMonth rolls the
// excess forward through subsequent months, clamping at the calendar's
// final month when the year runs out. Overflow is a configuration smell,
// so rolling logs a diagnostic naming the season and the exceeded length.
func (c *Calendar) effectiveBounds(s *Season, year int) seasonBounds {
	b := seasonBounds{
		startMonth: s.StartMonth,
		startDay:   s.StartDay,
		endMonth:   s.EndMonth,
		endDay:     s.EndDay,
	}
	if b.startDay == 0 {
		b.startDay = 1
	}
	if b.endMonth == 0 {
		b.endMonth = b.startMonth
	}
	if b.endDay == 0 {
		b.endDay = c.MonthLength(b.endMonth, year)
		return b
	}

	length := c.MonthLength(b.endMonth, year)
	if b.endDay <= length {
		return b
	}

	slog.Warn("season end day exceeds month length, rolling into next month",
		slog.String("season", s.Name),
		slog.Int("end_day", b.endDay),
		slog.Int("month_length", length),
	)

	rem := b.endDay
	month := b.endMonth
	for rem > c.MonthLength(month, year) {
		if month == len(c.Months) {
			// Months exhausted: clamp to the last day of the final month
			// rather than rolling across the year boundary.
			b.endMonth = month
			b.endDay = c.MonthLength(month, year)
			return b
		}
		rem -= c.MonthLength(month, year)
		month++
	}
	b.endMonth = month
	b.endDay = rem
	return b
}

// inSeason tests membership against effective boundaries. A start month
// greater than the end month marks a year-crossing season (e.g.
// December through February): the date matches on either side of the
// year boundary, with day precision only at the boundary months.
func inSeason(month, day int, b seasonBounds) bool {
	afterStart := month > b.startMonth || (month == b.startMonth && day >= b.startDay)
	beforeEnd := month < b.endMonth || (month == b.endMonth && day <= b.endDay)

	if b.startMonth <= b.endMonth {
		return afterStart && beforeEnd
	}
	return afterStart || beforeEnd
}
