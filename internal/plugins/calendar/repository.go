package calendar

import (
	"context"
	"database/sql"
)

// CalendarRepository defines persistence operations for calendar schemas
// and their world clock state.
type CalendarRepository interface {
	// Calendar CRUD.
	Create(ctx context.Context, cal *Calendar) error
	GetByID(ctx context.Context, id string) (*Calendar, error)
	List(ctx context.Context) ([]Calendar, error)
	Update(ctx context.Context, cal *Calendar) error
	Delete(ctx context.Context, id string) error

	// Sub-resource replace-alls.
	SetMonths(ctx context.Context, calendarID string, months []MonthInput) error
	GetMonths(ctx context.Context, calendarID string) ([]Month, error)
	SetWeekdays(ctx context.Context, calendarID string, weekdays []WeekdayInput) error
	GetWeekdays(ctx context.Context, calendarID string) ([]Weekday, error)
	SetIntercalary(ctx context.Context, calendarID string, days []IntercalaryInput) error
	GetIntercalary(ctx context.Context, calendarID string) ([]IntercalaryDay, error)
	SetSeasons(ctx context.Context, calendarID string, seasons []SeasonInput) error
	GetSeasons(ctx context.Context, calendarID string) ([]Season, error)
	SetSolarAnchors(ctx context.Context, calendarID string, anchors []SolarAnchorInput) error
	GetSolarAnchors(ctx context.Context, calendarID string) ([]SolarAnchor, error)

	// World clock state.
	UpdateWorldTime(ctx context.Context, calendarID string, worldTime int64) error
	SetClock(ctx context.Context, calendarID string, running bool, ratio float64) error
	ListRunning(ctx context.Context) ([]Calendar, error)
}

// calendarRepo is the MariaDB implementation of CalendarRepository.
type calendarRepo struct {
	db *sql.DB
}

// NewCalendarRepository creates a new MariaDB-backed calendar repository.
func NewCalendarRepository(db *sql.DB) CalendarRepository {
	return &calendarRepo{db: db}
}

// calendarCols is the column list for calendar queries.
const calendarCols = `id, name, description, first_weekday,
        leap_mode, leap_interval, leap_month, leap_extra_days,
        world_time_mode, epoch_year, current_year, world_creation,
        hours_in_day, minutes_in_hour, seconds_in_minute,
        world_time, clock_running, clock_ratio, created_at, updated_at`

// scanCalendar reads a row into a Calendar struct.
func scanCalendar(scanner interface{ Scan(...any) error }) (*Calendar, error) {
	cal := &Calendar{}
	err := scanner.Scan(&cal.ID, &cal.Name, &cal.Description, &cal.FirstWeekday,
		&cal.LeapMode, &cal.LeapInterval, &cal.LeapMonth, &cal.LeapExtraDays,
		&cal.WorldTimeMode, &cal.EpochYear, &cal.CurrentYear, &cal.WorldCreation,
		&cal.HoursInDay, &cal.MinutesInHour, &cal.SecondsInMinute,
		&cal.WorldTime, &cal.ClockRunning, &cal.ClockRatio,
		&cal.CreatedAt, &cal.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return cal, err
}

// Create inserts a new calendar.
func (r *calendarRepo) Create(ctx context.Context, cal *Calendar) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO calendars (id, name, description, first_weekday,
		        leap_mode, leap_interval, leap_month, leap_extra_days,
		        world_time_mode, epoch_year, current_year, world_creation,
		        hours_in_day, minutes_in_hour, seconds_in_minute,
		        world_time, clock_running, clock_ratio)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cal.ID, cal.Name, cal.Description, cal.FirstWeekday,
		cal.LeapMode, cal.LeapInterval, cal.LeapMonth, cal.LeapExtraDays,
		cal.WorldTimeMode, cal.EpochYear, cal.CurrentYear, cal.WorldCreation,
		cal.HoursInDay, cal.MinutesInHour, cal.SecondsInMinute,
		cal.WorldTime, cal.ClockRunning, cal.ClockRatio,
	)
	return err
}

// GetByID returns a calendar by its ID, or nil when absent.
func (r *calendarRepo) GetByID(ctx context.Context, id string) (*Calendar, error) {
	return scanCalendar(r.db.QueryRowContext(ctx,
		`SELECT `+calendarCols+` FROM calendars WHERE id = ?`, id))
}

// List returns all calendars ordered by name.
func (r *calendarRepo) List(ctx context.Context) ([]Calendar, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+calendarCols+` FROM calendars ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCalendars(rows)
}

// Update modifies an existing calendar's settings and clock state.
func (r *calendarRepo) Update(ctx context.Context, cal *Calendar) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE calendars SET name = ?, description = ?, first_weekday = ?,
		        leap_mode = ?, leap_interval = ?, leap_month = ?, leap_extra_days = ?,
		        world_time_mode = ?, epoch_year = ?, current_year = ?, world_creation = ?,
		        hours_in_day = ?, minutes_in_hour = ?, seconds_in_minute = ?,
		        world_time = ?, clock_running = ?, clock_ratio = ?
		 WHERE id = ?`,
		cal.Name, cal.Description, cal.FirstWeekday,
		cal.LeapMode, cal.LeapInterval, cal.LeapMonth, cal.LeapExtraDays,
		cal.WorldTimeMode, cal.EpochYear, cal.CurrentYear, cal.WorldCreation,
		cal.HoursInDay, cal.MinutesInHour, cal.SecondsInMinute,
		cal.WorldTime, cal.ClockRunning, cal.ClockRatio, cal.ID,
	)
	return err
}

// Delete removes a calendar and all child records (cascaded by FK).
func (r *calendarRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM calendars WHERE id = ?`, id)
	return err
}

// replaceAll deletes all child rows for a calendar and re-inserts from the
// insert callback inside one transaction. Every Set* method is a replace.
func (r *calendarRepo) replaceAll(ctx context.Context, table, calendarID string, insert func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE calendar_id = ?`, calendarID); err != nil {
		return err
	}
	if err := insert(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// SetMonths replaces all months for a calendar (delete + bulk insert).
func (r *calendarRepo) SetMonths(ctx context.Context, calendarID string, months []MonthInput) error {
	return r.replaceAll(ctx, "calendar_months", calendarID, func(tx *sql.Tx) error {
		for i, m := range months {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO calendar_months (calendar_id, name, days, sort_order)
				 VALUES (?, ?, ?, ?)`,
				calendarID, m.Name, m.Days, i,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetMonths returns all months for a calendar ordered by sort_order.
func (r *calendarRepo) GetMonths(ctx context.Context, calendarID string) ([]Month, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, calendar_id, name, days, sort_order
		 FROM calendar_months WHERE calendar_id = ? ORDER BY sort_order`, calendarID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var months []Month
	for rows.Next() {
		var m Month
		if err := rows.Scan(&m.ID, &m.CalendarID, &m.Name, &m.Days, &m.SortOrder); err != nil {
			return nil, err
		}
		months = append(months, m)
	}
	return months, rows.Err()
}

// SetWeekdays replaces all weekdays for a calendar.
func (r *calendarRepo) SetWeekdays(ctx context.Context, calendarID string, weekdays []WeekdayInput) error {
	return r.replaceAll(ctx, "calendar_weekdays", calendarID, func(tx *sql.Tx) error {
		for i, w := range weekdays {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO calendar_weekdays (calendar_id, name, sort_order)
				 VALUES (?, ?, ?)`,
				calendarID, w.Name, i,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetWeekdays returns all weekdays for a calendar ordered by sort_order.
func (r *calendarRepo) GetWeekdays(ctx context.Context, calendarID string) ([]Weekday, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, calendar_id, name, sort_order
		 FROM calendar_weekdays WHERE calendar_id = ? ORDER BY sort_order`, calendarID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var weekdays []Weekday
	for rows.Next() {
		var w Weekday
		if err := rows.Scan(&w.ID, &w.CalendarID, &w.Name, &w.SortOrder); err != nil {
			return nil, err
		}
		weekdays = append(weekdays, w)
	}
	return weekdays, rows.Err()
}

// SetIntercalary replaces all intercalary days for a calendar.
func (r *calendarRepo) SetIntercalary(ctx context.Context, calendarID string, days []IntercalaryInput) error {
	return r.replaceAll(ctx, "calendar_intercalary_days", calendarID, func(tx *sql.Tx) error {
		for i, ic := range days {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO calendar_intercalary_days
				        (calendar_id, name, month, position, days, leap_year_only, counts_for_weekdays, sort_order)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				calendarID, ic.Name, ic.Month, ic.Position, ic.Days,
				ic.LeapYearOnly, ic.CountsForWeekdays, i,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetIntercalary returns all intercalary days for a calendar ordered by sort_order.
func (r *calendarRepo) GetIntercalary(ctx context.Context, calendarID string) ([]IntercalaryDay, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, calendar_id, name, month, position, days, leap_year_only, counts_for_weekdays, sort_order
		 FROM calendar_intercalary_days WHERE calendar_id = ? ORDER BY sort_order`, calendarID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []IntercalaryDay
	for rows.Next() {
		var ic IntercalaryDay
		if err := rows.Scan(&ic.ID, &ic.CalendarID, &ic.Name, &ic.Month, &ic.Position,
			&ic.Days, &ic.LeapYearOnly, &ic.CountsForWeekdays, &ic.SortOrder); err != nil {
			return nil, err
		}
		days = append(days, ic)
	}
	return days, rows.Err()
}

// SetSeasons replaces all seasons for a calendar. Definition order is
// significant (first match wins), so sort_order records it.
func (r *calendarRepo) SetSeasons(ctx context.Context, calendarID string, seasons []SeasonInput) error {
	return r.replaceAll(ctx, "calendar_seasons", calendarID, func(tx *sql.Tx) error {
		for i, s := range seasons {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO calendar_seasons
				        (calendar_id, name, start_month, start_day, end_month, end_day,
				         sunrise, sunset, icon, description, sort_order)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				calendarID, s.Name, s.StartMonth, s.StartDay, s.EndMonth, s.EndDay,
				s.Sunrise, s.Sunset, s.Icon, s.Description, i,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetSeasons returns all seasons for a calendar in definition order.
func (r *calendarRepo) GetSeasons(ctx context.Context, calendarID string) ([]Season, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, calendar_id, name, start_month, start_day, end_month, end_day,
		        sunrise, sunset, icon, description, sort_order
		 FROM calendar_seasons WHERE calendar_id = ? ORDER BY sort_order`, calendarID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seasons []Season
	for rows.Next() {
		var s Season
		if err := rows.Scan(&s.ID, &s.CalendarID, &s.Name, &s.StartMonth, &s.StartDay,
			&s.EndMonth, &s.EndDay, &s.Sunrise, &s.Sunset, &s.Icon, &s.Description, &s.SortOrder); err != nil {
			return nil, err
		}
		seasons = append(seasons, s)
	}
	return seasons, rows.Err()
}

// SetSolarAnchors replaces all solar anchors for a calendar.
func (r *calendarRepo) SetSolarAnchors(ctx context.Context, calendarID string, anchors []SolarAnchorInput) error {
	return r.replaceAll(ctx, "calendar_solar_anchors", calendarID, func(tx *sql.Tx) error {
		for i, a := range anchors {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO calendar_solar_anchors
				        (calendar_id, anchor_id, month, day, sunrise, sunset, sort_order)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				calendarID, a.AnchorID, a.Month, a.Day, a.Sunrise, a.Sunset, i,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetSolarAnchors returns all solar anchors for a calendar.
func (r *calendarRepo) GetSolarAnchors(ctx context.Context, calendarID string) ([]SolarAnchor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, calendar_id, anchor_id, month, day, sunrise, sunset, sort_order
		 FROM calendar_solar_anchors WHERE calendar_id = ? ORDER BY sort_order`, calendarID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var anchors []SolarAnchor
	for rows.Next() {
		var a SolarAnchor
		if err := rows.Scan(&a.ID, &a.CalendarID, &a.AnchorID, &a.Month, &a.Day,
			&a.Sunrise, &a.Sunset, &a.SortOrder); err != nil {
			return nil, err
		}
		anchors = append(anchors, a)
	}
	return anchors, rows.Err()
}

// UpdateWorldTime sets only the world_time column. Used by the clock
// ticker and by explicit time sets, skipping the full settings update.
func (r *calendarRepo) UpdateWorldTime(ctx context.Context, calendarID string, worldTime int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE calendars SET world_time = ? WHERE id = ?`, worldTime, calendarID)
	return err
}

// SetClock updates the running flag and ratio for a calendar's clock.
func (r *calendarRepo) SetClock(ctx context.Context, calendarID string, running bool, ratio float64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE calendars SET clock_running = ?, clock_ratio = ? WHERE id = ?`,
		running, ratio, calendarID)
	return err
}

// ListRunning returns all calendars whose clock is currently running.
func (r *calendarRepo) ListRunning(ctx context.Context) ([]Calendar, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+calendarCols+` FROM calendars WHERE clock_running = 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCalendars(rows)
}

// collectCalendars reads calendar rows into a slice.
func collectCalendars(rows *sql.Rows) ([]Calendar, error) {
	var cals []Calendar
	for rows.Next() {
		cal, err := scanCalendar(rows)
		if err != nil {
			return nil, err
		}
		cals = append(cals, *cal)
	}
	return cals, rows.Err()
}
