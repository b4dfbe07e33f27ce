package calendar

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/keyxmakerx/almanac/internal/apperror"
	"github.com/keyxmakerx/almanac/internal/engine"
)

// generateID creates a random UUID v4 string.
func generateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}

// ConvertDateInput is the input for converting a structured date to world
// time. Intercalary, when set, names an inserted day and Day indexes into
// that span; Month is ignored in that case. Time is an optional "HH:MM"
// string in the calendar's own units.
type ConvertDateInput struct {
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Day         int    `json:"day"`
	Intercalary string `json:"intercalary,omitempty"`
	Time        string `json:"time,omitempty"`
}

// CalendarService defines business logic for the calendar plugin.
type CalendarService interface {
	// Calendar CRUD.
	CreateCalendar(ctx context.Context, input CreateCalendarInput) (*Calendar, error)
	GetCalendar(ctx context.Context, calendarID string) (*Calendar, error)
	ListCalendars(ctx context.Context) ([]Calendar, error)
	UpdateCalendar(ctx context.Context, calendarID string, input UpdateCalendarInput) error
	DeleteCalendar(ctx context.Context, calendarID string) error

	// Sub-resource bulk updates (replace all).
	SetMonths(ctx context.Context, calendarID string, months []MonthInput) error
	SetWeekdays(ctx context.Context, calendarID string, weekdays []WeekdayInput) error
	SetIntercalary(ctx context.Context, calendarID string, days []IntercalaryInput) error
	SetSeasons(ctx context.Context, calendarID string, seasons []SeasonInput) error
	SetSolarAnchors(ctx context.Context, calendarID string, anchors []SolarAnchorInput) error

	// Conversions and lookups.
	CurrentDate(ctx context.Context, calendarID string) (*DateInfo, error)
	WorldTimeToDate(ctx context.Context, calendarID string, worldTime int64, creation *float64) (*DateInfo, error)
	DateToWorldTime(ctx context.Context, calendarID string, input ConvertDateInput) (int64, error)
	SeasonAt(ctx context.Context, calendarID string, year, month, day int) (*SeasonInfo, error)
	SolarAt(ctx context.Context, calendarID string, year, month, day int) (*SolarInfo, error)
	WeekdayAt(ctx context.Context, calendarID string, year, month, day int) (*WeekdayInfo, error)

	// World clock.
	AdvanceTime(ctx context.Context, calendarID string, input AdvanceInput) (*DateInfo, error)
	SetWorldTime(ctx context.Context, calendarID string, worldTime int64) (*DateInfo, error)
	StartClock(ctx context.Context, calendarID string, ratio float64) error
	StopClock(ctx context.Context, calendarID string) error
	TickRunning(ctx context.Context, elapsed time.Duration) error
}

// calendarService is the default CalendarService implementation.
type calendarService struct {
	repo  CalendarRepository
	cache SchemaCache
}

// NewCalendarService creates a CalendarService backed by the given
// repository and schema cache. The cache may be nil (every load then hits
// the database).
func NewCalendarService(repo CalendarRepository, cache SchemaCache) CalendarService {
	return &calendarService{repo: repo, cache: cache}
}

// validModes for world time interpretation and leap rules.
var (
	worldTimeModes = map[string]bool{"": true, engine.WorldTimeEpoch: true, engine.WorldTimeRealTime: true}
	leapModes      = map[string]bool{"": true, engine.LeapNone: true, engine.LeapGregorian: true, engine.LeapCustom: true}
)

// validateSettings checks the flat config fields shared by create and update.
func validateSettings(name, leapMode, wtMode string, hours, minutes, seconds int) error {
	if name == "" {
		return apperror.NewValidation("calendar name is required")
	}
	if !leapModes[leapMode] {
		return apperror.NewValidation("leap_mode must be 'none', 'gregorian' or 'custom'")
	}
	if !worldTimeModes[wtMode] {
		return apperror.NewValidation("world_time_mode must be 'epoch-based' or 'real-time-based'")
	}
	if hours < 1 || minutes < 1 || seconds < 1 {
		return apperror.NewValidation("time units must all be at least 1")
	}
	return nil
}

// CreateCalendar creates a new calendar definition. Zero time units
// default to a 24/60/60 day; the leap mode defaults to none and the
// clock ratio to 1 game second per real second.
func (s *calendarService) CreateCalendar(ctx context.Context, input CreateCalendarInput) (*Calendar, error) {
	if input.Name == "" {
		input.Name = "New Calendar"
	}
	if input.LeapMode == "" {
		input.LeapMode = engine.LeapNone
	}
	if input.HoursInDay == 0 && input.MinutesInHour == 0 && input.SecondsInMinute == 0 {
		input.HoursInDay = engine.DefaultTimeUnits.HoursInDay
		input.MinutesInHour = engine.DefaultTimeUnits.MinutesInHour
		input.SecondsInMinute = engine.DefaultTimeUnits.SecondsInMinute
	}

	if err := validateSettings(input.Name, input.LeapMode, input.WorldTimeMode,
		input.HoursInDay, input.MinutesInHour, input.SecondsInMinute); err != nil {
		return nil, err
	}

	cal := &Calendar{
		ID:              generateID(),
		Name:            input.Name,
		Description:     input.Description,
		FirstWeekday:    input.FirstWeekday,
		LeapMode:        input.LeapMode,
		LeapInterval:    input.LeapInterval,
		LeapMonth:       input.LeapMonth,
		LeapExtraDays:   input.LeapExtraDays,
		WorldTimeMode:   input.WorldTimeMode,
		EpochYear:       input.EpochYear,
		CurrentYear:     input.CurrentYear,
		WorldCreation:   input.WorldCreation,
		HoursInDay:      input.HoursInDay,
		MinutesInHour:   input.MinutesInHour,
		SecondsInMinute: input.SecondsInMinute,
		ClockRatio:      1.0,
	}

	if err := s.repo.Create(ctx, cal); err != nil {
		return nil, fmt.Errorf("create calendar: %w", err)
	}
	return cal, nil
}

// GetCalendar returns a calendar by ID with all sub-resources loaded.
func (s *calendarService) GetCalendar(ctx context.Context, calendarID string) (*Calendar, error) {
	return s.load(ctx, calendarID)
}

// ListCalendars returns all calendars without sub-resources.
func (s *calendarService) ListCalendars(ctx context.Context) ([]Calendar, error) {
	cals, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}
	return cals, nil
}

// UpdateCalendar updates the calendar's flat settings.
func (s *calendarService) UpdateCalendar(ctx context.Context, calendarID string, input UpdateCalendarInput) error {
	cal, err := s.repo.GetByID(ctx, calendarID)
	if err != nil {
		return fmt.Errorf("get calendar: %w", err)
	}
	if cal == nil {
		return apperror.NewNotFound("calendar not found")
	}

	if err := validateSettings(input.Name, input.LeapMode, input.WorldTimeMode,
		input.HoursInDay, input.MinutesInHour, input.SecondsInMinute); err != nil {
		return err
	}

	cal.Name = input.Name
	cal.Description = input.Description
	cal.FirstWeekday = input.FirstWeekday
	cal.LeapMode = input.LeapMode
	cal.LeapInterval = input.LeapInterval
	cal.LeapMonth = input.LeapMonth
	cal.LeapExtraDays = input.LeapExtraDays
	cal.WorldTimeMode = input.WorldTimeMode
	cal.EpochYear = input.EpochYear
	cal.CurrentYear = input.CurrentYear
	cal.WorldCreation = input.WorldCreation
	cal.HoursInDay = input.HoursInDay
	cal.MinutesInHour = input.MinutesInHour
	cal.SecondsInMinute = input.SecondsInMinute

	if err := s.repo.Update(ctx, cal); err != nil {
		return fmt.Errorf("update calendar: %w", err)
	}
	s.invalidate(ctx, calendarID)
	return nil
}

// DeleteCalendar removes a calendar and all its data.
func (s *calendarService) DeleteCalendar(ctx context.Context, calendarID string) error {
	if err := s.repo.Delete(ctx, calendarID); err != nil {
		return fmt.Errorf("delete calendar: %w", err)
	}
	s.invalidate(ctx, calendarID)
	return nil
}

// --- sub-resource updates ---

// SetMonths replaces all months. Validates at least one month exists.
func (s *calendarService) SetMonths(ctx context.Context, calendarID string, months []MonthInput) error {
	if len(months) == 0 {
		return apperror.NewValidation("calendar must have at least one month")
	}
	for i, m := range months {
		if m.Name == "" {
			return apperror.NewValidation(fmt.Sprintf("month %d: name is required", i+1))
		}
		if m.Days < 1 {
			return apperror.NewValidation(fmt.Sprintf("month %q: days must be at least 1", m.Name))
		}
	}
	if err := s.requireCalendar(ctx, calendarID); err != nil {
		return err
	}
	if err := s.repo.SetMonths(ctx, calendarID, months); err != nil {
		return fmt.Errorf("set months: %w", err)
	}
	s.invalidate(ctx, calendarID)
	return nil
}

// SetWeekdays replaces all weekdays.
func (s *calendarService) SetWeekdays(ctx context.Context, calendarID string, weekdays []WeekdayInput) error {
	if len(weekdays) == 0 {
		return apperror.NewValidation("calendar must have at least one weekday")
	}
	for i, w := range weekdays {
		if w.Name == "" {
			return apperror.NewValidation(fmt.Sprintf("weekday %d: name is required", i+1))
		}
	}
	if err := s.requireCalendar(ctx, calendarID); err != nil {
		return err
	}
	if err := s.repo.SetWeekdays(ctx, calendarID, weekdays); err != nil {
		return fmt.Errorf("set weekdays: %w", err)
	}
	s.invalidate(ctx, calendarID)
	return nil
}

// SetIntercalary replaces all intercalary days.
func (s *calendarService) SetIntercalary(ctx context.Context, calendarID string, days []IntercalaryInput) error {
	for i, ic := range days {
		if ic.Name == "" {
			return apperror.NewValidation(fmt.Sprintf("intercalary %d: name is required", i+1))
		}
		if ic.Position != engine.AnchorBefore && ic.Position != engine.AnchorAfter {
			return apperror.NewValidation(fmt.Sprintf("intercalary %q: position must be 'before' or 'after'", ic.Name))
		}
		if ic.Days < 1 {
			return apperror.NewValidation(fmt.Sprintf("intercalary %q: days must be at least 1", ic.Name))
		}
	}
	if err := s.requireCalendar(ctx, calendarID); err != nil {
		return err
	}
	if err := s.repo.SetIntercalary(ctx, calendarID, days); err != nil {
		return fmt.Errorf("set intercalary: %w", err)
	}
	s.invalidate(ctx, calendarID)
	return nil
}

// SetSeasons replaces all seasons. Definition order is preserved; the
// resolver picks the first matching season.
func (s *calendarService) SetSeasons(ctx context.Context, calendarID string, seasons []SeasonInput) error {
	for i, season := range seasons {
		if season.Name == "" {
			return apperror.NewValidation(fmt.Sprintf("season %d: name is required", i+1))
		}
		if season.StartMonth < 1 {
			return apperror.NewValidation(fmt.Sprintf("season %q: start_month is required", season.Name))
		}
	}
	if err := s.requireCalendar(ctx, calendarID); err != nil {
		return err
	}
	if err := s.repo.SetSeasons(ctx, calendarID, seasons); err != nil {
		return fmt.Errorf("set seasons: %w", err)
	}
	s.invalidate(ctx, calendarID)
	return nil
}

// SetSolarAnchors replaces all solar anchors.
func (s *calendarService) SetSolarAnchors(ctx context.Context, calendarID string, anchors []SolarAnchorInput) error {
	for i, a := range anchors {
		if a.Month < 1 || a.Day < 1 {
			return apperror.NewValidation(fmt.Sprintf("solar anchor %d: month and day are required", i+1))
		}
		if a.Sunrise == "" || a.Sunset == "" {
			return apperror.NewValidation(fmt.Sprintf("solar anchor %d: sunrise and sunset are required", i+1))
		}
	}
	if err := s.requireCalendar(ctx, calendarID); err != nil {
		return err
	}
	if err := s.repo.SetSolarAnchors(ctx, calendarID, anchors); err != nil {
		return fmt.Errorf("set solar anchors: %w", err)
	}
	s.invalidate(ctx, calendarID)
	return nil
}

// --- conversions ---

// CurrentDate renders the calendar's stored world time as a full date view.
func (s *calendarService) CurrentDate(ctx context.Context, calendarID string) (*DateInfo, error) {
	cal, sc, err := s.schema(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	return s.render(cal, sc, cal.WorldTime)
}

// WorldTimeToDate converts an arbitrary world time to a full date view.
// The creation override, when non-nil, replaces the stored world creation
// timestamp for real-time-based calendars.
func (s *calendarService) WorldTimeToDate(ctx context.Context, calendarID string, worldTime int64, creation *float64) (*DateInfo, error) {
	cal, sc, err := s.schema(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	if creation != nil {
		cal.WorldCreation = creation
	}
	return s.render(cal, sc, worldTime)
}

// DateToWorldTime converts a structured date (normal or intercalary) back
// to an absolute world time in calendar seconds.
func (s *calendarService) DateToWorldTime(ctx context.Context, calendarID string, input ConvertDateInput) (int64, error) {
	cal, sc, err := s.schema(ctx, calendarID)
	if err != nil {
		return 0, err
	}

	var d engine.Date
	if input.Intercalary != "" {
		d, err = sc.NewIntercalaryDate(input.Year, input.Intercalary, input.Day)
	} else {
		d, err = sc.NewDate(input.Year, input.Month, input.Day)
	}
	if err != nil {
		return 0, mapEngineError(err)
	}

	if input.Time != "" {
		hour, minute, err := engine.ParseTimeString(input.Time)
		if err != nil {
			return 0, mapEngineError(err)
		}
		if hour >= sc.Units.HoursInDay || minute >= sc.Units.MinutesInHour {
			return 0, apperror.NewValidation(fmt.Sprintf("time %q out of range for this calendar's units", input.Time))
		}
		d.Time = &engine.TimeOfDay{Hour: hour, Minute: minute}
	}

	return sc.DateToWorldTime(d, cal.WorldCreation), nil
}

// SeasonAt resolves the season containing a date.
func (s *calendarService) SeasonAt(ctx context.Context, calendarID string, year, month, day int) (*SeasonInfo, error) {
	_, sc, err := s.schema(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	d, err := sc.NewDate(year, month, day)
	if err != nil {
		return nil, mapEngineError(err)
	}
	season := sc.ResolveSeason(d)
	if season == nil {
		return nil, apperror.NewNotFound("no season matches this date")
	}
	return &SeasonInfo{Name: season.Name, Icon: season.Icon, Description: season.Description}, nil
}

// SolarAt computes sunrise and sunset for a date.
func (s *calendarService) SolarAt(ctx context.Context, calendarID string, year, month, day int) (*SolarInfo, error) {
	_, sc, err := s.schema(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	d, err := sc.NewDate(year, month, day)
	if err != nil {
		return nil, mapEngineError(err)
	}
	st, err := sc.SolarTimes(d)
	if err != nil {
		return nil, mapEngineError(err)
	}
	return &SolarInfo{
		Sunrise:        sc.Units.SecondsToTimeString(st.Sunrise),
		Sunset:         sc.Units.SecondsToTimeString(st.Sunset),
		SunriseSeconds: st.Sunrise,
		SunsetSeconds:  st.Sunset,
	}, nil
}

// WeekdayAt returns the weekday index and name for a month day.
func (s *calendarService) WeekdayAt(ctx context.Context, calendarID string, year, month, day int) (*WeekdayInfo, error) {
	cal, sc, err := s.schema(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	d, err := sc.NewDate(year, month, day)
	if err != nil {
		return nil, mapEngineError(err)
	}
	return &WeekdayInfo{Index: d.Weekday, Name: cal.Weekdays[d.Weekday].Name}, nil
}

// --- world clock ---

// AdvanceTime moves the calendar's world time by a relative amount.
// Years and months are applied through date arithmetic (clamping the day
// to the target month), then days and smaller units are added as seconds.
func (s *calendarService) AdvanceTime(ctx context.Context, calendarID string, input AdvanceInput) (*DateInfo, error) {
	if input.IsZero() {
		return nil, apperror.NewValidation("advancement must not be empty")
	}

	cal, sc, err := s.schema(ctx, calendarID)
	if err != nil {
		return nil, err
	}

	wt := cal.WorldTime
	if input.Years != 0 || input.Months != 0 {
		d := sc.WorldTimeToDate(wt, cal.WorldCreation)
		// Month arithmetic is undefined on an inserted day; roll forward
		// off the intercalary span onto the month grid first.
		for d.Intercalary != "" {
			d = sc.AddDays(d, 1)
		}
		if input.Years != 0 {
			d = sc.AddYears(d, input.Years)
		}
		if input.Months != 0 {
			d = sc.AddMonths(d, input.Months)
		}
		wt = sc.DateToWorldTime(d, cal.WorldCreation)
	}

	units := sc.Units
	wt += int64(input.Days) * units.SecondsPerDay()
	wt += int64(input.Hours) * int64(units.SecondsPerHour())
	wt += int64(input.Minutes) * int64(units.SecondsInMinute)
	wt += int64(input.Seconds)

	if err := s.repo.UpdateWorldTime(ctx, calendarID, wt); err != nil {
		return nil, fmt.Errorf("update world time: %w", err)
	}
	cal.WorldTime = wt
	return s.render(cal, sc, wt)
}

// SetWorldTime sets the calendar's world time to an absolute value.
func (s *calendarService) SetWorldTime(ctx context.Context, calendarID string, worldTime int64) (*DateInfo, error) {
	cal, sc, err := s.schema(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateWorldTime(ctx, calendarID, worldTime); err != nil {
		return nil, fmt.Errorf("update world time: %w", err)
	}
	cal.WorldTime = worldTime
	return s.render(cal, sc, worldTime)
}

// StartClock starts the calendar's world clock at the given ratio of game
// seconds per real second. A zero ratio keeps the current one.
func (s *calendarService) StartClock(ctx context.Context, calendarID string, ratio float64) error {
	cal, err := s.repo.GetByID(ctx, calendarID)
	if err != nil {
		return fmt.Errorf("get calendar: %w", err)
	}
	if cal == nil {
		return apperror.NewNotFound("calendar not found")
	}
	if ratio < 0 {
		return apperror.NewValidation("clock ratio must not be negative")
	}
	if ratio == 0 {
		ratio = cal.ClockRatio
	}
	if err := s.repo.SetClock(ctx, calendarID, true, ratio); err != nil {
		return fmt.Errorf("start clock: %w", err)
	}
	return nil
}

// StopClock stops the calendar's world clock, keeping the ratio.
func (s *calendarService) StopClock(ctx context.Context, calendarID string) error {
	cal, err := s.repo.GetByID(ctx, calendarID)
	if err != nil {
		return fmt.Errorf("get calendar: %w", err)
	}
	if cal == nil {
		return apperror.NewNotFound("calendar not found")
	}
	if err := s.repo.SetClock(ctx, calendarID, false, cal.ClockRatio); err != nil {
		return fmt.Errorf("stop clock: %w", err)
	}
	return nil
}

// TickRunning advances every running calendar's world time by the real
// elapsed duration scaled by its clock ratio. Called from the background
// ticker. A failed calendar is logged and skipped so one broken row
// doesn't stall the rest.
func (s *calendarService) TickRunning(ctx context.Context, elapsed time.Duration) error {
	cals, err := s.repo.ListRunning(ctx)
	if err != nil {
		return fmt.Errorf("list running calendars: %w", err)
	}

	for _, cal := range cals {
		delta := int64(math.Round(elapsed.Seconds() * cal.ClockRatio))
		if delta == 0 {
			continue
		}
		if err := s.repo.UpdateWorldTime(ctx, cal.ID, cal.WorldTime+delta); err != nil {
			slog.Error("clock tick failed",
				slog.String("calendar_id", cal.ID),
				slog.Any("error", err),
			)
		}
	}
	return nil
}

// --- internals ---

// requireCalendar ensures the calendar row exists.
func (s *calendarService) requireCalendar(ctx context.Context, calendarID string) error {
	cal, err := s.repo.GetByID(ctx, calendarID)
	if err != nil {
		return fmt.Errorf("get calendar: %w", err)
	}
	if cal == nil {
		return apperror.NewNotFound("calendar not found")
	}
	return nil
}

// load returns the calendar with all sub-resources. The base row is
// always read fresh (it carries the live world time), while the
// sub-resource slices come from the cache when available.
func (s *calendarService) load(ctx context.Context, calendarID string) (*Calendar, error) {
	cal, err := s.repo.GetByID(ctx, calendarID)
	if err != nil {
		return nil, fmt.Errorf("get calendar: %w", err)
	}
	if cal == nil {
		return nil, apperror.NewNotFound("calendar not found")
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, calendarID)
		if err != nil {
			slog.Warn("schema cache read failed", slog.Any("error", err))
		}
		if cached != nil {
			cal.Months = cached.Months
			cal.Weekdays = cached.Weekdays
			cal.Intercalary = cached.Intercalary
			cal.Seasons = cached.Seasons
			cal.SolarAnchors = cached.SolarAnchors
			return cal, nil
		}
	}

	if cal.Months, err = s.repo.GetMonths(ctx, calendarID); err != nil {
		return nil, fmt.Errorf("get months: %w", err)
	}
	if cal.Weekdays, err = s.repo.GetWeekdays(ctx, calendarID); err != nil {
		return nil, fmt.Errorf("get weekdays: %w", err)
	}
	if cal.Intercalary, err = s.repo.GetIntercalary(ctx, calendarID); err != nil {
		return nil, fmt.Errorf("get intercalary: %w", err)
	}
	if cal.Seasons, err = s.repo.GetSeasons(ctx, calendarID); err != nil {
		return nil, fmt.Errorf("get seasons: %w", err)
	}
	if cal.SolarAnchors, err = s.repo.GetSolarAnchors(ctx, calendarID); err != nil {
		return nil, fmt.Errorf("get solar anchors: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cal); err != nil {
			slog.Warn("schema cache write failed", slog.Any("error", err))
		}
	}
	return cal, nil
}

// schema loads the calendar and compiles its validated engine schema.
func (s *calendarService) schema(ctx context.Context, calendarID string) (*Calendar, *engine.Calendar, error) {
	cal, err := s.load(ctx, calendarID)
	if err != nil {
		return nil, nil, err
	}
	sc := cal.Schema()
	if err := sc.Validate(); err != nil {
		return nil, nil, apperror.NewValidation("calendar schema is incomplete: " + err.Error())
	}
	return cal, sc, nil
}

// invalidate drops the cached schema, logging failures instead of
// propagating them (the TTL eventually heals a missed invalidation).
func (s *calendarService) invalidate(ctx context.Context, calendarID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, calendarID); err != nil {
		slog.Warn("schema cache invalidate failed",
			slog.String("calendar_id", calendarID),
			slog.Any("error", err),
		)
	}
}

// render builds the full date view for a world time on a loaded calendar.
func (s *calendarService) render(cal *Calendar, sc *engine.Calendar, worldTime int64) (*DateInfo, error) {
	d := sc.WorldTimeToDate(worldTime, cal.WorldCreation)

	info := &DateInfo{WorldTime: worldTime, Date: d}

	if d.Month >= 1 && d.Month <= len(cal.Months) {
		info.MonthName = cal.Months[d.Month-1].Name
	}
	if d.Weekday >= 0 && d.Weekday < len(cal.Weekdays) {
		info.WeekdayName = cal.Weekdays[d.Weekday].Name
	}
	if d.Time != nil {
		info.TimeOfDay = fmt.Sprintf("%02d:%02d:%02d", d.Time.Hour, d.Time.Minute, d.Time.Second)
	}

	// Season and solar lookups need a resolved year.
	if d.YearUnresolved {
		return info, nil
	}

	if season := sc.ResolveSeason(d); season != nil {
		info.Season = &SeasonInfo{Name: season.Name, Icon: season.Icon, Description: season.Description}
	}

	st, err := sc.SolarTimes(d)
	if err != nil {
		return nil, mapEngineError(err)
	}
	info.Sunrise = sc.Units.SecondsToTimeString(st.Sunrise)
	info.Sunset = sc.Units.SecondsToTimeString(st.Sunset)

	return info, nil
}

// mapEngineError converts engine validation errors to client-safe 422s.
func mapEngineError(err error) error {
	var dateErr *engine.InvalidDateError
	if errors.As(err, &dateErr) {
		return apperror.NewValidation(dateErr.Error())
	}
	var timeErr *engine.InvalidTimeFormatError
	if errors.As(err, &timeErr) {
		return apperror.NewValidation(timeErr.Error())
	}
	return err
}
