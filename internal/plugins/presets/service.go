package presets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/keyxmakerx/almanac/internal/apperror"
	"github.com/keyxmakerx/almanac/internal/plugins/calendar"
)

// PresetService lists embedded presets and instantiates them as calendars.
type PresetService interface {
	List() []Summary
	Get(presetID string) (*Preset, error)
	Instantiate(ctx context.Context, presetID, name string) (*calendar.Calendar, error)
}

// Summary is the listing view of a preset.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Months      int    `json:"months"`
	Weekdays    int    `json:"weekdays"`
	Intercalary int    `json:"intercalary"`
}

// presetService is the default PresetService implementation.
type presetService struct {
	presets     map[string]*Preset
	calendarSvc calendar.CalendarService
}

// NewPresetService loads the embedded presets and returns a service that
// instantiates them through the given calendar service. Fails if any
// embedded preset is malformed.
func NewPresetService(calendarSvc calendar.CalendarService) (PresetService, error) {
	presets, err := Load()
	if err != nil {
		return nil, fmt.Errorf("loading presets: %w", err)
	}
	return &presetService{presets: presets, calendarSvc: calendarSvc}, nil
}

// List returns summaries of all embedded presets.
func (s *presetService) List() []Summary {
	var out []Summary
	for _, p := range Sorted(s.presets) {
		out = append(out, Summary{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Months:      len(p.Months),
			Weekdays:    len(p.Weekdays),
			Intercalary: len(p.Intercalary),
		})
	}
	return out
}

// Get returns a preset by ID.
func (s *presetService) Get(presetID string) (*Preset, error) {
	p, ok := s.presets[presetID]
	if !ok {
		return nil, apperror.NewNotFound("preset not found")
	}
	return p, nil
}

// Instantiate creates a new calendar from a preset. The optional name
// overrides the preset's display name. A partially created calendar is
// deleted on failure.
func (s *presetService) Instantiate(ctx context.Context, presetID, name string) (*calendar.Calendar, error) {
	p, err := s.Get(presetID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = p.Name
	}

	input := calendar.CreateCalendarInput{
		Name:            name,
		LeapMode:        p.Leap.Mode,
		LeapInterval:    p.Leap.Interval,
		LeapExtraDays:   p.Leap.ExtraDays,
		WorldTimeMode:   p.WorldTime.Mode,
		EpochYear:       p.WorldTime.EpochYear,
		CurrentYear:     p.WorldTime.CurrentYear,
		HoursInDay:      p.Units.HoursInDay,
		MinutesInHour:   p.Units.MinutesInHour,
		SecondsInMinute: p.Units.SecondsInMinute,
	}
	if p.Description != "" {
		desc := p.Description
		input.Description = &desc
	}
	if p.Leap.Month != "" {
		// Resolution cannot fail here; validate() checked it at load.
		input.LeapMonth, _ = p.monthIndex(p.Leap.Month)
	}
	if p.FirstWeekday != "" {
		input.FirstWeekday, _ = p.weekdayIndex(p.FirstWeekday)
	}

	cal, err := s.calendarSvc.CreateCalendar(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("create calendar from preset %s: %w", presetID, err)
	}

	if err := s.fill(ctx, cal.ID, p); err != nil {
		// Best-effort cleanup; the half-built calendar is useless.
		if delErr := s.calendarSvc.DeleteCalendar(ctx, cal.ID); delErr != nil {
			slog.Error("cleanup of partial preset calendar failed",
				slog.String("calendar_id", cal.ID),
				slog.Any("error", delErr),
			)
		}
		return nil, err
	}

	return s.calendarSvc.GetCalendar(ctx, cal.ID)
}

// fill populates all sub-resources on a freshly created calendar.
func (s *presetService) fill(ctx context.Context, calendarID string, p *Preset) error {
	months := make([]calendar.MonthInput, 0, len(p.Months))
	for _, m := range p.Months {
		months = append(months, calendar.MonthInput{Name: m.Name, Days: m.Days})
	}
	if err := s.calendarSvc.SetMonths(ctx, calendarID, months); err != nil {
		return fmt.Errorf("set months: %w", err)
	}

	weekdays := make([]calendar.WeekdayInput, 0, len(p.Weekdays))
	for _, w := range p.Weekdays {
		weekdays = append(weekdays, calendar.WeekdayInput{Name: w})
	}
	if err := s.calendarSvc.SetWeekdays(ctx, calendarID, weekdays); err != nil {
		return fmt.Errorf("set weekdays: %w", err)
	}

	if len(p.Intercalary) > 0 {
		days := make([]calendar.IntercalaryInput, 0, len(p.Intercalary))
		for _, ic := range p.Intercalary {
			month, _ := p.monthIndex(ic.Month)
			days = append(days, calendar.IntercalaryInput{
				Name:              ic.Name,
				Month:             month,
				Position:          ic.Position,
				Days:              ic.Days,
				LeapYearOnly:      ic.LeapYearOnly,
				CountsForWeekdays: ic.CountsForWeekdays,
			})
		}
		if err := s.calendarSvc.SetIntercalary(ctx, calendarID, days); err != nil {
			return fmt.Errorf("set intercalary: %w", err)
		}
	}

	if len(p.Seasons) > 0 {
		seasons := make([]calendar.SeasonInput, 0, len(p.Seasons))
		for _, season := range p.Seasons {
			start, _ := p.monthIndex(season.StartMonth)
			end := 0
			if season.EndMonth != "" {
				end, _ = p.monthIndex(season.EndMonth)
			}
			seasons = append(seasons, calendar.SeasonInput{
				Name:        season.Name,
				StartMonth:  start,
				StartDay:    season.StartDay,
				EndMonth:    end,
				EndDay:      season.EndDay,
				Sunrise:     season.Sunrise,
				Sunset:      season.Sunset,
				Icon:        season.Icon,
				Description: season.Description,
			})
		}
		if err := s.calendarSvc.SetSeasons(ctx, calendarID, seasons); err != nil {
			return fmt.Errorf("set seasons: %w", err)
		}
	}

	if len(p.SolarAnchors) > 0 {
		anchors := make([]calendar.SolarAnchorInput, 0, len(p.SolarAnchors))
		for _, a := range p.SolarAnchors {
			month, _ := p.monthIndex(a.Month)
			anchors = append(anchors, calendar.SolarAnchorInput{
				AnchorID: a.ID,
				Month:    month,
				Day:      a.Day,
				Sunrise:  a.Sunrise,
				Sunset:   a.Sunset,
			})
		}
		if err := s.calendarSvc.SetSolarAnchors(ctx, calendarID, anchors); err != nil {
			return fmt.Errorf("set solar anchors: %w", err)
		}
	}

	return nil
}
