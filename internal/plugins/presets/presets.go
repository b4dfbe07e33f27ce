// Package presets ships ready-made calendar definitions (embedded as
// YAML) and instantiates them as editable calendars through the calendar
// plugin. Preset files reference months and weekdays by name; resolution
// to 1-based indices happens at load time so a typo in a preset fails on
// startup, not at instantiation.
package presets

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var presetFS embed.FS

// Preset is one embedded calendar definition, parsed from YAML and
// served back as JSON by the preset API.
type Preset struct {
	ID          string `yaml:"-" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description,omitempty"`

	Leap struct {
		Mode      string `yaml:"mode" json:"mode"`
		Interval  int    `yaml:"interval" json:"interval,omitempty"`
		Month     string `yaml:"month" json:"month,omitempty"` // month name, resolved to an index
		ExtraDays int    `yaml:"extra_days" json:"extra_days,omitempty"`
	} `yaml:"leap" json:"leap"`

	WorldTime struct {
		Mode        string `yaml:"mode" json:"mode"`
		EpochYear   int    `yaml:"epoch_year" json:"epoch_year"`
		CurrentYear int    `yaml:"current_year" json:"current_year"`
	} `yaml:"world_time" json:"world_time"`

	Units struct {
		HoursInDay      int `yaml:"hours_in_day" json:"hours_in_day"`
		MinutesInHour   int `yaml:"minutes_in_hour" json:"minutes_in_hour"`
		SecondsInMinute int `yaml:"seconds_in_minute" json:"seconds_in_minute"`
	} `yaml:"units" json:"units"`

	FirstWeekday string `yaml:"first_weekday" json:"first_weekday"` // weekday name

	Months []struct {
		Name string `yaml:"name" json:"name"`
		Days int    `yaml:"days" json:"days"`
	} `yaml:"months" json:"months"`

	Weekdays []string `yaml:"weekdays" json:"weekdays"`

	Intercalary []struct {
		Name              string `yaml:"name" json:"name"`
		Month             string `yaml:"month" json:"month"` // anchor month name
		Position          string `yaml:"position" json:"position"`
		Days              int    `yaml:"days" json:"days"`
		LeapYearOnly      bool   `yaml:"leap_year_only" json:"leap_year_only"`
		CountsForWeekdays bool   `yaml:"counts_for_weekdays" json:"counts_for_weekdays"`
	} `yaml:"intercalary" json:"intercalary,omitempty"`

	Seasons []struct {
		Name        string `yaml:"name" json:"name"`
		StartMonth  string `yaml:"start_month" json:"start_month"`
		StartDay    int    `yaml:"start_day" json:"start_day,omitempty"`
		EndMonth    string `yaml:"end_month" json:"end_month,omitempty"`
		EndDay      int    `yaml:"end_day" json:"end_day,omitempty"`
		Sunrise     string `yaml:"sunrise" json:"sunrise,omitempty"`
		Sunset      string `yaml:"sunset" json:"sunset,omitempty"`
		Icon        string `yaml:"icon" json:"icon,omitempty"`
		Description string `yaml:"description" json:"description,omitempty"`
	} `yaml:"seasons" json:"seasons,omitempty"`

	SolarAnchors []struct {
		ID      string `yaml:"id" json:"id"`
		Month   string `yaml:"month" json:"month"`
		Day     int    `yaml:"day" json:"day"`
		Sunrise string `yaml:"sunrise" json:"sunrise"`
		Sunset  string `yaml:"sunset" json:"sunset"`
	} `yaml:"solar_anchors" json:"solar_anchors,omitempty"`
}

// monthIndex resolves a month name to its 1-based index.
func (p *Preset) monthIndex(name string) (int, error) {
	for i, m := range p.Months {
		if strings.EqualFold(m.Name, name) {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("preset %s: unknown month %q", p.ID, name)
}

// weekdayIndex resolves a weekday name to its 0-based index.
func (p *Preset) weekdayIndex(name string) (int, error) {
	for i, w := range p.Weekdays {
		if strings.EqualFold(w, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("preset %s: unknown weekday %q", p.ID, name)
}

// validate checks that every name reference in the preset resolves.
func (p *Preset) validate() error {
	if p.Name == "" {
		return fmt.Errorf("preset %s: name is required", p.ID)
	}
	if len(p.Months) == 0 || len(p.Weekdays) == 0 {
		return fmt.Errorf("preset %s: months and weekdays are required", p.ID)
	}
	if p.Leap.Month != "" {
		if _, err := p.monthIndex(p.Leap.Month); err != nil {
			return err
		}
	}
	if p.FirstWeekday != "" {
		if _, err := p.weekdayIndex(p.FirstWeekday); err != nil {
			return err
		}
	}
	for _, ic := range p.Intercalary {
		if _, err := p.monthIndex(ic.Month); err != nil {
			return err
		}
	}
	for _, s := range p.Seasons {
		if _, err := p.monthIndex(s.StartMonth); err != nil {
			return err
		}
		if s.EndMonth != "" {
			if _, err := p.monthIndex(s.EndMonth); err != nil {
				return err
			}
		}
	}
	for _, a := range p.SolarAnchors {
		if _, err := p.monthIndex(a.Month); err != nil {
			return err
		}
	}
	return nil
}

// Load parses and validates all embedded presets, keyed by file basename
// (e.g. "gregorian" for data/gregorian.yaml).
func Load() (map[string]*Preset, error) {
	return loadFrom(presetFS, "data")
}

// loadFrom parses presets from an arbitrary fs; split out for tests.
func loadFrom(fsys fs.FS, dir string) (map[string]*Preset, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading preset dir: %w", err)
	}

	presets := make(map[string]*Preset, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") {
			continue
		}

		data, err := fs.ReadFile(fsys, dir+"/"+name)
		if err != nil {
			return nil, fmt.Errorf("reading preset %s: %w", name, err)
		}

		p := &Preset{ID: strings.TrimSuffix(name, ".yaml")}
		if err := yaml.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("parsing preset %s: %w", name, err)
		}
		if err := p.validate(); err != nil {
			return nil, err
		}
		presets[p.ID] = p
	}
	return presets, nil
}

// Sorted returns presets ordered by ID for stable listings.
func Sorted(presets map[string]*Preset) []*Preset {
	out := make([]*Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
