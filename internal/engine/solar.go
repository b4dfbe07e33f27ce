package engine

import (
	"math"
	"strings"
)

// SolarTimes are sunrise and sunset as seconds from midnight, expressed
// in the calendar's own units.
type SolarTimes struct {
	Sunrise int `json:"sunrise"`
	Sunset  int `json:"sunset"`
}

// referenceSolar provides default sunrise/sunset values for seasons whose
// names match the conventional four, letting season-only calendars get a
// plausible solar curve without explicit times.
var referenceSolar = map[string][2]string{
	"spring": {"06:00", "18:00"},
	"summer": {"05:30", "20:30"},
	"autumn": {"06:30", "17:30"},
	"fall":   {"06:30", "17:30"},
	"winter": {"07:00", "16:30"},
}

// referenceSolarOrder cycles defaults onto unnamed seasons in the legacy
// fallback path.
var referenceSolarOrder = [][2]string{
	{"06:00", "18:00"},
	{"05:30", "20:30"},
	{"06:30", "17:30"},
	{"07:00", "16:30"},
}

// keyframe is a known point on the solar curve: a day of year with
// sunrise and sunset in fractional hours.
type keyframe struct {
	day     int
	sunrise float64
	sunset  float64
}

// SolarTimes computes sunrise and sunset for a date by interpolating
// between the nearest solar keyframes. Keyframes come from seasons that
// carry explicit sunrise/sunset (or whose name matches the built-in
// reference table), keyed at the season's start, and from solar anchors
// at their configured day. Day-of-year accounting runs through the
// engine's month/intercalary arithmetic, so inserted days shift later
// keyframes correctly.
//
// With no keyframes at all: calendars that still define seasons fall
// back to the season-progress interpolation with reference values
// assigned by position (legacy behavior); calendars with no seasons get
// a fixed sunrise at 25% and sunset at 75% of the day's hours.
func (c *Calendar) SolarTimes(d Date) (SolarTimes, error) {
	frames, err := c.solarKeyframes(d.Year)
	if err != nil {
		return SolarTimes{}, err
	}

	if len(frames) == 0 {
		if len(c.Seasons) > 0 {
			frames, err = c.legacySeasonKeyframes(d.Year)
			if err != nil {
				return SolarTimes{}, err
			}
		} else {
			hours := float64(c.Units.HoursInDay)
			return SolarTimes{
				Sunrise: c.hoursToSeconds(hours * 0.25),
				Sunset:  c.hoursToSeconds(hours * 0.75),
			}, nil
		}
	}

	return c.interpolate(frames, d), nil
}

// solarKeyframes builds the sorted keyframe list for a year from
// qualifying seasons and all solar anchors.
func (c *Calendar) solarKeyframes(year int) ([]keyframe, error) {
	var frames []keyframe

	for i := range c.Seasons {
		s := &c.Seasons[i]
		rise, set := s.Sunrise, s.Sunset
		if rise == "" || set == "" {
			ref, ok := referenceSolar[strings.ToLower(s.Name)]
			if !ok {
				continue
			}
			if rise == "" {
				rise = ref[0]
			}
			if set == "" {
				set = ref[1]
			}
		}
		kf, err := c.keyframeAt(year, s.StartMonth, max(1, s.StartDay), rise, set)
		if err != nil {
			return nil, err
		}
		frames = append(frames, kf)
	}

	for i := range c.SolarAnchors {
		a := &c.SolarAnchors[i]
		kf, err := c.keyframeAt(year, a.Month, a.Day, a.Sunrise, a.Sunset)
		if err != nil {
			return nil, err
		}
		frames = append(frames, kf)
	}

	sortKeyframes(frames)
	return frames, nil
}

// legacySeasonKeyframes treats every season as a keyframe even without
// usable sunrise/sunset data, cycling through the reference values by
// position. Preserved for calendars predating explicit solar config.
func (c *Calendar) legacySeasonKeyframes(year int) ([]keyframe, error) {
	frames := make([]keyframe, 0, len(c.Seasons))
	for i := range c.Seasons {
		s := &c.Seasons[i]
		ref := referenceSolarOrder[i%len(referenceSolarOrder)]
		kf, err := c.keyframeAt(year, s.StartMonth, max(1, s.StartDay), ref[0], ref[1])
		if err != nil {
			return nil, err
		}
		frames = append(frames, kf)
	}
	sortKeyframes(frames)
	return frames, nil
}

// keyframeAt parses the time strings and anchors them at a day of year.
func (c *Calendar) keyframeAt(year, month, day int, rise, set string) (keyframe, error) {
	riseHours, err := c.Units.TimeStringToHours(rise)
	if err != nil {
		return keyframe{}, err
	}
	setHours, err := c.Units.TimeStringToHours(set)
	if err != nil {
		return keyframe{}, err
	}
	doy := c.DayOfYear(Date{Year: year, Month: month, Day: day})
	return keyframe{day: doy, sunrise: riseHours, sunset: setHours}, nil
}

// sortKeyframes orders frames ascending by day of year (insertion sort;
// keyframe counts are tiny).
func sortKeyframes(frames []keyframe) {
	for i := 1; i < len(frames); i++ {
		for j := i; j > 0 && frames[j].day < frames[j-1].day; j-- {
			frames[j], frames[j-1] = frames[j-1], frames[j]
		}
	}
}

// interpolate finds the keyframe pair bracketing the date, wrapping
// around the year boundary, and linearly interpolates sunrise and sunset
// independently.
func (c *Calendar) interpolate(frames []keyframe, d Date) SolarTimes {
	doy := c.DayOfYear(d)

	if len(frames) == 1 {
		return SolarTimes{
			Sunrise: c.hoursToSeconds(frames[0].sunrise),
			Sunset:  c.hoursToSeconds(frames[0].sunset),
		}
	}

	yearLen := c.YearLength(d.Year)
	var prev, next keyframe
	prevDay, nextDay := 0, 0

	switch {
	case doy < frames[0].day:
		// Before the first keyframe: bracket is last-of-previous-year to first.
		prev, next = frames[len(frames)-1], frames[0]
		prevDay, nextDay = prev.day-yearLen, next.day
	case doy >= frames[len(frames)-1].day:
		// After the last keyframe: bracket wraps to the first of next year.
		prev, next = frames[len(frames)-1], frames[0]
		prevDay, nextDay = prev.day, next.day+yearLen
	default:
		for i := 0; i < len(frames)-1; i++ {
			if doy >= frames[i].day && doy < frames[i+1].day {
				prev, next = frames[i], frames[i+1]
				prevDay, nextDay = prev.day, next.day
				break
			}
		}
	}

	progress := 0.0
	if total := nextDay - prevDay; total > 0 {
		progress = float64(doy-prevDay) / float64(total)
	}

	return SolarTimes{
		Sunrise: c.hoursToSeconds(prev.sunrise + (next.sunrise-prev.sunrise)*progress),
		Sunset:  c.hoursToSeconds(prev.sunset + (next.sunset-prev.sunset)*progress),
	}
}

// hoursToSeconds converts fractional hours to whole seconds using the
// schema's units, rounding to the nearest second.
func (c *Calendar) hoursToSeconds(hours float64) int {
	return int(math.Round(hours * float64(c.Units.SecondsPerHour())))
}
