package engine

import (
	"fmt"
	"math"
	"strings"
)

// ParseTimeString splits an "HH:MM" string into hour and minute parts.
// Hours may exceed two digits for calendars with long days. Malformed
// input returns InvalidTimeFormatError; range checks against specific
// time units are the caller's concern.
func ParseTimeString(s string) (hour, minute int, err error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || hh == "" || mm == "" {
		return 0, 0, &InvalidTimeFormatError{Value: s}
	}
	if hour, ok = parseDigits(hh); !ok {
		return 0, 0, &InvalidTimeFormatError{Value: s}
	}
	if minute, ok = parseDigits(mm); !ok {
		return 0, 0, &InvalidTimeFormatError{Value: s}
	}
	return hour, minute, nil
}

// parseDigits parses a non-negative base-10 integer, rejecting anything
// that strconv would forgive (signs, spaces, hex).
func parseDigits(s string) (int, bool) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// TimeStringToHours converts "HH:MM" to fractional hours using the
// unit's minutes-per-hour. The minute part must fit inside one hour.
func (u TimeUnits) TimeStringToHours(s string) (float64, error) {
	hour, minute, err := ParseTimeString(s)
	if err != nil {
		return 0, err
	}
	if minute >= u.MinutesInHour {
		return 0, &InvalidTimeFormatError{Value: s}
	}
	return float64(hour) + float64(minute)/float64(u.MinutesInHour), nil
}

// HoursToTimeString renders fractional hours as "HH:MM", rounding to the
// nearest minute and carrying overflow into the hour. Exact inverse of
// TimeStringToHours for valid inputs.
func (u TimeUnits) HoursToTimeString(hours float64) string {
	h := int(hours)
	m := int(math.Round((hours - float64(h)) * float64(u.MinutesInHour)))
	if m >= u.MinutesInHour {
		m -= u.MinutesInHour
		h++
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// TimeStringToSeconds converts "HH:MM" to seconds from midnight.
func (u TimeUnits) TimeStringToSeconds(s string) (int, error) {
	hour, minute, err := ParseTimeString(s)
	if err != nil {
		return 0, err
	}
	if minute >= u.MinutesInHour {
		return 0, &InvalidTimeFormatError{Value: s}
	}
	return hour*u.SecondsPerHour() + minute*u.SecondsInMinute, nil
}

// SecondsToTimeString renders seconds from midnight as "HH:MM",
// truncating sub-minute remainders. Round-trips exactly with
// TimeStringToSeconds for whole-minute values.
func (u TimeUnits) SecondsToTimeString(sec int) string {
	h := sec / u.SecondsPerHour()
	m := (sec % u.SecondsPerHour()) / u.SecondsInMinute
	return fmt.Sprintf("%02d:%02d", h, m)
}
