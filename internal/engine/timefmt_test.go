package engine

import (
	"errors"
	"testing"
)

func TestParseTimeString(t *testing.T) {
	cases := []struct {
		in           string
		hour, minute int
		ok           bool
	}{
		{"06:00", 6, 0, true},
		{"23:59", 23, 59, true},
		{"0:05", 0, 5, true},
		{"105:30", 105, 30, true}, // long days are legal
		{"", 0, 0, false},
		{"06", 0, 0, false},
		{"06:", 0, 0, false},
		{":30", 0, 0, false},
		{"six:30", 0, 0, false},
		{"-1:30", 0, 0, false},
		{"06:3a", 0, 0, false},
		{"06 30", 0, 0, false},
	}

	for _, tc := range cases {
		h, m, err := ParseTimeString(tc.in)
		if tc.ok {
			if err != nil {
				t.Errorf("ParseTimeString(%q) unexpected error: %v", tc.in, err)
				continue
			}
			if h != tc.hour || m != tc.minute {
				t.Errorf("ParseTimeString(%q) = %d:%d, want %d:%d", tc.in, h, m, tc.hour, tc.minute)
			}
			continue
		}
		var invalid *InvalidTimeFormatError
		if !errors.As(err, &invalid) {
			t.Errorf("ParseTimeString(%q): expected InvalidTimeFormatError, got %v", tc.in, err)
		}
	}
}

func TestTimeStringToHours_RoundTrip(t *testing.T) {
	u := DefaultTimeUnits
	for _, s := range []string{"00:00", "06:00", "05:30", "12:45", "23:59"} {
		hours, err := u.TimeStringToHours(s)
		if err != nil {
			t.Fatalf("TimeStringToHours(%q): %v", s, err)
		}
		if got := u.HoursToTimeString(hours); got != s {
			t.Errorf("round trip %q -> %v -> %q", s, hours, got)
		}
	}
}

func TestTimeStringToHours_CustomUnits(t *testing.T) {
	u := TimeUnits{HoursInDay: 20, MinutesInHour: 50, SecondsInMinute: 40}

	hours, err := u.TimeStringToHours("10:25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hours != 10.5 {
		t.Errorf("10:25 on a 50-minute hour = %v, want 10.5", hours)
	}

	// 55 minutes doesn't fit inside a 50-minute hour.
	if _, err := u.TimeStringToHours("10:55"); err == nil {
		t.Error("10:55 accepted with minutes_in_hour=50")
	}

	if got := u.HoursToTimeString(10.5); got != "10:25" {
		t.Errorf("HoursToTimeString(10.5) = %q, want 10:25", got)
	}
}

func TestSecondsToTimeString_RoundTrip(t *testing.T) {
	u := DefaultTimeUnits
	for _, s := range []string{"00:00", "06:30", "18:00", "23:59"} {
		sec, err := u.TimeStringToSeconds(s)
		if err != nil {
			t.Fatalf("TimeStringToSeconds(%q): %v", s, err)
		}
		if got := u.SecondsToTimeString(sec); got != s {
			t.Errorf("round trip %q -> %d -> %q", s, sec, got)
		}
	}

	if sec, _ := u.TimeStringToSeconds("06:30"); sec != 23400 {
		t.Errorf("06:30 = %d seconds, want 23400", sec)
	}
}

func TestHoursToTimeString_MinuteCarry(t *testing.T) {
	u := DefaultTimeUnits
	// 5.9999 hours rounds to 360 minutes, which must carry into 06:00
	// rather than rendering 05:60.
	if got := u.HoursToTimeString(5.9999); got != "06:00" {
		t.Errorf("HoursToTimeString(5.9999) = %q, want 06:00", got)
	}
}
