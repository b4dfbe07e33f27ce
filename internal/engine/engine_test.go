package engine

import (
	"errors"
	"math"
	"testing"
	"time"
)

// --- Test Fixtures ---

// gregorianMonths are the standard 12 months with real-world lengths.
func gregorianMonths() []Month {
	return []Month{
		{Name: "January", Days: 31}, {Name: "February", Days: 28},
		{Name: "March", Days: 31}, {Name: "April", Days: 30},
		{Name: "May", Days: 31}, {Name: "June", Days: 30},
		{Name: "July", Days: 31}, {Name: "August", Days: 31},
		{Name: "September", Days: 30}, {Name: "October", Days: 31},
		{Name: "November", Days: 30}, {Name: "December", Days: 31},
	}
}

func sevenWeekdays() []Weekday {
	return []Weekday{
		{Name: "Sunday"}, {Name: "Monday"}, {Name: "Tuesday"}, {Name: "Wednesday"},
		{Name: "Thursday"}, {Name: "Friday"}, {Name: "Saturday"},
	}
}

// newGregorian builds a Gregorian-like calendar, epoch-based at year 2000.
func newGregorian(t *testing.T) *Calendar {
	t.Helper()
	cal := &Calendar{
		Name:     "Gregorian",
		Months:   gregorianMonths(),
		Weekdays: sevenWeekdays(),
		LeapRule: LeapRule{Mode: LeapGregorian, Month: 2, ExtraDays: 1},
		WorldTime: &WorldTimeConfig{
			Interpretation: WorldTimeEpoch,
			EpochYear:      2000,
			CurrentYear:    2000,
		},
		Units: DefaultTimeUnits,
	}
	if err := cal.Validate(); err != nil {
		t.Fatalf("fixture calendar invalid: %v", err)
	}
	return cal
}

// newHarptosLike builds a calendar with intercalary days: twelve 30-day
// months, a festival after month 1, and a leap-only festival after month 7
// that does not advance the weekday cycle.
func newHarptosLike(t *testing.T) *Calendar {
	t.Helper()
	months := make([]Month, 12)
	names := []string{"Hammer", "Alturiak", "Ches", "Tarsakh", "Mirtul", "Kythorn",
		"Flamerule", "Eleasis", "Eleint", "Marpenoth", "Uktar", "Nightal"}
	for i, n := range names {
		months[i] = Month{Name: n, Days: 30}
	}
	cal := &Calendar{
		Name:     "Harptos",
		Months:   months,
		Weekdays: make([]Weekday, 10),
		LeapRule: LeapRule{Mode: LeapCustom, Interval: 4, Month: 7, ExtraDays: 0},
		Intercalary: []Intercalary{
			{Name: "Midwinter", Month: 1, Position: AnchorAfter, Days: 1, CountsForWeekdays: true},
			{Name: "Shieldmeet", Month: 7, Position: AnchorAfter, Days: 1, LeapYearOnly: true, CountsForWeekdays: false},
		},
		Units: DefaultTimeUnits,
	}
	for i := range cal.Weekdays {
		cal.Weekdays[i] = Weekday{Name: string(rune('A' + i))}
	}
	if err := cal.Validate(); err != nil {
		t.Fatalf("fixture calendar invalid: %v", err)
	}
	return cal
}

// --- Leap Years ---

func TestIsLeapYear_Gregorian(t *testing.T) {
	cal := newGregorian(t)
	cases := []struct {
		year int
		want bool
	}{
		{2000, true}, {1900, false}, {2024, true}, {2023, false},
		{2100, false}, {1600, true}, {4, true}, {0, true},
	}
	for _, tc := range cases {
		if got := cal.IsLeapYear(tc.year); got != tc.want {
			t.Errorf("IsLeapYear(%d) = %v, want %v", tc.year, got, tc.want)
		}
	}
}

func TestIsLeapYear_CustomNegativeYears(t *testing.T) {
	cal := newHarptosLike(t)
	cases := []struct {
		year int
		want bool
	}{
		{0, true}, {4, true}, {-4, true}, {-8, true},
		{-3, false}, {-1, false}, {5, false},
	}
	for _, tc := range cases {
		if got := cal.IsLeapYear(tc.year); got != tc.want {
			t.Errorf("IsLeapYear(%d) = %v, want %v", tc.year, got, tc.want)
		}
	}
}

func TestIsLeapYear_None(t *testing.T) {
	cal := newGregorian(t)
	cal.LeapRule = LeapRule{Mode: LeapNone}
	for _, y := range []int{0, 4, 2000, -400} {
		if cal.IsLeapYear(y) {
			t.Errorf("IsLeapYear(%d) = true with rule none", y)
		}
	}
}

// --- Month / Year Lengths ---

func TestMonthLengths_LeapAdjustment(t *testing.T) {
	cal := newGregorian(t)

	if got := cal.MonthLength(2, 2023); got != 28 {
		t.Errorf("February 2023 = %d days, want 28", got)
	}
	if got := cal.MonthLength(2, 2024); got != 29 {
		t.Errorf("February 2024 = %d days, want 29", got)
	}
}

func TestMonthLengths_NeverBelowOne(t *testing.T) {
	cal := newGregorian(t)
	// Removing far more days than February has must clamp to 1, not go
	// negative or zero.
	cal.LeapRule = LeapRule{Mode: LeapCustom, Interval: 2, Month: 2, ExtraDays: -38}

	if got := cal.MonthLength(2, 2024); got != 1 {
		t.Errorf("clamped leap month = %d days, want 1", got)
	}
	if got := cal.MonthLength(2, 2023); got != 28 {
		t.Errorf("common year month = %d days, want 28", got)
	}
}

func TestYearLength_Consistency(t *testing.T) {
	for _, cal := range []*Calendar{newGregorian(t), newHarptosLike(t)} {
		for year := -10; year <= 10; year++ {
			sum := cal.IntercalaryDays(year)
			for _, d := range cal.MonthLengths(year) {
				sum += d
			}
			if got := cal.YearLength(year); got != sum {
				t.Errorf("%s: YearLength(%d) = %d, want sum %d", cal.Name, year, got, sum)
			}
		}
	}
}

func TestYearLength_Values(t *testing.T) {
	greg := newGregorian(t)
	if got := greg.YearLength(2023); got != 365 {
		t.Errorf("2023 = %d days, want 365", got)
	}
	if got := greg.YearLength(2024); got != 366 {
		t.Errorf("2024 = %d days, want 366", got)
	}

	harptos := newHarptosLike(t)
	if got := harptos.YearLength(1); got != 361 {
		t.Errorf("harptos common year = %d days, want 361", got)
	}
	if got := harptos.YearLength(4); got != 362 {
		t.Errorf("harptos leap year = %d days, want 362", got)
	}
}

// --- Date <-> Days ---

func TestDateToDays_Inverse(t *testing.T) {
	for _, cal := range []*Calendar{newGregorian(t), newHarptosLike(t)} {
		dates := []Date{
			{Year: 0, Month: 1, Day: 1},
			{Year: 0, Month: 12, Day: 30},
			{Year: 5, Month: 7, Day: 15},
			{Year: -3, Month: 2, Day: 11},
			{Year: 2024, Month: 2, Day: 28},
			{Year: -100, Month: 1, Day: 1},
		}
		for _, d := range dates {
			days := cal.DateToDays(d)
			got := cal.DaysToDate(days)
			if got.Year != d.Year || got.Month != d.Month || got.Day != d.Day {
				t.Errorf("%s: round trip %+v -> %d -> %+v", cal.Name, d, days, got)
			}
		}
	}
}

func TestDaysToDate_SequentialDays(t *testing.T) {
	cal := newHarptosLike(t)
	// Walking day by day across year boundaries must visit every day
	// exactly once, intercalary spans included.
	prev := cal.DaysToDate(-5)
	for n := int64(-4); n < int64(cal.YearLength(0))+5; n++ {
		d := cal.DaysToDate(n)
		if cal.DateToDays(d) != n {
			t.Fatalf("DateToDays(DaysToDate(%d)) = %d", n, cal.DateToDays(d))
		}
		if d == prev {
			t.Fatalf("day %d resolved to the same date as day %d: %+v", n, n-1, d)
		}
		prev = d
	}
}

func TestDaysToDate_IntercalaryLanding(t *testing.T) {
	cal := newHarptosLike(t)
	// Day 30 (zero-based) of year 1 is the day after Hammer: Midwinter.
	d := cal.DaysToDate(cal.daysBetweenYears(0, 1) + 30)
	if d.Intercalary != "Midwinter" {
		t.Fatalf("expected Midwinter, got %+v", d)
	}
	if d.Weekday != -1 {
		t.Errorf("intercalary weekday = %d, want -1", d.Weekday)
	}
	if d.Day != 1 {
		t.Errorf("intercalary day index = %d, want 1", d.Day)
	}
}

func TestDaysToDate_LeapOnlyIntercalary(t *testing.T) {
	cal := newHarptosLike(t)

	// In a leap year the day after Flamerule 30 is Shieldmeet.
	leapStart := cal.daysBetweenYears(0, 4)
	afterFlamerule := leapStart + int64(7*30) + 1 // 7 months + Midwinter
	d := cal.DaysToDate(afterFlamerule)
	if d.Intercalary != "Shieldmeet" {
		t.Fatalf("leap year: expected Shieldmeet, got %+v", d)
	}

	// In a common year the same offset is a normal Eleasis day.
	commonStart := cal.daysBetweenYears(0, 1)
	d = cal.DaysToDate(commonStart + int64(7*30) + 1)
	if d.Intercalary != "" || d.Month != 8 || d.Day != 1 {
		t.Fatalf("common year: expected Eleasis 1, got %+v", d)
	}
}

// --- World Time ---

func TestWorldTimeToDate_EpochScenario(t *testing.T) {
	cal := newGregorian(t)

	d := cal.WorldTimeToDate(0, nil)
	if d.Year != 2000 || d.Month != 1 || d.Day != 1 {
		t.Fatalf("worldTime 0 = %+v, want 2000-01-01", d)
	}
	if d.Time == nil || d.Time.Hour != 0 || d.Time.Minute != 0 || d.Time.Second != 0 {
		t.Errorf("worldTime 0 time = %+v, want midnight", d.Time)
	}

	d = cal.WorldTimeToDate(86400, nil)
	if d.Year != 2000 || d.Month != 1 || d.Day != 2 {
		t.Fatalf("worldTime 86400 = %+v, want 2000-01-02", d)
	}

	// 2000 is a leap year: exactly 366 days later is 2001-01-01.
	d = cal.WorldTimeToDate(366*86400, nil)
	if d.Year != 2001 || d.Month != 1 || d.Day != 1 {
		t.Fatalf("worldTime 366d = %+v, want 2001-01-01", d)
	}
}

func TestWorldTimeToDate_Negative(t *testing.T) {
	cal := newGregorian(t)

	d := cal.WorldTimeToDate(-1, nil)
	if d.Year != 1999 || d.Month != 12 || d.Day != 31 {
		t.Fatalf("worldTime -1 = %+v, want 1999-12-31", d)
	}
	if d.Time.Hour != 23 || d.Time.Minute != 59 || d.Time.Second != 59 {
		t.Errorf("worldTime -1 time = %+v, want 23:59:59", d.Time)
	}
}

func TestWorldTimeToDate_RealTimeScenario(t *testing.T) {
	cal := newGregorian(t)
	cal.WorldTime = &WorldTimeConfig{
		Interpretation: WorldTimeRealTime,
		EpochYear:      2700,
		CurrentYear:    4725,
	}

	creation := float64(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Unix())

	d := cal.WorldTimeToDate(0, &creation)
	if d.Year != 4725 || d.Month != 1 || d.Day != 1 {
		t.Fatalf("worldTime 0 = %+v, want 4725-01-01", d)
	}

	d = cal.WorldTimeToDate(86400, &creation)
	if d.Year != 4725 || d.Month != 1 || d.Day != 2 {
		t.Fatalf("worldTime 86400 = %+v, want 4725-01-02", d)
	}

	// Without a creation timestamp, zero maps to the configured current year.
	d = cal.WorldTimeToDate(0, nil)
	if d.Year != 4725 {
		t.Fatalf("worldTime 0 without timestamp = year %d, want 4725", d.Year)
	}
}

func TestWorldTimeToDate_NonFiniteTimestamp(t *testing.T) {
	cal := newGregorian(t)
	cal.WorldTime.Interpretation = WorldTimeRealTime

	for _, ts := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		d := cal.WorldTimeToDate(0, &ts)
		if !d.YearUnresolved {
			t.Errorf("timestamp %v: expected YearUnresolved, got %+v", ts, d)
		}
	}
}

func TestWorldTimeRoundTrip(t *testing.T) {
	creation := float64(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Unix())

	configs := []*WorldTimeConfig{
		{Interpretation: WorldTimeEpoch, EpochYear: 2000, CurrentYear: 2000},
		{Interpretation: WorldTimeRealTime, EpochYear: 2700, CurrentYear: 4725},
	}
	worldTimes := []int64{0, 1, 86399, 86400, 5_000_000, -1, -86400, -10_000_000}

	for _, cfg := range configs {
		for _, base := range []*Calendar{newGregorian(t), newHarptosLike(t)} {
			cal := base
			cal.WorldTime = cfg
			for _, withTS := range []bool{false, true} {
				var ts *float64
				if withTS {
					ts = &creation
				}
				for _, wt := range worldTimes {
					d := cal.WorldTimeToDate(wt, ts)
					back := cal.DateToWorldTime(d, ts)
					if back != wt {
						t.Errorf("%s/%s ts=%v: %d -> %+v -> %d", cal.Name, cfg.Interpretation, withTS, wt, d, back)
					}
				}
			}
		}
	}
}

// --- Weekdays ---

func TestWeekdayOf_CycleLength(t *testing.T) {
	// Advancing by exactly one week returns to the same weekday index, as
	// long as every day in the span occupies a weekday slot. Harptos years
	// 1-3 contain only Midwinter, which counts for weekdays.
	for _, cal := range []*Calendar{newGregorian(t), newHarptosLike(t)} {
		start := Date{Year: 1, Month: 1, Day: 1}
		for i := 0; i < 80; i++ {
			if start.Intercalary == "" {
				wd := cal.WeekdayOf(start.Year, start.Month, start.Day)
				later := cal.AddDays(start, cal.WeekLength())
				if later.Intercalary == "" {
					if got := cal.WeekdayOf(later.Year, later.Month, later.Day); got != wd {
						t.Fatalf("%s: %+v weekday %d, +%d days -> %+v weekday %d",
							cal.Name, start, wd, cal.WeekLength(), later, got)
					}
				}
			}
			start = cal.AddDays(start, 1)
		}
	}
}

func TestWeekdayOf_SimpleCycle(t *testing.T) {
	cal := newGregorian(t)
	start := Date{Year: 1, Month: 5, Day: 3}
	wd := cal.WeekdayOf(start.Year, start.Month, start.Day)
	later := cal.AddDays(start, 7)
	if got := cal.WeekdayOf(later.Year, later.Month, later.Day); got != wd {
		t.Errorf("weekday after one week = %d, want %d", got, wd)
	}
}

func TestWeekdayOf_NonCountingIntercalary(t *testing.T) {
	cal := newHarptosLike(t)

	// Shieldmeet (leap years, after month 7) does not occupy a weekday
	// slot: Flamerule 30 and Eleasis 1 must be consecutive weekdays even
	// though a calendar day sits between them.
	before := cal.WeekdayOf(4, 7, 30)
	after := cal.WeekdayOf(4, 8, 1)
	if want := mod(before+1, cal.WeekLength()); after != want {
		t.Errorf("weekday across Shieldmeet: %d then %d, want %d", before, after, want)
	}

	// Midwinter does count: Hammer 30 and Alturiak 1 are two slots apart.
	before = cal.WeekdayOf(4, 1, 30)
	after = cal.WeekdayOf(4, 2, 1)
	if want := mod(before+2, cal.WeekLength()); after != want {
		t.Errorf("weekday across Midwinter: %d then %d, want %d", before, after, want)
	}
}

func TestWeekdayOf_NonNegative(t *testing.T) {
	cal := newGregorian(t)
	for _, d := range []Date{
		{Year: -500, Month: 1, Day: 1},
		{Year: -1, Month: 12, Day: 31},
		{Year: 3000, Month: 6, Day: 15},
	} {
		wd := cal.WeekdayOf(d.Year, d.Month, d.Day)
		if wd < 0 || wd >= cal.WeekLength() {
			t.Errorf("WeekdayOf(%+v) = %d, out of [0, %d)", d, wd, cal.WeekLength())
		}
	}
}

// --- Date Arithmetic ---

func TestAddDays_PreservesTime(t *testing.T) {
	cal := newGregorian(t)
	d := Date{Year: 2000, Month: 12, Day: 30, Time: &TimeOfDay{Hour: 13, Minute: 45}}

	got := cal.AddDays(d, 3)
	if got.Year != 2001 || got.Month != 1 || got.Day != 2 {
		t.Fatalf("AddDays = %+v, want 2001-01-02", got)
	}
	if got.Time == nil || got.Time.Hour != 13 || got.Time.Minute != 45 {
		t.Errorf("AddDays dropped time of day: %+v", got.Time)
	}

	back := cal.AddDays(got, -3)
	if back.Year != d.Year || back.Month != d.Month || back.Day != d.Day {
		t.Errorf("AddDays(-3) = %+v, want original %+v", back, d)
	}
}

func TestAddMonths_Clamp(t *testing.T) {
	cal := newGregorian(t)

	// Jan 31 + 1 month clamps to Feb 28 (common) / Feb 29 (leap),
	// never rolling into March.
	got := cal.AddMonths(Date{Year: 2023, Month: 1, Day: 31}, 1)
	if got.Month != 2 || got.Day != 28 {
		t.Errorf("Jan 31 2023 + 1mo = %+v, want Feb 28", got)
	}
	got = cal.AddMonths(Date{Year: 2024, Month: 1, Day: 31}, 1)
	if got.Month != 2 || got.Day != 29 {
		t.Errorf("Jan 31 2024 + 1mo = %+v, want Feb 29", got)
	}

	// Wrapping across year boundaries, both directions.
	got = cal.AddMonths(Date{Year: 2000, Month: 11, Day: 5}, 3)
	if got.Year != 2001 || got.Month != 2 {
		t.Errorf("Nov + 3mo = %+v, want 2001-02", got)
	}
	got = cal.AddMonths(Date{Year: 2000, Month: 2, Day: 5}, -3)
	if got.Year != 1999 || got.Month != 11 {
		t.Errorf("Feb - 3mo = %+v, want 1999-11", got)
	}
}

func TestAddYears_LeapClamp(t *testing.T) {
	cal := newGregorian(t)
	got := cal.AddYears(Date{Year: 2024, Month: 2, Day: 29}, 1)
	if got.Year != 2025 || got.Month != 2 || got.Day != 28 {
		t.Errorf("Feb 29 2024 + 1y = %+v, want 2025-02-28", got)
	}
}

// --- Construction & Validation ---

func TestNewDate_Validation(t *testing.T) {
	cal := newGregorian(t)

	if _, err := cal.NewDate(2024, 2, 29); err != nil {
		t.Errorf("Feb 29 2024 rejected: %v", err)
	}

	cases := []struct{ y, m, d int }{
		{2023, 2, 29}, {2000, 13, 1}, {2000, 0, 1}, {2000, 4, 31}, {2000, 1, 0},
	}
	for _, tc := range cases {
		_, err := cal.NewDate(tc.y, tc.m, tc.d)
		var invalid *InvalidDateError
		if !errors.As(err, &invalid) {
			t.Errorf("NewDate(%d,%d,%d): expected InvalidDateError, got %v", tc.y, tc.m, tc.d, err)
		}
	}
}

func TestNewIntercalaryDate(t *testing.T) {
	cal := newHarptosLike(t)

	d, err := cal.NewIntercalaryDate(4, "Shieldmeet", 1)
	if err != nil {
		t.Fatalf("Shieldmeet in leap year rejected: %v", err)
	}
	if d.Weekday != -1 {
		t.Errorf("intercalary weekday = %d, want -1", d.Weekday)
	}

	if _, err := cal.NewIntercalaryDate(1, "Shieldmeet", 1); err == nil {
		t.Error("Shieldmeet accepted in common year")
	}
	if _, err := cal.NewIntercalaryDate(1, "Nonesuch", 1); err == nil {
		t.Error("unknown intercalary name accepted")
	}
}

func TestValidate_Failures(t *testing.T) {
	base := func() *Calendar {
		return &Calendar{
			Name:     "t",
			Months:   []Month{{Name: "One", Days: 30}},
			Weekdays: []Weekday{{Name: "Day"}},
			Units:    DefaultTimeUnits,
		}
	}

	cases := []struct {
		name   string
		mutate func(*Calendar)
	}{
		{"no months", func(c *Calendar) { c.Months = nil }},
		{"zero-day month", func(c *Calendar) { c.Months[0].Days = 0 }},
		{"no weekdays", func(c *Calendar) { c.Weekdays = nil }},
		{"zero units", func(c *Calendar) { c.Units.MinutesInHour = 0 }},
		{"leap month out of range", func(c *Calendar) {
			c.LeapRule = LeapRule{Mode: LeapCustom, Interval: 4, Month: 9}
		}},
		{"season month out of range", func(c *Calendar) {
			c.Seasons = []Season{{Name: "S", StartMonth: 5}}
		}},
		{"intercalary month out of range", func(c *Calendar) {
			c.Intercalary = []Intercalary{{Name: "X", Month: 2, Position: AnchorAfter, Days: 1}}
		}},
		{"solar anchor day out of range", func(c *Calendar) {
			c.SolarAnchors = []SolarAnchor{{ID: "a", Month: 1, Day: 31, Sunrise: "06:00", Sunset: "18:00"}}
		}},
	}
	for _, tc := range cases {
		cal := base()
		tc.mutate(cal)
		if err := cal.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestValidate_CustomLeapWithoutMonth(t *testing.T) {
	// A custom leap rule with no day adjustment needs no target month;
	// leap years surface only through leap-only intercalary days.
	cal := newHarptosLike(t)
	cal.LeapRule = LeapRule{Mode: LeapCustom, Interval: 4}
	if err := cal.Validate(); err != nil {
		t.Fatalf("intercalary-only leap rule rejected: %v", err)
	}
	if got := cal.YearLength(4) - cal.YearLength(1); got != 1 {
		t.Errorf("leap year gains %d days, want 1 (Shieldmeet)", got)
	}
}

// --- Custom Units ---

func TestCustomUnits_Decomposition(t *testing.T) {
	cal := newGregorian(t)
	cal.Units = TimeUnits{HoursInDay: 20, MinutesInHour: 50, SecondsInMinute: 40}
	// One day is 20*50*40 = 40000 seconds.

	d := cal.WorldTimeToDate(40000, nil)
	if d.Day != 2 || d.Time.Hour != 0 {
		t.Fatalf("one custom day = %+v", d)
	}

	d = cal.WorldTimeToDate(40000+3*2000+7*40+5, nil)
	if d.Time.Hour != 3 || d.Time.Minute != 7 || d.Time.Second != 5 {
		t.Errorf("custom time = %+v, want 03:07:05", d.Time)
	}

	if back := cal.DateToWorldTime(d, nil); back != 40000+3*2000+7*40+5 {
		t.Errorf("custom units round trip = %d", back)
	}
}
