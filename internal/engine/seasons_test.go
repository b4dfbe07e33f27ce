package engine

import "testing"

func seasonFixture(t *testing.T, seasons []Season) *Calendar {
	t.Helper()
	cal := newGregorian(t)
	cal.Seasons = seasons
	if err := cal.Validate(); err != nil {
		t.Fatalf("fixture invalid: %v", err)
	}
	return cal
}

func resolveName(cal *Calendar, year, month, day int) string {
	s := cal.ResolveSeason(Date{Year: year, Month: month, Day: day})
	if s == nil {
		return ""
	}
	return s.Name
}

func TestResolveSeason_YearCrossing(t *testing.T) {
	cal := seasonFixture(t, []Season{
		{Name: "Deepwinter", StartMonth: 12, EndMonth: 2},
	})

	for _, tc := range []struct{ month, day int }{
		{12, 25}, {1, 15}, {2, 28}, {12, 1},
	} {
		if got := resolveName(cal, 2023, tc.month, tc.day); got != "Deepwinter" {
			t.Errorf("%d/%d resolved to %q, want Deepwinter", tc.month, tc.day, got)
		}
	}

	// March 1 is outside the defined season; the default banding takes over.
	if got := resolveName(cal, 2023, 3, 1); got != "Spring" {
		t.Errorf("3/1 resolved to %q, want default Spring", got)
	}
}

func TestResolveSeason_YearCrossingStartDay(t *testing.T) {
	cal := seasonFixture(t, []Season{
		{Name: "Longnight", StartMonth: 11, StartDay: 15, EndMonth: 2, EndDay: 10},
	})

	cases := []struct {
		month, day int
		in         bool
	}{
		{11, 14, false}, {11, 15, true}, {12, 1, true},
		{1, 30, true}, {2, 10, true}, {2, 11, false},
	}
	for _, tc := range cases {
		got := resolveName(cal, 2023, tc.month, tc.day) == "Longnight"
		if got != tc.in {
			t.Errorf("%d/%d in Longnight = %v, want %v", tc.month, tc.day, got, tc.in)
		}
	}
}

func TestResolveSeason_Defaults(t *testing.T) {
	// startDay defaults to 1, endMonth defaults to startMonth, endDay
	// defaults to the month's literal length for the year.
	cal := seasonFixture(t, []Season{
		{Name: "Sowing", StartMonth: 2},
	})

	if got := resolveName(cal, 2024, 2, 1); got != "Sowing" {
		t.Errorf("2/1 = %q, want Sowing", got)
	}
	if got := resolveName(cal, 2024, 2, 29); got != "Sowing" {
		t.Errorf("leap 2/29 = %q, want Sowing", got)
	}
	if got := resolveName(cal, 2024, 3, 1); got == "Sowing" {
		t.Error("3/1 resolved to Sowing")
	}
}

func TestResolveSeason_EndDayOverflow(t *testing.T) {
	// endDay 30 in a 28-day February rolls the excess into March: the
	// season effectively ends March 2.
	cal := seasonFixture(t, []Season{
		{Name: "Thaw", StartMonth: 1, EndMonth: 2, EndDay: 30},
	})

	if got := resolveName(cal, 2023, 3, 2); got != "Thaw" {
		t.Errorf("3/2 = %q, want Thaw (overflow rolled forward)", got)
	}
	if got := resolveName(cal, 2023, 3, 3); got == "Thaw" {
		t.Error("3/3 resolved to Thaw, overflow rolled too far")
	}

	// In a leap year February has 29 days, so the same config ends March 1.
	if got := resolveName(cal, 2024, 3, 1); got != "Thaw" {
		t.Errorf("leap 3/1 = %q, want Thaw", got)
	}
	if got := resolveName(cal, 2024, 3, 2); got == "Thaw" {
		t.Error("leap 3/2 resolved to Thaw")
	}
}

func TestResolveSeason_OverflowClampsAtFinalMonth(t *testing.T) {
	// A calendar with too few months to absorb the overflow clamps the
	// season end to the last day of the final month instead of rolling
	// into the next year.
	cal := &Calendar{
		Name:     "short",
		Months:   []Month{{Name: "First", Days: 10}, {Name: "Last", Days: 10}},
		Weekdays: []Weekday{{Name: "D"}},
		Seasons:  []Season{{Name: "Everything", StartMonth: 1, EndMonth: 2, EndDay: 500}},
		Units:    DefaultTimeUnits,
	}
	if err := cal.Validate(); err != nil {
		t.Fatalf("fixture invalid: %v", err)
	}

	b := cal.effectiveBounds(&cal.Seasons[0], 1)
	if b.endMonth != 2 || b.endDay != 10 {
		t.Errorf("clamped bounds = %+v, want end 2/10", b)
	}
	if got := resolveName(cal, 1, 2, 10); got != "Everything" {
		t.Errorf("2/10 = %q, want Everything", got)
	}
}

func TestResolveSeason_FirstMatchWins(t *testing.T) {
	cal := seasonFixture(t, []Season{
		{Name: "Early", StartMonth: 4, EndMonth: 6},
		{Name: "Late", StartMonth: 5, EndMonth: 8},
	})

	if got := resolveName(cal, 2023, 5, 15); got != "Early" {
		t.Errorf("overlapping ranges: %q won, want Early (definition order)", got)
	}
	if got := resolveName(cal, 2023, 7, 1); got != "Late" {
		t.Errorf("7/1 = %q, want Late", got)
	}
}

func TestResolveSeason_DefaultBanding(t *testing.T) {
	cal := newGregorian(t) // no seasons configured

	cases := []struct {
		month int
		want  string
	}{
		{3, "Spring"}, {5, "Spring"}, {6, "Summer"}, {8, "Summer"},
		{9, "Fall"}, {11, "Fall"}, {12, "Winter"}, {1, "Winter"}, {2, "Winter"},
	}
	for _, tc := range cases {
		if got := resolveName(cal, 2023, tc.month, 15); got != tc.want {
			t.Errorf("month %d = %q, want %q", tc.month, got, tc.want)
		}
	}
}

func TestResolveSeason_IntercalaryUsesAnchorMonth(t *testing.T) {
	cal := newHarptosLike(t)
	cal.Seasons = []Season{{Name: "Deepcold", StartMonth: 1, EndMonth: 2}}

	d, err := cal.NewIntercalaryDate(1, "Midwinter", 1)
	if err != nil {
		t.Fatalf("intercalary date: %v", err)
	}
	if s := cal.ResolveSeason(d); s == nil || s.Name != "Deepcold" {
		t.Errorf("Midwinter resolved to %v, want Deepcold", s)
	}
}
