package agenda

import (
	"testing"
	"time"

	"fieldops/internal/model"
)

func TestClassifyTiers(t *testing.T) {
	cases := []struct {
		days int
		want model.UrgencyTier
	}{
		{-5, model.UrgencyCritical},
		{-1, model.UrgencyCritical},
		{0, model.UrgencyCritical},
		{3, model.UrgencyCritical},
		{4, model.UrgencyHigh},
		{7, model.UrgencyHigh},
		{8, model.UrgencyMedium},
		{15, model.UrgencyMedium},
		{16, model.UrgencyNormal},
		{60, model.UrgencyNormal},
	}
	for _, c := range cases {
		if got := Classify(c.days); got != c.want {
			t.Errorf("Classify(%d) = %s, want %s", c.days, got, c.want)
		}
	}
}

func TestDaysRemaining(t *testing.T) {
	today := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		due  time.Time
		want int
	}{
		{today, 0},
		{today.Add(9 * time.Hour), 1},  // partial day rounds up
		{today.AddDate(0, 0, 1), 1},
		{today.AddDate(0, 0, 15), 15},
		{today.AddDate(0, 0, -1), -1},
		{today.Add(-12 * time.Hour), 0},
	}
	for _, c := range cases {
		if got := DaysRemaining(c.due, today); got != c.want {
			t.Errorf("DaysRemaining(%s) = %d, want %d", c.due, got, c.want)
		}
	}
}

func TestWeekStart(t *testing.T) {
	mon := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	wed := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	sun := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)
	if got := WeekStart(mon); !got.Equal(mon) {
		t.Errorf("WeekStart(monday) = %s", got)
	}
	if got := WeekStart(wed); !got.Equal(mon) {
		t.Errorf("WeekStart(wednesday) = %s, want %s", got, mon)
	}
	// Sunday belongs to the week that started the previous Monday
	if got := WeekStart(sun); !got.Equal(mon) {
		t.Errorf("WeekStart(sunday) = %s, want %s", got, mon)
	}
}

func TestMonthBounds(t *testing.T) {
	day := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	from, to := MonthBounds(day)
	if want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC); !from.Equal(want) {
		t.Errorf("month start = %s, want %s", from, want)
	}
	if want := time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC); !to.Equal(want) {
		t.Errorf("month end = %s, want %s", to, want)
	}
}

func TestMidnightUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	// 02:00 UTC on the 12th is still the 11th at UTC-5
	at := time.Date(2025, 3, 12, 2, 0, 0, 0, time.UTC)
	got := Midnight(at, loc)
	want := time.Date(2025, 3, 11, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("Midnight = %s, want %s", got, want)
	}
}
