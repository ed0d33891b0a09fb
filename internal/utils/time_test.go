package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty is local", timezone: ""},
		{name: "Local keyword", timezone: "Local"},
		{name: "UTC", timezone: "UTC"},
		{name: "IANA name", timezone: "America/New_York"},
		{name: "invalid", timezone: "Mars/Olympus_Mons", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadLocation(%q) error = %v, wantErr %v", tt.timezone, err, tt.wantErr)
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation(%q) returned nil location", tt.timezone)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{
			name: "same day",
			a:    time.Date(2026, 1, 5, 1, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 1, 5, 23, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "across month boundary",
			a:    time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
			want: 3,
		},
		{
			name: "across DST spring forward",
			a:    time.Date(2026, 3, 7, 0, 0, 0, 0, ny),
			b:    time.Date(2026, 3, 9, 0, 0, 0, 0, ny),
			want: 2,
		},
		{
			name: "negative",
			a:    time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			want: -4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWeekStart(t *testing.T) {
	// 2026-01-07 is a Wednesday; its ISO week starts Monday 2026-01-05.
	got := WeekStart(time.Date(2026, 1, 7, 15, 0, 0, 0, time.UTC))
	want := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("WeekStart(Wed) = %v, want %v", got, want)
	}

	// Sunday belongs to the week that started the previous Monday.
	got = WeekStart(time.Date(2026, 1, 11, 8, 0, 0, 0, time.UTC))
	if !got.Equal(want) {
		t.Errorf("WeekStart(Sun) = %v, want %v", got, want)
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		date time.Time
		want int
	}{
		{time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), 28},
		{time.Date(2028, 2, 10, 0, 0, 0, 0, time.UTC), 29},
		{time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), 30},
		{time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.date); got != tt.want {
			t.Errorf("DaysInMonth(%s) = %d, want %d", DateKey(tt.date), got, tt.want)
		}
	}
}

func TestEndOfDay(t *testing.T) {
	d := time.Date(2026, 5, 1, 13, 0, 0, 0, time.UTC)
	end := EndOfDay(d)
	if DateKey(end) != "2026-05-01" {
		t.Errorf("EndOfDay() crossed into %s", DateKey(end))
	}
	if !end.Add(time.Nanosecond).Equal(time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("EndOfDay() = %v, want last instant of the day", end)
	}
}

func TestCombineDateAndTime(t *testing.T) {
	got, err := CombineDateAndTime("2026-01-15", "14:30", time.UTC)
	if err != nil {
		t.Fatalf("CombineDateAndTime() error = %v", err)
	}
	want := time.Date(2026, 1, 15, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CombineDateAndTime() = %v, want %v", got, want)
	}

	if _, err := CombineDateAndTime("2026/01/15", "14:30", time.UTC); err == nil {
		t.Error("expected error for malformed date")
	}
	if _, err := CombineDateAndTime("2026-01-15", "25:00", time.UTC); err == nil {
		t.Error("expected error for malformed time")
	}
}
