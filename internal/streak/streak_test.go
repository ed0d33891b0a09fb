package streak

import (
	"testing"
	"time"

	"github.com/julianstephens/daybook/internal/models"
)

func day(d int) time.Time {
	return time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC)
}

func logged(ds ...int) map[string]bool {
	days := make(map[string]bool, len(ds))
	for _, d := range ds {
		days[day(d).Format("2006-01-02")] = true
	}
	return days
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name  string
		days  map[string]bool
		today time.Time
		want  models.Streak
	}{
		{"no entries", nil, day(10), models.Streak{}},
		{"contiguous through today", logged(6, 7, 8, 9, 10), day(10), models.Streak{Current: 5, Longest: 5}},
		{"today unlogged keeps streak", logged(7, 8, 9), day(10), models.Streak{Current: 3, Longest: 3}},
		{"gap before yesterday breaks", logged(1, 2, 3), day(5), models.Streak{Current: 0, Longest: 3}},
		{"gap then new run", logged(1, 2, 3, 4, 7, 8), day(8), models.Streak{Current: 2, Longest: 4}},
		{"only today", logged(10), day(10), models.Streak{Current: 1, Longest: 1}},
		{"future entries ignored", logged(9, 10, 11, 12, 13, 14), day(10), models.Streak{Current: 2, Longest: 2}},
		{"false entries are gaps", map[string]bool{"2024-05-08": true, "2024-05-09": false, "2024-05-10": true}, day(10), models.Streak{Current: 1, Longest: 1}},
		{"malformed keys skipped", map[string]bool{"yesterday": true, "2024-05-10": true}, day(10), models.Streak{Current: 1, Longest: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.days, tt.today)
			if got != tt.want {
				t.Errorf("Calculate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCalculateContinuity(t *testing.T) {
	today := day(20)
	for n := 0; n < 15; n++ {
		days := make(map[string]bool)
		for i := 0; i <= n; i++ {
			days[today.AddDate(0, 0, -i).Format("2006-01-02")] = true
		}
		if got := Calculate(days, today).Current; got != n+1 {
			t.Errorf("n=%d: expected current %d, got %d", n, n+1, got)
		}
	}
}

func TestCalculateGapReset(t *testing.T) {
	today := day(20)
	days := logged(14, 15, 16, 17, 18, 19, 20)

	for gap := 14; gap < 20; gap++ {
		withGap := make(map[string]bool, len(days))
		for k, v := range days {
			withGap[k] = v
		}
		delete(withGap, day(gap).Format("2006-01-02"))

		want := 20 - gap
		if got := Calculate(withGap, today).Current; got != want {
			t.Errorf("gap on day %d: expected current %d, got %d", gap, want, got)
		}
	}
}

func TestCurrentNeverExceedsLongest(t *testing.T) {
	days := make(map[string]bool)
	for d := 1; d <= 31; d++ {
		if d%4 != 0 {
			days[day(d).Format("2006-01-02")] = true
		}
		s := Calculate(days, day(d))
		if s.Current > s.Longest {
			t.Fatalf("day %d: current %d exceeds longest %d", d, s.Current, s.Longest)
		}
	}
}

func TestCalculateBoundedWalk(t *testing.T) {
	today := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	days := make(map[string]bool)
	for i := 0; i < 500; i++ {
		days[today.AddDate(0, 0, -i).Format("2006-01-02")] = true
	}

	got := Calculate(days, today)
	if got.Current != 365 {
		t.Errorf("expected the walk to stop at 365, got %d", got.Current)
	}
	if got.Longest != 500 {
		t.Errorf("expected longest 500, got %d", got.Longest)
	}
}

func TestAtRisk(t *testing.T) {
	tests := []struct {
		name string
		days map[string]bool
		want bool
	}{
		{"three day streak unlogged today", logged(7, 8, 9), true},
		{"already logged today", logged(7, 8, 9, 10), false},
		{"streak too short", logged(8, 9), false},
		{"streak already broken", logged(5, 6, 7, 8), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AtRisk(tt.days, day(10), 3); got != tt.want {
				t.Errorf("AtRisk() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestForHabit(t *testing.T) {
	log := models.HabitLog{"h1": logged(9, 10), "h2": logged(1)}
	if got := ForHabit(log, "h1", day(10)); got.Current != 2 {
		t.Errorf("expected current 2 for h1, got %+v", got)
	}
	if got := ForHabit(log, "missing", day(10)); got != (models.Streak{}) {
		t.Errorf("expected zero streak for unknown habit, got %+v", got)
	}
}
