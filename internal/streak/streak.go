// Package streak derives habit streaks from the habit log.
package streak

import (
	"sort"
	"time"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/utils"
)

// ForHabit computes the streak of habitID as of today.
func ForHabit(log models.HabitLog, habitID string, today time.Time) models.Streak {
	return Calculate(log[habitID], today)
}

// Calculate computes the current and longest streak for one habit's
// day -> completed map. An unlogged today does not break the current streak;
// counting then starts from yesterday. Days after today are ignored.
func Calculate(days map[string]bool, today time.Time) models.Streak {
	if len(days) == 0 {
		return models.Streak{}
	}
	today = utils.StartOfDay(today)

	s := models.Streak{
		Current: current(days, today),
		Longest: longest(days, today),
	}
	if s.Current > s.Longest {
		s.Longest = s.Current
	}
	return s
}

func current(days map[string]bool, today time.Time) int {
	day := today
	if !days[utils.DateKey(day)] {
		day = day.AddDate(0, 0, -1)
	}

	count := 0
	for range constants.MaxStreakWalk {
		if !days[utils.DateKey(day)] {
			break
		}
		count++
		day = day.AddDate(0, 0, -1)
	}
	return count
}

func longest(days map[string]bool, today time.Time) int {
	todayKey := utils.DateKey(today)
	logged := make([]time.Time, 0, len(days))
	for key, done := range days {
		if !done || key > todayKey {
			continue
		}
		d, err := time.Parse(constants.DateFormat, key)
		if err != nil {
			continue
		}
		logged = append(logged, d)
	}
	sort.Slice(logged, func(i, j int) bool { return logged[i].Before(logged[j]) })

	best, run := 0, 0
	for i, d := range logged {
		if i > 0 && utils.DaysBetween(logged[i-1], d) == 1 {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
	}
	return best
}

// AtRisk reports whether a streak of at least minimum days will be lost if
// today ends without a log entry.
func AtRisk(days map[string]bool, today time.Time, minimum int) bool {
	if days[utils.DateKey(today)] {
		return false
	}
	return Calculate(days, today).Current >= minimum
}
