// Package recurrence decides when a recurring template is due and turns due
// templates into concrete tasks.
package recurrence

import (
	"slices"
	"time"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/utils"
)

// ShouldGenerate reports whether tpl has an occurrence on day. The check is
// made on calendar dates in day's location; days before the template was
// created never qualify.
func ShouldGenerate(tpl models.RecurringTemplate, day time.Time) bool {
	day = utils.StartOfDay(day)
	created := utils.StartOfDay(tpl.CreatedAt.In(day.Location()))
	if day.Before(created) {
		return false
	}

	switch tpl.Frequency {
	case models.FrequencyDaily:
		return true
	case models.FrequencyWeekdays:
		wd := day.Weekday()
		return wd >= time.Monday && wd <= time.Friday
	case models.FrequencyWeekly:
		return onWeekday(tpl, created, day)
	case models.FrequencyBiweekly:
		if !onWeekday(tpl, created, day) {
			return false
		}
		weeks := utils.DaysBetween(utils.WeekStart(created), utils.WeekStart(day)) / 7
		return weeks%2 == 0
	case models.FrequencyMonthly:
		// Short months fall back to their last day.
		target := min(created.Day(), utils.DaysInMonth(day))
		return day.Day() == target
	default:
		return false
	}
}

// onWeekday checks day against the template's weekday set, or against the
// creation weekday when the set is empty.
func onWeekday(tpl models.RecurringTemplate, created, day time.Time) bool {
	if len(tpl.Weekdays) == 0 {
		return day.Weekday() == created.Weekday()
	}
	return slices.Contains(tpl.Weekdays, day.Weekday())
}

// NextOccurrence returns the first day on or after from that tpl is scheduled
// for. The search gives up after MaxOccurrenceSearch days.
func NextOccurrence(tpl models.RecurringTemplate, from time.Time) (time.Time, bool) {
	day := utils.StartOfDay(from)
	for range constants.MaxOccurrenceSearch {
		if ShouldGenerate(tpl, day) {
			return day, true
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, false
}

// Occurrences lists every scheduled day in [from, to].
func Occurrences(tpl models.RecurringTemplate, from, to time.Time) []time.Time {
	var out []time.Time
	end := utils.StartOfDay(to)
	for day := utils.StartOfDay(from); !day.After(end); day = day.AddDate(0, 0, 1) {
		if ShouldGenerate(tpl, day) {
			out = append(out, day)
		}
	}
	return out
}
