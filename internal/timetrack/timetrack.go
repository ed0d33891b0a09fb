// Package timetrack aggregates time sessions. Every function is a pure
// reducer: it reads the sessions it is given and never modifies them.
//
// A running session counts up to the now passed in. Sessions are attributed
// to the local calendar day they started on.
package timetrack

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/utils"
)

func seconds(s models.TimeSession, now time.Time) int64 {
	return int64(s.Elapsed(now) / time.Second)
}

// Total sums every session.
func Total(sessions []models.TimeSession, now time.Time) int64 {
	var total int64
	for _, s := range sessions {
		total += seconds(s, now)
	}
	return total
}

// TotalsByDay keys seconds by the YYYY-MM-DD of each session's start in loc.
func TotalsByDay(sessions []models.TimeSession, loc *time.Location, now time.Time) map[string]int64 {
	out := make(map[string]int64)
	for _, s := range sessions {
		out[utils.DateKey(s.Start.In(loc))] += seconds(s, now)
	}
	return out
}

func ByProject(sessions []models.TimeSession, now time.Time) map[string]int64 {
	out := make(map[string]int64)
	for _, s := range sessions {
		out[s.ProjectID] += seconds(s, now)
	}
	return out
}

// ByTask skips sessions not linked to a task.
func ByTask(sessions []models.TimeSession, now time.Time) map[string]int64 {
	out := make(map[string]int64)
	for _, s := range sessions {
		if s.TaskID == "" {
			continue
		}
		out[s.TaskID] += seconds(s, now)
	}
	return out
}

// Billable splits the total into billable and non-billable seconds.
func Billable(sessions []models.TimeSession, now time.Time) (billable, nonBillable int64) {
	for _, s := range sessions {
		if s.Billable {
			billable += seconds(s, now)
		} else {
			nonBillable += seconds(s, now)
		}
	}
	return billable, nonBillable
}

// Between keeps sessions whose start falls in [from, to).
func Between(sessions []models.TimeSession, from, to time.Time) []models.TimeSession {
	var out []models.TimeSession
	for _, s := range sessions {
		if !s.Start.Before(from) && s.Start.Before(to) {
			out = append(out, s)
		}
	}
	return out
}

type DayTotal struct {
	Date    string `json:"date"`
	Seconds int64  `json:"seconds"`
}

type Report struct {
	From        string           `json:"from"`
	To          string           `json:"to"`
	Days        []DayTotal       `json:"days"`
	ByProject   map[string]int64 `json:"by_project"`
	Billable    int64            `json:"billable_seconds"`
	NonBillable int64            `json:"non_billable_seconds"`
	Total       int64            `json:"total_seconds"`
}

// Rolling builds a report over the days calendar days ending on now's day in
// loc. Every day in the window appears, including days with no time.
func Rolling(sessions []models.TimeSession, loc *time.Location, now time.Time, days int) Report {
	if days <= 0 {
		days = constants.RollingReportDays
	}
	if loc == nil {
		loc = time.Local
	}
	today := utils.StartOfDay(now.In(loc))
	first := today.AddDate(0, 0, -(days - 1))
	window := Between(sessions, first, today.AddDate(0, 0, 1))

	perDay := TotalsByDay(window, loc, now)
	report := Report{
		From:      utils.DateKey(first),
		To:        utils.DateKey(today),
		Days:      make([]DayTotal, 0, days),
		ByProject: ByProject(window, now),
	}
	for i := 0; i < days; i++ {
		key := utils.DateKey(first.AddDate(0, 0, i))
		report.Days = append(report.Days, DayTotal{Date: key, Seconds: perDay[key]})
	}
	report.Billable, report.NonBillable = Billable(window, now)
	report.Total = report.Billable + report.NonBillable
	return report
}

// Weekly is the rolling seven-day report.
func Weekly(sessions []models.TimeSession, loc *time.Location, now time.Time) Report {
	return Rolling(sessions, loc, now, constants.RollingReportDays)
}

// ProjectTotal pairs a project with its tracked seconds.
type ProjectTotal struct {
	ProjectID string
	Seconds   int64
}

// RankProjects orders a ByProject map by time spent, most first.
func RankProjects(totals map[string]int64) []ProjectTotal {
	out := make([]ProjectTotal, 0, len(totals))
	for id, secs := range totals {
		out = append(out, ProjectTotal{ProjectID: id, Seconds: secs})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Seconds != out[j].Seconds {
			return out[i].Seconds > out[j].Seconds
		}
		return out[i].ProjectID < out[j].ProjectID
	})
	return out
}

// FormatDuration renders seconds as "1h 05m" or "42m".
func FormatDuration(secs int64) string {
	d := time.Duration(secs) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}
