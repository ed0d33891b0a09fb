package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/utils"
)

type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekdays Frequency = "weekdays"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekdays, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// UsesWeekdays reports whether the weekday set participates in scheduling.
func (f Frequency) UsesWeekdays() bool {
	return f == FrequencyWeekly || f == FrequencyBiweekly
}

// RecurringTemplate materializes into a concrete Task on each scheduled day.
type RecurringTemplate struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	ProjectID     string         `json:"project_id,omitempty"`
	Frequency     Frequency      `json:"frequency"`
	Weekdays      []time.Weekday `json:"weekdays,omitempty"`
	Priority      Priority       `json:"priority"`
	Enabled       bool           `json:"enabled"`
	CreatedAt     time.Time      `json:"created_at"`
	LastGenerated string         `json:"last_generated,omitempty"` // YYYY-MM-DD
}

func (r *RecurringTemplate) Validate() error {
	const op = "validate template"

	if strings.TrimSpace(r.Title) == "" {
		return errors.Validation(op, "title cannot be empty")
	}
	if !r.Frequency.Valid() {
		return errors.Validation(op, "invalid frequency %q", r.Frequency)
	}
	if r.Priority != "" && !r.Priority.Valid() {
		return errors.Validation(op, "invalid priority %q", r.Priority)
	}
	seen := make(map[time.Weekday]bool, len(r.Weekdays))
	for _, wd := range r.Weekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return errors.Validation(op, "invalid weekday %d", wd)
		}
		if seen[wd] {
			return errors.Validation(op, "duplicate weekday %s", wd)
		}
		seen[wd] = true
	}
	if r.LastGenerated != "" && !utils.ValidateDate(r.LastGenerated) {
		return errors.Validation(op, "invalid last generated date %q", r.LastGenerated)
	}
	return nil
}

// Describe renders the schedule in a human-readable form.
func (r *RecurringTemplate) Describe() string {
	switch r.Frequency {
	case FrequencyWeekly, FrequencyBiweekly:
		if len(r.Weekdays) == 0 {
			return string(r.Frequency)
		}
		days := make([]string, len(r.Weekdays))
		for i, wd := range r.Weekdays {
			days[i] = wd.String()[:3]
		}
		return fmt.Sprintf("%s on %s", r.Frequency, strings.Join(days, ","))
	case FrequencyMonthly:
		return fmt.Sprintf("monthly on day %d", r.CreatedAt.Day())
	default:
		return string(r.Frequency)
	}
}
