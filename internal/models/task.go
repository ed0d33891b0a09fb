package models

import (
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/utils"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rank orders priorities for sorting, urgent first.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

type TaskSource string

const (
	SourceManual    TaskSource = "manual"
	SourceRecurring TaskSource = "recurring"
	SourceImported  TaskSource = "imported"
)

func (s TaskSource) Valid() bool {
	return s == SourceManual || s == SourceRecurring || s == SourceImported
}

// Task is a unit of work. Empty strings mean "unset" for every optional field:
// ProjectID (no project), DueDate/DueTime/StartDate (no date), TemplateID
// (not generated).
type Task struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	ProjectID        string     `json:"project_id,omitempty"`
	Status           TaskStatus `json:"status"`
	Priority         Priority   `json:"priority"`
	DueDate          string     `json:"due_date,omitempty"`   // YYYY-MM-DD
	DueTime          string     `json:"due_time,omitempty"`   // HH:MM, requires DueDate
	StartDate        string     `json:"start_date,omitempty"` // YYYY-MM-DD
	Completed        bool       `json:"completed"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	TimeSpentMinutes int        `json:"time_spent_minutes"`
	BlockedBy        []string   `json:"blocked_by,omitempty"`
	Source           TaskSource `json:"source"`
	TemplateID       string     `json:"template_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ApplyDefaults fills the documented defaults for unset enum fields.
func (t *Task) ApplyDefaults() {
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Source == "" {
		t.Source = SourceManual
	}
}

func (t *Task) Validate() error {
	const op = "validate task"

	if strings.TrimSpace(t.Title) == "" {
		return errors.Validation(op, "title cannot be empty")
	}
	if !t.Status.Valid() {
		return errors.Validation(op, "invalid status %q", t.Status)
	}
	if !t.Priority.Valid() {
		return errors.Validation(op, "invalid priority %q", t.Priority)
	}
	if !t.Source.Valid() {
		return errors.Validation(op, "invalid source %q", t.Source)
	}
	if t.DueDate != "" && !utils.ValidateDate(t.DueDate) {
		return errors.Validation(op, "invalid due date %q (expected YYYY-MM-DD)", t.DueDate)
	}
	if t.DueTime != "" {
		if t.DueDate == "" {
			return errors.Validation(op, "due time requires a due date")
		}
		if !utils.ValidateTimeFormat(t.DueTime) {
			return errors.Validation(op, "invalid due time %q (expected HH:MM)", t.DueTime)
		}
	}
	if t.StartDate != "" && !utils.ValidateDate(t.StartDate) {
		return errors.Validation(op, "invalid start date %q (expected YYYY-MM-DD)", t.StartDate)
	}
	if t.Completed != (t.Status == StatusDone) {
		return errors.Validation(op, "completed flag and status %q disagree", t.Status)
	}
	if t.TimeSpentMinutes < 0 {
		return errors.Validation(op, "time spent cannot be negative")
	}
	for _, id := range t.BlockedBy {
		if id == "" {
			return errors.Validation(op, "blocked_by contains an empty id")
		}
		if id == t.ID {
			return errors.Validation(op, "task cannot block itself")
		}
	}
	if len(t.BlockedBy) != len(uniqueStrings(t.BlockedBy)) {
		return errors.Validation(op, "blocked_by contains duplicates")
	}

	return nil
}

// DueAt resolves the due instant in loc. A date without a time is due at the
// end of that day.
func (t *Task) DueAt(loc *time.Location) (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	if t.DueTime != "" {
		due, err := utils.CombineDateAndTime(t.DueDate, t.DueTime, loc)
		if err != nil {
			return time.Time{}, false
		}
		return due, true
	}
	day, err := utils.ParseDateInLocation(t.DueDate, loc)
	if err != nil {
		return time.Time{}, false
	}
	return utils.EndOfDay(day), true
}

// IsDueOn reports whether the task's due date is the calendar day of day.
func (t *Task) IsDueOn(day time.Time) bool {
	return t.DueDate != "" && t.DueDate == day.Format(constants.DateFormat)
}

// Clone returns a copy that shares no slices or pointers with t.
func (t Task) Clone() Task {
	t.BlockedBy = slices.Clone(t.BlockedBy)
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		t.CompletedAt = &at
	}
	return t
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
