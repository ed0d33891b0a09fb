package models

import (
	"strings"
	"time"

	"github.com/julianstephens/daybook/internal/errors"
)

// TimeSession is one contiguous interval of tracked work. End is nil while
// the session is running; DurationSeconds is fixed when it stops.
type TimeSession struct {
	ID              string     `json:"id"`
	ProjectID       string     `json:"project_id"`
	TaskID          string     `json:"task_id,omitempty"`
	Description     string     `json:"description,omitempty"`
	Start           time.Time  `json:"start"`
	End             *time.Time `json:"end,omitempty"`
	DurationSeconds int64      `json:"duration_seconds"`
	Billable        bool       `json:"billable"`
}

func (s *TimeSession) IsActive() bool {
	return s.End == nil
}

// Elapsed is the stored duration for stopped sessions and the running time
// up to now for the active one.
func (s *TimeSession) Elapsed(now time.Time) time.Duration {
	if s.End != nil {
		return time.Duration(s.DurationSeconds) * time.Second
	}
	if now.Before(s.Start) {
		return 0
	}
	return now.Sub(s.Start).Truncate(time.Second)
}

func (s *TimeSession) Validate() error {
	const op = "validate session"

	if strings.TrimSpace(s.ProjectID) == "" {
		return errors.Validation(op, "project id cannot be empty")
	}
	if s.Start.IsZero() {
		return errors.Validation(op, "start time is required")
	}
	if s.End != nil && s.End.Before(s.Start) {
		return errors.Validation(op, "end time is before start time")
	}
	if s.DurationSeconds < 0 {
		return errors.Validation(op, "duration cannot be negative")
	}
	return nil
}

// SessionSeconds returns the whole seconds between start and end.
func SessionSeconds(start, end time.Time) int64 {
	if end.Before(start) {
		return 0
	}
	return int64(end.Sub(start) / time.Second)
}
