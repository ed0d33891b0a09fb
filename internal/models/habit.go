package models

import (
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/daybook/internal/errors"
)

// Habit represents a recurring practice to track
type Habit struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Target     string     `json:"target,omitempty"`
	Icon       string     `json:"icon,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

func (h *Habit) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return errors.Validation("validate habit", "name cannot be empty")
	}
	return nil
}

func (h *Habit) IsArchived() bool {
	return h.ArchivedAt != nil
}

// HabitLog records completion per habit per day: habitID -> YYYY-MM-DD -> completed.
// A missing entry and a false entry both mean "not logged".
type HabitLog map[string]map[string]bool

func (l HabitLog) IsLogged(habitID, day string) bool {
	return l[habitID][day]
}

// Days returns the habit's logged days in ascending order.
func (l HabitLog) Days(habitID string) []string {
	days := make([]string, 0, len(l[habitID]))
	for day, done := range l[habitID] {
		if done {
			days = append(days, day)
		}
	}
	sort.Strings(days)
	return days
}

// Clone deep-copies the log.
func (l HabitLog) Clone() HabitLog {
	out := make(HabitLog, len(l))
	for habitID, days := range l {
		inner := make(map[string]bool, len(days))
		for day, done := range days {
			inner[day] = done
		}
		out[habitID] = inner
	}
	return out
}

// Streak is derived from the HabitLog and never persisted.
type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}
