package models

import (
	"time"
)

type NotificationType string

const (
	NotificationDueSoon       NotificationType = "due_soon"
	NotificationOverdue       NotificationType = "overdue"
	NotificationStreakAtRisk  NotificationType = "streak_at_risk"
	NotificationDailyBriefing NotificationType = "daily_briefing"
)

// Notification is an entry in the append-only notification log.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	TaskID    string           `json:"task_id,omitempty"`
	HabitID   string           `json:"habit_id,omitempty"`
	ProjectID string           `json:"project_id,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	Read      bool             `json:"read"`
}

// EntityID is the id of the linked task, habit or project, in that order.
func (n *Notification) EntityID() string {
	switch {
	case n.TaskID != "":
		return n.TaskID
	case n.HabitID != "":
		return n.HabitID
	default:
		return n.ProjectID
	}
}

// DedupKey identifies the (type, entity, local day) a notification is about.
type DedupKey struct {
	Type     NotificationType
	EntityID string
	Day      string
}

func (n *Notification) Key(loc *time.Location) DedupKey {
	return DedupKey{
		Type:     n.Type,
		EntityID: n.EntityID(),
		Day:      n.CreatedAt.In(loc).Format("2006-01-02"),
	}
}
