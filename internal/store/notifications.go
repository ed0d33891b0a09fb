package store

import (
	"github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/models"
)

// AppendNotification adds n to the log, stamping id and creation time when unset.
func (s *Store) AppendNotification(n models.Notification) (models.Notification, error) {
	if n.Type == "" {
		return models.Notification{}, errors.Validation("append notification", "type cannot be empty")
	}
	if n.ID == "" {
		n.ID = s.newID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	s.notifications = append(s.notifications, n)
	s.touch()
	return n, nil
}

// Notifications returns the log in emission order.
func (s *Store) Notifications() []models.Notification {
	out := make([]models.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

func (s *Store) UnreadCount() int {
	count := 0
	for _, n := range s.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

func (s *Store) MarkRead(id string) error {
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			if !s.notifications[i].Read {
				s.notifications[i].Read = true
				s.touch()
			}
			return nil
		}
	}
	return errors.NotFound("mark read", "notification", id)
}

// MarkAllRead returns how many notifications changed.
func (s *Store) MarkAllRead() int {
	changed := 0
	for i := range s.notifications {
		if !s.notifications[i].Read {
			s.notifications[i].Read = true
			changed++
		}
	}
	if changed > 0 {
		s.touch()
	}
	return changed
}

func (s *Store) DeleteNotification(id string) error {
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			s.touch()
			return nil
		}
	}
	return errors.NotFound("delete notification", "notification", id)
}

func (s *Store) ClearNotifications() {
	if len(s.notifications) == 0 {
		return
	}
	s.notifications = nil
	s.touch()
}
