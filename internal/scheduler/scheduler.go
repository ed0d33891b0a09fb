// Package scheduler scans the store on each tick and emits due-soon, overdue,
// streak-at-risk and daily briefing notifications.
package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/daybook/internal/clock"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/notifier"
	"github.com/julianstephens/daybook/internal/store"
	"github.com/julianstephens/daybook/internal/streak"
	"github.com/julianstephens/daybook/internal/utils"
)

type Scheduler struct {
	store    *store.Store
	clock    clock.Clock
	notifier notifier.Notifier
	loc      *time.Location
}

type Option func(*Scheduler)

func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithLocation sets the zone used for quiet hours and calendar days.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) { s.loc = loc }
}

func New(st *store.Store, n notifier.Notifier, opts ...Option) *Scheduler {
	if n == nil {
		n = notifier.Nop{}
	}
	s := &Scheduler{
		store:    st,
		clock:    st.Clock(),
		notifier: n,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loc == nil {
		s.loc = s.clock.Now().Location()
	}
	return s
}

// Tick evaluates every rule once and returns the notifications it appended.
// Nothing is emitted during quiet hours. A notification is skipped when an
// unread one with the same type, entity and day already exists; the daily
// briefing is skipped once one exists for the day, read or not.
func (s *Scheduler) Tick() []models.Notification {
	now := s.clock.Now().In(s.loc)
	prefs := s.store.Preferences()

	if prefs.InQuietHours(now.Hour()) {
		logger.Debug("Quiet hours, skipping tick", "hour", now.Hour())
		return nil
	}

	t := &tick{
		sched: s,
		now:   now,
		seen:  s.existingKeys(),
	}

	if prefs.DueSoon || prefs.Overdue {
		s.checkTasks(t, prefs)
	}
	if prefs.StreakAtRisk && now.Hour() >= constants.StreakAtRiskHour {
		s.checkStreaks(t)
	}
	if prefs.DailyBriefing && now.Hour() >= prefs.BriefingHour {
		s.briefing(t)
	}

	if len(t.emitted) > 0 {
		logger.Info("Scheduler tick emitted notifications", "count", len(t.emitted))
	}
	return t.emitted
}

type tick struct {
	sched   *Scheduler
	now     time.Time
	seen    map[models.DedupKey]bool
	emitted []models.Notification
}

func (s *Scheduler) existingKeys() map[models.DedupKey]bool {
	seen := make(map[models.DedupKey]bool)
	for _, n := range s.store.Notifications() {
		if n.Read && n.Type != models.NotificationDailyBriefing {
			continue
		}
		seen[n.Key(s.loc)] = true
	}
	return seen
}

func (t *tick) emit(n models.Notification) {
	n.CreatedAt = t.now
	key := n.Key(t.sched.loc)
	if t.seen[key] {
		return
	}

	stored, err := t.sched.store.AppendNotification(n)
	if err != nil {
		logger.Warn("Failed to record notification", "type", n.Type, "error", err)
		return
	}
	t.seen[key] = true
	t.emitted = append(t.emitted, stored)

	if t.sched.store.Preferences().DesktopEnabled {
		if err := t.sched.notifier.Notify(stored); err != nil {
			logger.Debug("Desktop notification not shown", "type", stored.Type, "error", err)
		}
	}
}

func (s *Scheduler) checkTasks(t *tick, prefs models.NotificationPreferences) {
	horizon := t.now.Add(constants.DueSoonWindow)
	for _, task := range s.store.Tasks() {
		if task.Completed {
			continue
		}
		due, ok := task.DueAt(s.loc)
		if !ok {
			continue
		}

		switch {
		case prefs.DueSoon && due.After(t.now) && due.Before(horizon):
			t.emit(models.Notification{
				Type:      models.NotificationDueSoon,
				Title:     "Task due soon",
				Message:   fmt.Sprintf("%q is due at %s", task.Title, due.Format(constants.TimeFormat)),
				TaskID:    task.ID,
				ProjectID: task.ProjectID,
			})
		case prefs.Overdue && due.Before(t.now):
			t.emit(models.Notification{
				Type:      models.NotificationOverdue,
				Title:     "Task overdue",
				Message:   fmt.Sprintf("%q was due %s", task.Title, describeDue(task, due)),
				TaskID:    task.ID,
				ProjectID: task.ProjectID,
			})
		}
	}
}

func describeDue(task models.Task, due time.Time) string {
	if task.DueTime == "" {
		return "on " + task.DueDate
	}
	return "at " + due.Format("2006-01-02 15:04")
}

func (s *Scheduler) checkStreaks(t *tick) {
	today := utils.StartOfDay(t.now)
	log := s.store.HabitLog()
	for _, h := range s.store.Habits(false) {
		days := log[h.ID]
		if !streak.AtRisk(days, today, constants.StreakAtRiskMinimum) {
			continue
		}
		current := streak.Calculate(days, today).Current
		t.emit(models.Notification{
			Type:    models.NotificationStreakAtRisk,
			Title:   "Streak at risk",
			Message: fmt.Sprintf("Log %q today to keep your %d-day streak", h.Name, current),
			HabitID: h.ID,
		})
	}
}

func (s *Scheduler) briefing(t *tick) {
	today := utils.StartOfDay(t.now)

	var dueToday, overdue int
	for _, task := range s.store.Tasks() {
		if task.Completed {
			continue
		}
		due, ok := task.DueAt(s.loc)
		if !ok {
			continue
		}
		switch {
		case task.IsDueOn(today):
			dueToday++
		case due.Before(today):
			overdue++
		}
	}

	pending := 0
	key := utils.DateKey(today)
	for _, h := range s.store.Habits(false) {
		if !s.store.IsHabitLogged(h.ID, key) {
			pending++
		}
	}

	parts := []string{fmt.Sprintf("%d due today", dueToday)}
	if overdue > 0 {
		parts = append(parts, fmt.Sprintf("%d overdue", overdue))
	}
	parts = append(parts, fmt.Sprintf("%d habits to log", pending))

	t.emit(models.Notification{
		Type:    models.NotificationDailyBriefing,
		Title:   "Daily briefing " + today.Format("Mon Jan 2"),
		Message: strings.Join(parts, ", "),
	})
}
