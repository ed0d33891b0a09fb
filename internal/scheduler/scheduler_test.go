package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/daybook/internal/clock"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/store"
)

type recordingNotifier struct {
	sent []models.Notification
	err  error
}

func (r *recordingNotifier) Notify(n models.Notification) error {
	r.sent = append(r.sent, n)
	return r.err
}

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.May, day, hour, minute, 0, 0, time.UTC)
}

func setup(t *testing.T, now time.Time, configure func(*models.NotificationPreferences)) (*store.Store, *clock.Fixed, *recordingNotifier, *Scheduler) {
	t.Helper()
	clk := clock.NewFixed(now)
	st := store.New(clk)

	settings := st.Settings()
	settings.Notifications.DailyBriefing = false
	if configure != nil {
		configure(&settings.Notifications)
	}
	if err := st.UpdateSettings(settings); err != nil {
		t.Fatalf("failed to update settings: %v", err)
	}

	rec := &recordingNotifier{}
	return st, clk, rec, New(st, rec, WithLocation(time.UTC))
}

func countType(ns []models.Notification, typ models.NotificationType) int {
	n := 0
	for _, x := range ns {
		if x.Type == typ {
			n++
		}
	}
	return n
}

func TestQuietHoursSuppression(t *testing.T) {
	st, clk, rec, sched := setup(t, at(10, 23, 0), func(p *models.NotificationPreferences) {
		p.QuietHoursStart = 22
		p.QuietHoursEnd = 7
	})
	if _, err := st.AddTask(models.Task{Title: "file taxes", DueDate: "2024-05-01"}); err != nil {
		t.Fatalf("failed to add task: %v", err)
	}

	if got := sched.Tick(); len(got) != 0 {
		t.Errorf("expected nothing at 23:00, got %d", len(got))
	}

	clk.Set(at(11, 5, 0))
	if got := sched.Tick(); len(got) != 0 {
		t.Errorf("expected nothing at 05:00, got %d", len(got))
	}

	clk.Set(at(11, 8, 0))
	got := sched.Tick()
	if countType(got, models.NotificationOverdue) != 1 {
		t.Errorf("expected overdue notification at 08:00, got %+v", got)
	}
	if len(rec.sent) != 1 {
		t.Errorf("expected one desktop notification, got %d", len(rec.sent))
	}
}

func TestDueSoonWindow(t *testing.T) {
	st, _, _, sched := setup(t, at(10, 10, 0), nil)

	soon, _ := st.AddTask(models.Task{Title: "call bank", DueDate: "2024-05-10", DueTime: "11:30"})
	if _, err := st.AddTask(models.Task{Title: "review pr", DueDate: "2024-05-10", DueTime: "13:00"}); err != nil {
		t.Fatalf("failed to add task: %v", err)
	}
	if _, err := st.AddTask(models.Task{Title: "end of day", DueDate: "2024-05-10"}); err != nil {
		t.Fatalf("failed to add task: %v", err)
	}
	done, _ := st.AddTask(models.Task{Title: "finished", DueDate: "2024-05-10", DueTime: "10:30"})
	if _, err := st.ToggleTask(done.ID); err != nil {
		t.Fatalf("failed to complete task: %v", err)
	}

	got := sched.Tick()
	if len(got) != 1 {
		t.Fatalf("expected one notification, got %+v", got)
	}
	if got[0].Type != models.NotificationDueSoon || got[0].TaskID != soon.ID {
		t.Errorf("expected due_soon for %s, got %+v", soon.ID, got[0])
	}
}

func TestOverdue(t *testing.T) {
	st, _, _, sched := setup(t, at(10, 10, 0), nil)

	late, _ := st.AddTask(models.Task{Title: "renew passport", DueDate: "2024-05-09"})
	earlier, _ := st.AddTask(models.Task{Title: "standup", DueDate: "2024-05-10", DueTime: "09:00"})

	got := sched.Tick()
	if countType(got, models.NotificationOverdue) != 2 {
		t.Fatalf("expected two overdue notifications, got %+v", got)
	}
	ids := map[string]bool{got[0].TaskID: true, got[1].TaskID: true}
	if !ids[late.ID] || !ids[earlier.ID] {
		t.Errorf("unexpected task ids %v", ids)
	}
}

func TestDedupAgainstUnread(t *testing.T) {
	st, clk, _, sched := setup(t, at(10, 10, 0), nil)
	if _, err := st.AddTask(models.Task{Title: "renew passport", DueDate: "2024-05-09"}); err != nil {
		t.Fatalf("failed to add task: %v", err)
	}

	if got := sched.Tick(); len(got) != 1 {
		t.Fatalf("expected first tick to emit, got %d", len(got))
	}
	clk.Advance(5 * time.Minute)
	if got := sched.Tick(); len(got) != 0 {
		t.Errorf("expected unread duplicate to be skipped, got %d", len(got))
	}

	st.MarkAllRead()
	clk.Advance(5 * time.Minute)
	if got := sched.Tick(); len(got) != 1 {
		t.Errorf("expected re-emission once the previous one was read, got %d", len(got))
	}

	clk.Set(at(11, 10, 0))
	if got := sched.Tick(); len(got) != 1 {
		t.Errorf("expected a new notification on a new day, got %d", len(got))
	}
	if st.UnreadCount() != 2 {
		t.Errorf("expected 2 unread, got %d", st.UnreadCount())
	}
}

func TestStreakAtRisk(t *testing.T) {
	st, clk, _, sched := setup(t, at(10, 19, 30), nil)

	h, err := st.AddHabit(models.Habit{Name: "meditate"})
	if err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	short, _ := st.AddHabit(models.Habit{Name: "floss"})
	for _, day := range []string{"2024-05-07", "2024-05-08", "2024-05-09"} {
		if err := st.SetHabitLog(h.ID, day, true); err != nil {
			t.Fatalf("failed to log: %v", err)
		}
	}
	_ = st.SetHabitLog(short.ID, "2024-05-09", true)

	if got := sched.Tick(); len(got) != 0 {
		t.Errorf("expected nothing before 20:00, got %+v", got)
	}

	clk.Set(at(10, 20, 15))
	got := sched.Tick()
	if len(got) != 1 || got[0].Type != models.NotificationStreakAtRisk || got[0].HabitID != h.ID {
		t.Fatalf("expected streak_at_risk for %s, got %+v", h.ID, got)
	}

	st.MarkAllRead()
	if err := st.SetHabitLog(h.ID, "2024-05-10", true); err != nil {
		t.Fatalf("failed to log today: %v", err)
	}
	clk.Advance(5 * time.Minute)
	if got := sched.Tick(); len(got) != 0 {
		t.Errorf("expected nothing once logged today, got %+v", got)
	}
}

func TestDailyBriefingOncePerDay(t *testing.T) {
	st, clk, _, sched := setup(t, at(10, 7, 30), func(p *models.NotificationPreferences) {
		p.DailyBriefing = true
		p.BriefingHour = 8
		p.QuietHoursStart = 0
		p.QuietHoursEnd = 0
	})
	if _, err := st.AddTask(models.Task{Title: "pay rent", DueDate: "2024-05-10"}); err != nil {
		t.Fatalf("failed to add task: %v", err)
	}

	if got := sched.Tick(); len(got) != 0 {
		t.Errorf("expected no briefing before the briefing hour, got %+v", got)
	}

	clk.Set(at(10, 8, 0))
	got := sched.Tick()
	if countType(got, models.NotificationDailyBriefing) != 1 {
		t.Fatalf("expected a briefing, got %+v", got)
	}
	if got[0].Message != "1 due today, 0 habits to log" {
		t.Errorf("unexpected briefing message %q", got[0].Message)
	}

	st.MarkAllRead()
	clk.Advance(time.Hour)
	if got := sched.Tick(); countType(got, models.NotificationDailyBriefing) != 0 {
		t.Errorf("briefing should be sent once per day even after being read")
	}

	clk.Set(at(11, 9, 0))
	if got := sched.Tick(); countType(got, models.NotificationDailyBriefing) != 1 {
		t.Errorf("expected a new briefing the next day")
	}
}

func TestDisabledCategories(t *testing.T) {
	st, _, _, sched := setup(t, at(10, 10, 0), func(p *models.NotificationPreferences) {
		p.Overdue = false
		p.DueSoon = false
	})
	_, _ = st.AddTask(models.Task{Title: "late", DueDate: "2024-05-01"})
	_, _ = st.AddTask(models.Task{Title: "soon", DueDate: "2024-05-10", DueTime: "10:30"})

	if got := sched.Tick(); len(got) != 0 {
		t.Errorf("expected nothing with categories disabled, got %+v", got)
	}
}

func TestDesktopFailuresAreSwallowed(t *testing.T) {
	st, _, rec, sched := setup(t, at(10, 10, 0), nil)
	rec.err = errors.New("tray down")
	_, _ = st.AddTask(models.Task{Title: "late", DueDate: "2024-05-01"})

	got := sched.Tick()
	if len(got) != 1 || len(st.Notifications()) != 1 {
		t.Errorf("notification should be logged despite desktop failure")
	}

	settings := st.Settings()
	settings.Notifications.DesktopEnabled = false
	_ = st.UpdateSettings(settings)
	_, _ = st.AddTask(models.Task{Title: "later", DueDate: "2024-05-02"})
	rec.sent = nil
	sched.Tick()
	if len(rec.sent) != 0 {
		t.Errorf("desktop notifier should not be called when disabled")
	}
}
