package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/daybook/internal/cli/clitest"
	"github.com/julianstephens/daybook/internal/models"
)

var now = time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

func seed(t *testing.T, env *clitest.Env) {
	t.Helper()
	if _, err := env.Ctx.Store().AddTask(models.Task{Title: "Send invoice", DueDate: "2024-03-13", DueTime: "11:00"}); err != nil {
		t.Fatal(err)
	}
	if err := env.Ctx.Commit(); err != nil {
		t.Fatal(err)
	}
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

func TestNotifyTick(t *testing.T) {
	env := clitest.New(t, now)
	seed(t, env)

	if err := (&NotifyTickCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("NotifyTickCmd.Run() failed: %v", err)
	}
	out := env.Output()
	if !strings.Contains(out, "Send invoice") {
		t.Errorf("tick output = %q, want the due-soon task", out)
	}

	if _, err := env.Ctx.Engine.Load(); err != nil {
		t.Fatal(err)
	}
	ns := env.Ctx.Store().Notifications()
	if got := countType(ns, models.NotificationDueSoon); got != 1 {
		t.Errorf("due_soon count = %d, want 1", got)
	}
	if got := countType(ns, models.NotificationDailyBriefing); got != 1 {
		t.Errorf("daily_briefing count = %d, want 1", got)
	}

	if err := (&NotifyTickCmd{}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if out := env.Output(); !strings.Contains(out, "Nothing new") {
		t.Errorf("second tick output = %q", out)
	}
}

func TestNotifyTickDryRun(t *testing.T) {
	env := clitest.New(t, now)
	seed(t, env)

	if err := (&NotifyTickCmd{DryRun: true}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if out := env.Output(); !strings.Contains(out, "[dry-run]") {
		t.Errorf("dry-run output = %q", out)
	}

	if _, err := env.Ctx.Engine.Load(); err != nil {
		t.Fatal(err)
	}
	if got := len(env.Ctx.Store().Notifications()); got != 0 {
		t.Errorf("dry run persisted %d notifications", got)
	}
}

func TestNotifyRun(t *testing.T) {
	env := clitest.New(t, now)
	seed(t, env)

	orig := waitForShutdown
	waitForShutdown = func() {}
	t.Cleanup(func() { waitForShutdown = orig })

	cmd := &NotifyRunCmd{Interval: 5 * time.Minute}
	if err := cmd.Validate(); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("NotifyRunCmd.Run() failed: %v", err)
	}
	out := env.Output()
	if !strings.Contains(out, "Scheduler stopped") {
		t.Errorf("run output = %q", out)
	}

	if _, err := env.Ctx.Engine.Load(); err != nil {
		t.Fatal(err)
	}
	if got := countType(env.Ctx.Store().Notifications(), models.NotificationDueSoon); got != 1 {
		t.Errorf("due_soon count after run = %d, want 1", got)
	}

	if err := (&NotifyRunCmd{Interval: time.Second}).Validate(); err == nil {
		t.Error("expected a sub-minute interval to be rejected")
	}
}

func TestNotifyReadAndClear(t *testing.T) {
	env := clitest.New(t, now)
	seed(t, env)
	if err := (&NotifyTickCmd{}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	env.Output()
	st := env.Ctx.Store()
	if st.UnreadCount() != 2 {
		t.Fatalf("UnreadCount() = %d, want 2", st.UnreadCount())
	}

	if err := (&NotifyReadCmd{}).Validate(); err == nil {
		t.Error("expected an error without an ID or --all")
	}

	first := st.Notifications()[0]
	if err := (&NotifyReadCmd{ID: first.ID}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if st.UnreadCount() != 1 {
		t.Errorf("UnreadCount() = %d, want 1", st.UnreadCount())
	}

	if err := (&NotifyListCmd{Unread: true}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	out := env.Output()
	if !strings.Contains(out, "1 unread") || strings.Contains(out, first.ID) {
		t.Errorf("unread list output = %q", out)
	}

	if err := (&NotifyReadCmd{All: true}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if st.UnreadCount() != 0 {
		t.Errorf("UnreadCount() = %d, want 0", st.UnreadCount())
	}

	if err := (&NotifyClearCmd{}).Run(env.Ctx); err == nil {
		t.Error("expected clear without --yes to fail")
	}
	if err := (&NotifyClearCmd{Yes: true}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if len(st.Notifications()) != 0 {
		t.Errorf("notifications remain after clear")
	}
}
