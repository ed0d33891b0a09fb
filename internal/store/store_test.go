package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/julianstephens/daybook/internal/clock"
	"github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/models"
)

var testNow = time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)

func setupTestStore(t *testing.T) (*Store, *clock.Fixed) {
	t.Helper()
	clk := clock.NewFixed(testNow)
	seq := 0
	s := New(clk, WithIDGenerator(func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}))
	return s, clk
}

func mustAddTask(t *testing.T, s *Store, task models.Task) models.Task {
	t.Helper()
	added, err := s.AddTask(task)
	if err != nil {
		t.Fatalf("failed to add task %q: %v", task.Title, err)
	}
	return added
}

func mustAddProject(t *testing.T, s *Store, name string) models.Project {
	t.Helper()
	p, err := s.AddProject(models.Project{Name: name})
	if err != nil {
		t.Fatalf("failed to add project %q: %v", name, err)
	}
	return p
}

func TestVersionIncreasesOnMutation(t *testing.T) {
	s, _ := setupTestStore(t)

	before := s.Version()
	mustAddTask(t, s, models.Task{Title: "write report"})
	if s.Version() <= before {
		t.Errorf("expected version to increase after mutation, got %d -> %d", before, s.Version())
	}

	after := s.Version()
	if _, err := s.AddTask(models.Task{Title: ""}); err == nil {
		t.Fatal("expected validation error for empty title")
	}
	if s.Version() != after {
		t.Errorf("failed mutation changed version: %d -> %d", after, s.Version())
	}
}

func TestSettingsUpdate(t *testing.T) {
	s, _ := setupTestStore(t)

	settings := s.Settings()
	settings.Notifications.QuietHoursStart = 25
	if err := s.UpdateSettings(settings); !errors.IsValidation(err) {
		t.Fatalf("expected validation error for hour 25, got %v", err)
	}
	if s.Settings().Notifications.QuietHoursStart != models.DefaultSettings().Notifications.QuietHoursStart {
		t.Error("invalid settings should not be applied")
	}

	settings.Notifications.QuietHoursStart = 23
	if err := s.UpdateSettings(settings); err != nil {
		t.Fatalf("failed to update settings: %v", err)
	}
	if got := s.Preferences().QuietHoursStart; got != 23 {
		t.Errorf("expected quiet hours start 23, got %d", got)
	}
}
