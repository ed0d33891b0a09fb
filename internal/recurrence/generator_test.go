package recurrence

import (
	"testing"
	"time"

	"github.com/julianstephens/daybook/internal/clock"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/store"
)

func setupGenerator(t *testing.T, start time.Time) (*store.Store, *clock.Fixed, *Generator) {
	t.Helper()
	clk := clock.NewFixed(start)
	s := store.New(clk)
	return s, clk, NewGenerator(s, nil)
}

func TestGeneratorIdempotent(t *testing.T) {
	s, _, gen := setupGenerator(t, time.Date(2024, time.May, 6, 9, 0, 0, 0, time.UTC))

	if _, err := s.AddTemplate(models.RecurringTemplate{Title: "standup", Frequency: models.FrequencyDaily, Enabled: true}); err != nil {
		t.Fatalf("failed to add template: %v", err)
	}

	first, err := gen.Run()
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := gen.Run()
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if len(first) != 1 || len(second) != 0 {
		t.Errorf("expected 1 then 0 tasks, got %d then %d", len(first), len(second))
	}
	if got := len(s.Tasks()); got != 1 {
		t.Errorf("expected exactly one task, got %d", got)
	}
}

func TestGeneratorDailyFiveDays(t *testing.T) {
	s, clk, gen := setupGenerator(t, time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC))

	if _, err := s.AddTemplate(models.RecurringTemplate{Title: "water plants", Frequency: models.FrequencyDaily, Enabled: true}); err != nil {
		t.Fatalf("failed to add template: %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, err := gen.Run(); err != nil {
			t.Fatalf("day %d: run failed: %v", i+1, err)
		}
		// A second tick later the same day must not duplicate.
		clk.Advance(6 * time.Hour)
		if _, err := gen.Run(); err != nil {
			t.Fatalf("day %d: repeat run failed: %v", i+1, err)
		}
		clk.Advance(18 * time.Hour)
	}

	tasks := s.Tasks()
	if len(tasks) != 5 {
		t.Fatalf("expected 5 tasks, got %d", len(tasks))
	}
	seen := make(map[string]bool)
	for _, task := range tasks {
		if task.Source != models.SourceRecurring {
			t.Errorf("expected recurring source, got %s", task.Source)
		}
		if seen[task.DueDate] {
			t.Errorf("duplicate task for %s", task.DueDate)
		}
		seen[task.DueDate] = true
	}
}

func TestGeneratorSkipsDisabledAndOffDays(t *testing.T) {
	// Saturday
	s, _, gen := setupGenerator(t, time.Date(2024, time.May, 11, 9, 0, 0, 0, time.UTC))

	if _, err := s.AddTemplate(models.RecurringTemplate{Title: "commute", Frequency: models.FrequencyWeekdays, Enabled: true}); err != nil {
		t.Fatalf("failed to add template: %v", err)
	}
	if _, err := s.AddTemplate(models.RecurringTemplate{Title: "paused", Frequency: models.FrequencyDaily, Enabled: false}); err != nil {
		t.Fatalf("failed to add template: %v", err)
	}

	created, err := gen.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(created) != 0 {
		t.Errorf("expected no tasks on a saturday for disabled or weekday templates, got %d", len(created))
	}
}

func TestGeneratorMonWedFriTwoWeeks(t *testing.T) {
	s, clk, gen := setupGenerator(t, time.Date(2024, time.May, 6, 7, 0, 0, 0, time.UTC))

	if _, err := s.AddTemplate(models.RecurringTemplate{
		Title:     "gym",
		Frequency: models.FrequencyWeekly,
		Weekdays:  []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		Enabled:   true,
	}); err != nil {
		t.Fatalf("failed to add template: %v", err)
	}

	for i := 0; i < 14; i++ {
		if _, err := gen.Run(); err != nil {
			t.Fatalf("run failed: %v", err)
		}
		clk.Advance(24 * time.Hour)
	}

	tasks := s.Tasks()
	if len(tasks) != 6 {
		t.Fatalf("expected 6 tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		due, _ := time.Parse("2006-01-02", task.DueDate)
		switch due.Weekday() {
		case time.Monday, time.Wednesday, time.Friday:
		default:
			t.Errorf("task generated on %s", due.Weekday())
		}
	}
}
