package models

import (
	"testing"
	"time"

	"github.com/julianstephens/daybook/internal/errors"
)

func validTask() Task {
	return Task{
		ID:       "t1",
		Title:    "Write report",
		Status:   StatusTodo,
		Priority: PriorityMedium,
		Source:   SourceManual,
	}
}

func TestTask_Validate(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr bool
	}{
		{name: "valid task", mutate: func(*Task) {}},
		{name: "blank title", mutate: func(tk *Task) { tk.Title = "   " }, wantErr: true},
		{name: "unknown status", mutate: func(tk *Task) { tk.Status = "blocked" }, wantErr: true},
		{name: "unknown priority", mutate: func(tk *Task) { tk.Priority = "critical" }, wantErr: true},
		{name: "unknown source", mutate: func(tk *Task) { tk.Source = "email" }, wantErr: true},
		{name: "bad due date", mutate: func(tk *Task) { tk.DueDate = "2026/01/15" }, wantErr: true},
		{name: "due time without date", mutate: func(tk *Task) { tk.DueTime = "10:00" }, wantErr: true},
		{name: "bad due time", mutate: func(tk *Task) { tk.DueDate = "2026-01-15"; tk.DueTime = "25:00" }, wantErr: true},
		{name: "due date and time", mutate: func(tk *Task) { tk.DueDate = "2026-01-15"; tk.DueTime = "09:30" }},
		{name: "completed but todo", mutate: func(tk *Task) { tk.Completed = true }, wantErr: true},
		{name: "done but not completed", mutate: func(tk *Task) { tk.Status = StatusDone }, wantErr: true},
		{
			name: "done and completed",
			mutate: func(tk *Task) {
				tk.Status = StatusDone
				tk.Completed = true
				tk.CompletedAt = &now
			},
		},
		{name: "negative time spent", mutate: func(tk *Task) { tk.TimeSpentMinutes = -1 }, wantErr: true},
		{name: "self dependency", mutate: func(tk *Task) { tk.BlockedBy = []string{"t1"} }, wantErr: true},
		{name: "duplicate dependency", mutate: func(tk *Task) { tk.BlockedBy = []string{"a", "a"} }, wantErr: true},
		{name: "empty dependency id", mutate: func(tk *Task) { tk.BlockedBy = []string{""} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			tt.mutate(&task)
			err := task.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Task.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.IsValidation(err) {
				t.Errorf("Task.Validate() returned %v, want a validation error", err)
			}
		})
	}
}

func TestTask_ApplyDefaults(t *testing.T) {
	task := Task{Title: "x"}
	task.ApplyDefaults()
	if task.Status != StatusTodo || task.Priority != PriorityMedium || task.Source != SourceManual {
		t.Errorf("ApplyDefaults() = %+v", task)
	}
}

func TestTask_DueAt(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)

	tests := []struct {
		name   string
		task   Task
		want   time.Time
		wantOK bool
	}{
		{name: "no due date", task: Task{}},
		{
			name:   "date and time",
			task:   Task{DueDate: "2026-01-15", DueTime: "14:30"},
			want:   time.Date(2026, 1, 15, 14, 30, 0, 0, loc),
			wantOK: true,
		},
		{
			name:   "date only is end of day",
			task:   Task{DueDate: "2026-01-15"},
			want:   time.Date(2026, 1, 16, 0, 0, 0, 0, loc).Add(-time.Nanosecond),
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.task.DueAt(loc)
			if ok != tt.wantOK {
				t.Fatalf("DueAt() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("DueAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTask_Clone(t *testing.T) {
	at := time.Now()
	orig := Task{ID: "a", BlockedBy: []string{"b"}, CompletedAt: &at}
	cp := orig.Clone()
	cp.BlockedBy[0] = "c"
	*cp.CompletedAt = at.Add(time.Hour)

	if orig.BlockedBy[0] != "b" {
		t.Error("Clone() shares BlockedBy with the original")
	}
	if !orig.CompletedAt.Equal(at) {
		t.Error("Clone() shares CompletedAt with the original")
	}
}

func TestPriority_Rank(t *testing.T) {
	order := []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("%s should rank before %s", order[i-1], order[i])
		}
	}
}
