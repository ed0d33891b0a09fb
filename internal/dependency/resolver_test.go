package dependency

import (
	"slices"
	"testing"

	"github.com/julianstephens/daybook/internal/models"
)

func task(id string, completed bool, blockedBy ...string) models.Task {
	status := models.StatusTodo
	if completed {
		status = models.StatusDone
	}
	return models.Task{ID: id, Title: id, Status: status, Completed: completed, BlockedBy: blockedBy}
}

func lookup(tasks ...models.Task) MapLookup {
	m := MapLookup{}
	for _, t := range tasks {
		m[t.ID] = t
	}
	return m
}

func TestResolver_IsBlocked(t *testing.T) {
	tasks := lookup(
		task("open", false),
		task("done", true),
		task("free", false),
		task("waits-open", false, "open"),
		task("waits-done", false, "done"),
		task("waits-deleted", false, "gone"),
		task("waits-mixed", false, "done", "gone", "open"),
	)
	r := New(tasks)

	tests := []struct {
		id   string
		want bool
	}{
		{"free", false},
		{"waits-open", true},
		{"waits-done", false},
		{"waits-deleted", false},
		{"waits-mixed", true},
		{"unknown-task", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := r.IsBlocked(tt.id); got != tt.want {
				t.Errorf("IsBlocked(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}

	if got := r.Blockers("waits-mixed"); !slices.Equal(got, []string{"open"}) {
		t.Errorf("Blockers(waits-mixed) = %v, want [open]", got)
	}
}

func TestResolver_Chain(t *testing.T) {
	// d -> c -> b -> a, with b already done
	r := New(lookup(
		task("a", false),
		task("b", true, "a"),
		task("c", false, "b"),
		task("d", false, "c"),
	))

	got := r.Chain("d")
	want := []string{"c", "a"}
	if !slices.Equal(got, want) {
		t.Errorf("Chain(d) = %v, want %v", got, want)
	}
}

func TestResolver_ChainTerminatesOnCycle(t *testing.T) {
	r := New(lookup(
		task("x", false, "y"),
		task("y", false, "z"),
		task("z", false, "x"),
	))

	got := r.Chain("x")
	slices.Sort(got)
	if !slices.Equal(got, []string{"y", "z"}) {
		t.Errorf("Chain(x) on a cycle = %v, want [y z]", got)
	}
}

func TestResolver_WouldCycle(t *testing.T) {
	r := New(lookup(
		task("a", false),
		task("b", false, "a"),
		task("c", false, "b"),
	))

	tests := []struct {
		name       string
		task, pred string
		wantCycle  bool
	}{
		{"self", "a", "a", true},
		{"direct back edge", "a", "b", true},
		{"transitive back edge", "a", "c", true},
		{"forward edge", "c", "a", false},
		{"unrelated", "b", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.WouldCycle(tt.task, tt.pred); got != tt.wantCycle {
				t.Errorf("WouldCycle(%q, %q) = %v, want %v", tt.task, tt.pred, got, tt.wantCycle)
			}
		})
	}
}

func TestDependents(t *testing.T) {
	all := []models.Task{
		task("a", false),
		task("b", false, "a"),
		task("c", false, "x", "a"),
		task("d", false, "b"),
	}
	if got := Dependents("a", all); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("Dependents(a) = %v, want [b c]", got)
	}
}
