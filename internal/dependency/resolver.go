// Package dependency answers whether a task is blocked by unfinished
// predecessors. A predecessor id that no longer resolves to a task never blocks.
package dependency

import (
	"github.com/julianstephens/daybook/internal/models"
)

type Lookup interface {
	Task(id string) (models.Task, bool)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(id string) (models.Task, bool)

func (f LookupFunc) Task(id string) (models.Task, bool) { return f(id) }

// MapLookup serves lookups from an id-keyed map.
type MapLookup map[string]models.Task

func (m MapLookup) Task(id string) (models.Task, bool) {
	t, ok := m[id]
	return t, ok
}

// Blockers returns the direct predecessors of task that exist and are not completed.
func Blockers(task models.Task, tasks Lookup) []string {
	var out []string
	for _, id := range task.BlockedBy {
		pred, ok := tasks.Task(id)
		if ok && !pred.Completed {
			out = append(out, id)
		}
	}
	return out
}

// IsBlocked reports whether any direct predecessor of task is unfinished.
func IsBlocked(task models.Task, tasks Lookup) bool {
	for _, id := range task.BlockedBy {
		if pred, ok := tasks.Task(id); ok && !pred.Completed {
			return true
		}
	}
	return false
}

type Resolver struct {
	tasks Lookup
}

func New(tasks Lookup) *Resolver {
	return &Resolver{tasks: tasks}
}

// IsBlocked is false for unknown task ids.
func (r *Resolver) IsBlocked(taskID string) bool {
	task, ok := r.tasks.Task(taskID)
	if !ok {
		return false
	}
	return IsBlocked(task, r.tasks)
}

func (r *Resolver) Blockers(taskID string) []string {
	task, ok := r.tasks.Task(taskID)
	if !ok {
		return nil
	}
	return Blockers(task, r.tasks)
}

// Chain walks blockedBy transitively and returns every reachable unfinished
// predecessor, nearest first. Each task is visited once, so cycles terminate.
func (r *Resolver) Chain(taskID string) []string {
	visited := map[string]bool{taskID: true}
	queue := []string{taskID}
	var out []string

	for len(queue) > 0 {
		current, ok := r.tasks.Task(queue[0])
		queue = queue[1:]
		if !ok {
			continue
		}
		for _, id := range current.BlockedBy {
			if visited[id] {
				continue
			}
			visited[id] = true
			pred, ok := r.tasks.Task(id)
			if !ok {
				continue
			}
			if !pred.Completed {
				out = append(out, id)
			}
			queue = append(queue, id)
		}
	}
	return out
}

// WouldCycle reports whether making predecessorID block taskID closes a loop,
// i.e. predecessorID already depends on taskID directly or transitively.
func (r *Resolver) WouldCycle(taskID, predecessorID string) bool {
	if taskID == predecessorID {
		return true
	}
	visited := map[string]bool{}
	stack := []string{predecessorID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == taskID {
			return true
		}
		if visited[id] {
			continue
		}
		visited[id] = true
		if t, ok := r.tasks.Task(id); ok {
			stack = append(stack, t.BlockedBy...)
		}
	}
	return false
}

// Dependents returns the ids of tasks in all that list taskID as a predecessor.
func Dependents(taskID string, all []models.Task) []string {
	var out []string
	for _, t := range all {
		for _, id := range t.BlockedBy {
			if id == taskID {
				out = append(out, t.ID)
				break
			}
		}
	}
	return out
}
