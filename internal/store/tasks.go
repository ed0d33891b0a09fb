package store

import (
	"math"
	"slices"
	"time"

	"github.com/julianstephens/daybook/internal/dependency"
	"github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/models"
)

// Task implements dependency.Lookup.
func (s *Store) Task(id string) (models.Task, bool) {
	t, ok := s.tasks[id]
	if !ok {
		return models.Task{}, false
	}
	return t.Clone(), true
}

// Tasks lists every task, oldest first.
func (s *Store) Tasks() []models.Task {
	out := sortedValues(s.tasks, func(a, b models.Task) bool {
		return createdBefore(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	for i := range out {
		out[i] = out[i].Clone()
	}
	return out
}

func (s *Store) TasksForProject(projectID string) []models.Task {
	var out []models.Task
	for _, t := range s.Tasks() {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}

// Resolver returns a dependency resolver reading from this store.
func (s *Store) Resolver() *dependency.Resolver {
	return dependency.New(s)
}

func (s *Store) IsBlocked(taskID string) bool {
	return s.Resolver().IsBlocked(taskID)
}

func (s *Store) AddTask(t models.Task) (models.Task, error) {
	const op = "add task"

	if t.ID == "" {
		t.ID = s.newID()
	} else if _, exists := s.tasks[t.ID]; exists {
		return models.Task{}, errors.Validation(op, "task %s already exists", t.ID)
	}
	t.ApplyDefaults()
	now := s.now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	if t.Completed && t.CompletedAt == nil {
		t.CompletedAt = &now
	}
	t.BlockedBy = slices.Clone(t.BlockedBy)

	if err := t.Validate(); err != nil {
		return models.Task{}, err
	}
	if err := s.checkProject(op, t.ProjectID); err != nil {
		return models.Task{}, err
	}
	if err := s.checkPredecessors(op, t.ID, nil, t.BlockedBy); err != nil {
		return models.Task{}, err
	}
	if t.Completed {
		if blockers := dependency.Blockers(t, s); len(blockers) > 0 {
			return models.Task{}, errors.Blocked(op, t.ID, blockers)
		}
	}

	s.tasks[t.ID] = t
	s.touch()
	return t.Clone(), nil
}

// UpdateTask replaces a task's editable fields. CreatedAt, Source,
// TemplateID and time spent are preserved from the stored record.
func (s *Store) UpdateTask(t models.Task) (models.Task, error) {
	const op = "update task"

	existing, ok := s.tasks[t.ID]
	if !ok {
		return models.Task{}, errors.NotFound(op, "task", t.ID)
	}
	t.CreatedAt = existing.CreatedAt
	t.Source = existing.Source
	t.TemplateID = existing.TemplateID
	t.TimeSpentMinutes = existing.TimeSpentMinutes
	t.ApplyDefaults()
	t.UpdatedAt = s.now()
	t.BlockedBy = slices.Clone(t.BlockedBy)
	syncCompletion(&t, existing, s.now())

	if err := t.Validate(); err != nil {
		return models.Task{}, err
	}
	if err := s.checkProject(op, t.ProjectID); err != nil {
		return models.Task{}, err
	}
	if err := s.checkPredecessors(op, t.ID, existing.BlockedBy, t.BlockedBy); err != nil {
		return models.Task{}, err
	}
	if blockers := s.completionBlockers(t, existing); len(blockers) > 0 {
		return models.Task{}, errors.Blocked(op, t.ID, blockers)
	}

	s.tasks[t.ID] = t
	s.touch()
	return t.Clone(), nil
}

// ToggleTask flips completion. Completing a task whose predecessors are not
// all completed is refused with a TaskBlocked error and changes nothing.
func (s *Store) ToggleTask(id string) (models.Task, error) {
	const op = "toggle task"

	t, ok := s.tasks[id]
	if !ok {
		return models.Task{}, errors.NotFound(op, "task", id)
	}

	if t.Completed {
		t.Completed = false
		t.CompletedAt = nil
		t.Status = models.StatusTodo
	} else {
		if blockers := dependency.Blockers(t, s); len(blockers) > 0 {
			return t.Clone(), errors.Blocked(op, id, blockers)
		}
		now := s.now()
		t.Completed = true
		t.CompletedAt = &now
		t.Status = models.StatusDone
	}
	t.UpdatedAt = s.now()

	s.tasks[id] = t
	s.touch()
	return t.Clone(), nil
}

// SetTaskStatus moves a task between todo, in-progress and done. Moving to
// done follows the same blocking rule as ToggleTask.
func (s *Store) SetTaskStatus(id string, status models.TaskStatus) (models.Task, error) {
	const op = "set task status"

	t, ok := s.tasks[id]
	if !ok {
		return models.Task{}, errors.NotFound(op, "task", id)
	}
	if !status.Valid() {
		return models.Task{}, errors.Validation(op, "invalid status %q", status)
	}
	if status == t.Status {
		return t.Clone(), nil
	}
	if status == models.StatusDone {
		if blockers := dependency.Blockers(t, s); len(blockers) > 0 {
			return t.Clone(), errors.Blocked(op, id, blockers)
		}
	}

	prev := t
	t.Status = status
	t.Completed = status == models.StatusDone
	syncCompletion(&t, prev, s.now())
	t.UpdatedAt = s.now()

	s.tasks[id] = t
	s.touch()
	return t.Clone(), nil
}

// SetBlockedBy replaces the predecessor list of a task.
func (s *Store) SetBlockedBy(id string, predecessors []string) error {
	const op = "set dependencies"

	t, ok := s.tasks[id]
	if !ok {
		return errors.NotFound(op, "task", id)
	}
	next := t
	next.BlockedBy = slices.Clone(predecessors)
	if err := next.Validate(); err != nil {
		return err
	}
	if err := s.checkPredecessors(op, id, t.BlockedBy, next.BlockedBy); err != nil {
		return err
	}
	if blockers := s.completionBlockers(next, t); len(blockers) > 0 {
		return errors.Blocked(op, id, blockers)
	}
	next.UpdatedAt = s.now()
	s.tasks[id] = next
	s.touch()
	return nil
}

func (s *Store) AddDependency(id, predecessorID string) error {
	t, ok := s.tasks[id]
	if !ok {
		return errors.NotFound("add dependency", "task", id)
	}
	if slices.Contains(t.BlockedBy, predecessorID) {
		return nil
	}
	return s.SetBlockedBy(id, append(slices.Clone(t.BlockedBy), predecessorID))
}

func (s *Store) RemoveDependency(id, predecessorID string) error {
	t, ok := s.tasks[id]
	if !ok {
		return errors.NotFound("remove dependency", "task", id)
	}
	if !slices.Contains(t.BlockedBy, predecessorID) {
		return nil
	}
	next := slices.DeleteFunc(slices.Clone(t.BlockedBy), func(p string) bool { return p == predecessorID })
	return s.SetBlockedBy(id, next)
}

// DeleteTask removes the task and strips its id from every other task's
// predecessor list.
func (s *Store) DeleteTask(id string) error {
	if _, ok := s.tasks[id]; !ok {
		return errors.NotFound("delete task", "task", id)
	}
	s.removeTask(id)
	s.touch()
	return nil
}

func (s *Store) removeTask(id string) {
	delete(s.tasks, id)
	for otherID, other := range s.tasks {
		if !slices.Contains(other.BlockedBy, id) {
			continue
		}
		other.BlockedBy = slices.DeleteFunc(other.BlockedBy, func(p string) bool { return p == id })
		if len(other.BlockedBy) == 0 {
			other.BlockedBy = nil
		}
		s.tasks[otherID] = other
	}
}

// completionBlockers returns the unfinished predecessors that would leave
// next completed while blocked. A task that was already completed is only
// checked against predecessors it did not have before.
func (s *Store) completionBlockers(next, prev models.Task) []string {
	if !next.Completed {
		return nil
	}
	blockers := dependency.Blockers(next, s)
	if !prev.Completed {
		return blockers
	}
	return slices.DeleteFunc(blockers, func(id string) bool { return slices.Contains(prev.BlockedBy, id) })
}

// trackedSeconds sums the finished sessions linked to a task.
func (s *Store) trackedSeconds(taskID string) int64 {
	var total int64
	for _, sess := range s.sessions {
		if sess.TaskID == taskID && !sess.IsActive() {
			total += sess.DurationSeconds
		}
	}
	return total
}

// adjustTimeSpent moves a task's minutes by the change in its rounded
// tracked total, so rounding happens once over all sessions and minutes
// entered outside time tracking are kept.
func (s *Store) adjustTimeSpent(taskID string, before, after int64) {
	t, ok := s.tasks[taskID]
	if !ok {
		return
	}
	t.TimeSpentMinutes = max(0, t.TimeSpentMinutes+roundMinutes(after)-roundMinutes(before))
	s.tasks[taskID] = t
}

func roundMinutes(seconds int64) int {
	return int(math.Round(float64(seconds) / 60))
}

func (s *Store) checkProject(op, projectID string) error {
	if projectID == "" {
		return nil
	}
	if _, ok := s.projects[projectID]; !ok {
		return errors.Validation(op, "unknown project %s", projectID)
	}
	return nil
}

// checkPredecessors validates only the ids being added, so a previously
// stored reference is never re-litigated.
func (s *Store) checkPredecessors(op, taskID string, before, after []string) error {
	resolver := s.Resolver()
	for _, pred := range after {
		if slices.Contains(before, pred) {
			continue
		}
		if _, ok := s.tasks[pred]; !ok {
			return errors.Validation(op, "unknown predecessor %s", pred)
		}
		if resolver.WouldCycle(taskID, pred) {
			return errors.Validation(op, "depending on %s would create a cycle", pred)
		}
	}
	return nil
}

// syncCompletion keeps CompletedAt consistent with the completed flag.
func syncCompletion(t *models.Task, prev models.Task, now time.Time) {
	switch {
	case t.Completed && prev.Completed && t.CompletedAt == nil:
		t.CompletedAt = prev.CompletedAt
	case t.Completed && t.CompletedAt == nil:
		t.CompletedAt = &now
	case !t.Completed:
		t.CompletedAt = nil
	}
}
