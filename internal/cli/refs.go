package cli

import (
	"strings"

	"github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/store"
)

// ShortIDLen is how many id characters list output shows. Any unique prefix
// is accepted wherever an id is expected.
const ShortIDLen = 8

func ShortID(id string) string {
	if len(id) <= ShortIDLen {
		return id
	}
	return id[:ShortIDLen]
}

// resolve finds the item whose id equals ref, or failing that the single
// item whose id starts with ref. A name match is tried last when name is set.
func resolve[T any](items []T, ref, kind string, id func(T) string, name func(T) string) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, errors.Validation("resolve "+kind, "%s id cannot be empty", kind)
	}

	var matches []T
	for _, item := range items {
		if id(item) == ref {
			return item, nil
		}
		if strings.HasPrefix(id(item), ref) {
			matches = append(matches, item)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
	default:
		return zero, errors.Validation("resolve "+kind, "%s id %q is ambiguous (%d matches)", kind, ref, len(matches))
	}

	if name != nil {
		for _, item := range items {
			if strings.EqualFold(name(item), ref) {
				return item, nil
			}
		}
	}
	return zero, errors.NotFound("resolve "+kind, kind, ref)
}

func ResolveTask(st *store.Store, ref string) (models.Task, error) {
	return resolve(st.Tasks(), ref, "task",
		func(t models.Task) string { return t.ID }, nil)
}

// ResolveProject matches by id, id prefix, or case-insensitive name.
func ResolveProject(st *store.Store, ref string) (models.Project, error) {
	return resolve(st.Projects(true), ref, "project",
		func(p models.Project) string { return p.ID },
		func(p models.Project) string { return p.Name })
}

// ResolveHabit matches by id, id prefix, or case-insensitive name.
func ResolveHabit(st *store.Store, ref string) (models.Habit, error) {
	return resolve(st.Habits(true), ref, "habit",
		func(h models.Habit) string { return h.ID },
		func(h models.Habit) string { return h.Name })
}

func ResolveIdea(st *store.Store, ref string) (models.Idea, error) {
	return resolve(st.Ideas(), ref, "idea",
		func(i models.Idea) string { return i.ID }, nil)
}

func ResolveNote(st *store.Store, ref string) (models.Note, error) {
	return resolve(st.Notes(), ref, "note",
		func(n models.Note) string { return n.ID }, nil)
}

func ResolveTemplate(st *store.Store, ref string) (models.RecurringTemplate, error) {
	return resolve(st.Templates(), ref, "template",
		func(t models.RecurringTemplate) string { return t.ID },
		func(t models.RecurringTemplate) string { return t.Title })
}

func ResolveSession(st *store.Store, ref string) (models.TimeSession, error) {
	return resolve(st.Sessions(), ref, "session",
		func(s models.TimeSession) string { return s.ID }, nil)
}

func ResolveNotification(st *store.Store, ref string) (models.Notification, error) {
	return resolve(st.Notifications(), ref, "notification",
		func(n models.Notification) string { return n.ID }, nil)
}

// ProjectName returns the project's name, or "-" for an empty or unknown id.
func ProjectName(st *store.Store, id string) string {
	if id == "" {
		return "-"
	}
	if p, ok := st.Project(id); ok {
		return p.Name
	}
	return ShortID(id)
}
