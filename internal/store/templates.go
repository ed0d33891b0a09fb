package store

import (
	"slices"

	"github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/utils"
)

func (s *Store) AddTemplate(tpl models.RecurringTemplate) (models.RecurringTemplate, error) {
	const op = "add template"

	if tpl.ID == "" {
		tpl.ID = s.newID()
	} else if _, exists := s.templates[tpl.ID]; exists {
		return models.RecurringTemplate{}, errors.Validation(op, "template %s already exists", tpl.ID)
	}
	if tpl.CreatedAt.IsZero() {
		tpl.CreatedAt = s.now()
	}
	if tpl.Priority == "" {
		tpl.Priority = models.PriorityMedium
	}
	tpl.Weekdays = slices.Clone(tpl.Weekdays)
	if err := tpl.Validate(); err != nil {
		return models.RecurringTemplate{}, err
	}
	if err := s.checkProject(op, tpl.ProjectID); err != nil {
		return models.RecurringTemplate{}, err
	}

	s.templates[tpl.ID] = tpl
	s.touch()
	return tpl, nil
}

// UpdateTemplate edits a template. The creation date stays the scheduling
// anchor and the last instantiation date is kept, so an edit never causes a
// second task for a day that was already generated.
func (s *Store) UpdateTemplate(tpl models.RecurringTemplate) error {
	const op = "update template"

	existing, ok := s.templates[tpl.ID]
	if !ok {
		return errors.NotFound(op, "template", tpl.ID)
	}
	tpl.CreatedAt = existing.CreatedAt
	tpl.LastGenerated = existing.LastGenerated
	if tpl.Priority == "" {
		tpl.Priority = models.PriorityMedium
	}
	tpl.Weekdays = slices.Clone(tpl.Weekdays)
	if err := tpl.Validate(); err != nil {
		return err
	}
	if err := s.checkProject(op, tpl.ProjectID); err != nil {
		return err
	}
	s.templates[tpl.ID] = tpl
	s.touch()
	return nil
}

func (s *Store) SetTemplateEnabled(id string, enabled bool) error {
	tpl, ok := s.templates[id]
	if !ok {
		return errors.NotFound("enable template", "template", id)
	}
	if tpl.Enabled == enabled {
		return nil
	}
	tpl.Enabled = enabled
	s.templates[id] = tpl
	s.touch()
	return nil
}

// DeleteTemplate removes the template. Tasks it already generated stay.
func (s *Store) DeleteTemplate(id string) error {
	if _, ok := s.templates[id]; !ok {
		return errors.NotFound("delete template", "template", id)
	}
	delete(s.templates, id)
	s.touch()
	return nil
}

func (s *Store) Template(id string) (models.RecurringTemplate, bool) {
	tpl, ok := s.templates[id]
	if !ok {
		return models.RecurringTemplate{}, false
	}
	tpl.Weekdays = slices.Clone(tpl.Weekdays)
	return tpl, true
}

func (s *Store) Templates() []models.RecurringTemplate {
	out := sortedValues(s.templates, func(a, b models.RecurringTemplate) bool {
		return createdBefore(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	for i := range out {
		out[i].Weekdays = slices.Clone(out[i].Weekdays)
	}
	return out
}

// Instantiate materializes template id for day: it creates one recurring task
// due that day and records day as the template's last instantiation. Both
// happen or neither does. A second call for the same day is refused with a
// validation error, which is what makes generation idempotent.
func (s *Store) Instantiate(id, day string) (models.Task, error) {
	const op = "instantiate template"

	tpl, ok := s.templates[id]
	if !ok {
		return models.Task{}, errors.NotFound(op, "template", id)
	}
	if !utils.ValidateDate(day) {
		return models.Task{}, errors.Validation(op, "invalid date %q", day)
	}
	if tpl.LastGenerated == day {
		return models.Task{}, errors.Validation(op, "template %s already generated for %s", id, day)
	}

	projectID := tpl.ProjectID
	if _, ok := s.projects[projectID]; !ok {
		projectID = ""
	}
	task, err := s.AddTask(models.Task{
		Title:      tpl.Title,
		ProjectID:  projectID,
		Priority:   tpl.Priority,
		DueDate:    day,
		Source:     models.SourceRecurring,
		TemplateID: tpl.ID,
	})
	if err != nil {
		return models.Task{}, err
	}

	tpl.LastGenerated = day
	s.templates[id] = tpl
	s.touch()
	return task, nil
}
