package store

import (
	"github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/models"
)

func (s *Store) AddProject(p models.Project) (models.Project, error) {
	if p.ID == "" {
		p.ID = s.newID()
	} else if _, exists := s.projects[p.ID]; exists {
		return models.Project{}, errors.Validation("add project", "project %s already exists", p.ID)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	if err := p.Validate(); err != nil {
		return models.Project{}, err
	}

	s.projects[p.ID] = p
	s.touch()
	return p, nil
}

func (s *Store) UpdateProject(p models.Project) error {
	existing, ok := s.projects[p.ID]
	if !ok {
		return errors.NotFound("update project", "project", p.ID)
	}
	p.CreatedAt = existing.CreatedAt
	if err := p.Validate(); err != nil {
		return err
	}
	s.projects[p.ID] = p
	s.touch()
	return nil
}

func (s *Store) SetProjectArchived(id string, archived bool) error {
	p, ok := s.projects[id]
	if !ok {
		return errors.NotFound("archive project", "project", id)
	}
	p.Archived = archived
	s.projects[id] = p
	s.touch()
	return nil
}

// DeleteProject removes the project together with every task and time
// session it owns. Notes and templates that pointed at it are detached rather
// than deleted. It returns the ids of the removed tasks.
func (s *Store) DeleteProject(id string) ([]string, error) {
	if _, ok := s.projects[id]; !ok {
		return nil, errors.NotFound("delete project", "project", id)
	}

	var removed []string
	for taskID, t := range s.tasks {
		if t.ProjectID == id {
			removed = append(removed, taskID)
		}
	}
	for _, taskID := range removed {
		s.removeTask(taskID)
	}

	for noteID, n := range s.notes {
		if n.ProjectID == id {
			n.ProjectID = ""
			s.notes[noteID] = n
		}
	}
	for tplID, tpl := range s.templates {
		if tpl.ProjectID == id {
			tpl.ProjectID = ""
			s.templates[tplID] = tpl
		}
	}
	// Sessions cannot exist without a project.
	for sessID, sess := range s.sessions {
		if sess.ProjectID == id {
			delete(s.sessions, sessID)
		}
	}

	delete(s.projects, id)
	s.touch()
	return removed, nil
}

func (s *Store) Project(id string) (models.Project, bool) {
	p, ok := s.projects[id]
	return p, ok
}

// Projects lists projects oldest first.
func (s *Store) Projects(includeArchived bool) []models.Project {
	all := sortedValues(s.projects, func(a, b models.Project) bool {
		return createdBefore(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	if includeArchived {
		return all
	}
	out := all[:0]
	for _, p := range all {
		if !p.Archived {
			out = append(out, p)
		}
	}
	return out
}

// ProjectByName finds a project by exact name.
func (s *Store) ProjectByName(name string) (models.Project, bool) {
	for _, p := range s.Projects(true) {
		if p.Name == name {
			return p, true
		}
	}
	return models.Project{}, false
}
