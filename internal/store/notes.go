package store

import (
	"github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/models"
)

func (s *Store) AddIdea(i models.Idea) (models.Idea, error) {
	if i.ID == "" {
		i.ID = s.newID()
	} else if _, exists := s.ideas[i.ID]; exists {
		return models.Idea{}, errors.Validation("add idea", "idea %s already exists", i.ID)
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = s.now()
	}
	if err := i.Validate(); err != nil {
		return models.Idea{}, err
	}
	i = i.Clone()
	s.ideas[i.ID] = i
	s.touch()
	return i, nil
}

func (s *Store) UpdateIdea(i models.Idea) error {
	existing, ok := s.ideas[i.ID]
	if !ok {
		return errors.NotFound("update idea", "idea", i.ID)
	}
	i.CreatedAt = existing.CreatedAt
	if err := i.Validate(); err != nil {
		return err
	}
	s.ideas[i.ID] = i.Clone()
	s.touch()
	return nil
}

func (s *Store) DeleteIdea(id string) error {
	if _, ok := s.ideas[id]; !ok {
		return errors.NotFound("delete idea", "idea", id)
	}
	delete(s.ideas, id)
	s.touch()
	return nil
}

// PromoteIdea turns an idea into a manual task and removes the idea.
func (s *Store) PromoteIdea(id, projectID string) (models.Task, error) {
	idea, ok := s.ideas[id]
	if !ok {
		return models.Task{}, errors.NotFound("promote idea", "idea", id)
	}
	task, err := s.AddTask(models.Task{
		Title:       idea.Title,
		Description: idea.Description,
		ProjectID:   projectID,
		Source:      models.SourceManual,
	})
	if err != nil {
		return models.Task{}, err
	}
	delete(s.ideas, id)
	s.touch()
	return task, nil
}

func (s *Store) Ideas() []models.Idea {
	out := sortedValues(s.ideas, func(a, b models.Idea) bool {
		return createdBefore(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	for i := range out {
		out[i] = out[i].Clone()
	}
	return out
}

func (s *Store) AddNote(n models.Note) (models.Note, error) {
	if n.ID == "" {
		n.ID = s.newID()
	} else if _, exists := s.notes[n.ID]; exists {
		return models.Note{}, errors.Validation("add note", "note %s already exists", n.ID)
	}
	now := s.now()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = now
	if err := n.Validate(); err != nil {
		return models.Note{}, err
	}
	if err := s.checkProject("add note", n.ProjectID); err != nil {
		return models.Note{}, err
	}
	n = n.Clone()
	s.notes[n.ID] = n
	s.touch()
	return n, nil
}

func (s *Store) UpdateNote(n models.Note) error {
	existing, ok := s.notes[n.ID]
	if !ok {
		return errors.NotFound("update note", "note", n.ID)
	}
	n.CreatedAt = existing.CreatedAt
	n.UpdatedAt = s.now()
	if err := n.Validate(); err != nil {
		return err
	}
	if err := s.checkProject("update note", n.ProjectID); err != nil {
		return err
	}
	s.notes[n.ID] = n.Clone()
	s.touch()
	return nil
}

func (s *Store) SetNotePinned(id string, pinned bool) error {
	n, ok := s.notes[id]
	if !ok {
		return errors.NotFound("pin note", "note", id)
	}
	n.Pinned = pinned
	n.UpdatedAt = s.now()
	s.notes[id] = n
	s.touch()
	return nil
}

func (s *Store) DeleteNote(id string) error {
	if _, ok := s.notes[id]; !ok {
		return errors.NotFound("delete note", "note", id)
	}
	delete(s.notes, id)
	s.touch()
	return nil
}

// Notes lists pinned notes first, then the most recently updated.
func (s *Store) Notes() []models.Note {
	out := sortedValues(s.notes, func(a, b models.Note) bool {
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.ID < b.ID
	})
	for i := range out {
		out[i] = out[i].Clone()
	}
	return out
}
