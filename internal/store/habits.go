package store

import (
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/utils"
)

func (s *Store) AddHabit(h models.Habit) (models.Habit, error) {
	if h.ID == "" {
		h.ID = s.newID()
	} else if _, exists := s.habits[h.ID]; exists {
		return models.Habit{}, errors.Validation("add habit", "habit %s already exists", h.ID)
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = s.now()
	}
	if err := h.Validate(); err != nil {
		return models.Habit{}, err
	}
	s.habits[h.ID] = h
	s.touch()
	return h, nil
}

func (s *Store) UpdateHabit(h models.Habit) error {
	existing, ok := s.habits[h.ID]
	if !ok {
		return errors.NotFound("update habit", "habit", h.ID)
	}
	h.CreatedAt = existing.CreatedAt
	h.ArchivedAt = existing.ArchivedAt
	if err := h.Validate(); err != nil {
		return err
	}
	s.habits[h.ID] = h
	s.touch()
	return nil
}

func (s *Store) ArchiveHabit(id string) error {
	h, ok := s.habits[id]
	if !ok {
		return errors.NotFound("archive habit", "habit", id)
	}
	if h.ArchivedAt != nil {
		return nil
	}
	now := s.now()
	h.ArchivedAt = &now
	s.habits[id] = h
	s.touch()
	return nil
}

func (s *Store) UnarchiveHabit(id string) error {
	h, ok := s.habits[id]
	if !ok {
		return errors.NotFound("unarchive habit", "habit", id)
	}
	if h.ArchivedAt == nil {
		return nil
	}
	h.ArchivedAt = nil
	s.habits[id] = h
	s.touch()
	return nil
}

// DeleteHabit removes the habit and its log history.
func (s *Store) DeleteHabit(id string) error {
	if _, ok := s.habits[id]; !ok {
		return errors.NotFound("delete habit", "habit", id)
	}
	delete(s.habits, id)
	delete(s.habitLog, id)
	s.touch()
	return nil
}

func (s *Store) Habit(id string) (models.Habit, bool) {
	h, ok := s.habits[id]
	return h, ok
}

func (s *Store) HabitByName(name string) (models.Habit, bool) {
	for _, h := range s.Habits(true) {
		if h.Name == name {
			return h, true
		}
	}
	return models.Habit{}, false
}

// Habits lists habits oldest first.
func (s *Store) Habits(includeArchived bool) []models.Habit {
	all := sortedValues(s.habits, func(a, b models.Habit) bool {
		return createdBefore(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	if includeArchived {
		return all
	}
	out := all[:0]
	for _, h := range all {
		if !h.IsArchived() {
			out = append(out, h)
		}
	}
	return out
}

// HabitLog returns a copy of the full log.
func (s *Store) HabitLog() models.HabitLog {
	return s.habitLog.Clone()
}

// HabitDays returns one habit's day -> completed map, copied.
func (s *Store) HabitDays(habitID string) map[string]bool {
	days := make(map[string]bool, len(s.habitLog[habitID]))
	for day, done := range s.habitLog[habitID] {
		days[day] = done
	}
	return days
}

func (s *Store) IsHabitLogged(habitID, day string) bool {
	return s.habitLog.IsLogged(habitID, day)
}

// ToggleHabitLog flips the completion of habitID on day and returns the new value.
func (s *Store) ToggleHabitLog(habitID, day string) (bool, error) {
	if err := s.checkHabitDay("toggle habit log", habitID, day); err != nil {
		return false, err
	}
	done := !s.habitLog.IsLogged(habitID, day)
	s.writeHabitLog(habitID, day, done)
	return done, nil
}

func (s *Store) SetHabitLog(habitID, day string, done bool) error {
	if err := s.checkHabitDay("set habit log", habitID, day); err != nil {
		return err
	}
	if s.habitLog.IsLogged(habitID, day) == done {
		return nil
	}
	s.writeHabitLog(habitID, day, done)
	return nil
}

func (s *Store) writeHabitLog(habitID, day string, done bool) {
	days, ok := s.habitLog[habitID]
	if !ok {
		days = make(map[string]bool)
		s.habitLog[habitID] = days
	}
	days[day] = done
	s.touch()
}

func (s *Store) checkHabitDay(op, habitID, day string) error {
	if _, ok := s.habits[habitID]; !ok {
		return errors.NotFound(op, "habit", habitID)
	}
	if !utils.ValidateDate(day) {
		return errors.Validation(op, "invalid date %q (expected %s)", day, constants.DateFormat)
	}
	if day > s.today() {
		return errors.Validation(op, "cannot log %s in the future", day)
	}
	return nil
}
