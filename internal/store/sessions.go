package store

import (
	"time"

	"github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/models"
)

// ActiveSession returns the running session, if any.
func (s *Store) ActiveSession() (models.TimeSession, bool) {
	for _, sess := range s.sessions {
		if sess.IsActive() {
			return copySession(sess), true
		}
	}
	return models.TimeSession{}, false
}

// StartSession begins tracking now. If another session is running it is
// stopped first at the same instant, and returned as stopped.
func (s *Store) StartSession(sess models.TimeSession) (started models.TimeSession, stopped *models.TimeSession, err error) {
	const op = "start session"

	now := s.now()
	if sess.ID == "" {
		sess.ID = s.newID()
	} else if _, exists := s.sessions[sess.ID]; exists {
		return models.TimeSession{}, nil, errors.Validation(op, "session %s already exists", sess.ID)
	}
	sess.Start = now
	sess.End = nil
	sess.DurationSeconds = 0
	if err := sess.Validate(); err != nil {
		return models.TimeSession{}, nil, err
	}
	if err := s.checkProject(op, sess.ProjectID); err != nil {
		return models.TimeSession{}, nil, err
	}
	if sess.TaskID != "" {
		if _, ok := s.tasks[sess.TaskID]; !ok {
			return models.TimeSession{}, nil, errors.Validation(op, "unknown task %s", sess.TaskID)
		}
	}

	if active, ok := s.ActiveSession(); ok {
		done := s.stopAt(active.ID, now)
		stopped = &done
	}

	s.sessions[sess.ID] = sess
	s.touch()
	return copySession(sess), stopped, nil
}

// StopSession ends the running session now.
func (s *Store) StopSession() (models.TimeSession, error) {
	active, ok := s.ActiveSession()
	if !ok {
		return models.TimeSession{}, errors.NotFound("stop session", "active session", "")
	}
	done := s.stopAt(active.ID, s.now())
	s.touch()
	return done, nil
}

func (s *Store) stopAt(id string, end time.Time) models.TimeSession {
	sess := s.sessions[id]
	if end.Before(sess.Start) {
		end = sess.Start
	}
	before := s.trackedSeconds(sess.TaskID)
	sess.End = &end
	sess.DurationSeconds = models.SessionSeconds(sess.Start, end)
	s.sessions[id] = sess

	if sess.TaskID != "" {
		s.adjustTimeSpent(sess.TaskID, before, s.trackedSeconds(sess.TaskID))
	}
	return copySession(sess)
}

// RecordSession stores an already-finished session, e.g. a manual entry.
func (s *Store) RecordSession(sess models.TimeSession) (models.TimeSession, error) {
	const op = "record session"

	if sess.ID == "" {
		sess.ID = s.newID()
	} else if _, exists := s.sessions[sess.ID]; exists {
		return models.TimeSession{}, errors.Validation(op, "session %s already exists", sess.ID)
	}
	if sess.End == nil {
		return models.TimeSession{}, errors.Validation(op, "a recorded session needs an end time")
	}
	sess.DurationSeconds = models.SessionSeconds(sess.Start, *sess.End)
	if err := sess.Validate(); err != nil {
		return models.TimeSession{}, err
	}
	if sess.End.After(s.now()) {
		return models.TimeSession{}, errors.Validation(op, "session cannot end in the future")
	}

	before := s.trackedSeconds(sess.TaskID)
	s.sessions[sess.ID] = copySession(sess)
	if sess.TaskID != "" {
		s.adjustTimeSpent(sess.TaskID, before, s.trackedSeconds(sess.TaskID))
	}
	s.touch()
	return copySession(sess), nil
}

// UpdateSession edits the description and billable flag of a session.
func (s *Store) UpdateSession(id, description string, billable bool) error {
	sess, ok := s.sessions[id]
	if !ok {
		return errors.NotFound("update session", "session", id)
	}
	sess.Description = description
	sess.Billable = billable
	s.sessions[id] = sess
	s.touch()
	return nil
}

// DeleteSession removes a session and takes its time back off the linked task.
func (s *Store) DeleteSession(id string) error {
	sess, ok := s.sessions[id]
	if !ok {
		return errors.NotFound("delete session", "session", id)
	}
	before := s.trackedSeconds(sess.TaskID)
	delete(s.sessions, id)
	if sess.TaskID != "" {
		s.adjustTimeSpent(sess.TaskID, before, s.trackedSeconds(sess.TaskID))
	}
	s.touch()
	return nil
}

func (s *Store) Session(id string) (models.TimeSession, bool) {
	sess, ok := s.sessions[id]
	if !ok {
		return models.TimeSession{}, false
	}
	return copySession(sess), true
}

// Sessions lists sessions by start time.
func (s *Store) Sessions() []models.TimeSession {
	out := sortedValues(s.sessions, func(a, b models.TimeSession) bool {
		return createdBefore(a.Start, b.Start, a.ID, b.ID)
	})
	for i := range out {
		out[i] = copySession(out[i])
	}
	return out
}

func copySession(sess models.TimeSession) models.TimeSession {
	if sess.End != nil {
		end := *sess.End
		sess.End = &end
	}
	return sess
}
