// Package store holds the authoritative in-memory collections and owns every
// mutation. Mutations validate first and apply second, so a returned error
// always means the store is unchanged.
//
// A Store is not safe for concurrent use; callers drive it from one goroutine
// (the CLI command, the TUI event loop, or the scheduler runner).
package store

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/daybook/internal/clock"
	"github.com/julianstephens/daybook/internal/models"
)

type Store struct {
	clock clock.Clock
	newID func() string

	projects      map[string]models.Project
	tasks         map[string]models.Task
	habits        map[string]models.Habit
	habitLog      models.HabitLog
	ideas         map[string]models.Idea
	notes         map[string]models.Note
	templates     map[string]models.RecurringTemplate
	sessions      map[string]models.TimeSession
	notifications []models.Notification
	settings      models.Settings

	version uint64
}

type Option func(*Store)

// WithIDGenerator replaces uuid generation, mainly for deterministic tests.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func New(clk clock.Clock, opts ...Option) *Store {
	s := &Store{
		clock: clk,
		newID: uuid.NewString,
	}
	s.reset()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) reset() {
	s.projects = make(map[string]models.Project)
	s.tasks = make(map[string]models.Task)
	s.habits = make(map[string]models.Habit)
	s.habitLog = make(models.HabitLog)
	s.ideas = make(map[string]models.Idea)
	s.notes = make(map[string]models.Note)
	s.templates = make(map[string]models.RecurringTemplate)
	s.sessions = make(map[string]models.TimeSession)
	s.notifications = nil
	s.settings = models.DefaultSettings()
}

// Clock returns the clock the store stamps mutations with.
func (s *Store) Clock() clock.Clock { return s.clock }

// Version increases on every successful mutation.
func (s *Store) Version() uint64 { return s.version }

func (s *Store) touch() { s.version++ }

func (s *Store) now() time.Time { return s.clock.Now() }

func (s *Store) today() string {
	return s.now().Format("2006-01-02")
}

func (s *Store) Settings() models.Settings { return s.settings }

func (s *Store) UpdateSettings(settings models.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.settings = settings
	s.touch()
	return nil
}

func (s *Store) Preferences() models.NotificationPreferences {
	return s.settings.Notifications
}

func sortedValues[T any](m map[string]T, less func(a, b T) bool) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func createdBefore(a, b time.Time, aID, bID string) bool {
	if !a.Equal(b) {
		return a.Before(b)
	}
	return aID < bID
}
