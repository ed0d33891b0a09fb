package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/utils"
)

const SnapshotVersion = 1

// Snapshot is the serializable form of every collection. It round-trips
// through JSON without loss and is what persistence collaborators store.
type Snapshot struct {
	Version       int                        `json:"version"`
	Settings      models.Settings            `json:"settings"`
	Projects      []models.Project           `json:"projects"`
	Tasks         []models.Task              `json:"tasks"`
	Habits        []models.Habit             `json:"habits"`
	HabitLogs     models.HabitLog            `json:"habit_logs"`
	Ideas         []models.Idea              `json:"ideas"`
	Notes         []models.Note              `json:"notes"`
	Templates     []models.RecurringTemplate `json:"recurring_templates"`
	Sessions      []models.TimeSession       `json:"time_sessions"`
	Notifications []models.Notification      `json:"notifications"`
}

// Snapshot copies the current state.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Version:       SnapshotVersion,
		Settings:      s.settings,
		Projects:      s.Projects(true),
		Tasks:         s.Tasks(),
		Habits:        s.Habits(true),
		HabitLogs:     s.HabitLog(),
		Ideas:         s.Ideas(),
		Notes:         s.Notes(),
		Templates:     s.Templates(),
		Sessions:      s.Sessions(),
		Notifications: s.Notifications(),
	}
}

func (s *Store) MarshalSnapshot() ([]byte, error) {
	return json.MarshalIndent(s.Snapshot(), "", "  ")
}

// LoadReport lists what Restore had to discard.
type LoadReport struct {
	// Corrupt holds one error per collection that was replaced by its empty default.
	Corrupt []error
	// Skipped holds one error per record dropped for failing validation.
	Skipped []error
	// Repaired describes fix-ups applied to otherwise valid data.
	Repaired []string
}

func (r LoadReport) Clean() bool {
	return len(r.Corrupt) == 0 && len(r.Skipped) == 0 && len(r.Repaired) == 0
}

func (r LoadReport) String() string {
	if r.Clean() {
		return "clean"
	}
	var parts []string
	for _, err := range r.Corrupt {
		parts = append(parts, err.Error())
	}
	for _, err := range r.Skipped {
		parts = append(parts, err.Error())
	}
	parts = append(parts, r.Repaired...)
	return strings.Join(parts, "; ")
}

// Restore replaces the store's state with the snapshot in data. A collection
// that cannot be decoded falls back to its empty default and is reported;
// the rest still load. Restore never fails.
func (s *Store) Restore(data []byte) LoadReport {
	var report LoadReport
	s.reset()
	defer s.touch()

	if len(strings.TrimSpace(string(data))) == 0 {
		return report
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		report.Corrupt = append(report.Corrupt, errors.Corrupt("snapshot", err))
		return report
	}

	decode := func(key string, target any) bool {
		msg, ok := raw[key]
		if !ok || string(msg) == "null" {
			return false
		}
		if err := json.Unmarshal(msg, target); err != nil {
			report.Corrupt = append(report.Corrupt, errors.Corrupt(key, err))
			return false
		}
		return true
	}

	var settings models.Settings
	if decode("settings", &settings) {
		if err := settings.Validate(); err != nil {
			report.Corrupt = append(report.Corrupt, errors.Corrupt("settings", err))
		} else {
			s.settings = settings
		}
	}

	var projects []models.Project
	if decode("projects", &projects) {
		for _, p := range projects {
			if err := p.Validate(); err != nil || p.ID == "" {
				report.Skipped = append(report.Skipped, skipped("project", p.ID, err))
				continue
			}
			s.projects[p.ID] = p
		}
	}

	var tasks []models.Task
	if decode("tasks", &tasks) {
		for _, t := range tasks {
			t.ApplyDefaults()
			if t.Completed != (t.Status == models.StatusDone) {
				t.Completed = t.Status == models.StatusDone
				report.Repaired = append(report.Repaired, fmt.Sprintf("task %s: completed flag realigned with status %s", t.ID, t.Status))
			}
			if err := t.Validate(); err != nil || t.ID == "" {
				report.Skipped = append(report.Skipped, skipped("task", t.ID, err))
				continue
			}
			s.tasks[t.ID] = t.Clone()
		}
	}

	var habits []models.Habit
	if decode("habits", &habits) {
		for _, h := range habits {
			if err := h.Validate(); err != nil || h.ID == "" {
				report.Skipped = append(report.Skipped, skipped("habit", h.ID, err))
				continue
			}
			s.habits[h.ID] = h
		}
	}

	var logs models.HabitLog
	if decode("habit_logs", &logs) {
		today := s.today()
		for habitID, days := range logs {
			if _, ok := s.habits[habitID]; !ok {
				report.Skipped = append(report.Skipped, skipped("habit log", habitID, fmt.Errorf("unknown habit")))
				continue
			}
			kept := make(map[string]bool, len(days))
			for day, done := range days {
				switch {
				case !utils.ValidateDate(day):
					report.Skipped = append(report.Skipped, skipped("habit log", habitID, fmt.Errorf("invalid date %q", day)))
				case day > today:
					report.Skipped = append(report.Skipped, skipped("habit log", habitID, fmt.Errorf("future date %s", day)))
				default:
					kept[day] = done
				}
			}
			if len(kept) > 0 {
				s.habitLog[habitID] = kept
			}
		}
	}

	var ideas []models.Idea
	if decode("ideas", &ideas) {
		for _, i := range ideas {
			if err := i.Validate(); err != nil || i.ID == "" {
				report.Skipped = append(report.Skipped, skipped("idea", i.ID, err))
				continue
			}
			s.ideas[i.ID] = i
		}
	}

	var notes []models.Note
	if decode("notes", &notes) {
		for _, n := range notes {
			if err := n.Validate(); err != nil || n.ID == "" {
				report.Skipped = append(report.Skipped, skipped("note", n.ID, err))
				continue
			}
			s.notes[n.ID] = n
		}
	}

	var templates []models.RecurringTemplate
	if decode("recurring_templates", &templates) {
		for _, tpl := range templates {
			if tpl.Priority == "" {
				tpl.Priority = models.PriorityMedium
			}
			if err := tpl.Validate(); err != nil || tpl.ID == "" {
				report.Skipped = append(report.Skipped, skipped("template", tpl.ID, err))
				continue
			}
			s.templates[tpl.ID] = tpl
		}
	}

	var sessions []models.TimeSession
	if decode("time_sessions", &sessions) {
		for _, sess := range sessions {
			if err := sess.Validate(); err != nil || sess.ID == "" {
				report.Skipped = append(report.Skipped, skipped("session", sess.ID, err))
				continue
			}
			s.sessions[sess.ID] = sess
		}
		report.Repaired = append(report.Repaired, s.closeExtraActiveSessions()...)
	}

	var notifications []models.Notification
	if decode("notifications", &notifications) {
		for _, n := range notifications {
			if n.Type == "" || n.ID == "" {
				report.Skipped = append(report.Skipped, skipped("notification", n.ID, nil))
				continue
			}
			s.notifications = append(s.notifications, n)
		}
	}

	return report
}

// closeExtraActiveSessions keeps only the most recently started session
// running; older running sessions end where the newest one begins.
func (s *Store) closeExtraActiveSessions() []string {
	var active []models.TimeSession
	for _, sess := range s.sessions {
		if sess.IsActive() {
			active = append(active, sess)
		}
	}
	if len(active) <= 1 {
		return nil
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Start.After(active[j].Start) })

	newest := active[0].Start
	var repaired []string
	for _, sess := range active[1:] {
		end := newest
		sess.End = &end
		sess.DurationSeconds = models.SessionSeconds(sess.Start, end)
		s.sessions[sess.ID] = sess
		repaired = append(repaired, fmt.Sprintf("session %s: stopped, only one session may run", sess.ID))
	}
	return repaired
}

func skipped(kind, id string, cause error) error {
	if cause == nil {
		return errors.Validation("restore", "%s %q dropped: missing id or type", kind, id)
	}
	return errors.Validation("restore", "%s %q dropped: %v", kind, id, cause)
}
