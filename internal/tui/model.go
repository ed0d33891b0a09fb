// Package tui is the interactive dashboard. It drives the engine from the
// bubbletea event loop, so scheduler ticks and user actions never overlap.
package tui

import (
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/engine"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/tui/components/habits"
	"github.com/julianstephens/daybook/internal/tui/components/tasklist"
	"github.com/julianstephens/daybook/internal/tui/components/timer"
	"github.com/julianstephens/daybook/internal/utils"
)

type Tab int

const (
	TabTasks Tab = iota
	TabHabits
	TabTimer
	TabNotifications
	tabCount
)

var tabTitles = [tabCount]string{"Tasks", "Habits", "Timer", "Notifications"}

type SessionState int

const (
	StateBrowse SessionState = iota
	StateAddTask
	StateAddHabit
	StateStartTimer
	StateConfirmDelete
)

type TaskFormModel struct {
	Title     string
	Priority  models.Priority
	Due       string
	ProjectID string
}

type HabitFormModel struct {
	Name string
}

type TimerFormModel struct {
	ProjectID   string
	Description string
	Billable    bool
}

// schedulerTickMsg runs one engine tick.
type schedulerTickMsg struct{}

// timerTickMsg refreshes the running timer.
type timerTickMsg struct{}

type Model struct {
	engine       *engine.Engine
	tab          Tab
	state        SessionState
	keys         KeyMap
	help         help.Model
	taskList     tasklist.Model
	habitsModel  habits.Model
	timerModel   timer.Model
	form         *huh.Form
	taskForm     *TaskFormModel
	habitForm    *HabitFormModel
	timerForm    *TimerFormModel
	notes        []models.Notification // newest first
	notesCursor  int
	deleteTaskID string
	timerRunning bool
	tickInterval time.Duration
	status       string
	quitting     bool
	width        int
	height       int
}

type Option func(*Model)

// WithTickInterval sets how often the scheduler runs.
func WithTickInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.tickInterval = d
		}
	}
}

func NewModel(e *engine.Engine, opts ...Option) Model {
	m := Model{
		engine:       e,
		state:        StateBrowse,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		taskList:     tasklist.New(nil, 0, 0),
		habitsModel:  habits.New(nil, 0, 0),
		timerModel:   timer.New(0, 0),
		tickInterval: constants.DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(&m)
	}
	_, m.timerRunning = e.Store().ActiveSession()
	m.refresh()
	return m
}

// Run starts the dashboard and blocks until the user quits.
func Run(e *engine.Engine, opts ...Option) error {
	p := tea.NewProgram(NewModel(e, opts...), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.tab {
	case TabTasks:
		tk := tasklist.DefaultKeyMap()
		keys = append(keys, tk.Add, tk.Toggle, tk.Delete, tk.Track)
	case TabHabits:
		hk := habits.DefaultKeyMap()
		keys = append(keys, hk.Add, hk.Toggle)
	case TabTimer:
		keys = append(keys, m.keys.Timer)
	case TabNotifications:
		keys = append(keys, m.keys.Read, m.keys.ReadAll, m.keys.Delete)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}
	return [][]key.Binding{global, navigation, m.ShortHelp()[3:]}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{func() tea.Msg { return schedulerTickMsg{} }}
	if m.timerRunning {
		cmds = append(cmds, timerTick())
	}
	return tea.Batch(cmds...)
}

func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.tickInterval, func(time.Time) tea.Msg { return schedulerTickMsg{} })
}

func timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return timerTickMsg{} })
}

// ensureTimer starts the refresh loop unless one is already running.
func (m *Model) ensureTimer() tea.Cmd {
	if m.timerRunning {
		return nil
	}
	if _, ok := m.engine.Store().ActiveSession(); !ok {
		return nil
	}
	m.timerRunning = true
	return timerTick()
}

// save persists pending changes. Failures stay dirty and are retried by the
// next save.
func (m *Model) save() {
	if _, err := m.engine.SaveIfDirty(); err != nil {
		logger.Error("TUI save failed", "error", err)
		m.status = "Save failed: " + err.Error()
	}
}

// refresh rebuilds every view from the store.
func (m *Model) refresh() {
	st := m.engine.Store()
	resolver := st.Resolver()

	projects := make(map[string]string)
	for _, p := range st.Projects(true) {
		projects[p.ID] = p.Name
	}

	tasks := st.Tasks()
	sortTasks(tasks)
	items := make([]tasklist.Item, len(tasks))
	for i, t := range tasks {
		items[i] = tasklist.Item{
			Task:    t,
			Blocked: !t.Completed && resolver.IsBlocked(t.ID),
			Project: projects[t.ProjectID],
		}
	}
	m.taskList.SetItems(items)

	today := utils.DateKey(m.engine.Today())
	var habitItems []habits.Item
	for _, h := range st.Habits(false) {
		habitItems = append(habitItems, habits.Item{
			Habit:    h,
			IsMarked: st.IsHabitLogged(h.ID, today),
			Streak:   m.engine.Streak(h.ID),
		})
	}
	m.habitsModel.SetItems(habitItems)

	m.refreshTimer(projects)

	all := st.Notifications()
	m.notes = make([]models.Notification, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		m.notes = append(m.notes, all[i])
	}
	if m.notesCursor >= len(m.notes) {
		m.notesCursor = max(0, len(m.notes)-1)
	}
}

func (m *Model) refreshTimer(projects map[string]string) {
	st := m.engine.Store()
	if projects == nil {
		projects = make(map[string]string)
		for _, p := range st.Projects(true) {
			projects[p.ID] = p.Name
		}
	}
	snap := timer.Snapshot{
		Now:      m.engine.Now(),
		Report:   m.engine.Report(constants.RollingReportDays),
		Projects: projects,
	}
	if active, ok := st.ActiveSession(); ok {
		snap.Active = &active
		snap.Project = projects[active.ProjectID]
	}
	m.timerModel.SetSnapshot(snap)
}

// sortTasks puts open tasks first, then orders by priority, due date and title.
func sortTasks(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		if a.DueDate != b.DueDate {
			if a.DueDate == "" || b.DueDate == "" {
				return b.DueDate == ""
			}
			return a.DueDate < b.DueDate
		}
		return a.Title < b.Title
	})
}
