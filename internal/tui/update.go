package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/tui/components/habits"
	"github.com/julianstephens/daybook/internal/tui/components/tasklist"
	"github.com/julianstephens/daybook/internal/utils"
)

// chromeHeight is the space taken by tabs, status line and help.
const chromeHeight = 6

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h := max(0, msg.Height-chromeHeight)
		m.taskList.SetSize(msg.Width-4, h)
		m.habitsModel.SetSize(msg.Width-4, h)
		m.timerModel.SetSize(msg.Width-4, h)
		return m, nil

	case schedulerTickMsg:
		return m, tea.Batch(m.runTick(), m.scheduleTick())

	case timerTickMsg:
		if _, ok := m.engine.Store().ActiveSession(); !ok {
			m.timerRunning = false
			return m, nil
		}
		m.refreshTimer(nil)
		return m, timerTick()
	}

	switch m.state {
	case StateAddTask, StateAddHabit, StateStartTimer:
		return m, m.updateForm(msg)
	case StateConfirmDelete:
		if msg, ok := msg.(tea.KeyMsg); ok {
			m.updateConfirmDelete(msg)
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tasklist.AddTaskMsg:
		return m, m.openTaskForm()
	case tasklist.ToggleTaskMsg:
		m.toggleTask(msg.ID)
		return m, nil
	case tasklist.DeleteTaskMsg:
		m.deleteTaskID = msg.ID
		m.state = StateConfirmDelete
		return m, nil
	case tasklist.TrackTaskMsg:
		return m, m.trackTask(msg.Task)
	case habits.AddHabitMsg:
		return m, m.openHabitForm()
	case habits.ToggleHabitMsg:
		m.toggleHabit(msg.ID)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.save()
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.tab = (m.tab + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.tab = (m.tab - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.tab {
	case TabTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	case TabHabits:
		m.habitsModel, cmd = m.habitsModel.Update(msg)
	case TabTimer:
		if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Timer) {
			return m, m.toggleTimer()
		}
		m.timerModel, cmd = m.timerModel.Update(msg)
	case TabNotifications:
		if msg, ok := msg.(tea.KeyMsg); ok {
			m.updateNotifications(msg)
		}
	}
	return m, cmd
}

// runTick reloads, generates recurring tasks and runs the scheduler.
func (m *Model) runTick() tea.Cmd {
	res, err := m.engine.Tick()
	switch {
	case err != nil:
		m.status = "Tick failed: " + err.Error()
	case len(res.Notifications) > 0:
		m.status = fmt.Sprintf("🔔 %d new notification(s)", len(res.Notifications))
	case len(res.Generated) > 0:
		m.status = fmt.Sprintf("Generated %d recurring task(s)", len(res.Generated))
	}
	m.refresh()
	return m.ensureTimer()
}

func (m *Model) afterChange() {
	m.save()
	m.refresh()
}

func (m *Model) toggleTask(id string) {
	task, err := m.engine.Store().ToggleTask(id)
	switch {
	case errors.IsBlocked(err):
		m.status = fmt.Sprintf("Blocked by %d unfinished task(s)", len(errors.BlockersOf(err)))
		return
	case err != nil:
		m.status = err.Error()
		return
	}
	if task.Completed {
		m.status = "Completed " + task.Title
	} else {
		m.status = "Reopened " + task.Title
	}
	m.afterChange()
}

func (m *Model) updateConfirmDelete(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		if err := m.engine.Store().DeleteTask(m.deleteTaskID); err != nil {
			m.status = err.Error()
		} else {
			m.status = "Task deleted"
			m.afterChange()
		}
		m.deleteTaskID = ""
		m.state = StateBrowse
	case key.Matches(msg, m.keys.Cancel):
		m.deleteTaskID = ""
		m.state = StateBrowse
	}
}

func (m *Model) toggleHabit(id string) {
	today := utils.DateKey(m.engine.Today())
	logged, err := m.engine.Store().ToggleHabitLog(id, today)
	if err != nil {
		m.status = err.Error()
		return
	}
	if logged {
		m.status = "Logged for today"
	} else {
		m.status = "Log removed"
	}
	m.afterChange()
}

func (m *Model) trackTask(task models.Task) tea.Cmd {
	if task.ProjectID == "" {
		m.status = "Assign the task to a project to track time"
		return nil
	}
	return m.startSession(models.TimeSession{ProjectID: task.ProjectID, TaskID: task.ID, Description: task.Title})
}

func (m *Model) startSession(sess models.TimeSession) tea.Cmd {
	_, stopped, err := m.engine.Store().StartSession(sess)
	if err != nil {
		m.status = err.Error()
		return nil
	}
	m.status = "Timer started"
	if stopped != nil {
		m.status = fmt.Sprintf("Timer switched (previous ran %s)", stopped.Elapsed(m.engine.Now()).String())
	}
	m.afterChange()
	return m.ensureTimer()
}

func (m *Model) toggleTimer() tea.Cmd {
	if _, ok := m.engine.Store().ActiveSession(); !ok {
		return m.openTimerForm()
	}
	stopped, err := m.engine.Store().StopSession()
	if err != nil {
		m.status = err.Error()
		return nil
	}
	m.status = "Timer stopped after " + stopped.Elapsed(m.engine.Now()).String()
	m.afterChange()
	return nil
}

func (m *Model) updateNotifications(msg tea.KeyMsg) {
	st := m.engine.Store()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.notesCursor > 0 {
			m.notesCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.notesCursor < len(m.notes)-1 {
			m.notesCursor++
		}
	case key.Matches(msg, m.keys.Read):
		if n, ok := m.selectedNotification(); ok {
			if err := st.MarkRead(n.ID); err != nil {
				m.status = err.Error()
				return
			}
			m.afterChange()
		}
	case key.Matches(msg, m.keys.ReadAll):
		if count := st.MarkAllRead(); count > 0 {
			m.status = fmt.Sprintf("Marked %d as read", count)
			m.afterChange()
		}
	case key.Matches(msg, m.keys.Delete):
		if n, ok := m.selectedNotification(); ok {
			if err := st.DeleteNotification(n.ID); err != nil {
				m.status = err.Error()
				return
			}
			m.afterChange()
		}
	}
}

func (m Model) selectedNotification() (models.Notification, bool) {
	if m.notesCursor < 0 || m.notesCursor >= len(m.notes) {
		return models.Notification{}, false
	}
	return m.notes[m.notesCursor], true
}
