package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAddTask, StateAddHabit, StateStartTimer:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		switch m.tab {
		case TabTasks:
			content = docStyle.Render(m.taskList.View())
		case TabHabits:
			content = docStyle.Render(m.habitsModel.View())
		case TabTimer:
			content = docStyle.Render(m.timerModel.View())
		case TabNotifications:
			content = docStyle.Render(m.viewNotifications())
		}
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		statusStyle.Render(m.status),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	unread := m.engine.Store().UnreadCount()
	var tabs []string
	for i, title := range tabTitles {
		if Tab(i) == TabNotifications && unread > 0 {
			title = fmt.Sprintf("%s (%d)", title, unread)
		}
		if m.tab == Tab(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewNotifications() string {
	if len(m.notes) == 0 {
		return "\n  No notifications."
	}
	loc := m.engine.Location()
	var b strings.Builder
	for i, n := range m.notes {
		cursor := "  "
		if i == m.notesCursor {
			cursor = cursorStyle.Render("> ")
		}
		line := fmt.Sprintf("%s  %s: %s", n.CreatedAt.In(loc).Format("Jan 02 15:04"), n.Title, n.Message)
		if n.Read {
			line = readStyle.Render("  " + line)
		} else {
			line = unreadStyle.Render("• " + line)
		}
		b.WriteString(cursor + line + "\n")
	}
	return b.String()
}

func (m Model) viewConfirmDelete() string {
	title := m.deleteTaskID
	if t, ok := m.engine.Store().Task(m.deleteTaskID); ok {
		title = t.Title
	}
	return lipgloss.Place(m.width, max(0, m.height-chromeHeight),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q?", title)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
