package timer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/timetrack"
)

var (
	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	idleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Snapshot is everything the timer view renders.
type Snapshot struct {
	Active   *models.TimeSession
	Project  string
	Now      time.Time
	Report   timetrack.Report
	Projects map[string]string // id -> name
}

type Model struct {
	viewport viewport.Model
	snap     Snapshot
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetSnapshot(s Snapshot) {
	m.snap = s
	m.Render()
}

// Elapsed formats a running duration as HH:MM:SS.
func Elapsed(d time.Duration) string {
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}

func (m *Model) Render() {
	var b strings.Builder
	s := m.snap

	if s.Active != nil {
		fmt.Fprintf(&b, "%s  %s\n", clockStyle.Render(Elapsed(s.Active.Elapsed(s.Now))), s.Project)
		if s.Active.Description != "" {
			fmt.Fprintf(&b, "%s\n", s.Active.Description)
		}
		b.WriteString(idleStyle.Render("press s to stop") + "\n\n")
	} else {
		b.WriteString(idleStyle.Render("No timer running. Press s to start one.") + "\n\n")
	}

	var peak int64
	for _, d := range s.Report.Days {
		peak = max(peak, d.Seconds)
	}
	fmt.Fprintf(&b, "Last %d days (%s to %s)\n", len(s.Report.Days), s.Report.From, s.Report.To)
	for _, d := range s.Report.Days {
		bar := ""
		if peak > 0 {
			bar = strings.Repeat("█", int(d.Seconds*30/peak))
		}
		fmt.Fprintf(&b, "%s %s %s\n", labelStyle.Render(d.Date), barStyle.Render(bar), timetrack.FormatDuration(d.Seconds))
	}

	b.WriteString("\n")
	for _, p := range timetrack.RankProjects(s.Report.ByProject) {
		name := s.Projects[p.ProjectID]
		if name == "" {
			name = p.ProjectID
		}
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(name), timetrack.FormatDuration(p.Seconds))
	}
	fmt.Fprintf(&b, "\n%s %s (billable %s)\n", labelStyle.Render("Total"),
		timetrack.FormatDuration(s.Report.Total), timetrack.FormatDuration(s.Report.Billable))

	m.viewport.SetContent(b.String())
}
