package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/gosuri/uitable"

	"github.com/julianstephens/daybook/internal/models"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)

	priorityStyles = map[models.Priority]lipgloss.Style{
		models.PriorityUrgent: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		models.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		models.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		models.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
)

func Success(msg string) string { return successStyle.Render("✓ " + msg) }
func Warning(msg string) string { return warnStyle.Render("⚠ " + msg) }
func Failure(msg string) string { return failStyle.Render("❌ " + msg) }
func Muted(msg string) string   { return mutedStyle.Render(msg) }
func Header(msg string) string  { return headerStyle.Render(msg) }

func FormatPriority(p models.Priority) string {
	if style, ok := priorityStyles[p]; ok {
		return style.Render(string(p))
	}
	return string(p)
}

// StatusMark is the checkbox shown in task lists.
func StatusMark(t models.Task, blocked bool) string {
	switch {
	case t.Completed:
		return "[x]"
	case blocked:
		return "[!]"
	case t.Status == models.StatusInProgress:
		return "[~]"
	default:
		return "[ ]"
	}
}

// NewTable returns a table with the column layout used by every list command.
func NewTable(headers ...any) *uitable.Table {
	tbl := uitable.New()
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	tbl.Separator = "  "
	if len(headers) > 0 {
		tbl.AddRow(headers...)
	}
	return tbl
}

// Dash renders an empty string as "-".
func Dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
