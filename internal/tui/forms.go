package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/utils"
)

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " cannot be empty")
		}
		return nil
	}
}

func (m Model) projectOptions(allowNone bool) []huh.Option[string] {
	var opts []huh.Option[string]
	if allowNone {
		opts = append(opts, huh.NewOption("(none)", ""))
	}
	for _, p := range m.engine.Store().Projects(false) {
		opts = append(opts, huh.NewOption(p.Name, p.ID))
	}
	return opts
}

// NewTaskForm builds the add-task form bound to fm.
func NewTaskForm(fm *TaskFormModel, projects []huh.Option[string]) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Value(&fm.Title).
			Validate(required("title")),
		huh.NewSelect[models.Priority]().
			Title("Priority").
			Options(
				huh.NewOption("Low", models.PriorityLow),
				huh.NewOption("Medium", models.PriorityMedium),
				huh.NewOption("High", models.PriorityHigh),
				huh.NewOption("Urgent", models.PriorityUrgent),
			).
			Value(&fm.Priority),
		huh.NewInput().
			Title("Due date").
			Description("YYYY-MM-DD, blank for none").
			Value(&fm.Due).
			Validate(func(s string) error {
				if s = strings.TrimSpace(s); s != "" && !utils.ValidateDate(s) {
					return errors.New("expected YYYY-MM-DD")
				}
				return nil
			}),
	}
	if len(projects) > 1 {
		fields = append(fields, huh.NewSelect[string]().
			Title("Project").
			Options(projects...).
			Value(&fm.ProjectID))
	}
	return huh.NewForm(huh.NewGroup(fields...))
}

func NewHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit name").
				Value(&fm.Name).
				Validate(required("name")),
		),
	)
}

func NewTimerForm(fm *TimerFormModel, projects []huh.Option[string]) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Project").
				Options(projects...).
				Value(&fm.ProjectID),
			huh.NewInput().
				Title("Description").
				Value(&fm.Description),
			huh.NewConfirm().
				Title("Billable?").
				Value(&fm.Billable),
		),
	)
}

func (m *Model) openTaskForm() tea.Cmd {
	m.taskForm = &TaskFormModel{Priority: models.PriorityMedium}
	m.form = NewTaskForm(m.taskForm, m.projectOptions(true))
	m.state = StateAddTask
	return m.form.Init()
}

func (m *Model) openHabitForm() tea.Cmd {
	m.habitForm = &HabitFormModel{}
	m.form = NewHabitForm(m.habitForm)
	m.state = StateAddHabit
	return m.form.Init()
}

func (m *Model) openTimerForm() tea.Cmd {
	projects := m.projectOptions(false)
	if len(projects) == 0 {
		m.status = "Create a project first: daybook project add <name>"
		return nil
	}
	m.timerForm = &TimerFormModel{ProjectID: projects[0].Value}
	m.form = NewTimerForm(m.timerForm, projects)
	m.state = StateStartTimer
	return m.form.Init()
}

// updateForm forwards msg to the open form and applies it once completed.
func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.closeForm()
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		var submitCmd tea.Cmd
		switch m.state {
		case StateAddTask:
			m.submitTaskForm()
		case StateAddHabit:
			m.submitHabitForm()
		case StateStartTimer:
			submitCmd = m.submitTimerForm()
		}
		m.closeForm()
		return submitCmd
	case huh.StateAborted:
		m.closeForm()
		return nil
	}
	return cmd
}

func (m *Model) closeForm() {
	m.state = StateBrowse
	m.form = nil
}

func (m *Model) submitTaskForm() {
	fm := m.taskForm
	task := models.Task{
		Title:     strings.TrimSpace(fm.Title),
		Priority:  fm.Priority,
		DueDate:   strings.TrimSpace(fm.Due),
		ProjectID: fm.ProjectID,
	}
	added, err := m.engine.Store().AddTask(task)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = "Added " + added.Title
	m.afterChange()
}

func (m *Model) submitHabitForm() {
	h, err := m.engine.Store().AddHabit(models.Habit{Name: strings.TrimSpace(m.habitForm.Name)})
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = "Added habit " + h.Name
	m.afterChange()
}

func (m *Model) submitTimerForm() tea.Cmd {
	fm := m.timerForm
	return m.startSession(models.TimeSession{
		ProjectID:   fm.ProjectID,
		Description: strings.TrimSpace(fm.Description),
		Billable:    fm.Billable,
	})
}
