package tasks

import (
	"fmt"
	"slices"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/utils"
)

type TaskListCmd struct {
	All     bool   `short:"a" help:"Include completed tasks."`
	Project string `short:"P" help:"Only tasks in this project (id or name)."`
	Status  string `help:"Only tasks with this status (todo|in-progress|done)."`
	Today   bool   `short:"t" help:"Only tasks due today or overdue."`
	Blocked bool   `help:"Only blocked tasks."`
}

func (c *TaskListCmd) Validate() error {
	if c.Status != "" && !models.TaskStatus(c.Status).Valid() {
		return fmt.Errorf("invalid status %q (expected todo, in-progress, or done)", c.Status)
	}
	return nil
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()

	tasks := st.Tasks()
	if c.Project != "" {
		p, err := cli.ResolveProject(st, c.Project)
		if err != nil {
			return err
		}
		tasks = st.TasksForProject(p.ID)
	}

	today := utils.DateKey(ctx.Engine.Today())
	tasks = slices.DeleteFunc(tasks, func(t models.Task) bool {
		switch {
		case !c.All && c.Status == "" && t.Completed:
			return true
		case c.Status != "" && t.Status != models.TaskStatus(c.Status):
			return true
		case c.Today && (t.DueDate == "" || t.DueDate > today || t.Completed):
			return true
		case c.Blocked && !st.IsBlocked(t.ID):
			return true
		}
		return false
	})

	if len(tasks) == 0 {
		ctx.Println("No tasks found")
		return nil
	}

	SortForDisplay(tasks)

	tbl := cli.NewTable("", "ID", "PRIORITY", "TITLE", "DUE", "PROJECT")
	for _, t := range tasks {
		due := cli.Dash(t.DueDate)
		if t.DueTime != "" {
			due += " " + t.DueTime
		}
		if !t.Completed && t.DueDate != "" && t.DueDate < today {
			due = cli.Warning(due)
		}
		tbl.AddRow(
			cli.StatusMark(t, st.IsBlocked(t.ID)),
			cli.ShortID(t.ID),
			cli.FormatPriority(t.Priority),
			t.Title,
			due,
			cli.ProjectName(st, t.ProjectID),
		)
	}
	ctx.Println(tbl)
	return nil
}

// SortForDisplay orders open tasks before completed ones, then by due date
// (undated last), priority, and title.
func SortForDisplay(tasks []models.Task) {
	slices.SortStableFunc(tasks, func(a, b models.Task) int {
		if a.Completed != b.Completed {
			if a.Completed {
				return 1
			}
			return -1
		}
		if a.DueDate != b.DueDate {
			switch {
			case a.DueDate == "":
				return 1
			case b.DueDate == "":
				return -1
			case a.DueDate < b.DueDate:
				return -1
			default:
				return 1
			}
		}
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra - rb
		}
		switch {
		case a.Title < b.Title:
			return -1
		case a.Title > b.Title:
			return 1
		}
		return 0
	})
}
