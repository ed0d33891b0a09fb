package tasks

import (
	"fmt"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/models"
)

type TaskAddCmd struct {
	Title       string   `arg:"" help:"Task title."`
	Description string   `short:"D" help:"Longer description."`
	Project     string   `short:"P" help:"Project id or name."`
	Priority    string   `short:"p" help:"Priority (low|medium|high|urgent)." default:"medium" enum:"low,medium,high,urgent"`
	Due         string   `short:"d" help:"Due date (YYYY-MM-DD, today, tomorrow, +N)."`
	At          string   `help:"Due time (HH:MM). Requires --due."`
	Start       string   `short:"s" help:"Start date (YYYY-MM-DD, today, tomorrow, +N)."`
	BlockedBy   []string `short:"b" help:"Ids of tasks that must be completed first." sep:","`
}

func (c *TaskAddCmd) Validate() error {
	if c.At != "" && c.Due == "" {
		return fmt.Errorf("--at requires --due")
	}
	return nil
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	today := ctx.Engine.Today()

	task := models.Task{
		Title:       c.Title,
		Description: c.Description,
		Priority:    models.Priority(c.Priority),
		DueTime:     c.At,
	}

	if c.Project != "" {
		p, err := cli.ResolveProject(st, c.Project)
		if err != nil {
			return err
		}
		task.ProjectID = p.ID
	}
	if c.Due != "" {
		due, err := cli.ParseDay(c.Due, today)
		if err != nil {
			return err
		}
		task.DueDate = due
	}
	if c.Start != "" {
		start, err := cli.ParseDay(c.Start, today)
		if err != nil {
			return err
		}
		task.StartDate = start
	}
	for _, ref := range c.BlockedBy {
		pred, err := cli.ResolveTask(st, ref)
		if err != nil {
			return err
		}
		task.BlockedBy = append(task.BlockedBy, pred.ID)
	}

	added, err := st.AddTask(task)
	if err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}

	ctx.Println(cli.Success(fmt.Sprintf("Added task: %s (ID: %s)", added.Title, cli.ShortID(added.ID))))
	return nil
}
