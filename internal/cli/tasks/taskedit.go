package tasks

import (
	"fmt"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/models"
)

type TaskEditCmd struct {
	ID          string  `arg:"" help:"Task ID."`
	Title       *string `help:"New title."`
	Description *string `short:"D" help:"New description."`
	Project     *string `short:"P" help:"New project id or name (empty to clear)."`
	Priority    *string `short:"p" help:"New priority (low|medium|high|urgent)."`
	Due         *string `short:"d" help:"New due date (empty to clear)."`
	At          *string `help:"New due time HH:MM (empty to clear)."`
	Start       *string `short:"s" help:"New start date (empty to clear)."`
}

func (c *TaskEditCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	today := ctx.Engine.Today()

	task, err := cli.ResolveTask(st, c.ID)
	if err != nil {
		return err
	}

	if c.Title != nil {
		task.Title = *c.Title
	}
	if c.Description != nil {
		task.Description = *c.Description
	}
	if c.Priority != nil {
		task.Priority = models.Priority(*c.Priority)
	}
	if c.Project != nil {
		task.ProjectID = ""
		if *c.Project != "" {
			p, err := cli.ResolveProject(st, *c.Project)
			if err != nil {
				return err
			}
			task.ProjectID = p.ID
		}
	}
	if c.Due != nil {
		task.DueDate = ""
		if *c.Due != "" {
			if task.DueDate, err = cli.ParseDay(*c.Due, today); err != nil {
				return err
			}
		} else {
			task.DueTime = ""
		}
	}
	if c.At != nil {
		task.DueTime = *c.At
	}
	if c.Start != nil {
		task.StartDate = ""
		if *c.Start != "" {
			if task.StartDate, err = cli.ParseDay(*c.Start, today); err != nil {
				return err
			}
		}
	}

	updated, err := st.UpdateTask(task)
	if err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("Updated task: %s", updated.Title)))
	return nil
}
