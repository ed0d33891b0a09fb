package tasks

import (
	"fmt"
	"strings"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/dependency"
	"github.com/julianstephens/daybook/internal/timetrack"
)

type TaskShowCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskShowCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	task, err := cli.ResolveTask(st, c.ID)
	if err != nil {
		return err
	}

	tbl := cli.NewTable()
	tbl.AddRow("ID:", task.ID)
	tbl.AddRow("Title:", task.Title)
	if task.Description != "" {
		tbl.AddRow("Description:", task.Description)
	}
	tbl.AddRow("Status:", string(task.Status))
	tbl.AddRow("Priority:", cli.FormatPriority(task.Priority))
	tbl.AddRow("Project:", cli.ProjectName(st, task.ProjectID))
	due := cli.Dash(task.DueDate)
	if task.DueTime != "" {
		due += " " + task.DueTime
	}
	tbl.AddRow("Due:", due)
	tbl.AddRow("Start:", cli.Dash(task.StartDate))
	tbl.AddRow("Source:", string(task.Source))
	if task.TemplateID != "" {
		tbl.AddRow("Template:", cli.ShortID(task.TemplateID))
	}
	if task.CompletedAt != nil {
		tbl.AddRow("Completed:", task.CompletedAt.In(ctx.Engine.Location()).Format("2006-01-02 15:04"))
	}

	tracked := timetrack.ByTask(st.Sessions(), ctx.Engine.Now())[task.ID]
	tbl.AddRow("Time spent:", fmt.Sprintf("%dm recorded, %s tracked", task.TimeSpentMinutes, timetrack.FormatDuration(tracked)))

	if len(task.BlockedBy) > 0 {
		var preds []string
		for _, id := range task.BlockedBy {
			mark := "open"
			if t, ok := st.Task(id); ok && t.Completed {
				mark = "done"
			}
			preds = append(preds, fmt.Sprintf("%s (%s)", cli.ShortID(id), mark))
		}
		tbl.AddRow("Blocked by:", strings.Join(preds, ", "))
	}
	if chain := st.Resolver().Chain(task.ID); len(chain) > 0 {
		tbl.AddRow("Waiting on:", shortIDs(chain))
	}
	if deps := dependency.Dependents(task.ID, st.Tasks()); len(deps) > 0 {
		tbl.AddRow("Blocks:", shortIDs(deps))
	}

	ctx.Println(tbl)
	return nil
}

func shortIDs(ids []string) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = cli.ShortID(id)
	}
	return strings.Join(out, ", ")
}
