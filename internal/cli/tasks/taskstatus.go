package tasks

import (
	"fmt"
	"strings"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/store"
)

// TaskDoneCmd toggles completion, the same as checking the box in the TUI.
type TaskDoneCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	task, err := cli.ResolveTask(st, c.ID)
	if err != nil {
		return err
	}

	toggled, err := st.ToggleTask(task.ID)
	if err != nil {
		return explainBlocked(st, err)
	}
	if err := ctx.Commit(); err != nil {
		return err
	}

	if toggled.Completed {
		ctx.Println(cli.Success(fmt.Sprintf("Completed: %s", toggled.Title)))
	} else {
		ctx.Println(cli.Success(fmt.Sprintf("Reopened: %s", toggled.Title)))
	}
	return nil
}

type TaskStatusCmd struct {
	ID     string `arg:"" help:"Task ID."`
	Status string `arg:"" help:"New status (todo|in-progress|done)." enum:"todo,in-progress,done"`
}

func (c *TaskStatusCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	task, err := cli.ResolveTask(st, c.ID)
	if err != nil {
		return err
	}

	updated, err := st.SetTaskStatus(task.ID, models.TaskStatus(c.Status))
	if err != nil {
		return explainBlocked(st, err)
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("%s is now %s", updated.Title, updated.Status)))
	return nil
}

// explainBlocked names the unfinished predecessors of a blocked task.
func explainBlocked(st *store.Store, err error) error {
	if !errors.IsBlocked(err) {
		return err
	}
	var names []string
	for _, id := range errors.BlockersOf(err) {
		if t, ok := st.Task(id); ok {
			names = append(names, fmt.Sprintf("%q (%s)", t.Title, cli.ShortID(id)))
		}
	}
	return fmt.Errorf("%w; finish %s first", err, strings.Join(names, ", "))
}

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	task, err := cli.ResolveTask(st, c.ID)
	if err != nil {
		return err
	}
	if err := st.DeleteTask(task.ID); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("Deleted task: %s", task.Title)))
	return nil
}
