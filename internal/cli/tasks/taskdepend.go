package tasks

import (
	"fmt"

	"github.com/julianstephens/daybook/internal/cli"
)

type TaskBlockCmd struct {
	ID string `arg:"" help:"Task that has to wait."`
	On string `arg:"" help:"Task that must be completed first."`
}

func (c *TaskBlockCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	task, err := cli.ResolveTask(st, c.ID)
	if err != nil {
		return err
	}
	pred, err := cli.ResolveTask(st, c.On)
	if err != nil {
		return err
	}
	if err := st.AddDependency(task.ID, pred.ID); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("%q now waits on %q", task.Title, pred.Title)))
	return nil
}

type TaskUnblockCmd struct {
	ID string `arg:"" help:"Task that was waiting."`
	On string `arg:"" help:"Predecessor to remove."`
}

func (c *TaskUnblockCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	task, err := cli.ResolveTask(st, c.ID)
	if err != nil {
		return err
	}
	pred, err := cli.ResolveTask(st, c.On)
	if err != nil {
		return err
	}
	if err := st.RemoveDependency(task.ID, pred.ID); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("%q no longer waits on %q", task.Title, pred.Title)))
	return nil
}
