package system

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/models"
)

type DebugCmd struct {
	Location  DebugLocationCmd  `cmd:"" help:"Show where data is stored."`
	DumpTask  DebugDumpTaskCmd  `cmd:"" help:"Dump a task and its dependency state as JSON."`
	DumpHabit DebugDumpHabitCmd `cmd:"" help:"Dump a habit, its log and streak as JSON."`
}

func printJSON(ctx *cli.Context, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(data))
	return nil
}

type DebugLocationCmd struct{}

func (cmd *DebugLocationCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{
		"location": ctx.Engine.Provider().Location(),
		"timezone": ctx.Engine.Location().String(),
	})
}

type DebugDumpTaskCmd struct {
	ID string `arg:"" help:"Task ID or prefix."`
}

func (cmd *DebugDumpTaskCmd) Run(ctx *cli.Context) error {
	task, err := cli.ResolveTask(ctx.Store(), cmd.ID)
	if err != nil {
		return err
	}
	resolver := ctx.Store().Resolver()
	return printJSON(ctx, struct {
		models.Task
		Blocked  bool     `json:"blocked"`
		Blockers []string `json:"blockers"`
		Chain    []string `json:"chain"`
	}{
		Task:     task,
		Blocked:  resolver.IsBlocked(task.ID),
		Blockers: resolver.Blockers(task.ID),
		Chain:    resolver.Chain(task.ID),
	})
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"Habit ID, prefix or name."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	habit, err := cli.ResolveHabit(ctx.Store(), cmd.Habit)
	if err != nil {
		return err
	}
	var days []string
	for day, done := range ctx.Store().HabitDays(habit.ID) {
		if done {
			days = append(days, day)
		}
	}
	sort.Strings(days)

	return printJSON(ctx, struct {
		models.Habit
		Days   []string      `json:"days"`
		Streak models.Streak `json:"streak"`
	}{
		Habit:  habit,
		Days:   days,
		Streak: ctx.Engine.Streak(habit.ID),
	})
}
