package habits

import (
	"fmt"
	"strings"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/utils"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits with their streaks." default:"1"`
	Log     HabitLogCmd     `cmd:"" help:"Toggle a habit for a day."`
	Show    HabitShowCmd    `cmd:"" help:"Show a habit's recent history."`
	Edit    HabitEditCmd    `cmd:"" help:"Edit a habit."`
	Archive HabitArchiveCmd `cmd:"" help:"Archive or unarchive a habit."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit and its log."`
}

type HabitAddCmd struct {
	Name   string `arg:"" help:"Habit name."`
	Target string `short:"t" help:"Target, e.g. '20 minutes'."`
	Icon   string `short:"i" help:"Icon shown in lists."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	if _, exists := st.HabitByName(c.Name); exists {
		return fmt.Errorf("habit %q already exists", c.Name)
	}
	h, err := st.AddHabit(models.Habit{Name: c.Name, Target: c.Target, Icon: c.Icon})
	if err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("Added habit: %s (ID: %s)", h.Name, cli.ShortID(h.ID))))
	return nil
}

type HabitListCmd struct {
	All bool `short:"a" help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	habits := st.Habits(c.All)
	if len(habits) == 0 {
		ctx.Println("No habits found")
		return nil
	}

	today := utils.DateKey(ctx.Engine.Today())
	tbl := cli.NewTable("", "ID", "HABIT", "CURRENT", "LONGEST", "")
	for _, h := range habits {
		mark := "[ ]"
		if st.IsHabitLogged(h.ID, today) {
			mark = "[x]"
		}
		s := ctx.Engine.Streak(h.ID)
		name := h.Name
		if h.Icon != "" {
			name = h.Icon + " " + name
		}
		note := ""
		if h.IsArchived() {
			note = cli.Muted("archived")
		}
		tbl.AddRow(mark, cli.ShortID(h.ID), name, s.Current, s.Longest, note)
	}
	ctx.Println(tbl)
	return nil
}

type HabitLogCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Date  string `short:"d" help:"Day to log (YYYY-MM-DD, yesterday, -N)." default:"today"`
	Undo  bool   `help:"Clear the day instead of toggling."`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	h, err := cli.ResolveHabit(st, c.Habit)
	if err != nil {
		return err
	}
	day, err := cli.ParseDay(c.Date, ctx.Engine.Today())
	if err != nil {
		return err
	}

	done := false
	if c.Undo {
		err = st.SetHabitLog(h.ID, day, false)
	} else {
		done, err = st.ToggleHabitLog(h.ID, day)
	}
	if err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}

	s := ctx.Engine.Streak(h.ID)
	if done {
		ctx.Println(cli.Success(fmt.Sprintf("Logged %s for %s (streak %d, best %d)", h.Name, day, s.Current, s.Longest)))
	} else {
		ctx.Println(cli.Success(fmt.Sprintf("Cleared %s for %s (streak %d, best %d)", h.Name, day, s.Current, s.Longest)))
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Days  int    `short:"n" help:"How many days of history to show." default:"28"`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	h, err := cli.ResolveHabit(st, c.Habit)
	if err != nil {
		return err
	}
	if c.Days <= 0 {
		c.Days = 28
	}

	s := ctx.Engine.Streak(h.ID)
	ctx.Println(cli.Header(h.Name))
	if h.Target != "" {
		ctx.Printf("Target:  %s\n", h.Target)
	}
	ctx.Printf("Streak:  %d current, %d longest\n", s.Current, s.Longest)

	today := ctx.Engine.Today()
	var b strings.Builder
	for i := c.Days - 1; i >= 0; i-- {
		day := utils.DateKey(today.AddDate(0, 0, -i))
		if st.IsHabitLogged(h.ID, day) {
			b.WriteString("■")
		} else {
			b.WriteString("·")
		}
	}
	ctx.Printf("Last %d: %s\n", c.Days, b.String())
	return nil
}

type HabitEditCmd struct {
	Habit  string  `arg:"" help:"Habit id or name."`
	Name   *string `help:"New name."`
	Target *string `short:"t" help:"New target."`
	Icon   *string `short:"i" help:"New icon."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	h, err := cli.ResolveHabit(st, c.Habit)
	if err != nil {
		return err
	}
	if c.Name != nil {
		h.Name = *c.Name
	}
	if c.Target != nil {
		h.Target = *c.Target
	}
	if c.Icon != nil {
		h.Icon = *c.Icon
	}
	if err := st.UpdateHabit(h); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("Updated habit: %s", h.Name)))
	return nil
}

type HabitArchiveCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Undo  bool   `help:"Unarchive instead."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	h, err := cli.ResolveHabit(st, c.Habit)
	if err != nil {
		return err
	}
	verb := "Archived"
	if c.Undo {
		verb = "Unarchived"
		err = st.UnarchiveHabit(h.ID)
	} else {
		err = st.ArchiveHabit(h.ID)
	}
	if err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("%s habit: %s", verb, h.Name)))
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Yes   bool   `short:"y" help:"Confirm deleting the habit's whole log."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	h, err := cli.ResolveHabit(st, c.Habit)
	if err != nil {
		return err
	}
	if !c.Yes {
		return fmt.Errorf("deleting %q removes %d logged day(s); re-run with --yes to confirm", h.Name, len(st.HabitLog().Days(h.ID)))
	}
	ctx.PerformAutomaticBackup()
	if err := st.DeleteHabit(h.ID); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("Deleted habit: %s", h.Name)))
	return nil
}
