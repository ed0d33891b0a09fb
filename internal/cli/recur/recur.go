package recur

import (
	"fmt"
	"time"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/recurrence"
	"github.com/julianstephens/daybook/internal/utils"
)

type RecurCmd struct {
	Add      RecurAddCmd      `cmd:"" help:"Create a recurring task template."`
	List     RecurListCmd     `cmd:"" help:"List templates and their next run." default:"1"`
	Edit     RecurEditCmd     `cmd:"" help:"Edit a template."`
	Enable   RecurEnableCmd   `cmd:"" help:"Enable or disable a template."`
	Delete   RecurDeleteCmd   `cmd:"" help:"Delete a template. Generated tasks are kept."`
	Generate RecurGenerateCmd `cmd:"" help:"Generate today's recurring tasks now."`
}

type RecurAddCmd struct {
	Title     string `arg:"" help:"Title of the generated tasks."`
	Frequency string `short:"f" help:"daily|weekdays|weekly|biweekly|monthly." default:"daily" enum:"daily,weekdays,weekly,biweekly,monthly"`
	Weekdays  string `short:"w" help:"Comma-separated weekdays for weekly and biweekly templates."`
	Project   string `short:"P" help:"Project id or name."`
	Priority  string `short:"p" help:"Priority of generated tasks." default:"medium" enum:"low,medium,high,urgent"`
	Disabled  bool   `help:"Create the template disabled."`
}

func (c *RecurAddCmd) Validate() error {
	if c.Weekdays != "" && !models.Frequency(c.Frequency).UsesWeekdays() {
		return fmt.Errorf("--weekdays only applies to weekly and biweekly templates")
	}
	return nil
}

func (c *RecurAddCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	days, err := cli.ParseWeekdays(c.Weekdays)
	if err != nil {
		return err
	}
	tpl := models.RecurringTemplate{
		Title:     c.Title,
		Frequency: models.Frequency(c.Frequency),
		Weekdays:  days,
		Priority:  models.Priority(c.Priority),
		Enabled:   !c.Disabled,
	}
	if c.Project != "" {
		p, err := cli.ResolveProject(st, c.Project)
		if err != nil {
			return err
		}
		tpl.ProjectID = p.ID
	}

	added, err := st.AddTemplate(tpl)
	if err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("Added template: %s, %s (ID: %s)", added.Title, Describe(added), cli.ShortID(added.ID))))
	return nil
}

// Describe renders a template's schedule, e.g. "weekly on Mon,Wed".
func Describe(tpl models.RecurringTemplate) string {
	s := string(tpl.Frequency)
	if tpl.Frequency.UsesWeekdays() {
		days := tpl.Weekdays
		if len(days) == 0 {
			days = []time.Weekday{tpl.CreatedAt.Weekday()}
		}
		s += " on " + cli.FormatWeekdays(days)
	}
	if tpl.Frequency == models.FrequencyMonthly {
		s += fmt.Sprintf(" on day %d", tpl.CreatedAt.Day())
	}
	return s
}

type RecurListCmd struct{}

func (c *RecurListCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	templates := st.Templates()
	if len(templates) == 0 {
		ctx.Println("No recurring templates found")
		return nil
	}

	today := ctx.Engine.Today()
	todayKey := utils.DateKey(today)
	tbl := cli.NewTable("ID", "TITLE", "SCHEDULE", "PROJECT", "LAST", "NEXT", "")
	for _, tpl := range templates {
		from := today
		if tpl.LastGenerated == todayKey {
			from = today.AddDate(0, 0, 1)
		}
		next := "-"
		if tpl.Enabled {
			if day, ok := recurrence.NextOccurrence(tpl, from); ok {
				next = utils.DateKey(day)
			}
		}
		state := ""
		if !tpl.Enabled {
			state = cli.Muted("disabled")
		}
		tbl.AddRow(cli.ShortID(tpl.ID), tpl.Title, Describe(tpl), cli.ProjectName(st, tpl.ProjectID),
			cli.Dash(tpl.LastGenerated), next, state)
	}
	ctx.Println(tbl)
	return nil
}

type RecurEditCmd struct {
	ID        string  `arg:"" help:"Template id or title."`
	Title     *string `help:"New title."`
	Frequency *string `short:"f" help:"New frequency."`
	Weekdays  *string `short:"w" help:"New weekday set (empty for the creation weekday)."`
	Project   *string `short:"P" help:"New project id or name (empty to clear)."`
	Priority  *string `short:"p" help:"New priority."`
}

func (c *RecurEditCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	tpl, err := cli.ResolveTemplate(st, c.ID)
	if err != nil {
		return err
	}
	if c.Title != nil {
		tpl.Title = *c.Title
	}
	if c.Frequency != nil {
		tpl.Frequency = models.Frequency(*c.Frequency)
	}
	if c.Weekdays != nil {
		if tpl.Weekdays, err = cli.ParseWeekdays(*c.Weekdays); err != nil {
			return err
		}
	}
	if c.Priority != nil {
		tpl.Priority = models.Priority(*c.Priority)
	}
	if c.Project != nil {
		tpl.ProjectID = ""
		if *c.Project != "" {
			p, err := cli.ResolveProject(st, *c.Project)
			if err != nil {
				return err
			}
			tpl.ProjectID = p.ID
		}
	}
	if err := st.UpdateTemplate(tpl); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("Updated template: %s", tpl.Title)))
	return nil
}

type RecurEnableCmd struct {
	ID  string `arg:"" help:"Template id or title."`
	Off bool   `help:"Disable instead."`
}

func (c *RecurEnableCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	tpl, err := cli.ResolveTemplate(st, c.ID)
	if err != nil {
		return err
	}
	if err := st.SetTemplateEnabled(tpl.ID, !c.Off); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	verb := "Enabled"
	if c.Off {
		verb = "Disabled"
	}
	ctx.Println(cli.Success(fmt.Sprintf("%s template: %s", verb, tpl.Title)))
	return nil
}

type RecurDeleteCmd struct {
	ID string `arg:"" help:"Template id or title."`
}

func (c *RecurDeleteCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	tpl, err := cli.ResolveTemplate(st, c.ID)
	if err != nil {
		return err
	}
	if err := st.DeleteTemplate(tpl.ID); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("Deleted template: %s", tpl.Title)))
	return nil
}

type RecurGenerateCmd struct{}

func (c *RecurGenerateCmd) Run(ctx *cli.Context) error {
	created, genErr := ctx.Engine.GenerateRecurring()
	if err := ctx.Commit(); err != nil {
		return err
	}
	if len(created) == 0 {
		ctx.Println("Nothing to generate today")
	}
	for _, t := range created {
		ctx.Println(cli.Success(fmt.Sprintf("Generated: %s (ID: %s)", t.Title, cli.ShortID(t.ID))))
	}
	return genErr
}
