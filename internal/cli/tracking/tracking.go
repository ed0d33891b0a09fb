// Package tracking holds the "daybook time" commands.
package tracking

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/timetrack"
	"github.com/julianstephens/daybook/internal/utils"
)

type TimeCmd struct {
	Start  TimeStartCmd  `cmd:"" help:"Start tracking time. Stops any running session."`
	Stop   TimeStopCmd   `cmd:"" help:"Stop the running session."`
	Status TimeStatusCmd `cmd:"" help:"Show the running session." default:"1"`
	Log    TimeLogCmd    `cmd:"" help:"Record a finished session after the fact."`
	List   TimeListCmd   `cmd:"" help:"List recent sessions."`
	Edit   TimeEditCmd   `cmd:"" help:"Change a session's description or billable flag."`
	Delete TimeDeleteCmd `cmd:"" help:"Delete a session."`
	Report TimeReportCmd `cmd:"" help:"Summarize tracked time."`
}

// SessionFlags are shared by start and log.
type SessionFlags struct {
	Project     string `arg:"" help:"Project id or name."`
	Task        string `short:"T" help:"Task the time is spent on."`
	Description string `short:"D" help:"What you are working on."`
	Billable    bool   `short:"b" help:"Mark the session billable."`
}

func (t SessionFlags) build(ctx *cli.Context) (models.TimeSession, error) {
	st := ctx.Store()
	p, err := cli.ResolveProject(st, t.Project)
	if err != nil {
		return models.TimeSession{}, err
	}
	sess := models.TimeSession{ProjectID: p.ID, Description: t.Description, Billable: t.Billable}
	if t.Task != "" {
		task, err := cli.ResolveTask(st, t.Task)
		if err != nil {
			return models.TimeSession{}, err
		}
		sess.TaskID = task.ID
	}
	return sess, nil
}

type TimeStartCmd struct {
	SessionFlags `embed:""`
}

func (c *TimeStartCmd) Run(ctx *cli.Context) error {
	sess, err := c.build(ctx)
	if err != nil {
		return err
	}
	started, stopped, err := ctx.Store().StartSession(sess)
	if err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	if stopped != nil {
		ctx.Println(cli.Muted(fmt.Sprintf("Stopped previous session on %s after %s",
			cli.ProjectName(ctx.Store(), stopped.ProjectID), timetrack.FormatDuration(stopped.DurationSeconds))))
	}
	ctx.Println(cli.Success(fmt.Sprintf("Tracking %s since %s", cli.ProjectName(ctx.Store(), started.ProjectID),
		started.Start.In(ctx.Engine.Location()).Format("15:04"))))
	return nil
}

type TimeStopCmd struct{}

func (c *TimeStopCmd) Run(ctx *cli.Context) error {
	done, err := ctx.Store().StopSession()
	if err != nil {
		return fmt.Errorf("no session is running")
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("Stopped %s after %s", cli.ProjectName(ctx.Store(), done.ProjectID),
		timetrack.FormatDuration(done.DurationSeconds))))
	return nil
}

type TimeStatusCmd struct{}

func (c *TimeStatusCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	sess, ok := st.ActiveSession()
	if !ok {
		ctx.Println("No session running")
		return nil
	}
	now := ctx.Engine.Now()
	line := fmt.Sprintf("● %s  %s", cli.ProjectName(st, sess.ProjectID), timetrack.FormatDuration(int64(sess.Elapsed(now).Seconds())))
	if sess.TaskID != "" {
		if t, ok := st.Task(sess.TaskID); ok {
			line += "  " + t.Title
		}
	}
	if sess.Description != "" {
		line += "  " + cli.Muted(sess.Description)
	}
	ctx.Println(line)

	today := timetrack.TotalsByDay(st.Sessions(), ctx.Engine.Location(), now)[utils.DateKey(ctx.Engine.Today())]
	ctx.Printf("Today: %s\n", timetrack.FormatDuration(today))
	return nil
}

type TimeLogCmd struct {
	SessionFlags `embed:""`
	Date         string `short:"d" help:"Day of the session." default:"today"`
	From         string `help:"Start time (HH:MM)." required:""`
	To           string `help:"End time (HH:MM). Defaults to --from plus --minutes."`
	Minutes      int    `short:"m" help:"Duration in minutes when --to is not given."`
}

func (c *TimeLogCmd) Validate() error {
	if c.To == "" && c.Minutes <= 0 {
		return fmt.Errorf("either --to or a positive --minutes is required")
	}
	return nil
}

func (c *TimeLogCmd) Run(ctx *cli.Context) error {
	sess, err := c.build(ctx)
	if err != nil {
		return err
	}
	loc := ctx.Engine.Location()
	day, err := cli.ParseDay(c.Date, ctx.Engine.Today())
	if err != nil {
		return err
	}
	start, err := cli.ParseClock(day, c.From, loc)
	if err != nil {
		return err
	}
	end := start.Add(time.Duration(c.Minutes) * time.Minute)
	if c.To != "" {
		if end, err = cli.ParseClock(day, c.To, loc); err != nil {
			return err
		}
	}
	sess.Start = start
	sess.End = &end

	recorded, err := ctx.Store().RecordSession(sess)
	if err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("Logged %s on %s (%s)", timetrack.FormatDuration(recorded.DurationSeconds),
		cli.ProjectName(ctx.Store(), recorded.ProjectID), day)))
	return nil
}

type TimeListCmd struct {
	Days    int    `short:"n" help:"How many days back to list." default:"7"`
	Project string `short:"P" help:"Only sessions on this project."`
}

func (c *TimeListCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	loc := ctx.Engine.Location()
	now := ctx.Engine.Now()
	if c.Days <= 0 {
		c.Days = 7
	}
	from := ctx.Engine.Today().AddDate(0, 0, -(c.Days - 1))
	sessions := timetrack.Between(st.Sessions(), from, now.Add(time.Second))

	projectID := ""
	if c.Project != "" {
		p, err := cli.ResolveProject(st, c.Project)
		if err != nil {
			return err
		}
		projectID = p.ID
	}

	tbl := cli.NewTable("ID", "DATE", "START", "END", "DURATION", "PROJECT", "BILLABLE", "DESCRIPTION")
	rows := 0
	for _, s := range sessions {
		if projectID != "" && s.ProjectID != projectID {
			continue
		}
		end := "running"
		if s.End != nil {
			end = s.End.In(loc).Format("15:04")
		}
		billable := ""
		if s.Billable {
			billable = "$"
		}
		start := s.Start.In(loc)
		tbl.AddRow(cli.ShortID(s.ID), utils.DateKey(start), start.Format("15:04"), end,
			timetrack.FormatDuration(int64(s.Elapsed(now).Seconds())), cli.ProjectName(st, s.ProjectID),
			billable, cli.Dash(s.Description))
		rows++
	}
	if rows == 0 {
		ctx.Println("No sessions found")
		return nil
	}
	ctx.Println(tbl)
	return nil
}

type TimeEditCmd struct {
	ID          string  `arg:"" help:"Session ID."`
	Description *string `short:"D" help:"New description."`
	Billable    *bool   `short:"b" help:"Billable flag."`
}

func (c *TimeEditCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	sess, err := cli.ResolveSession(st, c.ID)
	if err != nil {
		return err
	}
	desc, billable := sess.Description, sess.Billable
	if c.Description != nil {
		desc = *c.Description
	}
	if c.Billable != nil {
		billable = *c.Billable
	}
	if err := st.UpdateSession(sess.ID, desc, billable); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success("Updated session " + cli.ShortID(sess.ID)))
	return nil
}

type TimeDeleteCmd struct {
	ID string `arg:"" help:"Session ID."`
}

func (c *TimeDeleteCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	sess, err := cli.ResolveSession(st, c.ID)
	if err != nil {
		return err
	}
	if err := st.DeleteSession(sess.ID); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success("Deleted session " + cli.ShortID(sess.ID)))
	return nil
}

type TimeReportCmd struct {
	Days int  `short:"n" help:"Width of the rolling window in days." default:"7"`
	JSON bool `help:"Print the report as JSON."`
}

func (c *TimeReportCmd) Run(ctx *cli.Context) error {
	report := ctx.Engine.Report(c.Days)
	if c.JSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		ctx.Println(string(data))
		return nil
	}

	st := ctx.Store()
	ctx.Println(cli.Header(fmt.Sprintf("Tracked time %s → %s", report.From, report.To)))

	days := cli.NewTable()
	for _, d := range report.Days {
		days.AddRow(d.Date, timetrack.FormatDuration(d.Seconds), bar(d.Seconds))
	}
	ctx.Println(days)
	ctx.Println()

	if ranked := timetrack.RankProjects(report.ByProject); len(ranked) > 0 {
		byProject := cli.NewTable("PROJECT", "TIME")
		for _, pt := range ranked {
			byProject.AddRow(cli.ProjectName(st, pt.ProjectID), timetrack.FormatDuration(pt.Seconds))
		}
		ctx.Println(byProject)
		ctx.Println()
	}

	ctx.Printf("Billable: %s  Non-billable: %s  Total: %s\n",
		timetrack.FormatDuration(report.Billable),
		timetrack.FormatDuration(report.NonBillable),
		timetrack.FormatDuration(report.Total))
	return nil
}

// bar draws one block per half hour, capped at 24 blocks.
func bar(secs int64) string {
	n := min(int(secs/1800), 24)
	out := make([]rune, n)
	for i := range out {
		out[i] = '▇'
	}
	return string(out)
}
