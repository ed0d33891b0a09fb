package notify

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/engine"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/notifier"
)

type NotifyCmd struct {
	List   NotifyListCmd   `cmd:"" default:"1" help:"List notifications."`
	Tick   NotifyTickCmd   `cmd:"" help:"Generate recurring tasks and check for notifications once."`
	Run    NotifyRunCmd    `cmd:"" help:"Run the scheduler until interrupted."`
	Read   NotifyReadCmd   `cmd:"" help:"Mark notifications as read."`
	Delete NotifyDeleteCmd `cmd:"" help:"Delete a notification."`
	Clear  NotifyClearCmd  `cmd:"" help:"Delete every notification."`
}

type NotifyListCmd struct {
	Unread bool `help:"Only show unread notifications."`
	Limit  int  `help:"Show at most this many (0 for all)." default:"20"`
}

func (c *NotifyListCmd) Run(ctx *cli.Context) error {
	all := ctx.Store().Notifications()
	var shown []models.Notification
	for i := len(all) - 1; i >= 0; i-- {
		if c.Unread && all[i].Read {
			continue
		}
		shown = append(shown, all[i])
		if c.Limit > 0 && len(shown) == c.Limit {
			break
		}
	}

	if len(shown) == 0 {
		ctx.Println(cli.Muted("No notifications."))
		return nil
	}

	loc := ctx.Engine.Location()
	tbl := cli.NewTable("", "ID", "WHEN", "TYPE", "TITLE", "MESSAGE")
	for _, n := range shown {
		mark := "•"
		if n.Read {
			mark = " "
		}
		tbl.AddRow(mark, cli.ShortID(n.ID), n.CreatedAt.In(loc).Format("Jan 02 15:04"), n.Type, n.Title, n.Message)
	}
	ctx.Println(tbl)
	ctx.Println(cli.Muted(fmt.Sprintf("%d unread", ctx.Store().UnreadCount())))
	return nil
}

type NotifyTickCmd struct {
	DryRun bool `help:"Print what would be emitted without saving or showing popups."`
}

func (c *NotifyTickCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine
	if c.DryRun {
		e.SetNotifier(notifier.Nop{})
		emitted := e.Notify()
		if len(emitted) == 0 {
			ctx.Println(cli.Muted("Nothing to notify."))
			return nil
		}
		for _, n := range emitted {
			ctx.Printf("[dry-run] %s: %s\n", n.Title, n.Message)
		}
		return nil
	}

	res, err := e.Tick()
	report(ctx, res)
	return err
}

func report(ctx *cli.Context, res engine.TickResult) {
	for _, t := range res.Generated {
		ctx.Println(cli.Success("Generated " + t.Title))
	}
	for _, n := range res.Notifications {
		ctx.Printf("🔔 %s: %s\n", n.Title, n.Message)
	}
	if len(res.Generated) == 0 && len(res.Notifications) == 0 {
		ctx.Println(cli.Muted(fmt.Sprintf("%s Nothing new.", ctx.Engine.Now().Format(constants.TimeFormat))))
	}
}

// waitForShutdown blocks until the process is asked to stop. Tests replace it.
var waitForShutdown = func() {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()
}

type NotifyRunCmd struct {
	Interval time.Duration `help:"Time between ticks." default:"5m"`
}

func (c *NotifyRunCmd) Validate() error {
	if c.Interval < time.Minute {
		return fmt.Errorf("interval must be at least 1m, got %s", c.Interval)
	}
	return nil
}

func (c *NotifyRunCmd) Run(ctx *cli.Context) error {
	runner := ctx.Engine.NewRunner(c.Interval, func(res engine.TickResult, err error) {
		if err != nil {
			ctx.Println(cli.Failure(err.Error()))
			return
		}
		report(ctx, res)
	})
	if err := runner.Start(); err != nil {
		return err
	}
	ctx.Println(cli.Muted(fmt.Sprintf("Scheduler running every %s. Press Ctrl+C to stop.", runner.Interval())))

	waitForShutdown()
	runner.Stop()

	// The last tick may have failed to save.
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Muted("Scheduler stopped."))
	return nil
}

type NotifyReadCmd struct {
	ID  string `arg:"" optional:"" help:"Notification ID or prefix."`
	All bool   `help:"Mark every notification as read."`
}

func (c *NotifyReadCmd) Validate() error {
	if c.All == (c.ID != "") {
		return fmt.Errorf("give either a notification ID or --all")
	}
	return nil
}

func (c *NotifyReadCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	if c.All {
		n := st.MarkAllRead()
		if err := ctx.Commit(); err != nil {
			return err
		}
		ctx.Println(cli.Success(fmt.Sprintf("Marked %d notification(s) as read", n)))
		return nil
	}

	n, err := cli.ResolveNotification(st, c.ID)
	if err != nil {
		return err
	}
	if err := st.MarkRead(n.ID); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success("Marked as read: " + n.Title))
	return nil
}

type NotifyDeleteCmd struct {
	ID string `arg:"" help:"Notification ID or prefix."`
}

func (c *NotifyDeleteCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	n, err := cli.ResolveNotification(st, c.ID)
	if err != nil {
		return err
	}
	if err := st.DeleteNotification(n.ID); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success("Deleted notification: " + n.Title))
	return nil
}

type NotifyClearCmd struct {
	Yes bool `short:"y" help:"Confirm deleting every notification."`
}

func (c *NotifyClearCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		return fmt.Errorf("refusing to clear notifications without --yes")
	}
	count := len(ctx.Store().Notifications())
	ctx.Store().ClearNotifications()
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("Cleared %d notification(s)", count)))
	return nil
}
