package system

import (
	"time"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/tui"
)

type TuiCmd struct {
	Tick time.Duration `help:"How often the dashboard runs the scheduler." default:"5m"`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	// Snapshot before an interactive session that may change a lot at once.
	ctx.PerformAutomaticBackup()
	return tui.Run(ctx.Engine, tui.WithTickInterval(c.Tick))
}
