package system

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/store"
)

type ExportCmd struct {
	Output string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	data, err := ctx.Engine.Export()
	if err != nil {
		return err
	}
	if c.Output == "" {
		ctx.Println(string(data))
		return nil
	}
	if err := os.WriteFile(c.Output, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	ctx.Println(cli.Success("Exported to " + c.Output))
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"JSON export to import, or - for stdin."`
	Yes  bool   `short:"y" help:"Confirm replacing all current data."`

	stdin io.Reader
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		return fmt.Errorf("import replaces all current data; re-run with --yes to continue")
	}

	var (
		data []byte
		err  error
	)
	if c.File == "-" {
		in := c.stdin
		if in == nil {
			in = os.Stdin
		}
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(c.File)
	}
	if err != nil {
		return fmt.Errorf("failed to read import: %w", err)
	}

	ctx.PerformAutomaticBackup()
	report, err := ctx.Engine.Import(data)
	if err != nil {
		return err
	}
	if err := ctx.Engine.Save(); err != nil {
		return err
	}
	printImportSummary(ctx, report)
	return nil
}

func printImportSummary(ctx *cli.Context, report store.LoadReport) {
	st := ctx.Store()
	ctx.Println(cli.Success(fmt.Sprintf("Imported %d tasks, %d projects, %d habits, %d sessions, %d notes",
		len(st.Tasks()), len(st.Projects(true)), len(st.Habits(true)), len(st.Sessions()), len(st.Notes()))))
	if !report.Clean() {
		ctx.Println(cli.Warning("Some records were repaired or skipped: " + report.String()))
	}
}
