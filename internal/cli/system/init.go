package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/storage"
)

// confirmFunc asks a yes/no question on the terminal. Tests replace it.
var confirmFunc = func(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}

type InitCmd struct {
	Force  bool   `help:"Erase existing data after initialization."`
	Yes    bool   `short:"y" help:"Skip the confirmation prompt for --force."`
	Source string `help:"Import data from a JSON export or another daybook storage location."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Source != "" && sameLocation(c.Source, ctx.Config) {
		return fmt.Errorf("source and destination are the same: %s", c.Source)
	}

	report, err := ctx.Engine.Init()
	if err != nil {
		return err
	}
	ctx.Printf("Initialized daybook storage at: %s\n", ctx.Engine.Provider().Location())
	if !report.Clean() {
		ctx.Println(cli.Warning("Existing data needed repair: " + report.String()))
	}

	if c.Force {
		if !c.Yes {
			ok, err := confirmFunc("Erase every task, habit, session and note?")
			if err != nil {
				return err
			}
			if !ok {
				ctx.Println("Reset cancelled.")
				return nil
			}
		}
		ctx.PerformAutomaticBackup()
		ctx.Engine.Reset()
		if err := ctx.Engine.Save(); err != nil {
			return err
		}
		ctx.Println(cli.Success("Existing data erased"))
	}

	if c.Source != "" {
		ctx.Printf("Importing data from: %s\n", c.Source)
		if err := c.importSource(ctx); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
	}
	return nil
}

func (c *InitCmd) importSource(ctx *cli.Context) error {
	data, err := readSource(c.Source)
	if err != nil {
		return err
	}
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

// readSource returns the snapshot held by a .json export or by another
// storage location.
func readSource(source string) ([]byte, error) {
	if strings.HasSuffix(strings.ToLower(source), ".json") {
		path, err := storage.ResolvePath(source)
		if err != nil {
			return nil, err
		}
		return os.ReadFile(path)
	}

	provider, err := storage.New(source)
	if err != nil {
		return nil, err
	}
	if err := provider.Open(); err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer provider.Close()

	data, err := provider.Load(constants.SnapshotNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to load source snapshot: %w", err)
	}
	return data, nil
}

func sameLocation(a, b string) bool {
	if storage.IsPostgres(a) || storage.IsPostgres(b) {
		return a == b
	}
	pa, errA := storage.ResolvePath(strings.TrimPrefix(a, "diskv://"))
	pb, errB := storage.ResolvePath(strings.TrimPrefix(b, "diskv://"))
	if errA != nil || errB != nil {
		return a == b
	}
	return filepath.Clean(pa) == filepath.Clean(pb)
}
