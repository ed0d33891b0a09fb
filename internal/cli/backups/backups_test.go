package backups

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/cli/clitest"
	"github.com/julianstephens/daybook/internal/clock"
	"github.com/julianstephens/daybook/internal/engine"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/storage"
)

var now = time.Date(2024, 3, 13, 9, 30, 0, 0, time.UTC)

func setupSQLite(t *testing.T) (*cli.Context, *clock.Fixed, *bytes.Buffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "daybook.db")
	clk := clock.NewFixed(now)
	e, err := engine.New(storage.NewSQLiteStore(path), engine.WithClock(clk), engine.WithTimezone("UTC"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { e.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{Engine: e, Config: path, Out: out}, clk, out
}

func TestBackupCreateListRestore(t *testing.T) {
	ctx, clk, out := setupSQLite(t)

	if _, err := ctx.Store().AddTask(models.Task{Title: "Before backup"}); err != nil {
		t.Fatal(err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("BackupCreateCmd.Run() failed: %v", err)
	}
	if !strings.Contains(out.String(), "daybook-20240313-0930.db") {
		t.Errorf("create output = %q", out.String())
	}
	out.Reset()

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "1 total") {
		t.Errorf("list output = %q", out.String())
	}
	out.Reset()

	clk.Advance(time.Hour)
	if _, err := ctx.Store().AddTask(models.Task{Title: "After backup"}); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Commit(); err != nil {
		t.Fatal(err)
	}

	restore := &BackupRestoreCmd{BackupFile: "daybook-20240313-0930.db"}
	if err := restore.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "--yes") {
		t.Errorf("restore without --yes should only warn, got %q", out.String())
	}
	if len(ctx.Store().Tasks()) != 2 {
		t.Fatalf("restore without --yes changed state")
	}
	out.Reset()

	restore.Yes = true
	if err := restore.Run(ctx); err != nil {
		t.Fatalf("BackupRestoreCmd.Run() failed: %v", err)
	}
	tasks := ctx.Store().Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Before backup" {
		t.Errorf("tasks after restore = %+v", tasks)
	}
	if !strings.Contains(out.String(), "Previous database saved as daybook-20240313-1030.db") {
		t.Errorf("restore output = %q", out.String())
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx, _, _ := setupSQLite(t)
	if err := (&BackupRestoreCmd{BackupFile: "nope.db", Yes: true}).Run(ctx); err == nil {
		t.Error("expected an error for a missing backup")
	}
}

func TestBackupRequiresSQLite(t *testing.T) {
	env := clitest.New(t, now)
	err := (&BackupCreateCmd{}).Run(env.Ctx)
	if err == nil || !strings.Contains(err.Error(), "only available for sqlite") {
		t.Errorf("BackupCreateCmd.Run() error = %v", err)
	}
}
