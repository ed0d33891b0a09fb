package backups

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/daybook/internal/backup"
	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/constants"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a backup now."`
	List    BackupListCmd    `cmd:"" default:"1" help:"List backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Replace the database with a backup."`
}

func manager(ctx *cli.Context) (*backup.Manager, error) {
	mgr := ctx.BackupManager()
	if mgr == nil {
		return nil, fmt.Errorf("backups are only available for sqlite storage (current: %s)", ctx.Engine.Provider().Location())
	}
	return mgr, nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	// Flush pending changes so the backup matches what the user sees.
	if err := ctx.Commit(); err != nil {
		return err
	}
	path, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.Println(cli.Success("Backup created: " + filepath.Base(path)))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	infos, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(infos) == 0 {
		ctx.Println(cli.Muted("No backups found."))
		ctx.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(infos), constants.MaxBackups)
	tbl := cli.NewTable("CREATED", "FILE", "SIZE")
	for _, b := range infos {
		tbl.AddRow(b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), fmt.Sprintf("%.1f KB", float64(b.Size)/1024.0))
	}
	ctx.Println(tbl)
	ctx.Printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Confirm replacing the current database."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}

	path := mgr.Resolve(c.BackupFile)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("backup file not found: tried %s and %s", c.BackupFile, mgr.Dir())
	}

	if !c.Yes {
		ctx.Println(cli.Warning("This will replace your current database with the backup."))
		ctx.Println(cli.Warning("Stop every other daybook process (TUI, notify run) before restoring."))
		ctx.Printf("\nRestore from: %s\n", path)
		ctx.Println("Re-run with --yes to continue.")
		return nil
	}

	if err := ctx.Engine.Close(); err != nil {
		ctx.Println(cli.Warning("Failed to close database connection: " + err.Error()))
	}
	safety, restoreErr := mgr.Restore(path)

	// Reconnect either way so the context stays usable.
	if _, err := ctx.Engine.Open(); err != nil {
		if restoreErr != nil {
			return fmt.Errorf("restore failed: %w", restoreErr)
		}
		return fmt.Errorf("restored database could not be opened: %w", err)
	}
	if restoreErr != nil {
		return fmt.Errorf("restore failed: %w", restoreErr)
	}

	ctx.Println(cli.Success("Database restored from " + filepath.Base(path)))
	if safety != "" {
		ctx.Printf("Previous database saved as %s\n", filepath.Base(safety))
	}
	return nil
}
