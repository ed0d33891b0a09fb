package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mitchellh/go-homedir"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/cli/backups"
	"github.com/julianstephens/daybook/internal/cli/habits"
	"github.com/julianstephens/daybook/internal/cli/ideas"
	"github.com/julianstephens/daybook/internal/cli/notes"
	"github.com/julianstephens/daybook/internal/cli/notify"
	"github.com/julianstephens/daybook/internal/cli/projects"
	"github.com/julianstephens/daybook/internal/cli/recur"
	"github.com/julianstephens/daybook/internal/cli/settings"
	"github.com/julianstephens/daybook/internal/cli/system"
	"github.com/julianstephens/daybook/internal/cli/tasks"
	"github.com/julianstephens/daybook/internal/cli/tracking"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/engine"
	"github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/keyring"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/notifier"
	"github.com/julianstephens/daybook/internal/storage"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Storage location: a SQLite file path, diskv://<dir>, or a PostgreSQL URL without credentials." env:"DAYBOOK_CONFIG" default:"${config}"`
	Debug    bool   `help:"Log debug output to stderr." env:"DAYBOOK_DEBUG"`
	Timezone string `help:"Override the stored timezone (IANA name or Local)." env:"DAYBOOK_TIMEZONE"`

	Init     system.InitCmd       `cmd:"" help:"Initialize daybook storage."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Export   system.ExportCmd     `cmd:"" help:"Export all data as JSON."`
	Import   system.ImportCmd     `cmd:"" help:"Replace all data with a JSON export."`
	DebugCmd system.DebugCmd      `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Task     struct {
		Add     tasks.TaskAddCmd     `cmd:"" help:"Add a new task."`
		Edit    tasks.TaskEditCmd    `cmd:"" help:"Edit an existing task."`
		Show    tasks.TaskShowCmd    `cmd:"" help:"Show task details."`
		List    tasks.TaskListCmd    `cmd:"" help:"List tasks." default:"1"`
		Done    tasks.TaskDoneCmd    `cmd:"" help:"Toggle a task's completion."`
		Status  tasks.TaskStatusCmd  `cmd:"" help:"Set a task's status."`
		Delete  tasks.TaskDeleteCmd  `cmd:"" help:"Delete a task."`
		Block   tasks.TaskBlockCmd   `cmd:"" help:"Make a task wait on another."`
		Unblock tasks.TaskUnblockCmd `cmd:"" help:"Remove a dependency."`
	} `cmd:"" help:"Manage tasks."`
	Project struct {
		Add     projects.ProjectAddCmd     `cmd:"" help:"Add a new project."`
		List    projects.ProjectListCmd    `cmd:"" help:"List projects." default:"1"`
		Edit    projects.ProjectEditCmd    `cmd:"" help:"Edit a project."`
		Archive projects.ProjectArchiveCmd `cmd:"" help:"Archive or unarchive a project."`
		Delete  projects.ProjectDeleteCmd  `cmd:"" help:"Delete a project and its tasks."`
	} `cmd:"" help:"Manage projects."`
	Habit  habits.HabitCmd  `cmd:"" help:"Manage habits and habit tracking."`
	Idea   ideas.IdeaCmd    `cmd:"" help:"Capture and promote ideas."`
	Note   notes.NoteCmd    `cmd:"" help:"Manage notes."`
	Recur  recur.RecurCmd   `cmd:"" help:"Manage recurring task templates."`
	Time   tracking.TimeCmd `cmd:"" help:"Track time against projects."`
	Notify notify.NotifyCmd `cmd:"" help:"Run the scheduler and read notifications."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Tasks, habits, time tracking and reminders in one place"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(kong.JSON, constants.DefaultConfigFile),
		kong.Vars{
			"version": constants.Version,
			"config":  constants.DefaultConfigPath,
		},
	)

	configDir, err := homedir.Expand(filepath.Dir(constants.DefaultConfigFile))
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}

	provider, err := resolveProvider(CLI.Config, os.Getenv("DAYBOOK_DB_CONNECTION"), keyring.GetConnectionString)
	if err != nil {
		errors.Fatal(err)
	}

	opts := []engine.Option{engine.WithNotifier(notifier.NewTray())}
	if CLI.Timezone != "" {
		opts = append(opts, engine.WithTimezone(CLI.Timezone))
	}
	e, err := engine.New(provider, opts...)
	if err != nil {
		errors.Fatal(err)
	}

	if needsOpen(ctx.Command()) {
		if _, err := e.Open(); err != nil {
			errors.Fatal(err)
		}
	}

	appCtx := &cli.Context{Engine: e, Config: CLI.Config}
	err = ctx.Run(appCtx)
	if closeErr := e.Close(); closeErr != nil {
		logger.Warn("Failed to close storage", "error", closeErr)
	}
	errors.Fatal(err)
}

// needsOpen reports whether a command expects loaded storage before it runs.
// Init creates storage, doctor reports on reachability itself, and keyring
// commands must work while the database is unreachable.
func needsOpen(command string) bool {
	for _, prefix := range []string{"init", "doctor", "keyring"} {
		if command == prefix || strings.HasPrefix(command, prefix+" ") {
			return false
		}
	}
	return true
}

// resolveProvider picks the storage backend. An explicit --config always wins.
// With the default location, a PostgreSQL connection string from the
// environment or the OS keyring takes precedence over the SQLite file.
func resolveProvider(config, envConn string, fromKeyring func() (string, error)) (storage.Provider, error) {
	if storage.IsPostgres(config) && storage.HasEmbeddedCredentials(config) {
		return nil, fmt.Errorf("PostgreSQL connection strings with embedded credentials are not allowed in --config; " +
			"store them with 'daybook keyring set' or export DAYBOOK_DB_CONNECTION instead")
	}
	if config != constants.DefaultConfigPath {
		return storage.New(config)
	}

	connStr := envConn
	if connStr == "" && fromKeyring != nil {
		if stored, err := fromKeyring(); err == nil {
			connStr = stored
		} else if !stderrors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Keyring lookup failed", "error", err)
		}
	}
	if connStr != "" {
		// Stored connection strings are allowed to carry the password.
		return storage.NewPostgresStore(connStr), nil
	}
	return storage.New(config)
}
