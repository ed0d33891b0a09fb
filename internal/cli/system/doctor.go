package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/keyring"
	"github.com/julianstephens/daybook/internal/storage"
	"github.com/julianstephens/daybook/internal/store"
	"github.com/julianstephens/daybook/internal/utils"
)

type DoctorCmd struct{}

type checkStatus int

const (
	statusOK checkStatus = iota
	statusWarn
	statusFail
	statusSkip
)

type check struct {
	name string
	run  func(ctx *cli.Context) (checkStatus, string)
	// needsStorage checks are skipped once storage is unreachable.
	needsStorage bool
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	var report store.LoadReport
	reachable := false

	checks := []check{
		{name: "Storage reachable", run: func(ctx *cli.Context) (checkStatus, string) {
			r, err := ctx.Engine.Open()
			if err != nil {
				return statusFail, err.Error()
			}
			report, reachable = r, true
			return statusOK, ctx.Engine.Provider().Location()
		}},
		{name: "Schema version", run: checkSchema, needsStorage: true},
		{name: "Snapshot integrity", run: func(*cli.Context) (checkStatus, string) {
			if report.Clean() {
				return statusOK, ""
			}
			return statusWarn, report.String() + " (repaired on next save)"
		}, needsStorage: true},
		{name: "Task dependencies", run: checkDependencies, needsStorage: true},
		{name: "Timezone", run: checkTimezone, needsStorage: true},
		{name: "Backups present", run: checkBackups},
		{name: "OS keyring", run: checkKeyring},
	}

	failed := false
	for _, c := range checks {
		status, detail := statusSkip, "storage not reachable"
		if reachable || !c.needsStorage {
			status, detail = c.run(ctx)
		}
		printCheck(ctx, c.name, status, detail)
		if status == statusFail {
			failed = true
		}
	}

	ctx.Println()
	if failed {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	ctx.Println(cli.Success("All diagnostics passed!"))
	return nil
}

func printCheck(ctx *cli.Context, name string, status checkStatus, detail string) {
	var line string
	switch status {
	case statusOK:
		line = cli.Success(name + ": OK")
	case statusWarn:
		line = cli.Warning(name + ": WARNING")
	case statusFail:
		line = cli.Failure(name + ": FAIL")
	default:
		line = cli.Muted("⊘ " + name + ": SKIPPED")
	}
	ctx.Println(line)
	if detail != "" {
		ctx.Println("   " + detail)
	}
}

func checkSchema(ctx *cli.Context) (checkStatus, string) {
	v, ok := ctx.Engine.Provider().(storage.Versioned)
	if !ok {
		return statusOK, "no schema for this storage"
	}
	current, latest, err := v.SchemaVersion()
	if err != nil {
		return statusFail, err.Error()
	}
	if current != latest {
		return statusFail, fmt.Sprintf("schema version %d, expected %d", current, latest)
	}
	return statusOK, fmt.Sprintf("version %d", current)
}

func checkDependencies(ctx *cli.Context) (checkStatus, string) {
	st := ctx.Store()
	resolver := st.Resolver()
	var problems []string
	for _, t := range st.Tasks() {
		for _, id := range t.BlockedBy {
			if _, ok := st.Task(id); !ok {
				problems = append(problems, fmt.Sprintf("%s is blocked by missing task %s", cli.ShortID(t.ID), cli.ShortID(id)))
				continue
			}
			if resolver.WouldCycle(t.ID, id) {
				problems = append(problems, fmt.Sprintf("%s is part of a dependency cycle", cli.ShortID(t.ID)))
			}
		}
	}
	if len(problems) > 0 {
		return statusFail, strings.Join(problems, "; ")
	}
	return statusOK, ""
}

func checkTimezone(ctx *cli.Context) (checkStatus, string) {
	tz := ctx.Store().Settings().Timezone
	if !utils.ValidateTimezone(tz) {
		return statusFail, fmt.Sprintf("invalid timezone %q", tz)
	}
	now := ctx.Engine.Now()
	return statusOK, fmt.Sprintf("%s (now %s)", ctx.Engine.Location(), now.Format("2006-01-02 15:04 MST"))
}

func checkBackups(ctx *cli.Context) (checkStatus, string) {
	mgr := ctx.BackupManager()
	if mgr == nil {
		return statusOK, "not applicable for " + ctx.Engine.Provider().Location()
	}
	infos, err := mgr.List()
	if err != nil {
		return statusWarn, err.Error()
	}
	if len(infos) == 0 {
		return statusWarn, "no backups yet, run 'daybook backup create'"
	}
	return statusOK, fmt.Sprintf("%d backup(s), newest %s", len(infos), infos[0].Timestamp.Format("2006-01-02 15:04"))
}

func checkKeyring(ctx *cli.Context) (checkStatus, string) {
	if _, ok := ctx.Engine.Provider().(*storage.PostgresStore); !ok {
		return statusOK, "not used"
	}
	if !keyring.IsAvailable() {
		return statusWarn, "unavailable, use DAYBOOK_DB_CONNECTION or ~/.pgpass"
	}
	return statusOK, ""
}
