// Package engine wires the entity store to its clock, persistence, and the
// derived calculators. The CLI, the TUI, and the notification daemon all go
// through an Engine.
//
// An Engine is not safe for concurrent use. The scheduler runner serializes
// its ticks, and the TUI drives the engine from its event loop.
package engine

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/daybook/internal/clock"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/notifier"
	"github.com/julianstephens/daybook/internal/recurrence"
	"github.com/julianstephens/daybook/internal/scheduler"
	"github.com/julianstephens/daybook/internal/storage"
	"github.com/julianstephens/daybook/internal/store"
	"github.com/julianstephens/daybook/internal/streak"
	"github.com/julianstephens/daybook/internal/timetrack"
	"github.com/julianstephens/daybook/internal/utils"
)

type Engine struct {
	clock    *zonedClock
	store    *store.Store
	provider storage.Provider
	notifier notifier.Notifier
	timezone string // overrides settings when set
	saved    uint64
}

type Option func(*engineConfig)

type engineConfig struct {
	clock     clock.Clock
	notifier  notifier.Notifier
	timezone  string
	storeOpts []store.Option
}

// WithClock replaces the system clock.
func WithClock(c clock.Clock) Option {
	return func(cfg *engineConfig) { cfg.clock = c }
}

// WithNotifier sets the desktop collaborator notifications are handed to.
func WithNotifier(n notifier.Notifier) Option {
	return func(cfg *engineConfig) { cfg.notifier = n }
}

// WithTimezone pins the zone regardless of the stored settings.
func WithTimezone(tz string) Option {
	return func(cfg *engineConfig) { cfg.timezone = tz }
}

func WithStoreOptions(opts ...store.Option) Option {
	return func(cfg *engineConfig) { cfg.storeOpts = append(cfg.storeOpts, opts...) }
}

func New(p storage.Provider, opts ...Option) (*Engine, error) {
	cfg := engineConfig{notifier: notifier.Nop{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.clock == nil {
		cfg.clock = clock.NewSystem(time.Local)
	}
	if cfg.timezone != "" && !utils.ValidateTimezone(cfg.timezone) {
		return nil, errors.Validation("new engine", "invalid timezone %q", cfg.timezone)
	}

	zc := &zonedClock{base: cfg.clock, loc: cfg.clock.Now().Location()}
	e := &Engine{
		clock:    zc,
		store:    store.New(zc, cfg.storeOpts...),
		provider: p,
		notifier: cfg.notifier,
		timezone: cfg.timezone,
	}
	e.applyTimezone()
	e.saved = e.store.Version()
	return e, nil
}

func (e *Engine) Store() *store.Store        { return e.store }
func (e *Engine) Clock() clock.Clock         { return e.clock }
func (e *Engine) Provider() storage.Provider { return e.provider }
func (e *Engine) Location() *time.Location   { return e.clock.Location() }
func (e *Engine) Now() time.Time             { return e.clock.Now() }
func (e *Engine) Today() time.Time           { return clock.Today(e.clock) }

// Init prepares fresh storage and writes an empty snapshot if none exists.
func (e *Engine) Init() (store.LoadReport, error) {
	if err := e.provider.Init(); err != nil {
		return store.LoadReport{}, fmt.Errorf("failed to initialize storage: %w", err)
	}
	report, err := e.Load()
	if err != nil {
		return report, err
	}
	return report, e.Save()
}

// Open connects to existing storage and loads the snapshot.
func (e *Engine) Open() (store.LoadReport, error) {
	if err := e.provider.Open(); err != nil {
		return store.LoadReport{}, err
	}
	return e.Load()
}

// Load replaces the in-memory state with the persisted snapshot. Missing
// storage yields an empty store. Corrupt collections fall back to empty
// defaults and are reported, never returned as an error.
func (e *Engine) Load() (store.LoadReport, error) {
	data, err := e.provider.Load(constants.SnapshotNamespace)
	if err != nil && !stderrors.Is(err, storage.ErrNotFound) {
		return store.LoadReport{}, fmt.Errorf("failed to load snapshot: %w", err)
	}

	report := e.store.Restore(data)
	logReport(report)
	e.applyTimezone()
	e.saved = e.store.Version()
	return report, nil
}

func logReport(report store.LoadReport) {
	for _, err := range report.Corrupt {
		logger.Warn("Collection reset to default", "error", err)
	}
	for _, err := range report.Skipped {
		logger.Warn("Record skipped", "error", err)
	}
	for _, msg := range report.Repaired {
		logger.Info("Snapshot repaired", "detail", msg)
	}
}

// Dirty reports whether the store changed since the last load or save.
func (e *Engine) Dirty() bool { return e.store.Version() != e.saved }

func (e *Engine) Save() error {
	data, err := e.store.MarshalSnapshot()
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := e.provider.Save(constants.SnapshotNamespace, data); err != nil {
		logger.Error("Failed to save snapshot", "location", e.provider.Location(), "error", err)
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	e.saved = e.store.Version()
	return nil
}

// SaveIfDirty persists only when something changed and reports whether it did.
func (e *Engine) SaveIfDirty() (bool, error) {
	if !e.Dirty() {
		return false, nil
	}
	return true, e.Save()
}

func (e *Engine) Close() error {
	if e.provider == nil {
		return nil
	}
	return e.provider.Close()
}

// Export returns the current snapshot as indented JSON.
func (e *Engine) Export() ([]byte, error) {
	return e.store.MarshalSnapshot()
}

// Import replaces all state with data. Input that is not a JSON object is
// rejected and leaves the store untouched.
func (e *Engine) Import(data []byte) (store.LoadReport, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return store.LoadReport{}, errors.Validation("import", "input is not a daybook snapshot: %v", err)
	}
	report := e.store.Restore(data)
	logReport(report)
	e.applyTimezone()
	return report, nil
}

// Reset discards every entity and restores default settings. Like any
// other mutation it is persisted by the next save.
func (e *Engine) Reset() {
	e.store.Restore(nil)
	e.applyTimezone()
}

// UpdateSettings validates and stores settings, then re-zones the clock.
func (e *Engine) UpdateSettings(settings models.Settings) error {
	if err := e.store.UpdateSettings(settings); err != nil {
		return err
	}
	e.applyTimezone()
	return nil
}

func (e *Engine) applyTimezone() {
	tz := e.timezone
	if tz == "" {
		tz = e.store.Settings().Timezone
	}
	loc, err := utils.LoadLocation(tz)
	if err != nil {
		logger.Warn("Unknown timezone, using local time", "timezone", tz, "error", err)
		loc = time.Local
	}
	e.clock.setLocation(loc)
}

// Streak derives the habit's streak as of today.
func (e *Engine) Streak(habitID string) models.Streak {
	return streak.ForHabit(e.store.HabitLog(), habitID, e.Today())
}

// Streaks covers every active habit.
func (e *Engine) Streaks() map[string]models.Streak {
	out := make(map[string]models.Streak)
	for _, h := range e.store.Habits(false) {
		out[h.ID] = e.Streak(h.ID)
	}
	return out
}

func (e *Engine) IsBlocked(taskID string) bool {
	return e.store.IsBlocked(taskID)
}

// Blockers lists the incomplete predecessors of taskID.
func (e *Engine) Blockers(taskID string) []string {
	return e.store.Resolver().Blockers(taskID)
}

// Report aggregates tracked time over the last days calendar days.
func (e *Engine) Report(days int) timetrack.Report {
	return timetrack.Rolling(e.store.Sessions(), e.Location(), e.Now(), days)
}

// GenerateRecurring materializes today's recurring tasks.
func (e *Engine) GenerateRecurring() ([]models.Task, error) {
	return recurrence.NewGenerator(e.store, e.clock).Run()
}

// SetNotifier swaps the desktop delivery target. A nil notifier disables it.
func (e *Engine) SetNotifier(n notifier.Notifier) {
	if n == nil {
		n = notifier.Nop{}
	}
	e.notifier = n
}

// Notify runs one scheduler pass and returns what it emitted.
func (e *Engine) Notify() []models.Notification {
	sched := scheduler.New(e.store, e.notifier,
		scheduler.WithClock(e.clock),
		scheduler.WithLocation(e.Location()),
	)
	return sched.Tick()
}

// TickResult summarizes one daemon tick.
type TickResult struct {
	Generated     []models.Task
	Notifications []models.Notification
	Saved         bool
}

// Tick is one unit of background work. When nothing is pending locally it
// first reloads, picking up changes other processes saved. It then generates
// recurring tasks, runs the scheduler, and saves if anything changed.
func (e *Engine) Tick() (TickResult, error) {
	var res TickResult
	if !e.Dirty() {
		if _, err := e.Load(); err != nil {
			return res, err
		}
	}

	created, genErr := e.GenerateRecurring()
	res.Generated = created
	res.Notifications = e.Notify()

	saved, saveErr := e.SaveIfDirty()
	res.Saved = saved && saveErr == nil
	return res, stderrors.Join(genErr, saveErr)
}

// NewRunner returns a cron-driven runner that calls Tick every interval.
func (e *Engine) NewRunner(interval time.Duration, onTick func(TickResult, error)) *scheduler.Runner {
	return scheduler.NewRunner(func() {
		res, err := e.Tick()
		if err != nil {
			logger.Error("Tick failed", "error", err)
		}
		if onTick != nil {
			onTick(res, err)
		}
	}, interval, e.Location())
}

// zonedClock reports the base clock's instant in a location that follows
// the timezone setting.
type zonedClock struct {
	base clock.Clock
	mu   sync.RWMutex
	loc  *time.Location
}

func (z *zonedClock) Now() time.Time {
	return z.base.Now().In(z.Location())
}

func (z *zonedClock) Location() *time.Location {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.loc
}

func (z *zonedClock) setLocation(loc *time.Location) {
	z.mu.Lock()
	z.loc = loc
	z.mu.Unlock()
}
