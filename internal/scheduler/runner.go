package scheduler

import (
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/logger"
)

// Runner drives a tick function on a fixed interval. Ticks never overlap.
type Runner struct {
	mu       sync.Mutex
	tickMu   sync.Mutex
	cron     *cron.Cron
	interval time.Duration
	tick     func()
	running  bool
	entry    cron.EntryID
}

func NewRunner(tick func(), interval time.Duration, loc *time.Location) *Runner {
	if interval <= 0 {
		interval = constants.DefaultTickInterval
	}
	if loc == nil {
		loc = time.Local
	}
	return &Runner{
		cron:     cron.New(cron.WithLocation(loc)),
		interval: interval,
		tick:     tick,
	}
}

func (r *Runner) Interval() time.Duration { return r.interval }

// Start runs one tick immediately, then schedules the rest.
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return errors.New("scheduler already running")
	}

	r.runTick()
	if r.entry == 0 {
		r.entry = r.cron.Schedule(cron.Every(r.interval), cron.FuncJob(r.runTick))
	}
	r.cron.Start()
	r.running = true
	logger.Debug("Scheduler started", "interval", r.interval)
	return nil
}

// Stop cancels future ticks and waits for a running one to finish.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.running = false
	logger.Debug("Scheduler stopped")
}

func (r *Runner) runTick() {
	r.tickMu.Lock()
	defer r.tickMu.Unlock()
	r.tick()
}
