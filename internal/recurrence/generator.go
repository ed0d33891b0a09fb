package recurrence

import (
	stderrors "errors"

	"github.com/julianstephens/daybook/internal/clock"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/store"
	"github.com/julianstephens/daybook/internal/utils"
)

// Generator materializes today's occurrences of every enabled template.
type Generator struct {
	store *store.Store
	clock clock.Clock
}

func NewGenerator(s *store.Store, clk clock.Clock) *Generator {
	if clk == nil {
		clk = s.Clock()
	}
	return &Generator{store: s, clock: clk}
}

// Run creates at most one task per enabled template for today. A template
// whose last generation date is already today is skipped, so Run may be
// called any number of times a day. Failures on one template do not stop
// the others; they are joined into the returned error.
func (g *Generator) Run() ([]models.Task, error) {
	today := clock.Today(g.clock)
	key := utils.DateKey(today)

	var (
		created []models.Task
		errs    []error
	)
	for _, tpl := range g.store.Templates() {
		if !tpl.Enabled || tpl.LastGenerated == key {
			continue
		}
		if !ShouldGenerate(tpl, today) {
			continue
		}
		task, err := g.store.Instantiate(tpl.ID, key)
		if err != nil {
			logger.Warn("Failed to generate recurring task", "template", tpl.ID, "date", key, "error", err)
			errs = append(errs, err)
			continue
		}
		logger.Debug("Generated recurring task", "template", tpl.ID, "task", task.ID, "date", key)
		created = append(created, task)
	}
	return created, stderrors.Join(errs...)
}
