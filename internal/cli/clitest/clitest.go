// Package clitest builds command contexts over a throwaway diskv store.
package clitest

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/clock"
	"github.com/julianstephens/daybook/internal/engine"
	"github.com/julianstephens/daybook/internal/storage"
	"github.com/julianstephens/daybook/internal/store"
)

// Env is a command context plus handles tests need to steer it.
type Env struct {
	Ctx   *cli.Context
	Clock *clock.Fixed
	Out   *bytes.Buffer
}

// New initializes storage in a temp dir with the clock pinned to now (UTC)
// and sequential ids "id-1", "id-2", ...
func New(t *testing.T, now time.Time) *Env {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "data")
	clk := clock.NewFixed(now)
	n := 0
	e, err := engine.New(storage.NewDiskvStore(dir),
		engine.WithClock(clk),
		engine.WithTimezone("UTC"),
		engine.WithStoreOptions(store.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		})),
	)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	if _, err := e.Init(); err != nil {
		t.Fatalf("engine.Init: %v", err)
	}

	out := &bytes.Buffer{}
	return &Env{
		Ctx:   &cli.Context{Engine: e, Config: "diskv://" + dir, Out: out},
		Clock: clk,
		Out:   out,
	}
}

// Output returns and clears everything printed so far.
func (e *Env) Output() string {
	s := e.Out.String()
	e.Out.Reset()
	return s
}
