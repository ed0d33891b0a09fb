package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestRunnerTicksImmediately(t *testing.T) {
	var ticks atomic.Int32
	r := NewRunner(func() { ticks.Add(1) }, time.Hour, time.UTC)

	if err := r.Start(); err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	defer r.Stop()

	if got := ticks.Load(); got != 1 {
		t.Errorf("expected one immediate tick, got %d", got)
	}
	if err := r.Start(); err == nil {
		t.Error("expected error starting twice")
	}
}

func TestRunnerStop(t *testing.T) {
	var ticks atomic.Int32
	r := NewRunner(func() { ticks.Add(1) }, time.Second, time.UTC)

	if err := r.Start(); err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	r.Stop()
	r.Stop()

	after := ticks.Load()
	time.Sleep(1500 * time.Millisecond)
	if got := ticks.Load(); got != after {
		t.Errorf("ticks continued after stop: %d -> %d", after, got)
	}
}

func TestRunnerDefaultInterval(t *testing.T) {
	r := NewRunner(func() {}, 0, nil)
	if r.Interval() != 5*time.Minute {
		t.Errorf("expected default interval 5m, got %v", r.Interval())
	}
}
