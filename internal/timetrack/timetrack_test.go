package timetrack

import (
	"testing"
	"time"

	"github.com/julianstephens/daybook/internal/clock"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/store"
)

var base = time.Date(2024, time.May, 10, 9, 0, 0, 0, time.UTC)

func finished(id, project string, start time.Time, d time.Duration, billable bool) models.TimeSession {
	end := start.Add(d)
	return models.TimeSession{
		ID:              id,
		ProjectID:       project,
		Start:           start,
		End:             &end,
		DurationSeconds: int64(d / time.Second),
		Billable:        billable,
	}
}

func sample() []models.TimeSession {
	return []models.TimeSession{
		finished("a", "p1", base.AddDate(0, 0, -1), time.Hour, true),
		finished("b", "p1", base, 30*time.Minute, false),
		finished("c", "p2", base.Add(time.Hour), 15*time.Minute, true),
		{ID: "d", ProjectID: "p2", TaskID: "t1", Start: base.Add(2 * time.Hour)},
	}
}

func TestReducers(t *testing.T) {
	sessions := sample()
	now := base.Add(2*time.Hour + 10*time.Minute)

	if got := Total(sessions, now); got != 3600+1800+900+600 {
		t.Errorf("Total = %d", got)
	}

	byDay := TotalsByDay(sessions, time.UTC, now)
	if byDay["2024-05-09"] != 3600 || byDay["2024-05-10"] != 1800+900+600 {
		t.Errorf("TotalsByDay = %v", byDay)
	}

	byProject := ByProject(sessions, now)
	if byProject["p1"] != 5400 || byProject["p2"] != 1500 {
		t.Errorf("ByProject = %v", byProject)
	}

	byTask := ByTask(sessions, now)
	if len(byTask) != 1 || byTask["t1"] != 600 {
		t.Errorf("ByTask = %v", byTask)
	}

	billable, nonBillable := Billable(sessions, now)
	if billable != 4500 || nonBillable != 2400 {
		t.Errorf("Billable = %d / %d", billable, nonBillable)
	}
}

func TestReducersDoNotMutate(t *testing.T) {
	sessions := sample()
	now := base.Add(3 * time.Hour)
	_ = Weekly(sessions, time.UTC, now)

	if sessions[3].End != nil || sessions[3].DurationSeconds != 0 {
		t.Errorf("active session was modified: %+v", sessions[3])
	}
}

func TestTotalsByDayUsesLocalCalendar(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	// 02:00 UTC on the 11th is 21:00 on the 10th at UTC-5.
	s := finished("late", "p", time.Date(2024, time.May, 11, 2, 0, 0, 0, time.UTC), time.Hour, false)

	byDay := TotalsByDay([]models.TimeSession{s}, loc, base)
	if byDay["2024-05-10"] != 3600 {
		t.Errorf("expected session bucketed on the 10th, got %v", byDay)
	}
}

func TestWeeklyReport(t *testing.T) {
	sessions := append(sample(), finished("old", "p1", base.AddDate(0, 0, -7), time.Hour, true))
	now := base.Add(2*time.Hour + 10*time.Minute)

	r := Weekly(sessions, time.UTC, now)
	if r.From != "2024-05-04" || r.To != "2024-05-10" {
		t.Errorf("unexpected window %s..%s", r.From, r.To)
	}
	if len(r.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(r.Days))
	}
	if r.Days[0].Seconds != 0 || r.Days[5].Seconds != 3600 || r.Days[6].Seconds != 3300 {
		t.Errorf("unexpected day totals %+v", r.Days)
	}
	if r.Total != 6900 || r.Billable+r.NonBillable != r.Total {
		t.Errorf("unexpected totals %+v", r)
	}
}

func TestSingleActiveSessionDelta(t *testing.T) {
	clk := clock.NewFixed(base)
	s := store.New(clk)
	p, err := s.AddProject(models.Project{Name: "Work"})
	if err != nil {
		t.Fatalf("failed to add project: %v", err)
	}

	if _, _, err := s.StartSession(models.TimeSession{ProjectID: p.ID}); err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	clk.Advance(47*time.Minute + 13*time.Second)
	if _, _, err := s.StartSession(models.TimeSession{ProjectID: p.ID}); err != nil {
		t.Fatalf("failed to start second: %v", err)
	}
	clk.Advance(10 * time.Minute)

	sessions := s.Sessions()
	if got := sessions[0].DurationSeconds; got != 47*60+13 {
		t.Errorf("expected first session %ds, got %d", 47*60+13, got)
	}
	if got := Total(sessions, clk.Now()); got != 47*60+13+600 {
		t.Errorf("expected total including running session, got %d", got)
	}
}

func TestRankProjectsAndFormat(t *testing.T) {
	ranked := RankProjects(map[string]int64{"a": 60, "b": 600, "c": 60})
	if ranked[0].ProjectID != "b" || ranked[1].ProjectID != "a" || ranked[2].ProjectID != "c" {
		t.Errorf("unexpected ranking %+v", ranked)
	}

	tests := []struct {
		secs int64
		want string
	}{
		{0, "0m"},
		{59, "0m"},
		{42 * 60, "42m"},
		{3900, "1h 05m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.secs); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
