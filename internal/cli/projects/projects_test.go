package projects

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/daybook/internal/cli/clitest"
	"github.com/julianstephens/daybook/internal/models"
)

var testNow = time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

func TestProjectLifecycle(t *testing.T) {
	env := clitest.New(t, testNow)
	st := env.Ctx.Store()

	if err := (&ProjectAddCmd{Name: "Website"}).Run(env.Ctx); err != nil {
		t.Fatalf("ProjectAddCmd.Run() failed: %v", err)
	}
	if err := (&ProjectAddCmd{Name: "Website"}).Run(env.Ctx); err == nil {
		t.Error("expected duplicate name to be rejected")
	}

	p, ok := st.ProjectByName("Website")
	if !ok {
		t.Fatal("project not stored")
	}
	if _, err := st.AddTask(models.Task{Title: "Landing page", ProjectID: p.ID}); err != nil {
		t.Fatal(err)
	}
	env.Output()

	if err := (&ProjectListCmd{}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if out := env.Output(); !strings.Contains(out, "Website") {
		t.Errorf("list output missing project: %q", out)
	}

	if err := (&ProjectArchiveCmd{ID: "website"}).Run(env.Ctx); err != nil {
		t.Fatalf("archive by name failed: %v", err)
	}
	if len(st.Projects(false)) != 0 {
		t.Error("archived project should be hidden")
	}
	if err := (&ProjectArchiveCmd{ID: p.ID, Undo: true}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}

	if err := (&ProjectDeleteCmd{ID: p.ID}).Run(env.Ctx); err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Errorf("delete without --yes should refuse, got %v", err)
	}
	if err := (&ProjectDeleteCmd{ID: p.ID, Yes: true}).Run(env.Ctx); err != nil {
		t.Fatalf("ProjectDeleteCmd.Run() failed: %v", err)
	}
	if len(st.Tasks()) != 0 {
		t.Error("project tasks should be deleted with the project")
	}
}

func TestProjectEdit(t *testing.T) {
	env := clitest.New(t, testNow)
	st := env.Ctx.Store()
	a, _ := st.AddProject(models.Project{Name: "A"})
	st.AddProject(models.Project{Name: "B"})

	name := "B"
	if err := (&ProjectEditCmd{ID: a.ID, Name: &name}).Run(env.Ctx); err == nil {
		t.Error("renaming onto an existing name should fail")
	}
	name = "Alpha"
	if err := (&ProjectEditCmd{ID: a.ID, Name: &name}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if got, _ := st.Project(a.ID); got.Name != "Alpha" {
		t.Errorf("name = %s, want Alpha", got.Name)
	}
}
