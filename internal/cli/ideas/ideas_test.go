package ideas

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/daybook/internal/cli/clitest"
	"github.com/julianstephens/daybook/internal/models"
)

func TestIdeaPromote(t *testing.T) {
	env := clitest.New(t, time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC))
	st := env.Ctx.Store()
	p, _ := st.AddProject(models.Project{Name: "Blog"})

	if err := (&IdeaAddCmd{Title: "Post about Go generics", Tags: []string{"writing"}}).Run(env.Ctx); err != nil {
		t.Fatalf("IdeaAddCmd.Run() failed: %v", err)
	}
	env.Output()

	if err := (&IdeaListCmd{Tag: "WRITING"}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if out := env.Output(); !strings.Contains(out, "Post about Go generics") {
		t.Errorf("tag filter should match case-insensitively: %q", out)
	}

	idea := st.Ideas()[0]
	if err := (&IdeaPromoteCmd{ID: idea.ID, Project: "Blog"}).Run(env.Ctx); err != nil {
		t.Fatalf("IdeaPromoteCmd.Run() failed: %v", err)
	}
	if len(st.Ideas()) != 0 {
		t.Error("promoted idea should be removed")
	}
	tasks := st.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Post about Go generics" || tasks[0].ProjectID != p.ID {
		t.Errorf("promoted task = %+v", tasks)
	}
}

func TestIdeaDelete(t *testing.T) {
	env := clitest.New(t, time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC))
	st := env.Ctx.Store()
	idea, _ := st.AddIdea(models.Idea{Title: "Maybe"})

	if err := (&IdeaDeleteCmd{ID: idea.ID}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if len(st.Ideas()) != 0 {
		t.Error("idea should be deleted")
	}
	if err := (&IdeaDeleteCmd{ID: idea.ID}).Run(env.Ctx); err == nil {
		t.Error("deleting twice should fail")
	}
}
