package ideas

import (
	"fmt"
	"strings"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/models"
)

type IdeaCmd struct {
	Add     IdeaAddCmd     `cmd:"" help:"Capture an idea."`
	List    IdeaListCmd    `cmd:"" help:"List ideas." default:"1"`
	Promote IdeaPromoteCmd `cmd:"" help:"Turn an idea into a task."`
	Delete  IdeaDeleteCmd  `cmd:"" help:"Discard an idea."`
}

type IdeaAddCmd struct {
	Title       string   `arg:"" help:"Idea title."`
	Description string   `short:"D" help:"Details."`
	Tags        []string `short:"t" help:"Comma-separated tags." sep:","`
}

func (c *IdeaAddCmd) Run(ctx *cli.Context) error {
	idea, err := ctx.Store().AddIdea(models.Idea{Title: c.Title, Description: c.Description, Tags: c.Tags})
	if err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("Captured idea: %s (ID: %s)", idea.Title, cli.ShortID(idea.ID))))
	return nil
}

type IdeaListCmd struct {
	Tag string `short:"t" help:"Only ideas with this tag."`
}

func (c *IdeaListCmd) Run(ctx *cli.Context) error {
	var ideas []models.Idea
	for _, i := range ctx.Store().Ideas() {
		if c.Tag == "" || hasTag(i.Tags, c.Tag) {
			ideas = append(ideas, i)
		}
	}
	if len(ideas) == 0 {
		ctx.Println("No ideas found")
		return nil
	}

	tbl := cli.NewTable("ID", "IDEA", "TAGS", "CAPTURED")
	for _, i := range ideas {
		tbl.AddRow(cli.ShortID(i.ID), i.Title, cli.Dash(strings.Join(i.Tags, ",")),
			i.CreatedAt.In(ctx.Engine.Location()).Format("2006-01-02"))
	}
	ctx.Println(tbl)
	return nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

type IdeaPromoteCmd struct {
	ID      string `arg:"" help:"Idea ID."`
	Project string `short:"P" help:"Project for the new task (id or name)."`
}

func (c *IdeaPromoteCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	idea, err := cli.ResolveIdea(st, c.ID)
	if err != nil {
		return err
	}
	projectID := ""
	if c.Project != "" {
		p, err := cli.ResolveProject(st, c.Project)
		if err != nil {
			return err
		}
		projectID = p.ID
	}

	task, err := st.PromoteIdea(idea.ID, projectID)
	if err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("Promoted %q to task %s", task.Title, cli.ShortID(task.ID))))
	return nil
}

type IdeaDeleteCmd struct {
	ID string `arg:"" help:"Idea ID."`
}

func (c *IdeaDeleteCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	idea, err := cli.ResolveIdea(st, c.ID)
	if err != nil {
		return err
	}
	if err := st.DeleteIdea(idea.ID); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("Deleted idea: %s", idea.Title)))
	return nil
}
