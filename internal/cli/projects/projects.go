package projects

import (
	"fmt"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/timetrack"
)

type ProjectAddCmd struct {
	Name        string `arg:"" help:"Project name."`
	Description string `short:"D" help:"Description."`
	Color       string `short:"c" help:"Display color (any lipgloss color, e.g. 205 or #ff87d7)."`
}

func (c *ProjectAddCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	if _, exists := st.ProjectByName(c.Name); exists {
		return fmt.Errorf("a project named %q already exists", c.Name)
	}
	p, err := st.AddProject(models.Project{Name: c.Name, Description: c.Description, Color: c.Color})
	if err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("Added project: %s (ID: %s)", p.Name, cli.ShortID(p.ID))))
	return nil
}

type ProjectListCmd struct {
	All bool `short:"a" help:"Include archived projects."`
}

func (c *ProjectListCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	projects := st.Projects(c.All)
	if len(projects) == 0 {
		ctx.Println("No projects found")
		return nil
	}

	tracked := timetrack.ByProject(st.Sessions(), ctx.Engine.Now())
	tbl := cli.NewTable("ID", "NAME", "OPEN", "DONE", "TRACKED", "")
	for _, p := range projects {
		var open, done int
		for _, t := range st.TasksForProject(p.ID) {
			if t.Completed {
				done++
			} else {
				open++
			}
		}
		state := ""
		if p.Archived {
			state = cli.Muted("archived")
		}
		tbl.AddRow(cli.ShortID(p.ID), p.Name, open, done, timetrack.FormatDuration(tracked[p.ID]), state)
	}
	ctx.Println(tbl)
	return nil
}

type ProjectEditCmd struct {
	ID          string  `arg:"" help:"Project id or name."`
	Name        *string `help:"New name."`
	Description *string `short:"D" help:"New description."`
	Color       *string `short:"c" help:"New color."`
}

func (c *ProjectEditCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	p, err := cli.ResolveProject(st, c.ID)
	if err != nil {
		return err
	}
	if c.Name != nil {
		if other, exists := st.ProjectByName(*c.Name); exists && other.ID != p.ID {
			return fmt.Errorf("a project named %q already exists", *c.Name)
		}
		p.Name = *c.Name
	}
	if c.Description != nil {
		p.Description = *c.Description
	}
	if c.Color != nil {
		p.Color = *c.Color
	}
	if err := st.UpdateProject(p); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("Updated project: %s", p.Name)))
	return nil
}

type ProjectArchiveCmd struct {
	ID   string `arg:"" help:"Project id or name."`
	Undo bool   `help:"Unarchive instead."`
}

func (c *ProjectArchiveCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	p, err := cli.ResolveProject(st, c.ID)
	if err != nil {
		return err
	}
	if err := st.SetProjectArchived(p.ID, !c.Undo); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	verb := "Archived"
	if c.Undo {
		verb = "Unarchived"
	}
	ctx.Println(cli.Success(fmt.Sprintf("%s project: %s", verb, p.Name)))
	return nil
}

type ProjectDeleteCmd struct {
	ID  string `arg:"" help:"Project id or name."`
	Yes bool   `short:"y" help:"Confirm deletion of the project with its tasks and time sessions."`
}

func (c *ProjectDeleteCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	p, err := cli.ResolveProject(st, c.ID)
	if err != nil {
		return err
	}
	if !c.Yes {
		n := len(st.TasksForProject(p.ID))
		return fmt.Errorf("deleting %q also deletes its %d task(s) and tracked time; re-run with --yes to confirm", p.Name, n)
	}

	ctx.PerformAutomaticBackup()
	removed, err := st.DeleteProject(p.ID)
	if err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("Deleted project %s, its %d task(s) and its time sessions", p.Name, len(removed))))
	return nil
}
