package notes

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/models"
)

type NoteCmd struct {
	Add    NoteAddCmd    `cmd:"" help:"Write a note."`
	List   NoteListCmd   `cmd:"" help:"List notes, pinned first." default:"1"`
	Show   NoteShowCmd   `cmd:"" help:"Print a note."`
	Edit   NoteEditCmd   `cmd:"" help:"Edit a note."`
	Pin    NotePinCmd    `cmd:"" help:"Pin or unpin a note."`
	Delete NoteDeleteCmd `cmd:"" help:"Delete a note."`
}

type NoteAddCmd struct {
	Title   string   `arg:"" help:"Note title."`
	Content string   `short:"c" help:"Note body. Use - to read from stdin."`
	Project string   `short:"P" help:"Project id or name."`
	Tags    []string `short:"t" help:"Comma-separated tags." sep:","`
	Pinned  bool     `help:"Pin the note."`

	stdin io.Reader
}

func (c *NoteAddCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	content, err := readContent(c.Content, c.stdin)
	if err != nil {
		return err
	}
	note := models.Note{Title: c.Title, Content: content, Tags: c.Tags, Pinned: c.Pinned}
	if c.Project != "" {
		p, err := cli.ResolveProject(st, c.Project)
		if err != nil {
			return err
		}
		note.ProjectID = p.ID
	}

	added, err := st.AddNote(note)
	if err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("Added note: %s (ID: %s)", added.Title, cli.ShortID(added.ID))))
	return nil
}

func readContent(value string, stdin io.Reader) (string, error) {
	if value != "-" {
		return value, nil
	}
	if stdin == nil {
		stdin = os.Stdin
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read note from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

type NoteListCmd struct {
	Project string `short:"P" help:"Only notes in this project (id or name)."`
	Tag     string `short:"t" help:"Only notes with this tag."`
}

func (c *NoteListCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	projectID := ""
	if c.Project != "" {
		p, err := cli.ResolveProject(st, c.Project)
		if err != nil {
			return err
		}
		projectID = p.ID
	}

	tbl := cli.NewTable("", "ID", "TITLE", "PROJECT", "TAGS", "UPDATED")
	rows := 0
	for _, n := range st.Notes() {
		if projectID != "" && n.ProjectID != projectID {
			continue
		}
		if c.Tag != "" && !containsFold(n.Tags, c.Tag) {
			continue
		}
		pin := ""
		if n.Pinned {
			pin = "📌"
		}
		tbl.AddRow(pin, cli.ShortID(n.ID), n.Title, cli.ProjectName(st, n.ProjectID),
			cli.Dash(strings.Join(n.Tags, ",")), n.UpdatedAt.In(ctx.Engine.Location()).Format("2006-01-02 15:04"))
		rows++
	}
	if rows == 0 {
		ctx.Println("No notes found")
		return nil
	}
	ctx.Println(tbl)
	return nil
}

func containsFold(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

type NoteShowCmd struct {
	ID string `arg:"" help:"Note ID."`
}

func (c *NoteShowCmd) Run(ctx *cli.Context) error {
	n, err := cli.ResolveNote(ctx.Store(), c.ID)
	if err != nil {
		return err
	}
	ctx.Println(cli.Header(n.Title))
	if n.ProjectID != "" {
		ctx.Println(cli.Muted("project: " + cli.ProjectName(ctx.Store(), n.ProjectID)))
	}
	if len(n.Tags) > 0 {
		ctx.Println(cli.Muted("tags: " + strings.Join(n.Tags, ", ")))
	}
	ctx.Println()
	ctx.Println(n.Content)
	return nil
}

type NoteEditCmd struct {
	ID      string   `arg:"" help:"Note ID."`
	Title   *string  `help:"New title."`
	Content *string  `short:"c" help:"New body. Use - to read from stdin."`
	Project *string  `short:"P" help:"New project id or name (empty to clear)."`
	Tags    []string `short:"t" help:"Replace tags." sep:","`

	stdin io.Reader
}

func (c *NoteEditCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	n, err := cli.ResolveNote(st, c.ID)
	if err != nil {
		return err
	}
	if c.Title != nil {
		n.Title = *c.Title
	}
	if c.Content != nil {
		if n.Content, err = readContent(*c.Content, c.stdin); err != nil {
			return err
		}
	}
	if c.Project != nil {
		n.ProjectID = ""
		if *c.Project != "" {
			p, err := cli.ResolveProject(st, *c.Project)
			if err != nil {
				return err
			}
			n.ProjectID = p.ID
		}
	}
	if c.Tags != nil {
		n.Tags = c.Tags
	}
	if err := st.UpdateNote(n); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("Updated note: %s", n.Title)))
	return nil
}

type NotePinCmd struct {
	ID   string `arg:"" help:"Note ID."`
	Undo bool   `help:"Unpin instead."`
}

func (c *NotePinCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	n, err := cli.ResolveNote(st, c.ID)
	if err != nil {
		return err
	}
	if err := st.SetNotePinned(n.ID, !c.Undo); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	verb := "Pinned"
	if c.Undo {
		verb = "Unpinned"
	}
	ctx.Println(cli.Success(fmt.Sprintf("%s note: %s", verb, n.Title)))
	return nil
}

type NoteDeleteCmd struct {
	ID string `arg:"" help:"Note ID."`
}

func (c *NoteDeleteCmd) Run(ctx *cli.Context) error {
	st := ctx.Store()
	n, err := cli.ResolveNote(st, c.ID)
	if err != nil {
		return err
	}
	if err := st.DeleteNote(n.ID); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	ctx.Println(cli.Success(fmt.Sprintf("Deleted note: %s", n.Title)))
	return nil
}
