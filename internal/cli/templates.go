package cli

import (
	"fmt"
	"strings"

	"github.com/cuongbtq/applog/internal/tracker/domain"
	"github.com/cuongbtq/applog/internal/tracker/validation"
)

// TemplatesCmd groups the note template subcommands.
type TemplatesCmd struct {
	List   TemplatesListCmd   `cmd:"" help:"List note templates, optionally searching name and content."`
	Add    TemplatesAddCmd    `cmd:"" help:"Create a note template."`
	Update TemplatesUpdateCmd `cmd:"" help:"Rename or rewrite a note template."`
	Delete TemplatesDeleteCmd `cmd:"" help:"Delete a note template."`
}

type TemplatesListCmd struct {
	Query string `short:"q" help:"Case-insensitive substring of name or content."`
}

func (c *TemplatesListCmd) Run(ctx *Context) error {
	templates, err := ctx.App.Templates.Search(ctx, c.Query)
	if err != nil {
		return err
	}
	if ctx.JSONOutput {
		return writeJSON(ctx.Out, templates)
	}

	tw := newTable(ctx.Out)
	fmt.Fprintln(tw, "ID\tNAME\tCONTENT")
	for _, t := range templates {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", t.ID, t.Name, firstLine(t.Content))
	}
	return tw.Flush()
}

type TemplatesAddCmd struct {
	Name    string `arg:"" help:"Template name."`
	Content string `arg:"" help:"Template text."`
}

func (c *TemplatesAddCmd) Run(ctx *Context) error {
	t, err := ctx.App.Templates.Create(ctx, validation.Fields{
		validation.FieldName:    c.Name,
		validation.FieldContent: c.Content,
	})
	if err != nil {
		return err
	}
	return printTemplate(ctx, t)
}

type TemplatesUpdateCmd struct {
	ID      int64  `arg:"" help:"Template id."`
	Name    string `help:"New name."`
	Content string `help:"New content."`
}

func (c *TemplatesUpdateCmd) Run(ctx *Context) error {
	fields := validation.Fields{}
	if c.Name != "" {
		fields[validation.FieldName] = c.Name
	}
	if c.Content != "" {
		fields[validation.FieldContent] = c.Content
	}
	if len(fields) == 0 {
		return fmt.Errorf("nothing to update")
	}

	t, err := ctx.App.Templates.Update(ctx, c.ID, fields)
	if err != nil {
		return err
	}
	return printTemplate(ctx, t)
}

type TemplatesDeleteCmd struct {
	ID int64 `arg:"" help:"Template id."`
}

func (c *TemplatesDeleteCmd) Run(ctx *Context) error {
	if err := ctx.App.Templates.Delete(ctx, c.ID); err != nil {
		return err
	}
	if ctx.JSONOutput {
		return writeJSON(ctx.Out, map[string]int64{"deleted": c.ID})
	}
	_, err := fmt.Fprintf(ctx.Out, "deleted note template %d\n", c.ID)
	return err
}

func printTemplate(ctx *Context, t *domain.NoteTemplate) error {
	if ctx.JSONOutput {
		return writeJSON(ctx.Out, t)
	}
	_, err := fmt.Fprintf(ctx.Out, "%d\t%s\n%s\n", t.ID, t.Name, t.Content)
	return err
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
