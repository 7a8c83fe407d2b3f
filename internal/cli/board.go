package cli

import (
	"fmt"
	"strings"

	"github.com/cuongbtq/applog/internal/tracker/domain"
	"github.com/cuongbtq/applog/internal/tracker/view"
)

// BoardCmd prints the same derived view the HTTP board endpoint serves.
type BoardCmd struct {
	Search   string `short:"s" help:"Substring of company, title or description."`
	Company  string `help:"Exact company name."`
	Status   string `help:"Exact status. Overrides the active-only default."`
	Location string `help:"Exact location."`
	Archived bool   `help:"Also list archived applications."`
}

func (c *BoardCmd) Run(ctx *Context) error {
	f := view.Filter{Search: c.Search, Company: c.Company, Location: c.Location}
	if c.Status != "" {
		status, err := domain.ParseStatus(c.Status)
		if err != nil {
			return err
		}
		f.Status = status
	}

	if err := ctx.App.Session.Refresh(ctx); err != nil {
		return err
	}
	board := ctx.App.Session.Board(f)

	if ctx.JSONOutput {
		return writeJSON(ctx.Out, board)
	}

	if _, err := fmt.Fprintf(ctx.Out, "showing %d of %d\n", board.Counts.Filtered, board.Counts.Total); err != nil {
		return err
	}
	if err := printJobs(ctx.Out, board.Jobs); err != nil {
		return err
	}

	if c.Archived && len(board.Archived) > 0 {
		if _, err := fmt.Fprintf(ctx.Out, "\narchived (%d)\n", len(board.Archived)); err != nil {
			return err
		}
		if err := printJobs(ctx.Out, board.Archived); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(ctx.Out, "\nlocations: %s\ncompanies: %s\n",
		strings.Join(board.Locations, ", "),
		strings.Join(board.Companies, ", "))
	return err
}
