package cli

import (
	"fmt"
	"io"

	"github.com/cuongbtq/applog/internal/tracker/domain"
	"github.com/cuongbtq/applog/internal/tracker/validation"
	"github.com/cuongbtq/applog/internal/tracker/view"
)

// JobsCmd groups the job application subcommands.
type JobsCmd struct {
	List   JobsListCmd   `cmd:"" help:"List job applications."`
	Show   JobsShowCmd   `cmd:"" help:"Show one job application with its notes."`
	Add    JobsAddCmd    `cmd:"" help:"Track a new job application."`
	Update JobsUpdateCmd `cmd:"" help:"Change fields of a job application."`
	Delete JobsDeleteCmd `cmd:"" help:"Delete a job application."`
	Note   JobsNoteCmd   `cmd:"" help:"Append a note to a job application."`
}

// JobFlags are shared by add and update. Empty flags are left out of the
// submitted fields.
type JobFlags struct {
	Company     string `name:"company" help:"Company name."`
	Title       string `name:"title" help:"Job title."`
	URL         string `name:"url" help:"Posting URL."`
	Location    string `name:"location" help:"Location."`
	Description string `name:"description" help:"Free-form description."`
	Date        string `name:"date" help:"Application date (YYYY-MM-DD)."`
	Salary      string `name:"salary" help:"Salary range as entered."`
}

func (f JobFlags) fields() validation.Fields {
	out := validation.Fields{}
	set := func(name, value string) {
		if value != "" {
			out[name] = value
		}
	}
	set(validation.FieldCompanyName, f.Company)
	set(validation.FieldJobTitle, f.Title)
	set(validation.FieldJobURL, f.URL)
	set(validation.FieldLocation, f.Location)
	set(validation.FieldDescription, f.Description)
	set(validation.FieldApplicationDate, f.Date)
	set(validation.FieldSalaryRange, f.Salary)
	return out
}

type JobsListCmd struct {
	Archived bool `help:"Only archived applications." xor:"scope"`
	Active   bool `help:"Only active applications." xor:"scope"`
}

func (c *JobsListCmd) Run(ctx *Context) error {
	jobs, err := ctx.App.Jobs.GetAll(ctx)
	if err != nil {
		return err
	}

	switch {
	case c.Archived:
		jobs = view.Archived(jobs)
	case c.Active:
		jobs = view.Active(jobs)
	}

	if ctx.JSONOutput {
		return writeJSON(ctx.Out, jobs)
	}
	return printJobs(ctx.Out, jobs)
}

type JobsShowCmd struct {
	ID int64 `arg:"" help:"Job application id."`
}

func (c *JobsShowCmd) Run(ctx *Context) error {
	job, err := ctx.App.Jobs.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	if job == nil {
		return &domain.NotFoundError{Entity: "job application", ID: c.ID}
	}
	return printJob(ctx, job)
}

type JobsAddCmd struct {
	JobFlags `embed:""`
}

func (c *JobsAddCmd) Run(ctx *Context) error {
	job, err := ctx.App.Jobs.Create(ctx, c.fields())
	if err != nil {
		return err
	}
	return printJob(ctx, job)
}

type JobsUpdateCmd struct {
	ID int64 `arg:"" help:"Job application id."`

	JobFlags `embed:""`

	Status string   `help:"Pipeline status."`
	Clear  []string `help:"Optional fields to blank (location, description, salary_range, job_url)."`
}

func (c *JobsUpdateCmd) Run(ctx *Context) error {
	fields := c.fields()
	if c.Status != "" {
		fields[validation.FieldStatus] = c.Status
	}
	for _, name := range c.Clear {
		fields[name] = ""
	}
	if len(fields) == 0 {
		return fmt.Errorf("nothing to update")
	}

	job, err := ctx.App.Jobs.Update(ctx, c.ID, fields)
	if err != nil {
		return err
	}
	return printJob(ctx, job)
}

type JobsDeleteCmd struct {
	ID int64 `arg:"" help:"Job application id."`
}

func (c *JobsDeleteCmd) Run(ctx *Context) error {
	if err := ctx.App.Jobs.Delete(ctx, c.ID); err != nil {
		return err
	}
	if ctx.JSONOutput {
		return writeJSON(ctx.Out, map[string]int64{"deleted": c.ID})
	}
	_, err := fmt.Fprintf(ctx.Out, "deleted job application %d\n", c.ID)
	return err
}

type JobsNoteCmd struct {
	ID       int64  `arg:"" help:"Job application id."`
	Text     string `arg:"" optional:"" help:"Note text."`
	Template int64  `help:"Append the content of this note template to the text."`
}

func (c *JobsNoteCmd) Run(ctx *Context) error {
	text := c.Text
	if c.Template != 0 {
		tpl, err := ctx.App.Templates.GetByID(ctx, c.Template)
		if err != nil {
			return err
		}
		if tpl == nil {
			return &domain.NotFoundError{Entity: "note template", ID: c.Template}
		}
		text = view.InsertTemplateText(text, tpl.Content)
	}

	job, err := ctx.App.Jobs.AddNote(ctx, c.ID, text)
	if err != nil {
		return err
	}
	return printJob(ctx, job)
}

func printJobs(w io.Writer, jobs []domain.JobApplication) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCOMPANY\tTITLE\tLOCATION\tSTATUS\tAPPLIED\tSALARY")
	for _, j := range jobs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			j.ID, j.CompanyName, j.JobTitle, j.Location, j.Status, j.ApplicationDate, j.SalaryRangeFormatted)
	}
	return tw.Flush()
}

func printJob(ctx *Context, job *domain.JobApplication) error {
	if ctx.JSONOutput {
		return writeJSON(ctx.Out, job)
	}

	tw := newTable(ctx.Out)
	fmt.Fprintf(tw, "id:\t%d\n", job.ID)
	fmt.Fprintf(tw, "company:\t%s\n", job.CompanyName)
	fmt.Fprintf(tw, "title:\t%s\n", job.JobTitle)
	fmt.Fprintf(tw, "url:\t%s\n", job.JobURL)
	fmt.Fprintf(tw, "location:\t%s\n", job.Location)
	fmt.Fprintf(tw, "status:\t%s\n", job.Status)
	fmt.Fprintf(tw, "applied:\t%s\n", job.ApplicationDate)
	fmt.Fprintf(tw, "salary:\t%s\n", job.SalaryRangeFormatted)
	if job.Description != "" {
		fmt.Fprintf(tw, "description:\t%s\n", job.Description)
	}
	for _, n := range view.NotesNewestFirst(job.Notes) {
		fmt.Fprintf(tw, "note %s:\t%s\n", n.Timestamp.Format("2006-01-02 15:04"), n.Note)
	}
	return tw.Flush()
}
