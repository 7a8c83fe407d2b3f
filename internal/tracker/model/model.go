package model

import (
	"database/sql"
	"time"

	"github.com/cuongbtq/applog/internal/tracker/domain"
)

// JobApplication is a row of job_applications.
type JobApplication struct {
	ID              int64          `db:"id"`
	CompanyName     string         `db:"company_name"`
	JobTitle        string         `db:"job_title"`
	JobURL          string         `db:"job_url"`
	URLKey          sql.NullString `db:"url_key"`
	Location        string         `db:"location"`
	Description     string         `db:"description"`
	Status          string         `db:"status"`
	ApplicationDate time.Time      `db:"application_date"`
	SalaryRange     string         `db:"salary_range"`
	Notes           domain.Notes   `db:"notes"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// NoteTemplate is a row of note_templates.
type NoteTemplate struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// URLKeyFor returns the url_key column value for a job URL. Blank URLs map to
// NULL so the unique index ignores them.
func URLKeyFor(jobURL string) sql.NullString {
	key := domain.NormalizeURL(jobURL)
	return sql.NullString{String: key, Valid: key != ""}
}

// ToDomain copies the row into a DTO.
func (j *JobApplication) ToDomain() domain.JobApplication {
	notes := make(domain.Notes, len(j.Notes))
	for i, n := range j.Notes {
		notes[i] = domain.Note{Timestamp: n.Timestamp.UTC(), Note: n.Note}
	}

	return domain.JobApplication{
		ID:                   j.ID,
		CompanyName:          j.CompanyName,
		JobTitle:             j.JobTitle,
		JobURL:               j.JobURL,
		Location:             j.Location,
		Description:          j.Description,
		Status:               domain.Status(j.Status),
		ApplicationDate:      domain.NewDate(j.ApplicationDate),
		SalaryRange:          j.SalaryRange,
		SalaryRangeFormatted: domain.FormatSalary(j.SalaryRange),
		Notes:                notes,
		CreatedAt:            j.CreatedAt.UTC(),
		UpdatedAt:            j.UpdatedAt.UTC(),
	}
}

// ToDomain copies the row into a DTO.
func (t *NoteTemplate) ToDomain() domain.NoteTemplate {
	return domain.NoteTemplate{
		ID:        t.ID,
		Name:      t.Name,
		Content:   t.Content,
		CreatedAt: t.CreatedAt.UTC(),
		UpdatedAt: t.UpdatedAt.UTC(),
	}
}
