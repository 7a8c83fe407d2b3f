package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/cuongbtq/applog/internal/tracker/model"
)

const jobColumns = `
	id, company_name, job_title, job_url, url_key, location, description,
	status, application_date, salary_range, notes, created_at, updated_at
`

// CreateJob inserts job and returns the store-assigned id.
func (s *Storage) CreateJob(ctx context.Context, job *model.JobApplication) (int64, error) {
	query := `
		INSERT INTO job_applications (
			company_name, job_title, job_url, url_key, location, description,
			status, application_date, salary_range, notes, created_at, updated_at
		) VALUES (
			?, ?, ?, ?, ?, ?,
			?, ?, ?, ?, ?, ?
		)
		RETURNING id
	`

	var id int64
	err := sqlx.GetContext(ctx, s.q, &id, s.q.Rebind(query),
		job.CompanyName,
		job.JobTitle,
		job.JobURL,
		job.URLKey,
		job.Location,
		job.Description,
		job.Status,
		job.ApplicationDate,
		job.SalaryRange,
		job.Notes,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create job: %w", err)
	}

	s.logger.Debug("Job application inserted",
		slog.Int64("job_id", id),
	)

	return id, nil
}

// GetJobByID returns nil, nil when no row matches.
func (s *Storage) GetJobByID(ctx context.Context, id int64) (*model.JobApplication, error) {
	var job model.JobApplication
	found, err := s.get(ctx, &job, `SELECT `+jobColumns+` FROM job_applications WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &job, nil
}

// GetJobByURLKey looks a job up by its normalised URL; nil, nil when absent.
func (s *Storage) GetJobByURLKey(ctx context.Context, key string) (*model.JobApplication, error) {
	var job model.JobApplication
	found, err := s.get(ctx, &job, `SELECT `+jobColumns+` FROM job_applications WHERE url_key = ?`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get job by url: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &job, nil
}

// ListJobs returns every job, newest application date first; equal dates keep
// insertion order.
func (s *Storage) ListJobs(ctx context.Context) ([]model.JobApplication, error) {
	query := `SELECT ` + jobColumns + ` FROM job_applications ORDER BY application_date DESC, id ASC`

	var jobs []model.JobApplication
	if err := sqlx.SelectContext(ctx, s.q, &jobs, query); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// CountJobs returns the number of stored jobs.
func (s *Storage) CountJobs(ctx context.Context) (int, error) {
	var n int
	if _, err := s.get(ctx, &n, `SELECT COUNT(*) FROM job_applications`); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return n, nil
}

// UpdateJob writes every mutable column of job. It reports false when the row
// no longer exists.
func (s *Storage) UpdateJob(ctx context.Context, job *model.JobApplication) (bool, error) {
	query := `
		UPDATE job_applications
		SET company_name = ?,
			job_title = ?,
			job_url = ?,
			url_key = ?,
			location = ?,
			description = ?,
			status = ?,
			application_date = ?,
			salary_range = ?,
			notes = ?,
			updated_at = ?
		WHERE id = ?
	`

	n, err := s.exec(ctx, query,
		job.CompanyName,
		job.JobTitle,
		job.JobURL,
		job.URLKey,
		job.Location,
		job.Description,
		job.Status,
		job.ApplicationDate,
		job.SalaryRange,
		job.Notes,
		job.UpdatedAt,
		job.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update job: %w", err)
	}
	return n > 0, nil
}

// DeleteJob reports false when no row matched.
func (s *Storage) DeleteJob(ctx context.Context, id int64) (bool, error) {
	n, err := s.exec(ctx, `DELETE FROM job_applications WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete job: %w", err)
	}
	return n > 0, nil
}
