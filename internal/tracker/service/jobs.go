package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/cuongbtq/applog/internal/tracker/domain"
	"github.com/cuongbtq/applog/internal/tracker/events"
	"github.com/cuongbtq/applog/internal/tracker/model"
	"github.com/cuongbtq/applog/internal/tracker/storage"
	"github.com/cuongbtq/applog/internal/tracker/validation"
	"github.com/cuongbtq/applog/shared/database"
)

const jobEntity = "job application"

// JobService is the only writer of job applications. Every mutation is
// validated before any store access and runs in a single transaction.
type JobService struct {
	db           *database.Client
	store        *storage.Storage
	logger       *slog.Logger
	opts         options
	createSchema *validation.Schema
	updateSchema *validation.Schema
}

// NewJobService creates a JobService.
func NewJobService(db *database.Client, store *storage.Storage, logger *slog.Logger, opts ...Option) *JobService {
	o := buildOptions(opts)
	return &JobService{
		db:           db,
		store:        store,
		logger:       logger,
		opts:         o,
		createSchema: validation.JobCreateSchema(o.requireJobURL),
		updateSchema: validation.JobUpdateSchema(o.requireJobURL),
	}
}

// CreateSchema returns the fields accepted by Create.
func (s *JobService) CreateSchema() *validation.Schema { return s.createSchema }

// UpdateSchema returns the fields accepted by Update.
func (s *JobService) UpdateSchema() *validation.Schema { return s.updateSchema }

// Create validates fields and inserts a new application. Status defaults to
// Applied and application_date to today. A job_url that is already tracked is
// rejected with a DuplicateError before a transaction is opened.
func (s *JobService) Create(ctx context.Context, fields validation.Fields) (*domain.JobApplication, error) {
	values, err := s.createSchema.Validate(fields)
	if err != nil {
		return nil, err
	}

	jobURL, _ := values[validation.FieldJobURL].(string)
	if err := s.checkDuplicate(ctx, s.store, jobURL, 0); err != nil {
		return nil, err
	}

	now := s.opts.timestamp()
	row := &model.JobApplication{
		Status:          string(domain.StatusApplied),
		ApplicationDate: domain.NewDate(now).Time,
		Notes:           domain.Notes{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	applyJobFields(row, values)

	var created *model.JobApplication
	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		st := s.store.WithTx(tx)

		id, err := st.CreateJob(ctx, row)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return &domain.DuplicateError{URL: row.JobURL}
			}
			return err
		}

		created, err = st.GetJobByID(ctx, id)
		return err
	})
	if err != nil {
		s.logFailure(ctx, "create", 0, err)
		return nil, domain.NewPersistenceError("create job application", err)
	}

	s.logger.Info("Job application created",
		slog.Int64("job_id", created.ID),
		slog.String("company_name", created.CompanyName),
	)
	s.opts.notify(ctx, s.logger, events.JobCreated, created.ID, now)

	job := created.ToDomain()
	return &job, nil
}

// GetByID returns nil, nil when no application has id.
func (s *JobService) GetByID(ctx context.Context, id int64) (*domain.JobApplication, error) {
	row, err := s.store.GetJobByID(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("get job application", err)
	}
	if row == nil {
		return nil, nil
	}
	job := row.ToDomain()
	return &job, nil
}

// GetByURL finds an application by job_url. Scheme and host case and a
// trailing slash are ignored. A blank url finds nothing.
func (s *JobService) GetByURL(ctx context.Context, jobURL string) (*domain.JobApplication, error) {
	key := domain.NormalizeURL(jobURL)
	if key == "" {
		return nil, nil
	}

	row, err := s.store.GetJobByURLKey(ctx, key)
	if err != nil {
		return nil, domain.NewPersistenceError("get job application by url", err)
	}
	if row == nil {
		return nil, nil
	}
	job := row.ToDomain()
	return &job, nil
}

// GetAll returns every application, latest application_date first.
func (s *JobService) GetAll(ctx context.Context) ([]domain.JobApplication, error) {
	rows, err := s.store.ListJobs(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("list job applications", err)
	}

	jobs := make([]domain.JobApplication, len(rows))
	for i := range rows {
		jobs[i] = rows[i].ToDomain()
	}
	return jobs, nil
}

// Update applies fields to the application. Nothing is written unless every
// field is valid and the whole change commits.
func (s *JobService) Update(ctx context.Context, id int64, fields validation.Fields) (*domain.JobApplication, error) {
	values, err := s.updateSchema.Validate(fields)
	if err != nil {
		return nil, err
	}

	now := s.opts.timestamp()

	var updated *model.JobApplication
	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		st := s.store.WithTx(tx)

		row, err := st.GetJobByID(ctx, id)
		if err != nil {
			return err
		}
		if row == nil {
			return &domain.NotFoundError{Entity: jobEntity, ID: id}
		}

		if jobURL, ok := values[validation.FieldJobURL].(string); ok {
			if err := s.checkDuplicate(ctx, st, jobURL, id); err != nil {
				return err
			}
		}

		applyJobFields(row, values)
		row.UpdatedAt = now

		if err := s.save(ctx, st, row); err != nil {
			return err
		}

		updated, err = st.GetJobByID(ctx, id)
		return err
	})
	if err != nil {
		s.logFailure(ctx, "update", id, err)
		return nil, domain.NewPersistenceError("update job application", err)
	}

	s.logger.Info("Job application updated",
		slog.Int64("job_id", id),
		slog.Any("fields", fieldNames(values)),
	)
	s.opts.notify(ctx, s.logger, events.JobUpdated, id, now)

	job := updated.ToDomain()
	return &job, nil
}

// Delete removes the application.
func (s *JobService) Delete(ctx context.Context, id int64) error {
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		ok, err := s.store.WithTx(tx).DeleteJob(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.NotFoundError{Entity: jobEntity, ID: id}
		}
		return nil
	})
	if err != nil {
		s.logFailure(ctx, "delete", id, err)
		return domain.NewPersistenceError("delete job application", err)
	}

	s.logger.Info("Job application deleted", slog.Int64("job_id", id))
	s.opts.notify(ctx, s.logger, events.JobDeleted, id, s.opts.timestamp())
	return nil
}

// AddNote appends a timestamped entry to the application's timeline. Calling
// it twice with the same text records two entries.
func (s *JobService) AddNote(ctx context.Context, id int64, text string) (*domain.JobApplication, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError("note", "is required")
	}

	now := s.opts.timestamp()

	var updated *model.JobApplication
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		st := s.store.WithTx(tx)

		row, err := st.GetJobByID(ctx, id)
		if err != nil {
			return err
		}
		if row == nil {
			return &domain.NotFoundError{Entity: jobEntity, ID: id}
		}

		row.Notes = row.Notes.Append(domain.Note{Timestamp: now, Note: text})
		row.UpdatedAt = now

		if err := s.save(ctx, st, row); err != nil {
			return err
		}

		updated, err = st.GetJobByID(ctx, id)
		return err
	})
	if err != nil {
		s.logFailure(ctx, "add note", id, err)
		return nil, domain.NewPersistenceError("add note", err)
	}

	s.logger.Info("Note added",
		slog.Int64("job_id", id),
		slog.Int("notes", len(updated.Notes)),
	)
	s.opts.notify(ctx, s.logger, events.JobNoteAdded, id, now)

	job := updated.ToDomain()
	return &job, nil
}

// save writes row, mapping a vanished row and a url_key collision to their
// typed errors.
func (s *JobService) save(ctx context.Context, st *storage.Storage, row *model.JobApplication) error {
	ok, err := st.UpdateJob(ctx, row)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return &domain.DuplicateError{URL: row.JobURL}
		}
		return err
	}
	if !ok {
		return &domain.NotFoundError{Entity: jobEntity, ID: row.ID}
	}
	return nil
}

// checkDuplicate fails with a DuplicateError when another application
// already tracks jobURL. selfID is skipped so an update may keep its own URL.
func (s *JobService) checkDuplicate(ctx context.Context, st *storage.Storage, jobURL string, selfID int64) error {
	key := model.URLKeyFor(jobURL)
	if !key.Valid {
		return nil
	}

	existing, err := st.GetJobByURLKey(ctx, key.String)
	if err != nil {
		return domain.NewPersistenceError("check duplicate job url", err)
	}
	if existing != nil && existing.ID != selfID {
		return &domain.DuplicateError{URL: jobURL, ExistingID: existing.ID}
	}
	return nil
}

func (s *JobService) logFailure(ctx context.Context, op string, id int64, err error) {
	s.logger.Log(ctx, failureLevel(err), "Job application "+op+" failed",
		slog.Int64("job_id", id),
		slog.Any("error", err),
	)
}

// applyJobFields copies validated values onto row.
func applyJobFields(row *model.JobApplication, values validation.Fields) {
	for name, value := range values {
		switch name {
		case validation.FieldCompanyName:
			row.CompanyName = value.(string)
		case validation.FieldJobTitle:
			row.JobTitle = value.(string)
		case validation.FieldJobURL:
			row.JobURL = value.(string)
			row.URLKey = model.URLKeyFor(row.JobURL)
		case validation.FieldLocation:
			row.Location = value.(string)
		case validation.FieldDescription:
			row.Description = value.(string)
		case validation.FieldStatus:
			row.Status = string(value.(domain.Status))
		case validation.FieldApplicationDate:
			row.ApplicationDate = value.(domain.Date).Time
		case validation.FieldSalaryRange:
			row.SalaryRange = value.(string)
		}
	}
}
