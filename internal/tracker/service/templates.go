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
	"github.com/cuongbtq/applog/internal/tracker/view"
	"github.com/cuongbtq/applog/shared/database"
)

const templateEntity = "note template"

// TemplateService manages note templates with the same validate, transact,
// commit discipline as JobService.
type TemplateService struct {
	db           *database.Client
	store        *storage.Storage
	logger       *slog.Logger
	opts         options
	createSchema *validation.Schema
	updateSchema *validation.Schema
}

// NewTemplateService creates a TemplateService.
func NewTemplateService(db *database.Client, store *storage.Storage, logger *slog.Logger, opts ...Option) *TemplateService {
	return &TemplateService{
		db:           db,
		store:        store,
		logger:       logger,
		opts:         buildOptions(opts),
		createSchema: validation.TemplateCreateSchema(),
		updateSchema: validation.TemplateUpdateSchema(),
	}
}

// Create requires name and content.
func (s *TemplateService) Create(ctx context.Context, fields validation.Fields) (*domain.NoteTemplate, error) {
	values, err := s.createSchema.Validate(fields)
	if err != nil {
		return nil, err
	}

	now := s.opts.timestamp()
	row := &model.NoteTemplate{CreatedAt: now, UpdatedAt: now}
	applyTemplateFields(row, values)

	var created *model.NoteTemplate
	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		st := s.store.WithTx(tx)

		id, err := st.CreateTemplate(ctx, row)
		if err != nil {
			return err
		}

		created, err = st.GetTemplateByID(ctx, id)
		return err
	})
	if err != nil {
		s.logFailure(ctx, "create", 0, err)
		return nil, domain.NewPersistenceError("create note template", err)
	}

	s.logger.Info("Note template created",
		slog.Int64("template_id", created.ID),
		slog.String("name", created.Name),
	)
	s.opts.notify(ctx, s.logger, events.TemplateCreated, created.ID, now)

	tpl := created.ToDomain()
	return &tpl, nil
}

// GetByID returns nil, nil when no template has id.
func (s *TemplateService) GetByID(ctx context.Context, id int64) (*domain.NoteTemplate, error) {
	row, err := s.store.GetTemplateByID(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("get note template", err)
	}
	if row == nil {
		return nil, nil
	}
	tpl := row.ToDomain()
	return &tpl, nil
}

// GetAll returns every template ordered by name.
func (s *TemplateService) GetAll(ctx context.Context) ([]domain.NoteTemplate, error) {
	rows, err := s.store.ListTemplates(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("list note templates", err)
	}
	return templatesToDomain(rows), nil
}

// Search matches query case-insensitively against name and content. A blank
// query returns every template. Matching runs in Go so case folding is
// Unicode-aware whichever driver backs the store.
func (s *TemplateService) Search(ctx context.Context, query string) ([]domain.NoteTemplate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.GetAll(ctx)
	}

	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return view.FilterTemplates(all, query), nil
}

// Update applies name and/or content.
func (s *TemplateService) Update(ctx context.Context, id int64, fields validation.Fields) (*domain.NoteTemplate, error) {
	values, err := s.updateSchema.Validate(fields)
	if err != nil {
		return nil, err
	}

	now := s.opts.timestamp()

	var updated *model.NoteTemplate
	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		st := s.store.WithTx(tx)

		row, err := st.GetTemplateByID(ctx, id)
		if err != nil {
			return err
		}
		if row == nil {
			return &domain.NotFoundError{Entity: templateEntity, ID: id}
		}

		applyTemplateFields(row, values)
		row.UpdatedAt = now

		ok, err := st.UpdateTemplate(ctx, row)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.NotFoundError{Entity: templateEntity, ID: id}
		}

		updated, err = st.GetTemplateByID(ctx, id)
		return err
	})
	if err != nil {
		s.logFailure(ctx, "update", id, err)
		return nil, domain.NewPersistenceError("update note template", err)
	}

	s.logger.Info("Note template updated",
		slog.Int64("template_id", id),
		slog.Any("fields", fieldNames(values)),
	)
	s.opts.notify(ctx, s.logger, events.TemplateUpdated, id, now)

	tpl := updated.ToDomain()
	return &tpl, nil
}

// Delete removes the template.
func (s *TemplateService) Delete(ctx context.Context, id int64) error {
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		ok, err := s.store.WithTx(tx).DeleteTemplate(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.NotFoundError{Entity: templateEntity, ID: id}
		}
		return nil
	})
	if err != nil {
		s.logFailure(ctx, "delete", id, err)
		return domain.NewPersistenceError("delete note template", err)
	}

	s.logger.Info("Note template deleted", slog.Int64("template_id", id))
	s.opts.notify(ctx, s.logger, events.TemplateDeleted, id, s.opts.timestamp())
	return nil
}

func (s *TemplateService) logFailure(ctx context.Context, op string, id int64, err error) {
	s.logger.Log(ctx, failureLevel(err), "Note template "+op+" failed",
		slog.Int64("template_id", id),
		slog.Any("error", err),
	)
}

func applyTemplateFields(row *model.NoteTemplate, values validation.Fields) {
	if name, ok := values[validation.FieldName].(string); ok {
		row.Name = name
	}
	if content, ok := values[validation.FieldContent].(string); ok {
		row.Content = content
	}
}

func templatesToDomain(rows []model.NoteTemplate) []domain.NoteTemplate {
	out := make([]domain.NoteTemplate, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}
