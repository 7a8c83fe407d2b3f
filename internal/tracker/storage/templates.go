package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/cuongbtq/applog/internal/tracker/model"
)

const templateColumns = `id, name, content, created_at, updated_at`

// CreateTemplate inserts tpl and returns the store-assigned id.
func (s *Storage) CreateTemplate(ctx context.Context, tpl *model.NoteTemplate) (int64, error) {
	query := `
		INSERT INTO note_templates (name, content, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`

	var id int64
	err := sqlx.GetContext(ctx, s.q, &id, s.q.Rebind(query),
		tpl.Name,
		tpl.Content,
		tpl.CreatedAt,
		tpl.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create template: %w", err)
	}

	s.logger.Debug("Note template inserted",
		slog.Int64("template_id", id),
	)

	return id, nil
}

// GetTemplateByID returns nil, nil when no row matches.
func (s *Storage) GetTemplateByID(ctx context.Context, id int64) (*model.NoteTemplate, error) {
	var tpl model.NoteTemplate
	found, err := s.get(ctx, &tpl, `SELECT `+templateColumns+` FROM note_templates WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &tpl, nil
}

// ListTemplates returns every template ordered by name.
func (s *Storage) ListTemplates(ctx context.Context) ([]model.NoteTemplate, error) {
	var tpls []model.NoteTemplate
	query := `SELECT ` + templateColumns + ` FROM note_templates ORDER BY name ASC, id ASC`
	if err := sqlx.SelectContext(ctx, s.q, &tpls, query); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return tpls, nil
}

// UpdateTemplate reports false when the row no longer exists.
func (s *Storage) UpdateTemplate(ctx context.Context, tpl *model.NoteTemplate) (bool, error) {
	query := `
		UPDATE note_templates
		SET name = ?,
			content = ?,
			updated_at = ?
		WHERE id = ?
	`

	n, err := s.exec(ctx, query, tpl.Name, tpl.Content, tpl.UpdatedAt, tpl.ID)
	if err != nil {
		return false, fmt.Errorf("failed to update template: %w", err)
	}
	return n > 0, nil
}

// DeleteTemplate reports false when no row matched.
func (s *Storage) DeleteTemplate(ctx context.Context, id int64) (bool, error) {
	n, err := s.exec(ctx, `DELETE FROM note_templates WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete template: %w", err)
	}
	return n > 0, nil
}
