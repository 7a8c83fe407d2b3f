package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/cuongbtq/applog/shared/database"
)

// Storage runs the tracker's statements against a database handle or an open
// transaction. Statements use '?' placeholders and are rebound per driver.
type Storage struct {
	q      sqlx.ExtContext
	logger *slog.Logger
}

// NewStorage creates a Storage bound to the client's connection pool.
func NewStorage(client *database.Client, logger *slog.Logger) *Storage {
	return &Storage{
		q:      client.GetDB(),
		logger: logger,
	}
}

// WithTx returns a Storage whose statements run inside tx.
func (s *Storage) WithTx(tx *sqlx.Tx) *Storage {
	return &Storage{q: tx, logger: s.logger}
}

func (s *Storage) get(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	err := sqlx.GetContext(ctx, s.q, dest, s.q.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Storage) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.q.ExecContext(ctx, s.q.Rebind(query), args...)
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
