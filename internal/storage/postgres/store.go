// Package postgres is the production storage backend. One Store serves
// every store interface the domain packages declare, over a shared
// *sql.DB. Statements join an ambient transaction when the service put one
// on the context, so multi-table cascades commit or roll back as a unit.
package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"pantheon/pkg/platform/sentinel"
	txcontext "pantheon/pkg/platform/tx"
)

// Store implements the cycle, roster, and job store interfaces over
// PostgreSQL.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgConnectionClass     = "08"
)

// mapPgErr folds driver errors into the sentinel set the services expect:
// unique violations become ErrConflict, foreign key violations ErrNotFound,
// and connection failures or timeouts ErrUnavailable.
func mapPgErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation:
			return sentinel.ErrConflict
		case pgErr.Code == pgForeignKeyViolation:
			return sentinel.ErrNotFound
		case strings.HasPrefix(pgErr.Code, pgConnectionClass):
			return sentinel.ErrUnavailable
		}
		return err
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return sentinel.ErrUnavailable
	}
	return err
}
