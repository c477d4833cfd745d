package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"pantheon/internal/cycle"
	"pantheon/pkg/domain"
	"pantheon/pkg/platform/sentinel"
)

var _ cycle.Store = (*Store)(nil)

func (s *Store) CreateCycle(ctx context.Context, c *cycle.ProjectCycle) error {
	query := `
		INSERT INTO project_cycles (id, name, description, archived, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING created_at
	`
	err := s.execer(ctx).QueryRowContext(ctx, query,
		uuid.UUID(c.ID), c.Name, c.Description, c.Archived,
	).Scan(&c.CreatedAt)
	if err != nil {
		if mapped := mapPgErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("insert cycle: %w", err)
	}
	return nil
}

const cycleColumns = `id, created_at, updated_at, name, description, archived`

func scanCycle(row *sql.Row) (*cycle.ProjectCycle, error) {
	var c cycle.ProjectCycle
	var id uuid.UUID
	err := row.Scan(&id, &c.CreatedAt, &c.UpdatedAt, &c.Name, &c.Description, &c.Archived)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		if mapped := mapPgErr(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("scan cycle: %w", err)
	}
	c.ID = domain.CycleID(id)
	return &c, nil
}

func (s *Store) FetchCycle(ctx context.Context, id domain.CycleID) (*cycle.ProjectCycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM project_cycles WHERE id = $1`
	return scanCycle(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(id)))
}

func (s *Store) FetchCycleByName(ctx context.Context, name string) (*cycle.ProjectCycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM project_cycles WHERE name = $1`
	return scanCycle(s.execer(ctx).QueryRowContext(ctx, query, name))
}

func (s *Store) FetchCycles(ctx context.Context) ([]cycle.ProjectCycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM project_cycles ORDER BY name`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	var cycles []cycle.ProjectCycle
	for rows.Next() {
		var c cycle.ProjectCycle
		var id uuid.UUID
		if err := rows.Scan(&id, &c.CreatedAt, &c.UpdatedAt, &c.Name, &c.Description, &c.Archived); err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		c.ID = domain.CycleID(id)
		cycles = append(cycles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycles: %w", err)
	}
	return cycles, nil
}

// EditCycle applies a partial update. updated_at moves only when the new
// values differ from the stored row.
func (s *Store) EditCycle(ctx context.Context, id domain.CycleID, edit cycle.EditCycle) error {
	query := `
		UPDATE project_cycles SET
			name        = COALESCE($2, name),
			description = COALESCE($3, description),
			archived    = COALESCE($4, archived),
			updated_at  = CASE
				WHEN (name, description, archived) IS DISTINCT FROM
				     (COALESCE($2, name), COALESCE($3, description), COALESCE($4, archived))
				THEN now()
				ELSE updated_at
			END
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(id), edit.Name, edit.Description, edit.Archived)
	if err != nil {
		if mapped := mapPgErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("update cycle: %w", err)
	}
	return requireRow(res, "update cycle")
}

// DeleteCycle removes the cycle row; foreign keys cascade the volunteers,
// mentors, clients, join rows, and receipts, and null out job references.
func (s *Store) DeleteCycle(ctx context.Context, id domain.CycleID) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM project_cycles WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		if mapped := mapPgErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("delete cycle: %w", err)
	}
	return requireRow(res, "delete cycle")
}

func (s *Store) CycleStats(ctx context.Context, id domain.CycleID) (*cycle.Stats, error) {
	query := `
		SELECT
			(SELECT count(*) FROM volunteers        WHERE project_cycle_id = $1),
			(SELECT count(*) FROM nonprofit_clients WHERE project_cycle_id = $1),
			(SELECT count(*) FROM mentors           WHERE project_cycle_id = $1)
	`
	var stats cycle.Stats
	err := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(id)).
		Scan(&stats.NumVolunteers, &stats.NumNonprofits, &stats.NumMentors)
	if err != nil {
		return nil, fmt.Errorf("query cycle stats: %w", err)
	}
	return &stats, nil
}

func (s *Store) CycleExists(ctx context.Context, id domain.CycleID) (bool, error) {
	var exists bool
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM project_cycles WHERE id = $1)`, uuid.UUID(id)).
		Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check cycle exists: %w", err)
	}
	return exists, nil
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
