package cycle

import (
	"context"

	"pantheon/pkg/domain"
)

// Store persists project cycles. Implementations stamp CreatedAt on insert
// and UpdatedAt on edits that change at least one observable field; callers
// never supply timestamps.
//
// DeleteCycle cascades: every volunteer, mentor, nonprofit client, join row,
// and export receipt owned by the cycle is removed in the same atomic unit
// of work.
type Store interface {
	CreateCycle(ctx context.Context, c *ProjectCycle) error
	FetchCycle(ctx context.Context, id domain.CycleID) (*ProjectCycle, error)
	FetchCycleByName(ctx context.Context, name string) (*ProjectCycle, error)
	FetchCycles(ctx context.Context) ([]ProjectCycle, error)
	EditCycle(ctx context.Context, id domain.CycleID, edit EditCycle) error
	DeleteCycle(ctx context.Context, id domain.CycleID) error
	CycleStats(ctx context.Context, id domain.CycleID) (*Stats, error)
}
