// Package cycle manages project cycles, the temporal partitions that scope
// every volunteer, mentor, and nonprofit client record.
package cycle

import (
	"strings"
	"time"

	"pantheon/pkg/domain"
	dErrors "pantheon/pkg/domain-errors"
)

// ProjectCycle is a named, time-boxed cohort.
//
// Invariants:
//   - Name is non-empty, unique across all cycles
//   - Archived cycles reject cycle-scoped export actions but keep their data
//   - CreatedAt is immutable; UpdatedAt is set by the store only when an
//     observable field actually changes
type ProjectCycle struct {
	ID          domain.CycleID `json:"id"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   *time.Time     `json:"updatedAt"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Archived    bool           `json:"archived"`
}

// EditCycle carries the new field values for an existing cycle. Nil fields
// are left unchanged.
type EditCycle struct {
	Name        *string
	Description *string
	Archived    *bool
}

// Stats summarizes a cycle's roster.
type Stats struct {
	NumVolunteers int64 `json:"numVolunteers"`
	NumNonprofits int64 `json:"numNonprofits"`
	NumMentors    int64 `json:"numMentors"`
}

// NewProjectCycle validates and constructs a cycle.
func NewProjectCycle(id domain.CycleID, name, description string) (*ProjectCycle, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "cycle name cannot be empty")
	}
	return &ProjectCycle{
		ID:          id,
		Name:        name,
		Description: description,
	}, nil
}
