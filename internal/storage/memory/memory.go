// Package memory is the in-memory storage backend. It implements every
// store interface the domain packages declare and mirrors the PostgreSQL
// backend's semantics: sentinel errors for conflicts and misses, cascades
// on delete, and UpdatedAt stamped only when an edit changes a field. It
// backs unit tests and local development.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"pantheon/internal/cycle"
	"pantheon/internal/job"
	"pantheon/internal/roster"
	"pantheon/pkg/domain"
	"pantheon/pkg/platform/sentinel"
)

// Store holds every table behind one mutex. The dataset this serves is
// small; one lock keeps the cross-table cascades trivially atomic.
type Store struct {
	mu sync.RWMutex

	cycles     map[domain.CycleID]cycle.ProjectCycle
	volunteers map[domain.VolunteerID]roster.Volunteer
	mentors    map[domain.MentorID]roster.Mentor
	clients    map[domain.ClientID]roster.NonprofitClient
	teamRoles  map[domain.TeamRoleID]roster.TeamRole

	volunteerRoles   map[roster.VolunteerTeamRoleKey]struct{}
	clientVolunteers map[roster.ClientVolunteerKey]bool // value = currently active
	clientMentors    map[roster.ClientMentorKey]struct{}
	volunteerMentors map[roster.VolunteerMentorKey]struct{}

	jobs     map[domain.JobID]job.Job
	receipts map[domain.ReceiptID]job.ExportReceipt

	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock injects the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		cycles:           make(map[domain.CycleID]cycle.ProjectCycle),
		volunteers:       make(map[domain.VolunteerID]roster.Volunteer),
		mentors:          make(map[domain.MentorID]roster.Mentor),
		clients:          make(map[domain.ClientID]roster.NonprofitClient),
		teamRoles:        make(map[domain.TeamRoleID]roster.TeamRole),
		volunteerRoles:   make(map[roster.VolunteerTeamRoleKey]struct{}),
		clientVolunteers: make(map[roster.ClientVolunteerKey]bool),
		clientMentors:    make(map[roster.ClientMentorKey]struct{}),
		volunteerMentors: make(map[roster.VolunteerMentorKey]struct{}),
		jobs:             make(map[domain.JobID]job.Job),
		receipts:         make(map[domain.ReceiptID]job.ExportReceipt),
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// gatherRefs walks one fan-out relation of a detail view: it resolves each
// id to a ref, deduplicates, and returns a never-nil slice in a stable
// order. All three detail shapes (volunteer, mentor, client) are built from
// this one routine. A relation id whose target row is gone means a join
// entry outlived its entity; that breaks the store's own referential
// guarantee and is reported, never repaired silently.
func gatherRefs[ID comparable, Ref any](kind string, ids []ID, build func(ID) (Ref, bool), sortKey func(Ref) string) ([]Ref, error) {
	out := make([]Ref, 0, len(ids))
	seen := make(map[ID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ref, ok := build(id)
		if !ok {
			return nil, fmt.Errorf("%s relation row references a missing %s: %w", kind, kind, sentinel.ErrInvalidState)
		}
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool { return sortKey(out[i]) < sortKey(out[j]) })
	return out, nil
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func ptrEq[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
