package roster

import (
	"context"

	"pantheon/pkg/domain"
)

// Stores are interface-driven so the domain logic stays testable against
// the in-memory backend while production runs on PostgreSQL. Timestamps are
// stamped by implementations, never by callers; UpdatedAt moves only when
// an edit changes at least one observable field.
//
// Uniqueness breaches surface as sentinel.ErrConflict wrapped with the
// constraint name; missing rows as sentinel.ErrNotFound.

// VolunteerStore persists volunteers and their relation rows.
type VolunteerStore interface {
	CreateVolunteer(ctx context.Context, v *Volunteer) error
	CreateVolunteers(ctx context.Context, vs []*Volunteer) error
	FetchVolunteer(ctx context.Context, id domain.VolunteerID) (*Volunteer, error)
	FetchVolunteerByEmail(ctx context.Context, email string) (*Volunteer, error)
	EditVolunteer(ctx context.Context, id domain.VolunteerID, edit EditVolunteer) error
	DeleteVolunteer(ctx context.Context, id domain.VolunteerID) error

	VolunteerDetails(ctx context.Context, id domain.VolunteerID) (*VolunteerDetails, error)
	ListVolunteerDetails(ctx context.Context) ([]VolunteerDetails, error)
	ListVolunteerDetailsByCycle(ctx context.Context, cycleID domain.CycleID) ([]VolunteerDetails, error)
}

// MentorStore persists mentors.
type MentorStore interface {
	CreateMentor(ctx context.Context, m *Mentor) error
	CreateMentors(ctx context.Context, ms []*Mentor) error
	FetchMentor(ctx context.Context, id domain.MentorID) (*Mentor, error)
	FetchMentorByEmail(ctx context.Context, email string) (*Mentor, error)
	EditMentor(ctx context.Context, id domain.MentorID, edit EditMentor) error
	DeleteMentor(ctx context.Context, id domain.MentorID) error

	MentorDetails(ctx context.Context, id domain.MentorID) (*MentorDetails, error)
	ListMentorDetailsByCycle(ctx context.Context, cycleID domain.CycleID) ([]MentorDetails, error)
}

// NonprofitStore persists nonprofit clients.
type NonprofitStore interface {
	CreateNonprofit(ctx context.Context, n *NonprofitClient) error
	CreateNonprofits(ctx context.Context, ns []*NonprofitClient) error
	FetchNonprofit(ctx context.Context, id domain.ClientID) (*NonprofitClient, error)
	FetchNonprofitByOrgName(ctx context.Context, orgName string) (*NonprofitClient, error)
	EditNonprofit(ctx context.Context, id domain.ClientID, edit EditNonprofit) error
	DeleteNonprofit(ctx context.Context, id domain.ClientID) error

	NonprofitDetails(ctx context.Context, id domain.ClientID) (*NonprofitClientDetails, error)
	ListNonprofitDetailsByCycle(ctx context.Context, cycleID domain.CycleID) ([]NonprofitClientDetails, error)
}

// TeamRoleStore persists the role catalog.
type TeamRoleStore interface {
	CreateTeamRole(ctx context.Context, r *TeamRole) error
	FetchTeamRoles(ctx context.Context) ([]TeamRole, error)
	FetchTeamRoleByName(ctx context.Context, name string) (*TeamRole, error)
}

// RelationStore records many-to-many pairings. Linking an already-present
// key returns sentinel.ErrConflict; linking ids that do not reference
// existing rows returns sentinel.ErrNotFound.
type RelationStore interface {
	LinkClientVolunteer(ctx context.Context, key ClientVolunteerKey, currentlyActive bool) error
	UnlinkClientVolunteer(ctx context.Context, key ClientVolunteerKey) error
	LinkClientMentor(ctx context.Context, key ClientMentorKey) error
	UnlinkClientMentor(ctx context.Context, key ClientMentorKey) error
	LinkVolunteerMentor(ctx context.Context, key VolunteerMentorKey) error
	UnlinkVolunteerMentor(ctx context.Context, key VolunteerMentorKey) error
	LinkVolunteerTeamRole(ctx context.Context, key VolunteerTeamRoleKey) error
	UnlinkVolunteerTeamRole(ctx context.Context, key VolunteerTeamRoleKey) error
}

// Store is the full roster storage surface.
type Store interface {
	VolunteerStore
	MentorStore
	NonprofitStore
	TeamRoleStore
	RelationStore
}
