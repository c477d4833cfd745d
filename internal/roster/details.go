package roster

import (
	"pantheon/pkg/domain"
)

// Detail views are read-only denormalized projections: the base entity's
// scalar fields plus its related collections, each related item reduced to
// a small ref. Empty relations are explicit empty slices, never a single
// null placeholder, and a related entity appears at most once per
// collection. The owning cycle's display name rides along with its id so
// the common "show cycle name with the record" read needs no second trip.

type ClientRef struct {
	ID          domain.ClientID `json:"id"`
	OrgName     string          `json:"orgName"`
	ProjectName string          `json:"projectName"`
	Email       string          `json:"email"`
}

type VolunteerRef struct {
	ID        domain.VolunteerID `json:"id"`
	FirstName string             `json:"firstName"`
	LastName  string             `json:"lastName"`
	Email     string             `json:"email"`
}

type MentorRef struct {
	ID        domain.MentorID `json:"id"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Email     string          `json:"email"`
	Company   string          `json:"company"`
}

type RoleRef struct {
	ID   domain.TeamRoleID `json:"id"`
	Name string            `json:"name"`
}

// VolunteerDetails embeds a volunteer's clients, mentors, and team roles,
// plus the workspace email from the latest export receipt, if any.
type VolunteerDetails struct {
	Volunteer
	ProjectCycleName string      `json:"projectCycleName"`
	WorkspaceEmail   *string     `json:"workspaceEmail"`
	Clients          []ClientRef `json:"clients"`
	Mentors          []MentorRef `json:"mentors"`
	Roles            []RoleRef   `json:"roles"`
}

// MentorDetails embeds a mentor's volunteers and clients.
type MentorDetails struct {
	Mentor
	ProjectCycleName string         `json:"projectCycleName"`
	Volunteers       []VolunteerRef `json:"volunteers"`
	Clients          []ClientRef    `json:"clients"`
}

// NonprofitClientDetails embeds a client's project team and mentors.
type NonprofitClientDetails struct {
	NonprofitClient
	ProjectCycleName string         `json:"projectCycleName"`
	Volunteers       []VolunteerRef `json:"volunteers"`
	Mentors          []MentorRef    `json:"mentors"`
}
