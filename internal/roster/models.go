// Package roster manages volunteers, mentors, nonprofit clients, team
// roles, and the many-to-many relations between them within a project
// cycle. It also exposes the denormalized detail views that embed an
// entity's related collections.
package roster

import (
	"time"

	"pantheon/pkg/domain"
)

// Volunteer is a program participant, owned by exactly one project cycle.
// Email is unique across all volunteers, regardless of cycle.
type Volunteer struct {
	ID             domain.VolunteerID          `json:"id"`
	CreatedAt      time.Time                   `json:"createdAt"`
	UpdatedAt      *time.Time                  `json:"updatedAt"`
	ProjectCycleID domain.CycleID              `json:"projectCycleId"`
	FirstName      string                      `json:"firstName"`
	LastName       string                      `json:"lastName"`
	Email          string                      `json:"email"`
	Phone          *string                     `json:"phone"`
	Gender         domain.Gender               `json:"gender"`
	Ethnicities    []domain.Ethnicity          `json:"ethnicities"`
	AgeRange       domain.AgeRange             `json:"ageRange"`
	Universities   []string                    `json:"universities"`
	Lgbt           domain.LgbtStatus           `json:"lgbt"`
	Country        string                      `json:"country"`
	USState        *string                     `json:"usState"`
	Fli            []domain.FliStatus          `json:"fli"`
	StudentStage   domain.StudentStage         `json:"studentStage"`
	Majors         []string                    `json:"majors"`
	Minors         []string                    `json:"minors"`
	HearAbout      []domain.VolunteerHearAbout `json:"hearAbout"`
}

// Mentor is an industry mentor, owned by exactly one project cycle.
// Email is unique across all mentors, regardless of cycle.
type Mentor struct {
	ID              domain.MentorID              `json:"id"`
	CreatedAt       time.Time                    `json:"createdAt"`
	UpdatedAt       *time.Time                   `json:"updatedAt"`
	ProjectCycleID  domain.CycleID               `json:"projectCycleId"`
	FirstName       string                       `json:"firstName"`
	LastName        string                       `json:"lastName"`
	Email           string                       `json:"email"`
	Phone           *string                      `json:"phone"`
	Company         string                       `json:"company"`
	JobTitle        string                       `json:"jobTitle"`
	Country         string                       `json:"country"`
	USState         *string                      `json:"usState"`
	YearsExperience domain.MentorYearsExperience `json:"yearsExperience"`
	ExperienceLevel domain.MentorExperienceLevel `json:"experienceLevel"`
	PriorMentor     bool                         `json:"priorMentor"`
	PriorMentee     bool                         `json:"priorMentee"`
	PriorStudent    bool                         `json:"priorStudent"`
	Universities    []string                     `json:"universities"`
	HearAbout       []domain.VolunteerHearAbout  `json:"hearAbout"`
}

// NonprofitClient is a nonprofit receiving a project team this cycle.
// Uniqueness is the composite (email, cycle, org name, project name): the
// same representative may appear in several cycles, or even twice in one
// cycle under different projects.
type NonprofitClient struct {
	ID             domain.ClientID      `json:"id"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      *time.Time           `json:"updatedAt"`
	ProjectCycleID domain.CycleID       `json:"projectCycleId"`
	RepFirstName   string               `json:"representativeFirstName"`
	RepLastName    string               `json:"representativeLastName"`
	RepJobTitle    string               `json:"representativeJobTitle"`
	Email          string               `json:"email"`
	EmailCC        *string              `json:"emailCc"`
	Phone          string               `json:"phone"`
	OrgName        string               `json:"orgName"`
	ProjectName    string               `json:"projectName"`
	OrgWebsite     *string              `json:"orgWebsite"`
	CountryHQ      *string              `json:"countryHq"`
	USStateHQ      *string              `json:"usStateHq"`
	Address        string               `json:"address"`
	Size           domain.ClientSize    `json:"size"`
	ImpactCauses   []domain.ImpactCause `json:"impactCauses"`
}

// TeamRole is a catalog entry for project-team roles (engineer, designer,
// product manager, ...). These are not authorization roles. The catalog is
// cycle-independent and seeded from the known project roles; new entries
// are rare.
type TeamRole struct {
	ID          domain.TeamRoleID `json:"id"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   *time.Time        `json:"updatedAt"`
	Name        string            `json:"name"`
	Description *string           `json:"description"`
}

// Composite join keys. Each join table is primary-keyed on the full key, so
// the same pairing can never be recorded twice within a cycle.

type VolunteerTeamRoleKey struct {
	CycleID     domain.CycleID
	VolunteerID domain.VolunteerID
	RoleID      domain.TeamRoleID
}

type ClientVolunteerKey struct {
	CycleID     domain.CycleID
	ClientID    domain.ClientID
	VolunteerID domain.VolunteerID
}

type ClientMentorKey struct {
	CycleID  domain.CycleID
	ClientID domain.ClientID
	MentorID domain.MentorID
}

type VolunteerMentorKey struct {
	CycleID     domain.CycleID
	VolunteerID domain.VolunteerID
	MentorID    domain.MentorID
}

// EditVolunteer carries the mutable contact fields of a volunteer.
type EditVolunteer struct {
	Email string
	Phone *string
}

// EditMentor carries the mutable name and contact fields of a mentor.
type EditMentor struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
}

// EditNonprofit carries the mutable contact fields of a nonprofit client.
// Org name and project name stay fixed; they are part of the client's
// identity.
type EditNonprofit struct {
	Email      string
	EmailCC    *string
	Phone      string
	OrgWebsite *string
}
