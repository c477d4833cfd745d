package roster_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"pantheon/internal/cycle"
	"pantheon/internal/roster"
	"pantheon/internal/storage/memory"
	"pantheon/pkg/domain"
	dErrors "pantheon/pkg/domain-errors"
)

type RosterServiceSuite struct {
	suite.Suite
	store   *memory.Store
	service *roster.Service
	ctx     context.Context
	cycleID domain.CycleID
}

func TestRosterServiceSuite(t *testing.T) {
	suite.Run(t, new(RosterServiceSuite))
}

func (s *RosterServiceSuite) SetupTest() {
	s.store = memory.New()
	s.service = roster.NewService(s.store, s.store)
	s.ctx = context.Background()

	c := &cycle.ProjectCycle{ID: domain.CycleID(uuid.New()), Name: "Spring 2026"}
	s.Require().NoError(s.store.CreateCycle(s.ctx, c))
	s.cycleID = c.ID
}

func volunteerParams(email string) roster.CreateVolunteerParams {
	return roster.CreateVolunteerParams{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        email,
		Gender:       "woman",
		AgeRange:     "18-24",
		Lgbt:         "prefer_not_to_say",
		Country:      "United States",
		StudentStage: "junior",
	}
}

func mentorParams(email string) roster.CreateMentorParams {
	return roster.CreateMentorParams{
		FirstName:       "Grace",
		LastName:        "Hopper",
		Email:           email,
		Company:         "Fleet Numerics",
		JobTitle:        "Staff Engineer",
		Country:         "United States",
		YearsExperience: "11-15",
		ExperienceLevel: "senior_or_executive",
	}
}

func nonprofitParams(orgName, projectName, email string) roster.CreateNonprofitParams {
	return roster.CreateNonprofitParams{
		RepFirstName: "Jane",
		RepLastName:  "Addams",
		Email:        email,
		OrgName:      orgName,
		ProjectName:  projectName,
		Size:         "1-5",
	}
}

func (s *RosterServiceSuite) TestCreateVolunteer() {
	s.Run("normalizes the email", func() {
		v, err := s.service.CreateVolunteer(s.ctx, s.cycleID, volunteerParams("  Ada@Example.ORG  "))
		s.Require().NoError(err)
		s.Equal("ada@example.org", v.Email)
	})

	s.Run("duplicate email names the unique key", func() {
		_, err := s.service.CreateVolunteer(s.ctx, s.cycleID, volunteerParams("ada@example.org"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeDuplicateKey))
		s.Contains(err.Error(), "volunteers_email_key")
	})

	s.Run("missing cycle is a constraint failure", func() {
		_, err := s.service.CreateVolunteer(s.ctx, domain.CycleID(uuid.New()), volunteerParams("new@example.org"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConstraint))
	})

	s.Run("invalid enum value is rejected before the store", func() {
		p := volunteerParams("bad@example.org")
		p.Gender = "female"
		_, err := s.service.CreateVolunteer(s.ctx, s.cycleID, p)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeDomainViolation))
	})

	s.Run("missing required field is invalid input", func() {
		p := volunteerParams("blank@example.org")
		p.FirstName = "  "
		_, err := s.service.CreateVolunteer(s.ctx, s.cycleID, p)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *RosterServiceSuite) TestCreateVolunteersBatch() {
	ids, err := s.service.CreateVolunteers(s.ctx, s.cycleID, []roster.CreateVolunteerParams{
		volunteerParams("a@example.org"),
		volunteerParams("b@example.org"),
	})
	s.Require().NoError(err)
	s.Len(ids, 2)
	s.Contains(ids, "a@example.org")
	s.Contains(ids, "b@example.org")

	// A duplicate inside the batch fails the whole batch.
	_, err = s.service.CreateVolunteers(s.ctx, s.cycleID, []roster.CreateVolunteerParams{
		volunteerParams("c@example.org"),
		volunteerParams("a@example.org"),
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeDuplicateKey))

	_, err = s.service.GetVolunteerByEmail(s.ctx, "c@example.org")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *RosterServiceSuite) TestGetVolunteerByEmail() {
	v, err := s.service.CreateVolunteer(s.ctx, s.cycleID, volunteerParams("ada@example.org"))
	s.Require().NoError(err)

	// Lookup normalizes the same way create does.
	found, err := s.service.GetVolunteerByEmail(s.ctx, " ADA@example.org ")
	s.Require().NoError(err)
	s.Equal(v.ID, found.ID)
}

func (s *RosterServiceSuite) TestEditVolunteer() {
	v, err := s.service.CreateVolunteer(s.ctx, s.cycleID, volunteerParams("ada@example.org"))
	s.Require().NoError(err)

	phone := "+1 555 0100"
	s.Require().NoError(s.service.EditVolunteer(s.ctx, v.ID, roster.EditVolunteer{
		Email: "Ada@Example.org",
		Phone: &phone,
	}))

	found, err := s.service.GetVolunteer(s.ctx, v.ID)
	s.Require().NoError(err)
	s.Equal("ada@example.org", found.Email)
	s.Equal(&phone, found.Phone)

	err = s.service.EditVolunteer(s.ctx, v.ID, roster.EditVolunteer{Email: "  "})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *RosterServiceSuite) TestCreateMentor() {
	m, err := s.service.CreateMentor(s.ctx, s.cycleID, mentorParams("grace@example.org"))
	s.Require().NoError(err)
	s.Equal(domain.Years11To15, m.YearsExperience)

	_, err = s.service.CreateMentor(s.ctx, s.cycleID, mentorParams("grace@example.org"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeDuplicateKey))
	s.Contains(err.Error(), "mentors_email_key")

	p := mentorParams("bad@example.org")
	p.ExperienceLevel = "junior"
	_, err = s.service.CreateMentor(s.ctx, s.cycleID, p)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeDomainViolation))
}

func (s *RosterServiceSuite) TestEditMentor() {
	m, err := s.service.CreateMentor(s.ctx, s.cycleID, mentorParams("grace@example.org"))
	s.Require().NoError(err)

	phone := "+1 555 0199"
	s.Require().NoError(s.service.EditMentor(s.ctx, m.ID, roster.EditMentor{
		FirstName: "Grace",
		LastName:  "Hopper-Murray",
		Email:     "Grace.Hopper@Example.org",
		Phone:     &phone,
	}))

	found, err := s.service.GetMentorByEmail(s.ctx, "grace.hopper@example.org")
	s.Require().NoError(err)
	s.Equal(m.ID, found.ID)
	s.Equal("Hopper-Murray", found.LastName)
	s.Equal(&phone, found.Phone)

	s.Run("blank name is invalid input", func() {
		err := s.service.EditMentor(s.ctx, m.ID, roster.EditMentor{
			FirstName: "",
			LastName:  "Hopper",
			Email:     "grace@example.org",
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("unknown mentor is not found", func() {
		err := s.service.EditMentor(s.ctx, domain.MentorID(uuid.New()), roster.EditMentor{
			FirstName: "Grace",
			LastName:  "Hopper",
			Email:     "grace@example.org",
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *RosterServiceSuite) TestCreateNonprofit() {
	_, err := s.service.CreateNonprofit(s.ctx, s.cycleID,
		nonprofitParams("Ocean Trust", "Beach Cleanup", "jane@oceantrust.org"))
	s.Require().NoError(err)

	s.Run("exact identity is a duplicate", func() {
		_, err := s.service.CreateNonprofit(s.ctx, s.cycleID,
			nonprofitParams("Ocean Trust", "Beach Cleanup", "jane@oceantrust.org"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeDuplicateKey))
		s.Contains(err.Error(), "nonprofit_clients_identity_key")
	})

	s.Run("a second project for the same org is allowed", func() {
		_, err := s.service.CreateNonprofit(s.ctx, s.cycleID,
			nonprofitParams("Ocean Trust", "Reef Survey", "jane@oceantrust.org"))
		s.Require().NoError(err)
	})

	s.Run("invalid size is rejected", func() {
		p := nonprofitParams("Tiny Org", "Project", "t@tiny.org")
		p.Size = "huge"
		_, err := s.service.CreateNonprofit(s.ctx, s.cycleID, p)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeDomainViolation))
	})
}

func (s *RosterServiceSuite) TestEditNonprofit() {
	n, err := s.service.CreateNonprofit(s.ctx, s.cycleID,
		nonprofitParams("Ocean Trust", "Beach Cleanup", "jane@oceantrust.org"))
	s.Require().NoError(err)

	website := "https://oceantrust.org"
	s.Require().NoError(s.service.EditNonprofit(s.ctx, n.ID, roster.EditNonprofit{
		Email:      "Contact@OceanTrust.org",
		Phone:      "+1 555 0150",
		OrgWebsite: &website,
	}))

	found, err := s.service.GetNonprofit(s.ctx, n.ID)
	s.Require().NoError(err)
	s.Equal("contact@oceantrust.org", found.Email)
	s.Equal("+1 555 0150", found.Phone)
	s.Equal(&website, found.OrgWebsite)

	s.Run("blank email is invalid input", func() {
		err := s.service.EditNonprofit(s.ctx, n.ID, roster.EditNonprofit{Email: "  "})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("unknown client is not found", func() {
		err := s.service.EditNonprofit(s.ctx, domain.ClientID(uuid.New()),
			roster.EditNonprofit{Email: "contact@oceantrust.org"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("edit onto an existing identity is a duplicate", func() {
		other, err := s.service.CreateNonprofit(s.ctx, s.cycleID,
			nonprofitParams("Ocean Trust", "Beach Cleanup", "second@oceantrust.org"))
		s.Require().NoError(err)

		err = s.service.EditNonprofit(s.ctx, other.ID,
			roster.EditNonprofit{Email: "contact@oceantrust.org", Phone: "+1 555 0150"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeDuplicateKey))
		s.Contains(err.Error(), "nonprofit_clients_identity_key")
	})
}

func (s *RosterServiceSuite) TestTeamRoles() {
	r, err := s.service.CreateTeamRole(s.ctx, "engineer", nil)
	s.Require().NoError(err)

	_, err = s.service.CreateTeamRole(s.ctx, "engineer", nil)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeDuplicateKey))

	found, err := s.service.GetTeamRoleByName(s.ctx, "engineer")
	s.Require().NoError(err)
	s.Equal(r.ID, found.ID)

	roles, err := s.service.ListTeamRoles(s.ctx)
	s.Require().NoError(err)
	s.Len(roles, 1)
}

func (s *RosterServiceSuite) TestLinkTranslations() {
	v, err := s.service.CreateVolunteer(s.ctx, s.cycleID, volunteerParams("ada@example.org"))
	s.Require().NoError(err)
	n, err := s.service.CreateNonprofit(s.ctx, s.cycleID,
		nonprofitParams("Ocean Trust", "Beach Cleanup", "jane@oceantrust.org"))
	s.Require().NoError(err)
	key := roster.ClientVolunteerKey{CycleID: s.cycleID, ClientID: n.ID, VolunteerID: v.ID}

	s.Run("relink is a duplicate relation", func() {
		s.Require().NoError(s.service.LinkClientVolunteer(s.ctx, key, true))
		err := s.service.LinkClientVolunteer(s.ctx, key, true)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeDuplicateRelation))
	})

	s.Run("link against a missing row is a constraint failure", func() {
		ghost := roster.ClientVolunteerKey{
			CycleID:     s.cycleID,
			ClientID:    domain.ClientID(uuid.New()),
			VolunteerID: v.ID,
		}
		err := s.service.LinkClientVolunteer(s.ctx, ghost, false)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConstraint))
	})

	s.Run("unlink of an absent relation is not found", func() {
		s.Require().NoError(s.service.UnlinkClientVolunteer(s.ctx, key))
		err := s.service.UnlinkClientVolunteer(s.ctx, key)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *RosterServiceSuite) TestDeleteVolunteer() {
	v, err := s.service.CreateVolunteer(s.ctx, s.cycleID, volunteerParams("ada@example.org"))
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteVolunteer(s.ctx, v.ID))

	err = s.service.DeleteVolunteer(s.ctx, v.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
