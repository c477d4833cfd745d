//go:build integration

package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"pantheon/internal/cycle"
	"pantheon/internal/job"
	"pantheon/internal/roster"
	"pantheon/internal/storage/postgres"
	"pantheon/pkg/domain"
	dErrors "pantheon/pkg/domain-errors"
	"pantheon/pkg/platform/sentinel"
	"pantheon/pkg/platform/tx"
	"pantheon/pkg/testutil/containers"
)

// PostgresStoreSuite runs the store contract against a real database:
// the same properties the in-memory suites assert, plus the pieces only
// PostgreSQL provides (fk cascades, jsonb merges, array columns, real
// transactions).
type PostgresStoreSuite struct {
	suite.Suite
	pg     *containers.PostgresContainer
	store  *postgres.Store
	runner *tx.SQLRunner
	ctx    context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed suite in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.GetPostgres(s.T())
	s.store = postgres.New(s.pg.DB)
	s.runner = &tx.SQLRunner{DB: s.pg.DB}
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx, "project_cycles", "team_roles", "jobs"))
}

func (s *PostgresStoreSuite) seedCycle(name string) *cycle.ProjectCycle {
	c := &cycle.ProjectCycle{ID: domain.CycleID(uuid.New()), Name: name}
	s.Require().NoError(s.store.CreateCycle(s.ctx, c))
	return c
}

func (s *PostgresStoreSuite) newVolunteer(cycleID domain.CycleID, email string) *roster.Volunteer {
	return &roster.Volunteer{
		ID:             domain.VolunteerID(uuid.New()),
		ProjectCycleID: cycleID,
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          email,
		Gender:         domain.GenderWoman,
		Ethnicities:    []domain.Ethnicity{domain.EthnicityAsian, domain.EthnicityWhiteOrCaucasian},
		AgeRange:       domain.AgeRange18To24,
		Universities:   []string{"MIT"},
		Lgbt:           domain.LgbtPreferNotToSay,
		Country:        "United States",
		StudentStage:   domain.StageJunior,
		Majors:         []string{"Computer Science"},
	}
}

func (s *PostgresStoreSuite) newMentor(cycleID domain.CycleID, email string) *roster.Mentor {
	return &roster.Mentor{
		ID:              domain.MentorID(uuid.New()),
		ProjectCycleID:  cycleID,
		FirstName:       "Grace",
		LastName:        "Hopper",
		Email:           email,
		Company:         "Fleet Numerics",
		JobTitle:        "Staff Engineer",
		Country:         "United States",
		YearsExperience: domain.Years11To15,
		ExperienceLevel: domain.LevelSeniorOrExecutive,
	}
}

func (s *PostgresStoreSuite) newClient(cycleID domain.CycleID, orgName, projectName string) *roster.NonprofitClient {
	return &roster.NonprofitClient{
		ID:             domain.ClientID(uuid.New()),
		ProjectCycleID: cycleID,
		RepFirstName:   "Jane",
		RepLastName:    "Addams",
		Email:          "jane@oceantrust.org",
		OrgName:        orgName,
		ProjectName:    projectName,
		Size:           domain.ClientSize1To5,
	}
}

func (s *PostgresStoreSuite) newJob(cycleID *domain.CycleID, label string) *job.Job {
	j := &job.Job{
		ID:             domain.JobID(uuid.New()),
		ProjectCycleID: cycleID,
		Status:         domain.JobPending,
		Label:          label,
		Details:        job.Details{job.KeyJobType: "export_users"},
	}
	s.Require().NoError(s.store.CreateJob(s.ctx, j))
	return j
}

func (s *PostgresStoreSuite) TestCycleRoundTrip() {
	c := s.seedCycle("Spring 2026")

	found, err := s.store.FetchCycle(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("Spring 2026", found.Name)
	s.Nil(found.UpdatedAt)

	dup := &cycle.ProjectCycle{ID: domain.CycleID(uuid.New()), Name: "Spring 2026"}
	s.Require().ErrorIs(s.store.CreateCycle(s.ctx, dup), sentinel.ErrConflict)

	s.Run("no-op edit leaves updated_at null", func() {
		name := "Spring 2026"
		s.Require().NoError(s.store.EditCycle(s.ctx, c.ID, cycle.EditCycle{Name: &name}))
		found, err := s.store.FetchCycle(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Nil(found.UpdatedAt)
	})

	s.Run("real change stamps updated_at", func() {
		archived := true
		s.Require().NoError(s.store.EditCycle(s.ctx, c.ID, cycle.EditCycle{Archived: &archived}))
		found, err := s.store.FetchCycle(s.ctx, c.ID)
		s.Require().NoError(err)
		s.NotNil(found.UpdatedAt)
		s.True(found.Archived)
	})
}

// TestVolunteerArrayColumns verifies the text[] columns survive a round
// trip through pq.Array.
func (s *PostgresStoreSuite) TestVolunteerArrayColumns() {
	c := s.seedCycle("Spring 2026")
	v := s.newVolunteer(c.ID, "ada@example.org")
	s.Require().NoError(s.store.CreateVolunteer(s.ctx, v))

	found, err := s.store.FetchVolunteer(s.ctx, v.ID)
	s.Require().NoError(err)
	s.Equal(v.Ethnicities, found.Ethnicities)
	s.Equal([]string{"MIT"}, found.Universities)
	s.Equal([]string{"Computer Science"}, found.Majors)

	// Uniqueness spans cycles.
	other := s.seedCycle("Fall 2026")
	dup := s.newVolunteer(other.ID, "ada@example.org")
	s.Require().ErrorIs(s.store.CreateVolunteer(s.ctx, dup), sentinel.ErrConflict)
}

// TestBatchRollsBackInTx drives the batch through the roster service with a
// real transaction runner: a conflicting row late in the batch must leave
// no trace of the earlier rows.
func (s *PostgresStoreSuite) TestBatchRollsBackInTx() {
	c := s.seedCycle("Spring 2026")
	svc := roster.NewService(s.store, s.store, roster.WithTxRunner(s.runner))

	taken := s.newVolunteer(c.ID, "taken@example.org")
	s.Require().NoError(s.store.CreateVolunteer(s.ctx, taken))

	params := func(email string) roster.CreateVolunteerParams {
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
	_, err := svc.CreateVolunteers(s.ctx, c.ID, []roster.CreateVolunteerParams{
		params("fresh@example.org"),
		params("taken@example.org"),
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeDuplicateKey))

	_, err = s.store.FetchVolunteerByEmail(s.ctx, "fresh@example.org")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestDeleteCycleCascades verifies the fk graph: roster rows and join rows
// go with the cycle, jobs survive with a nulled reference.
func (s *PostgresStoreSuite) TestDeleteCycleCascades() {
	c := s.seedCycle("Spring 2026")
	keep := s.seedCycle("Fall 2026")

	v := s.newVolunteer(c.ID, "ada@example.org")
	s.Require().NoError(s.store.CreateVolunteer(s.ctx, v))
	m := s.newMentor(c.ID, "grace@example.org")
	s.Require().NoError(s.store.CreateMentor(s.ctx, m))
	n := s.newClient(c.ID, "Ocean Trust", "Beach Cleanup")
	s.Require().NoError(s.store.CreateNonprofit(s.ctx, n))
	s.Require().NoError(s.store.LinkClientVolunteer(s.ctx, roster.ClientVolunteerKey{
		CycleID: c.ID, ClientID: n.ID, VolunteerID: v.ID,
	}, true))

	j := s.newJob(&c.ID, "export Spring 2026 volunteers")
	survivor := s.newVolunteer(keep.ID, "other@example.org")
	s.Require().NoError(s.store.CreateVolunteer(s.ctx, survivor))

	s.Require().NoError(s.store.DeleteCycle(s.ctx, c.ID))

	_, err := s.store.FetchVolunteer(s.ctx, v.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.FetchMentor(s.ctx, m.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.FetchNonprofit(s.ctx, n.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	got, err := s.store.FetchJob(s.ctx, j.ID)
	s.Require().NoError(err)
	s.Nil(got.ProjectCycleID)

	_, err = s.store.FetchVolunteer(s.ctx, survivor.ID)
	s.NoError(err)
}

// TestJobStatusJSONBMerge verifies the single-statement status write: the
// error key lands or leaves with the status, other keys untouched.
func (s *PostgresStoreSuite) TestJobStatusJSONBMerge() {
	c := s.seedCycle("Spring 2026")
	j := s.newJob(&c.ID, "import airtable base app123")

	msg := "airtable rate limited"
	s.Require().NoError(s.store.UpdateJobStatus(s.ctx, j.ID, domain.JobError, &msg))
	got, err := s.store.FetchJob(s.ctx, j.ID)
	s.Require().NoError(err)
	s.Equal(domain.JobError, got.Status)
	s.Equal("airtable rate limited", got.Details[job.KeyError])
	s.Equal("export_users", got.Details[job.KeyJobType])

	s.Require().NoError(s.store.UpdateJobStatus(s.ctx, j.ID, domain.JobComplete, nil))
	got, err = s.store.FetchJob(s.ctx, j.ID)
	s.Require().NoError(err)
	s.NotContains(got.Details, job.KeyError)
	s.Equal("export_users", got.Details[job.KeyJobType])
}

func (s *PostgresStoreSuite) TestExportReceipts() {
	c := s.seedCycle("Spring 2026")
	v := s.newVolunteer(c.ID, "ada@example.org")
	s.Require().NoError(s.store.CreateVolunteer(s.ctx, v))
	j := s.newJob(&c.ID, "export Spring 2026 volunteers")

	first := &job.ExportReceipt{
		ID:             domain.ReceiptID(uuid.New()),
		VolunteerID:    v.ID,
		JobID:          j.ID,
		WorkspaceEmail: "alovelace@corp.example.com",
		OrgUnit:        "/students",
	}
	s.Require().NoError(s.store.InsertExportReceipt(s.ctx, first))

	s.Run("pair uniqueness holds", func() {
		second := &job.ExportReceipt{
			ID:             domain.ReceiptID(uuid.New()),
			VolunteerID:    v.ID,
			JobID:          j.ID,
			WorkspaceEmail: "alovelace2@corp.example.com",
		}
		s.Require().ErrorIs(s.store.InsertExportReceipt(s.ctx, second), sentinel.ErrConflict)
	})

	s.Run("fk violations surface as not found", func() {
		ghost := &job.ExportReceipt{
			ID:             domain.ReceiptID(uuid.New()),
			VolunteerID:    domain.VolunteerID(uuid.New()),
			JobID:          j.ID,
			WorkspaceEmail: "ghost@corp.example.com",
		}
		s.Require().ErrorIs(s.store.InsertExportReceipt(s.ctx, ghost), sentinel.ErrNotFound)
	})

	s.Run("detail view joins the receipt and the job", func() {
		details, err := s.store.ListExportedDetails(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Require().Len(details, 1)
		s.Equal("alovelace@corp.example.com", details[0].WorkspaceEmail)
		s.Equal(domain.JobPending, details[0].JobStatus)

		d, err := s.store.VolunteerDetails(s.ctx, v.ID)
		s.Require().NoError(err)
		s.Require().NotNil(d.WorkspaceEmail)
		s.Equal("alovelace@corp.example.com", *d.WorkspaceEmail)
	})

	s.Run("removal reports the count", func() {
		n, err := s.store.RemoveExportReceipts(s.ctx, j.ID)
		s.Require().NoError(err)
		s.Equal(int64(1), n)
	})
}

func (s *PostgresStoreSuite) TestLinkSemantics() {
	c := s.seedCycle("Spring 2026")
	v := s.newVolunteer(c.ID, "ada@example.org")
	s.Require().NoError(s.store.CreateVolunteer(s.ctx, v))
	m := s.newMentor(c.ID, "grace@example.org")
	s.Require().NoError(s.store.CreateMentor(s.ctx, m))
	key := roster.VolunteerMentorKey{CycleID: c.ID, VolunteerID: v.ID, MentorID: m.ID}

	s.Require().NoError(s.store.LinkVolunteerMentor(s.ctx, key))
	s.Require().ErrorIs(s.store.LinkVolunteerMentor(s.ctx, key), sentinel.ErrConflict)

	ghost := roster.VolunteerMentorKey{
		CycleID:     c.ID,
		VolunteerID: v.ID,
		MentorID:    domain.MentorID(uuid.New()),
	}
	s.Require().ErrorIs(s.store.LinkVolunteerMentor(s.ctx, ghost), sentinel.ErrNotFound)

	s.Require().NoError(s.store.UnlinkVolunteerMentor(s.ctx, key))
	s.Require().ErrorIs(s.store.UnlinkVolunteerMentor(s.ctx, key), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDetailViews() {
	c := s.seedCycle("Spring 2026")
	v := s.newVolunteer(c.ID, "ada@example.org")
	s.Require().NoError(s.store.CreateVolunteer(s.ctx, v))
	m1 := s.newMentor(c.ID, "zoe@example.org")
	m2 := s.newMentor(c.ID, "abe@example.org")
	s.Require().NoError(s.store.CreateMentor(s.ctx, m1))
	s.Require().NoError(s.store.CreateMentor(s.ctx, m2))
	for _, m := range []*roster.Mentor{m1, m2} {
		s.Require().NoError(s.store.LinkVolunteerMentor(s.ctx, roster.VolunteerMentorKey{
			CycleID: c.ID, VolunteerID: v.ID, MentorID: m.ID,
		}))
	}

	d, err := s.store.VolunteerDetails(s.ctx, v.ID)
	s.Require().NoError(err)
	s.Equal("Spring 2026", d.ProjectCycleName)
	s.NotNil(d.Clients)
	s.Empty(d.Clients)
	s.Require().Len(d.Mentors, 2)
	s.Equal("abe@example.org", d.Mentors[0].Email)
	s.Equal("zoe@example.org", d.Mentors[1].Email)
}
