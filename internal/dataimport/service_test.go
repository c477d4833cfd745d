package dataimport_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"pantheon/internal/cycle"
	"pantheon/internal/dataimport"
	"pantheon/internal/integration/airtable"
	"pantheon/internal/job"
	"pantheon/internal/roster"
	"pantheon/internal/storage/memory"
	"pantheon/pkg/domain"
)

// fakeAirtable serves canned records per table and can fail on demand.
type fakeAirtable struct {
	records map[string][]airtable.Record
	err     error
}

func (f *fakeAirtable) ListTables(context.Context, string) ([]airtable.Table, error) {
	return nil, nil
}

func (f *fakeAirtable) ListRecords(_ context.Context, _, table string, _ airtable.ListRecordsQuery) ([]airtable.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[table], nil
}

type ImportSuite struct {
	suite.Suite
	store    *memory.Store
	airtable *fakeAirtable
	service  *dataimport.Service
	jobs     *job.Service
	roster   *roster.Service
	cycles   *cycle.Service
	ctx      context.Context
}

func TestImportSuite(t *testing.T) {
	suite.Run(t, new(ImportSuite))
}

func (s *ImportSuite) SetupTest() {
	s.store = memory.New()
	s.ctx = context.Background()
	s.cycles = cycle.NewService(s.store)
	s.roster = roster.NewService(s.store, s.store)
	s.jobs = job.NewService(s.store, s.store)
	s.airtable = &fakeAirtable{records: map[string][]airtable.Record{}}
	s.service = dataimport.NewService(s.airtable, s.cycles, s.roster, s.jobs, zap.NewNop())
}

func (s *ImportSuite) seedBase() {
	s.airtable.records = map[string][]airtable.Record{
		"Nonprofits": {{
			ID: "recN1",
			Fields: map[string]any{
				"FirstName":        "Jane",
				"LastName":         "Addams",
				"Email":            "jane@oceantrust.org",
				"OrgName":          "Ocean Trust",
				"ProjectName":      "Beach Cleanup",
				"OrgSize":          "1-5",
				"TeamMemberEmails": []any{"Ada@Example.org"},
			},
		}},
		"Volunteers": {{
			ID: "recV1",
			Fields: map[string]any{
				"FirstName":    "Ada",
				"LastName":     "Lovelace",
				"Email":        "Ada@Example.org",
				"Gender":       "woman",
				"AgeRange":     "18-24",
				"LGBT":         "prefer_not_to_say",
				"Country":      "United States",
				"StudentStage": "junior",
			},
		}},
		"Mentors": {{
			ID: "recM1",
			Fields: map[string]any{
				"FirstName":       "Grace",
				"LastName":        "Hopper",
				"Email":           "grace@example.org",
				"Company":         "Fleet Numerics",
				"JobTitle":        "Staff Engineer",
				"Country":         "United States",
				"YearsExperience": "11-15",
				"ExperienceLevel": "senior_or_executive",
				"MenteeEmails":    []any{"ada@example.org"},
				"ProjectRoles":    []any{"Team Mentor"},
				"OrgNames":        []any{"Ocean Trust"},
			},
		}},
	}
}

func (s *ImportSuite) TestStartRecordsPendingJob() {
	j, err := s.service.Start(s.ctx, dataimport.Request{BaseID: "app123", CycleName: "Spring 2026"})
	s.Require().NoError(err)
	s.Equal(domain.JobPending, j.Status)
	s.Nil(j.ProjectCycleID)
	s.Equal("import_airtable_base", j.Details[job.KeyJobType])
	s.Equal("app123", j.Details["baseId"])
}

// TestRunImportsBase walks a full import: the cycle is created and attached
// to the job, the roster lands, the relations land, and the job completes.
func (s *ImportSuite) TestRunImportsBase() {
	s.seedBase()
	req := dataimport.Request{BaseID: "app123", CycleName: "Spring 2026"}
	j, err := s.service.Start(s.ctx, req)
	s.Require().NoError(err)

	s.Require().NoError(s.service.Run(s.ctx, j.ID, req))

	got, err := s.jobs.GetJob(s.ctx, j.ID)
	s.Require().NoError(err)
	s.Equal(domain.JobComplete, got.Status)
	s.Require().NotNil(got.ProjectCycleID)
	cycleID := *got.ProjectCycleID

	v, err := s.roster.GetVolunteerByEmail(s.ctx, "ada@example.org")
	s.Require().NoError(err)
	s.Equal("Ada", v.FirstName)

	n, err := s.roster.GetNonprofitByOrgName(s.ctx, "Ocean Trust")
	s.Require().NoError(err)

	d, err := s.roster.VolunteerDetails(s.ctx, v.ID)
	s.Require().NoError(err)
	s.Require().Len(d.Clients, 1)
	s.Equal(n.ID, d.Clients[0].ID)
	s.Require().Len(d.Mentors, 1)
	s.Equal("grace@example.org", d.Mentors[0].Email)

	nd, err := s.roster.NonprofitDetails(s.ctx, n.ID)
	s.Require().NoError(err)
	s.Require().Len(nd.Mentors, 1)
	s.Equal("grace@example.org", nd.Mentors[0].Email)

	stats, err := s.cycles.Stats(s.ctx, cycleID)
	s.Require().NoError(err)
	s.Equal(int64(1), stats.NumVolunteers)
	s.Equal(int64(1), stats.NumMentors)
	s.Equal(int64(1), stats.NumNonprofits)
}

func (s *ImportSuite) TestRunRecordsFailure() {
	s.airtable.err = errors.New("airtable rate limited")
	req := dataimport.Request{BaseID: "app123", CycleName: "Spring 2026"}
	j, err := s.service.Start(s.ctx, req)
	s.Require().NoError(err)

	s.Require().Error(s.service.Run(s.ctx, j.ID, req))

	got, err := s.jobs.GetJob(s.ctx, j.ID)
	s.Require().NoError(err)
	s.Equal(domain.JobError, got.Status)
	s.Contains(got.Details[job.KeyError], "airtable rate limited")
}

func (s *ImportSuite) TestRunRejectsDuplicateCycleName() {
	_, err := s.cycles.CreateCycle(s.ctx, "Spring 2026", "")
	s.Require().NoError(err)

	req := dataimport.Request{BaseID: "app123", CycleName: "Spring 2026"}
	j, err := s.service.Start(s.ctx, req)
	s.Require().NoError(err)

	s.Require().Error(s.service.Run(s.ctx, j.ID, req))

	got, err := s.jobs.GetJob(s.ctx, j.ID)
	s.Require().NoError(err)
	s.Equal(domain.JobError, got.Status)
}
