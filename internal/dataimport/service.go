// Package dataimport pulls a cohort's Airtable base into the store: one
// project cycle plus its nonprofits, volunteers, and mentors, with the
// team relations between them.
package dataimport

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pantheon/internal/cycle"
	"pantheon/internal/integration/airtable"
	"pantheon/internal/job"
	"pantheon/internal/roster"
	"pantheon/pkg/domain"
)

// Table names inside a cohort base.
const (
	tableNonprofits = "Nonprofits"
	tableVolunteers = "Volunteers"
	tableMentors    = "Mentors"
)

// Service runs Airtable base imports under a job.
type Service struct {
	airtable airtable.Client
	cycles   *cycle.Service
	roster   *roster.Service
	jobs     *job.Service
	log      *zap.Logger
}

func NewService(at airtable.Client, cycles *cycle.Service, rosterSvc *roster.Service, jobs *job.Service, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		airtable: at,
		cycles:   cycles,
		roster:   rosterSvc,
		jobs:     jobs,
		log:      log,
	}
}

// Request names the base to import and the cycle to create for it.
type Request struct {
	BaseID           string
	CycleName        string
	CycleDescription string
}

// Start records a pending import job and returns it. The import itself
// runs through Run, typically on a worker goroutine.
func (s *Service) Start(ctx context.Context, req Request) (*job.Job, error) {
	label := fmt.Sprintf("import airtable base %s", req.BaseID)
	return s.jobs.CreateJob(ctx, nil, label, nil, job.Details{
		job.KeyJobType: "import_airtable_base",
		"baseId":       req.BaseID,
	})
}

// Run executes the import for a previously created job and resolves the
// job's status: complete on success, error with the failure message
// otherwise.
func (s *Service) Run(ctx context.Context, jobID domain.JobID, req Request) error {
	err := s.runImport(ctx, jobID, req)
	if err != nil {
		msg := err.Error()
		if statusErr := s.jobs.SetStatus(ctx, jobID, domain.JobError, &msg); statusErr != nil {
			s.log.Error("failed to record import failure",
				zap.String("job_id", jobID.String()), zap.Error(statusErr))
		}
		return err
	}
	return s.jobs.SetStatus(ctx, jobID, domain.JobComplete, nil)
}

func (s *Service) runImport(ctx context.Context, jobID domain.JobID, req Request) error {
	c, err := s.cycles.CreateCycle(ctx, req.CycleName, req.CycleDescription)
	if err != nil {
		return err
	}
	// The cycle did not exist when the job was created; attach it now so
	// the job row records what the import produced.
	if err := s.jobs.SetJobCycle(ctx, jobID, c.ID); err != nil {
		return err
	}

	nonprofits, err := s.airtable.ListRecords(ctx, req.BaseID, tableNonprofits, airtable.ListRecordsQuery{})
	if err != nil {
		return fmt.Errorf("fetch nonprofits: %w", err)
	}
	volunteers, err := s.airtable.ListRecords(ctx, req.BaseID, tableVolunteers, airtable.ListRecordsQuery{})
	if err != nil {
		return fmt.Errorf("fetch volunteers: %w", err)
	}
	mentors, err := s.airtable.ListRecords(ctx, req.BaseID, tableMentors, airtable.ListRecordsQuery{})
	if err != nil {
		return fmt.Errorf("fetch mentors: %w", err)
	}

	nonprofitParams, teamsByOrg := mapNonprofits(nonprofits)
	orgIDs, err := s.roster.CreateNonprofits(ctx, c.ID, nonprofitParams)
	if err != nil {
		return fmt.Errorf("create nonprofits: %w", err)
	}
	volunteerParams := mapVolunteers(volunteers)
	volunteerIDs, err := s.roster.CreateVolunteers(ctx, c.ID, volunteerParams)
	if err != nil {
		return fmt.Errorf("create volunteers: %w", err)
	}
	mentorParams, menteesByMentor, orgsByMentor := mapMentors(mentors)
	mentorIDs, err := s.roster.CreateMentors(ctx, c.ID, mentorParams)
	if err != nil {
		return fmt.Errorf("create mentors: %w", err)
	}

	linked := 0
	for orgName, memberEmails := range teamsByOrg {
		clientID, ok := orgIDs[orgName]
		if !ok {
			continue
		}
		for _, email := range memberEmails {
			volunteerID, ok := volunteerIDs[email]
			if !ok {
				s.log.Warn("team member not found among imported volunteers",
					zap.String("org_name", orgName), zap.String("email", email))
				continue
			}
			key := roster.ClientVolunteerKey{
				CycleID:     c.ID,
				ClientID:    clientID,
				VolunteerID: volunteerID,
			}
			if err := s.roster.LinkClientVolunteer(ctx, key, true); err != nil {
				return fmt.Errorf("link volunteer to nonprofit: %w", err)
			}
			linked++
		}
	}
	for mentorEmail, menteeEmails := range menteesByMentor {
		mentorID, ok := mentorIDs[mentorEmail]
		if !ok {
			continue
		}
		for _, email := range menteeEmails {
			volunteerID, ok := volunteerIDs[email]
			if !ok {
				continue
			}
			key := roster.VolunteerMentorKey{
				CycleID:     c.ID,
				VolunteerID: volunteerID,
				MentorID:    mentorID,
			}
			if err := s.roster.LinkVolunteerMentor(ctx, key); err != nil {
				return fmt.Errorf("link volunteer to mentor: %w", err)
			}
			linked++
		}
	}
	for mentorEmail, orgNames := range orgsByMentor {
		mentorID, ok := mentorIDs[mentorEmail]
		if !ok {
			continue
		}
		for _, orgName := range orgNames {
			clientID, ok := orgIDs[orgName]
			if !ok {
				s.log.Warn("team mentor org not found among imported nonprofits",
					zap.String("org_name", orgName), zap.String("email", mentorEmail))
				continue
			}
			key := roster.ClientMentorKey{
				CycleID:  c.ID,
				ClientID: clientID,
				MentorID: mentorID,
			}
			if err := s.roster.LinkClientMentor(ctx, key); err != nil {
				return fmt.Errorf("link mentor to nonprofit: %w", err)
			}
			linked++
		}
	}

	s.log.Info("imported airtable base",
		zap.String("base_id", req.BaseID),
		zap.String("cycle_id", c.ID.String()),
		zap.Int("nonprofits", len(orgIDs)),
		zap.Int("volunteers", len(volunteerIDs)),
		zap.Int("mentors", len(mentorIDs)),
		zap.Int("relations", linked))
	return nil
}
