// Package dataexport provisions Google Workspace accounts for a cycle's
// volunteers under an export job, recording a receipt per provisioned
// account and mailing onboarding credentials.
package dataexport

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pantheon/internal/cycle"
	"pantheon/internal/integration/mail"
	"pantheon/internal/integration/workspace"
	"pantheon/internal/job"
	"pantheon/internal/roster"
	"pantheon/pkg/domain"
	dErrors "pantheon/pkg/domain-errors"
)

// Request configures one export run.
type Request struct {
	CycleID     domain.CycleID
	Principal   string
	Destination string
	OrgUnit     string
	Email       workspace.EmailPolicy
	Password    workspace.PasswordPolicy
}

// Service runs volunteer exports.
type Service struct {
	directory   workspace.Directory
	mailer      mail.Sender
	cycles      *cycle.Service
	roster      *roster.Service
	jobs        *job.Service
	log         *zap.Logger
	concurrency int
}

type Option func(*Service)

// WithConcurrency caps parallel Directory calls.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func NewService(dir workspace.Directory, mailer mail.Sender, cycles *cycle.Service, rosterSvc *roster.Service, jobs *job.Service, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		directory:   dir,
		mailer:      mailer,
		cycles:      cycles,
		roster:      rosterSvc,
		jobs:        jobs,
		log:         log,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start validates the request and records a pending export job. Archived
// cycles refuse exports outright.
func (s *Service) Start(ctx context.Context, req Request) (*job.Job, error) {
	dest, err := domain.ParseExportDestination(req.Destination)
	if err != nil {
		return nil, err
	}
	c, err := s.cycles.GetCycle(ctx, req.CycleID)
	if err != nil {
		return nil, err
	}
	if c.Archived {
		return nil, dErrors.Newf(dErrors.CodeDomainViolation,
			"cycle %q is archived and cannot export volunteers", c.Name)
	}
	label := fmt.Sprintf("export %s volunteers to %s", c.Name, dest)
	return s.jobs.CreateJob(ctx, &req.CycleID, label, nil, job.Details{
		job.KeyJobType:       "export_users",
		"export_destination": string(dest),
	})
}

// Run provisions an account for every volunteer in the cycle, records a
// receipt per success, and resolves the job status. A partial failure
// still keeps the receipts of the volunteers that made it out.
func (s *Service) Run(ctx context.Context, jobID domain.JobID, req Request) error {
	err := s.runExport(ctx, jobID, req)
	if err != nil {
		msg := err.Error()
		if statusErr := s.jobs.SetStatus(ctx, jobID, domain.JobError, &msg); statusErr != nil {
			s.log.Error("failed to record export failure",
				zap.String("job_id", jobID.String()), zap.Error(statusErr))
		}
		return err
	}
	return s.jobs.SetStatus(ctx, jobID, domain.JobComplete, nil)
}

func (s *Service) runExport(ctx context.Context, jobID domain.JobID, req Request) error {
	volunteers, err := s.roster.ListVolunteerDetailsByCycle(ctx, req.CycleID)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, v := range volunteers {
		if v.WorkspaceEmail != nil {
			// Already provisioned by an earlier export.
			continue
		}
		v := v
		g.Go(func() error {
			return s.exportVolunteer(gctx, jobID, req, v.Volunteer)
		})
	}
	return g.Wait()
}

func (s *Service) exportVolunteer(ctx context.Context, jobID domain.JobID, req Request, v roster.Volunteer) error {
	email := req.Email.BuildEmail(v.FirstName, v.LastName)
	password, err := req.Password.GeneratePassword()
	if err != nil {
		return fmt.Errorf("generate password: %w", err)
	}
	user := workspace.User{
		PrimaryEmail:              email,
		FirstName:                 v.FirstName,
		LastName:                  v.LastName,
		Password:                  password,
		OrgUnitPath:               req.OrgUnit,
		RecoveryEmail:             v.Email,
		ChangePasswordAtNextLogin: req.Password.ChangePasswordAtNextLogin,
	}
	if err := s.directory.CreateUser(ctx, req.Principal, user); err != nil {
		return fmt.Errorf("provision %s: %w", email, err)
	}
	if _, err := s.jobs.RecordExport(ctx, v.ID, jobID, email, req.OrgUnit); err != nil {
		// The duplicate-export guard means a retried run found this
		// volunteer already recorded under the job; the first receipt
		// stands.
		if dErrors.HasCode(err, dErrors.CodeDuplicateExport) {
			s.log.Warn("volunteer already exported under this job",
				zap.String("volunteer_id", v.ID.String()),
				zap.String("job_id", jobID.String()))
			return nil
		}
		return err
	}
	if err := s.mailer.SendOnboarding(ctx, mail.OnboardingMessage{
		RecipientEmail:    v.Email,
		FirstName:         v.FirstName,
		WorkspaceEmail:    email,
		TemporaryPassword: password,
	}); err != nil {
		// Account and receipt exist; a lost email is recoverable by a
		// manual resend and should not fail the export.
		s.log.Error("failed to send onboarding email",
			zap.String("volunteer_id", v.ID.String()), zap.Error(err))
	}
	return nil
}

// Undo deletes the accounts provisioned under a job and removes their
// receipts, for cancelled exports.
func (s *Service) Undo(ctx context.Context, cycleID domain.CycleID, jobID domain.JobID, principal string) error {
	exported, err := s.jobs.ListExportedDetails(ctx, cycleID)
	if err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, e := range exported {
		if e.JobID != jobID {
			continue
		}
		e := e
		g.Go(func() error {
			if err := s.directory.DeleteUser(gctx, principal, e.WorkspaceEmail); err != nil {
				return fmt.Errorf("deprovision %s: %w", e.WorkspaceEmail, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if _, err := s.jobs.UndoExport(ctx, jobID); err != nil {
		return err
	}
	return s.jobs.CancelJob(ctx, jobID)
}
