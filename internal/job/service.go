package job

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pantheon/internal/platform/metrics"
	"pantheon/pkg/domain"
	dErrors "pantheon/pkg/domain-errors"
	"pantheon/pkg/platform/sentinel"
	"pantheon/pkg/platform/tx"
)

// CycleReader checks cycle existence before a job is attached to one.
type CycleReader interface {
	CycleExists(ctx context.Context, id domain.CycleID) (bool, error)
}

// Service enforces the job lifecycle: pending is the only non-terminal
// status, and no transition leaves a terminal status. The details merge
// itself is the store's single atomic update; the service adds the
// lifecycle guard around it inside a transaction so a concurrent transition
// cannot slip past the read.
type Service struct {
	store   Store
	cycles  CycleReader
	tx      tx.Runner
	log     *zap.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithTxRunner(r tx.Runner) Option {
	return func(s *Service) {
		if r != nil {
			s.tx = r
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(store Store, cycles CycleReader, opts ...Option) *Service {
	s := &Service{
		store:  store,
		cycles: cycles,
		tx:     tx.NoopRunner{},
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateJob records a new pending job. The caller-supplied details may not
// pre-populate the error key; that key belongs to SetStatus.
func (s *Service) CreateJob(ctx context.Context, cycleID *domain.CycleID, label string, description *string, details Details) (*Job, error) {
	if strings.TrimSpace(label) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "job label is required")
	}
	if _, ok := details[KeyError]; ok {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "job details must not pre-populate the error key")
	}
	if cycleID != nil {
		if err := s.requireCycle(ctx, *cycleID); err != nil {
			return nil, err
		}
	}
	if details == nil {
		details = Details{}
	}
	j := &Job{
		ID:             domain.JobID(uuid.New()),
		ProjectCycleID: cycleID,
		Status:         domain.JobPending,
		Label:          strings.TrimSpace(label),
		Description:    description,
		Details:        details.Clone(),
	}
	if err := s.store.CreateJob(ctx, j); err != nil {
		return nil, translateStoreErr(err, "create job")
	}
	s.log.Info("created job",
		zap.String("job_id", j.ID.String()), zap.String("label", j.Label))
	if s.metrics != nil {
		s.metrics.RecordCreated("job")
	}
	return j, nil
}

func (s *Service) GetJob(ctx context.Context, id domain.JobID) (*Job, error) {
	if id.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "job id is required")
	}
	j, err := s.store.FetchJob(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "job %s not found", id)
		}
		return nil, translateStoreErr(err, "fetch job")
	}
	return j, nil
}

func (s *Service) ListJobs(ctx context.Context) ([]Job, error) {
	js, err := s.store.FetchJobs(ctx)
	if err != nil {
		return nil, translateStoreErr(err, "list jobs")
	}
	return js, nil
}

// SetStatus transitions a pending job to a terminal status. An empty error
// message counts as absent: the transition removes any existing error key.
func (s *Service) SetStatus(ctx context.Context, id domain.JobID, status domain.JobStatus, errMsg *string) error {
	if id.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "job id is required")
	}
	if status == domain.JobPending {
		return dErrors.New(dErrors.CodeInvariantViolation, "a job cannot transition back to pending")
	}
	if errMsg != nil && strings.TrimSpace(*errMsg) == "" {
		errMsg = nil
	}
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		j, err := s.store.FetchJob(txCtx, id)
		if err != nil {
			return err
		}
		if j.Status.Terminal() {
			return dErrors.Newf(dErrors.CodeInvariantViolation,
				"job %s is already %s and cannot transition to %s", id, j.Status, status)
		}
		return s.store.UpdateJobStatus(txCtx, id, status, errMsg)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "job %s not found", id)
		}
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return err
		}
		return translateStoreErr(err, "set job status")
	}
	s.log.Info("job transitioned",
		zap.String("job_id", id.String()), zap.String("status", string(status)))
	if s.metrics != nil {
		s.metrics.RecordJobTransition(string(status))
	}
	return nil
}

// CancelJob moves a pending job to cancelled.
func (s *Service) CancelJob(ctx context.Context, id domain.JobID) error {
	return s.SetStatus(ctx, id, domain.JobCancelled, nil)
}

// SetJobCycle attaches a cycle to a job, for imports that create the cycle
// mid-run.
func (s *Service) SetJobCycle(ctx context.Context, id domain.JobID, cycleID domain.CycleID) error {
	if id.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "job id is required")
	}
	if err := s.requireCycle(ctx, cycleID); err != nil {
		return err
	}
	if err := s.store.SetJobCycle(ctx, id, cycleID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "job %s not found", id)
		}
		return translateStoreErr(err, "set job cycle")
	}
	return nil
}

// EditJob updates the descriptive fields of a job.
func (s *Service) EditJob(ctx context.Context, id domain.JobID, edit EditJob) error {
	if id.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "job id is required")
	}
	if edit.Label != nil && strings.TrimSpace(*edit.Label) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "job label cannot be empty")
	}
	if err := s.store.EditJob(ctx, id, edit); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "job %s not found", id)
		}
		return translateStoreErr(err, "edit job")
	}
	return nil
}

// RecordExport writes a receipt for a volunteer exported under a job. The
// second attempt for the same (volunteer, job) pair is rejected and the
// first receipt stands.
func (s *Service) RecordExport(ctx context.Context, volunteerID domain.VolunteerID, jobID domain.JobID, workspaceEmail, orgUnit string) (*ExportReceipt, error) {
	if volunteerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "volunteer id is required")
	}
	if jobID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "job id is required")
	}
	if workspaceEmail == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "workspace email is required")
	}
	r := &ExportReceipt{
		ID:             domain.ReceiptID(uuid.New()),
		VolunteerID:    volunteerID,
		JobID:          jobID,
		WorkspaceEmail: workspaceEmail,
		OrgUnit:        orgUnit,
	}
	if err := s.store.InsertExportReceipt(ctx, r); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeDuplicateExport,
				"volunteer %s was already exported under job %s", volunteerID, jobID)
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeConstraint, "export receipt references a missing row")
		}
		return nil, translateStoreErr(err, "record export")
	}
	if s.metrics != nil {
		s.metrics.ExportReceipts.Inc()
	}
	return r, nil
}

// UndoExport removes every receipt recorded under a job and reports how
// many were removed.
func (s *Service) UndoExport(ctx context.Context, jobID domain.JobID) (int64, error) {
	if jobID.IsNil() {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "job id is required")
	}
	var n int64
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		n, err = s.store.RemoveExportReceipts(txCtx, jobID)
		return err
	})
	if err != nil {
		return 0, translateStoreErr(err, "undo export")
	}
	s.log.Info("removed export receipts",
		zap.String("job_id", jobID.String()), zap.Int64("count", n))
	return n, nil
}

// ListExportedDetails returns the exported-volunteer view for a cycle.
func (s *Service) ListExportedDetails(ctx context.Context, cycleID domain.CycleID) ([]ExportedVolunteerDetails, error) {
	if err := s.requireCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	ds, err := s.store.ListExportedDetails(ctx, cycleID)
	if err != nil {
		return nil, translateStoreErr(err, "list exported details")
	}
	return ds, nil
}

func (s *Service) requireCycle(ctx context.Context, id domain.CycleID) error {
	if id.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "project cycle id is required")
	}
	ok, err := s.cycles.CycleExists(ctx, id)
	if err != nil {
		return translateStoreErr(err, "check cycle")
	}
	if !ok {
		return dErrors.Newf(dErrors.CodeConstraint, "project cycle %s does not exist", id)
	}
	return nil
}

func translateStoreErr(err error, op string) error {
	switch {
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, op)
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.Wrap(err, dErrors.CodeInternalConsistency, op)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, op)
}
