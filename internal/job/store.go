package job

import (
	"context"

	"pantheon/pkg/domain"
)

// Store persists jobs and export receipts.
//
// UpdateJobStatus applies the status write and the details error-key merge
// as one atomic update: when errMsg is non-nil and non-empty the details
// payload gains or overwrites a top-level error key; otherwise any error
// key is removed and the rest of the payload stays byte-for-byte intact.
// The store does not police the lifecycle; the service does.
type Store interface {
	CreateJob(ctx context.Context, j *Job) error
	FetchJob(ctx context.Context, id domain.JobID) (*Job, error)
	FetchJobs(ctx context.Context) ([]Job, error)
	UpdateJobStatus(ctx context.Context, id domain.JobID, status domain.JobStatus, errMsg *string) error
	SetJobCycle(ctx context.Context, id domain.JobID, cycleID domain.CycleID) error
	EditJob(ctx context.Context, id domain.JobID, edit EditJob) error

	// InsertExportReceipt returns sentinel.ErrConflict when a receipt for
	// the same (volunteer, job) pair already exists.
	InsertExportReceipt(ctx context.Context, r *ExportReceipt) error
	RemoveExportReceipts(ctx context.Context, jobID domain.JobID) (int64, error)
	ListExportedDetails(ctx context.Context, cycleID domain.CycleID) ([]ExportedVolunteerDetails, error)
}
