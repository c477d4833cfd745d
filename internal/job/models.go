// Package job manages integration job records, their status lifecycle, and
// the export receipts integrations write while working a job.
package job

import (
	"time"

	"pantheon/pkg/domain"
)

// Details is the open payload attached to a job. Keys other than the two
// this package recognizes pass through opaquely.
type Details map[string]any

const (
	// KeyJobType discriminates what kind of work the job represents,
	// e.g. "import_airtable_base" or "export_users".
	KeyJobType = "jobType"
	// KeyError is managed exclusively by the status transition: it is
	// written when a transition carries an error message and removed when
	// one does not.
	KeyError = "error"
)

// Clone returns a shallow copy so callers can mutate without aliasing.
func (d Details) Clone() Details {
	if d == nil {
		return nil
	}
	out := make(Details, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Job is one unit of integration work. Jobs are never resurrected: a job
// that reached a terminal status stays there, and a retry is a new job.
type Job struct {
	ID             domain.JobID     `json:"id"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      *time.Time       `json:"updatedAt"`
	ProjectCycleID *domain.CycleID  `json:"projectCycleId"`
	Status         domain.JobStatus `json:"status"`
	Label          string           `json:"label"`
	Description    *string          `json:"description"`
	Details        Details          `json:"details"`
}

// EditJob carries the mutable descriptive fields of a job.
type EditJob struct {
	Label       *string
	Description *string
}

// ExportReceipt records one volunteer exported under one job. The
// (volunteer, job) pair is unique: re-running an export against the same
// job cannot double-provision an account.
type ExportReceipt struct {
	ID             domain.ReceiptID   `json:"id"`
	CreatedAt      time.Time          `json:"createdAt"`
	VolunteerID    domain.VolunteerID `json:"volunteerId"`
	JobID          domain.JobID       `json:"jobId"`
	WorkspaceEmail string             `json:"workspaceEmail"`
	OrgUnit        string             `json:"orgUnit"`
}

// ExportedVolunteerDetails joins a receipt with the volunteer it names and
// the owning job's current status, for cycle-scoped export review.
type ExportedVolunteerDetails struct {
	ReceiptID      domain.ReceiptID   `json:"receiptId"`
	VolunteerID    domain.VolunteerID `json:"volunteerId"`
	FirstName      string             `json:"firstName"`
	LastName       string             `json:"lastName"`
	Email          string             `json:"email"`
	WorkspaceEmail string             `json:"workspaceEmail"`
	OrgUnit        string             `json:"orgUnit"`
	JobID          domain.JobID       `json:"jobId"`
	JobStatus      domain.JobStatus   `json:"jobStatus"`
	ExportedAt     time.Time          `json:"exportedAt"`
}
