package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"pantheon/internal/job"
	"pantheon/pkg/domain"
	"pantheon/pkg/platform/sentinel"
)

var _ job.Store = (*Store)(nil)

func (s *Store) CreateJob(ctx context.Context, j *job.Job) error {
	details, err := json.Marshal(j.Details)
	if err != nil {
		return fmt.Errorf("encode job details: %w", err)
	}
	var cycleID *uuid.UUID
	if j.ProjectCycleID != nil {
		id := uuid.UUID(*j.ProjectCycleID)
		cycleID = &id
	}
	query := `
		INSERT INTO jobs (id, project_cycle_id, status, label, description, details, created_at)
		VALUES ($1, $2, $3::job_status, $4, $5, $6, now())
		RETURNING created_at
	`
	err = s.execer(ctx).QueryRowContext(ctx, query,
		uuid.UUID(j.ID), cycleID, string(j.Status), j.Label, j.Description, details,
	).Scan(&j.CreatedAt)
	if err != nil {
		if mapped := mapPgErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

const jobColumns = `id, created_at, updated_at, project_cycle_id, status, label, description, details`

func scanJob(row rowScanner) (*job.Job, error) {
	var (
		j       job.Job
		id      uuid.UUID
		cycleID *uuid.UUID
		status  string
		details []byte
	)
	err := row.Scan(&id, &j.CreatedAt, &j.UpdatedAt, &cycleID, &status, &j.Label, &j.Description, &details)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		if mapped := mapPgErr(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}
	j.ID = domain.JobID(id)
	if cycleID != nil {
		cid := domain.CycleID(*cycleID)
		j.ProjectCycleID = &cid
	}
	j.Status = domain.JobStatus(status)
	if err := json.Unmarshal(details, &j.Details); err != nil {
		return nil, fmt.Errorf("decode job details: %w", err)
	}
	return &j, nil
}

func (s *Store) FetchJob(ctx context.Context, id domain.JobID) (*job.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	return scanJob(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(id)))
}

func (s *Store) FetchJobs(ctx context.Context) ([]job.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY created_at`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []job.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

// UpdateJobStatus writes the status and the details error-key merge in one
// statement, so a concurrent reader never sees one without the other. A
// non-empty message sets details->'error'; a null message strips the key
// and leaves the rest of the payload byte-for-byte intact.
func (s *Store) UpdateJobStatus(ctx context.Context, id domain.JobID, status domain.JobStatus, errMsg *string) error {
	query := `
		UPDATE jobs SET
			status = $2::job_status,
			details = CASE
				WHEN $3::text IS NOT NULL THEN jsonb_set(details, '{error}', to_jsonb($3::text), true)
				ELSE details - 'error'
			END,
			updated_at = now()
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(id), string(status), errMsg)
	if err != nil {
		if mapped := mapPgErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("update job status: %w", err)
	}
	return requireRow(res, "update job status")
}

func (s *Store) SetJobCycle(ctx context.Context, id domain.JobID, cycleID domain.CycleID) error {
	query := `
		UPDATE jobs SET
			project_cycle_id = $2,
			updated_at = CASE
				WHEN project_cycle_id IS DISTINCT FROM $2 THEN now()
				ELSE updated_at
			END
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(id), uuid.UUID(cycleID))
	if err != nil {
		if mapped := mapPgErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("set job cycle: %w", err)
	}
	return requireRow(res, "set job cycle")
}

func (s *Store) EditJob(ctx context.Context, id domain.JobID, edit job.EditJob) error {
	query := `
		UPDATE jobs SET
			label       = COALESCE($2, label),
			description = COALESCE($3, description),
			updated_at  = CASE
				WHEN (label, description) IS DISTINCT FROM
				     (COALESCE($2, label), COALESCE($3, description))
				THEN now()
				ELSE updated_at
			END
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(id), edit.Label, edit.Description)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return requireRow(res, "update job")
}

func (s *Store) InsertExportReceipt(ctx context.Context, r *job.ExportReceipt) error {
	query := `
		INSERT INTO volunteers_exported_to_workspace
			(id, volunteer_id, job_id, workspace_email, org_unit, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING created_at
	`
	err := s.execer(ctx).QueryRowContext(ctx, query,
		uuid.UUID(r.ID), uuid.UUID(r.VolunteerID), uuid.UUID(r.JobID),
		r.WorkspaceEmail, r.OrgUnit,
	).Scan(&r.CreatedAt)
	if err != nil {
		if mapped := mapPgErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("insert export receipt: %w", err)
	}
	return nil
}

func (s *Store) RemoveExportReceipts(ctx context.Context, jobID domain.JobID) (int64, error) {
	res, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM volunteers_exported_to_workspace WHERE job_id = $1`, uuid.UUID(jobID))
	if err != nil {
		return 0, fmt.Errorf("delete export receipts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete export receipts: %w", err)
	}
	return n, nil
}

func (s *Store) ListExportedDetails(ctx context.Context, cycleID domain.CycleID) ([]job.ExportedVolunteerDetails, error) {
	query := `
		SELECT r.id, v.id, v.first_name, v.last_name, v.email,
		       r.workspace_email, r.org_unit, j.id, j.status, r.created_at
		FROM volunteers_exported_to_workspace r
		JOIN volunteers v ON v.id = r.volunteer_id
		JOIN jobs j ON j.id = r.job_id
		WHERE v.project_cycle_id = $1
		ORDER BY v.email
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(cycleID))
	if err != nil {
		return nil, fmt.Errorf("query exported details: %w", err)
	}
	defer rows.Close()

	out := make([]job.ExportedVolunteerDetails, 0)
	for rows.Next() {
		var (
			d                       job.ExportedVolunteerDetails
			receiptID, volID, jobID uuid.UUID
			status                  string
		)
		err := rows.Scan(&receiptID, &volID, &d.FirstName, &d.LastName, &d.Email,
			&d.WorkspaceEmail, &d.OrgUnit, &jobID, &status, &d.ExportedAt)
		if err != nil {
			return nil, fmt.Errorf("scan exported details: %w", err)
		}
		d.ReceiptID = domain.ReceiptID(receiptID)
		d.VolunteerID = domain.VolunteerID(volID)
		d.JobID = domain.JobID(jobID)
		d.JobStatus = domain.JobStatus(status)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exported details: %w", err)
	}
	return out, nil
}
