package memory

import (
	"context"
	"fmt"
	"sort"

	"pantheon/internal/job"
	"pantheon/pkg/domain"
	"pantheon/pkg/platform/sentinel"
)

var _ job.Store = (*Store)(nil)

func cloneJob(j job.Job) job.Job {
	j.UpdatedAt = cloneTimePtr(j.UpdatedAt)
	j.Description = cloneStringPtr(j.Description)
	if j.ProjectCycleID != nil {
		id := *j.ProjectCycleID
		j.ProjectCycleID = &id
	}
	j.Details = j.Details.Clone()
	return j
}

func (s *Store) CreateJob(_ context.Context, j *job.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j.CreatedAt = s.now().UTC()
	j.UpdatedAt = nil
	s.jobs[j.ID] = cloneJob(*j)
	return nil
}

func (s *Store) FetchJob(_ context.Context, id domain.JobID) (*job.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := cloneJob(j)
	return &out, nil
}

func (s *Store) FetchJobs(_ context.Context) ([]job.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]job.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, cloneJob(j))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// UpdateJobStatus writes the status and the details error-key merge under
// one lock acquisition, so no reader observes one without the other. A
// non-empty errMsg adds or overwrites the error key; a nil errMsg removes
// it; every other key is untouched.
func (s *Store) UpdateJobStatus(_ context.Context, id domain.JobID, status domain.JobStatus, errMsg *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	changed := j.Status != status
	j.Status = status
	details := j.Details.Clone()
	if details == nil {
		details = job.Details{}
	}
	if errMsg != nil {
		if prev, had := details[job.KeyError]; !had || prev != *errMsg {
			changed = true
		}
		details[job.KeyError] = *errMsg
	} else if _, had := details[job.KeyError]; had {
		delete(details, job.KeyError)
		changed = true
	}
	j.Details = details
	if changed {
		t := s.now().UTC()
		j.UpdatedAt = &t
	}
	s.jobs[id] = j
	return nil
}

func (s *Store) SetJobCycle(_ context.Context, id domain.JobID, cycleID domain.CycleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if !s.cycleRowExists(cycleID) {
		return sentinel.ErrNotFound
	}
	if j.ProjectCycleID == nil || *j.ProjectCycleID != cycleID {
		j.ProjectCycleID = &cycleID
		t := s.now().UTC()
		j.UpdatedAt = &t
	}
	s.jobs[id] = j
	return nil
}

func (s *Store) EditJob(_ context.Context, id domain.JobID, edit job.EditJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	changed := false
	if edit.Label != nil && *edit.Label != j.Label {
		j.Label = *edit.Label
		changed = true
	}
	if edit.Description != nil && !ptrEq(edit.Description, j.Description) {
		j.Description = cloneStringPtr(edit.Description)
		changed = true
	}
	if changed {
		t := s.now().UTC()
		j.UpdatedAt = &t
	}
	s.jobs[id] = j
	return nil
}

func (s *Store) InsertExportReceipt(_ context.Context, r *job.ExportReceipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.volunteerRowExists(r.VolunteerID) {
		return sentinel.ErrNotFound
	}
	if _, ok := s.jobs[r.JobID]; !ok {
		return sentinel.ErrNotFound
	}
	for _, existing := range s.receipts {
		if existing.VolunteerID == r.VolunteerID && existing.JobID == r.JobID {
			return sentinel.ErrConflict
		}
	}
	r.CreatedAt = s.now().UTC()
	s.receipts[r.ID] = *r
	return nil
}

func (s *Store) RemoveExportReceipts(_ context.Context, jobID domain.JobID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for rid, r := range s.receipts {
		if r.JobID == jobID {
			delete(s.receipts, rid)
			n++
		}
	}
	return n, nil
}

func (s *Store) ListExportedDetails(_ context.Context, cycleID domain.CycleID) ([]job.ExportedVolunteerDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]job.ExportedVolunteerDetails, 0)
	for _, r := range s.receipts {
		v, ok := s.volunteers[r.VolunteerID]
		if !ok {
			return nil, fmt.Errorf("export receipt references a missing volunteer: %w", sentinel.ErrInvalidState)
		}
		if v.ProjectCycleID != cycleID {
			continue
		}
		j, ok := s.jobs[r.JobID]
		if !ok {
			return nil, fmt.Errorf("export receipt references a missing job: %w", sentinel.ErrInvalidState)
		}
		out = append(out, job.ExportedVolunteerDetails{
			ReceiptID:      r.ID,
			VolunteerID:    v.ID,
			FirstName:      v.FirstName,
			LastName:       v.LastName,
			Email:          v.Email,
			WorkspaceEmail: r.WorkspaceEmail,
			OrgUnit:        r.OrgUnit,
			JobID:          j.ID,
			JobStatus:      j.Status,
			ExportedAt:     r.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}
