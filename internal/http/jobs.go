package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pantheon/internal/job"
	"pantheon/internal/platform/middleware"
	"pantheon/pkg/domain"
)

func (h *Handler) jobID(w http.ResponseWriter, r *http.Request) (domain.JobID, bool) {
	id, err := domain.ParseJobID(chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, err)
		return domain.JobID{}, false
	}
	return id, true
}

func (h *Handler) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[createJobRequest](w, r)
	if !ok {
		return
	}
	var cycleID *domain.CycleID
	if req.ProjectCycleID != nil {
		id, err := domain.ParseCycleID(*req.ProjectCycleID)
		if err != nil {
			writeError(w, err)
			return
		}
		cycleID = &id
	}
	j, err := h.jobs.CreateJob(r.Context(), cycleID, req.Label, req.Description, job.Details(req.Details))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, j)
}

func (h *Handler) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.ListJobs(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *Handler) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}
	j, err := h.jobs.GetJob(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (h *Handler) handleEditJob(w http.ResponseWriter, r *http.Request) {
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}
	req, ok := decode[editJobRequest](w, r)
	if !ok {
		return
	}
	err := h.jobs.EditJob(r.Context(), id, job.EditJob{Label: req.Label, Description: req.Description})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetJobStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}
	req, ok := decode[setJobStatusRequest](w, r)
	if !ok {
		return
	}
	status, err := domain.ParseJobStatus(req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.jobs.SetStatus(r.Context(), id, status, req.ErrorMessage); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}
	if err := h.jobs.CancelJob(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Imports

func (h *Handler) handleStartImport(w http.ResponseWriter, r *http.Request) {
	dto, ok := decode[startImportRequest](w, r)
	if !ok {
		return
	}
	req := dto.toRequest()
	j, err := h.imports.Start(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	// The import outlives the request; the job row is how callers track it.
	go func() {
		ctx := context.WithoutCancel(r.Context())
		if err := h.imports.Run(ctx, j.ID, req); err != nil {
			h.log.Error("airtable import failed",
				zap.String("job_id", j.ID.String()), zap.Error(err))
		}
	}()
	writeJSON(w, http.StatusAccepted, j)
}

// Exports

func (h *Handler) handleStartExport(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	principal := middleware.Principal(r.Context())
	if principal == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":             "unauthorized",
			"error_description": "export requires an authenticated operator",
		})
		return
	}
	dto, ok := decode[startExportRequest](w, r)
	if !ok {
		return
	}
	req := dto.toRequest(principal)
	req.CycleID = cycleID
	j, err := h.exports.Start(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	go func() {
		ctx := context.WithoutCancel(r.Context())
		if err := h.exports.Run(ctx, j.ID, req); err != nil {
			h.log.Error("workspace export failed",
				zap.String("job_id", j.ID.String()), zap.Error(err))
		}
	}()
	writeJSON(w, http.StatusAccepted, j)
}

func (h *Handler) handleUndoExport(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	jobID, ok := h.jobID(w, r)
	if !ok {
		return
	}
	principal := middleware.Principal(r.Context())
	if principal == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":             "unauthorized",
			"error_description": "export undo requires an authenticated operator",
		})
		return
	}
	if err := h.exports.Undo(r.Context(), cycleID, jobID, principal); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListExported(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	details, err := h.jobs.ListExportedDetails(r.Context(), cycleID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}
