package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pantheon/internal/cycle"
	"pantheon/pkg/domain"
)

func (h *Handler) cycleID(w http.ResponseWriter, r *http.Request) (domain.CycleID, bool) {
	id, err := domain.ParseCycleID(chi.URLParam(r, "cycleID"))
	if err != nil {
		writeError(w, err)
		return domain.CycleID{}, false
	}
	return id, true
}

func (h *Handler) handleCreateCycle(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[createCycleRequest](w, r)
	if !ok {
		return
	}
	c, err := h.cycles.CreateCycle(r.Context(), req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleListCycles(w http.ResponseWriter, r *http.Request) {
	cycles, err := h.cycles.ListCycles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cycles)
}

func (h *Handler) handleGetCycle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	c, err := h.cycles.GetCycle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) handleEditCycle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	req, ok := decode[editCycleRequest](w, r)
	if !ok {
		return
	}
	edit := cycle.EditCycle{
		Name:        req.Name,
		Description: req.Description,
		Archived:    req.Archived,
	}
	if err := h.cycles.EditCycle(r.Context(), id, edit); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteCycle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	if err := h.cycles.DeleteCycle(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCycleStats(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	stats, err := h.cycles.Stats(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
