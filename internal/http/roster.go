package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pantheon/internal/roster"
	"pantheon/pkg/domain"
)

// Volunteers

func (h *Handler) volunteerID(w http.ResponseWriter, r *http.Request) (domain.VolunteerID, bool) {
	id, err := domain.ParseVolunteerID(chi.URLParam(r, "volunteerID"))
	if err != nil {
		writeError(w, err)
		return domain.VolunteerID{}, false
	}
	return id, true
}

func (h *Handler) handleCreateVolunteer(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	req, ok := decode[createVolunteerRequest](w, r)
	if !ok {
		return
	}
	v, err := h.roster.CreateVolunteer(r.Context(), cycleID, req.toParams())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handler) handleCreateVolunteers(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	req, ok := decode[createVolunteersRequest](w, r)
	if !ok {
		return
	}
	params := make([]roster.CreateVolunteerParams, 0, len(req.Volunteers))
	for _, v := range req.Volunteers {
		params = append(params, v.toParams())
	}
	ids, err := h.roster.CreateVolunteers(r.Context(), cycleID, params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"created": ids})
}

// handleListVolunteers serves the global detail list, or a single lookup
// when an email query parameter is present.
func (h *Handler) handleListVolunteers(w http.ResponseWriter, r *http.Request) {
	if email := r.URL.Query().Get("email"); email != "" {
		v, err := h.roster.GetVolunteerByEmail(r.Context(), email)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
		return
	}
	details, err := h.roster.ListVolunteerDetails(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *Handler) handleListCycleVolunteers(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	details, err := h.roster.ListVolunteerDetailsByCycle(r.Context(), cycleID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *Handler) handleGetVolunteer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.volunteerID(w, r)
	if !ok {
		return
	}
	details, err := h.roster.VolunteerDetails(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *Handler) handleEditVolunteer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.volunteerID(w, r)
	if !ok {
		return
	}
	req, ok := decode[editContactRequest](w, r)
	if !ok {
		return
	}
	err := h.roster.EditVolunteer(r.Context(), id, roster.EditVolunteer{Email: req.Email, Phone: req.Phone})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteVolunteer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.volunteerID(w, r)
	if !ok {
		return
	}
	if err := h.roster.DeleteVolunteer(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Mentors

func (h *Handler) mentorID(w http.ResponseWriter, r *http.Request) (domain.MentorID, bool) {
	id, err := domain.ParseMentorID(chi.URLParam(r, "mentorID"))
	if err != nil {
		writeError(w, err)
		return domain.MentorID{}, false
	}
	return id, true
}

func (h *Handler) handleCreateMentor(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	req, ok := decode[createMentorRequest](w, r)
	if !ok {
		return
	}
	m, err := h.roster.CreateMentor(r.Context(), cycleID, req.toParams())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *Handler) handleCreateMentors(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	req, ok := decode[createMentorsRequest](w, r)
	if !ok {
		return
	}
	params := make([]roster.CreateMentorParams, 0, len(req.Mentors))
	for _, m := range req.Mentors {
		params = append(params, m.toParams())
	}
	ids, err := h.roster.CreateMentors(r.Context(), cycleID, params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"created": ids})
}

func (h *Handler) handleListCycleMentors(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	details, err := h.roster.ListMentorDetailsByCycle(r.Context(), cycleID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *Handler) handleGetMentor(w http.ResponseWriter, r *http.Request) {
	id, ok := h.mentorID(w, r)
	if !ok {
		return
	}
	details, err := h.roster.MentorDetails(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *Handler) handleLookupMentor(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	m, err := h.roster.GetMentorByEmail(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) handleEditMentor(w http.ResponseWriter, r *http.Request) {
	id, ok := h.mentorID(w, r)
	if !ok {
		return
	}
	req, ok := decode[editMentorRequest](w, r)
	if !ok {
		return
	}
	err := h.roster.EditMentor(r.Context(), id, roster.EditMentor{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteMentor(w http.ResponseWriter, r *http.Request) {
	id, ok := h.mentorID(w, r)
	if !ok {
		return
	}
	if err := h.roster.DeleteMentor(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Nonprofits

func (h *Handler) clientID(w http.ResponseWriter, r *http.Request) (domain.ClientID, bool) {
	id, err := domain.ParseClientID(chi.URLParam(r, "clientID"))
	if err != nil {
		writeError(w, err)
		return domain.ClientID{}, false
	}
	return id, true
}

func (h *Handler) handleCreateNonprofit(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	req, ok := decode[createNonprofitRequest](w, r)
	if !ok {
		return
	}
	n, err := h.roster.CreateNonprofit(r.Context(), cycleID, req.toParams())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (h *Handler) handleCreateNonprofits(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	req, ok := decode[createNonprofitsRequest](w, r)
	if !ok {
		return
	}
	params := make([]roster.CreateNonprofitParams, 0, len(req.Nonprofits))
	for _, n := range req.Nonprofits {
		params = append(params, n.toParams())
	}
	ids, err := h.roster.CreateNonprofits(r.Context(), cycleID, params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"created": ids})
}

func (h *Handler) handleListCycleNonprofits(w http.ResponseWriter, r *http.Request) {
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return
	}
	details, err := h.roster.ListNonprofitDetailsByCycle(r.Context(), cycleID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *Handler) handleGetNonprofit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.clientID(w, r)
	if !ok {
		return
	}
	details, err := h.roster.NonprofitDetails(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *Handler) handleLookupNonprofit(w http.ResponseWriter, r *http.Request) {
	orgName := r.URL.Query().Get("orgName")
	n, err := h.roster.GetNonprofitByOrgName(r.Context(), orgName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *Handler) handleEditNonprofit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.clientID(w, r)
	if !ok {
		return
	}
	req, ok := decode[editNonprofitRequest](w, r)
	if !ok {
		return
	}
	err := h.roster.EditNonprofit(r.Context(), id, roster.EditNonprofit{
		Email:      req.Email,
		EmailCC:    req.EmailCC,
		Phone:      req.Phone,
		OrgWebsite: req.OrgWebsite,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteNonprofit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.clientID(w, r)
	if !ok {
		return
	}
	if err := h.roster.DeleteNonprofit(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Team roles

func (h *Handler) handleCreateTeamRole(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[createTeamRoleRequest](w, r)
	if !ok {
		return
	}
	role, err := h.roster.CreateTeamRole(r.Context(), req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, role)
}

func (h *Handler) handleListTeamRoles(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		role, err := h.roster.GetTeamRoleByName(r.Context(), name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, role)
		return
	}
	roles, err := h.roster.ListTeamRoles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roles)
}
