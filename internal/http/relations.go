package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pantheon/internal/roster"
	"pantheon/pkg/domain"
	dErrors "pantheon/pkg/domain-errors"
)

func (h *Handler) teamRoleID(w http.ResponseWriter, r *http.Request) (domain.TeamRoleID, bool) {
	id, err := domain.ParseTeamRoleID(chi.URLParam(r, "roleID"))
	if err != nil {
		writeError(w, err)
		return domain.TeamRoleID{}, false
	}
	return id, true
}

func (h *Handler) clientVolunteerKey(w http.ResponseWriter, r *http.Request) (roster.ClientVolunteerKey, bool) {
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return roster.ClientVolunteerKey{}, false
	}
	clientID, ok := h.clientID(w, r)
	if !ok {
		return roster.ClientVolunteerKey{}, false
	}
	volunteerID, ok := h.volunteerID(w, r)
	if !ok {
		return roster.ClientVolunteerKey{}, false
	}
	return roster.ClientVolunteerKey{CycleID: cycleID, ClientID: clientID, VolunteerID: volunteerID}, true
}

func (h *Handler) handleLinkClientVolunteer(w http.ResponseWriter, r *http.Request) {
	key, ok := h.clientVolunteerKey(w, r)
	if !ok {
		return
	}
	// The membership body is optional; absent means currentlyActive=false.
	var req linkTeamMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed request body"))
		return
	}
	if err := h.roster.LinkClientVolunteer(r.Context(), key, req.CurrentlyActive); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUnlinkClientVolunteer(w http.ResponseWriter, r *http.Request) {
	key, ok := h.clientVolunteerKey(w, r)
	if !ok {
		return
	}
	if err := h.roster.UnlinkClientVolunteer(r.Context(), key); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clientMentorKey(w http.ResponseWriter, r *http.Request) (roster.ClientMentorKey, bool) {
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return roster.ClientMentorKey{}, false
	}
	clientID, ok := h.clientID(w, r)
	if !ok {
		return roster.ClientMentorKey{}, false
	}
	mentorID, ok := h.mentorID(w, r)
	if !ok {
		return roster.ClientMentorKey{}, false
	}
	return roster.ClientMentorKey{CycleID: cycleID, ClientID: clientID, MentorID: mentorID}, true
}

func (h *Handler) handleLinkClientMentor(w http.ResponseWriter, r *http.Request) {
	key, ok := h.clientMentorKey(w, r)
	if !ok {
		return
	}
	if err := h.roster.LinkClientMentor(r.Context(), key); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUnlinkClientMentor(w http.ResponseWriter, r *http.Request) {
	key, ok := h.clientMentorKey(w, r)
	if !ok {
		return
	}
	if err := h.roster.UnlinkClientMentor(r.Context(), key); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) volunteerMentorKey(w http.ResponseWriter, r *http.Request) (roster.VolunteerMentorKey, bool) {
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return roster.VolunteerMentorKey{}, false
	}
	volunteerID, ok := h.volunteerID(w, r)
	if !ok {
		return roster.VolunteerMentorKey{}, false
	}
	mentorID, ok := h.mentorID(w, r)
	if !ok {
		return roster.VolunteerMentorKey{}, false
	}
	return roster.VolunteerMentorKey{CycleID: cycleID, VolunteerID: volunteerID, MentorID: mentorID}, true
}

func (h *Handler) handleLinkVolunteerMentor(w http.ResponseWriter, r *http.Request) {
	key, ok := h.volunteerMentorKey(w, r)
	if !ok {
		return
	}
	if err := h.roster.LinkVolunteerMentor(r.Context(), key); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUnlinkVolunteerMentor(w http.ResponseWriter, r *http.Request) {
	key, ok := h.volunteerMentorKey(w, r)
	if !ok {
		return
	}
	if err := h.roster.UnlinkVolunteerMentor(r.Context(), key); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) volunteerTeamRoleKey(w http.ResponseWriter, r *http.Request) (roster.VolunteerTeamRoleKey, bool) {
	cycleID, ok := h.cycleID(w, r)
	if !ok {
		return roster.VolunteerTeamRoleKey{}, false
	}
	volunteerID, ok := h.volunteerID(w, r)
	if !ok {
		return roster.VolunteerTeamRoleKey{}, false
	}
	roleID, ok := h.teamRoleID(w, r)
	if !ok {
		return roster.VolunteerTeamRoleKey{}, false
	}
	return roster.VolunteerTeamRoleKey{CycleID: cycleID, VolunteerID: volunteerID, RoleID: roleID}, true
}

func (h *Handler) handleLinkVolunteerTeamRole(w http.ResponseWriter, r *http.Request) {
	key, ok := h.volunteerTeamRoleKey(w, r)
	if !ok {
		return
	}
	if err := h.roster.LinkVolunteerTeamRole(r.Context(), key); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUnlinkVolunteerTeamRole(w http.ResponseWriter, r *http.Request) {
	key, ok := h.volunteerTeamRoleKey(w, r)
	if !ok {
		return
	}
	if err := h.roster.UnlinkVolunteerTeamRole(r.Context(), key); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
