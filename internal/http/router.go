package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"pantheon/internal/platform/middleware"
)

// NewRouter mounts the API. When verifier is non-nil every /api/v1 route,
// reads included, requires a bearer token; /healthz and /metrics stay open.
func NewRouter(h *Handler, verifier middleware.TokenVerifier, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if verifier != nil {
			r.Use(middleware.RequireAuth(verifier, log))
		}

		r.Route("/project-cycles", func(r chi.Router) {
			r.Post("/", h.handleCreateCycle)
			r.Get("/", h.handleListCycles)
			r.Route("/{cycleID}", func(r chi.Router) {
				r.Get("/", h.handleGetCycle)
				r.Patch("/", h.handleEditCycle)
				r.Delete("/", h.handleDeleteCycle)
				r.Get("/stats", h.handleCycleStats)

				r.Post("/volunteers", h.handleCreateVolunteer)
				r.Post("/volunteers/batch", h.handleCreateVolunteers)
				r.Get("/volunteers", h.handleListCycleVolunteers)
				r.Post("/mentors", h.handleCreateMentor)
				r.Post("/mentors/batch", h.handleCreateMentors)
				r.Get("/mentors", h.handleListCycleMentors)
				r.Post("/nonprofits", h.handleCreateNonprofit)
				r.Post("/nonprofits/batch", h.handleCreateNonprofits)
				r.Get("/nonprofits", h.handleListCycleNonprofits)

				r.Put("/nonprofits/{clientID}/volunteers/{volunteerID}", h.handleLinkClientVolunteer)
				r.Delete("/nonprofits/{clientID}/volunteers/{volunteerID}", h.handleUnlinkClientVolunteer)
				r.Put("/nonprofits/{clientID}/mentors/{mentorID}", h.handleLinkClientMentor)
				r.Delete("/nonprofits/{clientID}/mentors/{mentorID}", h.handleUnlinkClientMentor)
				r.Put("/volunteers/{volunteerID}/mentors/{mentorID}", h.handleLinkVolunteerMentor)
				r.Delete("/volunteers/{volunteerID}/mentors/{mentorID}", h.handleUnlinkVolunteerMentor)
				r.Put("/volunteers/{volunteerID}/team-roles/{roleID}", h.handleLinkVolunteerTeamRole)
				r.Delete("/volunteers/{volunteerID}/team-roles/{roleID}", h.handleUnlinkVolunteerTeamRole)

				r.Post("/exports", h.handleStartExport)
				r.Get("/exports", h.handleListExported)
				r.Post("/exports/{jobID}/undo", h.handleUndoExport)
			})
		})

		r.Route("/volunteers", func(r chi.Router) {
			r.Get("/", h.handleListVolunteers)
			r.Get("/{volunteerID}", h.handleGetVolunteer)
			r.Patch("/{volunteerID}", h.handleEditVolunteer)
			r.Delete("/{volunteerID}", h.handleDeleteVolunteer)
		})

		r.Route("/mentors", func(r chi.Router) {
			r.Get("/", h.handleLookupMentor)
			r.Get("/{mentorID}", h.handleGetMentor)
			r.Patch("/{mentorID}", h.handleEditMentor)
			r.Delete("/{mentorID}", h.handleDeleteMentor)
		})

		r.Route("/nonprofits", func(r chi.Router) {
			r.Get("/", h.handleLookupNonprofit)
			r.Get("/{clientID}", h.handleGetNonprofit)
			r.Patch("/{clientID}", h.handleEditNonprofit)
			r.Delete("/{clientID}", h.handleDeleteNonprofit)
		})

		r.Route("/team-roles", func(r chi.Router) {
			r.Post("/", h.handleCreateTeamRole)
			r.Get("/", h.handleListTeamRoles)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Post("/", h.handleCreateJob)
			r.Get("/", h.handleListJobs)
			r.Get("/{jobID}", h.handleGetJob)
			r.Patch("/{jobID}", h.handleEditJob)
			r.Post("/{jobID}/status", h.handleSetJobStatus)
			r.Post("/{jobID}/cancel", h.handleCancelJob)
		})

		r.Post("/imports", h.handleStartImport)
	})

	return r
}
