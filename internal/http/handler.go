package httpapi

import (
	"go.uber.org/zap"

	"pantheon/internal/cycle"
	"pantheon/internal/dataexport"
	"pantheon/internal/dataimport"
	"pantheon/internal/job"
	"pantheon/internal/roster"
)

// Handler delegates to the domain services.
type Handler struct {
	cycles  *cycle.Service
	roster  *roster.Service
	jobs    *job.Service
	imports *dataimport.Service
	exports *dataexport.Service
	log     *zap.Logger
}

func NewHandler(cycles *cycle.Service, rosterSvc *roster.Service, jobs *job.Service, imports *dataimport.Service, exports *dataexport.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		cycles:  cycles,
		roster:  rosterSvc,
		jobs:    jobs,
		imports: imports,
		exports: exports,
		log:     log,
	}
}
