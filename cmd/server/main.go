package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pantheon/internal/cycle"
	"pantheon/internal/dataexport"
	"pantheon/internal/dataimport"
	httpapi "pantheon/internal/http"
	"pantheon/internal/integration/airtable"
	"pantheon/internal/integration/mail"
	"pantheon/internal/integration/workspace"
	"pantheon/internal/job"
	"pantheon/internal/platform/config"
	"pantheon/internal/platform/httpserver"
	"pantheon/internal/platform/logger"
	"pantheon/internal/platform/metrics"
	"pantheon/internal/platform/middleware"
	pgplatform "pantheon/internal/platform/postgres"
	"pantheon/internal/roster"
	pgstore "pantheon/internal/storage/postgres"
	"pantheon/pkg/platform/tx"
)

// main wires storage, services, and the router; business logic lives in the
// internal packages.
func main() {
	cfg := config.FromEnv()
	log, err := logger.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := pgplatform.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	store := pgstore.New(db)
	runner := &tx.SQLRunner{DB: db}
	m := metrics.New()

	cycleSvc := cycle.NewService(store,
		cycle.WithTxRunner(runner), cycle.WithLogger(log), cycle.WithMetrics(m))
	rosterSvc := roster.NewService(store, store,
		roster.WithTxRunner(runner), roster.WithLogger(log), roster.WithMetrics(m))
	jobSvc := job.NewService(store, store,
		job.WithTxRunner(runner), job.WithLogger(log), job.WithMetrics(m))

	var airtableClient airtable.Client = airtable.Noop{}
	if cfg.Airtable.APIToken != "" {
		airtableClient = airtable.NewHTTPClient(cfg.Airtable.APIToken,
			airtable.WithBaseURL(cfg.Airtable.BaseURL))
	}
	var directory workspace.Directory = workspace.Noop{}
	if cfg.Workspace.ServiceAccountEmail != "" {
		directory, err = workspace.NewServiceAccount(workspace.Credentials{
			Email:        cfg.Workspace.ServiceAccountEmail,
			PrivateKey:   []byte(cfg.Workspace.PrivateKey),
			PrivateKeyID: cfg.Workspace.PrivateKeyID,
			TokenURL:     cfg.Workspace.TokenURL,
		})
		if err != nil {
			log.Fatal("failed to build workspace directory client", zap.Error(err))
		}
	}

	importSvc := dataimport.NewService(airtableClient, cycleSvc, rosterSvc, jobSvc, log)
	exportSvc := dataexport.NewService(directory, mail.Noop{}, cycleSvc, rosterSvc, jobSvc, log)

	handler := httpapi.NewHandler(cycleSvc, rosterSvc, jobSvc, importSvc, exportSvc, log)
	var verifier middleware.TokenVerifier
	if cfg.JWTSigningKey != "" {
		verifier = middleware.NewHS256Verifier(cfg.JWTSigningKey)
	}
	router := httpapi.NewRouter(handler, verifier, log)

	srv := httpserver.New(cfg.Addr, router)
	go func() {
		log.Info("starting server", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("graceful shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}
