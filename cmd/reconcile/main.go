package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/astroarts/contest/internal/adapters/repository/postgres"
	"github.com/astroarts/contest/internal/config"
	"github.com/astroarts/contest/internal/core/services"
	"github.com/astroarts/contest/internal/logger"
)

// Recomputes every submission's vote counter from the raw vote sets. Run
// periodically to heal drift left by interrupted vote toggles.
func main() {
	log := logger.New("reconcile")

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	connStr := cfg.Postgres.DSN()
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to reach database")
	}

	submissionStore := postgres.NewSubmissionRepository(db, connStr)
	registryStore := postgres.NewRegistryRepository(db, connStr)
	guestVoteStore := postgres.NewGuestVoteRepository(db, connStr)

	reconciler := services.NewReconcileService(submissionStore, registryStore, guestVoteStore, log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Info().Msg("starting vote reconciliation")

	if err := reconciler.ReconcileAll(ctx); err != nil {
		log.Fatal().Err(err).Msg("reconciliation failed")
	}

	log.Info().Msg("vote reconciliation completed")
}
