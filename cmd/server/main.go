package main

import (
	"context"
	"database/sql"
	"errors"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/astroarts/contest/internal/adapters/auth"
	"github.com/astroarts/contest/internal/adapters/handler/http"
	"github.com/astroarts/contest/internal/adapters/repository/postgres"
	"github.com/astroarts/contest/internal/config"
	"github.com/astroarts/contest/internal/core/services"
	"github.com/astroarts/contest/internal/logger"
)

func main() {
	log := logger.New("server")

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

	promptStore := postgres.NewPromptRepository(db, connStr)
	submissionStore := postgres.NewSubmissionRepository(db, connStr)
	registryStore := postgres.NewRegistryRepository(db, connStr)
	guestVoteStore := postgres.NewGuestVoteRepository(db, connStr)

	tokens := auth.NewDeviceTokens(cfg.TokenSecret, cfg.TokenTTL)

	promptService := services.NewPromptService(promptStore)
	submissionService := services.NewSubmissionService(promptStore, submissionStore)
	voteService := services.NewVoteService(promptStore, submissionStore, guestVoteStore, registryStore)
	identityService := services.NewIdentityService(registryStore, guestVoteStore, tokens)
	viewEngine := services.NewViewEngine()

	handler := http.NewHandler(
		tokens,
		http.NewIdentityHandler(identityService, tokens),
		http.NewPromptHandler(promptService),
		http.NewSubmissionHandler(submissionService),
		http.NewVoteHandler(voteService),
		http.NewViewHandler(promptService, submissionService, voteService, viewEngine),
	)

	server := &stdhttp.Server{Addr: cfg.Addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("shutdown failed")
	}
}
