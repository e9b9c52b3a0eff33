package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/astroarts/contest/internal/adapters/auth"
	handler "github.com/astroarts/contest/internal/adapters/handler/http"
	repo "github.com/astroarts/contest/internal/adapters/repository/postgres"
	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/services"
)

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

type TestApp struct {
	DB          *sql.DB
	ConnStr     string
	Server      *httptest.Server
	Client      *http.Client
	Tokens      *auth.DeviceTokens
	DBContainer testcontainers.Container
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	ctx := context.Background()

	dbContainer, connStr, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	require.NoError(t, applyMigrations(db))

	promptStore := repo.NewPromptRepository(db, connStr)
	submissionStore := repo.NewSubmissionRepository(db, connStr)
	registryStore := repo.NewRegistryRepository(db, connStr)
	guestVoteStore := repo.NewGuestVoteRepository(db, connStr)

	tokens := auth.NewDeviceTokens("test-secret", time.Hour)

	promptService := services.NewPromptService(promptStore)
	submissionService := services.NewSubmissionService(promptStore, submissionStore)
	voteService := services.NewVoteService(promptStore, submissionStore, guestVoteStore, registryStore)
	identityService := services.NewIdentityService(registryStore, guestVoteStore, tokens)
	viewEngine := services.NewViewEngine()

	router := handler.NewHandler(
		tokens,
		handler.NewIdentityHandler(identityService, tokens),
		handler.NewPromptHandler(promptService),
		handler.NewSubmissionHandler(submissionService),
		handler.NewVoteHandler(voteService),
		handler.NewViewHandler(promptService, submissionService, voteService, viewEngine),
	)

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		ConnStr:     connStr,
		Server:      server,
		Client:      server.Client(),
		Tokens:      tokens,
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	t.Helper()
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

// guestToken mints a bearer token for a fresh anonymous device.
func (app *TestApp) guestToken(t *testing.T) (string, string) {
	t.Helper()
	deviceID, err := app.Tokens.Anonymous(context.Background())
	require.NoError(t, err)
	token, err := app.Tokens.Issue(domain.Guest(deviceID))
	require.NoError(t, err)
	return token, deviceID
}
