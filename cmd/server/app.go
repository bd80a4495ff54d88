package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/calewis/retell-api/internal/config"
	"github.com/calewis/retell-api/internal/domain"
	"github.com/calewis/retell-api/internal/domain/scoring"
	"github.com/calewis/retell-api/internal/generation"
	"github.com/calewis/retell-api/internal/norms"
	"github.com/calewis/retell-api/internal/platform/gemini"
	"github.com/calewis/retell-api/internal/platform/postgres"
	"github.com/calewis/retell-api/internal/service"
	"github.com/calewis/retell-api/internal/service/auth"
	"github.com/calewis/retell-api/internal/store"
)

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore    store.UserStore
	testStore    store.TestStore
	sessionStore store.SessionStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	userService    service.UserService
	sessionService service.SessionService
}

// newApplication builds the full dependency graph: database, stores,
// normative profile registry, Gemini collaborators, scorer, and services.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	registry, err := setupNormRegistry(cfg, logger)
	if err != nil {
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, logger, cfg.Auth.BcryptCost)
	testStore := postgres.NewPostgresTestStore(db, logger)
	sessionStore := postgres.NewPostgresSessionStore(db, logger)

	generator, refiner, analyzer, err := setupGeminiCollaborators(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	scorer := scoring.NewScorer(scoring.NewDefaultParams(), nil, nil)

	sessionService := service.NewSessionService(
		testStore,
		sessionStore,
		registry,
		scorer,
		generator,
		refiner,
		analyzer,
		logger,
	)
	userService := service.NewUserService(userStore, db, logger)

	return &application{
		config:           cfg,
		logger:           logger,
		db:               db,
		userStore:        userStore,
		testStore:        testStore,
		sessionStore:     sessionStore,
		jwtService:       jwtService,
		passwordVerifier: auth.NewBcryptVerifier(),
		userService:      userService,
		sessionService:   sessionService,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}

// setupDatabase opens the connection pool and verifies connectivity.
func setupDatabase(cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")
	return db, nil
}

// setupNormRegistry loads normative profiles from the configured YAML file,
// falling back to the built-in defaults when no path is configured.
func setupNormRegistry(cfg *config.Config, logger *slog.Logger) (*norms.Registry, error) {
	var profiles []domain.NormativeProfile
	if cfg.Norms.ProfilesPath != "" {
		loaded, err := norms.LoadProfiles(cfg.Norms.ProfilesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load normative profiles: %w", err)
		}
		profiles = loaded
		logger.Info("normative profiles loaded",
			"path", cfg.Norms.ProfilesPath,
			"count", len(profiles))
	} else {
		profiles = norms.DefaultProfiles()
		logger.Info("using built-in normative profiles", "count", len(profiles))
	}

	return norms.NewRegistry(profiles, logger)
}

// setupGeminiCollaborators builds the passage generator, recall refiner,
// and feedback analyzer on a shared Gemini client.
func setupGeminiCollaborators(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (generation.PassageGenerator, generation.RecallRefiner, generation.FeedbackAnalyzer, error) {
	client, err := gemini.NewClient(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	generator, err := gemini.NewPassageGenerator(client)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create passage generator: %w", err)
	}

	refiner, err := gemini.NewRecallRefiner(client)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create recall refiner: %w", err)
	}

	analyzer, err := gemini.NewFeedbackAnalyzer(client)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create feedback analyzer: %w", err)
	}

	return generator, refiner, analyzer, nil
}
