package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/calewis/retell-api/internal/domain"
	"github.com/calewis/retell-api/internal/platform/logger"
	"github.com/calewis/retell-api/internal/store"
)

// PostgresTestStore implements the store.TestStore interface
// using a PostgreSQL database as the storage backend.
//
// Keypoints are stored as a JSONB column: they are owned by exactly one
// test, always read and written as a unit, and their token sequences have
// no relational structure worth normalizing.
type PostgresTestStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTestStore creates a new PostgreSQL implementation of the
// TestStore interface. The database connection is initialized and managed
// by the caller.
func NewPostgresTestStore(db store.DBTX, logger *slog.Logger) *PostgresTestStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTestStore{
		db:     db,
		logger: logger.With(slog.String("component", "test_store")),
	}
}

// Ensure PostgresTestStore implements store.TestStore interface
var _ store.TestStore = (*PostgresTestStore)(nil)

// Create implements store.TestStore.Create
// Returns store.ErrInvalidEntity if the owning user does not exist.
func (s *PostgresTestStore) Create(ctx context.Context, test *domain.TestInstance) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := test.Validate(); err != nil {
		log.Warn("test validation failed during create",
			slog.String("error", err.Error()),
			slog.String("test_id", test.ID.String()))
		return err
	}

	keypointsJSON, err := json.Marshal(test.Keypoints)
	if err != nil {
		return fmt.Errorf("failed to encode keypoints: %w", err)
	}

	query := `
		INSERT INTO test_instances
			(id, user_id, language, topic, complexity, passage, keypoints,
			 target_words, allowed_time_sec, normative_profile_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		test.ID,
		test.UserID,
		string(test.Language),
		test.Topic,
		string(test.Complexity),
		test.Passage,
		keypointsJSON,
		test.TargetWords,
		test.AllowedTimeSec,
		test.NormativeProfileID,
		test.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during test creation",
				slog.String("test_id", test.ID.String()),
				slog.String("user_id", test.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, test.UserID)
		}
		log.Error("failed to create test instance",
			slog.String("error", err.Error()),
			slog.String("test_id", test.ID.String()))
		return mapError(err)
	}

	log.Info("test instance created",
		slog.String("test_id", test.ID.String()),
		slog.String("topic", test.Topic),
		slog.Int("keypoints", len(test.Keypoints)))
	return nil
}

// GetByID implements store.TestStore.GetByID
// Returns store.ErrTestNotFound if the test does not exist.
func (s *PostgresTestStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TestInstance, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, language, topic, complexity, passage, keypoints,
		       target_words, allowed_time_sec, normative_profile_id, created_at
		FROM test_instances
		WHERE id = $1
	`

	var (
		test          domain.TestInstance
		language      string
		complexity    string
		keypointsJSON []byte
	)

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&test.ID,
		&test.UserID,
		&language,
		&test.Topic,
		&complexity,
		&test.Passage,
		&keypointsJSON,
		&test.TargetWords,
		&test.AllowedTimeSec,
		&test.NormativeProfileID,
		&test.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTestNotFound
		}
		log.Error("failed to get test instance",
			slog.String("error", err.Error()),
			slog.String("test_id", id.String()))
		return nil, mapError(err)
	}

	test.Language = domain.Language(language)
	test.Complexity = domain.Complexity(complexity)

	if err := json.Unmarshal(keypointsJSON, &test.Keypoints); err != nil {
		return nil, fmt.Errorf("failed to decode keypoints for test %s: %w", id, err)
	}

	return &test, nil
}

// WithTx implements store.TestStore.WithTx
func (s *PostgresTestStore) WithTx(tx *sql.Tx) store.TestStore {
	return &PostgresTestStore{db: tx, logger: s.logger}
}
