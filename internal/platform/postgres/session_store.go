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

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend. Session results are
// append-only: rows are inserted and deleted wholesale, never updated.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface. The database connection is initialized and
// managed by the caller.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

const sessionColumns = `
	session_id, test_id, user_id, normative_profile_id, recall_text,
	coverage_pct, z_coverage, wpm_effective, z_wpm, rci_coverage,
	keypoint_results, qualitative_label, feedback, created_at
`

// Save implements store.SessionStore.Save
// Returns store.ErrInvalidEntity if the owning user or test is missing.
func (s *PostgresSessionStore) Save(ctx context.Context, session *domain.SessionResult) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during save",
			slog.String("error", err.Error()),
			slog.String("session_id", session.SessionID.String()))
		return err
	}

	resultsJSON, err := json.Marshal(session.KeypointResults)
	if err != nil {
		return fmt.Errorf("failed to encode keypoint results: %w", err)
	}

	query := `
		INSERT INTO session_results (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		session.SessionID,
		session.TestID,
		session.UserID,
		session.NormativeProfileID,
		session.RecallText,
		session.CoveragePct,
		session.ZCoverage,
		session.WPMEffective,
		session.ZWPM,
		session.RCICoverage,
		resultsJSON,
		string(session.QualitativeLabel),
		session.Feedback,
		session.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during session save",
				slog.String("session_id", session.SessionID.String()))
			return fmt.Errorf("%w: user or test referenced by session %s not found",
				store.ErrInvalidEntity, session.SessionID)
		}
		log.Error("failed to save session result",
			slog.String("error", err.Error()),
			slog.String("session_id", session.SessionID.String()))
		return mapError(err)
	}

	log.Info("session result saved",
		slog.String("session_id", session.SessionID.String()),
		slog.Float64("coverage_pct", session.CoveragePct))
	return nil
}

// ListAll implements store.SessionStore.ListAll
// Results are ordered most-recent-first.
func (s *PostgresSessionStore) ListAll(ctx context.Context, userID uuid.UUID) ([]*domain.SessionResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + sessionColumns + `
		FROM session_results
		WHERE user_id = $1
		ORDER BY created_at DESC, session_id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list session results",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, mapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	sessions := make([]*domain.SessionResult, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return sessions, nil
}

// Latest implements store.SessionStore.Latest
// Returns store.ErrSessionNotFound when the user has no sessions.
func (s *PostgresSessionStore) Latest(ctx context.Context, userID uuid.UUID) (*domain.SessionResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + sessionColumns + `
		FROM session_results
		WHERE user_id = $1
		ORDER BY created_at DESC, session_id DESC
		LIMIT 1
	`

	session, err := scanSession(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get latest session",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, mapError(err)
	}

	return session, nil
}

// Clear implements store.SessionStore.Clear
func (s *PostgresSessionStore) Clear(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `DELETE FROM session_results WHERE user_id = $1`, userID)
	if err != nil {
		log.Error("failed to clear session history",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return mapError(err)
	}

	log.Info("session history cleared", slog.String("user_id", userID.String()))
	return nil
}

// WithTx implements store.SessionStore.WithTx
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{db: tx, logger: s.logger}
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.SessionResult, error) {
	var (
		session     domain.SessionResult
		label       string
		resultsJSON []byte
	)

	err := row.Scan(
		&session.SessionID,
		&session.TestID,
		&session.UserID,
		&session.NormativeProfileID,
		&session.RecallText,
		&session.CoveragePct,
		&session.ZCoverage,
		&session.WPMEffective,
		&session.ZWPM,
		&session.RCICoverage,
		&resultsJSON,
		&label,
		&session.Feedback,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	session.QualitativeLabel = domain.QualitativeLabel(label)

	if err := json.Unmarshal(resultsJSON, &session.KeypointResults); err != nil {
		return nil, fmt.Errorf("failed to decode keypoint results for session %s: %w",
			session.SessionID, err)
	}

	return &session, nil
}
