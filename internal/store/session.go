package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/calewis/retell-api/internal/domain"
)

// SessionStore defines the interface for session-result persistence. The
// store is append-only from the engine's perspective: results are saved,
// listed, and cleared, never edited.
type SessionStore interface {
	// Save appends a new session result.
	// Returns validation errors from the domain SessionResult if data is
	// invalid, and ErrInvalidEntity if the owning user or test is missing.
	Save(ctx context.Context, session *domain.SessionResult) error

	// ListAll retrieves all of a user's session results, ordered
	// most-recent-first. Returns an empty slice when there are none.
	ListAll(ctx context.Context, userID uuid.UUID) ([]*domain.SessionResult, error)

	// Latest retrieves the user's most recent session result.
	// Returns ErrSessionNotFound when the user has no sessions.
	Latest(ctx context.Context, userID uuid.UUID) (*domain.SessionResult, error)

	// Clear removes all of the user's session results.
	Clear(ctx context.Context, userID uuid.UUID) error

	// WithTx returns a new SessionStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) SessionStore
}
