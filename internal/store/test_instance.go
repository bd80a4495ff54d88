package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/calewis/retell-api/internal/domain"
)

// TestStore defines the interface for test-instance persistence. Test
// instances are immutable once created, so there is no update operation.
type TestStore interface {
	// Create saves a new test instance.
	// Returns validation errors from the domain TestInstance if data is
	// invalid, and ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, test *domain.TestInstance) error

	// GetByID retrieves a test instance by its unique ID.
	// Returns ErrTestNotFound if the test does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TestInstance, error)

	// WithTx returns a new TestStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) TestStore
}
