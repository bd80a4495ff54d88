package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/calewis/retell-api/internal/domain"
	"github.com/calewis/retell-api/internal/generation"
	"github.com/calewis/retell-api/internal/store"
)

// mockTestStore is an in-memory store.TestStore for service tests.
type mockTestStore struct {
	tests     map[uuid.UUID]*domain.TestInstance
	createErr error
}

func newMockTestStore() *mockTestStore {
	return &mockTestStore{tests: make(map[uuid.UUID]*domain.TestInstance)}
}

func (m *mockTestStore) Create(ctx context.Context, test *domain.TestInstance) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.tests[test.ID] = test
	return nil
}

func (m *mockTestStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TestInstance, error) {
	test, ok := m.tests[id]
	if !ok {
		return nil, store.ErrTestNotFound
	}
	return test, nil
}

func (m *mockTestStore) WithTx(tx *sql.Tx) store.TestStore { return m }

// mockSessionStore is an in-memory store.SessionStore. Saved sessions are
// kept in insertion order; ListAll and Latest treat later saves as newer.
type mockSessionStore struct {
	sessions []*domain.SessionResult
	saveErr  error
}

func (m *mockSessionStore) Save(ctx context.Context, session *domain.SessionResult) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sessions = append(m.sessions, session)
	return nil
}

func (m *mockSessionStore) ListAll(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.SessionResult, error) {
	out := make([]*domain.SessionResult, 0)
	for i := len(m.sessions) - 1; i >= 0; i-- {
		if m.sessions[i].UserID == userID {
			out = append(out, m.sessions[i])
		}
	}
	return out, nil
}

func (m *mockSessionStore) Latest(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.SessionResult, error) {
	for i := len(m.sessions) - 1; i >= 0; i-- {
		if m.sessions[i].UserID == userID {
			return m.sessions[i], nil
		}
	}
	return nil, store.ErrSessionNotFound
}

func (m *mockSessionStore) Clear(ctx context.Context, userID uuid.UUID) error {
	kept := m.sessions[:0]
	for _, s := range m.sessions {
		if s.UserID != userID {
			kept = append(kept, s)
		}
	}
	m.sessions = kept
	return nil
}

func (m *mockSessionStore) WithTx(tx *sql.Tx) store.SessionStore { return m }

// mockUserStore is an in-memory store.UserStore.
type mockUserStore struct {
	users map[uuid.UUID]*domain.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	user.HashedPassword = "hashed:" + user.Password
	user.Password = ""
	m.users[user.ID] = user
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) Update(ctx context.Context, user *domain.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	if user.Password != "" {
		user.HashedPassword = "hashed:" + user.Password
		user.Password = ""
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }

// mockGenerator returns a fixed passage, or fails when err is set.
type mockGenerator struct {
	passage   string
	keypoints []string
	err       error
	lastReq   generation.PassageRequest
}

func (m *mockGenerator) GeneratePassage(
	ctx context.Context,
	req generation.PassageRequest,
) (*generation.GeneratedPassage, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &generation.GeneratedPassage{Passage: m.passage, Keypoints: m.keypoints}, nil
}

// mockRefiner returns a fixed refinement, or fails when err is set.
type mockRefiner struct {
	refined string
	err     error
}

func (m *mockRefiner) RefineRecall(
	ctx context.Context,
	rawText string,
	language domain.Language,
) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.refined, nil
}

// mockAnalyzer returns fixed feedback, or fails when err is set.
type mockAnalyzer struct {
	feedback string
	err      error
}

func (m *mockAnalyzer) AnalyzeRecall(
	ctx context.Context,
	passage, recall string,
	keypoints []domain.Keypoint,
) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.feedback, nil
}

var errBoom = errors.New("boom")
