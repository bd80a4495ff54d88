package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/calewis/retell-api/internal/api/shared"
	"github.com/calewis/retell-api/internal/domain"
	"github.com/calewis/retell-api/internal/service"
	"github.com/calewis/retell-api/internal/service/auth"
	"github.com/calewis/retell-api/internal/store"
)

var errMockFailure = errors.New("mock failure")

// mockSessionService is a configurable service.SessionService.
type mockSessionService struct {
	test      *domain.TestInstance
	session   *domain.SessionResult
	sessions  []*domain.SessionResult
	startErr  error
	submitErr error
	listErr   error
	latestErr error
	clearErr  error
}

func (m *mockSessionService) StartTest(
	ctx context.Context,
	req service.StartTestRequest,
) (*domain.TestInstance, error) {
	if m.startErr != nil {
		return nil, m.startErr
	}
	return m.test, nil
}

func (m *mockSessionService) SubmitRecall(
	ctx context.Context,
	userID uuid.UUID,
	testID uuid.UUID,
	recallText string,
	elapsedSec float64,
) (*domain.SessionResult, error) {
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return m.session, nil
}

func (m *mockSessionService) History(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.SessionResult, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.sessions, nil
}

func (m *mockSessionService) Latest(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.SessionResult, error) {
	if m.latestErr != nil {
		return nil, m.latestErr
	}
	if m.session == nil {
		return nil, store.ErrSessionNotFound
	}
	return m.session, nil
}

func (m *mockSessionService) ClearHistory(ctx context.Context, userID uuid.UUID) error {
	return m.clearErr
}

// mockUserService is a configurable service.UserService.
type mockUserService struct {
	user      *domain.User
	createErr error
	getErr    error
	updateErr error
}

func (m *mockUserService) CreateUser(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.user, nil
}

func (m *mockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.user, nil
}

func (m *mockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.user, nil
}

func (m *mockUserService) UpdateUserPassword(
	ctx context.Context,
	userID uuid.UUID,
	newPassword string,
) error {
	return m.updateErr
}

// mockJWTService returns fixed tokens and claims.
type mockJWTService struct {
	userID      uuid.UUID
	generateErr error
	validateErr error
}

func (m *mockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return "access-token", nil
}

func (m *mockJWTService) ValidateToken(
	ctx context.Context,
	tokenString string,
) (*auth.Claims, error) {
	if m.validateErr != nil {
		return nil, m.validateErr
	}
	return &auth.Claims{UserID: m.userID, TokenType: "access"}, nil
}

func (m *mockJWTService) GenerateRefreshToken(
	ctx context.Context,
	userID uuid.UUID,
) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return "refresh-token", nil
}

func (m *mockJWTService) ValidateRefreshToken(
	ctx context.Context,
	tokenString string,
) (*auth.Claims, error) {
	if m.validateErr != nil {
		return nil, m.validateErr
	}
	return &auth.Claims{UserID: m.userID, TokenType: "refresh"}, nil
}

// mockPasswordVerifier accepts a single expected password.
type mockPasswordVerifier struct {
	expected string
}

func (m *mockPasswordVerifier) Compare(hashedPassword, password string) error {
	if password != m.expected {
		return errMockFailure
	}
	return nil
}

// withUserID returns the request with an authenticated user ID in context,
// as the auth middleware would set it.
func withUserID(r *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
	return r.WithContext(ctx)
}

func sampleSession(userID uuid.UUID) *domain.SessionResult {
	zwpm := -0.5
	return &domain.SessionResult{
		SessionID:          uuid.New(),
		TestID:             uuid.New(),
		UserID:             userID,
		NormativeProfileID: "adults-18-59",
		RecallText:         "o hipocampo consolida memorias",
		CoveragePct:        66.67,
		ZCoverage:          0.11,
		WPMEffective:       160,
		ZWPM:               &zwpm,
		KeypointResults: []domain.KeypointResult{
			{KeypointID: 1, Text: "hipocampo consolida memorias", Hit: true,
				MatchedTokens: []string{"hipocampo", "consolida", "memorias"}},
		},
		QualitativeLabel: domain.LabelWithinExpectedRange,
		CreatedAt:        time.Now().UTC(),
	}
}
