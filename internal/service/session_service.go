package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/calewis/retell-api/internal/domain"
	"github.com/calewis/retell-api/internal/domain/scoring"
	"github.com/calewis/retell-api/internal/generation"
	"github.com/calewis/retell-api/internal/norms"
	"github.com/calewis/retell-api/internal/store"
)

// Test administration defaults. Keypoint tokenization and scoring adapt to
// whatever counts a test actually carries; these only shape new tests.
const (
	defaultTargetWords    = 150
	defaultKeypointCount  = 6
	defaultAllowedTimeSec = 60
)

// StartTestRequest carries the parameters for administering a new test.
// Zero TargetWords and AllowedTimeSec fall back to the service defaults.
type StartTestRequest struct {
	UserID             uuid.UUID
	Topic              string
	Language           domain.Language
	Complexity         domain.Complexity
	TargetWords        int
	AllowedTimeSec     int
	NormativeProfileID string
}

// SessionService administers tests and scores recall sessions.
type SessionService interface {
	// StartTest generates a passage for the topic, tokenizes its keypoints,
	// and persists the resulting test instance.
	// Returns ErrGenerationUnavailable when the generation collaborator fails.
	StartTest(ctx context.Context, req StartTestRequest) (*domain.TestInstance, error)

	// SubmitRecall scores a recall against the given test and persists the
	// session result. Returns store.ErrTestNotFound for an unknown test and
	// ErrNotOwned when the test belongs to another user.
	SubmitRecall(
		ctx context.Context,
		userID uuid.UUID,
		testID uuid.UUID,
		recallText string,
		elapsedSec float64,
	) (*domain.SessionResult, error)

	// History returns the user's session results, most recent first.
	History(ctx context.Context, userID uuid.UUID) ([]*domain.SessionResult, error)

	// Latest returns the user's most recent session result.
	// Returns store.ErrSessionNotFound when the user has no sessions.
	Latest(ctx context.Context, userID uuid.UUID) (*domain.SessionResult, error)

	// ClearHistory removes all of the user's session results.
	ClearHistory(ctx context.Context, userID uuid.UUID) error
}

// SessionServiceImpl implements SessionService.
type SessionServiceImpl struct {
	testStore    store.TestStore
	sessionStore store.SessionStore
	registry     *norms.Registry
	scorer       *scoring.Scorer
	generator    generation.PassageGenerator
	refiner      generation.RecallRefiner // optional, best-effort
	analyzer     generation.FeedbackAnalyzer
	logger       *slog.Logger
}

// Ensure SessionServiceImpl implements SessionService
var _ SessionService = (*SessionServiceImpl)(nil)

// NewSessionService creates a SessionService. The refiner and analyzer are
// optional; pass nil to skip recall refinement or narrative feedback.
func NewSessionService(
	testStore store.TestStore,
	sessionStore store.SessionStore,
	registry *norms.Registry,
	scorer *scoring.Scorer,
	generator generation.PassageGenerator,
	refiner generation.RecallRefiner,
	analyzer generation.FeedbackAnalyzer,
	logger *slog.Logger,
) *SessionServiceImpl {
	return &SessionServiceImpl{
		testStore:    testStore,
		sessionStore: sessionStore,
		registry:     registry,
		scorer:       scorer,
		generator:    generator,
		refiner:      refiner,
		analyzer:     analyzer,
		logger:       logger.With(slog.String("component", "session_service")),
	}
}

// StartTest generates a passage and persists the test instance built from it.
func (s *SessionServiceImpl) StartTest(
	ctx context.Context,
	req StartTestRequest,
) (*domain.TestInstance, error) {
	targetWords := req.TargetWords
	if targetWords <= 0 {
		targetWords = defaultTargetWords
	}
	allowedTime := req.AllowedTimeSec
	if allowedTime <= 0 {
		allowedTime = defaultAllowedTimeSec
	}

	generated, err := s.generator.GeneratePassage(ctx, generation.PassageRequest{
		Topic:         req.Topic,
		Language:      req.Language,
		Complexity:    req.Complexity,
		TargetWords:   targetWords,
		KeypointCount: defaultKeypointCount,
	})
	if err != nil {
		s.logger.Error("passage generation failed",
			"error", err,
			"topic", req.Topic,
			"language", req.Language)
		return nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}

	// Keypoints are tokenized once at creation so every later scoring pass
	// works against the same token sequences.
	keypoints := make([]domain.Keypoint, 0, len(generated.Keypoints))
	for i, text := range generated.Keypoints {
		keypoints = append(keypoints, domain.Keypoint{
			ID:     i + 1,
			Text:   text,
			Tokens: scoring.TokenizeKeypoint(text, req.Language),
		})
	}

	test, err := domain.NewTestInstance(
		req.UserID,
		req.Language,
		req.Topic,
		req.Complexity,
		generated.Passage,
		keypoints,
		targetWords,
		allowedTime,
		req.NormativeProfileID,
	)
	if err != nil {
		return nil, NewSessionServiceError("start_test", "invalid generated test", err)
	}

	if err := s.testStore.Create(ctx, test); err != nil {
		s.logger.Error("failed to persist test instance",
			"error", err,
			"test_id", test.ID)
		return nil, NewSessionServiceError("start_test", "failed to save test", err)
	}

	s.logger.Info("test started",
		"test_id", test.ID,
		"user_id", req.UserID,
		"language", req.Language,
		"keypoint_count", len(keypoints))

	return test, nil
}

// SubmitRecall scores a recall session end to end: optional refinement,
// previous-session lookup, profile resolution, scoring, optional narrative
// feedback, and persistence.
func (s *SessionServiceImpl) SubmitRecall(
	ctx context.Context,
	userID uuid.UUID,
	testID uuid.UUID,
	recallText string,
	elapsedSec float64,
) (*domain.SessionResult, error) {
	test, err := s.testStore.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, store.ErrTestNotFound) {
			return nil, err
		}
		s.logger.Error("failed to retrieve test instance",
			"error", err,
			"test_id", testID)
		return nil, NewSessionServiceError("submit_recall", "failed to load test", err)
	}

	if test.UserID != userID {
		s.logger.Warn("recall submitted for another user's test",
			"test_id", testID,
			"owner_id", test.UserID,
			"user_id", userID)
		return nil, ErrNotOwned
	}

	scoredText := recallText
	if s.refiner != nil {
		refined, err := s.refiner.RefineRecall(ctx, recallText, test.Language)
		if err != nil {
			// Refinement is cosmetic; score the raw text when it fails.
			s.logger.Warn("recall refinement failed, scoring raw text",
				"error", err,
				"test_id", testID)
		} else {
			scoredText = refined
		}
	}

	previous, err := s.sessionStore.Latest(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrSessionNotFound) {
			s.logger.Error("failed to load previous session",
				"error", err,
				"user_id", userID)
			return nil, NewSessionServiceError("submit_recall", "failed to load previous session", err)
		}
		previous = nil
	}

	resolution := s.registry.Resolve(test.NormativeProfileID)

	session := s.scorer.ScoreSession(test, scoredText, elapsedSec, resolution, previous)

	if s.analyzer != nil {
		feedback, err := s.analyzer.AnalyzeRecall(ctx, test.Passage, scoredText, test.Keypoints)
		if err != nil {
			// Narrative feedback never blocks a score.
			s.logger.Warn("feedback analysis failed",
				"error", err,
				"session_id", session.SessionID)
		} else {
			session.Feedback = feedback
		}
	}

	if err := s.sessionStore.Save(ctx, session); err != nil {
		s.logger.Error("failed to persist session result",
			"error", err,
			"session_id", session.SessionID)
		return nil, NewSessionServiceError("submit_recall", "failed to save session", err)
	}

	s.logger.Info("recall scored",
		"session_id", session.SessionID,
		"test_id", testID,
		"user_id", userID,
		"coverage_pct", session.CoveragePct,
		"label", session.QualitativeLabel)

	return session, nil
}

// History returns the user's session results, most recent first.
func (s *SessionServiceImpl) History(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.SessionResult, error) {
	sessions, err := s.sessionStore.ListAll(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list sessions",
			"error", err,
			"user_id", userID)
		return nil, NewSessionServiceError("history", "failed to list sessions", err)
	}
	return sessions, nil
}

// Latest returns the user's most recent session result.
func (s *SessionServiceImpl) Latest(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.SessionResult, error) {
	session, err := s.sessionStore.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, err
		}
		s.logger.Error("failed to load latest session",
			"error", err,
			"user_id", userID)
		return nil, NewSessionServiceError("latest", "failed to load latest session", err)
	}
	return session, nil
}

// ClearHistory removes all of the user's session results.
func (s *SessionServiceImpl) ClearHistory(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessionStore.Clear(ctx, userID); err != nil {
		s.logger.Error("failed to clear sessions",
			"error", err,
			"user_id", userID)
		return NewSessionServiceError("clear_history", "failed to clear sessions", err)
	}

	s.logger.Info("session history cleared",
		"user_id", userID)

	return nil
}
