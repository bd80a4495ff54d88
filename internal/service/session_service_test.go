package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calewis/retell-api/internal/domain"
	"github.com/calewis/retell-api/internal/domain/scoring"
	"github.com/calewis/retell-api/internal/norms"
	"github.com/calewis/retell-api/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRegistry(t *testing.T) *norms.Registry {
	t.Helper()
	registry, err := norms.NewRegistry([]domain.NormativeProfile{
		{
			ID:                  "adults-18-59",
			Label:               "Adults 18-59",
			Language:            domain.LanguagePortuguese,
			MeanWPM:             180,
			SDWPM:               40,
			MeanCoverage:        65,
			SDCoverage:          15,
			ReliabilityCoverage: 0.8,
		},
	}, testLogger())
	require.NoError(t, err)
	return registry
}

func newTestSessionService(
	t *testing.T,
	tests *mockTestStore,
	sessions *mockSessionStore,
	gen *mockGenerator,
	refiner *mockRefiner,
	analyzer *mockAnalyzer,
) *SessionServiceImpl {
	t.Helper()
	scorer := scoring.NewScorer(nil, nil, nil)
	// Typed nils would not compare equal to nil through the interface.
	svc := &SessionServiceImpl{
		testStore:    tests,
		sessionStore: sessions,
		registry:     testRegistry(t),
		scorer:       scorer,
		generator:    gen,
		logger:       testLogger(),
	}
	if refiner != nil {
		svc.refiner = refiner
	}
	if analyzer != nil {
		svc.analyzer = analyzer
	}
	return svc
}

func seedTest(t *testing.T, tests *mockTestStore, userID uuid.UUID) *domain.TestInstance {
	t.Helper()
	keypointTexts := []string{
		"o hipocampo consolida memorias durante o sono",
		"neuronios formam sinapses novas",
		"a leitura ativa o cortex visual",
	}
	keypoints := make([]domain.Keypoint, 0, len(keypointTexts))
	for i, text := range keypointTexts {
		keypoints = append(keypoints, domain.Keypoint{
			ID:     i + 1,
			Text:   text,
			Tokens: scoring.TokenizeKeypoint(text, domain.LanguagePortuguese),
		})
	}
	test, err := domain.NewTestInstance(
		userID,
		domain.LanguagePortuguese,
		"memoria",
		domain.ComplexityNeutral,
		"O hipocampo consolida memorias durante o sono profundo.",
		keypoints,
		150,
		60,
		"adults-18-59",
	)
	require.NoError(t, err)
	require.NoError(t, tests.Create(context.Background(), test))
	return test
}

func TestStartTest_Success(t *testing.T) {
	tests := newMockTestStore()
	gen := &mockGenerator{
		passage: "O cerebro humano consome vinte por cento da energia corporal.",
		keypoints: []string{
			"o cerebro consome vinte por cento da energia",
			"a energia vem da glicose",
			"o consumo e constante mesmo em repouso",
			"neuronios dependem de oxigenio",
			"a privacao causa danos rapidos",
			"o fluxo sanguineo cerebral e priorizado",
		},
	}
	svc := newTestSessionService(t, tests, &mockSessionStore{}, gen, nil, nil)

	userID := uuid.New()
	test, err := svc.StartTest(context.Background(), StartTestRequest{
		UserID:             userID,
		Topic:              "neurociencia",
		Language:           domain.LanguagePortuguese,
		Complexity:         domain.ComplexityNeutral,
		NormativeProfileID: "adults-18-59",
	})
	require.NoError(t, err)

	assert.Equal(t, userID, test.UserID)
	assert.Equal(t, gen.passage, test.Passage)
	assert.Len(t, test.Keypoints, 6)

	// Defaults applied when the request leaves them zero.
	assert.Equal(t, defaultTargetWords, test.TargetWords)
	assert.Equal(t, defaultAllowedTimeSec, test.AllowedTimeSec)
	assert.Equal(t, defaultKeypointCount, gen.lastReq.KeypointCount)

	// Keypoints are tokenized at creation.
	for _, kp := range test.Keypoints {
		assert.NotEmpty(t, kp.Tokens)
		for _, token := range kp.Tokens {
			assert.Greater(t, len([]rune(token)), 2)
		}
	}

	// Persisted.
	stored, err := tests.GetByID(context.Background(), test.ID)
	require.NoError(t, err)
	assert.Equal(t, test.ID, stored.ID)
}

func TestStartTest_GenerationFailure(t *testing.T) {
	svc := newTestSessionService(
		t, newMockTestStore(), &mockSessionStore{}, &mockGenerator{err: errBoom}, nil, nil)

	_, err := svc.StartTest(context.Background(), StartTestRequest{
		UserID:             uuid.New(),
		Topic:              "memoria",
		Language:           domain.LanguagePortuguese,
		Complexity:         domain.ComplexityNeutral,
		NormativeProfileID: "adults-18-59",
	})
	assert.ErrorIs(t, err, ErrGenerationUnavailable)
}

func TestSubmitRecall_ScoresAndSaves(t *testing.T) {
	tests := newMockTestStore()
	sessions := &mockSessionStore{}
	svc := newTestSessionService(t, tests, sessions, &mockGenerator{}, nil, nil)

	userID := uuid.New()
	test := seedTest(t, tests, userID)

	session, err := svc.SubmitRecall(
		context.Background(),
		userID,
		test.ID,
		"O hipocampo consolida as memorias enquanto dormimos e os neuronios criam sinapses",
		45,
	)
	require.NoError(t, err)

	assert.Equal(t, test.ID, session.TestID)
	assert.Equal(t, userID, session.UserID)
	assert.Greater(t, session.CoveragePct, 0.0)
	assert.Len(t, session.KeypointResults, 3)
	assert.NotNil(t, session.ZWPM)

	// First session: no previous, so no reliable-change index.
	assert.Nil(t, session.RCICoverage)

	require.Len(t, sessions.sessions, 1)
	assert.Equal(t, session.SessionID, sessions.sessions[0].SessionID)
}

func TestSubmitRecall_SecondSessionHasRCI(t *testing.T) {
	tests := newMockTestStore()
	sessions := &mockSessionStore{}
	svc := newTestSessionService(t, tests, sessions, &mockGenerator{}, nil, nil)

	userID := uuid.New()
	test := seedTest(t, tests, userID)

	recall := "O hipocampo consolida memorias durante o sono"
	_, err := svc.SubmitRecall(context.Background(), userID, test.ID, recall, 40)
	require.NoError(t, err)

	second, err := svc.SubmitRecall(context.Background(), userID, test.ID, recall, 40)
	require.NoError(t, err)
	require.NotNil(t, second.RCICoverage)
	assert.InDelta(t, 0.0, *second.RCICoverage, 0.001)
}

func TestSubmitRecall_UnknownTest(t *testing.T) {
	svc := newTestSessionService(
		t, newMockTestStore(), &mockSessionStore{}, &mockGenerator{}, nil, nil)

	_, err := svc.SubmitRecall(context.Background(), uuid.New(), uuid.New(), "recall", 30)
	assert.ErrorIs(t, err, store.ErrTestNotFound)
}

func TestSubmitRecall_WrongOwner(t *testing.T) {
	tests := newMockTestStore()
	svc := newTestSessionService(t, tests, &mockSessionStore{}, &mockGenerator{}, nil, nil)

	test := seedTest(t, tests, uuid.New())

	_, err := svc.SubmitRecall(context.Background(), uuid.New(), test.ID, "recall", 30)
	assert.ErrorIs(t, err, ErrNotOwned)
}

func TestSubmitRecall_RefinementApplied(t *testing.T) {
	tests := newMockTestStore()
	sessions := &mockSessionStore{}
	refined := "O hipocampo consolida memorias durante o sono"
	svc := newTestSessionService(
		t, tests, sessions, &mockGenerator{}, &mockRefiner{refined: refined}, nil)

	userID := uuid.New()
	test := seedTest(t, tests, userID)

	session, err := svc.SubmitRecall(
		context.Background(), userID, test.ID, "o ipocampo consolida memoria no zono", 40)
	require.NoError(t, err)
	assert.Equal(t, refined, session.RecallText)
}

func TestSubmitRecall_RefinementFailureFallsBackToRaw(t *testing.T) {
	tests := newMockTestStore()
	svc := newTestSessionService(
		t, tests, &mockSessionStore{}, &mockGenerator{}, &mockRefiner{err: errBoom}, nil)

	userID := uuid.New()
	test := seedTest(t, tests, userID)

	raw := "O hipocampo consolida memorias"
	session, err := svc.SubmitRecall(context.Background(), userID, test.ID, raw, 40)
	require.NoError(t, err)
	assert.Equal(t, raw, session.RecallText)
}

func TestSubmitRecall_FeedbackAttached(t *testing.T) {
	tests := newMockTestStore()
	svc := newTestSessionService(
		t, tests, &mockSessionStore{}, &mockGenerator{},
		nil, &mockAnalyzer{feedback: "Boa evocacao dos pontos centrais."})

	userID := uuid.New()
	test := seedTest(t, tests, userID)

	session, err := svc.SubmitRecall(
		context.Background(), userID, test.ID, "O hipocampo consolida memorias", 40)
	require.NoError(t, err)
	assert.Equal(t, "Boa evocacao dos pontos centrais.", session.Feedback)
}

func TestSubmitRecall_FeedbackFailureDoesNotBlockScore(t *testing.T) {
	tests := newMockTestStore()
	sessions := &mockSessionStore{}
	svc := newTestSessionService(
		t, tests, sessions, &mockGenerator{}, nil, &mockAnalyzer{err: errBoom})

	userID := uuid.New()
	test := seedTest(t, tests, userID)

	session, err := svc.SubmitRecall(
		context.Background(), userID, test.ID, "O hipocampo consolida memorias", 40)
	require.NoError(t, err)
	assert.Empty(t, session.Feedback)
	assert.Len(t, sessions.sessions, 1)
}

func TestHistoryAndClear(t *testing.T) {
	tests := newMockTestStore()
	sessions := &mockSessionStore{}
	svc := newTestSessionService(t, tests, sessions, &mockGenerator{}, nil, nil)

	userID := uuid.New()
	test := seedTest(t, tests, userID)

	first, err := svc.SubmitRecall(context.Background(), userID, test.ID, "primeira evocacao do hipocampo", 40)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	second, err := svc.SubmitRecall(context.Background(), userID, test.ID, "segunda evocacao do hipocampo", 40)
	require.NoError(t, err)

	history, err := svc.History(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.SessionID, history[0].SessionID)
	assert.Equal(t, first.SessionID, history[1].SessionID)

	latest, err := svc.Latest(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, second.SessionID, latest.SessionID)

	require.NoError(t, svc.ClearHistory(context.Background(), userID))

	history, err = svc.History(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = svc.Latest(context.Background(), userID)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}
