package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calewis/retell-api/internal/domain"
	"github.com/calewis/retell-api/internal/service"
	"github.com/calewis/retell-api/internal/store"
)

func sampleTest(userID uuid.UUID) *domain.TestInstance {
	return &domain.TestInstance{
		ID:         uuid.New(),
		UserID:     userID,
		Language:   domain.LanguagePortuguese,
		Topic:      "memoria",
		Complexity: domain.ComplexityNeutral,
		Passage:    "O hipocampo consolida memorias durante o sono.",
		Keypoints: []domain.Keypoint{
			{ID: 1, Text: "hipocampo consolida memorias",
				Tokens: []string{"hipocampo", "consolida", "memorias"}},
		},
		TargetWords:        150,
		AllowedTimeSec:     60,
		NormativeProfileID: "adults-18-59",
	}
}

func TestStartTestHandler_Success(t *testing.T) {
	userID := uuid.New()
	svc := &mockSessionService{test: sampleTest(userID)}
	handler := NewTestHandler(svc)

	body := `{
		"topic": "memoria",
		"language": "pt",
		"complexity": "neutral",
		"normative_profile_id": "adults-18-59"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/tests", bytes.NewBufferString(body))
	req = withUserID(req, userID)
	rec := httptest.NewRecorder()

	handler.StartTest(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp TestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, svc.test.ID, resp.ID)
	assert.Equal(t, "pt", resp.Language)
	assert.NotEmpty(t, resp.Passage)

	// Keypoints must never appear in the start-test response.
	assert.NotContains(t, rec.Body.String(), "keypoints")
}

func TestStartTestHandler_ValidationFailure(t *testing.T) {
	handler := NewTestHandler(&mockSessionService{})

	cases := []struct {
		name string
		body string
	}{
		{"missing topic", `{"language":"pt","complexity":"neutral","normative_profile_id":"p"}`},
		{"bad language", `{"topic":"memoria","language":"fr","complexity":"neutral","normative_profile_id":"p"}`},
		{"bad complexity", `{"topic":"memoria","language":"pt","complexity":"hard","normative_profile_id":"p"}`},
		{"malformed json", `{`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(
				http.MethodPost, "/api/tests", bytes.NewBufferString(tc.body))
			req = withUserID(req, uuid.New())
			rec := httptest.NewRecorder()

			handler.StartTest(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestStartTestHandler_Unauthenticated(t *testing.T) {
	handler := NewTestHandler(&mockSessionService{})

	req := httptest.NewRequest(http.MethodPost, "/api/tests", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()

	handler.StartTest(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStartTestHandler_GenerationUnavailable(t *testing.T) {
	handler := NewTestHandler(&mockSessionService{startErr: service.ErrGenerationUnavailable})

	body := `{
		"topic": "memoria",
		"language": "pt",
		"complexity": "neutral",
		"normative_profile_id": "adults-18-59"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/tests", bytes.NewBufferString(body))
	req = withUserID(req, uuid.New())
	rec := httptest.NewRecorder()

	handler.StartTest(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

// submitRecallRequest builds a recall submission routed through chi so the
// {id} path parameter resolves.
func submitRecallRequest(t *testing.T, testID string, userID uuid.UUID, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(
		http.MethodPost, "/api/tests/"+testID+"/recall", bytes.NewBufferString(body))
	req = withUserID(req, userID)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", testID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestSubmitRecallHandler_Success(t *testing.T) {
	userID := uuid.New()
	session := sampleSession(userID)
	handler := NewTestHandler(&mockSessionService{session: session})

	body := `{"recall_text": "o hipocampo consolida memorias", "elapsed_sec": 42.5}`
	req := submitRecallRequest(t, session.TestID.String(), userID, body)
	rec := httptest.NewRecorder()

	handler.SubmitRecall(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp domain.SessionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, session.SessionID, resp.SessionID)
	assert.Equal(t, session.CoveragePct, resp.CoveragePct)
	require.NotNil(t, resp.ZWPM)
	assert.InDelta(t, *session.ZWPM, *resp.ZWPM, 0.001)
	assert.Nil(t, resp.RCICoverage)
}

func TestSubmitRecallHandler_InvalidTestID(t *testing.T) {
	handler := NewTestHandler(&mockSessionService{})

	req := submitRecallRequest(t, "not-a-uuid", uuid.New(),
		`{"recall_text": "texto", "elapsed_sec": 30}`)
	rec := httptest.NewRecorder()

	handler.SubmitRecall(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitRecallHandler_TestNotFound(t *testing.T) {
	handler := NewTestHandler(&mockSessionService{submitErr: store.ErrTestNotFound})

	req := submitRecallRequest(t, uuid.New().String(), uuid.New(),
		`{"recall_text": "texto", "elapsed_sec": 30}`)
	rec := httptest.NewRecorder()

	handler.SubmitRecall(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitRecallHandler_NotOwned(t *testing.T) {
	handler := NewTestHandler(&mockSessionService{submitErr: service.ErrNotOwned})

	req := submitRecallRequest(t, uuid.New().String(), uuid.New(),
		`{"recall_text": "texto", "elapsed_sec": 30}`)
	rec := httptest.NewRecorder()

	handler.SubmitRecall(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSubmitRecallHandler_MissingRecallText(t *testing.T) {
	handler := NewTestHandler(&mockSessionService{})

	req := submitRecallRequest(t, uuid.New().String(), uuid.New(), `{"elapsed_sec": 30}`)
	rec := httptest.NewRecorder()

	handler.SubmitRecall(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
