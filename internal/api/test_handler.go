package api

import (
	"net/http"

	"github.com/calewis/retell-api/internal/api/shared"
	"github.com/calewis/retell-api/internal/domain"
	"github.com/calewis/retell-api/internal/service"
)

// TestHandler handles test administration endpoints: starting a test and
// submitting a recall for scoring.
type TestHandler struct {
	sessionService service.SessionService
}

// NewTestHandler creates a new TestHandler with the given dependencies.
func NewTestHandler(sessionService service.SessionService) *TestHandler {
	return &TestHandler{
		sessionService: sessionService,
	}
}

// StartTest handles POST /tests. It generates a passage for the requested
// topic and returns the test without its keypoints.
func (h *TestHandler) StartTest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req StartTestRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	test, err := h.sessionService.StartTest(r.Context(), service.StartTestRequest{
		UserID:             userID,
		Topic:              req.Topic,
		Language:           domain.Language(req.Language),
		Complexity:         domain.Complexity(req.Complexity),
		TargetWords:        req.TargetWords,
		AllowedTimeSec:     req.AllowedTimeSec,
		NormativeProfileID: req.NormativeProfileID,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewTestResponse(test))
}

// SubmitRecall handles POST /tests/{id}/recall. It scores the recall
// against the test's keypoints and returns the persisted session result.
func (h *TestHandler) SubmitRecall(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	testID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid test ID")
		return
	}

	var req SubmitRecallRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	session, err := h.sessionService.SubmitRecall(
		r.Context(), userID, testID, req.RecallText, req.ElapsedSec)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, session)
}
