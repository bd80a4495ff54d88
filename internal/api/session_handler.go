package api

import (
	"errors"
	"net/http"

	"github.com/calewis/retell-api/internal/api/shared"
	"github.com/calewis/retell-api/internal/service"
	"github.com/calewis/retell-api/internal/store"
)

// SessionHandler handles session history endpoints.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler with the given dependencies.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

// ListSessions handles GET /sessions, returning the user's session
// results most recent first.
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	sessions, err := h.sessionService.History(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list sessions")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SessionListResponse{
		Sessions: sessions,
		Count:    len(sessions),
	})
}

// LatestSession handles GET /sessions/latest.
func (h *SessionHandler) LatestSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	session, err := h.sessionService.Latest(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "No sessions found")
			return
		}
		HandleAPIError(w, r, err, "Failed to load latest session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, session)
}

// ClearSessions handles DELETE /sessions, removing the user's history.
func (h *SessionHandler) ClearSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.sessionService.ClearHistory(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "Failed to clear sessions")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
