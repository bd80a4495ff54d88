package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/calewis/retell-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest defines the payload for the password change endpoint.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=12,max=72"`
}

// StartTestRequest defines the payload for starting a new test.
// TargetWords and AllowedTimeSec are optional; zero values use the
// service defaults.
type StartTestRequest struct {
	Topic              string `json:"topic"                validate:"required,min=2,max=200"`
	Language           string `json:"language"             validate:"required,oneof=pt en"`
	Complexity         string `json:"complexity"           validate:"required,oneof=neutral dense"`
	TargetWords        int    `json:"target_words"         validate:"omitempty,gte=50,lte=500"`
	AllowedTimeSec     int    `json:"allowed_time_sec"     validate:"omitempty,gte=10,lte=600"`
	NormativeProfileID string `json:"normative_profile_id" validate:"required"`
}

// TestResponse is the representation of a started test returned to the
// client. Keypoints are deliberately omitted: revealing them before the
// recall would invalidate the measurement.
type TestResponse struct {
	ID                 uuid.UUID `json:"id"`
	Language           string    `json:"language"`
	Topic              string    `json:"topic"`
	Complexity         string    `json:"complexity"`
	Passage            string    `json:"passage"`
	TargetWords        int       `json:"target_words"`
	AllowedTimeSec     int       `json:"allowed_time_sec"`
	NormativeProfileID string    `json:"normative_profile_id"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewTestResponse maps a domain test instance to its API representation.
func NewTestResponse(test *domain.TestInstance) TestResponse {
	return TestResponse{
		ID:                 test.ID,
		Language:           string(test.Language),
		Topic:              test.Topic,
		Complexity:         string(test.Complexity),
		Passage:            test.Passage,
		TargetWords:        test.TargetWords,
		AllowedTimeSec:     test.AllowedTimeSec,
		NormativeProfileID: test.NormativeProfileID,
		CreatedAt:          test.CreatedAt,
	}
}

// SubmitRecallRequest defines the payload for submitting a recall.
type SubmitRecallRequest struct {
	RecallText string  `json:"recall_text" validate:"required"`
	ElapsedSec float64 `json:"elapsed_sec" validate:"gte=0"`
}

// SessionListResponse wraps a session history listing.
type SessionListResponse struct {
	Sessions []*domain.SessionResult `json:"sessions"`
	Count    int                     `json:"count"`
}
