package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Test-instance validation errors
var (
	ErrEmptyTestID         = errors.New("test ID cannot be empty")
	ErrEmptyTestUserID     = errors.New("test user ID cannot be empty")
	ErrEmptyPassage        = errors.New("test passage cannot be empty")
	ErrNoKeypoints         = errors.New("test must have at least one keypoint")
	ErrDuplicateKeypointID = errors.New("keypoint IDs must be unique within a test")
)

// Keypoint is one discrete idea the passage is expected to convey. The ID is
// unique within its test and its value establishes display order. Tokens is
// the canonical token sequence derived once from Text at test-build time
// (see scoring.Tokenize); it is never recomputed afterwards.
type Keypoint struct {
	ID     int      `json:"id"`
	Text   string   `json:"text"`
	Tokens []string `json:"tokens"`
}

// TestInstance is one administered reading-recall test. It is created by the
// generation step, immutable once created, and owned by the session that
// used it. Keypoints are ordered; the engine assumes only that at least one
// exists, never a particular count.
type TestInstance struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             uuid.UUID  `json:"user_id"`
	Language           Language   `json:"language"`
	Topic              string     `json:"topic"`
	Complexity         Complexity `json:"complexity"`
	Passage            string     `json:"passage"`
	Keypoints          []Keypoint `json:"keypoints"`
	TargetWords        int        `json:"target_words"`
	AllowedTimeSec     int        `json:"allowed_time_sec"`
	NormativeProfileID string     `json:"normative_profile_id"`
	CreatedAt          time.Time  `json:"created_at"`
}

// NewTestInstance creates a TestInstance with a fresh ID and timestamp.
// Returns an error if validation fails.
func NewTestInstance(
	userID uuid.UUID,
	language Language,
	topic string,
	complexity Complexity,
	passage string,
	keypoints []Keypoint,
	targetWords int,
	allowedTimeSec int,
	normativeProfileID string,
) (*TestInstance, error) {
	test := &TestInstance{
		ID:                 uuid.New(),
		UserID:             userID,
		Language:           language,
		Topic:              topic,
		Complexity:         complexity,
		Passage:            passage,
		Keypoints:          keypoints,
		TargetWords:        targetWords,
		AllowedTimeSec:     allowedTimeSec,
		NormativeProfileID: normativeProfileID,
		CreatedAt:          time.Now().UTC(),
	}

	if err := test.Validate(); err != nil {
		return nil, err
	}

	return test, nil
}

// Validate checks if the TestInstance has valid data.
// Returns an error if any field fails validation.
func (t *TestInstance) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTestID
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTestUserID
	}

	if !t.Language.IsValid() {
		return ErrInvalidLanguage
	}

	if !t.Complexity.IsValid() {
		return ErrInvalidComplexity
	}

	if t.Passage == "" {
		return ErrEmptyPassage
	}

	if len(t.Keypoints) == 0 {
		return ErrNoKeypoints
	}

	seen := make(map[int]bool, len(t.Keypoints))
	for _, kp := range t.Keypoints {
		if seen[kp.ID] {
			return ErrDuplicateKeypointID
		}
		seen[kp.ID] = true
	}

	return nil
}
