package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session-result validation errors
var (
	ErrEmptySessionID     = errors.New("session ID cannot be empty")
	ErrEmptySessionTestID = errors.New("session test ID cannot be empty")
	ErrEmptySessionUserID = errors.New("session user ID cannot be empty")
	ErrCoverageOutOfRange = errors.New("coverage must be between 0 and 100")
	ErrNegativeWPM        = errors.New("effective WPM cannot be negative")
	ErrNoKeypointResults  = errors.New("session must have at least one keypoint result")
)

// QualitativeLabel is the human-readable interpretation band assigned to a
// session's standardized coverage score.
type QualitativeLabel string

// Possible qualitative labels. The first three are cut on z_coverage at
// -1.0 and -2.0; the last applies whenever no normative profile resolves.
const (
	LabelWithinExpectedRange  QualitativeLabel = "within expected range"
	LabelMildlyReduced        QualitativeLabel = "mildly reduced"
	LabelBelowExpectedRange   QualitativeLabel = "below expected range"
	LabelNormativeUnavailable QualitativeLabel = "normative data unavailable"
)

// KeypointResult is the verdict for one keypoint in one session. Text is a
// copy of the keypoint's text so results stay auditable independently of
// the original test. MatchedTokens holds the distinct keypoint tokens found
// in the recall, in order of first detection.
type KeypointResult struct {
	KeypointID    int      `json:"keypoint_id"`
	Text          string   `json:"text"`
	Hit           bool     `json:"hit"`
	MatchedTokens []string `json:"matched_tokens"`
}

// SessionResult is the engine's sole output artifact: one scored recall
// session. Once assembled it is immutable and becomes the "previous
// session" input for the next scoring call.
//
// ZWPM is nil when no normative profile resolved. RCICoverage is nil unless
// both a previous session and a resolved profile were available. ZCoverage
// is always present; it is zero (and the label is LabelNormativeUnavailable)
// when no profile resolved.
type SessionResult struct {
	SessionID          uuid.UUID        `json:"session_id"`
	TestID             uuid.UUID        `json:"test_id"`
	UserID             uuid.UUID        `json:"user_id"`
	NormativeProfileID string           `json:"normative_profile_id"`
	RecallText         string           `json:"recall_text"`
	CoveragePct        float64          `json:"coverage_pct"`
	ZCoverage          float64          `json:"z_coverage"`
	WPMEffective       int              `json:"wpm_effective"`
	ZWPM               *float64         `json:"z_wpm,omitempty"`
	RCICoverage        *float64         `json:"rci_coverage,omitempty"`
	KeypointResults    []KeypointResult `json:"keypoint_results"`
	QualitativeLabel   QualitativeLabel `json:"qualitative_label"`
	Feedback           string           `json:"feedback,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
}

// Validate checks if the SessionResult has valid data.
// Returns an error if any field fails validation.
func (s *SessionResult) Validate() error {
	if s.SessionID == uuid.Nil {
		return ErrEmptySessionID
	}

	if s.TestID == uuid.Nil {
		return ErrEmptySessionTestID
	}

	if s.UserID == uuid.Nil {
		return ErrEmptySessionUserID
	}

	if s.CoveragePct < 0 || s.CoveragePct > 100 {
		return ErrCoverageOutOfRange
	}

	if s.WPMEffective < 0 {
		return ErrNegativeWPM
	}

	if len(s.KeypointResults) == 0 {
		return ErrNoKeypointResults
	}

	return nil
}
