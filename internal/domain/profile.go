package domain

import (
	"errors"
	"fmt"
)

// Profile-specific validation errors
var (
	ErrEmptyProfileID = errors.New("normative profile ID cannot be empty")

	ErrProfileMeanWPMNotPositive      = fmt.Errorf("%w: mean WPM must be positive", ErrInvalidProfile)
	ErrProfileSDWPMNotPositive        = fmt.Errorf("%w: WPM standard deviation must be positive", ErrInvalidProfile)
	ErrProfileMeanCoverageNotPositive = fmt.Errorf("%w: mean coverage must be positive", ErrInvalidProfile)
	ErrProfileSDCoverageNotPositive   = fmt.Errorf("%w: coverage standard deviation must be positive", ErrInvalidProfile)
	ErrProfileReliabilityOutOfRange   = fmt.Errorf("%w: coverage reliability must be in (0,1)", ErrInvalidProfile)
)

// NormativeProfile describes a reference population used to standardize an
// individual session's coverage and reading speed. Profiles are loaded once
// from static configuration and never mutated at runtime.
//
// MeanCoverage and SDCoverage are expressed in percentage points (0-100).
// ReliabilityCoverage is a reliability coefficient such as Cronbach's alpha;
// it must be strictly inside (0,1) or the reliable-change standard error
// degenerates to zero.
type NormativeProfile struct {
	ID                  string   `json:"id"                   mapstructure:"id"`
	Label               string   `json:"label"                mapstructure:"label"`
	Language            Language `json:"language"             mapstructure:"language"`
	MeanWPM             float64  `json:"mean_wpm"             mapstructure:"mean_wpm"`
	SDWPM               float64  `json:"sd_wpm"               mapstructure:"sd_wpm"`
	MeanCoverage        float64  `json:"mean_coverage"        mapstructure:"mean_coverage"`
	SDCoverage          float64  `json:"sd_coverage"          mapstructure:"sd_coverage"`
	ReliabilityCoverage float64  `json:"reliability_coverage" mapstructure:"reliability_coverage"`
}

// Validate checks that the profile's population parameters are usable.
// A profile that fails validation is a fatal configuration error and must
// be rejected at load time, well before any scoring happens.
func (p *NormativeProfile) Validate() error {
	if p.ID == "" {
		return ErrEmptyProfileID
	}

	if p.MeanWPM <= 0 {
		return ErrProfileMeanWPMNotPositive
	}

	if p.SDWPM <= 0 {
		return ErrProfileSDWPMNotPositive
	}

	if p.MeanCoverage <= 0 {
		return ErrProfileMeanCoverageNotPositive
	}

	if p.SDCoverage <= 0 {
		return ErrProfileSDCoverageNotPositive
	}

	if p.ReliabilityCoverage <= 0 || p.ReliabilityCoverage >= 1 {
		return ErrProfileReliabilityOutOfRange
	}

	return nil
}
