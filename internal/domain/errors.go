package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidLanguage is returned when a language code is not supported.
	ErrInvalidLanguage = errors.New("invalid language")

	// ErrInvalidComplexity is returned when a passage complexity is not valid.
	ErrInvalidComplexity = errors.New("invalid complexity")

	// ErrInvalidProfile is returned when a normative profile fails validation.
	// Profiles are validated at load time: a profile with a non-positive SD
	// or a reliability outside (0,1) would poison every downstream z-score
	// and RCI with NaN or Inf, so it must never reach the scorer.
	ErrInvalidProfile = errors.New("invalid normative profile")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
