package services

import "errors"

// Shared errors surfaced by the service layer and mapped to HTTP statuses at
// the handler boundary. None of these conditions are transient; callers are
// expected to re-render with the message rather than retry.
var (
	// Not found
	ErrNotFound         = errors.New("requested resource not found")
	ErrDivisionNotFound = errors.New("division not found")
	ErrLeagueNotFound   = errors.New("league not found")
	ErrEntryNotFound    = errors.New("entry not found")
	ErrMatchNotFound    = errors.New("match not found")
	ErrUserNotFound     = errors.New("user not found")

	// Conflicts
	ErrDivisionFull      = errors.New("division is full")
	ErrAlreadyRegistered = errors.New("user is already registered for this division")
	ErrScheduleExists    = errors.New("schedule already exists for this division")

	// Invalid input
	ErrValidationFailed    = errors.New("validation failed")
	ErrInsufficientPlayers = errors.New("at least 2 players are required to generate a schedule")
	ErrNegativeScore       = errors.New("scores cannot be negative")
	ErrInvalidEvidenceURL  = errors.New("evidence url must be a well-formed absolute URL")

	// Lifecycle state
	ErrMatchNotReportable  = errors.New("cannot report a score for a match that is not scheduled")
	ErrMatchNotDisputed    = errors.New("match is not in disputed status")
	ErrMatchNotCancellable = errors.New("only scheduled matches can be cancelled")

	// Authorization
	ErrReporterNotParticipant = errors.New("reporter is not a participant of this match")

	// Authentication
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrAuthGamerTagTaken      = errors.New("gamer tag is already taken")

	// Infrastructure
	ErrUploadsDisabled = errors.New("evidence file uploads are not configured")
)
