package domain

import "errors"

var (
	ErrReminderNotFound  = errors.New("reminder not found")
	ErrInvalidReminderID = errors.New("invalid reminder ID")

	ErrEmptyName    = errors.New("name cannot be empty")
	ErrEmptyRoomID  = errors.New("room ID cannot be empty")
	ErrEmptyMessage = errors.New("message cannot be empty")

	ErrInvalidSchedule   = errors.New("invalid schedule")
	ErrInvalidTimeOfDay  = errors.New("time must be HH:MM with hour 0-23 and minute 0-59")
	ErrInvalidDayOfWeek  = errors.New("day of week must be between 0 and 6")
	ErrInvalidDayOfMonth = errors.New("day of month must be between 1 and 31")

	ErrDocumentNotFound = errors.New("document not found")
	ErrRevisionConflict = errors.New("document revision conflict")
	ErrUpstreamFailure  = errors.New("upstream request failed")

	ErrMissingChatToken = errors.New("chat API token is required")
)
