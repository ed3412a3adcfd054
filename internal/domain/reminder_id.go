package domain

import (
	"github.com/google/uuid"
)

const maxReminderIDLength = 64

// ReminderID is opaque. New IDs are UUIDv7 strings; IDs written by older
// deployments (millisecond timestamps) are accepted as they are.
type ReminderID struct {
	value string
}

func NewReminderID() ReminderID {
	return ReminderID{value: uuid.Must(uuid.NewV7()).String()}
}

func ReminderIDFromString(s string) (ReminderID, error) {
	if s == "" || len(s) > maxReminderIDLength {
		return ReminderID{}, ErrInvalidReminderID
	}

	// IDs end up in file paths and secret names.
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return ReminderID{}, ErrInvalidReminderID
		}
	}

	return ReminderID{value: s}, nil
}

func (r ReminderID) String() string {
	return r.value
}

func (r ReminderID) IsZero() bool {
	return r.value == ""
}

func (r ReminderID) Equals(other ReminderID) bool {
	return r.value == other.value
}
