package domain

import (
	"context"
)

// ReminderRepository persists the whole reminder collection as one unit.
// GetAll returns an empty slice when nothing has been stored yet.
type ReminderRepository interface {
	GetAll(ctx context.Context) ([]*Reminder, error)
	ReplaceAll(ctx context.Context, reminders []*Reminder) error
}
