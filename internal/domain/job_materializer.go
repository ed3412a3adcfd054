package domain

import (
	"context"
)

// JobMaterializer keeps one externally executable job per enabled reminder.
//
// Reconcile writes jobs for enabled reminders and removes jobs of disabled
// ones. It does not infer deletion from absence: reminders dropped from the
// collection must go through Remove.
type JobMaterializer interface {
	Reconcile(ctx context.Context, reminders []*Reminder) error
	Remove(ctx context.Context, reminder *Reminder) error
}
