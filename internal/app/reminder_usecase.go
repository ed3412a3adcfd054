package app

import (
	"context"
)

type ReminderUseCase interface {
	ListReminders(ctx context.Context) (RemindersOutput, error)
	CreateReminder(ctx context.Context, input CreateReminderInput) (SaveReminderOutput, error)
	UpdateReminder(ctx context.Context, input UpdateReminderInput) (SaveReminderOutput, error)
	ToggleReminder(ctx context.Context, input ToggleReminderInput) (SaveReminderOutput, error)
	DeleteReminder(ctx context.Context, input DeleteReminderInput) (DeleteReminderOutput, error)
	SyncJobs(ctx context.Context) (JobSyncOutput, error)
}
