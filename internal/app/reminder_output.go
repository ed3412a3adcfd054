package app

import (
	"errors"
	"time"

	"github.com/KasumiMercury/primind-chat-reminder/internal/domain"
	"github.com/KasumiMercury/primind-chat-reminder/internal/infra/workflow"
)

type ScheduleOutput struct {
	Type       string
	Time       string
	DayOfWeek  int
	DayOfMonth int
}

type ReminderOutput struct {
	ID          string
	Name        string
	RoomID      string
	Message     string
	Schedule    ScheduleOutput
	Enabled     bool
	HasAPIToken bool
	CreatedAt   time.Time
	// Cron and NextRunAt are empty when the stored schedule cannot be
	// translated.
	Cron      string
	NextRunAt *time.Time
}

type RemindersOutput struct {
	Reminders []ReminderOutput
	Count     int32
}

// JobSyncOutput reports the reconciliation that follows a successful list
// write. A failure here never undoes the write.
type JobSyncOutput struct {
	OK                bool
	FailedReminderIDs []string
	Error             string
}

type SaveReminderOutput struct {
	Reminder ReminderOutput
	JobSync  JobSyncOutput
}

type DeleteReminderOutput struct {
	ID      string
	JobSync JobSyncOutput
}

func FromEntity(r *domain.Reminder, now time.Time) ReminderOutput {
	s := r.Schedule()

	out := ReminderOutput{
		ID:      r.ID().String(),
		Name:    r.Name(),
		RoomID:  r.RoomID(),
		Message: r.Message(),
		Schedule: ScheduleOutput{
			Type:       string(s.Type()),
			Time:       s.Time(),
			DayOfWeek:  s.DayOfWeek(),
			DayOfMonth: s.DayOfMonth(),
		},
		Enabled:     r.IsEnabled(),
		HasAPIToken: r.HasOwnToken(),
		CreatedAt:   r.CreatedAt(),
	}

	expr, err := workflow.ToCron(s)
	if err != nil {
		return out
	}

	out.Cron = expr

	if next, err := workflow.NextRun(expr, now); err == nil {
		out.NextRunAt = &next
	}

	return out
}

func FromEntities(reminders []*domain.Reminder, now time.Time) RemindersOutput {
	outputs := make([]ReminderOutput, 0, len(reminders))
	for _, r := range reminders {
		outputs = append(outputs, FromEntity(r, now))
	}

	return RemindersOutput{
		Reminders: outputs,
		Count:     int32(len(outputs)), //nolint:gosec
	}
}

func jobSyncFromError(err error) JobSyncOutput {
	if err == nil {
		return JobSyncOutput{OK: true}
	}

	out := JobSyncOutput{
		OK:                false,
		FailedReminderIDs: workflow.FailedReminderIDs(err),
	}

	var reconcileErr *workflow.ReconcileError
	if errors.As(err, &reconcileErr) {
		out.Error = "job definitions could not be synchronized"
	} else {
		out.Error = "job synchronization failed"
	}

	return out
}
