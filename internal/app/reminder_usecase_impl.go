package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/KasumiMercury/primind-chat-reminder/internal/domain"
	"github.com/KasumiMercury/primind-chat-reminder/internal/infra/pubsub"
)

type reminderUseCaseImpl struct {
	// writeMu serializes read-modify-write cycles on the list within this
	// process. The local file has no revision check of its own.
	writeMu      sync.Mutex
	repo         domain.ReminderRepository
	materializer domain.JobMaterializer
	publisher    pubsub.Publisher
	now          func() time.Time
}

// NewReminderUseCase wires the reminder operations. publisher may be nil.
func NewReminderUseCase(
	repo domain.ReminderRepository,
	materializer domain.JobMaterializer,
	publisher pubsub.Publisher,
) ReminderUseCase {
	return &reminderUseCaseImpl{
		repo:         repo,
		materializer: materializer,
		publisher:    publisher,
		now:          time.Now,
	}
}

func (uc *reminderUseCaseImpl) ListReminders(ctx context.Context) (RemindersOutput, error) {
	slog.DebugContext(ctx, "listing reminders")

	reminders, err := uc.repo.GetAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list reminders",
			"error", err,
		)

		return RemindersOutput{}, storeError(err)
	}

	slog.DebugContext(ctx, "reminders listed",
		"count", len(reminders),
	)

	return FromEntities(reminders, uc.now()), nil
}

func (uc *reminderUseCaseImpl) CreateReminder(ctx context.Context, input CreateReminderInput) (SaveReminderOutput, error) {
	slog.DebugContext(ctx, "creating reminder",
		"name", input.Name,
		"room_id", input.RoomID,
		"schedule_type", input.Schedule.Type,
	)

	schedule, err := newSchedule(input.Schedule)
	if err != nil {
		return SaveReminderOutput{}, err
	}

	reminder, err := domain.NewReminder(input.Name, input.RoomID, input.Message, schedule, input.APIToken)
	if err != nil {
		return SaveReminderOutput{}, reminderValidationError(err)
	}

	uc.writeMu.Lock()
	defer uc.writeMu.Unlock()

	reminders, err := uc.repo.GetAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load reminders for create",
			"error", err,
		)

		return SaveReminderOutput{}, storeError(err)
	}

	reminders = append(reminders, reminder)

	sync, err := uc.save(ctx, reminders)
	if err != nil {
		return SaveReminderOutput{}, err
	}

	uc.publishSaved(ctx, reminder)

	slog.InfoContext(ctx, "reminder created",
		"reminder_id", reminder.ID().String(),
		"job_sync_ok", sync.OK,
	)

	return SaveReminderOutput{
		Reminder: FromEntity(reminder, uc.now()),
		JobSync:  sync,
	}, nil
}

func (uc *reminderUseCaseImpl) UpdateReminder(ctx context.Context, input UpdateReminderInput) (SaveReminderOutput, error) {
	slog.DebugContext(ctx, "updating reminder",
		"reminder_id", input.ID,
	)

	return uc.mutate(ctx, input.ID, func(r *domain.Reminder) error {
		return applyUpdate(r, input)
	})
}

func (uc *reminderUseCaseImpl) ToggleReminder(ctx context.Context, input ToggleReminderInput) (SaveReminderOutput, error) {
	slog.DebugContext(ctx, "toggling reminder",
		"reminder_id", input.ID,
	)

	return uc.mutate(ctx, input.ID, func(r *domain.Reminder) error {
		r.Toggle()

		return nil
	})
}

func (uc *reminderUseCaseImpl) DeleteReminder(ctx context.Context, input DeleteReminderInput) (DeleteReminderOutput, error) {
	slog.DebugContext(ctx, "deleting reminder",
		"reminder_id", input.ID,
	)

	id, err := domain.ReminderIDFromString(input.ID)
	if err != nil {
		return DeleteReminderOutput{}, NewValidationError("id", err.Error())
	}

	uc.writeMu.Lock()
	defer uc.writeMu.Unlock()

	reminders, err := uc.repo.GetAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load reminders for delete",
			"reminder_id", input.ID,
			"error", err,
		)

		return DeleteReminderOutput{}, storeError(err)
	}

	idx := domain.FindReminder(reminders, id)
	if idx < 0 {
		slog.WarnContext(ctx, "reminder not found for deletion",
			"reminder_id", input.ID,
		)

		return DeleteReminderOutput{}, fmt.Errorf("%w: %v", ErrNotFound, domain.ErrReminderNotFound)
	}

	target := reminders[idx]

	// The job goes first: a reminder left without a job is reconciled on the
	// next write, a job left without a reminder never is.
	if err := uc.materializer.Remove(ctx, target); err != nil {
		slog.ErrorContext(ctx, "failed to remove job for reminder",
			"reminder_id", input.ID,
			"error", err,
		)

		return DeleteReminderOutput{}, storeError(err)
	}

	remaining := make([]*domain.Reminder, 0, len(reminders)-1)
	remaining = append(remaining, reminders[:idx]...)
	remaining = append(remaining, reminders[idx+1:]...)

	sync, err := uc.save(ctx, remaining)
	if err != nil {
		return DeleteReminderOutput{}, err
	}

	if uc.publisher != nil {
		if pubErr := uc.publisher.PublishReminderDeleted(ctx, uc.event(target)); pubErr != nil {
			slog.ErrorContext(ctx, "failed to publish reminder deleted event",
				"reminder_id", input.ID,
				"error", pubErr.Error(),
			)
		}
	}

	slog.InfoContext(ctx, "reminder deleted",
		"reminder_id", input.ID,
		"job_sync_ok", sync.OK,
	)

	return DeleteReminderOutput{ID: input.ID, JobSync: sync}, nil
}

func (uc *reminderUseCaseImpl) SyncJobs(ctx context.Context) (JobSyncOutput, error) {
	slog.DebugContext(ctx, "synchronizing jobs")

	uc.writeMu.Lock()
	defer uc.writeMu.Unlock()

	reminders, err := uc.repo.GetAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load reminders for job sync",
			"error", err,
		)

		return JobSyncOutput{}, storeError(err)
	}

	sync := uc.reconcile(ctx, reminders)

	slog.InfoContext(ctx, "jobs synchronized",
		"count", len(reminders),
		"ok", sync.OK,
		"failed", len(sync.FailedReminderIDs),
	)

	return sync, nil
}

func (uc *reminderUseCaseImpl) mutate(
	ctx context.Context,
	rawID string,
	change func(r *domain.Reminder) error,
) (SaveReminderOutput, error) {
	id, err := domain.ReminderIDFromString(rawID)
	if err != nil {
		return SaveReminderOutput{}, NewValidationError("id", err.Error())
	}

	uc.writeMu.Lock()
	defer uc.writeMu.Unlock()

	reminders, err := uc.repo.GetAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load reminders",
			"reminder_id", rawID,
			"error", err,
		)

		return SaveReminderOutput{}, storeError(err)
	}

	idx := domain.FindReminder(reminders, id)
	if idx < 0 {
		slog.WarnContext(ctx, "reminder not found",
			"reminder_id", rawID,
		)

		return SaveReminderOutput{}, fmt.Errorf("%w: %v", ErrNotFound, domain.ErrReminderNotFound)
	}

	reminder := reminders[idx]
	if err := change(reminder); err != nil {
		return SaveReminderOutput{}, err
	}

	sync, err := uc.save(ctx, reminders)
	if err != nil {
		return SaveReminderOutput{}, err
	}

	uc.publishSaved(ctx, reminder)

	slog.InfoContext(ctx, "reminder updated",
		"reminder_id", rawID,
		"enabled", reminder.IsEnabled(),
		"job_sync_ok", sync.OK,
	)

	return SaveReminderOutput{
		Reminder: FromEntity(reminder, uc.now()),
		JobSync:  sync,
	}, nil
}

// save writes the whole list and then reconciles jobs against it.
func (uc *reminderUseCaseImpl) save(ctx context.Context, reminders []*domain.Reminder) (JobSyncOutput, error) {
	if err := uc.repo.ReplaceAll(ctx, reminders); err != nil {
		slog.ErrorContext(ctx, "failed to save reminders",
			"count", len(reminders),
			"error", err,
		)

		return JobSyncOutput{}, storeError(err)
	}

	return uc.reconcile(ctx, reminders), nil
}

func (uc *reminderUseCaseImpl) reconcile(ctx context.Context, reminders []*domain.Reminder) JobSyncOutput {
	err := uc.materializer.Reconcile(ctx, reminders)
	if err != nil {
		slog.ErrorContext(ctx, "job reconciliation incomplete",
			"error", err,
		)
	}

	return jobSyncFromError(err)
}

func (uc *reminderUseCaseImpl) publishSaved(ctx context.Context, r *domain.Reminder) {
	if uc.publisher == nil {
		return
	}

	if pubErr := uc.publisher.PublishReminderSaved(ctx, uc.event(r)); pubErr != nil {
		slog.ErrorContext(ctx, "failed to publish reminder saved event",
			"reminder_id", r.ID().String(),
			"error", pubErr.Error(),
		)
	}
}

func (uc *reminderUseCaseImpl) event(r *domain.Reminder) pubsub.ReminderEvent {
	out := FromEntity(r, uc.now())

	return pubsub.ReminderEvent{
		ReminderID: out.ID,
		Name:       out.Name,
		RoomID:     out.RoomID,
		Enabled:    out.Enabled,
		Cron:       out.Cron,
		OccurredAt: uc.now().UTC(),
	}
}

func newSchedule(in ScheduleInput) (domain.Schedule, error) {
	s, err := domain.NewSchedule(in.Type, in.Time, in.DayOfWeek, in.DayOfMonth)
	if err != nil {
		return domain.Schedule{}, scheduleValidationError(err)
	}

	return s, nil
}

func applyUpdate(r *domain.Reminder, input UpdateReminderInput) error {
	if input.Name != nil {
		if err := r.Rename(*input.Name); err != nil {
			return reminderValidationError(err)
		}
	}

	if input.RoomID != nil {
		if err := r.MoveToRoom(*input.RoomID); err != nil {
			return reminderValidationError(err)
		}
	}

	if input.Message != nil {
		if err := r.ChangeMessage(*input.Message); err != nil {
			return reminderValidationError(err)
		}
	}

	if input.Schedule != nil {
		s, err := newSchedule(*input.Schedule)
		if err != nil {
			return err
		}

		r.Reschedule(s)
	}

	if input.Enabled != nil {
		r.SetEnabled(*input.Enabled)
	}

	if input.APIToken != nil {
		r.SetAPIToken(*input.APIToken)
	}

	return nil
}

func reminderValidationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyName):
		return NewValidationError("name", err.Error())
	case errors.Is(err, domain.ErrEmptyRoomID):
		return NewValidationError("roomId", err.Error())
	case errors.Is(err, domain.ErrEmptyMessage):
		return NewValidationError("message", err.Error())
	default:
		return NewValidationError("reminder", err.Error())
	}
}

func scheduleValidationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidTimeOfDay):
		return NewValidationError("schedule.time", err.Error())
	case errors.Is(err, domain.ErrInvalidDayOfWeek):
		return NewValidationError("schedule.dayOfWeek", err.Error())
	case errors.Is(err, domain.ErrInvalidDayOfMonth):
		return NewValidationError("schedule.dayOfMonth", err.Error())
	default:
		return NewValidationError("schedule.type", err.Error())
	}
}
