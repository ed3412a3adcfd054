package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KasumiMercury/primind-chat-reminder/internal/domain"
)

const DefaultRemotePath = "data/reminders.json"

type remoteReminderRepository struct {
	store domain.DocumentStore
	path  string
}

// NewRemoteReminderRepository keeps the reminder list as one document in a
// versioned store. Writes use the revision read immediately before them; a
// concurrent writer makes the write fail with domain.ErrRevisionConflict
// and nothing is retried.
func NewRemoteReminderRepository(store domain.DocumentStore, path string) domain.ReminderRepository {
	if path == "" {
		path = DefaultRemotePath
	}

	return &remoteReminderRepository{
		store: store,
		path:  path,
	}
}

func (r *remoteReminderRepository) GetAll(ctx context.Context) ([]*domain.Reminder, error) {
	slog.DebugContext(ctx, "reading reminders from remote store",
		"path", r.path,
	)

	doc, err := r.store.Get(ctx, r.path)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return []*domain.Reminder{}, nil
		}

		slog.ErrorContext(ctx, "failed to read reminders document",
			"path", r.path,
			"error", err,
		)

		return nil, err
	}

	reminders, err := unmarshalReminders(doc.Content)
	if err != nil {
		slog.ErrorContext(ctx, "failed to decode reminders document",
			"path", r.path,
			"revision", doc.Revision,
			"error", err,
		)

		return nil, err
	}

	return reminders, nil
}

func (r *remoteReminderRepository) ReplaceAll(ctx context.Context, reminders []*domain.Reminder) error {
	data, err := marshalReminders(reminders)
	if err != nil {
		return err
	}

	revision := ""
	message := "Create reminders file"

	current, err := r.store.Get(ctx, r.path)

	switch {
	case err == nil:
		revision = current.Revision
		message = "Update reminders"
	case !errors.Is(err, domain.ErrDocumentNotFound):
		slog.ErrorContext(ctx, "failed to fetch reminders revision",
			"path", r.path,
			"error", err,
		)

		return err
	}

	newRevision, err := r.store.Put(ctx, r.path, data, revision, message)
	if err != nil {
		slog.ErrorContext(ctx, "failed to write reminders document",
			"path", r.path,
			"revision", revision,
			"error", err,
		)

		return err
	}

	slog.DebugContext(ctx, "reminders written to remote store",
		"path", r.path,
		"count", len(reminders),
		"revision", newRevision,
	)

	return nil
}
