package repository

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/KasumiMercury/primind-chat-reminder/internal/domain"
)

type localReminderRepository struct {
	path string
}

// NewLocalReminderRepository keeps the reminder list in one JSON file.
func NewLocalReminderRepository(path string) domain.ReminderRepository {
	return &localReminderRepository{
		path: path,
	}
}

func (r *localReminderRepository) GetAll(ctx context.Context) ([]*domain.Reminder, error) {
	slog.DebugContext(ctx, "reading reminders from local file",
		"path", r.path,
	)

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.DebugContext(ctx, "reminders file does not exist yet",
				"path", r.path,
			)

			return []*domain.Reminder{}, nil
		}

		slog.ErrorContext(ctx, "failed to read reminders file",
			"path", r.path,
			"error", err,
		)

		return nil, err
	}

	reminders, err := unmarshalReminders(data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to decode reminders file",
			"path", r.path,
			"error", err,
		)

		return nil, err
	}

	return reminders, nil
}

func (r *localReminderRepository) ReplaceAll(ctx context.Context, reminders []*domain.Reminder) error {
	slog.DebugContext(ctx, "writing reminders to local file",
		"path", r.path,
		"count", len(reminders),
	)

	data, err := marshalReminders(reminders)
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.ErrorContext(ctx, "failed to create reminders directory",
			"dir", dir,
			"error", err,
		)

		return err
	}

	tmp, err := os.CreateTemp(dir, ".reminders-*.json")
	if err != nil {
		return err
	}

	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)

		return err
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)

		return err
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		_ = os.Remove(tmpPath)

		slog.ErrorContext(ctx, "failed to replace reminders file",
			"path", r.path,
			"error", err,
		)

		return err
	}

	slog.DebugContext(ctx, "reminders written to local file",
		"path", r.path,
		"count", len(reminders),
	)

	return nil
}
