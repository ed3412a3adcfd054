package pubsub

import (
	"context"
	"io"
	"time"
)

//go:generate mockgen -source=publisher.go -destination=publisher_mock.go -package=pubsub

const (
	TopicReminderSaved   = "reminder.saved"
	TopicReminderDeleted = "reminder.deleted"
)

type ReminderEvent struct {
	ReminderID string    `json:"reminder_id"`
	Name       string    `json:"name"`
	RoomID     string    `json:"room_id"`
	Enabled    bool      `json:"enabled"`
	Cron       string    `json:"cron,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishReminderSaved(ctx context.Context, event ReminderEvent) error
	PublishReminderDeleted(ctx context.Context, event ReminderEvent) error
	io.Closer
}
