package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/KasumiMercury/primind-chat-reminder/internal/observability/tracing"
)

const streamName = "REMINDER_EVENTS"

type NATSPublisher struct {
	publisher message.Publisher
	logger    watermill.LoggerAdapter
}

type NATSPublisherConfig struct {
	URL string
}

// NewNATSPublisher makes sure the reminder event stream exists, then opens
// a JetStream publisher on it.
func NewNATSPublisher(ctx context.Context, cfg NATSPublisherConfig) (*NATSPublisher, error) {
	logger := watermill.NewSlogLogger(slog.Default())

	conn, err := nc.Connect(cfg.URL, nc.Timeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer conn.Close()

	js, err := jetstream.New(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        streamName,
		Description: "Reminder lifecycle events",
		Subjects:    []string{TopicReminderSaved, TopicReminderDeleted},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      7 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create stream: %w", err)
	}

	slog.Info("NATS JetStream stream configured",
		slog.String("stream", streamName),
	)

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:         cfg.URL,
			NatsOptions: []nc.Option{nc.Timeout(10 * time.Second)},
			JetStream: nats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: false,
			},
			Marshaler: &nats.NATSMarshaler{},
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	return &NATSPublisher{
		publisher: publisher,
		logger:    logger,
	}, nil
}

func (p *NATSPublisher) PublishReminderSaved(ctx context.Context, event ReminderEvent) error {
	return p.publish(ctx, TopicReminderSaved, event)
}

func (p *NATSPublisher) PublishReminderDeleted(ctx context.Context, event ReminderEvent) error {
	return p.publish(ctx, TopicReminderDeleted, event)
}

func (p *NATSPublisher) publish(ctx context.Context, topic string, event ReminderEvent) error {
	msg, err := NewEventMessage(ctx, topic, event)
	if err != nil {
		return err
	}

	if err := p.publisher.Publish(topic, msg); err != nil {
		slog.ErrorContext(ctx, "failed to publish reminder event",
			slog.String("topic", topic),
			slog.String("reminder_id", event.ReminderID),
			slog.String("error", err.Error()),
		)

		return fmt.Errorf("failed to publish event: %w", err)
	}

	slog.DebugContext(ctx, "published reminder event",
		slog.String("topic", topic),
		slog.String("reminder_id", event.ReminderID),
		slog.String("message_id", msg.UUID),
	)

	return nil
}

func (p *NATSPublisher) Close() error {
	return p.publisher.Close()
}

// NewEventMessage encodes the event as JSON and carries the trace context
// in the message metadata.
func NewEventMessage(ctx context.Context, topic string, event ReminderEvent) (*message.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_type", topic)
	msg.Metadata.Set("reminder_id", event.ReminderID)

	carrier := make(map[string]string)
	tracing.InjectToMap(ctx, carrier)

	for k, v := range carrier {
		msg.Metadata.Set(k, v)
	}

	return msg, nil
}

var _ Publisher = (*NATSPublisher)(nil)
