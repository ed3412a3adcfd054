package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/KasumiMercury/primind-chat-reminder/internal/domain"
)

type ListRoomsInput struct {
	// Token overrides the configured shared token when set.
	Token string
}

type SendTestMessageInput struct {
	RoomID   string
	Message  string
	APIToken string
}

type RoomOutput struct {
	ID       int64
	Name     string
	Type     string
	IconPath string
}

type RoomsOutput struct {
	Rooms []RoomOutput
	Count int32
}

type ChatUseCase interface {
	ListRooms(ctx context.Context, input ListRoomsInput) (RoomsOutput, error)
	SendTestMessage(ctx context.Context, input SendTestMessageInput) error
}

type chatUseCaseImpl struct {
	client domain.ChatClient
}

func NewChatUseCase(client domain.ChatClient) ChatUseCase {
	return &chatUseCaseImpl{
		client: client,
	}
}

func (uc *chatUseCaseImpl) ListRooms(ctx context.Context, input ListRoomsInput) (RoomsOutput, error) {
	slog.DebugContext(ctx, "listing chat rooms",
		"own_token", input.Token != "",
	)

	rooms, err := uc.client.ListRooms(ctx, strings.TrimSpace(input.Token))
	if err != nil {
		if errors.Is(err, domain.ErrMissingChatToken) {
			return RoomsOutput{}, NewValidationError("token", "API token is required")
		}

		slog.ErrorContext(ctx, "failed to list chat rooms",
			"error", err,
		)

		return RoomsOutput{}, storeError(err)
	}

	outputs := make([]RoomOutput, 0, len(rooms))
	for _, r := range rooms {
		outputs = append(outputs, RoomOutput{
			ID:       r.ID,
			Name:     r.Name,
			Type:     r.Type,
			IconPath: r.IconPath,
		})
	}

	return RoomsOutput{
		Rooms: outputs,
		Count: int32(len(outputs)), //nolint:gosec
	}, nil
}

func (uc *chatUseCaseImpl) SendTestMessage(ctx context.Context, input SendTestMessageInput) error {
	if strings.TrimSpace(input.RoomID) == "" ||
		strings.TrimSpace(input.Message) == "" ||
		strings.TrimSpace(input.APIToken) == "" {
		return NewValidationError("body", "Room ID, message, and API token are required")
	}

	slog.DebugContext(ctx, "sending test message",
		"room_id", input.RoomID,
	)

	messageID, err := uc.client.SendMessage(ctx, input.APIToken, input.RoomID, input.Message)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send test message",
			"room_id", input.RoomID,
			"error", err,
		)

		return storeError(err)
	}

	slog.InfoContext(ctx, "test message sent",
		"room_id", input.RoomID,
		"message_id", messageID,
	)

	return nil
}
