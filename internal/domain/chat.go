package domain

import (
	"context"
)

type Room struct {
	ID       int64
	Name     string
	Type     string
	IconPath string
}

// ChatClient delivers messages to chat rooms. An empty token selects the
// client's shared credential.
type ChatClient interface {
	SendMessage(ctx context.Context, token, roomID, text string) (string, error)
	ListRooms(ctx context.Context, token string) ([]Room, error)
}
