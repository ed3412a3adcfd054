package handler

import "github.com/KasumiMercury/primind-chat-reminder/internal/infra/jsonutil"

// ScheduleRequest accepts the day selectors as numbers or as the strings a
// <select> element submits.
type ScheduleRequest struct {
	Type       string           `json:"type" binding:"required"`
	Time       string           `json:"time" binding:"required"`
	DayOfWeek  jsonutil.FlexInt `json:"dayOfWeek"`
	DayOfMonth jsonutil.FlexInt `json:"dayOfMonth"`
}

type CreateReminderRequest struct {
	Name     string           `json:"name" binding:"required"`
	RoomID   string           `json:"roomId" binding:"required"`
	Message  string           `json:"message" binding:"required"`
	Schedule *ScheduleRequest `json:"schedule" binding:"required"`
	APIToken string           `json:"apiToken"`
}

type UpdateReminderRequest struct {
	Name     *string          `json:"name"`
	RoomID   *string          `json:"roomId"`
	Message  *string          `json:"message"`
	Schedule *ScheduleRequest `json:"schedule"`
	Enabled  *bool            `json:"enabled"`
	APIToken *string          `json:"apiToken"`
}

type SendTestMessageRequest struct {
	RoomID   string `json:"roomId"`
	Message  string `json:"message"`
	APIToken string `json:"apiToken"`
}
