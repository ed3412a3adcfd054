package handler

import (
	"time"

	"github.com/KasumiMercury/primind-chat-reminder/internal/app"
)

type ScheduleResponse struct {
	Type       string `json:"type"`
	Time       string `json:"time"`
	DayOfWeek  int    `json:"dayOfWeek"`
	DayOfMonth int    `json:"dayOfMonth"`
}

// ReminderResponse never carries the reminder's own token, only whether
// one is set.
type ReminderResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	RoomID      string           `json:"roomId"`
	Message     string           `json:"message"`
	Schedule    ScheduleResponse `json:"schedule"`
	Enabled     bool             `json:"enabled"`
	HasAPIToken bool             `json:"hasApiToken"`
	CreatedAt   time.Time        `json:"createdAt"`
	Cron        string           `json:"cron,omitempty"`
	NextRunAt   *time.Time       `json:"nextRunAt,omitempty"`
}

type RemindersResponse struct {
	Reminders []ReminderResponse `json:"reminders"`
	Count     int32              `json:"count"`
}

type JobSyncResponse struct {
	OK                bool     `json:"ok"`
	FailedReminderIDs []string `json:"failedReminderIds,omitempty"`
	Error             string   `json:"error,omitempty"`
}

type SaveReminderResponse struct {
	ReminderResponse
	JobSync JobSyncResponse `json:"jobSync"`
}

type DeleteReminderResponse struct {
	Success bool            `json:"success"`
	ID      string          `json:"id"`
	JobSync JobSyncResponse `json:"jobSync"`
}

type RoomResponse struct {
	RoomID   int64  `json:"roomId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IconPath string `json:"iconPath,omitempty"`
}

type RoomsResponse struct {
	Rooms []RoomResponse `json:"rooms"`
	Count int32          `json:"count"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func FromDTO(output app.ReminderOutput) ReminderResponse {
	return ReminderResponse{
		ID:      output.ID,
		Name:    output.Name,
		RoomID:  output.RoomID,
		Message: output.Message,
		Schedule: ScheduleResponse{
			Type:       output.Schedule.Type,
			Time:       output.Schedule.Time,
			DayOfWeek:  output.Schedule.DayOfWeek,
			DayOfMonth: output.Schedule.DayOfMonth,
		},
		Enabled:     output.Enabled,
		HasAPIToken: output.HasAPIToken,
		CreatedAt:   output.CreatedAt,
		Cron:        output.Cron,
		NextRunAt:   output.NextRunAt,
	}
}

func FromDTOs(output app.RemindersOutput) RemindersResponse {
	reminders := make([]ReminderResponse, 0, len(output.Reminders))
	for _, r := range output.Reminders {
		reminders = append(reminders, FromDTO(r))
	}

	return RemindersResponse{
		Reminders: reminders,
		Count:     output.Count,
	}
}

func FromJobSync(output app.JobSyncOutput) JobSyncResponse {
	return JobSyncResponse{
		OK:                output.OK,
		FailedReminderIDs: output.FailedReminderIDs,
		Error:             output.Error,
	}
}

func FromSaveDTO(output app.SaveReminderOutput) SaveReminderResponse {
	return SaveReminderResponse{
		ReminderResponse: FromDTO(output.Reminder),
		JobSync:          FromJobSync(output.JobSync),
	}
}

func FromRoomsDTO(output app.RoomsOutput) RoomsResponse {
	rooms := make([]RoomResponse, 0, len(output.Rooms))
	for _, r := range output.Rooms {
		rooms = append(rooms, RoomResponse{
			RoomID:   r.ID,
			Name:     r.Name,
			Type:     r.Type,
			IconPath: r.IconPath,
		})
	}

	return RoomsResponse{
		Rooms: rooms,
		Count: output.Count,
	}
}
