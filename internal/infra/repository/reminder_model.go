package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-chat-reminder/internal/domain"
	"github.com/KasumiMercury/primind-chat-reminder/internal/infra/jsonutil"
)

// ScheduleModel and ReminderModel keep the field names of the reminders.json
// documents already committed by the web form, so both remain readable.
type ScheduleModel struct {
	Type       string           `json:"type"`
	Time       string           `json:"time"`
	DayOfWeek  jsonutil.FlexInt `json:"dayOfWeek"`
	DayOfMonth jsonutil.FlexInt `json:"dayOfMonth"`
}

type ReminderModel struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	APIToken  string        `json:"apiToken,omitempty"`
	RoomID    string        `json:"roomId"`
	Message   string        `json:"message"`
	Schedule  ScheduleModel `json:"schedule"`
	Enabled   bool          `json:"enabled"`
	CreatedAt time.Time     `json:"createdAt"`
}

func (m *ReminderModel) ToEntity() (*domain.Reminder, error) {
	id, err := domain.ReminderIDFromString(m.ID)
	if err != nil {
		return nil, fmt.Errorf("reminder %q: %w", m.ID, err)
	}

	schedule := domain.ReconstituteSchedule(
		m.Schedule.Type,
		m.Schedule.Time,
		m.Schedule.DayOfWeek.Int(),
		m.Schedule.DayOfMonth.Int(),
	)

	return domain.ReconstituteReminder(
		id,
		m.Name,
		m.RoomID,
		m.Message,
		schedule,
		m.Enabled,
		m.APIToken,
		m.CreatedAt,
	), nil
}

func FromEntity(e *domain.Reminder) *ReminderModel {
	s := e.Schedule()

	return &ReminderModel{
		ID:       e.ID().String(),
		Name:     e.Name(),
		APIToken: e.APIToken(),
		RoomID:   e.RoomID(),
		Message:  e.Message(),
		Schedule: ScheduleModel{
			Type:       string(s.Type()),
			Time:       s.Time(),
			DayOfWeek:  jsonutil.FlexInt(s.DayOfWeek()),
			DayOfMonth: jsonutil.FlexInt(s.DayOfMonth()),
		},
		Enabled:   e.IsEnabled(),
		CreatedAt: e.CreatedAt(),
	}
}

func marshalReminders(reminders []*domain.Reminder) ([]byte, error) {
	models := make([]*ReminderModel, 0, len(reminders))
	for _, r := range reminders {
		models = append(models, FromEntity(r))
	}

	data, err := json.MarshalIndent(models, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reminders: %w", err)
	}

	return data, nil
}

func unmarshalReminders(data []byte) ([]*domain.Reminder, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []*domain.Reminder{}, nil
	}

	var models []ReminderModel
	if err := json.Unmarshal(data, &models); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reminders: %w", err)
	}

	reminders := make([]*domain.Reminder, 0, len(models))
	for i := range models {
		r, err := models[i].ToEntity()
		if err != nil {
			return nil, err
		}

		reminders = append(reminders, r)
	}

	return reminders, nil
}
