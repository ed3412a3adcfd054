package domain

import (
	"strings"
	"time"
)

type Reminder struct {
	id        ReminderID
	name      string
	roomID    string
	message   string
	schedule  Schedule
	enabled   bool
	apiToken  string
	createdAt time.Time
}

func NewReminder(
	name string,
	roomID string,
	message string,
	schedule Schedule,
	apiToken string,
) (*Reminder, error) {
	r := &Reminder{
		id:        NewReminderID(),
		schedule:  schedule,
		enabled:   true,
		apiToken:  apiToken,
		createdAt: time.Now().UTC(),
	}

	if err := r.Rename(name); err != nil {
		return nil, err
	}

	if err := r.MoveToRoom(roomID); err != nil {
		return nil, err
	}

	if err := r.ChangeMessage(message); err != nil {
		return nil, err
	}

	return r, nil
}

func ReconstituteReminder(
	id ReminderID,
	name string,
	roomID string,
	message string,
	schedule Schedule,
	enabled bool,
	apiToken string,
	createdAt time.Time,
) *Reminder {
	return &Reminder{
		id:        id,
		name:      name,
		roomID:    roomID,
		message:   message,
		schedule:  schedule,
		enabled:   enabled,
		apiToken:  apiToken,
		createdAt: createdAt,
	}
}

func (r *Reminder) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}

	r.name = name

	return nil
}

func (r *Reminder) MoveToRoom(roomID string) error {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return ErrEmptyRoomID
	}

	r.roomID = roomID

	return nil
}

func (r *Reminder) ChangeMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}

	r.message = message

	return nil
}

func (r *Reminder) Reschedule(schedule Schedule) {
	r.schedule = schedule
}

// SetAPIToken overrides the shared chat credential for this reminder only.
// An empty token falls back to the shared one.
func (r *Reminder) SetAPIToken(token string) {
	r.apiToken = token
}

func (r *Reminder) SetEnabled(enabled bool) {
	r.enabled = enabled
}

func (r *Reminder) Toggle() {
	r.enabled = !r.enabled
}

func (r *Reminder) ID() ReminderID {
	return r.id
}

func (r *Reminder) Name() string {
	return r.name
}

func (r *Reminder) RoomID() string {
	return r.roomID
}

func (r *Reminder) Message() string {
	return r.message
}

func (r *Reminder) Schedule() Schedule {
	return r.schedule
}

func (r *Reminder) IsEnabled() bool {
	return r.enabled
}

func (r *Reminder) APIToken() string {
	return r.apiToken
}

func (r *Reminder) HasOwnToken() bool {
	return r.apiToken != ""
}

func (r *Reminder) CreatedAt() time.Time {
	return r.createdAt
}

// FindReminder returns the index of the reminder with the given id, or -1.
func FindReminder(reminders []*Reminder, id ReminderID) int {
	for i, r := range reminders {
		if r.ID().Equals(id) {
			return i
		}
	}

	return -1
}
