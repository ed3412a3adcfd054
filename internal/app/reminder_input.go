package app

type ScheduleInput struct {
	Type       string
	Time       string
	DayOfWeek  int
	DayOfMonth int
}

type CreateReminderInput struct {
	Name     string
	RoomID   string
	Message  string
	Schedule ScheduleInput
	APIToken string
}

// UpdateReminderInput merges only the non-nil fields into the stored
// reminder. An empty APIToken removes the reminder's own token.
type UpdateReminderInput struct {
	ID       string
	Name     *string
	RoomID   *string
	Message  *string
	Schedule *ScheduleInput
	Enabled  *bool
	APIToken *string
}

type ToggleReminderInput struct {
	ID string
}

type DeleteReminderInput struct {
	ID string
}
