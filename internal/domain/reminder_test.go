package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-chat-reminder/internal/domain"
)

func createDailySchedule(t *testing.T) domain.Schedule {
	t.Helper()

	s, err := domain.NewSchedule("daily", "09:00", 0, 0)
	require.NoError(t, err)

	return s
}

func TestNewReminderSuccess(t *testing.T) {
	tests := []struct {
		name     string
		apiToken string
		ownToken bool
	}{
		{
			name:     "shared credential",
			apiToken: "",
			ownToken: false,
		},
		{
			name:     "own credential",
			apiToken: "secret-token",
			ownToken: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := time.Now().UTC()

			r, err := domain.NewReminder("daily check-in", "123456", "good morning", createDailySchedule(t), tt.apiToken)

			require.NoError(t, err)
			assert.False(t, r.ID().IsZero())
			assert.Equal(t, "daily check-in", r.Name())
			assert.Equal(t, "123456", r.RoomID())
			assert.Equal(t, "good morning", r.Message())
			assert.Equal(t, domain.ScheduleDaily, r.Schedule().Type())
			assert.True(t, r.IsEnabled())
			assert.Equal(t, tt.ownToken, r.HasOwnToken())
			assert.False(t, r.CreatedAt().Before(before))
		})
	}
}

func TestNewReminderError(t *testing.T) {
	tests := []struct {
		name        string
		reminder    string
		roomID      string
		message     string
		expectedErr error
	}{
		{
			name:        "empty name",
			reminder:    "  ",
			roomID:      "1",
			message:     "hi",
			expectedErr: domain.ErrEmptyName,
		},
		{
			name:        "empty room",
			reminder:    "n",
			roomID:      "",
			message:     "hi",
			expectedErr: domain.ErrEmptyRoomID,
		},
		{
			name:        "empty message",
			reminder:    "n",
			roomID:      "1",
			message:     "",
			expectedErr: domain.ErrEmptyMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := domain.NewReminder(tt.reminder, tt.roomID, tt.message, createDailySchedule(t), "")

			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Nil(t, r)
		})
	}
}

func TestReminderToggle(t *testing.T) {
	r, err := domain.NewReminder("n", "1", "m", createDailySchedule(t), "")
	require.NoError(t, err)

	r.Toggle()
	assert.False(t, r.IsEnabled())

	r.Toggle()
	assert.True(t, r.IsEnabled())

	r.SetEnabled(false)
	assert.False(t, r.IsEnabled())
}

func TestReminderMutationsKeepIdentity(t *testing.T) {
	r, err := domain.NewReminder("n", "1", "m", createDailySchedule(t), "")
	require.NoError(t, err)

	id := r.ID()
	createdAt := r.CreatedAt()

	weekly, err := domain.NewSchedule("weekly", "18:30", 1, 0)
	require.NoError(t, err)

	require.NoError(t, r.Rename("renamed"))
	require.NoError(t, r.MoveToRoom("99"))
	require.NoError(t, r.ChangeMessage("new body"))
	r.Reschedule(weekly)
	r.SetAPIToken("tok")

	assert.Equal(t, id, r.ID())
	assert.Equal(t, createdAt, r.CreatedAt())
	assert.Equal(t, "renamed", r.Name())
	assert.Equal(t, "99", r.RoomID())
	assert.Equal(t, "new body", r.Message())
	assert.Equal(t, domain.ScheduleWeekly, r.Schedule().Type())
	assert.True(t, r.HasOwnToken())
}

func TestFindReminder(t *testing.T) {
	a, err := domain.NewReminder("a", "1", "m", createDailySchedule(t), "")
	require.NoError(t, err)
	b, err := domain.NewReminder("b", "1", "m", createDailySchedule(t), "")
	require.NoError(t, err)

	list := []*domain.Reminder{a, b}

	assert.Equal(t, 1, domain.FindReminder(list, b.ID()))
	assert.Equal(t, -1, domain.FindReminder(list, domain.NewReminderID()))
}
