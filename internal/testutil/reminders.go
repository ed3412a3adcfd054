package testutil

import (
	"testing"

	"github.com/KasumiMercury/primind-chat-reminder/internal/domain"
)

// NewDailyReminder builds a valid enabled daily reminder.
func NewDailyReminder(t *testing.T, name string, timeOfDay string) *domain.Reminder {
	t.Helper()

	s, err := domain.NewSchedule("daily", timeOfDay, 0, 0)
	if err != nil {
		t.Fatalf("failed to build schedule: %v", err)
	}

	r, err := domain.NewReminder(name, "123456", "message for "+name, s, "")
	if err != nil {
		t.Fatalf("failed to build reminder: %v", err)
	}

	return r
}
