package workflow

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/KasumiMercury/primind-chat-reminder/internal/domain"
)

// SourceUTCOffsetHours is the offset of the wall clock reminders are entered in (JST).
const SourceUTCOffsetHours = 9

// ToCron converts a local schedule into a five-field cron expression in UTC.
//
// Only the hour is shifted. When the shift crosses midnight the day-of-week
// and day-of-month selectors are kept as entered, so a 02:00 Monday reminder
// fires at 17:00 UTC on Monday, which is Tuesday 02:00 local.
func ToCron(s domain.Schedule) (string, error) {
	tod, err := domain.ParseTimeOfDay(s.Time())
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidSchedule, err)
	}

	utcHour := tod.Hour() - SourceUTCOffsetHours
	if utcHour < 0 {
		utcHour += 24
	}

	minute := tod.Minute()

	switch s.Type() {
	case domain.ScheduleDaily:
		return fmt.Sprintf("%d %d * * *", minute, utcHour), nil
	case domain.ScheduleWeekly:
		if s.DayOfWeek() < 0 || s.DayOfWeek() > 6 {
			return "", fmt.Errorf("%w: %v", domain.ErrInvalidSchedule, domain.ErrInvalidDayOfWeek)
		}

		return fmt.Sprintf("%d %d * * %d", minute, utcHour, s.DayOfWeek()), nil
	case domain.ScheduleMonthly:
		if s.DayOfMonth() < 1 || s.DayOfMonth() > 31 {
			return "", fmt.Errorf("%w: %v", domain.ErrInvalidSchedule, domain.ErrInvalidDayOfMonth)
		}

		return fmt.Sprintf("%d %d %d * *", minute, utcHour, s.DayOfMonth()), nil
	default:
		return "", fmt.Errorf("%w: unknown type %q", domain.ErrInvalidSchedule, s.Type())
	}
}

// NextRun returns the first UTC fire time of expr strictly after now.
func NextRun(expr string, now time.Time) (time.Time, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", domain.ErrInvalidSchedule, err)
	}

	return sched.Next(now.UTC()), nil
}
