package domain

import (
	"fmt"
	"strconv"
)

type ScheduleType string

const (
	ScheduleDaily   ScheduleType = "daily"
	ScheduleWeekly  ScheduleType = "weekly"
	ScheduleMonthly ScheduleType = "monthly"
)

func NewScheduleType(t string) (ScheduleType, error) {
	switch t {
	case string(ScheduleDaily), string(ScheduleWeekly), string(ScheduleMonthly):
		return ScheduleType(t), nil
	default:
		return "", fmt.Errorf("%w: unknown type %q", ErrInvalidSchedule, t)
	}
}

type TimeOfDay struct {
	hour   int
	minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}

	hour, err := strconv.Atoi(s[:2])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}

	minute, err := strconv.Atoi(s[3:])
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}

	return TimeOfDay{hour: hour, minute: minute}, nil
}

func (t TimeOfDay) Hour() int {
	return t.hour
}

func (t TimeOfDay) Minute() int {
	return t.minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}

// Schedule is a recurring local time. Day selectors only carry meaning for
// their own type: dayOfWeek for weekly, dayOfMonth for monthly.
//
// dayOfMonth is not checked against calendar length; day 31 simply never
// fires in shorter months.
type Schedule struct {
	scheduleType ScheduleType
	time         string
	dayOfWeek    int
	dayOfMonth   int
}

func NewSchedule(scheduleType string, timeOfDay string, dayOfWeek, dayOfMonth int) (Schedule, error) {
	t, err := NewScheduleType(scheduleType)
	if err != nil {
		return Schedule{}, err
	}

	tod, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return Schedule{}, err
	}

	s := Schedule{
		scheduleType: t,
		time:         tod.String(),
	}

	switch t {
	case ScheduleWeekly:
		if dayOfWeek < 0 || dayOfWeek > 6 {
			return Schedule{}, ErrInvalidDayOfWeek
		}

		s.dayOfWeek = dayOfWeek
	case ScheduleMonthly:
		if dayOfMonth < 1 || dayOfMonth > 31 {
			return Schedule{}, ErrInvalidDayOfMonth
		}

		s.dayOfMonth = dayOfMonth
	}

	return s, nil
}

// ReconstituteSchedule rebuilds a persisted schedule without validating it.
// Records written by hand or by older versions may be malformed; they fail
// later, when a job definition is derived from them.
func ReconstituteSchedule(scheduleType string, timeOfDay string, dayOfWeek, dayOfMonth int) Schedule {
	return Schedule{
		scheduleType: ScheduleType(scheduleType),
		time:         timeOfDay,
		dayOfWeek:    dayOfWeek,
		dayOfMonth:   dayOfMonth,
	}
}

func (s Schedule) Type() ScheduleType {
	return s.scheduleType
}

func (s Schedule) Time() string {
	return s.time
}

func (s Schedule) DayOfWeek() int {
	return s.dayOfWeek
}

func (s Schedule) DayOfMonth() int {
	return s.dayOfMonth
}
