package calendar

import (
	"context"
	"errors"
	"time"

	"github.com/username/employee-schedule/pkg/dateutil"
)

// DayType represents the type of day
type DayType int

const (
	DayTypeWorkday DayType = iota + 1
	DayTypeWeekend
	DayTypeHoliday
)

func (t DayType) String() string {
	switch t {
	case DayTypeWorkday:
		return "workday"
	case DayTypeWeekend:
		return "weekend"
	case DayTypeHoliday:
		return "holiday"
	}
	return "unknown"
}

// ErrCalendarUnavailable is returned when no holiday source could answer
var ErrCalendarUnavailable = errors.New("holiday calendar unavailable")

// HolidaySet reports calendar-wide holidays
type HolidaySet interface {
	// Contains checks whether the date is a holiday
	Contains(ctx context.Context, date time.Time) (bool, error)
}

// DefaultWeekendDays are the non-working weekdays of the reference calendar
var DefaultWeekendDays = []time.Weekday{time.Saturday, time.Sunday}

func dateKey(date time.Time) string {
	return date.Format(dateutil.DateLayout)
}
