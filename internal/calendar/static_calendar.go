package calendar

import (
	"context"
	"time"
)

// StaticHolidays is a fixed in-memory holiday set
type StaticHolidays struct {
	dates map[string]struct{}
}

// NewStaticHolidays creates a holiday set from the given dates
func NewStaticHolidays(dates ...time.Time) *StaticHolidays {
	s := &StaticHolidays{dates: make(map[string]struct{}, len(dates))}
	for _, d := range dates {
		s.dates[dateKey(d)] = struct{}{}
	}
	return s
}

// Contains checks whether the date is a holiday
func (s *StaticHolidays) Contains(_ context.Context, date time.Time) (bool, error) {
	_, ok := s.dates[dateKey(date)]
	return ok, nil
}

// Len returns the number of holidays in the set
func (s *StaticHolidays) Len() int {
	return len(s.dates)
}
