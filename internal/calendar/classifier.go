package calendar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Classifier decides whether a date is a working day using fixed
// weekend days plus a holiday set.
type Classifier struct {
	holidays HolidaySet
	weekend  map[time.Weekday]bool
	logger   *zap.Logger
}

// NewClassifier creates a Classifier. An empty weekendDays uses DefaultWeekendDays.
func NewClassifier(holidays HolidaySet, weekendDays []time.Weekday, logger *zap.Logger) *Classifier {
	if len(weekendDays) == 0 {
		weekendDays = DefaultWeekendDays
	}

	weekend := make(map[time.Weekday]bool, len(weekendDays))
	for _, day := range weekendDays {
		weekend[day] = true
	}

	return &Classifier{
		holidays: holidays,
		weekend:  weekend,
		logger:   logger,
	}
}

// IsWorkingDay checks if the given date is a working day
func (c *Classifier) IsWorkingDay(ctx context.Context, date time.Time) (bool, error) {
	dayType, err := c.DayType(ctx, date)
	if err != nil {
		return false, err
	}
	return dayType == DayTypeWorkday, nil
}

// DayType classifies the date. Weekends win over holidays, so a holiday
// falling on a weekend is reported once, as a weekend.
func (c *Classifier) DayType(ctx context.Context, date time.Time) (DayType, error) {
	if c.weekend[date.Weekday()] {
		return DayTypeWeekend, nil
	}

	if c.holidays == nil {
		return DayTypeWorkday, nil
	}

	holiday, err := c.holidays.Contains(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("failed to check holiday %s: %w", dateKey(date), err)
	}
	if holiday {
		c.logger.Debug("Holiday excluded", zap.String("date", dateKey(date)))
		return DayTypeHoliday, nil
	}

	return DayTypeWorkday, nil
}
