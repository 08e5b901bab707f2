package schedule

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Resolver expands an employee's weekly template over a date range,
// skipping days the calendar marks as non-working.
type Resolver struct {
	templates TemplateStore
	calendar  WorkdayClassifier
	logger    *zap.Logger
}

// NewResolver creates a new Resolver
func NewResolver(templates TemplateStore, calendar WorkdayClassifier, logger *zap.Logger) *Resolver {
	return &Resolver{
		templates: templates,
		calendar:  calendar,
		logger:    logger,
	}
}

// Resolve returns the employee's schedule for every working day in the range.
// Non-working days and working days without template ranges are omitted.
func (r *Resolver) Resolve(ctx context.Context, employeeID int64, dateRange DateRange) (ScheduleResult, error) {
	template, err := r.templates.WeeklyTemplate(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load template for employee %d: %w", employeeID, err)
	}
	if err := template.Validate(); err != nil {
		return nil, fmt.Errorf("employee %d: %w", employeeID, err)
	}

	result := make(ScheduleResult, 0, dateRange.Days())
	for day := dateRange.Start; !day.After(dateRange.End); day = day.AddDays(1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		working, err := r.calendar.IsWorkingDay(ctx, day.Time())
		if err != nil {
			return nil, fmt.Errorf("failed to classify %s: %w", day, err)
		}
		if !working {
			continue
		}

		ranges := template.RangesFor(day.Weekday())
		if len(ranges) == 0 {
			continue
		}

		result = append(result, DaySchedule{
			Day:        day,
			TimeRanges: append([]TimeRange(nil), ranges...),
		})
	}

	r.logger.Debug("Schedule resolved",
		zap.Int64("employee_id", employeeID),
		zap.Stringer("range", dateRange),
		zap.Int("scheduled_days", len(result)))

	return result, nil
}
