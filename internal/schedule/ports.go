package schedule

import (
	"context"
	"time"
)

// TemplateStore supplies employees' weekly templates.
// Unknown employees are reported with ErrEmployeeNotFound.
type TemplateStore interface {
	WeeklyTemplate(ctx context.Context, employeeID int64) (WeeklyTemplate, error)
}

// WorkdayClassifier decides whether a date is a working day
type WorkdayClassifier interface {
	IsWorkingDay(ctx context.Context, date time.Time) (bool, error)
}
