package schedule

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Query is a validated schedule request
type Query struct {
	EmployeeID int64
	Range      DateRange
}

// Validator turns raw request input into a Query or a list of validation errors
type Validator struct {
	templates TemplateStore
	maxDays   int
	logger    *zap.Logger
}

// NewValidator creates a validator. maxDays <= 0 disables the range length limit.
func NewValidator(templates TemplateStore, maxDays int, logger *zap.Logger) *Validator {
	return &Validator{
		templates: templates,
		maxDays:   maxDays,
		logger:    logger,
	}
}

// Validate checks all inputs and collects every problem found.
// Input problems are returned as ValidationErrors; template store
// failures other than ErrEmployeeNotFound are returned as-is.
func (v *Validator) Validate(ctx context.Context, rawEmployeeID, rawStart, rawEnd string) (Query, error) {
	var errs ValidationErrors

	start, startErr := ParseDate(rawStart)
	if startErr != nil {
		errs = append(errs, ValidationError{Field: FieldStartDate, Message: MessageInvalidDate})
	}

	end, endErr := ParseDate(rawEnd)
	if endErr != nil {
		errs = append(errs, ValidationError{Field: FieldEndDate, Message: MessageInvalidDate})
	}

	var dateRange DateRange
	if startErr == nil && endErr == nil {
		var err error
		dateRange, err = NewDateRange(start, end)
		switch {
		case err != nil:
			errs = append(errs, ValidationError{Field: FieldRange, Message: MessageStartAfterEnd})
		case v.maxDays > 0 && dateRange.Days() > v.maxDays:
			errs = append(errs, ValidationError{Field: FieldRange, Message: MessageRangeTooLong})
		}
	}

	employeeID, err := parseEmployeeID(rawEmployeeID)
	if err != nil {
		errs = append(errs, ValidationError{Field: FieldEmployeeID, Message: MessageInvalidEmployeeID})
	} else {
		_, err := v.templates.WeeklyTemplate(ctx, employeeID)
		switch {
		case errors.Is(err, ErrEmployeeNotFound):
			errs = append(errs, ValidationError{Field: FieldEmployeeID, Message: MessageUnknownEmployee})
		case err != nil:
			return Query{}, fmt.Errorf("failed to look up employee %d: %w", employeeID, err)
		}
	}

	if len(errs) > 0 {
		v.logger.Debug("Request rejected",
			zap.String("employee_id", rawEmployeeID),
			zap.String("start_date", rawStart),
			zap.String("end_date", rawEnd),
			zap.Int("errors", len(errs)))
		return Query{}, errs
	}

	return Query{EmployeeID: employeeID, Range: dateRange}, nil
}

func parseEmployeeID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("employee id must be positive, got %d", id)
	}
	return id, nil
}
