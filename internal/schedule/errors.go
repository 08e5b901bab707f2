package schedule

import (
	"errors"
	"strings"
)

var (
	// ErrEmployeeNotFound is returned by template stores for unknown employees
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrInvalidTemplate marks a weekly template that breaks range invariants.
	// It is a data quality defect of the store, not a request error.
	ErrInvalidTemplate = errors.New("invalid weekly template")
)

// Validation error fields and messages
const (
	FieldEmployeeID = "employeeId"
	FieldStartDate  = "startDate"
	FieldEndDate    = "endDate"
	FieldRange      = "range"

	MessageInvalidDate       = "invalid date"
	MessageStartAfterEnd     = "start after end"
	MessageUnknownEmployee   = "unknown employee"
	MessageInvalidEmployeeID = "invalid employee id"
	MessageRangeTooLong      = "range too long"
)

// ValidationError describes one problem with the request input
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is the accumulated, non-empty list of input problems
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, ve := range e {
		parts[i] = ve.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationErrors extracts ValidationErrors from an error chain
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return ve, true
	}
	return nil, false
}
