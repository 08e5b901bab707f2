package schedule_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/employee-schedule/internal/schedule"
	"go.uber.org/zap"
)

func TestValidate_Valid(t *testing.T) {
	validator := schedule.NewValidator(newFixtureStore(), 0, zap.NewNop())

	query, err := validator.Validate(context.Background(), "2", "2021-02-23", "2021-02-24")
	require.NoError(t, err)
	assert.Equal(t, int64(2), query.EmployeeID)
	assert.Equal(t, "2021-02-23", query.Range.Start.String())
	assert.Equal(t, "2021-02-24", query.Range.End.String())
	assert.Equal(t, 2, query.Range.Days())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		employeeID string
		start      string
		end        string
		want       schedule.ValidationErrors
	}{
		{
			name:       "both dates invalid",
			employeeID: "1",
			start:      "invalid date",
			end:        "invalid date",
			want: schedule.ValidationErrors{
				{Field: schedule.FieldStartDate, Message: schedule.MessageInvalidDate},
				{Field: schedule.FieldEndDate, Message: schedule.MessageInvalidDate},
			},
		},
		{
			name:       "start after end",
			employeeID: "1",
			start:      "2021-01-17",
			end:        "2021-01-16",
			want: schedule.ValidationErrors{
				{Field: schedule.FieldRange, Message: schedule.MessageStartAfterEnd},
			},
		},
		{
			name:       "unknown employee",
			employeeID: "3",
			start:      "2021-01-11",
			end:        "2021-01-11",
			want: schedule.ValidationErrors{
				{Field: schedule.FieldEmployeeID, Message: schedule.MessageUnknownEmployee},
			},
		},
		{
			name:       "malformed employee id",
			employeeID: "abc",
			start:      "2021-01-11",
			end:        "2021-01-11",
			want: schedule.ValidationErrors{
				{Field: schedule.FieldEmployeeID, Message: schedule.MessageInvalidEmployeeID},
			},
		},
		{
			name:       "everything wrong at once",
			employeeID: "-1",
			start:      "",
			end:        "2021-13-01",
			want: schedule.ValidationErrors{
				{Field: schedule.FieldStartDate, Message: schedule.MessageInvalidDate},
				{Field: schedule.FieldEndDate, Message: schedule.MessageInvalidDate},
				{Field: schedule.FieldEmployeeID, Message: schedule.MessageInvalidEmployeeID},
			},
		},
		{
			name:       "unknown employee and inverted range",
			employeeID: "99",
			start:      "2021-02-24",
			end:        "2021-02-23",
			want: schedule.ValidationErrors{
				{Field: schedule.FieldRange, Message: schedule.MessageStartAfterEnd},
				{Field: schedule.FieldEmployeeID, Message: schedule.MessageUnknownEmployee},
			},
		},
	}

	validator := schedule.NewValidator(newFixtureStore(), 0, zap.NewNop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validator.Validate(context.Background(), tt.employeeID, tt.start, tt.end)
			require.Error(t, err)

			got, ok := schedule.AsValidationErrors(err)
			require.True(t, ok, "expected validation errors, got %v", err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_RangeTooLong(t *testing.T) {
	validator := schedule.NewValidator(newFixtureStore(), 31, zap.NewNop())

	_, err := validator.Validate(context.Background(), "1", "2021-01-01", "2021-01-31")
	require.NoError(t, err)

	_, err = validator.Validate(context.Background(), "1", "2021-01-01", "2021-02-01")
	got, ok := schedule.AsValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, schedule.ValidationErrors{
		{Field: schedule.FieldRange, Message: schedule.MessageRangeTooLong},
	}, got)
}

type unavailableStore struct{}

var errStoreDown = errors.New("connection refused")

func (unavailableStore) WeeklyTemplate(context.Context, int64) (schedule.WeeklyTemplate, error) {
	return nil, errStoreDown
}

func TestValidate_StoreFailureIsNotValidationError(t *testing.T) {
	validator := schedule.NewValidator(unavailableStore{}, 0, zap.NewNop())

	_, err := validator.Validate(context.Background(), "1", "2021-01-11", "2021-01-11")
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)

	_, isValidation := schedule.AsValidationErrors(err)
	assert.False(t, isValidation)
}

func TestService_EmployeeSchedule(t *testing.T) {
	store := newFixtureStore()
	service := schedule.NewService(
		schedule.NewValidator(store, 0, zap.NewNop()),
		newFixtureResolver(store),
		zap.NewNop())

	result, err := service.EmployeeSchedule(context.Background(), "1", "2021-01-11", "2021-01-17")
	require.NoError(t, err)
	assert.Len(t, result, 5)

	_, err = service.EmployeeSchedule(context.Background(), "1", "invalid date", "invalid date")
	errs, ok := schedule.AsValidationErrors(err)
	require.True(t, ok)
	assert.NotEmpty(t, errs)
}
