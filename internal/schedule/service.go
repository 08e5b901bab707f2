package schedule

import (
	"context"

	"go.uber.org/zap"
)

// Service runs validation and resolution for one request
type Service struct {
	validator *Validator
	resolver  *Resolver
	logger    *zap.Logger
}

// NewService creates a new Service
func NewService(validator *Validator, resolver *Resolver, logger *zap.Logger) *Service {
	return &Service{
		validator: validator,
		resolver:  resolver,
		logger:    logger,
	}
}

// EmployeeSchedule validates the raw input and resolves the schedule.
// A ValidationErrors error means the input was rejected; any other error
// is an infrastructure failure.
func (s *Service) EmployeeSchedule(ctx context.Context, rawEmployeeID, rawStart, rawEnd string) (ScheduleResult, error) {
	query, err := s.validator.Validate(ctx, rawEmployeeID, rawStart, rawEnd)
	if err != nil {
		return nil, err
	}

	result, err := s.resolver.Resolve(ctx, query.EmployeeID, query.Range)
	if err != nil {
		s.logger.Error("Failed to resolve schedule",
			zap.Int64("employee_id", query.EmployeeID),
			zap.Stringer("range", query.Range),
			zap.Error(err))
		return nil, err
	}

	return result, nil
}
