package calendar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// CompositeCalendar implements HolidaySet with fallback strategy
// Primary: usually IsDayOffCalendar (API)
// Fallback: usually FileCalendar (local file)
type CompositeCalendar struct {
	primary  HolidaySet
	fallback HolidaySet
	logger   *zap.Logger
}

// NewCompositeCalendar creates a new CompositeCalendar
func NewCompositeCalendar(primary, fallback HolidaySet, logger *zap.Logger) *CompositeCalendar {
	return &CompositeCalendar{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Contains checks the primary source, falling back on error
func (cc *CompositeCalendar) Contains(ctx context.Context, date time.Time) (bool, error) {
	holiday, err := cc.primary.Contains(ctx, date)
	if err == nil {
		return holiday, nil
	}
	if ctx.Err() != nil {
		// The caller gave up, the fallback answer would be discarded anyway
		return false, err
	}

	cc.logger.Warn("Primary calendar failed, falling back",
		zap.String("date", dateKey(date)),
		zap.Error(err))

	holiday, fallbackErr := cc.fallback.Contains(ctx, date)
	if fallbackErr != nil {
		return false, fmt.Errorf("%w: primary=%w, fallback=%w", ErrCalendarUnavailable, err, fallbackErr)
	}
	return holiday, nil
}

// LoadFallback loads the fallback calendar (if FileCalendar)
func (cc *CompositeCalendar) LoadFallback() error {
	if fc, ok := cc.fallback.(*FileCalendar); ok {
		if err := fc.Load(); err != nil {
			return fmt.Errorf("failed to load fallback calendar: %w", err)
		}
		cc.logger.Info("Fallback calendar loaded successfully")
	}
	return nil
}
