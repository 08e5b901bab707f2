package calendar

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/username/employee-schedule/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	isdayoffBaseURL    = "https://isdayoff.ru"
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = 24 * time.Hour
)

// IsDayOffCalendar implements HolidaySet using the isdayoff.ru bulk API
type IsDayOffCalendar struct {
	client   *resty.Client
	logger   *zap.Logger
	cache    map[string]*cachedMonth // key: "YYYY-MM"
	cacheMu  sync.RWMutex
	cacheTTL time.Duration
	now      func() time.Time
}

type cachedMonth struct {
	holidays  map[int]bool // day of month -> holiday
	fetchedAt time.Time
}

// NewIsDayOffCalendar creates a new IsDayOffCalendar instance.
// An empty baseURL uses the public isdayoff.ru endpoint.
func NewIsDayOffCalendar(baseURL string, cacheTTL time.Duration, logger *zap.Logger) *IsDayOffCalendar {
	if baseURL == "" {
		baseURL = isdayoffBaseURL
	}
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(defaultHTTPTimeout)

	return &IsDayOffCalendar{
		client:   client,
		logger:   logger,
		cache:    make(map[string]*cachedMonth),
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// Contains checks whether the date is a holiday
func (c *IsDayOffCalendar) Contains(ctx context.Context, date time.Time) (bool, error) {
	holidays, err := c.monthHolidays(ctx, date.Year(), date.Month())
	if err != nil {
		return false, err
	}
	return holidays[date.Day()], nil
}

func (c *IsDayOffCalendar) monthHolidays(ctx context.Context, year int, month time.Month) (map[int]bool, error) {
	cacheKey := fmt.Sprintf("%d-%02d", year, month)

	c.cacheMu.RLock()
	if cached, ok := c.cache[cacheKey]; ok {
		if c.now().Sub(cached.fetchedAt) < c.cacheTTL {
			c.cacheMu.RUnlock()
			return cached.holidays, nil
		}
	}
	c.cacheMu.RUnlock()

	holidays, err := c.fetchMonthFromAPI(ctx, year, month)
	if err != nil {
		return nil, err
	}

	c.cacheMu.Lock()
	c.cache[cacheKey] = &cachedMonth{
		holidays:  holidays,
		fetchedAt: c.now(),
	}
	c.cacheMu.Unlock()

	return holidays, nil
}

// fetchMonthFromAPI fetches entire month from isdayoff.ru bulk API
func (c *IsDayOffCalendar) fetchMonthFromAPI(ctx context.Context, year int, month time.Month) (map[int]bool, error) {
	c.logger.Debug("Fetching month from isdayoff.ru",
		zap.Int("year", year),
		zap.Int("month", int(month)))

	// GET /api/getdata?year=2021&month=2&pre=1
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"year":  strconv.Itoa(year),
			"month": strconv.Itoa(int(month)),
			"pre":   "1",
		}).
		Get("/api/getdata")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch calendar data: %w", ErrCalendarUnavailable, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: API returned status %d", ErrCalendarUnavailable, resp.StatusCode())
	}

	holidays, err := parseBulkResponse(year, month, strings.TrimSpace(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse bulk response: %w", ErrCalendarUnavailable, err)
	}

	c.logger.Info("Month info fetched from API",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("holidays", len(holidays)))

	return holidays, nil
}

// parseBulkResponse parses isdayoff.ru bulk response string
// Format: "211100011000001100000110000011" where:
// 0 = working day
// 1 = non-working day (holiday/weekend)
// 2 = shortened day (working)
// Non-working codes on weekend days are not reported as holidays.
func parseBulkResponse(year int, month time.Month, data string) (map[int]bool, error) {
	daysInMonth := dateutil.DaysInMonth(year, month)

	if len(data) != daysInMonth {
		return nil, fmt.Errorf("bulk data length mismatch: expected %d, got %d", daysInMonth, len(data))
	}

	holidays := make(map[int]bool)
	for i, code := range data {
		day := i + 1
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

		switch code {
		case '0', '2':
		case '1':
			if !dateutil.IsWeekend(date) {
				holidays[day] = true
			}
		default:
			return nil, fmt.Errorf("unknown code '%c' at position %d", code, i)
		}
	}

	return holidays, nil
}

// ClearCache clears the cache
func (c *IsDayOffCalendar) ClearCache() {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	c.cache = make(map[string]*cachedMonth)
	c.logger.Info("Calendar cache cleared")
}
