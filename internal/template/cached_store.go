package template

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/username/employee-schedule/internal/schedule"
	"go.uber.org/zap"
)

const defaultCacheSize = 1024

// CachedStore puts an LRU cache in front of another TemplateStore.
// Unknown employees and errors are not cached.
type CachedStore struct {
	next   schedule.TemplateStore
	cache  *lru.Cache[int64, schedule.WeeklyTemplate]
	logger *zap.Logger
}

// NewCachedStore wraps next with a cache of the given size (default 1024)
func NewCachedStore(next schedule.TemplateStore, size int, logger *zap.Logger) (*CachedStore, error) {
	if size <= 0 {
		size = defaultCacheSize
	}

	cache, err := lru.New[int64, schedule.WeeklyTemplate](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create template cache: %w", err)
	}

	return &CachedStore{
		next:   next,
		cache:  cache,
		logger: logger,
	}, nil
}

// WeeklyTemplate returns the cached template or loads it from the wrapped store
func (s *CachedStore) WeeklyTemplate(ctx context.Context, employeeID int64) (schedule.WeeklyTemplate, error) {
	if template, ok := s.cache.Get(employeeID); ok {
		return cloneTemplate(template), nil
	}

	template, err := s.next.WeeklyTemplate(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	s.cache.Add(employeeID, cloneTemplate(template))
	s.logger.Debug("Template cached", zap.Int64("employee_id", employeeID))

	return template, nil
}

// Purge drops every cached template
func (s *CachedStore) Purge() {
	s.cache.Purge()
	s.logger.Info("Template cache purged")
}

// Len returns the number of cached templates
func (s *CachedStore) Len() int {
	return s.cache.Len()
}
