package template

import (
	"context"
	"sort"
	"sync"

	"github.com/username/employee-schedule/internal/schedule"
)

// MemoryStore keeps weekly templates in memory
type MemoryStore struct {
	mu        sync.RWMutex
	templates map[int64]schedule.WeeklyTemplate
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		templates: make(map[int64]schedule.WeeklyTemplate),
	}
}

// Put stores (or replaces) the employee's template
func (s *MemoryStore) Put(employeeID int64, template schedule.WeeklyTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[employeeID] = cloneTemplate(template)
}

// WeeklyTemplate returns a copy of the employee's template
func (s *MemoryStore) WeeklyTemplate(_ context.Context, employeeID int64) (schedule.WeeklyTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	template, ok := s.templates[employeeID]
	if !ok {
		return nil, schedule.ErrEmployeeNotFound
	}
	return cloneTemplate(template), nil
}

// EmployeeIDs returns the ids of all stored employees in ascending order
func (s *MemoryStore) EmployeeIDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.templates))
	for id := range s.templates {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func cloneTemplate(template schedule.WeeklyTemplate) schedule.WeeklyTemplate {
	clone := make(schedule.WeeklyTemplate, len(template))
	for day, ranges := range template {
		clone[day] = append([]schedule.TimeRange(nil), ranges...)
	}
	return clone
}
