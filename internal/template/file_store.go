package template

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/username/employee-schedule/internal/schedule"
	"github.com/username/employee-schedule/pkg/dateutil"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// templatesFile is the on-disk YAML layout:
//
//	employees:
//	  - id: 1
//	    name: Late riser
//	    week:
//	      monday:
//	        - {start: "10:00", end: "13:00"}
//	        - {start: "14:00", end: "19:00"}
type templatesFile struct {
	Employees []employeeEntry `yaml:"employees"`
}

type employeeEntry struct {
	ID   int64                   `yaml:"id"`
	Name string                  `yaml:"name"`
	Week map[string][]rangeEntry `yaml:"week"`
}

type rangeEntry struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// FileStore serves weekly templates loaded from a YAML file
type FileStore struct {
	filePath string
	logger   *zap.Logger
	mu       sync.RWMutex
	store    *MemoryStore
	names    map[int64]string
}

// Employee is a template record as read from the file
type Employee struct {
	ID       int64
	Name     string
	Template schedule.WeeklyTemplate
}

// NewFileStore creates a new file-backed template store
func NewFileStore(filePath string, logger *zap.Logger) *FileStore {
	return &FileStore{
		filePath: filePath,
		logger:   logger,
		store:    NewMemoryStore(),
	}
}

// Load reads the template file, replacing previously loaded templates
func (fs *FileStore) Load() error {
	data, err := os.ReadFile(fs.filePath)
	if err != nil {
		return fmt.Errorf("failed to read templates file: %w", err)
	}

	var file templatesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse templates file: %w", err)
	}

	store := NewMemoryStore()
	names := make(map[int64]string, len(file.Employees))
	for _, entry := range file.Employees {
		if entry.ID <= 0 {
			return fmt.Errorf("employee id must be positive, got %d", entry.ID)
		}

		template, err := entry.toTemplate()
		if err != nil {
			return fmt.Errorf("employee %d: %w", entry.ID, err)
		}
		if _, dup := names[entry.ID]; dup {
			return fmt.Errorf("employee %d is defined twice", entry.ID)
		}
		store.Put(entry.ID, template)
		names[entry.ID] = entry.Name
	}

	fs.mu.Lock()
	fs.store = store
	fs.names = names
	fs.mu.Unlock()

	fs.logger.Info("Templates file loaded",
		zap.String("file", fs.filePath),
		zap.Int("employees", len(file.Employees)))

	return nil
}

// WeeklyTemplate returns the employee's template
func (fs *FileStore) WeeklyTemplate(ctx context.Context, employeeID int64) (schedule.WeeklyTemplate, error) {
	fs.mu.RLock()
	store := fs.store
	fs.mu.RUnlock()

	return store.WeeklyTemplate(ctx, employeeID)
}

// Employees returns every loaded employee ordered by id
func (fs *FileStore) Employees() []Employee {
	fs.mu.RLock()
	store, names := fs.store, fs.names
	fs.mu.RUnlock()

	ids := store.EmployeeIDs()
	employees := make([]Employee, 0, len(ids))
	for _, id := range ids {
		template, err := store.WeeklyTemplate(context.Background(), id)
		if err != nil {
			continue
		}
		employees = append(employees, Employee{ID: id, Name: names[id], Template: template})
	}
	return employees
}

func (e employeeEntry) toTemplate() (schedule.WeeklyTemplate, error) {
	template := make(schedule.WeeklyTemplate, len(e.Week))
	seen := make(map[time.Weekday]string, len(e.Week))
	for dayName, entries := range e.Week {
		day, err := dateutil.ParseWeekday(dayName)
		if err != nil {
			return nil, err
		}
		// "monday" and "mon" are distinct YAML keys for the same day
		if other, dup := seen[day]; dup {
			return nil, fmt.Errorf("%s is defined twice, as %q and %q", day, other, dayName)
		}
		seen[day] = dayName

		ranges := make([]schedule.TimeRange, 0, len(entries))
		for _, re := range entries {
			tr, err := schedule.NewTimeRange(re.Start, re.End)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", dayName, err)
			}
			ranges = append(ranges, tr)
		}
		template[day] = ranges
	}
	return template, nil
}
