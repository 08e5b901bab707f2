package calendar

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/username/employee-schedule/pkg/dateutil"
	"go.uber.org/zap"
)

// FileCalendar implements HolidaySet using a local text file
type FileCalendar struct {
	filePath string
	logger   *zap.Logger
	mu       sync.RWMutex
	holidays map[string]string // "YYYY-MM-DD" -> note
	loaded   bool
}

// NewFileCalendar creates a new FileCalendar instance
func NewFileCalendar(filePath string, logger *zap.Logger) *FileCalendar {
	return &FileCalendar{
		filePath: filePath,
		logger:   logger,
		holidays: make(map[string]string),
	}
}

// Load loads calendar data from file, replacing anything loaded before
func (fc *FileCalendar) Load() error {
	file, err := os.Open(fc.filePath)
	if err != nil {
		return fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	holidays := make(map[string]string)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Format: YYYY-MM-DD type [note]
		// Example: 2021-02-23 holiday Defender of the Fatherland Day
		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 2 {
			fc.logger.Warn("Invalid line format", zap.String("line", line))
			continue
		}

		date, err := time.Parse(dateutil.DateLayout, parts[0])
		if err != nil {
			fc.logger.Warn("Failed to parse date", zap.String("date", parts[0]), zap.Error(err))
			continue
		}

		note := ""
		if len(parts) == 3 {
			note = strings.TrimSpace(parts[2])
		}

		switch parts[1] {
		case "holiday":
			holidays[dateKey(date)] = note
		case "workday", "weekend", "shortened":
			// Only holidays matter; weekends come from the classifier.
		default:
			fc.logger.Warn("Unknown day type", zap.String("type", parts[1]))
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading calendar file: %w", err)
	}

	fc.mu.Lock()
	fc.holidays = holidays
	fc.loaded = true
	fc.mu.Unlock()

	fc.logger.Info("Calendar file loaded",
		zap.String("file", fc.filePath),
		zap.Int("holidays", len(holidays)))

	return nil
}

// Contains checks whether the date is a holiday
func (fc *FileCalendar) Contains(_ context.Context, date time.Time) (bool, error) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	if !fc.loaded {
		return false, fmt.Errorf("%w: %s not loaded", ErrCalendarUnavailable, fc.filePath)
	}

	_, ok := fc.holidays[dateKey(date)]
	return ok, nil
}

// Note returns the note recorded for a holiday
func (fc *FileCalendar) Note(date time.Time) (string, bool) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	note, ok := fc.holidays[dateKey(date)]
	return note, ok
}

// Reload re-reads the file, keeping the previous data when that fails
func (fc *FileCalendar) Reload() {
	if err := fc.Load(); err != nil {
		fc.logger.Warn("Failed to reload calendar file, keeping previous data",
			zap.String("file", fc.filePath),
			zap.Error(err))
	}
}
