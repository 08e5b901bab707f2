package schedule

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const localTimeLayout = "15:04"

// LocalTime is a wall clock time of day with minute precision,
// stored as minutes since midnight.
type LocalTime int

// NewLocalTime builds a LocalTime from hour and minute
func NewLocalTime(hour, minute int) (LocalTime, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time out of range: %02d:%02d", hour, minute)
	}
	return LocalTime(hour*60 + minute), nil
}

// ParseLocalTime parses "HH:MM" (a single digit hour is accepted)
func ParseLocalTime(raw string) (LocalTime, error) {
	t, err := time.Parse(localTimeLayout, strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", raw, err)
	}
	return NewLocalTime(t.Hour(), t.Minute())
}

func (t LocalTime) Hour() int   { return int(t) / 60 }
func (t LocalTime) Minute() int { return int(t) % 60 }

// String formats the time as HH:MM
func (t LocalTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// MarshalJSON implements json.Marshaler
func (t LocalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (t *LocalTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("time must be a string: %w", err)
	}
	parsed, err := ParseLocalTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TimeRange is one contiguous working interval within a day
type TimeRange struct {
	Start LocalTime `json:"start"`
	End   LocalTime `json:"end"`
}

// NewTimeRange parses a pair of HH:MM strings into a validated range
func NewTimeRange(start, end string) (TimeRange, error) {
	s, err := ParseLocalTime(start)
	if err != nil {
		return TimeRange{}, err
	}
	e, err := ParseLocalTime(end)
	if err != nil {
		return TimeRange{}, err
	}
	tr := TimeRange{Start: s, End: e}
	if err := tr.Validate(); err != nil {
		return TimeRange{}, err
	}
	return tr, nil
}

// MustTimeRange is like NewTimeRange but panics on error. Intended for fixtures.
func MustTimeRange(start, end string) TimeRange {
	tr, err := NewTimeRange(start, end)
	if err != nil {
		panic(err)
	}
	return tr
}

// Validate checks start < end
func (tr TimeRange) Validate() error {
	if tr.Start >= tr.End {
		return fmt.Errorf("%w: range %s must start before it ends", ErrInvalidTemplate, tr)
	}
	return nil
}

// Duration returns the length of the range
func (tr TimeRange) Duration() time.Duration {
	return time.Duration(tr.End-tr.Start) * time.Minute
}

func (tr TimeRange) String() string {
	return tr.Start.String() + "-" + tr.End.String()
}
