package schedule

import (
	"fmt"
	"time"
)

// DaySchedule is the resolved working time of one calendar day
type DaySchedule struct {
	Day        Date        `json:"day"`
	TimeRanges []TimeRange `json:"timeRanges"`
}

// ScheduleResult lists the scheduled days of a range in ascending date order.
// Excluded days are absent rather than present with no ranges.
type ScheduleResult []DaySchedule

// Find returns the schedule of the given day, or nil when the day is absent
func (r ScheduleResult) Find(day Date) *DaySchedule {
	for i := range r {
		if r[i].Day.Equal(day) {
			return &r[i]
		}
	}
	return nil
}

// TotalDuration sums the working time over all days
func (r ScheduleResult) TotalDuration() time.Duration {
	var total time.Duration
	for _, day := range r {
		for _, tr := range day.TimeRanges {
			total += tr.Duration()
		}
	}
	return total
}

// DateRange is an inclusive range of calendar dates with Start <= End
type DateRange struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// NewDateRange builds a range, rejecting Start > End
func NewDateRange(start, end Date) (DateRange, error) {
	if start.After(end) {
		return DateRange{}, fmt.Errorf("start %s is after end %s", start, end)
	}
	return DateRange{Start: start, End: end}, nil
}

const secondsPerDay = 24 * 60 * 60

// Days returns the number of days in the range, both ends included
func (r DateRange) Days() int {
	// time.Duration overflows after ~292 years, count in seconds instead
	return int((r.End.Time().Unix()-r.Start.Time().Unix())/secondsPerDay) + 1
}

// Contains reports whether d falls inside the range
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) String() string {
	return r.Start.String() + ".." + r.End.String()
}

// WeeklyTemplate is an employee's recurring working pattern keyed by weekday
type WeeklyTemplate map[time.Weekday][]TimeRange

// RangesFor returns the ranges declared for the weekday (nil when none)
func (w WeeklyTemplate) RangesFor(day time.Weekday) []TimeRange {
	return w[day]
}

// Validate checks every weekday's ranges are well formed, ascending by start
// and non-overlapping. Violations wrap ErrInvalidTemplate.
func (w WeeklyTemplate) Validate() error {
	for day := time.Sunday; day <= time.Saturday; day++ {
		ranges := w[day]
		for i, tr := range ranges {
			if err := tr.Validate(); err != nil {
				return fmt.Errorf("%s: %w", day, err)
			}
			if i == 0 {
				continue
			}
			prev := ranges[i-1]
			if tr.Start < prev.End {
				return fmt.Errorf("%w: %s: range %s overlaps or precedes %s",
					ErrInvalidTemplate, day, tr, prev)
			}
		}
	}
	return nil
}
